// Package profile shows the account, usage and sign-out.
package profile

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/scholarai/scholar/internal/api"
	"github.com/scholarai/scholar/internal/bootstrap"
	"github.com/scholarai/scholar/internal/exam"
	doclib "github.com/scholarai/scholar/internal/library"
	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/router"
	"github.com/scholarai/scholar/internal/screen"
	"github.com/scholarai/scholar/internal/ui/components"
	"github.com/scholarai/scholar/internal/ui/layout"
	"github.com/scholarai/scholar/internal/ui/theme"
)

type confirm int

const (
	confirmNone confirm = iota
	confirmLogout
	confirmPurge
)

type loggedOutMsg struct{ err error }

type purgedMsg struct {
	deleted int
	err     error
}

// Screen is the profile page.
type Screen struct {
	env     screen.Env
	confirm confirm
	purging bool
	notice  string
	alert   string
}

var _ screen.Screen = (*Screen)(nil)

// New creates the profile screen.
func New(env screen.Env) *Screen {
	return &Screen{env: env}
}

func (s *Screen) Title() string { return "Profile" }

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) logout() tea.Cmd {
	env := s.env
	return func() tea.Msg {
		return loggedOutMsg{err: bootstrap.Logout(env.Ctx, env.Auth, env.State, env.Pages, env.Log)}
	}
}

func (s *Screen) purge() tea.Cmd {
	s.purging = true
	env := s.env
	return func() tea.Msg {
		n, err := doclib.Purge(env.Ctx, env.API, env.State)
		return purgedMsg{deleted: n, err: err}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loggedOutMsg:
		return s, router.Navigate(model.PageLanding)

	case purgedMsg:
		s.purging = false
		if msg.err != nil {
			s.env.Log.Warnw("purge incomplete", "deleted", msg.deleted, "error", msg.err)
			s.alert = fmt.Sprintf("Deleted %d document(s), some could not be deleted: %s", msg.deleted, api.UserMessage(msg.err))
			return s, nil
		}
		s.notice = fmt.Sprintf("Deleted %d document(s).", msg.deleted)
		return s, nil

	case tea.KeyMsg:
		key := msg.String()
		if s.alert != "" {
			if key == "enter" || key == "esc" {
				s.alert = ""
			}
			return s, nil
		}
		if s.confirm != confirmNone {
			c := s.confirm
			switch key {
			case "y":
				s.confirm = confirmNone
				if c == confirmLogout {
					return s, s.logout()
				}
				return s, s.purge()
			case "n", "esc":
				s.confirm = confirmNone
			}
			return s, nil
		}
		switch key {
		case "l":
			s.confirm = confirmLogout
		case "p":
			if len(s.env.State.LibraryFiles()) == 0 {
				s.notice = "Your library is already empty."
				return s, nil
			}
			if !s.purging {
				s.confirm = confirmPurge
			}
		}
	}
	return s, nil
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch {
	case s.alert != "":
		return []layout.KeyHint{{Key: "Enter", Description: "Dismiss"}}
	case s.confirm != confirmNone:
		return []layout.KeyHint{{Key: "y", Description: "Confirm"}, {Key: "n", Description: "Cancel"}}
	}
	return []layout.KeyHint{
		{Key: "l", Description: "Log out"},
		{Key: "p", Description: "Purge library"},
		{Key: "1-5", Description: "Jump"},
	}
}

func (s *Screen) renderAccount(u *model.User, width int) string {
	if u == nil {
		return theme.Hint.Render("Not signed in.")
	}
	avatar := lipgloss.NewStyle().
		Foreground(theme.BgDark).
		Background(theme.Primary).
		Bold(true).
		Padding(1, 2).
		Render(u.Avatar)
	details := strings.Join([]string{
		theme.Heading.Render(u.Name),
		theme.Body.Render(u.Email),
		theme.Hint.Render("session " + u.SessionHash),
	}, "\n")
	return components.Card("Account", lipgloss.JoinHorizontal(lipgloss.Center, avatar, "  ", details), width)
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	files := s.env.State.LibraryFiles()
	stats := exam.Summarize(files, s.env.State.Assessments())
	used := doclib.StorageUsedMB(files)

	statW := max((cw-4)/3, 14)
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		components.Stat("Questions", fmt.Sprint(stats.TotalQuestions), statW),
		components.Stat("Assessments", fmt.Sprint(stats.Assessments), statW),
		components.Stat("Documents", fmt.Sprint(stats.Files), statW),
	)
	storage := components.NewProgressBar(
		fmt.Sprintf("Storage %.1f / %d MB", used, doclib.QuotaMB),
		used/float64(doclib.QuotaMB), false, min(cw-4, 60),
	).View()

	sections := []string{
		s.renderAccount(s.env.State.CurrentUser(), cw),
		row,
		components.Card("Usage", storage, cw),
	}
	switch s.confirm {
	case confirmLogout:
		sections = append(sections, components.ConfirmBox("Log out of ScholarAI?", cw))
	case confirmPurge:
		sections = append(sections, components.ConfirmBox(
			fmt.Sprintf("Delete all %d documents from your library? This cannot be undone.", len(files)), cw))
	}
	if s.purging {
		sections = append(sections, theme.Hint.Render("Deleting documents..."))
	}
	if s.alert != "" {
		sections = append(sections, components.AlertBox(s.alert, cw))
	} else if s.notice != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Success).Render(s.notice))
	}
	return components.Page("Profile", "", width, sections...)
}
