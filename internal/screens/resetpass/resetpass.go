// Package resetpass sets a new password after recovery.
package resetpass

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/scholarai/scholar/internal/auth"
	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/router"
	"github.com/scholarai/scholar/internal/screen"
	"github.com/scholarai/scholar/internal/ui/components"
	"github.com/scholarai/scholar/internal/ui/layout"
	"github.com/scholarai/scholar/internal/ui/theme"
)

const (
	msgMismatch    = "Password and confirmation do not match."
	msgNotLoggedIn = "User not logged in."
)

type updatedMsg struct{ err error }

// Screen asks for the new password twice.
type Screen struct {
	env  screen.Env
	form components.Form
	busy bool
	done bool
	err  string
}

var _ screen.Screen = (*Screen)(nil)

// New creates the reset screen.
func New(env screen.Env) *Screen {
	return &Screen{
		env: env,
		form: components.NewForm(
			components.NewTextInput(components.InputOptions{Label: "New password", Password: true, CharLimit: 72, Width: 40}),
			components.NewTextInput(components.InputOptions{Label: "Confirm password", Password: true, CharLimit: 72, Width: 40}),
		),
	}
}

func (s *Screen) Title() string { return "Reset Password" }

func (s *Screen) Init() tea.Cmd { return s.form.Init() }

func (s *Screen) CapturesInput() bool { return !s.done }

func (s *Screen) submit() tea.Cmd {
	pw, confirm := s.form.Value(0), s.form.Value(1)
	if pw != confirm {
		s.err = msgMismatch
		return nil
	}
	if pw == "" {
		s.err = "Choose a new password."
		return nil
	}
	u := s.env.State.CurrentUser()
	if u == nil {
		s.err = msgNotLoggedIn
		return nil
	}

	s.busy = true
	s.err = ""
	env, email := s.env, u.Email
	return func() tea.Msg {
		return updatedMsg{err: env.Auth.UpdatePassword(env.Ctx, email, pw)}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case updatedMsg:
		s.busy = false
		if msg.err != nil {
			s.err = auth.UserMessage(msg.err)
			return s, nil
		}
		s.done = true
		return s, nil

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		if s.done {
			if msg.String() == "enter" {
				return s, router.Navigate(model.PageBootstrap)
			}
			return s, nil
		}
		switch msg.String() {
		case "esc":
			return s, router.Navigate(model.PageBootstrap)
		case "enter":
			if !s.form.IsLast() {
				return s, s.form.FocusField(1)
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.form, cmd = s.form.Update(msg)
	return s, cmd
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.done {
		return []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Save"},
		{Key: "Esc", Description: "Skip"},
	}
}

func (s *Screen) View(width, height int) string {
	var body string
	if s.done {
		body = lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render("Your password has been updated.") +
			"\n\n" + theme.Hint.Render("press enter to continue")
	} else {
		parts := []string{s.form.View()}
		if s.busy {
			parts = append(parts, "", theme.Hint.Render("Saving..."))
		} else if s.err != "" {
			parts = append(parts, "", theme.ErrorText.Render(s.err))
		}
		body = strings.Join(parts, "\n")
	}
	return components.Page(s.Title(), "Choose a new password for your account.", width,
		components.Card("", body, min(components.ContentWidth(width), 60)))
}
