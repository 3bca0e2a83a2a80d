// Package dashboard is the signed-in home screen.
package dashboard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/scholarai/scholar/internal/exam"
	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/router"
	"github.com/scholarai/scholar/internal/screen"
	"github.com/scholarai/scholar/internal/ui/components"
	"github.com/scholarai/scholar/internal/ui/layout"
	"github.com/scholarai/scholar/internal/ui/theme"
)

// RecentActivities is how many feed entries the dashboard lists.
const RecentActivities = 5

// Screen shows the user's stats, recent activity and quick actions.
type Screen struct {
	env  screen.Env
	menu components.Menu
}

var _ screen.Screen = (*Screen)(nil)

// New creates the dashboard.
func New(env screen.Env) *Screen {
	nav := func(p model.Page) func() tea.Cmd {
		return func() tea.Cmd { return router.Navigate(p) }
	}
	return &Screen{
		env: env,
		menu: components.NewMenu([]components.MenuItem{
			{Label: "Create an exam", Description: "pick documents and generate questions", Action: nav(model.PageExamStudio)},
			{Label: "Upload documents", Description: "add PDFs to your library", Action: nav(model.PageLibrary)},
			{Label: "Review assessments", Description: "take exams and see results", Action: nav(model.PageAssessments)},
		}),
	}
}

func (s *Screen) Title() string { return "Dashboard" }

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑/↓", Description: "Select"},
		{Key: "Enter", Description: "Open"},
		{Key: "1-5", Description: "Jump"},
	}
}

func greeting(u *model.User) string {
	if u == nil {
		return "Welcome back"
	}
	return "Welcome back, " + u.FirstName()
}

func activityIcon(t model.ActivityType) string {
	switch t {
	case model.ActivityExamCreated:
		return lipgloss.NewStyle().Foreground(theme.Primary).Render("✚")
	case model.ActivityFileUploaded:
		return lipgloss.NewStyle().Foreground(theme.Accent).Render("⇪")
	case model.ActivityExamCompleted:
		return lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
	}
	return "•"
}

func (s *Screen) renderActivity(width int) string {
	acts := s.env.State.Activities()
	if len(acts) == 0 {
		return components.Card("Recent activity", theme.Hint.Render("Nothing yet. Upload a document to get started."), width)
	}
	var b strings.Builder
	for i, a := range acts {
		if i == RecentActivities {
			break
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(activityIcon(a.Type) + " " + theme.Body.Render(a.Description) +
			"  " + theme.Hint.Render(humanize.Time(a.Timestamp)))
	}
	return components.Card("Recent activity", b.String(), width)
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	st := exam.Summarize(s.env.State.LibraryFiles(), s.env.State.Assessments())

	statWidth := cw/4 - 1
	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		components.Stat("Documents", fmt.Sprint(st.Files), statWidth),
		components.Stat("Ready", fmt.Sprint(st.ReadyFiles), statWidth),
		components.Stat("Completed", fmt.Sprintf("%d/%d", st.Completed, st.Assessments), statWidth),
		components.Stat("Average score", fmt.Sprintf("%d%%", st.AverageScore), statWidth),
	)
	bar := components.NewProgressBar("Average", float64(st.AverageScore)/100, true, cw).View()

	return components.Page(greeting(s.env.State.CurrentUser()), "Here is where your studies stand.", width,
		stats,
		bar,
		s.renderActivity(cw),
		components.Card("Quick actions", s.menu.View(), cw),
	)
}
