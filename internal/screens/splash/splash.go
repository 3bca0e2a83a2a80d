// Package splash restores the session while showing a spinner.
package splash

import (
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/scholarai/scholar/internal/bootstrap"
	"github.com/scholarai/scholar/internal/router"
	"github.com/scholarai/scholar/internal/screen"
	"github.com/scholarai/scholar/internal/ui/layout"
	"github.com/scholarai/scholar/internal/ui/theme"
)

type doneMsg struct {
	result bootstrap.Result
}

// Screen runs the session bootstrap once and then opens its target page.
type Screen struct {
	env     screen.Env
	spinner spinner.Model
	done    bool
}

var _ screen.Screen = (*Screen)(nil)

// New creates the splash screen.
func New(env screen.Env) *Screen {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(theme.Primary)
	return &Screen{env: env, spinner: sp}
}

func (s *Screen) Title() string { return "" }

func (s *Screen) Init() tea.Cmd {
	env := s.env
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		return doneMsg{result: bootstrap.Run(env.Ctx, env.Auth, env.State, env.Pages, env.Log)}
	})
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		s.done = true
		return s, router.Navigate(msg.result.Target)
	case spinner.TickMsg:
		if s.done {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	content := strings.Join([]string{
		theme.Title.Render(layout.Brand),
		"",
		s.spinner.View() + " " + theme.Subtitle.Render("Restoring your session..."),
	}, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
