// Package landing is the signed-out welcome screen.
package landing

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/router"
	"github.com/scholarai/scholar/internal/screen"
	"github.com/scholarai/scholar/internal/ui/components"
	"github.com/scholarai/scholar/internal/ui/layout"
	"github.com/scholarai/scholar/internal/ui/theme"
)

const banner = `  ____       _           _            _    ___
 / ___|  ___| |__   ___ | | __ _ _ __/ \  |_ _|
 \___ \ / __| '_ \ / _ \| |/ _' | '__/ _ \  | |
  ___) | (__| | | | (_) | | (_| | | / ___ \ | |
 |____/ \___|_| |_|\___/|_|\__,_|_|/_/   \_\___|`

var features = []string{
	"Upload lecture notes and papers as PDF",
	"Generate exams grounded in your own material",
	"Every answer cites the page it came from",
	"Track scores across attempts",
}

// Screen invites a signed-out visitor to sign in.
type Screen struct {
	menu components.Menu
}

var _ screen.Screen = (*Screen)(nil)

// New creates the landing screen.
func New() *Screen {
	return &Screen{
		menu: components.NewMenu([]components.MenuItem{
			{Label: "Get started", Description: "sign in or create an account", Action: func() tea.Cmd { return router.Navigate(model.PageAuth) }},
			{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
		}),
	}
}

func (s *Screen) Title() string { return "Welcome" }

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "q" {
		return s, tea.Quit
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑/↓", Description: "Select"},
		{Key: "Enter", Description: "Choose"},
		{Key: "q", Description: "Quit"},
	}
}

func (s *Screen) View(width, height int) string {
	var sections []string
	if width >= 60 && height >= 20 {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(banner))
	} else {
		sections = append(sections, theme.Title.Render(layout.Brand))
	}
	sections = append(sections,
		"",
		theme.Body.Render("Turn your study material into practice exams."),
		"",
	)
	for _, f := range features {
		sections = append(sections, theme.Hint.Render("  • ")+theme.Body.Render(f))
	}
	sections = append(sections, "", s.menu.View())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
