// Package generating shows progress while the server builds an assessment.
package generating

import (
	"errors"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/scholarai/scholar/internal/api"
	"github.com/scholarai/scholar/internal/generation"
	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/router"
	"github.com/scholarai/scholar/internal/screen"
	"github.com/scholarai/scholar/internal/ui/components"
	"github.com/scholarai/scholar/internal/ui/layout"
	"github.com/scholarai/scholar/internal/ui/theme"
)

// MessageInterval is how long each status message stays up.
const MessageInterval = 2 * time.Second

// Messages rotate while the generation runs.
var Messages = []string{
	"Reading your documents...",
	"Analyzing content structure...",
	"Extracting key concepts...",
	"Drafting questions...",
	"Verifying answer accuracy...",
	"Finalizing rubric...",
	"Almost ready...",
}

type rotateMsg struct{}

type resolvedMsg struct {
	assessment model.Assessment
	err        error
}

type outcome int

const (
	running outcome = iota
	failed
	timedOut
	missing
)

// Screen polls the current assessment until it is ready.
type Screen struct {
	env     screen.Env
	target  *model.Assessment
	spinner spinner.Model
	message int
	state   outcome
	errText string
}

var _ screen.Screen = (*Screen)(nil)

// New creates the screen for the container's current assessment.
func New(env screen.Env) *Screen {
	s := &Screen{
		env:     env,
		target:  env.State.CurrentAssessment(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary))),
	}
	if s.target == nil {
		s.state = missing
	}
	return s
}

func (s *Screen) Title() string { return "Generating" }

func rotate() tea.Cmd {
	return tea.Tick(MessageInterval, func(time.Time) tea.Msg { return rotateMsg{} })
}

func (s *Screen) Init() tea.Cmd {
	if s.state == missing {
		return nil
	}
	env, id := s.env, s.target.ID
	return tea.Batch(s.spinner.Tick, rotate(), func() tea.Msg {
		a, err := generation.Resolve(env.Ctx, env.Poller, env.State, id)
		return resolvedMsg{assessment: a, err: err}
	})
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resolvedMsg:
		var failedErr *generation.FailedError
		switch {
		case msg.err == nil:
			return s, router.Navigate(model.PageAssessments)
		case errors.As(msg.err, &failedErr):
			s.state = failed
			s.errText = failedErr.Reason
		case errors.Is(msg.err, generation.ErrTimeout):
			s.state = timedOut
		default:
			s.state = failed
			s.errText = api.UserMessage(msg.err)
		}
		s.env.Log.Warnw("generation did not complete", "assessment", s.target.ID, "error", msg.err)
		return s, nil

	case rotateMsg:
		if s.state != running {
			return s, nil
		}
		s.message = (s.message + 1) % len(Messages)
		return s, rotate()

	case spinner.TickMsg:
		if s.state != running {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		switch {
		case s.state == running && msg.String() == "esc":
			return s, router.Navigate(model.PageAssessments)
		case s.state == timedOut && msg.String() == "enter":
			return s, router.Navigate(model.PageAssessments)
		case (s.state == failed || s.state == missing) && msg.String() == "enter":
			return s, router.Navigate(model.PageExamStudio)
		}
	}
	return s, nil
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.state == running {
		return []layout.KeyHint{{Key: "Esc", Description: "Wait in assessments"}}
	}
	return []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
}

func (s *Screen) View(width, height int) string {
	var lines []string
	switch s.state {
	case running:
		lines = []string{
			theme.Title.Render(s.target.Title),
			"",
			s.spinner.View() + " " + theme.Body.Render(Messages[s.message]),
			"",
			components.NewProgressBar("", float64(s.message+1)/float64(len(Messages)), false, 40).View(),
		}
	case failed:
		reason := s.errText
		if reason == "" {
			reason = "The server could not generate this assessment."
		}
		lines = []string{
			theme.ErrorText.Render("Generation failed"),
			"",
			theme.Body.Render(reason),
			"",
			theme.Hint.Render("press enter to return to the studio"),
		}
	case timedOut:
		lines = []string{
			theme.WarningText.Render("This is taking longer than usual"),
			"",
			theme.Body.Render("The assessment will appear in your list once it is ready."),
			"",
			theme.Hint.Render("press enter to open your assessments"),
		}
	case missing:
		lines = []string{
			theme.Body.Render("Nothing is being generated right now."),
			"",
			theme.Hint.Render("press enter to open the studio"),
		}
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(lines, "\n"))
}
