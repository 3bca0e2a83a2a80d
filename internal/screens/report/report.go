// Package report shows the graded result of the last exam attempt.
package report

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/scholarai/scholar/internal/exam"
	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/router"
	"github.com/scholarai/scholar/internal/screen"
	"github.com/scholarai/scholar/internal/ui/components"
	"github.com/scholarai/scholar/internal/ui/layout"
	"github.com/scholarai/scholar/internal/ui/theme"
)

// Screen is the grading report of the current assessment.
type Screen struct {
	env        screen.Env
	assessment model.Assessment
	graded     bool
	correct    int

	vp            viewport.Model
	width, height int
}

var _ screen.Screen = (*Screen)(nil)

// New creates the report for the container's current assessment.
func New(env screen.Env) *Screen {
	s := &Screen{env: env, vp: viewport.New()}
	if cur := env.State.CurrentAssessment(); cur != nil && cur.LastScore != nil {
		s.assessment = *cur
		s.graded = true
		for _, q := range cur.Questions {
			if exam.IsCorrect(q) {
				s.correct++
			}
		}
	}
	return s
}

func (s *Screen) Title() string { return "Grading Report" }

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "enter", "esc", "q":
		return s, router.Navigate(model.PageAssessments)
	case "r":
		if s.graded {
			return s, router.Navigate(model.PageExamMode)
		}
		return s, nil
	case "g", "home":
		s.vp.GotoTop()
		return s, nil
	}
	var cmd tea.Cmd
	s.vp, cmd = s.vp.Update(msg)
	return s, cmd
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if !s.graded {
		return []layout.KeyHint{{Key: "Enter", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "↑/↓", Description: "Scroll"},
		{Key: "r", Description: "Retake"},
		{Key: "Enter", Description: "Assessments"},
	}
}

func bandText(b exam.Band) string {
	switch b {
	case exam.BandGood:
		return "Excellent work!"
	case exam.BandFair:
		return "Good effort. Review the misses below."
	}
	return "Keep practicing. The sources below point to what to reread."
}

func (s *Screen) renderSummary(width int) string {
	a := s.assessment
	score := *a.LastScore
	lines := []string{
		theme.ScoreStyle(score).Bold(true).Render(fmt.Sprintf("%d%%", score)) + "  " +
			theme.Body.Render(fmt.Sprintf("%d of %d correct", s.correct, len(a.Questions))),
		theme.ScoreStyle(score).Render(bandText(exam.BandFor(score))),
	}
	var meta []string
	if a.BestScore != nil {
		meta = append(meta, fmt.Sprintf("best %d%%", *a.BestScore))
	}
	if n := len(a.Attempts.Scores); n > 0 {
		meta = append(meta, fmt.Sprintf("%d attempt(s)", n))
	}
	if len(meta) > 0 {
		lines = append(lines, theme.Hint.Render(strings.Join(meta, " · ")))
	}
	return components.Card("Score", strings.Join(lines, "\n"), width)
}

func renderSource(src *model.Source, width int) string {
	if src == nil || (src.Text == "" && src.Page == 0 && (src.FileName == "" || src.FileName == model.NoSourceFile)) {
		return ""
	}
	var where []string
	if src.FileName != "" && src.FileName != model.NoSourceFile {
		where = append(where, src.FileName)
	}
	if src.Page > 0 {
		where = append(where, fmt.Sprintf("p. %d", src.Page))
	}
	out := theme.Hint.Render("Source: " + strings.Join(where, ", "))
	if src.Text != "" {
		out += "\n" + lipgloss.NewStyle().Width(width).Foreground(theme.TextDim).Italic(true).Render("“"+src.Text+"”")
	}
	return out
}

func renderQuestion(i int, q model.Question, width int) string {
	mark := theme.Correct.Render("✓")
	if !exam.IsCorrect(q) {
		mark = theme.Incorrect.Render("✗")
	}
	var b strings.Builder
	b.WriteString(mark + " " + lipgloss.NewStyle().Width(width-2).Render(theme.Heading.Render(fmt.Sprintf("%d. %s", i+1, q.Text))) + "\n")
	if q.Type.IsChoice() {
		b.WriteString(components.RevealView(q.Options, q.CorrectIndex, q.UserAnswer))
		if strings.TrimSpace(q.UserAnswer) == "" {
			b.WriteString(theme.WarningText.Render("  not answered") + "\n")
		}
	} else {
		given := q.UserAnswer
		if strings.TrimSpace(given) == "" {
			given = "(not answered)"
		}
		style := theme.Incorrect
		if exam.IsCorrect(q) {
			style = theme.Correct
		}
		b.WriteString("  Your answer: " + style.Render(given) + "\n")
		b.WriteString("  Correct answer: " + theme.Correct.Render(q.CorrectText) + "\n")
	}
	if src := renderSource(q.Source, width-2); src != "" {
		b.WriteString(src + "\n")
	}
	return b.String()
}

func (s *Screen) content(width int) string {
	var parts []string
	for i, q := range s.assessment.Questions {
		parts = append(parts, renderQuestion(i, q, width))
	}
	return strings.Join(parts, "\n")
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if !s.graded {
		return components.Page("Grading Report", "", width,
			theme.Body.Render("There is no graded attempt to show."),
			theme.Hint.Render("press enter to go back to your assessments"))
	}

	summary := s.renderSummary(cw)
	if width != s.width || height != s.height {
		s.width, s.height = width, height
		s.vp.SetWidth(cw)
		s.vp.SetHeight(max(height-lipgloss.Height(summary)-4, 3))
		s.vp.SetContent(s.content(cw))
	}
	return components.Page(s.assessment.Title, "", width, summary, s.vp.View())
}
