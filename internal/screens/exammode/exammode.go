// Package exammode is the exam-taking screen.
package exammode

import (
	"fmt"
	"strings"

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

// Screen runs an attempt at the current assessment.
type Screen struct {
	env        screen.Env
	assessment model.Assessment
	attempt    *exam.Attempt
	resumed    bool

	choice     components.ChoiceList
	answer     components.TextInput
	confirming bool
}

var _ screen.Screen = (*Screen)(nil)

// New starts or resumes an attempt at the container's current assessment.
// Without a takeable assessment the screen only offers to go back.
func New(env screen.Env) *Screen {
	s := &Screen{env: env}
	cur := env.State.CurrentAssessment()
	if cur == nil || !cur.Ready() {
		return s
	}
	s.assessment = *cur

	var err error
	if d, ok := env.State.Draft(cur.ID); ok {
		s.attempt, err = exam.Resume(cur.Questions, d)
		s.resumed = err == nil
	} else {
		s.attempt, err = exam.NewAttempt(cur.Questions)
	}
	if err != nil {
		env.Log.Warnw("cannot start exam", "assessment", cur.ID, "error", err)
		s.attempt = nil
		return s
	}
	s.load()
	return s
}

func (s *Screen) Title() string { return "Exam" }

func (s *Screen) Init() tea.Cmd {
	if s.attempt == nil || s.attempt.Current().Type.IsChoice() {
		return nil
	}
	return s.answer.Focus()
}

func (s *Screen) CapturesInput() bool { return s.attempt != nil }

// load prepares the input for the current question.
func (s *Screen) load() {
	q := s.attempt.Current()
	given, _ := s.attempt.AnswerFor(q.ID)
	if q.Type.IsChoice() {
		chosen := -1
		for i, opt := range q.Options {
			if given != "" && opt == given {
				chosen = i
			}
		}
		s.choice = components.NewChoiceList(q.Options, chosen)
		return
	}
	s.answer = components.NewTextInput(components.InputOptions{
		Label: "Your answer", Placeholder: "type your answer", Width: 60, Value: given,
	})
}

func (s *Screen) move(fn func() bool) tea.Cmd {
	if !fn() {
		return nil
	}
	s.load()
	if s.attempt.Current().Type.IsChoice() {
		return nil
	}
	return s.answer.Focus()
}

func (s *Screen) jump(i int) tea.Cmd {
	return s.move(func() bool { return s.attempt.Jump(i) == nil })
}

func (s *Screen) firstUnanswered() int {
	for i := range s.attempt.Len() {
		if v, ok := s.attempt.AnswerFor(s.attempt.Question(i).ID); !ok || strings.TrimSpace(v) == "" {
			return i
		}
	}
	return -1
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.attempt == nil {
		if k, ok := msg.(tea.KeyMsg); ok && (k.String() == "enter" || k.String() == "esc") {
			return s, router.Navigate(model.PageAssessments)
		}
		return s, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if !s.attempt.Current().Type.IsChoice() {
			var cmd tea.Cmd
			s.answer, cmd = s.answer.Update(msg)
			return s, cmd
		}
		return s, nil
	}

	key := kmsg.String()
	if s.confirming {
		switch key {
		case "y", "enter":
			exam.Finish(s.env.Ctx, s.env.State, s.assessment, s.attempt)
			return s, router.Navigate(model.PageGradingReport)
		case "n", "esc":
			s.confirming = false
		}
		return s, nil
	}

	switch key {
	case "ctrl+s", "esc":
		exam.SaveAndExit(s.env.Ctx, s.env.State, s.assessment.ID, s.attempt)
		return s, router.Navigate(model.PageAssessments)
	case "ctrl+e":
		s.confirming = true
		return s, nil
	case "tab":
		if s.attempt.IsLast() {
			s.confirming = true
			return s, nil
		}
		return s, s.move(s.attempt.Next)
	case "shift+tab":
		return s, s.move(s.attempt.Prev)
	case "ctrl+u":
		if i := s.firstUnanswered(); i >= 0 {
			return s, s.jump(i)
		}
		return s, nil
	}

	if s.attempt.Current().Type.IsChoice() {
		var picked bool
		s.choice, picked = s.choice.Update(kmsg)
		if picked {
			s.attempt.AnswerCurrent(s.choice.Value())
		}
		return s, nil
	}

	if key == "enter" {
		if s.attempt.IsLast() {
			s.confirming = true
			return s, nil
		}
		return s, s.move(s.attempt.Next)
	}
	var cmd tea.Cmd
	s.answer, cmd = s.answer.Update(kmsg)
	s.attempt.AnswerCurrent(s.answer.Value())
	return s, cmd
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch {
	case s.attempt == nil:
		return []layout.KeyHint{{Key: "Enter", Description: "Back"}}
	case s.confirming:
		return []layout.KeyHint{{Key: "y", Description: "Submit"}, {Key: "n", Description: "Keep going"}}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next"},
		{Key: "Shift+Tab", Description: "Previous"},
		{Key: "Ctrl+U", Description: "Unanswered"},
		{Key: "Ctrl+E", Description: "Submit"},
		{Key: "Ctrl+S", Description: "Save & exit"},
	}
}

func (s *Screen) renderNavigator() string {
	var dots []string
	for i := range s.attempt.Len() {
		mark := "○"
		if v, ok := s.attempt.AnswerFor(s.attempt.Question(i).ID); ok && strings.TrimSpace(v) != "" {
			mark = "●"
		}
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if i == s.attempt.Index() {
			style = theme.Selected
		}
		dots = append(dots, style.Render(mark))
	}
	return strings.Join(dots, " ")
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if s.attempt == nil {
		return components.Page("Exam", "", width,
			theme.Body.Render("This assessment is not ready to be taken."),
			theme.Hint.Render("press enter to go back to your assessments"))
	}

	q := s.attempt.Current()
	answered, total := s.attempt.Progress()
	header := fmt.Sprintf("Question %d of %d", s.attempt.Index()+1, total)

	var body strings.Builder
	body.WriteString(components.Badge(q.Type.Label(), theme.Secondary) + "\n\n")
	body.WriteString(lipgloss.NewStyle().Width(cw-4).Render(theme.Body.Render(q.Text)) + "\n\n")
	if q.Type.IsChoice() {
		body.WriteString(s.choice.View())
	} else {
		body.WriteString(s.answer.View())
	}

	sections := []string{
		components.NewProgressBar(fmt.Sprintf("%d of %d answered", answered, total), float64(answered)/float64(total), false, min(cw, 60)).View(),
		components.Card(header, body.String(), cw),
		s.renderNavigator(),
	}
	if s.resumed {
		sections = append(sections, theme.Hint.Render("Resumed from your saved progress."))
	}
	if s.confirming {
		question := "Submit your answers?"
		if left := total - answered; left > 0 {
			question = fmt.Sprintf("Submit with %d unanswered question(s)? Unanswered questions count as wrong.", left)
		}
		sections = append(sections, components.ConfirmBox(question, cw))
	}
	return components.Page(s.assessment.Title, difficultyLine(s.assessment), width, sections...)
}

func difficultyLine(a model.Assessment) string {
	if a.Difficulty == "" || a.Difficulty == model.DifficultyNone {
		return fmt.Sprintf("%d questions", len(a.Questions))
	}
	return fmt.Sprintf("%d questions · %s", len(a.Questions), a.Difficulty)
}
