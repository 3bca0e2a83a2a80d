// Package studio is the exam studio screen: it starts new generations and
// opens existing assessments in the editor.
package studio

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/scholarai/scholar/internal/api"
	"github.com/scholarai/scholar/internal/generation"
	doclib "github.com/scholarai/scholar/internal/library"
	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/router"
	"github.com/scholarai/scholar/internal/screen"
	"github.com/scholarai/scholar/internal/screens/editor"
	"github.com/scholarai/scholar/internal/ui/components"
	"github.com/scholarai/scholar/internal/ui/layout"
	"github.com/scholarai/scholar/internal/ui/theme"
)

type submittedMsg struct {
	assessment model.Assessment
	err        error
}

// Screen is the exam studio.
type Screen struct {
	env      screen.Env
	menu     components.Menu
	creating bool
	form     createForm

	submitting bool
	formErr    string
	alert      string
}

var _ screen.Screen = (*Screen)(nil)

// New creates the studio on its overview.
func New(env screen.Env) *Screen {
	s := &Screen{env: env}
	s.rebuildMenu()
	return s
}

func (s *Screen) Title() string {
	if s.creating {
		return "Create Assessment"
	}
	return "Exam Studio"
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) CapturesInput() bool { return s.creating }

func (s *Screen) rebuildMenu() {
	items := []components.MenuItem{{
		Label:       "+ Create a new assessment",
		Description: "generate questions from your documents",
		Action: func() tea.Cmd {
			s.openCreate()
			return nil
		},
	}}
	for _, a := range s.env.State.Assessments() {
		a := a
		item := components.MenuItem{
			Label:       "Edit: " + a.Title,
			Description: fmt.Sprintf("%d questions", len(a.Questions)),
			Action: func() tea.Cmd {
				return router.Push(editor.New(s.env, a))
			},
		}
		if len(a.Questions) == 0 {
			item.Disabled = true
			item.Description = string(a.Status)
		}
		items = append(items, item)
	}
	s.menu.SetItems(items)
}

func (s *Screen) openCreate() {
	s.creating = true
	s.formErr = ""
	s.form = newCreateForm(doclib.ReadyFiles(s.env.State.LibraryFiles()))
}

func (s *Screen) submit() tea.Cmd {
	sel := s.form.selection()
	if err := sel.Validate(); err != nil {
		s.formErr = strings.TrimPrefix(err.Error(), generation.ErrInvalidSelection.Error()+": ")
		return nil
	}
	s.formErr = ""
	s.submitting = true
	env := s.env
	return func() tea.Msg {
		a, err := generation.Submit(env.Ctx, env.API, env.State, sel)
		return submittedMsg{assessment: a, err: err}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		s.submitting = false
		if msg.err != nil {
			s.env.Log.Warnw("generation request failed", "error", msg.err)
			s.alert = "Could not start the generation: " + api.UserMessage(msg.err)
		}
		return s, nil

	case screen.StateChangedMsg:
		if !s.creating {
			s.rebuildMenu()
		}
		return s, nil

	case tea.KeyMsg:
		if s.alert != "" {
			if k := msg.String(); k == "enter" || k == "esc" {
				s.alert = ""
			}
			return s, nil
		}
		if s.submitting {
			return s, nil
		}
		if !s.creating {
			var cmd tea.Cmd
			s.menu, cmd = s.menu.Update(msg)
			return s, cmd
		}
		if msg.String() == "esc" {
			s.creating = false
			s.rebuildMenu()
			return s, nil
		}
	}

	if !s.creating {
		return s, nil
	}
	cmd, submit := s.form.update(msg)
	if submit {
		return s, s.submit()
	}
	return s, cmd
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch {
	case s.alert != "":
		return []layout.KeyHint{{Key: "Enter", Description: "Dismiss"}}
	case s.creating:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next section"},
			{Key: "Space", Description: "Toggle"},
			{Key: "←/→", Description: "Choose"},
			{Key: "Ctrl+G", Description: "Generate"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑/↓", Description: "Select"},
		{Key: "Enter", Description: "Open"},
		{Key: "1-5", Description: "Jump"},
	}
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if !s.creating {
		return components.Page("Exam Studio", "Create a new assessment or refine an existing one.", width,
			components.Card("", s.menu.View(), cw))
	}

	sections := []string{components.Card("", s.form.view(cw-4), cw)}
	switch {
	case s.submitting:
		sections = append(sections, theme.Hint.Render("Sending your request..."))
	case s.formErr != "":
		sections = append(sections, theme.ErrorText.Render(s.formErr))
	}
	if s.alert != "" {
		sections = append(sections, components.AlertBox(s.alert, cw))
	}
	return components.Page("Create Assessment", "Pick documents and describe the exam you want.", width, sections...)
}
