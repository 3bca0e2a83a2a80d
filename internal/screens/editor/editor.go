// Package editor edits the questions, answers and citations of an
// assessment.
package editor

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/router"
	"github.com/scholarai/scholar/internal/screen"
	"github.com/scholarai/scholar/internal/studio"
	"github.com/scholarai/scholar/internal/ui/components"
	"github.com/scholarai/scholar/internal/ui/layout"
	"github.com/scholarai/scholar/internal/ui/theme"
)

// Screen is the editing studio for one assessment.
type Screen struct {
	env    screen.Env
	editor *studio.Editor
	fields []field
	cursor int

	editing bool
	input   components.TextInput

	warnedUnsaved bool
	status        string
	err           string
}

var _ screen.Screen = (*Screen)(nil)

// New opens a for editing. The container is only changed on save.
func New(env screen.Env, a model.Assessment) *Screen {
	s := &Screen{env: env, editor: studio.NewEditor(a)}
	s.refresh()
	return s
}

func (s *Screen) Title() string { return "Edit Assessment" }

func (s *Screen) Init() tea.Cmd { return nil }

// CapturesInput is always true: letters are editor commands and esc must
// reach the screen to guard unsaved changes.
func (s *Screen) CapturesInput() bool { return true }

// Assessment returns the assessment as currently edited.
func (s *Screen) Assessment() model.Assessment { return s.editor.Assessment() }

func (s *Screen) refresh() {
	s.fields = fieldsOf(s.editor.Assessment())
	s.cursor = min(max(s.cursor, 0), len(s.fields)-1)
}

func (s *Screen) current() field { return s.fields[s.cursor] }

func (s *Screen) apply(intent studio.Intent) {
	if err := s.editor.Apply(intent); err != nil {
		s.err = err.Error()
		return
	}
	s.err = ""
	s.status = ""
	s.warnedUnsaved = false
	s.refresh()
}

// focusQuestion moves the cursor to the text of question i.
func (s *Screen) focusQuestion(i int) {
	for j, f := range s.fields {
		if f.kind == fieldQuestionText && f.question == i {
			s.cursor = j
			return
		}
	}
}

func (s *Screen) startEdit() tea.Cmd {
	f := s.current()
	s.input = components.NewTextInput(components.InputOptions{
		Value:       valueOf(s.editor.Assessment(), f),
		NumericOnly: f.kind == fieldSourcePage,
		Width:       60,
	})
	s.editing = true
	return s.input.Focus()
}

func (s *Screen) finishEdit() {
	s.editing = false
	intent, err := commit(s.current(), s.input.Value())
	if err != nil {
		s.err = err.Error()
		return
	}
	s.apply(intent)
}

func (s *Screen) save() {
	if err := s.editor.Save(s.env.State); err != nil {
		s.err = "Not saved: " + err.Error()
		return
	}
	s.err = ""
	s.warnedUnsaved = false
	s.status = "Saved."
}

func (s *Screen) sourceFiles() []string {
	names := []string{model.NoSourceFile}
	for _, f := range s.env.State.LibraryFiles() {
		names = append(names, f.Name)
	}
	for _, name := range s.editor.Assessment().SourceFiles {
		found := false
		for _, n := range names {
			found = found || n == name
		}
		if !found {
			names = append(names, name)
		}
	}
	return names
}

// adjust changes a choice field by step.
func (s *Screen) adjust(step int) {
	a := s.editor.Assessment()
	f := s.current()
	switch f.kind {
	case fieldDifficulty:
		s.apply(studio.SetDifficulty{Difficulty: cycle(model.Difficulties(), a.Difficulty, step)})
	case fieldQuestionType:
		s.apply(studio.SetQuestionType{Index: f.question, Type: cycle(model.QuestionTypes(), a.Questions[f.question].Type, step)})
	case fieldSourceFile:
		if src := a.Questions[f.question].Source; src != nil {
			s.apply(studio.SetSourceFile{Index: f.question, FileName: cycle(s.sourceFiles(), src.FileName, step)})
		}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if s.editing {
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			return s, cmd
		}
		return s, nil
	}

	key := kmsg.String()
	if s.editing {
		switch key {
		case "enter":
			s.finishEdit()
			return s, nil
		case "esc":
			s.editing = false
			return s, nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	f := s.current()
	switch key {
	case "up", "k":
		s.cursor = max(s.cursor-1, 0)
	case "down", "j":
		s.cursor = min(s.cursor+1, len(s.fields)-1)
	case "left", "h":
		s.adjust(-1)
	case "right", "l":
		s.adjust(1)
	case "enter":
		switch {
		case f.textual():
			return s, s.startEdit()
		case f.kind == fieldAddSource:
			s.apply(studio.AddSource{Index: f.question})
		default:
			s.adjust(1)
		}
	case "c", "space":
		if f.kind == fieldOption {
			s.apply(studio.SetCorrectOption{Index: f.question, Option: f.option})
		}
	case "a":
		s.apply(studio.AddQuestion{})
		s.focusQuestion(len(s.editor.Assessment().Questions) - 1)
	case "x":
		if f.kind != fieldTitle && f.kind != fieldDifficulty {
			s.apply(studio.DeleteQuestion{Index: f.question})
		}
	case "r":
		if f.kind == fieldSourceFile || f.kind == fieldSourcePage || f.kind == fieldSourceText {
			s.apply(studio.RemoveSource{Index: f.question})
		}
	case "ctrl+s":
		s.save()
	case "esc":
		if s.editor.Dirty() && !s.warnedUnsaved {
			s.warnedUnsaved = true
			return s, nil
		}
		return s, router.Pop()
	}
	return s, nil
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.editing {
		return []layout.KeyHint{{Key: "Enter", Description: "Apply"}, {Key: "Esc", Description: "Cancel"}}
	}
	return []layout.KeyHint{
		{Key: "↑/↓", Description: "Move"},
		{Key: "Enter", Description: "Edit"},
		{Key: "←/→", Description: "Change"},
		{Key: "c", Description: "Mark correct"},
		{Key: "a", Description: "Add"},
		{Key: "x", Description: "Delete"},
		{Key: "Ctrl+S", Description: "Save"},
		{Key: "Esc", Description: "Back"},
	}
}

func display(v, placeholder string) string {
	if strings.TrimSpace(v) == "" {
		return theme.Hint.Render(placeholder)
	}
	return theme.Body.Render(v)
}

func (s *Screen) renderField(a model.Assessment, f field, selected bool) string {
	var label, value string
	indent := "  "
	switch f.kind {
	case fieldTitle:
		label, value = "Title", display(a.Title, "(untitled)")
	case fieldDifficulty:
		label, value = "Difficulty", "◂ "+string(a.Difficulty)+" ▸"
	default:
		q := a.Questions[f.question]
		switch f.kind {
		case fieldQuestionText:
			indent = ""
			label, value = fmt.Sprintf("Q%d", f.question+1), display(q.Text, "(no question text)")
		case fieldQuestionType:
			label, value = "Type", "◂ "+q.Type.Label()+" ▸"
		case fieldOption:
			mark := "○"
			if q.CorrectIndex == f.option {
				mark = lipgloss.NewStyle().Foreground(theme.Success).Render("●")
			}
			label, value = mark+" "+components.OptionLabel(f.option), display(q.Options[f.option], "(empty option)")
		case fieldShortAnswer:
			label, value = "Answer", display(q.CorrectText, "(no answer)")
		case fieldAddSource:
			label, value = "Source", theme.Hint.Render("+ add a citation")
		case fieldSourceFile:
			label, value = "Source", "◂ "+q.Source.FileName+" ▸"
		case fieldSourcePage:
			label, value = "Page", fmt.Sprint(q.Source.Page)
		case fieldSourceText:
			label, value = "Excerpt", display(q.Source.Text, "(no excerpt)")
		}
	}

	prefix := "  "
	labelStyle := theme.Hint
	if selected {
		prefix = theme.Selected.Render("▸ ")
		labelStyle = theme.Selected
	}
	if selected && s.editing {
		value = s.input.View()
	}
	return prefix + indent + labelStyle.Render(fmt.Sprintf("%-10s", label)) + " " + value
}

func (s *Screen) View(width, height int) string {
	a := s.editor.Assessment()
	lines := make([]string, len(s.fields))
	for i, f := range s.fields {
		lines[i] = s.renderField(a, f, i == s.cursor)
	}

	visible := max(height-8, 5)
	start := 0
	if s.cursor >= visible {
		start = s.cursor - visible + 1
	}
	end := min(start+visible, len(lines))
	body := strings.Join(lines[start:end], "\n")

	subtitle := fmt.Sprintf("%d questions", len(a.Questions))
	if s.editor.Dirty() {
		subtitle += " · unsaved changes"
	}

	var footer string
	switch {
	case s.err != "":
		footer = theme.ErrorText.Render(s.err)
	case s.warnedUnsaved:
		footer = theme.WarningText.Render("You have unsaved changes. Press ctrl+s to save or esc again to discard them.")
	case s.status != "":
		footer = lipgloss.NewStyle().Foreground(theme.Success).Render(s.status)
	}

	cw := components.ContentWidth(width)
	return components.Page(a.Title, subtitle, width,
		lipgloss.NewStyle().MaxWidth(cw).Render(body),
		footer,
	)
}
