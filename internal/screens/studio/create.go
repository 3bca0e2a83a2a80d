package studio

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/scholarai/scholar/internal/generation"
	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/ui/components"
	"github.com/scholarai/scholar/internal/ui/theme"
)

type section int

const (
	sectionFiles section = iota
	sectionQuery
	sectionCount
	sectionDifficulty
	sectionTypes
	sectionSubmit
	sectionEnd
)

// createForm collects a generation.Selection.
type createForm struct {
	files      []model.LibraryFile
	picked     map[string]bool
	fileCursor int

	query components.TextInput
	count components.TextInput

	difficulty model.Difficulty
	types      map[model.QuestionType]bool
	typeCursor int

	focus section
}

func newCreateForm(files []model.LibraryFile) createForm {
	f := createForm{
		files:  files,
		picked: make(map[string]bool),
		query: components.NewTextInput(components.InputOptions{
			Label: "What should the exam cover?", Placeholder: "e.g. cellular respiration and the Krebs cycle", CharLimit: 300, Width: 60,
		}),
		count: components.NewTextInput(components.InputOptions{
			Label: "Number of questions", NumericOnly: true, CharLimit: 2, Width: 6,
			Value: fmt.Sprint(generation.DefaultQuestions),
		}),
		difficulty: model.DifficultyMedium,
		types:      map[model.QuestionType]bool{model.QuestionMultipleChoice: true},
	}
	return f
}

func (f *createForm) setFocus(s section) tea.Cmd {
	f.query.Blur()
	f.count.Blur()
	f.focus = (s + sectionEnd) % sectionEnd
	switch f.focus {
	case sectionQuery:
		return f.query.Focus()
	case sectionCount:
		return f.count.Focus()
	}
	return nil
}

// selection returns what the form currently describes. Files keep library
// order.
func (f createForm) selection() generation.Selection {
	sel := generation.Selection{
		Query:      f.query.Value(),
		Difficulty: f.difficulty,
	}
	for _, file := range f.files {
		if f.picked[file.ID] {
			sel.Files = append(sel.Files, file)
		}
	}
	sel.Count, _ = f.count.NumericValue()
	for _, t := range model.QuestionTypes() {
		if f.types[t] {
			sel.Types = append(sel.Types, t)
		}
	}
	return sel
}

// update handles a key. It reports submit when the user asked to generate.
func (f *createForm) update(msg tea.Msg) (cmd tea.Cmd, submit bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		switch f.focus {
		case sectionQuery:
			f.query, cmd = f.query.Update(msg)
		case sectionCount:
			f.count, cmd = f.count.Update(msg)
		}
		return cmd, false
	}

	switch kmsg.String() {
	case "tab":
		return f.setFocus(f.focus + 1), false
	case "shift+tab":
		return f.setFocus(f.focus - 1), false
	case "ctrl+g":
		return nil, true
	case "enter":
		if f.focus == sectionSubmit {
			return nil, true
		}
		return f.setFocus(f.focus + 1), false
	}

	switch f.focus {
	case sectionFiles:
		switch kmsg.String() {
		case "up", "k":
			f.fileCursor = max(f.fileCursor-1, 0)
		case "down", "j":
			f.fileCursor = min(f.fileCursor+1, max(len(f.files)-1, 0))
		case "space", "x":
			if f.fileCursor < len(f.files) {
				id := f.files[f.fileCursor].ID
				f.picked[id] = !f.picked[id]
			}
		}
	case sectionQuery:
		f.query, cmd = f.query.Update(msg)
	case sectionCount:
		switch kmsg.String() {
		case "up":
			f.stepCount(1)
		case "down":
			f.stepCount(-1)
		default:
			f.count, cmd = f.count.Update(msg)
		}
	case sectionDifficulty:
		switch kmsg.String() {
		case "left", "h":
			f.difficulty = shift(model.Difficulties(), f.difficulty, -1)
		case "right", "l":
			f.difficulty = shift(model.Difficulties(), f.difficulty, 1)
		}
	case sectionTypes:
		types := model.QuestionTypes()
		switch kmsg.String() {
		case "left", "h":
			f.typeCursor = max(f.typeCursor-1, 0)
		case "right", "l":
			f.typeCursor = min(f.typeCursor+1, len(types)-1)
		case "space", "x":
			t := types[f.typeCursor]
			f.types[t] = !f.types[t]
		}
	}
	return cmd, false
}

func (f *createForm) stepCount(d int) {
	n, err := f.count.NumericValue()
	if err != nil {
		n = generation.DefaultQuestions
	}
	n = min(max(n+d, generation.MinQuestions), generation.MaxQuestions)
	f.count.SetValue(fmt.Sprint(n))
}

func shift(values []model.Difficulty, cur model.Difficulty, step int) model.Difficulty {
	for i, v := range values {
		if v == cur {
			return values[(i+step+len(values))%len(values)]
		}
	}
	return values[0]
}

func (f createForm) heading(s section, title string) string {
	if f.focus == s {
		return theme.Selected.Render("▸ " + title)
	}
	return theme.Heading.Render("  " + title)
}

func (f createForm) view(width int) string {
	var parts []string

	parts = append(parts, f.heading(sectionFiles, "Documents"))
	if len(f.files) == 0 {
		parts = append(parts, theme.Hint.Render("    No ready documents. Upload PDFs in the library first."))
	}
	for i, file := range f.files {
		box := "[ ]"
		if f.picked[file.ID] {
			box = lipgloss.NewStyle().Foreground(theme.Success).Render("[x]")
		}
		name := file.Name
		if f.focus == sectionFiles && i == f.fileCursor {
			name = theme.Selected.Render(name)
		}
		parts = append(parts, "    "+box+" "+name)
	}
	if sel := f.selection(); len(sel.Files) > 1 {
		parts = append(parts, theme.WarningText.Render(
			fmt.Sprintf("    Only %s is used for generation.", sel.Files[0].Name)))
	}

	parts = append(parts, "", f.heading(sectionQuery, "Topic"), f.query.View())
	parts = append(parts, "", f.heading(sectionCount, "Length"), f.count.View()+
		theme.Hint.Render(fmt.Sprintf("  %d to %d", generation.MinQuestions, generation.MaxQuestions)))

	var diffs []string
	for _, d := range model.Difficulties() {
		if d == f.difficulty {
			diffs = append(diffs, theme.ButtonActive.Render(string(d)))
		} else {
			diffs = append(diffs, theme.ButtonInactive.Render(string(d)))
		}
	}
	parts = append(parts, "", f.heading(sectionDifficulty, "Difficulty"), "    "+strings.Join(diffs, " "))

	var types []string
	for i, t := range model.QuestionTypes() {
		box := "[ ]"
		if f.types[t] {
			box = "[x]"
		}
		label := box + " " + t.Label()
		if f.focus == sectionTypes && i == f.typeCursor {
			label = theme.Selected.Render(label)
		}
		types = append(types, label)
	}
	parts = append(parts, "", f.heading(sectionTypes, "Question types"), "    "+strings.Join(types, "   "))

	button := theme.ButtonInactive.Render("Generate")
	if f.focus == sectionSubmit {
		button = theme.ButtonActive.Render("Generate")
	}
	parts = append(parts, "", "  "+button)

	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(parts, "\n"))
}
