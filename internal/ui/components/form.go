package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// Form is a vertical list of text inputs with one focused field. Tab and
// the arrow keys move the focus.
type Form struct {
	Fields  []TextInput
	focused int
}

// NewForm creates a form and focuses its first field.
func NewForm(fields ...TextInput) Form {
	f := Form{Fields: fields}
	if len(fields) > 0 {
		f.Fields[0].Focus()
	}
	return f
}

// Init returns the cursor blink command of the focused field.
func (f Form) Init() tea.Cmd {
	if len(f.Fields) == 0 {
		return nil
	}
	return f.Fields[f.focused].Focus()
}

// Focused returns the index of the focused field.
func (f Form) Focused() int { return f.focused }

// FocusField moves the focus to field i.
func (f *Form) FocusField(i int) tea.Cmd {
	if i < 0 || i >= len(f.Fields) {
		return nil
	}
	f.Fields[f.focused].Blur()
	f.focused = i
	return f.Fields[i].Focus()
}

// IsLast reports whether the last field has focus.
func (f Form) IsLast() bool { return f.focused == len(f.Fields)-1 }

// Value returns the value of field i.
func (f Form) Value(i int) string {
	return f.Fields[i].Value()
}

// TrimmedValue returns the value of field i without surrounding space.
func (f Form) TrimmedValue(i int) string {
	return strings.TrimSpace(f.Fields[i].Value())
}

// Update moves focus on tab/shift+tab/up/down and forwards everything else
// to the focused field.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	if len(f.Fields) == 0 {
		return f, nil
	}
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab", "down":
			return f, f.FocusField((f.focused + 1) % len(f.Fields))
		case "shift+tab", "up":
			return f, f.FocusField((f.focused - 1 + len(f.Fields)) % len(f.Fields))
		}
	}
	var cmd tea.Cmd
	f.Fields[f.focused], cmd = f.Fields[f.focused].Update(msg)
	return f, cmd
}

// View renders the fields separated by blank lines.
func (f Form) View() string {
	parts := make([]string, len(f.Fields))
	for i, field := range f.Fields {
		parts[i] = field.View()
	}
	return strings.Join(parts, "\n\n")
}
