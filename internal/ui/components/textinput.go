package components

import (
	"strconv"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/scholarai/scholar/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with a label and app styling.
type TextInput struct {
	Label       string
	Model       textinput.Model
	NumericOnly bool
}

// InputOptions configures a TextInput.
type InputOptions struct {
	Label       string
	Placeholder string
	Password    bool
	NumericOnly bool
	CharLimit   int
	Width       int
	Value       string
}

// NewTextInput creates an unfocused text input.
func NewTextInput(opts InputOptions) TextInput {
	ti := textinput.New()
	ti.Placeholder = opts.Placeholder
	ti.Prompt = "› "
	if opts.Password {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	if opts.CharLimit > 0 {
		ti.CharLimit = opts.CharLimit
	}
	if opts.Width > 0 {
		ti.SetWidth(opts.Width)
	}
	if opts.Value != "" {
		ti.SetValue(opts.Value)
	}
	return TextInput{
		Label:       opts.Label,
		Model:       ti,
		NumericOnly: opts.NumericOnly,
	}
}

// Focus focuses the input.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus from the input.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input has focus.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.NumericOnly {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			key := kmsg.String()
			if len(key) == 1 && (key[0] < '0' || key[0] > '9') {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label and the input.
func (t TextInput) View() string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	if t.Focused() {
		label = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	}
	if t.Label == "" {
		return t.Model.View()
	}
	return label.Render(t.Label) + "\n" + t.Model.View()
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(v string) {
	t.Model.SetValue(v)
}

// NumericValue returns the input value as an integer.
func (t TextInput) NumericValue() (int, error) {
	return strconv.Atoi(t.Model.Value())
}
