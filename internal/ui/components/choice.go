package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/scholarai/scholar/internal/ui/theme"
)

// ChoiceList lets the user pick one option of a question. Chosen is the
// option currently recorded as the answer, -1 when unanswered.
type ChoiceList struct {
	Options []string
	Cursor  int
	Chosen  int
}

// NewChoiceList creates a list with the cursor on the chosen option, or on
// the first option when nothing is chosen.
func NewChoiceList(options []string, chosen int) ChoiceList {
	c := ChoiceList{Options: options, Chosen: chosen}
	if chosen >= 0 && chosen < len(options) {
		c.Cursor = chosen
	} else {
		c.Chosen = -1
	}
	return c
}

// Update moves the cursor with up/down (or j/k) and picks with enter,
// space, or the option letter.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, false
	}
	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	case "enter", "space", " ":
		c.Chosen = c.Cursor
		return c, true
	default:
		if len(key) == 1 {
			i := int(strings.ToLower(key)[0]) - 'a'
			if i >= 0 && i < len(c.Options) {
				c.Cursor, c.Chosen = i, i
				return c, true
			}
		}
	}
	return c, false
}

// Value returns the text of the chosen option.
func (c ChoiceList) Value() string {
	if c.Chosen < 0 || c.Chosen >= len(c.Options) {
		return ""
	}
	return c.Options[c.Chosen]
}

// OptionLabel returns the letter of option i: A, B, C, ...
func OptionLabel(i int) string {
	return string(rune('A' + i))
}

// View renders the options with the cursor and the chosen marker.
func (c ChoiceList) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Cursor {
			prefix = "▸ "
		}
		mark := "○"
		if i == c.Chosen {
			mark = "●"
		}
		line := fmt.Sprintf("%s%s %s) %s", prefix, mark, OptionLabel(i), opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case i == c.Chosen:
			style = theme.Selected
		case i == c.Cursor:
			style = lipgloss.NewStyle().Foreground(theme.Secondary)
		}
		b.WriteString(style.Render(line) + "\n")
	}
	return b.String()
}

// RevealView renders the options of a graded question: the correct option
// in green and a wrong pick in red.
func RevealView(options []string, correct int, picked string) string {
	var b strings.Builder
	for i, opt := range options {
		line := fmt.Sprintf("  %s) %s", OptionLabel(i), opt)
		isPicked := strings.EqualFold(strings.TrimSpace(picked), strings.TrimSpace(opt)) && picked != ""
		switch {
		case i == correct:
			b.WriteString(theme.Correct.Render(line+"  ✓") + "\n")
		case isPicked:
			b.WriteString(theme.Incorrect.Render(line+"  ✗") + "\n")
		default:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n")
		}
	}
	return b.String()
}
