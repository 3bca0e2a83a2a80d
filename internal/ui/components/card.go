package components

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/scholarai/scholar/internal/ui/theme"
)

// ContentWidth returns the width used for page content, capped so lines
// stay readable on wide terminals.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-4, 20), 100)
}

// Card renders a titled, bordered box of the given outer width.
func Card(title, body string, width int) string {
	content := body
	if title != "" {
		content = theme.Heading.Render(title) + "\n" + body
	}
	return theme.Card.Width(max(width, 10)).Render(content)
}

// Stat renders a small metric card: a big value with a label under it.
func Stat(label, value string, width int) string {
	return theme.Card.
		Width(max(width, 10)).
		Align(lipgloss.Center).
		Render(theme.Title.Render(value) + "\n" + theme.Subtitle.Render(label))
}

// AlertBox renders a blocking error message with a dismiss hint.
func AlertBox(message string, width int) string {
	return theme.Alert.
		Width(max(min(width, 70), 20)).
		Render(message + "\n\n" + theme.Hint.Render("press enter to dismiss"))
}

// ConfirmBox renders a yes/no prompt.
func ConfirmBox(question string, width int) string {
	return theme.Card.
		BorderForeground(theme.Warning).
		Width(max(min(width, 70), 20)).
		Render(question + "\n\n" + theme.Hint.Render("y confirm · n cancel"))
}

// Page lays out a heading, an optional subtitle and sections, centred
// horizontally within width.
func Page(title, subtitle string, width int, sections ...string) string {
	cw := ContentWidth(width)
	parts := []string{theme.Title.Render(title)}
	if subtitle != "" {
		parts = append(parts, theme.Subtitle.Render(subtitle))
	}
	for _, s := range sections {
		if s == "" {
			continue
		}
		parts = append(parts, "", s)
	}
	body := lipgloss.NewStyle().Width(cw).Render(strings.Join(parts, "\n"))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

// Badge renders a short coloured label.
func Badge(text string, c color.Color) string {
	return theme.Badge.Foreground(c).Render(text)
}
