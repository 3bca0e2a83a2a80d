package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: emerald on stone, amber for warnings.
var (
	Primary   = lipgloss.Color("#059669") // Emerald 600
	Secondary = lipgloss.Color("#34D399") // Emerald 400
	Accent    = lipgloss.Color("#2563EB") // Blue 600
	Success   = lipgloss.Color("#10B981") // Emerald 500
	Warning   = lipgloss.Color("#D97706") // Amber 600
	Error     = lipgloss.Color("#DC2626") // Red 600
	Text      = lipgloss.Color("#F5F5F4") // Stone 100
	TextDim   = lipgloss.Color("#A8A29E") // Stone 400
	BgDark    = lipgloss.Color("#1C1917") // Stone 900
	BgCard    = lipgloss.Color("#292524") // Stone 800
	Border    = lipgloss.Color("#44403C") // Stone 700
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Heading = lipgloss.NewStyle().
		Bold(true).
		Foreground(Text)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error)

	WarningText = lipgloss.NewStyle().
			Foreground(Warning)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	Alert = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Error).
		Foreground(Error).
		Padding(0, 1)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Primary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)

	Badge = lipgloss.NewStyle().
		Padding(0, 1).
		Bold(true)
)

// ScoreStyle colours a score by band: 90 and up good, 70 and up fair.
func ScoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 90:
		return Correct
	case score >= 70:
		return lipgloss.NewStyle().Foreground(Warning).Bold(true)
	}
	return Incorrect
}
