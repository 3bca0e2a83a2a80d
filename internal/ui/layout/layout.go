package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	HeaderHeight = 3
	FooterHeight = 3

	// Below this width the navigation links collapse into an overlay.
	CompactWidthThreshold = 110
)

// Brand is the product name shown in the header.
const Brand = "ScholarAI"

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsCompactWidth returns true if the terminal width is in compact range.
func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// Header describes what the header bar shows.
type Header struct {
	Title string
	// Page highlights the matching navigation link.
	Page model.Page
	// User is nil on public pages; navigation links are hidden then.
	User *model.User
}

// RenderHeader renders the application header bar. On wide terminals the
// navigation links are shown inline; compact terminals show a menu hint.
func RenderHeader(h Header, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(" ◆ " + Brand)

	var center string
	switch {
	case h.User == nil:
		center = lipgloss.NewStyle().Foreground(theme.Text).Render(h.Title)
	case IsCompactWidth(width):
		center = lipgloss.NewStyle().Foreground(theme.Text).Render(h.Title) +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("  (ctrl+o menu)")
	default:
		center = renderNavLinks(h.Page)
	}

	right := ""
	if h.User != nil {
		right = lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(theme.Text).
			Bold(true).
			Padding(0, 1).
			Render(h.User.Avatar)
	}

	leftLen := lipgloss.Width(left)
	centerLen := lipgloss.Width(center)
	rightLen := lipgloss.Width(right)

	innerWidth := max(width-4, 0)
	leftGap := max((innerWidth-centerLen)/2-leftLen, 1)
	rightGap := max(innerWidth-leftLen-leftGap-centerLen-rightLen, 1)

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

func renderNavLinks(active model.Page) string {
	links := model.NavLinks()
	parts := make([]string, 0, len(links))
	for i, p := range links {
		label := fmt.Sprintf("%d %s", i+1, p.Label())
		if p == active {
			parts = append(parts, theme.Selected.Underline(true).Render(label))
			continue
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.TextDim).Render(label))
	}
	return strings.Join(parts, "  ")
}

// RenderNavOverlay renders the compact navigation menu.
func RenderNavOverlay(active model.Page, cursor int, width int) string {
	var b strings.Builder
	b.WriteString(theme.Heading.Render("Navigate"))
	b.WriteString("\n\n")
	for i, p := range model.NavLinks() {
		prefix := "  "
		style := theme.Unselected
		if i == cursor {
			prefix = "▸ "
			style = theme.Selected
		}
		label := p.Label()
		if p == active {
			label += " •"
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%d %s", prefix, i+1, label)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("enter open · esc close"))

	box := theme.Card.BorderForeground(theme.Primary).Padding(1, 3).Render(b.String())
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
}

// RenderFooter renders the footer with key hints.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		part := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) +
			" " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
		parts = append(parts, part)
	}

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render("  " + strings.Join(parts, "   "))
}

// RenderFrame composes the full frame: header + content + footer.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	styledContent := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return header + "\n" + styledContent + "\n" + footer
}
