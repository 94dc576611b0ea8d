package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nswan/lifeweave/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// FormatInterval renders a temporal interval at its stored precision.
// A missing end on a dated interval reads as ongoing.
func FormatInterval(iv domain.Interval) string {
	if iv.IsTimeless() {
		return Dim("timeless")
	}
	start := iv.Start.String()
	if iv.Ongoing() {
		return start + Dim(" – ongoing")
	}
	return start + Dim(" – ") + iv.End.String()
}

// TypeBadge returns a capitalized, purple-styled span type label.
func TypeBadge(t domain.SpanType) string {
	s := string(t)
	if s == "" {
		return StyleDim.Render("--")
	}
	label := strings.ToUpper(s[:1]) + s[1:]
	return StylePurple.Render(label)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}
