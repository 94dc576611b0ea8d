package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// NeighborhoodItem is a single rendered row of a neighborhood walk.
// Hop-2 rows carry ViaID and render indented beneath their hop-1 parent.
type NeighborhoodItem struct {
	Hop       int
	ViaID     string
	Predicate string
	Neighbor  string
	When      string
	IsLast    bool
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// FormatNeighborhood renders a neighborhood walk as an indented tree
// rooted at the anchor span. Predicates are dimmed, neighbor names bold,
// and the temporal badge is right-aligned across all rows.
func FormatNeighborhood(root string, items []NeighborhoodItem) string {
	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, 0, len(items)+1)
	lines = append(lines, lineInfo{content: StyleBold.Render(root)})

	maxWidth := lipgloss.Width(lines[0].content)
	for _, item := range items {
		prefix := ""
		if item.Hop > 1 {
			prefix = treePipe
		}
		if item.IsLast {
			prefix += treeCorner
		} else {
			prefix += treeBranch
		}

		content := prefix + Dim(item.Predicate+" ") + Bold(item.Neighbor)
		badge := ""
		if item.When != "" {
			badge = StyleBlue.Render("[ " + item.When + " ]")
		}
		lines = append(lines, lineInfo{content: content, badge: badge})

		if w := lipgloss.Width(content); w > maxWidth {
			maxWidth = w
		}
	}

	var b strings.Builder
	for i, l := range lines {
		b.WriteString(l.content)
		if l.badge != "" {
			pad := maxWidth - lipgloss.Width(l.content) + 2
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(l.badge)
		}
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}

	return RenderBox("Neighborhood", b.String())
}
