package formatter

import (
	"fmt"
	"strings"

	"github.com/nswan/lifeweave/internal/domain"
)

// ConnectionLine is one rendered edge in a span inspect card.
type ConnectionLine struct {
	Predicate string
	Neighbor  string
	When      string
}

// FormatSpanList renders a styled span list inside a bordered box.
func FormatSpanList(spans []*domain.Span) string {
	headers := []string{"ID", "NAME", "TYPE", "WHEN", "STATE", "ACCESS"}
	rows := make([][]string, 0, len(spans))

	for _, s := range spans {
		rows = append(rows, []string{
			TruncID(s.ID),
			Bold(s.Name),
			TypeBadge(s.Type),
			FormatInterval(s.Interval()),
			StateBadge(s.State),
			AccessBadge(s.AccessLevel),
		})
	}

	table := RenderTable(headers, rows)
	return RenderBox("Spans", table)
}

// FormatSpanInspect renders a span card with its direct connections.
func FormatSpanInspect(s *domain.Span, lines []ConnectionLine) string {
	var b strings.Builder

	b.WriteString(StyleBold.Render(s.Name) + "\n")
	b.WriteString(TypeBadge(s.Type) + "\n\n")

	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("SLUG  "), StyleFg.Render(s.Slug)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("UUID  "), TruncID(s.ID)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("WHEN  "), FormatInterval(s.Interval())))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("STATE "), StateBadge(s.State)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("ACCESS"), AccessBadge(s.AccessLevel)))
	if s.OwnerID != "" {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("OWNER "), Dim(s.OwnerID)))
	}

	if len(lines) > 0 {
		b.WriteString("\n" + Header("Connections") + "\n")
		for _, l := range lines {
			b.WriteString(fmt.Sprintf("%s %s  %s\n",
				Dim(l.Predicate), Bold(l.Neighbor), l.When))
		}
	}

	return RenderBox("", b.String())
}

// FormatConnectionTypes renders the connection-type catalog as a table.
func FormatConnectionTypes(types []*domain.ConnectionType) string {
	headers := []string{"TYPE", "FORWARD", "INVERSE", "CONSTRAINT"}
	rows := make([][]string, 0, len(types))

	for _, ct := range types {
		rows = append(rows, []string{
			Bold(ct.Type),
			StyleFg.Render(ct.ForwardPredicate),
			StyleFg.Render(ct.InversePredicate),
			constraintBadge(ct.Constraint),
		})
	}

	table := RenderTable(headers, rows)
	return RenderBox("Connection Types", table)
}

func constraintBadge(c domain.ConstraintType) string {
	switch c {
	case domain.ConstraintSingle:
		return StyleYellow.Render("single")
	case domain.ConstraintMultiple:
		return StyleGreen.Render("multiple")
	case domain.ConstraintTimeless:
		return StyleDim.Render("timeless")
	default:
		return StyleDim.Render(string(c))
	}
}

// FormatConnection renders one connection as a sentence with its dates.
func FormatConnection(parent, child *domain.Span, predicate string, iv domain.Interval) string {
	return fmt.Sprintf("%s %s %s  %s",
		Bold(parent.Name), Dim(predicate), Bold(child.Name), FormatInterval(iv))
}

// FormatUserList renders a user table.
func FormatUserList(users []*domain.User) string {
	headers := []string{"ID", "NAME", "ADMIN", "PERSONAL SPAN"}
	rows := make([][]string, 0, len(users))

	for _, u := range users {
		admin := Dim("--")
		if u.IsAdmin {
			admin = StyleGreen.Render("yes")
		}
		personal := Dim("--")
		if u.PersonalSpanID != nil {
			personal = TruncID(*u.PersonalSpanID)
		}
		rows = append(rows, []string{u.ID, Bold(u.Name), admin, personal})
	}

	table := RenderTable(headers, rows)
	return RenderBox("Users", table)
}
