package formatter

import (
	"regexp"
	"testing"

	"github.com/nswan/lifeweave/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ansiPattern matches ANSI escape sequences for stripping before comparison.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripAnsi(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func mustParse(t *testing.T, s string) domain.PartialDate {
	t.Helper()
	d, err := domain.ParsePartialDate(s)
	require.NoError(t, err)
	return d
}

func TestFormatInterval(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       string
	}{
		{"bounded", "2000", "2010-06", "2000 – 2010-06"},
		{"ongoing", "1987-05-01", "", "1987-05-01 – ongoing"},
		{"timeless", "", "", "timeless"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv := domain.Interval{}
			if tt.start != "" {
				iv.Start = mustParse(t, tt.start)
			}
			if tt.end != "" {
				iv.End = mustParse(t, tt.end)
			}
			assert.Equal(t, tt.want, stripAnsi(FormatInterval(iv)))
		})
	}
}

func TestFormatSpanList(t *testing.T) {
	spans := []*domain.Span{
		{
			ID: "11111111-aaaa", Name: "Alice", Type: domain.SpanPerson,
			Start: mustParse(t, "1980"), State: domain.StateComplete,
			AccessLevel: domain.AccessPublic,
		},
		{
			ID: "22222222-bbbb", Name: "Acme", Type: domain.SpanOrganisation,
			State: domain.StatePlaceholder, AccessLevel: domain.AccessPrivate,
		},
	}

	out := stripAnsi(FormatSpanList(spans))
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "1980 – ongoing")
	assert.Contains(t, out, "◌ Placeholder")
	assert.Contains(t, out, "11111111")
	assert.NotContains(t, out, "11111111-aaaa", "IDs are truncated")
}

func TestFormatSpanInspect(t *testing.T) {
	s := &domain.Span{
		ID: "33333333-cccc", Name: "Paris", Slug: "paris",
		Type: domain.SpanPlace, Start: mustParse(t, "0987"),
		State: domain.StateComplete, AccessLevel: domain.AccessShared,
		OwnerID: "default",
	}
	lines := []ConnectionLine{
		{Predicate: "was home to", Neighbor: "Alice", When: "2000 – 2010"},
	}

	out := stripAnsi(FormatSpanInspect(s, lines))
	assert.Contains(t, out, "Paris")
	assert.Contains(t, out, "paris")
	assert.Contains(t, out, "shared")
	assert.Contains(t, out, "was home to Alice")
}

func TestFormatNeighborhood(t *testing.T) {
	items := []NeighborhoodItem{
		{Hop: 1, Predicate: "was child of", Neighbor: "Bob", When: "timeless"},
		{Hop: 2, ViaID: "bob", Predicate: "was parent of", Neighbor: "Carol", When: "timeless", IsLast: true},
		{Hop: 1, Predicate: "worked at", Neighbor: "Acme", When: "2010 – 2015", IsLast: true},
	}

	out := stripAnsi(FormatNeighborhood("Alice", items))
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "├─ was child of Bob")
	assert.Contains(t, out, "│  └─ was parent of Carol")
	assert.Contains(t, out, "└─ worked at Acme")
	assert.Contains(t, out, "[ 2010 – 2015 ]")
}
