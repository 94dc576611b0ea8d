package domain

import (
	"fmt"
	"strings"
	"time"
)

// Span is a node in the life graph: a person, place, event, or any other
// dated (or timeless) entity. Connection-spans are spans of type
// "connection" that carry the temporal range, state, and access level of
// a relationship.
type Span struct {
	ID   string
	Type SpanType
	Name string
	Slug string

	Start PartialDate
	End   PartialDate
	// StartPrecision/EndPrecision record which components are meaningful
	// for display, even when a coarser date is stored.
	StartPrecision DatePrecision
	EndPrecision   DatePrecision

	State       SpanState
	AccessLevel AccessLevel
	OwnerID     string
	UpdaterID   string

	// Metadata is the open, type-specific extension bag. The engine only
	// reads the keys exposed through the typed accessors.
	Metadata Metadata

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the span's temporal range.
func (s *Span) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}

// IsConnectionSpan reports whether the span backs a connection.
func (s *Span) IsConnectionSpan() bool {
	return s.Type == SpanConnection
}

// Validate checks structural and state-dependent rules. Placeholder
// spans are exempt from temporal validation entirely; draft and complete
// spans of non-timeless types need at least a start year.
func (s *Span) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if !ValidSpanTypes[string(s.Type)] {
		return &ValidationError{Field: "type", Message: fmt.Sprintf("unknown span type %q", s.Type)}
	}
	switch s.State {
	case StatePlaceholder, StateDraft, StateComplete:
	default:
		return &ValidationError{Field: "state", Message: fmt.Sprintf("unknown state %q", s.State)}
	}
	switch s.AccessLevel {
	case AccessPublic, AccessPrivate, AccessShared:
	default:
		return &ValidationError{Field: "access_level", Message: fmt.Sprintf("unknown access level %q", s.AccessLevel)}
	}
	if s.State == StatePlaceholder {
		return nil
	}
	if !TimelessSpanTypes[s.Type] && s.Start.IsTimeless() {
		return &ValidationError{Field: "start", Message: fmt.Sprintf("%s spans in state %q need at least a start year", s.Type, s.State)}
	}
	return s.Interval().Validate()
}

// DisplayID returns a short identifier for display: the slug when set,
// otherwise the first 8 characters of the UUID.
func (s *Span) DisplayID() string {
	if s.Slug != "" {
		return s.Slug
	}
	if len(s.ID) >= 8 {
		return s.ID[:8]
	}
	return s.ID
}

// Slugify derives a URL-safe slug from a span name: lowercased, with
// runs of non-alphanumerics collapsed to single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
