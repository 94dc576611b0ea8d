package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAccessDenied is returned whenever the viewer lacks the required
// authority. Callers surface it as a generic denial so the existence of
// the resource never leaks.
var ErrAccessDenied = errors.New("access denied")

// ValidationError reports malformed input: a missing required field, a
// day without a month, and so on. Recoverable; surfaced verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConstraintKind distinguishes the two business-rule rejections a
// connection can hit.
type ConstraintKind string

const (
	ConstraintOverlap            ConstraintKind = "overlap"
	ConstraintDisallowedSpanType ConstraintKind = "disallowed_span_type"
)

// ConstraintError is a business-rule rejection of a candidate
// connection. Recoverable; the caller rolls back any partially created
// connection-span.
type ConstraintError struct {
	Kind ConstraintKind

	// Overlap details.
	ConflictingConnectionID string

	// DisallowedSpanType details.
	Role          string
	ExpectedTypes []SpanType
}

func (e *ConstraintError) Error() string {
	switch e.Kind {
	case ConstraintOverlap:
		return fmt.Sprintf("connection overlaps existing connection %s", e.ConflictingConnectionID)
	case ConstraintDisallowedSpanType:
		names := make([]string, len(e.ExpectedTypes))
		for i, t := range e.ExpectedTypes {
			names[i] = string(t)
		}
		return fmt.Sprintf("%s span type not allowed, expected one of: %s", e.Role, strings.Join(names, ", "))
	default:
		return fmt.Sprintf("constraint violation: %s", e.Kind)
	}
}
