package importer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nswan/lifeweave/internal/domain"
)

// GeneratedGraph is the result of converting an import schema into
// domain entities with real UUIDs and resolved references.
type GeneratedGraph struct {
	Spans []*domain.Span
	// Connections pair each edge with its generated connection-span;
	// the service persists both inside one transaction.
	Connections []GeneratedConnection
}

// GeneratedConnection bundles a connection with its connection-span.
type GeneratedConnection struct {
	Connection     *domain.Connection
	ConnectionSpan *domain.Span
}

// Convert transforms a validated import schema into domain entities.
// ownerID becomes the owner of every generated span.
func Convert(schema *ImportSchema, ownerID string) (*GeneratedGraph, error) {
	now := time.Now().UTC()
	idByRef := make(map[string]string, len(schema.Spans))

	g := &GeneratedGraph{}
	for _, si := range schema.Spans {
		span, err := convertSpan(si, ownerID, now)
		if err != nil {
			return nil, err
		}
		idByRef[si.Ref] = span.ID
		g.Spans = append(g.Spans, span)
	}

	for _, ci := range schema.Connections {
		start, err := domain.ParsePartialDate(ci.Start)
		if err != nil {
			return nil, fmt.Errorf("connection %s->%s: %w", ci.ParentRef, ci.ChildRef, err)
		}
		end, err := domain.ParsePartialDate(ci.End)
		if err != nil {
			return nil, fmt.Errorf("connection %s->%s: %w", ci.ParentRef, ci.ChildRef, err)
		}

		// Dateless edges get placeholder connection-spans, the one state
		// with no start-year requirement.
		state := domain.StateComplete
		if start.IsTimeless() {
			state = domain.StatePlaceholder
		}
		connSpan := &domain.Span{
			ID:             uuid.New().String(),
			Type:           domain.SpanConnection,
			Name:           fmt.Sprintf("%s %s %s", ci.ParentRef, ci.Type, ci.ChildRef),
			Start:          start,
			End:            end,
			StartPrecision: start.Precision(),
			EndPrecision:   end.Precision(),
			State:          state,
			AccessLevel:    domain.AccessPrivate,
			OwnerID:        ownerID,
			UpdaterID:      ownerID,
			Metadata:       domain.Metadata{},
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		conn := &domain.Connection{
			ID:               uuid.New().String(),
			ParentID:         idByRef[ci.ParentRef],
			ChildID:          idByRef[ci.ChildRef],
			Type:             ci.Type,
			ConnectionSpanID: connSpan.ID,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		g.Connections = append(g.Connections, GeneratedConnection{Connection: conn, ConnectionSpan: connSpan})
	}

	return g, nil
}

func convertSpan(si SpanImport, ownerID string, now time.Time) (*domain.Span, error) {
	start, err := domain.ParsePartialDate(si.Start)
	if err != nil {
		return nil, fmt.Errorf("span %q: %w", si.Ref, err)
	}
	end, err := domain.ParsePartialDate(si.End)
	if err != nil {
		return nil, fmt.Errorf("span %q: %w", si.Ref, err)
	}

	state := domain.SpanState(si.State)
	if si.State == "" {
		state = domain.StateComplete
	}
	access := domain.AccessLevel(si.AccessLevel)
	if si.AccessLevel == "" {
		access = domain.AccessPrivate
	}
	slug := si.Slug
	if slug == "" && state != domain.StatePlaceholder {
		slug = domain.Slugify(si.Name)
	}
	meta := domain.Metadata(si.Metadata)
	if meta == nil {
		meta = domain.Metadata{}
	}

	span := &domain.Span{
		ID:             uuid.New().String(),
		Type:           domain.SpanType(si.Type),
		Name:           si.Name,
		Slug:           slug,
		Start:          start,
		End:            end,
		StartPrecision: start.Precision(),
		EndPrecision:   end.Precision(),
		State:          state,
		AccessLevel:    access,
		OwnerID:        ownerID,
		UpdaterID:      ownerID,
		Metadata:       meta,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := span.Validate(); err != nil {
		return nil, fmt.Errorf("span %q: %w", si.Ref, err)
	}
	return span, nil
}
