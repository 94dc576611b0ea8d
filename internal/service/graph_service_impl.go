package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/nswan/lifeweave/internal/domain"
	"github.com/nswan/lifeweave/internal/repository"
)

type graphService struct {
	spans repository.SpanRepo
	conns repository.ConnectionRepo
	types repository.ConnectionTypeRepo
	perms repository.PermissionRepo
}

func NewGraphService(
	spans repository.SpanRepo,
	conns repository.ConnectionRepo,
	types repository.ConnectionTypeRepo,
	perms repository.PermissionRepo,
) GraphService {
	return &graphService{spans: spans, conns: conns, types: types, perms: perms}
}

// Neighborhood expands the graph around a span: one batched edge query
// per hop, endpoint spans and grants loaded in bulk, every edge access
// filtered, and each neighbor reported once (first-discovered path
// wins). Place spans and traversal-excluded spans (notes, sets, photo
// things) terminate expansion at hop 1.
func (s *graphService) Neighborhood(ctx context.Context, spanID string, depth int, viewer *domain.SessionContext) ([]NeighborhoodEdge, error) {
	if depth < 1 || depth > 2 {
		return nil, fmt.Errorf("neighborhood depth must be 1 or 2, got %d", depth)
	}

	root, err := s.spans.GetByID(ctx, spanID)
	if err != nil {
		return nil, err
	}
	rootGrants, err := s.perms.ListBySpan(ctx, root.ID)
	if err != nil {
		return nil, err
	}
	if !domain.CanViewSpan(viewer, root, rootGrants) {
		return nil, domain.ErrAccessDenied
	}

	catalog, err := s.typeCatalog(ctx)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{root.ID: true}

	hop1, err := s.expand(ctx, root, 1, viewer, catalog, seen)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(hop1, func(i, j int) bool {
		if hop1[i].Predicate != hop1[j].Predicate {
			return hop1[i].Predicate < hop1[j].Predicate
		}
		return hop1[i].Neighbor.Name < hop1[j].Neighbor.Name
	})

	result := hop1
	if depth == 2 {
		var hop2 []NeighborhoodEdge
		for _, e := range hop1 {
			if !expandable(e.Neighbor) {
				continue
			}
			sub, err := s.expand(ctx, e.Neighbor, 2, viewer, catalog, seen)
			if err != nil {
				return nil, err
			}
			hop2 = append(hop2, sub...)
		}
		sort.SliceStable(hop2, func(i, j int) bool {
			if hop2[i].ViaName != hop2[j].ViaName {
				return hop2[i].ViaName < hop2[j].ViaName
			}
			if hop2[i].Predicate != hop2[j].Predicate {
				return hop2[i].Predicate < hop2[j].Predicate
			}
			return hop2[i].Neighbor.Name < hop2[j].Neighbor.Name
		})
		result = append(result, hop2...)
	}
	return result, nil
}

// expand walks one hop out from a span: lists its edges, bulk-loads the
// far endpoints and their grants, access-filters, and claims unseen
// neighbors. seen is shared across the whole expansion for dedup.
func (s *graphService) expand(
	ctx context.Context,
	from *domain.Span,
	hop int,
	viewer *domain.SessionContext,
	catalog map[string]domain.ConnectionType,
	seen map[string]bool,
) ([]NeighborhoodEdge, error) {
	edges, err := s.conns.ListBySpan(ctx, from.ID)
	if err != nil {
		return nil, err
	}

	neighborIDs := make([]string, 0, len(edges))
	for _, e := range edges {
		neighborIDs = append(neighborIDs, otherEnd(e.Connection, from.ID))
	}
	neighbors, err := s.spans.ListByIDs(ctx, neighborIDs)
	if err != nil {
		return nil, err
	}
	grantsBySpan, err := s.perms.ListBySpans(ctx, neighborIDs)
	if err != nil {
		return nil, err
	}

	var out []NeighborhoodEdge
	for _, e := range edges {
		neighborID := otherEnd(e.Connection, from.ID)
		if seen[neighborID] {
			continue
		}
		neighbor := neighbors[neighborID]
		if neighbor == nil {
			continue
		}
		if !domain.CanViewSpan(viewer, neighbor, grantsBySpan[neighborID]) {
			continue
		}

		ct, ok := catalog[e.Connection.Type]
		if !ok {
			continue
		}
		dir := domain.DirectionForward
		if e.Connection.ChildID == from.ID {
			dir = domain.DirectionInverse
		}

		seen[neighborID] = true
		edge := NeighborhoodEdge{
			Hop:            hop,
			Predicate:      ct.Predicate(dir),
			Connection:     e.Connection,
			ConnectionSpan: e.ConnectionSpan,
			Neighbor:       neighbor,
		}
		if hop > 1 {
			edge.ViaID = from.ID
			edge.ViaName = from.Name
		}
		out = append(out, edge)
	}
	return out, nil
}

func (s *graphService) typeCatalog(ctx context.Context) (map[string]domain.ConnectionType, error) {
	all, err := s.types.List(ctx)
	if err != nil {
		return nil, err
	}
	catalog := make(map[string]domain.ConnectionType, len(all))
	for _, ct := range all {
		catalog[ct.Type] = *ct
	}
	return catalog, nil
}

func otherEnd(c domain.Connection, fromID string) string {
	if c.ParentID == fromID {
		return c.ChildID
	}
	return c.ParentID
}

// expandable reports whether a second hop may pass through this span.
// Places would drag in everyone who ever lived there; notes, sets, and
// photo things are annotations, not waypoints.
func expandable(s *domain.Span) bool {
	switch s.Type {
	case domain.SpanPlace, domain.SpanNote, domain.SpanSet:
		return false
	case domain.SpanThing:
		return s.Metadata.Subtype() != "photo"
	default:
		return true
	}
}
