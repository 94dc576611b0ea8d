package service

import (
	"context"

	"github.com/nswan/lifeweave/internal/domain"
	"github.com/nswan/lifeweave/internal/importer"
)

type SpanService interface {
	Create(ctx context.Context, s *domain.Span, actor *domain.SessionContext) error
	GetByID(ctx context.Context, id string, viewer *domain.SessionContext) (*domain.Span, error)
	// Resolve looks a span up by slug, exact name, or UUID prefix.
	Resolve(ctx context.Context, ref string, viewer *domain.SessionContext) (*domain.Span, error)
	List(ctx context.Context, spanType domain.SpanType, viewer *domain.SessionContext) ([]*domain.Span, error)
	Update(ctx context.Context, s *domain.Span, actor *domain.SessionContext) error
	Delete(ctx context.Context, id string, actor *domain.SessionContext) error
}

// CreateConnectionInput describes a connection to create. When ChildID
// is empty and ChildName is set, a placeholder span of ChildType is
// created as the target. Direction inverse swaps the endpoint roles, so
// "X was child of Y" stores Y as parent.
type CreateConnectionInput struct {
	ParentID  string
	ChildID   string
	ChildName string
	ChildType domain.SpanType
	Type      string
	Direction domain.Direction
	Start     domain.PartialDate
	End       domain.PartialDate
}

// ConnectionDetail is a connection with everything hanging off it.
type ConnectionDetail struct {
	Connection     *domain.Connection
	ConnectionSpan *domain.Span
	Parent         *domain.Span
	Child          *domain.Span
}

type ConnectionService interface {
	Create(ctx context.Context, in CreateConnectionInput, actor *domain.SessionContext) (*ConnectionDetail, error)
	GetByID(ctx context.Context, id string, viewer *domain.SessionContext) (*ConnectionDetail, error)
	// UpdateInterval re-dates the connection-span and re-checks the
	// temporal constraint within the same transaction.
	UpdateInterval(ctx context.Context, id string, start, end domain.PartialDate, actor *domain.SessionContext) error
	Delete(ctx context.Context, id string, actor *domain.SessionContext) error
	ListTypes(ctx context.Context) ([]*domain.ConnectionType, error)
}

// NeighborhoodEdge is one row of a neighborhood expansion: the edge, its
// temporal backing, the neighbor it leads to, and where it hangs.
type NeighborhoodEdge struct {
	Hop            int
	ViaID          string // hop-1 neighbor this hop-2 edge hangs off
	ViaName        string
	Predicate      string
	Connection     domain.Connection
	ConnectionSpan domain.Span
	Neighbor       *domain.Span
}

type GraphService interface {
	// Neighborhood expands the graph around a span to the given depth
	// (1 or 2), filtered to edges the viewer may see.
	Neighborhood(ctx context.Context, spanID string, depth int, viewer *domain.SessionContext) ([]NeighborhoodEdge, error)
}

type UserService interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// SetPersonalSpan designates the span representing the user; an
	// empty spanID clears the designation.
	SetPersonalSpan(ctx context.Context, userID, spanID string) error
	CreateGroup(ctx context.Context, g *domain.Group) error
	AddGroupMember(ctx context.Context, groupID, userID string) error
	RemoveGroupMember(ctx context.Context, groupID, userID string) error
	Grant(ctx context.Context, p *domain.SpanPermission, actor *domain.SessionContext) error
	Revoke(ctx context.Context, permissionID string, actor *domain.SessionContext) error
}

type SessionService interface {
	// Session resolves the full session context for a user: identity,
	// group memberships, and the admin-mode suppression flag.
	Session(ctx context.Context, userID string) (*domain.SessionContext, error)
	// SetAdminMode enables or disables admin mode for the session.
	// Returns false when the session was already in the requested state.
	SetAdminMode(ctx context.Context, userID string, enabled bool) (changed bool, err error)
	Logout(ctx context.Context, userID string) error
}

// ImportResult holds the outcome of a graph import.
type ImportResult struct {
	SpanCount       int
	ConnectionCount int
}

type ImportService interface {
	ImportGraph(ctx context.Context, filePath string, actor *domain.SessionContext) (*ImportResult, error)
	ImportGraphFromSchema(ctx context.Context, schema *importer.ImportSchema, actor *domain.SessionContext) (*ImportResult, error)
}
