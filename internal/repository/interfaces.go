package repository

import (
	"context"

	"github.com/nswan/lifeweave/internal/domain"
)

// SubjectConnection is the joined view the constraint validator needs:
// each existing connection of one (parent, type) pair together with the
// interval and state of its connection-span.
type SubjectConnection struct {
	ConnectionID string
	ChildID      string
	Interval     domain.Interval
	State        domain.SpanState
}

// ConnectionEdge is a connection joined with its connection-span, used
// by the traversal to avoid a per-edge query.
type ConnectionEdge struct {
	Connection     domain.Connection
	ConnectionSpan domain.Span
}

type SpanRepo interface {
	Create(ctx context.Context, s *domain.Span) error
	GetByID(ctx context.Context, id string) (*domain.Span, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Span, error)
	List(ctx context.Context, spanType domain.SpanType) ([]*domain.Span, error)
	ListByIDs(ctx context.Context, ids []string) (map[string]*domain.Span, error)
	Update(ctx context.Context, s *domain.Span) error
	Delete(ctx context.Context, id string) error
}

type ConnectionRepo interface {
	Create(ctx context.Context, c *domain.Connection) error
	GetByID(ctx context.Context, id string) (*domain.Connection, error)
	GetByConnectionSpan(ctx context.Context, connectionSpanID string) (*domain.Connection, error)
	ListBySubjectAndType(ctx context.Context, parentID, typeKey string) ([]SubjectConnection, error)
	ListBySpan(ctx context.Context, spanID string) ([]ConnectionEdge, error)
	Update(ctx context.Context, c *domain.Connection) error
	Delete(ctx context.Context, id string) error
}

type ConnectionTypeRepo interface {
	Get(ctx context.Context, key string) (*domain.ConnectionType, error)
	List(ctx context.Context) ([]*domain.ConnectionType, error)
}

type PermissionRepo interface {
	Grant(ctx context.Context, p *domain.SpanPermission) error
	GetByID(ctx context.Context, id string) (*domain.SpanPermission, error)
	Revoke(ctx context.Context, id string) error
	ListBySpan(ctx context.Context, spanID string) ([]domain.SpanPermission, error)
	ListBySpans(ctx context.Context, spanIDs []string) (map[string][]domain.SpanPermission, error)
}

type GroupRepo interface {
	Create(ctx context.Context, g *domain.Group) error
	GetByID(ctx context.Context, id string) (*domain.Group, error)
	AddMember(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	ListGroupIDsByUser(ctx context.Context, userID string) ([]string, error)
	Delete(ctx context.Context, id string) error
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	SetPersonalSpan(ctx context.Context, userID string, spanID *string) error
}

// SessionRepo persists per-user session state, which for this engine is
// only the admin-mode suppression flag.
type SessionRepo interface {
	Get(ctx context.Context, userID string) (suppressed bool, err error)
	SetAdminModeSuppressed(ctx context.Context, userID string, suppressed bool) error
	Clear(ctx context.Context, userID string) error
}
