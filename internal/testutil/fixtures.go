package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/nswan/lifeweave/internal/domain"
)

// DefaultUserID is the locally seeded admin user every test database
// starts with.
const DefaultUserID = "default"

// Span options
type SpanOption func(*domain.Span)

func WithSpanType(t domain.SpanType) SpanOption {
	return func(s *domain.Span) {
		s.Type = t
	}
}

func WithDates(start, end string) SpanOption {
	return func(s *domain.Span) {
		s.Start, _ = domain.ParsePartialDate(start)
		s.End, _ = domain.ParsePartialDate(end)
		s.StartPrecision = s.Start.Precision()
		s.EndPrecision = s.End.Precision()
	}
}

func WithState(st domain.SpanState) SpanOption {
	return func(s *domain.Span) {
		s.State = st
	}
}

func WithAccessLevel(a domain.AccessLevel) SpanOption {
	return func(s *domain.Span) {
		s.AccessLevel = a
	}
}

func WithOwner(userID string) SpanOption {
	return func(s *domain.Span) {
		s.OwnerID = userID
		s.UpdaterID = userID
	}
}

func WithSlug(slug string) SpanOption {
	return func(s *domain.Span) {
		s.Slug = slug
	}
}

func WithMetadata(m domain.Metadata) SpanOption {
	return func(s *domain.Span) {
		s.Metadata = m
	}
}

// NewTestSpan builds a complete person span owned by the default user.
// Options override type, dates, state, access, and metadata.
func NewTestSpan(name string, opts ...SpanOption) *domain.Span {
	now := time.Now().UTC()
	s := &domain.Span{
		ID:          uuid.New().String(),
		Type:        domain.SpanPerson,
		Name:        name,
		Slug:        domain.Slugify(name),
		State:       domain.StateComplete,
		AccessLevel: domain.AccessPrivate,
		OwnerID:     DefaultUserID,
		UpdaterID:   DefaultUserID,
		Metadata:    domain.Metadata{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.Start, _ = domain.ParsePartialDate("1970")
	s.StartPrecision = s.Start.Precision()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// User options
type UserOption func(*domain.User)

func WithAdmin(isAdmin bool) UserOption {
	return func(u *domain.User) {
		u.IsAdmin = isAdmin
	}
}

func NewTestUser(name string, opts ...UserOption) *domain.User {
	now := time.Now().UTC()
	u := &domain.User{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func NewTestGroup(ownerID, name string) *domain.Group {
	return &domain.Group{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// PermissionTarget selects the grant target for NewTestPermission.
type PermissionTarget struct {
	UserID  string
	GroupID string
}

func NewTestPermission(spanID string, target PermissionTarget, permType domain.PermissionType) *domain.SpanPermission {
	return &domain.SpanPermission{
		ID:        uuid.New().String(),
		SpanID:    spanID,
		UserID:    target.UserID,
		GroupID:   target.GroupID,
		Type:      permType,
		CreatedAt: time.Now().UTC(),
	}
}
