package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nswan/lifeweave/internal/domain"
	"github.com/nswan/lifeweave/internal/repository"
)

type userService struct {
	users  repository.UserRepo
	groups repository.GroupRepo
	spans  repository.SpanRepo
	perms  repository.PermissionRepo
}

func NewUserService(users repository.UserRepo, groups repository.GroupRepo, spans repository.SpanRepo, perms repository.PermissionRepo) UserService {
	return &userService{users: users, groups: groups, spans: spans, perms: perms}
}

func (s *userService) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	return s.users.Create(ctx, u)
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *userService) SetPersonalSpan(ctx context.Context, userID, spanID string) error {
	if spanID == "" {
		return s.users.SetPersonalSpan(ctx, userID, nil)
	}
	// The span must exist; the FK would catch it anyway but this gives a
	// proper not-found error instead of a constraint failure.
	if _, err := s.spans.GetByID(ctx, spanID); err != nil {
		return err
	}
	return s.users.SetPersonalSpan(ctx, userID, &spanID)
}

func (s *userService) CreateGroup(ctx context.Context, g *domain.Group) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	g.CreatedAt = time.Now().UTC()
	return s.groups.Create(ctx, g)
}

func (s *userService) AddGroupMember(ctx context.Context, groupID, userID string) error {
	return s.groups.AddMember(ctx, groupID, userID)
}

func (s *userService) RemoveGroupMember(ctx context.Context, groupID, userID string) error {
	return s.groups.RemoveMember(ctx, groupID, userID)
}

// Grant shares a span. Only someone with edit rights on the span may
// hand out permissions on it.
func (s *userService) Grant(ctx context.Context, p *domain.SpanPermission, actor *domain.SessionContext) error {
	span, err := s.spans.GetByID(ctx, p.SpanID)
	if err != nil {
		return err
	}
	grants, err := s.perms.ListBySpan(ctx, p.SpanID)
	if err != nil {
		return err
	}
	if !domain.CanEditSpan(actor, span, grants) {
		return domain.ErrAccessDenied
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CreatedAt = time.Now().UTC()
	return s.perms.Grant(ctx, p)
}

// Revoke mirrors Grant: only someone with edit rights on the granted
// span may take a permission away again.
func (s *userService) Revoke(ctx context.Context, permissionID string, actor *domain.SessionContext) error {
	p, err := s.perms.GetByID(ctx, permissionID)
	if err != nil {
		return err
	}
	span, err := s.spans.GetByID(ctx, p.SpanID)
	if err != nil {
		return err
	}
	grants, err := s.perms.ListBySpan(ctx, p.SpanID)
	if err != nil {
		return err
	}
	if !domain.CanEditSpan(actor, span, grants) {
		return domain.ErrAccessDenied
	}
	return s.perms.Revoke(ctx, permissionID)
}
