package service

import (
	"context"
	"fmt"

	"github.com/nswan/lifeweave/internal/domain"
	"github.com/nswan/lifeweave/internal/repository"
)

type sessionService struct {
	users    repository.UserRepo
	groups   repository.GroupRepo
	sessions repository.SessionRepo
}

func NewSessionService(users repository.UserRepo, groups repository.GroupRepo, sessions repository.SessionRepo) SessionService {
	return &sessionService{users: users, groups: groups, sessions: sessions}
}

func (s *sessionService) Session(ctx context.Context, userID string) (*domain.SessionContext, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	groupIDs, err := s.groups.ListGroupIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	suppressed, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.SessionContext{
		Actor: domain.Principal{
			UserID:   user.ID,
			Name:     user.Name,
			IsAdmin:  user.IsAdmin,
			GroupIDs: groupIDs,
		},
		AdminModeSuppressed: suppressed,
	}, nil
}

// SetAdminMode toggles session-scoped admin authority. It never touches
// the underlying is_admin flag; disabling just suppresses it for the
// session. Idempotent: re-applying the current state reports no change.
func (s *sessionService) SetAdminMode(ctx context.Context, userID string, enabled bool) (bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if !user.IsAdmin {
		return false, fmt.Errorf("user %s is not an admin", user.Name)
	}
	suppressed, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	wantSuppressed := !enabled
	if suppressed == wantSuppressed {
		return false, nil
	}
	if err := s.sessions.SetAdminModeSuppressed(ctx, userID, wantSuppressed); err != nil {
		return false, err
	}
	return true, nil
}

// Logout clears session state, which resets any admin-mode suppression.
func (s *sessionService) Logout(ctx context.Context, userID string) error {
	return s.sessions.Clear(ctx, userID)
}
