package service

import (
	"context"
	"errors"
	"testing"

	"github.com/nswan/lifeweave/internal/domain"
	"github.com/nswan/lifeweave/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_RevokeRequiresEditRights(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.adminSession(t)
	viewer := env.newUserSession(t, "viewer")
	stranger := env.newUserSession(t, "stranger")

	shared := env.createSpan(t, admin, "Shared Person", testutil.WithAccessLevel(domain.AccessShared))
	p := testutil.NewTestPermission(shared.ID, testutil.PermissionTarget{UserID: viewer.Actor.UserID}, domain.PermissionView)
	require.NoError(t, env.users.Grant(ctx, p, admin))

	// Neither a guest nor an unrelated user may strip someone else's
	// access; the grant keeps working.
	err := env.users.Revoke(ctx, p.ID, nil)
	assert.True(t, errors.Is(err, domain.ErrAccessDenied))
	err = env.users.Revoke(ctx, p.ID, stranger)
	assert.True(t, errors.Is(err, domain.ErrAccessDenied))

	_, err = env.spans.GetByID(ctx, shared.ID, viewer)
	require.NoError(t, err, "grant survives the denied revocations")

	// The span's owner may revoke, after which visibility is gone.
	require.NoError(t, env.users.Revoke(ctx, p.ID, admin))
	_, err = env.spans.GetByID(ctx, shared.ID, viewer)
	assert.True(t, errors.Is(err, domain.ErrAccessDenied))
}

func TestUserService_RevokeViaEditGrant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.adminSession(t)
	editor := env.newUserSession(t, "editor")
	viewer := env.newUserSession(t, "viewer")

	shared := env.createSpan(t, admin, "Shared Person", testutil.WithAccessLevel(domain.AccessShared))
	require.NoError(t, env.users.Grant(ctx, testutil.NewTestPermission(
		shared.ID, testutil.PermissionTarget{UserID: editor.Actor.UserID}, domain.PermissionEdit), admin))

	p := testutil.NewTestPermission(shared.ID, testutil.PermissionTarget{UserID: viewer.Actor.UserID}, domain.PermissionView)
	require.NoError(t, env.users.Grant(ctx, p, admin))

	// Edit rights on the span carry revocation authority, same as Grant.
	require.NoError(t, env.users.Revoke(ctx, p.ID, editor))
}

func TestUserService_RevokeUnknownPermission(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminSession(t)

	err := env.users.Revoke(context.Background(), "no-such-permission", admin)
	assert.Error(t, err)
}
