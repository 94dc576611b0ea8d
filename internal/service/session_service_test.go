package service

import (
	"context"
	"testing"

	"github.com/nswan/lifeweave/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_AdminModeToggle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sess := env.adminSession(t)
	require.True(t, sess.AdminActive(), "seeded admin starts with admin mode on")

	// Disable: suppression kicks in.
	changed, err := env.sessions.SetAdminMode(ctx, testutil.DefaultUserID, false)
	require.NoError(t, err)
	assert.True(t, changed)

	sess, err = env.sessions.Session(ctx, testutil.DefaultUserID)
	require.NoError(t, err)
	assert.False(t, sess.AdminActive())
	assert.True(t, sess.Actor.IsAdmin, "is_admin itself never changes")

	// Disabling again is a no-op.
	changed, err = env.sessions.SetAdminMode(ctx, testutil.DefaultUserID, false)
	require.NoError(t, err)
	assert.False(t, changed)

	// Re-enable.
	changed, err = env.sessions.SetAdminMode(ctx, testutil.DefaultUserID, true)
	require.NoError(t, err)
	assert.True(t, changed)
	sess, err = env.sessions.Session(ctx, testutil.DefaultUserID)
	require.NoError(t, err)
	assert.True(t, sess.AdminActive())
}

func TestSessionService_NonAdminCannotToggle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.newUserSession(t, "plain")

	_, err := env.sessions.SetAdminMode(ctx, user.Actor.UserID, true)
	assert.Error(t, err)
}

func TestSessionService_LogoutResetsSuppression(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.sessions.SetAdminMode(ctx, testutil.DefaultUserID, false)
	require.NoError(t, err)

	require.NoError(t, env.sessions.Logout(ctx, testutil.DefaultUserID))

	sess, err := env.sessions.Session(ctx, testutil.DefaultUserID)
	require.NoError(t, err)
	assert.True(t, sess.AdminActive(), "suppression does not outlive the session")
}

func TestSessionService_SessionCarriesGroups(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.newUserSession(t, "grouped")

	g := testutil.NewTestGroup(testutil.DefaultUserID, "book club")
	require.NoError(t, env.users.CreateGroup(ctx, g))
	require.NoError(t, env.users.AddGroupMember(ctx, g.ID, user.Actor.UserID))

	sess, err := env.sessions.Session(ctx, user.Actor.UserID)
	require.NoError(t, err)
	assert.Contains(t, sess.Actor.GroupIDs, g.ID)
}
