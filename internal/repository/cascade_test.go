package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/nswan/lifeweave/internal/domain"
	"github.com/nswan/lifeweave/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Deleting a connection-span must take its connection row with it, so a
// connection can never outlive its temporal backing.
func TestCascade_ConnectionSpanDeleteRemovesConnection(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	spanRepo := NewSQLiteSpanRepo(db)
	connRepo := NewSQLiteConnectionRepo(db)

	alice := testutil.NewTestSpan("Alice")
	acme := testutil.NewTestSpan("Acme", testutil.WithSpanType(domain.SpanOrganisation))
	conn := seedConnection(t, db, alice, acme, "employment", "2010", "2012")

	require.NoError(t, spanRepo.Delete(ctx, conn.ConnectionSpanID))

	_, err := connRepo.GetByID(ctx, conn.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	// Endpoints are untouched.
	_, err = spanRepo.GetByID(ctx, alice.ID)
	assert.NoError(t, err)
	_, err = spanRepo.GetByID(ctx, acme.ID)
	assert.NoError(t, err)
}

// Deleting an endpoint span cascades to the connection row but leaves
// the orphaned connection-span behind; the service layer removes it.
func TestCascade_EndpointDeleteRemovesConnectionRow(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	spanRepo := NewSQLiteSpanRepo(db)
	connRepo := NewSQLiteConnectionRepo(db)

	alice := testutil.NewTestSpan("Alice")
	acme := testutil.NewTestSpan("Acme", testutil.WithSpanType(domain.SpanOrganisation))
	conn := seedConnection(t, db, alice, acme, "employment", "2010", "2012")

	require.NoError(t, spanRepo.Delete(ctx, acme.ID))

	_, err := connRepo.GetByID(ctx, conn.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = spanRepo.GetByID(ctx, conn.ConnectionSpanID)
	assert.NoError(t, err)
}

func TestCascade_SpanDeleteRemovesPermissions(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	spanRepo := NewSQLiteSpanRepo(db)
	permRepo := NewSQLitePermissionRepo(db)
	userRepo := NewSQLiteUserRepo(db)

	u := testutil.NewTestUser("viewer")
	require.NoError(t, userRepo.Create(ctx, u))
	span := testutil.NewTestSpan("Shared", testutil.WithAccessLevel(domain.AccessShared))
	require.NoError(t, spanRepo.Create(ctx, span))
	grant := testutil.NewTestPermission(span.ID, testutil.PermissionTarget{UserID: u.ID}, domain.PermissionView)
	require.NoError(t, permRepo.Grant(ctx, grant))

	require.NoError(t, spanRepo.Delete(ctx, span.ID))

	perms, err := permRepo.ListBySpan(ctx, span.ID)
	require.NoError(t, err)
	assert.Empty(t, perms)
}

// A personal-span reference is NULLed, not cascaded: the user record
// survives the deletion of the span that represented them.
func TestCascade_PersonalSpanDeleteNullsReference(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	spanRepo := NewSQLiteSpanRepo(db)
	userRepo := NewSQLiteUserRepo(db)

	span := testutil.NewTestSpan("Me")
	require.NoError(t, spanRepo.Create(ctx, span))
	require.NoError(t, userRepo.SetPersonalSpan(ctx, testutil.DefaultUserID, &span.ID))

	require.NoError(t, spanRepo.Delete(ctx, span.ID))

	u, err := userRepo.GetByID(ctx, testutil.DefaultUserID)
	require.NoError(t, err)
	assert.Nil(t, u.PersonalSpanID)
}
