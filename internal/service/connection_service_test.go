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

func TestConnectionService_CreateRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.adminSession(t)

	alice := env.createSpan(t, admin, "Alice")
	acme := env.createSpan(t, admin, "Acme", testutil.WithSpanType(domain.SpanOrganisation))

	detail, err := env.conns.Create(ctx, CreateConnectionInput{
		ParentID: alice.ID,
		ChildID:  acme.ID,
		Type:     "employment",
		Start:    mustDate(t, "2010-03"),
		End:      mustDate(t, "2015"),
	}, admin)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, detail.Connection.ParentID)
	assert.Equal(t, domain.StateComplete, detail.ConnectionSpan.State)

	fetched, err := env.conns.GetByID(ctx, detail.Connection.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, "2010-03", fetched.ConnectionSpan.Start.String())
	assert.Equal(t, "2015", fetched.ConnectionSpan.End.String())
	assert.Equal(t, "Alice", fetched.Parent.Name)
	assert.Equal(t, "Acme", fetched.Child.Name)
}

func TestConnectionService_InverseDirectionSwapsEndpoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.adminSession(t)

	child := env.createSpan(t, admin, "Junior", testutil.WithDates("1990-01-01", ""))
	parent := env.createSpan(t, admin, "Senior", testutil.WithDates("1960", ""))

	// "Junior was child of Senior": Senior becomes the stored parent.
	detail, err := env.conns.Create(ctx, CreateConnectionInput{
		ParentID:  child.ID,
		ChildID:   parent.ID,
		Type:      "family",
		Direction: domain.DirectionInverse,
	}, admin)
	require.NoError(t, err)
	assert.Equal(t, parent.ID, detail.Connection.ParentID)
	assert.Equal(t, child.ID, detail.Connection.ChildID)
}

func TestConnectionService_FamilyIntervalDerived(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.adminSession(t)

	parent := env.createSpan(t, admin, "Parent", testutil.WithDates("1950", "2020"))
	child := env.createSpan(t, admin, "Child", testutil.WithDates("1980-06-15", ""))

	detail, err := env.conns.Create(ctx, CreateConnectionInput{
		ParentID: parent.ID,
		ChildID:  child.ID,
		Type:     "family",
		// User-supplied dates are ignored for family connections.
		Start: mustDate(t, "1999"),
	}, admin)
	require.NoError(t, err)
	assert.Equal(t, "1980-06-15", detail.ConnectionSpan.Start.String())
	assert.Equal(t, "2020", detail.ConnectionSpan.End.String())
}

func TestConnectionService_OverlapRejectedAndRolledBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.adminSession(t)

	alice := env.createSpan(t, admin, "Alice")
	paris := env.createSpan(t, admin, "Paris", testutil.WithSpanType(domain.SpanPlace), testutil.WithDates("0987", ""))
	london := env.createSpan(t, admin, "London", testutil.WithSpanType(domain.SpanPlace), testutil.WithDates("0043", ""))

	_, err := env.conns.Create(ctx, CreateConnectionInput{
		ParentID: alice.ID, ChildID: paris.ID, Type: "residence",
		Start: mustDate(t, "2000"), End: mustDate(t, "2010"),
	}, admin)
	require.NoError(t, err)

	_, err = env.conns.Create(ctx, CreateConnectionInput{
		ParentID: alice.ID, ChildID: london.ID, Type: "residence",
		Start: mustDate(t, "2005"), End: mustDate(t, "2012"),
	}, admin)
	require.Error(t, err)
	var ce *domain.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, domain.ConstraintOverlap, ce.Kind)

	// The rejected creation left nothing behind: one residence edge and
	// no orphaned connection-span.
	existing, err := env.connRepo.ListBySubjectAndType(ctx, alice.ID, "residence")
	require.NoError(t, err)
	assert.Len(t, existing, 1)
	connSpans, err := env.spanRepo.List(ctx, domain.SpanConnection)
	require.NoError(t, err)
	assert.Len(t, connSpans, 1)
}

func TestConnectionService_BoundaryTouchAllowed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.adminSession(t)

	alice := env.createSpan(t, admin, "Alice")
	paris := env.createSpan(t, admin, "Paris", testutil.WithSpanType(domain.SpanPlace), testutil.WithDates("0987", ""))
	london := env.createSpan(t, admin, "London", testutil.WithSpanType(domain.SpanPlace), testutil.WithDates("0043", ""))

	_, err := env.conns.Create(ctx, CreateConnectionInput{
		ParentID: alice.ID, ChildID: paris.ID, Type: "residence",
		Start: mustDate(t, "2000"), End: mustDate(t, "2010"),
	}, admin)
	require.NoError(t, err)

	// A move: the new residence starts the year the old one ends.
	_, err = env.conns.Create(ctx, CreateConnectionInput{
		ParentID: alice.ID, ChildID: london.ID, Type: "residence",
		Start: mustDate(t, "2010"), End: mustDate(t, "2015"),
	}, admin)
	assert.NoError(t, err)
}

func TestConnectionService_EndpointTypeViolation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.adminSession(t)

	alice := env.createSpan(t, admin, "Alice")
	bob := env.createSpan(t, admin, "Bob")

	_, err := env.conns.Create(ctx, CreateConnectionInput{
		ParentID: alice.ID, ChildID: bob.ID, Type: "residence",
		Start: mustDate(t, "2000"),
	}, admin)
	require.Error(t, err)
	var ce *domain.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, domain.ConstraintDisallowedSpanType, ce.Kind)
	assert.Equal(t, "child", ce.Role)
}

func TestConnectionService_PlaceholderQuickAdd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.adminSession(t)

	alice := env.createSpan(t, admin, "Alice")

	detail, err := env.conns.Create(ctx, CreateConnectionInput{
		ParentID:  alice.ID,
		ChildName: "Mystery Employer",
		ChildType: domain.SpanOrganisation,
		Type:      "employment",
		Start:     mustDate(t, "2020"),
	}, admin)
	require.NoError(t, err)
	assert.Equal(t, domain.StatePlaceholder, detail.Child.State)
	assert.Equal(t, "Mystery Employer", detail.Child.Name)
	assert.Empty(t, detail.Child.Slug)

	// The placeholder is a real span.
	fetched, err := env.spanRepo.GetByID(ctx, detail.Child.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SpanOrganisation, fetched.Type)
}

func TestConnectionService_DatelessConnectionSkipsConstraint(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.adminSession(t)

	alice := env.createSpan(t, admin, "Alice")
	acme := env.createSpan(t, admin, "Acme", testutil.WithSpanType(domain.SpanOrganisation))
	globex := env.createSpan(t, admin, "Globex", testutil.WithSpanType(domain.SpanOrganisation))

	// Two dateless single-constraint connections coexist until dated.
	detail, err := env.conns.Create(ctx, CreateConnectionInput{
		ParentID: alice.ID, ChildID: acme.ID, Type: "employment",
	}, admin)
	require.NoError(t, err)
	_, err = env.conns.Create(ctx, CreateConnectionInput{
		ParentID: alice.ID, ChildID: globex.ID, Type: "employment",
	}, admin)
	assert.NoError(t, err)

	// The dateless connection-span is stored as a placeholder, the one
	// state whose validation tolerates a missing start year.
	cs, err := env.spanRepo.GetByID(ctx, detail.ConnectionSpan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatePlaceholder, cs.State)
	assert.NoError(t, cs.Validate())
}

func TestConnectionService_DatingPlaceholderPromotesAndRechecks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.adminSession(t)

	alice := env.createSpan(t, admin, "Alice")
	acme := env.createSpan(t, admin, "Acme", testutil.WithSpanType(domain.SpanOrganisation))
	globex := env.createSpan(t, admin, "Globex", testutil.WithSpanType(domain.SpanOrganisation))

	mustCreate(t, env, admin, alice.ID, acme.ID, "employment", "2010", "2020")
	dateless, err := env.conns.Create(ctx, CreateConnectionInput{
		ParentID: alice.ID, ChildID: globex.ID, Type: "employment",
	}, admin)
	require.NoError(t, err)

	// Dating it into the occupied range fails; a free range promotes it.
	err = env.conns.UpdateInterval(ctx, dateless.Connection.ID,
		mustDate(t, "2015"), mustDate(t, "2016"), admin)
	var ce *domain.ConstraintError
	require.ErrorAs(t, err, &ce)

	require.NoError(t, env.conns.UpdateInterval(ctx, dateless.Connection.ID,
		mustDate(t, "2021"), mustDate(t, "2022"), admin))
	cs, err := env.spanRepo.GetByID(ctx, dateless.ConnectionSpan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateComplete, cs.State)
}

func TestConnectionService_UpdateIntervalRechecksConstraint(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.adminSession(t)

	alice := env.createSpan(t, admin, "Alice")
	acme := env.createSpan(t, admin, "Acme", testutil.WithSpanType(domain.SpanOrganisation))
	globex := env.createSpan(t, admin, "Globex", testutil.WithSpanType(domain.SpanOrganisation))

	first, err := env.conns.Create(ctx, CreateConnectionInput{
		ParentID: alice.ID, ChildID: acme.ID, Type: "employment",
		Start: mustDate(t, "2000"), End: mustDate(t, "2005"),
	}, admin)
	require.NoError(t, err)
	second, err := env.conns.Create(ctx, CreateConnectionInput{
		ParentID: alice.ID, ChildID: globex.ID, Type: "employment",
		Start: mustDate(t, "2005"), End: mustDate(t, "2010"),
	}, admin)
	require.NoError(t, err)

	// Dragging the second back over the first is rejected.
	err = env.conns.UpdateInterval(ctx, second.Connection.ID, mustDate(t, "2003"), mustDate(t, "2010"), admin)
	var ce *domain.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, domain.ConstraintOverlap, ce.Kind)

	// Re-dating within its own slot succeeds; the connection does not
	// conflict with itself.
	err = env.conns.UpdateInterval(ctx, second.Connection.ID, mustDate(t, "2006"), mustDate(t, "2010"), admin)
	require.NoError(t, err)

	fetched, err := env.conns.GetByID(ctx, second.Connection.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, "2006", fetched.ConnectionSpan.Start.String())

	// The first connection is untouched.
	fetched, err = env.conns.GetByID(ctx, first.Connection.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, "2000", fetched.ConnectionSpan.Start.String())
}

func TestConnectionService_DeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.adminSession(t)

	alice := env.createSpan(t, admin, "Alice")
	acme := env.createSpan(t, admin, "Acme", testutil.WithSpanType(domain.SpanOrganisation))
	detail, err := env.conns.Create(ctx, CreateConnectionInput{
		ParentID: alice.ID, ChildID: acme.ID, Type: "employment",
		Start: mustDate(t, "2010"),
	}, admin)
	require.NoError(t, err)

	require.NoError(t, env.conns.Delete(ctx, detail.Connection.ID, admin))

	_, err = env.connRepo.GetByID(ctx, detail.Connection.ID)
	assert.Error(t, err)
	_, err = env.spanRepo.GetByID(ctx, detail.ConnectionSpan.ID)
	assert.Error(t, err)
	// Endpoints survive.
	_, err = env.spanRepo.GetByID(ctx, alice.ID)
	assert.NoError(t, err)
}

func TestConnectionService_DeleteRequiresAuthority(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.adminSession(t)
	stranger := env.newUserSession(t, "stranger")

	alice := env.createSpan(t, admin, "Alice")
	acme := env.createSpan(t, admin, "Acme", testutil.WithSpanType(domain.SpanOrganisation))
	detail, err := env.conns.Create(ctx, CreateConnectionInput{
		ParentID: alice.ID, ChildID: acme.ID, Type: "employment",
		Start: mustDate(t, "2010"),
	}, admin)
	require.NoError(t, err)

	err = env.conns.Delete(ctx, detail.Connection.ID, stranger)
	assert.True(t, errors.Is(err, domain.ErrAccessDenied))

	// The connection-span's owner may delete even without admin.
	owner := env.newUserSession(t, "owner")
	bob := env.createSpan(t, owner, "Bob")
	globex := env.createSpan(t, owner, "Globex", testutil.WithSpanType(domain.SpanOrganisation))
	owned, err := env.conns.Create(ctx, CreateConnectionInput{
		ParentID: bob.ID, ChildID: globex.ID, Type: "employment",
		Start: mustDate(t, "2019"),
	}, owner)
	require.NoError(t, err)
	assert.NoError(t, env.conns.Delete(ctx, owned.Connection.ID, owner))
}

func TestConnectionService_GuestCannotCreate(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.conns.Create(context.Background(), CreateConnectionInput{Type: "employment"}, nil)
	assert.True(t, errors.Is(err, domain.ErrAccessDenied))
}
