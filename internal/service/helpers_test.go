package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/nswan/lifeweave/internal/domain"
	"github.com/nswan/lifeweave/internal/repository"
	"github.com/nswan/lifeweave/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testEnv bundles every service over one in-memory database.
type testEnv struct {
	db       *sql.DB
	spans    SpanService
	conns    ConnectionService
	graph    GraphService
	users    UserService
	sessions SessionService
	imports  ImportService

	spanRepo repository.SpanRepo
	connRepo repository.ConnectionRepo
	permRepo repository.PermissionRepo
	userRepo repository.UserRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	spanRepo := repository.NewSQLiteSpanRepo(database)
	connRepo := repository.NewSQLiteConnectionRepo(database)
	typeRepo := repository.NewSQLiteConnectionTypeRepo(database)
	permRepo := repository.NewSQLitePermissionRepo(database)
	groupRepo := repository.NewSQLiteGroupRepo(database)
	userRepo := repository.NewSQLiteUserRepo(database)
	sessRepo := repository.NewSQLiteSessionRepo(database)

	return &testEnv{
		db:       database,
		spans:    NewSpanService(spanRepo, connRepo, permRepo, uow),
		conns:    NewConnectionService(spanRepo, connRepo, typeRepo, permRepo, uow),
		graph:    NewGraphService(spanRepo, connRepo, typeRepo, permRepo),
		users:    NewUserService(userRepo, groupRepo, spanRepo, permRepo),
		sessions: NewSessionService(userRepo, groupRepo, sessRepo),
		imports:  NewImportService(typeRepo, uow),
		spanRepo: spanRepo,
		connRepo: connRepo,
		permRepo: permRepo,
		userRepo: userRepo,
	}
}

// adminSession returns the seeded default user's session context.
func (env *testEnv) adminSession(t *testing.T) *domain.SessionContext {
	t.Helper()
	sess, err := env.sessions.Session(context.Background(), testutil.DefaultUserID)
	require.NoError(t, err)
	return sess
}

// newUserSession creates a fresh non-admin user and returns their session.
func (env *testEnv) newUserSession(t *testing.T, name string) *domain.SessionContext {
	t.Helper()
	ctx := context.Background()
	u := testutil.NewTestUser(name)
	require.NoError(t, env.users.Create(ctx, u))
	sess, err := env.sessions.Session(ctx, u.ID)
	require.NoError(t, err)
	return sess
}

// createSpan persists a fixture span through the service as the actor.
func (env *testEnv) createSpan(t *testing.T, actor *domain.SessionContext, name string, opts ...testutil.SpanOption) *domain.Span {
	t.Helper()
	span := testutil.NewTestSpan(name, opts...)
	span.OwnerID = ""
	require.NoError(t, env.spans.Create(context.Background(), span, actor))
	return span
}

func mustDate(t *testing.T, s string) domain.PartialDate {
	t.Helper()
	d, err := domain.ParsePartialDate(s)
	require.NoError(t, err)
	return d
}
