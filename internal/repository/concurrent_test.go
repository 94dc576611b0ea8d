package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nswan/lifeweave/internal/db"
	"github.com/nswan/lifeweave/internal/domain"
	"github.com/nswan/lifeweave/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in the
// pool, which is required to test real concurrent access with WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "concurrent_test.db")
	database, err := db.OpenDB(dbPath)
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_ReadDuringWrite verifies that traversal reads do
// not block or see half-written edges while connections are being added.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()

	spanRepo := NewSQLiteSpanRepo(database)
	connRepo := NewSQLiteConnectionRepo(database)

	alice := testutil.NewTestSpan("Alice")
	require.NoError(t, spanRepo.Create(ctx, alice))

	var wg sync.WaitGroup

	// Writer goroutine: create 20 travel connections sequentially.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			place := testutil.NewTestSpan(fmt.Sprintf("Place-%d", i),
				testutil.WithSpanType(domain.SpanPlace),
				testutil.WithDates("1900", ""))
			if err := spanRepo.Create(ctx, place); err != nil {
				t.Errorf("writer: create place %d: %v", i, err)
				return
			}
			connSpan := testutil.NewTestSpan(fmt.Sprintf("trip-%d", i),
				testutil.WithSpanType(domain.SpanConnection),
				testutil.WithSlug(""),
				testutil.WithDates(fmt.Sprintf("%d", 1990+i), fmt.Sprintf("%d", 1991+i)))
			if err := spanRepo.Create(ctx, connSpan); err != nil {
				t.Errorf("writer: create connection span %d: %v", i, err)
				return
			}
			now := time.Now().UTC()
			conn := &domain.Connection{
				ID: uuid.New().String(), ParentID: alice.ID, ChildID: place.ID,
				Type: "travel", ConnectionSpanID: connSpan.ID,
				CreatedAt: now, UpdatedAt: now,
			}
			if err := connRepo.Create(ctx, conn); err != nil {
				t.Errorf("writer: create connection %d: %v", i, err)
				return
			}
		}
	}()

	// Reader goroutines: repeatedly walk Alice's edges while writes happen.
	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				edges, err := connRepo.ListBySpan(ctx, alice.ID)
				if err != nil {
					t.Errorf("reader %d: list edges: %v", reader, err)
					return
				}
				// Edges should be a consistent snapshot (not half-written).
				for _, e := range edges {
					if e.Connection.ID == "" || e.ConnectionSpan.ID == "" {
						t.Errorf("reader %d: got edge with empty ID", reader)
					}
					if e.ConnectionSpan.ID != e.Connection.ConnectionSpanID {
						t.Errorf("reader %d: edge join mismatch", reader)
					}
				}
			}
		}(r)
	}

	wg.Wait()

	edges, err := connRepo.ListBySpan(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, len(edges))
}

// TestConcurrentAccess_SingleConstraintUnderRace races many transactions
// that each re-check the residence constraint before inserting. SQLite
// serializes the writes, so at most one non-overlapping set survives:
// after the dust settles no two committed residences may overlap.
func TestConcurrentAccess_SingleConstraintUnderRace(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()

	spanRepo := NewSQLiteSpanRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	alice := testutil.NewTestSpan("Alice")
	require.NoError(t, spanRepo.Create(ctx, alice))

	places := make([]*domain.Span, 8)
	for i := range places {
		places[i] = testutil.NewTestSpan(fmt.Sprintf("City-%d", i),
			testutil.WithSpanType(domain.SpanPlace),
			testutil.WithDates("1800", ""))
		require.NoError(t, spanRepo.Create(ctx, places[i]))
	}

	retryTx := func(fn func() error) error {
		const maxRetries = 10
		var err error
		for attempt := 0; attempt < maxRetries; attempt++ {
			err = fn()
			if err == nil {
				return nil
			}
			time.Sleep(time.Millisecond * time.Duration(1<<attempt))
		}
		return err
	}

	// Every worker tries to claim the same decade for a different place.
	candidate := domain.Interval{
		Start: domain.PartialDate{Year: 2000},
		End:   domain.PartialDate{Year: 2010},
	}
	residenceType := domain.DefaultConnectionTypes[0]
	require.Equal(t, "residence", residenceType.Type)

	var wg sync.WaitGroup
	for i := 0; i < len(places); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = retryTx(func() error {
				return uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
					txSpans := NewSQLiteSpanRepo(tx)
					txConns := NewSQLiteConnectionRepo(tx)

					existing, err := txConns.ListBySubjectAndType(ctx, alice.ID, "residence")
					if err != nil {
						return err
					}
					intervals := make([]domain.ConnectionInterval, len(existing))
					for j, sc := range existing {
						intervals[j] = domain.ConnectionInterval{
							ConnectionID: sc.ConnectionID,
							Interval:     sc.Interval,
							State:        sc.State,
						}
					}
					cand := domain.ConnectionInterval{
						ConnectionID: uuid.New().String(),
						Interval:     candidate,
						State:        domain.StateComplete,
					}
					if err := domain.ValidateConstraint(residenceType, cand, intervals); err != nil {
						return err
					}

					connSpan := testutil.NewTestSpan(fmt.Sprintf("res-%d", i),
						testutil.WithSpanType(domain.SpanConnection),
						testutil.WithSlug(""),
						testutil.WithDates("2000", "2010"))
					if err := txSpans.Create(ctx, connSpan); err != nil {
						return err
					}
					now := time.Now().UTC()
					return txConns.Create(ctx, &domain.Connection{
						ID: cand.ConnectionID, ParentID: alice.ID, ChildID: places[i].ID,
						Type: "residence", ConnectionSpanID: connSpan.ID,
						CreatedAt: now, UpdatedAt: now,
					})
				})
			})
		}(i)
	}
	wg.Wait()

	// The invariant, not the winner, is what matters: no two committed
	// residences overlap.
	connRepo := NewSQLiteConnectionRepo(database)
	committed, err := connRepo.ListBySubjectAndType(ctx, alice.ID, "residence")
	require.NoError(t, err)
	require.NotEmpty(t, committed, "at least one worker should commit")
	for i := 0; i < len(committed); i++ {
		for j := i + 1; j < len(committed); j++ {
			assert.Falsef(t, committed[i].Interval.Conflicts(committed[j].Interval),
				"committed residences %s and %s overlap", committed[i].ConnectionID, committed[j].ConnectionID)
		}
	}
}
