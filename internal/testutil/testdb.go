package testutil

import (
	"database/sql"
	"testing"

	"github.com/nswan/lifeweave/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations
// applied and the connection-type catalog seeded. Closed when the test
// completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
