package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nswan/lifeweave/internal/domain"
)

// Migrate runs all schema migrations and seeds the connection-type
// catalog. Safe to re-run: statements are idempotent and ALTER TABLE
// duplicate-column errors are tolerated.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := seedConnectionTypes(db); err != nil {
		return fmt.Errorf("seeding connection types: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		is_admin   INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS spans (
		id              TEXT PRIMARY KEY,
		type            TEXT NOT NULL
		                CHECK(type IN ('person','organisation','place','event','thing','role','connection','set','note')),
		name            TEXT NOT NULL,
		slug            TEXT NOT NULL DEFAULT '',
		start_date      TEXT NOT NULL DEFAULT '',
		end_date        TEXT NOT NULL DEFAULT '',
		start_precision TEXT NOT NULL DEFAULT '',
		end_precision   TEXT NOT NULL DEFAULT '',
		state           TEXT NOT NULL DEFAULT 'draft'
		                CHECK(state IN ('placeholder','draft','complete')),
		access_level    TEXT NOT NULL DEFAULT 'private'
		                CHECK(access_level IN ('public','private','shared')),
		owner_id        TEXT NOT NULL REFERENCES users(id),
		updater_id      TEXT NOT NULL DEFAULT '',
		metadata        TEXT NOT NULL DEFAULT '{}',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_spans_type ON spans(type)`,
	`CREATE INDEX IF NOT EXISTS idx_spans_owner ON spans(owner_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_spans_slug ON spans(slug) WHERE slug != ''`,

	// Back-reference from users to their personal span. Added after the
	// spans table exists; NULLed rather than cascaded on span deletion.
	`ALTER TABLE users ADD COLUMN personal_span_id TEXT REFERENCES spans(id) ON DELETE SET NULL`,

	`CREATE TABLE IF NOT EXISTS connection_types (
		type              TEXT PRIMARY KEY,
		forward_predicate TEXT NOT NULL,
		inverse_predicate TEXT NOT NULL,
		constraint_type   TEXT NOT NULL
		                  CHECK(constraint_type IN ('single','multiple','timeless')),
		parent_types      TEXT NOT NULL,
		child_types       TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS connections (
		id                 TEXT PRIMARY KEY,
		parent_id          TEXT NOT NULL REFERENCES spans(id) ON DELETE CASCADE,
		child_id           TEXT NOT NULL REFERENCES spans(id) ON DELETE CASCADE,
		type               TEXT NOT NULL REFERENCES connection_types(type),
		connection_span_id TEXT NOT NULL UNIQUE REFERENCES spans(id) ON DELETE CASCADE,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL,
		CHECK(parent_id != child_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_connections_parent_type ON connections(parent_id, type)`,
	`CREATE INDEX IF NOT EXISTS idx_connections_child ON connections(child_id)`,

	`CREATE TABLE IF NOT EXISTS groups (
		id         TEXT PRIMARY KEY,
		owner_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS group_members (
		group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		user_id  TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		PRIMARY KEY (group_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS span_permissions (
		id              TEXT PRIMARY KEY,
		span_id         TEXT NOT NULL REFERENCES spans(id) ON DELETE CASCADE,
		user_id         TEXT REFERENCES users(id) ON DELETE CASCADE,
		group_id        TEXT REFERENCES groups(id) ON DELETE CASCADE,
		permission_type TEXT NOT NULL CHECK(permission_type IN ('view','edit')),
		created_at      TEXT NOT NULL,
		CHECK((user_id IS NULL) != (group_id IS NULL))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_span_permissions_span ON span_permissions(span_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_span_permissions_unique
		ON span_permissions(span_id, COALESCE(user_id, ''), COALESCE(group_id, ''), permission_type)`,

	// One session row per user; holds the session-scoped admin-mode
	// suppression flag shared across CLI invocations.
	`CREATE TABLE IF NOT EXISTS app_sessions (
		user_id               TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		admin_mode_suppressed INTEGER NOT NULL DEFAULT 0,
		created_at            TEXT NOT NULL,
		updated_at            TEXT NOT NULL
	)`,

	// Seed the default local user as admin.
	`INSERT OR IGNORE INTO users (id, name, is_admin, created_at, updated_at)
		VALUES ('default', 'owner', 1, strftime('%Y-%m-%dT%H:%M:%SZ','now'), strftime('%Y-%m-%dT%H:%M:%SZ','now'))`,
}

// seedConnectionTypes upserts the static relationship catalog. Existing
// rows win so a hand-edited catalog survives restarts.
func seedConnectionTypes(db *sql.DB) error {
	for _, ct := range domain.DefaultConnectionTypes {
		parents, err := json.Marshal(ct.ParentTypes)
		if err != nil {
			return fmt.Errorf("encoding parent types for %s: %w", ct.Type, err)
		}
		children, err := json.Marshal(ct.ChildTypes)
		if err != nil {
			return fmt.Errorf("encoding child types for %s: %w", ct.Type, err)
		}
		_, err = db.Exec(`INSERT OR IGNORE INTO connection_types
			(type, forward_predicate, inverse_predicate, constraint_type, parent_types, child_types)
			VALUES (?, ?, ?, ?, ?, ?)`,
			ct.Type, ct.ForwardPredicate, ct.InversePredicate, string(ct.Constraint),
			string(parents), string(children))
		if err != nil {
			return fmt.Errorf("seeding connection type %s: %w", ct.Type, err)
		}
	}
	return nil
}
