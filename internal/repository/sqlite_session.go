package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nswan/lifeweave/internal/db"
)

// SQLiteSessionRepo implements SessionRepo. Session rows are created
// lazily on the first flag write; a missing row reads as unsuppressed.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo.
func NewSQLiteSessionRepo(dbtx db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: dbtx}
}

func (r *SQLiteSessionRepo) Get(ctx context.Context, userID string) (bool, error) {
	var suppressed int
	row := r.db.QueryRowContext(ctx, `SELECT admin_mode_suppressed FROM app_sessions WHERE user_id = ?`, userID)
	err := row.Scan(&suppressed)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("reading session: %w", err)
	}
	return intToBool(suppressed), nil
}

func (r *SQLiteSessionRepo) SetAdminModeSuppressed(ctx context.Context, userID string, suppressed bool) error {
	query := `INSERT INTO app_sessions (user_id, admin_mode_suppressed, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET admin_mode_suppressed = excluded.admin_mode_suppressed,
			updated_at = excluded.updated_at`
	now := nowUTC()
	_, err := r.db.ExecContext(ctx, query, userID, boolToInt(suppressed), now, now)
	if err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) Clear(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM app_sessions WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
