package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nswan/lifeweave/internal/db"
	"github.com/nswan/lifeweave/internal/domain"
)

// SQLiteGroupRepo implements GroupRepo over a DBTX.
type SQLiteGroupRepo struct {
	db db.DBTX
}

// NewSQLiteGroupRepo creates a new SQLiteGroupRepo.
func NewSQLiteGroupRepo(dbtx db.DBTX) *SQLiteGroupRepo {
	return &SQLiteGroupRepo{db: dbtx}
}

func (r *SQLiteGroupRepo) Create(ctx context.Context, g *domain.Group) error {
	query := `INSERT INTO groups (id, owner_id, name, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, g.ID, g.OwnerID, g.Name, g.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting group: %w", err)
	}
	return nil
}

func (r *SQLiteGroupRepo) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	var g domain.Group
	var createdAtStr string
	row := r.db.QueryRowContext(ctx, `SELECT id, owner_id, name, created_at FROM groups WHERE id = ?`, id)
	err := row.Scan(&g.ID, &g.OwnerID, &g.Name, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("group: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning group: %w", err)
	}
	g.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &g, nil
}

func (r *SQLiteGroupRepo) AddMember(ctx context.Context, groupID, userID string) error {
	query := `INSERT OR IGNORE INTO group_members (group_id, user_id) VALUES (?, ?)`
	_, err := r.db.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		return fmt.Errorf("adding group member: %w", err)
	}
	return nil
}

func (r *SQLiteGroupRepo) RemoveMember(ctx context.Context, groupID, userID string) error {
	query := `DELETE FROM group_members WHERE group_id = ? AND user_id = ?`
	_, err := r.db.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		return fmt.Errorf("removing group member: %w", err)
	}
	return nil
}

func (r *SQLiteGroupRepo) ListGroupIDsByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT group_id FROM group_members WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing user groups: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning group id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating group ids: %w", err)
	}
	return ids, nil
}

func (r *SQLiteGroupRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting group: %w", err)
	}
	return nil
}
