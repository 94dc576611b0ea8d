package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/nswan/lifeweave/internal/db"
	"github.com/nswan/lifeweave/internal/domain"
)

const permissionColumns = `id, span_id, user_id, group_id, permission_type, created_at`

// SQLitePermissionRepo implements PermissionRepo over a DBTX.
type SQLitePermissionRepo struct {
	db db.DBTX
}

// NewSQLitePermissionRepo creates a new SQLitePermissionRepo.
func NewSQLitePermissionRepo(dbtx db.DBTX) *SQLitePermissionRepo {
	return &SQLitePermissionRepo{db: dbtx}
}

func (r *SQLitePermissionRepo) Grant(ctx context.Context, p *domain.SpanPermission) error {
	query := `INSERT INTO span_permissions (` + permissionColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.SpanID,
		emptyToNullable(p.UserID),
		emptyToNullable(p.GroupID),
		string(p.Type),
		p.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("granting permission: %w", err)
	}
	return nil
}

func (r *SQLitePermissionRepo) GetByID(ctx context.Context, id string) (*domain.SpanPermission, error) {
	query := `SELECT ` + permissionColumns + ` FROM span_permissions WHERE id = ?`
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("getting permission: %w", err)
	}
	defer rows.Close()

	perms, err := scanPermissions(rows)
	if err != nil {
		return nil, err
	}
	if len(perms) == 0 {
		return nil, fmt.Errorf("permission %s: %w", id, ErrNotFound)
	}
	return &perms[0], nil
}

func (r *SQLitePermissionRepo) Revoke(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM span_permissions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("revoking permission: %w", err)
	}
	return nil
}

func (r *SQLitePermissionRepo) ListBySpan(ctx context.Context, spanID string) ([]domain.SpanPermission, error) {
	query := `SELECT ` + permissionColumns + ` FROM span_permissions WHERE span_id = ?`
	rows, err := r.db.QueryContext(ctx, query, spanID)
	if err != nil {
		return nil, fmt.Errorf("listing permissions: %w", err)
	}
	defer rows.Close()
	return scanPermissions(rows)
}

// ListBySpans batches grant lookup for a set of spans, keyed by span id.
// Spans with no grants are absent from the map.
func (r *SQLitePermissionRepo) ListBySpans(ctx context.Context, spanIDs []string) (map[string][]domain.SpanPermission, error) {
	if len(spanIDs) == 0 {
		return map[string][]domain.SpanPermission{}, nil
	}
	placeholders := strings.Repeat("?,", len(spanIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(spanIDs))
	for i, id := range spanIDs {
		args[i] = id
	}
	query := `SELECT ` + permissionColumns + ` FROM span_permissions WHERE span_id IN (` + placeholders + `)`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing permissions by spans: %w", err)
	}
	defer rows.Close()

	perms, err := scanPermissions(rows)
	if err != nil {
		return nil, err
	}
	bySpan := make(map[string][]domain.SpanPermission)
	for _, p := range perms {
		bySpan[p.SpanID] = append(bySpan[p.SpanID], p)
	}
	return bySpan, nil
}

func scanPermissions(rows *sql.Rows) ([]domain.SpanPermission, error) {
	var out []domain.SpanPermission
	for rows.Next() {
		var p domain.SpanPermission
		var userID, groupID sql.NullString
		var typeStr, createdAtStr string
		if err := rows.Scan(&p.ID, &p.SpanID, &userID, &groupID, &typeStr, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning permission: %w", err)
		}
		p.UserID = userID.String
		p.GroupID = groupID.String
		p.Type = domain.PermissionType(typeStr)
		var err error
		p.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating permissions: %w", err)
	}
	return out, nil
}
