package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nswan/lifeweave/internal/db"
	"github.com/nswan/lifeweave/internal/domain"
)

const userColumns = `id, name, is_admin, personal_span_id, created_at, updated_at`

// SQLiteUserRepo implements UserRepo over a DBTX.
type SQLiteUserRepo struct {
	db db.DBTX
}

// NewSQLiteUserRepo creates a new SQLiteUserRepo.
func NewSQLiteUserRepo(dbtx db.DBTX) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: dbtx}
}

func (r *SQLiteUserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.Name, boolToInt(u.IsAdmin), ptrToNullable(u.PersonalSpanID),
		u.CreatedAt.Format(time.RFC3339), u.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var u domain.User
		var isAdmin int
		var personalSpan sql.NullString
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&u.ID, &u.Name, &isAdmin, &personalSpan, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		u.IsAdmin = intToBool(isAdmin)
		u.PersonalSpanID = nullableStringToPtr(personalSpan)
		u.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
		u.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAtStr)
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}

func (r *SQLiteUserRepo) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET name = ?, is_admin = ?, personal_span_id = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		u.Name, boolToInt(u.IsAdmin), ptrToNullable(u.PersonalSpanID),
		u.UpdatedAt.Format(time.RFC3339), u.ID)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) SetPersonalSpan(ctx context.Context, userID string, spanID *string) error {
	query := `UPDATE users SET personal_span_id = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, ptrToNullable(spanID), nowUTC(), userID)
	if err != nil {
		return fmt.Errorf("setting personal span: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var isAdmin int
	var personalSpan sql.NullString
	var createdAtStr, updatedAtStr string
	err := row.Scan(&u.ID, &u.Name, &isAdmin, &personalSpan, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	u.IsAdmin = intToBool(isAdmin)
	u.PersonalSpanID = nullableStringToPtr(personalSpan)
	u.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	u.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &u, nil
}
