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

// spanColumns is the canonical SELECT column list for spans.
const spanColumns = `id, type, name, slug, start_date, end_date,
		start_precision, end_precision, state, access_level,
		owner_id, updater_id, metadata, created_at, updated_at`

// SQLiteSpanRepo implements SpanRepo over a DBTX, so the same code
// serves both pooled and transaction-scoped access.
type SQLiteSpanRepo struct {
	db db.DBTX
}

// NewSQLiteSpanRepo creates a new SQLiteSpanRepo.
func NewSQLiteSpanRepo(dbtx db.DBTX) *SQLiteSpanRepo {
	return &SQLiteSpanRepo{db: dbtx}
}

func (r *SQLiteSpanRepo) Create(ctx context.Context, s *domain.Span) error {
	meta, err := s.Metadata.MarshalJSONString()
	if err != nil {
		return fmt.Errorf("encoding span metadata: %w", err)
	}
	query := `INSERT INTO spans (` + spanColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		s.ID,
		string(s.Type),
		s.Name,
		s.Slug,
		s.Start.String(),
		s.End.String(),
		string(s.StartPrecision),
		string(s.EndPrecision),
		string(s.State),
		string(s.AccessLevel),
		s.OwnerID,
		s.UpdaterID,
		meta,
		s.CreatedAt.Format(time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting span: %w", err)
	}
	return nil
}

func (r *SQLiteSpanRepo) GetByID(ctx context.Context, id string) (*domain.Span, error) {
	query := `SELECT ` + spanColumns + ` FROM spans WHERE id = ?`
	return r.scanSpan(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteSpanRepo) GetBySlug(ctx context.Context, slug string) (*domain.Span, error) {
	query := `SELECT ` + spanColumns + ` FROM spans WHERE slug = ?`
	return r.scanSpan(r.db.QueryRowContext(ctx, query, slug))
}

func (r *SQLiteSpanRepo) List(ctx context.Context, spanType domain.SpanType) ([]*domain.Span, error) {
	var rows *sql.Rows
	var err error
	if spanType == "" {
		rows, err = r.db.QueryContext(ctx, `SELECT `+spanColumns+` FROM spans ORDER BY name, id`)
	} else {
		rows, err = r.db.QueryContext(ctx, `SELECT `+spanColumns+` FROM spans WHERE type = ? ORDER BY name, id`, string(spanType))
	}
	if err != nil {
		return nil, fmt.Errorf("listing spans: %w", err)
	}
	defer rows.Close()
	return r.scanSpans(rows)
}

func (r *SQLiteSpanRepo) ListByIDs(ctx context.Context, ids []string) (map[string]*domain.Span, error) {
	if len(ids) == 0 {
		return map[string]*domain.Span{}, nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := `SELECT ` + spanColumns + ` FROM spans WHERE id IN (` + placeholders + `)`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing spans by ids: %w", err)
	}
	defer rows.Close()

	spans, err := r.scanSpans(rows)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Span, len(spans))
	for _, s := range spans {
		byID[s.ID] = s
	}
	return byID, nil
}

func (r *SQLiteSpanRepo) Update(ctx context.Context, s *domain.Span) error {
	meta, err := s.Metadata.MarshalJSONString()
	if err != nil {
		return fmt.Errorf("encoding span metadata: %w", err)
	}
	query := `UPDATE spans SET type = ?, name = ?, slug = ?, start_date = ?, end_date = ?,
		start_precision = ?, end_precision = ?, state = ?, access_level = ?,
		owner_id = ?, updater_id = ?, metadata = ?, updated_at = ?
		WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query,
		string(s.Type),
		s.Name,
		s.Slug,
		s.Start.String(),
		s.End.String(),
		string(s.StartPrecision),
		string(s.EndPrecision),
		string(s.State),
		string(s.AccessLevel),
		s.OwnerID,
		s.UpdaterID,
		meta,
		s.UpdatedAt.Format(time.RFC3339),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating span: %w", err)
	}
	return nil
}

func (r *SQLiteSpanRepo) Delete(ctx context.Context, id string) error {
	// Foreign keys handle the rest: a connection-span deletion cascades
	// to its connection, and personal_span_id back-references are NULLed.
	_, err := r.db.ExecContext(ctx, `DELETE FROM spans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting span: %w", err)
	}
	return nil
}

// scanSpan scans a single span from a *sql.Row.
func (r *SQLiteSpanRepo) scanSpan(row *sql.Row) (*domain.Span, error) {
	var s domain.Span
	var typeStr, startStr, endStr, startPrec, endPrec, stateStr, accessStr, metaStr string
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&s.ID, &typeStr, &s.Name, &s.Slug, &startStr, &endStr,
		&startPrec, &endPrec, &stateStr, &accessStr,
		&s.OwnerID, &s.UpdaterID, &metaStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("span: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning span: %w", err)
	}
	return r.populateSpan(&s, typeStr, startStr, endStr, startPrec, endPrec, stateStr, accessStr, metaStr, createdAtStr, updatedAtStr)
}

// scanSpans scans multiple spans from *sql.Rows.
func (r *SQLiteSpanRepo) scanSpans(rows *sql.Rows) ([]*domain.Span, error) {
	var spans []*domain.Span
	for rows.Next() {
		var s domain.Span
		var typeStr, startStr, endStr, startPrec, endPrec, stateStr, accessStr, metaStr string
		var createdAtStr, updatedAtStr string

		err := rows.Scan(
			&s.ID, &typeStr, &s.Name, &s.Slug, &startStr, &endStr,
			&startPrec, &endPrec, &stateStr, &accessStr,
			&s.OwnerID, &s.UpdaterID, &metaStr, &createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning span row: %w", err)
		}
		span, err := r.populateSpan(&s, typeStr, startStr, endStr, startPrec, endPrec, stateStr, accessStr, metaStr, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		spans = append(spans, span)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating spans: %w", err)
	}
	return spans, nil
}

// populateSpan fills in parsed fields on a Span after scanning raw values.
func (r *SQLiteSpanRepo) populateSpan(
	s *domain.Span,
	typeStr, startStr, endStr, startPrec, endPrec, stateStr, accessStr, metaStr string,
	createdAtStr, updatedAtStr string,
) (*domain.Span, error) {
	s.Type = domain.SpanType(typeStr)
	s.Start = parsePartialDate(startStr)
	s.End = parsePartialDate(endStr)
	s.StartPrecision = domain.DatePrecision(startPrec)
	s.EndPrecision = domain.DatePrecision(endPrec)
	s.State = domain.SpanState(stateStr)
	s.AccessLevel = domain.AccessLevel(accessStr)

	meta, err := domain.ParseMetadata(metaStr)
	if err != nil {
		return nil, fmt.Errorf("parsing span metadata: %w", err)
	}
	s.Metadata = meta

	s.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	s.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return s, nil
}
