package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nswan/lifeweave/internal/db"
	"github.com/nswan/lifeweave/internal/domain"
)

const connectionColumns = `id, parent_id, child_id, type, connection_span_id, created_at, updated_at`

// SQLiteConnectionRepo implements ConnectionRepo over a DBTX.
type SQLiteConnectionRepo struct {
	db db.DBTX
}

// NewSQLiteConnectionRepo creates a new SQLiteConnectionRepo.
func NewSQLiteConnectionRepo(dbtx db.DBTX) *SQLiteConnectionRepo {
	return &SQLiteConnectionRepo{db: dbtx}
}

func (r *SQLiteConnectionRepo) Create(ctx context.Context, c *domain.Connection) error {
	query := `INSERT INTO connections (` + connectionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.ParentID, c.ChildID, c.Type, c.ConnectionSpanID,
		c.CreatedAt.Format(time.RFC3339), c.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting connection: %w", err)
	}
	return nil
}

func (r *SQLiteConnectionRepo) GetByID(ctx context.Context, id string) (*domain.Connection, error) {
	query := `SELECT ` + connectionColumns + ` FROM connections WHERE id = ?`
	return r.scanConnection(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteConnectionRepo) GetByConnectionSpan(ctx context.Context, connectionSpanID string) (*domain.Connection, error) {
	query := `SELECT ` + connectionColumns + ` FROM connections WHERE connection_span_id = ?`
	return r.scanConnection(r.db.QueryRowContext(ctx, query, connectionSpanID))
}

// ListBySubjectAndType returns every connection of one (parent, type)
// pair joined with its connection-span's dates and state. This is the
// working set for the temporal constraint check.
func (r *SQLiteConnectionRepo) ListBySubjectAndType(ctx context.Context, parentID, typeKey string) ([]SubjectConnection, error) {
	query := `SELECT c.id, c.child_id, s.start_date, s.end_date, s.state
		FROM connections c
		JOIN spans s ON s.id = c.connection_span_id
		WHERE c.parent_id = ? AND c.type = ?`
	rows, err := r.db.QueryContext(ctx, query, parentID, typeKey)
	if err != nil {
		return nil, fmt.Errorf("listing connections by subject and type: %w", err)
	}
	defer rows.Close()

	var out []SubjectConnection
	for rows.Next() {
		var sc SubjectConnection
		var startStr, endStr, stateStr string
		if err := rows.Scan(&sc.ConnectionID, &sc.ChildID, &startStr, &endStr, &stateStr); err != nil {
			return nil, fmt.Errorf("scanning subject connection: %w", err)
		}
		sc.Interval = domain.Interval{Start: parsePartialDate(startStr), End: parsePartialDate(endStr)}
		sc.State = domain.SpanState(stateStr)
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subject connections: %w", err)
	}
	return out, nil
}

// ListBySpan returns every connection that touches the given span as
// parent or child, each joined with its connection-span. One query per
// traversal hop keeps the neighbourhood walk cheap.
func (r *SQLiteConnectionRepo) ListBySpan(ctx context.Context, spanID string) ([]ConnectionEdge, error) {
	query := `SELECT c.id, c.parent_id, c.child_id, c.type, c.connection_span_id,
			c.created_at, c.updated_at,
			s.id, s.type, s.name, s.slug, s.start_date, s.end_date,
			s.start_precision, s.end_precision, s.state, s.access_level,
			s.owner_id, s.updater_id, s.metadata, s.created_at, s.updated_at
		FROM connections c
		JOIN spans s ON s.id = c.connection_span_id
		WHERE c.parent_id = ? OR c.child_id = ?`
	rows, err := r.db.QueryContext(ctx, query, spanID, spanID)
	if err != nil {
		return nil, fmt.Errorf("listing connections by span: %w", err)
	}
	defer rows.Close()

	var edges []ConnectionEdge
	for rows.Next() {
		var e ConnectionEdge
		var cCreated, cUpdated string
		var typeStr, startStr, endStr, startPrec, endPrec, stateStr, accessStr, metaStr string
		var sCreated, sUpdated string

		err := rows.Scan(
			&e.Connection.ID, &e.Connection.ParentID, &e.Connection.ChildID,
			&e.Connection.Type, &e.Connection.ConnectionSpanID, &cCreated, &cUpdated,
			&e.ConnectionSpan.ID, &typeStr, &e.ConnectionSpan.Name, &e.ConnectionSpan.Slug,
			&startStr, &endStr, &startPrec, &endPrec, &stateStr, &accessStr,
			&e.ConnectionSpan.OwnerID, &e.ConnectionSpan.UpdaterID, &metaStr, &sCreated, &sUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning connection edge: %w", err)
		}

		e.Connection.CreatedAt, _ = time.Parse(time.RFC3339, cCreated)
		e.Connection.UpdatedAt, _ = time.Parse(time.RFC3339, cUpdated)

		e.ConnectionSpan.Type = domain.SpanType(typeStr)
		e.ConnectionSpan.Start = parsePartialDate(startStr)
		e.ConnectionSpan.End = parsePartialDate(endStr)
		e.ConnectionSpan.StartPrecision = domain.DatePrecision(startPrec)
		e.ConnectionSpan.EndPrecision = domain.DatePrecision(endPrec)
		e.ConnectionSpan.State = domain.SpanState(stateStr)
		e.ConnectionSpan.AccessLevel = domain.AccessLevel(accessStr)
		meta, err := domain.ParseMetadata(metaStr)
		if err != nil {
			return nil, fmt.Errorf("parsing connection-span metadata: %w", err)
		}
		e.ConnectionSpan.Metadata = meta
		e.ConnectionSpan.CreatedAt, _ = time.Parse(time.RFC3339, sCreated)
		e.ConnectionSpan.UpdatedAt, _ = time.Parse(time.RFC3339, sUpdated)

		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating connection edges: %w", err)
	}
	return edges, nil
}

func (r *SQLiteConnectionRepo) Update(ctx context.Context, c *domain.Connection) error {
	query := `UPDATE connections SET parent_id = ?, child_id = ?, type = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		c.ParentID, c.ChildID, c.Type, c.UpdatedAt.Format(time.RFC3339), c.ID)
	if err != nil {
		return fmt.Errorf("updating connection: %w", err)
	}
	return nil
}

func (r *SQLiteConnectionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM connections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting connection: %w", err)
	}
	return nil
}

func (r *SQLiteConnectionRepo) scanConnection(row *sql.Row) (*domain.Connection, error) {
	var c domain.Connection
	var createdAtStr, updatedAtStr string
	err := row.Scan(&c.ID, &c.ParentID, &c.ChildID, &c.Type, &c.ConnectionSpanID, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("connection: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning connection: %w", err)
	}
	c.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	c.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &c, nil
}
