package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/nswan/lifeweave/internal/db"
	"github.com/nswan/lifeweave/internal/domain"
)

const connectionTypeColumns = `type, forward_predicate, inverse_predicate, constraint_type, parent_types, child_types`

// SQLiteConnectionTypeRepo reads the seeded relationship catalog.
type SQLiteConnectionTypeRepo struct {
	db db.DBTX
}

// NewSQLiteConnectionTypeRepo creates a new SQLiteConnectionTypeRepo.
func NewSQLiteConnectionTypeRepo(dbtx db.DBTX) *SQLiteConnectionTypeRepo {
	return &SQLiteConnectionTypeRepo{db: dbtx}
}

func (r *SQLiteConnectionTypeRepo) Get(ctx context.Context, key string) (*domain.ConnectionType, error) {
	query := `SELECT ` + connectionTypeColumns + ` FROM connection_types WHERE type = ?`
	row := r.db.QueryRowContext(ctx, query, key)

	ct, err := scanConnectionType(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("connection type %q: %w", key, ErrNotFound)
		}
		return nil, err
	}
	return ct, nil
}

func (r *SQLiteConnectionTypeRepo) List(ctx context.Context) ([]*domain.ConnectionType, error) {
	query := `SELECT ` + connectionTypeColumns + ` FROM connection_types ORDER BY type`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing connection types: %w", err)
	}
	defer rows.Close()

	var out []*domain.ConnectionType
	for rows.Next() {
		ct, err := scanConnectionType(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating connection types: %w", err)
	}
	return out, nil
}

func scanConnectionType(scan func(dest ...any) error) (*domain.ConnectionType, error) {
	var ct domain.ConnectionType
	var constraintStr, parentsJSON, childrenJSON string
	if err := scan(&ct.Type, &ct.ForwardPredicate, &ct.InversePredicate, &constraintStr, &parentsJSON, &childrenJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning connection type: %w", err)
	}
	ct.Constraint = domain.ConstraintType(constraintStr)
	if err := json.Unmarshal([]byte(parentsJSON), &ct.ParentTypes); err != nil {
		return nil, fmt.Errorf("decoding parent types for %s: %w", ct.Type, err)
	}
	if err := json.Unmarshal([]byte(childrenJSON), &ct.ChildTypes); err != nil {
		return nil, fmt.Errorf("decoding child types for %s: %w", ct.Type, err)
	}
	return &ct, nil
}
