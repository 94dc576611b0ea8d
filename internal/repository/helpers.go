package repository

import (
	"database/sql"
	"time"

	"github.com/nswan/lifeweave/internal/domain"
)

// parsePartialDate parses a stored partial-date string, tolerating bad
// values the same way nullable timestamps are tolerated: they read back
// as timeless.
func parsePartialDate(s string) domain.PartialDate {
	d, err := domain.ParsePartialDate(s)
	if err != nil {
		return domain.PartialDate{}
	}
	return d
}

// nullableStringToPtr converts a sql.NullString to a *string.
func nullableStringToPtr(s sql.NullString) *string {
	if !s.Valid || s.String == "" {
		return nil
	}
	v := s.String
	return &v
}

// ptrToNullable converts a *string to a value suitable for SQLite
// storage (nil becomes SQL NULL).
func ptrToNullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// emptyToNullable stores the empty string as SQL NULL, used for the
// exclusive user_id/group_id pair on span_permissions.
func emptyToNullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
