package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrConnection indicates the store could not be reached, initialised or
// closed, or that its schema does not match what the statements expect.
// It is fatal to the session.
type ErrConnection struct {
	Op  string
	Err error
}

func (e *ErrConnection) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *ErrConnection) Unwrap() error { return e.Err }

// Postgres SQLSTATE codes for a missing relation or column.
const (
	codeUndefinedTable  = "42P01"
	codeUndefinedColumn = "42703"
)

// isSchemaMismatch reports whether err means the table layout differs from
// the one the statements were written against.
func isSchemaMismatch(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == codeUndefinedTable || pqErr.Code == codeUndefinedColumn
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUndefinedTable || pgErr.Code == codeUndefinedColumn
	}

	msg := err.Error()
	return strings.Contains(msg, "no such table") || strings.Contains(msg, "no such column")
}

// classify wraps a statement failure, promoting schema mismatches to
// ErrConnection.
func classify(key Key, err error) error {
	if isSchemaMismatch(err) {
		return &ErrConnection{Op: "run " + key.String(), Err: err}
	}
	return fmt.Errorf("%s: %w", key, err)
}
