package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorKind classifies a store failure so callers can react without
// inspecting driver-specific error strings.
type ErrorKind string

const (
	// KindDuplicate indicates a unique-constraint violation.
	KindDuplicate ErrorKind = "duplicate"

	// KindForeignKey indicates a reference to a row that does not exist.
	KindForeignKey ErrorKind = "foreign_key"

	// KindNotFound indicates a lookup that matched no rows.
	KindNotFound ErrorKind = "not_found"

	// KindConstraint indicates a NOT NULL or check constraint violation.
	KindConstraint ErrorKind = "constraint"

	// KindUnavailable indicates the store could not be reached.
	KindUnavailable ErrorKind = "unavailable"

	// KindInternal is the catch-all for unclassified failures.
	KindInternal ErrorKind = "internal"
)

// Error is the typed failure returned by every Store operation.
type Error struct {
	Kind  ErrorKind
	Table string
	Op    string // insert, update, delete, query, count
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store: %s %s: %v", e.Op, e.Table, e.Err)
	}
	return fmt.Sprintf("store: %s %s: %s", e.Op, e.Table, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts a *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// KindOf returns the ErrorKind of err, or KindInternal for untyped errors.
func KindOf(err error) ErrorKind {
	if se, ok := AsError(err); ok {
		return se.Kind
	}
	return KindInternal
}

// wrapPgError converts a pgx/pgconn error into a typed *Error.
func wrapPgError(op, table string, err error) error {
	if err == nil {
		return nil
	}

	kind := KindInternal

	if errors.Is(err, pgx.ErrNoRows) {
		kind = KindNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			kind = KindDuplicate
		case "23503":
			kind = KindForeignKey
		case "23502", "23514":
			kind = KindConstraint
		}
		// Class 08: connection exceptions
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" {
			kind = KindUnavailable
		}
	}

	return &Error{Kind: kind, Table: table, Op: op, Err: err}
}
