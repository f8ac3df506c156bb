// Package store provides a table-oriented persistence abstraction over
// PostgreSQL. Callers address data by table name and column filters rather
// than SQL, and all failures surface as typed errors that higher layers can
// classify without string matching.
package store

import (
	"context"

	"github.com/google/uuid"
)

// Values holds column values for an insert or update, keyed by column name.
// A nil value maps to SQL NULL.
type Values map[string]any

// Filter holds equality conditions for a query or delete, keyed by column
// name. All conditions are combined with AND. An empty filter matches all
// rows for Query/Count and is rejected for Delete and Update.
type Filter map[string]any

// Store is the persistence interface used by the import pipeline.
// Implemented by PgStore for production and by test fakes.
type Store interface {
	// Insert adds one row and returns its generated id.
	Insert(ctx context.Context, table string, vals Values) (uuid.UUID, error)

	// Update modifies all rows matching filter. The filter must be non-empty.
	Update(ctx context.Context, table string, filter Filter, vals Values) error

	// Delete removes all rows matching filter. The filter must be non-empty.
	Delete(ctx context.Context, table string, filter Filter) error

	// Query returns all rows matching filter as column-name keyed maps.
	Query(ctx context.Context, table string, filter Filter) ([]Values, error)

	// QueryOne returns a single matching row, or ErrKindNotFound.
	QueryOne(ctx context.Context, table string, filter Filter) (Values, error)

	// Count returns the number of rows matching filter.
	Count(ctx context.Context, table string, filter Filter) (int64, error)
}
