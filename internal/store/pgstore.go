package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx operations PgStore needs.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgStore implements Store on top of a pgx connection pool.
//
// SQL is generated from table and column names supplied by this codebase
// only; values always travel as bind parameters. Column order is sorted so
// generated statements are deterministic and testable.
type PgStore struct {
	db DBTX
}

// NewPgStore creates a PgStore backed by the given pool or transaction.
func NewPgStore(db DBTX) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) Insert(ctx context.Context, table string, vals Values) (uuid.UUID, error) {
	id := uuid.New()

	cols := make([]string, 0, len(vals)+1)
	cols = append(cols, "id")
	for col := range vals {
		cols = append(cols, col)
	}
	sort.Strings(cols[1:])

	args := make([]any, 0, len(cols))
	placeholders := make([]string, 0, len(cols))
	for i, col := range cols {
		if col == "id" {
			args = append(args, id.String())
		} else {
			args = append(args, vals[col])
		}
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	if _, err := s.db.Exec(ctx, sql, args...); err != nil {
		return uuid.Nil, wrapPgError("insert", table, err)
	}
	return id, nil
}

func (s *PgStore) Update(ctx context.Context, table string, filter Filter, vals Values) error {
	if len(filter) == 0 {
		return &Error{Kind: KindInternal, Table: table, Op: "update",
			Err: fmt.Errorf("refusing update without filter")}
	}
	if len(vals) == 0 {
		return nil
	}

	setCols := sortedKeys(map[string]any(vals))
	var args []any
	sets := make([]string, 0, len(setCols))
	for _, col := range setCols {
		args = append(args, vals[col])
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	where, args := buildWhere(filter, args)
	sql := fmt.Sprintf("UPDATE %s SET %s%s", table, strings.Join(sets, ", "), where)

	if _, err := s.db.Exec(ctx, sql, args...); err != nil {
		return wrapPgError("update", table, err)
	}
	return nil
}

func (s *PgStore) Delete(ctx context.Context, table string, filter Filter) error {
	if len(filter) == 0 {
		return &Error{Kind: KindInternal, Table: table, Op: "delete",
			Err: fmt.Errorf("refusing delete without filter")}
	}

	where, args := buildWhere(filter, nil)
	sql := fmt.Sprintf("DELETE FROM %s%s", table, where)

	if _, err := s.db.Exec(ctx, sql, args...); err != nil {
		return wrapPgError("delete", table, err)
	}
	return nil
}

func (s *PgStore) Query(ctx context.Context, table string, filter Filter) ([]Values, error) {
	where, args := buildWhere(filter, nil)
	sql := fmt.Sprintf("SELECT * FROM %s%s", table, where)

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapPgError("query", table, err)
	}
	defer rows.Close()

	var result []Values
	fields := rows.FieldDescriptions()
	for rows.Next() {
		rowVals, err := rows.Values()
		if err != nil {
			return nil, wrapPgError("query", table, err)
		}
		row := make(Values, len(fields))
		for i, fd := range fields {
			row[fd.Name] = rowVals[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgError("query", table, err)
	}
	return result, nil
}

func (s *PgStore) QueryOne(ctx context.Context, table string, filter Filter) (Values, error) {
	rows, err := s.Query(ctx, table, filter)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &Error{Kind: KindNotFound, Table: table, Op: "query"}
	}
	return rows[0], nil
}

func (s *PgStore) Count(ctx context.Context, table string, filter Filter) (int64, error) {
	where, args := buildWhere(filter, nil)
	sql := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", table, where)

	var n int64
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, wrapPgError("count", table, err)
	}
	return n, nil
}

// buildWhere appends filter conditions to args and returns the WHERE clause
// (including leading space) with placeholders continuing from len(args).
func buildWhere(filter Filter, args []any) (string, []any) {
	if len(filter) == 0 {
		return "", args
	}
	conds := make([]string, 0, len(filter))
	for _, col := range sortedKeys(map[string]any(filter)) {
		args = append(args, filter[col])
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
