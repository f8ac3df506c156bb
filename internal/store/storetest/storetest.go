// Package storetest provides an in-memory Store implementation for tests.
//
// The fake records every operation in order and supports scripted failures
// per table, which makes compensation behavior (delete-after-failed-insert)
// directly observable in unit tests.
package storetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/muniworks/landregistry/internal/store"
)

// Op records a single store operation for later assertions.
type Op struct {
	Name   string // insert, update, delete, query, count
	Table  string
	Values store.Values
	Filter store.Filter
}

// Fake is an in-memory store.Store.
type Fake struct {
	mu     sync.Mutex
	tables map[string][]store.Values
	ops    []Op

	// failures maps "op:table" to an error returned on the next matching
	// call. Set with FailNext; consumed once.
	failures map[string]error

	// alwaysFail maps "op:table" to a persistent error. Set with FailAlways.
	alwaysFail map[string]error
}

// New creates an empty fake store.
func New() *Fake {
	return &Fake{
		tables:     make(map[string][]store.Values),
		failures:   make(map[string]error),
		alwaysFail: make(map[string]error),
	}
}

// FailNext makes the next call of op against table fail with a typed store
// error of the given kind.
func (f *Fake) FailNext(op, table string, kind store.ErrorKind) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op+":"+table] = &store.Error{Kind: kind, Table: table, Op: op,
		Err: fmt.Errorf("scripted %s failure", kind)}
}

// FailAlways makes every call of op against table fail.
func (f *Fake) FailAlways(op, table string, kind store.ErrorKind) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alwaysFail[op+":"+table] = &store.Error{Kind: kind, Table: table, Op: op,
		Err: fmt.Errorf("scripted %s failure", kind)}
}

// Ops returns the recorded operations in call order.
func (f *Fake) Ops() []Op {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Op, len(f.ops))
	copy(out, f.ops)
	return out
}

// Rows returns the current contents of a table.
func (f *Fake) Rows(table string) []store.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]store.Values, len(f.tables[table]))
	copy(out, f.tables[table])
	return out
}

func (f *Fake) scriptedErr(op, table string) error {
	key := op + ":" + table
	if err, ok := f.failures[key]; ok {
		delete(f.failures, key)
		return err
	}
	if err, ok := f.alwaysFail[key]; ok {
		return err
	}
	return nil
}

func (f *Fake) Insert(_ context.Context, table string, vals store.Values) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, Op{Name: "insert", Table: table, Values: cloneValues(vals)})
	if err := f.scriptedErr("insert", table); err != nil {
		return uuid.Nil, err
	}
	id := uuid.New()
	row := cloneValues(vals)
	row["id"] = id.String()
	f.tables[table] = append(f.tables[table], row)
	return id, nil
}

func (f *Fake) Update(_ context.Context, table string, filter store.Filter, vals store.Values) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, Op{Name: "update", Table: table, Filter: cloneFilter(filter), Values: cloneValues(vals)})
	if err := f.scriptedErr("update", table); err != nil {
		return err
	}
	for _, row := range f.tables[table] {
		if matches(row, filter) {
			for k, v := range vals {
				row[k] = v
			}
		}
	}
	return nil
}

func (f *Fake) Delete(_ context.Context, table string, filter store.Filter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, Op{Name: "delete", Table: table, Filter: cloneFilter(filter)})
	if err := f.scriptedErr("delete", table); err != nil {
		return err
	}
	kept := f.tables[table][:0]
	for _, row := range f.tables[table] {
		if !matches(row, filter) {
			kept = append(kept, row)
		}
	}
	f.tables[table] = kept
	return nil
}

func (f *Fake) Query(_ context.Context, table string, filter store.Filter) ([]store.Values, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, Op{Name: "query", Table: table, Filter: cloneFilter(filter)})
	if err := f.scriptedErr("query", table); err != nil {
		return nil, err
	}
	var out []store.Values
	for _, row := range f.tables[table] {
		if matches(row, filter) {
			out = append(out, cloneValues(row))
		}
	}
	return out, nil
}

func (f *Fake) QueryOne(ctx context.Context, table string, filter store.Filter) (store.Values, error) {
	rows, err := f.Query(ctx, table, filter)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &store.Error{Kind: store.KindNotFound, Table: table, Op: "query"}
	}
	return rows[0], nil
}

func (f *Fake) Count(ctx context.Context, table string, filter store.Filter) (int64, error) {
	rows, err := f.Query(ctx, table, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func matches(row store.Values, filter store.Filter) bool {
	for k, want := range filter {
		if fmt.Sprint(row[k]) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

func cloneValues(v store.Values) store.Values {
	out := make(store.Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

func cloneFilter(fl store.Filter) store.Filter {
	out := make(store.Filter, len(fl))
	for k, val := range fl {
		out[k] = val
	}
	return out
}
