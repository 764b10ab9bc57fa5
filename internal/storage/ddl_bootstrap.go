package storage

import (
	"context"
	"fmt"
	"sync"

	"scrub/internal/frame"
)

// ColumnDef describes one column of a table to be created, typed by the
// frame kind so each backend can map it to its own SQL type.
type ColumnDef struct {
	Name     string
	Kind     frame.Kind
	Nullable bool
}

// DDLBootstrapper is a backend-specific function that renders and applies
// the appropriate DDL via repo.Exec (typically CREATE TABLE IF NOT EXISTS).
//
// Backends (postgres, sqlite, mysql) register their implementation for a
// given storage kind at init time.
type DDLBootstrapper func(ctx context.Context, repo Repository, table string, cols []ColumnDef) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) a DDLBootstrapper for the given
// storage kind. It is typically called from backend packages' init()
// functions.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTable locates the DDLBootstrapper for kind and invokes it. Callers
// do not need to know which backend they are using; they pass the column
// definitions and the already-open Repository.
func EnsureTable(ctx context.Context, kind string, repo Repository, table string, cols []ColumnDef) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", kind)
	}
	return fn(ctx, repo, table, cols)
}

// ColumnDefsFromFrame derives table column definitions from a frame's
// post-cleaning column kinds. Every column is nullable; the cleaning
// pipeline may legitimately leave nulls behind (e.g. flag-only runs).
func ColumnDefsFromFrame(f *frame.Frame) []ColumnDef {
	cols := f.Columns()
	defs := make([]ColumnDef, len(cols))
	for i, c := range cols {
		defs[i] = ColumnDef{Name: c.Name, Kind: c.Kind, Nullable: true}
	}
	return defs
}
