// Package storage contains storage-agnostic contracts and utilities: the
// Repository interface, a kind-keyed backend factory, DDL bootstrapping, and
// a generic batched loader. Concrete backends live in subpackages and
// register themselves at init time.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Repository is the minimal contract a storage backend must satisfy.
type Repository interface {
	// CopyFrom bulk-inserts rows (aligned to the columns order) into the
	// configured table and returns the number of rows inserted.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)
	// Query reads the configured table and returns its column names and
	// rows. When cfg.Columns is set only those columns are selected.
	Query(ctx context.Context) ([]string, [][]any, error)
	// Exec executes an arbitrary SQL statement (typically DDL).
	Exec(ctx context.Context, sql string) error
	// Close releases the underlying connection pool.
	Close()
}

// Config is the backend-independent connection configuration.
type Config struct {
	Kind    string   // backend kind, e.g. "postgres"
	DSN     string   // driver connection string
	Table   string   // target or source table, possibly schema-qualified
	Columns []string // ordered column subset; empty means all
}

// Factory builds a Repository from a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	facMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) a backend factory for the given kind.
// It is typically called from backend packages' init() functions.
func Register(kind string, fn Factory) {
	facMu.Lock()
	defer facMu.Unlock()
	factories[kind] = fn
}

// New constructs a Repository for cfg.Kind using the registered factory.
func New(ctx context.Context, cfg Config) (Repository, error) {
	facMu.RLock()
	fn, ok := factories[cfg.Kind]
	facMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return fn(ctx, cfg)
}

// ListKinds returns the registered backend kinds in sorted order.
func ListKinds() []string {
	facMu.RLock()
	defer facMu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
