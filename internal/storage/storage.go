// Package storage contains the storage-agnostic contracts of the load side:
// the Repository/Tx interfaces every backend implements, a factory registry
// keyed by storage kind, per-dialect INSERT construction, and the batched
// transactional loader.
//
// Backends (mssql, postgres, sqlite) live in subpackages and register
// themselves at init time; callers obtain a Repository via New and never
// import a driver directly.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Config selects and configures a backend.
type Config struct {
	// Kind selects the backend implementation: "mssql", "postgres", "sqlite".
	Kind string

	// DSN is the backend connection string.
	DSN string
}

// IDPair is one (surrogate key, natural key) row of a reference table.
type IDPair struct {
	ID  int
	Key string
}

// Repository is the minimal surface the pipeline needs from a store.
type Repository interface {
	// Ping verifies connectivity; the loader calls it before any chunk.
	Ping(ctx context.Context) error

	// Begin opens the transaction scope for one chunk.
	Begin(ctx context.Context) (Tx, error)

	// IDPairs returns every (idColumn, keyColumn) pair of table, for
	// building the id-mapping cache.
	IDPairs(ctx context.Context, table, idColumn, keyColumn string) ([]IDPair, error)

	// Exec runs a standalone statement (typically DDL).
	Exec(ctx context.Context, sql string) error

	// Dialect reports how to render placeholders and identifiers for this
	// backend.
	Dialect() Dialect

	Close()
}

// Tx is one chunk's transaction. Insert failures are classified by the
// backend: a plain error means the row failed but the transaction is still
// usable (the loader skips the row and continues); an error wrapped in Fatal
// means the whole chunk is lost.
type Tx interface {
	Insert(ctx context.Context, sql string, args []any) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Dialect captures the SQL-rendering differences between backends.
type Dialect struct {
	// Placeholder renders the i-th (1-based) bind parameter.
	Placeholder func(i int) string

	// QuoteIdent quotes a single identifier.
	QuoteIdent func(s string) string
}

// InsertSQL builds the parameterized single-row INSERT for table/columns
// under d.
func InsertSQL(d Dialect, table string, columns []string) string {
	cols := make([]string, len(columns))
	binds := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = d.QuoteIdent(c)
		binds[i] = d.Placeholder(i + 1)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdent(table),
		strings.Join(cols, ", "),
		strings.Join(binds, ", "),
	)
}

// ErrConnectivity marks a failed pre-flight connection check. The load call
// aborts immediately; no chunk is attempted.
var ErrConnectivity = errors.New("storage: connectivity check failed")

// Fatal wraps an error that invalidates the surrounding chunk transaction
// (connection loss, aborted transaction). Backends return it from Tx.Insert
// when the failure is not confined to the row.
type Fatal struct{ Err error }

func (f Fatal) Error() string { return f.Err.Error() }
func (f Fatal) Unwrap() error { return f.Err }

// IsFatal reports whether err (anywhere in its chain) invalidates the chunk.
// Context cancellation always does.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var f Fatal
	if errors.As(err, &f) {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// TxError reports a chunk-level failure: the chunk was rolled back and the
// remaining chunks of the entity kind were abandoned.
type TxError struct {
	Chunk int // 0-based chunk index
	Err   error
}

func (e *TxError) Error() string {
	return fmt.Sprintf("storage: chunk %d failed: %v", e.Chunk, e.Err)
}
func (e *TxError) Unwrap() error { return e.Err }

// Factory constructs a backend Repository from a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
	ddlFns    = map[string]func(ctx context.Context, repo Repository) error{}
)

// Register installs (or replaces) the factory for a storage kind. Called
// from backend packages' init functions.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// RegisterDDL installs the schema bootstrapper for a storage kind.
func RegisterDDL(kind string, fn func(ctx context.Context, repo Repository) error) {
	regMu.Lock()
	defer regMu.Unlock()
	ddlFns[kind] = fn
}

// New opens a Repository for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// EnsureSchema applies the backend's DDL bootstrap (create-if-missing for
// the six destination tables).
func EnsureSchema(ctx context.Context, kind string, repo Repository) error {
	regMu.RLock()
	fn, ok := ddlFns[kind]
	regMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", kind)
	}
	return fn(ctx, repo)
}

// ListKinds returns a sorted snapshot of the registered storage kinds.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
