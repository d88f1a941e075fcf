// Package sqlite implements the storage.Repository contract on database/sql
// with the modernc.org pure-Go driver. Intended for local runs and tests; a
// DSN of "file::memory:?cache=shared" gives a throwaway in-memory store.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"opinionetl/internal/storage"
)

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		db, err := sql.Open("sqlite", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("sqlite open: %w", err)
		}
		// Single writer; the driver serializes anyway and this avoids
		// SQLITE_BUSY under concurrent chunk loads.
		db.SetMaxOpenConns(1)
		return &Repo{db: db}, nil
	})
	storage.RegisterDDL("sqlite", ensureSchema)
}

// Repo is a SQLite-backed storage.Repository.
type Repo struct {
	db *sql.DB
}

func (r *Repo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

func (r *Repo) Begin(ctx context.Context) (storage.Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &liteTx{tx: tx}, nil
}

func (r *Repo) IDPairs(ctx context.Context, table, idColumn, keyColumn string) ([]storage.IDPair, error) {
	q := fmt.Sprintf("SELECT %s, %s FROM %s",
		liteIdent(idColumn), liteIdent(keyColumn), liteIdent(table))
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var out []storage.IDPair
	for rows.Next() {
		var p storage.IDPair
		if err := rows.Scan(&p.ID, &p.Key); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Exec(ctx context.Context, sqlText string) error {
	_, err := r.db.ExecContext(ctx, sqlText)
	return err
}

func (r *Repo) Dialect() storage.Dialect {
	return storage.Dialect{
		Placeholder: func(int) string { return "?" },
		QuoteIdent:  liteIdent,
	}
}

func (r *Repo) Close() { _ = r.db.Close() }

func liteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

type liteTx struct {
	tx *sql.Tx
}

func (t *liteTx) Insert(ctx context.Context, sqlText string, args []any) error {
	if _, err := t.tx.ExecContext(ctx, sqlText, args...); err != nil {
		if errors.Is(err, driver.ErrBadConn) {
			return storage.Fatal{Err: err}
		}
		return err
	}
	return nil
}

func (t *liteTx) Commit(ctx context.Context) error   { return t.tx.Commit() }
func (t *liteTx) Rollback(ctx context.Context) error { return t.tx.Rollback() }
