// Package mssql implements the storage.Repository contract on database/sql
// with the go-mssqldb driver.
package mssql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/microsoft/go-mssqldb"

	"opinionetl/internal/storage"
)

func init() {
	storage.Register("mssql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		db, err := sql.Open("sqlserver", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("mssql open: %w", err)
		}
		return &Repo{db: db}, nil
	})
	storage.RegisterDDL("mssql", ensureSchema)
}

// Repo is a SQL Server-backed storage.Repository.
type Repo struct {
	db *sql.DB
}

func (r *Repo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

func (r *Repo) Begin(ctx context.Context) (storage.Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &msTx{tx: tx}, nil
}

func (r *Repo) IDPairs(ctx context.Context, table, idColumn, keyColumn string) ([]storage.IDPair, error) {
	q := fmt.Sprintf("SELECT %s, %s FROM %s",
		msIdent(idColumn), msIdent(keyColumn), msIdent(table))
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
		Placeholder: func(i int) string { return "@p" + strconv.Itoa(i) },
		QuoteIdent:  msIdent,
	}
}

func (r *Repo) Close() { _ = r.db.Close() }

func msIdent(s string) string {
	return "[" + strings.ReplaceAll(s, "]", "]]") + "]"
}

type msTx struct {
	tx *sql.Tx
}

func (t *msTx) Insert(ctx context.Context, sqlText string, args []any) error {
	named := make([]any, len(args))
	for i, a := range args {
		named[i] = sql.Named("p"+strconv.Itoa(i+1), a)
	}
	if _, err := t.tx.ExecContext(ctx, sqlText, named...); err != nil {
		if errors.Is(err, driver.ErrBadConn) {
			return storage.Fatal{Err: err}
		}
		return err
	}
	return nil
}

func (t *msTx) Commit(ctx context.Context) error   { return t.tx.Commit() }
func (t *msTx) Rollback(ctx context.Context) error { return t.tx.Rollback() }
