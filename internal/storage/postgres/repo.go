// Package postgres implements the storage.Repository contract on pgx v5.
//
// Row isolation inside a chunk uses savepoints: a failed INSERT aborts the
// enclosing Postgres transaction, so each row runs under its own savepoint
// and a constraint failure rolls back just that row.
package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"opinionetl/internal/storage"
)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		pool, err := pgxpool.New(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("pgxpool: %w", err)
		}
		return &Repo{pool: pool}, nil
	})
	storage.RegisterDDL("postgres", ensureSchema)
}

// Repo is a Postgres-backed storage.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func (r *Repo) Ping(ctx context.Context) error { return r.pool.Ping(ctx) }

func (r *Repo) Begin(ctx context.Context) (storage.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgTx{tx: tx}, nil
}

func (r *Repo) IDPairs(ctx context.Context, table, idColumn, keyColumn string) ([]storage.IDPair, error) {
	q := fmt.Sprintf("SELECT %s, %s FROM %s",
		pgIdent(idColumn), pgIdent(keyColumn), pgIdent(table))
	rows, err := r.pool.Query(ctx, q)
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

func (r *Repo) Exec(ctx context.Context, sql string) error {
	_, err := r.pool.Exec(ctx, sql)
	return err
}

func (r *Repo) Dialect() storage.Dialect {
	return storage.Dialect{
		Placeholder: func(i int) string { return "$" + strconv.Itoa(i) },
		QuoteIdent:  pgIdent,
	}
}

func (r *Repo) Close() { r.pool.Close() }

func pgIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

type pgTx struct {
	tx pgx.Tx
	n  int
}

func (t *pgTx) Insert(ctx context.Context, sql string, args []any) error {
	t.n++
	sp := "row_" + strconv.Itoa(t.n)
	if _, err := t.tx.Exec(ctx, "SAVEPOINT "+sp); err != nil {
		return storage.Fatal{Err: err}
	}
	if _, err := t.tx.Exec(ctx, sql, args...); err != nil {
		// A failed rollback-to-savepoint means the connection or the whole
		// transaction is gone, not just the row.
		if _, rbErr := t.tx.Exec(ctx, "ROLLBACK TO SAVEPOINT "+sp); rbErr != nil {
			return storage.Fatal{Err: fmt.Errorf("rollback to savepoint: %w", rbErr)}
		}
		return err
	}
	if _, err := t.tx.Exec(ctx, "RELEASE SAVEPOINT "+sp); err != nil {
		return storage.Fatal{Err: err}
	}
	return nil
}

func (t *pgTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *pgTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }
