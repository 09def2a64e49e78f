// internal/repository/postgres/db.go
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of *pgxpool.Pool the repositories rely on.
// pgxmock satisfies the same surface, so repository and service tests run
// without a live database.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

var _ Querier = (*pgxpool.Pool)(nil)

// DB wraps the connection pool and hands out transactions. Every logical
// business operation that touches more than one row runs inside a single
// transaction started here.
type DB struct {
	q Querier
}

func NewDB(q Querier) *DB {
	return &DB{q: q}
}

func (db *DB) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return db.q.Begin(ctx)
}

func (db *DB) Querier() Querier {
	return db.q
}
