// Package postgres implements the catalog and order repositories on top of
// PostgreSQL via pgx.
package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/juice-shop/db"
)

// NewPool creates a pgxpool.Pool for the given connection URL.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse database config")
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "create connection pool")
	}

	return pool, nil
}

// RunMigrations executes the embedded DDL schema against the pool.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, db.Schema); err != nil {
		return errors.Wrap(err, "run migrations")
	}
	return nil
}

// ResetSchema drops all application tables. Used by seed tooling for full
// reloads; never called from the serving path.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const dropSQL = `DROP TABLE IF EXISTS
		juice_fruits, juices, orders, fruit_vitamins, fruits, liquids, vitamins
		CASCADE`
	if _, err := pool.Exec(ctx, dropSQL); err != nil {
		return errors.Wrap(err, "drop tables")
	}
	return nil
}

// querier abstracts over *pgxpool.Pool and pgx.Tx so read helpers can run
// inside or outside a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}
