// Package postgres stores health records and the record id counter in PostgreSQL.
// The schema is owned by the goose migrations in package migrations.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPool is the subset of *pgxpool.Pool used by RecordRepo and Counter.
// pgxmock.PgxPoolIface satisfies it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// DB is the pool shared by the record repository and the id counter.
type DB struct{ Pool PgxPool }

// New opens a pool for dsn and pings it.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping health record database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

// Close releases every pooled connection.
func (db *DB) Close() { db.Pool.Close() }
