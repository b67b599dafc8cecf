// Package migrate applies the embedded health record schema migrations on startup.
package migrate

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/and161185/healthrec/migrations"
)

// Up runs all pending migrations and returns the resulting schema version.
func Up(ctx context.Context, dsn string) (int64, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	if err := configure(); err != nil {
		return 0, err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return 0, fmt.Errorf("goose up: %w", err)
	}
	return goose.GetDBVersionContext(ctx, db)
}

func configure() error {
	goose.SetBaseFS(migrations.FS)
	return goose.SetDialect("postgres")
}
