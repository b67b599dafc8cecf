package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Counter implements the identifier generator over the single-row record_counter table.
type Counter struct{ db *DB }

// NewCounter constructs a PostgreSQL-backed counter.
func NewCounter(db *DB) *Counter { return &Counter{db: db} }

// Next advances the persisted counter in one statement and returns the pre-increment value.
func (c *Counter) Next(ctx context.Context) (uint64, error) {
	const q = `UPDATE record_counter SET next_id = next_id + 1 WHERE id = 1 RETURNING next_id - 1`
	var id int64
	if err := c.db.Pool.QueryRow(ctx, q).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, errors.New("record_counter row missing (migrations not applied?)")
		}
		return 0, fmt.Errorf("advance counter: %w", err)
	}
	return uint64(id), nil
}
