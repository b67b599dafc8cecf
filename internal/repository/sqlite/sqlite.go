// Package sqlite contains SQLite implementations of repository interfaces for single-node
// deployments that need records to survive a restart without a PostgreSQL server.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/and161185/healthrec/internal/errs"
	"github.com/and161185/healthrec/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// DB owns the SQLite handle shared by RecordRepo and Counter.
type DB struct{ db *sql.DB }

// Open creates or opens the database file at path and applies the schema.
// Timestamps are stored as Unix nanoseconds.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	// single writer avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error { return d.db.Close() }

// RecordRepo implements RecordRepository using SQLite.
type RecordRepo struct{ d *DB }

// NewRecordRepo constructs a record repository.
func NewRecordRepo(d *DB) *RecordRepo { return &RecordRepo{d: d} }

const recordColumns = `id, patient_name, symptoms, diagnosis, treatment, created_at, updated_at`

type scanner interface{ Scan(dest ...any) error }

func scanRecord(s scanner) (*model.HealthRecord, error) {
	var (
		id      int64
		created int64
		updated sql.NullInt64
		rec     model.HealthRecord
	)
	if err := s.Scan(&id, &rec.PatientName, &rec.Symptoms, &rec.Diagnosis, &rec.Treatment, &created, &updated); err != nil {
		return nil, err
	}
	rec.ID = uint64(id)
	rec.CreatedAt = time.Unix(0, created).UTC()
	if updated.Valid {
		ts := time.Unix(0, updated.Int64).UTC()
		rec.UpdatedAt = &ts
	}
	return &rec, nil
}

// Get returns a single record by id.
func (r *RecordRepo) Get(ctx context.Context, id uint64) (*model.HealthRecord, error) {
	if id > math.MaxInt64 {
		return nil, errs.ErrNotFound
	}
	row := r.d.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM health_records WHERE id = ?`, int64(id))
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return rec, err
}

// Put inserts the record or overwrites the row with the same id.
func (r *RecordRepo) Put(ctx context.Context, rec model.HealthRecord) error {
	if rec.ID > math.MaxInt64 {
		return fmt.Errorf("record id %d out of range", rec.ID)
	}
	var updated sql.NullInt64
	if rec.UpdatedAt != nil {
		updated = sql.NullInt64{Int64: rec.UpdatedAt.UnixNano(), Valid: true}
	}
	_, err := r.d.db.ExecContext(ctx, `
		INSERT INTO health_records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			patient_name = excluded.patient_name,
			symptoms = excluded.symptoms,
			diagnosis = excluded.diagnosis,
			treatment = excluded.treatment,
			updated_at = excluded.updated_at
	`, int64(rec.ID), rec.PatientName, rec.Symptoms, rec.Diagnosis, rec.Treatment, rec.CreatedAt.UnixNano(), updated)
	if err != nil {
		return fmt.Errorf("put record %d: %w", rec.ID, err)
	}
	return nil
}

// Remove deletes the row and returns its prior content.
func (r *RecordRepo) Remove(ctx context.Context, id uint64) (*model.HealthRecord, error) {
	if id > math.MaxInt64 {
		return nil, errs.ErrNotFound
	}
	row := r.d.db.QueryRowContext(ctx, `DELETE FROM health_records WHERE id = ? RETURNING `+recordColumns, int64(id))
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return rec, err
}

// All returns every record ordered by id.
func (r *RecordRepo) All(ctx context.Context) ([]model.HealthRecord, error) {
	rows, err := r.d.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM health_records ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.HealthRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Count returns the number of stored records.
func (r *RecordRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM health_records`).Scan(&n)
	return n, err
}

// Counter implements the identifier generator over the record_counter table.
type Counter struct{ d *DB }

// NewCounter constructs a SQLite-backed counter.
func NewCounter(d *DB) *Counter { return &Counter{d: d} }

// Next advances the persisted counter and returns the pre-increment value.
func (c *Counter) Next(ctx context.Context) (uint64, error) {
	var id int64
	err := c.d.db.QueryRowContext(ctx,
		`UPDATE record_counter SET next_id = next_id + 1 WHERE id = 1 RETURNING next_id - 1`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("advance counter: %w", err)
	}
	return uint64(id), nil
}
