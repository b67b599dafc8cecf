package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/healthrec/internal/errs"
	"github.com/and161185/healthrec/internal/model"
)

// RecordRepo implements RecordRepository using PostgreSQL.
type RecordRepo struct{ db *DB }

// NewRecordRepo constructs a record repository.
func NewRecordRepo(db *DB) *RecordRepo { return &RecordRepo{db: db} }

const recordColumns = `id, patient_name, symptoms, diagnosis, treatment, created_at, updated_at`

// scanRecord reads one row in recordColumns order.
func scanRecord(row pgx.Row) (*model.HealthRecord, error) {
	var (
		id  int64
		rec model.HealthRecord
		upd *time.Time
	)
	if err := row.Scan(&id, &rec.PatientName, &rec.Symptoms, &rec.Diagnosis, &rec.Treatment, &rec.CreatedAt, &upd); err != nil {
		return nil, err
	}
	rec.ID = uint64(id)
	rec.UpdatedAt = upd
	return &rec, nil
}

// Get returns a single record by id.
func (r *RecordRepo) Get(ctx context.Context, id uint64) (*model.HealthRecord, error) {
	if id > math.MaxInt64 {
		return nil, errs.ErrNotFound
	}
	const q = `SELECT ` + recordColumns + ` FROM health_records WHERE id=$1`
	rec, err := scanRecord(r.db.Pool.QueryRow(ctx, q, int64(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// Put inserts the record or overwrites the row with the same id.
func (r *RecordRepo) Put(ctx context.Context, rec model.HealthRecord) error {
	if rec.ID > math.MaxInt64 {
		return fmt.Errorf("record id %d out of range", rec.ID)
	}
	const q = `
INSERT INTO health_records (id, patient_name, symptoms, diagnosis, treatment, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET
  patient_name=EXCLUDED.patient_name, symptoms=EXCLUDED.symptoms, diagnosis=EXCLUDED.diagnosis,
  treatment=EXCLUDED.treatment, updated_at=EXCLUDED.updated_at`
	_, err := r.db.Pool.Exec(ctx, q, int64(rec.ID), rec.PatientName, rec.Symptoms, rec.Diagnosis,
		rec.Treatment, rec.CreatedAt, rec.UpdatedAt)
	return err
}

// Remove deletes the row and returns its prior content.
func (r *RecordRepo) Remove(ctx context.Context, id uint64) (*model.HealthRecord, error) {
	if id > math.MaxInt64 {
		return nil, errs.ErrNotFound
	}
	const q = `DELETE FROM health_records WHERE id=$1 RETURNING ` + recordColumns
	rec, err := scanRecord(r.db.Pool.QueryRow(ctx, q, int64(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// All returns every record ordered by id.
func (r *RecordRepo) All(ctx context.Context) ([]model.HealthRecord, error) {
	const q = `SELECT ` + recordColumns + ` FROM health_records ORDER BY id ASC`
	rows, err := r.db.Pool.Query(ctx, q)
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
	const q = `SELECT COUNT(*) FROM health_records`
	var n int64
	if err := r.db.Pool.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return int(n), nil
}
