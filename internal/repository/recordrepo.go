// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/healthrec/internal/model"
)

// RecordRepository is the primary store: the authoritative id -> record mapping.
type RecordRepository interface {
	// Get returns the record stored at id or errs.ErrNotFound.
	Get(ctx context.Context, id uint64) (*model.HealthRecord, error)

	// Put inserts or overwrites the record at rec.ID.
	Put(ctx context.Context, rec model.HealthRecord) error

	// Remove deletes the record at id and returns its prior value, or errs.ErrNotFound.
	Remove(ctx context.Context, id uint64) (*model.HealthRecord, error)

	// All returns every stored record ordered by id.
	All(ctx context.Context) ([]model.HealthRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)
}
