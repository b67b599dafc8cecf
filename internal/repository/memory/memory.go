// Package memory contains in-process implementations of repository interfaces.
// State does not survive a restart; use it for tests and ephemeral deployments.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/and161185/healthrec/internal/errs"
	"github.com/and161185/healthrec/internal/model"
)

// RecordRepo implements RecordRepository over a map.
type RecordRepo struct {
	mu      sync.RWMutex
	records map[uint64]model.HealthRecord
}

// NewRecordRepo constructs an empty record repository.
func NewRecordRepo() *RecordRepo {
	return &RecordRepo{records: make(map[uint64]model.HealthRecord)}
}

// Get returns a copy of the record at id.
func (r *RecordRepo) Get(_ context.Context, id uint64) (*model.HealthRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	out := clone(rec)
	return &out, nil
}

// Put stores a copy of rec at rec.ID.
func (r *RecordRepo) Put(_ context.Context, rec model.HealthRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.ID] = clone(rec)
	return nil
}

// Remove deletes the record at id and returns it.
func (r *RecordRepo) Remove(_ context.Context, id uint64) (*model.HealthRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	delete(r.records, id)
	return &rec, nil
}

// All returns copies of all records ordered by id.
func (r *RecordRepo) All(_ context.Context) ([]model.HealthRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.HealthRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, clone(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Count returns the number of stored records.
func (r *RecordRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records), nil
}

// clone detaches the optional UpdatedAt pointer so callers cannot mutate stored state.
func clone(rec model.HealthRecord) model.HealthRecord {
	if rec.UpdatedAt != nil {
		ts := *rec.UpdatedAt
		rec.UpdatedAt = &ts
	}
	return rec
}

// Counter is an in-memory identifier generator starting at a given value.
type Counter struct {
	mu   sync.Mutex
	next uint64
}

// NewCounter constructs a counter whose first issued value is start.
func NewCounter(start uint64) *Counter { return &Counter{next: start} }

// Next returns the current value and advances the counter.
func (c *Counter) Next(_ context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.next
	c.next++
	return id, nil
}
