// Package service contains the application service for health records.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/and161185/healthrec/internal/errs"
	"github.com/and161185/healthrec/internal/events"
	"github.com/and161185/healthrec/internal/index"
	"github.com/and161185/healthrec/internal/model"
	"github.com/and161185/healthrec/internal/repository"
)

// DefaultMaxRecordSize is the default bound on a record's encoded size in bytes.
const DefaultMaxRecordSize = 1024

// RecordService defines CRUD and token search over health records.
type RecordService interface {
	// Get returns a single record by id.
	Get(ctx context.Context, id uint64) (*model.HealthRecord, error)
	// SearchBySymptom returns records whose symptoms contained token when indexed.
	SearchBySymptom(ctx context.Context, token string) ([]model.HealthRecord, error)
	// SearchByDiagnosis returns records whose diagnosis contained token when indexed.
	SearchByDiagnosis(ctx context.Context, token string) ([]model.HealthRecord, error)
	// Create validates the payload and stores a new record with a fresh id.
	Create(ctx context.Context, p model.HealthRecordPayload) (*model.HealthRecord, error)
	// Update replaces the content of an existing record.
	Update(ctx context.Context, id uint64, p model.HealthRecordPayload) (*model.HealthRecord, error)
	// Delete removes a record and returns it.
	Delete(ctx context.Context, id uint64) (*model.HealthRecord, error)
	// RebuildIndexes re-derives both token indexes from the primary store.
	RebuildIndexes(ctx context.Context) (int, error)
}

// RecordServiceImpl owns the primary store, the id counter and both token indexes.
// A single mutex serializes every operation so that a store write and its index
// maintenance are observed together or not at all.
type RecordServiceImpl struct {
	mu        sync.Mutex
	repo      repository.RecordRepository
	ids       repository.Counter
	symptoms  *index.Index
	diagnoses *index.Index
	sink      events.Sink
	maxSize   int
	now       func() time.Time
}

// clock stamps records at microsecond precision, the finest resolution every backend stores.
func clock() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

// NewRecordService constructs RecordService with empty indexes. Call RebuildIndexes when
// the repository already holds records.
func NewRecordService(repo repository.RecordRepository, ids repository.Counter, sink events.Sink, maxRecordSize int) *RecordServiceImpl {
	if maxRecordSize <= 0 {
		maxRecordSize = DefaultMaxRecordSize
	}
	if sink == nil {
		sink = events.Nop{}
	}
	return &RecordServiceImpl{
		repo:      repo,
		ids:       ids,
		symptoms:  index.New(),
		diagnoses: index.New(),
		sink:      sink,
		maxSize:   maxRecordSize,
		now:       clock,
	}
}

// validatePayload checks fields in a fixed order and reports the first empty one.
func validatePayload(p model.HealthRecordPayload) error {
	switch {
	case p.PatientName == "":
		return fmt.Errorf("%w: patient name cannot be empty", errs.ErrValidation)
	case p.Symptoms == "":
		return fmt.Errorf("%w: symptoms cannot be empty", errs.ErrValidation)
	case p.Diagnosis == "":
		return fmt.Errorf("%w: diagnosis cannot be empty", errs.ErrValidation)
	case p.Treatment == "":
		return fmt.Errorf("%w: treatment cannot be empty", errs.ErrValidation)
	}
	return nil
}

func (s *RecordServiceImpl) checkSize(rec model.HealthRecord) error {
	if n := rec.EncodedSize(); n > s.maxSize {
		return fmt.Errorf("%w: record size %d exceeds limit %d", errs.ErrInsertionFailed, n, s.maxSize)
	}
	return nil
}

func (s *RecordServiceImpl) put(ctx context.Context, rec model.HealthRecord) error {
	if err := s.repo.Put(ctx, rec); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInsertionFailed, err)
	}
	return nil
}

func (s *RecordServiceImpl) indexRecord(rec model.HealthRecord) {
	s.symptoms.Add(rec.ID, rec.Symptoms)
	s.diagnoses.Add(rec.ID, rec.Diagnosis)
}

func (s *RecordServiceImpl) unindexRecord(rec model.HealthRecord) {
	s.symptoms.Remove(rec.ID, rec.Symptoms)
	s.diagnoses.Remove(rec.ID, rec.Diagnosis)
}

// Get fetches a single record by id.
func (s *RecordServiceImpl) Get(ctx context.Context, id uint64) (*model.HealthRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("health record id=%d: %w", id, err)
	}
	return rec, nil
}

// SearchBySymptom resolves the symptom posting list for an exact token.
func (s *RecordServiceImpl) SearchBySymptom(ctx context.Context, token string) ([]model.HealthRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolve(ctx, s.symptoms.Lookup(token))
}

// SearchByDiagnosis resolves the diagnosis posting list for an exact token.
func (s *RecordServiceImpl) SearchByDiagnosis(ctx context.Context, token string) ([]model.HealthRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolve(ctx, s.diagnoses.Lookup(token))
}

// resolve maps ids through the primary store in order. Ids that no longer resolve are
// skipped; only storage faults are returned.
func (s *RecordServiceImpl) resolve(ctx context.Context, ids index.PostingList) ([]model.HealthRecord, error) {
	out := make([]model.HealthRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := s.repo.Get(ctx, id)
		if errors.Is(err, errs.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve id=%d: %w", id, err)
		}
		out = append(out, *rec)
	}
	return out, nil
}

// Create validates the payload, assigns an id and stores and indexes the new record.
// Validation and size failures happen before any side effect. A store failure leaves
// the indexes untouched; the id it consumed is not reissued.
func (s *RecordServiceImpl) Create(ctx context.Context, p model.HealthRecordPayload) (*model.HealthRecord, error) {
	if err := validatePayload(p); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := model.HealthRecord{CreatedAt: s.now()}
	rec.Apply(p)
	if err := s.checkSize(rec); err != nil {
		return nil, err
	}

	id, err := s.ids.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("issue id: %w", err)
	}
	rec.ID = id

	if err := s.put(ctx, rec); err != nil {
		return nil, err
	}
	s.indexRecord(rec)
	s.sink.Report(ctx, events.New(events.OpAdd, rec.ID, rec.CreatedAt))
	return &rec, nil
}

// Update replaces the content fields of an existing record and re-indexes it under its
// new tokens.
func (s *RecordServiceImpl) Update(ctx context.Context, id uint64, p model.HealthRecordPayload) (*model.HealthRecord, error) {
	if err := validatePayload(p); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("couldn't update health record id=%d: %w", id, err)
	}

	rec := *old
	rec.Apply(p)
	now := s.now()
	rec.UpdatedAt = &now
	if err := s.checkSize(rec); err != nil {
		return nil, err
	}
	if err := s.put(ctx, rec); err != nil {
		return nil, err
	}

	s.unindexRecord(*old)
	s.indexRecord(rec)
	s.sink.Report(ctx, events.New(events.OpUpdate, id, now))
	return &rec, nil
}

// Delete removes the record from the store and from both indexes.
func (s *RecordServiceImpl) Delete(ctx context.Context, id uint64) (*model.HealthRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.repo.Remove(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("couldn't delete health record id=%d: %w", id, err)
	}
	s.unindexRecord(*rec)
	s.sink.Report(ctx, events.New(events.OpDelete, id, s.now()))
	return rec, nil
}

// RebuildIndexes discards both indexes and re-indexes every stored record.
// On a scan failure the previous indexes are kept.
func (s *RecordServiceImpl) RebuildIndexes(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.repo.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("scan records: %w", err)
	}
	s.symptoms.Reset()
	s.diagnoses.Reset()
	for _, rec := range all {
		s.indexRecord(rec)
	}
	return len(all), nil
}

// Count returns the number of stored records.
func (s *RecordServiceImpl) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Count(ctx)
}
