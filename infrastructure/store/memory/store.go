// ABOUTME: In-memory content store keyed by record kind and compound key
// ABOUTME: Transactions hold one lock, so each record's read-modify-write is atomic

package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"manabi-reader/core/domain"
	coreerrors "manabi-reader/core/errors"
)

// Store implements interfaces.ContentStore in process memory.
type Store struct {
	mu      sync.RWMutex
	records map[domain.RecordRef]*domain.ContentRecord
	now     func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		records: make(map[domain.RecordRef]*domain.ContentRecord),
		now:     time.Now,
	}
}

// LoadRecord returns the highest-priority record whose URL is url.
func (s *Store) LoadRecord(ctx context.Context, url string) (*domain.ContentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, kind := range domain.KindPriority {
		for ref, rec := range s.records {
			if ref.Kind == kind && rec.URL == url {
				return rec.Clone(), nil
			}
		}
	}
	return nil, &coreerrors.NotFoundError{Resource: "record", ID: url}
}

// LoadAllRecordsSharingURL returns every record whose URL is url, in kind priority order.
func (s *Store) LoadAllRecordsSharingURL(ctx context.Context, url string) ([]*domain.ContentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.ContentRecord
	for _, kind := range domain.KindPriority {
		for ref, rec := range s.records {
			if ref.Kind == kind && rec.URL == url {
				out = append(out, rec.Clone())
			}
		}
	}
	return out, nil
}

// SaveRecord inserts or replaces record. A missing compound key is derived from the URL.
func (s *Store) SaveRecord(ctx context.Context, record *domain.ContentRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record == nil || record.URL == "" {
		return &coreerrors.ValidationError{Field: "url", Message: "record url is required"}
	}
	rec := record.Clone()
	if rec.Kind == "" {
		rec.Kind = domain.KindHistory
	}
	if rec.CompoundKey == "" {
		rec.CompoundKey = domain.CompoundKey(rec.URL)
	}
	rec.ModifiedAt = s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Ref()] = rec
	record.Kind = rec.Kind
	record.CompoundKey = rec.CompoundKey
	record.ModifiedAt = rec.ModifiedAt
	return nil
}

// WriteTransaction applies mutate to a fresh copy of the referenced record and
// stores it only when mutate succeeds.
func (s *Store) WriteTransaction(ctx context.Context, ref domain.RecordRef, mutate func(*domain.ContentRecord) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records[ref]
	if !ok {
		return &coreerrors.NotFoundError{Resource: "record", ID: ref.CompoundKey}
	}
	working := current.Clone()
	if err := mutate(working); err != nil {
		return err
	}
	working.Kind = ref.Kind
	working.CompoundKey = ref.CompoundKey
	working.ModifiedAt = s.now()
	s.records[ref] = working
	return nil
}

// RecordsWithoutContent returns up to limit records that still need content, oldest first.
func (s *Store) RecordsWithoutContent(ctx context.Context, limit int) ([]*domain.ContentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.ContentRecord
	for _, rec := range s.records {
		if !rec.HasContent() {
			out = append(out, rec.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModifiedAt.Before(out[j].ModifiedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Get returns a copy of the referenced record, or nil.
func (s *Store) Get(ref domain.RecordRef) *domain.ContentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[ref].Clone()
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
