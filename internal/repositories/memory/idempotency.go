package memory

import (
	"context"
	"sync"
	"time"

	"products-api/internal/repositories"
)

// IdempotencyStore is an in-memory implementation of repositories.IdempotencyStore
type IdempotencyStore struct {
	mu      sync.Mutex
	records map[string]repositories.IdempotencyRecord
	now     func() time.Time
}

// NewIdempotencyStore creates an empty in-memory idempotency store
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{
		records: make(map[string]repositories.IdempotencyRecord),
		now:     time.Now,
	}
}

// SetClock replaces the time source used for expiry checks
func (s *IdempotencyStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Get implements repositories.IdempotencyStore.Get
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*repositories.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[key]
	if !ok {
		return nil, repositories.NotFoundError("idempotency_record", key)
	}
	if record.Expired(s.now()) {
		delete(s.records, key)
		return nil, repositories.NotFoundError("idempotency_record", key)
	}

	record.Body = append([]byte(nil), record.Body...)
	return &record, nil
}

// Save implements repositories.IdempotencyStore.Save
func (s *IdempotencyStore) Save(ctx context.Context, record *repositories.IdempotencyRecord) error {
	if record == nil || record.Key == "" {
		return repositories.InvalidIDError("save", "idempotency_record")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *record
	stored.Body = append([]byte(nil), record.Body...)
	s.records[record.Key] = stored
	return nil
}
