package repository

import (
	"context"
	"fmt"

	"github.com/okian/rosterbias/pkg/logger"
	"github.com/okian/rosterbias/pkg/metrics"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryStore is a bounded in-memory Store.
type MemoryStore struct {
	capacity int
	logger   logger.Logger
	cache    *lru.Cache[string, Record]
}

// NewMemoryStore creates a MemoryStore.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		capacity: defaultCapacity,
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	// NewWithEvict only fails for non-positive sizes.
	s.cache, _ = lru.NewWithEvict[string, Record](s.capacity, func(id string, _ Record) {
		s.logger.Debug(context.Background(), "solve result evicted", logger.String("id", id))
	})
	return s
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, rec Record) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRecord)
	}
	if rec.Result == nil {
		return fmt.Errorf("%w: %s has no result", ErrInvalidRecord, rec.ID)
	}
	s.cache.Add(rec.ID, rec)
	metrics.UpdateStoredResults(s.cache.Len())
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	rec, ok := s.cache.Get(id)
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	return s.cache.Len()
}

// Capacity returns the configured bound.
func (s *MemoryStore) Capacity() int { return s.capacity }
