package memory

import (
	"context"
	"sync"
	"time"

	"ambulance-dispatch/internal/domain/positions"
)

type positionsStore struct {
	mu     sync.RWMutex
	byUnit map[string]positionEntry
	now    func() time.Time
}

type positionEntry struct {
	sample    positions.Sample
	expiresAt time.Time
}

// NewPositionsStore es el fallback sin Redis: mismas semánticas de TTL,
// expiración perezosa al leer.
func NewPositionsStore() positions.Store {
	return &positionsStore{
		byUnit: make(map[string]positionEntry),
		now:    time.Now,
	}
}

func (s *positionsStore) Set(ctx context.Context, sample positions.Sample, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byUnit[sample.UnitID] = positionEntry{
		sample:    sample,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *positionsStore) Get(ctx context.Context, unitID string) (positions.Sample, error) {
	s.mu.RLock()
	entry, ok := s.byUnit[unitID]
	s.mu.RUnlock()

	if !ok || s.now().After(entry.expiresAt) {
		return positions.Sample{}, positions.ErrNotFound
	}
	return entry.sample, nil
}
