package positions

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// SampleTTL es cuánto vive una muestra antes de considerarse perdida.
const SampleTTL = 5 * time.Minute

// Store guarda la última muestra por unidad. Implementaciones: redis
// (producción) y memoria (dev/tests).
type Store interface {
	Set(ctx context.Context, s Sample, ttl time.Duration) error
	Get(ctx context.Context, unitID string) (Sample, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// Report guarda la posición reportada por la unidad.
func (s *Service) Report(ctx context.Context, unitID string, lat, lng float64) (Sample, error) {
	unitID = strings.TrimSpace(unitID)
	if unitID == "" {
		return Sample{}, ErrInvalidInput
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Sample{}, ErrInvalidInput
	}

	sample := Sample{
		UnitID:     unitID,
		Lat:        lat,
		Lng:        lng,
		RecordedAt: s.now(),
	}
	if err := s.store.Set(ctx, sample, SampleTTL); err != nil {
		return Sample{}, err
	}
	return sample, nil
}

// Latest devuelve la última muestra conocida de la unidad, o ErrNotFound
// si nunca reportó o la muestra ya expiró.
func (s *Service) Latest(ctx context.Context, unitID string) (Sample, error) {
	unitID = strings.TrimSpace(unitID)
	if unitID == "" {
		return Sample{}, ErrInvalidInput
	}
	return s.store.Get(ctx, unitID)
}
