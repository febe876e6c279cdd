// Package redis implementa el Store de posiciones sobre Redis con TTL.
// La expiración la maneja Redis; una muestra vencida simplemente ya no
// está cuando se lee.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"ambulance-dispatch/internal/domain/positions"
)

type Store struct {
	client *redis.Client
}

func NewStore(addr, password string, db int) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Ping valida la conexión al arrancar.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

type storedSample struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	RecordedAt time.Time `json:"recorded_at"`
}

func (s *Store) Set(ctx context.Context, sample positions.Sample, ttl time.Duration) error {
	b, err := json.Marshal(storedSample{
		Lat:        sample.Lat,
		Lng:        sample.Lng,
		RecordedAt: sample.RecordedAt,
	})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(sample.UnitID), b, ttl).Err()
}

func (s *Store) Get(ctx context.Context, unitID string) (positions.Sample, error) {
	raw, err := s.client.Get(ctx, key(unitID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return positions.Sample{}, positions.ErrNotFound
		}
		return positions.Sample{}, err
	}

	var stored storedSample
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return positions.Sample{}, err
	}

	return positions.Sample{
		UnitID:     unitID,
		Lat:        stored.Lat,
		Lng:        stored.Lng,
		RecordedAt: stored.RecordedAt,
	}, nil
}

func key(unitID string) string {
	return fmt.Sprintf("unit:pos:%s", unitID)
}
