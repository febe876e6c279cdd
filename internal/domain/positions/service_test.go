package positions

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testStore struct {
	byUnit  map[string]Sample
	lastTTL time.Duration
}

func newTestStore() *testStore {
	return &testStore{byUnit: map[string]Sample{}}
}

func (s *testStore) Set(ctx context.Context, sample Sample, ttl time.Duration) error {
	s.byUnit[sample.UnitID] = sample
	s.lastTTL = ttl
	return nil
}

func (s *testStore) Get(ctx context.Context, unitID string) (Sample, error) {
	sample, ok := s.byUnit[unitID]
	if !ok {
		return Sample{}, ErrNotFound
	}
	return sample, nil
}

func TestService_Report_StoresSampleWithTTL(t *testing.T) {
	store := newTestStore()
	svc := NewService(store)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	sample, err := svc.Report(context.Background(), "unit-1", 19.4326, -99.1332)
	if err != nil {
		t.Fatalf("Report error: %v", err)
	}
	if !sample.RecordedAt.Equal(now) {
		t.Fatalf("expected RecordedAt == now, got %v", sample.RecordedAt)
	}
	if store.lastTTL != SampleTTL {
		t.Fatalf("expected ttl %v, got %v", SampleTTL, store.lastTTL)
	}

	got, err := svc.Latest(context.Background(), "unit-1")
	if err != nil {
		t.Fatalf("Latest error: %v", err)
	}
	if got.Lat != 19.4326 || got.Lng != -99.1332 {
		t.Fatalf("unexpected sample %#v", got)
	}
}

func TestService_Report_ValidatesCoordinates(t *testing.T) {
	svc := NewService(newTestStore())

	cases := []struct {
		name     string
		lat, lng float64
	}{
		{"lat alta", 91, 0},
		{"lat baja", -91, 0},
		{"lng alta", 0, 181},
		{"lng baja", 0, -181},
	}
	for _, tc := range cases {
		if _, err := svc.Report(context.Background(), "unit-1", tc.lat, tc.lng); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}

	if _, err := svc.Report(context.Background(), "  ", 0, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty unit, got %v", err)
	}
}

func TestService_Latest_UnknownUnit(t *testing.T) {
	svc := NewService(newTestStore())

	if _, err := svc.Latest(context.Background(), "unit-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
