package routing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type testDirections struct {
	calls int
	fail  bool
}

func (d *testDirections) Route(ctx context.Context, origin, destination LatLng, mode string) (Route, error) {
	d.calls++
	if d.fail {
		return Route{}, errors.New("upstream down")
	}
	return Route{
		DistanceMeters:  1500,
		DurationSeconds: 240,
		Polyline:        "abc123",
	}, nil
}

func TestService_RouteTo_ThrottlesPerEmergency(t *testing.T) {
	dir := &testDirections{}
	svc := NewService(dir)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := base
	svc.now = func() time.Time { return now }

	origin := LatLng{Lat: 19.40, Lng: -99.15}
	dest := LatLng{Lat: 19.43, Lng: -99.13}

	r1, err := svc.RouteTo(context.Background(), "unit-1", "em-1", origin, dest)
	if err != nil {
		t.Fatalf("RouteTo #1 error: %v", err)
	}
	if dir.calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", dir.calls)
	}
	if !strings.Contains(r1.DeepLink, "destination=19.43,-99.13") || !strings.Contains(r1.DeepLink, "travelmode=driving") {
		t.Fatalf("unexpected deep link %q", r1.DeepLink)
	}

	// misma emergencia, 30s después => cacheada
	now = base.Add(30 * time.Second)
	r2, err := svc.RouteTo(context.Background(), "unit-1", "em-1", origin, dest)
	if err != nil {
		t.Fatalf("RouteTo #2 error: %v", err)
	}
	if dir.calls != 1 {
		t.Fatalf("expected cached route, upstream calls = %d", dir.calls)
	}
	if !r2.ComputedAt.Equal(r1.ComputedAt) {
		t.Fatalf("expected same ComputedAt for cached route")
	}

	// cambia la emergencia seleccionada => recálculo inmediato
	if _, err := svc.RouteTo(context.Background(), "unit-1", "em-2", origin, dest); err != nil {
		t.Fatalf("RouteTo #3 error: %v", err)
	}
	if dir.calls != 2 {
		t.Fatalf("expected recompute on key change, calls = %d", dir.calls)
	}

	// pasa la ventana => recálculo
	now = now.Add(RecomputeInterval)
	if _, err := svc.RouteTo(context.Background(), "unit-1", "em-2", origin, dest); err != nil {
		t.Fatalf("RouteTo #4 error: %v", err)
	}
	if dir.calls != 3 {
		t.Fatalf("expected recompute after interval, calls = %d", dir.calls)
	}
}

func TestService_RouteTo_ThrottleIsPerUnit(t *testing.T) {
	dir := &testDirections{}
	svc := NewService(dir)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	origin := LatLng{Lat: 19.40, Lng: -99.15}
	dest := LatLng{Lat: 19.43, Lng: -99.13}

	if _, err := svc.RouteTo(context.Background(), "unit-1", "em-1", origin, dest); err != nil {
		t.Fatalf("RouteTo unit-1 error: %v", err)
	}
	// otra unidad con la misma emergencia no comparte cache
	if _, err := svc.RouteTo(context.Background(), "unit-2", "em-1", origin, dest); err != nil {
		t.Fatalf("RouteTo unit-2 error: %v", err)
	}
	if dir.calls != 2 {
		t.Fatalf("expected independent throttle per unit, calls = %d", dir.calls)
	}
}

func TestService_RouteTo_UpstreamErrors(t *testing.T) {
	dir := &testDirections{fail: true}
	svc := NewService(dir)

	origin := LatLng{Lat: 19.40, Lng: -99.15}
	dest := LatLng{Lat: 19.43, Lng: -99.13}

	if _, err := svc.RouteTo(context.Background(), "unit-1", "em-1", origin, dest); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}

	// sin cliente configurado también es upstream error, no panic
	none := NewService(nil)
	if _, err := none.RouteTo(context.Background(), "unit-1", "em-1", origin, dest); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream without client, got %v", err)
	}

	if _, err := svc.RouteTo(context.Background(), "", "em-1", origin, dest); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
