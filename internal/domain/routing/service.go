package routing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstream envuelve fallas del servicio de mapas. No hay retry
	// automático: el consumidor reintenta la acción si quiere.
	ErrUpstream = errors.New("maps upstream error")
)

type LatLng struct {
	Lat float64
	Lng float64
}

// Route es la ruta calculada hacia la emergencia, más el deep link para
// abrirla en la app externa de mapas.
type Route struct {
	DistanceMeters  int
	DurationSeconds int
	Polyline        string
	DeepLink        string
	ComputedAt      time.Time
}

// Directions es el cliente del servicio externo de direcciones.
type Directions interface {
	Route(ctx context.Context, origin, destination LatLng, mode string) (Route, error)
}

// Service calcula rutas con throttle por unidad: si la emergencia
// seleccionada no cambió y la última ruta es de hace menos de 60s, se
// regresa la cacheada en lugar de pegarle al upstream.
type Service struct {
	directions Directions
	now        func() time.Time

	mu     sync.Mutex
	byUnit map[string]*unitRouteState
}

type unitRouteState struct {
	throttle ThrottleState
	cached   Route
	hasRoute bool
}

func NewService(directions Directions) *Service {
	return &Service{
		directions: directions,
		now:        time.Now,
		byUnit:     make(map[string]*unitRouteState),
	}
}

// RouteTo devuelve la ruta de la unidad hacia la emergencia. key es el
// id de la emergencia seleccionada; cambiar de emergencia fuerza
// recálculo inmediato.
func (s *Service) RouteTo(ctx context.Context, unitID, key string, origin, destination LatLng) (Route, error) {
	unitID = strings.TrimSpace(unitID)
	key = strings.TrimSpace(key)
	if unitID == "" || key == "" {
		return Route{}, ErrInvalidInput
	}

	now := s.now()

	s.mu.Lock()
	st, ok := s.byUnit[unitID]
	if !ok {
		st = &unitRouteState{}
		s.byUnit[unitID] = st
	}
	if st.hasRoute && !st.throttle.ShouldRecompute(now, key) {
		cached := st.cached
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	if s.directions == nil {
		return Route{}, fmt.Errorf("%w: directions client not configured", ErrUpstream)
	}

	route, err := s.directions.Route(ctx, origin, destination, "driving")
	if err != nil {
		return Route{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	route.ComputedAt = now
	route.DeepLink = ExternalMapsURL(destination)

	s.mu.Lock()
	st.throttle = st.throttle.Advance(now, key)
	st.cached = route
	st.hasRoute = true
	s.mu.Unlock()

	return route, nil
}

// ExternalMapsURL arma el deep link "abrir en la app de mapas" hacia el
// destino, en modo driving.
func ExternalMapsURL(dest LatLng) string {
	return fmt.Sprintf(
		"https://www.google.com/maps/dir/?api=1&destination=%v,%v&travelmode=driving",
		dest.Lat, dest.Lng,
	)
}
