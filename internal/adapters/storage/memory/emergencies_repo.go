package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"ambulance-dispatch/internal/domain/emergencies"
)

var (
	ErrNotFound = errors.New("not found")
)

type emergenciesRepo struct {
	mu   sync.RWMutex
	byID map[string]emergencies.Emergency
}

func NewEmergenciesRepo() emergencies.Repository {
	return &emergenciesRepo{
		byID: make(map[string]emergencies.Emergency),
	}
}

func (r *emergenciesRepo) Create(ctx context.Context, e emergencies.Emergency) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" {
		return errors.New("emergency id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("emergency already exists")
	}

	r.byID[e.ID] = cloneEmergency(e)
	return nil
}

func (r *emergenciesRepo) GetByID(ctx context.Context, id string) (emergencies.Emergency, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return emergencies.Emergency{}, ErrNotFound
	}
	return cloneEmergency(e), nil
}

func (r *emergenciesRepo) ListActive(ctx context.Context, assignedUnitID string) ([]emergencies.Emergency, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]emergencies.Emergency, 0)
	for _, e := range r.byID {
		if e.Status == emergencies.StatusFinalized {
			continue
		}
		if assignedUnitID != "" && e.AssignedUnitID != assignedUnitID {
			continue
		}
		out = append(out, cloneEmergency(e))
	}

	sortByCreatedDesc(out)
	return out, nil
}

func (r *emergenciesRepo) ListRecent(ctx context.Context, limit int) ([]emergencies.Emergency, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	out := make([]emergencies.Emergency, 0, len(r.byID))
	for _, e := range r.byID {
		out = append(out, cloneEmergency(e))
	}

	sortByCreatedDesc(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SetStatus replica la semántica del write condicional de producción:
// el estado se pisa siempre, el timestamp solo si la llave no existía.
// El candado del repo hace atómica la condición.
func (r *emergenciesRepo) SetStatus(ctx context.Context, id string, st emergencies.Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}

	e = cloneEmergency(e)
	e.Status = st
	if _, exists := e.StatusTimestamps[st]; !exists {
		e.StatusTimestamps[st] = at
	}

	r.byID[id] = e
	return nil
}

func (r *emergenciesRepo) SetUnitNote(ctx context.Context, id, note string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	e.UnitNote = note
	r.byID[id] = e
	return nil
}

// cloneEmergency copia el registro (incluido el mapa de timestamps)
// para que los lectores reciban snapshots y no aliasen el estado del
// repo.
func cloneEmergency(e emergencies.Emergency) emergencies.Emergency {
	ts := make(map[emergencies.Status]time.Time, len(e.StatusTimestamps))
	for k, v := range e.StatusTimestamps {
		ts[k] = v
	}
	e.StatusTimestamps = ts
	return e
}

func sortByCreatedDesc(list []emergencies.Emergency) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		// desempate estable para tests con relojes congelados
		return list[i].ID < list[j].ID
	})
}
