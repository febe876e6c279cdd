package emergencies

import (
	"context"
	"sync"
)

// WatchQuery describe qué snapshot recibe un suscriptor.
type WatchQuery struct {
	// AssignedUnitID vacío = todas las unidades (vista operador).
	AssignedUnitID string

	// ActiveOnly excluye finalizadas (cola activa). En false entrega el
	// pool reciente completo (vista historial).
	ActiveOnly bool

	// Limit acota el snapshot cuando ActiveOnly es false. <=0 usa el
	// pool del historial.
	Limit int
}

// watchHub reparte snapshots inmutables de la colección a cada
// suscriptor registrado. Registro explícito de observers con handle
// cancelable; nada de estado reactivo global.
type watchHub struct {
	mu   sync.Mutex
	next int
	subs map[int]*watchSub
}

type watchSub struct {
	query WatchQuery

	mu     sync.Mutex
	closed bool
	ch     chan []Emergency
}

func newWatchHub() *watchHub {
	return &watchHub{subs: make(map[int]*watchSub)}
}

// Watch registra un observer. El canal entrega un snapshot inicial y
// luego uno por cada mutación. Cancelar (o que muera ctx) da de baja al
// suscriptor y cierra el canal.
func (s *Service) Watch(ctx context.Context, q WatchQuery) (<-chan []Emergency, func()) {
	sub := &watchSub{
		query: q,
		// buffer de 1: si el consumidor va lento, colapsamos al snapshot
		// más reciente en push().
		ch: make(chan []Emergency, 1),
	}

	s.hub.mu.Lock()
	id := s.hub.next
	s.hub.next++
	s.hub.subs[id] = sub
	s.hub.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.hub.mu.Lock()
			delete(s.hub.subs, id)
			s.hub.mu.Unlock()

			sub.mu.Lock()
			sub.closed = true
			close(sub.ch)
			sub.mu.Unlock()
		})
	}

	// Snapshot inicial para que la vista no arranque vacía.
	if snap, err := snapshotFor(ctx, s.repo, q); err == nil {
		sub.push(snap)
	}

	go func() {
		<-ctx.Done()
		cancel()
	}()

	return sub.ch, cancel
}

// notify recalcula y entrega el snapshot de cada suscriptor. Se llama
// después de cada mutación (create, transition, nota).
func (h *watchHub) notify(ctx context.Context, repo Repository) {
	h.mu.Lock()
	subs := make([]*watchSub, 0, len(h.subs))
	for _, sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		snap, err := snapshotFor(ctx, repo, sub.query)
		if err != nil {
			continue
		}
		sub.push(snap)
	}
}

// push es no bloqueante: si el buffer está lleno se descarta el snapshot
// viejo y queda el nuevo. El consumidor siempre ve el último estado.
func (sub *watchSub) push(snap []Emergency) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return
	}
	for {
		select {
		case sub.ch <- snap:
			return
		default:
			select {
			case <-sub.ch:
			default:
			}
		}
	}
}

func snapshotFor(ctx context.Context, repo Repository, q WatchQuery) ([]Emergency, error) {
	if q.ActiveOnly {
		return repo.ListActive(ctx, q.AssignedUnitID)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = historyPool
	}
	list, err := repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if q.AssignedUnitID == "" {
		return list, nil
	}
	out := make([]Emergency, 0, len(list))
	for _, e := range list {
		if e.AssignedUnitID == q.AssignedUnitID {
			out = append(out, e)
		}
	}
	return out, nil
}
