package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"ambulance-dispatch/internal/domain/units"
)

type UsersRepo struct {
	mu   sync.RWMutex
	byID map[string]units.User
}

// NewUsersRepo crea el repo de users en memoria. Seed permite precargar
// principals en dev y tests (en producción los documentos los
// administra el backoffice directamente en el Ledger).
func NewUsersRepo(seed ...units.User) *UsersRepo {
	r := &UsersRepo{byID: make(map[string]units.User)}
	for _, u := range seed {
		if strings.TrimSpace(u.ID) != "" {
			r.byID[u.ID] = u
		}
	}
	return r
}

// Put inserta o reemplaza un documento de usuario.
func (r *UsersRepo) Put(u units.User) {
	if strings.TrimSpace(u.ID) == "" {
		return
	}
	r.mu.Lock()
	r.byID[u.ID] = u
	r.mu.Unlock()
}

// Remove borra el documento; sirve para simular unidades que
// desaparecen del roster.
func (r *UsersRepo) Remove(id string) {
	r.mu.Lock()
	delete(r.byID, id)
	r.mu.Unlock()
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (units.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return units.User{}, units.ErrNotFound
	}
	return u, nil
}

func (r *UsersRepo) ListByRole(ctx context.Context, role units.Role) ([]units.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]units.User, 0)
	for _, u := range r.byID {
		if u.Role == role {
			out = append(out, u)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].DisplayName < out[j].DisplayName
	})
	return out, nil
}
