package units

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Roster devuelve las unidades (users con role=unit) para poblar
// selects y etiquetas.
func (s *Service) Roster(ctx context.Context) ([]UnitEntry, error) {
	users, err := s.repo.ListByRole(ctx, RoleUnit)
	if err != nil {
		return nil, err
	}

	out := make([]UnitEntry, 0, len(users))
	for _, u := range users {
		name := strings.TrimSpace(u.DisplayName)
		if name == "" {
			name = "Ambulancia"
		}
		out = append(out, UnitEntry{
			ID:          u.ID,
			DisplayName: name,
			Email:       u.Email,
		})
	}
	return out, nil
}

// RoleOf resuelve el rol del principal. Sin documento => Unresolved,
// nunca un default funcional (el fallback-a-unidad del diseño anterior
// era un hueco de seguridad).
func (s *Service) RoleOf(ctx context.Context, userID string) (Role, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return RoleUnresolved, ErrInvalidInput
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RoleUnresolved, nil
		}
		return RoleUnresolved, err
	}

	switch u.Role {
	case RoleAdmin, RoleUnit:
		return u.Role, nil
	default:
		return RoleUnresolved, nil
	}
}

// Exists reporta si el id corresponde a una unidad del roster.
func (s *Service) Exists(ctx context.Context, unitID string) (bool, error) {
	u, err := s.repo.GetByID(ctx, strings.TrimSpace(unitID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.Role == RoleUnit, nil
}

// Label arma la etiqueta de display de una unidad. Si la unidad ya no
// está en el roster cae al id crudo (los registros viejos la siguen
// referenciando).
func (s *Service) Label(ctx context.Context, unitID string) string {
	u, err := s.repo.GetByID(ctx, unitID)
	if err != nil || u.Role != RoleUnit {
		return unitID
	}

	name := strings.TrimSpace(u.DisplayName)
	if name == "" {
		name = "Ambulancia"
	}
	if strings.TrimSpace(u.Email) != "" {
		return fmt.Sprintf("%s (%s)", name, u.Email)
	}
	return name
}

// GetByID expone el documento completo (lo usa la capa de sesión).
func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(userID))
}
