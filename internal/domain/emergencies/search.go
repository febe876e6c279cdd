package emergencies

import (
	"context"
	"strings"
	"time"
)

// SearchFilter son los filtros del historial. Todos opcionales.
type SearchFilter struct {
	// Query busca texto libre (case-insensitive) en folio, descripción,
	// dirección, nombre de paciente, etiqueta de la unidad y prioridad.
	Query string

	// From/To acotan createdAt, inclusivo en ambos extremos.
	From *time.Time
	To   *time.Time

	// PatientName es substring sobre el nombre del paciente.
	PatientName string

	// UnitID es match exacto contra assignedUnitId.
	UnitID string

	// Priority es match exacto.
	Priority string

	// City es substring sobre la dirección.
	City string
}

func (f SearchFilter) active() bool {
	return strings.TrimSpace(f.Query) != "" ||
		f.From != nil ||
		f.To != nil ||
		strings.TrimSpace(f.PatientName) != "" ||
		strings.TrimSpace(f.UnitID) != "" ||
		strings.TrimSpace(f.Priority) != "" ||
		strings.TrimSpace(f.City) != ""
}

// Search evalúa los filtros contra el pool de los 100 registros más
// recientes. Sin filtros activos solo regresa los 10 últimos; con
// cualquier filtro regresa todos los matches del pool (sin tope de
// conteo). Siempre createdAt descendente (el repo ya ordena así).
func (s *Service) Search(ctx context.Context, f SearchFilter) ([]Emergency, error) {
	pool, err := s.repo.ListRecent(ctx, historyPool)
	if err != nil {
		return nil, err
	}

	if !f.active() {
		if len(pool) > historyDefault {
			pool = pool[:historyDefault]
		}
		return pool, nil
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))
	patient := strings.ToLower(strings.TrimSpace(f.PatientName))
	city := strings.ToLower(strings.TrimSpace(f.City))
	unitID := strings.TrimSpace(f.UnitID)
	priority := strings.TrimSpace(f.Priority)

	out := make([]Emergency, 0)
	for _, e := range pool {
		if f.From != nil && e.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && e.CreatedAt.After(*f.To) {
			continue
		}
		if priority != "" && string(e.Priority) != priority {
			continue
		}
		if unitID != "" && e.AssignedUnitID != unitID {
			continue
		}
		if patient != "" && !strings.Contains(strings.ToLower(e.Patient.Name), patient) {
			continue
		}
		if city != "" && !strings.Contains(strings.ToLower(e.Address), city) {
			continue
		}
		if query != "" && !s.matchesQuery(ctx, e, query) {
			continue
		}
		out = append(out, e)
	}

	return out, nil
}

// matchesQuery es el OR de texto libre. La etiqueta de la unidad sale
// del roster; si la unidad ya no existe se compara contra el id crudo.
func (s *Service) matchesQuery(ctx context.Context, e Emergency, query string) bool {
	fields := []string{
		e.Folio,
		e.Description,
		e.Address,
		e.Patient.Name,
		s.units.Label(ctx, e.AssignedUnitID),
		string(e.Priority),
	}
	for _, v := range fields {
		if strings.Contains(strings.ToLower(v), query) {
			return true
		}
	}
	return false
}
