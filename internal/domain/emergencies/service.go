package emergencies

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// historyPool es el tope de registros que alimenta el historial.
// Los filtros se evalúan contra este pool, no contra toda la colección.
const historyPool = 100

// historyDefault es cuántos registros se muestran sin filtros activos.
const historyDefault = 10

// UnitDirectory es lo mínimo que este módulo necesita del roster de
// unidades. Interface local para no acoplar paquetes (mismo truco que
// con los servicios cruzados del resto del proyecto).
type UnitDirectory interface {
	Exists(ctx context.Context, unitID string) (bool, error)
	// Label devuelve "DisplayName (email)" o el id crudo si la unidad
	// ya no está en el roster.
	Label(ctx context.Context, unitID string) string
}

type Service struct {
	repo  Repository
	units UnitDirectory
	now   func() time.Time

	hub *watchHub
}

func NewService(repo Repository, units UnitDirectory) *Service {
	return &Service{
		repo:  repo,
		units: units,
		now:   time.Now,
		hub:   newWatchHub(),
	}
}

type CreateInput struct {
	ServiceType    string
	Description    string
	PatientName    string
	PatientAge     *int
	PatientPhone   string
	Address        string
	Lat            *float64
	Lng            *float64
	Priority       string
	AssignedUnitID string
}

// Create registra un nuevo servicio. Solo validación; el rol de operador
// ya lo decidió el handler. Estado inicial siempre pending con su
// timestamp igual a createdAt.
func (s *Service) Create(ctx context.Context, in CreateInput) (Emergency, error) {
	address := strings.TrimSpace(in.Address)
	unitID := strings.TrimSpace(in.AssignedUnitID)
	description := strings.TrimSpace(in.Description)
	patientName := strings.TrimSpace(in.PatientName)

	if address == "" || unitID == "" || in.Lat == nil || in.Lng == nil {
		return Emergency{}, fmt.Errorf("%w: falta dirección, ambulancia o ubicación", ErrInvalidInput)
	}
	if description == "" || patientName == "" {
		return Emergency{}, fmt.Errorf("%w: falta descripción o nombre del paciente", ErrInvalidInput)
	}

	st := ServiceType(strings.TrimSpace(in.ServiceType))
	if !st.IsValid() {
		return Emergency{}, fmt.Errorf("%w: tipo de servicio desconocido", ErrInvalidInput)
	}

	prio := Priority(strings.TrimSpace(in.Priority))
	if prio == "" {
		prio = PriorityMedium
	}
	if !prio.IsValid() {
		return Emergency{}, fmt.Errorf("%w: prioridad desconocida", ErrInvalidInput)
	}

	if in.PatientAge != nil && *in.PatientAge < 0 {
		return Emergency{}, fmt.Errorf("%w: edad negativa", ErrInvalidInput)
	}

	// La unidad debe existir al crear. Que desaparezca después se tolera.
	ok, err := s.units.Exists(ctx, unitID)
	if err != nil {
		return Emergency{}, err
	}
	if !ok {
		return Emergency{}, fmt.Errorf("%w: la unidad no existe", ErrInvalidInput)
	}

	now := s.now()
	e := Emergency{
		ID:          uuid.NewString(),
		Folio:       generateFolio(now),
		ServiceType: st,
		Description: description,
		Patient: Patient{
			Name:  patientName,
			Age:   in.PatientAge,
			Phone: strings.TrimSpace(in.PatientPhone),
		},
		Address:        address,
		Lat:            *in.Lat,
		Lng:            *in.Lng,
		Priority:       prio,
		AssignedUnitID: unitID,
		Status:         StatusPending,
		StatusTimestamps: map[Status]time.Time{
			StatusPending: now,
		},
		CreatedAt: now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Emergency{}, err
	}

	s.hub.notify(ctx, s.repo)
	return e, nil
}

// Transition mueve el registro a newStatus en nombre de la unidad.
// El estado se sobreescribe siempre; el timestamp del estado solo se
// escribe la primera vez (el repo aplica la condición en el write, así
// que repetir la misma transición no toca la hora registrada).
func (s *Service) Transition(ctx context.Context, unitID, recordID string, newStatus Status) (Emergency, error) {
	unitID = strings.TrimSpace(unitID)
	recordID = strings.TrimSpace(recordID)
	if unitID == "" || recordID == "" {
		return Emergency{}, ErrInvalidInput
	}
	if !newStatus.UnitSettable() {
		return Emergency{}, fmt.Errorf("%w: estado %q no permitido para unidades", ErrInvalidInput, newStatus)
	}

	e, err := s.repo.GetByID(ctx, recordID)
	if err != nil {
		return Emergency{}, ErrNotFound
	}
	if e.AssignedUnitID != unitID {
		return Emergency{}, ErrForbidden
	}

	if err := s.repo.SetStatus(ctx, recordID, newStatus, s.now()); err != nil {
		return Emergency{}, err
	}

	s.hub.notify(ctx, s.repo)
	return s.repo.GetByID(ctx, recordID)
}

// SetUnitNote guarda la nota de la unidad. Sin validación de contenido
// y sin importar el estado actual (también sobre finalized).
func (s *Service) SetUnitNote(ctx context.Context, unitID, recordID, note string) (Emergency, error) {
	unitID = strings.TrimSpace(unitID)
	recordID = strings.TrimSpace(recordID)
	if unitID == "" || recordID == "" {
		return Emergency{}, ErrInvalidInput
	}

	e, err := s.repo.GetByID(ctx, recordID)
	if err != nil {
		return Emergency{}, ErrNotFound
	}
	if e.AssignedUnitID != unitID {
		return Emergency{}, ErrForbidden
	}

	if err := s.repo.SetUnitNote(ctx, recordID, note); err != nil {
		return Emergency{}, err
	}

	s.hub.notify(ctx, s.repo)
	return s.repo.GetByID(ctx, recordID)
}

// ListActive devuelve la cola activa (status != finalized) createdAt
// descendente. unitID vacío = vista de operador (todas las unidades).
func (s *Service) ListActive(ctx context.Context, unitID string) ([]Emergency, error) {
	return s.repo.ListActive(ctx, strings.TrimSpace(unitID))
}

func (s *Service) GetByID(ctx context.Context, id string) (Emergency, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Emergency{}, ErrInvalidInput
	}
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Emergency{}, ErrNotFound
	}
	return e, nil
}

// generateFolio arma el folio humano: SRV- + últimos 6 dígitos del
// timestamp de creación en milisegundos. Dos creaciones en la misma
// ventana pueden chocar; el folio es referencia humana, no clave.
func generateFolio(at time.Time) string {
	ms := at.UnixMilli()
	return fmt.Sprintf("SRV-%06d", ms%1_000_000)
}
