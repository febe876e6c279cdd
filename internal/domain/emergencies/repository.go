package emergencies

import (
	"context"
	"time"
)

// Repository es el Ledger de emergencias. Los writes de mutación son por
// campo (status, timestamp bajo la llave del estado, nota), nunca
// reemplazos de documento completo, para no pisar updates concurrentes
// de otros actores.
type Repository interface {
	Create(ctx context.Context, e Emergency) error
	GetByID(ctx context.Context, id string) (Emergency, error)

	// ListActive devuelve registros con status != finalized, createdAt
	// descendente. assignedUnitID vacío = todas las unidades.
	ListActive(ctx context.Context, assignedUnitID string) ([]Emergency, error)

	// ListRecent devuelve los `limit` registros más recientes (cualquier
	// estado), createdAt descendente. Es el pool del historial.
	ListRecent(ctx context.Context, limit int) ([]Emergency, error)

	// SetStatus fija el estado y escribe statusTimestamps[st] = at SOLO
	// si esa llave está ausente. La condición vive en el write (no en el
	// cliente) para que la idempotencia aguante escritores concurrentes.
	SetStatus(ctx context.Context, id string, st Status, at time.Time) error

	// SetUnitNote sobreescribe la nota de la unidad sin condiciones.
	SetUnitNote(ctx context.Context, id, note string) error
}
