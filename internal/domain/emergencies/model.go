package emergencies

import "time"

// Patient es la información general del paciente / cliente.
type Patient struct {
	Name  string
	Age   *int // opcional, no-negativo
	Phone string
}

// Emergency es el registro central del despacho.
// Los registros nunca se borran; las vistas solo los filtran
// (una finalizada sale de la cola activa pero sigue en el historial).
type Emergency struct {
	ID    string
	Folio string // SRV-XXXXXX, inmutable; colisiones posibles y no resueltas

	ServiceType ServiceType
	Description string
	Patient     Patient

	Address string
	Lat     float64
	Lng     float64

	Priority Priority

	// AssignedUnitID es obligatorio al crear y no existe operación de
	// reasignación. La unidad referenciada puede desaparecer del roster
	// después; el display cae al id crudo.
	AssignedUnitID string

	Status Status

	// StatusTimestamps guarda el primer instante en que el registro entró
	// a cada estado. pending siempre está poblado (hora de creación) y
	// los demás se escriben una sola vez (first-write-wins).
	StatusTimestamps map[Status]time.Time

	// UnitNote la llena la unidad asignada; editable en cualquier estado,
	// incluso finalized.
	UnitNote string

	CreatedAt time.Time
}

// ReachedAt devuelve el instante en que el registro entró al estado s,
// o zero time si nunca lo alcanzó.
func (e Emergency) ReachedAt(s Status) (time.Time, bool) {
	t, ok := e.StatusTimestamps[s]
	return t, ok
}

// cloneTimestamps copia el mapa para entregar snapshots inmutables.
func cloneTimestamps(in map[Status]time.Time) map[Status]time.Time {
	out := make(map[Status]time.Time, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
