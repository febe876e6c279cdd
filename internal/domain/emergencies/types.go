package emergencies

// Status es el estado de ciclo de vida de una emergencia.
// Orden nominal: pending -> en_route -> on_scene -> finalized.
// El orden es para display ("estado más alto alcanzado"); la transición
// en sí no rechaza movimientos fuera de orden.
type Status string

const (
	StatusPending   Status = "pending"
	StatusEnRoute   Status = "en_route"
	StatusOnScene   Status = "on_scene"
	StatusFinalized Status = "finalized"
)

// statusOrder da la posición nominal de cada estado.
var statusOrder = map[Status]int{
	StatusPending:   0,
	StatusEnRoute:   1,
	StatusOnScene:   2,
	StatusFinalized: 3,
}

// IsValid reporta si s es un estado conocido.
func (s Status) IsValid() bool {
	_, ok := statusOrder[s]
	return ok
}

// UnitSettable reporta si una unidad puede fijar este estado.
// Una unidad nunca puede regresar un registro a pending.
func (s Status) UnitSettable() bool {
	return s == StatusEnRoute || s == StatusOnScene || s == StatusFinalized
}

// ServiceType clasifica el servicio solicitado.
type ServiceType string

const (
	ServiceTypeEvent      ServiceType = "event"
	ServiceTypeTransfer   ServiceType = "transfer"
	ServiceTypeEmergency  ServiceType = "emergency"
	ServiceTypeMembership ServiceType = "membership"
)

func (t ServiceType) IsValid() bool {
	switch t {
	case ServiceTypeEvent, ServiceTypeTransfer, ServiceTypeEmergency, ServiceTypeMembership:
		return true
	}
	return false
}

// Priority del servicio. Default: medium.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
