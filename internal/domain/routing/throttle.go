package routing

import "time"

// RecomputeInterval es el mínimo entre recálculos de ruta para la misma
// emergencia (ahorro de llamadas al servicio de mapas).
const RecomputeInterval = 60 * time.Second

// ThrottleState es el estado explícito del throttle: cuándo se calculó
// la última ruta y para qué llave (id de emergencia seleccionada).
type ThrottleState struct {
	LastComputedAt time.Time
	LastKey        string
}

// ShouldRecompute decide si toca pedir ruta nueva: sí cuando cambió la
// emergencia seleccionada o cuando ya pasó el intervalo. Función pura
// para poder probarla sin reloj real.
func (s ThrottleState) ShouldRecompute(now time.Time, key string) bool {
	if key != s.LastKey {
		return true
	}
	return now.Sub(s.LastComputedAt) >= RecomputeInterval
}

// Advance registra un cálculo hecho ahora para key.
func (s ThrottleState) Advance(now time.Time, key string) ThrottleState {
	return ThrottleState{LastComputedAt: now, LastKey: key}
}
