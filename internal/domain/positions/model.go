package positions

import "time"

// Sample es una muestra de posición de una unidad. El muestreo es
// best-effort: los consumidores deben tolerar muestras faltantes o
// viejas (el store las expira por TTL).
type Sample struct {
	UnitID     string
	Lat        float64
	Lng        float64
	RecordedAt time.Time
}
