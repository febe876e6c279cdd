package routing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ambulance-dispatch/internal/domain/emergencies"
	"ambulance-dispatch/internal/domain/positions"
	"ambulance-dispatch/internal/domain/units"
	"ambulance-dispatch/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, emSvc *emergencies.Service, unitsSvc *units.Service, posSvc *positions.Service) {
	// Ruta de la unidad hacia una emergencia seleccionada. El origen sale
	// de ?lat&lng o, si no vienen, de la última posición reportada.
	r.Get("/units/{unitID}/route/{emergencyID}", routeHandler(svc, emSvc, unitsSvc, posSvc))
}

type routeResponse struct {
	DistanceMeters  int       `json:"distance_meters"`
	DurationSeconds int       `json:"duration_seconds"`
	Polyline        string    `json:"polyline,omitempty"`
	DeepLink        string    `json:"deep_link"`
	ComputedAt      time.Time `json:"computed_at"`
}

// routeHandler godoc
// @Summary Ruta hacia una emergencia
// @Description Calcula (o reusa, si la última es de hace menos de 60s para la misma emergencia) la ruta driving de la unidad al punto del servicio.
// @Tags routing
// @Produce json
// @Param unitID path string true "Id de la unidad"
// @Param emergencyID path string true "Id de la emergencia"
// @Param lat query number false "Latitud actual de la unidad"
// @Param lng query number false "Longitud actual de la unidad"
// @Success 200 {object} routeResponse
// @Failure 400 {string} string "posición de la unidad desconocida"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "emergency not found"
// @Failure 502 {string} string "maps upstream error"
// @Router /units/{unitID}/route/{emergencyID} [get]
func routeHandler(svc *Service, emSvc *emergencies.Service, unitsSvc *units.Service, posSvc *positions.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		role, err := unitsSvc.RoleOf(r.Context(), claims.UserID)
		if err != nil || role != units.RoleUnit {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		unitID := chi.URLParam(r, "unitID")
		if unitID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		e, err := emSvc.GetByID(r.Context(), chi.URLParam(r, "emergencyID"))
		if err != nil {
			http.Error(w, "emergency not found", http.StatusNotFound)
			return
		}
		if e.AssignedUnitID != unitID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		origin, ok := originFromQuery(r)
		if !ok {
			// Sin coordenadas en el request: usamos la última muestra
			// reportada, si sigue viva.
			sample, err := posSvc.Latest(r.Context(), unitID)
			if err != nil {
				http.Error(w, "unit position unknown", http.StatusBadRequest)
				return
			}
			origin = LatLng{Lat: sample.Lat, Lng: sample.Lng}
		}

		route, err := svc.RouteTo(r.Context(), unitID, e.ID, origin, LatLng{Lat: e.Lat, Lng: e.Lng})
		if err != nil {
			if errors.Is(err, ErrUpstream) {
				http.Error(w, "maps upstream error", http.StatusBadGateway)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, routeResponse{
			DistanceMeters:  route.DistanceMeters,
			DurationSeconds: route.DurationSeconds,
			Polyline:        route.Polyline,
			DeepLink:        route.DeepLink,
			ComputedAt:      route.ComputedAt,
		})
	}
}

func originFromQuery(r *http.Request) (LatLng, bool) {
	latStr := strings.TrimSpace(r.URL.Query().Get("lat"))
	lngStr := strings.TrimSpace(r.URL.Query().Get("lng"))
	if latStr == "" || lngStr == "" {
		return LatLng{}, false
	}
	lat, err1 := strconv.ParseFloat(latStr, 64)
	lng, err2 := strconv.ParseFloat(lngStr, 64)
	if err1 != nil || err2 != nil {
		return LatLng{}, false
	}
	return LatLng{Lat: lat, Lng: lng}, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
