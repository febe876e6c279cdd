package positions

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"ambulance-dispatch/internal/domain/units"
	"ambulance-dispatch/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, unitsSvc *units.Service) {
	r.Put("/units/{unitID}/position", reportHandler(svc, unitsSvc))
	r.Get("/units/{unitID}/position", latestHandler(svc, unitsSvc))
}

type reportRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type sampleResponse struct {
	UnitID     string    `json:"unit_id"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	RecordedAt time.Time `json:"recorded_at"`
}

// reportHandler recibe la muestra de la propia unidad. Una unidad solo
// puede reportar su posición, no la de otra.
func reportHandler(svc *Service, unitsSvc *units.Service) http.HandlerFunc {
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

		var req reportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sample, err := svc.Report(r.Context(), unitID, req.Lat, req.Lng)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toSampleResponse(sample))
	}
}

// latestHandler devuelve la última posición conocida. Operador puede ver
// cualquier unidad; una unidad solo la suya.
func latestHandler(svc *Service, unitsSvc *units.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		role, err := unitsSvc.RoleOf(r.Context(), claims.UserID)
		if err != nil || role == units.RoleUnresolved {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		unitID := chi.URLParam(r, "unitID")
		if role == units.RoleUnit && unitID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		sample, err := svc.Latest(r.Context(), unitID)
		if err != nil {
			// Muestra ausente o expirada: es parte del contrato, no un
			// error del servidor.
			http.Error(w, "no known position", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toSampleResponse(sample))
	}
}

func toSampleResponse(s Sample) sampleResponse {
	return sampleResponse{
		UnitID:     s.UnitID,
		Lat:        s.Lat,
		Lng:        s.Lng,
		RecordedAt: s.RecordedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
