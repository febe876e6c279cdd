package units

import (
	"encoding/json"
	"net/http"
	"strings"

	"ambulance-dispatch/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// Roster de unidades para el panel del operador.
	r.Get("/units", listUnitsHandler(svc))
}

type unitResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
}

// listUnitsHandler godoc
// @Summary Listar unidades
// @Description Devuelve los usuarios con rol unit, para asignación y etiquetas. Solo operadores.
// @Tags units
// @Produce json
// @Success 200 {array} unitResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /units [get]
func listUnitsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		role, err := svc.RoleOf(r.Context(), claims.UserID)
		if err != nil || role != RoleAdmin {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		items, err := svc.Roster(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]unitResponse, 0, len(items))
		for _, u := range items {
			out = append(out, unitResponse{
				ID:          u.ID,
				DisplayName: u.DisplayName,
				Email:       u.Email,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
