package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"ambulance-dispatch/internal/adapters/auth/directory"
	"ambulance-dispatch/internal/domain/units"
	"ambulance-dispatch/internal/middleware"
	"ambulance-dispatch/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta la superficie de sesión. dir puede ser nil (modo
// dev sin Directory): login/logout responden 503 y /auth/me sigue
// funcionando con X-Debug-User-ID.
func RegisterRoutes(r chi.Router, dir auth.Directory, unitsSvc *units.Service) {
	r.Post("/auth/login", loginHandler(dir, unitsSvc))
	r.Get("/auth/me", meHandler(unitsSvc))
	r.Post("/auth/logout", logoutHandler(dir))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token       string     `json:"token"`
	PrincipalID string     `json:"principal_id"`
	Role        units.Role `json:"role"`
	DisplayName string     `json:"display_name,omitempty"`
}

type meResponse struct {
	PrincipalID string     `json:"principal_id"`
	Email       string     `json:"email,omitempty"`
	Role        units.Role `json:"role"`
	DisplayName string     `json:"display_name,omitempty"`
}

// loginHandler godoc
// @Summary Login
// @Description Autentica contra el Directory y resuelve el rol desde la colección users. Credenciales malas => 401.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} loginResponse
// @Failure 401 {string} string "credenciales inválidas"
// @Failure 503 {string} string "directory not configured"
// @Router /auth/login [post]
func loginHandler(dir auth.Directory, unitsSvc *units.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if dir == nil {
			http.Error(w, "directory not configured", http.StatusServiceUnavailable)
			return
		}

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sess, err := dir.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, directory.ErrUnauthorized) {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			http.Error(w, "directory upstream error", http.StatusBadGateway)
			return
		}

		out := loginResponse{
			Token:       sess.Token,
			PrincipalID: sess.PrincipalID,
		}

		// El rol sale del Ledger, no del Directory. Si no hay documento
		// queda Unresolved y el resto de la API lo va a rechazar.
		role, err := unitsSvc.RoleOf(r.Context(), sess.PrincipalID)
		if err == nil {
			out.Role = role
		}
		if u, err := unitsSvc.GetByID(r.Context(), sess.PrincipalID); err == nil {
			out.DisplayName = u.DisplayName
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func meHandler(unitsSvc *units.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		out := meResponse{
			PrincipalID: claims.UserID,
			Email:       claims.Email,
		}

		role, err := unitsSvc.RoleOf(r.Context(), claims.UserID)
		if err == nil {
			out.Role = role
		}
		if u, err := unitsSvc.GetByID(r.Context(), claims.UserID); err == nil {
			out.DisplayName = u.DisplayName
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func logoutHandler(dir auth.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if dir == nil {
			http.Error(w, "directory not configured", http.StatusServiceUnavailable)
			return
		}

		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := dir.Logout(r.Context(), token); err != nil {
			http.Error(w, "directory upstream error", http.StatusBadGateway)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
