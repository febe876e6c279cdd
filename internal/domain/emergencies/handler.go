package emergencies

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"ambulance-dispatch/internal/domain/units"
	"ambulance-dispatch/internal/middleware"
	"ambulance-dispatch/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, unitsSvc *units.Service) {
	r.Route("/emergencies", func(er chi.Router) {
		er.Post("/", createHandler(svc, unitsSvc))
		er.Get("/active", listActiveHandler(svc, unitsSvc))
		er.Get("/history", searchHandler(svc, unitsSvc))
		er.Get("/watch", watchHandler(svc, unitsSvc))

		er.Get("/{emergencyID}", getHandler(svc, unitsSvc))
		er.Post("/{emergencyID}/status", transitionHandler(svc, unitsSvc))
		er.Put("/{emergencyID}/note", unitNoteHandler(svc, unitsSvc))
	})
}

type createRequest struct {
	ServiceType string  `json:"service_type" enums:"event,transfer,emergency,membership"`
	Description string  `json:"description"`
	Patient     patient `json:"patient"`

	Address string   `json:"address"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`

	Priority       string `json:"priority" enums:"low,medium,high"`
	AssignedUnitID string `json:"assigned_unit_id"`
}

type patient struct {
	Name  string `json:"name"`
	Age   *int   `json:"age,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type emergencyResponse struct {
	ID    string `json:"id"`
	Folio string `json:"folio"`

	ServiceType ServiceType `json:"service_type"`
	Description string      `json:"description"`
	Patient     patient     `json:"patient"`

	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`

	Priority       Priority `json:"priority"`
	AssignedUnitID string   `json:"assigned_unit_id"`
	UnitLabel      string   `json:"unit_label"`

	Status           Status               `json:"status"`
	StatusTimestamps map[Status]time.Time `json:"status_timestamps"`

	UnitNote  string    `json:"unit_note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type activeListResponse struct {
	SelectedID string              `json:"selected_id,omitempty"`
	Items      []emergencyResponse `json:"items"`
}

type transitionRequest struct {
	Status Status `json:"status" enums:"en_route,on_scene,finalized"`
}

type unitNoteRequest struct {
	Note string `json:"note"`
}

// createHandler godoc
// @Summary Crear emergencia / servicio
// @Description Registra un nuevo servicio y lo asigna a una unidad. Solo operadores (role admin). Un rol sin resolver se rechaza con 403.
// @Tags emergencies
// @Accept json
// @Produce json
// @Param payload body createRequest true "Datos del servicio"
// @Success 201 {object} emergencyResponse
// @Failure 400 {string} string "campos faltantes o inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /emergencies [post]
func createHandler(svc *Service, unitsSvc *units.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, role, ok := requireRole(w, r, unitsSvc)
		if !ok {
			return
		}
		if role != units.RoleAdmin {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.Create(r.Context(), CreateInput{
			ServiceType:    req.ServiceType,
			Description:    req.Description,
			PatientName:    req.Patient.Name,
			PatientAge:     req.Patient.Age,
			PatientPhone:   req.Patient.Phone,
			Address:        req.Address,
			Lat:            req.Lat,
			Lng:            req.Lng,
			Priority:       req.Priority,
			AssignedUnitID: req.AssignedUnitID,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toResponse(r, e, unitsSvc))
	}
}

// listActiveHandler devuelve la cola activa según el rol:
// unidad = solo lo suyo, operador = todo. El query param `selected`
// aplica la regla sticky de selección y regresa selected_id.
func listActiveHandler(svc *Service, unitsSvc *units.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, role, ok := requireRole(w, r, unitsSvc)
		if !ok {
			return
		}

		viewerUnit := ""
		if role == units.RoleUnit {
			viewerUnit = claims.UserID
		}

		items, err := svc.ListActive(r.Context(), viewerUnit)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := activeListResponse{
			SelectedID: NextSelection(strings.TrimSpace(r.URL.Query().Get("selected")), items),
			Items:      make([]emergencyResponse, 0, len(items)),
		}
		for _, e := range items {
			out.Items = append(out.Items, toResponse(r, e, unitsSvc))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// searchHandler godoc
// @Summary Buscar en el historial
// @Description Historial de servicios para operadores. Sin filtros activos regresa solo las últimas 10 emergencias; con filtros evalúa contra el pool de las 100 más recientes.
// @Tags emergencies
// @Produce json
// @Param q query string false "Texto libre: folio, descripción, dirección, paciente, unidad, prioridad"
// @Param from query string false "Fecha mínima createdAt (YYYY-MM-DD)"
// @Param to query string false "Fecha máxima createdAt (YYYY-MM-DD)"
// @Param patient query string false "Substring del nombre del paciente"
// @Param unit_id query string false "Id exacto de la unidad"
// @Param priority query string false "Prioridad exacta" Enums(low, medium, high)
// @Param city query string false "Substring de la dirección"
// @Success 200 {array} emergencyResponse
// @Failure 400 {string} string "fechas inválidas"
// @Failure 403 {string} string "forbidden"
// @Router /emergencies/history [get]
func searchHandler(svc *Service, unitsSvc *units.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, role, ok := requireRole(w, r, unitsSvc)
		if !ok {
			return
		}
		if role != units.RoleAdmin {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		q := r.URL.Query()
		filter := SearchFilter{
			Query:       q.Get("q"),
			PatientName: q.Get("patient"),
			UnitID:      q.Get("unit_id"),
			Priority:    q.Get("priority"),
			City:        q.Get("city"),
		}

		// Las fechas llegan como YYYY-MM-DD; `to` cubre el día completo.
		if v := strings.TrimSpace(q.Get("from")); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				http.Error(w, "from must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			filter.From = &t
		}
		if v := strings.TrimSpace(q.Get("to")); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				http.Error(w, "to must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			end := t.Add(24*time.Hour - time.Millisecond)
			filter.To = &end
		}

		items, err := svc.Search(r.Context(), filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]emergencyResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toResponse(r, e, unitsSvc))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getHandler(svc *Service, unitsSvc *units.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, role, ok := requireRole(w, r, unitsSvc)
		if !ok {
			return
		}

		e, err := svc.GetByID(r.Context(), chi.URLParam(r, "emergencyID"))
		if err != nil {
			http.Error(w, "emergency not found", http.StatusNotFound)
			return
		}

		// Operador ve todo; una unidad solo lo asignado a ella.
		if role == units.RoleUnit && e.AssignedUnitID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		writeJSON(w, http.StatusOK, toResponse(r, e, unitsSvc))
	}
}

// transitionHandler godoc
// @Summary Cambiar estado de una emergencia
// @Description La unidad asignada mueve el registro a en_route, on_scene o finalized. Repetir la misma transición no altera el timestamp ya registrado.
// @Tags emergencies
// @Accept json
// @Produce json
// @Param emergencyID path string true "Id del registro"
// @Param payload body transitionRequest true "Nuevo estado"
// @Success 200 {object} emergencyResponse
// @Failure 400 {string} string "estado inválido"
// @Failure 403 {string} string "no es la unidad asignada"
// @Failure 404 {string} string "emergency not found"
// @Router /emergencies/{emergencyID}/status [post]
func transitionHandler(svc *Service, unitsSvc *units.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, role, ok := requireRole(w, r, unitsSvc)
		if !ok {
			return
		}
		if role != units.RoleUnit {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req transitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.Transition(r.Context(), claims.UserID, chi.URLParam(r, "emergencyID"), req.Status)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toResponse(r, e, unitsSvc))
	}
}

func unitNoteHandler(svc *Service, unitsSvc *units.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, role, ok := requireRole(w, r, unitsSvc)
		if !ok {
			return
		}
		if role != units.RoleUnit {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req unitNoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.SetUnitNote(r.Context(), claims.UserID, chi.URLParam(r, "emergencyID"), req.Note)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toResponse(r, e, unitsSvc))
	}
}

// watchHandler expone el stream de snapshots vía SSE. La suscripción se
// cancela sola cuando el cliente corta (ctx del request).
func watchHandler(svc *Service, unitsSvc *units.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, role, ok := requireRole(w, r, unitsSvc)
		if !ok {
			return
		}

		flusher, canFlush := w.(http.Flusher)
		if !canFlush {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		q := WatchQuery{ActiveOnly: true}
		if role == units.RoleUnit {
			q.AssignedUnitID = claims.UserID
		}

		snapshots, cancel := svc.Watch(r.Context(), q)
		defer cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		enc := json.NewEncoder(w)
		for snap := range snapshots {
			out := make([]emergencyResponse, 0, len(snap))
			for _, e := range snap {
				out = append(out, toResponse(r, e, unitsSvc))
			}

			if _, err := w.Write([]byte("data: ")); err != nil {
				return
			}
			if err := enc.Encode(out); err != nil {
				return
			}
			if _, err := w.Write([]byte("\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// requireRole corta con 401 si no hay claims y con 403 si el rol no se
// pudo resolver. Fail-closed: un principal sin documento de rol no opera
// nada; nunca se asume un rol por default.
func requireRole(w http.ResponseWriter, r *http.Request, unitsSvc *units.Service) (auth.Claims, units.Role, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return auth.Claims{}, units.RoleUnresolved, false
	}

	role, err := unitsSvc.RoleOf(r.Context(), claims.UserID)
	if err != nil || role == units.RoleUnresolved {
		http.Error(w, "forbidden", http.StatusForbidden)
		return auth.Claims{}, units.RoleUnresolved, false
	}

	return claims, role, true
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "emergency not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toResponse(r *http.Request, e Emergency, unitsSvc *units.Service) emergencyResponse {
	return emergencyResponse{
		ID:          e.ID,
		Folio:       e.Folio,
		ServiceType: e.ServiceType,
		Description: e.Description,
		Patient: patient{
			Name:  e.Patient.Name,
			Age:   e.Patient.Age,
			Phone: e.Patient.Phone,
		},
		Address:          e.Address,
		Lat:              e.Lat,
		Lng:              e.Lng,
		Priority:         e.Priority,
		AssignedUnitID:   e.AssignedUnitID,
		UnitLabel:        unitsSvc.Label(r.Context(), e.AssignedUnitID),
		Status:           e.Status,
		StatusTimestamps: e.StatusTimestamps,
		UnitNote:         e.UnitNote,
		CreatedAt:        e.CreatedAt,
	}
}

// writeJSON duplicado a propósito en los handlers de cada módulo, igual
// que en el resto del proyecto; si se repite en más lugares ya valdrá la
// pena extraerlo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
