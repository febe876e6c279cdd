package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mem "ambulance-dispatch/internal/adapters/storage/memory"
	"ambulance-dispatch/internal/domain/routing"
	"ambulance-dispatch/internal/domain/units"
	"ambulance-dispatch/internal/router"
)

func newTestServer(t *testing.T, extra ...func(*router.Options)) *httptest.Server {
	t.Helper()

	opts := router.Options{
		AuthVerifier: nil, // modo dev: X-Debug-User-ID
		UsersRepo: mem.NewUsersRepo(
			units.User{ID: "op-1", Role: units.RoleAdmin, DisplayName: "Central"},
			units.User{ID: "unit-1", Role: units.RoleUnit, DisplayName: "Ambulancia 01", Email: "a01@example.com"},
			units.User{ID: "unit-2", Role: units.RoleUnit, DisplayName: "Ambulancia 02"},
		),
	}
	for _, fn := range extra {
		fn(&opts)
	}

	ts := httptest.NewServer(router.NewRouter(opts))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_DispatchLifecycle(t *testing.T) {
	ts := newTestServer(t)

	payload := map[string]any{
		"service_type":     "emergency",
		"description":      "Choque en periférico",
		"patient":          map[string]any{"name": "Juan Pérez", "age": 42},
		"address":          "Av. Reforma 100, CDMX",
		"lat":              19.4326,
		"lng":              -99.1332,
		"priority":         "high",
		"assigned_unit_id": "unit-1",
	}

	// 1) Sin identidad => 401; unidad => 403; principal sin rol => 403
	{
		st, _ := doReq(t, ts.URL, "POST", "/emergencies", "", payload)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without identity, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/emergencies", "unit-1", payload)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 create by unit, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/emergencies", "fantasma", payload)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for unresolved principal, got %d", st)
		}
	}

	// 2) Operador crea el servicio
	emID, folio := createEmergency(t, ts.URL, "op-1", payload)
	if !strings.HasPrefix(folio, "SRV-") || len(folio) != 10 {
		t.Fatalf("unexpected folio %q", folio)
	}

	// 3) Cola activa del operador: el registro aparece y queda seleccionado
	{
		st, body := doReq(t, ts.URL, "GET", "/emergencies/active", "op-1", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 active list, got %d body=%s", st, string(body))
		}
		var resp struct {
			SelectedID string `json:"selected_id"`
			Items      []struct {
				ID        string `json:"id"`
				Status    string `json:"status"`
				UnitLabel string `json:"unit_label"`
			} `json:"items"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp.Items) != 1 || resp.Items[0].ID != emID {
			t.Fatalf("expected active list with %s, body=%s", emID, string(body))
		}
		if resp.SelectedID != emID {
			t.Fatalf("expected selected_id %s, got %s", emID, resp.SelectedID)
		}
		if resp.Items[0].Status != "pending" {
			t.Fatalf("expected pending, got %s", resp.Items[0].Status)
		}
		if resp.Items[0].UnitLabel != "Ambulancia 01 (a01@example.com)" {
			t.Fatalf("unexpected unit label %q", resp.Items[0].UnitLabel)
		}
	}

	// 4) La cola de la otra unidad está vacía
	{
		st, body := doReq(t, ts.URL, "GET", "/emergencies/active", "unit-2", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200, got %d", st)
		}
		var resp struct {
			Items []json.RawMessage `json:"items"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp.Items) != 0 {
			t.Fatalf("expected empty queue for unit-2, body=%s", string(body))
		}
	}

	// 5) Solo la unidad asignada mueve el estado
	{
		st, _ := doReq(t, ts.URL, "POST", "/emergencies/"+emID+"/status", "unit-2", map[string]any{"status": "en_route"})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 transition by other unit, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/emergencies/"+emID+"/status", "op-1", map[string]any{"status": "en_route"})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 transition by operator, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/emergencies/"+emID+"/status", "unit-1", map[string]any{"status": "pending"})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for pending transition, got %d", st)
		}
	}

	firstTS := transition(t, ts.URL, emID, "unit-1", "en_route")

	// 6) Repetir la transición no altera el timestamp registrado
	secondTS := transition(t, ts.URL, emID, "unit-1", "en_route")
	if firstTS != secondTS {
		t.Fatalf("expected en_route timestamp to stay %s, got %s", firstTS, secondTS)
	}

	// 7) La nota es de la unidad asignada, el operador no la toca
	{
		st, _ := doReq(t, ts.URL, "PUT", "/emergencies/"+emID+"/note", "op-1", map[string]any{"note": "x"})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 note by operator, got %d", st)
		}
	}
	{
		st, body := doReq(t, ts.URL, "PUT", "/emergencies/"+emID+"/note", "unit-1", map[string]any{"note": "paciente estable"})
		if st != http.StatusOK {
			t.Fatalf("expected 200 note, got %d body=%s", st, string(body))
		}
	}

	// 8) Finalizar saca el registro de la cola activa pero no del historial
	transition(t, ts.URL, emID, "unit-1", "finalized")
	{
		st, body := doReq(t, ts.URL, "GET", "/emergencies/active", "op-1", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200, got %d", st)
		}
		var resp struct {
			SelectedID string            `json:"selected_id"`
			Items      []json.RawMessage `json:"items"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp.Items) != 0 || resp.SelectedID != "" {
			t.Fatalf("expected empty active list after finalize, body=%s", string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/emergencies/history", "op-1", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 history, got %d", st)
		}
		var items []struct {
			ID       string `json:"id"`
			UnitNote string `json:"unit_note"`
		}
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 || items[0].ID != emID {
			t.Fatalf("expected history with %s, body=%s", emID, string(body))
		}
		if items[0].UnitNote != "paciente estable" {
			t.Fatalf("expected note kept, got %q", items[0].UnitNote)
		}
	}

	// 9) El historial es del operador
	{
		st, _ := doReq(t, ts.URL, "GET", "/emergencies/history", "unit-1", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 history for unit, got %d", st)
		}
	}

	// 10) Detalle: la otra unidad no lo ve, la asignada sí (aun finalizada)
	{
		st, _ := doReq(t, ts.URL, "GET", "/emergencies/"+emID, "unit-2", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 detail for other unit, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/emergencies/"+emID, "unit-1", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 detail for assigned unit, got %d", st)
		}
	}
}

func TestHTTP_ActiveSelection_Sticky(t *testing.T) {
	ts := newTestServer(t)

	mk := func(desc string) string {
		id, _ := createEmergency(t, ts.URL, "op-1", map[string]any{
			"service_type":     "emergency",
			"description":      desc,
			"patient":          map[string]any{"name": "Paciente"},
			"address":          "Calle 1",
			"lat":              19.0,
			"lng":              -99.0,
			"assigned_unit_id": "unit-1",
		})
		return id
	}
	id1 := mk("uno")
	mk("dos")

	// con ?selected presente en la lista se respeta aunque no sea el primero
	st, body := doReq(t, ts.URL, "GET", "/emergencies/active?selected="+id1, "op-1", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d", st)
	}
	var resp struct {
		SelectedID string `json:"selected_id"`
		Items      []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	_ = json.Unmarshal(body, &resp)
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, body=%s", string(body))
	}
	if resp.SelectedID != id1 {
		t.Fatalf("expected sticky selection %s, got %s", id1, resp.SelectedID)
	}

	// selected desconocido cae al primero de la lista
	st, body = doReq(t, ts.URL, "GET", "/emergencies/active?selected=nope", "op-1", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d", st)
	}
	_ = json.Unmarshal(body, &resp)
	if resp.SelectedID != resp.Items[0].ID {
		t.Fatalf("expected fallback to first, got %s", resp.SelectedID)
	}
}

func TestHTTP_UnitsRosterAndPositions(t *testing.T) {
	ts := newTestServer(t)

	// roster solo para operadores
	{
		st, body := doReq(t, ts.URL, "GET", "/units", "op-1", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 roster, got %d", st)
		}
		var items []struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &items)
		if len(items) != 2 {
			t.Fatalf("expected 2 units, body=%s", string(body))
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/units", "unit-1", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 roster for unit, got %d", st)
		}
	}

	// una unidad solo reporta su propia posición
	{
		st, _ := doReq(t, ts.URL, "PUT", "/units/unit-1/position", "unit-2", map[string]any{"lat": 19.4, "lng": -99.1})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 reporting other unit, got %d", st)
		}
	}
	{
		st, body := doReq(t, ts.URL, "PUT", "/units/unit-1/position", "unit-1", map[string]any{"lat": 19.4, "lng": -99.1})
		if st != http.StatusOK {
			t.Fatalf("expected 200 report, got %d body=%s", st, string(body))
		}
	}
	{
		st, _ := doReq(t, ts.URL, "PUT", "/units/unit-1/position", "unit-1", map[string]any{"lat": 95.0, "lng": 0.0})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad coordinates, got %d", st)
		}
	}

	// operador ve cualquier unidad; sin muestra => 404
	{
		st, _ := doReq(t, ts.URL, "GET", "/units/unit-1/position", "op-1", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 latest, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/units/unit-2/position", "op-1", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 without sample, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/units/unit-1/position", "unit-2", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 peeking other unit, got %d", st)
		}
	}
}

type fakeDirections struct{ calls int }

func (d *fakeDirections) Route(ctx context.Context, origin, destination routing.LatLng, mode string) (routing.Route, error) {
	d.calls++
	return routing.Route{DistanceMeters: 1200, DurationSeconds: 180, Polyline: "poly"}, nil
}

func TestHTTP_RouteForAssignedUnit(t *testing.T) {
	dirs := &fakeDirections{}
	ts := newTestServer(t, func(o *router.Options) { o.Directions = dirs })

	emID, _ := createEmergency(t, ts.URL, "op-1", map[string]any{
		"service_type":     "emergency",
		"description":      "Volcadura",
		"patient":          map[string]any{"name": "Pedro"},
		"address":          "Carretera 57 km 12",
		"lat":              19.50,
		"lng":              -99.20,
		"assigned_unit_id": "unit-1",
	})

	// sin posición conocida ni coords en el request => 400
	{
		st, _ := doReq(t, ts.URL, "GET", "/units/unit-1/route/"+emID, "unit-1", nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 without origin, got %d", st)
		}
	}

	// con coords explícitas => 200 con deep link al destino
	{
		st, body := doReq(t, ts.URL, "GET", "/units/unit-1/route/"+emID+"?lat=19.48&lng=-99.18", "unit-1", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 route, got %d body=%s", st, string(body))
		}
		var resp struct {
			DistanceMeters int    `json:"distance_meters"`
			DeepLink       string `json:"deep_link"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.DistanceMeters != 1200 || !strings.Contains(resp.DeepLink, "travelmode=driving") {
			t.Fatalf("unexpected route body=%s", string(body))
		}
	}

	// segunda consulta inmediata de la misma emergencia usa la cache
	{
		st, _ := doReq(t, ts.URL, "GET", "/units/unit-1/route/"+emID+"?lat=19.48&lng=-99.18", "unit-1", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 cached route, got %d", st)
		}
		if dirs.calls != 1 {
			t.Fatalf("expected throttled upstream, calls=%d", dirs.calls)
		}
	}

	// alternativa: origen desde la última posición reportada
	{
		st, _ := doReq(t, ts.URL, "PUT", "/units/unit-1/position", "unit-1", map[string]any{"lat": 19.45, "lng": -99.16})
		if st != http.StatusOK {
			t.Fatalf("expected 200 report, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "GET", "/units/unit-1/route/"+emID, "unit-1", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 route from last position, got %d", st)
		}
	}

	// solo la unidad asignada pide su ruta
	{
		st, _ := doReq(t, ts.URL, "GET", "/units/unit-2/route/"+emID, "unit-2", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for unassigned unit, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/units/unit-1/route/"+emID, "op-1", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for operator, got %d", st)
		}
	}
}

func createEmergency(t *testing.T, baseURL, userID string, payload map[string]any) (string, string) {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/emergencies", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create emergency, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID    string `json:"id"`
		Folio string `json:"folio"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create emergency: missing id body=%s", string(body))
	}
	return resp.ID, resp.Folio
}

func transition(t *testing.T, baseURL, emID, unitID, status string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/emergencies/"+emID+"/status", unitID, map[string]any{"status": status})
	if st != http.StatusOK {
		t.Fatalf("expected 200 transition to %s, got %d body=%s", status, st, string(body))
	}

	var resp struct {
		Status           string            `json:"status"`
		StatusTimestamps map[string]string `json:"status_timestamps"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Status != status {
		t.Fatalf("expected status %s, got %s", status, resp.Status)
	}
	return resp.StatusTimestamps[status]
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
