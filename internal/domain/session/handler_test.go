package session

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ambulance-dispatch/internal/adapters/auth/directory"
	"ambulance-dispatch/internal/domain/units"
	"ambulance-dispatch/internal/middleware"
	"ambulance-dispatch/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

type testUsersRepo struct {
	byID map[string]units.User
}

func (r *testUsersRepo) GetByID(ctx context.Context, id string) (units.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return units.User{}, units.ErrNotFound
	}
	return u, nil
}

func (r *testUsersRepo) ListByRole(ctx context.Context, role units.Role) ([]units.User, error) {
	out := make([]units.User, 0)
	for _, u := range r.byID {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeDirectory struct {
	password string
	loggedOut []string
}

func (d *fakeDirectory) Login(ctx context.Context, email, password string) (auth.Session, error) {
	if password != d.password {
		return auth.Session{}, directory.ErrUnauthorized
	}
	return auth.Session{Token: "tok-123", PrincipalID: "unit-1", Email: email}, nil
}

func (d *fakeDirectory) Logout(ctx context.Context, token string) error {
	d.loggedOut = append(d.loggedOut, token)
	return nil
}

func newTestMux(dir auth.Directory) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.AuthContext(nil))
	RegisterRoutes(r, dir, units.NewService(&testUsersRepo{byID: map[string]units.User{
		"unit-1": {ID: "unit-1", Role: units.RoleUnit, DisplayName: "Ambulancia 01"},
		"op-1":   {ID: "op-1", Role: units.RoleAdmin, DisplayName: "Central"},
	}}))
	return r
}

func do(t *testing.T, h http.Handler, method, path string, headers map[string]string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	respBody, _ := io.ReadAll(rec.Result().Body)
	return rec.Code, respBody
}

func TestLogin_ResolvesRoleFromUsersCollection(t *testing.T) {
	h := newTestMux(&fakeDirectory{password: "secreta"})

	st, body := do(t, h, "POST", "/auth/login", nil, map[string]string{
		"email":    "a01@example.com",
		"password": "secreta",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 login, got %d body=%s", st, string(body))
	}

	var resp loginResponse
	_ = json.Unmarshal(body, &resp)
	if resp.Token != "tok-123" || resp.PrincipalID != "unit-1" {
		t.Fatalf("unexpected session %#v", resp)
	}
	if resp.Role != units.RoleUnit || resp.DisplayName != "Ambulancia 01" {
		t.Fatalf("expected role from users collection, got %#v", resp)
	}
}

func TestLogin_BadCredentialsAndNoDirectory(t *testing.T) {
	h := newTestMux(&fakeDirectory{password: "secreta"})

	st, _ := do(t, h, "POST", "/auth/login", nil, map[string]string{
		"email":    "a01@example.com",
		"password": "mala",
	})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad credentials, got %d", st)
	}

	// sin Directory configurado el login no existe
	none := newTestMux(nil)
	st, _ = do(t, none, "POST", "/auth/login", nil, map[string]string{"email": "x", "password": "y"})
	if st != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without directory, got %d", st)
	}
}

func TestMe_UsesClaims(t *testing.T) {
	h := newTestMux(&fakeDirectory{password: "s"})

	st, body := do(t, h, "GET", "/auth/me", map[string]string{"X-Debug-User-ID": "op-1"}, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d", st)
	}
	var resp meResponse
	_ = json.Unmarshal(body, &resp)
	if resp.PrincipalID != "op-1" || resp.Role != units.RoleAdmin {
		t.Fatalf("unexpected me response %#v", resp)
	}

	st, _ = do(t, h, "GET", "/auth/me", nil, nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", st)
	}
}

func TestLogout_RequiresBearer(t *testing.T) {
	dir := &fakeDirectory{password: "s"}
	h := newTestMux(dir)

	st, _ := do(t, h, "POST", "/auth/logout", nil, nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without bearer, got %d", st)
	}

	st, _ = do(t, h, "POST", "/auth/logout", map[string]string{"Authorization": "Bearer tok-123"}, nil)
	if st != http.StatusNoContent {
		t.Fatalf("expected 204 logout, got %d", st)
	}
	if len(dir.loggedOut) != 1 || dir.loggedOut[0] != "tok-123" {
		t.Fatalf("expected logout forwarded to directory, got %#v", dir.loggedOut)
	}
}
