package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	app "github.com/clientdesk/clientdesk/internal/app"
	"github.com/clientdesk/clientdesk/internal/middleware"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	application := app.New(app.Stores{}, app.Options{JWTSecret: []byte("test-secret")}, nil)
	return NewRouter(application, Options{}, nil)
}

func marshal(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(data)
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, marshal(t, body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func signup(t *testing.T, handler http.Handler, email, name string) string {
	t.Helper()
	resp := doJSON(t, handler, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":    email,
		"name":     name,
		"password": "long-enough-password",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d: %s", email, resp.Code, resp.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal signup response: %v", err)
	}
	if out.Token == "" {
		t.Fatal("expected token in signup response")
	}
	return out.Token
}

func TestAuthFlow(t *testing.T) {
	handler := newTestRouter(t)

	// Protected routes reject anonymous requests.
	resp := doJSON(t, handler, http.MethodGet, "/api/v1/clients", "", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", resp.Code)
	}

	token := signup(t, handler, "alice@example.com", "Alice")

	resp = doJSON(t, handler, http.MethodGet, "/api/v1/auth/me", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 me, got %d: %s", resp.Code, resp.Body.String())
	}
	var me struct {
		Email        string `json:"email"`
		PasswordHash string `json:"password_hash"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &me); err != nil {
		t.Fatalf("unmarshal me: %v", err)
	}
	if me.Email != "alice@example.com" {
		t.Fatalf("unexpected identity: %+v", me)
	}
	if me.PasswordHash != "" {
		t.Fatal("password hash must never be serialized")
	}

	// Cookie transport works without the header.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookieName, Value: token})
	cookieResp := httptest.NewRecorder()
	handler.ServeHTTP(cookieResp, req)
	if cookieResp.Code != http.StatusOK {
		t.Fatalf("expected 200 via cookie, got %d", cookieResp.Code)
	}

	// Logout revokes the session even though the JWT is still valid.
	resp = doJSON(t, handler, http.MethodPost, "/api/v1/auth/logout", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 logout, got %d", resp.Code)
	}
	resp = doJSON(t, handler, http.MethodGet, "/api/v1/auth/me", token, nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.Code)
	}

	// Login restores access.
	resp = doJSON(t, handler, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "long-enough-password",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 login, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestClientCRUDAndTenantIsolation(t *testing.T) {
	handler := newTestRouter(t)
	tokenA := signup(t, handler, "a@example.com", "User A")
	tokenB := signup(t, handler, "b@example.com", "User B")

	resp := doJSON(t, handler, http.MethodPost, "/api/v1/clients", tokenA, map[string]string{
		"name":  "Acme",
		"email": "billing@acme.test",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal client: %v", err)
	}

	// Owner sees it.
	resp = doJSON(t, handler, http.MethodGet, "/api/v1/clients/"+created.ID, tokenA, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 get, got %d", resp.Code)
	}

	// The other tenant gets a 404, not a 403.
	resp = doJSON(t, handler, http.MethodGet, "/api/v1/clients/"+created.ID, tokenB, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign tenant, got %d", resp.Code)
	}
	resp = doJSON(t, handler, http.MethodDelete, "/api/v1/clients/"+created.ID, tokenB, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on foreign delete, got %d", resp.Code)
	}

	// Update and delete by the owner.
	resp = doJSON(t, handler, http.MethodPut, "/api/v1/clients/"+created.ID, tokenA, map[string]string{
		"name": "Acme Renamed",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 update, got %d: %s", resp.Code, resp.Body.String())
	}
	resp = doJSON(t, handler, http.MethodDelete, "/api/v1/clients/"+created.ID, tokenA, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 delete, got %d", resp.Code)
	}
	resp = doJSON(t, handler, http.MethodGet, "/api/v1/clients/"+created.ID, tokenA, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}
}

func TestValidationErrors(t *testing.T) {
	handler := newTestRouter(t)
	token := signup(t, handler, "v@example.com", "Validator")

	// Unknown JSON fields are rejected.
	resp := doJSON(t, handler, http.MethodPost, "/api/v1/clients", token, map[string]string{
		"name":    "Acme",
		"surpise": "typo",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", resp.Code)
	}

	// Field-level validation errors surface in details.
	resp = doJSON(t, handler, http.MethodPost, "/api/v1/projects", token, map[string]any{
		"title":     "",
		"client_id": "",
		"budget":    -5,
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
	var body struct {
		Details struct {
			Fields map[string]string `json:"fields"`
		} `json:"details"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal error body: %v", err)
	}
	for _, field := range []string{"title", "client_id", "budget"} {
		if _, ok := body.Details.Fields[field]; !ok {
			t.Errorf("expected field error for %s in %v", field, body.Details.Fields)
		}
	}

	// Malformed date filters are rejected.
	resp = doJSON(t, handler, http.MethodGet, "/api/v1/clients?startDate=yesterday", token, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", resp.Code)
	}
	resp = doJSON(t, handler, http.MethodGet, "/api/v1/clients?startDate=2026-02-01&endDate=2026-01-01", token, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for inverted range, got %d", resp.Code)
	}
}

func TestProjectLinksAndDashboard(t *testing.T) {
	handler := newTestRouter(t)
	token := signup(t, handler, "d@example.com", "Dash")

	resp := doJSON(t, handler, http.MethodPost, "/api/v1/clients", token, map[string]string{"name": "Acme"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create client: %d", resp.Code)
	}
	var c struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	resp = doJSON(t, handler, http.MethodPost, "/api/v1/projects", token, map[string]any{
		"client_id":  c.ID,
		"title":      "Website",
		"budget":     4200,
		"start_date": "2026-08-01",
		"deadline":   "2026-10-01",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create project: %d: %s", resp.Code, resp.Body.String())
	}
	var p struct {
		ID         string `json:"id"`
		ClientName string `json:"client_name"`
		Status     string `json:"status"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &p); err != nil {
		t.Fatalf("unmarshal project: %v", err)
	}
	if p.ClientName != "Acme" || p.Status != "Pending" {
		t.Fatalf("unexpected project: %+v", p)
	}

	// Referencing a nonexistent client is a 404.
	resp = doJSON(t, handler, http.MethodPost, "/api/v1/interactions", token, map[string]any{
		"client_id": "no-such-client",
		"type":      "call",
	})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown link, got %d", resp.Code)
	}

	resp = doJSON(t, handler, http.MethodPost, "/api/v1/interactions", token, map[string]any{
		"project_id": p.ID,
		"type":       "meeting",
		"notes":      "kickoff",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create interaction: %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, handler, http.MethodPost, "/api/v1/reminders", token, map[string]any{
		"client_id": c.ID,
		"title":     "Send invoice",
		"due_date":  "2026-09-05",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create reminder: %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, handler, http.MethodGet, "/api/v1/dashboard", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("dashboard: %d: %s", resp.Code, resp.Body.String())
	}
	var summary struct {
		Totals struct {
			Clients      int64 `json:"clients"`
			Projects     int64 `json:"projects"`
			Interactions int64 `json:"interactions"`
			Reminders    int64 `json:"reminders"`
		} `json:"totals"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &summary); err != nil {
		t.Fatalf("unmarshal summary: %v", err)
	}
	if summary.Totals.Clients != 1 || summary.Totals.Projects != 1 || summary.Totals.Interactions != 1 || summary.Totals.Reminders != 1 {
		t.Fatalf("unexpected totals: %+v", summary.Totals)
	}
}

func TestLogoutAlwaysClearsCookie(t *testing.T) {
	handler := newTestRouter(t)

	// An expired or garbage token must still reach the logout handler so
	// the browser's cookie gets cleared.
	resp := doJSON(t, handler, http.MethodPost, "/api/v1/auth/logout", "not.a.jwt", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("logout with bad token: %d: %s", resp.Code, resp.Body.String())
	}
	cleared := false
	for _, c := range resp.Result().Cookies() {
		if c.Name == middleware.TokenCookieName && c.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected an expired token cookie in the response")
	}

	resp = doJSON(t, handler, http.MethodPost, "/api/v1/auth/logout", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("logout without token: %d", resp.Code)
	}
}

func TestDashboardWindowMatchesListCounts(t *testing.T) {
	handler := newTestRouter(t)
	token := signup(t, handler, "w@example.com", "Windowed")

	resp := doJSON(t, handler, http.MethodPost, "/api/v1/clients", token, map[string]string{"name": "Acme"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create client: %d", resp.Code)
	}
	var c struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Two interactions inside the May window, one outside it.
	for _, date := range []string{"2026-05-10", "2026-05-20", "2026-07-01"} {
		resp = doJSON(t, handler, http.MethodPost, "/api/v1/interactions", token, map[string]any{
			"client_id": c.ID,
			"type":      "call",
			"date":      date,
		})
		if resp.Code != http.StatusCreated {
			t.Fatalf("create interaction %s: %d: %s", date, resp.Code, resp.Body.String())
		}
	}

	window := "startDate=2026-05-01&endDate=2026-05-31"

	resp = doJSON(t, handler, http.MethodGet, "/api/v1/interactions?"+window, token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("windowed list: %d", resp.Code)
	}
	var listed []json.RawMessage
	if err := json.Unmarshal(resp.Body.Bytes(), &listed); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}

	resp = doJSON(t, handler, http.MethodGet, "/api/v1/dashboard?"+window, token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("windowed dashboard: %d: %s", resp.Code, resp.Body.String())
	}
	var summary struct {
		Totals struct {
			Clients      int64 `json:"clients"`
			Interactions int64 `json:"interactions"`
		} `json:"totals"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &summary); err != nil {
		t.Fatalf("unmarshal summary: %v", err)
	}

	if len(listed) != 2 {
		t.Fatalf("expected 2 interactions inside the window, got %d", len(listed))
	}
	if summary.Totals.Interactions != int64(len(listed)) {
		t.Fatalf("dashboard total %d != windowed list count %d", summary.Totals.Interactions, len(listed))
	}
	// The client was created today, outside the window, for both queries.
	if summary.Totals.Clients != 0 {
		t.Fatalf("expected 0 clients inside the window, got %d", summary.Totals.Clients)
	}
	resp = doJSON(t, handler, http.MethodGet, "/api/v1/clients?"+window, token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("windowed client list: %d", resp.Code)
	}
	var clients []json.RawMessage
	if err := json.Unmarshal(resp.Body.Bytes(), &clients); err != nil {
		t.Fatalf("unmarshal clients: %v", err)
	}
	if len(clients) != 0 {
		t.Fatalf("expected empty windowed client list, got %d", len(clients))
	}
}

func TestHealthAndMetricsAreOpen(t *testing.T) {
	handler := newTestRouter(t)

	resp := doJSON(t, handler, http.MethodGet, "/healthz", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("healthz: %d", resp.Code)
	}

	resp = doJSON(t, handler, http.MethodGet, "/metrics", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("metrics: %d", resp.Code)
	}
	if resp.Body.Len() == 0 {
		t.Fatal("expected metrics output")
	}
}
