package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORSAllowedOrigin(t *testing.T) {
	mw := NewCORSMiddleware([]string{"https://app.example.com"})
	handler := mw.Handler(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	req.Header.Set("Origin", "https://app.example.com")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("expected origin echoed back, got %q", got)
	}
	if got := resp.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("expected credentialed CORS, got %q", got)
	}
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	mw := NewCORSMiddleware([]string{"https://app.example.com"})
	handler := mw.Handler(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unknown origin, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/clients", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 preflight for unknown origin, got %d", resp.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	mw := NewCORSMiddleware([]string{"https://app.example.com"})
	handler := mw.Handler(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/clients", nil)
	req.Header.Set("Origin", "https://app.example.com")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Fatal("expected allowed methods header on preflight")
	}
}

func TestCORSAllowsOwnOrigin(t *testing.T) {
	mw := NewCORSMiddleware([]string{"http://localhost:3000"})
	handler := mw.Handler(okHandler())

	// Browsers attach Origin to every POST; a client served from the API's
	// own host passes without an allowlist entry.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.Host = "api.example.com"
	req.Header.Set("Origin", "http://api.example.com")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("same-origin request rejected: %d %s", resp.Code, resp.Body.String())
	}

	// A different host on the Origin is still cross-origin.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.Host = "api.example.com"
	req.Header.Set("Origin", "http://other.example.com")
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign origin, got %d", resp.Code)
	}
}

func TestCORSWildcardEchoesOrigin(t *testing.T) {
	mw := NewCORSMiddleware([]string{"*"})
	handler := mw.Handler(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	// The wildcard is never echoed literally: cookies require a concrete
	// origin in the response.
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "https://anywhere.example.com" {
		t.Fatalf("expected concrete origin, got %q", got)
	}
}

func TestCORSNoOriginHeaderPassesThrough(t *testing.T) {
	mw := NewCORSMiddleware([]string{"https://app.example.com"})
	handler := mw.Handler(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected same-origin request to pass, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS headers without Origin, got %q", got)
	}
}
