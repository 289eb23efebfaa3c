package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clientdesk/clientdesk/internal/app/services/auth"
	"github.com/clientdesk/clientdesk/internal/app/storage/memory"
)

func newAuthFixture(t *testing.T) (*AuthMiddleware, string) {
	t.Helper()
	store := memory.New()
	svc := auth.New(store, store, []byte("middleware-test-secret"), time.Hour, nil)
	_, token, err := svc.Signup(context.Background(), "mw@example.com", "Middleware", "long-enough-password")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	return NewAuthMiddleware(svc, nil, []string{"/healthz"}), token
}

func echoUserID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetUserID(r.Context())))
	})
}

func TestAuthMiddlewareSkipPaths(t *testing.T) {
	mw, _ := newAuthFixture(t)
	handler := mw.Handler(echoUserID())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("skip path should pass unauthenticated, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("protected path without token should 401, got %d", resp.Code)
	}
}

func TestAuthMiddlewareAcceptsBearerAndCookie(t *testing.T) {
	mw, token := newAuthFixture(t)
	handler := mw.Handler(echoUserID())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("bearer token rejected: %d %s", resp.Code, resp.Body.String())
	}
	if resp.Body.Len() == 0 {
		t.Fatal("expected user id in context for bearer request")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("cookie token rejected: %d", resp.Code)
	}
}

func TestAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	mw, _ := newAuthFixture(t)
	handler := mw.Handler(echoUserID())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON error body, got %q", ct)
	}
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not valid JSON: %v: %s", err, resp.Body.String())
	}
	if body.Error == "" || body.Code == "" {
		t.Fatalf("expected error and code fields, got %+v", body)
	}
}

func TestExtractTokenPrecedence(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := ExtractToken(req); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}

	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "cookie-token"})
	if got := ExtractToken(req); got != "cookie-token" {
		t.Fatalf("expected cookie token, got %q", got)
	}

	// The header wins when both transports are present.
	req.Header.Set("Authorization", "Bearer header-token")
	if got := ExtractToken(req); got != "header-token" {
		t.Fatalf("expected header token, got %q", got)
	}

	// A non-bearer header falls back to the cookie.
	req.Header.Set("Authorization", "Basic abc123")
	if got := ExtractToken(req); got != "cookie-token" {
		t.Fatalf("expected cookie fallback, got %q", got)
	}
}
