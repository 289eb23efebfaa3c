package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func TestRateLimiterThrottlesByIP(t *testing.T) {
	rl := NewRateLimiter(1, 2, nil)
	handler := rl.Handler(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = "192.0.2.10:54321"
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		codes = append(codes, resp.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("burst of 2 should pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("third request should be throttled, got %v", codes)
	}
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	handler := rl.Handler(okHandler())

	first := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	first.RemoteAddr = "192.0.2.20:1000"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, first)
	if resp.Code != http.StatusOK {
		t.Fatalf("first key should pass, got %d", resp.Code)
	}

	// Exhausted for the first address.
	again := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	again.RemoteAddr = "192.0.2.20:1001"
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, again)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("same IP should be throttled, got %d", resp.Code)
	}

	// A different address has its own bucket.
	other := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	other.RemoteAddr = "192.0.2.21:1000"
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, other)
	if resp.Code != http.StatusOK {
		t.Fatalf("distinct IP should pass, got %d", resp.Code)
	}
}

func TestRateLimiterPrefersUserKey(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	handler := rl.Handler(okHandler())

	// Two users behind the same address do not share a bucket.
	for _, userID := range []string{"user-a", "user-b"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
		req.RemoteAddr = "192.0.2.30:2000"
		req = req.WithContext(WithUserID(req.Context(), userID))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("user %s should pass, got %d", userID, resp.Code)
		}
	}
}

func TestStartCleanupDrainsTable(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	for i := 0; i < 10001; i++ {
		rl.getLimiter("key-" + strconv.Itoa(i))
	}
	rl.StartCleanup(5 * time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		rl.mu.Lock()
		size := len(rl.limiters)
		rl.mu.Unlock()
		if size == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("limiter table was never drained")
}

func TestRateLimiterCleanupBoundsTable(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	for i := 0; i < 10001; i++ {
		rl.getLimiter("key-" + strconv.Itoa(i))
	}
	rl.Cleanup()
	rl.mu.Lock()
	size := len(rl.limiters)
	rl.mu.Unlock()
	if size != 0 {
		t.Fatalf("expected table reset after cleanup, got %d entries", size)
	}
}
