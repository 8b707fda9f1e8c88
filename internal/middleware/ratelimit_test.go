package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, cfg RateLimitConfig) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(cfg)
	t.Cleanup(rl.Stop)
	return rl
}

func TestRateLimiter_AllowWithinLimit(t *testing.T) {
	t.Parallel()

	rl := newTestLimiter(t, RateLimitConfig{Rate: 10, Window: time.Minute, Burst: 5})

	for i := 0; i < 10; i++ {
		allowed, _, _ := rl.Allow("user:1")
		if !allowed {
			t.Fatalf("request %d unexpectedly denied", i)
		}
	}
}

func TestRateLimiter_Exhaustion(t *testing.T) {
	t.Parallel()

	rl := newTestLimiter(t, RateLimitConfig{Rate: 2, Window: time.Hour, Burst: 1})

	// Burst capacity is rate + burst
	for i := 0; i < 3; i++ {
		if allowed, _, _ := rl.Allow("user:1"); !allowed {
			t.Fatalf("request %d unexpectedly denied", i)
		}
	}
	if allowed, remaining, _ := rl.Allow("user:1"); allowed {
		t.Error("expected denial after burst exhausted")
	} else if remaining != 0 {
		t.Errorf("expected 0 remaining, got %d", remaining)
	}
}

func TestRateLimiter_KeysIndependent(t *testing.T) {
	t.Parallel()

	rl := newTestLimiter(t, RateLimitConfig{Rate: 1, Window: time.Hour, Burst: 1})

	for i := 0; i < 2; i++ {
		rl.Allow("user:1")
	}
	if allowed, _, _ := rl.Allow("user:1"); allowed {
		t.Fatal("expected user:1 exhausted")
	}
	if allowed, _, _ := rl.Allow("user:2"); !allowed {
		t.Error("other keys must be unaffected")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	rl := newTestLimiter(t, RateLimitConfig{Rate: 1, Window: time.Hour, Burst: 1})
	handler, called := okHandler()
	wrapped := RateLimit(rl)(handler)

	req := httptest.NewRequest("GET", "/v1/sites", nil)
	req = req.WithContext(context.WithValue(req.Context(), UserIDKey, "userProfiles:u1"))

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !*called {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Limit") != "1" {
		t.Errorf("expected limit header, got %q", rec.Header().Get("X-RateLimit-Limit"))
	}

	// Drain the bucket and expect 429 with Retry-After
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		wrapped.ServeHTTP(last, req)
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", last.Code)
	}
	if last.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on denial")
	}
	if ct := last.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("expected problem+json, got %q", ct)
	}
}
