package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"
)

// newTestLimiter returns a limiter driven by a manual clock
func newTestLimiter(t *testing.T, cfg RateLimitConfig) (*RateLimiter, *time.Time) {
	t.Helper()
	rl := NewRateLimiter(cfg)
	t.Cleanup(rl.Stop)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

// ============================================================================
// NewRateLimiter Tests (Configuration)
// ============================================================================

func TestNewRateLimiter_DefaultConfig(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimitConfig{})
	defer rl.Stop()

	if rl.rate != 120 {
		t.Errorf("expected default rate 120, got %d", rl.rate)
	}
	if rl.window != time.Minute {
		t.Errorf("expected default window 1m, got %v", rl.window)
	}
	if rl.burst != 20 {
		t.Errorf("expected default burst 20, got %d", rl.burst)
	}
}

func TestStop_IsIdempotent(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimitConfig{})
	rl.Stop()
	rl.Stop()
}

// ============================================================================
// Allow() Tests
// ============================================================================

func TestAllow_BurstThenDeny(t *testing.T) {
	t.Parallel()
	rl, _ := newTestLimiter(t, RateLimitConfig{Rate: 60, Window: time.Minute, Burst: 3})

	for i := 0; i < 3; i++ {
		allowed, remaining, _ := rl.Allow("10.0.0.1")
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if remaining != 2-i {
			t.Errorf("request %d: expected remaining %d, got %d", i+1, 2-i, remaining)
		}
	}

	allowed, _, retryAfter := rl.Allow("10.0.0.1")
	if allowed {
		t.Fatal("4th request should be denied")
	}
	if retryAfter <= 0 || retryAfter > time.Second {
		t.Errorf("expected retry within one token period, got %v", retryAfter)
	}
}

func TestAllow_RefillsOverTime(t *testing.T) {
	t.Parallel()
	rl, now := newTestLimiter(t, RateLimitConfig{Rate: 60, Window: time.Minute, Burst: 2})

	rl.Allow("k")
	rl.Allow("k")
	if allowed, _, _ := rl.Allow("k"); allowed {
		t.Fatal("bucket should be empty")
	}

	// 60/min is one token per second
	*now = now.Add(time.Second)
	if allowed, _, _ := rl.Allow("k"); !allowed {
		t.Error("one token should have refilled after 1s")
	}
}

func TestAllow_TokensCappedAtBurst(t *testing.T) {
	t.Parallel()
	rl, now := newTestLimiter(t, RateLimitConfig{Rate: 60, Window: time.Minute, Burst: 2})

	rl.Allow("k")
	*now = now.Add(time.Hour)

	_, remaining, _ := rl.Allow("k")
	if remaining != 1 {
		t.Errorf("expected remaining capped at burst-1 (1), got %d", remaining)
	}
}

func TestAllow_DifferentKeys_SeparateBuckets(t *testing.T) {
	t.Parallel()
	rl, _ := newTestLimiter(t, RateLimitConfig{Rate: 60, Window: time.Minute, Burst: 1})

	if allowed, _, _ := rl.Allow("a"); !allowed {
		t.Error("first key should be allowed")
	}
	if allowed, _, _ := rl.Allow("b"); !allowed {
		t.Error("second key should have its own bucket")
	}
}

func TestAllow_ConcurrentAccess_ThreadSafe(t *testing.T) {
	t.Parallel()
	rl, _ := newTestLimiter(t, RateLimitConfig{Rate: 60, Window: time.Minute, Burst: 50})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _, _ := rl.Allow("shared"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 50 {
		t.Errorf("expected exactly 50 allowed with a frozen clock, got %d", allowed)
	}
}

func TestSweep_RemovesIdleBuckets(t *testing.T) {
	t.Parallel()
	rl, now := newTestLimiter(t, RateLimitConfig{Rate: 60, Window: time.Minute, Burst: 10})

	rl.Allow("idle")
	*now = now.Add(time.Minute)
	rl.Allow("fresh")
	rl.sweep()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.buckets["idle"]; ok {
		t.Error("idle bucket should be swept")
	}
	if _, ok := rl.buckets["fresh"]; !ok {
		t.Error("fresh bucket should be kept")
	}
}

// ============================================================================
// Middleware Tests
// ============================================================================

func TestClientKey_StripsPort(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	if key := ClientKey(req); key != "192.168.1.1" {
		t.Errorf("expected host only, got %q", key)
	}

	req.RemoteAddr = "unix-socket"
	if key := ClientKey(req); key != "unix-socket" {
		t.Errorf("expected raw addr fallback, got %q", key)
	}
}

func TestRateLimitMiddleware_AllowedRequest_SetsHeaders(t *testing.T) {
	t.Parallel()
	rl, _ := newTestLimiter(t, RateLimitConfig{Rate: 120, Burst: 20})

	h := &captureHandler{}
	req := httptest.NewRequest(http.MethodGet, "/activities", nil)
	rr := httptest.NewRecorder()
	RateLimit(rl)(h).ServeHTTP(rr, req)

	if !h.called {
		t.Error("handler should have been called")
	}
	if rr.Header().Get("X-RateLimit-Limit") != "120" {
		t.Errorf("expected limit header 120, got %q", rr.Header().Get("X-RateLimit-Limit"))
	}
	if rr.Header().Get("X-RateLimit-Remaining") != "19" {
		t.Errorf("expected remaining 19, got %q", rr.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimitMiddleware_DeniedRequest_Returns429(t *testing.T) {
	t.Parallel()
	rl, _ := newTestLimiter(t, RateLimitConfig{Rate: 2, Window: time.Minute, Burst: 1})

	mw := RateLimit(rl)
	first := httptest.NewRecorder()
	mw(&captureHandler{}).ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", first.Code)
	}

	h := &captureHandler{}
	rr := httptest.NewRecorder()
	mw(h).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))

	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", rr.Code)
	}
	if h.called {
		t.Error("handler should not have been called")
	}
	// 2/min refills one token every 30s
	if got, _ := strconv.Atoi(rr.Header().Get("Retry-After")); got != 30 {
		t.Errorf("expected Retry-After 30, got %q", rr.Header().Get("Retry-After"))
	}
}
