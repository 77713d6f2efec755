package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-lab/pkg/config"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(3, 1.0, 0)
	now := time.Now()
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("a"), "request %d should be allowed", i+1)
	}
	assert.False(t, rl.Allow("a"), "burst exhausted")
	assert.True(t, rl.Allow("b"), "keys are independent")

	now = now.Add(2 * time.Second)
	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
}

func TestRateLimiter_ReserveReportsWait(t *testing.T) {
	rl := NewRateLimiter(1, 0.5, 0)
	now := time.Now()
	rl.now = func() time.Time { return now }

	_, ok := rl.Reserve("a")
	require.True(t, ok)

	wait, ok := rl.Reserve("a")
	assert.False(t, ok)
	assert.InDelta(t, 2*time.Second, wait, float64(10*time.Millisecond))

	// a rejected request does not consume the next token
	now = now.Add(2 * time.Second)
	_, ok = rl.Reserve("a")
	assert.True(t, ok)
}

func TestRateLimiter_SweepsIdleKeys(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Minute)
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	rl.Allow("b")
	assert.Equal(t, 2, rl.Size())

	now = now.Add(2 * time.Minute)
	rl.Allow("c")
	assert.Equal(t, 1, rl.Size())
}

func TestRateLimiter_Reset(t *testing.T) {
	rl := NewRateLimiter(1, 0.001, 0)
	require.True(t, rl.Allow("a"))
	require.False(t, rl.Allow("a"))

	rl.Reset("a")
	assert.True(t, rl.Allow("a"))
}

func TestMiddleware_Handler(t *testing.T) {
	m := NewLoginMiddleware(config.LoginRateLimitConfig{Enabled: true, Burst: 2, PerMinute: 1})
	require.NotNil(t, m)

	limited := 0
	m.OnLimit(func(*http.Request) { limited++ })

	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = ip + ":12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)

	rec := send("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"code":"RATE_LIMIT_EXCEEDED","message":"rate limit exceeded"}`, rec.Body.String())
	assert.Equal(t, 1, limited)

	assert.Equal(t, http.StatusOK, send("10.0.0.2").Code)
}

func TestNewLoginMiddleware_Disabled(t *testing.T) {
	assert.Nil(t, NewLoginMiddleware(config.LoginRateLimitConfig{Enabled: false}))
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remote     string
		trustProxy bool
		want       string
	}{
		{"remote addr", nil, "192.0.2.1:4000", false, "192.0.2.1"},
		{"forwarded for ignored by default", map[string]string{"X-Forwarded-For": "203.0.113.5"}, "10.0.0.1:80", false, "10.0.0.1"},
		{"real ip ignored by default", map[string]string{"X-Real-IP": "203.0.113.9"}, "10.0.0.1:80", false, "10.0.0.1"},
		{"forwarded for behind proxy", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "10.0.0.1:80", true, "203.0.113.5"},
		{"real ip behind proxy", map[string]string{"X-Real-IP": "203.0.113.9"}, "10.0.0.1:80", true, "203.0.113.9"},
		{"ipv6", nil, "[2001:db8::1]:443", false, "2001:db8::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req, tt.trustProxy))
		})
	}
}

func TestMiddleware_SpoofedForwardedForSharesBucket(t *testing.T) {
	m := NewLoginMiddleware(config.LoginRateLimitConfig{Enabled: true, Burst: 1, PerMinute: 1})
	require.NotNil(t, m)

	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "198.51.100.7:5555"
		req.Header.Set("X-Forwarded-For", forwardedFor)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.2"))

	m.TrustProxyHeaders(true)
	assert.Equal(t, http.StatusOK, send("203.0.113.3"))
}
