package ratelimit

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tendant/simple-lab/pkg/config"
	apperrors "github.com/tendant/simple-lab/pkg/errors"
	"github.com/tendant/simple-lab/pkg/utils"
)

// Middleware throttles requests per client IP
type Middleware struct {
	limiter    *RateLimiter
	onLimit    func(r *http.Request)
	trustProxy bool
}

// NewLoginMiddleware creates the per-IP limiter for the login endpoint.
// It returns nil when login rate limiting is disabled.
func NewLoginMiddleware(cfg config.LoginRateLimitConfig) *Middleware {
	if !cfg.Enabled {
		return nil
	}
	return &Middleware{
		limiter:    NewRateLimiter(cfg.Burst, cfg.PerMinute/60.0, cfg.BucketTTL),
		trustProxy: cfg.TrustProxyHeaders,
	}
}

// NewMiddleware wraps an existing limiter
func NewMiddleware(limiter *RateLimiter) *Middleware {
	return &Middleware{limiter: limiter}
}

// OnLimit registers a callback run for every rejected request
func (m *Middleware) OnLimit(fn func(r *http.Request)) *Middleware {
	m.onLimit = fn
	return m
}

// TrustProxyHeaders makes the client key come from X-Forwarded-For or
// X-Real-IP instead of the connection address
func (m *Middleware) TrustProxyHeaders(trust bool) *Middleware {
	m.trustProxy = trust
	return m
}

// Handler returns the rate limiting middleware handler
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getClientIP(r, m.trustProxy)
		if wait, ok := m.limiter.Reserve(ip); !ok {
			m.rateLimitExceeded(w, r, ip, wait)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) rateLimitExceeded(w http.ResponseWriter, r *http.Request, ip string, wait time.Duration) {
	slog.Warn("Rate limit exceeded", "ip", ip, "path", r.URL.Path, "method", r.Method)
	if m.onLimit != nil {
		m.onLimit(r)
	}

	retryAfter := ""
	if wait > 0 {
		retryAfter = strconv.Itoa(int(math.Ceil(wait.Seconds())))
		w.Header().Set("Retry-After", retryAfter)
	}
	utils.RenderError(w, r, apperrors.RateLimitExceeded(retryAfter))
}

// getClientIP extracts the client IP address from the request. Proxy
// headers are client-controlled and only read when trustProxy is set.
func getClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		// X-Forwarded-For can contain multiple IPs, take the first one
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}

		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
