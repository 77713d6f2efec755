package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	reg := NewRegistry("labs-service")

	r := chi.NewRouter()
	r.Use(reg.Middleware)
	r.Route("/api/labs", func(r chi.Router) {
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	for _, path := range []string{"/api/labs/1", "/api/labs/2", "/api/labs/3"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rr.Code)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/labs/1", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)

	assert.Equal(t, 3.0, testutil.ToFloat64(reg.requestsTotal.WithLabelValues("labs-service", "GET", "/api/labs/{id}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.requestsTotal.WithLabelValues("labs-service", "DELETE", "/api/labs/{id}", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.requestsTotal.WithLabelValues("labs-service", "GET", unmatchedRoute, "404")))
}

func TestObserveLogin(t *testing.T) {
	reg := NewRegistry("users-service")

	reg.ObserveLogin("success")
	reg.ObserveLogin("failure")
	reg.ObserveLogin("failure")

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.loginAttempts.WithLabelValues("users-service", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(reg.loginAttempts.WithLabelValues("users-service", "failure")))
}

func TestHandlerExposesRegisteredMetrics(t *testing.T) {
	reg := NewRegistry("results-service")
	reg.ObserveRequest(http.MethodGet, "/api/results", http.StatusOK, 15*time.Millisecond)

	srv := httptest.NewServer(reg.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "simple_lab_http_requests_total")
	assert.Contains(t, string(body), "simple_lab_http_request_duration_seconds")
	assert.Contains(t, string(body), "go_goroutines")
}
