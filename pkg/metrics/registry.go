package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "simple_lab"

// Registry owns the Prometheus registry of one service binary together with
// the collectors the HTTP layer and the login endpoint report to.
type Registry struct {
	registry *prometheus.Registry
	service  string

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	loginAttempts   *prometheus.CounterVec
	rateLimited     *prometheus.CounterVec
}

// NewRegistry creates a private registry for service with the Go runtime and
// process collectors already registered.
func NewRegistry(service string) *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: reg,
		service:  service,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled",
			},
			[]string{"service", "method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"service", "method", "route"},
		),
		loginAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "login_attempts_total",
				Help:      "Login attempts by outcome",
			},
			[]string{"service", "outcome"},
		),
		rateLimited: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "rate_limited_total",
				Help:      "Requests rejected by the rate limiter",
			},
			[]string{"service", "route"},
		),
	}
	reg.MustRegister(r.requestsTotal, r.requestDuration, r.loginAttempts, r.rateLimited)
	return r
}

// PrometheusRegistry returns the underlying registry
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// ObserveRequest records one finished HTTP request
func (r *Registry) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	r.requestsTotal.WithLabelValues(r.service, method, route, strconv.Itoa(status)).Inc()
	r.requestDuration.WithLabelValues(r.service, method, route).Observe(elapsed.Seconds())
}

// ObserveLogin counts a login attempt. Outcome is "success" or "failure".
func (r *Registry) ObserveLogin(outcome string) {
	r.loginAttempts.WithLabelValues(r.service, outcome).Inc()
}

// ObserveRateLimited counts a request rejected with 429
func (r *Registry) ObserveRateLimited(req *http.Request) {
	r.rateLimited.WithLabelValues(r.service, routePattern(req)).Inc()
}
