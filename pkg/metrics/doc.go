// Package metrics exposes per-service Prometheus metrics: HTTP request
// counts and latencies by route, login outcomes, and rate limiter rejections.
package metrics
