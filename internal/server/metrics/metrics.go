// Package metrics counts HTTP requests and observes their duration. It is
// injected as a collaborator rather than accessed as a global so tests can
// substitute a no-op recorder.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the observability collaborator handed to the HTTP layer.
type Recorder interface {
	CountRequest(method, route, status string, duration time.Duration)
}

// PrometheusMetrics implements Recorder on a private registry with a request
// counter and a duration histogram.
type PrometheusMetrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewPrometheusMetrics() *PrometheusMetrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"method", "route", "status"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds.",
		Buckets: []float64{50, 100, 200, 300, 500, 1000},
	}, []string{"method", "route"})

	registry.MustRegister(requests, duration)

	return &PrometheusMetrics{registry: registry, requests: requests, duration: duration}
}

func (m *PrometheusMetrics) CountRequest(method, route, status string, duration time.Duration) {
	m.requests.WithLabelValues(method, route, status).Inc()
	m.duration.WithLabelValues(method, route).Observe(float64(duration.Milliseconds()))
}

// Handler returns the exposition endpoint for this registry.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Noop is a Recorder that discards everything; used in tests.
type Noop struct{}

func (Noop) CountRequest(method, route, status string, duration time.Duration) {}
