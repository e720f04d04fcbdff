// Package monitoring exposes Prometheus metrics for the HTTP server.
package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the instrumentation for explain and benchmark traffic.
type Metrics struct {
	registry *prometheus.Registry

	ExplainRequests   *prometheus.CounterVec
	BenchmarkRuns     *prometheus.CounterVec
	BenchmarkDuration prometheus.Histogram
}

// New builds a metrics set on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	return &Metrics{
		registry: reg,
		ExplainRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "sqltrace",
			Name:      "explain_requests_total",
			Help:      "EXPLAIN requests handled, by outcome.",
		}, []string{"outcome"}),
		BenchmarkRuns: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "sqltrace",
			Name:      "benchmark_runs_total",
			Help:      "Individual benchmark runs, by outcome.",
		}, []string{"outcome"}),
		BenchmarkDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: "sqltrace",
			Name:      "benchmark_run_duration_seconds",
			Help:      "Wall time of measured benchmark runs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
	}
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
