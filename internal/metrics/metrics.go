// Package metrics exposes Prometheus metrics for the team matcher.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AI outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeFallback = "fallback"
	OutcomeCached   = "cached"
)

// Manager owns a private registry and every collector the service exports.
// A nil *Manager is valid and records nothing.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	scoringOperations *prometheus.CounterVec
	scoringLatency    *prometheus.HistogramVec

	aiRequests *prometheus.CounterVec
	aiLatency  *prometheus.HistogramVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	employees prometheus.Gauge
	teams     prometheus.Gauge
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom histogram buckets for latency metrics.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// NewManager creates a manager backed by a fresh registry so that tests and
// multiple servers never collide on the global one.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "team_matcher",
		histogramBuckets: []float64{0.5, 1, 5, 10, 50, 100, 500, 1000, 5000, 15000},
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.scoringOperations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "scoring",
		Name:      "operations_total",
		Help:      "Total number of scoring operations by kind",
	}, []string{"operation"})

	m.scoringLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "scoring",
		Name:      "latency_milliseconds",
		Help:      "Scoring latency in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"operation"})

	m.aiRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ai",
		Name:      "requests_total",
		Help:      "Total number of advisor requests by operation and outcome",
	}, []string{"operation", "outcome"})

	m.aiLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "ai",
		Name:      "latency_milliseconds",
		Help:      "Advisor latency in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"operation"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.employees = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "employees",
		Help:      "Number of employees seen by the last stats query",
	})

	m.teams = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "teams",
		Help:      "Number of teams seen by the last stats query",
	})
}

// Registry returns the underlying registry.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveScoring records one scoring operation and its duration.
func (m *Manager) ObserveScoring(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.scoringOperations.WithLabelValues(operation).Inc()
	m.scoringLatency.WithLabelValues(operation).Observe(milliseconds(d))
}

// ObserveAI records one advisor call with its outcome.
func (m *Manager) ObserveAI(operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.aiRequests.WithLabelValues(operation, outcome).Inc()
	m.aiLatency.WithLabelValues(operation).Observe(milliseconds(d))
}

// ObserveHTTP records a served request.
func (m *Manager) ObserveHTTP(endpoint, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(endpoint, method, code).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, code).Observe(milliseconds(d))
}

// SetPopulation updates the employee and team gauges.
func (m *Manager) SetPopulation(employees, teams int) {
	if m == nil {
		return
	}
	m.employees.Set(float64(employees))
	m.teams.Set(float64(teams))
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
