package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "routematch"

// Resolve outcomes used as label values.
const (
	OutcomeMatched   = "matched"
	OutcomeUnmatched = "unmatched"
	OutcomeError     = "error"
)

// Config reload results used as label values.
const (
	ReloadSuccess = "success"
	ReloadFailure = "failure"
)

// Metrics holds the Prometheus metrics of a route registry.
type Metrics struct {
	matchers        prometheus.Gauge
	routesAdded     prometheus.Counter
	routesRemoved   prometheus.Counter
	resolveTotal    *prometheus.CounterVec
	resolveDuration *prometheus.HistogramVec
	configReloads   *prometheus.CounterVec
	registry        *prometheus.Registry
}

// NewMetrics creates a new Metrics instance on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.matchers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "matchers",
			Help:      "Number of matchers in the ordered registry sequence",
		},
	)

	m.routesAdded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routes_added_total",
			Help:      "Total number of matchers inserted into the registry",
		},
	)

	m.routesRemoved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routes_removed_total",
			Help:      "Total number of matchers removed from the registry",
		},
	)

	m.resolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolve_total",
			Help:      "Total number of resolutions by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	m.resolveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolve_duration_seconds",
			Help:      "Resolution duration in seconds",
			Buckets: []float64{
				.00001, .00005, .0001, .0005,
				.001, .005, .01, .05,
			},
		},
		[]string{"mode"},
	)

	m.configReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "config_reloads_total",
			Help:      "Total number of route table reloads by result",
		},
		[]string{"result"},
	)

	m.registry.MustRegister(
		m.matchers,
		m.routesAdded,
		m.routesRemoved,
		m.resolveTotal,
		m.resolveDuration,
		m.configReloads,
	)
	m.registry.MustRegister(collectors.NewGoCollector())

	return m
}

// SetMatchers sets the size of the ordered registry sequence.
func (m *Metrics) SetMatchers(n int) {
	m.matchers.Set(float64(n))
}

// RecordRoutesAdded counts inserted matchers.
func (m *Metrics) RecordRoutesAdded(n int) {
	m.routesAdded.Add(float64(n))
}

// RecordRoutesRemoved counts removed matchers.
func (m *Metrics) RecordRoutesRemoved(n int) {
	m.routesRemoved.Add(float64(n))
}

// RecordResolve records one resolution.
func (m *Metrics) RecordResolve(mode, outcome string, duration time.Duration) {
	m.resolveTotal.WithLabelValues(mode, outcome).Inc()
	m.resolveDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordConfigReload records a route table reload.
func (m *Metrics) RecordConfigReload(result string) {
	m.configReloads.WithLabelValues(result).Inc()
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(
		m.registry,
		promhttp.HandlerOpts{EnableOpenMetrics: true},
	)
}

// Registry returns the Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
