package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the dashboard's prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	SourceLoads         *prometheus.CounterVec
	LookupMisses        *prometheus.CounterVec
	PipelineRuns        *prometheus.CounterVec
	PipelineDuration    prometheus.Histogram
	LowStockIngredients prometheus.Gauge

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// Config holds metrics configuration
type Config struct {
	Namespace string
}

// DefaultConfig returns default metrics configuration
func DefaultConfig() *Config {
	return &Config{Namespace: "dashboard"}
}

// New creates a new Metrics instance on a private registry
func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())

	m := &Metrics{registry: registry}

	m.SourceLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "source_loads_total",
			Help:      "Source files read per dataset, by outcome",
		},
		[]string{"dataset", "status"},
	)

	m.LookupMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "reconciliation_lookup_misses_total",
			Help:      "Ingredient mapping entries skipped because one side was absent",
		},
		[]string{"side"},
	)

	m.PipelineRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "pipeline_runs_total",
			Help:      "Dashboard pipeline runs, by outcome",
		},
		[]string{"status"},
	)

	m.PipelineDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Time to recompute the dashboard from source files",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	m.LowStockIngredients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "low_stock_ingredients",
			Help:      "Ingredients classified Low Stock in the latest run",
		},
	)

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(
		m.SourceLoads,
		m.LookupMisses,
		m.PipelineRuns,
		m.PipelineDuration,
		m.LowStockIngredients,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)

	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordSourceLoad counts one source read attempt
func (m *Metrics) RecordSourceLoad(dataset string, ok bool) {
	if m == nil {
		return
	}
	status := "loaded"
	if !ok {
		status = "skipped"
	}
	m.SourceLoads.WithLabelValues(dataset, status).Inc()
}

// RecordLookupMiss counts a skipped mapping entry
func (m *Metrics) RecordLookupMiss(side string) {
	if m == nil {
		return
	}
	m.LookupMisses.WithLabelValues(side).Inc()
}

// RecordPipelineRun records the outcome and duration of a run
func (m *Metrics) RecordPipelineRun(duration time.Duration, err error, lowStock int) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.PipelineRuns.WithLabelValues(status).Inc()
	m.PipelineDuration.Observe(duration.Seconds())
	if err == nil {
		m.LowStockIngredients.Set(float64(lowStock))
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
