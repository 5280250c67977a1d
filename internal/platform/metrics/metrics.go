// Package metrics exposes Prometheus collectors for the upstream fetch path and the tool layer.
// Collectors live on an injected registry so tests can build isolated instances
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hnagent"

// Metrics bundles every collector the service records into
// A nil *Metrics is valid and records nothing
type Metrics struct {
	reg *prometheus.Registry

	fetchAttempts  *prometheus.CounterVec
	fetchDuration  *prometheus.HistogramVec
	batchItems     *prometheus.CounterVec
	batchInFlight  prometheus.Gauge
	cacheLookups   *prometheus.CounterVec
	toolInvokes    *prometheus.CounterVec
	toolDurationS  *prometheus.HistogramVec
	toolOutputSize *prometheus.HistogramVec
	httpRequests   *prometheus.CounterVec
}

// New registers collectors on reg; a nil reg gets a fresh private registry
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		fetchAttempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_fetch_attempts_total",
				Help:      "Upstream HTTP attempts, labeled by endpoint and result.",
			},
			[]string{"endpoint", "result"},
		),
		fetchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_fetch_duration_seconds",
				Help:      "Latency of single upstream HTTP attempts, labeled by endpoint.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"endpoint"},
		),
		batchItems: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batch_items_total",
				Help:      "Items resolved by the batch resolver, labeled by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		batchInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "batch_in_flight",
				Help:      "Item fetches currently running inside batch pools.",
			},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "item_cache_lookups_total",
				Help:      "Item cache lookups, labeled by result (hit or miss).",
			},
			[]string{"result"},
		),
		toolInvokes: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_invocations_total",
				Help:      "Tool invocations, labeled by tool and result.",
			},
			[]string{"tool", "result"},
		),
		toolDurationS: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tool_duration_seconds",
				Help:      "Wall time of tool invocations, labeled by tool.",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"tool"},
		),
		toolOutputSize: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tool_output_bytes",
				Help:      "Size of tool text output, labeled by tool.",
				Buckets:   prometheus.ExponentialBuckets(64, 4, 6),
			},
			[]string{"tool"},
		),
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP API requests, labeled by method and status class.",
			},
			[]string{"method", "class"},
		),
	}
}

// NewWithRuntime is New plus the Go runtime and process collectors, for long running binaries
func NewWithRuntime() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return New(reg)
}

// Registry returns the backing registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// ObserveFetch records one upstream attempt
func (m *Metrics) ObserveFetch(endpoint, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.fetchAttempts.WithLabelValues(endpoint, result).Inc()
	m.fetchDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// ObserveItem records the outcome of one batch slot
func (m *Metrics) ObserveItem(kind, outcome string) {
	if m == nil {
		return
	}
	m.batchItems.WithLabelValues(kind, outcome).Inc()
}

// TrackInFlight increments the in-flight gauge and returns the matching decrement
func (m *Metrics) TrackInFlight() func() {
	if m == nil {
		return func() {}
	}
	m.batchInFlight.Inc()
	return m.batchInFlight.Dec
}

// ObserveCache records a cache hit or miss
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveTool records one tool invocation
func (m *Metrics) ObserveTool(tool, result string, d time.Duration, outputBytes int) {
	if m == nil {
		return
	}
	m.toolInvokes.WithLabelValues(tool, result).Inc()
	m.toolDurationS.WithLabelValues(tool).Observe(d.Seconds())
	m.toolOutputSize.WithLabelValues(tool).Observe(float64(outputBytes))
}

// ObserveHTTP records one served API request; status is bucketed into its class (2xx, 4xx...)
func (m *Metrics) ObserveHTTP(method string, status int) {
	if m == nil {
		return
	}
	class := "5xx"
	switch {
	case status < 200:
		class = "1xx"
	case status < 300:
		class = "2xx"
	case status < 400:
		class = "3xx"
	case status < 500:
		class = "4xx"
	}
	m.httpRequests.WithLabelValues(method, class).Inc()
}
