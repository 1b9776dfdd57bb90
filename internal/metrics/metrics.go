// Package metrics records engine and API activity for Prometheus and for
// the in-process stats endpoint.
package metrics

import (
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "forgebreaker"

// Operation names used as label values.
const (
	OpDistance        = "distance"
	OpRecommendations = "recommendations"
	OpDerive          = "derive_assumptions"
	OpStress          = "apply_stress"
	OpBreakingPoint   = "find_breaking_point"
	OpImport          = "import_collection"
	OpSync            = "sync_meta"
)

// EngineMetrics owns a private Prometheus registry plus per-operation
// latency windows. The zero value is not usable; call New.
type EngineMetrics struct {
	registry *prometheus.Registry

	operationDuration *prometheus.HistogramVec
	stressRuns        *prometheus.CounterVec
	imports           *prometheus.CounterVec
	decksSynced       *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec

	mu         sync.RWMutex
	latencies  map[string]*Histogram
	startTime  time.Time
	maxSamples int
}

// New creates EngineMetrics with Go and process collectors registered.
func New() *EngineMetrics {
	m := &EngineMetrics{
		registry: prometheus.NewRegistry(),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of engine operations.",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
		stressRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stress_runs_total",
			Help:      "Stress scenarios applied, by type and outcome.",
		}, []string{"stress_type", "violated"}),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collection_imports_total",
			Help:      "Collection imports, by detected format.",
		}, []string{"format"}),
		decksSynced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meta_decks_synced_total",
			Help:      "Meta decks stored by sync, by format.",
		}, []string{"format"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method and status code.",
		}, []string{"method", "status"}),
		latencies:  make(map[string]*Histogram),
		startTime:  time.Now(),
		maxSamples: defaultMaxSamples,
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
		m.operationDuration,
		m.stressRuns,
		m.imports,
		m.decksSynced,
		m.httpRequests,
	)
	return m
}

// Registry exposes the registry for tests and additional collectors.
func (m *EngineMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *EngineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveOperation records how long op took.
func (m *EngineMetrics) ObserveOperation(op string, d time.Duration) {
	m.operationDuration.WithLabelValues(op).Observe(d.Seconds())
	m.latency(op).Record(d)
}

// Time returns a func that records the elapsed time for op when called.
//
//	defer m.Time(metrics.OpDerive)()
func (m *EngineMetrics) Time(op string) func() {
	start := time.Now()
	return func() { m.ObserveOperation(op, time.Since(start)) }
}

// RecordStress counts one applied scenario.
func (m *EngineMetrics) RecordStress(stressType string, violated bool) {
	m.stressRuns.WithLabelValues(stressType, strconv.FormatBool(violated)).Inc()
}

// RecordImport counts one collection import.
func (m *EngineMetrics) RecordImport(format string) {
	m.imports.WithLabelValues(format).Inc()
}

// RecordSync adds the decks stored for a format by one sync.
func (m *EngineMetrics) RecordSync(format string, decks int) {
	m.decksSynced.WithLabelValues(format).Add(float64(decks))
}

// RecordHTTPRequest counts one served request.
func (m *EngineMetrics) RecordHTTPRequest(method string, status int) {
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func (m *EngineMetrics) latency(op string) *Histogram {
	m.mu.RLock()
	h, ok := m.latencies[op]
	m.mu.RUnlock()
	if ok {
		return h
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.latencies[op]; ok {
		return h
	}
	h = NewHistogram(m.maxSamples)
	m.latencies[op] = h
	return h
}

// OperationStats is the latency summary of one operation.
type OperationStats struct {
	Operation string `json:"operation"`
	LatencyStats
}

// Stats is a point-in-time view of the in-process latency windows.
type Stats struct {
	Operations []OperationStats `json:"operations"`
	Uptime     string           `json:"uptime"`
}

// Stats returns the latency summaries sorted by operation name.
func (m *EngineMetrics) Stats() *Stats {
	m.mu.RLock()
	ops := make([]string, 0, len(m.latencies))
	for op := range m.latencies {
		ops = append(ops, op)
	}
	m.mu.RUnlock()
	sort.Strings(ops)

	stats := &Stats{
		Operations: make([]OperationStats, 0, len(ops)),
		Uptime:     time.Since(m.startTime).Round(time.Second).String(),
	}
	for _, op := range ops {
		stats.Operations = append(stats.Operations, OperationStats{
			Operation:    op,
			LatencyStats: m.latency(op).Stats(),
		})
	}
	return stats
}

// Reset clears the latency windows. Prometheus counters are cumulative
// and are left alone.
func (m *EngineMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.latencies {
		h.Reset()
	}
	m.startTime = time.Now()
}
