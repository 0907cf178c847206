// Package metrics exposes prometheus counters for graph building, edge
// tracing, cache use and searches. A Registry satisfies the observer
// interfaces of the world, trace and search packages.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Static graph metrics
	StaticBuildsTotal      prometheus.Counter
	StaticBuildDuration    prometheus.Histogram
	StaticNodes            prometheus.Gauge
	StaticEdges            prometheus.Gauge
	StaticDiagnosticsTotal prometheus.Counter

	// Trace metrics
	TracedNodesTotal prometheus.Counter
	TraceEdgesTotal  *prometheus.CounterVec

	// Cache metrics
	CacheLookupsTotal *prometheus.CounterVec

	// Search metrics
	SearchesTotal    *prometheus.CounterVec
	SearchExpansions *prometheus.HistogramVec

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initStaticMetrics()
	r.initTraceMetrics()
	r.initCacheMetrics()
	r.initSearchMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
