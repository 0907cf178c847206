package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initStaticMetrics() {
	r.StaticBuildsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "tilenav_static_builds_total",
			Help: "Total number of static graph builds",
		},
	)

	r.StaticBuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tilenav_static_build_duration_seconds",
			Help:    "Static graph build duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
	)

	r.StaticNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "tilenav_static_nodes",
			Help: "Node count of the most recently built static graph",
		},
	)

	r.StaticEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "tilenav_static_edges",
			Help: "Edge count of the most recently built static graph",
		},
	)

	r.StaticDiagnosticsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "tilenav_static_diagnostics_total",
			Help: "Total number of layout diagnostics reported while building",
		},
	)
}

func (r *Registry) initTraceMetrics() {
	r.TracedNodesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "tilenav_traced_nodes_total",
			Help: "Total number of nodes whose dynamic edges were traced",
		},
	)

	r.TraceEdgesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "tilenav_trace_edges_total",
			Help: "Total number of dynamic edges discovered",
		},
		[]string{"kind"},
	)
}

func (r *Registry) initCacheMetrics() {
	r.CacheLookupsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "tilenav_cache_lookups_total",
			Help: "Dynamic graph cache lookups",
		},
		[]string{"result"},
	)
}

func (r *Registry) initSearchMetrics() {
	r.SearchesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "tilenav_searches_total",
			Help: "Total number of finished searches",
		},
		[]string{"mode", "outcome"},
	)

	r.SearchExpansions = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tilenav_search_expansions",
			Help:    "Nodes expanded per search",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		},
		[]string{"mode"},
	)
}
