package metrics

import (
	"io"
	"time"

	"github.com/prometheus/common/expfmt"
)

// RecordStaticBuild records one static graph build
func (r *Registry) RecordStaticBuild(elapsed time.Duration, nodes, edges, diagnostics int) {
	r.StaticBuildsTotal.Inc()
	r.StaticBuildDuration.Observe(elapsed.Seconds())
	r.StaticNodes.Set(float64(nodes))
	r.StaticEdges.Set(float64(edges))
	r.StaticDiagnosticsTotal.Add(float64(diagnostics))
}

// RecordTracedNode counts a node whose trajectories were simulated
func (r *Registry) RecordTracedNode() {
	r.TracedNodesTotal.Inc()
}

// RecordTraceEdge counts a discovered dynamic edge by move kind
func (r *Registry) RecordTraceEdge(kind string) {
	r.TraceEdgesTotal.WithLabelValues(kind).Inc()
}

// RecordCacheLookup records a dynamic graph cache hit or miss
func (r *Registry) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.CacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordSearch records a finished search
func (r *Registry) RecordSearch(mode, outcome string, expansions int) {
	r.SearchesTotal.WithLabelValues(mode, outcome).Inc()
	r.SearchExpansions.WithLabelValues(mode).Observe(float64(expansions))
}

// WriteText writes every gathered metric family in the prometheus text
// exposition format.
func (r *Registry) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
