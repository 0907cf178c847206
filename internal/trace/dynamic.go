// Package trace discovers the character-specific edges of a room by
// simulating jump, fall, pounce, wall-jump, leap and drop trajectories
// against the tile grid.
package trace

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/tilenav/internal/graph"
	"github.com/Faultbox/tilenav/pkg/movement"
)

// TileSize is the width of one tile in world units.
const TileSize = 20.0

// Settings tunes edge weights produced by the tracer.
type Settings struct {
	PounceBoost       float64 // Added to every pounce edge
	LedgePenalty      float64 // Added to ledge-grab edges instead of the landing bonus
	DropPocketPenalty float64 // Added per snag tile passed while dropping
}

// DefaultSettings returns the standard weights.
func DefaultSettings() Settings {
	return Settings{
		PounceBoost:       2,
		LedgePenalty:      3,
		DropPocketPenalty: 1,
	}
}

// Observer receives tracing statistics.
type Observer interface {
	RecordTracedNode()
	RecordTraceEdge(kind string)
}

// Option configures a Graph or Cache.
type Option func(*options)

type options struct {
	log      *zap.Logger
	settings Settings
	observer Observer
}

// WithLogger sets the logger used for tracing diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithSettings overrides the default edge weights.
func WithSettings(s Settings) Option {
	return func(o *options) { o.settings = s }
}

// WithObserver reports traced nodes and edges to obs.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

func newOptions(opts []Option) options {
	o := options{log: zap.NewNop(), settings: DefaultSettings()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Graph holds the dynamic edges of one static graph under one movement
// profile. Nodes are traced lazily on first request; TraceAll completes
// the incoming-edge lists needed by backward searches. Ensure, Out and
// TraceAll may be called from several goroutines; In is only stable once
// TraceAll has returned.
type Graph struct {
	static  *graph.Static
	profile movement.Profile
	gravity float64
	opts    options

	mu     sync.Mutex
	out    [][]graph.Edge
	in     [][]graph.Edge
	traced []bool

	tracedCount int
	edgeCount   int
	complete    bool
}

// New returns an untraced dynamic graph for static under profile.
func New(static *graph.Static, profile movement.Profile, opts ...Option) *Graph {
	n := static.Cells()
	g := &Graph{
		static:  static,
		profile: profile,
		gravity: static.Terrain().GravityAccel(),
		opts:    newOptions(opts),
		out:     make([][]graph.Edge, n),
		in:      make([][]graph.Edge, n),
		traced:  make([]bool, n),
	}
	if g.gravity <= 0 {
		g.opts.log.Warn("non-positive gravity, trajectories disabled", zap.Float64("gravity", g.gravity))
	}
	return g
}

// Static returns the static graph this graph extends.
func (g *Graph) Static() *graph.Static { return g.static }

// Profile returns the movement profile the edges were traced for.
func (g *Graph) Profile() movement.Profile { return g.profile }

// TracedCount returns how many nodes have been traced so far.
func (g *Graph) TracedCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tracedCount
}

// EdgeCount returns the number of outgoing dynamic edges discovered so far.
func (g *Graph) EdgeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.edgeCount
}

// Complete reports whether every node has been traced.
func (g *Graph) Complete() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.complete
}

// Ensure traces node i if it has not been traced yet.
func (g *Graph) Ensure(i int32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ensure(i)
}

func (g *Graph) ensure(i int32) {
	if g.traced[i] {
		return
	}
	g.traced[i] = true
	n := g.static.NodeAt(i)
	if n == nil {
		return
	}
	g.tracedCount++
	g.traceNode(i, n)
	if g.opts.observer != nil {
		g.opts.observer.RecordTracedNode()
	}
}

// TraceAll traces every node that has not been traced yet.
func (g *Graph) TraceAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.complete {
		return
	}
	g.static.ForEachNode(func(i int32, _ *graph.Node) {
		g.ensure(i)
	})
	g.complete = true
	g.opts.log.Debug("dynamic graph traced",
		zap.String("profile", g.profile.Name),
		zap.Int("nodes", g.tracedCount),
		zap.Int("edges", g.edgeCount))
}

// Out returns the dynamic edges leaving node i, tracing it first if needed.
func (g *Graph) Out(i int32) []graph.Edge {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ensure(i)
	return g.out[i]
}

// In returns the dynamic edges arriving at node i, including edges that
// only exist in the reverse direction. The list is only complete once
// TraceAll has run.
func (g *Graph) In(i int32) []graph.Edge {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.in[i]
}

func (g *Graph) addEdge(from, to int32, m graph.Move, weight float64) {
	if from == to {
		return
	}
	e := graph.Edge{From: from, To: to, Move: m, Weight: weight}
	added := upsert(&g.out[from], e)
	upsert(&g.in[to], e)
	if !added {
		return
	}
	g.edgeCount++
	if g.opts.observer != nil {
		g.opts.observer.RecordTraceEdge(m.Kind.String())
	}
}

// addIncoming records an edge that is only usable when searching backward.
func (g *Graph) addIncoming(from, to int32, m graph.Move, weight float64) {
	if from == to {
		return
	}
	upsert(&g.in[to], graph.Edge{From: from, To: to, Move: m, Weight: weight})
}

// upsert appends e, or lowers the weight of an existing edge with the same
// endpoints and move. It reports whether a new edge was appended.
func upsert(list *[]graph.Edge, e graph.Edge) bool {
	for k := range *list {
		cur := &(*list)[k]
		if cur.From == e.From && cur.To == e.To && cur.Move == e.Move {
			if e.Weight < cur.Weight {
				cur.Weight = e.Weight
			}
			return false
		}
	}
	*list = append(*list, e)
	return true
}
