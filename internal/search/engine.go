// Package search finds routes over the union of a room's static graph and a
// profile's dynamic graph. An Engine is a resumable state machine: Run drives
// a search to completion while RunFor advances it a bounded number of
// expansions per call.
package search

import (
	"container/heap"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/tilenav/internal/graph"
	"github.com/Faultbox/tilenav/internal/trace"
)

// Search errors. Expected absence (no node, no path) is never an error.
var (
	ErrHeapCorrupt        = errors.New("open set heap invariant violated")
	ErrDanglingEdge       = errors.New("edge points to a tile without a node")
	ErrUnresolvedDismount = errors.New("cannot resolve climb to walk dismount")
	ErrNotStarted         = errors.New("search not started")
	ErrInProgress         = errors.New("search still in progress")
)

// State is the engine lifecycle.
type State uint8

// Engine states.
const (
	Uninitialized State = iota
	Searching
	Finished
)

// String returns a human-readable state.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Searching:
		return "Searching"
	case Finished:
		return "Finished"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// Mode selects how a search is initiated and when it terminates.
type Mode uint8

// Search modes.
const (
	Forward  Mode = iota // From a start to a fixed goal over outgoing edges
	Backward             // From a goal to any candidate start over incoming edges
	Until                // From a start until a predicate accepts a node
)

// String returns a human-readable mode.
func (m Mode) String() string {
	switch m {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Until:
		return "until"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// Predicate reports whether a popped node is an acceptable destination.
type Predicate func(n *graph.Node) bool

// Recorder receives search outcomes.
type Recorder interface {
	RecordSearch(mode, outcome string, expansions int)
}

// Search outcomes passed to Recorder.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for search diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithRecorder reports every finished search to r.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithMaxExpansions stops a search as not found after n expansions.
// Zero means unbounded.
func WithMaxExpansions(n int) Option {
	return func(e *Engine) { e.maxExpansions = n }
}

// WithHeuristicWeight scales the distance heuristic. Weights above 1 trade
// optimality for fewer expansions.
func WithHeuristicWeight(w float64) Option {
	return func(e *Engine) { e.weight = w }
}

// WithExpandHook calls fn with every node the search expands.
func WithExpandHook(fn func(graph.Pos)) Option {
	return func(e *Engine) { e.hook = fn }
}

// Engine searches one dynamic graph. It reuses its node pool and membership
// grids across searches and is not safe for concurrent use.
type Engine struct {
	static  *graph.Static
	dynamic *trace.Graph

	log           *zap.Logger
	recorder      Recorder
	maxExpansions int
	weight        float64
	hook          func(graph.Pos)

	pool    []searchNode
	gen     uint32
	open    openHeap
	opened  *BitGrid
	closed  *BitGrid
	targets *BitGrid

	state      State
	mode       Mode
	origin     int32
	goal       int32
	aims       []graph.Pos
	until      Predicate
	expansions int

	found int32
	path  *Path
	err   error
}

// New returns an engine over dynamic and the static graph it extends.
func New(dynamic *trace.Graph, opts ...Option) *Engine {
	s := dynamic.Static()
	e := &Engine{
		static:  s,
		dynamic: dynamic,
		log:     zap.NewNop(),
		weight:  1,
		pool:    make([]searchNode, s.Cells()),
		opened:  NewBitGrid(s.Cells()),
		closed:  NewBitGrid(s.Cells()),
		targets: NewBitGrid(s.Cells()),
		found:   -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Graph returns the dynamic graph the engine searches.
func (e *Engine) Graph() *trace.Graph { return e.dynamic }

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// Mode returns the mode of the current or last search.
func (e *Engine) Mode() Mode { return e.mode }

// Expansions returns the number of nodes expanded by the current search.
func (e *Engine) Expansions() int { return e.expansions }

// BeginForward starts a search from start to goal.
func (e *Engine) BeginForward(start, goal graph.Pos) {
	e.reset(Forward)
	e.aims = append(e.aims, goal)
	s, g := e.nodeIndex(start), e.nodeIndex(goal)
	if s < 0 || g < 0 {
		e.finish(-1)
		return
	}
	e.origin, e.goal = s, g
	e.targets.Set(g)
	e.push(s)
}

// BeginBackward starts a search from goal over incoming edges that ends at
// the first of starts it reaches. The dynamic graph is traced completely
// first since incoming edges are only known once every node is traced.
func (e *Engine) BeginBackward(goal graph.Pos, starts []graph.Pos) {
	e.reset(Backward)
	g := e.nodeIndex(goal)
	for _, p := range starts {
		if i := e.nodeIndex(p); i >= 0 {
			e.targets.Set(i)
			e.aims = append(e.aims, p)
		}
	}
	if g < 0 || len(e.aims) == 0 {
		e.finish(-1)
		return
	}
	e.dynamic.TraceAll()
	e.origin, e.goal = g, g
	e.push(g)
}

// BeginUntil starts a search from start that ends at the first expanded
// node accepted by pred.
func (e *Engine) BeginUntil(start graph.Pos, pred Predicate) {
	e.reset(Until)
	e.until = pred
	s := e.nodeIndex(start)
	if s < 0 || pred == nil {
		e.finish(-1)
		return
	}
	e.origin = s
	e.push(s)
}

// Step expands one node and reports whether the search has finished.
func (e *Engine) Step() bool {
	switch e.state {
	case Uninitialized:
		e.err = ErrNotStarted
		return true
	case Finished:
		return true
	}

	if e.open.Len() == 0 {
		e.finish(-1)
		return true
	}
	if e.maxExpansions > 0 && e.expansions >= e.maxExpansions {
		e.log.Debug("search expansion limit reached",
			zap.Stringer("mode", e.mode),
			zap.Int("expansions", e.expansions))
		e.finish(-1)
		return true
	}

	if !e.open.holds(e.open[0]) {
		e.fail(ErrHeapCorrupt, e.open[0].index)
		return true
	}
	cur := heap.Pop(&e.open).(*searchNode)
	e.opened.Clear(cur.index)
	e.closed.Set(cur.index)
	e.expansions++
	if e.hook != nil {
		e.hook(e.static.PosOf(cur.index))
	}

	if e.accepts(cur.index) {
		e.finish(cur.index)
		return true
	}
	e.relax(cur)
	return e.state == Finished
}

// RunFor expands at most n nodes and reports whether the search finished.
func (e *Engine) RunFor(n int) bool {
	for k := 0; k < n; k++ {
		if e.Step() {
			return true
		}
	}
	return e.state == Finished
}

// Run drives the search to completion and returns its result.
func (e *Engine) Run() (*Path, error) {
	for !e.Step() {
	}
	return e.Result()
}

// Result returns the path of a finished search. A nil path with a nil error
// means no route exists.
func (e *Engine) Result() (*Path, error) {
	switch e.state {
	case Uninitialized:
		return nil, ErrNotStarted
	case Searching:
		return nil, ErrInProgress
	}
	return e.path, e.err
}

// Destination returns the tile a finished search ended on.
func (e *Engine) Destination() (graph.Pos, bool) {
	if e.state != Finished || e.found < 0 {
		return graph.Pos{}, false
	}
	return e.static.PosOf(e.found), true
}

func (e *Engine) reset(mode Mode) {
	e.gen++
	if e.gen == 0 {
		for i := range e.pool {
			e.pool[i].gen = 0
		}
		e.gen = 1
	}
	for _, n := range e.open {
		n.slot = -1
	}
	e.open = e.open[:0]
	e.opened.Reset()
	e.closed.Reset()
	e.targets.Reset()

	e.state = Searching
	e.mode = mode
	e.origin, e.goal = -1, -1
	e.aims = e.aims[:0]
	e.until = nil
	e.expansions = 0
	e.found = -1
	e.path = nil
	e.err = nil
}

// nodeIndex returns the arena index of the node at p, or -1.
func (e *Engine) nodeIndex(p graph.Pos) int32 {
	if e.static.Node(p) == nil {
		return -1
	}
	return e.static.Index(p)
}

// node returns the pooled search node for arena index i, resetting it if it
// belongs to an earlier search.
func (e *Engine) node(i int32) *searchNode {
	n := &e.pool[i]
	if n.gen != e.gen {
		*n = searchNode{index: i, gen: e.gen, parent: -1, slot: -1}
	}
	return n
}

func (e *Engine) push(i int32) {
	n := e.node(i)
	n.h = e.heuristic(i)
	n.f = n.g + n.h
	heap.Push(&e.open, n)
	e.opened.Set(i)
}

func (e *Engine) accepts(i int32) bool {
	if e.mode == Until {
		return e.until(e.static.NodeAt(i))
	}
	return e.targets.Has(i)
}

// heuristic is the straight-line distance to the nearest aim, scaled so it
// never exceeds the cheapest static cost per tile.
func (e *Engine) heuristic(i int32) float64 {
	if len(e.aims) == 0 {
		return 0
	}
	p := e.static.PosOf(i)
	best := p.Distance(e.aims[0])
	for _, a := range e.aims[1:] {
		if d := p.Distance(a); d < best {
			best = d
		}
	}
	return best * e.static.CostPerTile() * e.weight
}

func (e *Engine) relax(cur *searchNode) {
	var lists [2][]graph.Edge
	if e.mode == Backward {
		lists = [2][]graph.Edge{e.static.In(cur.index), e.dynamic.In(cur.index)}
	} else {
		lists = [2][]graph.Edge{e.static.Out(cur.index), e.dynamic.Out(cur.index)}
	}

	for _, edges := range lists {
		for _, edge := range edges {
			next := edge.To
			if e.mode == Backward {
				next = edge.From
			}
			if e.closed.Has(next) {
				continue
			}
			if e.static.NodeAt(next) == nil {
				e.fail(ErrDanglingEdge, next)
				return
			}

			g := cur.g + edge.Weight
			if !e.opened.Has(next) {
				n := e.node(next)
				n.g = g
				n.parent = cur.index
				n.move = edge.Move
				e.push(next)
				continue
			}

			n := e.node(next)
			if g >= n.g {
				continue
			}
			if !e.open.holds(n) {
				e.fail(ErrHeapCorrupt, next)
				return
			}
			n.g = g
			n.f = g + n.h
			n.parent = cur.index
			n.move = edge.Move
			heap.Fix(&e.open, n.slot)
		}
	}
}

func (e *Engine) finish(found int32) {
	e.state = Finished
	e.found = found
	outcome := OutcomeNotFound

	if found >= 0 {
		path, err := e.reconstruct(found)
		if err != nil {
			e.err = err
			e.found = -1
			outcome = OutcomeError
		} else {
			e.path = path
			outcome = OutcomeFound
		}
	}

	e.log.Debug("search finished",
		zap.Stringer("mode", e.mode),
		zap.String("outcome", outcome),
		zap.Int("expansions", e.expansions))
	if e.recorder != nil {
		e.recorder.RecordSearch(e.mode.String(), outcome, e.expansions)
	}
}

// fail aborts the search on an internal defect.
func (e *Engine) fail(err error, at int32) {
	p := e.static.PosOf(at)
	e.log.Error("search aborted",
		zap.Error(err),
		zap.Stringer("mode", e.mode),
		zap.Int("x", p.X),
		zap.Int("y", p.Y),
		zap.Int("open", e.open.Len()),
		zap.Int("expansions", e.expansions))
	e.state = Finished
	e.found = -1
	e.err = err
	if e.recorder != nil {
		e.recorder.RecordSearch(e.mode.String(), OutcomeError, e.expansions)
	}
}

// FindPath runs a forward search from start to goal.
func FindPath(dynamic *trace.Graph, start, goal graph.Pos, opts ...Option) (*Path, error) {
	e := New(dynamic, opts...)
	e.BeginForward(start, goal)
	return e.Run()
}

// FindPathBackward runs a backward search from goal and returns the path
// from the first reachable candidate start.
func FindPathBackward(dynamic *trace.Graph, goal graph.Pos, starts []graph.Pos, opts ...Option) (*Path, error) {
	e := New(dynamic, opts...)
	e.BeginBackward(goal, starts)
	return e.Run()
}

// FindPathUntil runs a forward search from start until pred accepts a node
// and returns that node's position with the path to it.
func FindPathUntil(dynamic *trace.Graph, start graph.Pos, pred Predicate, opts ...Option) (graph.Pos, *Path, error) {
	e := New(dynamic, opts...)
	e.BeginUntil(start, pred)
	path, err := e.Run()
	if path == nil {
		return graph.Pos{}, nil, err
	}
	dst, _ := e.Destination()
	return dst, path, err
}
