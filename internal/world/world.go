// Package world owns rooms: their terrain, the static graph built from it,
// and the per-profile dynamic graphs shared by agents in the room.
package world

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/tilenav/internal/graph"
	"github.com/Faultbox/tilenav/internal/search"
	"github.com/Faultbox/tilenav/internal/trace"
	"github.com/Faultbox/tilenav/pkg/math"
	"github.com/Faultbox/tilenav/pkg/movement"
	"github.com/Faultbox/tilenav/pkg/terrain"
)

// ErrUnknownRoom is returned when switching to a room that is not loaded.
var ErrUnknownRoom = errors.New("unknown room")

// BuildObserver receives static graph build statistics.
type BuildObserver interface {
	RecordStaticBuild(elapsed time.Duration, nodes, edges, diagnostics int)
}

// Option configures rooms.
type Option func(*roomOptions)

type roomOptions struct {
	log       *zap.Logger
	cacheSize int
	cacheObs  trace.CacheObserver
	buildObs  BuildObserver
	traceOpts []trace.Option
}

// WithLogger sets the logger rooms hand to their builders.
func WithLogger(log *zap.Logger) Option {
	return func(o *roomOptions) {
		if log != nil {
			o.log = log
		}
	}
}

// WithCacheSize bounds the number of dynamic graphs kept per room.
func WithCacheSize(n int) Option {
	return func(o *roomOptions) { o.cacheSize = n }
}

// WithCacheObserver reports dynamic graph cache lookups.
func WithCacheObserver(obs trace.CacheObserver) Option {
	return func(o *roomOptions) { o.cacheObs = obs }
}

// WithBuildObserver reports static graph builds.
func WithBuildObserver(obs BuildObserver) Option {
	return func(o *roomOptions) { o.buildObs = obs }
}

// WithTraceOptions passes options to every dynamic graph a room creates.
func WithTraceOptions(opts ...trace.Option) Option {
	return func(o *roomOptions) { o.traceOpts = append(o.traceOpts, opts...) }
}

// Room is one loaded level. The static graph and dynamic cache are replaced
// together when the layout changes; searches only read them.
type Room struct {
	Name string

	mu         sync.RWMutex
	grid       *terrain.Grid
	static     *graph.Static
	cache      *trace.Cache
	generation uint64

	opts roomOptions
}

// NewRoom builds the static graph for grid.
func NewRoom(name string, grid *terrain.Grid, opts ...Option) *Room {
	o := roomOptions{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	r := &Room{Name: name, grid: grid, opts: o}
	r.static = r.build()
	r.cache = trace.NewCache(r.static, o.cacheSize, o.cacheObs, r.traceOptions()...)
	return r
}

func (r *Room) traceOptions() []trace.Option {
	return append([]trace.Option{trace.WithLogger(r.opts.log)}, r.opts.traceOpts...)
}

func (r *Room) build() *graph.Static {
	start := time.Now()
	s := graph.Build(r.grid, graph.WithLogger(r.opts.log))
	if r.opts.buildObs != nil {
		r.opts.buildObs.RecordStaticBuild(time.Since(start), s.NodeCount(), s.EdgeCount(), len(s.Diagnostics()))
	}
	r.opts.log.Info("room graph built",
		zap.String("room", r.Name),
		zap.Int("nodes", s.NodeCount()),
		zap.Int("edges", s.EdgeCount()),
		zap.Duration("elapsed", time.Since(start)))
	return s
}

// Grid returns the room terrain.
func (r *Room) Grid() *terrain.Grid {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.grid
}

// Static returns the current static graph.
func (r *Room) Static() *graph.Static {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.static
}

// Generation increases every time the layout is rebuilt.
func (r *Room) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// Dynamic returns the shared dynamic graph for profile. Engines built on
// it may run in separate goroutines.
func (r *Room) Dynamic(profile movement.Profile) *trace.Graph {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cache.Get(profile)
}

// Engine returns a new search engine for profile.
func (r *Room) Engine(profile movement.Profile, opts ...search.Option) *search.Engine {
	opts = append([]search.Option{search.WithLogger(r.opts.log)}, opts...)
	return search.New(r.Dynamic(profile), opts...)
}

// FindPath runs a forward search to completion.
func (r *Room) FindPath(profile movement.Profile, start, goal graph.Pos, opts ...search.Option) (*search.Path, error) {
	e := r.Engine(profile, opts...)
	e.BeginForward(start, goal)
	return e.Run()
}

// UpdateLayout applies edit to the terrain and rebuilds every graph.
func (r *Room) UpdateLayout(edit func(g *terrain.Grid)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	edit(r.grid)
	r.static = r.build()
	r.cache.Invalidate(r.static)
	r.generation++
}

// IsStandable reports whether an agent can stand on tile p.
func (r *Room) IsStandable(p graph.Pos) bool {
	n := r.Static().Node(p)
	return n != nil && n.Kind.Standable()
}

// WorldToTile converts world coordinates to a tile position.
func WorldToTile(v math.Vec2) graph.Pos {
	return math.Pt(int(v.X/trace.TileSize), int(v.Y/trace.TileSize))
}

// TileToWorld converts a tile position to world coordinates (center of tile).
func TileToWorld(p graph.Pos) math.Vec2 {
	return p.Center(trace.TileSize)
}

// Manager holds the loaded rooms and the one agents are currently in.
type Manager struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	current *Room
	loading bool
	opts    []Option
}

// NewManager creates a new room manager. opts apply to every room it loads.
func NewManager(opts ...Option) *Manager {
	return &Manager{
		rooms: make(map[string]*Room),
		opts:  opts,
	}
}

// LoadRoom reads a room file, builds it and makes it current.
func (m *Manager) LoadRoom(path string) (*Room, error) {
	m.mu.Lock()
	m.loading = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
	}()

	rf, err := terrain.LoadRoom(path)
	if err != nil {
		return nil, fmt.Errorf("loading room %s: %w", path, err)
	}
	name := rf.Name
	if name == "" {
		name = path
	}

	room := NewRoom(name, rf.Grid, m.opts...)
	m.Add(room)
	return room, nil
}

// Add registers room and makes it current.
func (m *Manager) Add(room *Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[room.Name] = room
	m.current = room
}

// Get returns a loaded room by name.
func (m *Manager) Get(name string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[name]
	return r, ok
}

// Current returns the current room.
func (m *Manager) Current() *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Switch makes a loaded room current.
func (m *Manager) Switch(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRoom, name)
	}
	m.current = r
	return nil
}

// Names returns the loaded room names in sorted order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.rooms))
	for name := range m.rooms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsLoading returns whether a room is currently loading.
func (m *Manager) IsLoading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}
