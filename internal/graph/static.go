package graph

import (
	"go.uber.org/zap"

	"github.com/Faultbox/tilenav/pkg/terrain"
)

// Edge weights for geometry-derived moves.
const (
	weightStep     = 1.0
	weightDiagonal = 2.0
)

// Diagnostic records a content inconsistency found while building.
type Diagnostic struct {
	Pos     Pos
	Message string
}

// Static is the character-independent graph of one room layout. Nodes live
// in an arena indexed by y*width+x; edges refer to arena indices.
type Static struct {
	terrain Terrain
	width   int
	height  int

	nodes   []Node
	present []bool
	out     [][]Edge
	in      [][]Edge

	nodeCount   int
	edgeCount   int
	diagnostics []Diagnostic

	costPerTile float64
}

// Option configures Build.
type Option func(*builder)

// WithLogger routes build diagnostics to log.
func WithLogger(log *zap.Logger) Option {
	return func(b *builder) {
		if log != nil {
			b.log = log
		}
	}
}

type builder struct {
	log *zap.Logger
	g   *Static
}

// Build scans the terrain and returns its static graph. The outermost ring
// of tiles never holds nodes so every 3x3 neighbourhood lookup stays inside
// the grid.
func Build(t Terrain, opts ...Option) *Static {
	w, h := t.Size()
	b := &builder{
		log: zap.NewNop(),
		g: &Static{
			terrain: t,
			width:   w,
			height:  h,
			nodes:   make([]Node, w*h),
			present: make([]bool, w*h),
			out:     make([][]Edge, w*h),
			in:      make([][]Edge, w*h),
		},
	}
	for _, opt := range opts {
		opt(b)
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			node, ok := b.classify(x, y)
			if !ok {
				continue
			}
			node.Pos = Pos{X: x, Y: y}
			node.Pole = b.poleState(x, y)
			i := b.g.index(x, y)
			b.g.nodes[i] = node
			b.g.present[i] = true
			b.g.nodeCount++
		}
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			a := b.g.NodeAtXY(x, y)
			if a == nil {
				continue
			}
			if r := b.g.NodeAtXY(x+1, y); r != nil {
				b.horizontalPair(a, r)
			}
			if u := b.g.NodeAtXY(x, y+1); u != nil {
				b.verticalPair(a, u)
			}
			if d := b.g.NodeAtXY(x+1, y+1); d != nil {
				b.diagonalPair(a, d)
			}
			if d := b.g.NodeAtXY(x+1, y-1); d != nil {
				b.diagonalPair(a, d)
			}
			if a.Kind == NodeShortcut {
				b.shortcut(a)
			}
		}
	}

	b.g.costPerTile = 1
	for i := range b.g.out {
		for _, e := range b.g.out[i] {
			b.g.in[e.To] = append(b.g.in[e.To], e)
			d := b.g.PosOf(e.From).Distance(b.g.PosOf(e.To))
			if d > 0 && e.Weight/d < b.g.costPerTile {
				b.g.costPerTile = e.Weight / d
			}
		}
	}

	b.log.Debug("static graph built",
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Int("nodes", b.g.nodeCount),
		zap.Int("edges", b.g.edgeCount),
		zap.Int("diagnostics", len(b.g.diagnostics)))

	return b.g
}

func (b *builder) solid(x, y int) bool {
	return b.g.terrain.Kind(x, y) == terrain.Solid
}

// validSlope reports whether a slope tile can be stood on: open air above
// and not pinched between two solid tiles.
func (b *builder) validSlope(x, y int) bool {
	return b.g.terrain.Kind(x, y+1) == terrain.Air && !(b.solid(x-1, y) && b.solid(x+1, y))
}

func (b *builder) classify(x, y int) (Node, bool) {
	t := b.g.terrain
	switch t.Kind(x, y) {
	case terrain.Floor:
		return Node{Kind: NodeFloor, Platform: true}, true

	case terrain.Slope:
		if b.validSlope(x, y) {
			return Node{Kind: NodeSlope}, true
		}
		return Node{}, false

	case terrain.ShortcutEntrance:
		return b.shortcutNode(x, y)

	case terrain.Air:
		left, right := b.solid(x-1, y), b.solid(x+1, y)
		switch {
		case left && right,
			b.solid(x, y+1) && b.solid(x, y-1),
			b.solid(x-1, y-1) && b.solid(x+1, y-1) && b.solid(x-1, y+1) && b.solid(x+1, y+1):
			return Node{Kind: NodeCorridor}, true
		}

		switch below := t.Kind(x, y-1); {
		case below == terrain.Solid, below == terrain.ShortcutEntrance, below == terrain.Floor:
			return Node{Kind: NodeFloor}, true
		case below == terrain.Slope && !b.validSlope(x, y-1):
			return Node{Kind: NodeFloor}, true
		}

		if left != right {
			side := DirRight
			if left {
				side = DirLeft
			}
			return Node{Kind: NodeWall, SolidSide: side}, true
		}

		if v, h := t.Poles(x, y); v || h {
			return Node{Kind: NodeAir}, true
		}
	}
	return Node{}, false
}

func (b *builder) shortcutNode(x, y int) (Node, bool) {
	for i, sc := range b.g.terrain.Shortcuts() {
		if sc.Entrance.X != x || sc.Entrance.Y != y {
			continue
		}
		if sc.Type == terrain.ShortcutRoomExit {
			return Node{Kind: NodeRoomExit, Shortcut: i}, true
		}
		return Node{Kind: NodeShortcut, Shortcut: i}, true
	}
	b.diagnose(Pos{X: x, Y: y}, "shortcut entrance has no entry in the shortcut table")
	return Node{}, false
}

func (b *builder) poleState(x, y int) PoleState {
	t := b.g.terrain
	v, h := t.Poles(x, y)
	switch {
	case v && h:
		return PoleCross
	case v:
		return PoleVertical
	case h:
		return PoleHorizontal
	}
	if v, _ := t.Poles(x, y+1); v {
		return PoleAbove
	}
	if v, _ := t.Poles(x, y-1); v {
		return PoleBelow
	}
	return PoleNone
}

func crawlable(k NodeKind) bool {
	return k == NodeCorridor || k == NodeFloor || k == NodeShortcut || k == NodeRoomExit
}

// horizontalPair links a to r, its right-hand neighbour.
func (b *builder) horizontalPair(a, r *Node) {
	switch {
	case a.Kind.Standable() && r.Kind.Standable():
		b.link(a, r, MoveWalk, DirRight, weightStep)
	case (a.Kind == NodeCorridor || r.Kind == NodeCorridor) && crawlable(a.Kind) && crawlable(r.Kind):
		if a.Pole.HasHorizontal() && r.Pole.HasHorizontal() {
			b.link(a, r, MoveClimb, DirRight, weightStep)
		} else {
			b.link(a, r, MoveCrawl, DirRight, weightStep)
		}
	case a.Pole.HasHorizontal() && r.Pole.HasHorizontal():
		b.link(a, r, MoveClimb, DirRight, weightStep)
	}
}

// verticalPair links a to u, the node directly above it.
func (b *builder) verticalPair(a, u *Node) {
	switch {
	case a.Kind == NodeWall && u.Kind == NodeWall && a.SolidSide == u.SolidSide:
		b.link(a, u, MoveSlideOnWall, DirUp, weightStep)
	case a.Pole.HasVertical() && u.Pole.HasVertical():
		b.link(a, u, MoveClimb, DirUp, weightStep)
	case (a.Kind == NodeCorridor || u.Kind == NodeCorridor) && crawlable(a.Kind) && crawlable(u.Kind):
		b.link(a, u, MoveCrawl, DirUp, weightStep)
	case a.Kind.Standable() && a.Pole == PoleAbove && u.Pole.HasVertical():
		b.link(a, u, MoveClimb, DirUp, weightStep)
	}
}

// diagonalPair links a to d, a standable node one column to the right and
// one row up or down.
func (b *builder) diagonalPair(a, d *Node) {
	if !a.Kind.Standable() || !d.Kind.Standable() {
		return
	}
	if b.solid(d.Pos.X, a.Pos.Y) && b.solid(a.Pos.X, d.Pos.Y) {
		return
	}
	b.link(a, d, MoveWalk, DirRight, weightDiagonal)
}

func (b *builder) shortcut(a *Node) {
	links := b.g.terrain.Shortcuts()
	sc := links[a.Shortcut]
	dst := b.g.Node(sc.Destination)
	if dst == nil || dst.Kind != NodeShortcut {
		b.diagnose(a.Pos, "shortcut destination is not a shortcut entrance",
			zap.Stringer("destination", sc.Destination))
		return
	}
	b.add(a, dst, Move{Kind: MoveShortcut}, float64(sc.Length))
}

// link adds the edge a->b and its mirror b->a.
func (b *builder) link(a, c *Node, kind MoveKind, dir Direction, weight float64) {
	b.add(a, c, Move{Kind: kind, Dir: dir}, weight)
	b.add(c, a, Move{Kind: kind, Dir: dir.Opposite()}, weight)
}

func (b *builder) add(from, to *Node, m Move, weight float64) {
	fi := b.g.index(from.Pos.X, from.Pos.Y)
	ti := b.g.index(to.Pos.X, to.Pos.Y)
	b.g.out[fi] = append(b.g.out[fi], Edge{From: fi, To: ti, Move: m, Weight: weight})
	b.g.edgeCount++
}

func (b *builder) diagnose(p Pos, msg string, fields ...zap.Field) {
	b.g.diagnostics = append(b.g.diagnostics, Diagnostic{Pos: p, Message: msg})
	b.log.Error(msg, append([]zap.Field{zap.Int("x", p.X), zap.Int("y", p.Y)}, fields...)...)
}

func (s *Static) index(x, y int) int32 {
	return int32(y*s.width + x)
}

// Terrain returns the terrain the graph was built from.
func (s *Static) Terrain() Terrain { return s.terrain }

// Width returns the room width in tiles.
func (s *Static) Width() int { return s.width }

// Height returns the room height in tiles.
func (s *Static) Height() int { return s.height }

// Cells returns the arena size, width*height.
func (s *Static) Cells() int { return s.width * s.height }

// NodeCount returns the number of nodes.
func (s *Static) NodeCount() int { return s.nodeCount }

// EdgeCount returns the number of directed edges.
func (s *Static) EdgeCount() int { return s.edgeCount }

// Diagnostics returns content inconsistencies found during the build.
func (s *Static) Diagnostics() []Diagnostic { return s.diagnostics }

// CostPerTile returns the lowest weight per tile of straight-line distance
// over all static edges, capped at 1. Shortcuts can make it smaller; a
// distance heuristic scaled by it never overestimates.
func (s *Static) CostPerTile() float64 { return s.costPerTile }

// InBounds reports whether p is inside the room.
func (s *Static) InBounds(p Pos) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < s.width && p.Y < s.height
}

// Index returns the arena index of p, or -1 if p is outside the room.
func (s *Static) Index(p Pos) int32 {
	if !s.InBounds(p) {
		return -1
	}
	return s.index(p.X, p.Y)
}

// PosOf returns the tile position of an arena index.
func (s *Static) PosOf(i int32) Pos {
	return Pos{X: int(i) % s.width, Y: int(i) / s.width}
}

// Node returns the node at p, or nil if the tile has none.
func (s *Static) Node(p Pos) *Node {
	return s.NodeAtXY(p.X, p.Y)
}

// NodeAtXY returns the node at (x, y), or nil if the tile has none.
func (s *Static) NodeAtXY(x, y int) *Node {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return nil
	}
	i := s.index(x, y)
	if !s.present[i] {
		return nil
	}
	return &s.nodes[i]
}

// NodeAt returns the node at an arena index, or nil.
func (s *Static) NodeAt(i int32) *Node {
	if i < 0 || int(i) >= len(s.nodes) || !s.present[i] {
		return nil
	}
	return &s.nodes[i]
}

// Out returns the static edges leaving arena index i.
func (s *Static) Out(i int32) []Edge {
	return s.out[i]
}

// In returns the static edges arriving at arena index i.
func (s *Static) In(i int32) []Edge {
	return s.in[i]
}

// ForEachNode calls fn for every node in arena order.
func (s *Static) ForEachNode(fn func(i int32, n *Node)) {
	for i := range s.nodes {
		if s.present[i] {
			fn(int32(i), &s.nodes[i])
		}
	}
}
