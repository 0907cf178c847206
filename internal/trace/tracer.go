package trace

import (
	"github.com/Faultbox/tilenav/internal/graph"
	"github.com/Faultbox/tilenav/pkg/movement"
	"github.com/Faultbox/tilenav/pkg/terrain"
)

var sides = [2]graph.Direction{graph.DirLeft, graph.DirRight}

// traceNode emits every dynamic edge that starts at node n.
func (g *Graph) traceNode(i int32, n *graph.Node) {
	switch {
	case n.Kind.Standable():
		g.traceFloor(i, n)
	case n.Kind == graph.NodeCorridor:
		g.traceCorridor(i, n)
	case n.Kind == graph.NodeWall:
		g.traceWall(i, n)
	}

	if n.Kind == graph.NodeAir || n.Kind == graph.NodeWall {
		g.tracePoles(i, n)
	}

	if g.canDrop(n) {
		g.traceDrop(i, n)
	}
}

// suppressed reports whether launching toward dir would push into the wall
// the agent is pinned against.
func (g *Graph) suppressed(n *graph.Node, dir graph.Direction) bool {
	if n.Kind == graph.NodeWall && n.SolidSide == dir {
		return true
	}
	below := g.static.Node(n.Pos.Below())
	return below != nil && below.Kind == graph.NodeWall && below.SolidSide == dir
}

// wallAhead reports whether the tile diagonally below and ahead is a wall
// node, meaning n sits at the lip of a ledge.
func (g *Graph) wallAhead(n *graph.Node, dir graph.Direction) bool {
	if ahead := g.static.Node(n.Pos.Add(dir.Dx(), 0)); ahead != nil && ahead.Kind.Standable() {
		return false
	}
	diag := g.static.Node(n.Pos.Add(dir.Dx(), -1))
	return diag != nil && diag.Kind == graph.NodeWall
}

// openEdge reports whether the floor simply ends toward dir over open air.
func (g *Graph) openEdge(n *graph.Node, dir graph.Direction) bool {
	t := g.static.Terrain()
	x := n.Pos.X + dir.Dx()
	if t.Kind(x, n.Pos.Y) != terrain.Air || g.static.NodeAtXY(x, n.Pos.Y) != nil {
		return false
	}
	return t.Kind(x, n.Pos.Y-1) == terrain.Air && g.static.NodeAtXY(x, n.Pos.Y-1) == nil
}

func (g *Graph) traceFloor(i int32, n *graph.Node) {
	for _, dir := range sides {
		if g.suppressed(n, dir) {
			continue
		}
		g.traceArc(i, n, movement.FloorJump, dir, graph.MoveJump, 0)
		switch {
		case g.wallAhead(n, dir):
			g.traceArc(i, n, movement.WalkOff, dir, graph.MoveWalkOffEdge, 0)
			g.traceArc(i, n, movement.Pounce, dir, graph.MovePounce, g.opts.settings.PounceBoost)
		case g.openEdge(n, dir):
			g.traceArc(i, n, movement.WalkOff, dir, graph.MoveWalkOffEdge, 0)
		}
	}
	g.traceJumpUp(i, n)
}

func (g *Graph) traceCorridor(i int32, n *graph.Node) {
	t := g.static.Terrain()
	for _, dir := range sides {
		x := n.Pos.X + dir.Dx()
		if g.static.NodeAtXY(x, n.Pos.Y) != nil || t.Kind(x, n.Pos.Y) != terrain.Air {
			continue
		}
		g.traceArc(i, n, movement.CorridorFall, dir, graph.MoveWalkOffEdge, 0)
	}
}

// traceWall emits the wall jump away from a wall the agent is sliding on.
// The node above must be part of the same wall so a jump off the very
// bottom of a ledge is not produced.
func (g *Graph) traceWall(i int32, n *graph.Node) {
	below := g.static.Node(n.Pos.Below())
	above := g.static.Node(n.Pos.Above())
	if below == nil || below.Kind != graph.NodeWall || below.SolidSide != n.SolidSide {
		return
	}
	if above == nil || above.Kind != graph.NodeWall {
		return
	}
	g.traceArc(i, n, movement.WallJump, n.SolidSide.Opposite(), graph.MoveJump, 0)
}

func (g *Graph) tracePoles(i int32, n *graph.Node) {
	if n.Pole.HasVertical() && g.airBelow(n) {
		for _, dir := range sides {
			if !g.suppressed(n, dir) {
				g.traceArc(i, n, movement.PoleJumpVertical, dir, graph.MoveJump, 0)
			}
		}
	}
	if n.Pole.HasHorizontal() {
		for _, dir := range sides {
			if g.suppressed(n, dir) {
				continue
			}
			g.traceArc(i, n, movement.PoleJumpHorizontal, dir, graph.MoveJump, 0)
			if g.wallAhead(n, dir) {
				g.traceArc(i, n, movement.WalkOff, dir, graph.MoveWalkOffEdge, 0)
			}
		}
	}
}

// airBelow reports whether the tile under n is open air or a wall-side
// air tile, not floor or corridor.
func (g *Graph) airBelow(n *graph.Node) bool {
	below := g.static.Node(n.Pos.Below())
	if below == nil {
		return g.static.Terrain().Kind(n.Pos.X, n.Pos.Y-1) == terrain.Air
	}
	return below.Kind == graph.NodeAir || below.Kind == graph.NodeWall
}

func (g *Graph) canDrop(n *graph.Node) bool {
	t := g.static.Terrain()
	below := t.Kind(n.Pos.X, n.Pos.Y-1)
	switch n.Kind {
	case graph.NodeCorridor:
		return below == terrain.Air && g.static.Node(n.Pos.Below()) == nil
	case graph.NodeAir, graph.NodeFloor, graph.NodeSlope:
		return below == terrain.Air || below == terrain.Floor
	case graph.NodeWall:
		// Letting go of a pole that runs along a wall.
		return n.Pole.HasVertical() && (below == terrain.Air || below == terrain.Floor)
	}
	return false
}
