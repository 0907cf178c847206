package trace

import (
	stdmath "math"

	"github.com/Faultbox/tilenav/internal/graph"
	"github.com/Faultbox/tilenav/pkg/math"
	"github.com/Faultbox/tilenav/pkg/movement"
	"github.com/Faultbox/tilenav/pkg/terrain"
)

const eps = 1e-9

// arc is the closed-form parabola y(t) = v0.y*t - 0.5*g*t^2 + y0 with
// constant horizontal speed.
type arc struct {
	origin math.Vec2
	vel    math.Vec2
	g      float64
	row    int // Launch tile row
}

func (a arc) x(t float64) float64 {
	return a.origin.X + a.vel.X*t
}

func (a arc) y(t float64) float64 {
	return a.origin.Y + a.vel.Y*t - 0.5*a.g*t*t
}

func (a arc) vy(t float64) float64 {
	return a.vel.Y - a.g*t
}

// rising returns the time after `after` at which the arc climbs through
// height h, or +Inf.
func (a arc) rising(h, after float64) float64 {
	disc := a.vel.Y*a.vel.Y - 2*a.g*(h-a.origin.Y)
	if disc <= eps {
		return stdmath.Inf(1)
	}
	t := (a.vel.Y - stdmath.Sqrt(disc)) / a.g
	if t <= after+eps {
		return stdmath.Inf(1)
	}
	return t
}

// falling returns the time after `after` at which the arc descends
// through height h, or +Inf.
func (a arc) falling(h, after float64) float64 {
	disc := a.vel.Y*a.vel.Y - 2*a.g*(h-a.origin.Y)
	if disc < 0 {
		return stdmath.Inf(1)
	}
	t := (a.vel.Y + stdmath.Sqrt(disc)) / a.g
	if t <= after+eps {
		return stdmath.Inf(1)
	}
	return t
}

// next returns the time at which the arc leaves tile (cx, cy) after time t
// and the tile offset it moves into. Both offsets are set when a corner is
// crossed exactly.
func (a arc) next(cx, cy int, t float64) (float64, int, int) {
	tx := stdmath.Inf(1)
	dx := 0
	switch {
	case a.vel.X > 0:
		tx = (float64(cx+1)*TileSize - a.origin.X) / a.vel.X
		dx = 1
	case a.vel.X < 0:
		tx = (float64(cx)*TileSize - a.origin.X) / a.vel.X
		dx = -1
	}

	ty := a.rising(float64(cy+1)*TileSize, t)
	dy := 1
	if down := a.falling(float64(cy)*TileSize, t); down < ty {
		ty, dy = down, -1
	}

	switch {
	case stdmath.Abs(tx-ty) <= eps:
		return tx, dx, dy
	case tx < ty:
		return tx, dx, 0
	default:
		return ty, 0, dy
	}
}

// traceArc simulates a launch from node n in direction dir and records the
// edges it discovers. boost is added to every emitted weight.
func (g *Graph) traceArc(from int32, n *graph.Node, c movement.Category, dir graph.Direction, kind graph.MoveKind, boost float64) {
	if g.gravity <= 0 {
		return
	}
	vel := g.profile.Launch(c, dir.Dx())
	if vel.IsZero() {
		return
	}

	a := arc{origin: n.Pos.Center(TileSize), vel: vel, g: g.gravity, row: n.Pos.Y}
	move := graph.Move{Kind: kind, Dir: graph.Horizontal(math.Sign(vel.X))}
	w, h := g.static.Width(), g.static.Height()
	maxSteps := 4 * (w + h)

	cx, cy := n.Pos.X, n.Pos.Y
	t := 0.0
	dist := 0

	for step := 0; step < maxSteps; step++ {
		nt, dx, dy := a.next(cx, cy, t)
		if stdmath.IsInf(nt, 1) {
			return
		}
		cx += dx
		cy += dy
		t = nt
		dist += math.Abs(dx) + math.Abs(dy)

		if cx < 1 || cy < 1 || cx >= w-1 || cy >= h-1 {
			return
		}
		if !g.enterCell(from, a, move, cx, cy, t, dx != 0, dist, boost) {
			return
		}
	}
}

// enterCell handles the arc entering tile (cx, cy) at time t and reports
// whether the scan continues.
func (g *Graph) enterCell(from int32, a arc, move graph.Move, cx, cy int, t float64, sideways bool, dist int, boost float64) bool {
	to := g.static.Index(math.Pt(cx, cy))
	n := g.static.NodeAt(to)
	weight := float64(dist) + 1 + boost

	if n == nil {
		k := g.static.Terrain().Kind(cx, cy)
		return k == terrain.Air || k == terrain.Floor
	}

	switch {
	case n.Kind.Standable():
		if a.vy(t) <= 0 {
			g.addEdge(from, to, move, weight)
			return false
		}
		// Rising into the side of a ledge grabs it, except on the launch
		// row where the feet are already level with the floor.
		if sideways && cy != a.row && g.static.Terrain().Kind(cx, cy-1) == terrain.Solid {
			ledge := graph.Move{Kind: move.Kind.OntoLedge(), Dir: move.Dir}
			g.addEdge(from, to, ledge, float64(dist)+g.opts.settings.LedgePenalty+boost)
			return false
		}
		g.addIncoming(from, to, move, weight)
		// A slope stops a rising arc it does not land on.
		return n.Kind != graph.NodeSlope

	case n.Kind == graph.NodeCorridor, n.Kind == graph.NodeShortcut, n.Kind == graph.NodeRoomExit:
		return false

	case n.Kind == graph.NodeWall && n.SolidSide == move.Dir:
		g.addEdge(from, to, move, weight)
		return false

	case n.Pole == graph.PoleCross:
		g.addEdge(from, to, move, weight)
		return true

	case n.Pole == graph.PoleVertical:
		if g.crossesPoleCenter(a, cx, cy, t) {
			g.addEdge(from, to, move, weight)
		} else {
			g.addIncoming(from, to, move, weight)
		}
		return true

	case n.Pole == graph.PoleHorizontal:
		poleY := (float64(cy) + 0.5) * TileSize
		exit, _, _ := a.next(cx, cy, t)
		entryY, exitY := a.y(t), a.y(exit)
		if stdmath.IsInf(exit, 1) {
			exitY = entryY
		}
		if (entryY-poleY)*(exitY-poleY) <= 0 {
			g.addEdge(from, to, move, weight+1)
		} else {
			g.addIncoming(from, to, move, weight)
		}
		return true
	}

	g.addIncoming(from, to, move, weight)
	return true
}

// crossesPoleCenter reports whether the arc's height at the tile's
// horizontal centre lies inside the tile's vertical span.
func (g *Graph) crossesPoleCenter(a arc, cx, cy int, t float64) bool {
	y := a.y(t)
	if a.vel.X != 0 {
		tc := ((float64(cx)+0.5)*TileSize - a.origin.X) / a.vel.X
		y = a.y(tc)
	}
	bottom := float64(cy) * TileSize
	return y >= bottom && y < bottom+TileSize
}
