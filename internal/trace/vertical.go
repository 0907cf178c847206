package trace

import (
	"github.com/Faultbox/tilenav/internal/graph"
	"github.com/Faultbox/tilenav/pkg/movement"
	"github.com/Faultbox/tilenav/pkg/terrain"
)

// traceJumpUp scans the column above a standable node up to the apex of a
// straight floor jump. Ledges on either side are grabbed; corridors,
// vertical poles and platforms end the jump on the tile itself.
func (g *Graph) traceJumpUp(from int32, n *graph.Node) {
	if g.gravity <= 0 {
		return
	}
	vy := g.profile.Launch(movement.FloorJump, 0).Y
	if vy <= 0 {
		return
	}
	apex := n.Pos.Center(TileSize).Y + 0.5*vy*vy/g.gravity
	t := g.static.Terrain()
	ledge := graph.Move{Kind: graph.MoveJumpUpOntoLedge}
	up := graph.Move{Kind: graph.MoveJumpUp, Dir: graph.DirUp}
	grabbed := [2]bool{}

	for cy := n.Pos.Y + 1; float64(cy)*TileSize <= apex && cy < g.static.Height()-1; cy++ {
		d := float64(cy - n.Pos.Y)
		cell := g.static.NodeAtXY(n.Pos.X, cy)
		if cell == nil {
			switch t.Kind(n.Pos.X, cy) {
			case terrain.Solid, terrain.Slope, terrain.ShortcutEntrance:
				return
			}
		}

		for k, dir := range sides {
			if grabbed[k] {
				continue
			}
			side := g.static.NodeAtXY(n.Pos.X+dir.Dx(), cy)
			if side == nil || !side.Kind.Standable() {
				continue
			}
			grabbed[k] = true
			ledge.Dir = dir
			g.addEdge(from, g.static.Index(side.Pos), ledge, d+g.opts.settings.LedgePenalty)
		}

		if cell == nil {
			continue
		}
		to := g.static.Index(cell.Pos)
		switch {
		case cell.Kind == graph.NodeCorridor:
			g.addEdge(from, to, up, d+1)
			return
		case cell.Pole.HasVertical():
			g.addEdge(from, to, up, d+1)
			return
		case cell.Pole.HasHorizontal():
			g.addEdge(from, to, up, d+2)
		case cell.Kind == graph.NodeFloor && cell.Platform:
			g.addEdge(from, to, up, d+1)
			return
		}
	}
}

// traceDrop lets go of whatever holds the agent and falls straight down
// until something catches it. Air pockets passed on the way cost extra.
func (g *Graph) traceDrop(from int32, n *graph.Node) {
	t := g.static.Terrain()
	move := graph.Move{Kind: graph.MoveDrop, Dir: graph.DirDown}
	penalty := 0.0

	for cy := n.Pos.Y - 1; cy >= 1; cy-- {
		d := float64(n.Pos.Y - cy)
		cell := g.static.NodeAtXY(n.Pos.X, cy)
		if cell == nil {
			if t.Kind(n.Pos.X, cy) != terrain.Air {
				return
			}
			continue
		}
		to := g.static.Index(cell.Pos)
		switch {
		case cell.Kind.Standable(), cell.Kind == graph.NodeCorridor:
			g.addEdge(from, to, move, d+penalty)
			return
		case cell.Kind == graph.NodeShortcut, cell.Kind == graph.NodeRoomExit:
			return
		case cell.Pole.HasVertical() && n.Pole.HasVertical():
			// Sliding down the same pole; Climb already covers these tiles.
		case cell.Pole.HasPole():
			g.addEdge(from, to, move, d+penalty)
		default:
			penalty += g.opts.settings.DropPocketPenalty
		}
	}
}
