package search

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/tilenav/internal/graph"
	"github.com/Faultbox/tilenav/internal/trace"
)

// reconstruct walks the predecessor chain of a finished search into a Path.
// Forward chains run from the target back to the origin and are reversed;
// backward chains already run from the found start toward the goal.
func (e *Engine) reconstruct(found int32) (*Path, error) {
	var (
		positions []graph.Pos
		moves     []graph.Move
	)
	for i := found; ; {
		n := &e.pool[i]
		positions = append(positions, e.static.PosOf(i))
		if n.parent < 0 {
			break
		}
		moves = append(moves, n.move)
		i = n.parent
	}
	if e.mode != Backward {
		reverse(positions)
		reverse(moves)
	}

	positions, moves, err := canonicalize(e.dynamic, positions, moves)
	if err != nil {
		var at graph.Pos
		var de *dismountError
		if errors.As(err, &de) {
			at = de.at
		}
		e.log.Error("path reconstruction aborted",
			zap.Error(err),
			zap.Int("x", at.X),
			zap.Int("y", at.Y))
		return nil, err
	}

	return &Path{
		Positions: positions,
		Moves:     moves,
		Cost:      e.pool[found].g,
	}, nil
}

type dismountError struct {
	at graph.Pos
}

func (d *dismountError) Error() string {
	return fmt.Sprintf("%v at %s: no pole to dismount from above the floor", ErrUnresolvedDismount, d.at)
}

func (d *dismountError) Unwrap() error { return ErrUnresolvedDismount }

// canonicalize rewrites a Climb onto a floor followed by a Walk into moves an
// agent can perform. Climbing down onto the floor becomes a Drop when d has
// that Drop edge. Climbing up onto it becomes a climb one tile past the floor
// and a drop back onto it, which needs a vertical pole above the floor.
func canonicalize(d *trace.Graph, positions []graph.Pos, moves []graph.Move) ([]graph.Pos, []graph.Move, error) {
	s := d.Static()
	var (
		outPos   = make([]graph.Pos, 0, len(positions))
		outMoves = make([]graph.Move, 0, len(moves))
	)
	outPos = append(outPos, positions[0])

	for k, m := range moves {
		landing := positions[k+1]
		if m.Kind != graph.MoveClimb || k+1 >= len(moves) || moves[k+1].Kind != graph.MoveWalk {
			outMoves = append(outMoves, m)
			outPos = append(outPos, landing)
			continue
		}
		if n := s.Node(landing); n == nil || !n.Kind.Standable() {
			outMoves = append(outMoves, m)
			outPos = append(outPos, landing)
			continue
		}

		switch m.Dir {
		case graph.DirDown:
			if hasMove(d, positions[k], landing, dropMove) {
				m = dropMove
			}
			outMoves = append(outMoves, m)
			outPos = append(outPos, landing)

		case graph.DirUp:
			above := landing.Above()
			if n := s.Node(above); n == nil || !n.Pole.HasVertical() ||
				!hasMove(d, landing, above, climbMove) || !hasMove(d, above, landing, dropMove) {
				return nil, nil, &dismountError{at: landing}
			}
			outMoves = append(outMoves, m, climbMove, dropMove)
			outPos = append(outPos, landing, above, landing)

		default:
			outMoves = append(outMoves, m)
			outPos = append(outPos, landing)
		}
	}
	return outPos, outMoves, nil
}

var (
	dropMove  = graph.Move{Kind: graph.MoveDrop, Dir: graph.DirDown}
	climbMove = graph.Move{Kind: graph.MoveClimb, Dir: graph.DirUp}
)

// hasMove reports whether a static or dynamic edge from -> to carries m.
func hasMove(d *trace.Graph, from, to graph.Pos, m graph.Move) bool {
	s := d.Static()
	fi, ti := s.Index(from), s.Index(to)
	for _, edges := range [2][]graph.Edge{s.Out(fi), d.Out(fi)} {
		for _, e := range edges {
			if e.To == ti && e.Move == m {
				return true
			}
		}
	}
	return false
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
