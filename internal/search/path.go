package search

import (
	"fmt"
	"strings"

	"github.com/Faultbox/tilenav/internal/graph"
)

// Path is an ordered route. Moves[i] takes the agent from Positions[i] to
// Positions[i+1]. The cursor tracks the agent's progress along it.
type Path struct {
	Positions []graph.Pos
	Moves     []graph.Move
	Cost      float64 // Search cost, before dismount expansion

	cursor int
}

// Len returns the number of moves.
func (p *Path) Len() int { return len(p.Moves) }

// Start returns the first position.
func (p *Path) Start() graph.Pos { return p.Positions[0] }

// Destination returns the last position.
func (p *Path) Destination() graph.Pos { return p.Positions[len(p.Positions)-1] }

// Cursor returns the index of the current position.
func (p *Path) Cursor() int { return p.cursor }

// Current returns the position at the cursor.
func (p *Path) Current() graph.Pos { return p.Positions[p.cursor] }

// Done reports whether the cursor has reached the destination.
func (p *Path) Done() bool { return p.cursor >= len(p.Moves) }

// CurrentMove returns the move leaving the current position.
func (p *Path) CurrentMove() (graph.Move, bool) {
	return p.PeekMove(0)
}

// PeekMove returns the move n steps after the current one.
func (p *Path) PeekMove(n int) (graph.Move, bool) {
	i := p.cursor + n
	if n < 0 || i >= len(p.Moves) {
		return graph.Move{}, false
	}
	return p.Moves[i], true
}

// Advance moves the cursor one step forward and reports whether it moved.
func (p *Path) Advance() bool {
	if p.Done() {
		return false
	}
	p.cursor++
	return true
}

// Seek moves the cursor to the first occurrence of pos at or after the
// cursor, for callers that skipped ahead. It reports whether pos was found.
func (p *Path) Seek(pos graph.Pos) bool {
	for i := p.cursor; i < len(p.Positions); i++ {
		if p.Positions[i] == pos {
			p.cursor = i
			return true
		}
	}
	return false
}

// String returns e.g. "(1,1) Walk(Right) (2,1)".
func (p *Path) String() string {
	var b strings.Builder
	b.WriteString(p.Positions[0].String())
	for i, m := range p.Moves {
		fmt.Fprintf(&b, " %s %s", m, p.Positions[i+1])
	}
	return b.String()
}
