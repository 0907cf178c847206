// Package graph builds the character-independent adjacency graph of a room:
// one node per usable tile and the walk, crawl, climb, wall-slide and
// shortcut edges implied by tile geometry alone.
package graph

import (
	"fmt"

	"github.com/Faultbox/tilenav/pkg/math"
	"github.com/Faultbox/tilenav/pkg/terrain"
)

// Pos is a tile position.
type Pos = math.Point

// Terrain is the host-supplied view of a room's tiles.
type Terrain interface {
	Size() (width, height int)
	Kind(x, y int) terrain.Kind
	Poles(x, y int) (vertical, horizontal bool)
	GravityAccel() float64
	Shortcuts() []terrain.Shortcut
}

// Direction is a unit step on the grid.
type Direction int8

// Directions.
const (
	DirNone Direction = iota
	DirLeft
	DirRight
	DirUp
	DirDown
)

// String returns a human-readable direction name.
func (d Direction) String() string {
	switch d {
	case DirNone:
		return "None"
	case DirLeft:
		return "Left"
	case DirRight:
		return "Right"
	case DirUp:
		return "Up"
	case DirDown:
		return "Down"
	default:
		return fmt.Sprintf("Direction(%d)", d)
	}
}

// Dx returns the x component of the step.
func (d Direction) Dx() int {
	switch d {
	case DirLeft:
		return -1
	case DirRight:
		return 1
	}
	return 0
}

// Dy returns the y component of the step.
func (d Direction) Dy() int {
	switch d {
	case DirUp:
		return 1
	case DirDown:
		return -1
	}
	return 0
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	}
	return DirNone
}

// Horizontal maps -1/+1 to DirLeft/DirRight.
func Horizontal(sign int) Direction {
	switch {
	case sign < 0:
		return DirLeft
	case sign > 0:
		return DirRight
	}
	return DirNone
}

// NodeKind is the terrain variant of a graph node.
type NodeKind uint8

// Node kinds.
const (
	NodeAir NodeKind = iota
	NodeFloor
	NodeSlope
	NodeCorridor
	NodeShortcut
	NodeRoomExit
	NodeWall
)

// String returns a human-readable node kind.
func (k NodeKind) String() string {
	switch k {
	case NodeAir:
		return "Air"
	case NodeFloor:
		return "Floor"
	case NodeSlope:
		return "Slope"
	case NodeCorridor:
		return "Corridor"
	case NodeShortcut:
		return "ShortcutEntrance"
	case NodeRoomExit:
		return "RoomExit"
	case NodeWall:
		return "Wall"
	default:
		return fmt.Sprintf("NodeKind(%d)", k)
	}
}

// Standable reports whether an agent can stand on the node.
func (k NodeKind) Standable() bool {
	return k == NodeFloor || k == NodeSlope
}

// PoleState describes climbable poles on or next to a node.
type PoleState uint8

// Pole states. PoleAbove and PoleBelow mean the tile above or below carries
// a vertical pole while this one does not.
const (
	PoleNone PoleState = iota
	PoleVertical
	PoleHorizontal
	PoleCross
	PoleAbove
	PoleBelow
)

// String returns a human-readable pole state.
func (p PoleState) String() string {
	switch p {
	case PoleNone:
		return "None"
	case PoleVertical:
		return "Vertical"
	case PoleHorizontal:
		return "Horizontal"
	case PoleCross:
		return "Cross"
	case PoleAbove:
		return "Above"
	case PoleBelow:
		return "Below"
	default:
		return fmt.Sprintf("PoleState(%d)", p)
	}
}

// HasVertical reports whether the node's own tile has a vertical pole.
func (p PoleState) HasVertical() bool {
	return p == PoleVertical || p == PoleCross
}

// HasHorizontal reports whether the node's own tile has a horizontal pole.
func (p PoleState) HasHorizontal() bool {
	return p == PoleHorizontal || p == PoleCross
}

// HasPole reports whether the node's own tile has any pole.
func (p PoleState) HasPole() bool {
	return p == PoleVertical || p == PoleHorizontal || p == PoleCross
}

// Node is a graph vertex bound to a tile.
type Node struct {
	Pos       Pos
	Kind      NodeKind
	Shortcut  int       // Index into the shortcut table for NodeShortcut and NodeRoomExit
	SolidSide Direction // Side holding the solid tile, for NodeWall
	Pole      PoleState
	Platform  bool // Standing is supported by a one-way platform in this tile
}

// String returns a compact description such as "Wall(Left)@(3,4)".
func (n *Node) String() string {
	switch n.Kind {
	case NodeWall:
		return fmt.Sprintf("Wall(%s)@%s", n.SolidSide, n.Pos)
	case NodeShortcut, NodeRoomExit:
		return fmt.Sprintf("%s(%d)@%s", n.Kind, n.Shortcut, n.Pos)
	default:
		return fmt.Sprintf("%s@%s", n.Kind, n.Pos)
	}
}

// MoveKind is the movement primitive that traverses an edge.
type MoveKind uint8

// Move kinds. The first block comes from geometry, the second from
// trajectory tracing.
const (
	MoveWalk MoveKind = iota
	MoveCrawl
	MoveClimb
	MoveSlideOnWall
	MoveShortcut

	MoveJump
	MoveJumpUp
	MoveWalkOffEdge
	MovePounce
	MoveDrop
	MoveJumpOntoLedge
	MoveJumpUpOntoLedge
	MoveWalkOffEdgeOntoLedge
	MovePounceOntoLedge
)

// String returns a human-readable move kind.
func (k MoveKind) String() string {
	switch k {
	case MoveWalk:
		return "Walk"
	case MoveCrawl:
		return "Crawl"
	case MoveClimb:
		return "Climb"
	case MoveSlideOnWall:
		return "SlideOnWall"
	case MoveShortcut:
		return "Shortcut"
	case MoveJump:
		return "Jump"
	case MoveJumpUp:
		return "JumpUp"
	case MoveWalkOffEdge:
		return "WalkOffEdge"
	case MovePounce:
		return "Pounce"
	case MoveDrop:
		return "Drop"
	case MoveJumpOntoLedge:
		return "JumpOntoLedge"
	case MoveJumpUpOntoLedge:
		return "JumpUpOntoLedge"
	case MoveWalkOffEdgeOntoLedge:
		return "WalkOffEdgeOntoLedge"
	case MovePounceOntoLedge:
		return "PounceOntoLedge"
	default:
		return fmt.Sprintf("MoveKind(%d)", k)
	}
}

// OntoLedge returns the ledge-grab variant of a trajectory move. Kinds
// without a ledge variant are returned unchanged.
func (k MoveKind) OntoLedge() MoveKind {
	switch k {
	case MoveJump:
		return MoveJumpOntoLedge
	case MoveJumpUp:
		return MoveJumpUpOntoLedge
	case MoveWalkOffEdge:
		return MoveWalkOffEdgeOntoLedge
	case MovePounce:
		return MovePounceOntoLedge
	}
	return k
}

// Dynamic reports whether the kind is produced by trajectory tracing.
func (k MoveKind) Dynamic() bool {
	return k >= MoveJump
}

// Move is a move kind with its direction payload.
type Move struct {
	Kind MoveKind
	Dir  Direction
}

// String returns e.g. "Walk(Right)" or "Shortcut".
func (m Move) String() string {
	if m.Dir == DirNone {
		return m.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", m.Kind, m.Dir)
}

// Edge is a directed traversal between two tiles. From and To are node
// indices into the owning graph's arena.
type Edge struct {
	From   int32
	To     int32
	Move   Move
	Weight float64
}
