// Package terrain provides the tile grid a room is built from: per-tile
// terrain classification, climbable pole flags, gravity and the shortcut
// table.
package terrain

import (
	"fmt"

	"github.com/Faultbox/tilenav/pkg/math"
)

// Kind represents the terrain classification of a tile.
type Kind uint8

// Terrain kinds.
const (
	Air              Kind = iota // Open space
	Solid                        // Impassable
	Slope                        // Diagonal ground
	Floor                        // One-way platform, can be stood on
	ShortcutEntrance             // Mouth of a shortcut pipe
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case Air:
		return "Air"
	case Solid:
		return "Solid"
	case Slope:
		return "Slope"
	case Floor:
		return "Floor"
	case ShortcutEntrance:
		return "ShortcutEntrance"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// IsSolid returns true if the kind blocks movement outright.
func (k Kind) IsSolid() bool {
	return k == Solid
}

// Cell represents a single tile in the grid.
type Cell struct {
	Kind           Kind
	VerticalPole   bool
	HorizontalPole bool
}

// ShortcutType distinguishes in-room pipes from level transitions.
type ShortcutType uint8

// Shortcut types.
const (
	ShortcutNormal ShortcutType = iota
	ShortcutRoomExit
)

// Shortcut links a shortcut entrance to the tile it delivers to.
type Shortcut struct {
	Entrance    math.Point
	Destination math.Point
	Length      int
	Type        ShortcutType
}

// Grid is a rectangular room of tiles. Row 0 is the bottom of the room.
type Grid struct {
	Width   int
	Height  int
	Cells   []Cell
	Gravity float64
	Links   []Shortcut
}

// NewGrid creates a grid of the given size filled with air.
func NewGrid(width, height int, gravity float64) *Grid {
	return &Grid{
		Width:   width,
		Height:  height,
		Cells:   make([]Cell, width*height),
		Gravity: gravity,
	}
}

// InBounds reports whether (x, y) lies inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

// GetCell returns the cell at the given coordinates.
// Returns nil if coordinates are out of bounds.
func (g *Grid) GetCell(x, y int) *Cell {
	if !g.InBounds(x, y) {
		return nil
	}
	return &g.Cells[y*g.Width+x]
}

// Set overwrites the cell at (x, y). Out-of-bounds writes are ignored.
func (g *Grid) Set(x, y int, c Cell) {
	if cell := g.GetCell(x, y); cell != nil {
		*cell = c
	}
}

// Size returns the grid dimensions in tiles.
func (g *Grid) Size() (int, int) {
	return g.Width, g.Height
}

// Kind returns the terrain kind at (x, y). Tiles outside the grid are solid.
func (g *Grid) Kind(x, y int) Kind {
	cell := g.GetCell(x, y)
	if cell == nil {
		return Solid
	}
	return cell.Kind
}

// Poles returns the pole flags at (x, y).
func (g *Grid) Poles(x, y int) (vertical, horizontal bool) {
	cell := g.GetCell(x, y)
	if cell == nil {
		return false, false
	}
	return cell.VerticalPole, cell.HorizontalPole
}

// GravityAccel returns the gravitational acceleration in world units per tick squared.
func (g *Grid) GravityAccel() float64 {
	return g.Gravity
}

// Shortcuts returns the room's shortcut table.
func (g *Grid) Shortcuts() []Shortcut {
	return g.Links
}
