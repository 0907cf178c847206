package math

import (
	"fmt"
	"math"
)

// Point is an integer tile position. Y grows upward.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p offset by (dx, dy).
func (p Point) Add(dx, dy int) Point {
	return Point{p.X + dx, p.Y + dy}
}

// Above returns the tile directly above p.
func (p Point) Above() Point { return Point{p.X, p.Y + 1} }

// Below returns the tile directly below p.
func (p Point) Below() Point { return Point{p.X, p.Y - 1} }

// Distance returns the Euclidean distance in tiles.
func (p Point) Distance(other Point) float64 {
	dx := float64(other.X - p.X)
	dy := float64(other.Y - p.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Manhattan returns the taxicab distance in tiles.
func (p Point) Manhattan(other Point) int {
	return Abs(other.X-p.X) + Abs(other.Y-p.Y)
}

// Center returns the world-space centre of the tile for a given tile size.
func (p Point) Center(tileSize float64) Vec2 {
	return Vec2{(float64(p.X) + 0.5) * tileSize, (float64(p.Y) + 0.5) * tileSize}
}

// String returns "(x,y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Abs returns the absolute value of x.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Sign returns -1, 0 or 1.
func Sign(x float64) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	default:
		return 0
	}
}
