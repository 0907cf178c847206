// Package movement describes an agent's physical capabilities. A Profile is
// a plain comparable value so it can key per-room graph caches directly.
package movement

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/tilenav/pkg/math"
)

// Category identifies which launch formula a trajectory uses.
type Category uint8

// Launch categories.
const (
	FloorJump Category = iota
	PoleJumpVertical
	PoleJumpHorizontal
	WallJump
	Pounce
	WalkOff
	CorridorFall
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case FloorJump:
		return "FloorJump"
	case PoleJumpVertical:
		return "PoleJumpVertical"
	case PoleJumpHorizontal:
		return "PoleJumpHorizontal"
	case WallJump:
		return "WallJump"
	case Pounce:
		return "Pounce"
	case WalkOff:
		return "WalkOff"
	case CorridorFall:
		return "CorridorFall"
	default:
		return fmt.Sprintf("Unknown(%d)", c)
	}
}

// Profile holds the physical constants of one kind of agent.
// Velocities are in world units per tick, X for a rightward launch.
type Profile struct {
	Name string `yaml:"name"`

	RunSpeed  float64 `yaml:"run_speed"`  // Multiplier on every horizontal component
	WalkSpeed float64 `yaml:"walk_speed"` // Horizontal speed when stepping off an edge

	FloorJump          math.Vec2 `yaml:"floor_jump"`
	PoleJumpVertical   math.Vec2 `yaml:"pole_jump_vertical"`
	PoleJumpHorizontal math.Vec2 `yaml:"pole_jump_horizontal"`
	WallJump           math.Vec2 `yaml:"wall_jump"`
	Pounce             math.Vec2 `yaml:"pounce"`

	Adrenaline      float64 `yaml:"adrenaline"`       // 0..1
	AdrenalineBoost float64 `yaml:"adrenaline_boost"` // Extra velocity fraction at full adrenaline
}

// Default returns a general-purpose agent profile.
func Default() Profile {
	return Profile{
		Name:               "default",
		RunSpeed:           1,
		WalkSpeed:          4,
		FloorJump:          math.Vec2{X: 6, Y: 9},
		PoleJumpVertical:   math.Vec2{X: 5, Y: 6},
		PoleJumpHorizontal: math.Vec2{X: 6, Y: 7},
		WallJump:           math.Vec2{X: 6, Y: 9},
		Pounce:             math.Vec2{X: 10, Y: 6},
		AdrenalineBoost:    0.25,
	}
}

// UnmarshalYAML fills fields missing from the document with Default values.
func (p *Profile) UnmarshalYAML(value *yaml.Node) error {
	type plain Profile
	v := plain(Default())
	if err := value.Decode(&v); err != nil {
		return err
	}
	*p = Profile(v)
	return nil
}

// WithAdrenaline returns a copy of p at the given adrenaline level, clamped to [0, 1].
func (p Profile) WithAdrenaline(level float64) Profile {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	p.Adrenaline = level
	return p
}

// boost is the velocity multiplier contributed by adrenaline.
func (p Profile) boost() float64 {
	return 1 + p.Adrenaline*p.AdrenalineBoost
}

// Launch returns the initial velocity for a category in direction dir
// (-1 left, +1 right, 0 straight up). A zero vector means the agent cannot
// perform that move.
func (p Profile) Launch(c Category, dir int) math.Vec2 {
	var base math.Vec2
	switch c {
	case FloorJump:
		base = p.FloorJump
	case PoleJumpVertical:
		base = p.PoleJumpVertical
	case PoleJumpHorizontal:
		base = p.PoleJumpHorizontal
	case WallJump:
		base = p.WallJump
	case Pounce:
		base = p.Pounce
	case WalkOff, CorridorFall:
		return math.Vec2{X: p.WalkSpeed * p.RunSpeed * float64(dir)}
	default:
		return math.Vec2{}
	}

	b := p.boost()
	return math.Vec2{
		X: base.X * p.RunSpeed * b * float64(dir),
		Y: base.Y * b,
	}
}

// JumpHeight returns the apex height in world units of a straight-up floor
// jump under the given gravity.
func (p Profile) JumpHeight(gravity float64) float64 {
	if gravity <= 0 {
		return 0
	}
	vy := p.Launch(FloorJump, 0).Y
	return 0.5 * vy * vy / gravity
}

// JumpRange returns the horizontal distance in world units a floor jump
// covers before returning to launch height.
func (p Profile) JumpRange(gravity float64) float64 {
	if gravity <= 0 {
		return 0
	}
	v := p.Launch(FloorJump, 1)
	return 2 * v.X * v.Y / gravity
}
