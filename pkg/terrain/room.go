package terrain

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/tilenav/pkg/math"
)

// Room file errors.
var (
	ErrEmptyTiles  = errors.New("room has no tile rows")
	ErrRaggedTiles = errors.New("tile rows have different widths")
	ErrUnknownTile = errors.New("unknown tile character")
	ErrBadShortcut = errors.New("invalid shortcut entry")
	ErrBadGravity  = errors.New("gravity must be positive")
)

// DefaultGravity is used when a room file omits gravity.
const DefaultGravity = 0.9

// Tile legend used by ParseTiles:
//
//	#  solid          .  air
//	/  slope          -  one-way platform
//	S  shortcut       |  vertical pole in air
//	=  horizontal pole in air
//	+  cross pole in air
//	!  platform with vertical pole
//	H  platform with horizontal pole
func cellFromRune(r rune) (Cell, bool) {
	switch r {
	case '#':
		return Cell{Kind: Solid}, true
	case '.', ' ':
		return Cell{Kind: Air}, true
	case '/':
		return Cell{Kind: Slope}, true
	case '-':
		return Cell{Kind: Floor}, true
	case 'S':
		return Cell{Kind: ShortcutEntrance}, true
	case '|':
		return Cell{Kind: Air, VerticalPole: true}, true
	case '=':
		return Cell{Kind: Air, HorizontalPole: true}, true
	case '+':
		return Cell{Kind: Air, VerticalPole: true, HorizontalPole: true}, true
	case '!':
		return Cell{Kind: Floor, VerticalPole: true}, true
	case 'H':
		return Cell{Kind: Floor, HorizontalPole: true}, true
	default:
		return Cell{}, false
	}
}

// ParseTiles builds a grid from ASCII rows. The first row is the top of the
// room, so rows[len(rows)-1] becomes y = 0.
func ParseTiles(rows []string, gravity float64) (*Grid, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyTiles
	}
	if gravity <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrBadGravity, gravity)
	}

	width := len([]rune(rows[0]))
	if width == 0 {
		return nil, ErrEmptyTiles
	}
	height := len(rows)
	g := NewGrid(width, height, gravity)

	for i, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("%w: row %d has %d tiles, want %d", ErrRaggedTiles, i, len(runes), width)
		}
		y := height - 1 - i
		for x, r := range runes {
			cell, ok := cellFromRune(r)
			if !ok {
				return nil, fmt.Errorf("%w: %q at (%d,%d)", ErrUnknownTile, r, x, y)
			}
			g.Set(x, y, cell)
		}
	}
	return g, nil
}

// MustParseTiles is ParseTiles for fixtures; it panics on error.
func MustParseTiles(gravity float64, rows ...string) *Grid {
	g, err := ParseTiles(rows, gravity)
	if err != nil {
		panic(err)
	}
	return g
}

// RoomFile is the on-disk YAML description of a room.
type RoomFile struct {
	Name      string          `yaml:"name"`
	Gravity   float64         `yaml:"gravity"`
	Tiles     string          `yaml:"tiles"`
	Shortcuts []ShortcutEntry `yaml:"shortcuts"`
}

// ShortcutEntry is one row of the shortcut table in a room file.
type ShortcutEntry struct {
	Entrance    []int `yaml:"entrance"`
	Destination []int `yaml:"destination"`
	Length      int   `yaml:"length"`
	Exit        bool  `yaml:"exit"`
}

// Room is a parsed room file.
type Room struct {
	Name string
	Grid *Grid
}

// LoadRoom reads and parses a room file from disk.
func LoadRoom(path string) (*Room, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	room, err := ParseRoom(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return room, nil
}

// ParseRoom parses a room file from raw YAML bytes.
func ParseRoom(data []byte) (*Room, error) {
	var rf RoomFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, err
	}
	if rf.Gravity == 0 {
		rf.Gravity = DefaultGravity
	}

	var rows []string
	for _, line := range strings.Split(rf.Tiles, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}

	grid, err := ParseTiles(rows, rf.Gravity)
	if err != nil {
		return nil, err
	}

	for i, sc := range rf.Shortcuts {
		if len(sc.Entrance) != 2 || len(sc.Destination) != 2 {
			return nil, fmt.Errorf("%w: entry %d needs [x, y] entrance and destination", ErrBadShortcut, i)
		}
		if sc.Length <= 0 {
			return nil, fmt.Errorf("%w: entry %d has length %d", ErrBadShortcut, i, sc.Length)
		}
		link := Shortcut{
			Entrance:    math.Pt(sc.Entrance[0], sc.Entrance[1]),
			Destination: math.Pt(sc.Destination[0], sc.Destination[1]),
			Length:      sc.Length,
		}
		if sc.Exit {
			link.Type = ShortcutRoomExit
		}
		grid.Links = append(grid.Links, link)
	}

	return &Room{Name: rf.Name, Grid: grid}, nil
}
