package search

import (
	stdmath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/tilenav/internal/graph"
	"github.com/Faultbox/tilenav/internal/trace"
	"github.com/Faultbox/tilenav/pkg/math"
	"github.com/Faultbox/tilenav/pkg/movement"
	"github.com/Faultbox/tilenav/pkg/terrain"
)

func flatRoom() *terrain.Grid {
	return terrain.MustParseTiles(0.9,
		"#########",
		"#.......#",
		"#.......#",
		"#########",
	)
}

// gapRoom has two ledges at y=6 separated by a four tile pit.
func gapRoom() *terrain.Grid {
	return terrain.MustParseTiles(0.9,
		"##############",
		"#............#",
		"#............#",
		"#............#",
		"#............#",
		"#............#",
		"#............#",
		"#............#",
		"####....######",
		"####....######",
		"####....######",
		"####....######",
		"####....######",
		"##############",
	)
}

// jumper's floor jump covers exactly five tiles under gravity 0.9.
func jumper(runSpeed float64) movement.Profile {
	return movement.Profile{
		Name:      "jumper",
		RunSpeed:  runSpeed,
		WalkSpeed: 4,
		FloorJump: math.Vec2{X: 7.5, Y: 6},
	}
}

func dynamicFor(grid *terrain.Grid, p movement.Profile) *trace.Graph {
	return trace.New(graph.Build(grid), p)
}

// hasEdge reports whether some static or dynamic edge from a to b carries m.
// Backward searches may also use incoming-only edges.
func hasEdge(d *trace.Graph, a, b graph.Pos, m graph.Move, backward bool) bool {
	s := d.Static()
	from, to := s.Index(a), s.Index(b)
	lists := [][]graph.Edge{s.Out(from), d.Out(from)}
	if backward {
		lists = append(lists, d.In(to))
	}
	for _, edges := range lists {
		for _, e := range edges {
			if e.From == from && e.To == to && e.Move == m {
				return true
			}
		}
	}
	return false
}

func requireRealEdges(t *testing.T, d *trace.Graph, p *Path, backward bool) {
	t.Helper()
	require.Len(t, p.Positions, len(p.Moves)+1)
	for i, m := range p.Moves {
		assert.True(t, hasEdge(d, p.Positions[i], p.Positions[i+1], m, backward),
			"no %s edge %s -> %s", m, p.Positions[i], p.Positions[i+1])
	}
}

func TestFindPath_FlatFloorWalks(t *testing.T) {
	d := dynamicFor(flatRoom(), movement.Default())

	p, err := FindPath(d, math.Pt(1, 1), math.Pt(7, 1))
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, 6, p.Len())
	assert.InDelta(t, 6.0, p.Cost, 1e-9)
	for _, m := range p.Moves {
		assert.Equal(t, graph.Move{Kind: graph.MoveWalk, Dir: graph.DirRight}, m)
	}
	requireRealEdges(t, d, p, false)
}

func TestFindPath_StartIsGoal(t *testing.T) {
	d := dynamicFor(flatRoom(), movement.Default())

	p, err := FindPath(d, math.Pt(3, 1), math.Pt(3, 1))
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Zero(t, p.Len())
	assert.Equal(t, []graph.Pos{math.Pt(3, 1)}, p.Positions)
	assert.True(t, p.Done())
}

func TestFindPath_NoNode(t *testing.T) {
	d := dynamicFor(gapRoom(), jumper(1))

	tests := []struct {
		name        string
		start, goal graph.Pos
	}{
		{"start in mid air", math.Pt(6, 10), math.Pt(8, 6)},
		{"goal in solid", math.Pt(3, 6), math.Pt(10, 3)},
		{"goal outside room", math.Pt(3, 6), math.Pt(40, 40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := FindPath(d, tt.start, tt.goal)
			assert.NoError(t, err)
			assert.Nil(t, p)
		})
	}
}

func TestFindPath_PoleShaft(t *testing.T) {
	rows := []string{"###"}
	for y := 11; y >= 1; y-- {
		rows = append(rows, "#|#")
	}
	rows = append(rows, "###")
	d := dynamicFor(terrain.MustParseTiles(0.9, rows...), movement.Default())

	p, err := FindPath(d, math.Pt(1, 1), math.Pt(1, 11))
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, 10, p.Len())
	assert.InDelta(t, 10.0, p.Cost, 1e-9)
	for _, m := range p.Moves {
		assert.Equal(t, graph.Move{Kind: graph.MoveClimb, Dir: graph.DirUp}, m)
	}
	requireRealEdges(t, d, p, false)
}

func TestFindPath_GapJump(t *testing.T) {
	d := dynamicFor(gapRoom(), jumper(1))

	p, err := FindPath(d, math.Pt(3, 6), math.Pt(8, 6))
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, []graph.Pos{math.Pt(3, 6), math.Pt(8, 6)}, p.Positions)
	assert.Equal(t, []graph.Move{{Kind: graph.MoveJump, Dir: graph.DirRight}}, p.Moves)
	requireRealEdges(t, d, p, false)
}

func TestFindPath_LongerRangeKeepsReachability(t *testing.T) {
	var found []bool
	for _, speed := range []float64{0.5, 0.75, 1} {
		p, err := FindPath(dynamicFor(gapRoom(), jumper(speed)), math.Pt(1, 6), math.Pt(12, 6))
		require.NoError(t, err)
		found = append(found, p != nil)
	}
	assert.Equal(t, []bool{false, false, true}, found)
}

func TestFindPath_LongerRangeNeverCostsMore(t *testing.T) {
	prev := stdmath.Inf(1)
	for _, speed := range []float64{1, 1.25, 1.5, 1.95} {
		p, err := FindPath(dynamicFor(gapRoom(), jumper(speed)), math.Pt(1, 6), math.Pt(12, 6))
		require.NoError(t, err)
		require.NotNil(t, p, "speed %v", speed)
		assert.LessOrEqual(t, p.Cost, prev, "speed %v", speed)
		prev = p.Cost
	}
}

// wallPoleRoom has a pole running down the left wall that ends one tile
// above the floor.
func wallPoleRoom() *terrain.Grid {
	return terrain.MustParseTiles(0.9,
		"#######",
		"#|....#",
		"#|....#",
		"#|....#",
		"#.....#",
		"#######",
	)
}

func TestFindPath_LetsGoOfWallPole(t *testing.T) {
	d := dynamicFor(wallPoleRoom(), movement.Default())

	assert.True(t, hasEdge(d, math.Pt(1, 2), math.Pt(1, 1), graph.Move{Kind: graph.MoveDrop, Dir: graph.DirDown}, false))

	p, err := FindPath(d, math.Pt(1, 4), math.Pt(4, 1))
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, math.Pt(4, 1), p.Destination())
	requireRealEdges(t, d, p, false)
}

func TestFindPath_NeverExpandsTwice(t *testing.T) {
	seen := make(map[graph.Pos]int)
	hook := WithExpandHook(func(p graph.Pos) { seen[p]++ })

	_, err := FindPath(dynamicFor(gapRoom(), movement.Default()), math.Pt(1, 6), math.Pt(5, 1), hook)
	require.NoError(t, err)
	require.NotEmpty(t, seen)
	for p, n := range seen {
		assert.Equal(t, 1, n, "node %s expanded %d times", p, n)
	}
}

func TestFindPathBackward(t *testing.T) {
	d := dynamicFor(gapRoom(), jumper(1))

	p, err := FindPathBackward(d, math.Pt(8, 6), []graph.Pos{math.Pt(1, 6), math.Pt(3, 6), math.Pt(6, 10)})
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, math.Pt(3, 6), p.Start())
	assert.Equal(t, math.Pt(8, 6), p.Destination())
	assert.Equal(t, []graph.Move{{Kind: graph.MoveJump, Dir: graph.DirRight}}, p.Moves)
	assert.True(t, d.Complete(), "backward search traces every node")
	requireRealEdges(t, d, p, true)
}

func TestFindPathBackward_NoCandidates(t *testing.T) {
	d := dynamicFor(gapRoom(), jumper(1))

	p, err := FindPathBackward(d, math.Pt(8, 6), []graph.Pos{math.Pt(6, 10)})
	assert.NoError(t, err)
	assert.Nil(t, p)
	assert.False(t, d.Complete(), "nothing traced when no candidate has a node")
}

func TestFindPathUntil(t *testing.T) {
	d := dynamicFor(gapRoom(), jumper(1))

	dst, p, err := FindPathUntil(d, math.Pt(3, 6), func(n *graph.Node) bool {
		return n.Kind == graph.NodeFloor && n.Pos.X >= 8
	})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, math.Pt(8, 6), dst)
	assert.Equal(t, dst, p.Destination())
	requireRealEdges(t, d, p, false)
}

func TestFindPathUntil_NeverSatisfied(t *testing.T) {
	d := dynamicFor(flatRoom(), movement.Default())

	_, p, err := FindPathUntil(d, math.Pt(1, 1), func(*graph.Node) bool { return false })
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestEngine_StepBounded(t *testing.T) {
	d := dynamicFor(flatRoom(), movement.Default())
	want, err := FindPath(d, math.Pt(1, 1), math.Pt(7, 1))
	require.NoError(t, err)

	e := New(d)
	assert.Equal(t, Uninitialized, e.State())
	_, err = e.Result()
	assert.ErrorIs(t, err, ErrNotStarted)

	e.BeginForward(math.Pt(1, 1), math.Pt(7, 1))
	assert.False(t, e.RunFor(1))
	assert.Equal(t, Searching, e.State())
	_, err = e.Result()
	assert.ErrorIs(t, err, ErrInProgress)

	ticks := 1
	for !e.RunFor(1) {
		ticks++
	}
	got, err := e.Result()
	require.NoError(t, err)
	assert.Equal(t, want.Positions, got.Positions)
	assert.Equal(t, want.Moves, got.Moves)
	assert.Equal(t, ticks+1, e.Expansions())
}

func TestEngine_ReuseAcrossSearches(t *testing.T) {
	e := New(dynamicFor(gapRoom(), jumper(1)))

	e.BeginForward(math.Pt(3, 6), math.Pt(8, 6))
	first, err := e.Run()
	require.NoError(t, err)

	e.BeginForward(math.Pt(8, 6), math.Pt(12, 6))
	second, err := e.Run()
	require.NoError(t, err)
	assert.Equal(t, 4, second.Len())

	e.BeginForward(math.Pt(3, 6), math.Pt(8, 6))
	again, err := e.Run()
	require.NoError(t, err)
	assert.Equal(t, first.Positions, again.Positions)
	assert.Equal(t, first.Cost, again.Cost)
}

func TestEngine_MaxExpansions(t *testing.T) {
	e := New(dynamicFor(flatRoom(), movement.Default()), WithMaxExpansions(1))
	e.BeginForward(math.Pt(1, 1), math.Pt(7, 1))

	p, err := e.Run()
	assert.NoError(t, err)
	assert.Nil(t, p)
	assert.Equal(t, 1, e.Expansions())
}

func TestEngine_HeapCorruptionAborts(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	e := New(dynamicFor(flatRoom(), movement.Default()), WithLogger(zap.New(core)))
	e.BeginForward(math.Pt(1, 1), math.Pt(7, 1))

	e.open[0].slot = 3
	assert.True(t, e.Step())

	p, err := e.Result()
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrHeapCorrupt)
	assert.Equal(t, 1, logs.FilterMessage("search aborted").Len())
}

type fakeRecorder struct {
	outcomes []string
}

func (r *fakeRecorder) RecordSearch(mode, outcome string, _ int) {
	r.outcomes = append(r.outcomes, mode+":"+outcome)
}

func TestEngine_Recorder(t *testing.T) {
	rec := &fakeRecorder{}
	d := dynamicFor(gapRoom(), jumper(1))

	_, err := FindPath(d, math.Pt(3, 6), math.Pt(8, 6), WithRecorder(rec))
	require.NoError(t, err)
	_, err = FindPath(d, math.Pt(3, 6), math.Pt(6, 10), WithRecorder(rec))
	require.NoError(t, err)

	assert.Equal(t, []string{"forward:found", "forward:not_found"}, rec.outcomes)
}

func TestShortcutsKeepHeuristicAdmissible(t *testing.T) {
	grid := terrain.MustParseTiles(0.9,
		"##############",
		"#S..........S#",
		"##############",
	)
	grid.Links = []terrain.Shortcut{
		{Entrance: math.Pt(1, 1), Destination: math.Pt(12, 1), Length: 2},
		{Entrance: math.Pt(12, 1), Destination: math.Pt(1, 1), Length: 2},
	}
	d := dynamicFor(grid, movement.Default())
	assert.Less(t, d.Static().CostPerTile(), 1.0)

	p, err := FindPath(d, math.Pt(2, 1), math.Pt(11, 1))
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.InDelta(t, 4.0, p.Cost, 1e-9, "walk, shortcut, walk beats nine walks")
	assert.Equal(t, graph.MoveShortcut, p.Moves[1].Kind)
}
