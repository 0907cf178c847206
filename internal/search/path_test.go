package search

import (
	"testing"

	"github.com/Faultbox/tilenav/internal/graph"
	"github.com/Faultbox/tilenav/pkg/math"
)

func samplePath() *Path {
	return &Path{
		Positions: []graph.Pos{math.Pt(1, 1), math.Pt(2, 1), math.Pt(3, 1), math.Pt(8, 1)},
		Moves: []graph.Move{
			{Kind: graph.MoveWalk, Dir: graph.DirRight},
			{Kind: graph.MoveWalk, Dir: graph.DirRight},
			{Kind: graph.MoveJump, Dir: graph.DirRight},
		},
		Cost: 10,
	}
}

func TestPath_Cursor(t *testing.T) {
	p := samplePath()

	if p.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", p.Len())
	}
	if p.Current() != math.Pt(1, 1) {
		t.Errorf("Current() = %v, want (1,1)", p.Current())
	}
	if m, ok := p.PeekMove(2); !ok || m.Kind != graph.MoveJump {
		t.Errorf("PeekMove(2) = %v, %v, want Jump", m, ok)
	}
	if _, ok := p.PeekMove(3); ok {
		t.Error("PeekMove past the end should fail")
	}
	if _, ok := p.PeekMove(-1); ok {
		t.Error("PeekMove with negative offset should fail")
	}

	for i := 0; i < 3; i++ {
		if !p.Advance() {
			t.Fatalf("Advance() %d failed", i)
		}
	}
	if !p.Done() {
		t.Error("path should be done")
	}
	if p.Advance() {
		t.Error("Advance() past the end should fail")
	}
	if _, ok := p.CurrentMove(); ok {
		t.Error("finished path has no current move")
	}
	if p.Current() != p.Destination() {
		t.Errorf("Current() = %v, want destination", p.Current())
	}
}

func TestPath_Seek(t *testing.T) {
	p := samplePath()

	if !p.Seek(math.Pt(3, 1)) {
		t.Fatal("Seek to (3,1) failed")
	}
	if p.Cursor() != 2 {
		t.Errorf("Cursor() = %d, want 2", p.Cursor())
	}
	if m, _ := p.CurrentMove(); m.Kind != graph.MoveJump {
		t.Errorf("CurrentMove() = %v, want Jump", m)
	}
	if p.Seek(math.Pt(1, 1)) {
		t.Error("Seek must not move backward")
	}
	if p.Seek(math.Pt(5, 5)) {
		t.Error("Seek to a tile off the path should fail")
	}
}

func TestPath_String(t *testing.T) {
	want := "(1,1) Walk(Right) (2,1) Walk(Right) (3,1) Jump(Right) (8,1)"
	if got := samplePath().String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestBitGrid(t *testing.T) {
	b := NewBitGrid(130)
	for _, i := range []int32{0, 63, 64, 129} {
		b.Set(i)
	}
	if b.Count() != 4 {
		t.Errorf("Count() = %d, want 4", b.Count())
	}
	if !b.Has(64) || b.Has(65) {
		t.Error("Has() mismatch around word boundary")
	}
	b.Clear(64)
	if b.Has(64) {
		t.Error("Clear(64) did not clear")
	}
	b.Reset()
	if b.Count() != 0 {
		t.Errorf("Count() after Reset = %d, want 0", b.Count())
	}
	if b.Size() != 130 {
		t.Errorf("Size() = %d, want 130", b.Size())
	}
}
