package main

import (
	"testing"

	"github.com/Faultbox/tilenav/internal/graph"
	"github.com/Faultbox/tilenav/pkg/math"
)

func TestParsePos(t *testing.T) {
	p, err := parsePos("3", "-2")
	if err != nil {
		t.Fatalf("parsePos: %v", err)
	}
	if p != math.Pt(3, -2) {
		t.Errorf("got %s, want (3,-2)", p)
	}

	if _, err := parsePos("x", "1"); err == nil {
		t.Error("expected error for non-numeric x")
	}
	if _, err := parsePos("1", ""); err == nil {
		t.Error("expected error for empty y")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		name string
		want graph.NodeKind
		ok   bool
	}{
		{"Wall", graph.NodeWall, true},
		{"corridor", graph.NodeCorridor, true},
		{"shortcutentrance", graph.NodeShortcut, true},
		{"ROOMEXIT", graph.NodeRoomExit, true},
		{"Ladder", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseKind(tt.name)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("kind = %s, want %s", got, tt.want)
			}
		})
	}
}
