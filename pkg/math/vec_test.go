package math

import (
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	if got != 5 {
		t.Errorf("Vec2.Length() = %v, want 5", got)
	}
}

func TestVec2Scale(t *testing.T) {
	got := Vec2{1.5, -2}.Scale(2)
	want := Vec2{3, -4}
	if got != want {
		t.Errorf("Vec2.Scale() = %v, want %v", got, want)
	}
}

func TestPointDistance(t *testing.T) {
	tests := []struct {
		a, b Point
		want float64
	}{
		{Pt(0, 0), Pt(3, 4), 5},
		{Pt(2, 2), Pt(2, 2), 0},
		{Pt(-1, 0), Pt(2, 0), 3},
	}
	for _, tt := range tests {
		if got := tt.a.Distance(tt.b); got != tt.want {
			t.Errorf("%v.Distance(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestPointCenter(t *testing.T) {
	got := Pt(2, 3).Center(20)
	want := Vec2{50, 70}
	if got != want {
		t.Errorf("Point.Center() = %v, want %v", got, want)
	}
}

func TestSign(t *testing.T) {
	if Sign(-0.5) != -1 || Sign(0) != 0 || Sign(7) != 1 {
		t.Error("Sign returned unexpected values")
	}
}
