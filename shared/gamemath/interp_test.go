package gamemath

import (
	"math"
	"testing"
)

func TestClamp01(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.25, 0.25},
		{1, 1},
		{7, 1},
		{math.NaN(), 0},
		{math.Inf(1), 1},
	}
	for _, tt := range tests {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLerpVecEndpointsExact(t *testing.T) {
	from := Vec2{X: 0.1, Y: 0.7}
	to := Vec2{X: 0.3, Y: -2.9}
	if got := LerpVec(from, to, 0); got != from {
		t.Fatalf("LerpVec at 0 = %+v, want %+v", got, from)
	}
	if got := LerpVec(from, to, 1); got != to {
		t.Fatalf("LerpVec at 1 = %+v, want %+v", got, to)
	}
	mid := LerpVec(Vec2{X: 2, Y: 2}, Vec2{X: 3, Y: 2}, 0.5)
	if mid != (Vec2{X: 2.5, Y: 2}) {
		t.Fatalf("LerpVec midpoint = %+v", mid)
	}
}

func TestGridPosVec(t *testing.T) {
	g := GridPos{X: 3, Y: -2}
	if got := g.Vec(); !got.Equal(Vec2{X: 3, Y: -2}) {
		t.Fatalf("Vec() = %+v", got)
	}
	if g.String() != "3,-2" {
		t.Fatalf("String() = %q", g.String())
	}
}
