package network

import (
	"testing"
	"time"
)

func TestInterpolationPhase(t *testing.T) {
	base := time.Unix(500, 0)
	clock := NewTickClock(200 * time.Millisecond)

	if got := clock.InterpolationPhase(base); got != 0 {
		t.Fatalf("phase before first snapshot = %v, want 0", got)
	}

	clock.OnSnapshotArrival(base, 10)
	tests := []struct {
		offset time.Duration
		want   float64
	}{
		{-50 * time.Millisecond, 0},
		{0, 0},
		{50 * time.Millisecond, 0.25},
		{100 * time.Millisecond, 0.5},
		{200 * time.Millisecond, 1},
		{time.Second, 1},
	}
	for _, tt := range tests {
		if got := clock.InterpolationPhase(base.Add(tt.offset)); got != tt.want {
			t.Errorf("phase at +%v = %v, want %v", tt.offset, got, tt.want)
		}
	}
	if clock.Tick() != 10 {
		t.Fatalf("tick = %d, want 10", clock.Tick())
	}
}

func TestInterpolationPhaseMonotonicBetweenArrivals(t *testing.T) {
	base := time.Unix(0, 0)
	clock := NewTickClock(200 * time.Millisecond)
	clock.OnSnapshotArrival(base, 1)

	prev := -1.0
	for ms := 0; ms <= 400; ms += 7 {
		p := clock.InterpolationPhase(base.Add(time.Duration(ms) * time.Millisecond))
		if p < 0 || p > 1 {
			t.Fatalf("phase %v out of [0,1] at %dms", p, ms)
		}
		if p < prev {
			t.Fatalf("phase decreased at %dms: %v < %v", ms, p, prev)
		}
		prev = p
	}

	clock.OnSnapshotArrival(base.Add(time.Second), 2)
	if got := clock.InterpolationPhase(base.Add(time.Second)); got != 0 {
		t.Fatalf("phase should restart at 0 on arrival, got %v", got)
	}
}

func TestSetBaselineDoesNotStartWindow(t *testing.T) {
	clock := NewTickClock(0)
	clock.SetBaseline(99)
	if clock.Tick() != 99 {
		t.Fatalf("tick = %d, want 99", clock.Tick())
	}
	if got := clock.InterpolationPhase(time.Now()); got != 0 {
		t.Fatalf("phase = %v, want 0 before any snapshot", got)
	}
	if clock.Period() != 200*time.Millisecond {
		t.Fatalf("non-positive period should default to 200ms, got %v", clock.Period())
	}
}
