package timeline

import (
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/automoto/emberwatch/shared/gamemath"
)

func quietTimeline() *Timeline {
	return New(log.New(io.Discard, "", 0))
}

func TestProgressClamped(t *testing.T) {
	base := time.Unix(1000, 0)
	in := &Instance{Start: base, Duration: 500 * time.Millisecond}

	tests := []struct {
		at   time.Duration
		want float64
	}{
		{-time.Second, 0},
		{0, 0},
		{250 * time.Millisecond, 0.5},
		{500 * time.Millisecond, 1},
		{time.Hour, 1},
	}
	for _, tt := range tests {
		if got := in.Progress(base.Add(tt.at)); got != tt.want {
			t.Errorf("Progress(+%v) = %v, want %v", tt.at, got, tt.want)
		}
	}

	zero := &Instance{Start: base}
	if got := zero.Progress(base); got != 1 {
		t.Fatalf("zero-duration progress = %v, want 1", got)
	}
}

func TestSampleRetiresCompleted(t *testing.T) {
	tl := quietTimeline()
	base := time.Unix(1000, 0)
	short, err := tl.Spawn(PointImpact, gamemath.Vec2{X: 1, Y: 1}, 100*time.Millisecond, base)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if _, err := tl.Spawn(AreaIgnition, gamemath.Vec2{X: 3, Y: 3}, 500*time.Millisecond, base); err != nil {
		t.Fatalf("spawn: %v", err)
	}

	samples := tl.Sample(base.Add(50 * time.Millisecond))
	if len(samples) != 2 {
		t.Fatalf("expected 2 live samples, got %d", len(samples))
	}

	samples = tl.Sample(base.Add(100 * time.Millisecond))
	if len(samples) != 1 || samples[0].Kind != AreaIgnition {
		t.Fatalf("expected only the area effect to survive, got %+v", samples)
	}
	if short.Active {
		t.Fatalf("completed instance should be marked inactive")
	}
	if tl.Len() != 1 {
		t.Fatalf("Len = %d, want 1", tl.Len())
	}

	if got := tl.Sample(base.Add(time.Second)); len(got) != 0 || tl.Len() != 0 {
		t.Fatalf("expected empty timeline, got %d samples, len %d", len(got), tl.Len())
	}
}

func TestSpawnUnknownKind(t *testing.T) {
	tl := quietTimeline()
	_, err := tl.Spawn(Kind(99), gamemath.Vec2{}, time.Second, time.Unix(0, 0))
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if tl.Len() != 0 {
		t.Fatalf("failed spawn should not add an instance")
	}
}

func TestRegisterCustomKind(t *testing.T) {
	tl := quietTimeline()
	const shimmer Kind = 10
	tl.Register(shimmer, func(p float64) Appearance { return Appearance{Alpha: p} })

	base := time.Unix(0, 0)
	if _, err := tl.Spawn(shimmer, gamemath.Vec2{}, time.Second, base); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	s := tl.Sample(base.Add(250 * time.Millisecond))
	if len(s) != 1 || s[0].Appearance.Alpha != 0.25 {
		t.Fatalf("custom phase not applied: %+v", s)
	}
}

func TestActiveAt(t *testing.T) {
	tl := quietTimeline()
	base := time.Unix(0, 0)
	origin := gamemath.Vec2{X: 4, Y: 2}
	if tl.ActiveAt(AreaIgnition, origin) {
		t.Fatalf("empty timeline reported active instance")
	}
	if _, err := tl.Spawn(AreaIgnition, origin, 500*time.Millisecond, base); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if !tl.ActiveAt(AreaIgnition, origin) {
		t.Fatalf("expected active area effect at %v", origin)
	}
	if tl.ActiveAt(PointImpact, origin) {
		t.Fatalf("kind must be part of the match")
	}
	tl.Sample(base.Add(time.Second))
	if tl.ActiveAt(AreaIgnition, origin) {
		t.Fatalf("retired instance still reported active")
	}
}

func TestAreaIgnitionPhases(t *testing.T) {
	flash := AreaIgnitionPhase(0)
	if flash.Alpha < 0.89 || flash.Layers[0].Color.G != 255 {
		t.Fatalf("flash start = %+v", flash)
	}
	burn := AreaIgnitionPhase(0.5)
	if burn.Alpha > 0.8 || burn.Alpha < 0.5 {
		t.Fatalf("burn alpha out of range: %v", burn.Alpha)
	}
	fade := AreaIgnitionPhase(0.999)
	if fade.Alpha > 0.01 {
		t.Fatalf("fade should approach zero alpha, got %v", fade.Alpha)
	}
}

func TestPointImpactPhaseMonotonic(t *testing.T) {
	prev := PointImpactPhase(0)
	for p := 0.1; p < 1; p += 0.1 {
		cur := PointImpactPhase(p)
		if cur.Alpha > prev.Alpha {
			t.Fatalf("alpha increased at %v", p)
		}
		if cur.Layers[0].Radius < prev.Layers[0].Radius {
			t.Fatalf("radius shrank at %v", p)
		}
		prev = cur
	}
}
