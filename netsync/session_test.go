package netsync

import (
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/automoto/emberwatch/shared/gamemath"
	"github.com/automoto/emberwatch/shared/messages"
	"github.com/automoto/emberwatch/timeline"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func testConfig() Config {
	return Config{
		TickPeriod:           200 * time.Millisecond,
		SpawnBackoff:         0.45,
		NotificationWindow:   25,
		MaxSuppressedRecords: 1024,
		DamageFreshThreshold: 59,
		DamageMaxFrames:      60,
		DamageRisePixels:     28,
		AreaIgnition:         500 * time.Millisecond,
		PointImpact:          250 * time.Millisecond,
	}
}

func newTestSession(t *testing.T, opts ...Option) (*Session, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Unix(1700000000, 0)}
	opts = append([]Option{WithClock(clk.Now), WithLogger(log.New(io.Discard, "", 0))}, opts...)
	return NewSession(testConfig(), opts...), clk
}

func state(tick int64, s messages.Snapshot) messages.StateUpdate {
	return messages.StateUpdate{Tick: tick, State: s}
}

func projectile(id string, x, y, dx, dy float64) messages.Projectile {
	return messages.Projectile{ID: messages.ID(id), X: x, Y: y, DX: dx, DY: dy}
}

func TestSessionProjectileInterpolation(t *testing.T) {
	s, clk := newTestSession(t)

	if err := s.OnSnapshot(state(10, messages.Snapshot{Projectiles: []messages.Projectile{projectile("p1", 2, 2, 1, 0)}})); err != nil {
		t.Fatalf("snapshot 10: %v", err)
	}
	clk.Advance(200 * time.Millisecond)
	if err := s.OnSnapshot(state(11, messages.Snapshot{Projectiles: []messages.Projectile{projectile("p1", 3, 2, 1, 0)}})); err != nil {
		t.Fatalf("snapshot 11: %v", err)
	}

	clk.Advance(100 * time.Millisecond)
	f := s.Frame()
	if f.Phase != 0.5 {
		t.Fatalf("phase = %v, want 0.5", f.Phase)
	}
	if len(f.Projectiles) != 1 || f.Projectiles[0].Position != (gamemath.Vec2{X: 2.5, Y: 2}) {
		t.Fatalf("projectiles = %+v, want p1 at (2.5,2)", f.Projectiles)
	}
	if f.Tick != 11 {
		t.Fatalf("frame tick = %d, want 11", f.Tick)
	}
}

func TestSessionTerminationSpawnsOneImpact(t *testing.T) {
	var spawned []timeline.Instance
	s, clk := newTestSession(t, WithSpawnFunc(func(in timeline.Instance) { spawned = append(spawned, in) }))

	s.OnSnapshot(state(1, messages.Snapshot{Projectiles: []messages.Projectile{projectile("p1", 1, 1, 0, 1)}}))
	clk.Advance(200 * time.Millisecond)
	s.OnSnapshot(state(2, messages.Snapshot{Projectiles: []messages.Projectile{projectile("p1", 1, 2, 0, 1)}}))
	clk.Advance(200 * time.Millisecond)
	s.OnSnapshot(state(3, messages.Snapshot{}))
	clk.Advance(200 * time.Millisecond)
	s.OnSnapshot(state(4, messages.Snapshot{}))

	if len(spawned) != 1 {
		t.Fatalf("expected exactly one spawn, got %d", len(spawned))
	}
	if spawned[0].Kind != timeline.PointImpact || spawned[0].Origin != (gamemath.Vec2{X: 1, Y: 2}) {
		t.Fatalf("spawn = %+v, want point impact at last known (1,2)", spawned[0])
	}
	if s.Stats().Terminations != 1 {
		t.Fatalf("terminations = %d, want 1", s.Stats().Terminations)
	}
}

func TestSessionAreaEffectNotRestartedWhileActive(t *testing.T) {
	s, clk := newTestSession(t)
	fire := []messages.Effect{{X: 3, Y: 3}, {X: 3, Y: 4}, {X: 3, Y: 3}}

	s.OnSnapshot(state(1, messages.Snapshot{Effects: fire}))
	if got := s.Stats().Spawned; got != 2 {
		t.Fatalf("spawned = %d, want 2 (duplicate tile in one snapshot ignored)", got)
	}
	clk.Advance(200 * time.Millisecond)
	s.OnSnapshot(state(2, messages.Snapshot{Effects: fire}))
	if got := s.Stats().Spawned; got != 2 {
		t.Fatalf("repeat while animating spawned again: %d", got)
	}

	clk.Advance(100 * time.Millisecond)
	f := s.Frame()
	if len(f.Animations) != 2 {
		t.Fatalf("animations = %d, want 2", len(f.Animations))
	}
	if p := f.Animations[0].Progress; p < 0.59 || p > 0.61 {
		t.Fatalf("progress = %v, want 0.6", p)
	}

	clk.Advance(300 * time.Millisecond)
	if f := s.Frame(); len(f.Animations) != 0 {
		t.Fatalf("animations should have retired, got %d", len(f.Animations))
	}
	s.OnSnapshot(state(3, messages.Snapshot{Effects: fire[:1]}))
	if got := s.Stats().Spawned; got != 3 {
		t.Fatalf("new effect after retirement should spawn, total %d", got)
	}
}

func TestSessionNotificationsShownOnce(t *testing.T) {
	var pushed []Notification
	s, clk := newTestSession(t, WithNotifyFunc(func(n Notification) { pushed = append(pushed, n) }))

	for tick := int64(10); tick <= 29; tick++ {
		s.OnSnapshot(state(tick, messages.Snapshot{Notifications: []string{"Wolves approach"}}))
		clk.Advance(200 * time.Millisecond)
	}
	got := s.DrainNotifications()
	if len(got) != 1 || got[0].Tick != 10 || got[0].Content != "Wolves approach" {
		t.Fatalf("drained = %+v, want one at tick 10", got)
	}
	if len(pushed) != 1 {
		t.Fatalf("callback fired %d times, want 1", len(pushed))
	}
	if again := s.DrainNotifications(); len(again) != 0 {
		t.Fatalf("drain should empty the queue, got %+v", again)
	}

	s.OnSnapshot(state(35, messages.Snapshot{Notifications: []string{"Wolves approach"}}))
	if got := s.DrainNotifications(); len(got) != 1 || got[0].Tick != 35 {
		t.Fatalf("expected re-show at tick 35, got %+v", got)
	}
}

func TestSessionDamageFreshness(t *testing.T) {
	s, clk := newTestSession(t)
	hit := func(ttl int) []messages.DamageGroup {
		return []messages.DamageGroup{{X: 5, Y: 5, Numbers: []messages.DamageNumber{{Damage: 12, TTL: ttl}}}}
	}

	s.OnSnapshot(state(20, messages.Snapshot{DamageNumbers: hit(60)}))
	clk.Advance(200 * time.Millisecond)
	s.OnSnapshot(state(21, messages.Snapshot{DamageNumbers: hit(59 - 1)}))

	f := s.Frame()
	if len(f.Damage) != 1 || len(f.Damage[0].Countdowns) != 1 {
		t.Fatalf("expected exactly one countdown, got %+v", f.Damage)
	}
	if got := f.Damage[0].Countdowns[0].RemainingFrames; got != 59 {
		t.Fatalf("remaining frames after one frame = %d, want 59", got)
	}
	if s.Stats().DamageEvents != 1 {
		t.Fatalf("damage events = %d, want 1", s.Stats().DamageEvents)
	}

	// decays at frame rate with no further snapshots
	for i := 0; i < 59; i++ {
		s.Frame()
	}
	if f := s.Frame(); len(f.Damage) != 0 {
		t.Fatalf("countdown should be gone after 60 frames, got %+v", f.Damage)
	}
}

func TestSessionSparseSnapshot(t *testing.T) {
	s, _ := newTestSession(t)
	if err := s.OnSnapshot(state(1, messages.Snapshot{})); err != nil {
		t.Fatalf("empty snapshot: %v", err)
	}
	f := s.Frame()
	if len(f.Players) != 0 || len(f.Projectiles) != 0 || len(f.Damage) != 0 || len(f.Animations) != 0 {
		t.Fatalf("expected empty frame, got %+v", f)
	}
}

func TestSessionActorsAndLocalPlayer(t *testing.T) {
	s, clk := newTestSession(t)
	s.Handle(messages.Connected{PlayerID: "1", Tick: 5})

	snap := messages.Snapshot{
		Players:  map[messages.ID]messages.Actor{"1": {X: 1, Y: 1, Class: "mage"}, "2": {X: 4, Y: 4}},
		Monsters: []messages.Monster{{ID: "1", X: 9, Y: 9, Kind: "slime", HP: 3}},
	}
	s.OnSnapshot(state(6, snap))
	snap.Players = map[messages.ID]messages.Actor{"1": {X: 2, Y: 1, Class: "mage"}, "2": {X: 4, Y: 4}}
	clk.Advance(200 * time.Millisecond)
	s.OnSnapshot(state(7, snap))

	clk.Advance(50 * time.Millisecond)
	f := s.Frame()
	if !f.Connected {
		t.Fatalf("frame should report connected")
	}
	if len(f.Players) != 2 {
		t.Fatalf("players = %+v", f.Players)
	}
	me := f.Players[0]
	if !me.Local || me.Label != "mage" || me.Position != (gamemath.Vec2{X: 1.25, Y: 1}) {
		t.Fatalf("local player frame = %+v", me)
	}
	if f.Players[1].Local {
		t.Fatalf("remote player marked local")
	}
	if len(f.Monsters) != 1 || f.Monsters[0].Local || f.Monsters[0].Label != "slime" || f.Monsters[0].HP != 3 {
		t.Fatalf("monsters = %+v", f.Monsters)
	}

	// actors leaving never produce impact effects
	s.OnSnapshot(state(8, messages.Snapshot{}))
	if s.Stats().Spawned != 0 {
		t.Fatalf("actor disappearance spawned effects")
	}
}

func TestSessionCloseKeepsDecaying(t *testing.T) {
	s, clk := newTestSession(t)
	s.OnSnapshot(state(1, messages.Snapshot{
		Effects:       []messages.Effect{{X: 1, Y: 1}},
		DamageNumbers: []messages.DamageGroup{{X: 1, Y: 1, Numbers: []messages.DamageNumber{{Damage: 3, TTL: 60}}}},
	}))
	s.Close()

	if err := s.OnSnapshot(state(2, messages.Snapshot{})); !errors.Is(err, ErrClosed) {
		t.Fatalf("snapshot after close: got %v, want ErrClosed", err)
	}

	clk.Advance(100 * time.Millisecond)
	f := s.Frame()
	if f.Connected {
		t.Fatalf("closed session reported connected")
	}
	if len(f.Animations) != 1 || len(f.Damage) != 1 {
		t.Fatalf("in-flight effects cleared on close: %+v", f)
	}
	if s.Idle() {
		t.Fatalf("session should not be idle while effects run")
	}

	clk.Advance(time.Second)
	for i := 0; i < 60; i++ {
		s.Frame()
	}
	if !s.Idle() {
		t.Fatalf("effects should decay to completion after close")
	}
}

func TestSessionHandleDispatch(t *testing.T) {
	s, _ := newTestSession(t)

	if err := s.Handle(messages.Unknown{Type: "weather"}); err != nil {
		t.Fatalf("unknown message should be a no-op, got %v", err)
	}
	err := s.Handle(messages.ServerError{Message: "invalid token"})
	if !errors.Is(err, ErrServerRejected) {
		t.Fatalf("server error: got %v", err)
	}
	if s.LastError() != "invalid token" {
		t.Fatalf("last error = %q", s.LastError())
	}
	if err := s.Handle(messages.StateUpdate{Tick: 4}); err != nil {
		t.Fatalf("state: %v", err)
	}
	if s.LastFrame().Tick != 0 {
		t.Fatalf("LastFrame must not advance before Frame")
	}
	if f := s.Frame(); f.Tick != 4 {
		t.Fatalf("tick = %d, want 4", f.Tick)
	}
}
