package main

import (
	"strings"
	"testing"

	"github.com/automoto/emberwatch/events"
	"github.com/automoto/emberwatch/netsync"
	"github.com/automoto/emberwatch/network"
	"github.com/automoto/emberwatch/shared/gamemath"
	"github.com/automoto/emberwatch/shared/messages"
	"github.com/gdamore/tcell/v2"
)

func newSimView(t *testing.T, w, h int) (*View, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(w, h)
	return NewView(screen, nil), screen
}

func runeAt(screen tcell.Screen, x, y int) rune {
	r, _, _, _ := screen.GetContent(x, y)
	return r
}

func rowText(screen tcell.Screen, y, w int) string {
	var b strings.Builder
	for x := 0; x < w; x++ {
		b.WriteRune(runeAt(screen, x, y))
	}
	return b.String()
}

func TestViewDrawsWorld(t *testing.T) {
	v, screen := newSimView(t, 20, 10)

	f := netsync.FrameModel{
		Tick:      7,
		Connected: true,
		World:     messages.World{W: 5, H: 5},
		Tiles:     []string{"W....", ".....", ".....", ".....", "....."},
		Players: []netsync.ActorFrame{
			{ID: "1", Position: gamemath.Vec2{X: 2, Y: 2}, Local: true},
		},
		Monsters: []netsync.ActorFrame{
			{ID: "9", Position: gamemath.Vec2{X: 4.2, Y: 0.9}, Label: "slime"},
		},
		Projectiles: []network.EntitySample{
			{ID: "p", Position: gamemath.Vec2{X: 1, Y: 3}},
		},
		Damage: []events.DamageGroupView{
			{Location: gamemath.GridPos{X: 3, Y: 4}, Countdowns: []events.DamageCountdownView{{Magnitude: 5}}},
		},
	}
	v.Draw(f)

	// map rows start at screen row 1
	checks := []struct {
		x, y int
		want rune
	}{
		{0, 1, '~'},
		{1, 1, '.'},
		{2, 3, '@'},
		{4, 2, 's'},
		{1, 4, '*'},
		{3, 4, '-'},
		{4, 4, '5'},
	}
	for _, c := range checks {
		if got := runeAt(screen, c.x, c.y); got != c.want {
			t.Errorf("cell (%d,%d) = %q, want %q", c.x, c.y, got, c.want)
		}
	}

	if status := rowText(screen, 0, 20); !strings.HasPrefix(status, "tick 7") {
		t.Errorf("status line = %q", status)
	}
}

func TestViewFeedKeepsNewestLines(t *testing.T) {
	v, screen := newSimView(t, 30, 10)
	for i := int64(1); i <= 6; i++ {
		v.Notify(netsync.Notification{Content: "wave", Tick: i})
	}
	if len(v.feed) != feedLines {
		t.Fatalf("feed = %d lines, want %d", len(v.feed), feedLines)
	}

	v.Draw(netsync.FrameModel{})
	if got := rowText(screen, 10-feedLines, 30); !strings.HasPrefix(got, "[3] wave") {
		t.Fatalf("oldest feed line = %q, want tick 3", got)
	}
	if got := rowText(screen, 0, 30); !strings.Contains(got, "[offline]") {
		t.Fatalf("status should mark a disconnected frame: %q", got)
	}
}

func TestViewOriginFollowsLocalPlayer(t *testing.T) {
	f := netsync.FrameModel{
		World:   messages.World{W: 100, H: 100},
		Players: []netsync.ActorFrame{{Position: gamemath.Vec2{X: 50, Y: 98}, Local: true}},
	}
	x, y := viewOrigin(f, 20, 10)
	if x != 40 || y != 90 {
		t.Fatalf("origin = (%d,%d), want (40,90)", x, y)
	}
}
