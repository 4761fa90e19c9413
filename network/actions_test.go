package network

import (
	"testing"
	"time"

	"github.com/automoto/emberwatch/shared/messages"
)

func TestActionPlannerCadence(t *testing.T) {
	p := NewActionPlanner(200 * time.Millisecond)
	t0 := time.Unix(1000, 0)

	if _, ok := p.Next(t0); ok {
		t.Fatal("empty planner produced an action")
	}

	p.Queue(messages.Move(1, 0))
	p.Queue(messages.Move(0, -1))
	a, ok := p.Next(t0)
	if !ok {
		t.Fatal("expected queued move")
	}
	if mv, _ := a.Payload.(messages.MovePayload); a.Type != messages.ActionMove || mv.DX != 0 || mv.DY != -1 {
		t.Fatalf("got %+v, want latest move (0,-1)", a)
	}

	p.Queue(messages.Rest())
	if _, ok := p.Next(t0.Add(150 * time.Millisecond)); ok {
		t.Fatal("sent twice within one interval")
	}
	a, ok = p.Next(t0.Add(200 * time.Millisecond))
	if !ok || a.Type != messages.ActionRest {
		t.Fatalf("got %+v ok=%v, want rest", a, ok)
	}
	if p.Pending() {
		t.Fatal("planner should be empty")
	}
}

func TestActionPlannerCastWins(t *testing.T) {
	p := NewActionPlanner(200 * time.Millisecond)
	t0 := time.Unix(1000, 0)

	p.Queue(messages.Move(1, 0))
	p.Target("fireball", 4, 5)

	a, ok := p.Next(t0)
	if !ok || a.Type != messages.ActionCast {
		t.Fatalf("got %+v, want cast", a)
	}
	if c := a.Payload.(messages.CastPayload); c.Spell != "fireball" || c.TX != 4 || c.TY != 5 {
		t.Fatalf("cast payload = %+v", c)
	}

	a, ok = p.Next(t0.Add(200 * time.Millisecond))
	if !ok || a.Type != messages.ActionMove {
		t.Fatalf("got %+v, want the move left behind by the cast", a)
	}

	p.Target("fireball", 1, 1)
	p.CancelCast()
	if p.Pending() {
		t.Fatal("cancelled cast still pending")
	}
}
