package network

import (
	"time"

	"github.com/automoto/emberwatch/shared/messages"
)

// CastTarget is a spell aimed at a tile, waiting for the next send slot.
type CastTarget struct {
	Spell string
	X, Y  int
}

// ActionPlanner buffers player intent between send slots. The server consumes
// at most one action per tick, so intent is collapsed to the latest key press
// and released at a fixed cadence. A targeted cast wins over a queued move.
type ActionPlanner struct {
	interval time.Duration
	last     time.Time
	sent     bool

	pending *messages.Action
	cast    *CastTarget
}

func NewActionPlanner(interval time.Duration) *ActionPlanner {
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	return &ActionPlanner{interval: interval}
}

// Queue replaces any pending action.
func (p *ActionPlanner) Queue(a messages.Action) {
	p.pending = &a
}

// Target aims a spell. Moves queued afterwards are still overridden by it.
func (p *ActionPlanner) Target(spell string, x, y int) {
	p.cast = &CastTarget{Spell: spell, X: x, Y: y}
}

func (p *ActionPlanner) CancelCast() {
	p.cast = nil
}

func (p *ActionPlanner) Pending() bool {
	return p.pending != nil || p.cast != nil
}

// Next returns the action to send at now, if a send slot is open and
// something is queued. The returned action is removed from the planner.
func (p *ActionPlanner) Next(now time.Time) (messages.Action, bool) {
	if p.sent && now.Sub(p.last) < p.interval {
		return messages.Action{}, false
	}

	var a messages.Action
	switch {
	case p.cast != nil:
		a = messages.Cast(p.cast.Spell, p.cast.X, p.cast.Y)
		p.cast = nil
	case p.pending != nil:
		a = *p.pending
		p.pending = nil
	default:
		return messages.Action{}, false
	}

	p.last = now
	p.sent = true
	return a, true
}
