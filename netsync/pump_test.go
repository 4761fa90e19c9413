package netsync

import (
	"testing"

	"github.com/automoto/emberwatch/network"
	"github.com/automoto/emberwatch/shared/messages"
)

// scriptedSource hands out one batch per drain. The connection reads as
// dropped once dropAfter drains have happened.
type scriptedSource struct {
	batches   [][]messages.Inbound
	drains    int
	dropAfter int
}

func (f *scriptedSource) DrainMessages() []messages.Inbound {
	f.drains++
	if len(f.batches) == 0 {
		return nil
	}
	b := f.batches[0]
	f.batches = f.batches[1:]
	return b
}

func (f *scriptedSource) State() network.ClientState {
	if f.drains >= f.dropAfter {
		return network.StateDisconnected
	}
	return network.StateJoined
}

func (f *scriptedSource) LastError() error { return nil }

func TestPumpAppliesMessagesQueuedBeforeDrop(t *testing.T) {
	s, _ := newTestSession(t)
	src := &scriptedSource{
		batches: [][]messages.Inbound{
			{state(1, messages.Snapshot{})},
			// queued by the read loop after the first drain, right before it drops
			{state(2, messages.Snapshot{})},
		},
		dropAfter: 1,
	}

	if !s.Pump(src) {
		t.Fatal("Pump should close the session once the source drops")
	}
	if !s.Closed() {
		t.Fatal("session not closed")
	}
	if got := s.Stats().Snapshots; got != 2 {
		t.Fatalf("applied %d snapshots, want 2", got)
	}
	if f := s.Frame(); f.Tick != 2 {
		t.Fatalf("frame tick = %d, want 2", f.Tick)
	}
	if s.Pump(src) {
		t.Fatal("an already closed session must not report closing again")
	}
}

func TestPumpKeepsLiveSessionOpen(t *testing.T) {
	s, _ := newTestSession(t)
	src := &scriptedSource{
		batches:   [][]messages.Inbound{{messages.Connected{PlayerID: "4", Tick: 9}}},
		dropAfter: 100,
	}
	if s.Pump(src) {
		t.Fatal("session closed while the source is live")
	}
	if s.Closed() || s.PlayerID() != "4" {
		t.Fatalf("closed=%v player=%q", s.Closed(), s.PlayerID())
	}
	if src.drains != 1 {
		t.Fatalf("live source drained %d times, want 1", src.drains)
	}
}
