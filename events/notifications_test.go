package events

import "testing"

func TestPresentIsIdempotentWithinWindow(t *testing.T) {
	tr := NewNotificationTracker(25, 0)
	if !tr.Present("Wolves approach", 10) {
		t.Fatalf("first call must show")
	}
	if tr.Present("Wolves approach", 10) {
		t.Fatalf("second call in same tick must be suppressed")
	}
	if until, ok := tr.SuppressedUntil("Wolves approach"); !ok || until != 35 {
		t.Fatalf("suppressed until %d (ok=%v), want 35", until, ok)
	}
}

func TestPresentRepeatedServerNotification(t *testing.T) {
	tr := NewNotificationTracker(25, 0)
	shown := []int64{}
	for tick := int64(10); tick <= 29; tick++ {
		if tr.Present("Wolves approach", tick) {
			shown = append(shown, tick)
		}
	}
	if len(shown) != 1 || shown[0] != 10 {
		t.Fatalf("shown at %v, want only tick 10", shown)
	}
	if tr.Present("Wolves approach", 34) {
		t.Fatalf("still inside window at tick 34")
	}
	if !tr.Present("Wolves approach", 35) {
		t.Fatalf("window elapsed at tick 35, should show again")
	}
}

func TestPresentExactContentMatch(t *testing.T) {
	tr := NewNotificationTracker(25, 0)
	tr.Present("Wolves approach", 1)
	if !tr.Present("wolves approach", 1) {
		t.Fatalf("different case is different content")
	}
	if !tr.Present("Wolves approach!", 1) {
		t.Fatalf("no fuzzy matching expected")
	}
}

func TestPresentBoundedRecords(t *testing.T) {
	tr := NewNotificationTracker(2, 2)
	tr.Present("a", 1)
	tr.Present("b", 1)
	tr.Present("c", 5) // a and b expired at tick 3
	if tr.Len() != 1 {
		t.Fatalf("expired records should be dropped, have %d", tr.Len())
	}
	tr.Present("d", 5)
	tr.Present("e", 5) // nothing expired yet, map may grow
	if tr.Present("c", 6) {
		t.Fatalf("live record must not be dropped")
	}
}
