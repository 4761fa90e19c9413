// Package events turns repeated server-side transient signals into
// exactly-once client presentations.
package events

// NotificationTracker suppresses notifications the server keeps re-sending
// every tick while their server-side TTL is running.
type NotificationTracker struct {
	window        int64
	maxRecords    int
	suppressUntil map[string]int64
}

// NewNotificationTracker returns a tracker that hides repeats of the same
// content for window ticks after it was shown. maxRecords bounds memory; when
// exceeded, expired records are dropped on the next insert.
func NewNotificationTracker(window int64, maxRecords int) *NotificationTracker {
	if window <= 0 {
		window = 25
	}
	return &NotificationTracker{
		window:        window,
		maxRecords:    maxRecords,
		suppressUntil: make(map[string]int64),
	}
}

// Present reports whether content should be shown at tick. Content matches by
// exact string equality. A true result starts a new suppression window.
func (t *NotificationTracker) Present(content string, tick int64) bool {
	if until, ok := t.suppressUntil[content]; ok && until > tick {
		return false
	}
	if t.maxRecords > 0 && len(t.suppressUntil) >= t.maxRecords {
		t.dropExpired(tick)
	}
	t.suppressUntil[content] = tick + t.window
	return true
}

// SuppressedUntil returns the tick at which content may be shown again.
func (t *NotificationTracker) SuppressedUntil(content string) (int64, bool) {
	until, ok := t.suppressUntil[content]
	return until, ok
}

func (t *NotificationTracker) Len() int {
	return len(t.suppressUntil)
}

func (t *NotificationTracker) dropExpired(tick int64) {
	for content, until := range t.suppressUntil {
		if until <= tick {
			delete(t.suppressUntil, content)
		}
	}
}
