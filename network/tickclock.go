package network

import (
	"time"

	"github.com/automoto/emberwatch/shared/gamemath"
)

// TickClock tracks when the latest snapshot arrived and turns wall-clock time
// into an interpolation phase between the previous and the current snapshot.
type TickClock struct {
	period      time.Duration
	lastArrival time.Time
	arrived     bool
	tick        int64
}

// NewTickClock returns a clock expecting one snapshot per period.
func NewTickClock(period time.Duration) *TickClock {
	if period <= 0 {
		period = 200 * time.Millisecond
	}
	return &TickClock{period: period}
}

// SetBaseline records the tick reported by the handshake without starting the
// interpolation window.
func (c *TickClock) SetBaseline(tick int64) {
	c.tick = tick
}

// OnSnapshotArrival marks now as the start of a new interpolation window.
func (c *TickClock) OnSnapshotArrival(now time.Time, tick int64) {
	c.lastArrival = now
	c.arrived = true
	c.tick = tick
}

// InterpolationPhase returns clamp((now-lastArrival)/period, 0, 1), or 0 before
// the first snapshot.
func (c *TickClock) InterpolationPhase(now time.Time) float64 {
	if !c.arrived {
		return 0
	}
	return gamemath.Clamp01(float64(now.Sub(c.lastArrival)) / float64(c.period))
}

// Tick returns the most recent server tick.
func (c *TickClock) Tick() int64 {
	return c.tick
}

// Period returns the expected interval between snapshots.
func (c *TickClock) Period() time.Duration {
	return c.period
}
