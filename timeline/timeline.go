// Package timeline drives client-only visual effects from wall-clock time.
//
// Every effect is an Instance with a start instant and a duration. Its
// normalized progress is a pure function of "now", so effects keep decaying at
// display rate regardless of when (or whether) server snapshots arrive. Effect
// kinds differ only in the PhaseFunc that turns progress into an Appearance.
package timeline

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/automoto/emberwatch/shared/gamemath"
)

// Kind tags an animation's visual family.
type Kind int

const (
	AreaIgnition Kind = iota // long multi-phase flash -> burn -> fade on a tile
	PointImpact              // short radial fade where a projectile ended
)

func (k Kind) String() string {
	switch k {
	case AreaIgnition:
		return "area-ignition"
	case PointImpact:
		return "point-impact"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ErrUnknownKind is returned by Spawn when no phase function is registered for
// the requested kind.
var ErrUnknownKind = errors.New("unknown animation kind")

// Instance is one running effect.
type Instance struct {
	ID       uint64
	Kind     Kind
	Origin   gamemath.Vec2
	Start    time.Time
	Duration time.Duration
	Active   bool
}

// Progress returns clamp((now-start)/duration, 0, 1). A non-positive duration
// is already complete.
func (in *Instance) Progress(now time.Time) float64 {
	if in.Duration <= 0 {
		return 1
	}
	return gamemath.Clamp01(float64(now.Sub(in.Start)) / float64(in.Duration))
}

// Sample is a resolved view of one instance for a single frame.
type Sample struct {
	ID         uint64
	Kind       Kind
	Origin     gamemath.Vec2
	Progress   float64
	Appearance Appearance
}

// Timeline owns the set of active instances.
type Timeline struct {
	phases    map[Kind]PhaseFunc
	instances []*Instance
	nextID    uint64
	logger    *log.Logger
}

// New returns a Timeline with the built-in phase functions registered.
func New(logger *log.Logger) *Timeline {
	if logger == nil {
		logger = log.Default()
	}
	tl := &Timeline{
		phases: make(map[Kind]PhaseFunc),
		logger: logger,
	}
	tl.Register(AreaIgnition, AreaIgnitionPhase)
	tl.Register(PointImpact, PointImpactPhase)
	return tl
}

// Register installs (or replaces) the phase function for kind.
func (tl *Timeline) Register(kind Kind, fn PhaseFunc) {
	tl.phases[kind] = fn
}

// Spawn starts a new instance at now.
func (tl *Timeline) Spawn(kind Kind, origin gamemath.Vec2, duration time.Duration, now time.Time) (*Instance, error) {
	if _, ok := tl.phases[kind]; !ok {
		return nil, fmt.Errorf("spawn %v: %w", kind, ErrUnknownKind)
	}
	tl.nextID++
	in := &Instance{
		ID:       tl.nextID,
		Kind:     kind,
		Origin:   origin,
		Start:    now,
		Duration: duration,
		Active:   true,
	}
	tl.instances = append(tl.instances, in)
	return in, nil
}

// ActiveAt reports whether an active instance of kind is running at origin.
func (tl *Timeline) ActiveAt(kind Kind, origin gamemath.Vec2) bool {
	for _, in := range tl.instances {
		if in.Active && in.Kind == kind && in.Origin == origin {
			return true
		}
	}
	return false
}

// Len returns the number of instances not yet retired.
func (tl *Timeline) Len() int {
	return len(tl.instances)
}

// Sample resolves every live instance at now. Instances whose progress has
// reached 1 are retired and not returned.
func (tl *Timeline) Sample(now time.Time) []Sample {
	out := make([]Sample, 0, len(tl.instances))
	kept := tl.instances[:0]
	for _, in := range tl.instances {
		p := in.Progress(now)
		if p >= 1 {
			in.Active = false
			continue
		}
		kept = append(kept, in)

		fn, ok := tl.phases[in.Kind]
		if !ok {
			tl.logger.Printf("[timeline] no phase function for %v, skipping instance %d", in.Kind, in.ID)
			continue
		}
		out = append(out, Sample{
			ID:         in.ID,
			Kind:       in.Kind,
			Origin:     in.Origin,
			Progress:   p,
			Appearance: fn(p),
		})
	}
	for i := len(kept); i < len(tl.instances); i++ {
		tl.instances[i] = nil
	}
	tl.instances = kept
	return out
}
