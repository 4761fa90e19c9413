package events

import (
	"sort"

	"github.com/automoto/emberwatch/shared/gamemath"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DamageReport is one damage event as seen in a snapshot.
type DamageReport struct {
	Location  gamemath.GridPos
	Magnitude int
	Remaining int // server-side countdown
}

// DamageCountdown is a client-owned damage number. It decays once per
// rendered frame, independent of server ticks.
type DamageCountdown struct {
	Magnitude       int
	RemainingFrames int
	InitialFrames   int

	rise   *gween.Tween
	offset float32
}

// Progress runs from 0 when created to 1 on the last frame.
func (c *DamageCountdown) Progress() float64 {
	if c.InitialFrames <= 0 {
		return 1
	}
	return 1 - float64(c.RemainingFrames)/float64(c.InitialFrames)
}

// Rise is the current upward drift in pixels.
func (c *DamageCountdown) Rise() float64 {
	return float64(c.offset)
}

func (c *DamageCountdown) step() {
	c.RemainingFrames--
	if c.rise != nil {
		c.offset, _ = c.rise.Update(1)
	}
}

// DamageGroupView is a read-only copy of the countdowns at one location.
type DamageGroupView struct {
	Location   gamemath.GridPos
	Countdowns []DamageCountdownView
}

type DamageCountdownView struct {
	Magnitude       int
	RemainingFrames int
	InitialFrames   int
	Progress        float64
	Rise            float64
}

// DamageStream converts fresh server damage events into client countdowns,
// grouped by location.
type DamageStream struct {
	freshThreshold int
	maxFrames      int
	risePixels     float32
	groups         map[gamemath.GridPos][]*DamageCountdown
}

// NewDamageStream returns a stream that accepts events whose server countdown
// is at least freshThreshold and gives each a client lifetime of at most
// maxFrames frames.
func NewDamageStream(freshThreshold, maxFrames int, risePixels float64) *DamageStream {
	if maxFrames <= 0 {
		maxFrames = 60
	}
	return &DamageStream{
		freshThreshold: freshThreshold,
		maxFrames:      maxFrames,
		risePixels:     float32(risePixels),
		groups:         make(map[gamemath.GridPos][]*DamageCountdown),
	}
}

// IsFresh reports whether a server countdown value marks an event created on
// the tick it was reported.
func (s *DamageStream) IsFresh(remaining int) bool {
	return remaining >= s.freshThreshold
}

// Ingest creates a countdown for every fresh report and ignores the rest.
// Countdowns stack at a location. It returns the number created.
func (s *DamageStream) Ingest(reports []DamageReport) int {
	created := 0
	for _, r := range reports {
		if !s.IsFresh(r.Remaining) {
			continue
		}
		frames := s.maxFrames
		if r.Remaining > 0 && r.Remaining < frames {
			frames = r.Remaining
		}
		c := &DamageCountdown{
			Magnitude:       r.Magnitude,
			RemainingFrames: frames,
			InitialFrames:   frames,
		}
		if s.risePixels != 0 {
			c.rise = gween.New(0, s.risePixels, float32(frames), ease.OutQuad)
		}
		s.groups[r.Location] = append(s.groups[r.Location], c)
		created++
	}
	return created
}

// Tick advances every countdown by one frame and evicts the ones that reach 0.
func (s *DamageStream) Tick() {
	for loc, list := range s.groups {
		kept := list[:0]
		for _, c := range list {
			c.step()
			if c.RemainingFrames > 0 {
				kept = append(kept, c)
			}
		}
		for i := len(kept); i < len(list); i++ {
			list[i] = nil
		}
		if len(kept) == 0 {
			delete(s.groups, loc)
			continue
		}
		s.groups[loc] = kept
	}
}

// Groups returns a snapshot of every active group, ordered by location.
func (s *DamageStream) Groups() []DamageGroupView {
	out := make([]DamageGroupView, 0, len(s.groups))
	for loc, list := range s.groups {
		view := DamageGroupView{Location: loc, Countdowns: make([]DamageCountdownView, len(list))}
		for i, c := range list {
			view.Countdowns[i] = DamageCountdownView{
				Magnitude:       c.Magnitude,
				RemainingFrames: c.RemainingFrames,
				InitialFrames:   c.InitialFrames,
				Progress:        c.Progress(),
				Rise:            c.Rise(),
			}
		}
		out = append(out, view)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Location, out[j].Location
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return out
}

// Len returns the number of live countdowns across all locations.
func (s *DamageStream) Len() int {
	n := 0
	for _, list := range s.groups {
		n += len(list)
	}
	return n
}
