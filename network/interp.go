package network

import (
	"sort"
	"time"

	"github.com/automoto/emberwatch/shared/gamemath"
)

// InterpolatedEntity holds the two most recent observations of one entity.
type InterpolatedEntity struct {
	Previous   gamemath.Vec2
	Current    gamemath.Vec2
	Direction  gamemath.Vec2
	LastUpdate time.Time
}

// Observation is one entity as reported by a snapshot. When HasDirection is
// false the direction is implied from the displacement since the last
// observation.
type Observation struct {
	ID           string
	Position     gamemath.Vec2
	Direction    gamemath.Vec2
	HasDirection bool
}

// Termination reports an entity that stopped appearing in snapshots.
type Termination struct {
	ID       string
	Position gamemath.Vec2
}

// EntitySample is an entity's smoothed position for one frame.
type EntitySample struct {
	ID        string
	Position  gamemath.Vec2
	Direction gamemath.Vec2
}

// InterpStore keeps previous/current positions for continuously moving
// entities and linearly interpolates between them.
type InterpStore struct {
	spawnBackoff float64
	entities     map[string]*InterpolatedEntity
	ids          []string // sorted, rebuilt on Ingest
}

// NewInterpStore returns an empty store. spawnBackoff is the fraction of one
// tile a first-seen entity is pulled back along its direction of travel.
func NewInterpStore(spawnBackoff float64) *InterpStore {
	return &InterpStore{
		spawnBackoff: spawnBackoff,
		entities:     make(map[string]*InterpolatedEntity),
	}
}

// Ingest applies one snapshot's worth of observations. Every tracked entity
// missing from obs is removed and returned as a Termination at its last known
// position. The store is fully updated before Ingest returns.
func (s *InterpStore) Ingest(obs []Observation, now time.Time) []Termination {
	present := make(map[string]struct{}, len(obs))

	for _, o := range obs {
		// First observation of an id wins within one snapshot.
		if _, dup := present[o.ID]; dup {
			continue
		}
		present[o.ID] = struct{}{}

		ent, seen := s.entities[o.ID]
		if !seen {
			dir := o.Direction
			if !o.HasDirection {
				dir = gamemath.Vec2{}
			}
			// Direction is taken as reported, not normalized. A zero direction
			// degenerates to appearing exactly at the reported position.
			back := dir.MulScalar(s.spawnBackoff)
			s.entities[o.ID] = &InterpolatedEntity{
				Previous:   o.Position.Sub(back),
				Current:    o.Position,
				Direction:  dir,
				LastUpdate: now,
			}
			continue
		}

		ent.Previous = ent.Current
		ent.Current = o.Position
		if o.HasDirection {
			ent.Direction = o.Direction
		} else {
			ent.Direction = ent.Current.Sub(ent.Previous)
		}
		ent.LastUpdate = now
	}

	var terminated []Termination
	for id, ent := range s.entities {
		if _, ok := present[id]; ok {
			continue
		}
		terminated = append(terminated, Termination{ID: id, Position: ent.Current})
		delete(s.entities, id)
	}
	sort.Slice(terminated, func(i, j int) bool { return terminated[i].ID < terminated[j].ID })

	s.ids = s.ids[:0]
	for id := range s.entities {
		s.ids = append(s.ids, id)
	}
	sort.Strings(s.ids)

	return terminated
}

// Sample returns lerp(previous, current, phase) for id. Unknown ids report
// false.
func (s *InterpStore) Sample(id string, phase float64) (gamemath.Vec2, bool) {
	ent, ok := s.entities[id]
	if !ok {
		return gamemath.Vec2{}, false
	}
	return gamemath.LerpVec(ent.Previous, ent.Current, gamemath.Clamp01(phase)), true
}

// SampleAll samples every tracked entity in id order.
func (s *InterpStore) SampleAll(phase float64) []EntitySample {
	out := make([]EntitySample, 0, len(s.ids))
	for _, id := range s.ids {
		ent := s.entities[id]
		out = append(out, EntitySample{
			ID:        id,
			Position:  gamemath.LerpVec(ent.Previous, ent.Current, gamemath.Clamp01(phase)),
			Direction: ent.Direction,
		})
	}
	return out
}

// entity returns a copy of the tracked state for id.
func (s *InterpStore) entity(id string) (InterpolatedEntity, bool) {
	ent, ok := s.entities[id]
	if !ok {
		return InterpolatedEntity{}, false
	}
	return *ent, true
}
