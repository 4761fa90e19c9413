package messages

import (
	"sort"

	"github.com/automoto/emberwatch/shared/gamemath"
)

// Snapshot is the full world state for one server tick. The server may omit
// any collection; omitted collections decode as nil and are treated as empty.
type Snapshot struct {
	World         World          `json:"world"`
	Tiles         []string       `json:"tiles"`
	Entities      map[ID]Actor   `json:"entities"`
	Players       map[ID]Actor   `json:"players"`
	Monsters      []Monster      `json:"monsters"`
	Projectiles   []Projectile   `json:"projectiles"`
	Effects       []Effect       `json:"effects"`
	DamageNumbers []DamageGroup  `json:"damageNumbers"`
	Notifications []string       `json:"notifications"`
	PendingSpells []PendingSpell `json:"pendingSpells"`
}

type World struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Actor is a player-like entity keyed by id in the snapshot.
type Actor struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Class string  `json:"class,omitempty"`
}

type Monster struct {
	ID    ID      `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Kind  string  `json:"kind,omitempty"`
	HP    int     `json:"hp,omitempty"`
	HPMax int     `json:"hpMax,omitempty"`
}

// Projectile is a short-lived moving entity. DX/DY is its direction of travel.
type Projectile struct {
	ID ID      `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Effect marks a tile covered by an area effect this tick.
type Effect struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type DamageGroup struct {
	X       int            `json:"x"`
	Y       int            `json:"y"`
	Numbers []DamageNumber `json:"numbers"`
}

// DamageNumber is one damage event. TTL is the server-side remaining
// countdown, decremented once per server tick.
type DamageNumber struct {
	Damage int `json:"damage"`
	TTL    int `json:"ttl"`
}

type PendingSpell struct {
	X              int    `json:"x"`
	Y              int    `json:"y"`
	Spell          string `json:"spell,omitempty"`
	Radius         int    `json:"radius,omitempty"` // Manhattan radius of the area, 0 means a single tile
	TicksRemaining int    `json:"ticksRemaining"`
}

func (e Effect) Pos() gamemath.GridPos { return gamemath.GridPos{X: e.X, Y: e.Y} }

func (g DamageGroup) Pos() gamemath.GridPos { return gamemath.GridPos{X: g.X, Y: g.Y} }

// ActorIDs returns the ids of every player-like entity, merging the
// "entities" and "players" maps, in ascending order.
func (s Snapshot) ActorIDs() []ID {
	ids := make([]ID, 0, len(s.Entities)+len(s.Players))
	for id := range s.Entities {
		ids = append(ids, id)
	}
	for id := range s.Players {
		if _, dup := s.Entities[id]; !dup {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Actor looks up an actor in "entities" first, then "players".
func (s Snapshot) Actor(id ID) (Actor, bool) {
	if a, ok := s.Entities[id]; ok {
		return a, true
	}
	a, ok := s.Players[id]
	return a, ok
}
