package netsync

import (
	"github.com/automoto/emberwatch/events"
	"github.com/automoto/emberwatch/network"
	"github.com/automoto/emberwatch/shared/gamemath"
	"github.com/automoto/emberwatch/shared/messages"
	"github.com/automoto/emberwatch/timeline"
)

// FrameModel is everything the draw step needs for one display refresh.
// Slices are freshly built per frame; the draw step must not modify them.
type FrameModel struct {
	Tick      int64
	Phase     float64
	Connected bool

	World messages.World
	Tiles []string

	Players       []ActorFrame
	Monsters      []ActorFrame
	Projectiles   []network.EntitySample
	PendingSpells []messages.PendingSpell

	Damage     []events.DamageGroupView
	Animations []timeline.Sample
}

// ActorFrame is an interpolated player or monster.
type ActorFrame struct {
	ID       string
	Position gamemath.Vec2
	Label    string // player class or monster kind
	HP       int
	HPMax    int
	Local    bool
}

// Notification is a transient server message shown for the first time.
type Notification struct {
	Content string
	Tick    int64
}

// Stats counts what a Session has processed since it was created.
type Stats struct {
	Snapshots    int
	Terminations int
	Spawned      int
	Notified     int
	DamageEvents int
}
