// Package netsync reconciles low-rate authoritative snapshots with the
// high-rate display loop.
//
// A Session has exactly two entry points. Handle (and OnSnapshot) runs once per
// server message and fully updates every derived structure before returning.
// Frame runs once per display refresh and produces a FrameModel. Both must be
// called from the same goroutine; the Session does no locking.
package netsync

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/automoto/emberwatch/events"
	"github.com/automoto/emberwatch/network"
	"github.com/automoto/emberwatch/shared/gamemath"
	"github.com/automoto/emberwatch/shared/messages"
	"github.com/automoto/emberwatch/timeline"
)

var (
	// ErrClosed is returned when a snapshot arrives after Close.
	ErrClosed = errors.New("session closed")
	// ErrServerRejected wraps an inbound error message.
	ErrServerRejected = errors.New("server rejected session")
)

type actorMeta struct {
	label string
	hp    int
	hpMax int
}

// Session owns all client-derived state for one connection.
type Session struct {
	cfg    Config
	now    func() time.Time
	logger *log.Logger

	clock         *network.TickClock
	projectiles   *network.InterpStore
	players       *network.InterpStore
	monsters      *network.InterpStore
	notifications *events.NotificationTracker
	damage        *events.DamageStream
	effects       *timeline.Timeline

	playerID  string
	connected bool
	closed    bool
	lastError string

	world       messages.World
	tiles       []string
	playerMeta  map[string]actorMeta
	monsterMeta map[string]actorMeta
	pending     []messages.PendingSpell

	firstSeen []Notification
	onNotify  func(Notification)
	onSpawn   func(timeline.Instance)

	stats Stats
	frame FrameModel
}

type Option func(*Session)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithNotifyFunc is called for every notification shown for the first time,
// in addition to it being queued for DrainNotifications.
func WithNotifyFunc(fn func(Notification)) Option {
	return func(s *Session) { s.onNotify = fn }
}

// WithSpawnFunc is called whenever the session starts a visual effect.
func WithSpawnFunc(fn func(timeline.Instance)) Option {
	return func(s *Session) { s.onSpawn = fn }
}

// NewSession builds a Session with empty derived state.
func NewSession(cfg Config, opts ...Option) *Session {
	s := &Session{
		cfg:         cfg,
		now:         time.Now,
		logger:      log.Default(),
		playerMeta:  make(map[string]actorMeta),
		monsterMeta: make(map[string]actorMeta),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.clock = network.NewTickClock(cfg.TickPeriod)
	s.projectiles = network.NewInterpStore(cfg.SpawnBackoff)
	s.players = network.NewInterpStore(cfg.SpawnBackoff)
	s.monsters = network.NewInterpStore(cfg.SpawnBackoff)
	s.notifications = events.NewNotificationTracker(cfg.NotificationWindow, cfg.MaxSuppressedRecords)
	s.damage = events.NewDamageStream(cfg.DamageFreshThreshold, cfg.DamageMaxFrames, cfg.DamageRisePixels)
	s.effects = timeline.New(s.logger)
	return s
}

// Handle dispatches one decoded server message.
func (s *Session) Handle(msg messages.Inbound) error {
	switch m := msg.(type) {
	case messages.Connected:
		s.onConnected(m)
		return nil
	case messages.StateUpdate:
		return s.OnSnapshot(m)
	case messages.ServerError:
		s.lastError = m.Message
		return fmt.Errorf("%w: %s", ErrServerRejected, m.Message)
	case messages.Unknown:
		s.logger.Printf("[session] ignoring message type %q", m.Type)
		return nil
	default:
		s.logger.Printf("[session] ignoring unexpected message %T", msg)
		return nil
	}
}

func (s *Session) onConnected(m messages.Connected) {
	s.playerID = string(m.PlayerID)
	s.connected = true
	s.clock.SetBaseline(m.Tick)
	s.logger.Printf("[session] connected as player %s at tick %d", m.PlayerID, m.Tick)
}

// OnSnapshot ingests one authoritative snapshot.
func (s *Session) OnSnapshot(m messages.StateUpdate) error {
	if s.closed {
		return ErrClosed
	}
	now := s.now()
	st := m.State
	s.clock.OnSnapshotArrival(now, m.Tick)
	s.stats.Snapshots++

	for _, t := range s.projectiles.Ingest(projectileObservations(st.Projectiles), now) {
		s.stats.Terminations++
		s.spawn(timeline.PointImpact, t.Position, s.cfg.PointImpact, now)
	}
	s.ingestActors(st, now)

	for _, e := range st.Effects {
		origin := e.Pos().Vec()
		if s.effects.ActiveAt(timeline.AreaIgnition, origin) {
			continue
		}
		s.spawn(timeline.AreaIgnition, origin, s.cfg.AreaIgnition, now)
	}

	for _, content := range st.Notifications {
		if !s.notifications.Present(content, m.Tick) {
			continue
		}
		n := Notification{Content: content, Tick: m.Tick}
		s.firstSeen = append(s.firstSeen, n)
		s.stats.Notified++
		if s.onNotify != nil {
			s.onNotify(n)
		}
	}

	s.stats.DamageEvents += s.damage.Ingest(damageReports(st.DamageNumbers))

	s.world = st.World
	if st.Tiles != nil {
		s.tiles = append([]string(nil), st.Tiles...)
	}
	s.pending = append(s.pending[:0:0], st.PendingSpells...)
	return nil
}

func (s *Session) ingestActors(st messages.Snapshot, now time.Time) {
	ids := st.ActorIDs()
	obs := make([]network.Observation, 0, len(ids))
	clear(s.playerMeta)
	for _, id := range ids {
		a, _ := st.Actor(id)
		obs = append(obs, network.Observation{ID: string(id), Position: gamemath.Vec2{X: a.X, Y: a.Y}})
		s.playerMeta[string(id)] = actorMeta{label: a.Class}
	}
	s.players.Ingest(obs, now)

	obs = obs[:0]
	clear(s.monsterMeta)
	for _, mo := range st.Monsters {
		obs = append(obs, network.Observation{ID: string(mo.ID), Position: gamemath.Vec2{X: mo.X, Y: mo.Y}})
		s.monsterMeta[string(mo.ID)] = actorMeta{label: mo.Kind, hp: mo.HP, hpMax: mo.HPMax}
	}
	s.monsters.Ingest(obs, now)
}

func (s *Session) spawn(kind timeline.Kind, origin gamemath.Vec2, d time.Duration, now time.Time) {
	in, err := s.effects.Spawn(kind, origin, d, now)
	if err != nil {
		s.logger.Printf("[session] %v", err)
		return
	}
	s.stats.Spawned++
	if s.onSpawn != nil {
		s.onSpawn(*in)
	}
}

// Frame samples interpolated positions and advances client-owned countdowns
// by one display frame.
func (s *Session) Frame() FrameModel {
	now := s.now()
	phase := s.clock.InterpolationPhase(now)

	s.damage.Tick()

	f := FrameModel{
		Tick:          s.clock.Tick(),
		Phase:         phase,
		Connected:     s.connected && !s.closed,
		World:         s.world,
		Tiles:         s.tiles,
		Players:       s.actorFrames(s.players, s.playerMeta, phase, true),
		Monsters:      s.actorFrames(s.monsters, s.monsterMeta, phase, false),
		Projectiles:   s.projectiles.SampleAll(phase),
		PendingSpells: append([]messages.PendingSpell(nil), s.pending...),
		Damage:        s.damage.Groups(),
		Animations:    s.effects.Sample(now),
	}
	s.frame = f
	return f
}

func (s *Session) actorFrames(store *network.InterpStore, meta map[string]actorMeta, phase float64, players bool) []ActorFrame {
	samples := store.SampleAll(phase)
	out := make([]ActorFrame, len(samples))
	for i, e := range samples {
		m := meta[e.ID]
		out[i] = ActorFrame{
			ID:       e.ID,
			Position: e.Position,
			Label:    m.label,
			HP:       m.hp,
			HPMax:    m.hpMax,
			Local:    players && e.ID == s.playerID,
		}
	}
	return out
}

// LastFrame returns the most recent FrameModel without advancing anything.
func (s *Session) LastFrame() FrameModel {
	return s.frame
}

// DrainNotifications returns notifications first shown since the last call.
func (s *Session) DrainNotifications() []Notification {
	out := s.firstSeen
	s.firstSeen = nil
	return out
}

// Close stops snapshot ingestion. Effects and damage countdowns already
// running keep decaying on subsequent Frame calls.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.logger.Printf("[session] closed after %d snapshots (%d effects, %d damage countdowns live)",
		s.stats.Snapshots, s.effects.Len(), s.damage.Len())
}

func (s *Session) Closed() bool      { return s.closed }
func (s *Session) PlayerID() string  { return s.playerID }
func (s *Session) LastError() string { return s.lastError }
func (s *Session) Stats() Stats      { return s.stats }

// Idle reports whether nothing client-owned is still animating.
func (s *Session) Idle() bool {
	return s.effects.Len() == 0 && s.damage.Len() == 0
}

func projectileObservations(ps []messages.Projectile) []network.Observation {
	obs := make([]network.Observation, 0, len(ps))
	for _, p := range ps {
		obs = append(obs, network.Observation{
			ID:           string(p.ID),
			Position:     gamemath.Vec2{X: p.X, Y: p.Y},
			Direction:    gamemath.Vec2{X: p.DX, Y: p.DY},
			HasDirection: true,
		})
	}
	return obs
}

func damageReports(groups []messages.DamageGroup) []events.DamageReport {
	var out []events.DamageReport
	for _, g := range groups {
		for _, n := range g.Numbers {
			out = append(out, events.DamageReport{
				Location:  g.Pos(),
				Magnitude: n.Damage,
				Remaining: n.TTL,
			})
		}
	}
	return out
}
