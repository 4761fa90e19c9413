package systems

import (
	"log"
	"time"

	"github.com/automoto/emberwatch/components"
	cfg "github.com/automoto/emberwatch/config"
	"github.com/automoto/emberwatch/network"
	"github.com/automoto/emberwatch/shared/messages"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/yohamta/donburi/ecs"
)

var moveKeys = []struct {
	keys   []ebiten.Key
	dx, dy int
}{
	{[]ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}, 0, -1},
	{[]ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}, 0, 1},
	{[]ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}, -1, 0},
	{[]ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}, 1, 0},
}

var spellKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4}

// NewActionSystem returns an ECS system that turns key presses into queued
// actions and sends at most one per action interval.
func NewActionSystem(planner *network.ActionPlanner, send func(messages.Action) error, now func() time.Time) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		input := getOrCreateInput(e)

		pollKeys(planner, input)
		pollTargeting(e, planner, input)

		a, ok := planner.Next(now())
		if !ok {
			return
		}
		if a.Type == messages.ActionCast {
			input.Casting = nil
		}
		if err := send(a); err != nil {
			log.Printf("[client] send %s: %v", a.Type, err)
		}
	}
}

func pollKeys(planner *network.ActionPlanner, input *components.InputData) {
	if input.Casting == nil {
		for _, mk := range moveKeys {
			if anyJustPressed(mk.keys) {
				planner.Queue(messages.Move(mk.dx, mk.dy))
			}
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		planner.Queue(messages.Rest())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		planner.Queue(messages.ChooseClass(cfg.SelectableClass))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && input.Casting != nil {
		input.Casting = nil
		planner.CancelCast()
	}

	for i, key := range spellKeys {
		if i >= len(cfg.Spells) || !inpututil.IsKeyJustPressed(key) {
			continue
		}
		spell := cfg.Spells[i]
		if input.Class != spell.Class {
			continue
		}
		if input.Casting != nil && input.Casting.Spell == spell.Name {
			input.Casting = nil
			planner.CancelCast()
			continue
		}
		input.Casting = &components.CastingData{Spell: spell.Name, Radius: spell.Radius, Range: spell.Range}
	}
}

func pollTargeting(e *ecs.ECS, planner *network.ActionPlanner, input *components.InputData) {
	cast := input.Casting
	if cast == nil {
		return
	}
	cam := cameraOffset(e)
	mx, my := ebiten.CursorPosition()
	ts := float64(cfg.C.TileSize)
	cast.HoverX = int((float64(mx) + cam.X) / ts)
	cast.HoverY = int((float64(my) + cam.Y) / ts)

	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	if !inCastRange(e, cast, cast.HoverX, cast.HoverY) {
		return
	}
	cast.HasTarget = true
	cast.TargetX, cast.TargetY = cast.HoverX, cast.HoverY
	planner.Target(cast.Spell, cast.TargetX, cast.TargetY)
}

func anyJustPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}
