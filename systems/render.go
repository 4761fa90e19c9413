package systems

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/automoto/emberwatch/components"
	cfg "github.com/automoto/emberwatch/config"
	"github.com/automoto/emberwatch/fonts"
	"github.com/automoto/emberwatch/netsync"
	"github.com/automoto/emberwatch/shared/gamemath"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
	"golang.org/x/image/font"
)

const waterTile = 'W'

// toScreen converts a tile position to the top-left pixel of that tile on
// screen.
func toScreen(cam gamemath.Vec2, x, y float64) (float32, float32) {
	ts := float64(cfg.C.TileSize)
	return float32(x*ts - cam.X), float32(y*ts - cam.Y)
}

// DrawWorld fills the background and the terrain grid. Missing rows or
// columns are drawn as grass.
func DrawWorld(e *ecs.ECS, screen *ebiten.Image) {
	screen.Fill(cfg.Palette.Background)

	frame := currentFrame(e)
	if frame == nil {
		return
	}
	cam := cameraOffset(e)
	ts := float32(cfg.C.TileSize)

	for y := 0; y < frame.World.H; y++ {
		var row string
		if y < len(frame.Tiles) {
			row = frame.Tiles[y]
		}
		for x := 0; x < frame.World.W; x++ {
			sx, sy := toScreen(cam, float64(x), float64(y))
			if sx+ts < 0 || sy+ts < 0 || sx > float32(cfg.C.Width) || sy > float32(cfg.C.Height) {
				continue
			}
			if x < len(row) && row[x] == waterTile {
				vector.FillRect(screen, sx, sy, ts, ts, cfg.Palette.Water, false)
				vector.FillRect(screen, sx+2, sy+2, ts-4, ts-4, fade(cfg.Palette.Grid, 0.04), false)
			} else {
				vector.FillRect(screen, sx, sy, ts, ts, cfg.Palette.Grass, false)
				vector.FillRect(screen, sx+1, sy+1, ts-2, ts-2, cfg.Palette.GrassInner, false)
			}
			if cfg.Debug.ShowGrid {
				vector.StrokeRect(screen, sx, sy, ts, ts, 1, fade(cfg.Palette.Grid, 0.1), false)
			}
		}
	}
}

// DrawPendingSpells marks tiles about to be hit with a pulsing diamond and
// the ticks left before impact.
func DrawPendingSpells(e *ecs.ECS, screen *ebiten.Image) {
	frame := currentFrame(e)
	if frame == nil || len(frame.PendingSpells) == 0 {
		return
	}
	cam := cameraOffset(e)
	ts := float32(cfg.C.TileSize)
	pulse := 0.2 + 0.15*(0.5+0.5*math.Sin(float64(time.Now().UnixMilli())/150))
	c := fade(cfg.Palette.PendingSpell, pulse)

	for _, sp := range frame.PendingSpells {
		r := max(sp.Radius, 0)
		for dx := -r; dx <= r; dx++ {
			for dy := -r; dy <= r; dy++ {
				if absInt(dx)+absInt(dy) > r {
					continue
				}
				sx, sy := toScreen(cam, float64(sp.X+dx), float64(sp.Y+dy))
				vector.FillRect(screen, sx+3, sy+3, ts-6, ts-6, c, false)
			}
		}
		sx, sy := toScreen(cam, float64(sp.X), float64(sp.Y))
		drawCentered(screen, fmt.Sprint(sp.TicksRemaining), fonts.Small.Get(), sx+ts/2, sy+ts/2+3, cfg.HUD.NotificationColor)
	}
}

// DrawActors renders players and monsters at their interpolated positions.
func DrawActors(e *ecs.ECS, screen *ebiten.Image) {
	frame := currentFrame(e)
	if frame == nil {
		return
	}
	cam := cameraOffset(e)
	ts := float32(cfg.C.TileSize)
	small := fonts.Small.Get()

	for _, p := range frame.Players {
		sx, sy := toScreen(cam, p.Position.X, p.Position.Y)
		c := cfg.Palette.RemotePlayer
		if p.Local {
			c = cfg.Palette.LocalPlayer
		}
		vector.FillRect(screen, sx+4, sy+4, ts-8, ts-8, c, false)
		if p.Label != "" {
			text.Draw(screen, strings.ToUpper(p.Label[:1]), small, int(sx+ts-10), int(sy+10), cfg.HUD.TextColor) //nolint:staticcheck // TODO: migrate to text/v2
		}
	}

	for _, m := range frame.Monsters {
		sx, sy := toScreen(cam, m.Position.X, m.Position.Y)
		vector.FillRect(screen, sx+6, sy+6, ts-12, ts-12, cfg.Palette.Monster, false)
		drawHealthBar(screen, m, sx, sy, ts)
		if m.Label != "" {
			drawCentered(screen, m.Label, small, sx+ts/2, sy-10, cfg.HUD.TextColor)
		}
	}
}

func drawHealthBar(screen *ebiten.Image, m netsync.ActorFrame, sx, sy, ts float32) {
	if m.HPMax <= 0 {
		return
	}
	w := ts - 4
	pct := float32(gamemath.Clamp01(float64(m.HP) / float64(m.HPMax)))
	vector.FillRect(screen, sx+2, sy-6, w, 3, cfg.Palette.HealthBack, false)
	vector.FillRect(screen, sx+2, sy-6, w*pct, 3, cfg.Palette.HealthFront, false)
}

// DrawProjectiles renders projectiles at their interpolated positions.
func DrawProjectiles(e *ecs.ECS, screen *ebiten.Image) {
	frame := currentFrame(e)
	if frame == nil {
		return
	}
	cam := cameraOffset(e)
	half := float32(cfg.C.TileSize) / 2

	for _, p := range frame.Projectiles {
		sx, sy := toScreen(cam, p.Position.X, p.Position.Y)
		vector.FillCircle(screen, sx+half, sy+half, half/2, cfg.Palette.Projectile, true)
	}
}

// DrawDamageNumbers renders every live damage countdown rising from its tile.
// Numbers sharing a tile stack upwards.
func DrawDamageNumbers(e *ecs.ECS, screen *ebiten.Image) {
	frame := currentFrame(e)
	if frame == nil {
		return
	}
	cam := cameraOffset(e)
	ts := float32(cfg.C.TileSize)
	face := fonts.Damage.Get()

	for _, g := range frame.Damage {
		sx, sy := toScreen(cam, float64(g.Location.X), float64(g.Location.Y))
		var offset float32
		for _, d := range g.Countdowns {
			alpha := 1.0
			if d.Progress > 0.7 {
				f := (d.Progress - 0.7) / 0.3
				alpha = 1 - f*f
			}
			y := sy - float32(d.Rise) + offset
			label := fmt.Sprintf("-%d", d.Magnitude)
			drawCentered(screen, label, face, sx+ts/2+1, y+1, fade(cfg.HUD.DamageOutline, alpha))
			drawCentered(screen, label, face, sx+ts/2, y, fade(cfg.HUD.DamageColor, alpha))
			offset -= 14
		}
	}
}

// DrawTargetPreview shows the spell area under the cursor while casting.
func DrawTargetPreview(e *ecs.ECS, screen *ebiten.Image) {
	input := getOrCreateInput(e)
	if input.Casting == nil {
		return
	}
	cast := input.Casting
	cam := cameraOffset(e)
	ts := float32(cfg.C.TileSize)

	cx, cy := cast.HoverX, cast.HoverY
	c := fade(cfg.Palette.TargetInRange, 0.25)
	if cast.HasTarget {
		cx, cy = cast.TargetX, cast.TargetY
		c = fade(cfg.Palette.TargetLocked, 0.45)
	} else if !inCastRange(e, cast, cx, cy) {
		c = fade(cfg.Palette.TargetOutOfRange, 0.25)
	}

	for dx := -cast.Radius; dx <= cast.Radius; dx++ {
		for dy := -cast.Radius; dy <= cast.Radius; dy++ {
			if absInt(dx)+absInt(dy) > cast.Radius {
				continue
			}
			sx, sy := toScreen(cam, float64(cx+dx), float64(cy+dy))
			vector.FillRect(screen, sx+1, sy+1, ts-2, ts-2, c, false)
		}
	}
}

func drawCentered(screen *ebiten.Image, s string, face font.Face, cx, baseline float32, c color.Color) {
	w := font.MeasureString(face, s).Ceil()
	text.Draw(screen, s, face, int(cx)-w/2, int(baseline), c) //nolint:staticcheck // TODO: migrate to text/v2
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// localPosition returns the interpolated local player, if present.
func localPosition(frame *netsync.FrameModel) (gamemath.Vec2, bool) {
	for _, p := range frame.Players {
		if p.Local {
			return p.Position, true
		}
	}
	return gamemath.Vec2{}, false
}

func inCastRange(e *ecs.ECS, cast *components.CastingData, x, y int) bool {
	frame := currentFrame(e)
	if frame == nil {
		return false
	}
	me, ok := localPosition(frame)
	if !ok {
		return false
	}
	dist := math.Abs(float64(x)-math.Round(me.X)) + math.Abs(float64(y)-math.Round(me.Y))
	return dist <= float64(cast.Range)
}
