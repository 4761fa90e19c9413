package systems

import (
	"image/color"

	cfg "github.com/automoto/emberwatch/config"
	"github.com/automoto/emberwatch/timeline"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
)

// DrawAnimations renders every live timeline sample for this frame. Each
// Appearance is a stack of layers in tile units, multiplied by its alpha.
func DrawAnimations(e *ecs.ECS, screen *ebiten.Image) {
	frame := currentFrame(e)
	if frame == nil {
		return
	}
	cam := cameraOffset(e)
	ts := float64(cfg.C.TileSize)

	for _, s := range frame.Animations {
		if s.Appearance.Alpha <= 0 {
			continue
		}
		sx, sy := toScreen(cam, s.Origin.X, s.Origin.Y)
		for _, l := range s.Appearance.Layers {
			c := fade(l.Color, s.Appearance.Alpha)
			switch l.Shape {
			case timeline.Rect:
				inset := float32(l.Inset * ts)
				size := float32(ts) - 2*inset
				if size <= 0 {
					continue
				}
				vector.FillRect(screen, sx+inset, sy+inset, size, size, c, false)
			case timeline.Ring:
				r := float32(l.Radius * ts)
				if r <= 0 {
					continue
				}
				half := float32(ts / 2)
				vector.StrokeCircle(screen, sx+half, sy+half, r, 2, c, true)
			}
		}
	}
}

// NewIgnitionShake returns a spawn hook that shakes the view when an area
// ignition starts close to the local player.
func NewIgnitionShake(e *ecs.ECS) func(timeline.Instance) {
	return func(in timeline.Instance) {
		if in.Kind != timeline.AreaIgnition {
			return
		}
		frame := currentFrame(e)
		if frame == nil {
			return
		}
		for _, p := range frame.Players {
			if !p.Local {
				continue
			}
			if p.Position.Distance(in.Origin) <= cfg.Camera.ShakeRadiusTiles {
				TriggerScreenShake(e, cfg.Camera.ShakeIntensity, cfg.Camera.ShakeFrames)
			}
			return
		}
	}
}

// fade scales the alpha of c by a in [0,1].
func fade(c color.RGBA, a float64) color.Color {
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(float64(c.A) * a)}
}
