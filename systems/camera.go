package systems

import (
	"math"

	"github.com/automoto/emberwatch/components"
	"github.com/automoto/emberwatch/config"
	"github.com/automoto/emberwatch/shared/gamemath"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// UpdateCamera follows the interpolated local player, clamped to the world.
func UpdateCamera(e *ecs.ECS) {
	cameraEntry := getOrCreateCamera(e)
	camera := components.Camera.Get(cameraEntry)

	updateScreenShake(cameraEntry, camera)

	frame := currentFrame(e)
	if frame == nil {
		return
	}
	var local *gamemath.Vec2
	for i := range frame.Players {
		if frame.Players[i].Local {
			local = &frame.Players[i].Position
			break
		}
	}
	if local == nil {
		return
	}

	target := CameraTarget(*local, frame.World.W, frame.World.H)
	camera.Position = camera.Position.Add(target.Sub(camera.Position).MulScalar(config.Camera.FollowSmoothing))
}

// CameraTarget returns the top-left view corner that centers the given tile
// position, keeping the view inside a world of w by h tiles when it fits.
func CameraTarget(pos gamemath.Vec2, w, h int) gamemath.Vec2 {
	ts := float64(config.C.TileSize)
	screenW := float64(config.C.Width)
	screenH := float64(config.C.Height)

	x := (pos.X+0.5)*ts - screenW/2
	y := (pos.Y+0.5)*ts - screenH/2

	return gamemath.Vec2{
		X: clampView(x, float64(w)*ts-screenW),
		Y: clampView(y, float64(h)*ts-screenH),
	}
}

func clampView(v, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	return math.Max(0, math.Min(limit, v))
}

// updateScreenShake applies screen shake offset to camera and decrements duration
func updateScreenShake(cameraEntry *donburi.Entry, camera *components.CameraData) {
	if !cameraEntry.HasComponent(components.ScreenShake) {
		return
	}

	shake := components.ScreenShake.Get(cameraEntry)
	shake.Elapsed++

	progress := float64(shake.Duration-shake.Elapsed) / float64(shake.Duration)
	if progress < 0 {
		progress = 0
	}
	intensity := shake.Intensity * progress

	camera.Position.X += math.Sin(float64(shake.Elapsed)*1.1) * intensity
	camera.Position.Y += math.Cos(float64(shake.Elapsed)*1.3) * intensity

	if shake.Elapsed >= shake.Duration {
		cameraEntry.RemoveComponent(components.ScreenShake)
	}
}

// TriggerScreenShake starts a screen shake effect
func TriggerScreenShake(e *ecs.ECS, intensity float64, duration int) {
	cameraEntry := getOrCreateCamera(e)

	if cameraEntry.HasComponent(components.ScreenShake) {
		shake := components.ScreenShake.Get(cameraEntry)
		// Only override if new shake is stronger
		if intensity > shake.Intensity {
			shake.Intensity = intensity
			shake.Duration = duration
			shake.Elapsed = 0
		}
		return
	}
	cameraEntry.AddComponent(components.ScreenShake)
	components.ScreenShake.Set(cameraEntry, &components.ScreenShakeData{
		Intensity: intensity,
		Duration:  duration,
	})
}

func getOrCreateCamera(e *ecs.ECS) *donburi.Entry {
	entry, ok := components.Camera.First(e.World)
	if !ok {
		entry = e.World.Entry(e.World.Create(components.Camera))
	}
	return entry
}

func cameraOffset(e *ecs.ECS) gamemath.Vec2 {
	entry, ok := components.Camera.First(e.World)
	if !ok {
		return gamemath.Vec2{}
	}
	return components.Camera.Get(entry).Position
}
