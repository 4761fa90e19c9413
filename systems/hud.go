package systems

import (
	"fmt"

	cfg "github.com/automoto/emberwatch/config"
	"github.com/automoto/emberwatch/fonts"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
)

const (
	hudMargin = 10
	hudWidth  = 210
)

// DrawHUD renders connection state, tick and the local player's class in the
// top-left corner.
func DrawHUD(e *ecs.ECS, screen *ebiten.Image) {
	if !cfg.Debug.ShowHUD {
		return
	}
	frame := currentFrame(e)
	if frame == nil {
		return
	}

	conn := getOrCreateConnection(e)
	input := getOrCreateInput(e)

	lines := []string{
		fmt.Sprintf("Tick: %d  (%.2f)", frame.Tick, frame.Phase),
		fmt.Sprintf("Link: %s", conn.State),
		fmt.Sprintf("Players: %d  Monsters: %d", len(frame.Players), len(frame.Monsters)),
	}
	if input.Class != "" {
		lines = append(lines, "Class: "+input.Class)
	} else {
		lines = append(lines, "Class: none (press C)")
	}
	if input.Casting != nil {
		lines = append(lines, "Casting "+input.Casting.Spell+" (click a tile, Esc cancels)")
	}
	if conn.Error != "" {
		lines = append(lines, "Error: "+conn.Error)
	}

	face := fonts.HUD.Get()
	lineHeight := face.Metrics().Height.Ceil() + 2

	vector.FillRect(screen,
		float32(hudMargin-4), float32(hudMargin-4),
		float32(hudWidth), float32(lineHeight*len(lines)+8),
		cfg.HUD.PanelBackground, false)

	for i, l := range lines {
		text.Draw(screen, l, face, hudMargin, hudMargin+lineHeight*(i+1)-4, cfg.HUD.TextColor) //nolint:staticcheck // TODO: migrate to text/v2
	}
}

// DrawDisconnected dims the view once the session is closed. Effects already
// in flight keep animating underneath.
func DrawDisconnected(e *ecs.ECS, screen *ebiten.Image) {
	frame := currentFrame(e)
	if frame == nil || frame.Connected {
		return
	}
	conn := getOrCreateConnection(e)
	if conn.State == "" || conn.State == "connecting" || conn.State == "connected" {
		return
	}

	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	vector.FillRect(screen, 0, 0, float32(w), float32(h), cfg.HUD.FeedBackground, false)

	msg := "Disconnected. Press Enter to return."
	drawCentered(screen, msg, fonts.HUD.Get(), float32(w)/2, float32(h)/2, cfg.HUD.TextColor)
}

