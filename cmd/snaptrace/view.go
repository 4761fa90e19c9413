package main

import (
	"fmt"
	"image/color"
	"math"
	"time"

	cfg "github.com/automoto/emberwatch/config"
	"github.com/automoto/emberwatch/netsync"
	"github.com/automoto/emberwatch/shared/gamemath"
	"github.com/automoto/emberwatch/timeline"
	"github.com/gdamore/tcell/v2"
)

const feedLines = 4

// View renders frame models into a terminal, one cell per tile, following
// the local player. Row 0 is a status line and the last rows hold the
// notification feed.
type View struct {
	screen tcell.Screen
	chime  *chime
	feed   []string
}

func NewView(screen tcell.Screen, c *chime) *View {
	return &View{screen: screen, chime: c}
}

// Notify adds a first-seen notification to the feed.
func (v *View) Notify(n netsync.Notification) {
	v.feed = append(v.feed, fmt.Sprintf("[%d] %s", n.Tick, n.Content))
	if over := len(v.feed) - feedLines; over > 0 {
		v.feed = v.feed[over:]
	}
	v.chime.play(880, 60*time.Millisecond)
}

// Spawn chimes low when an area ignition starts.
func (v *View) Spawn(in timeline.Instance) {
	if in.Kind == timeline.AreaIgnition {
		v.chime.play(220, 80*time.Millisecond)
	}
}

func (v *View) Draw(f netsync.FrameModel) {
	v.screen.Clear()
	w, h := v.screen.Size()
	mapH := h - 1 - feedLines
	if w <= 0 || mapH <= 0 {
		v.screen.Show()
		return
	}
	ox, oy := viewOrigin(f, w, mapH)

	cell := func(tx, ty int, r rune, st tcell.Style) {
		sx, sy := tx-ox, ty-oy
		if sx < 0 || sy < 0 || sx >= w || sy >= mapH {
			return
		}
		v.screen.SetContent(sx, sy+1, r, nil, st)
	}

	for ty := oy; ty < oy+mapH && ty < f.World.H; ty++ {
		var row string
		if ty >= 0 && ty < len(f.Tiles) {
			row = f.Tiles[ty]
		}
		for tx := ox; tx < ox+w && tx < f.World.W; tx++ {
			if tx >= 0 && tx < len(row) && row[tx] == 'W' {
				cell(tx, ty, '~', style(cfg.Palette.Water, 1))
			} else {
				cell(tx, ty, '.', style(cfg.Palette.GrassInner, 1))
			}
		}
	}

	for _, sp := range f.PendingSpells {
		cell(sp.X, sp.Y, '!', style(cfg.Palette.PendingSpell, 1))
	}
	for _, a := range f.Animations {
		if len(a.Appearance.Layers) == 0 {
			continue
		}
		r := '#'
		if a.Kind == timeline.PointImpact {
			r = 'o'
		}
		x, y := tileOf(a.Origin)
		cell(x, y, r, style(a.Appearance.Layers[0].Color, a.Appearance.Alpha))
	}
	for _, p := range f.Projectiles {
		x, y := tileOf(p.Position)
		cell(x, y, '*', style(cfg.Palette.Projectile, 1))
	}
	for _, m := range f.Monsters {
		r := 'm'
		if m.Label != "" {
			r = rune(m.Label[0])
		}
		x, y := tileOf(m.Position)
		cell(x, y, r, style(cfg.Palette.Monster, 1))
	}
	for _, p := range f.Players {
		c := cfg.Palette.RemotePlayer
		if p.Local {
			c = cfg.Palette.LocalPlayer
		}
		x, y := tileOf(p.Position)
		cell(x, y, '@', style(c, 1).Bold(true))
	}
	for _, g := range f.Damage {
		for i, d := range g.Countdowns {
			label := fmt.Sprintf("-%d", d.Magnitude)
			for j, r := range label {
				cell(g.Location.X+j, g.Location.Y-1-i, r, style(cfg.HUD.DamageColor, 1-d.Progress/2))
			}
		}
	}

	status := fmt.Sprintf("tick %d  phase %.2f  players %d  monsters %d  fx %d",
		f.Tick, f.Phase, len(f.Players), len(f.Monsters), len(f.Animations))
	if !f.Connected {
		status += "  [offline]"
	}
	v.text(0, 0, status, style(cfg.HUD.TextColor, 1))
	for i, line := range v.feed {
		v.text(0, h-feedLines+i, line, style(cfg.HUD.NotificationColor, 1))
	}

	v.screen.Show()
}

func (v *View) text(x, y int, s string, st tcell.Style) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, st)
		x++
	}
}

// viewOrigin is the top-left tile shown, centring the local player and
// keeping the view inside the world when it fits.
func viewOrigin(f netsync.FrameModel, w, h int) (int, int) {
	cx, cy := f.World.W/2, f.World.H/2
	for _, p := range f.Players {
		if p.Local {
			cx, cy = tileOf(p.Position)
			break
		}
	}
	return clampView(cx-w/2, f.World.W-w), clampView(cy-h/2, f.World.H-h)
}

func clampView(v, limit int) int {
	if limit <= 0 {
		return 0
	}
	return gamemath.ClampInt(v, 0, limit)
}

func tileOf(p gamemath.Vec2) (int, int) {
	return int(math.Round(p.X)), int(math.Round(p.Y))
}

// style darkens c towards the black terminal background by alpha.
func style(c color.RGBA, alpha float64) tcell.Style {
	a := gamemath.Clamp01(alpha)
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(
		int32(float64(c.R)*a), int32(float64(c.G)*a), int32(float64(c.B)*a)))
}

// watchKeys calls quit on Esc, q or Ctrl-C. It returns once the screen is
// finalized.
func watchKeys(screen tcell.Screen, quit func()) {
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				quit()
			}
		case *tcell.EventResize:
			screen.Sync()
		}
	}
}
