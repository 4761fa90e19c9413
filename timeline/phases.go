package timeline

import (
	"image/color"
	"math"

	"github.com/tanema/gween/ease"
)

// PhaseFunc maps normalized progress in [0,1) to how the effect looks.
// New effect kinds are added by registering a PhaseFunc, never by adding clock
// logic.
type PhaseFunc func(progress float64) Appearance

type Shape int

const (
	Rect Shape = iota // tile-sized square shrunk by Inset on each side
	Ring              // circle centered on the tile with Radius
)

// Layer is one filled primitive, in tile units.
type Layer struct {
	Shape  Shape
	Inset  float64
	Radius float64
	Color  color.RGBA
}

// Appearance is drawn back-to-front, every layer multiplied by Alpha.
type Appearance struct {
	Alpha  float64
	Layers []Layer
}

func easeAt(fn ease.TweenFunc, p float64) float64 {
	return float64(fn(float32(p), 0, 1, 1))
}

func channel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Floor(v))))
}

// Area ignition phase boundaries.
const (
	flashEnd = 0.2
	burnEnd  = 0.8
)

// AreaIgnitionPhase is a three-stage ramp: a white/yellow flash, an
// oscillating red/orange burn and a dim red fade.
func AreaIgnitionPhase(p float64) Appearance {
	switch {
	case p < flashEnd:
		intensity := 1 - easeAt(ease.Linear, p/flashEnd)
		return Appearance{
			Alpha: 0.9 * intensity,
			Layers: []Layer{
				{Shape: Rect, Color: color.RGBA{R: 255, G: 255, B: 255, A: 255}},
				{Shape: Rect, Inset: 2.0 / 24, Color: color.RGBA{R: 255, G: 255, A: 255}},
			},
		}

	case p < burnEnd:
		burn := (p - flashEnd) / (burnEnd - flashEnd)
		osc := math.Sin(p*30)*0.3 + 0.7
		red := 255 * osc
		layers := []Layer{
			{Shape: Rect, Color: color.RGBA{R: channel(red), G: channel(100 * osc), A: 255}},
			{Shape: Rect, Inset: 2.0 / 24, Color: color.RGBA{R: channel(red + 50), G: channel(200 * osc), B: 50, A: 255}},
		}
		if osc > 0.8 {
			layers = append(layers, Layer{Shape: Rect, Inset: 4.0 / 24, Color: color.RGBA{R: 255, G: 255, B: channel(150 * osc), A: 255}})
		}
		return Appearance{
			Alpha:  0.8 - 0.3*easeAt(ease.Linear, burn),
			Layers: layers,
		}

	default:
		fade := (p - burnEnd) / (1 - burnEnd)
		return Appearance{
			Alpha: 0.5 * (1 - easeAt(ease.OutQuad, fade)),
			Layers: []Layer{
				{Shape: Rect, Inset: 1.0 / 24, Color: color.RGBA{R: 204, G: 51, A: 255}},
				{Shape: Rect, Inset: 4.0 / 24, Color: color.RGBA{R: 255, G: 102, A: 255}},
			},
		}
	}
}

// PointImpactPhase is a single ring that expands quickly and fades out.
func PointImpactPhase(p float64) Appearance {
	return Appearance{
		Alpha: 1 - easeAt(ease.Linear, p),
		Layers: []Layer{
			{Shape: Ring, Radius: 0.15 + 0.45*easeAt(ease.OutCubic, p), Color: color.RGBA{R: 255, G: 190, B: 90, A: 255}},
			{Shape: Ring, Radius: 0.1 + 0.2*easeAt(ease.OutCubic, p), Color: color.RGBA{R: 255, G: 245, B: 210, A: 255}},
		},
	}
}
