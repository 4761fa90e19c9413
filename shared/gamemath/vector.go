package gamemath

import (
	"strconv"

	dmath "github.com/yohamta/donburi/features/math"
)

// Vec2 is a position or direction in grid units (1.0 = one tile).
type Vec2 = dmath.Vec2

// GridPos is an integer tile coordinate, used as a map key for anything
// grouped by world location.
type GridPos struct {
	X, Y int
}

// Vec returns the tile's origin as a Vec2.
func (g GridPos) Vec() Vec2 { return dmath.NewVec2(float64(g.X), float64(g.Y)) }

func (g GridPos) String() string {
	return strconv.Itoa(g.X) + "," + strconv.Itoa(g.Y)
}
