package gamemath

// Clamp01 clamps t to [0, 1]. NaN clamps to 0.
func Clamp01(t float64) float64 {
	if !(t > 0) {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Lerp interpolates between a and b. t is not clamped.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpVec interpolates component-wise between from and to. At t=0 and t=1 the
// endpoints are returned exactly.
func LerpVec(from, to Vec2, t float64) Vec2 {
	switch t {
	case 0:
		return from
	case 1:
		return to
	}
	return Vec2{X: Lerp(from.X, to.X, t), Y: Lerp(from.Y, to.Y, t)}
}

// ClampInt clamps v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
