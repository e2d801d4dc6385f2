package common

import (
	"math"

	"golang.org/x/exp/constraints"
)

const radToDeg = 180 / math.Pi

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec2) float64 {
	return a.Dist(b)
}

// AbsoluteAngleDegrees returns the angle of b-a in degrees, 0 pointing along +X.
func AbsoluteAngleDegrees(a, b Vec2) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X) * radToDeg
}

// RelativeAngleDegrees returns the angle between the heading prev->cur and
// the vector cur->target, in [-180, 180].
func RelativeAngleDegrees(prev, cur, target Vec2) float64 {
	heading := AbsoluteAngleDegrees(prev, cur)
	toTarget := AbsoluteAngleDegrees(cur, target)
	return NormalizeDegrees(toTarget - heading)
}

// NormalizeDegrees folds an angle difference of at most one turn into [-180, 180].
func NormalizeDegrees(a float64) float64 {
	if a > 180 {
		a -= 360
	} else if a < -180 {
		a += 360
	}
	return a
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Blend mixes current with previous: weight 0 keeps current, weight 1 keeps previous.
func Blend(current, previous, weight float64) float64 {
	return current*(1-weight) + previous*weight
}
