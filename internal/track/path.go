package track

import (
	"math"

	"github.com/cnkei/gospline"

	"pod-racing/internal/common"
)

// Path is a densified, ordered racing line.
type Path []common.Vec2

// Closest returns the index of the point closest to pos, or -1 for an empty path.
// Ties go to the smallest index.
// TODO: use a grid index if samples_per_segment is ever raised past a few hundred.
func (p Path) Closest(pos common.Vec2) int {
	return p.ClosestFrom(pos, 0)
}

// ClosestFrom is Closest restricted to indices >= start.
func (p Path) ClosestFrom(pos common.Vec2, start int) int {
	minDistSq := math.MaxFloat64
	closestIdx := -1

	for i := max(start, 0); i < len(p); i++ {
		dx := pos.X - p[i].X
		dy := pos.Y - p[i].Y
		distSq := dx*dx + dy*dy
		if distSq < minDistSq {
			minDistSq = distSq
			closestIdx = i
		}
	}
	return closestIdx
}

// arcIndex maps arc length along a path back to coordinates.
type arcIndex struct {
	s      []float64 // cumulative arc length at every path index
	total  float64
	x, y   gospline.Spline
	knotsS []float64
	knotsX []float64
	knotsY []float64
}

func newArcIndex(p Path) *arcIndex {
	a := &arcIndex{s: make([]float64, len(p))}
	if len(p) == 0 {
		return a
	}

	a.knotsS = append(a.knotsS, 0)
	a.knotsX = append(a.knotsX, p[0].X)
	a.knotsY = append(a.knotsY, p[0].Y)
	for i := 1; i < len(p); i++ {
		d := p[i-1].Dist(p[i])
		a.s[i] = a.s[i-1] + d
		// Splines need strictly increasing knots; repeated samples add no length.
		if d == 0 {
			continue
		}
		a.knotsS = append(a.knotsS, a.s[i])
		a.knotsX = append(a.knotsX, p[i].X)
		a.knotsY = append(a.knotsY, p[i].Y)
	}
	a.total = a.s[len(p)-1]

	if len(a.knotsS) >= 3 {
		a.x = gospline.NewCubicSpline(a.knotsS, a.knotsX)
		a.y = gospline.NewCubicSpline(a.knotsS, a.knotsY)
	}
	return a
}

// At returns the point at arc length s, clamped to the path.
func (a *arcIndex) At(s float64) common.Vec2 {
	s = common.Clamp(s, 0, a.total)
	if a.x != nil {
		return common.Vec2{X: a.x.At(s), Y: a.y.At(s)}
	}

	// Too few distinct knots for a cubic: walk the polyline.
	for i := 1; i < len(a.knotsS); i++ {
		if s <= a.knotsS[i] {
			seg := a.knotsS[i] - a.knotsS[i-1]
			f := (s - a.knotsS[i-1]) / seg
			return common.Vec2{
				X: a.knotsX[i-1] + (a.knotsX[i]-a.knotsX[i-1])*f,
				Y: a.knotsY[i-1] + (a.knotsY[i]-a.knotsY[i-1])*f,
			}
		}
	}
	last := len(a.knotsS) - 1
	return common.Vec2{X: a.knotsX[last], Y: a.knotsY[last]}
}
