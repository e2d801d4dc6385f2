// Package spline fits uniform Catmull-Rom curves through checkpoint windows.
package spline

import "pod-racing/internal/common"

// pointKey is the exact input tuple of one interpolation.
type pointKey struct {
	p0, p1, p2, p3 common.Vec2
	t              float64
}

// windowKey identifies a sampled segment.
type windowKey struct {
	p0, p1, p2, p3 common.Vec2
	samples        int
}

// Calculator memoizes Catmull-Rom evaluations for the lifetime of a race.
// Both caches are unbounded: tracks have a handful of checkpoints.
type Calculator struct {
	points  map[pointKey]common.Vec2
	windows map[windowKey][]common.Vec2

	Hits   int
	Misses int
}

func NewCalculator() *Calculator {
	return &Calculator{
		points:  make(map[pointKey]common.Vec2),
		windows: make(map[windowKey][]common.Vec2),
	}
}

// Interpolate returns the point at parameter t in [0,1) on the segment
// between p1 and p2, using p0 and p3 as tangent guides.
func (c *Calculator) Interpolate(p0, p1, p2, p3 common.Vec2, t float64) common.Vec2 {
	key := pointKey{p0, p1, p2, p3, t}
	if p, ok := c.points[key]; ok {
		c.Hits++
		return p
	}
	c.Misses++

	p := CatmullRom(p0, p1, p2, p3, t)
	c.points[key] = p
	return p
}

// Sample returns n evenly spaced points t = i/n, i = 0..n-1, of one segment.
// The returned slice is shared with the cache and must not be modified.
func (c *Calculator) Sample(p0, p1, p2, p3 common.Vec2, n int) []common.Vec2 {
	key := windowKey{p0, p1, p2, p3, n}
	if pts, ok := c.windows[key]; ok {
		return pts
	}

	pts := make([]common.Vec2, 0, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n)
		pts = append(pts, c.Interpolate(p0, p1, p2, p3, t))
	}
	c.windows[key] = pts
	return pts
}

// CachedPoints returns the number of memoized interpolations.
func (c *Calculator) CachedPoints() int {
	return len(c.points)
}

// CatmullRom evaluates the uniform Catmull-Rom basis without caching.
func CatmullRom(p0, p1, p2, p3 common.Vec2, t float64) common.Vec2 {
	t2 := t * t
	t3 := t2 * t

	return common.Vec2{
		X: blend(p0.X, p1.X, p2.X, p3.X, t, t2, t3),
		Y: blend(p0.Y, p1.Y, p2.Y, p3.Y, t, t2, t3),
	}
}

func blend(a, b, c, d, t, t2, t3 float64) float64 {
	return 0.5 * ((2 * b) +
		(-a+c)*t +
		(2*a-5*b+4*c-d)*t2 +
		(-a+3*b-3*c+d)*t3)
}
