// Package track follows checkpoint discovery, lap counting and the smoothed
// racing line built through the known checkpoints.
package track

import (
	"github.com/pkg/errors"

	"pod-racing/internal/common"
	"pod-racing/internal/spline"
)

var (
	// ErrNoPath is returned by path queries before four checkpoints are known.
	ErrNoPath = errors.New("smoothed path not built yet")
	// ErrCheckpointUnknown is returned by bounded queries while the current
	// checkpoint index is still unknown.
	ErrCheckpointUnknown = errors.New("current checkpoint index unknown")
)

// minControlPoints is what one Catmull-Rom segment needs.
const minControlPoints = 4

// Tracker owns the checkpoint sequence, the lap counter and the smoothed path.
type Tracker struct {
	calc    *spline.Calculator
	samples int
	lastLap int

	checkpoints []common.Vec2
	path        Path
	arc         *arcIndex

	started bool
	last    common.Vec2
	current int
	lap     int
}

// NewTracker creates a tracker sampling each segment `samples` times for a
// race of `laps` laps.
func NewTracker(calc *spline.Calculator, samples, laps int) *Tracker {
	return &Tracker{
		calc:    calc,
		samples: samples,
		lastLap: laps,
		current: -1,
	}
}

// Observe feeds the next checkpoint reported this turn.
func (t *Tracker) Observe(next common.Vec2) {
	if !t.started {
		t.started = true
		t.last = next
		t.lap = 1
		t.addCheckpoint(next)
		return
	}

	// Same target as last turn.
	if next == t.last {
		return
	}
	t.last = next

	t.current = t.indexOf(next)
	if t.current == -1 {
		t.addCheckpoint(next)
		return
	}
	if t.current == 0 {
		t.lap++
	}
}

func (t *Tracker) indexOf(p common.Vec2) int {
	for i, c := range t.checkpoints {
		if c == p {
			return i
		}
	}
	return -1
}

func (t *Tracker) addCheckpoint(p common.Vec2) {
	t.checkpoints = append(t.checkpoints, p)
	t.rebuildPath()
}

// rebuildPath resamples every window (i-1, i, i+1, i+2) from scratch.
func (t *Tracker) rebuildPath() {
	n := len(t.checkpoints)
	if n < minControlPoints {
		return
	}

	path := make(Path, 0, (n-3)*t.samples)
	for i := 1; i < n-2; i++ {
		pts := t.calc.Sample(t.checkpoints[i-1], t.checkpoints[i], t.checkpoints[i+1], t.checkpoints[i+2], t.samples)
		path = append(path, pts...)
	}
	t.path = path
	t.arc = nil
}

// Lap returns the current lap, 1-based. Zero before the first observation.
func (t *Tracker) Lap() int {
	return t.lap
}

// CurrentIndex returns the index of the reported checkpoint, or -1 while it
// was still being discovered.
func (t *Tracker) CurrentIndex() int {
	return t.current
}

// Checkpoints returns a copy of the discovered checkpoints.
func (t *Tracker) Checkpoints() []common.Vec2 {
	return append([]common.Vec2(nil), t.checkpoints...)
}

// SmoothedPath returns a copy of the current smoothed path.
func (t *Tracker) SmoothedPath() Path {
	return append(Path(nil), t.path...)
}

// Ready reports whether path queries can be answered.
func (t *Tracker) Ready() bool {
	return len(t.path) > 0
}

// IsFinalCheckpointOfFinalLap reports whether the pod is heading for the
// last checkpoint of the last lap.
func (t *Tracker) IsFinalCheckpointOfFinalLap() bool {
	return t.lap == t.lastLap && t.current == len(t.checkpoints)-1
}

// LookaheadPoint returns the path point `offset` samples past the point
// closest to pos, capped at the end of the path.
func (t *Tracker) LookaheadPoint(pos common.Vec2, offset int) (common.Vec2, error) {
	if len(t.path) == 0 {
		return common.Vec2{}, ErrNoPath
	}
	closest := t.path.Closest(pos)
	return t.path[min(closest+offset, len(t.path)-1)], nil
}

// BoundedLookaheadPoint is LookaheadPoint restricted to the path from the
// current checkpoint on, so a path that folds back near itself cannot pull
// the target onto an earlier stretch.
func (t *Tracker) BoundedLookaheadPoint(pos common.Vec2, offset int) (common.Vec2, error) {
	if len(t.path) == 0 {
		return common.Vec2{}, ErrNoPath
	}
	bound, err := t.segmentStart()
	if err != nil {
		return common.Vec2{}, err
	}
	closest := t.path.ClosestFrom(pos, bound)
	idx := common.Clamp(closest+offset, bound, len(t.path)-1)
	return t.path[idx], nil
}

// segmentStart returns the path index closest to the current checkpoint.
func (t *Tracker) segmentStart() (int, error) {
	if t.current < 0 {
		return 0, ErrCheckpointUnknown
	}
	return t.path.Closest(t.checkpoints[t.current]), nil
}

// ArcLookaheadPoint returns the point `distance` units of arc length past
// the path point closest to pos, capped at the end of the path.
func (t *Tracker) ArcLookaheadPoint(pos common.Vec2, distance float64) (common.Vec2, error) {
	if len(t.path) == 0 {
		return common.Vec2{}, ErrNoPath
	}
	if t.arc == nil {
		t.arc = newArcIndex(t.path)
	}
	closest := t.path.Closest(pos)
	return t.arc.At(t.arc.s[closest] + distance), nil
}

// PathLength returns the arc length of the smoothed path.
func (t *Tracker) PathLength() float64 {
	if len(t.path) == 0 {
		return 0
	}
	if t.arc == nil {
		t.arc = newArcIndex(t.path)
	}
	return t.arc.total
}
