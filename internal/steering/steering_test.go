package steering

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pod-racing/internal/common"
	"pod-racing/internal/config"
	"pod-racing/internal/track"
)

func TestAdvance(t *testing.T) {
	st := NewState()
	assert.True(t, st.Igniting)

	st = st.Advance(common.Vec2{X: 100, Y: 100}, 300)
	assert.Equal(t, 1.0, st.Speed, "first tick has no displacement")
	assert.Equal(t, st.Position, st.PrevPosition)
	assert.True(t, st.Igniting)

	st = st.Advance(common.Vec2{X: 400, Y: 500}, 300)
	assert.Equal(t, 500.0, st.Speed)
	assert.Equal(t, common.Vec2{X: 100, Y: 100}, st.PrevPosition)
	assert.False(t, st.Igniting)

	// slowing down never re-ignites
	st = st.Advance(common.Vec2{X: 400, Y: 500}, 300)
	assert.Equal(t, 1.0, st.Speed)
	assert.False(t, st.Igniting)
}

func TestThrottleFromAngleDistance(t *testing.T) {
	simple := config.Default().Throttle
	aware := simple
	aware.DistanceAware = true
	aware.AngleFactorFloor = 0.2
	aware.AngleDistanceThreshold = 2000

	tests := []struct {
		name                   string
		cfg                    config.ThrottleConfig
		angle, distance, speed float64
		want                   float64
	}{
		{"saturates at max", simple, 0, 1000, 1, 100},
		{"clamps to min", simple, 0, 100, 400, 30},
		{"proportional", simple, 0, 1000, 500, 70},
		{"half angle", simple, 45, 1000, 1, 50},
		{"behind drops to zero", simple, 120, 1000, 1, 0},
		{"negative angle symmetric", simple, -45, 1000, 1, 50},
		{"floor keeps some thrust", aware, 120, 4000, 1, 20},
		{"near target scaled by distance", aware, 0, 1000, 1, 50},
		{"far target not scaled", aware, 0, 5000, 1, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ThrottleFromAngleDistance(tt.cfg, tt.angle, tt.distance, tt.speed)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

var _ PathSource = (*track.Tracker)(nil)

// fakePath answers lookahead queries with fixed points.
type fakePath struct {
	ready    bool
	lap      int
	ahead    common.Vec2
	bounded  common.Vec2
	arc      common.Vec2
	arcDist  float64
	boundErr error
}

func (f *fakePath) Ready() bool { return f.ready }
func (f *fakePath) Lap() int    { return f.lap }
func (f *fakePath) LookaheadPoint(common.Vec2, int) (common.Vec2, error) {
	return f.ahead, nil
}
func (f *fakePath) BoundedLookaheadPoint(common.Vec2, int) (common.Vec2, error) {
	return f.bounded, f.boundErr
}
func (f *fakePath) ArcLookaheadPoint(_ common.Vec2, d float64) (common.Vec2, error) {
	f.arcDist = d
	return f.arc, nil
}

func movingState(prev, cur common.Vec2) State {
	st := NewState().Advance(prev, 300)
	return st.Advance(cur, 300)
}

func TestSelectFirstTick(t *testing.T) {
	cfg := config.Default()
	sel := NewSelector(cfg, &fakePath{})
	st := NewState().Advance(common.Vec2{}, cfg.Throttle.IgnitionStopSpeed)

	target, next := sel.Select(st, Input{
		NextCheckpoint:     common.Vec2{X: 1000},
		CheckpointDistance: 1000,
	})
	assert.Equal(t, config.ModeCheckpoint, target.Mode)
	assert.Equal(t, common.Vec2{X: 1000}, target.Aim)
	// raw 100 blended with last throttle 0 at weight 0.8
	assert.Equal(t, 20.0, target.Throttle)
	assert.Equal(t, 20.0, next.LastThrottle)
}

func TestSelectSplineFallsBackDuringDiscovery(t *testing.T) {
	cfg := config.Default()
	path := &fakePath{ready: true, lap: 1, ahead: common.Vec2{X: 5, Y: 5}}
	sel := NewSelector(cfg, path)

	target, _ := sel.Select(movingState(common.Vec2{}, common.Vec2{X: 100}), Input{NextCheckpoint: common.Vec2{X: 3000}})
	assert.Equal(t, config.ModeCheckpoint, target.Mode)

	path.lap = 2
	path.ready = false
	target, _ = sel.Select(movingState(common.Vec2{}, common.Vec2{X: 100}), Input{NextCheckpoint: common.Vec2{X: 3000}})
	assert.Equal(t, config.ModeCheckpoint, target.Mode)
}

func TestSelectSpline(t *testing.T) {
	cfg := config.Default()
	cfg.Throttle.SmoothingWeight = 0
	path := &fakePath{ready: true, lap: 2, ahead: common.Vec2{X: 1100, Y: 1000}}
	sel := NewSelector(cfg, path)

	st := movingState(common.Vec2{X: 0, Y: 1000}, common.Vec2{X: 100, Y: 1000})
	target, next := sel.Select(st, Input{NextCheckpoint: common.Vec2{X: 9000, Y: 1000}})

	assert.Equal(t, config.ModeSpline, target.Mode)
	assert.Equal(t, path.ahead, target.Aim)
	assert.InDelta(t, 0, target.Angle, 1e-9)
	assert.InDelta(t, 1000, target.Distance, 1e-9)
	assert.Equal(t, 100.0, target.Throttle)
	assert.Equal(t, 100.0, next.LastThrottle)
}

func TestSelectSplineRelativeVersusAbsolute(t *testing.T) {
	cfg := config.Default()
	path := &fakePath{ready: true, lap: 2, ahead: common.Vec2{X: 100, Y: 1100}}
	// heading straight down (+Y), target straight ahead
	st := movingState(common.Vec2{X: 100, Y: 0}, common.Vec2{X: 100, Y: 100})

	in := Input{NextCheckpoint: common.Vec2{X: 100, Y: 3000}}

	target, _ := NewSelector(cfg, path).Select(st, in)
	assert.InDelta(t, 0, target.Angle, 1e-9)

	cfg.Steering.RelativeAngle = false
	target, _ = NewSelector(cfg, path).Select(st, in)
	assert.InDelta(t, 90, target.Angle, 1e-9)
}

func TestSelectProgressGuard(t *testing.T) {
	cfg := config.Default()
	// lookahead lies behind the pod
	path := &fakePath{ready: true, lap: 2, ahead: common.Vec2{X: 0, Y: 1000}}
	st := movingState(common.Vec2{X: 900, Y: 1000}, common.Vec2{X: 1000, Y: 1000})
	in := Input{NextCheckpoint: common.Vec2{X: 5000, Y: 1000}, CheckpointDistance: 4000}

	target, _ := NewSelector(cfg, path).Select(st, in)
	assert.Equal(t, config.ModeCheckpoint, target.Mode)
	assert.Equal(t, in.NextCheckpoint, target.Aim)

	cfg.Steering.ProgressGuard = false
	target, _ = NewSelector(cfg, path).Select(st, in)
	assert.Equal(t, config.ModeSpline, target.Mode)
	assert.Equal(t, path.ahead, target.Aim)
}

func TestSelectBoundedSpline(t *testing.T) {
	cfg := config.Default()
	cfg.Steering.BoundedLookahead = true
	path := &fakePath{ready: true, lap: 2, ahead: common.Vec2{X: 1}, bounded: common.Vec2{X: 2}}
	st := movingState(common.Vec2{}, common.Vec2{X: 100})

	target, _ := NewSelector(cfg, path).Select(st, Input{})
	assert.Equal(t, common.Vec2{X: 2}, target.Aim)

	path.boundErr = track.ErrCheckpointUnknown
	target, _ = NewSelector(cfg, path).Select(st, Input{NextCheckpoint: common.Vec2{X: 7}})
	assert.Equal(t, config.ModeCheckpoint, target.Mode)
	assert.Equal(t, common.Vec2{X: 7}, target.Aim)
}

func TestSelectDynamic(t *testing.T) {
	cfg := config.Default()
	cfg.Steering.Mode = config.ModeDynamic
	cfg.Steering.LookaheadScaling = 3
	cfg.Steering.MaxLookaheadDistance = 2000
	sel := NewSelector(cfg, &fakePath{})

	// speed 200 -> lookahead 600 along +X
	st := movingState(common.Vec2{X: 800, Y: 1000}, common.Vec2{X: 1000, Y: 1000})
	target, _ := sel.Select(st, Input{NextCheckpoint: common.Vec2{X: 6000, Y: 1000}})
	assert.Equal(t, config.ModeDynamic, target.Mode)
	assert.InDelta(t, 1600, target.Aim.X, 1e-9)
	assert.InDelta(t, 1000, target.Aim.Y, 1e-9)
	assert.InDelta(t, 600, target.Distance, 1e-9)

	// speed 1000 -> capped at 2000
	st = movingState(common.Vec2{X: 0, Y: 1000}, common.Vec2{X: 1000, Y: 1000})
	target, _ = sel.Select(st, Input{NextCheckpoint: common.Vec2{X: 6000, Y: 1000}})
	assert.InDelta(t, 3000, target.Aim.X, 1e-9)
}

func TestSelectDynamicOnCheckpoint(t *testing.T) {
	cfg := config.Default()
	cfg.Steering.Mode = config.ModeDynamic
	sel := NewSelector(cfg, &fakePath{})

	// on the checkpoint while moving: hold heading
	st := movingState(common.Vec2{X: 900, Y: 1000}, common.Vec2{X: 1000, Y: 1000})
	target, _ := sel.Select(st, Input{NextCheckpoint: common.Vec2{X: 1000, Y: 1000}})
	assert.InDelta(t, 1300, target.Aim.X, 1e-9)
	assert.InDelta(t, 1000, target.Aim.Y, 1e-9)

	// on the checkpoint and standing still: aim at it
	st = NewState().Advance(common.Vec2{X: 1000, Y: 1000}, 300)
	target, _ = sel.Select(st, Input{NextCheckpoint: common.Vec2{X: 1000, Y: 1000}})
	assert.Equal(t, common.Vec2{X: 1000, Y: 1000}, target.Aim)
}

func TestSelectArc(t *testing.T) {
	cfg := config.Default()
	cfg.Steering.Mode = config.ModeArc
	path := &fakePath{ready: true, lap: 3, arc: common.Vec2{X: 4000, Y: 4000}}
	st := movingState(common.Vec2{X: 0, Y: 0}, common.Vec2{X: 300, Y: 400})

	target, _ := NewSelector(cfg, path).Select(st, Input{NextCheckpoint: common.Vec2{X: 5000, Y: 5000}})
	assert.Equal(t, config.ModeArc, target.Mode)
	assert.Equal(t, path.arc, target.Aim)
	assert.InDelta(t, 1500, path.arcDist, 1e-9)
}
