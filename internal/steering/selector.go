package steering

import (
	"math"

	"pod-racing/internal/common"
	"pod-racing/internal/config"
)

// PathSource answers lookahead queries on the smoothed racing line.
type PathSource interface {
	Ready() bool
	Lap() int
	LookaheadPoint(pos common.Vec2, offset int) (common.Vec2, error)
	BoundedLookaheadPoint(pos common.Vec2, offset int) (common.Vec2, error)
	ArcLookaheadPoint(pos common.Vec2, distance float64) (common.Vec2, error)
}

// Input is what the game reports about the next checkpoint.
type Input struct {
	NextCheckpoint     common.Vec2
	CheckpointDistance float64
	CheckpointAngle    float64 // degrees, relative to the pod facing
}

// Target is one turn's steering decision.
type Target struct {
	Aim      common.Vec2
	Throttle float64 // smoothed and rounded, in [0, 100]
	Angle    float64 // degrees to Aim used for the thrust
	Distance float64 // distance to Aim used for the thrust
	Mode     config.Mode
}

// Selector picks the aim point for the configured mode.
type Selector struct {
	cfg  config.Config
	path PathSource
}

func NewSelector(cfg config.Config, path PathSource) *Selector {
	return &Selector{cfg: cfg, path: path}
}

// Select computes this turn's target and returns the state carrying the
// new throttle memory.
func (s *Selector) Select(st State, in Input) (Target, State) {
	target := s.aim(st, in)

	raw := ThrottleFromAngleDistance(s.cfg.Throttle, target.Angle, target.Distance, st.Speed)
	target.Throttle = math.Round(common.Blend(raw, st.LastThrottle, s.cfg.Throttle.SmoothingWeight))
	st.LastThrottle = target.Throttle
	return target, st
}

func (s *Selector) aim(st State, in Input) Target {
	mode := s.cfg.Steering.Mode
	// Path modes need a built path and a finished discovery lap.
	if mode.UsesPath() && (!s.path.Ready() || s.path.Lap() <= 1) {
		mode = config.ModeCheckpoint
	}

	var (
		aim common.Vec2
		err error
	)
	switch mode {
	case config.ModeSpline:
		if s.cfg.Steering.BoundedLookahead {
			aim, err = s.path.BoundedLookaheadPoint(st.Position, s.cfg.Steering.LookaheadOffset)
		} else {
			aim, err = s.path.LookaheadPoint(st.Position, s.cfg.Steering.LookaheadOffset)
		}
	case config.ModeArc:
		aim, err = s.path.ArcLookaheadPoint(st.Position, s.lookaheadDistance(st.Speed))
	case config.ModeDynamic:
		aim = s.dynamicLookahead(st, in.NextCheckpoint)
	}
	if err == nil && mode.UsesPath() && s.cfg.Steering.ProgressGuard &&
		aim.Dist(in.NextCheckpoint) > st.Position.Dist(in.NextCheckpoint) {
		// The path does not cover this leg yet, or the target lies behind.
		mode = config.ModeCheckpoint
	}
	if err != nil || mode == config.ModeCheckpoint {
		return Target{
			Aim:      in.NextCheckpoint,
			Angle:    in.CheckpointAngle,
			Distance: in.CheckpointDistance,
			Mode:     config.ModeCheckpoint,
		}
	}

	return Target{
		Aim:      aim,
		Angle:    s.aimAngle(st, aim),
		Distance: st.Position.Dist(aim),
		Mode:     mode,
	}
}

func (s *Selector) lookaheadDistance(speed float64) float64 {
	return math.Min(speed*s.cfg.Steering.LookaheadScaling, s.cfg.Steering.MaxLookaheadDistance)
}

// dynamicLookahead projects a speed-scaled point toward the checkpoint.
// Sitting on the checkpoint keeps the current heading; with no heading
// either, the checkpoint itself is the aim.
func (s *Selector) dynamicLookahead(st State, next common.Vec2) common.Vec2 {
	dir := next.Sub(st.Position)
	if dir.IsZero() {
		dir = st.Heading()
	}
	if dir.IsZero() {
		return next
	}
	return st.Position.Add(dir.Normalize().Scale(s.lookaheadDistance(st.Speed)))
}

func (s *Selector) aimAngle(st State, aim common.Vec2) float64 {
	if s.cfg.Steering.RelativeAngle {
		return common.RelativeAngleDegrees(st.PrevPosition, st.Position, aim)
	}
	return common.AbsoluteAngleDegrees(st.Position, aim)
}
