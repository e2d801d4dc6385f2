// Package steering turns pod kinematics and the racing line into an aim
// point and a thrust value.
package steering

import (
	"math"

	"pod-racing/internal/common"
)

// State is the pod memory threaded from one turn to the next.
type State struct {
	Started      bool
	Position     common.Vec2
	PrevPosition common.Vec2
	Speed        float64 // distance covered last turn, never below 1

	Igniting     bool    // true until Speed first exceeds the ignition threshold
	UsedBoost    bool    // once set, never cleared
	LastThrottle float64 // thrust sent last turn, used for smoothing
}

// NewState returns the state of a pod on the starting grid.
func NewState() State {
	return State{Igniting: true}
}

// Advance records this turn's position and derives speed.
func (s State) Advance(pos common.Vec2, stopIgnitingSpeed float64) State {
	if s.Started {
		s.PrevPosition = s.Position
	} else {
		s.PrevPosition = pos
		s.Started = true
	}
	s.Position = pos
	s.Speed = math.Max(s.PrevPosition.Dist(pos), 1)

	if s.Igniting && s.Speed > stopIgnitingSpeed {
		s.Igniting = false
	}
	return s
}

// Heading returns last turn's displacement.
func (s State) Heading() common.Vec2 {
	return s.Position.Sub(s.PrevPosition)
}
