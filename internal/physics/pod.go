// Package physics moves pods the way the game engine does.
package physics

import (
	"math"

	"pod-racing/internal/common"
	"pod-racing/internal/track"
)

const (
	MaxRotation = 18.0 // degrees per turn
	Friction    = 0.85 // velocity kept after each turn
	BoostThrust = 650.0
	MaxThrust   = 100.0
	StartOffset = 500.0 // distance of each pod from the start line centre
)

// Pod is one racer's physical and race state.
type Pod struct {
	Position common.Vec2
	Velocity common.Vec2
	Angle    float64 // facing in degrees, 0 along +X
	Oriented bool    // false until the first command sets the facing
	Boosted  bool

	// Race State
	NextCheckpoint int // index into the map's checkpoints
	Passed         int // checkpoints passed since the start
	Laps           int
	CurrentLapTime int // turns into the current lap
	LapTimes       []int
}

// NewPod places a pod on the start line, offset sideways from checkpoint 0.
// side is +1 or -1.
func NewPod(m track.Map, side float64) *Pod {
	start := m.Checkpoints[0]
	dir := m.Checkpoints[1].Sub(start).Normalize()
	normal := common.Vec2{X: -dir.Y, Y: dir.X}

	return &Pod{
		Position:       start.Add(normal.Scale(side * StartOffset)).Round(),
		NextCheckpoint: 1,
	}
}

// AngleTo returns the signed angle from the pod facing to p, in degrees.
func (p *Pod) AngleTo(target common.Vec2) float64 {
	return common.NormalizeDegrees(common.AbsoluteAngleDegrees(p.Position, target) - p.Angle)
}

// Update advances one turn with the given command. It reports whether the
// pod passed its next checkpoint.
func (p *Pod) Update(m track.Map, target common.Vec2, thrust float64, boost bool) bool {
	// 1. Rotate
	if target != p.Position {
		if !p.Oriented {
			p.Angle = common.AbsoluteAngleDegrees(p.Position, target)
			p.Oriented = true
		} else {
			diff := common.Clamp(p.AngleTo(target), -MaxRotation, MaxRotation)
			p.Angle = common.NormalizeDegrees(p.Angle + diff)
		}
	}

	// 2. Thrust
	if boost {
		thrust = MaxThrust
		if !p.Boosted {
			thrust = BoostThrust
			p.Boosted = true
		}
	}
	rad := p.Angle * math.Pi / 180
	p.Velocity = p.Velocity.Add(common.Vec2{X: math.Cos(rad), Y: math.Sin(rad)}.Scale(thrust))

	// 3. Move and check the swept segment against the checkpoint
	from := p.Position
	p.Position = p.Position.Add(p.Velocity)
	p.CurrentLapTime++
	passed := crosses(from, p.Position, m.Checkpoints[p.NextCheckpoint], track.CheckpointRadius)
	if passed {
		p.pass(len(m.Checkpoints))
	}

	// 4. Friction, truncation and rounding
	p.Velocity = common.Vec2{
		X: math.Trunc(p.Velocity.X * Friction),
		Y: math.Trunc(p.Velocity.Y * Friction),
	}
	p.Position = common.Vec2{X: math.Floor(p.Position.X + 0.5), Y: math.Floor(p.Position.Y + 0.5)}
	return passed
}

func (p *Pod) pass(count int) {
	if p.NextCheckpoint == 0 {
		p.Laps++
		p.LapTimes = append(p.LapTimes, p.CurrentLapTime)
		p.CurrentLapTime = 0
	}
	p.Passed++
	p.NextCheckpoint = (p.NextCheckpoint + 1) % count
}

// crosses reports whether segment a-b comes within radius of c.
func crosses(a, b, c common.Vec2, radius float64) bool {
	d := b.Sub(a)
	closest := a
	if l2 := d.X*d.X + d.Y*d.Y; l2 != 0 {
		u := (c.Sub(a).X*d.X + c.Sub(a).Y*d.Y) / l2
		switch {
		case u > 1:
			closest = b
		case u > 0:
			closest = a.Add(d.Scale(u))
		}
	}
	return closest.Dist(c) < radius
}
