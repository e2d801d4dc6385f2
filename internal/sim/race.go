// Package sim runs headless races between a driver and a naive opponent on
// top of the pod physics.
package sim

import (
	"context"
	"math"

	"pod-racing/internal/common"
	"pod-racing/internal/physics"
	"pod-racing/internal/protocol"
	"pod-racing/internal/track"
)

// DefaultMaxTurns bounds a race when Options leaves it unset.
const DefaultMaxTurns = 1500

// unfinishedPenalty is added to the score per checkpoint left unpassed.
const unfinishedPenalty = 200

// Driver decides one pod command per turn, like a bot process would.
type Driver interface {
	Turn(ctx context.Context, in protocol.TurnInput) protocol.Command
}

// Chaser drives straight at the next checkpoint at full thrust.
type Chaser struct{}

func (Chaser) Turn(_ context.Context, in protocol.TurnInput) protocol.Command {
	return protocol.Command{
		X:      int(in.NextCheckpoint.X),
		Y:      int(in.NextCheckpoint.Y),
		Thrust: int(physics.MaxThrust),
	}
}

// Racer is one driven pod and its history.
type Racer struct {
	Driver Driver
	Pod    *physics.Pod
	Trail  []common.Vec2
	Boosts int
	Last   protocol.Command
}

// Race is a single race between a player and an opponent.
type Race struct {
	Map      track.Map
	Laps     int
	MaxTurns int
	Turn     int
	Player   *Racer
	Opponent *Racer
}

// NewRace puts both pods on the start line.
func NewRace(m track.Map, laps, maxTurns int, player, opponent Driver) *Race {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	newRacer := func(d Driver, side float64) *Racer {
		p := physics.NewPod(m, side)
		return &Racer{Driver: d, Pod: p, Trail: []common.Vec2{p.Position}}
	}
	return &Race{
		Map:      m,
		Laps:     laps,
		MaxTurns: maxTurns,
		Player:   newRacer(player, -1),
		Opponent: newRacer(opponent, 1),
	}
}

// Input builds what the game would send self this turn.
func (r *Race) Input(self, other *Racer) protocol.TurnInput {
	p := self.Pod
	next := r.Map.Checkpoints[p.NextCheckpoint]
	in := protocol.TurnInput{
		Position:           p.Position,
		NextCheckpoint:     next,
		CheckpointDistance: int(math.Round(p.Position.Dist(next))),
		Opponent:           other.Pod.Position,
	}
	if p.Oriented {
		in.CheckpointAngle = int(math.Round(p.AngleTo(next)))
	}
	return in
}

// Finished reports whether the player completed every lap.
func (r *Race) Finished() bool {
	return r.Player.Pod.Laps >= r.Laps
}

// Done reports whether the race is over for any reason.
func (r *Race) Done() bool {
	return r.Finished() || r.Turn >= r.MaxTurns
}

// Step plays one turn for both pods. Commands are collected before either
// pod moves.
func (r *Race) Step(ctx context.Context) {
	if r.Done() {
		return
	}
	r.Turn++

	pc := r.Player.Driver.Turn(ctx, r.Input(r.Player, r.Opponent))
	var oc protocol.Command
	if r.Opponent.Pod.Laps < r.Laps {
		oc = r.Opponent.Driver.Turn(ctx, r.Input(r.Opponent, r.Player))
	}

	r.apply(r.Player, pc)
	if r.Opponent.Pod.Laps < r.Laps {
		r.apply(r.Opponent, oc)
	}
}

func (r *Race) apply(rc *Racer, c protocol.Command) {
	if c.Boost {
		rc.Boosts++
	}
	rc.Last = c
	thrust := common.Clamp(float64(c.Thrust), 0, physics.MaxThrust)
	rc.Pod.Update(r.Map, c.Target(), thrust, c.Boost)
	rc.Trail = append(rc.Trail, rc.Pod.Position)
}

// Result summarises a race from the player's side.
type Result struct {
	Map      string
	Turns    int
	Finished bool
	Laps     int
	LapTimes []int
	Passed   int
	Boosts   int
	Trail    []common.Vec2
	Opponent []common.Vec2
	Won      bool
}

// Result snapshots the current race state.
func (r *Race) Result() Result {
	p := r.Player.Pod
	return Result{
		Map:      r.Map.Name,
		Turns:    r.Turn,
		Finished: r.Finished(),
		Laps:     p.Laps,
		LapTimes: append([]int(nil), p.LapTimes...),
		Passed:   p.Passed,
		Boosts:   r.Player.Boosts,
		Trail:    append([]common.Vec2(nil), r.Player.Trail...),
		Opponent: append([]common.Vec2(nil), r.Opponent.Trail...),
		Won:      r.Finished() && r.Opponent.Pod.Laps < r.Laps,
	}
}

// Score is lower for better races. Unfinished races score past the turn
// budget by how many checkpoints were missing.
func (res Result) Score(m track.Map, laps, maxTurns int) float64 {
	if res.Finished {
		return float64(res.Turns)
	}
	missing := laps*len(m.Checkpoints) - res.Passed
	return float64(maxTurns + missing*unfinishedPenalty)
}
