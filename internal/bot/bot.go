// Package bot runs one Pod Racing turn: track checkpoints, pick a steering
// target, decide thrust and boost.
package bot

import (
	"context"
	"math"

	"within.website/ln"

	"pod-racing/internal/common"
	"pod-racing/internal/config"
	"pod-racing/internal/protocol"
	"pod-racing/internal/spline"
	"pod-racing/internal/steering"
	"pod-racing/internal/track"
)

// nearHitPush moves the aim further out when the opponent is close, so the
// pod leans through instead of stopping short.
const nearHitPush = 0.1

// Decision is the full outcome of one turn.
type Decision struct {
	Command protocol.Command
	Target  steering.Target
	State   steering.State
}

// Bot is a single pod controller for one race.
type Bot struct {
	cfg      config.Config
	tracker  *track.Tracker
	selector *steering.Selector
	state    steering.State
	turn     int
}

// New creates a controller. cfg must already be valid.
func New(cfg config.Config) *Bot {
	tr := track.NewTracker(spline.NewCalculator(), cfg.Steering.SamplesPerSegment, cfg.Race.Laps)
	return &Bot{
		cfg:      cfg,
		tracker:  tr,
		selector: steering.NewSelector(cfg, tr),
		state:    steering.NewState(),
	}
}

// Tracker exposes the checkpoint tracker for drawing and tests.
func (b *Bot) Tracker() *track.Tracker {
	return b.tracker
}

// State returns the pod memory carried into the next turn.
func (b *Bot) State() steering.State {
	return b.state
}

// Turn consumes one turn of input and returns the command to send.
func (b *Bot) Turn(ctx context.Context, in protocol.TurnInput) protocol.Command {
	b.turn++
	b.tracker.Observe(in.NextCheckpoint)

	d := b.Decide(b.state, in)
	b.state = d.State

	if b.cfg.Debug {
		b.logTurn(ctx, in, d)
	}
	return d.Command
}

// Decide computes a command from the previous state and this turn's input.
// The tracker must already have observed in.NextCheckpoint.
func (b *Bot) Decide(st steering.State, in protocol.TurnInput) Decision {
	cfg := b.cfg
	st = st.Advance(in.Position, cfg.Throttle.IgnitionStopSpeed)

	cpAngle := float64(in.CheckpointAngle)
	cpDist := float64(in.CheckpointDistance)

	target, st := b.selector.Select(st, steering.Input{
		NextCheckpoint:     in.NextCheckpoint,
		CheckpointDistance: cpDist,
		CheckpointAngle:    cpAngle,
	})
	aim := target.Aim
	throttle := target.Throttle

	race := raceStatus{lap: b.tracker.Lap(), final: b.tracker.IsFinalCheckpointOfFinalLap()}
	opponentDist := st.Position.Dist(in.Opponent)

	boost := shouldUseAdaptiveBoost(cfg, st, race, cpAngle, cpDist, opponentDist)
	if boost {
		st.UsedBoost = true
	}

	if !boost && opponentDist < cfg.Opponent.NearHitDistance && math.Abs(cpAngle) < cfg.Opponent.NearHitMaxAngle {
		throttle = common.Clamp(throttle*cfg.Opponent.NearHitReduce, cfg.Throttle.Min, cfg.Throttle.Max)
		aim = aim.Add(aim.Sub(st.Position).Scale(nearHitPush))
	}

	if (st.Igniting && !cfg.Boost.StartStrong) ||
		(race.final && !boost && math.Abs(cpAngle) < cfg.Throttle.FinalSprintMaxAngle) {
		throttle = cfg.Throttle.Max
	}

	aim = aim.Round()
	cmd := protocol.Command{X: int(aim.X), Y: int(aim.Y), Boost: boost}
	if boost {
		st.LastThrottle = cfg.Throttle.Max
	} else {
		cmd.Thrust = int(math.Round(throttle))
		st.LastThrottle = float64(cmd.Thrust)
	}

	return Decision{Command: cmd, Target: target, State: st}
}

func (b *Bot) logTurn(ctx context.Context, in protocol.TurnInput, d Decision) {
	ln.Log(ctx, ln.F{
		"turn":        b.turn,
		"lap":         b.tracker.Lap(),
		"checkpoints": len(b.tracker.Checkpoints()),
		"cp_index":    b.tracker.CurrentIndex(),
		"cp_angle":    in.CheckpointAngle,
		"cp_dist":     in.CheckpointDistance,
		"mode":        d.Target.Mode.String(),
		"aim":         d.Target.Aim.String(),
		"aim_angle":   d.Target.Angle,
		"aim_dist":    d.Target.Distance,
		"speed":       d.State.Speed,
		"igniting":    d.State.Igniting,
		"boost_used":  d.State.UsedBoost,
		"command":     d.Command.String(),
	})
}
