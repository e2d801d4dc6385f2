// Package tune searches the controller's tuning knobs against simulated
// races.
package tune

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"within.website/ln"

	"pod-racing/internal/common"
	"pod-racing/internal/config"
	"pod-racing/internal/sim"
	"pod-racing/internal/track"
)

// Search parameters
const (
	StartEpsilon = 1.0  // chance of sampling every knob afresh
	MinEpsilon   = 0.05 // exploration floor
	Decay        = 0.95 // epsilon kept per step
	StepFraction = 0.15 // local perturbation as a share of the knob range
)

// Knob is one tunable value in a config.
type Knob struct {
	Name     string
	Min, Max float64
	Integer  bool
	Get      func(c *config.Config) float64
	Set      func(c *config.Config, v float64)
}

// Knobs lists what the tuner may change.
var Knobs = []Knob{
	{
		Name: "steering.lookahead_offset", Min: 1, Max: 30, Integer: true,
		Get: func(c *config.Config) float64 { return float64(c.Steering.LookaheadOffset) },
		Set: func(c *config.Config, v float64) { c.Steering.LookaheadOffset = int(v) },
	},
	{
		Name: "steering.lookahead_scaling", Min: 0.5, Max: 6,
		Get: func(c *config.Config) float64 { return c.Steering.LookaheadScaling },
		Set: func(c *config.Config, v float64) { c.Steering.LookaheadScaling = v },
	},
	{
		Name: "throttle.distance_speed_multiplier", Min: 5, Max: 80,
		Get: func(c *config.Config) float64 { return c.Throttle.DistanceSpeedMultiplier },
		Set: func(c *config.Config, v float64) { c.Throttle.DistanceSpeedMultiplier = v },
	},
	{
		Name: "throttle.min", Min: 0, Max: 60, Integer: true,
		Get: func(c *config.Config) float64 { return c.Throttle.Min },
		Set: func(c *config.Config, v float64) { c.Throttle.Min = v },
	},
	{
		Name: "throttle.smoothing_weight", Min: 0, Max: 0.95,
		Get: func(c *config.Config) float64 { return c.Throttle.SmoothingWeight },
		Set: func(c *config.Config, v float64) { c.Throttle.SmoothingWeight = v },
	},
	{
		Name: "boost.max_angle", Min: 1, Max: 30, Integer: true,
		Get: func(c *config.Config) float64 { return c.Boost.MaxAngle },
		Set: func(c *config.Config, v float64) { c.Boost.MaxAngle = v },
	},
	{
		Name: "boost.min_distance", Min: 2000, Max: 10000, Integer: true,
		Get: func(c *config.Config) float64 { return c.Boost.MinDistance },
		Set: func(c *config.Config, v float64) { c.Boost.MinDistance = v },
	},
}

func (k Knob) clamp(v float64) float64 {
	if k.Integer {
		v = math.Round(v)
	}
	return common.Clamp(v, k.Min, k.Max)
}

// Tuner runs an epsilon-greedy random search: with probability Epsilon a
// fresh random config is tried, otherwise one knob of the best config is
// nudged.
type Tuner struct {
	Maps     []track.Map
	MaxTurns int
	Epsilon  float64

	Best      config.Config
	BestScore float64

	rng *rand.Rand
}

// New scores base on maps and uses it as the starting point.
func New(ctx context.Context, base config.Config, maps []track.Map, maxTurns int, rng *rand.Rand) (*Tuner, error) {
	if len(maps) == 0 {
		return nil, errors.New("no maps to tune on")
	}
	t := &Tuner{Maps: maps, MaxTurns: maxTurns, Epsilon: StartEpsilon, rng: rng}
	if maxTurns <= 0 {
		t.MaxTurns = sim.DefaultMaxTurns
	}
	score, err := t.Evaluate(ctx, base)
	if err != nil {
		return nil, errors.Wrap(err, "score base config")
	}
	t.Best, t.BestScore = base, score
	return t, nil
}

// Evaluate sums the race scores of cfg over every map. Lower is better.
func (t *Tuner) Evaluate(ctx context.Context, cfg config.Config) (float64, error) {
	total := 0.0
	for _, m := range t.Maps {
		res, _, err := sim.Run(ctx, m, cfg, sim.Options{MaxTurns: t.MaxTurns})
		if err != nil {
			return 0, err
		}
		total += res.Score(m, cfg.Race.Laps, t.MaxTurns)
	}
	return total, nil
}

func (t *Tuner) propose() config.Config {
	cand := t.Best
	if t.rng.Float64() < t.Epsilon {
		for _, k := range Knobs {
			k.Set(&cand, k.clamp(k.Min+t.rng.Float64()*(k.Max-k.Min)))
		}
		return cand
	}
	k := Knobs[t.rng.Intn(len(Knobs))]
	delta := t.rng.NormFloat64() * StepFraction * (k.Max - k.Min)
	k.Set(&cand, k.clamp(k.Get(&cand)+delta))
	return cand
}

// Step tries one candidate and keeps it if it beats the best score.
func (t *Tuner) Step(ctx context.Context) (bool, error) {
	cand := t.propose()
	t.Epsilon = math.Max(t.Epsilon*Decay, MinEpsilon)

	score, err := t.Evaluate(ctx, cand)
	if err != nil {
		return false, err
	}
	if score >= t.BestScore {
		return false, nil
	}
	t.Best, t.BestScore = cand, score
	return true, nil
}

// Run performs n steps, logging each improvement.
func (t *Tuner) Run(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		improved, err := t.Step(ctx)
		if err != nil {
			return errors.Wrapf(err, "step %d", i)
		}
		if improved {
			ln.Log(ctx, ln.Action("improved"), ln.F{
				"step":    i,
				"score":   t.BestScore,
				"epsilon": t.Epsilon,
			})
		}
	}
	return nil
}

// Describe lists the knob values of cfg.
func Describe(cfg config.Config) string {
	s := ""
	for _, k := range Knobs {
		s += fmt.Sprintf("%s=%g\n", k.Name, k.Get(&cfg))
	}
	return s
}
