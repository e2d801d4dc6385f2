package sim

import (
	"context"

	"github.com/pkg/errors"
	"within.website/ln"

	"pod-racing/internal/bot"
	"pod-racing/internal/config"
	"pod-racing/internal/track"
)

// Options tune a simulated race.
type Options struct {
	MaxTurns int
	Opponent Driver // Chaser when nil
}

// Run races a fresh bot built from cfg on m until it finishes, the turn
// budget runs out or ctx is cancelled.
func Run(ctx context.Context, m track.Map, cfg config.Config, opts Options) (Result, *bot.Bot, error) {
	if err := m.Validate(); err != nil {
		return Result{}, nil, errors.Wrapf(err, "map %s", m.Name)
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, nil, errors.Wrap(err, "config")
	}
	opp := opts.Opponent
	if opp == nil {
		opp = Chaser{}
	}

	b := bot.New(cfg)
	race := NewRace(m, cfg.Race.Laps, opts.MaxTurns, b, opp)
	for !race.Done() {
		if err := ctx.Err(); err != nil {
			return race.Result(), b, err
		}
		race.Step(ctx)
	}

	res := race.Result()
	if cfg.Debug {
		ln.Log(ctx, ln.Action("race"), ln.F{
			"map":      res.Map,
			"turns":    res.Turns,
			"finished": res.Finished,
			"laps":     res.Laps,
			"boosts":   res.Boosts,
		})
	}
	return res, b, nil
}
