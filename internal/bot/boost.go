package bot

import (
	"math"

	"pod-racing/internal/config"
	"pod-racing/internal/steering"
)

// raceStatus is the slice of tracker state the boost rules look at.
type raceStatus struct {
	lap   int
	final bool // heading for the last checkpoint of the last lap
}

// shouldUseBoost applies the default rule. The boost is only ever spent
// pointing almost straight at the checkpoint.
func shouldUseBoost(cfg config.Config, st steering.State, race raceStatus, angle, distance float64) bool {
	if st.UsedBoost || math.Abs(angle) >= cfg.Boost.MaxAngle {
		return false
	}
	switch {
	case cfg.Boost.StartStrong:
		return st.Speed > cfg.Boost.MinSpeed
	case cfg.Boost.FinishStrong:
		return race.final
	}
	return distance > cfg.Boost.MinDistance &&
		st.Speed > cfg.Boost.MinSpeed &&
		race.lap == cfg.Boost.Lap ||
		race.final
}

// shouldUseAdaptiveBoost boosts to catch up when behind, or to hold a lead
// on the last lap, before falling back to the default rule.
func shouldUseAdaptiveBoost(cfg config.Config, st steering.State, race raceStatus, angle, distance, opponentDistance float64) bool {
	if cfg.Boost.Adaptive && !st.UsedBoost && math.Abs(angle) < cfg.Boost.MaxAngle {
		behind := opponentDistance > distance
		if behind {
			return true
		}
		if race.lap == cfg.Race.Laps {
			return true
		}
	}
	return shouldUseBoost(cfg, st, race, angle, distance)
}
