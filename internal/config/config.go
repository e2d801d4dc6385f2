package config

import (
	"os"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// SteeringConfig tunes the lookahead target.
type SteeringConfig struct {
	Mode                 Mode    `yaml:"mode"`
	LookaheadOffset      int     `yaml:"lookahead_offset"`       // path samples ahead of the closest sample
	LookaheadScaling     float64 `yaml:"lookahead_scaling"`      // dynamic/arc lookahead distance per unit of speed
	MaxLookaheadDistance float64 `yaml:"max_lookahead_distance"` // cap for the speed-scaled lookahead
	SamplesPerSegment    int     `yaml:"samples_per_segment"`    // Catmull-Rom samples between two checkpoints
	RelativeAngle        bool    `yaml:"relative_angle"`         // measure aim angle against the pod heading
	BoundedLookahead     bool    `yaml:"bounded_lookahead"`      // never search the path before the current checkpoint
	ProgressGuard        bool    `yaml:"progress_guard"`         // drop path targets farther from the checkpoint than the pod
}

// ThrottleConfig tunes thrust computation and smoothing.
type ThrottleConfig struct {
	DistanceSpeedMultiplier float64 `yaml:"distance_speed_multiplier"`
	Min                     float64 `yaml:"min"`
	Max                     float64 `yaml:"max"`
	SmoothingWeight         float64 `yaml:"smoothing_weight"` // 0 = no smoothing, 1 = frozen
	AngleFactorFloor        float64 `yaml:"angle_factor_floor"`
	DistanceAware           bool    `yaml:"distance_aware"`
	AngleDistanceThreshold  float64 `yaml:"angle_distance_threshold"`
	IgnitionStopSpeed       float64 `yaml:"ignition_stop_speed"`
	FinalSprintMaxAngle     float64 `yaml:"final_sprint_max_angle"` // full thrust into the last checkpoint below this angle
}

// BoostConfig decides when the single boost is spent.
type BoostConfig struct {
	MaxAngle     float64 `yaml:"max_angle"`
	MinSpeed     float64 `yaml:"min_speed"`
	MinDistance  float64 `yaml:"min_distance"`
	Lap          int     `yaml:"lap"`
	StartStrong  bool    `yaml:"start_strong"`
	FinishStrong bool    `yaml:"finish_strong"`
	Adaptive     bool    `yaml:"adaptive"`
}

// OpponentConfig tunes the near-hit reaction.
type OpponentConfig struct {
	NearHitDistance float64 `yaml:"near_hit_distance"`
	NearHitReduce   float64 `yaml:"near_hit_reduce"`
	NearHitMaxAngle float64 `yaml:"near_hit_max_angle"`
}

// RaceConfig describes the race itself.
type RaceConfig struct {
	Laps int `yaml:"laps"`
}

// Config aggregates all tuning knobs. It is built once and never mutated.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Steering SteeringConfig `yaml:"steering"`
	Throttle ThrottleConfig `yaml:"throttle"`
	Boost    BoostConfig    `yaml:"boost"`
	Opponent OpponentConfig `yaml:"opponent"`
	Race     RaceConfig     `yaml:"race"`
}

// Default returns the tuning used by the submitted bot.
func Default() Config {
	return Config{
		Debug: false,
		Steering: SteeringConfig{
			Mode:                 ModeSpline,
			LookaheadOffset:      10,
			LookaheadScaling:     3.0,
			MaxLookaheadDistance: 2000,
			SamplesPerSegment:    10,
			RelativeAngle:        true,
			BoundedLookahead:     false,
			ProgressGuard:        true,
		},
		Throttle: ThrottleConfig{
			DistanceSpeedMultiplier: 35,
			Min:                     30,
			Max:                     100,
			SmoothingWeight:         0.8,
			AngleFactorFloor:        0,
			DistanceAware:           false,
			AngleDistanceThreshold:  2000,
			IgnitionStopSpeed:       300,
			FinalSprintMaxAngle:     45,
		},
		Boost: BoostConfig{
			MaxAngle:     10,
			MinSpeed:     0,
			MinDistance:  7000,
			Lap:          3,
			StartStrong:  false,
			FinishStrong: false,
			Adaptive:     false,
		},
		Opponent: OpponentConfig{
			NearHitDistance: 800,
			NearHitReduce:   0.5,
			NearHitMaxAngle: 10,
		},
		Race: RaceConfig{
			Laps: 3,
		},
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %q", path)
	}
	cfg, err = Parse(data)
	if err != nil {
		return cfg, errors.Wrapf(err, "config %q", path)
	}
	return cfg, nil
}

// Parse overlays YAML data on the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "decode yaml")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Marshal encodes the config as YAML.
func (c Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(&c)
	if err != nil {
		return nil, errors.Wrap(err, "encode yaml")
	}
	return data, nil
}

// Validate rejects knob combinations the controller cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Steering.Mode < ModeCheckpoint || c.Steering.Mode > ModeArc:
		return errors.Errorf("invalid steering mode %v", c.Steering.Mode)
	case c.Steering.SamplesPerSegment < 1:
		return errors.Errorf("samples_per_segment must be >= 1, got %d", c.Steering.SamplesPerSegment)
	case c.Steering.LookaheadOffset < 0:
		return errors.Errorf("lookahead_offset must be >= 0, got %d", c.Steering.LookaheadOffset)
	case c.Steering.MaxLookaheadDistance < 0:
		return errors.Errorf("max_lookahead_distance must be >= 0, got %g", c.Steering.MaxLookaheadDistance)
	case c.Throttle.Min < 0 || c.Throttle.Max > 100 || c.Throttle.Min > c.Throttle.Max:
		return errors.Errorf("throttle range [%g, %g] must lie within [0, 100]", c.Throttle.Min, c.Throttle.Max)
	case c.Throttle.SmoothingWeight < 0 || c.Throttle.SmoothingWeight > 1:
		return errors.Errorf("smoothing_weight must be in [0, 1], got %g", c.Throttle.SmoothingWeight)
	case c.Throttle.AngleFactorFloor < 0 || c.Throttle.AngleFactorFloor > 1:
		return errors.Errorf("angle_factor_floor must be in [0, 1], got %g", c.Throttle.AngleFactorFloor)
	case c.Throttle.DistanceAware && c.Throttle.AngleDistanceThreshold <= 0:
		return errors.New("angle_distance_threshold must be > 0 when distance_aware is set")
	case c.Race.Laps < 1:
		return errors.Errorf("laps must be >= 1, got %d", c.Race.Laps)
	}
	return nil
}
