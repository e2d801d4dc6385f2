package config

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Mode selects how the steering target is chosen each turn.
type Mode int

const (
	// ModeCheckpoint aims straight at the reported next checkpoint.
	ModeCheckpoint Mode = iota + 1
	// ModeSpline aims at a fixed index offset ahead on the smoothed path.
	ModeSpline
	// ModeDynamic aims toward the next checkpoint at a speed-scaled distance.
	ModeDynamic
	// ModeArc aims at a speed-scaled arc length ahead on the smoothed path.
	ModeArc
)

func (m Mode) String() string {
	switch m {
	case ModeCheckpoint:
		return "checkpoint"
	case ModeSpline:
		return "spline"
	case ModeDynamic:
		return "dynamic"
	case ModeArc:
		return "arc"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// UsesPath reports whether the mode needs the smoothed path.
func (m Mode) UsesPath() bool {
	return m == ModeSpline || m == ModeArc
}

// ParseMode converts a mode name into a Mode.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "checkpoint":
		return ModeCheckpoint, nil
	case "spline", "static":
		return ModeSpline, nil
	case "dynamic":
		return ModeDynamic, nil
	case "arc":
		return ModeArc, nil
	default:
		return 0, errors.Errorf("unknown steering mode %q", value)
	}
}

// UnmarshalYAML allows modes to be loaded from YAML strings.
func (m *Mode) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseMode(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalYAML writes the mode by name.
func (m Mode) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}
