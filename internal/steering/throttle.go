package steering

import (
	"math"

	"pod-racing/internal/common"
	"pod-racing/internal/config"
)

// ThrottleFromAngleDistance converts the error to the target into thrust.
// Far targets and slow pods get more thrust; heading error scales it down.
func ThrottleFromAngleDistance(cfg config.ThrottleConfig, angle, distance, speed float64) float64 {
	base := common.Clamp((distance/speed)*cfg.DistanceSpeedMultiplier, cfg.Min, cfg.Max)
	return base * angleFactor(cfg, angle, distance)
}

func angleFactor(cfg config.ThrottleConfig, angle, distance float64) float64 {
	f := common.Clamp((90-math.Abs(angle))/90, cfg.AngleFactorFloor, 1)
	if cfg.DistanceAware {
		// A far target forgives a larger heading error.
		f *= math.Min(1, distance/cfg.AngleDistanceThreshold)
	}
	return f
}
