package track

import (
	"fmt"
	"math/rand"

	"pod-racing/internal/common"
)

const (
	// jitterGap is how far a generated checkpoint may move from its template.
	jitterGap = 30
	// minCheckpointGap keeps random checkpoints from overlapping.
	minCheckpointGap = 2 * CheckpointRadius
	// arenaMargin keeps random checkpoints inside the arena.
	arenaMargin = 1000
)

// JitterMap derives a new map from a template the way the game does: every
// checkpoint moves by up to jitterGap on each axis, then the order is shuffled.
func JitterMap(rng *rand.Rand, base Map) Map {
	out := Map{
		Name:        base.Name + "-jitter",
		Checkpoints: make([]common.Vec2, len(base.Checkpoints)),
	}
	for i, cp := range base.Checkpoints {
		out.Checkpoints[i] = common.Vec2{
			X: cp.X + float64(rng.Intn(jitterGap*2+1)-jitterGap),
			Y: cp.Y + float64(rng.Intn(jitterGap*2+1)-jitterGap),
		}
	}
	for i := len(out.Checkpoints) - 1; i > 0; i-- {
		j := rng.Intn(i)
		out.Checkpoints[i], out.Checkpoints[j] = out.Checkpoints[j], out.Checkpoints[i]
	}
	return out
}

// RandomMap places n checkpoints uniformly in the arena, at least
// minCheckpointGap apart.
func RandomMap(rng *rand.Rand, n int) Map {
	m := Map{Name: fmt.Sprintf("random-%d", n)}
	for len(m.Checkpoints) < n {
		cp := common.Vec2{
			X: float64(arenaMargin + rng.Intn(ArenaWidth-2*arenaMargin)),
			Y: float64(arenaMargin + rng.Intn(ArenaHeight-2*arenaMargin)),
		}
		ok := true
		for _, other := range m.Checkpoints {
			if other.Dist(cp) < minCheckpointGap {
				ok = false
				break
			}
		}
		if ok {
			m.Checkpoints = append(m.Checkpoints, cp)
		}
	}
	return m
}
