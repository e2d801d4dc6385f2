package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pod-racing/internal/common"
	"pod-racing/internal/config"
	"pod-racing/internal/protocol"
	"pod-racing/internal/steering"
)

var farOpponent = common.Vec2{X: 15000, Y: 8000}

func TestFirstTickFullThrottle(t *testing.T) {
	b := New(config.Default())
	cmd := b.Turn(context.Background(), protocol.TurnInput{
		Position:           common.Vec2{X: 0, Y: 0},
		NextCheckpoint:     common.Vec2{X: 1000, Y: 0},
		CheckpointDistance: 1000,
		CheckpointAngle:    0,
		Opponent:           farOpponent,
	})
	assert.Equal(t, "1000 0 100", cmd.String())
	assert.Equal(t, 1, b.Tracker().Lap())
	assert.True(t, b.State().Igniting)
	assert.Equal(t, 100.0, b.State().LastThrottle)
}

func TestDecideIsPureOverState(t *testing.T) {
	b := New(config.Default())
	in := protocol.TurnInput{
		Position:           common.Vec2{X: 500, Y: 500},
		NextCheckpoint:     common.Vec2{X: 5000, Y: 500},
		CheckpointDistance: 4500,
		Opponent:           farOpponent,
	}
	b.Tracker().Observe(in.NextCheckpoint)

	st := steering.NewState()
	first := b.Decide(st, in)
	second := b.Decide(st, in)
	assert.Equal(t, first, second)
	assert.Equal(t, steering.NewState(), b.State(), "Decide leaves the bot state alone")
}

func TestBoostUsedAtMostOnce(t *testing.T) {
	cfg := config.Default()
	cfg.Boost.StartStrong = true
	b := New(cfg)

	boosts := 0
	pos := common.Vec2{X: 1000, Y: 4000}
	for i := 0; i < 50; i++ {
		pos = pos.Add(common.Vec2{X: 150})
		cmd := b.Turn(context.Background(), protocol.TurnInput{
			Position:           pos,
			NextCheckpoint:     common.Vec2{X: 15000, Y: 4000},
			CheckpointDistance: int(15000 - pos.X),
			Opponent:           farOpponent,
		})
		if cmd.Boost {
			boosts++
			assert.Equal(t, 0, i, "start strong boosts on the first turn")
		}
	}
	assert.Equal(t, 1, boosts)
	assert.True(t, b.State().UsedBoost)
}

func TestNoBoostWhenMisaligned(t *testing.T) {
	cfg := config.Default()
	cfg.Boost.StartStrong = true
	b := New(cfg)
	cmd := b.Turn(context.Background(), protocol.TurnInput{
		Position:           common.Vec2{X: 1000, Y: 1000},
		NextCheckpoint:     common.Vec2{X: 1000, Y: 8000},
		CheckpointDistance: 7000,
		CheckpointAngle:    90,
		Opponent:           farOpponent,
	})
	assert.False(t, cmd.Boost)
}

func TestNearHitOpponent(t *testing.T) {
	cfg := config.Default()
	cfg.Throttle.SmoothingWeight = 0
	b := New(cfg)

	st := steering.NewState()
	st.Igniting = false
	in := protocol.TurnInput{
		Position:           common.Vec2{X: 1000, Y: 1000},
		NextCheckpoint:     common.Vec2{X: 3000, Y: 1000},
		CheckpointDistance: 2000,
		Opponent:           common.Vec2{X: 1300, Y: 1000},
	}
	b.Tracker().Observe(in.NextCheckpoint)
	d := b.Decide(st, in)

	// 100 halved, aim pushed 10% further out
	assert.Equal(t, protocol.Command{X: 3200, Y: 1000, Thrust: 50}, d.Command)

	in.Opponent = farOpponent
	d = b.Decide(st, in)
	assert.Equal(t, protocol.Command{X: 3000, Y: 1000, Thrust: 100}, d.Command)
}

func TestFinalSprint(t *testing.T) {
	cfg := config.Default()
	cfg.Race.Laps = 2
	cfg.Throttle.SmoothingWeight = 1 // freeze smoothing so only the override can raise thrust
	b := New(cfg)

	cps := []common.Vec2{{X: 1000, Y: 1000}, {X: 8000, Y: 1000}, {X: 8000, Y: 6000}}
	for lap := 0; lap < 2; lap++ {
		for _, cp := range cps {
			b.Tracker().Observe(cp)
		}
	}
	require.True(t, b.Tracker().IsFinalCheckpointOfFinalLap())

	st := steering.NewState()
	st.Igniting = false
	st.UsedBoost = true
	in := protocol.TurnInput{
		Position:           common.Vec2{X: 8000, Y: 3000},
		NextCheckpoint:     cps[2],
		CheckpointDistance: 3000,
		CheckpointAngle:    20,
		Opponent:           farOpponent,
	}
	d := b.Decide(st, in)
	assert.Equal(t, 100, d.Command.Thrust)

	in.CheckpointAngle = 60
	d = b.Decide(st, in)
	assert.Equal(t, 0, d.Command.Thrust)
}

func TestShouldUseBoost(t *testing.T) {
	cfg := config.Default()
	fast := steering.State{Speed: 600}

	tests := []struct {
		name     string
		mutate   func(*config.Config)
		st       steering.State
		race     raceStatus
		angle    float64
		distance float64
		want     bool
	}{
		{"long straight on boost lap", nil, fast, raceStatus{lap: 3}, 2, 8000, true},
		{"long straight on other lap", nil, fast, raceStatus{lap: 2}, 2, 8000, false},
		{"short straight on boost lap", nil, fast, raceStatus{lap: 3}, 2, 5000, false},
		{"final checkpoint", nil, fast, raceStatus{lap: 3, final: true}, 2, 100, true},
		{"already used", nil, steering.State{Speed: 600, UsedBoost: true}, raceStatus{lap: 3, final: true}, 2, 9000, false},
		{"too wide", nil, fast, raceStatus{lap: 3, final: true}, 10, 9000, false},
		{"start strong", func(c *config.Config) { c.Boost.StartStrong = true }, fast, raceStatus{lap: 1}, 0, 100, true},
		{"finish strong waits", func(c *config.Config) { c.Boost.FinishStrong = true }, fast, raceStatus{lap: 3}, 0, 9000, false},
		{"finish strong fires", func(c *config.Config) { c.Boost.FinishStrong = true }, fast, raceStatus{lap: 3, final: true}, 0, 100, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cfg
			if tt.mutate != nil {
				tt.mutate(&c)
			}
			assert.Equal(t, tt.want, shouldUseBoost(c, tt.st, tt.race, tt.angle, tt.distance))
		})
	}
}

func TestShouldUseAdaptiveBoost(t *testing.T) {
	cfg := config.Default()
	cfg.Boost.Adaptive = true
	st := steering.State{Speed: 400}

	assert.True(t, shouldUseAdaptiveBoost(cfg, st, raceStatus{lap: 1}, 0, 2000, 5000), "behind")
	assert.False(t, shouldUseAdaptiveBoost(cfg, st, raceStatus{lap: 1}, 0, 2000, 1000), "ahead, early lap")
	assert.True(t, shouldUseAdaptiveBoost(cfg, st, raceStatus{lap: 3}, 0, 2000, 1000), "ahead, last lap")
	assert.False(t, shouldUseAdaptiveBoost(cfg, st, raceStatus{lap: 1}, 30, 2000, 5000), "misaligned")

	cfg.Boost.Adaptive = false
	assert.False(t, shouldUseAdaptiveBoost(cfg, st, raceStatus{lap: 1}, 0, 2000, 5000))
}
