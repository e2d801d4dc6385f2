package tune

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pod-racing/internal/config"
	"pod-racing/internal/track"
)

func quickBase() config.Config {
	cfg := config.Default()
	cfg.Race.Laps = 2
	return cfg
}

func quickTuner(t *testing.T) *Tuner {
	m, ok := track.BuiltinMap("builtin-00")
	require.True(t, ok)
	tu, err := New(context.Background(), quickBase(), []track.Map{m}, 1500, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	return tu
}

func TestNewNeedsMaps(t *testing.T) {
	_, err := New(context.Background(), quickBase(), nil, 0, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestEvaluateDeterministic(t *testing.T) {
	tu := quickTuner(t)
	a, err := tu.Evaluate(context.Background(), quickBase())
	require.NoError(t, err)
	b, err := tu.Evaluate(context.Background(), quickBase())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, tu.BestScore, a)
}

func TestKnobClamp(t *testing.T) {
	k := Knobs[0]
	assert.Equal(t, k.Max, k.clamp(1e9))
	assert.Equal(t, k.Min, k.clamp(-5))
	assert.Equal(t, 4.0, k.clamp(3.6))
}

func TestProposeStaysValid(t *testing.T) {
	tu := quickTuner(t)
	for i := 0; i < 200; i++ {
		tu.Epsilon = float64(i % 2)
		cand := tu.propose()
		require.NoError(t, cand.Validate())
		for _, k := range Knobs {
			v := k.Get(&cand)
			assert.GreaterOrEqual(t, v, k.Min, k.Name)
			assert.LessOrEqual(t, v, k.Max, k.Name)
		}
	}
}

func TestRunNeverWorsens(t *testing.T) {
	tu := quickTuner(t)
	start := tu.BestScore

	require.NoError(t, tu.Run(context.Background(), 4))
	assert.LessOrEqual(t, tu.BestScore, start)
	assert.GreaterOrEqual(t, tu.Epsilon, MinEpsilon)
	assert.Less(t, tu.Epsilon, StartEpsilon)
	require.NoError(t, tu.Best.Validate())

	data, err := tu.Best.Marshal()
	require.NoError(t, err)
	back, err := config.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, tu.Best, back)
}

func TestDescribe(t *testing.T) {
	out := Describe(config.Default())
	assert.Equal(t, len(Knobs), strings.Count(out, "\n"))
	assert.Contains(t, out, "throttle.min=30\n")
}
