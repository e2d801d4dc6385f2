package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	"within.website/ln"

	"pod-racing/internal/config"
	"pod-racing/internal/track"
	"pod-racing/internal/tune"
)

var (
	configFile = flag.String("config", "", "YAML config to start from")
	out        = flag.String("out", "tuned.yaml", "where to write the best config")
	steps      = flag.Int("steps", 200, "candidates to try")
	maxTurns   = flag.Int("max-turns", 1500, "turn budget per race")
	seed       = flag.Int64("seed", 0, "random seed, time based when 0")
	jitter     = flag.Int("jitter", 0, "jittered copies of each built-in map to add")
)

func main() {
	flag.Parse()
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	base := config.Default()
	if *configFile != "" {
		var err error
		if base, err = config.Load(*configFile); err != nil {
			ln.FatalErr(ctx, err)
		}
	}

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(s))

	maps := track.BuiltinMaps()
	for i := 0; i < *jitter; i++ {
		for _, m := range track.BuiltinMaps() {
			j := track.JitterMap(rng, m)
			j.Name = fmt.Sprintf("%s-%d", j.Name, i)
			maps = append(maps, j)
		}
	}

	t, err := tune.New(ctx, base, maps, *maxTurns, rng)
	if err != nil {
		ln.FatalErr(ctx, err)
	}
	ln.Log(ctx, ln.Action("start"), ln.F{"maps": len(maps), "score": t.BestScore, "seed": s})

	// An interrupt still writes the best config found so far.
	if err := t.Run(ctx, *steps); err != nil && errors.Cause(err) != context.Canceled {
		ln.FatalErr(ctx, err)
	}

	data, err := t.Best.Marshal()
	if err != nil {
		ln.FatalErr(ctx, err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		ln.FatalErr(ctx, errors.Wrap(err, "write config"))
	}
	fmt.Print(tune.Describe(t.Best))
	ln.Log(context.Background(), ln.Action("done"), ln.F{"score": t.BestScore, "out": *out})
}
