package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/pkg/errors"
	"within.website/ln"

	"pod-racing/internal/track"
)

var (
	out         = flag.String("out", "", "map file to write, stdout when empty")
	checkpoints = flag.Int("checkpoints", 4, "number of checkpoints for a random map")
	from        = flag.String("from", "", "built-in map to jitter instead of placing at random")
	seed        = flag.Int64("seed", 0, "random seed, time based when 0")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(s))

	var m track.Map
	if *from != "" {
		base, ok := track.BuiltinMap(*from)
		if !ok {
			ln.FatalErr(ctx, errors.Errorf("unknown built-in map %q", *from))
		}
		m = track.JitterMap(rng, base)
	} else {
		m = track.RandomMap(rng, *checkpoints)
	}
	if err := m.Validate(); err != nil {
		ln.FatalErr(ctx, err)
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			ln.FatalErr(ctx, errors.Wrap(err, "create map file"))
		}
		defer f.Close()
		w = f
	}
	if err := track.WriteMap(w, m); err != nil {
		ln.FatalErr(ctx, err)
	}
	ln.Log(ctx, ln.Action("generated"), ln.F{"map": m.Name, "checkpoints": len(m.Checkpoints), "seed": s})
}
