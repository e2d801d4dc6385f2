package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"within.website/ln"

	"pod-racing/internal/config"
	"pod-racing/internal/render"
	"pod-racing/internal/sim"
	"pod-racing/internal/track"
)

var (
	mapFile    = flag.String("map", "", "map file to race on")
	builtin    = flag.String("builtin", "", "built-in map name, every built-in map when both -map and -builtin are empty")
	configFile = flag.String("config", "", "YAML config overlaid on the defaults")
	pngDir     = flag.String("png", "", "directory for one PNG snapshot per race")
	laps       = flag.Int("laps", 0, "override the number of laps")
	maxTurns   = flag.Int("max-turns", sim.DefaultMaxTurns, "turn budget per race")
	debug      = flag.Bool("debug", false, "log every turn")
)

func loadMaps() ([]track.Map, error) {
	switch {
	case *mapFile != "":
		m, err := track.LoadMap(*mapFile)
		return []track.Map{m}, err
	case *builtin != "":
		m, ok := track.BuiltinMap(*builtin)
		if !ok {
			return nil, errors.Errorf("unknown built-in map %q", *builtin)
		}
		return []track.Map{m}, nil
	}
	return track.BuiltinMaps(), nil
}

func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			return cfg, err
		}
	}
	if *laps > 0 {
		cfg.Race.Laps = *laps
	}
	if *debug {
		cfg.Debug = true
	}
	return cfg, cfg.Validate()
}

func main() {
	flag.Parse()
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		ln.FatalErr(ctx, err)
	}
	maps, err := loadMaps()
	if err != nil {
		ln.FatalErr(ctx, err)
	}
	if *pngDir != "" {
		if err := os.MkdirAll(*pngDir, 0o755); err != nil {
			ln.FatalErr(ctx, errors.Wrap(err, "create png dir"))
		}
	}

	total, finished := 0, 0
	for _, m := range maps {
		res, b, err := sim.Run(ctx, m, cfg, sim.Options{MaxTurns: *maxTurns})
		if err != nil {
			ln.FatalErr(ctx, err, ln.F{"map": m.Name})
		}
		total += res.Turns
		if res.Finished {
			finished++
		}
		fmt.Printf("%-12s turns=%4d finished=%-5v won=%-5v laps=%v boosts=%d\n",
			res.Map, res.Turns, res.Finished, res.Won, res.LapTimes, res.Boosts)

		if *pngDir != "" {
			snap := render.Snapshot{Map: m, Path: b.Tracker().SmoothedPath(), Result: res}
			if err := render.SavePNG(filepath.Join(*pngDir, m.Name+".png"), snap); err != nil {
				ln.Error(ctx, err, ln.F{"map": m.Name})
			}
		}
	}
	fmt.Printf("total turns=%d finished=%d/%d mode=%s\n", total, finished, len(maps), cfg.Steering.Mode)
}
