package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"within.website/ln"

	"pod-racing/internal/bot"
	"pod-racing/internal/common"
	"pod-racing/internal/config"
	"pod-racing/internal/physics"
	"pod-racing/internal/sim"
	"pod-racing/internal/track"
)

// Render window dimensions
const (
	WindowWidth  = 1280
	WindowHeight = 720
)

// Playback settings
const (
	FastTurnsPerFrame = 10
	ViewScaleMargin   = 0.95 // Margin for fitting the arena in the window
	TrailStep         = 2    // Draw every n-th trail point
)

// Colors
var (
	ColorArena      = color.RGBA{25, 25, 30, 255}
	ColorCheckpoint = color.RGBA{90, 90, 110, 255}
	ColorNext       = color.RGBA{50, 200, 50, 255}
	ColorPath       = color.RGBA{50, 200, 255, 180}
	ColorPlayer     = color.RGBA{255, 220, 0, 255}
	ColorOpponent   = color.RGBA{255, 60, 40, 255}
	ColorAim        = color.RGBA{255, 0, 255, 255}
	ColorHUD        = color.RGBA{0, 0, 0, 180}
)

var (
	mapFile    = flag.String("map", "", "map file to replay")
	builtin    = flag.String("builtin", "builtin-00", "built-in map to replay")
	configFile = flag.String("config", "", "YAML config overlaid on the defaults")
)

type Game struct {
	Maps    []track.Map
	MapIdx  int
	Config  config.Config
	Race    *sim.Race
	Bot     *bot.Bot
	Fast    bool
	Paused  bool
	BestRun map[string]int

	// Rendering Scale
	ViewScale   float32
	ViewOffsetX float32
	ViewOffsetY float32
}

func (g *Game) restart() {
	m := g.Maps[g.MapIdx]
	g.Bot = bot.New(g.Config)
	g.Race = sim.NewRace(m, g.Config.Race.Laps, 0, g.Bot, sim.Chaser{})
}

func (g *Game) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.Fast = !g.Fast
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.Paused = !g.Paused
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.restart()
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.MapIdx = (g.MapIdx + 1) % len(g.Maps)
		g.restart()
	}
	if g.Paused {
		return nil
	}

	turns := 1
	if g.Fast {
		turns = FastTurnsPerFrame
	}
	ctx := context.Background()
	for i := 0; i < turns && !g.Race.Done(); i++ {
		g.Race.Step(ctx)
	}

	if g.Race.Finished() {
		name := g.Race.Map.Name
		if best, ok := g.BestRun[name]; !ok || g.Race.Turn < best {
			g.BestRun[name] = g.Race.Turn
		}
	}
	return nil
}

func (g *Game) toScreen(p common.Vec2) (float32, float32) {
	return float32(p.X)*g.ViewScale + g.ViewOffsetX, float32(p.Y)*g.ViewScale + g.ViewOffsetY
}

func (g *Game) drawPolyline(screen *ebiten.Image, pts []common.Vec2, step int, width float32, clr color.Color) {
	for j := step; j < len(pts); j += step {
		x1, y1 := g.toScreen(pts[j-step])
		x2, y2 := g.toScreen(pts[j])
		vector.StrokeLine(screen, x1, y1, x2, y2, width, clr, true)
	}
}

func (g *Game) drawPod(screen *ebiten.Image, p *physics.Pod, clr color.Color) {
	x, y := g.toScreen(p.Position)
	vector.FillCircle(screen, x, y, 400*g.ViewScale, clr, true)

	rad := p.Angle * math.Pi / 180
	tx, ty := g.toScreen(p.Position.Add(common.Vec2{X: math.Cos(rad), Y: math.Sin(rad)}.Scale(900)))
	vector.StrokeLine(screen, x, y, tx, ty, 2, clr, true)
}

func (g *Game) Draw(screen *ebiten.Image) {
	ax, ay := g.toScreen(common.Vec2{})
	vector.FillRect(screen, ax, ay, track.ArenaWidth*g.ViewScale, track.ArenaHeight*g.ViewScale, ColorArena, false)

	r := g.Race
	for i, cp := range r.Map.Checkpoints {
		clr := ColorCheckpoint
		if i == r.Player.Pod.NextCheckpoint {
			clr = ColorNext
		}
		x, y := g.toScreen(cp)
		vector.StrokeCircle(screen, x, y, track.CheckpointRadius*g.ViewScale, 2, clr, true)
		ebitenutil.DebugPrintAt(screen, fmt.Sprint(i), int(x)-3, int(y)-8)
	}

	g.drawPolyline(screen, g.Bot.Tracker().SmoothedPath(), 1, 2, ColorPath)
	g.drawPolyline(screen, r.Opponent.Trail, TrailStep, 1, ColorOpponent)
	g.drawPolyline(screen, r.Player.Trail, TrailStep, 1, ColorPlayer)

	g.drawPod(screen, r.Opponent.Pod, ColorOpponent)
	g.drawPod(screen, r.Player.Pod, ColorPlayer)

	if r.Turn > 0 {
		px, py := g.toScreen(r.Player.Pod.Position)
		tx, ty := g.toScreen(r.Player.Last.Target())
		vector.StrokeLine(screen, px, py, tx, ty, 1, ColorAim, true)
	}

	vector.FillRect(screen, 0, 0, 200, 190, ColorHUD, true)
	st := g.Bot.State()
	msg := "POD RACING\n"
	msg += "----------------\n"
	msg += fmt.Sprintf("Map:     %s\n", r.Map.Name)
	msg += fmt.Sprintf("Mode:    %s\n", g.Config.Steering.Mode)
	msg += fmt.Sprintf("Turn:    %d\n", r.Turn)
	msg += fmt.Sprintf("Lap:     %d/%d\n", g.Bot.Tracker().Lap(), r.Laps)
	msg += fmt.Sprintf("Speed:   %.0f\n", st.Speed)
	msg += fmt.Sprintf("Command: %s\n", r.Player.Last)
	msg += fmt.Sprintf("Boosted: %v\n", r.Player.Pod.Boosted)
	if best, ok := g.BestRun[r.Map.Name]; ok {
		msg += fmt.Sprintf("Best:    %d\n", best)
	}
	if r.Finished() {
		msg += "[FINISHED]"
	} else if r.Done() {
		msg += "[OUT OF TURNS]"
	}
	msg += "\nS fast  SPACE pause\nR restart  N next map"
	ebitenutil.DebugPrint(screen, msg)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return WindowWidth, WindowHeight
}

func main() {
	flag.Parse()
	ctx := context.Background()

	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			ln.FatalErr(ctx, err)
		}
	}

	maps := track.BuiltinMaps()
	idx := 0
	if *mapFile != "" {
		m, err := track.LoadMap(*mapFile)
		if err != nil {
			ln.FatalErr(ctx, err)
		}
		maps = append([]track.Map{m}, maps...)
	} else {
		for i, m := range maps {
			if m.Name == *builtin {
				idx = i
			}
		}
	}

	// Fit the arena in the window and center it.
	scaleW := float32(WindowWidth) / track.ArenaWidth
	scaleH := float32(WindowHeight) / track.ArenaHeight
	viewScale := min(scaleW, scaleH) * ViewScaleMargin

	game := &Game{
		Maps:        maps,
		MapIdx:      idx,
		Config:      cfg,
		BestRun:     map[string]int{},
		ViewScale:   viewScale,
		ViewOffsetX: (WindowWidth - track.ArenaWidth*viewScale) / 2,
		ViewOffsetY: (WindowHeight - track.ArenaHeight*viewScale) / 2,
	}
	game.restart()

	ebiten.SetWindowSize(WindowWidth, WindowHeight)
	ebiten.SetWindowTitle("Pod Racing")
	if err := ebiten.RunGame(game); err != nil {
		ln.FatalErr(ctx, err)
	}
}
