// Package render draws race snapshots to PNG.
package render

import (
	"fmt"
	"image"
	"io"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"

	"pod-racing/internal/common"
	"pod-racing/internal/sim"
	"pod-racing/internal/track"
)

// Scale maps arena units to pixels.
const Scale = 0.1

// Snapshot is everything drawn for one race.
type Snapshot struct {
	Map    track.Map
	Path   track.Path
	Result sim.Result
}

// Draw paints the snapshot onto a new image the size of the arena.
func Draw(s Snapshot) image.Image {
	w := int(track.ArenaWidth * Scale)
	h := int(track.ArenaHeight * Scale)
	dc := gg.NewContext(w, h)
	dc.SetRGB(0.1, 0.1, 0.12)
	dc.Clear()
	dc.Scale(Scale, Scale)

	for _, cp := range s.Map.Checkpoints {
		dc.SetRGBA(0.3, 0.3, 0.35, 1)
		dc.DrawCircle(cp.X, cp.Y, track.CheckpointRadius)
		dc.Fill()
	}

	dc.SetLineWidth(2)
	dc.SetRGBA(0.2, 0.8, 1, 0.8)
	polyline(dc, s.Path)

	dc.SetRGBA(1, 0.3, 0.2, 0.6)
	polyline(dc, s.Result.Opponent)

	dc.SetRGBA(1, 0.9, 0, 0.9)
	polyline(dc, s.Result.Trail)

	dc.Identity()
	dc.SetRGB(1, 1, 1)
	for i, cp := range s.Map.Checkpoints {
		dc.DrawStringAnchored(fmt.Sprint(i), cp.X*Scale, cp.Y*Scale, 0.5, 0.5)
	}
	dc.DrawString(fmt.Sprintf("%s  turns %d  laps %d  boosts %d",
		s.Result.Map, s.Result.Turns, s.Result.Laps, s.Result.Boosts), 10, 20)
	return dc.Image()
}

func polyline(dc *gg.Context, pts []common.Vec2) {
	if len(pts) < 2 {
		return
	}
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.Stroke()
}

// EncodePNG writes the snapshot as PNG to w.
func EncodePNG(w io.Writer, s Snapshot) error {
	dc := gg.NewContextForImage(Draw(s))
	return errors.Wrap(dc.EncodePNG(w), "encode png")
}

// SavePNG writes the snapshot as PNG to path.
func SavePNG(path string, s Snapshot) error {
	return errors.Wrapf(gg.SavePNG(path, Draw(s)), "save %s", path)
}
