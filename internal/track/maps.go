package track

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"pod-racing/internal/common"
)

// Arena dimensions and checkpoint radius of the game.
const (
	ArenaWidth       = 16000
	ArenaHeight      = 9000
	CheckpointRadius = 600
)

// Map is an ordered list of checkpoint centres; checkpoint 0 is the start line.
type Map struct {
	Name        string
	Checkpoints []common.Vec2
}

// Validate rejects maps the game could not produce.
func (m Map) Validate() error {
	if len(m.Checkpoints) < 2 {
		return errors.Errorf("map %q: need at least 2 checkpoints, got %d", m.Name, len(m.Checkpoints))
	}
	for i, cp := range m.Checkpoints {
		if cp.X < 0 || cp.X > ArenaWidth || cp.Y < 0 || cp.Y > ArenaHeight {
			return errors.Errorf("map %q: checkpoint %d %v outside the arena", m.Name, i, cp)
		}
		for j := 0; j < i; j++ {
			if m.Checkpoints[j] == cp {
				return errors.Errorf("map %q: checkpoint %d duplicates checkpoint %d", m.Name, i, j)
			}
		}
	}
	return nil
}

// ParseMap reads "N" followed by N lines of "x y".
func ParseMap(name string, r io.Reader) (Map, error) {
	m := Map{Name: name}
	scanner := bufio.NewScanner(r)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return m, errors.Wrapf(err, "read map %q", name)
	}
	if len(lines) == 0 {
		return m, errors.Errorf("map %q is empty", name)
	}

	var n int
	if _, err := fmt.Sscan(lines[0], &n); err != nil {
		return m, errors.Wrapf(err, "map %q: checkpoint count", name)
	}
	if len(lines)-1 != n {
		return m, errors.Errorf("map %q: header says %d checkpoints, found %d", name, n, len(lines)-1)
	}
	for i, line := range lines[1:] {
		var x, y float64
		if _, err := fmt.Sscan(line, &x, &y); err != nil {
			return m, errors.Wrapf(err, "map %q: checkpoint %d", name, i)
		}
		m.Checkpoints = append(m.Checkpoints, common.Vec2{X: x, Y: y})
	}
	return m, m.Validate()
}

// LoadMap reads a map file.
func LoadMap(path string) (Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return Map{}, errors.Wrap(err, "open map")
	}
	defer f.Close()
	return ParseMap(path, f)
}

// WriteMap writes m in the format ParseMap reads.
func WriteMap(w io.Writer, m Map) error {
	if _, err := fmt.Fprintln(w, len(m.Checkpoints)); err != nil {
		return errors.Wrap(err, "write map")
	}
	for _, cp := range m.Checkpoints {
		if _, err := fmt.Fprintf(w, "%d %d\n", int(cp.X), int(cp.Y)); err != nil {
			return errors.Wrap(err, "write map")
		}
	}
	return nil
}

// BuiltinMaps returns the standard tournament maps.
func BuiltinMaps() []Map {
	raw := [][][2]float64{
		{{12460, 1350}, {10540, 5980}, {3580, 5180}, {13580, 7600}},
		{{3600, 5280}, {13840, 5080}, {10680, 2280}, {8700, 7460}, {7200, 2160}},
		{{4560, 2180}, {7350, 4940}, {3320, 7230}, {14580, 7700}, {10560, 5060}, {13100, 2320}},
		{{5010, 5260}, {11480, 6080}, {9100, 1840}},
		{{14660, 1410}, {3450, 7220}, {9420, 7240}, {5970, 4240}},
		{{3640, 4420}, {8000, 7900}, {13300, 5540}, {9560, 1400}},
		{{4100, 7420}, {13500, 2340}, {12940, 7220}, {5640, 2580}},
		{{14520, 7780}, {6320, 4290}, {7800, 860}, {7660, 5970}, {3140, 7540}, {9520, 4380}},
		{{10040, 5970}, {13920, 1940}, {8020, 3260}, {2670, 7020}},
		{{7500, 6940}, {6000, 5360}, {11300, 2820}},
		{{4060, 4660}, {13040, 1900}, {6560, 7840}, {7480, 1360}, {12700, 7100}},
		{{3020, 5190}, {6280, 7760}, {14100, 7760}, {13880, 1220}, {10240, 4920}, {6100, 2200}},
		{{10323, 3366}, {11203, 5425}, {7259, 6656}, {5425, 2838}},
	}

	maps := make([]Map, 0, len(raw))
	for i, cps := range raw {
		m := Map{Name: fmt.Sprintf("builtin-%02d", i)}
		for _, cp := range cps {
			m.Checkpoints = append(m.Checkpoints, common.Vec2{X: cp[0], Y: cp[1]})
		}
		maps = append(maps, m)
	}
	return maps
}

// BuiltinMap returns a built-in map by name.
func BuiltinMap(name string) (Map, bool) {
	for _, m := range BuiltinMaps() {
		if m.Name == name {
			return m, true
		}
	}
	return Map{}, false
}
