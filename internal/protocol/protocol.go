// Package protocol reads the per-turn game input and writes pod commands.
package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"pod-racing/internal/common"
)

// BoostToken is the thrust token for the one-time boost.
const BoostToken = "BOOST"

// TurnInput is everything the game tells the pod in one turn.
type TurnInput struct {
	Position           common.Vec2
	NextCheckpoint     common.Vec2
	CheckpointDistance int
	CheckpointAngle    int // degrees between pod facing and the checkpoint
	Opponent           common.Vec2
}

// Reader decodes turns from the game's line protocol.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// ReadTurn reads the pod line and the opponent line. It returns io.EOF
// unwrapped when the input ends before a new turn.
func (r *Reader) ReadTurn() (TurnInput, error) {
	var in TurnInput

	pod, err := r.readInts(6)
	if err != nil {
		return in, err
	}
	opp, err := r.readInts(2)
	if err == io.EOF {
		return in, errors.Wrapf(io.ErrUnexpectedEOF, "line %d: opponent line missing", r.line+1)
	}
	if err != nil {
		return in, err
	}

	in.Position = common.Vec2{X: float64(pod[0]), Y: float64(pod[1])}
	in.NextCheckpoint = common.Vec2{X: float64(pod[2]), Y: float64(pod[3])}
	in.CheckpointDistance = pod[4]
	in.CheckpointAngle = pod[5]
	in.Opponent = common.Vec2{X: float64(opp[0]), Y: float64(opp[1])}
	return in, nil
}

func (r *Reader) readInts(n int) ([]int, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return nil, errors.Wrap(err, "read input")
		}
		return nil, io.EOF
	}
	r.line++

	fields := strings.Fields(r.scanner.Text())
	if len(fields) != n {
		return nil, errors.Errorf("line %d: want %d fields, got %d", r.line, n, len(fields))
	}
	out := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d field %d", r.line, i+1)
		}
		out[i] = v
	}
	return out, nil
}

// FormatTurn encodes a turn the way the game sends it.
func FormatTurn(in TurnInput) string {
	return fmt.Sprintf("%d %d %d %d %d %d\n%d %d\n",
		int(in.Position.X), int(in.Position.Y),
		int(in.NextCheckpoint.X), int(in.NextCheckpoint.Y),
		in.CheckpointDistance, in.CheckpointAngle,
		int(in.Opponent.X), int(in.Opponent.Y))
}

// Command is one turn's output.
type Command struct {
	X, Y   int
	Thrust int
	Boost  bool
}

func (c Command) String() string {
	if c.Boost {
		return fmt.Sprintf("%d %d %s", c.X, c.Y, BoostToken)
	}
	return fmt.Sprintf("%d %d %d", c.X, c.Y, c.Thrust)
}

// Target returns the aim point as a vector.
func (c Command) Target() common.Vec2 {
	return common.Vec2{X: float64(c.X), Y: float64(c.Y)}
}

// WriteCommand writes c followed by a newline.
func WriteCommand(w io.Writer, c Command) error {
	_, err := fmt.Fprintln(w, c.String())
	return errors.Wrap(err, "write command")
}

// ParseThrust maps a thrust token to a value or the boost marker.
func ParseThrust(token string) (thrust int, boost bool, err error) {
	if token == BoostToken {
		return 0, true, nil
	}
	thrust, err = strconv.Atoi(token)
	if err != nil {
		return 0, false, errors.Errorf("unknown thrust token %q", token)
	}
	if thrust < 0 || thrust > 100 {
		return 0, false, errors.Errorf("thrust %d outside [0, 100]", thrust)
	}
	return thrust, false, nil
}

// ParseCommand decodes "x y thrust" or "x y BOOST".
func ParseCommand(line string) (Command, error) {
	var c Command
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return c, errors.Errorf("command %q: want 3 fields, got %d", line, len(fields))
	}

	var err error
	if c.X, err = strconv.Atoi(fields[0]); err != nil {
		return c, errors.Wrapf(err, "command %q: x", line)
	}
	if c.Y, err = strconv.Atoi(fields[1]); err != nil {
		return c, errors.Wrapf(err, "command %q: y", line)
	}
	if c.Thrust, c.Boost, err = ParseThrust(fields[2]); err != nil {
		return c, errors.Wrapf(err, "command %q", line)
	}
	return c, nil
}
