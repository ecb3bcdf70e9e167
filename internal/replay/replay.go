// Package replay records runs as seed plus per-tick input and re-simulates
// them to check that the simulation is still deterministic.
package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/tui-danmaku/internal/config"
	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku/sim"
)

// Version is the recording format version.
const Version = 1

var (
	ErrVersion  = errors.New("replay: unsupported recording version")
	ErrDiverged = errors.New("replay: simulation diverged")
)

// Frame is one tick of recorded input.
type Frame struct {
	X    float32 `msgpack:"x"`
	Y    float32 `msgpack:"y"`
	Fire bool    `msgpack:"f"`
}

// Input converts the frame back into simulation input.
func (f Frame) Input() sim.Input {
	return sim.Input{Move: core.V(f.X, f.Y), Fire: f.Fire}
}

// FrameOf captures simulation input as a frame.
func FrameOf(in sim.Input) Frame {
	return Frame{X: in.Move[0], Y: in.Move[1], Fire: in.Fire}
}

// Setup is everything besides input that determines a run.
type Setup struct {
	Seed        int64                    `msgpack:"seed"`
	Stage       string                   `msgpack:"stage"`
	Tuning      sim.Tuning               `msgpack:"tuning"`
	Pacing      *config.DifficultyConfig `msgpack:"pacing,omitempty"`
	Descriptors []sim.Descriptor         `msgpack:"descriptors"`
}

// NewSetup captures a validated configuration and stage roster.
func NewSetup(cfg config.DanmakuConfig, stage string, roster []sim.Descriptor, seed int64) (Setup, error) {
	if err := cfg.Validate(); err != nil {
		return Setup{}, err
	}
	s := Setup{
		Seed:        seed,
		Stage:       stage,
		Tuning:      cfg.Tuning(),
		Descriptors: append([]sim.Descriptor(nil), roster...),
	}
	if cfg.Pacer() != nil {
		d := cfg.Difficulty
		s.Pacing = &d
	}
	return s, nil
}

// NewWorld builds the world the setup describes.
func (s Setup) NewWorld() *sim.World {
	w := sim.NewWorld(s.Tuning, s.Descriptors, s.Seed)
	if s.Pacing != nil {
		w.SetPacer(config.NewDifficultyManager(*s.Pacing))
	}
	return w
}

// Recording is a complete, self-contained run.
type Recording struct {
	Version   int         `msgpack:"version"`
	RunID     string      `msgpack:"run_id"`
	CreatedAt time.Time   `msgpack:"created_at"`
	Setup     Setup       `msgpack:"setup"`
	Inputs    []Frame     `msgpack:"inputs"`
	Final     sim.Summary `msgpack:"final"`
}

// New wraps captured input and the final state into a recording.
func New(setup Setup, inputs []Frame, final sim.Summary) *Recording {
	return &Recording{
		Version:   Version,
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Setup:     setup,
		Inputs:    inputs,
		Final:     final,
	}
}

// Record runs a new world until maxTicks, the end of the run, or the source
// runs dry, and captures every input it fed.
func Record(ctx context.Context, setup Setup, src InputSource, maxTicks int) (*Recording, error) {
	w := setup.NewWorld()
	rec := New(setup, nil, sim.Summary{})
	if maxTicks > 0 {
		rec.Inputs = make([]Frame, 0, maxTicks)
	}

	for maxTicks <= 0 || len(rec.Inputs) < maxTicks {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("replay: recording interrupted at tick %d: %w", w.Tick(), err)
		}
		in, ok := src.Next(w.Tick())
		if !ok {
			break
		}
		rec.Inputs = append(rec.Inputs, FrameOf(in))
		res := w.Step(in)
		if res.GameOver || res.Cleared {
			break
		}
	}

	rec.Final = w.Summary()
	return rec, nil
}

// Verify re-simulates the recording and checks that it ends in the recorded
// state. It returns the re-simulated summary either way.
func Verify(ctx context.Context, rec *Recording) (sim.Summary, error) {
	if rec.Version != Version {
		return sim.Summary{}, fmt.Errorf("%w: %d", ErrVersion, rec.Version)
	}

	w := rec.Setup.NewWorld()
	src := Recorded{Frames: rec.Inputs}
	for {
		if err := ctx.Err(); err != nil {
			return w.Summary(), fmt.Errorf("replay: verify interrupted at tick %d: %w", w.Tick(), err)
		}
		in, ok := src.Next(w.Tick())
		if !ok {
			break
		}
		w.Step(in)
	}

	got := w.Summary()
	if got != rec.Final {
		return got, fmt.Errorf("%w: got %+v, recorded %+v", ErrDiverged, got, rec.Final)
	}
	return got, nil
}

// Marshal encodes a recording.
func Marshal(rec *Recording) ([]byte, error) {
	data, err := msgpack.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("replay: encode: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a recording.
func Unmarshal(data []byte) (*Recording, error) {
	var rec Recording
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("replay: decode: %w", err)
	}
	if rec.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, rec.Version)
	}
	return &rec, nil
}

// Write streams a recording to w.
func Write(w io.Writer, rec *Recording) error {
	if err := msgpack.NewEncoder(w).Encode(rec); err != nil {
		return fmt.Errorf("replay: encode: %w", err)
	}
	return nil
}

// Read decodes one recording from r.
func Read(r io.Reader) (*Recording, error) {
	var rec Recording
	if err := msgpack.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("replay: decode: %w", err)
	}
	if rec.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, rec.Version)
	}
	return &rec, nil
}

// Save writes a recording file.
func Save(path string, rec *Recording) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("replay: create %s: %w", path, err)
	}
	if err := Write(f, rec); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a recording file.
func Load(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
