package formats

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku/sim"
)

// ErrMissingField is returned when a required YAML key is absent.
var ErrMissingField = errors.New("missing required field")

// YAMLStage represents the YAML structure of a stage file.
type YAMLStage struct {
	ID      string      `yaml:"id"`
	Name    string      `yaml:"name"`
	Actors []YAMLActor `yaml:"actors"`
}

// YAMLActor is one descriptor. Pointer fields are required.
type YAMLActor struct {
	Tag                 *string   `yaml:"tag"`
	Pos                 []float32 `yaml:"pos"`
	Size                []float32 `yaml:"size"`
	Facing              float32   `yaml:"facing"`
	Vel                 []float32 `yaml:"vel"`
	AngVel              float32   `yaml:"ang_vel"`
	Life                *int32    `yaml:"life"`
	MaxCollisionTimeout float32   `yaml:"max_collision_timeout"`
}

// Stage is a parsed stage file.
type Stage struct {
	ID          string
	Name        string
	Descriptors []sim.Descriptor
}

// ParseYAML parses a YAML stage file. Unknown keys are rejected and the
// actors list must be present.
func ParseYAML(data []byte, source string) (Stage, error) {
	var ys YAMLStage
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ys); err != nil && !errors.Is(err, io.EOF) {
		return Stage{}, &ParseError{Source: source, Err: fmt.Errorf("yaml unmarshal: %w", err)}
	}
	if len(ys.Actors) == 0 {
		return Stage{}, &ParseError{Source: source, Field: "actors", Err: ErrMissingField}
	}

	stage := Stage{ID: ys.ID, Name: ys.Name}
	for i, ya := range ys.Actors {
		d, err := ya.descriptor()
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Source, pe.Row = source, i+1
				return Stage{}, pe
			}
			return Stage{}, &ParseError{Source: source, Row: i + 1, Err: err}
		}
		stage.Descriptors = append(stage.Descriptors, d)
	}
	return stage, nil
}

func (ya YAMLActor) descriptor() (sim.Descriptor, error) {
	var d sim.Descriptor

	if ya.Tag == nil {
		return d, &ParseError{Field: "tag", Err: ErrMissingField}
	}
	tag, err := sim.ParseTag(*ya.Tag)
	if err != nil {
		return d, &ParseError{Field: "tag", Err: err}
	}
	if ya.Life == nil {
		return d, &ParseError{Field: "life", Err: ErrMissingField}
	}

	pos, err := vec("pos", ya.Pos, true)
	if err != nil {
		return d, err
	}
	size, err := vec("size", ya.Size, true)
	if err != nil {
		return d, err
	}
	vel, err := vec("vel", ya.Vel, false)
	if err != nil {
		return d, err
	}

	return sim.Descriptor{
		Tag:                 tag,
		Position:            pos,
		Size:                size,
		Facing:              ya.Facing,
		Velocity:            vel,
		AngularVelocity:     ya.AngVel,
		Life:                *ya.Life,
		MaxCollisionTimeout: ya.MaxCollisionTimeout,
	}, nil
}

func vec(field string, v []float32, required bool) (core.Vec2, error) {
	switch {
	case v == nil && !required:
		return core.Vec2{}, nil
	case v == nil:
		return core.Vec2{}, &ParseError{Field: field, Err: ErrMissingField}
	case len(v) != 2:
		return core.Vec2{}, &ParseError{Field: field, Err: fmt.Errorf("want 2 components, got %d", len(v))}
	}
	return core.V(v[0], v[1]), nil
}
