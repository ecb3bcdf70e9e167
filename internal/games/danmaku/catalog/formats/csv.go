package formats

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku/sim"
)

// CSVHeader is the column order of a CSV stage file.
var CSVHeader = []string{
	"tag",
	"pos_x", "pos_y",
	"size_x", "size_y",
	"facing",
	"vel_x", "vel_y",
	"ang_vel",
	"life",
	"max_collision_timeout",
}

var (
	ErrMissingHeader = errors.New("missing header row")
	ErrFieldCount    = errors.New("wrong number of fields")
)

// ParseCSV parses a CSV stage. The first record must be exactly CSVHeader;
// every following record is one descriptor in that order.
func ParseCSV(data []byte, source string) ([]sim.Descriptor, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comment = '#'

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Source: source, Row: 0, Err: ErrMissingHeader}
	}
	if err != nil {
		return nil, &ParseError{Source: source, Row: 0, Err: err}
	}
	if err := checkHeader(header); err != nil {
		return nil, &ParseError{Source: source, Row: 0, Err: err}
	}

	var out []sim.Descriptor
	for row := 1; ; row++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Source: source, Row: row, Err: err}
		}
		d, err := parseRecord(rec)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Source, pe.Row = source, row
				return nil, pe
			}
			return nil, &ParseError{Source: source, Row: row, Err: err}
		}
		out = append(out, d)
	}
	return out, nil
}

// checkHeader requires the header to name every column in CSVHeader order.
func checkHeader(rec []string) error {
	if len(rec) != len(CSVHeader) {
		return fmt.Errorf("%w: got %d columns, want %d", ErrMissingHeader, len(rec), len(CSVHeader))
	}
	for i, want := range CSVHeader {
		if got := strings.TrimSpace(rec[i]); got != want {
			return fmt.Errorf("%w: column %d is %q, want %q", ErrMissingHeader, i+1, got, want)
		}
	}
	return nil
}

func parseRecord(rec []string) (sim.Descriptor, error) {
	if len(rec) != len(CSVHeader) {
		return sim.Descriptor{}, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(rec), len(CSVHeader))
	}

	var d sim.Descriptor
	var err error
	if d.Tag, err = sim.ParseTag(strings.TrimSpace(rec[0])); err != nil {
		return d, &ParseError{Field: CSVHeader[0], Err: err}
	}

	f := make([]float32, 0, 9)
	for i := 1; i <= 8; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 32)
		if err != nil {
			return d, &ParseError{Field: CSVHeader[i], Err: err}
		}
		f = append(f, float32(v))
	}
	life, err := strconv.ParseInt(strings.TrimSpace(rec[9]), 10, 32)
	if err != nil {
		return d, &ParseError{Field: CSVHeader[9], Err: err}
	}
	mct, err := strconv.ParseFloat(strings.TrimSpace(rec[10]), 32)
	if err != nil {
		return d, &ParseError{Field: CSVHeader[10], Err: err}
	}

	d.Position = core.V(f[0], f[1])
	d.Size = core.V(f[2], f[3])
	d.Facing = f[4]
	d.Velocity = core.V(f[5], f[6])
	d.AngularVelocity = f[7]
	d.Life = int32(life)
	d.MaxCollisionTimeout = float32(mct)
	return d, nil
}
