package replay

import (
	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku/sim"
)

//go:generate go tool mockgen -destination=./mocks/source_mock.go -package=mocks . InputSource

// InputSource supplies one input per tick. ok is false once the source has
// nothing more to give.
type InputSource interface {
	Next(tick uint64) (in sim.Input, ok bool)
}

// Scripted cycles through a fixed pattern forever.
type Scripted struct {
	Pattern []sim.Input
}

// Next returns the pattern entry for tick.
func (s Scripted) Next(tick uint64) (sim.Input, bool) {
	if len(s.Pattern) == 0 {
		return sim.Input{}, true
	}
	return s.Pattern[tick%uint64(len(s.Pattern))], true
}

// Strafe is a scripted pilot: fire constantly while sweeping left and right,
// holding each direction for hold ticks.
func Strafe(hold int) Scripted {
	if hold <= 0 {
		hold = 60
	}
	pattern := make([]sim.Input, 0, 2*hold)
	for i := 0; i < hold; i++ {
		pattern = append(pattern, sim.Input{Move: core.V(-1, 0), Fire: true})
	}
	for i := 0; i < hold; i++ {
		pattern = append(pattern, sim.Input{Move: core.V(1, 0), Fire: true})
	}
	return Scripted{Pattern: pattern}
}

// Recorded plays back captured frames and then stops.
type Recorded struct {
	Frames []Frame
}

// Next returns the frame for tick.
func (r Recorded) Next(tick uint64) (sim.Input, bool) {
	if tick >= uint64(len(r.Frames)) {
		return sim.Input{}, false
	}
	return r.Frames[tick].Input(), true
}
