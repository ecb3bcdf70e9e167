// Package pilot registers the builtin scripted pilots for headless runs.
package pilot

import (
	"math/rand"

	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku/sim"
	"github.com/vovakirdan/tui-danmaku/internal/registry"
	"github.com/vovakirdan/tui-danmaku/internal/replay"
)

// DefaultHold is the maneuver length when none is given.
const DefaultHold = 60

func init() {
	registry.Register("strafe", "Fire while sweeping left and right", func(o registry.Options) replay.InputSource {
		return replay.Strafe(o.Hold)
	})
	registry.Register("idle", "Sit still and fire", func(registry.Options) replay.InputSource {
		return replay.Scripted{Pattern: []sim.Input{{Fire: true}}}
	})
	registry.Register("still", "Do nothing", func(registry.Options) replay.InputSource {
		return replay.Scripted{}
	})
	registry.Register("weave", "Fire while tracing a box: left, up, right, down", func(o registry.Options) replay.InputSource {
		return Weave(o.Hold)
	})
	registry.Register("wander", "Fire while drifting in seeded random directions", func(o registry.Options) replay.InputSource {
		return NewWander(o.Hold, o.Seed)
	})
}

// Weave fires while moving left, up, right and down, hold ticks each.
func Weave(hold int) replay.Scripted {
	if hold <= 0 {
		hold = DefaultHold
	}
	legs := []core.Vec2{core.V(-1, 0), core.V(0, 1), core.V(1, 0), core.V(0, -1)}
	pattern := make([]sim.Input, 0, len(legs)*hold)
	for _, dir := range legs {
		for i := 0; i < hold; i++ {
			pattern = append(pattern, sim.Input{Move: dir, Fire: true})
		}
	}
	return replay.Scripted{Pattern: pattern}
}

// Wander fires constantly and picks a new direction, possibly none, every
// hold ticks. Two wanders with the same seed fly the same course when
// stepped from tick 0.
type Wander struct {
	hold int
	rng  *rand.Rand
	dir  core.Vec2
}

// NewWander creates a seeded wandering pilot.
func NewWander(hold int, seed int64) *Wander {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Wander{hold: hold, rng: rand.New(rand.NewSource(seed))}
}

// Next returns the input for tick.
func (w *Wander) Next(tick uint64) (sim.Input, bool) {
	if tick%uint64(w.hold) == 0 {
		w.dir = core.V(float32(w.rng.Intn(3)-1), float32(w.rng.Intn(3)-1))
	}
	return sim.Input{Move: w.dir, Fire: true}, true
}
