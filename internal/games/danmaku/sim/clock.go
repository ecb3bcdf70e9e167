package sim

import "time"

// DefaultMaxCatchUp bounds how many ticks one Advance call may hand out.
const DefaultMaxCatchUp = 5

// Clock turns wall-clock time into a count of fixed ticks.
// Leftover time carries over between calls; time beyond the catch-up cap is
// dropped so a stalled caller does not fall further and further behind.
type Clock struct {
	step       time.Duration
	acc        time.Duration
	maxCatchUp int
}

// NewClock builds a clock for tickRate ticks per second.
func NewClock(tickRate, maxCatchUp int) *Clock {
	if tickRate <= 0 {
		tickRate = 60
	}
	if maxCatchUp <= 0 {
		maxCatchUp = DefaultMaxCatchUp
	}
	return &Clock{
		step:       time.Second / time.Duration(tickRate),
		maxCatchUp: maxCatchUp,
	}
}

// Step returns the fixed tick duration.
func (c *Clock) Step() time.Duration { return c.step }

// Advance adds elapsed wall time and returns how many ticks are due.
func (c *Clock) Advance(elapsed time.Duration) int {
	if elapsed > 0 {
		c.acc += elapsed
	}
	n := 0
	for c.acc >= c.step && n < c.maxCatchUp {
		c.acc -= c.step
		n++
	}
	if n == c.maxCatchUp && c.acc >= c.step {
		c.acc = 0
	}
	return n
}

// Reset drops any accumulated time.
func (c *Clock) Reset() { c.acc = 0 }
