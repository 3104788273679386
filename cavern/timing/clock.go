package timing

import "time"

// Clock tracks where a draw falls between two ticks so moving things can
// be interpolated.
type Clock struct {
	tick     time.Duration
	lastTick time.Time
	now      func() time.Time
}

// NewClock creates a clock for rate ticks per second.
func NewClock(rate int) *Clock {
	c := &Clock{tick: TickDuration(rate), now: time.Now}
	c.lastTick = c.now()
	return c
}

// Ticked records that a tick just ran.
func (c *Clock) Ticked() {
	c.lastTick = c.now()
}

// FrameTime is the fraction of a tick elapsed since the last one, in [0, 1).
func (c *Clock) FrameTime() float64 {
	ft := float64(c.now().Sub(c.lastTick)) / float64(c.tick)
	switch {
	case ft < 0:
		return 0
	case ft >= 1:
		return 0.999
	}
	return ft
}
