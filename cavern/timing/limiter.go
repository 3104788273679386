// Package timing paces the driver loop at the game's logical tick rate.
package timing

import (
	"time"

	"github.com/valerio/go-cavern/cavern/display"
)

// Limiter paces ticks.
type Limiter interface {
	// WaitForNextFrame blocks until the next tick is due. It returns at once
	// when the loop is behind schedule.
	WaitForNextFrame()

	// Reset restarts the schedule, e.g. after the window was suspended.
	Reset()
}

// NewNoOpLimiter returns a limiter that never waits, for headless runs.
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// TickDuration is the length of one tick at rate ticks per second. A
// non-positive rate means the default rate.
func TickDuration(rate int) time.Duration {
	if rate <= 0 {
		rate = display.TicksPerSecond
	}
	return time.Second / time.Duration(rate)
}
