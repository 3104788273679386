package timing

import (
	"log/slog"
	"time"
)

const (
	busyWaitThreshold = 2 * time.Millisecond
	catchUpThreshold  = 5 * time.Millisecond
	driftThreshold    = 10 * time.Millisecond
	driftCheckTicks   = 50
)

// AdaptiveLimiter sleeps most of the wait and busy-waits the rest, nudging
// its schedule when it drifts from wall time.
type AdaptiveLimiter struct {
	tick    time.Duration
	next    time.Time
	started time.Time
	count   int64
	now     func() time.Time
}

// NewAdaptiveLimiter paces at rate ticks per second.
func NewAdaptiveLimiter(rate int) *AdaptiveLimiter {
	now := time.Now()
	return &AdaptiveLimiter{
		tick:    TickDuration(rate),
		next:    now,
		started: now,
		now:     time.Now,
	}
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	now := a.now()
	wait := a.next.Sub(now)

	switch {
	case wait >= busyWaitThreshold:
		time.Sleep(wait - time.Millisecond)
		a.spin()
	case wait > 0:
		a.spin()
	case wait < -catchUpThreshold:
		// Too far behind to catch up; drop the missed ticks.
		a.next = now
	}

	a.next = a.next.Add(a.tick)
	a.count++

	if a.count%driftCheckTicks == 0 {
		elapsed := a.now().Sub(a.started)
		expected := time.Duration(a.count) * a.tick
		drift := elapsed - expected
		if drift.Abs() > driftThreshold {
			a.next = a.next.Add(drift / 10)
			slog.Debug("Tick timing drift correction",
				"drift_ms", drift.Milliseconds(),
				"tps", float64(a.count)/elapsed.Seconds())
		}
	}
}

func (a *AdaptiveLimiter) spin() {
	for a.now().Before(a.next) {
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.next = a.now()
	a.started = a.next
	a.count = 0
}
