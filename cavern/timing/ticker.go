package timing

import "time"

// TickerLimiter paces ticks with a time.Ticker. Less precise than
// AdaptiveLimiter but never spins.
type TickerLimiter struct {
	ticker *time.Ticker
	tick   time.Duration
}

func NewTickerLimiter(rate int) *TickerLimiter {
	d := TickDuration(rate)
	return &TickerLimiter{ticker: time.NewTicker(d), tick: d}
}

func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ticker.C
}

func (t *TickerLimiter) Reset() {
	t.ticker.Reset(t.tick)
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
