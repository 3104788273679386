package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var _ Limiter = (*AdaptiveLimiter)(nil)
var _ Limiter = (*TickerLimiter)(nil)

type fakeTime struct {
	t time.Time
}

func (f *fakeTime) now() time.Time { return f.t }

func TestTickDuration(t *testing.T) {
	assert.Equal(t, 20*time.Millisecond, TickDuration(50))
	assert.Equal(t, 20*time.Millisecond, TickDuration(0))
	assert.Equal(t, time.Second/60, TickDuration(60))
}

func TestNoOpLimiter(t *testing.T) {
	l := NewNoOpLimiter()
	start := time.Now()
	for i := 0; i < 1000; i++ {
		l.WaitForNextFrame()
	}
	l.Reset()
	assert.Less(t, time.Since(start), time.Second)
}

func TestClock(t *testing.T) {
	ft := &fakeTime{t: time.Unix(100, 0)}
	c := NewClock(50)
	c.now = ft.now
	c.Ticked()

	assert.Equal(t, 0.0, c.FrameTime())

	ft.t = ft.t.Add(10 * time.Millisecond)
	assert.InDelta(t, 0.5, c.FrameTime(), 1e-9)

	ft.t = ft.t.Add(time.Second)
	assert.Equal(t, 0.999, c.FrameTime(), "clamped below one tick")

	c.Ticked()
	ft.t = ft.t.Add(-time.Millisecond)
	assert.Equal(t, 0.0, c.FrameTime())
}

func TestAdaptiveLimiterCatchUp(t *testing.T) {
	ft := &fakeTime{t: time.Unix(100, 0)}
	a := NewAdaptiveLimiter(50)
	a.now = ft.now
	a.Reset()

	// Already late by far more than the catch-up threshold: no waiting, and
	// the schedule restarts from now.
	ft.t = ft.t.Add(time.Second)
	a.WaitForNextFrame()
	assert.Equal(t, ft.t.Add(20*time.Millisecond), a.next)
	assert.Equal(t, int64(1), a.count)

	a.Reset()
	assert.Equal(t, ft.t, a.next)
	assert.Equal(t, int64(0), a.count)
}

func TestTickerLimiter(t *testing.T) {
	l := NewTickerLimiter(1000)
	defer l.Stop()

	start := time.Now()
	l.WaitForNextFrame()
	l.WaitForNextFrame()
	assert.GreaterOrEqual(t, time.Since(start), time.Millisecond)
	l.Reset()
}
