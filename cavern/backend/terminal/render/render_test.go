package render_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-cavern/cavern/backend/terminal/render"
	"github.com/valerio/go-cavern/cavern/canvas"
)

func TestLogBuffer(t *testing.T) {
	t.Run("ring keeps newest entries", func(t *testing.T) {
		lb := render.NewLogBuffer(3)
		for i, msg := range []string{"a", "b", "c", "d"} {
			lb.Add(render.LogEntry{Level: slog.Level(i*4) - 4, Message: msg})
		}

		assert.Equal(t, 3, lb.Len())
		recent := lb.Recent(0, slog.LevelDebug)
		require.Len(t, recent, 3)
		assert.Equal(t, "d", recent[0].Message)
		assert.Equal(t, "b", recent[2].Message)

		filtered := lb.Recent(0, slog.LevelWarn)
		require.Len(t, filtered, 2)
		assert.Equal(t, "c", filtered[1].Message)

		lb.Clear()
		assert.Zero(t, lb.Len())
	})

	t.Run("handler formats attributes and groups", func(t *testing.T) {
		lb := render.NewLogBuffer(4)
		logger := slog.New(render.NewLogBufferHandler(lb, slog.LevelInfo))

		logger.Debug("dropped")
		logger.With("stage", "Cave").WithGroup("bkg").Info("loaded", "layers", 2)

		recent := lb.Recent(0, slog.LevelDebug)
		require.Len(t, recent, 1)
		assert.Equal(t, "loaded stage=Cave bkg.layers=2", recent[0].Message)
	})

	t.Run("format", func(t *testing.T) {
		at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		s := render.FormatLogEntry(render.LogEntry{Time: at, Level: slog.LevelWarn, Message: "x"})
		assert.Equal(t, "03:04:05 [WRN] x", s)
	})
}

func TestDownsample(t *testing.T) {
	t.Run("keeps aspect ratio", func(t *testing.T) {
		frame := canvas.New(320, 240)
		_, w, h := render.Downsample(frame, 80, 100)
		assert.Equal(t, 80, w)
		assert.Equal(t, 30, h)

		_, w, h = render.Downsample(frame, 200, 20)
		assert.Equal(t, 20, h)
		assert.Equal(t, 53, w)
	})

	t.Run("top and bottom pixels", func(t *testing.T) {
		frame := canvas.New(2, 2)
		frame.Set(0, 0, 0xFFFF0000)
		frame.Set(0, 1, 0x800000FF)

		cells, w, h := render.Downsample(frame, 2, 1)
		require.Equal(t, [2]int{2, 1}, [2]int{w, h})
		assert.Equal(t, [3]uint8{255, 0, 0}, cells[0].Top)
		assert.Equal(t, [3]uint8{0, 0, 128}, cells[0].Bottom)
		assert.Equal(t, [3]uint8{0, 0, 0}, cells[1].Top)
	})

	t.Run("empty input", func(t *testing.T) {
		cells, w, h := render.Downsample(canvas.New(0, 0), 10, 10)
		assert.Nil(t, cells)
		assert.Zero(t, w+h)
	})
}
