package headless_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-cavern/cavern/backend"
	"github.com/valerio/go-cavern/cavern/backend/headless"
	"github.com/valerio/go-cavern/cavern/canvas"
)

func TestHeadlessBackend(t *testing.T) {
	t.Run("normal operation", func(t *testing.T) {
		// Create headless backend for 3 frames
		h := headless.New(3, headless.SnapshotConfig{})

		quits := 0
		err := h.Init(backend.Config{
			Title:     "Test",
			Width:     32,
			Height:    16,
			Callbacks: backend.Callbacks{OnQuit: func() { quits++ }},
		})
		require.NoError(t, err)

		w, hgt := h.Size()
		assert.Equal(t, [2]int{32, 16}, [2]int{w, hgt})

		frame := canvas.New(w, hgt)
		for i := 0; i < 3; i++ {
			require.NoError(t, h.Update())
			assert.Equal(t, 0, quits, "should not quit before reaching max frames")
			require.NoError(t, h.PushOut(frame))
		}

		require.NoError(t, h.Update())
		require.NoError(t, h.Update())
		assert.Equal(t, 1, quits)
		assert.Equal(t, 3, h.FrameCount())

		assert.NoError(t, h.Cleanup())
	})

	t.Run("keeps a copy of the last frame", func(t *testing.T) {
		h := headless.New(0, headless.SnapshotConfig{})
		require.NoError(t, h.Init(backend.Config{}))
		assert.Nil(t, h.LastFrame())

		frame := canvas.New(2, 2)
		frame.Set(1, 1, 0xFFFFFFFF)
		require.NoError(t, h.PushOut(frame))
		frame.Clear(0)

		assert.Equal(t, uint32(0xFFFFFFFF), h.LastFrame().At(1, 1))
	})

	t.Run("snapshots", func(t *testing.T) {
		cfg, err := headless.CreateSnapshotConfig(2, t.TempDir(), "stage", canvas.FormatBMP)
		require.NoError(t, err)
		assert.True(t, cfg.Enabled)

		h := headless.New(3, cfg)
		require.NoError(t, h.Init(backend.Config{Width: 4, Height: 4}))
		for i := 0; i < 3; i++ {
			require.NoError(t, h.PushOut(canvas.New(4, 4)))
		}

		entries, err := os.ReadDir(cfg.Directory)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("disabled snapshots", func(t *testing.T) {
		cfg, err := headless.CreateSnapshotConfig(0, "", "", "")
		require.NoError(t, err)
		assert.False(t, cfg.Enabled)
	})
}
