package terminal_test

import (
	"log/slog"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-cavern/cavern/backend"
	"github.com/valerio/go-cavern/cavern/backend/terminal"
	"github.com/valerio/go-cavern/cavern/backend/terminal/render"
	"github.com/valerio/go-cavern/cavern/canvas"
)

func newSimulation(t *testing.T, cols, rows int, cb backend.Callbacks) (*terminal.Backend, tcell.SimulationScreen) {
	t.Helper()
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	screen := tcell.NewSimulationScreen("UTF-8")
	term := terminal.NewWithScreen(screen)
	require.NoError(t, term.Init(backend.Config{Title: "Cave", Width: 32, Height: 16, Callbacks: cb}))
	screen.SetSize(cols, rows)
	t.Cleanup(func() { _ = term.Cleanup() })
	return term, screen
}

func TestTerminalBackend(t *testing.T) {
	t.Run("logical size", func(t *testing.T) {
		term, _ := newSimulation(t, 80, 24, backend.Callbacks{})
		w, h := term.Size()
		assert.Equal(t, [2]int{32, 16}, [2]int{w, h})
	})

	t.Run("quit keys", func(t *testing.T) {
		quits := 0
		term, screen := newSimulation(t, 80, 24, backend.Callbacks{OnQuit: func() { quits++ }})

		require.NoError(t, term.Update())
		assert.Zero(t, quits)

		screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
		require.NoError(t, term.Update())
		assert.Equal(t, 1, quits)
	})

	t.Run("logs are captured", func(t *testing.T) {
		term, _ := newSimulation(t, 80, 24, backend.Callbacks{})
		slog.Warn("hello", "n", 1)

		logs := term.Logs().Recent(1, slog.LevelDebug)
		require.Len(t, logs, 1)
		assert.Equal(t, "hello n=1", logs[0].Message)
	})

	t.Run("frame drawn with half blocks", func(t *testing.T) {
		term, screen := newSimulation(t, 80, 24, backend.Callbacks{})

		frame := canvas.New(32, 16)
		frame.Clear(0xFFFF0000)
		require.NoError(t, term.PushOut(frame))

		cells, cols, _ := screen.GetContents()
		require.Equal(t, 80, cols)
		// the picture is centred, the middle column is always covered
		cell := cells[cols/2]
		require.NotEmpty(t, cell.Runes)
		assert.Equal(t, render.UpperHalfBlock, cell.Runes[0])

		fg, bg, _ := cell.Style.Decompose()
		r, g, b := fg.RGB()
		assert.Equal(t, [3]int32{255, 0, 0}, [3]int32{r, g, b})
		r, g, b = bg.RGB()
		assert.Equal(t, [3]int32{255, 0, 0}, [3]int32{r, g, b})
	})

	t.Run("too small terminal", func(t *testing.T) {
		term, screen := newSimulation(t, 20, 5, backend.Callbacks{})
		require.NoError(t, term.PushOut(canvas.New(32, 16)))

		cells, cols, _ := screen.GetContents()
		row := 5 / 2
		require.NotEmpty(t, cells[row*cols].Runes)
		assert.Equal(t, 'T', cells[row*cols].Runes[0])
	})
}
