package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/valerio/go-cavern/cavern/backend"
	"github.com/valerio/go-cavern/cavern/backend/terminal/render"
	"github.com/valerio/go-cavern/cavern/canvas"
	"github.com/valerio/go-cavern/cavern/display"
)

const logCapacity = 100

// Backend implements backend.Window and backend.Presenter on a tcell
// screen. Frames are drawn with half-block characters in true colour and
// the latest log lines are shown underneath.
type Backend struct {
	screen    tcell.Screen
	config    backend.Config
	logBuffer *render.LogBuffer
	logLevel  *slog.LevelVar
	width     int
	height    int
	quit      atomic.Bool
	ownScreen bool
}

var (
	_ backend.Window    = (*Backend)(nil)
	_ backend.Presenter = (*Backend)(nil)
)

// New creates a terminal backend on the real terminal.
func New() *Backend {
	return &Backend{ownScreen: true}
}

// NewWithScreen uses an existing screen, e.g. a tcell simulation screen.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen}
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.Config) error {
	t.config = config
	t.width, t.height = display.OffscreenWidth, display.OffscreenHeight
	if config.Width > 0 && config.Height > 0 {
		t.width, t.height = config.Width, config.Height
	}

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %w", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	t.screen.EnableFocus()

	// Logs go to a ring buffer so they don't tear the picture
	t.logBuffer = render.NewLogBuffer(logCapacity)
	t.logLevel = new(slog.LevelVar)
	t.logLevel.Set(slog.LevelInfo)
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, slog.LevelDebug)))

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	if t.ownScreen {
		go t.handleSignals()
	}

	slog.Info("Terminal backend initialized", "size", fmt.Sprintf("%dx%d", t.width, t.height))
	return nil
}

// Update drains pending terminal events
func (t *Backend) Update() error {
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev)
		case *tcell.EventResize:
			t.screen.Sync()
			cols, rows := ev.Size()
			t.config.Callbacks.Resize(cols, rows)
		case *tcell.EventFocus:
			t.config.Callbacks.Suspend(!ev.Focused)
		}
	}

	if t.quit.Load() {
		t.config.Callbacks.Quit()
	}
	return nil
}

// Size is the logical frame size; PushOut scales frames to the terminal.
func (t *Backend) Size() (int, int) {
	return t.width, t.height
}

// Logs exposes the captured log buffer.
func (t *Backend) Logs() *render.LogBuffer {
	return t.logBuffer
}

// PushOut draws a frame and the status area, then shows the screen.
func (t *Backend) PushOut(frame *canvas.Canvas) error {
	cols, rows := t.screen.Size()
	t.screen.Clear()

	if cols < display.TerminalMinWidth || rows < display.TerminalMinHeight {
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", display.TerminalMinWidth, display.TerminalMinHeight)
		t.drawText(0, rows/2, cols, msg, style)
		t.screen.Show()
		return nil
	}

	pictureRows := rows - display.TerminalStatusLines - 1
	cells, w, h := render.Downsample(frame, cols, pictureRows)
	offsetX := (cols - w) / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := cells[y*w+x]
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(c.Top[0]), int32(c.Top[1]), int32(c.Top[2]))).
				Background(tcell.NewRGBColor(int32(c.Bottom[0]), int32(c.Bottom[1]), int32(c.Bottom[2])))
			t.screen.SetContent(offsetX+x, y, render.UpperHalfBlock, nil, style)
		}
	}

	t.drawStatus(cols, rows)
	t.screen.Show()
	return nil
}

func (t *Backend) drawStatus(cols, rows int) {
	divider := rows - display.TerminalStatusLines - 1
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for x := 0; x < cols; x++ {
		t.screen.SetContent(x, divider, '─', nil, borderStyle)
	}
	title := fmt.Sprintf(" %s | Logs [%s] (-/+ filter) ", t.config.Title, t.logLevel.Level())
	t.drawText(1, divider, cols-1, title, tcell.StyleDefault.Foreground(tcell.ColorYellow))

	logs := t.logBuffer.Recent(display.TerminalStatusLines, t.logLevel.Level())
	for i, entry := range logs {
		style := tcell.StyleDefault.Foreground(tcell.ColorBlue)
		switch {
		case entry.Level >= slog.LevelError:
			style = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
		case entry.Level >= slog.LevelWarn:
			style = tcell.StyleDefault.Foreground(tcell.ColorYellow)
		case entry.Level < slog.LevelInfo:
			style = tcell.StyleDefault.Foreground(tcell.ColorGray)
		}
		t.drawText(0, divider+1+i, cols, render.FormatLogEntry(entry), style)
	}
}

func (t *Backend) drawText(x, y, width int, text string, style tcell.Style) {
	runes := []rune(text)
	if len(runes) > width && width > 3 {
		runes = append(runes[:width-3], '.', '.', '.')
	}
	for i, ch := range runes {
		if i >= width {
			break
		}
		t.screen.SetContent(x+i, y, ch, nil, style)
	}
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	return nil
}

func (t *Backend) handleSignals() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	<-signals
	t.quit.Store(true)
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		t.quit.Store(true)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			t.quit.Store(true)
		case '+', '=':
			t.changeLogLevel(-4)
		case '-', '_':
			t.changeLogLevel(4)
		}
	}
}

// changeLogLevel moves the status filter one slog level up or down.
func (t *Backend) changeLogLevel(delta slog.Level) {
	oldLevel := t.logLevel.Level()
	level := min(max(oldLevel+delta, slog.LevelDebug), slog.LevelError)
	if level != oldLevel {
		t.logLevel.Set(level)
		slog.Info("Log filter changed", "from", oldLevel, "to", level)
	}
}
