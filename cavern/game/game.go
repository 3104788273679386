// Package game drives the renderer and background engine through the
// demo stages: it owns the main loop, backend selection and hot reload.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/valerio/go-cavern/cavern/assets"
	"github.com/valerio/go-cavern/cavern/background"
	"github.com/valerio/go-cavern/cavern/backend"
	"github.com/valerio/go-cavern/cavern/backend/headless"
	"github.com/valerio/go-cavern/cavern/config"
	"github.com/valerio/go-cavern/cavern/graphics"
	"github.com/valerio/go-cavern/cavern/timing"
	"github.com/valerio/go-cavern/cavern/vfs"
)

// Options are the per-run knobs that do not belong in the settings file.
type Options struct {
	// Stage is the stage to start on; empty starts on the first one.
	Stage string
	// StageTicks switches to the next stage every N ticks; 0 stays put.
	StageTicks int
	// Frames stops the loop after N presented frames; 0 runs until quit.
	Frames int
	// Snapshot is passed to the headless backend.
	Snapshot headless.SnapshotConfig
	// Fallback is tried in order when the requested backend fails to come
	// up, or once when it fails mid-run.
	Fallback []string
	// Watch enables hot reload of background configs from the host.
	Watch bool
	// Unlimited disables frame pacing.
	Unlimited bool
}

// DefaultFallback is used when Options.Fallback is nil.
var DefaultFallback = []string{config.BackendSoftware, config.BackendTerminal}

// Game is one run of the demo.
type Game struct {
	settings *config.Settings
	opts     Options
	fs       *vfs.VFS

	window   backend.Window
	renderer backend.Dynamic
	backend  string
	headless *headless.Backend
	fellBack bool

	textures *assets.TextureSet
	bg       *background.Background
	pilot    pilot
	stage    int

	clock   *timing.Clock
	limiter timing.Limiter
	watcher *config.Watcher

	running atomic.Bool
	ticks   uint64
	frames  int
}

// New opens a backend and prepares the stage list. The caller must Close
// the game.
func New(settings *config.Settings, fs *vfs.VFS, opts Options) (*Game, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if len(settings.Stages) == 0 {
		return nil, errors.New("no stages configured")
	}
	if opts.Fallback == nil {
		opts.Fallback = DefaultFallback
	}

	g := &Game{
		settings: settings,
		opts:     opts,
		fs:       fs,
		clock:    timing.NewClock(settings.TickRate),
	}
	if opts.Stage != "" {
		found := false
		for i, st := range settings.Stages {
			if strings.EqualFold(st.Name, opts.Stage) || st.Background == opts.Stage {
				g.stage, found = i, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown stage %q", opts.Stage)
		}
	}

	seedConfigs(fs, settings.Stages)

	if err := g.openFirst(g.candidates(settings.Backend)); err != nil {
		return nil, err
	}
	g.textures = assets.NewTextureSet(g.renderer, fs)
	g.bg = background.New(fs, settings.Seed)
	g.bg.SetJitter(settings.Jitter)

	switch {
	case opts.Unlimited || g.headless != nil:
		g.limiter = timing.NewNoOpLimiter()
	case g.backend == config.BackendTerminal:
		// Terminal refresh is coarse; a ticker is enough and keeps the
		// CPU idle between frames.
		g.limiter = timing.NewTickerLimiter(settings.TickRate)
	default:
		g.limiter = timing.NewAdaptiveLimiter(settings.TickRate)
	}

	if opts.Watch {
		w, err := config.NewWatcher(fs.HostDirs(background.Dir)...)
		if err != nil {
			slog.Warn("Hot reload disabled", "error", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) callbacks() backend.Callbacks {
	return backend.Callbacks{
		OnQuit: func() { g.running.Store(false) },
		OnSuspend: func(suspended bool) {
			slog.Debug("Window suspended", "suspended", suspended)
			if !suspended && g.limiter != nil {
				g.limiter.Reset()
			}
		},
		OnResize: func(w, h int) {
			slog.Debug("Window resized", "width", w, "height", h)
		},
	}
}

// Backend is the name of the backend in use.
func (g *Game) Backend() string {
	return g.backend
}

// Renderer is the active renderer.
func (g *Game) Renderer() backend.Dynamic {
	return g.renderer
}

// Background is the background engine.
func (g *Game) Background() *background.Background {
	return g.bg
}

// Headless is the headless window, or nil on other backends.
func (g *Game) Headless() *headless.Backend {
	return g.headless
}

// Stage is the current stage.
func (g *Game) Stage() config.StageConfig {
	return g.settings.Stages[g.stage]
}

// Frames is the number of frames presented so far.
func (g *Game) Frames() int {
	return g.frames
}

// Stop ends the loop after the current iteration. It is safe to call from
// another goroutine.
func (g *Game) Stop() {
	g.running.Store(false)
}

// Run executes the main loop until the window quits, Frames is reached or
// an unrecoverable error occurs.
func (g *Game) Run() error {
	g.running.Store(true)
	g.limiter.Reset()
	g.clock.Ticked()

	for g.running.Load() {
		if err := g.window.Update(); err != nil {
			return err
		}
		if !g.running.Load() {
			break
		}

		// Suspension only stops Present; ticks keep running so the
		// background is current on resume.
		g.reloadChanged()
		g.update()

		if err := g.draw(); err != nil {
			if err := g.fallback(err); err != nil {
				return err
			}
			continue
		}
		if !backend.Suspended() {
			g.frames++
		}
		if g.opts.Frames > 0 && g.frames >= g.opts.Frames && g.headless == nil {
			g.running.Store(false)
		}
		g.limiter.WaitForNextFrame()
	}
	slog.Info("Stopped", "frames", g.frames, "ticks", g.ticks)
	return nil
}

func (g *Game) reloadChanged() {
	if g.watcher == nil {
		return
	}
	for _, name := range g.watcher.Drain() {
		slog.Info("Background config changed", "name", name)
		if name == g.bg.Name() {
			g.bg.RequestReload()
		}
	}
}

func (g *Game) update() {
	g.ticks++
	if g.opts.StageTicks > 0 && g.ticks%uint64(g.opts.StageTicks) == 0 {
		g.stage = (g.stage + 1) % len(g.settings.Stages)
		slog.Info("Stage changed", "stage", g.Stage().Name)
	}
	g.pilot.step()
	g.bg.Tick(g.Stage().Stage(), g.view())
	g.clock.Ticked()
}

func (g *Game) view() background.View {
	w, h := g.window.Size()
	return background.View{Width: w, Height: h, Scale: 1, FrameTime: g.clock.FrameTime()}
}

func (g *Game) draw() error {
	st := g.Stage()
	stage := st.Stage()
	view := g.view()
	frame := &g.pilot.camera

	if err := g.renderer.PrepareDraw(view.Width, view.Height); err != nil {
		return err
	}
	if err := g.drawBackground(frame, stage, view, background.PassBehind); err != nil {
		return err
	}
	if err := g.drawForeground(view, stage); err != nil {
		return err
	}
	if err := g.drawBackground(frame, stage, view, background.PassAbove); err != nil {
		return err
	}
	if err := g.drawOverlay(view, st); err != nil {
		return err
	}
	if err := g.renderer.Present(); err != nil {
		return err
	}
	g.bg.DrawTick()
	return nil
}

// drawBackground draws one pass. Missing art is logged and skipped; only
// renderer failures abort the frame.
func (g *Game) drawBackground(frame background.Frame, stage background.Stage, view background.View, pass background.Pass) error {
	err := g.bg.Draw(g.renderer, g.textures, frame, stage, view, pass)
	var renderErr *graphics.RenderError
	if err == nil || errors.As(err, &renderErr) {
		return err
	}
	slog.Warn("Background skipped", "stage", g.Stage().Name, "pass", pass, "error", err)
	return nil
}

// fallback swaps to the next fallback backend the first time rendering
// fails. A second failure is returned.
func (g *Game) fallback(cause error) error {
	if g.fellBack {
		return cause
	}
	g.fellBack = true
	failed := g.backend
	slog.Error("Renderer failed, falling back", "backend", failed, "error", cause)

	g.textures.Release()
	if err := g.closeBackend(); err != nil {
		slog.Warn("Failed to close backend", "error", err)
	}
	var names []string
	for _, name := range g.opts.Fallback {
		if name != failed {
			names = append(names, name)
		}
	}
	if err := g.openFirst(names); err != nil {
		return errors.Join(cause, err)
	}
	g.textures = assets.NewTextureSet(g.renderer, g.fs)
	return nil
}

// Close shuts down in a fixed order: renderer, window, then the textures
// the renderer's close already invalidated.
func (g *Game) Close() error {
	var errs []error
	if g.watcher != nil {
		errs = append(errs, g.watcher.Close())
		g.watcher = nil
	}
	errs = append(errs, g.closeBackend())
	if g.textures != nil {
		g.textures.Release()
	}
	if t, ok := g.limiter.(*timing.TickerLimiter); ok {
		t.Stop()
	}
	return errors.Join(errs...)
}
