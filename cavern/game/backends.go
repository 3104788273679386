package game

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/valerio/go-cavern/cavern/backend"
	"github.com/valerio/go-cavern/cavern/backend/glfw"
	"github.com/valerio/go-cavern/cavern/backend/headless"
	"github.com/valerio/go-cavern/cavern/backend/opengl"
	"github.com/valerio/go-cavern/cavern/backend/sdl2"
	"github.com/valerio/go-cavern/cavern/backend/software"
	"github.com/valerio/go-cavern/cavern/backend/terminal"
	"github.com/valerio/go-cavern/cavern/config"
	"github.com/valerio/go-cavern/cavern/display"
)

// glWindow is a window that can hand out a GL context.
type glWindow interface {
	backend.Window
	GLContext() opengl.Context
}

// presentingWindow is a window the software renderer can present into.
type presentingWindow interface {
	backend.Window
	backend.Presenter
}

// open creates the window and renderer for one backend name.
func (g *Game) open(name string) error {
	cfg := backend.Config{
		Title:     "cavern",
		Width:     display.OffscreenWidth * g.settings.Scale,
		Height:    display.OffscreenHeight * g.settings.Scale,
		Scale:     g.settings.Scale,
		VSync:     g.settings.VSync,
		Callbacks: g.callbacks(),
	}

	switch name {
	case config.BackendOpenGL:
		var errs []error
		for _, win := range []glWindow{sdl2.New(true), glfw.New()} {
			err := g.openGL(win, cfg)
			if err == nil {
				return nil
			}
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	case config.BackendSoftware:
		return g.openSoftware(sdl2.New(false), cfg)
	case config.BackendTerminal:
		return g.openSoftware(terminal.New(), cfg)
	case config.BackendHeadless:
		cfg.Width, cfg.Height, cfg.Scale = display.OffscreenWidth, display.OffscreenHeight, 1
		g.headless = headless.New(g.opts.Frames, g.opts.Snapshot)
		return g.openSoftware(g.headless, cfg)
	default:
		return fmt.Errorf("unknown backend %q", name)
	}
}

func (g *Game) openGL(win glWindow, cfg backend.Config) error {
	if err := win.Init(cfg); err != nil {
		return err
	}
	ctx := win.GLContext()
	gl, err := opengl.Load(ctx)
	if err == nil {
		var r *opengl.Renderer
		if r, err = opengl.New(gl, ctx); err == nil {
			g.window, g.renderer = win, backend.Erase[*opengl.Texture](r)
			return nil
		}
	}
	if cerr := win.Cleanup(); cerr != nil {
		slog.Warn("Failed to clean up window", "error", cerr)
	}
	return err
}

func (g *Game) openSoftware(win presentingWindow, cfg backend.Config) error {
	if err := win.Init(cfg); err != nil {
		return err
	}
	r, err := software.New(win)
	if err != nil {
		if cerr := win.Cleanup(); cerr != nil {
			slog.Warn("Failed to clean up window", "error", cerr)
		}
		return err
	}
	g.window, g.renderer = win, backend.Erase[*software.Texture](r)
	return nil
}

// openFirst walks the candidate list until one backend comes up.
func (g *Game) openFirst(names []string) error {
	var errs []error
	for _, name := range names {
		err := g.open(name)
		if err == nil {
			g.backend = name
			slog.Info("Backend ready", "backend", name, "renderer", g.renderer.Name())
			return nil
		}
		slog.Warn("Backend unavailable", "backend", name, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}
	return fmt.Errorf("no usable backend: %w", errors.Join(errs...))
}

// candidates is the requested backend followed by the fallbacks, minus
// duplicates.
func (g *Game) candidates(first string) []string {
	names := []string{first}
	for _, name := range g.opts.Fallback {
		dup := false
		for _, n := range names {
			dup = dup || n == name
		}
		if !dup {
			names = append(names, name)
		}
	}
	return names
}

// closeBackend tears down the renderer before its window. Textures still
// held by the caller turn inert.
func (g *Game) closeBackend() error {
	var errs []error
	if g.renderer != nil {
		errs = append(errs, g.renderer.Close())
		g.renderer = nil
	}
	if g.window != nil {
		errs = append(errs, g.window.Cleanup())
		g.window = nil
	}
	g.headless = nil
	return errors.Join(errs...)
}
