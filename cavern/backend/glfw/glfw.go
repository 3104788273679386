//go:build glfw

package glfw

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/valerio/go-cavern/cavern/backend"
	"github.com/valerio/go-cavern/cavern/backend/opengl"
	"github.com/valerio/go-cavern/cavern/display"
)

// GLFW calls must happen on the main thread.
func init() {
	runtime.LockOSThread()
}

var errNoAdaptiveSync = errors.New("swap_control_tear not supported")

// Backend implements backend.Window with a GLFW window and an OpenGL 2.1
// context. It has no software presenter.
type Backend struct {
	window *glfw.Window
	config backend.Config
	scale  int
}

var _ backend.Window = (*Backend)(nil)

func New() *Backend {
	return &Backend{}
}

func (g *Backend) Init(config backend.Config) error {
	g.config = config
	g.scale = config.Scale
	if g.scale <= 0 {
		g.scale = display.DefaultScale
	}
	width, height := display.DefaultWindowWidth, display.DefaultWindowHeight
	if config.Width > 0 && config.Height > 0 {
		width, height = config.Width*g.scale, config.Height*g.scale
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	var monitor *glfw.Monitor
	if config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
		mode := monitor.GetVideoMode()
		width, height = mode.Width, mode.Height
	}

	window, err := glfw.CreateWindow(width, height, config.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create window: %w", err)
	}
	window.MakeContextCurrent()
	g.window = window

	cb := config.Callbacks
	window.SetCloseCallback(func(*glfw.Window) { cb.Quit() })
	window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			cb.Quit()
		}
	})
	window.SetFocusCallback(func(_ *glfw.Window, focused bool) { cb.Suspend(!focused) })
	window.SetIconifyCallback(func(_ *glfw.Window, iconified bool) { cb.Suspend(iconified) })
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) { cb.Resize(w, h) })

	slog.Info("GLFW backend initialized", "width", width, "height", height)
	return nil
}

// Update polls window events; callbacks fire from here.
func (g *Backend) Update() error {
	glfw.PollEvents()
	return nil
}

// Size is the logical canvas size: the window size divided by the scale.
func (g *Backend) Size() (int, int) {
	if g.window == nil {
		return display.OffscreenWidth, display.OffscreenHeight
	}
	w, h := g.window.GetSize()
	return max(w/g.scale, 1), max(h/g.scale, 1)
}

// GLContext hands the window's OpenGL context to the GPU renderer.
func (g *Backend) GLContext() opengl.Context {
	return opengl.Context{
		GetProcAddress: glfw.GetProcAddress,
		SwapBuffers:    g.window.SwapBuffers,
		SetSwapInterval: func(interval int) error {
			if interval < 0 && !glfw.ExtensionSupported("GLX_EXT_swap_control_tear") &&
				!glfw.ExtensionSupported("WGL_EXT_swap_control_tear") {
				return errNoAdaptiveSync
			}
			glfw.SwapInterval(interval)
			return nil
		},
		DrawableSize: g.window.GetFramebufferSize,
	}
}

func (g *Backend) Cleanup() error {
	slog.Info("Cleaning up GLFW backend")
	if g.window != nil {
		g.window.Destroy()
	}
	glfw.Terminate()
	return nil
}
