//go:build sdl2

package sdl2

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/valerio/go-cavern/cavern/backend"
	"github.com/valerio/go-cavern/cavern/backend/opengl"
	"github.com/valerio/go-cavern/cavern/canvas"
	"github.com/valerio/go-cavern/cavern/display"
)

// Backend implements backend.Window with SDL2. Without an OpenGL context it
// also presents software frames by blitting them to the window surface.
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stub, see build tags (sdl2)
type Backend struct {
	window    *sdl.Window
	glContext sdl.GLContext
	frame     *sdl.Surface
	config    backend.Config
	useGL     bool
	scale     int
}

var (
	_ backend.Window    = (*Backend)(nil)
	_ backend.Presenter = (*Backend)(nil)
)

// New creates an SDL2 backend. With useGL the window gets an OpenGL 2.1
// context for the GPU renderer.
func New(useGL bool) *Backend {
	return &Backend{useGL: useGL}
}

// Init opens the window
func (s *Backend) Init(config backend.Config) error {
	s.config = config
	s.scale = config.Scale
	if s.scale <= 0 {
		s.scale = display.DefaultScale
	}
	width, height := display.DefaultWindowWidth, display.DefaultWindowHeight
	if config.Width > 0 && config.Height > 0 {
		width, height = config.Width*s.scale, config.Height*s.scale
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	flags := uint32(sdl.WINDOW_SHOWN | sdl.WINDOW_RESIZABLE)
	if config.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	if s.useGL {
		flags |= sdl.WINDOW_OPENGL
		_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 2)
		_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
		_ = sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(width),
		int32(height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.window = window

	if s.useGL {
		ctx, err := window.GLCreateContext()
		if err != nil {
			window.Destroy()
			sdl.Quit()
			return fmt.Errorf("failed to create OpenGL context: %w", err)
		}
		if err := window.GLMakeCurrent(ctx); err != nil {
			sdl.GLDeleteContext(ctx)
			window.Destroy()
			sdl.Quit()
			return fmt.Errorf("failed to make OpenGL context current: %w", err)
		}
		s.glContext = ctx
	}

	slog.Info("SDL2 backend initialized", "width", width, "height", height, "opengl", s.useGL)
	return nil
}

// Update pumps SDL events
func (s *Backend) Update() error {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		s.handleEvent(event)
	}
	return nil
}

func (s *Backend) handleEvent(event sdl.Event) {
	cb := s.config.Callbacks
	switch e := event.(type) {
	case *sdl.QuitEvent:
		cb.Quit()

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN && e.Keysym.Sym == sdl.K_ESCAPE {
			cb.Quit()
		}

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_FOCUS_LOST, sdl.WINDOWEVENT_MINIMIZED:
			cb.Suspend(true)
		case sdl.WINDOWEVENT_FOCUS_GAINED, sdl.WINDOWEVENT_RESTORED, sdl.WINDOWEVENT_SHOWN:
			cb.Suspend(false)
		case sdl.WINDOWEVENT_SIZE_CHANGED:
			cb.Resize(int(e.Data1), int(e.Data2))
		}
	}
}

// Size is the logical canvas size: the window size divided by the scale.
func (s *Backend) Size() (int, int) {
	if s.window == nil {
		return display.OffscreenWidth, display.OffscreenHeight
	}
	w, h := s.window.GetSize()
	return max(int(w)/s.scale, 1), max(int(h)/s.scale, 1)
}

// PushOut copies the frame into a packed ARGB8888 surface (BGRA bytes on
// little-endian hosts) and blits it scaled onto the window surface.
func (s *Backend) PushOut(frame *canvas.Canvas) error {
	w, h := frame.Width(), frame.Height()
	if s.frame == nil || int(s.frame.W) != w || int(s.frame.H) != h {
		if s.frame != nil {
			s.frame.Free()
		}
		surface, err := sdl.CreateRGBSurfaceWithFormat(0, int32(w), int32(h), 32, uint32(sdl.PIXELFORMAT_ARGB8888))
		if err != nil {
			return fmt.Errorf("failed to create frame surface: %w", err)
		}
		s.frame = surface
	}

	if err := s.frame.Lock(); err != nil {
		return fmt.Errorf("failed to lock frame surface: %w", err)
	}
	pixels := s.frame.Pixels()
	pitch := int(s.frame.Pitch)
	src := frame.Pixels()
	for y := 0; y < h; y++ {
		row := pixels[y*pitch:]
		for x := 0; x < w; x++ {
			binary.NativeEndian.PutUint32(row[x*display.BytesPerPixel:], src[y*w+x])
		}
	}
	s.frame.Unlock()

	target, err := s.window.GetSurface()
	if err != nil {
		return fmt.Errorf("failed to get window surface: %w", err)
	}
	if err := s.frame.BlitScaled(nil, target, &sdl.Rect{W: target.W, H: target.H}); err != nil {
		return fmt.Errorf("failed to blit frame: %w", err)
	}
	return s.window.UpdateSurface()
}

// GLContext hands the window's OpenGL context to the GPU renderer.
func (s *Backend) GLContext() opengl.Context {
	return opengl.Context{
		GetProcAddress:  sdl.GLGetProcAddress,
		SwapBuffers:     s.window.GLSwap,
		SetSwapInterval: sdl.GLSetSwapInterval,
		DrawableSize: func() (int, int) {
			w, h := s.window.GLGetDrawableSize()
			return int(w), int(h)
		},
	}
}

// Cleanup cleans up SDL2 resources
func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if s.frame != nil {
		s.frame.Free()
	}
	if s.glContext != nil {
		sdl.GLDeleteContext(s.glContext)
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}
