//go:build !sdl2

package sdl2

import (
	"errors"

	"github.com/valerio/go-cavern/cavern/backend"
	"github.com/valerio/go-cavern/cavern/backend/opengl"
	"github.com/valerio/go-cavern/cavern/canvas"
)

// ErrNotAvailable is returned by every call of the stub backend.
var ErrNotAvailable = errors.New("SDL2 backend not available - build with -tags sdl2 to enable")

// Backend stub for when SDL2 is not available
type Backend struct{}

var (
	_ backend.Window    = (*Backend)(nil)
	_ backend.Presenter = (*Backend)(nil)
)

// New creates a stub SDL2 backend that returns an error
func New(useGL bool) *Backend {
	return &Backend{}
}

// Init returns an error indicating SDL2 is not available
func (s *Backend) Init(config backend.Config) error {
	return ErrNotAvailable
}

// Update returns an error
func (s *Backend) Update() error {
	return ErrNotAvailable
}

func (s *Backend) Size() (int, int) {
	return 0, 0
}

func (s *Backend) PushOut(frame *canvas.Canvas) error {
	return ErrNotAvailable
}

// GLContext returns an empty context; loading GL from it fails.
func (s *Backend) GLContext() opengl.Context {
	return opengl.Context{}
}

// Cleanup does nothing
func (s *Backend) Cleanup() error {
	return nil
}
