//go:build !glfw

package glfw

import (
	"errors"

	"github.com/valerio/go-cavern/cavern/backend"
	"github.com/valerio/go-cavern/cavern/backend/opengl"
)

// ErrNotAvailable is returned by every call of the stub backend.
var ErrNotAvailable = errors.New("GLFW backend not available - build with -tags glfw to enable")

// Backend stub for when GLFW is not available
type Backend struct{}

var _ backend.Window = (*Backend)(nil)

func New() *Backend {
	return &Backend{}
}

func (g *Backend) Init(config backend.Config) error {
	return ErrNotAvailable
}

func (g *Backend) Update() error {
	return ErrNotAvailable
}

func (g *Backend) Size() (int, int) {
	return 0, 0
}

func (g *Backend) GLContext() opengl.Context {
	return opengl.Context{}
}

func (g *Backend) Cleanup() error {
	return nil
}
