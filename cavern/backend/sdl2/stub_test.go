//go:build !sdl2

package sdl2_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valerio/go-cavern/cavern/backend"
	"github.com/valerio/go-cavern/cavern/backend/sdl2"
	"github.com/valerio/go-cavern/cavern/canvas"
)

func TestStub(t *testing.T) {
	b := sdl2.New(true)

	assert.ErrorIs(t, b.Init(backend.Config{Title: "Test"}), sdl2.ErrNotAvailable)
	assert.ErrorIs(t, b.Update(), sdl2.ErrNotAvailable)
	assert.ErrorIs(t, b.PushOut(canvas.New(1, 1)), sdl2.ErrNotAvailable)
	assert.Nil(t, b.GLContext().GetProcAddress)
	assert.NoError(t, b.Cleanup())
}
