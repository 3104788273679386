//go:build !glfw

package glfw_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valerio/go-cavern/cavern/backend"
	"github.com/valerio/go-cavern/cavern/backend/glfw"
)

func TestStub(t *testing.T) {
	b := glfw.New()
	assert.ErrorIs(t, b.Init(backend.Config{}), glfw.ErrNotAvailable)
	assert.ErrorIs(t, b.Update(), glfw.ErrNotAvailable)
	assert.Nil(t, b.GLContext().SwapBuffers)
	assert.NoError(t, b.Cleanup())
}
