//go:build !opengl

package opengl

import "github.com/valerio/go-cavern/cavern/graphics"

// Load reports that the renderer was built without an OpenGL binding. Build
// with -tags opengl to enable it.
func Load(Context) (GL, error) {
	return nil, graphics.NewRenderError("load", graphics.ErrUnsupported)
}
