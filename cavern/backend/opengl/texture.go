package opengl

import (
	"github.com/valerio/go-cavern/cavern/backend"
	"github.com/valerio/go-cavern/cavern/graphics"
)

// Texture is a GL texture plus the vertices queued for its next Draw.
// Mutable textures also own a framebuffer so they can be render targets.
type Texture struct {
	r           *Renderer
	id          uint32
	framebuffer uint32
	width       uint16
	height      uint16
	vertices    []graphics.Vertex
	token       backend.Token
}

var _ backend.Texture = (*Texture)(nil)

func (t *Texture) Dimensions() (uint16, uint16) {
	return t.width, t.height
}

// Add turns a command into two triangles in texture UV space.
func (t *Texture) Add(cmd graphics.Command) {
	verts := cmd.Quad().Vertices(t.width, t.height)
	t.vertices = append(t.vertices, verts[:]...)
}

func (t *Texture) Clear() {
	t.vertices = t.vertices[:0]
}

// Draw renders the queued quads into the current render target with the
// textured program, then drains the queue.
func (t *Texture) Draw() error {
	defer t.Clear()
	if !t.token.Valid() {
		return graphics.NewRenderError("texture_draw", graphics.ErrContextLost)
	}
	if t.id == 0 || len(t.vertices) == 0 {
		return nil
	}

	t.r.drawArrays(t.vertices, t.id, t.r.programs.tex, nil)
	return nil
}

// Release deletes the GL objects. Once the renderer was closed the context
// may be gone, so nothing is touched.
func (t *Texture) Release() {
	if !t.token.Valid() || t.id == 0 {
		return
	}
	gl := t.r.gl
	if t.r.target == t {
		t.r.bindTarget(nil)
	}
	gl.DeleteTexture(t.id)
	if t.framebuffer != 0 {
		gl.DeleteFramebuffer(t.framebuffer)
	}
	t.id, t.framebuffer = 0, 0
}

// Mutable reports whether the texture can be a render target.
func (t *Texture) Mutable() bool {
	return t.framebuffer != 0
}
