package software

import (
	"github.com/valerio/go-cavern/cavern/backend"
	"github.com/valerio/go-cavern/cavern/canvas"
	"github.com/valerio/go-cavern/cavern/graphics"
	"github.com/valerio/go-cavern/cavern/gui"
)

// Texture is a CPU sprite batch. Its pixels are private; drawing goes into
// whatever target the renderer currently has.
type Texture struct {
	canvas *canvas.Canvas
	cmds   []graphics.Command
	state  *state
	token  backend.Token
	id     gui.TextureID
}

var _ backend.Texture = (*Texture)(nil)

func (t *Texture) Dimensions() (uint16, uint16) {
	return uint16(t.canvas.Width()), uint16(t.canvas.Height())
}

func (t *Texture) Add(cmd graphics.Command) {
	t.cmds = append(t.cmds, cmd)
}

func (t *Texture) Clear() {
	t.cmds = t.cmds[:0]
}

// Draw blits every queued command into the current render target in order,
// then empties the queue.
func (t *Texture) Draw() error {
	if !t.token.Valid() {
		t.cmds = t.cmds[:0]
		return graphics.NewRenderError("texture_draw", graphics.ErrContextLost)
	}

	target := t.state.target
	for _, cmd := range t.cmds {
		canvas.DrawQuad(target, t.canvas, cmd.Quad(), t.state.blend)
	}
	t.cmds = t.cmds[:0]
	return nil
}

// Release drops the texture from the GUI registry.
func (t *Texture) Release() {
	if !t.token.Valid() {
		return
	}
	delete(t.state.textures, t.id)
	if t.state.target == t.canvas {
		t.state.setTarget(t.state.main)
	}
}

// Canvas exposes the texture's pixels, mostly for tests and snapshots.
func (t *Texture) Canvas() *canvas.Canvas {
	return t.canvas
}
