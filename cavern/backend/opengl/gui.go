package opengl

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/valerio/go-cavern/cavern/gui"
)

// RenderGUI draws the overlay with indexed draws, one scissor per command.
// Blend, clip and target state are restored afterwards.
func (r *Renderer) RenderGUI(data *gui.DrawData) error {
	if err := r.check("render_gui"); err != nil {
		return err
	}
	if data.Empty() {
		return nil
	}

	sx, sy := data.FramebufferScale[0], data.FramebufferScale[1]
	if sx <= 0 {
		sx = 1
	}
	if sy <= 0 {
		sy = 1
	}
	fbW, fbH := data.DisplaySize[0]*sx, data.DisplaySize[1]*sy
	if fbW <= 0 || fbH <= 0 {
		return nil
	}

	gl := r.gl
	gl.ActiveTexture(Texture0)
	gl.Enable(Blend)
	gl.BlendFunc(SrcAlpha, OneMinusSrcAlpha)
	gl.Disable(CullFace)
	gl.Disable(DepthTest)
	gl.Enable(ScissorTest)
	gl.Viewport(0, 0, int32(fbW), int32(fbH))

	p := r.programs.tex
	p.bind(gl, r.vbo)
	p.setInt(gl, "Texture", 0)
	p.setMatrix(gl, mgl32.Ortho2D(0, data.DisplaySize[0], data.DisplaySize[1], 0))

	for i := range data.Lists {
		list := &data.Lists[i]
		if len(list.Vertices) == 0 || len(list.Indices) == 0 {
			continue
		}
		gl.BindBuffer(ArrayBuffer, r.vbo)
		gl.BufferData(ArrayBuffer, asBytes(list.Vertices), StreamDraw)
		gl.BindBuffer(ElementArrayBuffer, r.ebo)
		gl.BufferData(ElementArrayBuffer, asBytes(list.Indices), StreamDraw)

		for _, cmd := range list.Commands {
			if cmd.ElemCount <= 0 {
				continue
			}
			c := cmd.ClipRect
			gl.BindTexture(Texture2D, uint32(cmd.TextureID))
			gl.Scissor(
				int32(c[0]*sx),
				int32(fbH-c[3]*sy),
				int32((c[2]-c[0])*sx),
				int32((c[3]-c[1])*sy),
			)
			gl.DrawElements(Triangles, int32(cmd.ElemCount), UnsignedShort, cmd.IdxOffset*2)
		}
	}

	gl.BindTexture(Texture2D, 0)
	gl.BindBuffer(ElementArrayBuffer, 0)
	gl.BindBuffer(ArrayBuffer, 0)

	r.applyBlend(r.blend)
	r.restoreTarget()
	return nil
}
