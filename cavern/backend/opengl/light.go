package opengl

import (
	"errors"
	"fmt"

	"github.com/valerio/go-cavern/cavern/display"
	"github.com/valerio/go-cavern/cavern/graphics"
)

// DrawLight renders a radial light occluded by the collision texture. The
// first pass marches one ray per texel of the ray texture; the second pass
// shades every pixel of target within the radius from those distances. A
// nil target lights the offscreen surface.
func (r *Renderer) DrawLight(collision, target *Texture, light graphics.Light) error {
	const op = "draw_light"
	if err := r.check(op); err != nil {
		return err
	}
	if collision == nil {
		return graphics.NewRenderError(op, errors.New("no collision texture"))
	}
	if err := r.own(op, collision); err != nil {
		return err
	}
	if err := r.own(op, target); err != nil {
		return err
	}
	if target != nil && !target.Mutable() {
		return graphics.NewRenderError(op, fmt.Errorf("%w: light target has no framebuffer", graphics.ErrUnsupported))
	}

	fb, tw, th := r.surfaceFB, r.width, r.height
	matrix := r.defMatrix
	if target != nil {
		fb, tw, th = target.framebuffer, int(target.width), int(target.height)
		matrix = targetProjection(tw, th)
	}
	light = light.Resolve(collision.width, collision.height, uint16(tw), uint16(th))

	gl := r.gl
	size := display.RayTextureSize
	worldX, worldY := 1/float32(collision.width), 1/float32(collision.height)

	gl.Disable(Blend)
	gl.Disable(ScissorTest)

	gl.BindFramebuffer(Framebuffer, r.rayFB)
	gl.Viewport(0, 0, int32(size), int32(size))
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(ColorBufferBit)
	gl.ActiveTexture(Texture0)
	r.drawLightQuad(r.programs.ray, size, size, collision.id, func(p *program) {
		p.setInt(gl, "Texture", 0)
		p.setMatrix(gl, targetProjection(size, size))
		p.setVec3(gl, "in_Light", light.Center[0], light.Center[1], light.Radius)
		p.setVec2(gl, "in_World", worldX, worldY)
		p.setFloat(gl, "in_RayTexSize", float32(size))
	})

	gl.BindFramebuffer(Framebuffer, fb)
	gl.Viewport(0, 0, int32(tw), int32(th))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(ColorBufferBit)
	gl.ActiveTexture(Texture1)
	gl.BindTexture(Texture2D, r.rayTexture)
	gl.ActiveTexture(Texture0)
	r.drawLightQuad(r.programs.light, tw, th, collision.id, func(p *program) {
		p.setInt(gl, "Texture", 0)
		p.setInt(gl, "RayTexture", 1)
		p.setMatrix(gl, matrix)
		p.setVec3(gl, "in_Light", light.Center[0], light.Center[1], light.Radius)
		p.setVec2(gl, "in_World", worldX, worldY)
		p.setVec2(gl, "in_LightCenter", light.Dest[0], light.Dest[1])
		p.setVec2(gl, "in_LightTexSize_WH", float32(tw), float32(th))
		p.setVec3(gl, "in_ColorS", light.ColorStart.R, light.ColorStart.G, light.ColorStart.B)
		p.setVec3(gl, "in_ColorD", light.ColorEdge.R, light.ColorEdge.G, light.ColorEdge.B)
		p.setFloat(gl, "in_RayTexSize", float32(size))
	})
	gl.ActiveTexture(Texture1)
	gl.BindTexture(Texture2D, 0)
	gl.ActiveTexture(Texture0)

	r.applyBlend(r.blend)
	r.restoreTarget()
	return nil
}

// drawLightQuad covers a w x h target with one quad in pixel coordinates.
func (r *Renderer) drawLightQuad(p *program, w, h int, texture uint32, uniforms func(p *program)) {
	quad := graphics.QuadVertices(
		graphics.NewRect[float32](0, 0, float32(w), float32(h)),
		graphics.NewRect[float32](0, 0, 1, 1),
		graphics.White.Bytes(),
	)
	r.drawArrays(quad[:], texture, p, uniforms)
}
