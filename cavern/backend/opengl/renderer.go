package opengl

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/valerio/go-cavern/cavern/backend"
	"github.com/valerio/go-cavern/cavern/display"
	"github.com/valerio/go-cavern/cavern/graphics"
	"github.com/valerio/go-cavern/cavern/gui"
)

const (
	nameGL   = "OpenGL 2.1"
	nameGLES = "OpenGL ES 2.0"
)

// Renderer draws through OpenGL into an offscreen surface that Present
// scales onto the window.
type Renderer struct {
	gl       GL
	ctx      Context
	programs programSet
	vbo      uint32
	ebo      uint32

	surface     uint32
	surfaceFB   uint32
	rayTexture  uint32
	rayFB       uint32
	fontTexture uint32

	gui *gui.Context

	// offscreen surface size
	width, height int

	defMatrix  mgl32.Mat4
	currMatrix mgl32.Mat4
	target     *Texture
	blend      graphics.BlendMode
	clip       *graphics.Rect[int]

	gen    backend.Generation
	closed bool
}

var _ backend.Renderer[*Texture] = (*Renderer)(nil)

// surfaceProjection puts pixel (0, 0) at the top-left of the window.
func surfaceProjection(w, h int) mgl32.Mat4 {
	return mgl32.Ortho2D(0, float32(w), float32(h), 0)
}

// targetProjection keeps row 0 of a render target at v = 0, the same place
// uploaded images keep their first row, so targets sample upright.
func targetProjection(w, h int) mgl32.Mat4 {
	return mgl32.Ortho2D(0, float32(w), 0, float32(h))
}

// New compiles the programs and allocates the offscreen surface, the ray
// texture and the GUI font atlas. Shader failures are fatal.
func New(gl GL, ctx Context) (*Renderer, error) {
	if gl == nil {
		return nil, graphics.NewRenderError("init", graphics.ErrContextLost)
	}

	programs, err := loadPrograms(gl, ctx.GLES)
	if err != nil {
		return nil, graphics.NewRenderError("init", err)
	}

	r := &Renderer{
		gl:       gl,
		ctx:      ctx,
		programs: programs,
		gui:      gui.NewContext(),
		width:    display.OffscreenWidth,
		height:   display.OffscreenHeight,
		blend:    graphics.BlendAlpha,
	}
	r.vbo = gl.GenBuffer()
	r.ebo = gl.GenBuffer()

	r.surface = r.newTexture(r.width, r.height, nil, Linear)
	if r.surfaceFB, err = r.newFramebuffer(r.surface); err != nil {
		return nil, graphics.NewRenderError("init", err)
	}
	r.rayTexture = r.newTexture(display.RayTextureSize, display.RayTextureSize, nil, Nearest)
	if r.rayFB, err = r.newFramebuffer(r.rayTexture); err != nil {
		return nil, graphics.NewRenderError("init", err)
	}

	aw, ah, atlas := r.gui.FontAtlas()
	r.fontTexture = r.newTexture(aw, ah, atlas, Nearest)
	r.gui.SetFontTextureID(gui.TextureID(r.fontTexture))

	r.defMatrix = surfaceProjection(r.width, r.height)
	r.bindTarget(nil)
	r.applyBlend(r.blend)

	slog.Info("OpenGL renderer initialized", "name", r.Name())
	return r, nil
}

func (r *Renderer) Name() string {
	if r.ctx.GLES {
		return nameGLES
	}
	return nameGL
}

func (r *Renderer) check(op string) error {
	if r.closed {
		return graphics.NewRenderError(op, graphics.ErrContextLost)
	}
	return nil
}

func (r *Renderer) own(op string, t *Texture) error {
	switch {
	case t == nil:
		return nil
	case !t.token.Valid():
		return graphics.NewRenderError(op, graphics.ErrContextLost)
	case t.r != r:
		return graphics.NewRenderError(op, graphics.ErrWrongBackend)
	}
	return nil
}

func (r *Renderer) newTexture(w, h int, pixels []byte, filter Enum) uint32 {
	gl := r.gl
	id := gl.GenTexture()
	gl.BindTexture(Texture2D, id)
	gl.TexParameteri(Texture2D, TextureMinFilter, int32(filter))
	gl.TexParameteri(Texture2D, TextureMagFilter, int32(filter))
	gl.TexParameteri(Texture2D, TextureWrapS, int32(ClampToEdge))
	gl.TexParameteri(Texture2D, TextureWrapT, int32(ClampToEdge))
	gl.TexImage2D(Texture2D, int32(w), int32(h), pixels)
	gl.BindTexture(Texture2D, 0)
	return id
}

// newFramebuffer attaches texture to a new framebuffer and leaves it bound.
func (r *Renderer) newFramebuffer(texture uint32) (uint32, error) {
	gl := r.gl
	fb := gl.GenFramebuffer()
	gl.BindFramebuffer(Framebuffer, fb)
	gl.FramebufferTexture2D(Framebuffer, ColorAttachment0, Texture2D, texture, 0)
	if status := gl.CheckFramebufferStatus(Framebuffer); status != FramebufferComplete {
		gl.BindFramebuffer(Framebuffer, 0)
		gl.DeleteFramebuffer(fb)
		return 0, fmt.Errorf("%w: framebuffer status 0x%04x", graphics.ErrSurfaceAllocation, status)
	}
	return fb, nil
}

// bindTarget switches the render target and pushes the matching projection
// into every program that draws into it.
func (r *Renderer) bindTarget(t *Texture) {
	r.target = t
	if t == nil {
		r.currMatrix = r.defMatrix
	} else {
		r.currMatrix = targetProjection(int(t.width), int(t.height))
	}
	r.restoreTarget()
}

// restoreTarget rebinds the current target after a pass that drew elsewhere.
func (r *Renderer) restoreTarget() {
	gl := r.gl
	fb, w, h := r.surfaceFB, r.width, r.height
	if r.target != nil {
		fb, w, h = r.target.framebuffer, int(r.target.width), int(r.target.height)
	}
	gl.BindFramebuffer(Framebuffer, fb)
	gl.Viewport(0, 0, int32(w), int32(h))

	for _, p := range r.programs.basic() {
		gl.UseProgram(p.id)
		p.setInt(gl, "Texture", 0)
		p.setMatrix(gl, r.currMatrix)
	}
	r.applyClip()
}

func (r *Renderer) targetHeight() int {
	if r.target != nil {
		return int(r.target.height)
	}
	return r.height
}

func (r *Renderer) applyBlend(mode graphics.BlendMode) {
	gl := r.gl
	switch mode {
	case graphics.BlendAdd:
		gl.Enable(Blend)
		gl.BlendFunc(One, One)
	case graphics.BlendAlpha:
		gl.Enable(Blend)
		gl.BlendFunc(SrcAlpha, OneMinusSrcAlpha)
	case graphics.BlendMultiply:
		gl.Enable(Blend)
		gl.BlendFuncSeparate(Zero, SrcColor, Zero, SrcAlpha)
	default:
		gl.Disable(Blend)
	}
	r.blend = mode
}

// applyClip sets the scissor box. The surface is stored bottom-up while
// render targets are stored top-down, so only the surface flips.
func (r *Renderer) applyClip() {
	gl := r.gl
	if r.clip == nil {
		gl.Disable(ScissorTest)
		return
	}
	c := *r.clip
	y := c.Top
	if r.target == nil {
		y = r.targetHeight() - c.Bottom
	}
	gl.Enable(ScissorTest)
	gl.Scissor(int32(c.Left), int32(y), int32(max(c.Width(), 0)), int32(max(c.Height(), 0)))
}

// drawArrays uploads verts and draws them with p, sampling texture.
// uniforms runs after the program is bound.
func (r *Renderer) drawArrays(verts []graphics.Vertex, texture uint32, p *program, uniforms func(p *program)) {
	gl := r.gl
	p.bind(gl, r.vbo)
	if uniforms != nil {
		uniforms(p)
	}
	gl.BindTexture(Texture2D, texture)
	gl.BufferData(ArrayBuffer, asBytes(verts), StreamDraw)
	gl.DrawArrays(Triangles, 0, int32(len(verts)))
	gl.BindTexture(Texture2D, 0)
	gl.BindBuffer(ArrayBuffer, 0)
}

func (r *Renderer) Clear(color graphics.Color) error {
	if err := r.check("clear"); err != nil {
		return err
	}
	r.gl.ClearColor(color.R, color.G, color.B, color.A)
	r.gl.Clear(ColorBufferBit)
	return nil
}

// PrepareDraw resizes the surface when the window size changed, binds and
// clears it and resets the projection.
func (r *Renderer) PrepareDraw(width, height int) error {
	if err := r.check("prepare_draw"); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return graphics.NewRenderError("prepare_draw", fmt.Errorf("%w: %dx%d", graphics.ErrSurfaceAllocation, width, height))
	}

	gl := r.gl
	if width != r.width || height != r.height {
		gl.BindFramebuffer(Framebuffer, 0)
		gl.BindTexture(Texture2D, r.surface)
		gl.TexImage2D(Texture2D, int32(width), int32(height), nil)
		gl.BindTexture(Texture2D, 0)
		r.width, r.height = width, height
		slog.Debug("Offscreen surface resized", "width", width, "height", height)
	}

	r.defMatrix = surfaceProjection(width, height)
	r.bindTarget(nil)
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(ColorBufferBit)
	gl.ActiveTexture(Texture0)
	r.applyBlend(graphics.BlendAlpha)
	return nil
}

// Present scales the surface onto the default framebuffer and swaps.
func (r *Renderer) Present() error {
	if backend.Suspended() {
		return nil
	}
	if err := r.check("present"); err != nil {
		return err
	}

	gl := r.gl
	w, h := r.width, r.height
	if r.ctx.DrawableSize != nil {
		w, h = r.ctx.DrawableSize()
	}
	gl.BindFramebuffer(Framebuffer, 0)
	gl.Disable(ScissorTest)
	gl.Viewport(0, 0, int32(w), int32(h))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(ColorBufferBit | DepthBufferBit)

	quad := graphics.QuadVertices(
		graphics.NewRect[float32](0, 0, 1, 1),
		graphics.NewRect[float32](0, 1, 1, 0),
		graphics.White.Bytes(),
	)
	r.drawArrays(quad[:], r.surface, r.programs.tex, func(p *program) {
		p.setInt(gl, "Texture", 0)
		p.setMatrix(gl, mgl32.Ortho2D(0, 1, 1, 0))
	})
	gl.Flush()

	if r.ctx.SwapBuffers != nil {
		r.ctx.SwapBuffers()
	}
	return nil
}

func (r *Renderer) CreateTexture(width, height uint16, rgba []byte) (*Texture, error) {
	const op = "create_texture"
	if err := r.check(op); err != nil {
		return nil, err
	}
	size := int(width) * int(height) * display.BytesPerPixel
	if size == 0 || len(rgba) < size {
		return nil, graphics.NewRenderError(op, fmt.Errorf("%w: %dx%d needs %d bytes, got %d",
			graphics.ErrSurfaceAllocation, width, height, size, len(rgba)))
	}

	id := r.newTexture(int(width), int(height), rgba[:size], Nearest)
	return &Texture{r: r, id: id, width: width, height: height, token: r.gen.Token()}, nil
}

// CreateTextureMutable allocates a texture with its own framebuffer and
// clears it to transparent.
func (r *Renderer) CreateTextureMutable(width, height uint16) (*Texture, error) {
	const op = "create_texture_mutable"
	if err := r.check(op); err != nil {
		return nil, err
	}
	if width == 0 || height == 0 {
		return nil, graphics.NewRenderError(op, fmt.Errorf("%w: %dx%d", graphics.ErrSurfaceAllocation, width, height))
	}

	gl := r.gl
	id := r.newTexture(int(width), int(height), nil, Nearest)
	fb, err := r.newFramebuffer(id)
	if err != nil {
		gl.DeleteTexture(id)
		r.restoreTarget()
		return nil, graphics.NewRenderError(op, err)
	}
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(ColorBufferBit)
	r.restoreTarget()

	return &Texture{r: r, id: id, framebuffer: fb, width: width, height: height, token: r.gen.Token()}, nil
}

func (r *Renderer) SetRenderTarget(target *Texture) error {
	const op = "set_render_target"
	if err := r.check(op); err != nil {
		return err
	}
	if err := r.own(op, target); err != nil {
		return err
	}
	if target != nil && !target.Mutable() {
		return graphics.NewRenderError(op, fmt.Errorf("%w: texture has no framebuffer", graphics.ErrUnsupported))
	}
	r.bindTarget(target)
	return nil
}

func (r *Renderer) SetBlendMode(mode graphics.BlendMode) error {
	if err := r.check("set_blend_mode"); err != nil {
		return err
	}
	r.applyBlend(mode)
	return nil
}

func (r *Renderer) SetClipRect(rect *graphics.Rect[int]) error {
	if err := r.check("set_clip_rect"); err != nil {
		return err
	}
	if rect != nil {
		c := *rect
		rect = &c
	}
	r.clip = rect
	r.applyClip()
	return nil
}

func (r *Renderer) DrawRect(rect graphics.Rect[int], color graphics.Color) error {
	if err := r.check("draw_rect"); err != nil {
		return err
	}
	verts := rectVertices(rect, color)
	r.drawArrays(verts[:], 0, r.programs.fill, nil)
	return nil
}

func rectVertices(rect graphics.Rect[int], color graphics.Color) [6]graphics.Vertex {
	return graphics.QuadVertices(graphics.ConvertRect[float32](rect), graphics.Rect[float32]{}, color.Bytes())
}

// DrawOutlineRect draws the four edges of rect inward with lineWidth.
func (r *Renderer) DrawOutlineRect(rect graphics.Rect[int], lineWidth int, color graphics.Color) error {
	if err := r.check("draw_outline_rect"); err != nil {
		return err
	}
	if lineWidth <= 0 || rect.Empty() {
		return nil
	}
	if 2*lineWidth >= rect.Width() || 2*lineWidth >= rect.Height() {
		return r.DrawRect(rect, color)
	}

	l, t, rt, b := rect.Left, rect.Top, rect.Right, rect.Bottom
	edges := []graphics.Rect[int]{
		graphics.NewRect(l, t, rt, t+lineWidth),
		graphics.NewRect(l, b-lineWidth, rt, b),
		graphics.NewRect(l, t+lineWidth, l+lineWidth, b-lineWidth),
		graphics.NewRect(rt-lineWidth, t+lineWidth, rt, b-lineWidth),
	}
	verts := make([]graphics.Vertex, 0, len(edges)*6)
	for _, e := range edges {
		v := rectVertices(e, color)
		verts = append(verts, v[:]...)
	}
	r.drawArrays(verts, 0, r.programs.fill, nil)
	return nil
}

// DrawTriangleList draws raw triangles. Water resamples the offscreen
// surface regardless of texture.
func (r *Renderer) DrawTriangleList(verts []graphics.Vertex, texture *Texture, shader graphics.Shader) error {
	const op = "draw_triangle_list"
	if err := r.check(op); err != nil {
		return err
	}
	if err := r.own(op, texture); err != nil {
		return err
	}
	if len(verts) == 0 {
		return nil
	}

	var id uint32
	if texture != nil {
		id = texture.id
	}

	gl := r.gl
	switch shader.Kind {
	case graphics.ShaderFill:
		r.drawArrays(verts, 0, r.programs.fill, nil)
	case graphics.ShaderTexture:
		if id == 0 {
			r.drawArrays(verts, 0, r.programs.fill, nil)
			return nil
		}
		r.drawArrays(verts, id, r.programs.tex, nil)
	case graphics.ShaderWater:
		r.drawArrays(verts, r.surface, r.programs.water, func(p *program) {
			p.setFloat(gl, "Scale", shader.Scale)
			p.setFloat(gl, "Time", shader.Time)
			p.setVec2(gl, "FrameOffset", shader.FrameOffset[0], shader.FrameOffset[1])
		})
	default:
		return graphics.NewRenderError(op, fmt.Errorf("%w: shader kind %d", graphics.ErrUnsupported, shader.Kind))
	}
	return nil
}

func (r *Renderer) GUI() (*gui.Context, error) {
	if err := r.check("gui"); err != nil {
		return nil, err
	}
	return r.gui, nil
}

func (r *Renderer) GUITextureID(texture *Texture) (gui.TextureID, error) {
	const op = "gui_texture_id"
	if err := r.check(op); err != nil {
		return 0, err
	}
	if err := r.own(op, texture); err != nil {
		return 0, err
	}
	if texture == nil {
		return 0, graphics.NewRenderError(op, graphics.ErrUnsupported)
	}
	return gui.TextureID(texture.id), nil
}

// SetVSync maps the mode onto a swap interval. Adaptive sync falls back to
// no sync when the driver refuses it.
func (r *Renderer) SetVSync(mode graphics.VSyncMode) error {
	if err := r.check("set_vsync"); err != nil {
		return err
	}
	if r.ctx.SetSwapInterval == nil {
		return nil
	}

	switch mode {
	case graphics.VSyncUncapped:
		return r.ctx.SetSwapInterval(0)
	case graphics.VSyncOn:
		return r.ctx.SetSwapInterval(1)
	default:
		if err := r.ctx.SetSwapInterval(-1); err != nil {
			slog.Warn("Failed to enable variable refresh rate, falling back to non-V-Sync", "error", err)
			return r.ctx.SetSwapInterval(0)
		}
	}
	return nil
}

// Close deletes the renderer's own GL objects and marks the context as gone.
// Textures created before become inert.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	gl := r.gl
	gl.BindFramebuffer(Framebuffer, 0)
	for _, p := range r.programs.all() {
		gl.DeleteProgram(p.id)
	}
	gl.DeleteBuffer(r.vbo)
	gl.DeleteBuffer(r.ebo)
	gl.DeleteFramebuffer(r.surfaceFB)
	gl.DeleteFramebuffer(r.rayFB)
	gl.DeleteTexture(r.surface)
	gl.DeleteTexture(r.rayTexture)
	gl.DeleteTexture(r.fontTexture)

	r.target = nil
	r.closed = true
	r.gen.Bump()
	slog.Info("OpenGL renderer closed")
	return nil
}
