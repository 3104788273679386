package software

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/valerio/go-cavern/cavern/backend"
	"github.com/valerio/go-cavern/cavern/canvas"
	"github.com/valerio/go-cavern/cavern/display"
	"github.com/valerio/go-cavern/cavern/graphics"
	"github.com/valerio/go-cavern/cavern/gui"
)

const name = "Software"

// state is shared between the renderer and the textures it created.
type state struct {
	main   *canvas.Canvas
	target *canvas.Canvas
	blend  graphics.BlendMode
	clip   *graphics.Rect[int]

	textures map[gui.TextureID]*canvas.Canvas
	nextID   gui.TextureID
	gen      backend.Generation
}

func (s *state) setTarget(c *canvas.Canvas) {
	if s.target != nil {
		s.target.SetClip(nil)
	}
	s.target = c
	s.target.SetClip(s.clip)
}

// Renderer draws everything on the CPU and hands finished frames to a
// Presenter.
type Renderer struct {
	state     *state
	presenter backend.Presenter
	gui       *gui.Context
	vsync     graphics.VSyncMode
	closed    bool
}

var _ backend.Renderer[*Texture] = (*Renderer)(nil)

// VSyncer is implemented by presenters that can pace their output.
type VSyncer interface {
	SetVSync(mode graphics.VSyncMode) error
}

// New creates a software renderer presenting through p.
func New(p backend.Presenter) (*Renderer, error) {
	if p == nil {
		return nil, errors.New("software renderer needs a presenter")
	}

	w, h := p.Size()
	if w <= 0 || h <= 0 {
		w, h = display.OffscreenWidth, display.OffscreenHeight
	}
	main := canvas.New(w, h)

	r := &Renderer{
		state: &state{
			main:     main,
			target:   main,
			blend:    graphics.BlendAlpha,
			textures: map[gui.TextureID]*canvas.Canvas{},
			nextID:   1,
		},
		presenter: p,
		gui:       gui.NewContext(),
	}

	aw, ah, atlas := r.gui.FontAtlas()
	font, err := canvas.FromRGBA(aw, ah, atlas)
	if err != nil {
		return nil, fmt.Errorf("failed to create font atlas: %w", err)
	}
	r.gui.SetFontTextureID(r.register(font))

	slog.Info("Renderer initialized", "backend", name, "width", w, "height", h)
	return r, nil
}

func (r *Renderer) register(c *canvas.Canvas) gui.TextureID {
	id := r.state.nextID
	r.state.nextID++
	r.state.textures[id] = c
	return id
}

func (r *Renderer) check(op string) error {
	if r.closed {
		return graphics.NewRenderError(op, graphics.ErrContextLost)
	}
	return nil
}

func (r *Renderer) own(op string, t *Texture) error {
	if t == nil {
		return nil
	}
	if t.state != r.state {
		return graphics.NewRenderError(op, graphics.ErrWrongBackend)
	}
	if !t.token.Valid() {
		return graphics.NewRenderError(op, graphics.ErrContextLost)
	}
	return nil
}

func (r *Renderer) Name() string {
	return name
}

// Main returns the canvas frames are composed on.
func (r *Renderer) Main() *canvas.Canvas {
	return r.state.main
}

func (r *Renderer) Clear(color graphics.Color) error {
	if err := r.check("clear"); err != nil {
		return err
	}
	canvas.ClearBlend(r.state.target, color, r.state.blend)
	return nil
}

func (r *Renderer) PrepareDraw(width, height int) error {
	if err := r.check("prepare_draw"); err != nil {
		return err
	}
	if width > 0 && height > 0 {
		r.state.main.Resize(width, height)
	}
	r.state.setTarget(r.state.main)
	r.state.main.Clear(0)
	return nil
}

func (r *Renderer) Present() error {
	if err := r.check("present"); err != nil {
		return err
	}
	if backend.Suspended() {
		return nil
	}

	if err := r.presenter.PushOut(r.state.main); err != nil {
		return graphics.NewRenderError("present", err)
	}

	w, h := r.presenter.Size()
	if w > 0 && h > 0 && (w != r.state.main.Width() || h != r.state.main.Height()) {
		slog.Debug("Presenter resized", "width", w, "height", h)
		r.state.main.Resize(w, h)
		r.state.setTarget(r.state.main)
	}
	return nil
}

func (r *Renderer) newTexture(c *canvas.Canvas) *Texture {
	return &Texture{
		canvas: c,
		state:  r.state,
		token:  r.state.gen.Token(),
		id:     r.register(c),
	}
}

func (r *Renderer) CreateTexture(width, height uint16, rgba []byte) (*Texture, error) {
	if err := r.check("create_texture"); err != nil {
		return nil, err
	}
	c, err := canvas.FromRGBA(int(width), int(height), rgba)
	if err != nil {
		return nil, graphics.NewRenderError("create_texture", err)
	}
	return r.newTexture(c), nil
}

func (r *Renderer) CreateTextureMutable(width, height uint16) (*Texture, error) {
	if err := r.check("create_texture_mutable"); err != nil {
		return nil, err
	}
	return r.newTexture(canvas.New(int(width), int(height))), nil
}

func (r *Renderer) SetRenderTarget(target *Texture) error {
	if err := r.check("set_render_target"); err != nil {
		return err
	}
	if err := r.own("set_render_target", target); err != nil {
		return err
	}
	if target == nil {
		r.state.setTarget(r.state.main)
	} else {
		r.state.setTarget(target.canvas)
	}
	return nil
}

func (r *Renderer) SetBlendMode(mode graphics.BlendMode) error {
	if err := r.check("set_blend_mode"); err != nil {
		return err
	}
	r.state.blend = mode
	return nil
}

func (r *Renderer) SetClipRect(rect *graphics.Rect[int]) error {
	if err := r.check("set_clip_rect"); err != nil {
		return err
	}
	if rect == nil {
		r.state.clip = nil
	} else {
		clip := *rect
		r.state.clip = &clip
	}
	r.state.target.SetClip(r.state.clip)
	return nil
}

func (r *Renderer) DrawRect(rect graphics.Rect[int], color graphics.Color) error {
	if err := r.check("draw_rect"); err != nil {
		return err
	}
	canvas.Fill(r.state.target, rect, color, r.state.blend)
	return nil
}

func (r *Renderer) DrawOutlineRect(rect graphics.Rect[int], lineWidth int, color graphics.Color) error {
	if err := r.check("draw_outline_rect"); err != nil {
		return err
	}
	canvas.OutlineRect(r.state.target, rect, lineWidth, color, r.state.blend)
	return nil
}

func (r *Renderer) DrawTriangleList(verts []graphics.Vertex, texture *Texture, shader graphics.Shader) error {
	if err := r.check("draw_triangle_list"); err != nil {
		return err
	}
	if err := r.own("draw_triangle_list", texture); err != nil {
		return err
	}

	switch shader.Kind {
	case graphics.ShaderWater:
		canvas.DrawWater(r.state.target, verts, shader, r.state.blend)
	case graphics.ShaderTexture:
		var tex *canvas.Canvas
		if texture != nil {
			tex = texture.canvas
		}
		canvas.DrawTriangles(r.state.target, verts, tex, r.state.blend)
	default:
		canvas.DrawTriangles(r.state.target, verts, nil, r.state.blend)
	}
	return nil
}

func (r *Renderer) DrawLight(collision, target *Texture, light graphics.Light) error {
	if err := r.check("draw_light"); err != nil {
		return err
	}
	if collision == nil {
		return graphics.NewRenderError("draw_light", errors.New("no collision texture"))
	}
	if err := r.own("draw_light", collision); err != nil {
		return err
	}
	if err := r.own("draw_light", target); err != nil {
		return err
	}

	dst := r.state.main
	if target != nil {
		dst = target.canvas
	}
	canvas.LightPass(dst, collision.canvas, light)
	return nil
}

func (r *Renderer) GUI() (*gui.Context, error) {
	if err := r.check("gui"); err != nil {
		return nil, err
	}
	return r.gui, nil
}

func (r *Renderer) GUITextureID(texture *Texture) (gui.TextureID, error) {
	if err := r.check("gui_texture_id"); err != nil {
		return 0, err
	}
	if texture == nil {
		return 0, graphics.NewRenderError("gui_texture_id", errors.New("no texture"))
	}
	if err := r.own("gui_texture_id", texture); err != nil {
		return 0, err
	}
	return texture.id, nil
}

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

	target := r.state.target
	defer target.SetClip(r.state.clip)

	for i := range data.Lists {
		list := &data.Lists[i]
		for _, cmd := range list.Commands {
			tex, ok := r.state.textures[cmd.TextureID]
			if !ok {
				slog.Debug("Skipping GUI command with unknown texture", "id", cmd.TextureID)
				continue
			}

			clip := graphics.Rect[int]{
				Left:   int(cmd.ClipRect[0] * sx),
				Top:    int(cmd.ClipRect[1] * sy),
				Right:  int(cmd.ClipRect[2] * sx),
				Bottom: int(cmd.ClipRect[3] * sy),
			}
			if r.state.clip != nil {
				clip = clip.Intersect(*r.state.clip)
			}
			target.SetClip(&clip)

			verts := list.Triangles(cmd)
			for j := range verts {
				verts[j].Position[0] *= sx
				verts[j].Position[1] *= sy
			}
			canvas.DrawTriangles(target, verts, tex, graphics.BlendAlpha)
		}
	}
	return nil
}

func (r *Renderer) SetVSync(mode graphics.VSyncMode) error {
	if err := r.check("set_vsync"); err != nil {
		return err
	}
	r.vsync = mode
	if v, ok := r.presenter.(VSyncer); ok {
		return v.SetVSync(mode)
	}
	return nil
}

// Close ends the renderer's generation; textures created before become inert.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.state.gen.Bump()
	r.state.textures = map[gui.TextureID]*canvas.Canvas{}
	slog.Info("Renderer closed", "backend", name)
	return nil
}
