package backend

import (
	"github.com/valerio/go-cavern/cavern/graphics"
	"github.com/valerio/go-cavern/cavern/gui"
)

// Dynamic is a renderer whose texture type is only known at run time.
type Dynamic = Renderer[Texture]

type erased[T Handle] struct {
	r Renderer[T]
}

// Erase hides a renderer's texture type so callers can hold either backend.
// Textures from another backend are rejected with ErrWrongBackend.
func Erase[T Handle](r Renderer[T]) Dynamic {
	return erased[T]{r: r}
}

// Unerase returns the renderer wrapped by Erase, if d is one of T.
func Unerase[T Handle](d Dynamic) (Renderer[T], bool) {
	e, ok := d.(erased[T])
	if !ok {
		return nil, false
	}
	return e.r, true
}

func cast[T Handle](op string, t Texture) (T, error) {
	var zero T
	if t == nil {
		return zero, nil
	}
	v, ok := t.(T)
	if !ok {
		return zero, graphics.NewRenderError(op, graphics.ErrWrongBackend)
	}
	return v, nil
}

func wrap[T Handle](t T, err error) (Texture, error) {
	if err != nil {
		return nil, err
	}
	var zero T
	if t == zero {
		return nil, nil
	}
	return t, nil
}

func (e erased[T]) Name() string { return e.r.Name() }

func (e erased[T]) Clear(color graphics.Color) error { return e.r.Clear(color) }

func (e erased[T]) PrepareDraw(width, height int) error { return e.r.PrepareDraw(width, height) }

func (e erased[T]) Present() error { return e.r.Present() }

func (e erased[T]) CreateTexture(width, height uint16, rgba []byte) (Texture, error) {
	return wrap[T](e.r.CreateTexture(width, height, rgba))
}

func (e erased[T]) CreateTextureMutable(width, height uint16) (Texture, error) {
	return wrap[T](e.r.CreateTextureMutable(width, height))
}

func (e erased[T]) SetRenderTarget(target Texture) error {
	t, err := cast[T]("set_render_target", target)
	if err != nil {
		return err
	}
	return e.r.SetRenderTarget(t)
}

func (e erased[T]) SetBlendMode(mode graphics.BlendMode) error { return e.r.SetBlendMode(mode) }

func (e erased[T]) SetClipRect(rect *graphics.Rect[int]) error { return e.r.SetClipRect(rect) }

func (e erased[T]) DrawRect(rect graphics.Rect[int], color graphics.Color) error {
	return e.r.DrawRect(rect, color)
}

func (e erased[T]) DrawOutlineRect(rect graphics.Rect[int], lineWidth int, color graphics.Color) error {
	return e.r.DrawOutlineRect(rect, lineWidth, color)
}

func (e erased[T]) DrawTriangleList(verts []graphics.Vertex, texture Texture, shader graphics.Shader) error {
	t, err := cast[T]("draw_triangle_list", texture)
	if err != nil {
		return err
	}
	return e.r.DrawTriangleList(verts, t, shader)
}

func (e erased[T]) DrawLight(collision, target Texture, light graphics.Light) error {
	c, err := cast[T]("draw_light", collision)
	if err != nil {
		return err
	}
	t, err := cast[T]("draw_light", target)
	if err != nil {
		return err
	}
	return e.r.DrawLight(c, t, light)
}

func (e erased[T]) GUI() (*gui.Context, error) { return e.r.GUI() }

func (e erased[T]) GUITextureID(texture Texture) (gui.TextureID, error) {
	t, err := cast[T]("gui_texture_id", texture)
	if err != nil {
		return 0, err
	}
	return e.r.GUITextureID(t)
}

func (e erased[T]) RenderGUI(data *gui.DrawData) error { return e.r.RenderGUI(data) }

func (e erased[T]) SetVSync(mode graphics.VSyncMode) error { return e.r.SetVSync(mode) }

func (e erased[T]) Close() error { return e.r.Close() }
