package backend

import (
	"github.com/valerio/go-cavern/cavern/canvas"
	"github.com/valerio/go-cavern/cavern/graphics"
	"github.com/valerio/go-cavern/cavern/gui"
)

// Texture is a sprite batch bound to the renderer that created it.
// Commands queue up through Add and are rasterised in insertion order by
// Draw, which also drains the queue.
type Texture interface {
	Dimensions() (uint16, uint16)
	Add(cmd graphics.Command)
	Clear()
	Draw() error
	// Release frees the texture. It is a no-op once the renderer was closed.
	Release()
}

// Handle is a texture type that can be compared against its zero value,
// which stands for "no texture" or "the offscreen surface".
type Handle interface {
	Texture
	comparable
}

// Renderer is the capability surface both the GPU and the CPU backend
// implement. T is the backend's own texture type.
type Renderer[T Handle] interface {
	Name() string

	Clear(color graphics.Color) error
	// PrepareDraw starts a frame for a window of the given size.
	PrepareDraw(width, height int) error
	// Present shows the offscreen surface. Skipped while suspended.
	Present() error

	CreateTexture(width, height uint16, rgba []byte) (T, error)
	CreateTextureMutable(width, height uint16) (T, error)
	// SetRenderTarget redirects drawing; the zero T restores the offscreen surface.
	SetRenderTarget(target T) error

	SetBlendMode(mode graphics.BlendMode) error
	SetClipRect(rect *graphics.Rect[int]) error

	DrawRect(rect graphics.Rect[int], color graphics.Color) error
	DrawOutlineRect(rect graphics.Rect[int], lineWidth int, color graphics.Color) error
	// DrawTriangleList draws vertices with the given program. A zero texture
	// draws untextured.
	DrawTriangleList(verts []graphics.Vertex, texture T, shader graphics.Shader) error
	DrawLight(collision, target T, light graphics.Light) error

	GUI() (*gui.Context, error)
	GUITextureID(texture T) (gui.TextureID, error)
	RenderGUI(data *gui.DrawData) error

	SetVSync(mode graphics.VSyncMode) error
	Close() error
}

// Presenter receives finished software frames.
type Presenter interface {
	// Size is the output size in pixels; the renderer resizes its main
	// canvas to match.
	Size() (int, int)
	PushOut(frame *canvas.Canvas) error
}

// Window is a platform layer: it owns the event loop of the host window,
// terminal or headless run.
type Window interface {
	Init(config Config) error
	// Update pumps pending platform events.
	Update() error
	Size() (int, int)
	Cleanup() error
}

// Config holds configuration for windows
type Config struct {
	Title      string
	Width      int
	Height     int
	Scale      int
	VSync      bool
	Fullscreen bool
	Callbacks  Callbacks
}

// Callbacks allows windows to communicate with the driver
type Callbacks struct {
	OnQuit    func()
	OnSuspend func(suspended bool)
	OnResize  func(width, height int)
}

// Quit reports a quit request.
func (c Callbacks) Quit() {
	if c.OnQuit != nil {
		c.OnQuit()
	}
}

// Suspend records the new suspension state process-wide and reports changes.
func (c Callbacks) Suspend(v bool) {
	if Suspended() == v {
		return
	}
	SetSuspended(v)
	if c.OnSuspend != nil {
		c.OnSuspend(v)
	}
}

// Resize reports a new window size.
func (c Callbacks) Resize(w, h int) {
	if c.OnResize != nil {
		c.OnResize(w, h)
	}
}
