package canvas

import (
	"fmt"

	"github.com/valerio/go-cavern/cavern/display"
	"github.com/valerio/go-cavern/cavern/graphics"
)

// Canvas is a CPU-side framebuffer of packed ARGB pixels.
type Canvas struct {
	width  int
	height int
	buffer []uint32

	clip    graphics.Rect[int]
	clipped bool
}

// New creates a transparent canvas with the specified size.
func New(width, height int) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Canvas{
		width:  width,
		height: height,
		buffer: make([]uint32, width*height),
	}
}

// FromRGBA builds a canvas from tightly packed RGBA8 bytes.
func FromRGBA(width, height int, data []byte) (*Canvas, error) {
	need := width * height * display.BytesPerPixel
	if len(data) < need {
		return nil, fmt.Errorf("texture data too short: have %d bytes, need %d", len(data), need)
	}

	c := New(width, height)
	for i := range c.buffer {
		p := data[i*display.BytesPerPixel:]
		r, g, b, a := uint32(p[0]), uint32(p[1]), uint32(p[2]), uint32(p[3])
		c.buffer[i] = b<<display.ARGBBlueShift |
			g<<display.ARGBGreenShift |
			r<<display.ARGBRedShift |
			a<<display.ARGBAlphaShift
	}
	return c, nil
}

func (c *Canvas) Width() int {
	return c.width
}

func (c *Canvas) Height() int {
	return c.height
}

// Pixels exposes the backing buffer, row-major.
func (c *Canvas) Pixels() []uint32 {
	return c.buffer
}

// Index returns the buffer index of (x, y).
func (c *Canvas) Index(x, y int) int {
	return y*c.width + x
}

func (c *Canvas) At(x, y int) uint32 {
	return c.buffer[y*c.width+x]
}

func (c *Canvas) Set(x, y int, argb uint32) {
	c.buffer[y*c.width+x] = argb
}

// Clear overwrites every pixel, ignoring the clip rect.
func (c *Canvas) Clear(argb uint32) {
	for i := range c.buffer {
		c.buffer[i] = argb
	}
}

// Resize reallocates the canvas. Contents are discarded.
func (c *Canvas) Resize(width, height int) {
	if width == c.width && height == c.height {
		return
	}
	fresh := New(width, height)
	c.width, c.height, c.buffer = fresh.width, fresh.height, fresh.buffer
}

// SetClip restricts drawing to rect; nil removes the restriction.
func (c *Canvas) SetClip(rect *graphics.Rect[int]) {
	if rect == nil {
		c.clipped = false
		return
	}
	c.clip = *rect
	c.clipped = true
}

// Clip returns the current clip rect, if any.
func (c *Canvas) Clip() (graphics.Rect[int], bool) {
	return c.clip, c.clipped
}

// Bounds is the drawable area: the full canvas intersected with the clip rect.
func (c *Canvas) Bounds() graphics.Rect[int] {
	full := graphics.NewRect(0, 0, c.width, c.height)
	if !c.clipped {
		return full
	}
	return full.Intersect(c.clip)
}

// Clone returns a deep copy without the clip rect.
func (c *Canvas) Clone() *Canvas {
	out := New(c.width, c.height)
	copy(out.buffer, c.buffer)
	return out
}
