package gui

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/valerio/go-cavern/cavern/graphics"
)

const (
	firstGlyph   = 32
	lastGlyph    = 126
	atlasColumns = 16
	// whiteRows are fully opaque rows below the glyphs used for solid fills.
	whiteRows = 2

	maxListVertices = math.MaxUint16
)

// Context builds overlay draw data for one frame at a time. The font atlas
// is generated once; renderers upload it and report its TextureID back.
type Context struct {
	displaySize      [2]float32
	framebufferScale [2]float32

	atlas  *image.RGBA
	fontID TextureID
	glyphW int
	glyphH int
	ascent int

	clip  [4]float32
	lists []DrawList
}

// NewContext creates a context with the built-in font atlas.
func NewContext() *Context {
	face := basicfont.Face7x13
	c := &Context{
		glyphW:           face.Advance,
		glyphH:           face.Height,
		ascent:           face.Ascent,
		framebufferScale: [2]float32{1, 1},
	}
	c.atlas = buildAtlas(face, c.glyphW, c.glyphH, c.ascent)
	return c
}

func buildAtlas(face font.Face, glyphW, glyphH, ascent int) *image.RGBA {
	count := lastGlyph - firstGlyph + 1
	rows := (count + atlasColumns - 1) / atlasColumns
	w, h := atlasColumns*glyphW, rows*glyphH+whiteRows

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{Dst: img, Src: image.White, Face: face}
	for ch := firstGlyph; ch <= lastGlyph; ch++ {
		i := ch - firstGlyph
		x, y := (i%atlasColumns)*glyphW, (i/atlasColumns)*glyphH
		d.Dot = fixed.P(x, y+ascent)
		d.DrawString(string(rune(ch)))
	}
	draw.Draw(img, image.Rect(0, h-whiteRows, w, h), image.White, image.Point{}, draw.Src)
	return img
}

// FontAtlas returns the atlas as tightly packed RGBA8 bytes.
func (c *Context) FontAtlas() (width, height int, rgba []byte) {
	b := c.atlas.Bounds()
	return b.Dx(), b.Dy(), c.atlas.Pix
}

// SetFontTextureID records the id the renderer assigned to the atlas.
func (c *Context) SetFontTextureID(id TextureID) {
	c.fontID = id
}

func (c *Context) FontTextureID() TextureID {
	return c.fontID
}

// GlyphSize is the fixed advance and line height of the built-in font.
func (c *Context) GlyphSize() (int, int) {
	return c.glyphW, c.glyphH
}

// DisplaySize returns the size passed to the last NewFrame.
func (c *Context) DisplaySize() [2]float32 {
	return c.displaySize
}

// NewFrame discards the previous frame's geometry.
func (c *Context) NewFrame(width, height, scaleX, scaleY float32) {
	if scaleX <= 0 {
		scaleX = 1
	}
	if scaleY <= 0 {
		scaleY = 1
	}
	c.displaySize = [2]float32{width, height}
	c.framebufferScale = [2]float32{scaleX, scaleY}
	c.clip = [4]float32{0, 0, width, height}
	c.lists = c.lists[:0]
}

// SetClipRect restricts following primitives; nil resets to the display.
func (c *Context) SetClipRect(r *graphics.Rect[float32]) {
	if r == nil {
		c.clip = [4]float32{0, 0, c.displaySize[0], c.displaySize[1]}
		return
	}
	c.clip = [4]float32{r.Left, r.Top, r.Right, r.Bottom}
}

func (c *Context) whiteUV() graphics.Rect[float32] {
	b := c.atlas.Bounds()
	u := 0.5 / float32(b.Dx())
	v := (float32(b.Dy()) - 0.5) / float32(b.Dy())
	return graphics.Rect[float32]{Left: u, Top: v, Right: u, Bottom: v}
}

// AddRectFilled adds a solid rectangle.
func (c *Context) AddRectFilled(r graphics.Rect[float32], color graphics.Color) {
	c.addQuad(c.fontID, r, c.whiteUV(), color.Bytes())
}

// AddImage adds a textured rectangle.
func (c *Context) AddImage(id TextureID, r, uv graphics.Rect[float32], color graphics.Color) {
	c.addQuad(id, r, uv, color.Bytes())
}

// AddText draws a single line of ASCII text with its top-left at (x, y) and
// returns the advance. Characters outside the atlas render as '?'.
func (c *Context) AddText(x, y float32, color graphics.Color, text string) float32 {
	b := c.atlas.Bounds()
	aw, ah := float32(b.Dx()), float32(b.Dy())
	col := color.Bytes()

	cursor := x
	for _, ch := range text {
		if ch < firstGlyph || ch > lastGlyph {
			ch = '?'
		}
		if ch != ' ' {
			i := int(ch) - firstGlyph
			gx, gy := float32((i%atlasColumns)*c.glyphW), float32((i/atlasColumns)*c.glyphH)
			uv := graphics.Rect[float32]{
				Left:   gx / aw,
				Top:    gy / ah,
				Right:  (gx + float32(c.glyphW)) / aw,
				Bottom: (gy + float32(c.glyphH)) / ah,
			}
			c.addQuad(c.fontID, graphics.NewRectSize(cursor, y, float32(c.glyphW), float32(c.glyphH)), uv, col)
		}
		cursor += float32(c.glyphW)
	}
	return cursor - x
}

func (c *Context) current() *DrawList {
	if len(c.lists) == 0 || len(c.lists[len(c.lists)-1].Vertices)+4 > maxListVertices {
		c.lists = append(c.lists, DrawList{})
	}
	return &c.lists[len(c.lists)-1]
}

func (c *Context) addQuad(id TextureID, r, uv graphics.Rect[float32], col [4]uint8) {
	l := c.current()
	base := uint16(len(l.Vertices))

	l.Vertices = append(l.Vertices,
		graphics.NewVertex(r.Left, r.Top, uv.Left, uv.Top, col),
		graphics.NewVertex(r.Right, r.Top, uv.Right, uv.Top, col),
		graphics.NewVertex(r.Right, r.Bottom, uv.Right, uv.Bottom, col),
		graphics.NewVertex(r.Left, r.Bottom, uv.Left, uv.Bottom, col),
	)
	offset := len(l.Indices)
	l.Indices = append(l.Indices, base, base+1, base+2, base, base+2, base+3)

	if n := len(l.Commands); n > 0 {
		last := &l.Commands[n-1]
		if last.TextureID == id && last.ClipRect == c.clip {
			last.ElemCount += 6
			return
		}
	}
	l.Commands = append(l.Commands, DrawCmd{ElemCount: 6, IdxOffset: offset, ClipRect: c.clip, TextureID: id})
}

// Render finishes the frame. The returned data is valid until the next
// NewFrame.
func (c *Context) Render() *DrawData {
	return &DrawData{
		DisplaySize:      c.displaySize,
		FramebufferScale: c.framebufferScale,
		Lists:            c.lists,
	}
}
