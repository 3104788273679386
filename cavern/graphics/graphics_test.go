package graphics_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-cavern/cavern/graphics"
)

func TestVertexLayout(t *testing.T) {
	assert.Equal(t, 20, graphics.VertexStride)
	assert.Equal(t, 0, graphics.VertexPositionOffset)
	assert.Equal(t, 8, graphics.VertexUVOffset)
	assert.Equal(t, 16, graphics.VertexColorOffset)
}

func TestColor(t *testing.T) {
	t.Run("byte round trip", func(t *testing.T) {
		for _, v := range []uint8{0, 1, 127, 128, 254, 255} {
			r, g, b, a := graphics.RGBA(v, v, v, v).ToRGBA()
			assert.Equal(t, [4]uint8{v, v, v, v}, [4]uint8{r, g, b, a})
		}
	})

	t.Run("argb packing", func(t *testing.T) {
		c := graphics.RGBA(0x11, 0x22, 0x33, 0x44)
		assert.Equal(t, uint32(0x44112233), c.ARGB())
		assert.Equal(t, c, graphics.FromARGB(c.ARGB()))
		assert.Equal(t, c, graphics.FromRGBAUint32(0x11223344))
	})

	t.Run("out of range channels clamp", func(t *testing.T) {
		r, g, _, _ := graphics.Color{R: 2, G: -1}.ToRGBA()
		assert.Equal(t, uint8(255), r)
		assert.Equal(t, uint8(0), g)
	})

	t.Run("hex", func(t *testing.T) {
		c, err := graphics.ParseHex("#ff8000")
		require.NoError(t, err)
		assert.Equal(t, graphics.RGB(255, 128, 0), c)
		assert.Equal(t, "#ff8000", c.Hex())

		c, err = graphics.ParseHex("#10203040")
		require.NoError(t, err)
		assert.Equal(t, graphics.RGBA(0x10, 0x20, 0x30, 0x40), c)
		assert.Equal(t, "#10203040", c.Hex())

		_, err = graphics.ParseHex("blue")
		assert.Error(t, err)
	})

	t.Run("text marshalling", func(t *testing.T) {
		var c graphics.Color
		require.NoError(t, c.UnmarshalText([]byte("#000020")))
		text, err := c.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, "#000020", string(text))
	})

	t.Run("lerp", func(t *testing.T) {
		mid := graphics.White.Lerp(graphics.Color{R: 0, G: 1, B: 1, A: 1}, 0.5)
		assert.InDelta(t, 0.5, mid.R, 1e-6)
		assert.InDelta(t, 1.0, mid.G, 1e-6)
		assert.InDelta(t, 1.0, mid.A, 1e-6)
	})
}

func TestRect(t *testing.T) {
	r := graphics.NewRectSize(10, 20, 30, 40)
	assert.Equal(t, graphics.NewRect(10, 20, 40, 60), r)
	assert.Equal(t, 30, r.Width())
	assert.Equal(t, 40, r.Height())
	assert.False(t, r.Empty())
	assert.True(t, graphics.NewRect(5, 5, 5, 10).Empty())

	assert.Equal(t, graphics.NewRect(20, 30, 40, 60), r.Intersect(graphics.NewRect(20, 30, 100, 100)))
	assert.True(t, r.Intersect(graphics.NewRect(100, 100, 200, 200)).Empty())
	assert.True(t, r.Contains(graphics.NewRect(15, 25, 20, 30)))

	f := graphics.ConvertRect[float32](r)
	assert.Equal(t, float32(30), f.Width())
}

func TestQuadVertices(t *testing.T) {
	src := graphics.NewRectSize(16, 0, 16, 16)
	dst := graphics.NewRectSize[float32](100, 50, 32, 32)

	t.Run("plain", func(t *testing.T) {
		verts := graphics.DrawRect{Src: src, Dst: dst}.Quad().Vertices(64, 32)
		// bottom-left corner
		assert.Equal(t, [2]float32{100, 82}, verts[0].Position)
		assert.Equal(t, [2]float32{0.25, 0.5}, verts[0].UV)
		// top-right corner
		assert.Equal(t, [2]float32{132, 50}, verts[2].Position)
		assert.Equal(t, [2]float32{0.5, 0}, verts[2].UV)
		assert.Equal(t, [4]uint8{255, 255, 255, 255}, verts[5].Color)
	})

	t.Run("flip swaps source edges", func(t *testing.T) {
		verts := graphics.DrawRectFlip{Src: src, Dst: dst, FlipX: true, FlipY: true}.Quad().Vertices(64, 32)
		assert.Equal(t, [2]float32{0.5, 0}, verts[0].UV)
		assert.Equal(t, [2]float32{0.25, 0.5}, verts[2].UV)
	})

	t.Run("tint", func(t *testing.T) {
		tint := graphics.RGBA(255, 0, 0, 128)
		verts := graphics.DrawRectFlipTinted{Src: src, Dst: dst, Color: tint}.Quad().Vertices(64, 32)
		assert.Equal(t, [4]uint8{255, 0, 0, 128}, verts[3].Color)
	})
}

func TestLightResolve(t *testing.T) {
	l := graphics.Light{}.Resolve(200, 100, 320, 240)
	assert.Equal(t, [2]float32{100, 50}, l.Center)
	assert.Equal(t, [2]float32{160, 120}, l.Dest)
	assert.Equal(t, float32(128), l.Radius)
	assert.Equal(t, graphics.White, l.ColorStart)

	custom := graphics.Light{Radius: 10, Center: [2]float32{1, 2}}.Resolve(200, 100, 320, 240)
	assert.Equal(t, float32(10), custom.Radius)
	assert.Equal(t, [2]float32{1, 2}, custom.Center)
}

func TestErrors(t *testing.T) {
	err := graphics.NewRenderError("set_render_target", graphics.ErrWrongBackend)
	assert.True(t, errors.Is(err, graphics.ErrWrongBackend))

	var renderErr *graphics.RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, "set_render_target", renderErr.Op)

	loadErr := &graphics.ResourceLoadError{Path: "/bkg/x.json", Err: errors.New("boom")}
	assert.Contains(t, loadErr.Error(), "/bkg/x.json")
}
