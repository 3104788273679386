package canvas

import (
	"bytes"
	"image/png"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-cavern/cavern/graphics"
)

func argb(a, r, g, b uint32) uint32 {
	return pack(a, r, g, b)
}

func unpack(v uint32) (a, r, g, b uint32) {
	return v >> 24 & 0xFF, v >> 16 & 0xFF, v >> 8 & 0xFF, v & 0xFF
}

func TestBlendPixel(t *testing.T) {
	t.Run("alpha zero keeps destination", func(t *testing.T) {
		dst := argb(200, 10, 20, 30)
		assert.Equal(t, dst, BlendPixel(argb(0, 255, 255, 255), dst, graphics.BlendAlpha, White))
	})

	t.Run("opaque source replaces destination", func(t *testing.T) {
		src := argb(255, 1, 2, 3)
		assert.Equal(t, src, BlendPixel(src, argb(255, 90, 90, 90), graphics.BlendAlpha, White))
	})

	t.Run("half transparent red over opaque blue", func(t *testing.T) {
		out := BlendPixel(argb(128, 255, 0, 0), argb(255, 0, 0, 255), graphics.BlendAlpha, White)
		a, r, g, b := unpack(out)
		assert.Equal(t, uint32(255), a)
		assert.InDelta(t, 128, r, 1)
		assert.Equal(t, uint32(0), g)
		assert.InDelta(t, 128, b, 2)
	})

	t.Run("add saturates per channel", func(t *testing.T) {
		out := BlendPixel(argb(255, 200, 10, 0), argb(255, 100, 20, 0), graphics.BlendAdd, White)
		assert.Equal(t, argb(255, 255, 30, 0), out)
	})

	t.Run("multiply by white is identity", func(t *testing.T) {
		dst := argb(255, 12, 34, 56)
		assert.Equal(t, dst, BlendPixel(argb(255, 255, 255, 255), dst, graphics.BlendMultiply, White))
	})

	t.Run("none returns source", func(t *testing.T) {
		src := argb(7, 8, 9, 10)
		assert.Equal(t, src, BlendPixel(src, argb(255, 0, 0, 0), graphics.BlendNone, [4]uint8{}))
	})

	t.Run("modulation scales the result", func(t *testing.T) {
		out := BlendPixel(argb(255, 200, 200, 200), 0, graphics.BlendAlpha, [4]uint8{255, 0, 255, 255})
		_, r, g, b := unpack(out)
		assert.Equal(t, uint32(200), r)
		assert.Equal(t, uint32(0), g)
		assert.Equal(t, uint32(200), b)
	})
}

func TestBlendPixelAllBytes(t *testing.T) {
	// Every pair of channel values, spread over all four channels so each
	// channel sees every byte on both sides.
	each := func(check func(s, d uint32) bool) {
		for s := uint32(0); s <= 0xFF; s++ {
			for d := uint32(0); d <= 0xFF; d++ {
				if !check(s, d) {
					return
				}
			}
		}
	}

	t.Run("alpha zero keeps destination", func(t *testing.T) {
		each(func(s, d uint32) bool {
			dst := argb(d, d, 0xFF-d, s)
			return assert.Equal(t, dst, BlendPixel(argb(0, s, 0xFF-s, d), dst, graphics.BlendAlpha, White), "s=%d d=%d", s, d)
		})
	})

	t.Run("opaque source replaces destination", func(t *testing.T) {
		each(func(s, d uint32) bool {
			src := argb(0xFF, s, 0xFF-s, d)
			return assert.Equal(t, src, BlendPixel(src, argb(d, d, s, 0xFF-d), graphics.BlendAlpha, White), "s=%d d=%d", s, d)
		})
	})

	t.Run("add saturates per channel", func(t *testing.T) {
		each(func(s, d uint32) bool {
			src := argb(s, s, d, 0xFF-s)
			dst := argb(d, d, s, d)
			want := argb(d, min(s+d, 0xFF), min(s+d, 0xFF), min(0xFF-s+d, 0xFF))
			return assert.Equal(t, want, BlendPixel(src, dst, graphics.BlendAdd, White), "s=%d d=%d", s, d)
		})
	})

	t.Run("multiply by white is identity", func(t *testing.T) {
		each(func(s, d uint32) bool {
			dst := argb(d, d, 0xFF-d, s)
			return assert.Equal(t, dst, BlendPixel(argb(s, 0xFF, 0xFF, 0xFF), dst, graphics.BlendMultiply, White), "s=%d d=%d", s, d)
		})
	})

	t.Run("random pixels", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 10000; i++ {
			src, dst := rng.Uint32(), rng.Uint32()
			sa, sr, sg, sb := unpack(src)
			da, dr, dg, db := unpack(dst)

			transparent := src &^ 0xFF000000
			require.Equal(t, dst, BlendPixel(transparent, dst, graphics.BlendAlpha, White))
			opaque := src | 0xFF000000
			require.Equal(t, opaque, BlendPixel(opaque, dst, graphics.BlendAlpha, White))
			require.Equal(t, argb(da, min(sr+dr, 0xFF), min(sg+dg, 0xFF), min(sb+db, 0xFF)),
				BlendPixel(src, dst, graphics.BlendAdd, White))
			require.Equal(t, dst, BlendPixel(argb(sa, 0xFF, 0xFF, 0xFF), dst, graphics.BlendMultiply, White))
		}
	})
}

func TestTrim(t *testing.T) {
	bounds := graphics.NewRect(0, 0, 100, 80)

	tests := []struct {
		name    string
		src     graphics.Rect[int]
		x, y    int
		want    graphics.Rect[int]
		wantX   int
		wantY   int
		visible bool
	}{
		{"fully inside", graphics.NewRect(0, 0, 10, 10), 5, 5, graphics.NewRect(0, 0, 10, 10), 5, 5, true},
		{"left edge", graphics.NewRect(0, 0, 10, 10), -4, 0, graphics.NewRect(4, 0, 10, 10), 0, 0, true},
		{"bottom right corner", graphics.NewRect(16, 16, 32, 32), 95, 70, graphics.NewRect(16, 16, 21, 26), 95, 70, true},
		{"off to the right", graphics.NewRect(0, 0, 10, 10), 100, 0, graphics.Rect[int]{}, 0, 0, false},
		{"touching the left edge", graphics.NewRect(0, 0, 10, 10), -10, 0, graphics.Rect[int]{}, 0, 0, false},
		{"zero width", graphics.NewRect(5, 0, 5, 10), 0, 0, graphics.Rect[int]{}, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, x, y, ok := Trim(tt.src, bounds, tt.x, tt.y)
			assert.Equal(t, tt.visible, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantX, x)
			assert.Equal(t, tt.wantY, y)
		})
	}

	t.Run("result stays inside source and bounds", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		for i := 0; i < 2000; i++ {
			src := graphics.NewRectSize(rng.Intn(32), rng.Intn(32), rng.Intn(64), rng.Intn(64))
			x, y := rng.Intn(240)-70, rng.Intn(200)-70

			placed := graphics.NewRectSize(x, y, src.Width(), src.Height())
			got, nx, ny, ok := Trim(src, bounds, x, y)
			require.Equal(t, !placed.Intersect(bounds).Empty(), ok, "src %v at %d,%d", src, x, y)
			if !ok {
				continue
			}
			assert.True(t, src.Contains(got))
			assert.True(t, bounds.Contains(graphics.NewRectSize(nx, ny, got.Width(), got.Height())))
		}
	})
}

func TestDrawRectAndFill(t *testing.T) {
	t.Run("fill has exclusive edges", func(t *testing.T) {
		c := New(4, 4)
		Fill(c, graphics.NewRect(1, 1, 3, 3), graphics.RGB(255, 0, 0), graphics.BlendNone)
		count := 0
		for _, px := range c.Pixels() {
			if px != 0 {
				count++
			}
		}
		assert.Equal(t, 4, count)
		assert.Equal(t, uint32(0xFFFF0000), c.At(1, 1))
		assert.Equal(t, uint32(0), c.At(3, 3))
	})

	t.Run("clip restricts drawing", func(t *testing.T) {
		c := New(4, 4)
		c.SetClip(&graphics.Rect[int]{Left: 2, Top: 0, Right: 4, Bottom: 1})
		Fill(c, graphics.NewRect(0, 0, 4, 4), graphics.White, graphics.BlendNone)
		assert.Equal(t, uint32(0), c.At(1, 0))
		assert.Equal(t, uint32(0xFFFFFFFF), c.At(2, 0))
		assert.Equal(t, uint32(0), c.At(2, 1))

		c.SetClip(nil)
		Fill(c, graphics.NewRect(0, 0, 4, 4), graphics.White, graphics.BlendNone)
		assert.Equal(t, uint32(0xFFFFFFFF), c.At(0, 3))
	})

	t.Run("unscaled copy trims against the target", func(t *testing.T) {
		src, err := FromRGBA(2, 2, []byte{
			255, 0, 0, 255, 0, 255, 0, 255,
			0, 0, 255, 255, 255, 255, 255, 255,
		})
		require.NoError(t, err)

		dst := New(3, 3)
		DrawRect(dst, src, graphics.NewRect(0, 0, 2, 2), -1, 2, graphics.BlendNone, White)
		assert.Equal(t, uint32(0xFF00FF00), dst.At(0, 2))
		assert.Equal(t, uint32(0), dst.At(1, 2))
	})

	t.Run("short texture data is rejected", func(t *testing.T) {
		_, err := FromRGBA(2, 2, make([]byte, 15))
		assert.Error(t, err)
	})
}

func TestDrawScaled(t *testing.T) {
	src := New(2, 1)
	a, b := argb(255, 255, 0, 0), argb(255, 0, 0, 255)
	src.Set(0, 0, a)
	src.Set(1, 0, b)
	full := graphics.NewRect(0, 0, 2, 1)

	row := func(c *Canvas) []uint32 {
		return append([]uint32(nil), c.Pixels()[:c.Width()]...)
	}

	t.Run("doubles each texel", func(t *testing.T) {
		dst := New(4, 1)
		DrawScaled(dst, src, full, graphics.NewRect(0, 0, 4, 1), false, false, graphics.BlendNone, White)
		assert.Equal(t, []uint32{a, a, b, b}, row(dst))
	})

	t.Run("flip mirrors the mapping", func(t *testing.T) {
		dst := New(4, 1)
		DrawScaled(dst, src, full, graphics.NewRect(0, 0, 4, 1), true, false, graphics.BlendNone, White)
		assert.Equal(t, []uint32{b, b, a, a}, row(dst))
	})

	t.Run("clipped destination keeps alignment", func(t *testing.T) {
		dst := New(4, 1)
		DrawScaled(dst, src, full, graphics.NewRect(-2, 0, 2, 1), false, false, graphics.BlendNone, White)
		assert.Equal(t, []uint32{b, b, 0, 0}, row(dst))
	})

	t.Run("quad with matching size takes the copy path", func(t *testing.T) {
		dst := New(4, 1)
		q := graphics.DrawRect{Src: full, Dst: graphics.NewRectSize[float32](1, 0, 2, 1)}.Quad()
		DrawQuad(dst, src, q, graphics.BlendAlpha)
		assert.Equal(t, []uint32{0, a, b, 0}, row(dst))
	})
}

func TestDrawTriangles(t *testing.T) {
	quad := graphics.NewRectSize[float32](0, 0, 4, 4)
	unit := graphics.NewRect[float32](0, 0, 1, 1)

	t.Run("shared edges are covered once", func(t *testing.T) {
		dst := New(6, 6)
		dst.Clear(argb(255, 0, 0, 0))
		verts := graphics.QuadVertices(quad, unit, [4]uint8{100, 0, 0, 255})
		DrawTriangles(dst, verts[:], nil, graphics.BlendAdd)

		for y := 0; y < 6; y++ {
			for x := 0; x < 6; x++ {
				_, r, _, _ := unpack(dst.At(x, y))
				if x < 4 && y < 4 {
					assert.Equal(t, uint32(100), r, "pixel %d,%d", x, y)
				} else {
					assert.Equal(t, uint32(0), r, "pixel %d,%d", x, y)
				}
			}
		}
	})

	t.Run("textured quad samples nearest texels", func(t *testing.T) {
		tex := New(2, 2)
		tex.Set(0, 0, argb(255, 1, 0, 0))
		tex.Set(1, 0, argb(255, 2, 0, 0))
		tex.Set(0, 1, argb(255, 3, 0, 0))
		tex.Set(1, 1, argb(255, 4, 0, 0))

		dst := New(4, 4)
		verts := graphics.QuadVertices(quad, unit, [4]uint8{255, 255, 255, 255})
		DrawTriangles(dst, verts[:], tex, graphics.BlendNone)

		assert.Equal(t, tex.At(0, 0), dst.At(1, 1))
		assert.Equal(t, tex.At(1, 0), dst.At(2, 0))
		assert.Equal(t, tex.At(0, 1), dst.At(0, 3))
		assert.Equal(t, tex.At(1, 1), dst.At(3, 3))
	})

	t.Run("water resamples the target", func(t *testing.T) {
		dst := New(8, 8)
		dst.Clear(argb(255, 0, 0, 200))
		verts := graphics.QuadVertices(graphics.NewRectSize[float32](0, 0, 8, 8), unit, [4]uint8{255, 255, 255, 255})
		DrawWater(dst, verts[:], graphics.WaterShader(1, 0, 0, 0), graphics.BlendNone)
		assert.Equal(t, argb(255, 0, 0, 200), dst.At(4, 4))
	})
}

func TestLightPass(t *testing.T) {
	t.Run("empty collision lights a disk", func(t *testing.T) {
		collision := New(200, 100)
		dst := New(320, 240)
		LightPass(dst, collision, graphics.Light{})

		_, r, g, b := unpack(dst.At(160, 120))
		assert.InDelta(t, 255, r, 2)
		assert.Equal(t, [2]uint32{255, 255}, [2]uint32{g, b})

		_, r, g, b = unpack(dst.At(260, 120))
		assert.InDelta(t, 55, r, 2)
		assert.Equal(t, uint32(255), g)
		assert.Equal(t, uint32(255), b)

		assert.Equal(t, argb(255, 0, 0, 0), dst.At(0, 0))
		assert.Equal(t, argb(255, 0, 0, 0), dst.At(300, 120))
	})

	t.Run("occluder casts a shadow", func(t *testing.T) {
		collision := New(200, 100)
		Fill(collision, graphics.NewRect(110, 0, 200, 100), graphics.White, graphics.BlendNone)
		dst := New(320, 240)
		LightPass(dst, collision, graphics.Light{})

		assert.Equal(t, argb(255, 0, 0, 0), dst.At(210, 120))
		assert.NotEqual(t, argb(255, 0, 0, 0), dst.At(110, 120))
	})

	t.Run("distance encoding round trips", func(t *testing.T) {
		for _, d := range []int{0, 1, 255, 256, 511} {
			got, hit := DecodeDistance(EncodeDistance(d, d%2 == 1))
			assert.Equal(t, d, got)
			assert.Equal(t, d%2 == 1, hit)
		}
	})

	t.Run("ray index inverts ray angle", func(t *testing.T) {
		for _, i := range []int{0, 1, 100, 4095} {
			assert.Equal(t, i, RayIndex(RayAngle(i, 4096)+1e-4, 4096))
		}
	})
}

func TestEncode(t *testing.T) {
	c := New(2, 2)
	c.Set(1, 0, argb(255, 10, 20, 30))

	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf, FormatPNG))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	r, g, b, _ := img.At(1, 0).RGBA()
	assert.Equal(t, []uint32{10, 20, 30}, []uint32{r >> 8, g >> 8, b >> 8})

	buf.Reset()
	require.NoError(t, c.Encode(&buf, FormatBMP))
	assert.Equal(t, "BM", buf.String()[:2])

	dir := t.TempDir()
	path, err := c.SaveToDir("frame", dir, FormatPNG)
	require.NoError(t, err)
	assert.Contains(t, path, dir)
}
