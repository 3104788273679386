package canvas

import (
	"github.com/chewxy/math32"

	"github.com/valerio/go-cavern/cavern/graphics"
)

// Water displacement parameters, shared with the GPU water program.
const (
	WaterWaveFrequency = 0.25
	WaterWaveSpeed     = 0.1
	WaterAmplitude     = 0.004
)

// fragment is what a shading function receives for one covered pixel.
type fragment struct {
	x, y  int
	u, v  float32
	color [4]float32
}

// shadeFunc returns the source pixel and modulation for a fragment.
type shadeFunc func(f fragment) (src uint32, mod [4]uint8, ok bool)

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// topLeft reports whether pixels exactly on the edge a->b belong to the
// triangle, so shared edges are drawn once.
func topLeft(a, b graphics.Vertex) bool {
	dx := b.Position[0] - a.Position[0]
	dy := b.Position[1] - a.Position[1]
	return (dy == 0 && dx > 0) || dy < 0
}

func covers(w float32, a, b graphics.Vertex) bool {
	return w > 0 || (w == 0 && topLeft(a, b))
}

func rasterize(dst *Canvas, a, b, c graphics.Vertex, mode graphics.BlendMode, shade shadeFunc) {
	area := edge(a.Position[0], a.Position[1], b.Position[0], b.Position[1], c.Position[0], c.Position[1])
	if area == 0 {
		return
	}
	if area < 0 {
		b, c = c, b
		area = -area
	}

	bounds := dst.Bounds()
	minX := max(int(math32.Floor(min(a.Position[0], b.Position[0], c.Position[0]))), bounds.Left)
	minY := max(int(math32.Floor(min(a.Position[1], b.Position[1], c.Position[1]))), bounds.Top)
	maxX := min(int(math32.Ceil(max(a.Position[0], b.Position[0], c.Position[0]))), bounds.Right)
	maxY := min(int(math32.Ceil(max(a.Position[1], b.Position[1], c.Position[1]))), bounds.Bottom)

	for y := minY; y < maxY; y++ {
		py := float32(y) + 0.5
		row := dst.Index(0, y)
		for x := minX; x < maxX; x++ {
			px := float32(x) + 0.5

			wa := edge(b.Position[0], b.Position[1], c.Position[0], c.Position[1], px, py)
			wb := edge(c.Position[0], c.Position[1], a.Position[0], a.Position[1], px, py)
			wc := edge(a.Position[0], a.Position[1], b.Position[0], b.Position[1], px, py)
			if !covers(wa, b, c) || !covers(wb, c, a) || !covers(wc, a, b) {
				continue
			}

			la, lb, lc := wa/area, wb/area, wc/area
			f := fragment{
				x: x,
				y: y,
				u: la*a.UV[0] + lb*b.UV[0] + lc*c.UV[0],
				v: la*a.UV[1] + lb*b.UV[1] + lc*c.UV[1],
			}
			for i := range f.color {
				f.color[i] = (la*float32(a.Color[i]) + lb*float32(b.Color[i]) + lc*float32(c.Color[i])) / 255
			}

			src, mod, ok := shade(f)
			if !ok {
				continue
			}
			dst.buffer[row+x] = BlendPixel(src, dst.buffer[row+x], mode, mod)
		}
	}
}

func toBytes(c [4]float32) [4]uint8 {
	var out [4]uint8
	for i, v := range c {
		out[i] = uint8(math32.Max(0, math32.Min(1, v))*255 + 0.5)
	}
	return out
}

// sampleNearest reads a texel with clamp-to-edge addressing.
func sampleNearest(tex *Canvas, u, v float32) uint32 {
	x := int(math32.Floor(u * float32(tex.width)))
	y := int(math32.Floor(v * float32(tex.height)))
	x = max(0, min(x, tex.width-1))
	y = max(0, min(y, tex.height-1))
	return tex.At(x, y)
}

// DrawTriangles rasterizes a triangle list. With a nil texture the vertex
// colours are drawn directly, otherwise texels are modulated by them.
func DrawTriangles(dst *Canvas, verts []graphics.Vertex, tex *Canvas, mode graphics.BlendMode) {
	var shade shadeFunc
	if tex == nil || tex.width == 0 || tex.height == 0 {
		shade = func(f fragment) (uint32, [4]uint8, bool) {
			col := toBytes(f.color)
			return graphics.RGBA(col[0], col[1], col[2], col[3]).ARGB(), White, true
		}
	} else {
		shade = func(f fragment) (uint32, [4]uint8, bool) {
			return sampleNearest(tex, f.u, f.v), toBytes(f.color), true
		}
	}

	for i := 0; i+2 < len(verts); i += 3 {
		rasterize(dst, verts[i], verts[i+1], verts[i+2], mode, shade)
	}
}

// WaterOffset is the horizontal UV displacement for a fragment at
// framebuffer row fragY.
func WaterOffset(fragY float32, shader graphics.Shader) float32 {
	scale := shader.Scale
	if scale <= 0 {
		scale = 1
	}
	world := fragY/scale + shader.FrameOffset[1]
	return math32.Sin(world*WaterWaveFrequency+shader.Time*WaterWaveSpeed) * WaterAmplitude
}

// DrawWater rasterizes a triangle list that resamples the target itself,
// displaced by the water wave. Reads come from a snapshot taken before the
// first triangle.
func DrawWater(dst *Canvas, verts []graphics.Vertex, shader graphics.Shader, mode graphics.BlendMode) {
	if dst.width == 0 || dst.height == 0 {
		return
	}
	snapshot := dst.Clone()
	shade := func(f fragment) (uint32, [4]uint8, bool) {
		// GL framebuffer rows count from the bottom.
		fragY := float32(dst.height-f.y) - 0.5
		u := f.u + WaterOffset(fragY, shader)
		return sampleNearest(snapshot, u, f.v), toBytes(f.color), true
	}

	for i := 0; i+2 < len(verts); i += 3 {
		rasterize(dst, verts[i], verts[i+1], verts[i+2], mode, shade)
	}
}
