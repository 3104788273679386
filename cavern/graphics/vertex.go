package graphics

import "unsafe"

// Vertex is the layout shared by every GPU program: two float position
// components, two float UV components and four colour bytes, tightly packed.
type Vertex struct {
	Position [2]float32
	UV       [2]float32
	Color    [4]uint8
}

// Layout of Vertex as seen by the attribute bindings.
var (
	VertexStride         = int(unsafe.Sizeof(Vertex{}))
	VertexPositionOffset = int(unsafe.Offsetof(Vertex{}.Position))
	VertexUVOffset       = int(unsafe.Offsetof(Vertex{}.UV))
	VertexColorOffset    = int(unsafe.Offsetof(Vertex{}.Color))
)

// NewVertex is a shorthand used by quad builders.
func NewVertex(x, y, u, v float32, color [4]uint8) Vertex {
	return Vertex{Position: [2]float32{x, y}, UV: [2]float32{u, v}, Color: color}
}

// QuadVertices returns the two triangles covering dst with the given UVs.
// Winding follows the GPU path: bottom-left, top-left, top-right, then
// bottom-left, top-right, bottom-right.
func QuadVertices(dst Rect[float32], uv Rect[float32], color [4]uint8) [6]Vertex {
	return [6]Vertex{
		NewVertex(dst.Left, dst.Bottom, uv.Left, uv.Bottom, color),
		NewVertex(dst.Left, dst.Top, uv.Left, uv.Top, color),
		NewVertex(dst.Right, dst.Top, uv.Right, uv.Top, color),
		NewVertex(dst.Left, dst.Bottom, uv.Left, uv.Bottom, color),
		NewVertex(dst.Right, dst.Top, uv.Right, uv.Top, color),
		NewVertex(dst.Right, dst.Bottom, uv.Right, uv.Bottom, color),
	}
}
