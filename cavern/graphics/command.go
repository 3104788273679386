package graphics

// BlendMode selects how source pixels combine with the render target.
type BlendMode int

const (
	BlendNone BlendMode = iota
	BlendAdd
	BlendAlpha
	BlendMultiply
)

func (m BlendMode) String() string {
	switch m {
	case BlendNone:
		return "none"
	case BlendAdd:
		return "add"
	case BlendAlpha:
		return "alpha"
	case BlendMultiply:
		return "multiply"
	default:
		return "unknown"
	}
}

// Command is one entry of a sprite batch. Src is in source texture pixels,
// Dst in render target coordinates.
type Command interface {
	Quad() Quad
}

// Quad is the normalised form every command reduces to.
type Quad struct {
	Src          Rect[int]
	Dst          Rect[float32]
	FlipX, FlipY bool
	Color        Color
}

type DrawRect struct {
	Src Rect[int]
	Dst Rect[float32]
}

type DrawRectFlip struct {
	Src          Rect[int]
	Dst          Rect[float32]
	FlipX, FlipY bool
}

type DrawRectTinted struct {
	Src   Rect[int]
	Dst   Rect[float32]
	Color Color
}

type DrawRectFlipTinted struct {
	Src          Rect[int]
	Dst          Rect[float32]
	FlipX, FlipY bool
	Color        Color
}

func (c DrawRect) Quad() Quad {
	return Quad{Src: c.Src, Dst: c.Dst, Color: White}
}

func (c DrawRectFlip) Quad() Quad {
	return Quad{Src: c.Src, Dst: c.Dst, FlipX: c.FlipX, FlipY: c.FlipY, Color: White}
}

func (c DrawRectTinted) Quad() Quad {
	return Quad{Src: c.Src, Dst: c.Dst, Color: c.Color}
}

func (c DrawRectFlipTinted) Quad() Quad {
	return Quad{Src: c.Src, Dst: c.Dst, FlipX: c.FlipX, FlipY: c.FlipY, Color: c.Color}
}

// Vertices expands the quad into six vertices with UVs normalised against a
// texture of the given size. Flipping swaps the source edges.
func (q Quad) Vertices(texWidth, texHeight uint16) [6]Vertex {
	sx, sy := 1/float32(texWidth), 1/float32(texHeight)
	uv := Rect[float32]{
		Left:   float32(q.Src.Left) * sx,
		Top:    float32(q.Src.Top) * sy,
		Right:  float32(q.Src.Right) * sx,
		Bottom: float32(q.Src.Bottom) * sy,
	}
	if q.FlipX {
		uv.Left, uv.Right = uv.Right, uv.Left
	}
	if q.FlipY {
		uv.Top, uv.Bottom = uv.Bottom, uv.Top
	}
	return QuadVertices(q.Dst, uv, q.Color.Bytes())
}

// ShaderKind names the GPU program a triangle list is drawn with.
type ShaderKind int

const (
	ShaderFill ShaderKind = iota
	ShaderTexture
	ShaderWater
)

// Shader selects a program plus its per-draw uniforms. Only the water
// program reads Scale, Time and FrameOffset.
type Shader struct {
	Kind        ShaderKind
	Scale       float32
	Time        float32
	FrameOffset [2]float32
}

func FillShader() Shader    { return Shader{Kind: ShaderFill} }
func TextureShader() Shader { return Shader{Kind: ShaderTexture} }

// WaterShader displaces the current offscreen surface sinusoidally.
func WaterShader(scale, time, frameX, frameY float32) Shader {
	return Shader{Kind: ShaderWater, Scale: scale, Time: time, FrameOffset: [2]float32{frameX, frameY}}
}

// VSyncMode controls the swap interval of windowed backends.
type VSyncMode int

const (
	VSyncUncapped VSyncMode = iota
	VSyncOn
	VSyncAdaptive
)
