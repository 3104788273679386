package graphics

import "github.com/valerio/go-cavern/cavern/display"

// Light describes one radial light for the light pass. Center is in
// collision texture pixels, Dest in destination texture pixels.
type Light struct {
	Center     [2]float32
	Radius     float32
	Dest       [2]float32
	ColorStart Color
	ColorEdge  Color
}

var (
	defaultLightStart = Color{R: 1, G: 1, B: 1, A: 1}
	defaultLightEdge  = Color{R: 0, G: 1, B: 1, A: 1}
)

// Resolve fills unset fields: the light sits in the middle of both
// textures with the default radius and a white to cyan falloff.
func (l Light) Resolve(colW, colH, dstW, dstH uint16) Light {
	if l.Radius <= 0 {
		l.Radius = display.DefaultLightRadius
	}
	if l.Center == [2]float32{} {
		l.Center = [2]float32{float32(colW / 2), float32(colH / 2)}
	}
	if l.Dest == [2]float32{} {
		l.Dest = [2]float32{float32(dstW) / 2, float32(dstH) / 2}
	}
	if l.ColorStart == (Color{}) && l.ColorEdge == (Color{}) {
		l.ColorStart = defaultLightStart
		l.ColorEdge = defaultLightEdge
	}
	return l
}
