package canvas

import (
	"github.com/valerio/go-cavern/cavern/display"
	"github.com/valerio/go-cavern/cavern/graphics"
)

// modDivisor normalises channel mod times alpha mod (255*255) in one step.
const modDivisor = 0xFE01

// White is the neutral modulation.
var White = [4]uint8{0xFF, 0xFF, 0xFF, 0xFF}

func channel(v uint32, shift uint) uint32 {
	return (v >> shift) & display.ChannelMask
}

func pack(a, r, g, b uint32) uint32 {
	return a<<display.ARGBAlphaShift | r<<display.ARGBRedShift | g<<display.ARGBGreenShift | b<<display.ARGBBlueShift
}

// BlendPixel combines src over dst (both ARGB) with integer math. mod is the
// RGBA colour modulation applied on top of the blend.
func BlendPixel(src, dst uint32, mode graphics.BlendMode, mod [4]uint8) uint32 {
	mr, mg, mb, ma := uint32(mod[0]), uint32(mod[1]), uint32(mod[2]), uint32(mod[3])

	sa, sr, sg, sb := channel(src, display.ARGBAlphaShift), channel(src, display.ARGBRedShift),
		channel(src, display.ARGBGreenShift), channel(src, display.ARGBBlueShift)
	da, dr, dg, db := channel(dst, display.ARGBAlphaShift), channel(dst, display.ARGBRedShift),
		channel(dst, display.ARGBGreenShift), channel(dst, display.ARGBBlueShift)

	switch mode {
	case graphics.BlendAdd:
		a := da * ma / 0xFF
		r := min(dr+sr, 0xFF) * mr * ma / modDivisor
		g := min(dg+sg, 0xFF) * mg * ma / modDivisor
		b := min(db+sb, 0xFF) * mb * ma / modDivisor
		return pack(a, r, g, b)

	case graphics.BlendAlpha:
		inv := 0xFF - sa
		a := (sa + da*inv/0xFF) * ma / 0xFF
		r := (sr*sa + dr*inv) / 0xFF * mr * ma / modDivisor
		g := (sg*sa + dg*inv) / 0xFF * mg * ma / modDivisor
		b := (sb*sa + db*inv) / 0xFF * mb * ma / modDivisor
		return pack(a, r, g, b)

	case graphics.BlendMultiply:
		a := da * ma / 0xFF
		r := dr * sr / 0xFF * mr * ma / modDivisor
		g := dg * sg / 0xFF * mg * ma / modDivisor
		b := db * sb / 0xFF * mb * ma / modDivisor
		return pack(a, r, g, b)

	default:
		return src
	}
}
