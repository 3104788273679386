package assets

import (
	"hash/fnv"
	"image"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/valerio/go-cavern/cavern/graphics"
)

// Pattern is a procedural atlas used when a background has no image file.
type Pattern int

const (
	Checkerboard Pattern = iota
	Gradient
	Stripes
	Diagonal
	OutsideSky
)

const (
	patternTileSize    = 16
	patternStripeWidth = 12
)

func (p Pattern) String() string {
	switch p {
	case Checkerboard:
		return "checkerboard"
	case Gradient:
		return "gradient"
	case Stripes:
		return "stripes"
	case Diagonal:
		return "diagonal"
	case OutsideSky:
		return "outside_sky"
	default:
		return "unknown"
	}
}

// Size is the atlas size a pattern is generated at. The outside sky
// matches the strip layout the outside backgrounds sample from.
func (p Pattern) Size() (int, int) {
	switch p {
	case Gradient:
		return 128, 64
	case Stripes:
		return 192, 88
	case OutsideSky:
		return 320, 240
	default:
		return 64, 64
	}
}

// outsideNames are the stock backgrounds drawn by the outside kinds.
var outsideNames = []string{"bkmoon", "bkfog", "bkfog480fps", "bkmoon480fps"}

// PatternFor picks a stable pattern for a texture name.
func PatternFor(name string) Pattern {
	lower := strings.ToLower(name)
	for _, n := range outsideNames {
		if lower == n {
			return OutsideSky
		}
	}
	h := fnv.New32a()
	h.Write([]byte(lower))
	return Pattern(h.Sum32() % uint32(OutsideSky))
}

// Generate renders p at its natural size, tinted with base.
func Generate(p Pattern, base graphics.Color) *image.NRGBA {
	w, h := p.Size()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	light := toNRGBA(base.Lerp(graphics.White, 0.6))
	dark := toNRGBA(base.Lerp(graphics.Black, 0.5))

	switch p {
	case Checkerboard:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if (x/patternTileSize+y/patternTileSize)%2 == 0 {
					img.SetNRGBA(x, y, light)
				} else {
					img.SetNRGBA(x, y, dark)
				}
			}
		}
	case Gradient:
		for x := 0; x < w; x++ {
			c := toNRGBA(base.Lerp(graphics.White, float32(x)/float32(w)))
			for y := 0; y < h; y++ {
				img.SetNRGBA(x, y, c)
			}
		}
	case Stripes:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if (x/patternStripeWidth)%2 == 0 {
					img.SetNRGBA(x, y, light)
				} else {
					img.SetNRGBA(x, y, dark)
				}
			}
		}
	case Diagonal:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if ((x+y)/patternTileSize)%2 == 0 {
					img.SetNRGBA(x, y, light)
				} else {
					img.SetNRGBA(x, y, dark)
				}
			}
		}
	case OutsideSky:
		generateSky(img)
	}
	return img
}

// skyBands follow the outside atlas rows: sky, far clouds, near clouds,
// hills and ground.
var skyBands = []struct {
	top, bottom int
	from, to    string
}{
	{0, 88, "#0b1a3a", "#3a5a9a"},
	{88, 123, "#5a78b4", "#7f97c8"},
	{123, 146, "#9aaed6", "#b4c4e2"},
	{146, 176, "#40603a", "#36502f"},
	{176, 240, "#2a3a24", "#161e12"},
}

func generateSky(img *image.NRGBA) {
	w := img.Rect.Dx()
	for _, band := range skyBands {
		from, _ := colorful.Hex(band.from)
		to, _ := colorful.Hex(band.to)
		span := float64(band.bottom - band.top)
		for y := band.top; y < band.bottom; y++ {
			c := from.BlendLuv(to, float64(y-band.top)/span).Clamped()
			r, g, b := c.RGB255()
			for x := 0; x < w; x++ {
				img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 0xFF})
			}
		}
	}

	// A sun in the middle of the sky band so the centre sprite is visible.
	const cx, cy, radius = 160, 44, 20
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			if (x-cx)*(x-cx)+(y-cy)*(y-cy) <= radius*radius {
				img.SetNRGBA(x, y, color.NRGBA{R: 0xF8, G: 0xE8, B: 0xA0, A: 0xFF})
			}
		}
	}
}

func toNRGBA(c graphics.Color) color.NRGBA {
	r, g, b, a := c.ToRGBA()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}
