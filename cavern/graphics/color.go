package graphics

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/valerio/go-cavern/cavern/display"
)

// Color is a straight-alpha colour with float channels in [0,1].
type Color struct {
	R, G, B, A float32
}

var (
	White       = Color{1, 1, 1, 1}
	Black       = Color{0, 0, 0, 1}
	Transparent = Color{0, 0, 0, 0}
)

// RGBA builds a colour from 8-bit channels.
func RGBA(r, g, b, a uint8) Color {
	return Color{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
		A: float32(a) / 255,
	}
}

// RGB builds an opaque colour from 8-bit channels.
func RGB(r, g, b uint8) Color {
	return RGBA(r, g, b, 255)
}

// FromRGBAUint32 unpacks 0xRRGGBBAA.
func FromRGBAUint32(v uint32) Color {
	return RGBA(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v))
}

// FromARGB unpacks the CPU canvas format.
func FromARGB(v uint32) Color {
	return RGBA(
		uint8(v>>display.ARGBRedShift),
		uint8(v>>display.ARGBGreenShift),
		uint8(v>>display.ARGBBlueShift),
		uint8(v>>display.ARGBAlphaShift),
	)
}

func toByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// ToRGBA projects the colour to four bytes.
func (c Color) ToRGBA() (r, g, b, a uint8) {
	return toByte(c.R), toByte(c.G), toByte(c.B), toByte(c.A)
}

// Bytes returns ToRGBA as an array, the layout used by Vertex.Color.
func (c Color) Bytes() [4]uint8 {
	r, g, b, a := c.ToRGBA()
	return [4]uint8{r, g, b, a}
}

// ARGB packs the colour for the CPU canvas.
func (c Color) ARGB() uint32 {
	r, g, b, a := c.ToRGBA()
	return uint32(a)<<display.ARGBAlphaShift |
		uint32(r)<<display.ARGBRedShift |
		uint32(g)<<display.ARGBGreenShift |
		uint32(b)<<display.ARGBBlueShift
}

// Lerp mixes towards to by t. RGB goes through go-colorful, alpha is linear.
func (c Color) Lerp(to Color, t float32) Color {
	from := colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}
	dst := colorful.Color{R: float64(to.R), G: float64(to.G), B: float64(to.B)}
	mixed := from.BlendRgb(dst, float64(t))
	return Color{
		R: float32(mixed.R),
		G: float32(mixed.G),
		B: float32(mixed.B),
		A: c.A + (to.A-c.A)*t,
	}
}

// ParseHex reads "#rrggbb" or "#rrggbbaa".
func ParseHex(s string) (Color, error) {
	s = strings.TrimSpace(s)
	alpha := uint8(255)
	if len(s) == 9 && s[0] == '#' {
		var a uint8
		if _, err := fmt.Sscanf(s[7:], "%02x", &a); err != nil {
			return Color{}, fmt.Errorf("invalid alpha in colour %q: %w", s, err)
		}
		alpha = a
		s = s[:7]
	}

	parsed, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	r, g, b := parsed.RGB255()
	return RGBA(r, g, b, alpha), nil
}

// Hex formats the colour as "#rrggbb", or "#rrggbbaa" when not opaque.
func (c Color) Hex() string {
	r, g, b, a := c.ToRGBA()
	if a == 255 {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Color) String() string {
	return c.Hex()
}
