package background

import (
	"fmt"

	"github.com/valerio/go-cavern/cavern/graphics"
)

// BackgroundType selects how a stage composes its background.
type BackgroundType int

const (
	TiledStatic BackgroundType = iota
	TiledParallax
	Tiled
	Water
	Black
	Scrolling
	OutsideWind
	Outside
	OutsideUnknown
	Waterway
	Custom
)

var backgroundTypeNames = [...]string{
	TiledStatic:    "tiled_static",
	TiledParallax:  "tiled_parallax",
	Tiled:          "tiled",
	Water:          "water",
	Black:          "black",
	Scrolling:      "scrolling",
	OutsideWind:    "outside_wind",
	Outside:        "outside",
	OutsideUnknown: "outside_unknown",
	Waterway:       "waterway",
	Custom:         "custom",
}

func (t BackgroundType) String() string {
	if t < 0 || int(t) >= len(backgroundTypeNames) {
		return fmt.Sprintf("BackgroundType(%d)", int(t))
	}
	return backgroundTypeNames[t]
}

// IsOutside reports the three outside kinds, which share one composition.
func (t BackgroundType) IsOutside() bool {
	return t == OutsideWind || t == Outside || t == OutsideUnknown
}

func (t BackgroundType) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(backgroundTypeNames) {
		return nil, fmt.Errorf("unknown background type %d", int(t))
	}
	return []byte(backgroundTypeNames[t]), nil
}

func (t *BackgroundType) UnmarshalText(text []byte) error {
	for i, name := range backgroundTypeNames {
		if name == string(text) {
			*t = BackgroundType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown background type %q", text)
}

// Stage is the part of the current map the background needs.
type Stage struct {
	Type BackgroundType
	// Color is what the canvas is cleared to before drawing.
	Color graphics.Color
	// Background names both the config file and the atlas texture.
	Background string
	// WaterLevel is in pixels.
	WaterLevel int
}

// Frame is the camera. Positions are in pixels.
type Frame interface {
	XYInterpolated(frameTime float64) (x, y float32)
}

// Camera is a Frame that remembers the previous tick's position so draws
// between ticks can interpolate.
type Camera struct {
	X, Y         float32
	PrevX, PrevY float32
}

// MoveTo records a new position, keeping the old one for interpolation.
func (c *Camera) MoveTo(x, y float32) {
	c.PrevX, c.PrevY = c.X, c.Y
	c.X, c.Y = x, y
}

func (c *Camera) XYInterpolated(frameTime float64) (float32, float32) {
	t := float32(frameTime)
	return c.PrevX + (c.X-c.PrevX)*t, c.PrevY + (c.Y-c.PrevY)*t
}

// View describes the canvas being drawn into.
type View struct {
	Width, Height int
	// Scale is the window scale over the logical canvas; 0 means 1.
	Scale float32
	// FrameTime is the position between two ticks, in [0, 1).
	FrameTime float64
}

func (v View) scale() float32 {
	if v.Scale <= 0 {
		return 1
	}
	return v.Scale
}

// Pass selects which custom layers a Draw call emits.
type Pass int

const (
	PassBehind Pass = iota
	PassAbove
)

func (p Pass) String() string {
	if p == PassAbove {
		return "above"
	}
	return "behind"
}
