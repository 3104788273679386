package display

// Pixel format constants
const (
	// BytesPerPixel is the number of bytes per pixel in RGBA8 textures
	BytesPerPixel = 4
	// ARGBAlphaShift is the bit shift for the alpha component in packed ARGB
	ARGBAlphaShift = 24
	// ARGBRedShift is the bit shift for the red component in packed ARGB
	ARGBRedShift = 16
	// ARGBGreenShift is the bit shift for the green component in packed ARGB
	ARGBGreenShift = 8
	// ARGBBlueShift is the bit shift for the blue component in packed ARGB
	ARGBBlueShift = 0
	// ChannelMask is the mask for extracting a single 8-bit channel
	ChannelMask = 0xFF
)

// Offscreen composition surface
const (
	// OffscreenWidth is the width of the offscreen surface before the first resize
	OffscreenWidth = 320
	// OffscreenHeight is the height of the offscreen surface before the first resize
	OffscreenHeight = 240
	// RayTextureSize is the side length of the square light-pass ray texture
	RayTextureSize = 64
	// DefaultLightRadius is the light radius used when none is requested
	DefaultLightRadius = 128
)

// Window constants
const (
	// DefaultScale is the default window scale over the logical canvas
	DefaultScale = 2
	// DefaultWindowWidth is the default window width (canvas width * scale)
	DefaultWindowWidth = OffscreenWidth * DefaultScale // 640
	// DefaultWindowHeight is the default window height (canvas height * scale)
	DefaultWindowHeight = OffscreenHeight * DefaultScale // 480
	// TicksPerSecond is the logical simulation rate
	TicksPerSecond = 50
)

// Unit conventions. Upstream game code keeps positions in fixed point with
// 0x200 units per pixel; the renderer and background engine work in pixels.
const (
	// SubpixelShift converts between fixed-point units and pixels
	SubpixelShift = 9
	// SubpixelUnit is the number of fixed-point units in one pixel
	SubpixelUnit = 1 << SubpixelShift
	// DrawLimitFactor bounds the custom layer repeat loop in canvas sizes
	DrawLimitFactor = 16
)

// ToSubpixels converts a pixel coordinate to fixed-point units.
func ToSubpixels(px int) int {
	return px << SubpixelShift
}

// FromSubpixels converts a fixed-point coordinate to pixels.
func FromSubpixels(v int) float32 {
	return float32(v) / SubpixelUnit
}

// Terminal presenter constants
const (
	// TerminalStatusLines is the number of log lines kept below the picture
	TerminalStatusLines = 4
	// TerminalMinWidth is the minimum terminal width in cells
	TerminalMinWidth = 40
	// TerminalMinHeight is the minimum terminal height in cells
	TerminalMinHeight = 12
)
