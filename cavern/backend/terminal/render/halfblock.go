package render

import (
	"github.com/valerio/go-cavern/cavern/canvas"
	"github.com/valerio/go-cavern/cavern/display"
)

// UpperHalfBlock paints the top pixel of a cell in the foreground colour
// and the bottom one in the background colour.
const UpperHalfBlock = '▀'

// Cell is one terminal cell covering two vertically stacked pixels, as
// opaque RGB over black.
type Cell struct {
	Top    [3]uint8
	Bottom [3]uint8
}

func composite(argb uint32) [3]uint8 {
	a := (argb >> display.ARGBAlphaShift) & display.ChannelMask
	scale := func(shift uint) uint8 {
		return uint8(((argb >> shift) & display.ChannelMask) * a / 0xFF)
	}
	return [3]uint8{scale(display.ARGBRedShift), scale(display.ARGBGreenShift), scale(display.ARGBBlueShift)}
}

// Downsample fits a frame into cols x rows cells with nearest sampling,
// keeping the aspect ratio. It returns the cells row-major together with the
// used width and height in cells.
func Downsample(frame *canvas.Canvas, cols, rows int) ([]Cell, int, int) {
	fw, fh := frame.Width(), frame.Height()
	if fw == 0 || fh == 0 || cols <= 0 || rows <= 0 {
		return nil, 0, 0
	}

	// each cell is two pixels tall
	w, h := cols, fh*cols/fw/2
	if h > rows {
		h = rows
		w = fw * rows * 2 / fh
	}
	w, h = max(w, 1), max(h, 1)

	cells := make([]Cell, w*h)
	for cy := 0; cy < h; cy++ {
		top := (cy * 2) * fh / (h * 2)
		bottom := (cy*2 + 1) * fh / (h * 2)
		for cx := 0; cx < w; cx++ {
			x := cx * fw / w
			cells[cy*w+cx] = Cell{
				Top:    composite(frame.At(x, top)),
				Bottom: composite(frame.At(x, bottom)),
			}
		}
	}
	return cells, w, h
}
