package canvas

import "github.com/valerio/go-cavern/cavern/graphics"

// Trim clips a source rect placed at (x, y) against bounds. It returns the
// visible part of src and its new placement, or false when nothing of the
// placement overlaps bounds.
func Trim(src, bounds graphics.Rect[int], x, y int) (graphics.Rect[int], int, int, bool) {
	w, h := src.Width(), src.Height()
	if w <= 0 || h <= 0 || bounds.Empty() {
		return graphics.Rect[int]{}, 0, 0, false
	}
	if x >= bounds.Right || y >= bounds.Bottom || x+w <= bounds.Left || y+h <= bounds.Top {
		return graphics.Rect[int]{}, 0, 0, false
	}

	if x < bounds.Left {
		src.Left += bounds.Left - x
		x = bounds.Left
	}
	if y < bounds.Top {
		src.Top += bounds.Top - y
		y = bounds.Top
	}
	if over := x + src.Width() - bounds.Right; over > 0 {
		src.Right -= over
	}
	if over := y + src.Height() - bounds.Bottom; over > 0 {
		src.Bottom -= over
	}

	return src, x, y, true
}

// clampSource keeps a source rect inside its canvas, shifting the placement
// by whatever was cut from the left or top.
func clampSource(src graphics.Rect[int], c *Canvas, x, y int) (graphics.Rect[int], int, int) {
	if src.Left < 0 {
		x -= src.Left
		src.Left = 0
	}
	if src.Top < 0 {
		y -= src.Top
		src.Top = 0
	}
	src.Right = min(src.Right, c.width)
	src.Bottom = min(src.Bottom, c.height)
	return src, x, y
}
