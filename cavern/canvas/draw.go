package canvas

import (
	"math"

	"github.com/valerio/go-cavern/cavern/graphics"
)

// DrawRect copies src rect of a source canvas to (x, y) unscaled.
func DrawRect(dst, src *Canvas, rect graphics.Rect[int], x, y int, mode graphics.BlendMode, mod [4]uint8) {
	rect, x, y = clampSource(rect, src, x, y)
	rect, x, y, ok := Trim(rect, dst.Bounds(), x, y)
	if !ok {
		return
	}

	for row := 0; row < rect.Height(); row++ {
		so := src.Index(rect.Left, rect.Top+row)
		do := dst.Index(x, y+row)
		for col := 0; col < rect.Width(); col++ {
			dst.buffer[do+col] = BlendPixel(src.buffer[so+col], dst.buffer[do+col], mode, mod)
		}
	}
}

// DrawScaled maps a source rect onto an arbitrary destination rect using
// nearest neighbour sampling. Clipping the destination keeps the mapping
// anchored to the unclipped rect so partially visible sprites stay aligned.
func DrawScaled(dst, src *Canvas, srcRect, dstRect graphics.Rect[int], flipX, flipY bool, mode graphics.BlendMode, mod [4]uint8) {
	dw, dh := dstRect.Width(), dstRect.Height()
	sw, sh := srcRect.Width(), srcRect.Height()
	if dw <= 0 || dh <= 0 || sw <= 0 || sh <= 0 {
		return
	}

	visible := dstRect.Intersect(dst.Bounds())
	if visible.Empty() {
		return
	}

	for dy := visible.Top; dy < visible.Bottom; dy++ {
		sy := (dy - dstRect.Top) * sh / dh
		if flipY {
			sy = sh - 1 - sy
		}
		sy += srcRect.Top
		if sy < 0 || sy >= src.height {
			continue
		}

		row := dst.Index(0, dy)
		for dx := visible.Left; dx < visible.Right; dx++ {
			sx := (dx - dstRect.Left) * sw / dw
			if flipX {
				sx = sw - 1 - sx
			}
			sx += srcRect.Left
			if sx < 0 || sx >= src.width {
				continue
			}
			dst.buffer[row+dx] = BlendPixel(src.At(sx, sy), dst.buffer[row+dx], mode, mod)
		}
	}
}

// DrawQuad draws a sprite batch entry. Unscaled, unflipped quads at integer
// positions take the DrawRect path.
func DrawQuad(dst, src *Canvas, q graphics.Quad, mode graphics.BlendMode) {
	mod := q.Color.Bytes()
	dstRect := graphics.Rect[int]{
		Left:   int(math.Floor(float64(q.Dst.Left))),
		Top:    int(math.Floor(float64(q.Dst.Top))),
		Right:  int(math.Floor(float64(q.Dst.Right))),
		Bottom: int(math.Floor(float64(q.Dst.Bottom))),
	}

	if !q.FlipX && !q.FlipY &&
		dstRect.Width() == q.Src.Width() && dstRect.Height() == q.Src.Height() {
		DrawRect(dst, src, q.Src, dstRect.Left, dstRect.Top, mode, mod)
		return
	}
	DrawScaled(dst, src, q.Src, dstRect, q.FlipX, q.FlipY, mode, mod)
}

// Fill blends a solid colour over rect. Right and bottom are exclusive.
func Fill(dst *Canvas, rect graphics.Rect[int], color graphics.Color, mode graphics.BlendMode) {
	visible := rect.Intersect(dst.Bounds())
	if visible.Empty() {
		return
	}

	src := color.ARGB()
	for y := visible.Top; y < visible.Bottom; y++ {
		row := dst.Index(0, y)
		for x := visible.Left; x < visible.Right; x++ {
			dst.buffer[row+x] = BlendPixel(src, dst.buffer[row+x], mode, White)
		}
	}
}

// ClearBlend blends color over the whole drawable area.
func ClearBlend(dst *Canvas, color graphics.Color, mode graphics.BlendMode) {
	Fill(dst, dst.Bounds(), color, mode)
}

// OutlineRect draws the four edges of rect inward with the given line width.
func OutlineRect(dst *Canvas, rect graphics.Rect[int], lineWidth int, color graphics.Color, mode graphics.BlendMode) {
	if lineWidth <= 0 || rect.Empty() {
		return
	}
	if lineWidth*2 >= rect.Width() || lineWidth*2 >= rect.Height() {
		Fill(dst, rect, color, mode)
		return
	}

	Fill(dst, graphics.NewRect(rect.Left, rect.Top, rect.Right, rect.Top+lineWidth), color, mode)
	Fill(dst, graphics.NewRect(rect.Left, rect.Bottom-lineWidth, rect.Right, rect.Bottom), color, mode)
	Fill(dst, graphics.NewRect(rect.Left, rect.Top+lineWidth, rect.Left+lineWidth, rect.Bottom-lineWidth), color, mode)
	Fill(dst, graphics.NewRect(rect.Right-lineWidth, rect.Top+lineWidth, rect.Right, rect.Bottom-lineWidth), color, mode)
}
