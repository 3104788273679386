// Package gui holds the overlay draw data both renderers consume, plus a
// small immediate-mode builder that produces it.
package gui

import "github.com/valerio/go-cavern/cavern/graphics"

// TextureID identifies a texture registered with a renderer's GUI layer.
type TextureID uintptr

// DrawCmd draws ElemCount indices starting at IdxOffset with one texture and
// scissor. ClipRect is (x1, y1, x2, y2) in display coordinates.
type DrawCmd struct {
	ElemCount int
	IdxOffset int
	ClipRect  [4]float32
	TextureID TextureID
}

// DrawList is one indexed vertex batch.
type DrawList struct {
	Vertices []graphics.Vertex
	Indices  []uint16
	Commands []DrawCmd
}

// DrawData is a full overlay frame.
type DrawData struct {
	DisplaySize      [2]float32
	FramebufferScale [2]float32
	Lists            []DrawList
}

// Empty reports whether there is nothing to draw.
func (d *DrawData) Empty() bool {
	if d == nil {
		return true
	}
	for _, l := range d.Lists {
		if len(l.Commands) > 0 {
			return false
		}
	}
	return true
}

// Triangles expands a command into a flat triangle list. Triangles with an
// index out of range are dropped.
func (l *DrawList) Triangles(cmd DrawCmd) []graphics.Vertex {
	end := min(cmd.IdxOffset+cmd.ElemCount, len(l.Indices))
	if cmd.IdxOffset < 0 || cmd.IdxOffset >= end {
		return nil
	}
	out := make([]graphics.Vertex, 0, end-cmd.IdxOffset)
	for i := cmd.IdxOffset; i+2 < end; i += 3 {
		a, b, c := int(l.Indices[i]), int(l.Indices[i+1]), int(l.Indices[i+2])
		if a >= len(l.Vertices) || b >= len(l.Vertices) || c >= len(l.Vertices) {
			continue
		}
		out = append(out, l.Vertices[a], l.Vertices[b], l.Vertices[c])
	}
	return out
}
