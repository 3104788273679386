//go:build imgui

package gui

import (
	"unsafe"

	"github.com/inkyblackness/imgui-go/v4"

	"github.com/valerio/go-cavern/cavern/graphics"
)

// FromImgui copies Dear ImGui draw data into renderer-neutral DrawData.
// Command lists with user callbacks are skipped.
func FromImgui(data imgui.DrawData, displaySize, framebufferScale [2]float32) *DrawData {
	vertexSize, posOffset, uvOffset, colOffset := imgui.VertexBufferLayout()
	indexSize := imgui.IndexBufferLayout()

	out := &DrawData{DisplaySize: displaySize, FramebufferScale: framebufferScale}
	for _, list := range data.CommandLists() {
		vtxPtr, vtxBytes := list.VertexBuffer()
		idxPtr, idxBytes := list.IndexBuffer()
		vtx := unsafe.Slice((*byte)(vtxPtr), vtxBytes)
		idx := unsafe.Slice((*byte)(idxPtr), idxBytes)

		var dl DrawList
		for off := 0; off+vertexSize <= len(vtx); off += vertexSize {
			entry := vtx[off:]
			var v graphics.Vertex
			v.Position[0] = *(*float32)(unsafe.Pointer(&entry[posOffset]))
			v.Position[1] = *(*float32)(unsafe.Pointer(&entry[posOffset+4]))
			v.UV[0] = *(*float32)(unsafe.Pointer(&entry[uvOffset]))
			v.UV[1] = *(*float32)(unsafe.Pointer(&entry[uvOffset+4]))
			copy(v.Color[:], entry[colOffset:colOffset+4])
			dl.Vertices = append(dl.Vertices, v)
		}

		for off := 0; off+indexSize <= len(idx); off += indexSize {
			var i uint16
			if indexSize == 2 {
				i = *(*uint16)(unsafe.Pointer(&idx[off]))
			} else {
				i = uint16(*(*uint32)(unsafe.Pointer(&idx[off])))
			}
			dl.Indices = append(dl.Indices, i)
		}

		offset := 0
		for _, cmd := range list.Commands() {
			if cmd.HasUserCallback() {
				offset += cmd.ElementCount()
				continue
			}
			clip := cmd.ClipRect()
			dl.Commands = append(dl.Commands, DrawCmd{
				ElemCount: cmd.ElementCount(),
				IdxOffset: offset,
				ClipRect:  [4]float32{clip.X, clip.Y, clip.Z, clip.W},
				TextureID: TextureID(cmd.TextureID()),
			})
			offset += cmd.ElementCount()
		}
		out.Lists = append(out.Lists, dl)
	}
	return out
}
