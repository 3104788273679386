package opengl_test

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/valerio/go-cavern/cavern/backend/opengl"
)

func call(name string, args ...any) string {
	return fmt.Sprintf("%s%v", name, args)
}

// recordingGL hands out object names and records every state change as a
// string, which is enough to check what the renderer asked for.
type recordingGL struct {
	calls []string
	next  uint32

	sources     map[uint32]string
	failCompile string
	failLink    bool
	fbStatus    opengl.Enum

	locations map[int32]string
	nextLoc   int32
	matrix    mgl32.Mat4
	uploads   [][]byte
	readValue byte
}

var _ opengl.GL = (*recordingGL)(nil)

func newRecordingGL() *recordingGL {
	return &recordingGL{
		sources:   map[uint32]string{},
		locations: map[int32]string{},
		fbStatus:  opengl.FramebufferComplete,
	}
}

func (g *recordingGL) record(name string, args ...any) {
	g.calls = append(g.calls, call(name, args...))
}

func (g *recordingGL) name() uint32 {
	g.next++
	return g.next
}

func (g *recordingGL) reset() {
	g.calls = nil
	g.uploads = nil
}

func (g *recordingGL) count(prefix string) int {
	n := 0
	for _, c := range g.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (g *recordingGL) last(prefix string) string {
	for i := len(g.calls) - 1; i >= 0; i-- {
		if strings.HasPrefix(g.calls[i], prefix) {
			return g.calls[i]
		}
	}
	return ""
}

func (g *recordingGL) GetString(opengl.Enum) string { return "fake" }
func (g *recordingGL) GetError() opengl.Enum        { return opengl.NoError }

func (g *recordingGL) Viewport(x, y, w, h int32)      { g.record("Viewport", x, y, w, h) }
func (g *recordingGL) ClearColor(r, gr, b, a float32) { g.record("ClearColor", r, gr, b, a) }
func (g *recordingGL) Clear(mask opengl.Enum)         { g.record("Clear", mask) }
func (g *recordingGL) Enable(c opengl.Enum)           { g.record("Enable", c) }
func (g *recordingGL) Disable(c opengl.Enum)          { g.record("Disable", c) }
func (g *recordingGL) BlendFunc(s, d opengl.Enum)     { g.record("BlendFunc", s, d) }
func (g *recordingGL) BlendFuncSeparate(sc, dc, sa, da opengl.Enum) {
	g.record("BlendFuncSeparate", sc, dc, sa, da)
}
func (g *recordingGL) Scissor(x, y, w, h int32) { g.record("Scissor", x, y, w, h) }
func (g *recordingGL) Flush()                   { g.record("Flush") }

func (g *recordingGL) GenTexture() uint32                  { return g.name() }
func (g *recordingGL) DeleteTexture(t uint32)              { g.record("DeleteTexture", t) }
func (g *recordingGL) ActiveTexture(unit opengl.Enum)      { g.record("ActiveTexture", unit) }
func (g *recordingGL) BindTexture(_ opengl.Enum, t uint32) { g.record("BindTexture", t) }
func (g *recordingGL) TexParameteri(_, n opengl.Enum, v int32) {
	g.record("TexParameteri", n, v)
}
func (g *recordingGL) TexImage2D(_ opengl.Enum, w, h int32, pixels []byte) {
	g.record("TexImage2D", w, h, len(pixels))
}

func (g *recordingGL) GenFramebuffer() uint32                   { return g.name() }
func (g *recordingGL) DeleteFramebuffer(fb uint32)              { g.record("DeleteFramebuffer", fb) }
func (g *recordingGL) BindFramebuffer(_ opengl.Enum, fb uint32) { g.record("BindFramebuffer", fb) }
func (g *recordingGL) FramebufferTexture2D(_, _, _ opengl.Enum, t uint32, _ int32) {
	g.record("FramebufferTexture2D", t)
}
func (g *recordingGL) CheckFramebufferStatus(opengl.Enum) opengl.Enum { return g.fbStatus }
func (g *recordingGL) ReadPixels(x, y, w, h int32, pixels []byte) {
	g.record("ReadPixels", x, y, w, h)
	for i := range pixels {
		pixels[i] = g.readValue
	}
}

func (g *recordingGL) CreateShader(opengl.Enum) uint32 { return g.name() }
func (g *recordingGL) ShaderSource(s uint32, src string) {
	g.sources[s] = src
}
func (g *recordingGL) CompileShader(s uint32) { g.record("CompileShader", s) }
func (g *recordingGL) ShaderCompiled(s uint32) bool {
	return g.failCompile == "" || !strings.Contains(g.sources[s], g.failCompile)
}
func (g *recordingGL) ShaderInfoLog(uint32) string { return "0:1: syntax error" }
func (g *recordingGL) DeleteShader(s uint32)       { g.record("DeleteShader", s) }

func (g *recordingGL) CreateProgram() uint32 { return g.name() }
func (g *recordingGL) AttachShader(p, s uint32) {
	g.record("AttachShader", p, s)
}
func (g *recordingGL) BindAttribLocation(_, index uint32, name string) {
	g.record("BindAttribLocation", index, name)
}
func (g *recordingGL) LinkProgram(p uint32)         { g.record("LinkProgram", p) }
func (g *recordingGL) ProgramLinked(uint32) bool    { return !g.failLink }
func (g *recordingGL) ProgramInfoLog(uint32) string { return "link failed" }
func (g *recordingGL) UseProgram(p uint32)          { g.record("UseProgram", p) }
func (g *recordingGL) DeleteProgram(p uint32)       { g.record("DeleteProgram", p) }

func (g *recordingGL) GetUniformLocation(_ uint32, name string) int32 {
	g.nextLoc++
	g.locations[g.nextLoc] = name
	return g.nextLoc
}
func (g *recordingGL) Uniform1i(loc int32, v int32) { g.record("Uniform1i", g.locations[loc], v) }
func (g *recordingGL) Uniform1f(loc int32, v float32) {
	g.record("Uniform1f", g.locations[loc], v)
}
func (g *recordingGL) Uniform2f(loc int32, x, y float32) {
	g.record("Uniform2f", g.locations[loc], x, y)
}
func (g *recordingGL) Uniform3f(loc int32, x, y, z float32) {
	g.record("Uniform3f", g.locations[loc], x, y, z)
}
func (g *recordingGL) UniformMatrix4fv(loc int32, m mgl32.Mat4) {
	g.record("UniformMatrix4fv", g.locations[loc])
	g.matrix = m
}

func (g *recordingGL) GenBuffer() uint32                  { return g.name() }
func (g *recordingGL) DeleteBuffer(b uint32)              { g.record("DeleteBuffer", b) }
func (g *recordingGL) BindBuffer(t opengl.Enum, b uint32) { g.record("BindBuffer", t, b) }
func (g *recordingGL) BufferData(t opengl.Enum, data []byte, _ opengl.Enum) {
	g.record("BufferData", t, len(data))
	g.uploads = append(g.uploads, append([]byte(nil), data...))
}
func (g *recordingGL) EnableVertexAttribArray(i uint32) { g.record("EnableVertexAttribArray", i) }
func (g *recordingGL) VertexAttribPointer(i uint32, size int32, kind opengl.Enum, norm bool, stride int32, offset int) {
	g.record("VertexAttribPointer", i, size, kind, norm, stride, offset)
}
func (g *recordingGL) DrawArrays(mode opengl.Enum, first, count int32) {
	g.record("DrawArrays", mode, first, count)
}
func (g *recordingGL) DrawElements(mode opengl.Enum, count int32, kind opengl.Enum, offset int) {
	g.record("DrawElements", mode, count, kind, offset)
}
