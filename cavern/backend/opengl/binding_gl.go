//go:build opengl

package opengl

import (
	"fmt"
	"log/slog"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/valerio/go-cavern/cavern/graphics"
)

// binding forwards to the go-gl OpenGL 2.1 function table.
type binding struct{}

// Load resolves the GL entry points through the context and returns the
// function table. The table is process-wide in go-gl, so loading twice
// simply refreshes it.
func Load(ctx Context) (GL, error) {
	if ctx.GetProcAddress == nil {
		return nil, graphics.NewRenderError("load", graphics.ErrContextLost)
	}
	if err := gl.InitWithProcAddrFunc(ctx.GetProcAddress); err != nil {
		return nil, graphics.NewRenderError("load", fmt.Errorf("failed to initialize OpenGL: %w", err))
	}

	b := binding{}
	slog.Info("OpenGL loaded", "version", b.GetString(VersionString), "renderer", b.GetString(RendererString))
	return b, nil
}

func (binding) GetString(name Enum) string {
	p := gl.GetString(name)
	if p == nil {
		return "unknown"
	}
	return gl.GoStr(p)
}

func (binding) GetError() Enum { return gl.GetError() }

func (binding) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (binding) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (binding) Clear(mask Enum) { gl.Clear(mask) }

func (binding) Enable(capability Enum) { gl.Enable(capability) }

func (binding) Disable(capability Enum) { gl.Disable(capability) }

func (binding) BlendFunc(src, dst Enum) { gl.BlendFunc(src, dst) }

func (binding) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha Enum) {
	gl.BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha)
}

func (binding) Scissor(x, y, width, height int32) { gl.Scissor(x, y, width, height) }

func (binding) Flush() { gl.Flush() }

func (binding) GenTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (binding) DeleteTexture(texture uint32) { gl.DeleteTextures(1, &texture) }

func (binding) ActiveTexture(unit Enum) { gl.ActiveTexture(unit) }

func (binding) BindTexture(target Enum, texture uint32) { gl.BindTexture(target, texture) }

func (binding) TexParameteri(target, name Enum, value int32) { gl.TexParameteri(target, name, value) }

func (binding) TexImage2D(target Enum, width, height int32, pixels []byte) {
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	gl.TexImage2D(target, 0, gl.RGBA, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr)
}

func (binding) GenFramebuffer() uint32 {
	var id uint32
	gl.GenFramebuffers(1, &id)
	return id
}

func (binding) DeleteFramebuffer(framebuffer uint32) { gl.DeleteFramebuffers(1, &framebuffer) }

func (binding) BindFramebuffer(target Enum, framebuffer uint32) { gl.BindFramebuffer(target, framebuffer) }

func (binding) FramebufferTexture2D(target, attachment, textureTarget Enum, texture uint32, level int32) {
	gl.FramebufferTexture2D(target, attachment, textureTarget, texture, level)
}

func (binding) CheckFramebufferStatus(target Enum) Enum { return gl.CheckFramebufferStatus(target) }

func (binding) ReadPixels(x, y, width, height int32, pixels []byte) {
	if len(pixels) == 0 {
		return
	}
	gl.ReadPixels(x, y, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
}

func (binding) CreateShader(kind Enum) uint32 { return gl.CreateShader(kind) }

func (binding) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	defer free()
	gl.ShaderSource(shader, 1, csources, nil)
}

func (binding) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (binding) ShaderCompiled(shader uint32) bool {
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	return status == gl.TRUE
}

func (binding) ShaderInfoLog(shader uint32) string {
	var length int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &length)
	log := strings.Repeat("\x00", int(length+1))
	gl.GetShaderInfoLog(shader, length, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (binding) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (binding) CreateProgram() uint32 { return gl.CreateProgram() }

func (binding) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }

func (binding) BindAttribLocation(program, index uint32, name string) {
	gl.BindAttribLocation(program, index, gl.Str(name+"\x00"))
}

func (binding) LinkProgram(program uint32) { gl.LinkProgram(program) }

func (binding) ProgramLinked(program uint32) bool {
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status == gl.TRUE
}

func (binding) ProgramInfoLog(program uint32) string {
	var length int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &length)
	log := strings.Repeat("\x00", int(length+1))
	gl.GetProgramInfoLog(program, length, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (binding) UseProgram(program uint32) { gl.UseProgram(program) }

func (binding) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (binding) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (binding) Uniform1i(location int32, v int32) { gl.Uniform1i(location, v) }

func (binding) Uniform1f(location int32, v float32) { gl.Uniform1f(location, v) }

func (binding) Uniform2f(location int32, x, y float32) { gl.Uniform2f(location, x, y) }

func (binding) Uniform3f(location int32, x, y, z float32) { gl.Uniform3f(location, x, y, z) }

func (binding) UniformMatrix4fv(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (binding) GenBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (binding) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

func (binding) BindBuffer(target Enum, buffer uint32) { gl.BindBuffer(target, buffer) }

func (binding) BufferData(target Enum, data []byte, usage Enum) {
	if len(data) == 0 {
		gl.BufferData(target, 0, nil, usage)
		return
	}
	gl.BufferData(target, len(data), gl.Ptr(data), usage)
}

func (binding) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (binding) VertexAttribPointer(index uint32, size int32, kind Enum, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointerWithOffset(index, size, kind, normalized, stride, uintptr(offset))
}

func (binding) DrawArrays(mode Enum, first, count int32) { gl.DrawArrays(mode, first, count) }

func (binding) DrawElements(mode Enum, count int32, kind Enum, offset int) {
	gl.DrawElements(mode, count, kind, gl.PtrOffset(offset))
}
