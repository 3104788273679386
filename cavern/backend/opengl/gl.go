package opengl

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Enum is a GL enumerant.
type Enum = uint32

// GL enumerants used by the renderer. Values match the Khronos registry, so
// bindings can pass them through unchanged.
const (
	NoError Enum = 0

	DepthBufferBit Enum = 0x0100
	ColorBufferBit Enum = 0x4000

	Triangles Enum = 0x0004

	Zero                Enum = 0
	One                 Enum = 1
	SrcColor            Enum = 0x0300
	SrcAlpha            Enum = 0x0302
	OneMinusSrcAlpha    Enum = 0x0303
	Blend               Enum = 0x0BE2
	ScissorTest         Enum = 0x0C11
	CullFace            Enum = 0x0B44
	DepthTest           Enum = 0x0B71
	Texture2D           Enum = 0x0DE1
	UnsignedByte        Enum = 0x1401
	UnsignedShort       Enum = 0x1403
	Float               Enum = 0x1406
	RendererString      Enum = 0x1F01
	VersionString       Enum = 0x1F02
	Nearest             Enum = 0x2600
	Linear              Enum = 0x2601
	TextureMagFilter    Enum = 0x2800
	TextureMinFilter    Enum = 0x2801
	TextureWrapS        Enum = 0x2802
	TextureWrapT        Enum = 0x2803
	ClampToEdge         Enum = 0x812F
	Texture0            Enum = 0x84C0
	Texture1            Enum = 0x84C1
	ArrayBuffer         Enum = 0x8892
	ElementArrayBuffer  Enum = 0x8893
	StreamDraw          Enum = 0x88E0
	FragmentShader      Enum = 0x8B30
	VertexShader        Enum = 0x8B31
	FramebufferComplete Enum = 0x8CD5
	ColorAttachment0    Enum = 0x8CE0
	Framebuffer         Enum = 0x8D40
)

// GL is the subset of OpenGL 2.1 / OpenGL ES 2.0 the renderer calls. Object
// creation returns plain names; data arguments are Go slices and the binding
// takes care of pointers.
type GL interface {
	GetString(name Enum) string
	GetError() Enum

	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
	Enable(capability Enum)
	Disable(capability Enum)
	BlendFunc(src, dst Enum)
	BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha Enum)
	Scissor(x, y, width, height int32)
	Flush()

	GenTexture() uint32
	DeleteTexture(texture uint32)
	ActiveTexture(unit Enum)
	BindTexture(target Enum, texture uint32)
	TexParameteri(target, name Enum, value int32)
	// TexImage2D uploads RGBA8 pixels; nil allocates uninitialised storage.
	TexImage2D(target Enum, width, height int32, pixels []byte)

	GenFramebuffer() uint32
	DeleteFramebuffer(framebuffer uint32)
	BindFramebuffer(target Enum, framebuffer uint32)
	FramebufferTexture2D(target, attachment, textureTarget Enum, texture uint32, level int32)
	CheckFramebufferStatus(target Enum) Enum
	// ReadPixels reads RGBA8 pixels of the bound framebuffer into pixels.
	ReadPixels(x, y, width, height int32, pixels []byte)

	CreateShader(kind Enum) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	ShaderCompiled(shader uint32) bool
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	BindAttribLocation(program, index uint32, name string)
	LinkProgram(program uint32)
	ProgramLinked(program uint32) bool
	ProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	GetUniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, x, y float32)
	Uniform3f(location int32, x, y, z float32)
	UniformMatrix4fv(location int32, m mgl32.Mat4)

	GenBuffer() uint32
	DeleteBuffer(buffer uint32)
	BindBuffer(target Enum, buffer uint32)
	BufferData(target Enum, data []byte, usage Enum)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, kind Enum, normalized bool, stride int32, offset int)
	DrawArrays(mode Enum, first, count int32)
	DrawElements(mode Enum, count int32, kind Enum, offset int)
}

// Context is what a window hands the renderer: a way to resolve GL entry
// points plus the few window operations the renderer drives itself.
type Context struct {
	// GLES selects the OpenGL ES 2.0 shader variants.
	GLES            bool
	GetProcAddress  func(name string) unsafe.Pointer
	SwapBuffers     func()
	SetSwapInterval func(interval int) error
	DrawableSize    func() (int, int)
}

func asBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(zero)))
}
