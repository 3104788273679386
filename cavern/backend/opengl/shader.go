package opengl

import (
	"embed"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/valerio/go-cavern/cavern/graphics"
)

//go:embed shaders
var shaderFS embed.FS

// Attribute locations are bound before linking so every program shares the
// vertex layout.
const (
	attribPosition uint32 = iota
	attribUV
	attribColor
)

var uniformNames = []string{
	"Texture", "ProjMtx", "Scale", "Time", "FrameOffset", "RayTexture",
	"in_Light", "in_World", "in_RayTexSize", "in_ColorS", "in_ColorD",
	"in_LightCenter", "in_LightTexSize_WH",
}

// program is a linked shader pair with its uniform locations. Uniforms the
// compiler optimised away have location -1 and are skipped on upload.
type program struct {
	name     string
	id       uint32
	uniforms map[string]int32
}

type programSet struct {
	tex, fill, water *program
	ray, light       *program
}

// basic returns the programs whose projection follows the render target.
func (s programSet) basic() []*program {
	return []*program{s.fill, s.water, s.tex}
}

func (s programSet) all() []*program {
	return []*program{s.tex, s.fill, s.water, s.ray, s.light}
}

func readShader(path string) (string, error) {
	src, err := shaderFS.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read shader %s: %w", path, err)
	}
	return string(src), nil
}

func loadPrograms(gl GL, gles bool) (programSet, error) {
	dir, lightHeader := "shaders/gl110/", "#version 110\n"
	if gles {
		dir, lightHeader = "shaders/gles100/", "#version 100\n"
	}

	type source struct {
		name, vertex, fragment, header string
	}
	sources := []source{
		{"tex", dir + "vertex_basic.glsl", dir + "fragment_textured.glsl", ""},
		{"fill", dir + "vertex_basic.glsl", dir + "fragment_color.glsl", ""},
		{"water", dir + "vertex_basic.glsl", dir + "fragment_water.glsl", ""},
		{"ray", "shaders/lightpass/vertex.glsl", "shaders/lightpass/ray_tracer_fragment.glsl", lightHeader},
		{"light", "shaders/lightpass/vertex.glsl", "shaders/lightpass/light_sampler_fragment.glsl", lightHeader},
	}

	var set programSet
	slots := []**program{&set.tex, &set.fill, &set.water, &set.ray, &set.light}
	for i, s := range sources {
		vs, err := readShader(s.vertex)
		if err != nil {
			return programSet{}, err
		}
		fs, err := readShader(s.fragment)
		if err != nil {
			return programSet{}, err
		}

		p, err := compileProgram(gl, s.name, s.header+vs, s.header+fs)
		if err != nil {
			for _, done := range slots[:i] {
				gl.DeleteProgram((*done).id)
			}
			return programSet{}, err
		}
		*slots[i] = p
	}
	return set, nil
}

func compileShader(gl GL, kind Enum, src string) (uint32, error) {
	shader := gl.CreateShader(kind)
	gl.ShaderSource(shader, src)
	gl.CompileShader(shader)
	if !gl.ShaderCompiled(shader) {
		log := gl.ShaderInfoLog(shader)
		gl.DeleteShader(shader)
		return 0, &graphics.ShaderError{Stage: "compile", Log: log}
	}
	return shader, nil
}

func compileProgram(gl GL, name, vertexSrc, fragmentSrc string) (*program, error) {
	vs, err := compileShader(gl, VertexShader, vertexSrc)
	if err != nil {
		slog.Error("Failed to compile vertex shader", "program", name, "error", err)
		return nil, err
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(gl, FragmentShader, fragmentSrc)
	if err != nil {
		slog.Error("Failed to compile fragment shader", "program", name, "error", err)
		return nil, err
	}
	defer gl.DeleteShader(fs)

	id := gl.CreateProgram()
	gl.AttachShader(id, vs)
	gl.AttachShader(id, fs)
	gl.BindAttribLocation(id, attribPosition, "Position")
	gl.BindAttribLocation(id, attribUV, "UV")
	gl.BindAttribLocation(id, attribColor, "Color")
	gl.LinkProgram(id)
	if !gl.ProgramLinked(id) {
		err := &graphics.ShaderError{Stage: "link", Log: gl.ProgramInfoLog(id)}
		slog.Error("Failed to link shader program", "program", name, "error", err)
		gl.DeleteProgram(id)
		return nil, err
	}

	p := &program{name: name, id: id, uniforms: make(map[string]int32, len(uniformNames))}
	for _, u := range uniformNames {
		p.uniforms[u] = gl.GetUniformLocation(id, u)
	}
	return p, nil
}

func (p *program) location(name string) (int32, bool) {
	loc, ok := p.uniforms[name]
	return loc, ok && loc >= 0
}

func (p *program) setInt(gl GL, name string, v int32) {
	if loc, ok := p.location(name); ok {
		gl.Uniform1i(loc, v)
	}
}

func (p *program) setFloat(gl GL, name string, v float32) {
	if loc, ok := p.location(name); ok {
		gl.Uniform1f(loc, v)
	}
}

func (p *program) setVec2(gl GL, name string, x, y float32) {
	if loc, ok := p.location(name); ok {
		gl.Uniform2f(loc, x, y)
	}
}

func (p *program) setVec3(gl GL, name string, x, y, z float32) {
	if loc, ok := p.location(name); ok {
		gl.Uniform3f(loc, x, y, z)
	}
}

func (p *program) setMatrix(gl GL, m mgl32.Mat4) {
	if loc, ok := p.location("ProjMtx"); ok {
		gl.UniformMatrix4fv(loc, m)
	}
}

// bind makes p current and points the vertex attributes at the bound
// array buffer.
func (p *program) bind(gl GL, vbo uint32) {
	gl.UseProgram(p.id)
	gl.BindBuffer(ArrayBuffer, vbo)

	stride := int32(graphics.VertexStride)
	gl.EnableVertexAttribArray(attribPosition)
	gl.EnableVertexAttribArray(attribUV)
	gl.EnableVertexAttribArray(attribColor)
	gl.VertexAttribPointer(attribPosition, 2, Float, false, stride, graphics.VertexPositionOffset)
	gl.VertexAttribPointer(attribUV, 2, Float, false, stride, graphics.VertexUVOffset)
	gl.VertexAttribPointer(attribColor, 4, UnsignedByte, true, stride, graphics.VertexColorOffset)
}
