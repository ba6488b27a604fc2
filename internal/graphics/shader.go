package graphics

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// UniformSlot is an active uniform found by introspection after linking.
type UniformSlot struct {
	Name     string
	Type     uint32
	Location int32
}

// Program is a linked shader program together with its active uniforms.
// The uniform list is filled once at link time and never changes afterwards.
type Program struct {
	Name     string
	Uniforms []UniformSlot

	handle *Handle
}

// ID returns the GL program name.
func (p *Program) ID() uint32 {
	return p.handle.ID()
}

// Use activates the program
func (p *Program) Use() {
	gl.UseProgram(p.handle.ID())
}

// Uniform looks up an introspected slot by name.
func (p *Program) Uniform(name string) (UniformSlot, bool) {
	for _, u := range p.Uniforms {
		if u.Name == name {
			return u, true
		}
	}
	return UniformSlot{}, false
}

// Release deletes the GL program.
func (p *Program) Release() {
	p.handle.Release()
}

// CompileShader compiles a single stage. name is only used in error messages.
func CompileShader(stage uint32, name, source string) (*Handle, error) {
	shader := NewShaderHandle(stage)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader.ID(), 1, csources, nil)
	free()
	gl.CompileShader(shader.ID())

	var status int32
	gl.GetShaderiv(shader.ID(), gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader.ID(), gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader.ID(), logLength, nil, gl.Str(log))
		shader.Release()

		return nil, &CompileError{Stage: stage, Name: name, Log: strings.TrimRight(log, "\x00")}
	}
	return shader, nil
}

// LinkProgram links the compiled stages, validates the result and introspects
// its active uniforms. The stages stay owned by the caller.
func LinkProgram(name string, stages []*Handle) (*Program, error) {
	program := NewProgramHandle()
	for _, s := range stages {
		gl.AttachShader(program.ID(), s.ID())
	}
	gl.LinkProgram(program.ID())

	var status int32
	gl.GetProgramiv(program.ID(), gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		log := programInfoLog(program.ID())
		program.Release()
		return nil, fmt.Errorf("failed to link program %q: %v", name, log)
	}

	gl.ValidateProgram(program.ID())
	gl.GetProgramiv(program.ID(), gl.VALIDATE_STATUS, &status)
	if status == gl.FALSE {
		log := programInfoLog(program.ID())
		program.Release()
		return nil, fmt.Errorf("failed to validate program %q: %v", name, log)
	}

	for _, s := range stages {
		gl.DetachShader(program.ID(), s.ID())
	}

	return &Program{
		Name:     name,
		Uniforms: listUniforms(program.ID()),
		handle:   program,
	}, nil
}

// NewProgram compiles and links a vertex + fragment program from source.
func NewProgram(name, vertexSrc, fragmentSrc string) (*Program, error) {
	vs, err := CompileShader(gl.VERTEX_SHADER, name, vertexSrc)
	if err != nil {
		return nil, err
	}
	defer vs.Release()

	fs, err := CompileShader(gl.FRAGMENT_SHADER, name, fragmentSrc)
	if err != nil {
		return nil, err
	}
	defer fs.Release()

	return LinkProgram(name, []*Handle{vs, fs})
}

func programInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func listUniforms(program uint32) []UniformSlot {
	var count int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORMS, &count)

	uniforms := make([]UniformSlot, 0, count)
	buf := make([]uint8, 256)
	for i := int32(0); i < count; i++ {
		var (
			length int32
			size   int32
			xtype  uint32
		)
		gl.GetActiveUniform(program, uint32(i), int32(len(buf)), &length, &size, &xtype, &buf[0])
		name := string(buf[:length])
		location := gl.GetUniformLocation(program, gl.Str(name+"\x00"))
		if location < 0 {
			// uniform block members have no location
			continue
		}
		uniforms = append(uniforms, UniformSlot{
			Name:     UniformBaseName(name),
			Type:     xtype,
			Location: location,
		})
	}
	return uniforms
}

// UniformBaseName strips the "[0]" suffix GL reports for array uniforms.
func UniformBaseName(name string) string {
	return strings.TrimSuffix(name, "[0]")
}

// TypeName returns the GLSL spelling of a uniform type.
func TypeName(xtype uint32) string {
	switch xtype {
	case gl.FLOAT:
		return "float"
	case gl.FLOAT_VEC2:
		return "vec2"
	case gl.FLOAT_VEC3:
		return "vec3"
	case gl.FLOAT_VEC4:
		return "vec4"
	case gl.INT:
		return "int"
	case gl.UNSIGNED_INT:
		return "uint"
	case gl.BOOL:
		return "bool"
	case gl.FLOAT_MAT3:
		return "mat3"
	case gl.FLOAT_MAT4:
		return "mat4"
	case gl.SAMPLER_2D:
		return "sampler2D"
	case gl.SAMPLER_3D:
		return "sampler3D"
	case gl.SAMPLER_CUBE:
		return "samplerCube"
	case gl.SAMPLER_2D_SHADOW:
		return "sampler2DShadow"
	default:
		return fmt.Sprintf("type(0x%x)", xtype)
	}
}
