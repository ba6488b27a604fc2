package graphics

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// GLError is an error code reported by glGetError after an operation.
type GLError struct {
	Op   string
	Code uint32
}

func (e *GLError) Error() string {
	return fmt.Sprintf("%s: %s (0x%x)", e.Op, ErrorString(e.Code), e.Code)
}

// ErrorString maps a GL error code to its enum name.
func ErrorString(code uint32) string {
	switch code {
	case gl.NO_ERROR:
		return "NO_ERROR"
	case gl.INVALID_ENUM:
		return "INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "INVALID_OPERATION"
	case gl.STACK_OVERFLOW:
		return "STACK_OVERFLOW"
	case gl.STACK_UNDERFLOW:
		return "STACK_UNDERFLOW"
	case gl.OUT_OF_MEMORY:
		return "OUT_OF_MEMORY"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "INVALID_FRAMEBUFFER_OPERATION"
	default:
		return "UNKNOWN_ERROR"
	}
}

// CheckError returns the pending GL error for op, if any. Only the first
// queued code is reported; the rest of the queue is drained.
func CheckError(op string) error {
	code := gl.GetError()
	if code == gl.NO_ERROR {
		return nil
	}
	for gl.GetError() != gl.NO_ERROR {
	}
	return &GLError{Op: op, Code: code}
}

// CompileError carries the info log of a shader stage that failed to compile.
type CompileError struct {
	Stage uint32
	Name  string
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s %q: %s", StageName(e.Stage), e.Name, e.Log)
}

// StageName returns a readable shader stage name.
func StageName(stage uint32) string {
	switch stage {
	case gl.VERTEX_SHADER:
		return "vertex shader"
	case gl.FRAGMENT_SHADER:
		return "fragment shader"
	case gl.GEOMETRY_SHADER:
		return "geometry shader"
	case gl.TESS_CONTROL_SHADER:
		return "tessellation control shader"
	case gl.TESS_EVALUATION_SHADER:
		return "tessellation evaluation shader"
	default:
		return "unknown shader stage"
	}
}
