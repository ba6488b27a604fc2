package graphics

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// noCopy makes `go vet` (copylocks) flag any by-value copy of the struct embedding it.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Handle owns a single OpenGL object name and deletes it on Release.
// Handles are only ever passed around as *Handle; ownership moves with Move.
type Handle struct {
	_       noCopy
	id      uint32
	release func(uint32)
}

// NewHandle creates the GL object with create and remembers how to delete it.
func NewHandle(create func() uint32, release func(uint32)) *Handle {
	return &Handle{id: create(), release: release}
}

// ID returns the GL object name, 0 when empty.
func (h *Handle) ID() uint32 {
	if h == nil {
		return 0
	}
	return h.id
}

// Valid reports whether the handle still owns an object.
func (h *Handle) Valid() bool {
	return h != nil && h.id != 0
}

// Release deletes the owned object. Calling it again is a no-op.
func (h *Handle) Release() {
	if h == nil || h.id == 0 {
		return
	}
	if h.release != nil {
		h.release(h.id)
	}
	h.id = 0
}

// Move transfers ownership to a new handle and leaves h empty.
func (h *Handle) Move() *Handle {
	moved := &Handle{id: h.id, release: h.release}
	h.id = 0
	h.release = nil
	return moved
}

func NewVertexArray() *Handle {
	return NewHandle(
		func() uint32 {
			var id uint32
			gl.GenVertexArrays(1, &id)
			return id
		},
		func(id uint32) { gl.DeleteVertexArrays(1, &id) })
}

func NewBuffer() *Handle {
	return NewHandle(
		func() uint32 {
			var id uint32
			gl.GenBuffers(1, &id)
			return id
		},
		func(id uint32) { gl.DeleteBuffers(1, &id) })
}

func NewTextureHandle() *Handle {
	return NewHandle(
		func() uint32 {
			var id uint32
			gl.GenTextures(1, &id)
			return id
		},
		func(id uint32) { gl.DeleteTextures(1, &id) })
}

func NewFramebufferHandle() *Handle {
	return NewHandle(
		func() uint32 {
			var id uint32
			gl.GenFramebuffers(1, &id)
			return id
		},
		func(id uint32) { gl.DeleteFramebuffers(1, &id) })
}

func NewRenderbuffer() *Handle {
	return NewHandle(
		func() uint32 {
			var id uint32
			gl.GenRenderbuffers(1, &id)
			return id
		},
		func(id uint32) { gl.DeleteRenderbuffers(1, &id) })
}

func NewShaderHandle(stage uint32) *Handle {
	return NewHandle(
		func() uint32 { return gl.CreateShader(stage) },
		func(id uint32) { gl.DeleteShader(id) })
}

func NewProgramHandle() *Handle {
	return NewHandle(
		func() uint32 { return gl.CreateProgram() },
		func(id uint32) { gl.DeleteProgram(id) })
}
