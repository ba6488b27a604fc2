package geometry

import (
	"fmt"

	"mini-render/internal/graphics"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Buffer is an uploaded, immutable piece of geometry: one VAO with its vertex,
// index and optional instance buffers.
type Buffer struct {
	Info

	vao       *graphics.Handle
	vertices  *graphics.Handle
	indices   *graphics.Handle
	instances *graphics.Handle
}

// Upload builds the GL objects for mesh.
func Upload(mesh MeshData) (*Buffer, error) {
	info, err := Describe(mesh)
	if err != nil {
		return nil, err
	}
	data, pointers, err := Interleave(mesh.Vertices, mesh.Format)
	if err != nil {
		return nil, err
	}

	b := &Buffer{Info: info}
	b.vao = graphics.NewVertexArray()
	gl.BindVertexArray(b.vao.ID())

	b.vertices = graphics.NewBuffer()
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vertices.ID())
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*floatSize, gl.Ptr(data), gl.STATIC_DRAW)
	enable(pointers)

	if mesh.Instances != nil && len(mesh.Instances.Data) > 0 {
		instPointers, err := mesh.Instances.Pointers()
		if err != nil {
			gl.BindVertexArray(0)
			b.Release()
			return nil, err
		}
		b.instances = graphics.NewBuffer()
		gl.BindBuffer(gl.ARRAY_BUFFER, b.instances.ID())
		gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Instances.Data)*floatSize, gl.Ptr(mesh.Instances.Data), gl.STATIC_DRAW)
		enable(instPointers)
	}

	b.indices = graphics.NewBuffer()
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.indices.ID())
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if err := graphics.CheckError("upload geometry"); err != nil {
		b.Release()
		return nil, fmt.Errorf("upload %s mesh: %w", info.Topology, err)
	}
	return b, nil
}

func enable(pointers []AttribPointer) {
	for _, p := range pointers {
		gl.EnableVertexAttribArray(p.Slot)
		gl.VertexAttribPointerWithOffset(p.Slot, p.Size, gl.FLOAT, false, p.Stride, p.Offset)
		if p.Divisor > 0 {
			gl.VertexAttribDivisor(p.Slot, p.Divisor)
		}
	}
}

// Draw issues the buffer's own topology.
func (b *Buffer) Draw() {
	b.DrawAs(b.Topology)
}

// DrawAs draws the same vertices with another topology.
func (b *Buffer) DrawAs(t Topology) {
	call := b.DrawCall(t)
	if call.Empty() {
		return
	}
	if t == Patches {
		gl.PatchParameteri(gl.PATCH_VERTICES, PatchVertices)
	}

	gl.BindVertexArray(b.vao.ID())
	if call.Instanced() {
		gl.DrawElementsInstanced(call.Mode, call.Count, gl.UNSIGNED_INT, nil, call.Instances)
	} else {
		gl.DrawElements(call.Mode, call.Count, gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)
}

// Release deletes every GL object. Safe to call twice.
func (b *Buffer) Release() {
	if b == nil {
		return
	}
	b.instances.Release()
	b.indices.Release()
	b.vertices.Release()
	b.vao.Release()
}
