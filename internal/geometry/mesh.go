package geometry

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// PatchVertices is the patch size used for tessellated draws.
const PatchVertices = 3

// Topology is the primitive type a buffer is drawn with.
type Topology uint8

const (
	Triangles Topology = iota
	TriangleStrip
	Lines
	Points
	Patches
)

// Mode returns the GL primitive enum.
func (t Topology) Mode() uint32 {
	switch t {
	case TriangleStrip:
		return gl.TRIANGLE_STRIP
	case Lines:
		return gl.LINES
	case Points:
		return gl.POINTS
	case Patches:
		return gl.PATCHES
	default:
		return gl.TRIANGLES
	}
}

func (t Topology) String() string {
	switch t {
	case Triangles:
		return "triangles"
	case TriangleStrip:
		return "triangle strip"
	case Lines:
		return "lines"
	case Points:
		return "points"
	case Patches:
		return "patches"
	default:
		return fmt.Sprintf("Topology(%d)", uint8(t))
	}
}

// Primitives returns how many primitives count indices assemble into.
func (t Topology) Primitives(count int) int {
	switch t {
	case TriangleStrip:
		return max(count-2, 0)
	case Lines:
		return count / 2
	case Points:
		return count
	case Patches:
		return count / PatchVertices
	default:
		return count / 3
	}
}

// MeshData is everything needed to build a Buffer.
type MeshData struct {
	Vertices  []Vertex
	Format    Format
	Indices   []uint32
	Topology  Topology
	Instances *InstanceStream
}

var ErrNoIndices = errors.New("geometry: mesh has no indices")

// Info holds the immutable counts of an uploaded buffer.
type Info struct {
	IndexCount    int
	VertexCount   int
	InstanceCount int
	// Instanced is set when the mesh had an instance stream, even an empty one.
	Instanced bool
	Format    Format
	Topology  Topology
}

// Describe validates a mesh and computes its counts.
func Describe(mesh MeshData) (Info, error) {
	if len(mesh.Indices) == 0 {
		return Info{}, ErrNoIndices
	}
	for i, idx := range mesh.Indices {
		if int(idx) >= len(mesh.Vertices) {
			return Info{}, fmt.Errorf("geometry: index %d at position %d out of range for %d vertices", idx, i, len(mesh.Vertices))
		}
	}
	if mesh.Format.Has(WithNormal) && mesh.Format.Has(WithColor) {
		return Info{}, ErrNormalAndColor
	}
	info := Info{
		IndexCount:  len(mesh.Indices),
		VertexCount: len(mesh.Vertices),
		Format:      mesh.Format,
		Topology:    mesh.Topology,
	}
	if mesh.Instances != nil {
		info.Instanced = true
		if _, err := mesh.Instances.Pointers(); err != nil {
			return Info{}, err
		}
		info.InstanceCount = mesh.Instances.Count()
	}
	return info, nil
}

// DrawCall is the draw a buffer issues for a topology.
type DrawCall struct {
	Mode      uint32
	Count     int32
	Instances int32
}

// Instanced reports whether the call is glDrawElementsInstanced.
func (c DrawCall) Instanced() bool {
	return c.Instances > 0
}

// Empty reports a call with nothing to draw.
func (c DrawCall) Empty() bool {
	return c.Count == 0
}

// DrawCall selects the draw for topology t. Instance count 0 means a plain
// indexed draw, unless the buffer was built with an instance stream that
// turned out empty, which draws nothing.
func (i Info) DrawCall(t Topology) DrawCall {
	call := DrawCall{
		Mode:      t.Mode(),
		Count:     int32(i.IndexCount),
		Instances: int32(i.InstanceCount),
	}
	if i.Instanced && i.InstanceCount == 0 {
		call.Count = 0
	}
	return call
}

// Primitives returns how many primitives one draw of the buffer produces,
// across all instances.
func (i Info) Primitives() int {
	n := i.Topology.Primitives(i.IndexCount)
	if i.Instanced {
		n *= i.InstanceCount
	}
	return n
}
