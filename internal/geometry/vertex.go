package geometry

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// Attribute slots shared with every vertex shader.
const (
	PositionSlot uint32 = 0
	NormalSlot   uint32 = 1
	// ColorSlot is used by unlit line geometry that carries no normals.
	ColorSlot    uint32 = 1
	TexCoordSlot uint32 = 2
	// FirstInstanceSlot is where per-instance attributes start.
	FirstInstanceSlot uint32 = 3
)

const floatSize = 4

// Format selects which optional vertex attributes are stored.
type Format uint8

const (
	WithNormal Format = 1 << iota
	WithTexCoord
	WithColor
)

func (f Format) Has(flag Format) bool { return f&flag != 0 }

var ErrNormalAndColor = errors.New("geometry: normal and color share attribute slot 1")

// Vertex is the CPU-side vertex; unused fields are ignored according to Format.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
	Color    mgl32.Vec3
}

// AttribPointer describes one glVertexAttribPointer call.
type AttribPointer struct {
	Slot    uint32
	Size    int32
	Stride  int32
	Offset  uintptr
	Divisor uint32
}

// Interleave packs vertices into one float stream following the slot layout.
func Interleave(vertices []Vertex, format Format) ([]float32, []AttribPointer, error) {
	if format.Has(WithNormal) && format.Has(WithColor) {
		return nil, nil, ErrNormalAndColor
	}

	floats := 3
	if format.Has(WithNormal) {
		floats += 3
	}
	if format.Has(WithColor) {
		floats += 3
	}
	if format.Has(WithTexCoord) {
		floats += 2
	}
	stride := int32(floats * floatSize)

	pointers := []AttribPointer{{Slot: PositionSlot, Size: 3, Stride: stride}}
	offset := uintptr(3 * floatSize)
	if format.Has(WithNormal) {
		pointers = append(pointers, AttribPointer{Slot: NormalSlot, Size: 3, Stride: stride, Offset: offset})
		offset += 3 * floatSize
	}
	if format.Has(WithColor) {
		pointers = append(pointers, AttribPointer{Slot: ColorSlot, Size: 3, Stride: stride, Offset: offset})
		offset += 3 * floatSize
	}
	if format.Has(WithTexCoord) {
		pointers = append(pointers, AttribPointer{Slot: TexCoordSlot, Size: 2, Stride: stride, Offset: offset})
	}

	data := make([]float32, 0, len(vertices)*floats)
	for _, v := range vertices {
		data = append(data, v.Position[:]...)
		if format.Has(WithNormal) {
			data = append(data, v.Normal[:]...)
		}
		if format.Has(WithColor) {
			data = append(data, v.Color[:]...)
		}
		if format.Has(WithTexCoord) {
			data = append(data, v.TexCoord[:]...)
		}
	}
	return data, pointers, nil
}

// InstanceStream is a tightly packed per-instance attribute buffer. Sizes lists
// the component count of each attribute, which land at consecutive slots
// starting at FirstInstanceSlot.
type InstanceStream struct {
	Data  []float32
	Sizes []int32
}

func (s *InstanceStream) floatsPerInstance() int {
	n := 0
	for _, size := range s.Sizes {
		n += int(size)
	}
	return n
}

// Count returns the number of instances held by the stream.
func (s *InstanceStream) Count() int {
	if s == nil {
		return 0
	}
	per := s.floatsPerInstance()
	if per == 0 {
		return 0
	}
	return len(s.Data) / per
}

// Pointers returns the divisor-1 attribute pointers of the stream.
func (s *InstanceStream) Pointers() ([]AttribPointer, error) {
	per := s.floatsPerInstance()
	if per == 0 {
		return nil, errors.New("geometry: instance stream has no attributes")
	}
	if len(s.Data)%per != 0 {
		return nil, errors.New("geometry: instance data is not a whole number of instances")
	}
	stride := int32(per * floatSize)
	pointers := make([]AttribPointer, 0, len(s.Sizes))
	var offset uintptr
	for i, size := range s.Sizes {
		if size < 1 || size > 4 {
			return nil, errors.New("geometry: instance attribute size must be 1..4")
		}
		pointers = append(pointers, AttribPointer{
			Slot:    FirstInstanceSlot + uint32(i),
			Size:    size,
			Stride:  stride,
			Offset:  offset,
			Divisor: 1,
		})
		offset += uintptr(size) * floatSize
	}
	return pointers, nil
}
