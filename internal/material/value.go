package material

import (
	"mini-render/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// Value is a material parameter. The set of kinds is closed: only this package
// can add one, and every Visitor must handle all of them.
type Value interface {
	Accept(v Visitor)
	sealed()
}

// Visitor handles each Value kind. Adding a kind adds a method here, which
// breaks every implementation until it is handled.
type Visitor interface {
	VisitInt(Int)
	VisitUint(Uint)
	VisitFloat(Float)
	VisitVec2(Vec2)
	VisitVec3(Vec3)
	VisitVec4(Vec4)
	VisitMat3(Mat3)
	VisitMat4(Mat4)
	VisitTexture(TextureRef)
	VisitFloatArray(FloatArray)
}

type (
	Int   int32
	Uint  uint32
	Float float32
	Vec2  mgl32.Vec2
	Vec3  mgl32.Vec3
	Vec4  mgl32.Vec4
	Mat3  mgl32.Mat3
	Mat4  mgl32.Mat4
)

// TextureRef names a texture. Texture stays nil until the name is resolved
// against a Library.
type TextureRef struct {
	Name    string
	Texture *graphics.Texture
}

// FloatArray is a view over Count elements of Components floats each.
// Data may be longer than Count*Components; only Count elements are uploaded.
type FloatArray struct {
	Count      int
	Components int
	Data       []float32
}

// Floats returns a float array of scalars.
func Floats(data []float32) FloatArray {
	return FloatArray{Count: len(data), Components: 1, Data: data}
}

// Vec3Array flattens vectors into a three-component array.
func Vec3Array(vs []mgl32.Vec3) FloatArray {
	data := make([]float32, 0, len(vs)*3)
	for _, v := range vs {
		data = append(data, v[:]...)
	}
	return FloatArray{Count: len(vs), Components: 3, Data: data}
}

// Valid reports whether Data holds Count elements of a supported width.
func (a FloatArray) Valid() bool {
	return a.Components >= 1 && a.Components <= 4 && a.Count >= 0 && a.Count*a.Components <= len(a.Data)
}

// Bool encodes a flag the way GLSL bool uniforms expect it.
func Bool(b bool) Int {
	if b {
		return 1
	}
	return 0
}

func (v Int) Accept(vis Visitor)        { vis.VisitInt(v) }
func (v Uint) Accept(vis Visitor)       { vis.VisitUint(v) }
func (v Float) Accept(vis Visitor)      { vis.VisitFloat(v) }
func (v Vec2) Accept(vis Visitor)       { vis.VisitVec2(v) }
func (v Vec3) Accept(vis Visitor)       { vis.VisitVec3(v) }
func (v Vec4) Accept(vis Visitor)       { vis.VisitVec4(v) }
func (v Mat3) Accept(vis Visitor)       { vis.VisitMat3(v) }
func (v Mat4) Accept(vis Visitor)       { vis.VisitMat4(v) }
func (v TextureRef) Accept(vis Visitor) { vis.VisitTexture(v) }
func (v FloatArray) Accept(vis Visitor) { vis.VisitFloatArray(v) }

func (Int) sealed()        {}
func (Uint) sealed()       {}
func (Float) sealed()      {}
func (Vec2) sealed()       {}
func (Vec3) sealed()       {}
func (Vec4) sealed()       {}
func (Mat3) sealed()       {}
func (Mat4) sealed()       {}
func (TextureRef) sealed() {}
func (FloatArray) sealed() {}

// Kind is the name of a value's kind, for logs and errors.
type Kind string

type kindOf struct{ kind Kind }

func (k *kindOf) VisitInt(Int)               { k.kind = "int" }
func (k *kindOf) VisitUint(Uint)             { k.kind = "uint" }
func (k *kindOf) VisitFloat(Float)           { k.kind = "float" }
func (k *kindOf) VisitVec2(Vec2)             { k.kind = "vec2" }
func (k *kindOf) VisitVec3(Vec3)             { k.kind = "vec3" }
func (k *kindOf) VisitVec4(Vec4)             { k.kind = "vec4" }
func (k *kindOf) VisitMat3(Mat3)             { k.kind = "mat3" }
func (k *kindOf) VisitMat4(Mat4)             { k.kind = "mat4" }
func (k *kindOf) VisitTexture(TextureRef)    { k.kind = "texture" }
func (k *kindOf) VisitFloatArray(FloatArray) { k.kind = "float[]" }

// KindOf returns the kind name of v.
func KindOf(v Value) Kind {
	var k kindOf
	v.Accept(&k)
	return k.kind
}
