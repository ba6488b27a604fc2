package material

import (
	"mini-render/internal/graphics"
	"mini-render/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Source records where a resolved value came from.
type Source uint8

const (
	FromObject Source = iota
	FromFallback
)

// Binding pairs an active uniform with the value it will receive.
type Binding struct {
	Slot   graphics.UniformSlot
	Value  Value
	Source Source
}

// Resolve picks a value for every slot: object params first, then the pass
// fallback. Slots with neither are left out, which is not an error. The
// result keeps slot order.
func Resolve(slots []graphics.UniformSlot, params, fallback Params) []Binding {
	bindings := make([]Binding, 0, len(slots))
	for _, slot := range slots {
		if v, ok := params[slot.Name]; ok {
			bindings = append(bindings, Binding{Slot: slot, Value: v, Source: FromObject})
			continue
		}
		if v, ok := fallback[slot.Name]; ok {
			bindings = append(bindings, Binding{Slot: slot, Value: v, Source: FromFallback})
		}
	}
	return bindings
}

// Uploader writes uniform values into the currently used program.
type Uploader interface {
	Int(location int32, v int32)
	Uint(location int32, v uint32)
	Float(location int32, v float32)
	Vec2(location int32, v mgl32.Vec2)
	Vec3(location int32, v mgl32.Vec3)
	Vec4(location int32, v mgl32.Vec4)
	Mat3(location int32, v mgl32.Mat3)
	Mat4(location int32, v mgl32.Mat4)
	// Texture binds tex to unit and points the sampler at location to it.
	Texture(location int32, unit int32, tex *graphics.Texture)
	// FloatArray uploads count elements of components floats.
	FloatArray(location int32, components, count int32, data []float32)
}

// Bind uploads every resolved parameter of program through u and returns the
// number of texture units used. The program must already be in use.
func Bind(u Uploader, program *graphics.Program, params, fallback Params) int {
	b := binder{up: u}
	for _, binding := range Resolve(program.Uniforms, params, fallback) {
		b.slot = binding.Slot
		binding.Value.Accept(&b)
	}
	return int(b.unit)
}

type binder struct {
	up   Uploader
	slot graphics.UniformSlot
	unit int32
}

func (b *binder) VisitInt(v Int)     { b.up.Int(b.slot.Location, int32(v)) }
func (b *binder) VisitUint(v Uint)   { b.up.Uint(b.slot.Location, uint32(v)) }
func (b *binder) VisitFloat(v Float) { b.up.Float(b.slot.Location, float32(v)) }
func (b *binder) VisitVec2(v Vec2)   { b.up.Vec2(b.slot.Location, mgl32.Vec2(v)) }
func (b *binder) VisitVec3(v Vec3)   { b.up.Vec3(b.slot.Location, mgl32.Vec3(v)) }
func (b *binder) VisitVec4(v Vec4)   { b.up.Vec4(b.slot.Location, mgl32.Vec4(v)) }
func (b *binder) VisitMat3(v Mat3)   { b.up.Mat3(b.slot.Location, mgl32.Mat3(v)) }
func (b *binder) VisitMat4(v Mat4)   { b.up.Mat4(b.slot.Location, mgl32.Mat4(v)) }

func (b *binder) VisitTexture(v TextureRef) {
	if v.Texture == nil {
		logger.Log.Warn("texture not resolved, skipping sampler",
			zap.String("uniform", b.slot.Name),
			zap.String("texture", v.Name))
		return
	}
	b.up.Texture(b.slot.Location, b.unit, v.Texture)
	b.unit++
}

func (b *binder) VisitFloatArray(v FloatArray) {
	if !v.Valid() {
		logger.Log.Warn("malformed float array, skipping",
			zap.String("uniform", b.slot.Name),
			zap.Int("count", v.Count),
			zap.Int("components", v.Components),
			zap.Int("len", len(v.Data)))
		return
	}
	if v.Count == 0 {
		return
	}
	b.up.FloatArray(b.slot.Location, int32(v.Components), int32(v.Count), v.Data)
}

// GLUploader uploads through the OpenGL API.
type GLUploader struct{}

func (GLUploader) Int(location int32, v int32)     { gl.Uniform1i(location, v) }
func (GLUploader) Uint(location int32, v uint32)   { gl.Uniform1ui(location, v) }
func (GLUploader) Float(location int32, v float32) { gl.Uniform1f(location, v) }

func (GLUploader) Vec2(location int32, v mgl32.Vec2) { gl.Uniform2fv(location, 1, &v[0]) }
func (GLUploader) Vec3(location int32, v mgl32.Vec3) { gl.Uniform3fv(location, 1, &v[0]) }
func (GLUploader) Vec4(location int32, v mgl32.Vec4) { gl.Uniform4fv(location, 1, &v[0]) }

func (GLUploader) Mat3(location int32, v mgl32.Mat3) {
	gl.UniformMatrix3fv(location, 1, false, &v[0])
}

func (GLUploader) Mat4(location int32, v mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &v[0])
}

func (GLUploader) Texture(location int32, unit int32, tex *graphics.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(tex.Target, tex.ID())
	gl.Uniform1i(location, unit)
}

func (GLUploader) FloatArray(location int32, components, count int32, data []float32) {
	switch components {
	case 1:
		gl.Uniform1fv(location, count, &data[0])
	case 2:
		gl.Uniform2fv(location, count, &data[0])
	case 3:
		gl.Uniform3fv(location, count, &data[0])
	case 4:
		gl.Uniform4fv(location, count, &data[0])
	}
}
