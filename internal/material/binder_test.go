package material

import (
	"testing"

	"mini-render/internal/graphics"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	kind     string
	location int32
	value    any
}

type recorder struct {
	calls []call
}

func (r *recorder) add(kind string, loc int32, v any) {
	r.calls = append(r.calls, call{kind, loc, v})
}

func (r *recorder) Int(loc int32, v int32)       { r.add("int", loc, v) }
func (r *recorder) Uint(loc int32, v uint32)     { r.add("uint", loc, v) }
func (r *recorder) Float(loc int32, v float32)   { r.add("float", loc, v) }
func (r *recorder) Vec2(loc int32, v mgl32.Vec2) { r.add("vec2", loc, v) }
func (r *recorder) Vec3(loc int32, v mgl32.Vec3) { r.add("vec3", loc, v) }
func (r *recorder) Vec4(loc int32, v mgl32.Vec4) { r.add("vec4", loc, v) }
func (r *recorder) Mat3(loc int32, v mgl32.Mat3) { r.add("mat3", loc, v) }
func (r *recorder) Mat4(loc int32, v mgl32.Mat4) { r.add("mat4", loc, v) }
func (r *recorder) Texture(loc int32, unit int32, tex *graphics.Texture) {
	r.add("texture", loc, unit)
}
func (r *recorder) FloatArray(loc int32, components, count int32, data []float32) {
	r.add("floats", loc, [2]int32{components, count})
}

func program(names ...string) *graphics.Program {
	p := &graphics.Program{Name: "test"}
	for i, n := range names {
		p.Uniforms = append(p.Uniforms, graphics.UniformSlot{Name: n, Type: gl.FLOAT, Location: int32(i)})
	}
	return p
}

func texture() *graphics.Texture {
	return graphics.WrapTexture(nil, gl.TEXTURE_2D, 1, 1)
}

func TestResolveObjectOverridesFallback(t *testing.T) {
	slots := program("u_solidColor", "u_viewMat", "u_missing").Uniforms
	params := Params{"u_solidColor": Vec4{1, 0, 0, 1}}
	fallback := Params{
		"u_solidColor": Vec4{0.5, 0.5, 0.5, 1},
		"u_viewMat":    Mat4(mgl32.Ident4()),
	}

	bindings := Resolve(slots, params, fallback)
	require.Len(t, bindings, 2)

	assert.Equal(t, "u_solidColor", bindings[0].Slot.Name)
	assert.Equal(t, Vec4{1, 0, 0, 1}, bindings[0].Value)
	assert.Equal(t, FromObject, bindings[0].Source)

	assert.Equal(t, "u_viewMat", bindings[1].Slot.Name)
	assert.Equal(t, FromFallback, bindings[1].Source)
}

func TestBindSkipsUnusedParameters(t *testing.T) {
	// u_modelMat supplied but not an active uniform of the program
	p := program("u_projMat")
	r := &recorder{}
	units := Bind(r, p, nil, Params{
		"u_projMat":  Mat4(mgl32.Ident4()),
		"u_modelMat": Mat4(mgl32.Ident4()),
	})

	assert.Equal(t, 0, units)
	require.Len(t, r.calls, 1)
	assert.Equal(t, "mat4", r.calls[0].kind)
}

func TestBindDispatchesEveryKind(t *testing.T) {
	p := program("i", "u", "f", "v2", "v3", "v4", "m3", "m4", "tex", "arr")
	params := Params{
		"i":   Int(-3),
		"u":   Uint(7),
		"f":   Float(0.5),
		"v2":  Vec2{1, 2},
		"v3":  Vec3{1, 2, 3},
		"v4":  Vec4{1, 2, 3, 4},
		"m3":  Mat3(mgl32.Ident3()),
		"m4":  Mat4(mgl32.Ident4()),
		"tex": TextureRef{Name: "a.png", Texture: texture()},
		"arr": Floats([]float32{1, 2, 3}),
	}
	r := &recorder{}
	units := Bind(r, p, params, nil)

	assert.Equal(t, 1, units)
	kinds := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		kinds = append(kinds, c.kind)
	}
	assert.Equal(t, []string{"int", "uint", "float", "vec2", "vec3", "vec4", "mat3", "mat4", "texture", "floats"}, kinds)
	assert.Equal(t, int32(-3), r.calls[0].value)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, r.calls[4].value)
}

func TestBindTextureUnitsAreSequential(t *testing.T) {
	p := program("u_diffuse", "u_normal", "u_position")
	params := Params{
		"u_diffuse":  TextureRef{Texture: texture()},
		"u_normal":   TextureRef{Texture: texture()},
		"u_position": TextureRef{Texture: texture()},
	}
	r := &recorder{}
	units := Bind(r, p, params, nil)

	assert.Equal(t, 3, units)
	for i, c := range r.calls {
		assert.Equal(t, int32(i), c.location)
		assert.Equal(t, int32(i), c.value)
	}
}

func TestBindNilTextureDoesNotConsumeUnit(t *testing.T) {
	p := program("u_a", "u_b", "u_c")
	params := Params{
		"u_a": TextureRef{Texture: texture()},
		"u_b": TextureRef{Name: "missing.png"},
		"u_c": TextureRef{Texture: texture()},
	}
	r := &recorder{}
	units := Bind(r, p, params, nil)

	assert.Equal(t, 2, units)
	require.Len(t, r.calls, 2)
	assert.Equal(t, int32(0), r.calls[0].value)
	assert.Equal(t, int32(2), r.calls[1].location)
	assert.Equal(t, int32(1), r.calls[1].value)
}

func TestBindFloatArrayUsesCount(t *testing.T) {
	p := program("u_samples")
	data := make([]float32, 64*3)
	r := &recorder{}
	Bind(r, p, Params{"u_samples": FloatArray{Count: 16, Components: 3, Data: data}}, nil)

	require.Len(t, r.calls, 1)
	assert.Equal(t, [2]int32{3, 16}, r.calls[0].value)
}

func TestBindSkipsMalformedFloatArray(t *testing.T) {
	p := program("u_samples")
	r := &recorder{}
	Bind(r, p, Params{"u_samples": FloatArray{Count: 4, Components: 3, Data: make([]float32, 6)}}, nil)
	assert.Empty(t, r.calls)
}

func TestKindOfAndBool(t *testing.T) {
	assert.Equal(t, Kind("vec3"), KindOf(Vec3{}))
	assert.Equal(t, Kind("texture"), KindOf(TextureRef{}))
	assert.Equal(t, Kind("float[]"), KindOf(Vec3Array(nil)))
	assert.Equal(t, Int(1), Bool(true))
	assert.Equal(t, Int(0), Bool(false))
}

func TestVec3Array(t *testing.T) {
	a := Vec3Array([]mgl32.Vec3{{1, 2, 3}, {4, 5, 6}})
	assert.Equal(t, 2, a.Count)
	assert.Equal(t, 3, a.Components)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, a.Data)
	assert.True(t, a.Valid())
}

func TestParamsWith(t *testing.T) {
	base := Params{"a": Int(1), "b": Int(2)}
	out := base.With(Params{"b": Int(3)})

	assert.Equal(t, Int(3), out["b"])
	assert.Equal(t, Int(2), base["b"])
}
