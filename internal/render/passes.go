package render

import (
	"cmp"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"mini-render/internal/geometry"
	"mini-render/internal/graphics"
	"mini-render/internal/material"
	"mini-render/internal/scene"
)

// Collect gathers the draw data of every object that contributes to mode.
func Collect(objects []scene.Renderable, mode string) []scene.RenderData {
	out := make([]scene.RenderData, 0, len(objects))
	for _, o := range objects {
		if d, ok := o.RenderData(mode); ok {
			out = append(out, d)
		}
	}
	return out
}

// viewParams are the per-frame fallbacks every scene program may read.
func viewParams(cam Camera, solid mgl32.Vec4) material.Params {
	return material.Params{
		"u_projMat":    material.Mat4(cam.ProjectionMatrix()),
		"u_viewMat":    material.Mat4(cam.ViewMatrix()),
		"u_viewPos":    material.Vec3(cam.Position()),
		"u_near":       material.Float(cam.Near()),
		"u_far":        material.Float(cam.Far()),
		"u_solidColor": material.Vec4(solid),
	}
}

// withModel adds the per-object matrices to fallback in place.
func withModel(fallback material.Params, model mgl32.Mat4) material.Params {
	fallback["u_modelMat"] = material.Mat4(model)
	fallback["u_normalMat"] = material.Mat3(NormalMatrix(model))
	return fallback
}

// NormalMatrix is the inverse transpose of the upper 3x3 of model, which keeps
// normals perpendicular to surfaces under non-uniform scale.
func NormalMatrix(model mgl32.Mat4) mgl32.Mat3 {
	return model.Mat3().Inv().Transpose()
}

// draw binds data's own program and parameters over fallback and issues the
// draw call.
func draw(u material.Uploader, data scene.RenderData, fallback material.Params) {
	data.Program.Use()
	var params material.Params
	if data.Material != nil {
		params = data.Material.Params
	}
	material.Bind(u, data.Program, params, withModel(fallback, data.Model))
	if data.Material != nil && data.Material.Tessellation {
		data.Geometry.DrawAs(geometry.Patches)
		return
	}
	data.Geometry.Draw()
}

// bindOverride binds fallback and the object's matrices to program, ignoring
// the object's own material. program must be in use.
func bindOverride(u material.Uploader, program *graphics.Program, data scene.RenderData, fallback material.Params) {
	material.Bind(u, program, withModel(fallback, data.Model), nil)
}

func buffer(g scene.Geometry) (*geometry.Buffer, bool) {
	b, ok := g.(*geometry.Buffer)
	return b, ok && b != nil
}

// ShadowCasters splits items into geometry drawn once and geometry with a
// per-instance stream.
func ShadowCasters(items []scene.RenderData) (plain, instanced []scene.RenderData) {
	for _, d := range items {
		if b, ok := buffer(d.Geometry); ok && b.Instanced {
			instanced = append(instanced, d)
			continue
		}
		plain = append(plain, d)
	}
	return plain, instanced
}

// WithNormals keeps the items whose geometry carries vertex normals.
func WithNormals(items []scene.RenderData) []scene.RenderData {
	var out []scene.RenderData
	for _, d := range items {
		if b, ok := buffer(d.Geometry); ok && b.Format.Has(geometry.WithNormal) {
			out = append(out, d)
		}
	}
	return out
}

// Partition splits items into opaque and transparent by material name,
// keeping their relative order.
func Partition(items []scene.RenderData, transparent map[string]bool) (opaque, blended []scene.RenderData) {
	for _, d := range items {
		if d.Material != nil && transparent[d.Material.Name] {
			blended = append(blended, d)
			continue
		}
		opaque = append(opaque, d)
	}
	return opaque, blended
}

// ViewDistance is the distance of pos from the eye in view space.
func ViewDistance(view mgl32.Mat4, pos mgl32.Vec3) float32 {
	return view.Mul4x1(pos.Vec4(1)).Vec3().Len()
}

// SortBackToFront orders items farthest first. Items at equal distance keep
// their order.
func SortBackToFront(items []scene.RenderData, view mgl32.Mat4) {
	slices.SortStableFunc(items, func(a, b scene.RenderData) int {
		return cmp.Compare(ViewDistance(view, b.Position()), ViewDistance(view, a.Position()))
	})
}
