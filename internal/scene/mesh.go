package scene

import (
	"mini-render/internal/geometry"
	"mini-render/internal/material"
)

// Mesh draws named geometry from a GeometrySource, picking the shape by the
// material's render style.
type Mesh struct {
	Object

	solid     string
	wireframe string
}

// NewMesh draws solid for Solid materials and wireframe for Wireframe ones.
func NewMesh(name, solid, wireframe string) *Mesh {
	return &Mesh{Object: newObject(name), solid: solid, wireframe: wireframe}
}

func NewCube(name string) *Mesh {
	return NewMesh(name, geometry.ShapeCubeNormTex, geometry.ShapeCubeOutline)
}

func NewPlane(name string) *Mesh {
	return NewMesh(name, geometry.ShapePlane, geometry.ShapePlaneOutline)
}

func NewSphere(name string) *Mesh {
	return NewMesh(name, geometry.ShapeSphere, geometry.ShapeSphere)
}

// NewLoadedMesh draws geometry registered under shape in both styles; the
// wireframe look comes from the polygon mode.
func NewLoadedMesh(name, shape string) *Mesh {
	return NewMesh(name, shape, shape)
}

// Shape returns the geometry name drawn for style.
func (m *Mesh) Shape(style material.Style) string {
	if style == material.Wireframe {
		return m.wireframe
	}
	return m.solid
}

func (m *Mesh) Prepare(ms MaterialSource, gs GeometrySource) error {
	return m.prepare(ms, func(mat material.Material) (*geometry.Shared, error) {
		return gs.Get(m.Shape(mat.Style))
	})
}

// AxisGizmo draws colored X/Y/Z lines in every mode.
type AxisGizmo struct {
	Object
}

const (
	gizmoMode    = ""
	gizmoProgram = "linegizmo"
)

func NewAxisGizmo(name string) *AxisGizmo {
	g := &AxisGizmo{Object: newObject(name)}
	g.AddMaterial(gizmoMode, material.Material{Name: gizmoProgram})
	return g
}

func (g *AxisGizmo) RenderData(string) (RenderData, bool) {
	return g.Object.RenderData(gizmoMode)
}

func (g *AxisGizmo) Prepare(ms MaterialSource, gs GeometrySource) error {
	return g.prepare(ms, func(material.Material) (*geometry.Shared, error) {
		return gs.Get(geometry.ShapeAxisGizmo)
	})
}
