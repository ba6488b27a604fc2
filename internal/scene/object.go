package scene

import (
	"fmt"

	"mini-render/internal/geometry"
	"mini-render/internal/graphics"
	"mini-render/internal/material"

	"github.com/go-gl/mathgl/mgl32"
)

// Render modes used by the demo scenes.
const (
	ModeSolid     = "solid"
	ModeWireframe = "wireframe"
)

// MaterialSource resolves program and texture names.
type MaterialSource interface {
	Program(name string) (*graphics.Program, error)
	Texture(name string) (*graphics.Texture, error)
}

// GeometrySource hands out shared named geometry and uploads per-object meshes.
type GeometrySource interface {
	Get(name string) (*geometry.Shared, error)
	Upload(mesh geometry.MeshData) (*geometry.Buffer, error)
}

// Geometry is anything that can be drawn after its program is bound.
type Geometry interface {
	Draw()
	DrawAs(t geometry.Topology)
}

// RenderData is what a pass needs to draw one object in one mode.
type RenderData struct {
	Model    mgl32.Mat4
	Material *material.Material
	Program  *graphics.Program
	Geometry Geometry
}

// Position returns the world position encoded in the model matrix.
func (d RenderData) Position() mgl32.Vec3 {
	return d.Model.Col(3).Vec3()
}

// Renderable is an object the renderers can draw.
type Renderable interface {
	Name() string
	// RenderData reports false when the object has nothing to draw in mode.
	RenderData(mode string) (RenderData, bool)
	// Prepare resolves programs, textures and geometry for every mode.
	Prepare(ms MaterialSource, gs GeometrySource) error
	// Release drops every geometry reference the object holds.
	Release()
}

type renderInfo struct {
	material material.Material
	program  *graphics.Program
	geometry *geometry.Shared
}

// Object carries the state shared by every renderable: a name, a transform
// and one material per render mode.
type Object struct {
	Transform

	name  string
	modes map[string]*renderInfo
}

func newObject(name string) Object {
	return Object{
		Transform: NewTransform(),
		name:      name,
		modes:     make(map[string]*renderInfo),
	}
}

func (o *Object) Name() string { return o.name }

// AddMaterial sets the material drawn in mode. The params are copied.
func (o *Object) AddMaterial(mode string, m material.Material) {
	m.Params = m.Params.Clone()
	if m.Params == nil {
		m.Params = material.Params{}
	}
	if old, ok := o.modes[mode]; ok {
		old.geometry.Release()
	}
	o.modes[mode] = &renderInfo{material: m}
}

// Material returns the material of mode.
func (o *Object) Material(mode string) (*material.Material, bool) {
	info, ok := o.modes[mode]
	if !ok {
		return nil, false
	}
	return &info.material, true
}

// Modes returns the number of modes with a material.
func (o *Object) Modes() int {
	return len(o.modes)
}

// SetParam sets a parameter in every mode's material.
func (o *Object) SetParam(name string, v material.Value) {
	for _, info := range o.modes {
		info.material.Params[name] = v
	}
}

func (o *Object) RenderData(mode string) (RenderData, bool) {
	info, ok := o.modes[mode]
	if !ok || info.program == nil || info.geometry == nil || info.geometry.Refs() == 0 {
		return RenderData{}, false
	}
	return RenderData{
		Model:    o.Model(),
		Material: &info.material,
		Program:  info.program,
		Geometry: info.geometry.Get(),
	}, true
}

// prepare resolves every mode. pick returns a reference the object then owns.
func (o *Object) prepare(ms MaterialSource, pick func(material.Material) (*geometry.Shared, error)) error {
	for mode, info := range o.modes {
		program, err := ms.Program(info.material.Name)
		if err != nil {
			return fmt.Errorf("object %q mode %q: %w", o.name, mode, err)
		}
		if err := material.ResolveTextures(info.material.Params, ms); err != nil {
			return fmt.Errorf("object %q mode %q: %w", o.name, mode, err)
		}
		geo, err := pick(info.material)
		if err != nil {
			return fmt.Errorf("object %q mode %q: %w", o.name, mode, err)
		}
		info.geometry.Release()
		info.program = program
		info.geometry = geo
	}
	return nil
}

// install makes buf the geometry of every mode and releases what was there.
func (o *Object) install(buf *geometry.Buffer) {
	shared := graphics.Share(buf)
	for _, info := range o.modes {
		old := info.geometry
		info.geometry = shared.Retain()
		old.Release()
	}
	shared.Release()
}

func (o *Object) Release() {
	for _, info := range o.modes {
		info.geometry.Release()
		info.geometry = nil
	}
}
