package geometry

import (
	"fmt"

	"mini-render/internal/graphics"
	"mini-render/internal/logger"

	"go.uber.org/zap"
)

// Names of the built-in shapes.
const (
	ShapeCube         = "cube"
	ShapeCubeOutline  = "cubeOutline"
	ShapeCubeNormTex  = "cubeNormTex"
	ShapePlane        = "plane"
	ShapePlaneOutline = "planeOutline"
	ShapeQuad         = "quad"
	ShapeAxisGizmo    = "axisGizmo"
	ShapeSphere       = "sphere"
)

var builtins = map[string]func() MeshData{
	ShapeCube:         Cube,
	ShapeCubeOutline:  CubeOutline,
	ShapeCubeNormTex:  CubeNormTex,
	ShapePlane:        Plane,
	ShapePlaneOutline: PlaneOutline,
	ShapeQuad:         Quad,
	ShapeAxisGizmo:    AxisGizmo,
	ShapeSphere:       func() MeshData { return Sphere(16, 32) },
}

// Shared is a geometry buffer with reference-counted ownership.
type Shared = graphics.Shared[*Buffer]

// Factory uploads each named geometry once and hands out shared references.
// The factory itself holds one reference per entry until Dispose.
type Factory struct {
	upload  func(MeshData) (*Buffer, error)
	objects map[string]*Shared
}

func NewFactory() *Factory {
	return &Factory{
		upload:  Upload,
		objects: make(map[string]*Shared),
	}
}

// Get returns the named geometry, building a built-in shape on first use.
// The caller owns the returned reference and must Release it.
func (f *Factory) Get(name string) (*Shared, error) {
	if s, ok := f.objects[name]; ok {
		return s.Retain(), nil
	}
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("geometry %q: not registered", name)
	}
	if err := f.Register(name, build()); err != nil {
		return nil, err
	}
	return f.objects[name].Retain(), nil
}

// Register uploads an externally built mesh under name. Names are unique.
func (f *Factory) Register(name string, mesh MeshData) error {
	if _, exists := f.objects[name]; exists {
		return fmt.Errorf("geometry %q: already registered", name)
	}
	buf, err := f.upload(mesh)
	if err != nil {
		return fmt.Errorf("geometry %q: %w", name, err)
	}
	f.objects[name] = graphics.Share(buf)
	logger.Log.Debug("geometry uploaded",
		zap.String("name", name),
		zap.Int("indices", buf.IndexCount),
		zap.Stringer("topology", buf.Topology))
	return nil
}

// Upload builds an uncached buffer owned by the caller, for geometry that
// belongs to a single object.
func (f *Factory) Upload(mesh MeshData) (*Buffer, error) {
	return f.upload(mesh)
}

// Len returns the number of cached geometries.
func (f *Factory) Len() int {
	return len(f.objects)
}

// Dispose drops the factory's references. Geometry still held elsewhere
// survives until its last holder releases it.
func (f *Factory) Dispose() {
	for name, s := range f.objects {
		s.Release()
		delete(f.objects, name)
	}
}
