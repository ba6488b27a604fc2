package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Updater is implemented by objects that animate between frames.
type Updater interface {
	Update(dt float32) error
}

// CameraAware is implemented by objects that orient themselves to the camera.
type CameraAware interface {
	SetCameraVectors(view mgl32.Mat4)
}

// Scene is an ordered list of renderables.
type Scene struct {
	Name    string
	objects []Renderable
}

func New(name string) *Scene {
	return &Scene{Name: name}
}

// Add appends objects in draw order.
func (s *Scene) Add(objects ...Renderable) {
	s.objects = append(s.objects, objects...)
}

func (s *Scene) Objects() []Renderable {
	return s.objects
}

// Find returns the first object called name.
func (s *Scene) Find(name string) (Renderable, bool) {
	for _, o := range s.objects {
		if o.Name() == name {
			return o, true
		}
	}
	return nil, false
}

// Prepare resolves every object against the sources.
func (s *Scene) Prepare(ms MaterialSource, gs GeometrySource) error {
	for _, o := range s.objects {
		if err := o.Prepare(ms, gs); err != nil {
			return err
		}
	}
	return nil
}

// Update advances animated objects and points billboards at the camera.
func (s *Scene) Update(dt float32, view mgl32.Mat4) error {
	for _, o := range s.objects {
		if u, ok := o.(Updater); ok {
			if err := u.Update(dt); err != nil {
				return err
			}
		}
		if c, ok := o.(CameraAware); ok {
			c.SetCameraVectors(view)
		}
	}
	return nil
}

// Release drops the geometry of every object.
func (s *Scene) Release() {
	for _, o := range s.objects {
		o.Release()
	}
}
