package scene

import (
	"mini-render/internal/geometry"
	"mini-render/internal/material"

	"github.com/go-gl/mathgl/mgl32"
)

// Instance is the per-instance data of InstancedCubes.
type Instance struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
}

// CubeGrid lays out instances on a regular grid from -6 to 6 with a step of
// 1.5 on every axis, colored by a fixed hash of the instance index.
func CubeGrid() []Instance {
	var out []Instance
	for x := float32(-6); x <= 6; x += 1.5 {
		for y := float32(-6); y <= 6; y += 1.5 {
			for z := float32(-6); z <= 6; z += 1.5 {
				i := len(out)
				out = append(out, Instance{
					Position: mgl32.Vec3{x, y, z},
					Color: mgl32.Vec3{
						float32(((i+31415)*325)%255) / 255,
						float32(((i+81812)*17)%255) / 255,
						float32(((i+563)*999)%255) / 255,
					},
				})
			}
		}
	}
	return out
}

// InstanceStream packs instances as position (slot 3) and color (slot 4).
func InstanceStream(instances []Instance) *geometry.InstanceStream {
	data := make([]float32, 0, len(instances)*6)
	for _, in := range instances {
		data = append(data, in.Position[:]...)
		data = append(data, in.Color[:]...)
	}
	return &geometry.InstanceStream{Data: data, Sizes: []int32{3, 3}}
}

// InstancedCubes draws one cube per instance with a single draw call.
type InstancedCubes struct {
	Object

	instances []Instance
}

func NewInstancedCubes(name string, instances []Instance) *InstancedCubes {
	return &InstancedCubes{Object: newObject(name), instances: instances}
}

// Count returns the number of cubes.
func (c *InstancedCubes) Count() int {
	return len(c.instances)
}

func (c *InstancedCubes) Prepare(ms MaterialSource, gs GeometrySource) error {
	if err := c.prepare(ms, func(material.Material) (*geometry.Shared, error) { return nil, nil }); err != nil {
		return err
	}
	buf, err := gs.Upload(geometry.InstancedCube(InstanceStream(c.instances)))
	if err != nil {
		return err
	}
	c.install(buf)
	return nil
}
