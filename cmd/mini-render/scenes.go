package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"mini-render/internal/material"
	"mini-render/internal/scene"
	"mini-render/pkg/boxmodel"
)

type pipeline int

const (
	pipelineForward pipeline = iota
	pipelineDeferred
)

func (p pipeline) String() string {
	if p == pipelineDeferred {
		return "deferred"
	}
	return "forward"
}

// viewScene is a scene together with how it is drawn and where the camera
// starts.
type viewScene struct {
	*scene.Scene
	pipeline pipeline
	home     mgl32.Vec3
}

// Texture names registered by the viewer.
const (
	texChecker = "checker.png"
	texBricks  = "bricks.png"
)

// cottageModel is the box model shown by the deferred scene.
const cottageModel = "cottage"

var (
	wireColor = material.Vec4{1, 1, 1, 1}
	origin    = mgl32.Vec3{}
)

func textured(program, texture string) material.Material {
	return material.Material{
		Name:   program,
		Params: material.Params{"u_diffuseTexture": material.TextureRef{Name: texture}},
	}
}

func outline(program string, params material.Params) material.Material {
	return material.Material{Name: program, Style: material.Wireframe, Params: params}
}

// cubesScene shows textured cubes, a tessellated sphere and the axes.
func cubesScene() *viewScene {
	s := scene.New("cubes")

	for _, c := range []struct {
		name    string
		texture string
		pos     mgl32.Vec3
		yaw     float32
	}{
		{"brick_cube", texBricks, mgl32.Vec3{-0.9, 0, 0}, 30},
		{"checker_cube", texChecker, mgl32.Vec3{0.9, 0, 0}, -20},
	} {
		cube := scene.NewCube(c.name)
		cube.SetPosition(c.pos)
		cube.SetRotation(scene.Euler(0, c.yaw, 0))
		cube.AddMaterial(scene.ModeSolid, textured("material", c.texture))
		cube.AddMaterial(scene.ModeWireframe, outline("solid_color", material.Params{"u_solidColor": wireColor}))
		s.Add(cube)
	}

	sphere := scene.NewSphere("pn_sphere")
	sphere.SetPosition(mgl32.Vec3{0, 1.1, 0})
	sphere.SetUniformScale(0.8)
	pn := material.Material{
		Name:         "pn_triangles",
		Tessellation: true,
		Params: material.Params{
			"u_inner":      material.Float(3),
			"u_outer":      material.Float(3),
			"u_solidColor": material.Vec4{0.8, 0.35, 0.2, 1},
		},
	}
	sphere.AddMaterial(scene.ModeSolid, pn)
	sphere.AddMaterial(scene.ModeWireframe, pn)
	s.Add(sphere)

	s.Add(scene.NewAxisGizmo("axes"))
	return &viewScene{Scene: s, pipeline: pipelineForward, home: mgl32.Vec3{0, 1, -4}}
}

// instancedScene draws the cube grid with one instanced draw call.
func instancedScene() *viewScene {
	s := scene.New("instanced")

	cubes := scene.NewInstancedCubes("cube_grid", scene.CubeGrid())
	cubes.SetUniformScale(0.1)
	cubes.AddMaterial(scene.ModeSolid, material.Material{
		Name:   "instanced",
		Params: material.Params{"u_solidColor": material.Vec4{0, 0.5, 0.7, 1}},
	})
	cubes.AddMaterial(scene.ModeWireframe, material.Material{
		Name:   "instanced",
		Params: material.Params{"u_solidColor": wireColor},
	})
	s.Add(cubes)

	return &viewScene{Scene: s, pipeline: pipelineForward, home: mgl32.Vec3{0, 0.5, -2.2}}
}

// particlesScene puts three fires at different depths over a floor so the
// blended pass has to sort them.
func particlesScene(seed uint64) *viewScene {
	s := scene.New("particles")

	floor := scene.NewPlane("floor")
	floor.SetRotation(scene.Euler(-90, 0, 0))
	floor.SetUniformScale(4)
	floor.AddMaterial(scene.ModeSolid, textured("material", texChecker))
	floor.AddMaterial(scene.ModeWireframe, outline("solid_color", material.Params{"u_solidColor": wireColor}))
	s.Add(floor)

	fire := material.Material{Name: "particle"}
	for i, pos := range []mgl32.Vec3{{-1, 0, 1}, {0, 0, 0}, {1, 0, -1}} {
		ps := scene.NewParticleSystem(fmt.Sprintf("fire_%d", i), 400, seed+uint64(i))
		ps.SetPosition(pos)
		ps.AddMaterial(scene.ModeSolid, fire)
		ps.AddMaterial(scene.ModeWireframe, fire)
		s.Add(ps)
	}

	s.Add(scene.NewAxisGizmo("axes"))
	return &viewScene{Scene: s, pipeline: pipelineForward, home: mgl32.Vec3{0, 1.5, -4}}
}

// modelShape is the geometry name a box model part is registered under.
func modelShape(model string, part boxmodel.Part) string {
	return model + "/" + part.Texture
}

// cottageScene is the deferred scene: the cottage model on a ground plane
// with a few primitives to cast shadows and gather occlusion. parts must be
// registered with modelShape before the scene is prepared.
func cottageScene(parts []boxmodel.Part) *viewScene {
	s := scene.New("cottage")

	ground := scene.NewPlane("ground")
	ground.SetRotation(scene.Euler(-90, 0, 0))
	ground.SetUniformScale(20)
	ground.AddMaterial(scene.ModeSolid, textured("material_deferred", texChecker))
	wire := textured("material_deferred", texChecker)
	wire.Style = material.Wireframe
	ground.AddMaterial(scene.ModeWireframe, wire)
	s.Add(ground)

	const cottageScale = 4
	for _, part := range parts {
		m := scene.NewLoadedMesh(cottageModel+"."+part.Texture, modelShape(cottageModel, part))
		m.SetPosition(mgl32.Vec3{0, cottageScale / 2, 0})
		m.SetUniformScale(cottageScale)
		m.AddMaterial(scene.ModeSolid, textured("material_deferred", part.Texture))
		m.AddMaterial(scene.ModeWireframe, textured("material_deferred", part.Texture))
		s.Add(m)
	}

	for i, pos := range []mgl32.Vec3{{-4, 0.5, -3}, {4.5, 0.75, -2}, {3, 0.5, 4}} {
		cube := scene.NewCube(fmt.Sprintf("crate_%d", i))
		cube.SetPosition(pos)
		cube.SetUniformScale(1 + 0.5*float32(i%2))
		cube.SetRotation(scene.Euler(0, 25*float32(i), 0))
		cube.AddMaterial(scene.ModeSolid, textured("material_deferred", texBricks))
		w := textured("material_deferred", texBricks)
		w.Style = material.Wireframe
		cube.AddMaterial(scene.ModeWireframe, w)
		s.Add(cube)
	}

	for i, pos := range []mgl32.Vec3{{-3, 0.6, 2}, {-5, 0.6, 1}} {
		ball := scene.NewSphere(fmt.Sprintf("ball_%d", i))
		ball.SetPosition(pos)
		ball.SetUniformScale(1.2)
		ball.AddMaterial(scene.ModeSolid, textured("material_deferred", texChecker))
		ball.AddMaterial(scene.ModeWireframe, textured("material_deferred", texChecker))
		s.Add(ball)
	}

	return &viewScene{Scene: s, pipeline: pipelineDeferred, home: mgl32.Vec3{0, 4, -12}}
}
