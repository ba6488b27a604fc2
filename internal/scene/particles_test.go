package scene

import (
	"testing"

	"mini-render/internal/geometry"
	"mini-render/internal/material"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFireColorGradient(t *testing.T) {
	assert.True(t, FireColor(1).ApproxEqual(mgl32.Vec3{1, 1, 1}))
	assert.True(t, FireColor(0.75).ApproxEqual(mgl32.Vec3{1, 1, 0}))
	assert.True(t, FireColor(0.5).ApproxEqual(mgl32.Vec3{1, 0.5, 0}))
	assert.True(t, FireColor(0).ApproxEqual(mgl32.Vec3{1, 0.1, 0}))
}

func TestParticlesSpawnOnFirstStep(t *testing.T) {
	ps := NewParticleSystem("fire", 100, 1)
	assert.Equal(t, 0, ps.Step(0.016))

	for _, p := range ps.Particles() {
		require.True(t, p.Alive())
		assert.InDelta(t, 1, p.Life, 0.35+1e-6)
		assert.Equal(t, p.Life, p.InitialLife)
		assert.Greater(t, p.Velocity.Y(), float32(1.4))
		assert.LessOrEqual(t, p.Position.Vec2().Len(), float32(0.25+1e-6))
	}
	assert.Equal(t, 100, ps.Step(0.016))
}

func TestParticlesRise(t *testing.T) {
	ps := NewParticleSystem("fire", 10, 7)
	ps.Step(0.01)
	before := ps.Particles()[0]
	ps.Step(0.1)
	after := ps.Particles()[0]

	assert.Greater(t, after.Position.Y(), before.Position.Y())
	assert.Less(t, after.Life, before.Life)
	assert.LessOrEqual(t, after.Color.W(), float32(1))
	assert.GreaterOrEqual(t, after.Color.W(), float32(0))
}

func TestParticlesAreDeterministicPerSeed(t *testing.T) {
	a := NewParticleSystem("a", 20, 42)
	b := NewParticleSystem("b", 20, 42)
	for i := 0; i < 5; i++ {
		a.Step(0.05)
		b.Step(0.05)
	}
	assert.Equal(t, a.Particles(), b.Particles())
}

func TestParticleInstances(t *testing.T) {
	ps := NewParticleSystem("fire", 5, 1)
	ps.Step(0.016)
	stream := ps.Instances()

	assert.Equal(t, 5, stream.Count())
	ptrs, err := stream.Pointers()
	require.NoError(t, err)
	assert.Equal(t, int32(3), ptrs[0].Size)
	assert.Equal(t, int32(4), ptrs[1].Size)
	assert.Equal(t, uint32(4), ptrs[1].Slot)
}

func TestParticleUpdateReuploads(t *testing.T) {
	ps := NewParticleSystem("fire", 50, 1)
	ps.AddMaterial(ModeSolid, material.Material{Name: "particle"})

	gs := newFakeGeometry()
	require.NoError(t, ps.Prepare(newFakeMaterials("particle"), gs))
	assert.Equal(t, 1, gs.uploads)

	// first update only spawns
	require.NoError(t, ps.Update(0.016))
	assert.Equal(t, 1, gs.uploads)

	require.NoError(t, ps.Update(0.016))
	assert.Equal(t, 2, gs.uploads)

	data, ok := ps.RenderData(ModeSolid)
	require.True(t, ok)
	buf := data.Geometry.(*geometry.Buffer)
	assert.Equal(t, 50, buf.InstanceCount)
	assert.Equal(t, geometry.TriangleStrip, buf.Topology)
}

func TestEmptyParticleSystemDrawsNothing(t *testing.T) {
	ps := NewParticleSystem("fire", 0, 1)
	ps.AddMaterial(ModeSolid, material.Material{Name: "particle"})
	require.NoError(t, ps.Prepare(newFakeMaterials("particle"), newFakeGeometry()))

	data, ok := ps.RenderData(ModeSolid)
	require.True(t, ok)
	buf := data.Geometry.(*geometry.Buffer)
	assert.True(t, buf.DrawCall(buf.Topology).Empty())
}

func TestCameraVectors(t *testing.T) {
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	right, up := CameraVectors(view)
	assert.True(t, right.ApproxEqual(mgl32.Vec3{1, 0, 0}))
	assert.True(t, up.ApproxEqual(mgl32.Vec3{0, 1, 0}))

	ps := NewParticleSystem("fire", 1, 1)
	ps.AddMaterial(ModeSolid, material.Material{Name: "particle"})
	ps.SetCameraVectors(view)
	m, _ := ps.Material(ModeSolid)
	assert.Equal(t, material.Vec3{1, 0, 0}, m.Params["u_cameraRight"])
}
