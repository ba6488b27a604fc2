package graphics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const tol = 1e-4

func assertVec3(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, tol), "want %v, got %v", want, got)
}

func TestLookAtPutsTargetOnNegativeZ(t *testing.T) {
	c := NewCamera(800, 600)
	c.SetPosition(mgl32.Vec3{0, 10, 20})
	c.LookAt(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})

	origin := c.ViewMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	dist := mgl32.Vec3{0, 10, 20}.Len()
	assertVec3(t, mgl32.Vec3{0, 0, -dist}, origin)
}

func TestViewMatrixOfIdentityOrientation(t *testing.T) {
	c := NewCamera(800, 600)
	c.SetPosition(mgl32.Vec3{1, 2, 3})

	p := c.ViewMatrix().Mul4x1(mgl32.Vec4{1, 2, 3, 1}).Vec3()
	assertVec3(t, mgl32.Vec3{}, p)
}

func TestOrbitKeepsDistanceAndAim(t *testing.T) {
	c := NewCamera(800, 600)
	c.SetPosition(mgl32.Vec3{0, 0, 5})
	c.LookAt(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})

	c.Orbit(mgl32.Vec2{30, 15}, mgl32.Vec3{})

	assert.InDelta(t, 5.0, c.Position().Len(), tol)
	origin := c.ViewMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	assertVec3(t, mgl32.Vec3{0, 0, -5}, origin)
}

func TestSetViewport(t *testing.T) {
	c := NewCamera(100, 100)
	c.SetViewport(1600, 900)
	assert.InDelta(t, 16.0/9.0, c.AspectRatio, tol)

	c.SetViewport(10, 0)
	assert.InDelta(t, 16.0/9.0, c.AspectRatio, tol)
}

func TestSpotLightDefaults(t *testing.T) {
	l := NewSpotLight()
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, l.Color())
	assert.Equal(t, float32(1), l.Intensity())
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(45), 1, 0.01, 100), l.ProjectionMatrix())
}
