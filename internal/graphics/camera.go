package graphics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Orientation is a position plus rotation shared by cameras and lights.
type Orientation struct {
	position mgl32.Vec3
	rotation mgl32.Quat
}

func newOrientation() Orientation {
	return Orientation{rotation: mgl32.QuatIdent()}
}

func (o *Orientation) Position() mgl32.Vec3 { return o.position }

func (o *Orientation) SetPosition(p mgl32.Vec3) { o.position = p }

func (o *Orientation) Rotation() mgl32.Quat { return o.rotation }

func (o *Orientation) SetRotation(q mgl32.Quat) { o.rotation = q.Normalize() }

func (o *Orientation) Forward() mgl32.Vec3 { return o.rotation.Rotate(mgl32.Vec3{0, 0, 1}) }

func (o *Orientation) Up() mgl32.Vec3 { return o.rotation.Rotate(mgl32.Vec3{0, 1, 0}) }

func (o *Orientation) Right() mgl32.Vec3 { return o.rotation.Rotate(mgl32.Vec3{1, 0, 0}) }

// ViewMatrix is the inverse of the rigid transform placing the eye in the world.
func (o *Orientation) ViewMatrix() mgl32.Mat4 {
	p := o.position
	return o.rotation.Inverse().Mat4().Mul4(mgl32.Translate3D(-p.X(), -p.Y(), -p.Z()))
}

// LookAt turns the eye towards target keeping up as the vertical reference.
func (o *Orientation) LookAt(target, up mgl32.Vec3) {
	if target.Sub(o.position).Len() == 0 {
		return
	}
	view := mgl32.LookAtV(o.position, target, up)
	o.rotation = mgl32.Mat4ToQuat(view).Inverse().Normalize()
}

// Orbit rotates the eye around origin by angles (degrees) about its current
// up axis (x) and right axis (y), keeping it aimed at origin.
func (o *Orientation) Orbit(angles mgl32.Vec2, origin mgl32.Vec3) {
	rel := o.position.Sub(origin)
	yaw := mgl32.HomogRotate3D(mgl32.DegToRad(angles.X()), o.Up())
	rel = yaw.Mul4x1(rel.Vec4(1)).Vec3()
	o.position = origin.Add(rel)
	o.LookAt(origin, o.Up())

	pitch := mgl32.HomogRotate3D(mgl32.DegToRad(angles.Y()), o.Right())
	rel = pitch.Mul4x1(rel.Vec4(1)).Vec3()
	o.position = origin.Add(rel)
	o.LookAt(origin, o.Up())
}

// Camera handles the view and projection matrices
type Camera struct {
	Orientation

	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32
}

func NewCamera(width, height int) *Camera {
	return &Camera{
		Orientation: newOrientation(),
		AspectRatio: float32(width) / float32(height),
		FOV:         45.0,
		NearPlane:   0.01,
		FarPlane:    100.0,
	}
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *Camera) Near() float32 { return c.NearPlane }

func (c *Camera) Far() float32 { return c.FarPlane }

// SetViewport updates the aspect ratio after a resize.
func (c *Camera) SetViewport(width, height int) {
	if height == 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

// SpotLight is a shadow-casting light with a square perspective frustum.
type SpotLight struct {
	Orientation

	FOV       float32
	NearPlane float32
	FarPlane  float32
	Tint      mgl32.Vec3
	Strength  float32
}

func NewSpotLight() *SpotLight {
	return &SpotLight{
		Orientation: newOrientation(),
		FOV:         45.0,
		NearPlane:   0.01,
		FarPlane:    100.0,
		Tint:        mgl32.Vec3{1, 1, 1},
		Strength:    1.0,
	}
}

func (l *SpotLight) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(l.FOV), 1.0, l.NearPlane, l.FarPlane)
}

func (l *SpotLight) Color() mgl32.Vec3 { return l.Tint }

func (l *SpotLight) Intensity() float32 { return l.Strength }
