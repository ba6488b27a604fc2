package scene

import "github.com/go-gl/mathgl/mgl32"

// Transform places an object in the world.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Model returns Translate * Rotate * Scale.
func (t *Transform) Model() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

func (t *Transform) SetPosition(p mgl32.Vec3) { t.Position = p }
func (t *Transform) SetRotation(q mgl32.Quat) { t.Rotation = q }
func (t *Transform) SetScale(s mgl32.Vec3)    { t.Scale = s }

// SetUniformScale scales all axes by s.
func (t *Transform) SetUniformScale(s float32) { t.Scale = mgl32.Vec3{s, s, s} }

// Move offsets the position.
func (t *Transform) Move(d mgl32.Vec3) { t.Position = t.Position.Add(d) }

func (t *Transform) Forward() mgl32.Vec3 { return t.Rotation.Rotate(mgl32.Vec3{0, 0, 1}) }
func (t *Transform) Up() mgl32.Vec3      { return t.Rotation.Rotate(mgl32.Vec3{0, 1, 0}) }
func (t *Transform) Right() mgl32.Vec3   { return t.Rotation.Rotate(mgl32.Vec3{1, 0, 0}) }

// Euler builds a rotation from angles in degrees applied X, then Y, then Z.
func Euler(x, y, z float32) mgl32.Quat {
	return mgl32.AnglesToQuat(mgl32.DegToRad(x), mgl32.DegToRad(y), mgl32.DegToRad(z), mgl32.XYZ)
}
