package scene

import (
	"math"
	"math/rand/v2"

	"mini-render/internal/geometry"
	"mini-render/internal/material"

	"github.com/go-gl/mathgl/mgl32"
)

// Particle is one fire particle. Positions are relative to the emitter.
type Particle struct {
	Position    mgl32.Vec3
	Velocity    mgl32.Vec3
	Color       mgl32.Vec4
	Life        float32
	InitialLife float32
	Scale       float32
}

// Alive reports whether the particle is still simulated.
func (p *Particle) Alive() bool { return p.Life > 0 }

var (
	fireWhite  = mgl32.Vec3{1, 1, 1}
	fireYellow = mgl32.Vec3{1, 1, 0}
	fireOrange = mgl32.Vec3{1, 0.5, 0}
	fireRed    = mgl32.Vec3{1, 0.1, 0}
)

func mix(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

// FireColor maps remaining life (1 = just spawned, 0 = dead) to a color going
// white, yellow, orange, red.
func FireColor(lifeNorm float32) mgl32.Vec3 {
	switch {
	case lifeNorm > 0.75:
		return mix(fireYellow, fireWhite, (lifeNorm-0.75)/0.25)
	case lifeNorm > 0.5:
		return mix(fireOrange, fireYellow, (lifeNorm-0.5)/0.25)
	default:
		return mix(fireRed, fireOrange, lifeNorm/0.5)
	}
}

const (
	particleLift  = 0.2
	particleDecay = 1.5
	particleFade  = 2.5
)

// ParticleSystem is a fire emitter drawn as instanced billboards. Its
// geometry is rebuilt on every Update.
type ParticleSystem struct {
	Object

	particles []Particle
	rng       *rand.Rand
	source    GeometrySource
}

// NewParticleSystem creates count dead particles; they spawn on the first Step.
func NewParticleSystem(name string, count int, seed uint64) *ParticleSystem {
	return &ParticleSystem{
		Object:    newObject(name),
		particles: make([]Particle, count),
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Particles exposes the simulation state.
func (ps *ParticleSystem) Particles() []Particle {
	return ps.particles
}

func (ps *ParticleSystem) uniform() float32 {
	return ps.rng.Float32() - 0.5
}

func (ps *ParticleSystem) respawn(p *Particle) {
	angle := ps.uniform() * 2 * math.Pi
	radius := ps.uniform() * 0.5
	p.Position = mgl32.Vec3{
		radius * float32(math.Cos(float64(angle))),
		radius * float32(math.Sin(float64(angle))),
		ps.uniform() * 0.5,
	}
	p.Velocity = mgl32.Vec3{
		ps.uniform() * 0.2,
		1.8 + ps.uniform()*0.7,
		ps.uniform() * 0.4,
	}
	p.Life = 1 + ps.uniform()*0.7
	p.InitialLife = p.Life
	p.Scale = 0.05 + ps.uniform()*0.02
	p.Color = mgl32.Vec4{1, 1, 1, 1}
}

// Step advances the simulation by dt seconds and returns how many particles
// were alive at the start of the step. Dead particles respawn.
func (ps *ParticleSystem) Step(dt float32) int {
	alive := 0
	for i := range ps.particles {
		p := &ps.particles[i]
		if !p.Alive() {
			ps.respawn(p)
			continue
		}
		alive++

		lifeNorm := p.Life / p.InitialLife
		p.Color = FireColor(lifeNorm).Vec4(lifeNorm)
		p.Position = p.Position.Add(p.Velocity.Mul(dt))
		p.Velocity = p.Velocity.Add(mgl32.Vec3{0, particleLift * dt, 0})
		p.Life -= dt * particleDecay
		p.Color[3] = max(0, p.Color[3]-dt*particleFade)
	}
	return alive
}

// Instances packs position (slot 3) and RGBA color (slot 4) per particle.
func (ps *ParticleSystem) Instances() *geometry.InstanceStream {
	data := make([]float32, 0, len(ps.particles)*7)
	for _, p := range ps.particles {
		data = append(data, p.Position[:]...)
		data = append(data, p.Color[:]...)
	}
	return &geometry.InstanceStream{Data: data, Sizes: []int32{3, 4}}
}

// SetCameraVectors stores the camera right and up axes so the billboards
// face the viewer.
func (ps *ParticleSystem) SetCameraVectors(view mgl32.Mat4) {
	right, up := CameraVectors(view)
	ps.SetParam("u_cameraRight", material.Vec3(right))
	ps.SetParam("u_cameraUp", material.Vec3(up))
}

// CameraVectors extracts the world-space right and up axes from a view matrix.
func CameraVectors(view mgl32.Mat4) (right, up mgl32.Vec3) {
	return view.Row(0).Vec3().Normalize(), view.Row(1).Vec3().Normalize()
}

func (ps *ParticleSystem) Prepare(ms MaterialSource, gs GeometrySource) error {
	if err := ps.prepare(ms, func(material.Material) (*geometry.Shared, error) { return nil, nil }); err != nil {
		return err
	}
	ps.source = gs
	return ps.upload()
}

// Update steps the simulation and re-uploads the instance data. The previous
// buffer is released once the new one is installed.
func (ps *ParticleSystem) Update(dt float32) error {
	if ps.Step(dt) == 0 || ps.source == nil {
		return nil
	}
	return ps.upload()
}

func (ps *ParticleSystem) upload() error {
	buf, err := ps.source.Upload(geometry.ParticleQuad(ps.Instances()))
	if err != nil {
		return err
	}
	ps.install(buf)
	return nil
}
