package render

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultKernelSize = 64
	// MaxKernelSize is the length of the sample array the ssao program declares.
	MaxKernelSize = 64
	// NoiseSize is the edge length of the tiling rotation texture.
	NoiseSize = 4
)

// GenerateKernel returns size sample offsets in the +Z hemisphere, each with
// length at most 1 and biased toward the origin. The same seed always yields
// the same kernel.
func GenerateKernel(size int, seed uint64) []mgl32.Vec3 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	kernel := make([]mgl32.Vec3, 0, size)
	for i := 0; i < size; i++ {
		var s mgl32.Vec3
		for s.Len() == 0 {
			s = mgl32.Vec3{
				rng.Float32()*2 - 1,
				rng.Float32()*2 - 1,
				rng.Float32(),
			}
		}
		s = s.Normalize().Mul(rng.Float32())

		t := float32(i) / float32(size)
		s = s.Mul(lerp(0.1, 1.0, t*t))
		kernel = append(kernel, s)
	}
	return kernel
}

// GenerateNoise returns NoiseSize*NoiseSize random rotation vectors around
// the Z axis, packed as RGB floats.
func GenerateNoise(seed uint64) []float32 {
	rng := rand.New(rand.NewPCG(seed, ^seed))
	noise := make([]float32, 0, NoiseSize*NoiseSize*3)
	for i := 0; i < NoiseSize*NoiseSize; i++ {
		noise = append(noise, rng.Float32()*2-1, rng.Float32()*2-1, 0)
	}
	return noise
}

// NoiseScale maps screen texture coordinates onto the tiled noise texture.
func NoiseScale(width, height int) mgl32.Vec2 {
	return mgl32.Vec2{float32(width) / NoiseSize, float32(height) / NoiseSize}
}

func lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}
