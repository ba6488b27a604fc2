package config

import (
	"math"
	"sync"

	"mini-render/internal/render"
	"mini-render/internal/scene"
)

// SceneCount is the number of scenes bound to the number keys.
const SceneCount = 4

// Range is a cycling range of a tunable: stepping past one end wraps to the
// other.
type Range struct {
	Min, Max, Step, Default float32
}

var (
	RadiusRange    = Range{Min: 0.1, Max: 2.0, Step: 0.1, Default: 0.5}
	BiasRange      = Range{Min: 0.001, Max: 0.03, Step: 0.0025, Default: 0.005}
	IntensityRange = Range{Min: 0.25, Max: 4.0, Step: 0.25, Default: 1.0}
)

// tolerance absorbs float32 drift from repeated stepping.
const tolerance = 1e-5

func (r Range) Contains(v float32) bool {
	return v >= r.Min-tolerance && v <= r.Max+tolerance
}

// Next steps v by dir steps and wraps at the ends.
func (r Range) Next(v float32, dir int) float32 {
	v += float32(dir) * r.Step
	switch {
	case v > r.Max+tolerance:
		return r.Min
	case v < r.Min-tolerance:
		return r.Max
	}
	return float32(math.Round(float64(v)*1e4) / 1e4)
}

// Tunables is the state changed by key bindings at runtime.
type Tunables struct {
	mu        sync.RWMutex
	ssao      bool
	shadows   bool
	radius    float32
	bias      float32
	intensity float32
	wireframe bool
	normals   bool
	overlay   bool
	scene     int
}

func NewTunables(s Settings) *Tunables {
	return &Tunables{
		ssao:      s.SSAO.Enabled,
		shadows:   s.Shadows.Enabled,
		radius:    s.SSAO.Radius,
		bias:      s.SSAO.Bias,
		intensity: s.SSAO.Intensity,
		scene:     s.Scene,
	}
}

// ToggleSSAO flips ambient occlusion and returns the new state.
func (t *Tunables) ToggleSSAO() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ssao = !t.ssao
	return t.ssao
}

func (t *Tunables) ToggleShadows() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.shadows = !t.shadows
	return t.shadows
}

func (t *Tunables) ToggleWireframe() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.wireframe = !t.wireframe
	return t.wireframe
}

func (t *Tunables) ToggleNormals() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.normals = !t.normals
	return t.normals
}

func (t *Tunables) ToggleOverlay() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.overlay = !t.overlay
	return t.overlay
}

// StepRadius moves the SSAO radius by dir steps, wrapping at the ends.
func (t *Tunables) StepRadius(dir int) float32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.radius = RadiusRange.Next(t.radius, dir)
	return t.radius
}

func (t *Tunables) StepBias(dir int) float32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bias = BiasRange.Next(t.bias, dir)
	return t.bias
}

func (t *Tunables) StepIntensity(dir int) float32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.intensity = IntensityRange.Next(t.intensity, dir)
	return t.intensity
}

// SelectScene switches to scene n and reports whether n is a known scene.
func (t *Tunables) SelectScene(n int) bool {
	if n < 1 || n > SceneCount {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scene = n
	return true
}

func (t *Tunables) Scene() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.scene
}

func (t *Tunables) Wireframe() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.wireframe
}

func (t *Tunables) Normals() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.normals
}

func (t *Tunables) Overlay() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.overlay
}

// Frame snapshots the tunables for one frame. The wireframe toggle selects
// the render mode.
func (t *Tunables) Frame() render.FrameConfig {
	t.mu.RLock()
	defer t.mu.RUnlock()
	mode := scene.ModeSolid
	if t.wireframe {
		mode = scene.ModeWireframe
	}
	return render.FrameConfig{
		Mode:      mode,
		SSAO:      t.ssao,
		Shadows:   t.shadows,
		Radius:    t.radius,
		Bias:      t.bias,
		Intensity: t.intensity,
	}
}
