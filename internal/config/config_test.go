package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mini-render/internal/scene"
)

func TestDefaults(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	assert.Equal(t, 1280, s.Window.Width)
	assert.Equal(t, 720, s.Window.Height)
	assert.Equal(t, float32(0.5), s.SSAO.Radius)
	assert.Equal(t, float32(0.005), s.SSAO.Bias)
	assert.Equal(t, float32(1), s.SSAO.Intensity)
	assert.Equal(t, 64, s.SSAO.KernelSize)
	assert.Equal(t, uint64(1), s.SSAO.Seed)
	assert.Equal(t, 1024, s.Shadows.MapSize)
	assert.True(t, s.SSAO.Enabled)
	assert.True(t, s.Shadows.Enabled)
	assert.True(t, s.Window.VSync)
	assert.Zero(t, s.Window.MaxFPS)
	assert.Equal(t, "assets/models", s.Assets.Models)
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	data := `
scene = 3

[window]
width = 800
height = 600

[ssao]
radius = 1.5
enabled = false

[shadows]
map_size = 2048
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 800, s.Window.Width)
	assert.Equal(t, "mini-render", s.Window.Title)
	assert.Equal(t, float32(1.5), s.SSAO.Radius)
	assert.Equal(t, float32(0.005), s.SSAO.Bias)
	assert.False(t, s.SSAO.Enabled)
	assert.True(t, s.Shadows.Enabled)
	assert.Equal(t, 2048, s.Shadows.MapSize)
	assert.Equal(t, 3, s.Scene)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[window"},
		{"unknown key", "fullscreen = true"},
		{"negative size", "[window]\nwidth = -1"},
		{"negative fps", "[window]\nmax_fps = -30"},
		{"radius range", "[ssao]\nradius = 9.0"},
		{"bias range", "[ssao]\nbias = 0.5"},
		{"kernel", "[ssao]\nkernel_size = 0"},
		{"kernel too large", "[ssao]\nkernel_size = 65"},
		{"scene", "scene = 7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(tt.data))
			assert.Error(t, err)
			assert.Equal(t, Default(), s)
		})
	}
}

func TestRangeWraps(t *testing.T) {
	v := RadiusRange.Default
	for i := 0; i < 4; i++ {
		v = RadiusRange.Next(v, -1)
	}
	assert.InDelta(t, 0.1, v, 1e-6)
	assert.Equal(t, RadiusRange.Max, RadiusRange.Next(v, -1))
	assert.Equal(t, RadiusRange.Min, RadiusRange.Next(RadiusRange.Max, 1))

	assert.Equal(t, float32(0.0075), BiasRange.Next(0.005, 1))
	assert.Equal(t, float32(0.0025), BiasRange.Next(0.005, -1))
	assert.Equal(t, BiasRange.Max, BiasRange.Next(0.0025, -1))
	assert.Equal(t, BiasRange.Min, BiasRange.Next(BiasRange.Max, 1))

	assert.Equal(t, IntensityRange.Min, IntensityRange.Next(IntensityRange.Max, 1))
}

func TestRangeFullCycle(t *testing.T) {
	v := RadiusRange.Min
	seen := 1
	for {
		v = RadiusRange.Next(v, 1)
		if v == RadiusRange.Min {
			break
		}
		seen++
		require.Less(t, seen, 100)
	}
	assert.Equal(t, 20, seen)
}

func TestTunables(t *testing.T) {
	tun := NewTunables(Default())

	cfg := tun.Frame()
	assert.Equal(t, scene.ModeSolid, cfg.Mode)
	assert.True(t, cfg.SSAO)
	assert.True(t, cfg.Shadows)
	assert.Equal(t, float32(0.5), cfg.Radius)

	assert.False(t, tun.ToggleSSAO())
	assert.False(t, tun.ToggleShadows())
	assert.True(t, tun.ToggleWireframe())
	assert.InDelta(t, 0.6, tun.StepRadius(1), 1e-6)
	assert.InDelta(t, 0.0075, tun.StepBias(1), 1e-6)
	assert.InDelta(t, 0.75, tun.StepIntensity(-1), 1e-6)

	cfg = tun.Frame()
	assert.Equal(t, scene.ModeWireframe, cfg.Mode)
	assert.False(t, cfg.SSAO)
	assert.False(t, cfg.Shadows)
	assert.InDelta(t, 0.6, cfg.Radius, 1e-6)
	assert.InDelta(t, 0.0075, cfg.Bias, 1e-6)
	assert.InDelta(t, 0.75, cfg.Intensity, 1e-6)

	assert.True(t, tun.ToggleNormals())
	assert.True(t, tun.Normals())
	assert.True(t, tun.ToggleOverlay())
	assert.True(t, tun.Overlay())
}

func TestSelectScene(t *testing.T) {
	tun := NewTunables(Default())
	assert.Equal(t, 1, tun.Scene())
	assert.True(t, tun.SelectScene(4))
	assert.Equal(t, 4, tun.Scene())
	assert.False(t, tun.SelectScene(0))
	assert.False(t, tun.SelectScene(5))
	assert.Equal(t, 4, tun.Scene())
}
