package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"mini-render/internal/render"
)

// Settings is the startup configuration of the viewer.
type Settings struct {
	Window  WindowSettings `toml:"window"`
	SSAO    SSAOSettings   `toml:"ssao"`
	Shadows ShadowSettings `toml:"shadows"`
	Assets  AssetSettings  `toml:"assets"`
	// Scene is the 1-based index of the scene shown first.
	Scene int `toml:"scene"`
}

type WindowSettings struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	VSync  bool   `toml:"vsync"`
	// MaxFPS caps the frame rate when positive.
	MaxFPS int `toml:"max_fps"`
}

// SSAOSettings holds the ambient occlusion defaults. Radius, Bias and
// Intensity are the starting values of the runtime Tunables.
type SSAOSettings struct {
	Enabled    bool    `toml:"enabled"`
	Radius     float32 `toml:"radius"`
	Bias       float32 `toml:"bias"`
	Intensity  float32 `toml:"intensity"`
	KernelSize int     `toml:"kernel_size"`
	Seed       uint64  `toml:"seed"`
}

type ShadowSettings struct {
	Enabled bool `toml:"enabled"`
	MapSize int  `toml:"map_size"`
}

type AssetSettings struct {
	Shaders  string `toml:"shaders"`
	Textures string `toml:"textures"`
	Models   string `toml:"models"`
}

// Default returns the settings used when no file overrides them.
func Default() Settings {
	return Settings{
		Window: WindowSettings{Width: 1280, Height: 720, Title: "mini-render", VSync: true},
		SSAO: SSAOSettings{
			Enabled:    true,
			Radius:     RadiusRange.Default,
			Bias:       BiasRange.Default,
			Intensity:  IntensityRange.Default,
			KernelSize: render.DefaultKernelSize,
			Seed:       1,
		},
		Shadows: ShadowSettings{Enabled: true, MapSize: render.DefaultShadowMapSize},
		Assets: AssetSettings{
			Shaders:  "assets/shaders",
			Textures: "assets/textures",
			Models:   "assets/models",
		},
		Scene: 1,
	}
}

// Load decodes the TOML file at path over Default. A missing file is not an
// error.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML data over Default and validates the result.
func Parse(data []byte) (Settings, error) {
	s := Default()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Default(), fmt.Errorf("parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Default(), err
	}
	return s, nil
}

// Validate rejects sizes the renderer cannot allocate and tunables outside
// their cycling range.
func (s Settings) Validate() error {
	switch {
	case s.Window.Width <= 0 || s.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d must be positive", s.Window.Width, s.Window.Height)
	case s.Window.MaxFPS < 0:
		return fmt.Errorf("window max_fps %d must not be negative", s.Window.MaxFPS)
	case s.SSAO.KernelSize <= 0 || s.SSAO.KernelSize > render.MaxKernelSize:
		return fmt.Errorf("ssao kernel_size %d outside 1..%d", s.SSAO.KernelSize, render.MaxKernelSize)
	case s.Shadows.MapSize <= 0:
		return fmt.Errorf("shadow map_size %d must be positive", s.Shadows.MapSize)
	case s.Scene < 1 || s.Scene > SceneCount:
		return fmt.Errorf("scene %d outside 1..%d", s.Scene, SceneCount)
	}
	for _, c := range []struct {
		name string
		r    Range
		v    float32
	}{
		{"ssao radius", RadiusRange, s.SSAO.Radius},
		{"ssao bias", BiasRange, s.SSAO.Bias},
		{"ssao intensity", IntensityRange, s.SSAO.Intensity},
	} {
		if !c.r.Contains(c.v) {
			return fmt.Errorf("%s %g outside [%g, %g]", c.name, c.v, c.r.Min, c.r.Max)
		}
	}
	return nil
}
