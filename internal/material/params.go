package material

import (
	"fmt"
	"maps"

	"mini-render/internal/graphics"
)

// Params maps uniform names to values.
type Params map[string]Value

// Clone returns a shallow copy; values themselves are immutable.
func (p Params) Clone() Params {
	return maps.Clone(p)
}

// With returns a copy of p with the given entries set.
func (p Params) With(other Params) Params {
	out := make(Params, len(p)+len(other))
	maps.Copy(out, p)
	maps.Copy(out, other)
	return out
}

// Style selects which geometry variant an object draws for a material.
type Style uint8

const (
	Solid Style = iota
	Wireframe
)

func (s Style) String() string {
	if s == Wireframe {
		return "wireframe"
	}
	return "solid"
}

// Material names the program an object is drawn with and its parameters.
type Material struct {
	Name   string
	Style  Style
	Params Params
	// Tessellation draws the geometry as patches.
	Tessellation bool
}

// TextureSource looks up textures by name.
type TextureSource interface {
	Texture(name string) (*graphics.Texture, error)
}

// ResolveTextures fills in the texture of every unresolved TextureRef in params.
func ResolveTextures(params Params, src TextureSource) error {
	for key, v := range params {
		ref, ok := v.(TextureRef)
		if !ok || ref.Texture != nil {
			continue
		}
		tex, err := src.Texture(ref.Name)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", key, err)
		}
		ref.Texture = tex
		params[key] = ref
	}
	return nil
}
