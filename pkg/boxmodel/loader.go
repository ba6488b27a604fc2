package boxmodel

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var ErrParentCycle = errors.New("boxmodel: parent cycle")

// Loader reads models from a directory and caches them by name.
type Loader struct {
	dir string
	// merged keeps each model with its parent chain applied but references
	// unresolved, so children can override textures their parents use.
	merged   map[string]*Model
	resolved map[string]*Model
}

func NewLoader(dir string) *Loader {
	return &Loader{
		dir:      dir,
		merged:   make(map[string]*Model),
		resolved: make(map[string]*Model),
	}
}

// LoadModel returns the model stored as <dir>/<name>.json with its parent
// chain merged in and every face texture reference resolved. Cached models
// are shared and must not be modified.
func (l *Loader) LoadModel(name string) (*Model, error) {
	if model, ok := l.resolved[name]; ok {
		return model, nil
	}
	merged, err := l.merge(name, nil)
	if err != nil {
		return nil, err
	}
	model := merged.clone()
	resolveTextures(model)
	l.resolved[name] = model
	return model, nil
}

func (l *Loader) merge(name string, chain []string) (*Model, error) {
	if model, ok := l.merged[name]; ok {
		return model, nil
	}
	if slices.Contains(chain, name) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrParentCycle, strings.Join(chain, " -> "), name)
	}

	data, err := os.ReadFile(filepath.Join(l.dir, filepath.FromSlash(name)+".json"))
	if err != nil {
		return nil, fmt.Errorf("could not read model file: %w", err)
	}
	var model Model
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("could not unmarshal model json: %w", err)
	}
	if model.Textures == nil {
		model.Textures = make(map[string]string)
	}

	if model.Parent != "" {
		parent, err := l.merge(model.Parent, append(chain, name))
		if err != nil {
			return nil, fmt.Errorf("could not load parent model '%s': %w", model.Parent, err)
		}
		if len(model.Elements) == 0 {
			model.Elements = parent.clone().Elements
		}
		for key, val := range parent.Textures {
			if _, ok := model.Textures[key]; !ok {
				model.Textures[key] = val
			}
		}
	}

	l.merged[name] = &model
	return &model, nil
}

func (m *Model) clone() *Model {
	out := &Model{
		Parent:   m.Parent,
		Textures: maps.Clone(m.Textures),
		Elements: make([]Element, len(m.Elements)),
	}
	for i, e := range m.Elements {
		out.Elements[i] = e.clone()
	}
	return out
}

func resolveTextures(m *Model) {
	for i := range m.Elements {
		for faceName, face := range m.Elements[i].Faces {
			face.Texture = ResolveTexture(face.Texture, m)
			m.Elements[i].Faces[faceName] = face
		}
	}
}

// maxReferenceDepth bounds "#a" -> "#b" chains, which may loop.
const maxReferenceDepth = 10

// ResolveTexture follows "#key" references through the texture table of m.
// An unknown key stops resolution and returns the reference as is.
func ResolveTexture(texture string, m *Model) string {
	for i := 0; i < maxReferenceDepth && strings.HasPrefix(texture, "#"); i++ {
		resolved, ok := m.Textures[strings.TrimPrefix(texture, "#")]
		if !ok {
			break
		}
		texture = resolved
	}
	return texture
}
