package material

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"mini-render/internal/graphics"
	"mini-render/internal/logger"

	"go.uber.org/zap"
)

// ErrNotFound is returned when a program or texture name is not registered.
var ErrNotFound = errors.New("not found")

var imageExts = []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp"}

// Library owns every shader program and texture loaded from disk and looks
// them up by name.
type Library struct {
	programs map[string]*graphics.Program
	textures map[string]*graphics.Texture
}

func NewLibrary() *Library {
	return &Library{
		programs: make(map[string]*graphics.Program),
		textures: make(map[string]*graphics.Texture),
	}
}

// Program returns the named program.
func (l *Library) Program(name string) (*graphics.Program, error) {
	p, ok := l.programs[name]
	if !ok {
		return nil, fmt.Errorf("shader program %q: %w", name, ErrNotFound)
	}
	return p, nil
}

// Texture returns the texture registered under a slash-separated relative path.
func (l *Library) Texture(name string) (*graphics.Texture, error) {
	t, ok := l.textures[filepath.ToSlash(name)]
	if !ok {
		return nil, fmt.Errorf("texture %q: %w", name, ErrNotFound)
	}
	return t, nil
}

// AddProgram registers a program built elsewhere. The library takes ownership.
func (l *Library) AddProgram(p *graphics.Program) {
	if old, ok := l.programs[p.Name]; ok {
		old.Release()
	}
	l.programs[p.Name] = p
}

// AddTexture registers a texture under name. The library takes ownership.
func (l *Library) AddTexture(name string, t *graphics.Texture) {
	name = filepath.ToSlash(name)
	if old, ok := l.textures[name]; ok {
		old.Release()
	}
	l.textures[name] = t
}

type shaderDir struct {
	includes map[string]string
	stages   map[Stage]map[string]string
	programs map[string]string
}

func scanShaderDir(dir string) (*shaderDir, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read shader dir: %w", err)
	}
	sd := &shaderDir{
		includes: make(map[string]string),
		stages:   make(map[Stage]map[string]string),
		programs: make(map[string]string),
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		kind, name, ok := ClassifyShaderFile(entry.Name())
		if !ok {
			logger.Log.Debug("skipping file in shader dir", zap.String("file", entry.Name()))
			continue
		}
		path := filepath.Join(dir, entry.Name())
		switch kind {
		case KindInclude:
			src, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read include: %w", err)
			}
			sd.includes[name] = string(src)
		case KindProgram:
			sd.programs[name] = path
		default:
			stage := Stage(kind)
			if sd.stages[stage] == nil {
				sd.stages[stage] = make(map[string]string)
			}
			sd.stages[stage][name] = path
		}
	}
	return sd, nil
}

// LoadShaders compiles every stage file in dir and links the programs its
// manifests describe. Any compile, link or validation failure aborts loading.
func (l *Library) LoadShaders(dir string) error {
	sd, err := scanShaderDir(dir)
	if err != nil {
		return err
	}
	logger.Log.Info("loading shaders",
		zap.String("dir", dir),
		zap.Int("includes", len(sd.includes)),
		zap.Int("programs", len(sd.programs)))

	compiled := make(map[Stage]map[string]*graphics.Handle)
	defer func() {
		for _, shaders := range compiled {
			for _, h := range shaders {
				h.Release()
			}
		}
	}()

	for _, stage := range Stages {
		compiled[stage] = make(map[string]*graphics.Handle)
		for name, path := range sd.stages[stage] {
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read shader: %w", err)
			}
			expanded, err := ExpandIncludes(string(src), sd.includes)
			if err != nil {
				return fmt.Errorf("%s shader %q: %w", stage, name, err)
			}
			h, err := graphics.CompileShader(stage.GLEnum(), name, expanded)
			if err != nil {
				return err
			}
			compiled[stage][name] = h
		}
	}

	names := make([]string, 0, len(sd.programs))
	for name := range sd.programs {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		data, err := os.ReadFile(sd.programs[name])
		if err != nil {
			return fmt.Errorf("read program manifest: %w", err)
		}
		manifest, err := ParseManifest(data)
		if err != nil {
			return fmt.Errorf("program %q: %w", name, err)
		}

		var stages []*graphics.Handle
		for _, ss := range manifest.Shaders() {
			h, ok := compiled[ss.Stage][ss.Shader]
			if !ok {
				return fmt.Errorf("program %q cannot be linked: %s shader %q was not compiled", name, ss.Stage, ss.Shader)
			}
			stages = append(stages, h)
		}

		program, err := graphics.LinkProgram(name, stages)
		if err != nil {
			return err
		}
		l.AddProgram(program)

		for _, u := range program.Uniforms {
			logger.Log.Debug("uniform",
				zap.String("program", name),
				zap.String("name", u.Name),
				zap.String("type", graphics.TypeName(u.Type)),
				zap.Int32("location", u.Location))
		}
	}
	return nil
}

// IsImageFile reports whether path has an extension LoadTextures decodes.
func IsImageFile(path string) bool {
	return slices.Contains(imageExts, strings.ToLower(filepath.Ext(path)))
}

// LoadTextures uploads every image below dir, keyed by its slash-separated
// path relative to dir.
func (l *Library) LoadTextures(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsImageFile(path) {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		tex, err := graphics.LoadTexture(path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		l.AddTexture(name, tex)
		logger.Log.Debug("texture loaded",
			zap.String("name", name),
			zap.Int("width", tex.Width),
			zap.Int("height", tex.Height))
		return nil
	})
}

// Dispose releases every program and texture.
func (l *Library) Dispose() {
	for name, p := range l.programs {
		p.Release()
		delete(l.programs, name)
	}
	for name, t := range l.textures {
		t.Release()
		delete(l.textures, name)
	}
}
