package material

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pelletier/go-toml/v2"
)

// Stage is a shader stage as spelled in file names and program manifests.
type Stage string

const (
	Vertex     Stage = "vertex"
	Fragment   Stage = "fragment"
	Geometry   Stage = "geometry"
	Control    Stage = "control"
	Evaluation Stage = "evaluation"
)

// Stages lists every stage in pipeline order.
var Stages = []Stage{Vertex, Control, Evaluation, Geometry, Fragment}

// GLEnum returns the shader type passed to glCreateShader.
func (s Stage) GLEnum() uint32 {
	switch s {
	case Vertex:
		return gl.VERTEX_SHADER
	case Fragment:
		return gl.FRAGMENT_SHADER
	case Geometry:
		return gl.GEOMETRY_SHADER
	case Control:
		return gl.TESS_CONTROL_SHADER
	case Evaluation:
		return gl.TESS_EVALUATION_SHADER
	default:
		return 0
	}
}

// File kinds found in a shader directory besides stages.
const (
	KindInclude = "include"
	KindProgram = "program"
)

const (
	glslExt     = ".glsl"
	manifestExt = ".program.toml"
)

// ClassifyShaderFile splits a shader directory entry into its kind (a Stage,
// KindInclude or KindProgram) and base name. Unrelated files report ok=false.
func ClassifyShaderFile(filename string) (kind, name string, ok bool) {
	if base, found := strings.CutSuffix(filename, manifestExt); found && base != "" {
		return KindProgram, base, true
	}
	base, found := strings.CutSuffix(filename, glslExt)
	if !found {
		return "", "", false
	}
	dot := strings.LastIndexByte(base, '.')
	if dot <= 0 {
		return "", "", false
	}
	name, kind = base[:dot], base[dot+1:]
	if kind == KindInclude || slices.Contains(Stages, Stage(kind)) {
		return kind, name, true
	}
	return "", "", false
}

var (
	ErrMalformedInclude = errors.New("malformed #include directive")
	ErrUnknownInclude   = errors.New("unknown shader include")
	ErrIncludeCycle     = errors.New("shader include cycle")
)

// ExpandIncludes replaces every line starting with `#include "name"` by the
// named unit, recursively. Each unit gets its own source-string number in
// `#line` directives so compiler logs point at the right file: the root is 0
// and includes are numbered in order of first use.
func ExpandIncludes(source string, includes map[string]string) (string, error) {
	e := expander{
		includes: includes,
		indices:  make(map[string]int),
		next:     1,
	}
	var out strings.Builder
	if err := e.expand(&out, 0, source, nil); err != nil {
		return "", err
	}
	return out.String(), nil
}

type expander struct {
	includes map[string]string
	indices  map[string]int
	next     int
}

func (e *expander) expand(out *strings.Builder, index int, source string, stack []string) error {
	if index != 0 {
		fmt.Fprintf(out, "#line 1 %d\n", index)
	}
	lines := strings.Split(strings.TrimSuffix(source, "\n"), "\n")
	lineNumber := 1
	for _, line := range lines {
		if !strings.HasPrefix(line, "#include") {
			out.WriteString(line)
			out.WriteByte('\n')
			lineNumber++
			continue
		}

		name, err := includeName(line)
		if err != nil {
			return err
		}
		content, ok := e.includes[name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownInclude, name)
		}
		if slices.Contains(stack, name) {
			return fmt.Errorf("%w: %s -> %s", ErrIncludeCycle, strings.Join(stack, " -> "), name)
		}
		sub, seen := e.indices[name]
		if !seen {
			sub = e.next
			e.next++
			e.indices[name] = sub
		}
		if err := e.expand(out, sub, content, append(stack, name)); err != nil {
			return err
		}
		lineNumber++
		fmt.Fprintf(out, "#line %d %d\n", lineNumber, index)
	}
	return nil
}

func includeName(line string) (string, error) {
	first := strings.IndexByte(line, '"')
	last := strings.LastIndexByte(line, '"')
	if first < 0 || last <= first+1 {
		return "", fmt.Errorf("%w: %s", ErrMalformedInclude, line)
	}
	return line[first+1 : last], nil
}

// Manifest lists the shader used for each stage of a program.
type Manifest struct {
	Vertex     string `toml:"vertex"`
	Fragment   string `toml:"fragment"`
	Geometry   string `toml:"geometry"`
	Control    string `toml:"control"`
	Evaluation string `toml:"evaluation"`
}

// Shaders returns the stage to shader name pairs set in the manifest, in
// pipeline order.
func (m Manifest) Shaders() []StageShader {
	all := []StageShader{
		{Vertex, m.Vertex},
		{Control, m.Control},
		{Evaluation, m.Evaluation},
		{Geometry, m.Geometry},
		{Fragment, m.Fragment},
	}
	return slices.DeleteFunc(all, func(s StageShader) bool { return s.Shader == "" })
}

// StageShader is one entry of a manifest.
type StageShader struct {
	Stage  Stage
	Shader string
}

// ParseManifest decodes a program manifest. Unknown keys are rejected and a
// vertex stage is required.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("parse program manifest: %w", err)
	}
	if m.Vertex == "" {
		return Manifest{}, errors.New("program manifest has no vertex stage")
	}
	if m.Control != "" && m.Evaluation == "" {
		return Manifest{}, errors.New("program manifest has a control stage without an evaluation stage")
	}
	return m, nil
}
