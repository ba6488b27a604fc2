package material

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyShaderFile(t *testing.T) {
	cases := []struct {
		file string
		kind string
		name string
		ok   bool
	}{
		{"ssao.fragment.glsl", "fragment", "ssao", true},
		{"quad.vertex.glsl", "vertex", "quad", true},
		{"generate_normals.geometry.glsl", "geometry", "generate_normals", true},
		{"terrain.control.glsl", "control", "terrain", true},
		{"terrain.evaluation.glsl", "evaluation", "terrain", true},
		{"lighting.include.glsl", KindInclude, "lighting", true},
		{"compositing.program.toml", KindProgram, "compositing", true},
		{"notes.txt", "", "", false},
		{"ssao.compute.glsl", "", "", false},
		{".vertex.glsl", "", "", false},
		{"plain.glsl", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.file, func(t *testing.T) {
			kind, name, ok := ClassifyShaderFile(tc.file)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.kind, kind)
			assert.Equal(t, tc.name, name)
		})
	}
}

func TestExpandIncludesInsertsLineDirectives(t *testing.T) {
	src := "#version 410 core\n#include \"common\"\nvoid main() {}\n"
	out, err := ExpandIncludes(src, map[string]string{"common": "float f;\n"})
	require.NoError(t, err)

	assert.Equal(t, "#version 410 core\n#line 1 1\nfloat f;\n#line 3 0\nvoid main() {}\n", out)
}

func TestExpandIncludesNestedAndReused(t *testing.T) {
	includes := map[string]string{
		"a": "#include \"b\"\nA\n",
		"b": "B\n",
	}
	out, err := ExpandIncludes("#include \"a\"\n#include \"b\"\n", includes)
	require.NoError(t, err)

	want := "#line 1 1\n" +
		"#line 1 2\nB\n#line 2 1\n" +
		"A\n" +
		"#line 2 0\n" +
		"#line 1 2\nB\n" +
		"#line 3 0\n"
	assert.Equal(t, want, out)
}

func TestExpandIncludesErrors(t *testing.T) {
	_, err := ExpandIncludes("#include \"nope\"\n", nil)
	assert.True(t, errors.Is(err, ErrUnknownInclude))

	_, err = ExpandIncludes("#include nope\n", nil)
	assert.True(t, errors.Is(err, ErrMalformedInclude))

	_, err = ExpandIncludes("#include \"\"\n", nil)
	assert.True(t, errors.Is(err, ErrMalformedInclude))

	cyclic := map[string]string{"a": "#include \"b\"\n", "b": "#include \"a\"\n"}
	_, err = ExpandIncludes("#include \"a\"\n", cyclic)
	assert.True(t, errors.Is(err, ErrIncludeCycle))
}

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(`
vertex = "material_deferred"
fragment = "material_deferred"
`))
	require.NoError(t, err)
	assert.Equal(t, []StageShader{
		{Vertex, "material_deferred"},
		{Fragment, "material_deferred"},
	}, m.Shaders())

	m, err = ParseManifest([]byte(`
vertex = "solid"
geometry = "generate_normals"
fragment = "solid"
`))
	require.NoError(t, err)
	assert.Len(t, m.Shaders(), 3)
	assert.Equal(t, Geometry, m.Shaders()[1].Stage)
}

func TestParseManifestErrors(t *testing.T) {
	_, err := ParseManifest([]byte(`fragment = "x"`))
	assert.Error(t, err)

	_, err = ParseManifest([]byte("vertex = \"x\"\ncompute = \"y\"\n"))
	assert.Error(t, err)

	_, err = ParseManifest([]byte("vertex = \"x\"\ncontrol = \"y\"\n"))
	assert.Error(t, err)

	_, err = ParseManifest([]byte("vertex = "))
	assert.Error(t, err)
}

func TestLibraryLookups(t *testing.T) {
	lib := NewLibrary()
	_, err := lib.Program("ssao")
	assert.True(t, errors.Is(err, ErrNotFound))

	lib.AddTexture("bricks/diffuse.png", texture())
	tex, err := lib.Texture("bricks/diffuse.png")
	require.NoError(t, err)
	assert.NotNil(t, tex)

	_, err = lib.Texture("bricks/normal.png")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestResolveTextures(t *testing.T) {
	lib := NewLibrary()
	lib.AddTexture("wood.png", texture())

	params := Params{"u_diffuse": TextureRef{Name: "wood.png"}, "u_scale": Float(2)}
	require.NoError(t, ResolveTextures(params, lib))
	assert.NotNil(t, params["u_diffuse"].(TextureRef).Texture)

	err := ResolveTextures(Params{"u_diffuse": TextureRef{Name: "stone.png"}}, lib)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestIsImageFile(t *testing.T) {
	assert.True(t, IsImageFile("a/b/c.PNG"))
	assert.True(t, IsImageFile("x.webp"))
	assert.False(t, IsImageFile("x.glsl"))
}
