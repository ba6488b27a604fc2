package boxmodel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeModels(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name)+".json")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

const testCube = `{
	"textures": { "all": "stone.png" },
	"elements": [ { "from": [0,0,0], "to": [16,16,16], "faces": { "down": { "texture": "#all" } } } ]
}`

func TestLoadSimpleModel(t *testing.T) {
	loader := NewLoader(writeModels(t, map[string]string{"test_cube": testCube}))
	model, err := loader.LoadModel("test_cube")
	require.NoError(t, err)

	assert.Len(t, model.Elements, 1)
	assert.Equal(t, "stone.png", model.Textures["all"])
	assert.Equal(t, "stone.png", model.Elements[0].Faces["down"].Texture)
}

func TestLoadChildModel(t *testing.T) {
	loader := NewLoader(writeModels(t, map[string]string{
		"test_cube": testCube,
		"props/test_child": `{
			"parent": "test_cube",
			"textures": { "particle": "dirt.png" }
		}`,
	}))
	model, err := loader.LoadModel("props/test_child")
	require.NoError(t, err)

	assert.Len(t, model.Elements, 1, "elements come from the parent")
	assert.Equal(t, "stone.png", model.Textures["all"])
	assert.Equal(t, "dirt.png", model.Textures["particle"])
}

func TestTextureResolve(t *testing.T) {
	loader := NewLoader(writeModels(t, map[string]string{
		"resolve": `{
			"textures": { "primary": "diamond.png", "secondary": "#primary", "loop": "#loop" },
			"elements": [ { "from": [0,0,0], "to": [16,16,16], "faces": {
				"north": { "texture": "#secondary" },
				"south": { "texture": "#missing" },
				"east": { "texture": "#loop" }
			} } ]
		}`,
	}))
	model, err := loader.LoadModel("resolve")
	require.NoError(t, err)

	faces := model.Elements[0].Faces
	assert.Equal(t, "diamond.png", faces["north"].Texture)
	assert.Equal(t, "#missing", faces["south"].Texture)
	assert.Equal(t, "#loop", faces["east"].Texture)
}

func TestCache(t *testing.T) {
	loader := NewLoader(writeModels(t, map[string]string{"test_cube": testCube}))
	m1, err := loader.LoadModel("test_cube")
	require.NoError(t, err)
	m2, err := loader.LoadModel("test_cube")
	require.NoError(t, err)
	assert.Same(t, m1, m2)
}

func TestChildrenDoNotShareParentFaces(t *testing.T) {
	loader := NewLoader(writeModels(t, map[string]string{
		"parent": `{
			"textures": { "all": "plain.png" },
			"elements": [ { "from": [0,0,0], "to": [16,16,16], "faces": { "up": { "texture": "#all" } } } ]
		}`,
		"child1": `{ "parent": "parent", "textures": { "all": "skin1.png" } }`,
		"child2": `{ "parent": "parent", "textures": { "all": "skin2.png" } }`,
	}))

	parent, err := loader.LoadModel("parent")
	require.NoError(t, err)
	c1, err := loader.LoadModel("child1")
	require.NoError(t, err)
	c2, err := loader.LoadModel("child2")
	require.NoError(t, err)

	assert.Equal(t, "plain.png", parent.Elements[0].Faces["up"].Texture)
	assert.Equal(t, "skin1.png", c1.Elements[0].Faces["up"].Texture)
	assert.Equal(t, "skin2.png", c2.Elements[0].Faces["up"].Texture)
}

func TestParentCycle(t *testing.T) {
	loader := NewLoader(writeModels(t, map[string]string{
		"a": `{ "parent": "b" }`,
		"b": `{ "parent": "a" }`,
	}))
	_, err := loader.LoadModel("a")
	assert.ErrorIs(t, err, ErrParentCycle)
}

func TestLoadErrors(t *testing.T) {
	loader := NewLoader(writeModels(t, map[string]string{"broken": `{ "elements": [`}))
	_, err := loader.LoadModel("broken")
	assert.Error(t, err)
	_, err = loader.LoadModel("absent")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
