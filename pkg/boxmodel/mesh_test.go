package boxmodel

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mini-render/internal/geometry"
)

func fullBox(tex string, faces ...string) Element {
	e := Element{To: [3]float32{16, 16, 16}, Faces: map[string]Face{}}
	for _, f := range faces {
		e.Faces[f] = Face{Texture: tex}
	}
	return e
}

func TestBuildFullCube(t *testing.T) {
	m := &Model{Elements: []Element{fullBox("a.png", "down", "up", "north", "south", "west", "east")}}
	parts, err := Build(m)
	require.NoError(t, err)
	require.Len(t, parts, 1)

	mesh := parts[0].Mesh
	assert.Len(t, mesh.Vertices, 24)
	assert.Len(t, mesh.Indices, 36)
	info, err := geometry.Describe(mesh)
	require.NoError(t, err)
	assert.Equal(t, 12, info.Primitives())

	for _, v := range mesh.Vertices {
		for i := 0; i < 3; i++ {
			assert.InDelta(t, 0.5, abs(v.Position[i]), 1e-6, "corner %v", v.Position)
		}
		assert.InDelta(t, 1, v.Normal.Len(), 1e-6)
	}
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

// Every triangle must wind counter-clockwise seen from outside, i.e. its
// geometric normal agrees with the vertex normal.
func TestBuildWindingFacesOutward(t *testing.T) {
	m := &Model{Elements: []Element{fullBox("a.png", "down", "up", "north", "south", "west", "east")}}
	parts, err := Build(m)
	require.NoError(t, err)
	mesh := parts[0].Mesh
	for i := 0; i < len(mesh.Indices); i += 3 {
		a := mesh.Vertices[mesh.Indices[i]]
		b := mesh.Vertices[mesh.Indices[i+1]]
		c := mesh.Vertices[mesh.Indices[i+2]]
		n := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position))
		assert.Positive(t, n.Dot(a.Normal), "triangle %d", i/3)
	}
}

func TestBuildSplitsByTexture(t *testing.T) {
	m := &Model{Elements: []Element{
		fullBox("wall.png", "north", "south"),
		fullBox("roof.png", "up"),
	}}
	parts, err := Build(m)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, "roof.png", parts[0].Texture)
	assert.Len(t, parts[0].Mesh.Vertices, 4)
	assert.Equal(t, "wall.png", parts[1].Texture)
	assert.Len(t, parts[1].Mesh.Vertices, 8)
}

func TestBuildUV(t *testing.T) {
	e := Element{
		From:  [3]float32{0, 0, 0},
		To:    [3]float32{8, 16, 4},
		Faces: map[string]Face{"up": {Texture: "t"}, "down": {Texture: "t", UV: [4]float32{0, 0, 16, 16}}},
	}
	parts, err := Build(&Model{Elements: []Element{e}})
	require.NoError(t, err)

	var maxU, maxV float32
	for _, v := range parts[0].Mesh.Vertices[:4] {
		maxU = max(maxU, v.TexCoord[0])
		maxV = max(maxV, v.TexCoord[1])
	}
	// "down" sorts first and uses its explicit UV
	assert.Equal(t, mgl32.Vec2{1, 1}, mgl32.Vec2{maxU, maxV})

	maxU, maxV = 0, 0
	for _, v := range parts[0].Mesh.Vertices[4:] {
		maxU = max(maxU, v.TexCoord[0])
		maxV = max(maxV, v.TexCoord[1])
	}
	// up spans z (u) 0..4 and x (v) 0..8
	assert.InDelta(t, 0.25, maxU, 1e-6)
	assert.InDelta(t, 0.5, maxV, 1e-6)
}

func TestBuildRotation(t *testing.T) {
	e := fullBox("t", "up")
	e.Rotation = &Rotation{Origin: [3]float32{8, 8, 8}, Angle: 90, Axis: "z"}
	parts, err := Build(&Model{Elements: []Element{e}})
	require.NoError(t, err)
	for _, v := range parts[0].Mesh.Vertices {
		assert.InDelta(t, -1, v.Normal.X(), 1e-5, "up rotated 90 degrees about z faces -x")
		assert.InDelta(t, -0.5, v.Position.X(), 1e-5)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		e    Element
		err  error
	}{
		{"unknown face", fullBox("t", "top"), ErrUnknownFace},
		{"inverted box", Element{From: [3]float32{4, 0, 0}, Faces: map[string]Face{"up": {}}}, ErrInvalidBox},
		{"axis", Element{To: [3]float32{1, 1, 1}, Rotation: &Rotation{Angle: 45, Axis: "w"}}, ErrRotationAxis},
		{"reference", fullBox("#all", "up"), ErrUnresolvedTex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(&Model{Elements: []Element{tt.e}})
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestBuildShippedCottage(t *testing.T) {
	model, err := NewLoader("../../assets/models").LoadModel("cottage")
	require.NoError(t, err)
	parts, err := Build(model)
	require.NoError(t, err)

	textures := make([]string, len(parts))
	for i, p := range parts {
		textures[i] = p.Texture
		for _, v := range p.Mesh.Vertices {
			for axis := 0; axis < 3; axis++ {
				assert.LessOrEqual(t, abs(v.Position[axis]), float32(0.5)+1e-6)
			}
		}
	}
	assert.Equal(t, []string{"bricks.png", "checker.png"}, textures)
}
