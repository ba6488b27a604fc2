package overlay

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mini-render/internal/render"
)

func buildASCII(t *testing.T) *Atlas {
	t.Helper()
	face, err := NewGoFace(16)
	require.NoError(t, err)
	t.Cleanup(func() { _ = face.Close() })

	atlas, err := BuildAtlas(face, ASCII(), 256)
	require.NoError(t, err)
	return atlas
}

func TestBuildAtlasCoversASCII(t *testing.T) {
	atlas := buildASCII(t)
	assert.Len(t, atlas.Glyphs, 127-32)
	assert.Equal(t, 256, atlas.Width)
	assert.Positive(t, atlas.LineHeight)

	// power of two height
	assert.Zero(t, atlas.Height&(atlas.Height-1))
	assert.Equal(t, image.Rect(0, 0, atlas.Width, atlas.Height), atlas.Image.Bounds())

	space := atlas.Glyphs[' ']
	assert.Zero(t, space.Width)
	assert.Positive(t, space.Advance)

	a := atlas.Glyphs['A']
	assert.Positive(t, a.Width)
	assert.Positive(t, a.Height)
	assert.Positive(t, a.BearingY)
}

func TestBuildAtlasNoOverlap(t *testing.T) {
	atlas := buildASCII(t)
	var rects []image.Rectangle
	for r, g := range atlas.Glyphs {
		if g.Width == 0 || g.Height == 0 {
			continue
		}
		rect := image.Rect(g.X, g.Y, g.X+g.Width, g.Y+g.Height)
		assert.True(t, rect.In(atlas.Image.Bounds()), "glyph %q out of bounds", r)
		rects = append(rects, rect)
	}
	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			assert.False(t, rects[i].Overlaps(rects[j]), "%v overlaps %v", rects[i], rects[j])
		}
	}
}

func TestBuildAtlasPaintsGlyphs(t *testing.T) {
	atlas := buildASCII(t)
	g := atlas.Glyphs['M']
	var ink int
	for y := g.Y; y < g.Y+g.Height; y++ {
		for x := g.X; x < g.X+g.Width; x++ {
			if atlas.Image.AlphaAt(x, y).A > 0 {
				ink++
			}
		}
	}
	assert.Positive(t, ink)
}

func TestBuildAtlasTooNarrow(t *testing.T) {
	face, err := NewGoFace(16)
	require.NoError(t, err)
	defer face.Close()

	_, err = BuildAtlas(face, []rune{'W'}, 4)
	assert.ErrorIs(t, err, ErrAtlasWidth)
}

func TestNextPowerOfTwo(t *testing.T) {
	assert.Equal(t, 1, nextPowerOfTwo(0))
	assert.Equal(t, 64, nextPowerOfTwo(64))
	assert.Equal(t, 128, nextPowerOfTwo(65))
}

func TestLayout(t *testing.T) {
	atlas := buildASCII(t)

	verts := atlas.Layout([]string{"ab c"}, 0, 20, 18, 1)
	// the space contributes an advance but no quad
	assert.Len(t, verts, 3*FloatsPerGlyph)

	for i := 0; i < len(verts); i += 4 {
		u, v := verts[i+2], verts[i+3]
		assert.True(t, u >= 0 && u <= 1 && v >= 0 && v <= 1, "uv %v,%v", u, v)
	}

	// second glyph starts one advance to the right
	a := atlas.Glyphs['a']
	b := atlas.Glyphs['b']
	firstB := verts[FloatsPerGlyph]
	assert.InDelta(t, float32(a.Advance+b.BearingX), firstB, 1e-4)

	two := atlas.Layout([]string{"a", "", "a"}, 0, 20, 18, 1)
	require.Len(t, two, 2*FloatsPerGlyph)
	// third line sits two steps lower
	assert.InDelta(t, two[1]+36, two[FloatsPerGlyph+1], 1e-4)

	assert.Empty(t, atlas.Layout(nil, 0, 0, 10, 1))
}

func TestLayoutScale(t *testing.T) {
	atlas := buildASCII(t)
	one := atlas.Layout([]string{"x"}, 0, 0, 0, 1)
	two := atlas.Layout([]string{"x"}, 0, 0, 0, 2)
	w1 := one[8] - one[0]
	w2 := two[8] - two[0]
	assert.InDelta(t, 2*w1, w2, 1e-4)
}

func TestMeasure(t *testing.T) {
	atlas := buildASCII(t)
	w, h := atlas.Measure("hi", 1)
	assert.Equal(t, float32(atlas.Glyphs['h'].Advance+atlas.Glyphs['i'].Advance), w)
	assert.Positive(t, h)

	// unknown runes advance like a space
	w, _ = atlas.Measure("é", 1)
	assert.Equal(t, float32(atlas.Glyphs[' '].Advance), w)
}

func TestStatusLines(t *testing.T) {
	cfg := render.DefaultFrameConfig()
	cfg.Shadows = false
	lines := StatusLines("cottage", cfg, "render.ssao:1.2ms")
	require.Len(t, lines, 5)
	assert.Equal(t, "scene: cottage  mode: solid", lines[0])
	assert.Equal(t, "[O] ssao: on  [S] shadows: off", lines[1])
	assert.Equal(t, "[R/F] radius: 0.50  [T/G] bias: 0.0050  [Y/H] intensity: 1.00", lines[2])
	assert.Equal(t, "render.ssao:1.2ms", lines[4])

	assert.Len(t, StatusLines("cubes", cfg, ""), 3)
}
