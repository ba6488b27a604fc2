package overlay

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Glyph is the placement and metrics of one character in the atlas.
type Glyph struct {
	// top-left pixel of the bitmap in the atlas
	X, Y int
	// bitmap size in pixels
	Width, Height int
	// offset of the bitmap from the pen position on the baseline
	BearingX, BearingY int
	Advance            int
}

// Atlas is a single channel glyph sheet with per-rune metrics.
type Atlas struct {
	Width      int
	Height     int
	LineHeight int
	Glyphs     map[rune]Glyph
	Image      *image.Alpha
}

// ASCII is the printable ASCII range.
func ASCII() []rune {
	runes := make([]rune, 0, 127-32)
	for r := rune(32); r < 127; r++ {
		runes = append(runes, r)
	}
	return runes
}

// NewGoFace parses the embedded Go Regular font at size pixels.
func NewGoFace(size float64) (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	return face, nil
}

const padding = 1

var ErrAtlasWidth = errors.New("overlay: glyph wider than atlas")

// BuildAtlas packs the glyphs of runes into rows of the given width. The
// height is rounded up to a power of two.
func BuildAtlas(face font.Face, runes []rune, width int) (*Atlas, error) {
	// The face reuses its mask between calls, so the first pass only places
	// glyphs and the second asks for each one again to paint it.
	placed := make(map[rune]Glyph, len(runes))
	x, y, rowH := 0, 0, 0
	for _, r := range runes {
		dr, _, _, adv, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok {
			continue
		}
		gw, gh := dr.Dx(), dr.Dy()
		if gw+padding > width {
			return nil, fmt.Errorf("%w: %q is %d px", ErrAtlasWidth, r, gw)
		}
		if gw > 0 && gh > 0 && x+gw+padding > width {
			x = 0
			y += rowH + padding
			rowH = 0
		}
		placed[r] = Glyph{
			X: x, Y: y,
			Width: gw, Height: gh,
			BearingX: dr.Min.X,
			BearingY: -dr.Min.Y,
			Advance:  int(math.Round(float64(adv) / 64.0)),
		}
		if gw > 0 && gh > 0 {
			x += gw + padding
			rowH = max(rowH, gh)
		}
	}

	atlas := &Atlas{
		Width:      width,
		Height:     nextPowerOfTwo(y + rowH + padding),
		LineHeight: face.Metrics().Height.Ceil(),
		Glyphs:     placed,
	}
	atlas.Image = image.NewAlpha(image.Rect(0, 0, atlas.Width, atlas.Height))
	for r, p := range placed {
		if p.Width == 0 || p.Height == 0 {
			continue
		}
		_, mask, maskp, _, _ := face.Glyph(fixed.P(0, 0), r)
		dst := image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
		draw.Draw(atlas.Image, dst, mask, maskp, draw.Src)
	}
	return atlas, nil
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Measure returns the width and tallest glyph of text at scale. Missing
// runes advance like a space.
func (a *Atlas) Measure(text string, scale float32) (float32, float32) {
	var w, h float32
	for _, r := range text {
		g, ok := a.Glyphs[r]
		if !ok {
			w += float32(a.Glyphs[' '].Advance) * scale
			continue
		}
		w += float32(g.Advance) * scale
		h = max(h, float32(g.Height)*scale)
	}
	return w, h
}

// FloatsPerGlyph is six vertices of (x, y, u, v).
const FloatsPerGlyph = 6 * 4

// Layout builds triangles for lines starting with the first baseline at
// (x, y) in pixels, y growing downward. Empty lines still advance.
func (a *Atlas) Layout(lines []string, x, y, lineStep, scale float32) []float32 {
	n := 0
	for _, l := range lines {
		n += len(l)
	}
	out := make([]float32, 0, n*FloatsPerGlyph)
	for _, line := range lines {
		pen := x
		for _, r := range line {
			g, ok := a.Glyphs[r]
			if !ok {
				pen += float32(a.Glyphs[' '].Advance) * scale
				continue
			}
			if g.Width > 0 && g.Height > 0 {
				out = append(out, a.quad(g, pen, y, scale)...)
			}
			pen += float32(g.Advance) * scale
		}
		y += lineStep
	}
	return out
}

func (a *Atlas) quad(g Glyph, x, y, scale float32) []float32 {
	x0 := x + float32(g.BearingX)*scale
	y0 := y - float32(g.BearingY)*scale
	x1 := x0 + float32(g.Width)*scale
	y1 := y0 + float32(g.Height)*scale

	u0 := float32(g.X) / float32(a.Width)
	v0 := float32(g.Y) / float32(a.Height)
	u1 := float32(g.X+g.Width) / float32(a.Width)
	v1 := float32(g.Y+g.Height) / float32(a.Height)

	return []float32{
		x0, y1, u0, v1,
		x0, y0, u0, v0,
		x1, y0, u1, v0,

		x0, y1, u0, v1,
		x1, y0, u1, v0,
		x1, y1, u1, v1,
	}
}
