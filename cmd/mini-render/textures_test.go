package main

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckerImage(t *testing.T) {
	a := color.RGBA{255, 255, 255, 255}
	b := color.RGBA{0, 0, 0, 255}
	img := checkerImage(16, 4, a, b)

	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, a, img.RGBAAt(0, 0))
	assert.Equal(t, b, img.RGBAAt(4, 0))
	assert.Equal(t, b, img.RGBAAt(0, 4))
	assert.Equal(t, a, img.RGBAAt(5, 5))
}

func TestBrickImageMortar(t *testing.T) {
	brick := color.RGBA{200, 0, 0, 255}
	mortar := color.RGBA{128, 128, 128, 255}
	img := brickImage(32, 4, brick, mortar)

	// first row of every course is mortar
	for x := 0; x < 32; x++ {
		assert.Equal(t, mortar, img.RGBAAt(x, 8))
	}
	// odd courses are offset by half a brick
	assert.Equal(t, mortar, img.RGBAAt(0, 1))
	assert.NotEqual(t, mortar, img.RGBAAt(0, 9))
	assert.Equal(t, mortar, img.RGBAAt(8, 9))
}

func TestProceduralTextures(t *testing.T) {
	textures := proceduralTextures()
	assert.Contains(t, textures, texChecker)
	assert.Contains(t, textures, texBricks)
}
