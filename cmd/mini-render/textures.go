package main

import (
	"image"
	"image/color"
)

// checkerImage is a two-tone checkerboard of cells x cells squares.
func checkerImage(size, cells int, a, b color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := max(size/max(cells, 1), 1)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// brickImage is a running bond of rows bricks high with mortar lines.
func brickImage(size, rows int, brick, mortar color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	rowH := max(size/max(rows, 1), 2)
	brickW := rowH * 2
	for y := 0; y < size; y++ {
		row := y / rowH
		shift := 0
		if row%2 == 1 {
			shift = brickW / 2
		}
		for x := 0; x < size; x++ {
			c := brick
			if y%rowH == 0 || (x+shift)%brickW == 0 {
				c = mortar
			} else if (x+shift)/brickW%3 == row%3 {
				// vary every third brick so the wall does not look tiled
				c = color.RGBA{brick.R - brick.R/8, brick.G, brick.B, brick.A}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// proceduralTextures are registered when no file of the same name exists in
// the texture directory.
func proceduralTextures() map[string]image.Image {
	return map[string]image.Image{
		texChecker: checkerImage(256, 8,
			color.RGBA{200, 200, 200, 255},
			color.RGBA{70, 90, 110, 255}),
		texBricks: brickImage(256, 16,
			color.RGBA{150, 60, 40, 255},
			color.RGBA{190, 185, 175, 255}),
	}
}
