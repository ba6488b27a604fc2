package graphics

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Texture is a GL texture object with its bind target and size.
type Texture struct {
	Target uint32
	Width  int
	Height int

	handle *Handle
}

// WrapTexture takes ownership of an existing texture handle.
func WrapTexture(h *Handle, target uint32, width, height int) *Texture {
	return &Texture{Target: target, Width: width, Height: height, handle: h}
}

// ID returns the GL texture name.
func (t *Texture) ID() uint32 {
	if t == nil {
		return 0
	}
	return t.handle.ID()
}

// Release deletes the GL texture.
func (t *Texture) Release() {
	t.handle.Release()
}

// NewColorTexture allocates an uninitialized 2D texture suitable as a color
// attachment. Filtering is nearest and edges are clamped.
func NewColorTexture(width, height int, internalFormat int32, format, xtype uint32) *Texture {
	h := NewTextureHandle()
	gl.BindTexture(gl.TEXTURE_2D, h.ID())
	gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, int32(width), int32(height), 0, format, xtype, nil)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return WrapTexture(h, gl.TEXTURE_2D, width, height)
}

// NewDepthTexture allocates a depth texture whose out-of-range lookups return
// 1.0, i.e. "not occluded".
func NewDepthTexture(width, height int) *Texture {
	h := NewTextureHandle()
	gl.BindTexture(gl.TEXTURE_2D, h.ID())
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT32F, int32(width), int32(height), 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	border := []float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return WrapTexture(h, gl.TEXTURE_2D, width, height)
}

// NewFloatTexture uploads tightly packed RGB float data, wrapping with repeat.
// Used for small tiling lookup textures.
func NewFloatTexture(width, height int, rgb []float32) (*Texture, error) {
	if len(rgb) != width*height*3 {
		return nil, fmt.Errorf("float texture %dx%d needs %d floats, got %d", width, height, width*height*3, len(rgb))
	}
	h := NewTextureHandle()
	gl.BindTexture(gl.TEXTURE_2D, h.ID())
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB32F, int32(width), int32(height), 0, gl.RGB, gl.FLOAT, gl.Ptr(rgb))

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return WrapTexture(h, gl.TEXTURE_2D, width, height), nil
}

// NewImageTexture uploads a decoded image as RGBA8 with mipmaps.
func NewImageTexture(img image.Image) *Texture {
	rgba := ToRGBA(img)

	h := NewTextureHandle()
	gl.BindTexture(gl.TEXTURE_2D, h.ID())

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA8,
		int32(rgba.Rect.Size().X),
		int32(rgba.Rect.Size().Y),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(rgba.Pix),
	)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return WrapTexture(h, gl.TEXTURE_2D, rgba.Rect.Size().X, rgba.Rect.Size().Y)
}

// LoadTexture decodes an image file and uploads it.
func LoadTexture(path string) (*Texture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return NewImageTexture(img), nil
}

// ToRGBA converts img to a tightly packed RGBA image with its origin at (0,0),
// flipped vertically so row 0 is the bottom row as GL expects.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	stride := rgba.Stride
	row := make([]uint8, stride)
	for y := 0; y < b.Dy()/2; y++ {
		top := rgba.Pix[y*stride : (y+1)*stride]
		bottom := rgba.Pix[(b.Dy()-1-y)*stride : (b.Dy()-y)*stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
	return rgba
}
