package overlay

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"mini-render/internal/graphics"
	"mini-render/internal/material"
)

// ProgramText is the program the overlay draws glyph quads with.
const ProgramText = "text"

// ProgramSource looks up linked programs by name.
type ProgramSource interface {
	Program(name string) (*graphics.Program, error)
}

// Overlay draws lines of text over the finished frame.
type Overlay struct {
	Color mgl32.Vec3
	Scale float32

	atlas    *Atlas
	texture  *graphics.Texture
	program  *graphics.Program
	vao      *graphics.Handle
	vbo      *graphics.Handle
	proj     mgl32.Mat4
	uploader material.Uploader
}

// New bakes the Go font at size pixels and uploads it.
func New(programs ProgramSource, size float64, width, height int) (*Overlay, error) {
	program, err := programs.Program(ProgramText)
	if err != nil {
		return nil, fmt.Errorf("overlay: %w", err)
	}
	face, err := NewGoFace(size)
	if err != nil {
		return nil, err
	}
	defer func() { _ = face.Close() }()

	atlas, err := BuildAtlas(face, ASCII(), 512)
	if err != nil {
		return nil, err
	}

	o := &Overlay{
		Color:    mgl32.Vec3{1, 1, 1},
		Scale:    1,
		atlas:    atlas,
		texture:  uploadAtlas(atlas),
		program:  program,
		vao:      graphics.NewVertexArray(),
		vbo:      graphics.NewBuffer(),
		uploader: material.GLUploader{},
	}
	o.Resize(width, height)

	gl.BindVertexArray(o.vao.ID())
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo.ID())
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 4, gl.FLOAT, false, 4*4, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	if err := graphics.CheckError("overlay.New"); err != nil {
		o.Dispose()
		return nil, err
	}
	return o, nil
}

func uploadAtlas(a *Atlas) *graphics.Texture {
	h := graphics.NewTextureHandle()
	gl.BindTexture(gl.TEXTURE_2D, h.ID())
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(a.Width), int32(a.Height), 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(a.Image.Pix))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return graphics.WrapTexture(h, gl.TEXTURE_2D, a.Width, a.Height)
}

// Resize keeps text at pixel size after the window changes.
func (o *Overlay) Resize(width, height int) {
	o.proj = mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1)
}

// Draw renders lines from the top-left corner with alpha blending.
func (o *Overlay) Draw(lines []string) error {
	step := float32(o.atlas.LineHeight) * o.Scale
	verts := o.atlas.Layout(lines, 10, 10+step, step, o.Scale)
	if len(verts) == 0 {
		return nil
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	o.program.Use()
	material.Bind(o.uploader, o.program, material.Params{
		"u_projection": material.Mat4(o.proj),
		"u_textColor":  material.Vec3(o.Color),
		"u_text":       material.TextureRef{Name: "glyphs", Texture: o.texture},
	}, nil)

	gl.BindVertexArray(o.vao.ID())
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo.ID())
	// orphan the previous frame's storage before refilling
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, nil, gl.STREAM_DRAW)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(verts)*4, gl.Ptr(verts))
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(verts)/4))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
	return graphics.CheckError("overlay.Draw")
}

func (o *Overlay) Dispose() {
	if o.texture != nil {
		o.texture.Release()
	}
	o.vbo.Release()
	o.vao.Release()
}
