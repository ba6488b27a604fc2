package render

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"mini-render/internal/graphics"
)

var (
	ErrAttachmentIndex = errors.New("render: color attachment index out of range")
	ErrIncomplete      = errors.New("render: framebuffer incomplete")
)

// AttachmentDesc describes one color attachment of a framebuffer.
type AttachmentDesc struct {
	Format         uint32
	Type           uint32
	InternalFormat int32
}

// GBufferAttachments is the layout the geometry pass writes: albedo, view
// space normals and view space positions.
func GBufferAttachments() []AttachmentDesc {
	return []AttachmentDesc{
		{Format: gl.RGBA, Type: gl.FLOAT, InternalFormat: gl.RGBA8},
		{Format: gl.RGBA, Type: gl.FLOAT, InternalFormat: gl.RGBA32F},
		{Format: gl.RGBA, Type: gl.FLOAT, InternalFormat: gl.RGBA32F},
	}
}

// OcclusionAttachments is the single channel target of the SSAO passes.
func OcclusionAttachments() []AttachmentDesc {
	return []AttachmentDesc{{Format: gl.RED, Type: gl.FLOAT, InternalFormat: gl.R16F}}
}

// Framebuffer owns a framebuffer object, one texture per color attachment and
// a depth-stencil renderbuffer.
type Framebuffer struct {
	Width  int
	Height int

	handle      *graphics.Handle
	depth       *graphics.Handle
	attachments []*graphics.Texture
}

// NewFramebuffer allocates a width x height target with one color texture per
// descriptor, in order.
func NewFramebuffer(width, height int, descs []AttachmentDesc) (*Framebuffer, error) {
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		handle: graphics.NewFramebufferHandle(),
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.handle.ID())

	for i, d := range descs {
		tex := graphics.NewColorTexture(width, height, d.InternalFormat, d.Format, d.Type)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0+uint32(i), gl.TEXTURE_2D, tex.ID(), 0)
		fb.attachments = append(fb.attachments, tex)
	}

	fb.depth = graphics.NewRenderbuffer()
	gl.BindRenderbuffer(gl.RENDERBUFFER, fb.depth.ID())
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, int32(width), int32(height))
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, fb.depth.ID())
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	fb.SetDrawBuffers()
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		fb.Dispose()
		return nil, fmt.Errorf("%w: status 0x%x", ErrIncomplete, status)
	}
	if err := graphics.CheckError("NewFramebuffer"); err != nil {
		fb.Dispose()
		return nil, err
	}
	return fb, nil
}

func (f *Framebuffer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, f.handle.ID())
}

// Unbind restores the default framebuffer.
func (f *Framebuffer) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// SetDrawBuffers routes fragment outputs 0..N-1 to the color attachments.
// The framebuffer must be bound.
func (f *Framebuffer) SetDrawBuffers() {
	if len(f.attachments) == 0 {
		gl.DrawBuffer(gl.NONE)
		return
	}
	buffers := drawBuffers(len(f.attachments))
	gl.DrawBuffers(int32(len(buffers)), &buffers[0])
}

func drawBuffers(n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = gl.COLOR_ATTACHMENT0 + uint32(i)
	}
	return out
}

// AttachmentCount is the number of color attachments.
func (f *Framebuffer) AttachmentCount() int {
	return len(f.attachments)
}

// ColorAttachment returns the texture behind attachment i.
func (f *Framebuffer) ColorAttachment(i int) (*graphics.Texture, error) {
	if i < 0 || i >= len(f.attachments) {
		return nil, fmt.Errorf("%w: %d of %d", ErrAttachmentIndex, i, len(f.attachments))
	}
	return f.attachments[i], nil
}

// Dispose releases the framebuffer and everything attached to it.
func (f *Framebuffer) Dispose() {
	if f == nil {
		return
	}
	for _, t := range f.attachments {
		t.Release()
	}
	f.attachments = nil
	f.depth.Release()
	f.handle.Release()
}
