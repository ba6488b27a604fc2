package render

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"mini-render/internal/graphics"
)

// DefaultShadowMapSize is the edge length of the shadow depth target.
const DefaultShadowMapSize = 1024

// ShadowMap is a depth-only render target sampled by the compositing pass.
type ShadowMap struct {
	Width  int
	Height int

	handle *graphics.Handle
	depth  *graphics.Texture
}

func NewShadowMap(width, height int) (*ShadowMap, error) {
	sm := &ShadowMap{
		Width:  width,
		Height: height,
		handle: graphics.NewFramebufferHandle(),
		depth:  graphics.NewDepthTexture(width, height),
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.handle.ID())
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, sm.depth.ID(), 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		sm.Dispose()
		return nil, fmt.Errorf("shadow map: %w: status 0x%x", ErrIncomplete, status)
	}
	if err := graphics.CheckError("NewShadowMap"); err != nil {
		sm.Dispose()
		return nil, err
	}
	return sm, nil
}

// Bind makes the shadow map the render target and sets a matching viewport.
func (s *ShadowMap) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, s.handle.ID())
	gl.Viewport(0, 0, int32(s.Width), int32(s.Height))
}

func (s *ShadowMap) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// DepthMap is the texture the compositing pass samples.
func (s *ShadowMap) DepthMap() *graphics.Texture {
	return s.depth
}

func (s *ShadowMap) Dispose() {
	if s == nil {
		return
	}
	if s.depth != nil {
		s.depth.Release()
	}
	s.handle.Release()
}
