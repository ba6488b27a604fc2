package render

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"mini-render/internal/geometry"
	"mini-render/internal/graphics"
	"mini-render/internal/material"
	"mini-render/internal/profiling"
)

// ProgramNormals draws one line per vertex along its normal.
const ProgramNormals = "generate_normals"

// Forward draws scene objects straight to the current framebuffer.
type Forward struct {
	// Transparent lists the material names drawn blended after the opaque set.
	Transparent map[string]bool
	// SolidColor is the u_solidColor fallback for programs that read it.
	SolidColor mgl32.Vec4
	// NormalColor is the color of the lines drawn by RenderNormals.
	NormalColor mgl32.Vec4
	ClearColor  mgl32.Vec4

	normals  *graphics.Program
	uploader material.Uploader
}

func NewForward(programs ProgramSource) (*Forward, error) {
	normals, err := programs.Program(ProgramNormals)
	if err != nil {
		return nil, fmt.Errorf("forward renderer: %w", err)
	}
	return &Forward{
		Transparent: map[string]bool{"particle": true},
		SolidColor:  mgl32.Vec4{1, 0.6, 0.1, 1},
		NormalColor: mgl32.Vec4{0.3, 0.9, 1, 1},
		ClearColor:  mgl32.Vec4{0, 0, 0, 1},
		normals:     normals,
		uploader:    material.GLUploader{},
	}, nil
}

// Initialize sets the state the forward passes expect.
func (f *Forward) Initialize() {
	gl.Enable(gl.DEPTH_TEST)
	f.Clear()
}

// Clear resets color and depth of the current framebuffer. The clear color
// is set every time since the deferred pipeline changes it.
func (f *Forward) Clear() {
	c := f.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// RenderScene draws the opaque objects of mode, then the transparent ones
// farthest first with additive blending and depth writes off.
func (f *Forward) RenderScene(s Scene, cam Camera, mode string) error {
	defer profiling.Track("render.forward")()

	opaque, blended := Partition(Collect(s.Objects(), mode), f.Transparent)
	fallback := viewParams(cam, f.SolidColor)

	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	for _, data := range opaque {
		draw(f.uploader, data, fallback)
	}

	if len(blended) > 0 {
		SortBackToFront(blended, cam.ViewMatrix())
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
		gl.DepthMask(false)
		for _, data := range blended {
			draw(f.uploader, data, fallback)
		}
		gl.Disable(gl.BLEND)
		gl.DepthMask(true)
	}
	return graphics.CheckError("RenderScene")
}

// RenderNormals draws the normals of every object in mode as short lines
// emitted by a geometry shader. Geometry without normals, such as the colored
// axis lines, is skipped.
func (f *Forward) RenderNormals(s Scene, cam Camera, mode string) error {
	defer profiling.Track("render.normals")()

	fallback := viewParams(cam, f.NormalColor)
	f.normals.Use()
	for _, data := range WithNormals(Collect(s.Objects(), mode)) {
		bindOverride(f.uploader, f.normals, data, fallback)
		data.Geometry.DrawAs(geometry.Points)
	}
	return graphics.CheckError("RenderNormals")
}

// SetWireframe switches polygon rasterization between lines and fill.
func SetWireframe(on bool) {
	if on {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		return
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
}
