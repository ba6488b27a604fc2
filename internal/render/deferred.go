package render

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"mini-render/internal/geometry"
	"mini-render/internal/graphics"
	"mini-render/internal/logger"
	"mini-render/internal/material"
	"mini-render/internal/profiling"
	"mini-render/internal/scene"
)

// Program names the deferred pipeline needs from its ProgramSource.
const (
	ProgramCompositing = "compositing"
	ProgramShadowMap   = "shadowmap"
	// ProgramShadowMapInstanced offsets each instance by the vec3 at slot 3.
	ProgramShadowMapInstanced = "shadowmap_instanced"
	ProgramSSAO               = "ssao"
	ProgramSSAOBlur           = "ssao_blur"
)

// Options sizes the targets of a Deferred renderer.
type Options struct {
	Width         int
	Height        int
	ShadowMapSize int
	KernelSize    int
	Seed          uint64
}

func (o Options) withDefaults() Options {
	if o.ShadowMapSize <= 0 {
		o.ShadowMapSize = DefaultShadowMapSize
	}
	if o.KernelSize <= 0 {
		o.KernelSize = DefaultKernelSize
	}
	o.KernelSize = min(o.KernelSize, MaxKernelSize)
	return o
}

// Deferred renders a scene into a G-buffer and lights it in screen space with
// a shadow map and ambient occlusion.
type Deferred struct {
	width  int
	height int

	gbuffer  *Framebuffer
	ssao     *Framebuffer
	ssaoBlur *Framebuffer
	shadow   *ShadowMap
	noise    *graphics.Texture
	quad     *geometry.Buffer

	kernel     material.FloatArray
	kernelSize int

	compositing    *graphics.Program
	shadowProg     *graphics.Program
	shadowInstProg *graphics.Program
	ssaoProg       *graphics.Program
	blurProg       *graphics.Program

	uploader  material.Uploader
	newTarget func(width, height int, descs []AttachmentDesc) (*Framebuffer, error)

	radius         float32
	bias           float32
	intensity      float32
	ssaoEnabled    bool
	shadowsEnabled bool

	// eye position of the last geometry pass, lit by compositing
	viewPos mgl32.Vec3
}

// NewDeferred looks up the pipeline programs and allocates every target.
func NewDeferred(programs ProgramSource, opts Options) (*Deferred, error) {
	opts = opts.withDefaults()
	cfg := DefaultFrameConfig()
	d := &Deferred{
		uploader:       material.GLUploader{},
		newTarget:      NewFramebuffer,
		kernelSize:     opts.KernelSize,
		radius:         cfg.Radius,
		bias:           cfg.Bias,
		intensity:      cfg.Intensity,
		ssaoEnabled:    cfg.SSAO,
		shadowsEnabled: cfg.Shadows,
	}

	var err error
	for name, dst := range map[string]**graphics.Program{
		ProgramCompositing:        &d.compositing,
		ProgramShadowMap:          &d.shadowProg,
		ProgramShadowMapInstanced: &d.shadowInstProg,
		ProgramSSAO:               &d.ssaoProg,
		ProgramSSAOBlur:           &d.blurProg,
	} {
		if *dst, err = programs.Program(name); err != nil {
			return nil, fmt.Errorf("deferred renderer: %w", err)
		}
	}

	d.kernel = material.Vec3Array(GenerateKernel(opts.KernelSize, opts.Seed))

	if d.noise, err = graphics.NewFloatTexture(NoiseSize, NoiseSize, GenerateNoise(opts.Seed)); err != nil {
		return nil, fmt.Errorf("ssao noise: %w", err)
	}
	if d.shadow, err = NewShadowMap(opts.ShadowMapSize, opts.ShadowMapSize); err != nil {
		d.Dispose()
		return nil, err
	}
	if d.quad, err = geometry.Upload(geometry.Quad()); err != nil {
		d.Dispose()
		return nil, fmt.Errorf("screen quad: %w", err)
	}
	if err := d.Resize(opts.Width, opts.Height); err != nil {
		d.Dispose()
		return nil, err
	}

	logger.Log.Info("deferred renderer ready",
		zap.Int("width", opts.Width),
		zap.Int("height", opts.Height),
		zap.Int("shadowMap", opts.ShadowMapSize),
		zap.Int("kernel", opts.KernelSize))
	return d, nil
}

// Resize recreates the screen sized targets. The old targets are kept when
// any new one fails.
func (d *Deferred) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("deferred renderer: invalid size %dx%d", width, height)
	}

	targets := []struct {
		name  string
		descs []AttachmentDesc
		fb    *Framebuffer
	}{
		{name: "g-buffer", descs: GBufferAttachments()},
		{name: "ssao target", descs: OcclusionAttachments()},
		{name: "ssao blur target", descs: OcclusionAttachments()},
	}
	for i := range targets {
		fb, err := d.newTarget(width, height, targets[i].descs)
		if err != nil {
			for _, built := range targets[:i] {
				built.fb.Dispose()
			}
			return fmt.Errorf("%s: %w", targets[i].name, err)
		}
		targets[i].fb = fb
	}

	d.releaseTargets()
	d.gbuffer, d.ssao, d.ssaoBlur = targets[0].fb, targets[1].fb, targets[2].fb
	d.width, d.height = width, height
	return nil
}

func (d *Deferred) releaseTargets() {
	d.gbuffer.Dispose()
	d.ssao.Dispose()
	d.ssaoBlur.Dispose()
	d.gbuffer, d.ssao, d.ssaoBlur = nil, nil, nil
}

func (d *Deferred) SetSSAOParameters(radius, bias float32) {
	d.radius = radius
	d.bias = bias
}

func (d *Deferred) SetSSAOIntensity(v float32) { d.intensity = v }

func (d *Deferred) SetSSAOEnabled(b bool) { d.ssaoEnabled = b }

func (d *Deferred) SetShadowsEnabled(b bool) { d.shadowsEnabled = b }

// Apply copies the tunables of cfg into the renderer.
func (d *Deferred) Apply(cfg FrameConfig) {
	d.SetSSAOParameters(cfg.Radius, cfg.Bias)
	d.SetSSAOIntensity(cfg.Intensity)
	d.SetSSAOEnabled(cfg.SSAO)
	d.SetShadowsEnabled(cfg.Shadows)
}

// Render runs every stage Plan(cfg) lists. The first failing stage aborts
// the frame.
func (d *Deferred) Render(s Scene, cam Camera, light Light, cfg FrameConfig) error {
	d.Apply(cfg)
	for _, stage := range Plan(cfg) {
		stop := profiling.Track("render." + stage.String())
		err := d.run(stage, s, cam, light, cfg.Mode)
		stop()
		if err != nil {
			return fmt.Errorf("%s pass: %w", stage, err)
		}
	}
	return nil
}

func (d *Deferred) run(stage Stage, s Scene, cam Camera, light Light, mode string) error {
	switch stage {
	case StageClear:
		return d.Clear()
	case StageGeometry:
		return d.GeometryPass(s, cam, mode)
	case StageShadow:
		return d.ShadowMapPass(s, light)
	case StageSSAO:
		return d.SSAOPass(cam)
	case StageSSAOBlur:
		return d.SSAOBlurPass()
	case StageCompositing:
		return d.CompositingPass(light)
	default:
		return fmt.Errorf("unknown stage %d", stage)
	}
}

// Clear resets the default framebuffer and the targets that compositing
// samples even when their pass is skipped. See ClearPlan.
func (d *Deferred) Clear() error {
	for _, op := range ClearPlan(d.ssaoEnabled) {
		d.clearTarget(op)
	}
	return graphics.CheckError("Clear")
}

func (d *Deferred) clearTarget(op TargetClear) {
	switch op.Target {
	case TargetShadowMap:
		d.shadow.Bind()
	case TargetOcclusion:
		d.ssaoBlur.Bind()
		gl.Viewport(0, 0, int32(d.width), int32(d.height))
	default:
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, int32(d.width), int32(d.height))
	}

	var mask uint32
	if op.Color != nil {
		c := *op.Color
		gl.ClearColor(c[0], c[1], c[2], c[3])
		mask |= gl.COLOR_BUFFER_BIT
	}
	if op.Depth != nil {
		gl.DepthMask(true)
		gl.ClearDepth(float64(*op.Depth))
		mask |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(mask)

	gl.ClearColor(0, 0, 0, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(d.width), int32(d.height))
}

// GeometryPass fills the G-buffer with albedo, normals and positions of every
// object that has a material for mode.
func (d *Deferred) GeometryPass(s Scene, cam Camera, mode string) error {
	d.gbuffer.Bind()
	d.gbuffer.SetDrawBuffers()
	gl.Viewport(0, 0, int32(d.width), int32(d.height))
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)

	d.viewPos = cam.Position()

	fallback := viewParams(cam, mgl32.Vec4{0, 0, 0, 1})
	for _, data := range Collect(s.Objects(), mode) {
		draw(d.uploader, data, fallback)
	}
	d.gbuffer.Unbind()
	return graphics.CheckError("GeometryPass")
}

// ShadowMapPass renders the depth of every solid object from the light.
// Instanced geometry goes through its own program so each instance casts
// from where it is drawn.
func (d *Deferred) ShadowMapPass(s Scene, light Light) error {
	d.shadow.Bind()
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	gl.Clear(gl.DEPTH_BUFFER_BIT)

	fallback := material.Params{
		"u_projMat": material.Mat4(light.ProjectionMatrix()),
		"u_viewMat": material.Mat4(light.ViewMatrix()),
		"u_viewPos": material.Vec3(light.Position()),
	}
	plain, instanced := ShadowCasters(Collect(s.Objects(), scene.ModeSolid))
	for _, group := range []struct {
		program *graphics.Program
		items   []scene.RenderData
	}{
		{d.shadowProg, plain},
		{d.shadowInstProg, instanced},
	} {
		group.program.Use()
		for _, data := range group.items {
			bindOverride(d.uploader, group.program, data, fallback)
			data.Geometry.Draw()
		}
	}
	d.shadow.Unbind()
	gl.Viewport(0, 0, int32(d.width), int32(d.height))
	return graphics.CheckError("ShadowMapPass")
}

func (d *Deferred) gbufferTexture(i int) (*graphics.Texture, error) {
	return d.gbuffer.ColorAttachment(i)
}

// SSAOPass estimates ambient occlusion from the G-buffer normals and
// positions.
func (d *Deferred) SSAOPass(cam Camera) error {
	normal, err := d.gbufferTexture(1)
	if err != nil {
		return err
	}
	position, err := d.gbufferTexture(2)
	if err != nil {
		return err
	}

	d.ssao.Bind()
	gl.Viewport(0, 0, int32(d.width), int32(d.height))
	gl.Disable(gl.DEPTH_TEST)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	d.drawQuad(d.ssaoProg, material.Params{
		"u_samples":    d.kernel,
		"u_kernelSize": material.Int(d.kernelSize),
		"u_radius":     material.Float(d.radius),
		"u_bias":       material.Float(d.bias),
		"u_intensity":  material.Float(d.intensity),
		"u_noiseScale": material.Vec2(NoiseScale(d.width, d.height)),
		"u_proj":       material.Mat4(cam.ProjectionMatrix()),
		"u_view":       material.Mat4(cam.ViewMatrix()),
		"u_position":   material.TextureRef{Name: "position", Texture: position},
		"u_normal":     material.TextureRef{Name: "normal", Texture: normal},
		"u_noise":      material.TextureRef{Name: "noise", Texture: d.noise},
	})
	d.ssao.Unbind()
	return graphics.CheckError("SSAOPass")
}

// SSAOBlurPass smooths the raw occlusion with a 4x4 box filter.
func (d *Deferred) SSAOBlurPass() error {
	raw, err := d.ssao.ColorAttachment(0)
	if err != nil {
		return err
	}
	d.ssaoBlur.Bind()
	gl.Viewport(0, 0, int32(d.width), int32(d.height))
	gl.Disable(gl.DEPTH_TEST)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	d.drawQuad(d.blurProg, material.Params{
		"u_ssaoInput": material.TextureRef{Name: "ssao", Texture: raw},
	})
	d.ssaoBlur.Unbind()
	return graphics.CheckError("SSAOBlurPass")
}

// CompositingPass lights the G-buffer into the default framebuffer.
func (d *Deferred) CompositingPass(light Light) error {
	params := material.Params{
		"u_shadowMap":      material.TextureRef{Name: "shadowMap", Texture: d.shadow.DepthMap()},
		"u_lightPos":       material.Vec3(light.Position()),
		"u_lightColor":     material.Vec3(light.Color()),
		"u_lightIntensity": material.Float(light.Intensity()),
		"u_lightMat":       material.Mat4(light.ViewMatrix()),
		"u_lightProjMat":   material.Mat4(light.ProjectionMatrix()),
		"u_useSSAO":        material.Bool(d.ssaoEnabled),
		"u_useShadows":     material.Bool(d.shadowsEnabled),
		"u_viewPos":        material.Vec3(d.viewPos),
	}
	for i, name := range []string{"u_diffuse", "u_normal", "u_position"} {
		tex, err := d.gbufferTexture(i)
		if err != nil {
			return err
		}
		params[name] = material.TextureRef{Name: name, Texture: tex}
	}
	occlusion, err := d.ssaoBlur.ColorAttachment(0)
	if err != nil {
		return err
	}
	params["u_ssao"] = material.TextureRef{Name: "ssao", Texture: occlusion}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(d.width), int32(d.height))
	gl.Disable(gl.DEPTH_TEST)
	d.drawQuad(d.compositing, params)
	gl.Enable(gl.DEPTH_TEST)
	return graphics.CheckError("CompositingPass")
}

// BlitDepth copies the G-buffer depth into the default framebuffer so
// forward overlays drawn after compositing are occluded by the scene.
func (d *Deferred) BlitDepth() error {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, d.gbuffer.handle.ID())
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	w, h := int32(d.width), int32(d.height)
	gl.BlitFramebuffer(0, 0, w, h, 0, 0, w, h, gl.DEPTH_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return graphics.CheckError("BlitDepth")
}

func (d *Deferred) drawQuad(program *graphics.Program, params material.Params) {
	program.Use()
	material.Bind(d.uploader, program, params, nil)
	d.quad.Draw()
}

// Size returns the size of the screen targets.
func (d *Deferred) Size() (int, int) {
	return d.width, d.height
}

// Dispose releases every target the renderer owns. Programs belong to the
// ProgramSource.
func (d *Deferred) Dispose() {
	d.releaseTargets()
	d.shadow.Dispose()
	d.shadow = nil
	if d.noise != nil {
		d.noise.Release()
		d.noise = nil
	}
	d.quad.Release()
	d.quad = nil
}
