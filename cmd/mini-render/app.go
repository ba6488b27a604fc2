package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"mini-render/internal/config"
	"mini-render/internal/geometry"
	"mini-render/internal/graphics"
	"mini-render/internal/input"
	"mini-render/internal/logger"
	"mini-render/internal/material"
	"mini-render/internal/overlay"
	"mini-render/internal/profiling"
	"mini-render/internal/render"
	"mini-render/internal/scene"
	"mini-render/pkg/boxmodel"
)

// orbitSpeed is degrees of camera orbit per pixel dragged.
const orbitSpeed = -0.4

// App owns the window, the pipelines and the scenes of the viewer.
type App struct {
	window   *glfw.Window
	settings config.Settings
	tunables *config.Tunables
	input    *input.InputManager

	library  *material.Library
	factory  *geometry.Factory
	deferred *render.Deferred
	forward  *render.Forward
	overlay  *overlay.Overlay

	camera *graphics.Camera
	light  *graphics.SpotLight
	scenes []*viewScene

	// set by the framebuffer size callback, returned by the next tick
	resizeErr error

	pacer *framePacer
}

// NewApp loads every asset and builds the pipelines for window. On error
// everything allocated so far is released.
func NewApp(window *glfw.Window, settings config.Settings) (app *App, err error) {
	a := &App{
		window:   window,
		settings: settings,
		tunables: config.NewTunables(settings),
		input:    input.NewInputManager(),
		library:  material.NewLibrary(),
		factory:  geometry.NewFactory(),
		pacer:    newFramePacer(),
	}
	defer func() {
		if err != nil {
			a.Dispose()
		}
	}()

	if err := a.loadAssets(); err != nil {
		return nil, err
	}
	parts, err := a.loadModel(cottageModel)
	if err != nil {
		return nil, err
	}

	width, height := window.GetFramebufferSize()
	a.deferred, err = render.NewDeferred(a.library, render.Options{
		Width:         width,
		Height:        height,
		ShadowMapSize: settings.Shadows.MapSize,
		KernelSize:    settings.SSAO.KernelSize,
		Seed:          settings.SSAO.Seed,
	})
	if err != nil {
		return nil, err
	}
	if a.forward, err = render.NewForward(a.library); err != nil {
		return nil, err
	}
	a.forward.Initialize()
	if a.overlay, err = overlay.New(a.library, 18, width, height); err != nil {
		return nil, err
	}

	a.camera = graphics.NewCamera(width, height)
	a.light = newLight()

	a.scenes = buildScenes(settings.SSAO.Seed, parts)
	for _, vs := range a.scenes {
		if err := vs.Prepare(a.library, a.factory); err != nil {
			return nil, fmt.Errorf("scene %q: %w", vs.Name, err)
		}
	}

	a.input.Attach(window)
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		a.resize(width, height)
	})
	a.selectScene(a.tunables.Scene())
	return a, nil
}

// buildScenes returns the scenes bound to the number keys, in key order.
func buildScenes(seed uint64, parts []boxmodel.Part) []*viewScene {
	return []*viewScene{
		cubesScene(),
		instancedScene(),
		particlesScene(seed),
		cottageScene(parts),
	}
}

func newLight() *graphics.SpotLight {
	light := graphics.NewSpotLight()
	light.FOV = 60
	light.NearPlane = 1
	light.FarPlane = 60
	light.SetPosition(mgl32.Vec3{8, 12, -8})
	light.LookAt(origin, mgl32.Vec3{0, 1, 0})
	return light
}

func (a *App) loadAssets() error {
	if err := a.library.LoadShaders(a.settings.Assets.Shaders); err != nil {
		return err
	}
	err := a.library.LoadTextures(a.settings.Assets.Textures)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Log.Info("no texture directory, using generated textures",
			zap.String("dir", a.settings.Assets.Textures))
	} else if err != nil {
		return err
	}
	for name, img := range proceduralTextures() {
		if _, err := a.library.Texture(name); err == nil {
			continue
		}
		a.library.AddTexture(name, graphics.NewImageTexture(img))
	}
	return graphics.CheckError("loadAssets")
}

// loadModel registers the parts of a box model with the geometry factory.
func (a *App) loadModel(name string) ([]boxmodel.Part, error) {
	model, err := boxmodel.NewLoader(a.settings.Assets.Models).LoadModel(name)
	if err != nil {
		return nil, fmt.Errorf("model %q: %w", name, err)
	}
	parts, err := boxmodel.Build(model)
	if err != nil {
		return nil, fmt.Errorf("model %q: %w", name, err)
	}
	for _, part := range parts {
		if err := a.factory.Register(modelShape(name, part), part.Mesh); err != nil {
			return nil, err
		}
	}
	logger.Log.Info("model loaded", zap.String("name", name), zap.Int("parts", len(parts)))
	return parts, nil
}

func (a *App) current() *viewScene {
	return a.scenes[a.tunables.Scene()-1]
}

func (a *App) selectScene(n int) {
	if !a.tunables.SelectScene(n) || n > len(a.scenes) {
		logger.Log.Warn("no such scene", zap.Int("scene", n))
		return
	}
	a.resetCamera()
	vs := a.current()
	logger.Log.Info("scene selected",
		zap.String("name", vs.Name),
		zap.Stringer("pipeline", vs.pipeline),
		zap.Int("objects", len(vs.Objects())))
}

func (a *App) resetCamera() {
	a.camera.SetPosition(a.current().home)
	a.camera.LookAt(origin, mgl32.Vec3{0, 1, 0})
}

func (a *App) resize(width, height int) {
	// minimized
	if width == 0 || height == 0 {
		return
	}
	if err := a.deferred.Resize(width, height); err != nil {
		a.resizeErr = fmt.Errorf("resize to %dx%d: %w", width, height, err)
		return
	}
	gl.Viewport(0, 0, int32(width), int32(height))
	a.camera.SetViewport(width, height)
	a.overlay.Resize(width, height)
	logger.Log.Debug("resized", zap.Int("width", width), zap.Int("height", height))
}

// Run loops until the window closes or a frame fails.
func (a *App) Run() error {
	for !a.window.ShouldClose() {
		if err := a.tick(); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) tick() error {
	if a.resizeErr != nil {
		return a.resizeErr
	}
	profiling.ResetFrame()
	dt := a.pacer.Begin()

	a.handleInput()

	vs := a.current()
	err := func() error {
		defer profiling.Track("scene.Update")()
		return vs.Update(dt, a.camera.ViewMatrix())
	}()
	if err != nil {
		return fmt.Errorf("update %q: %w", vs.Name, err)
	}

	if err := a.renderFrame(vs); err != nil {
		return fmt.Errorf("render %q: %w", vs.Name, err)
	}
	if a.tunables.Overlay() {
		lines := overlay.StatusLines(vs.Name, a.tunables.Frame(), profiling.TopN(3))
		if err := a.overlay.Draw(lines); err != nil {
			return err
		}
	}

	a.window.SwapBuffers()
	a.input.PostUpdate()
	func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()
	a.pacer.Wait(a.settings.Window.MaxFPS)

	if fps, ok := a.pacer.Tick(); ok {
		fields := []zap.Field{
			zap.Int("fps", fps),
			zap.String("scene", vs.Name),
		}
		logger.Log.Debug("frame stats", append(fields, profiling.Default.Fields(3)...)...)
	}
	return nil
}

func (a *App) renderFrame(vs *viewScene) error {
	cfg := a.tunables.Frame()

	if vs.pipeline == pipelineDeferred {
		if err := a.deferred.Render(vs, a.camera, a.light, cfg); err != nil {
			return err
		}
		if !a.tunables.Normals() {
			return nil
		}
		if err := a.deferred.BlitDepth(); err != nil {
			return err
		}
		return a.forward.RenderNormals(vs, a.camera, cfg.Mode)
	}

	a.forward.Clear()
	render.SetWireframe(cfg.Mode == scene.ModeWireframe)
	err := a.forward.RenderScene(vs, a.camera, cfg.Mode)
	render.SetWireframe(false)
	if err != nil {
		return err
	}
	if a.tunables.Normals() {
		return a.forward.RenderNormals(vs, a.camera, cfg.Mode)
	}
	return nil
}

// stepper binds a pair of keys to one cycling tunable.
type stepper struct {
	name     string
	down, up input.Action
	step     func(dir int) float32
}

func (a *App) handleInput() {
	im := a.input
	t := a.tunables

	if im.JustPressed(input.ActionQuit) {
		a.window.SetShouldClose(true)
	}

	toggles := []struct {
		name   string
		action input.Action
		toggle func() bool
	}{
		{"ssao", input.ActionToggleSSAO, t.ToggleSSAO},
		{"shadows", input.ActionToggleShadows, t.ToggleShadows},
		{"wireframe", input.ActionToggleWireframe, t.ToggleWireframe},
		{"normals", input.ActionToggleNormals, t.ToggleNormals},
		{"overlay", input.ActionToggleOverlay, t.ToggleOverlay},
	}
	for _, tg := range toggles {
		if im.JustPressed(tg.action) {
			logger.Log.Info("toggled", zap.String("setting", tg.name), zap.Bool("enabled", tg.toggle()))
		}
	}

	for _, s := range []stepper{
		{"radius", input.ActionRadiusDown, input.ActionRadiusUp, t.StepRadius},
		{"bias", input.ActionBiasDown, input.ActionBiasUp, t.StepBias},
		{"intensity", input.ActionIntensityDown, input.ActionIntensityUp, t.StepIntensity},
	} {
		dir := 0
		if im.JustPressed(s.down) {
			dir--
		}
		if im.JustPressed(s.up) {
			dir++
		}
		if dir != 0 {
			logger.Log.Info("ssao parameter", zap.String("name", s.name), zap.Float32("value", s.step(dir)))
		}
	}

	for i, action := range input.SceneActions {
		if im.JustPressed(action) {
			a.selectScene(i + 1)
		}
	}
	if im.JustPressed(input.ActionResetCamera) {
		a.resetCamera()
	}
	if drag := im.Drag(); drag != (mgl32.Vec2{}) {
		a.camera.Orbit(drag.Mul(orbitSpeed), origin)
	}
}

// Dispose releases scenes, pipelines and assets in reverse order of
// creation. It tolerates a partially built App.
func (a *App) Dispose() {
	for _, vs := range a.scenes {
		vs.Release()
	}
	a.scenes = nil
	if a.overlay != nil {
		a.overlay.Dispose()
		a.overlay = nil
	}
	if a.deferred != nil {
		a.deferred.Dispose()
		a.deferred = nil
	}
	a.forward = nil
	a.factory.Dispose()
	a.library.Dispose()
}
