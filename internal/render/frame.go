package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"mini-render/internal/graphics"
	"mini-render/internal/scene"
)

// Camera is the view the passes render from.
type Camera interface {
	ViewMatrix() mgl32.Mat4
	ProjectionMatrix() mgl32.Mat4
	Position() mgl32.Vec3
	Near() float32
	Far() float32
}

// Light is the single shadow casting light of a frame.
type Light interface {
	ViewMatrix() mgl32.Mat4
	ProjectionMatrix() mgl32.Mat4
	Position() mgl32.Vec3
	Color() mgl32.Vec3
	Intensity() float32
}

// Scene is the list of objects a pass walks.
type Scene interface {
	Objects() []scene.Renderable
}

// ProgramSource looks up linked programs by name.
type ProgramSource interface {
	Program(name string) (*graphics.Program, error)
}

// Stage is one step of a deferred frame.
type Stage uint8

const (
	StageClear Stage = iota
	StageGeometry
	StageShadow
	StageSSAO
	StageSSAOBlur
	StageCompositing
)

func (s Stage) String() string {
	switch s {
	case StageClear:
		return "clear"
	case StageGeometry:
		return "geometry"
	case StageShadow:
		return "shadow"
	case StageSSAO:
		return "ssao"
	case StageSSAOBlur:
		return "ssao_blur"
	case StageCompositing:
		return "compositing"
	default:
		return "unknown"
	}
}

// FrameConfig is the snapshot of tunables a frame is rendered with.
type FrameConfig struct {
	Mode      string
	SSAO      bool
	Shadows   bool
	Radius    float32
	Bias      float32
	Intensity float32
}

// DefaultFrameConfig matches the startup settings of the viewer.
func DefaultFrameConfig() FrameConfig {
	return FrameConfig{
		Mode:      scene.ModeSolid,
		SSAO:      true,
		Shadows:   true,
		Radius:    0.5,
		Bias:      0.005,
		Intensity: 1.0,
	}
}

// Plan lists the stages a frame runs, in order.
func Plan(cfg FrameConfig) []Stage {
	stages := []Stage{StageClear, StageGeometry}
	if cfg.Shadows {
		stages = append(stages, StageShadow)
	}
	if cfg.SSAO {
		stages = append(stages, StageSSAO, StageSSAOBlur)
	}
	return append(stages, StageCompositing)
}

// ClearTarget is a target reset by the clear stage.
type ClearTarget uint8

const (
	TargetScreen ClearTarget = iota
	TargetShadowMap
	TargetOcclusion
)

// TargetClear is one clear of the clear stage. Nil fields are left alone.
type TargetClear struct {
	Target ClearTarget
	Color  *mgl32.Vec4
	Depth  *float32
}

// ClearPlan lists the clears run at the start of a frame. The shadow map is
// reset to the far plane every frame and the blurred occlusion goes white
// while SSAO is off, so compositing reads "unshadowed" and "unoccluded"
// whatever the toggles are.
func ClearPlan(ssao bool) []TargetClear {
	far := float32(1)
	black := mgl32.Vec4{0, 0, 0, 0}
	plan := []TargetClear{
		{Target: TargetScreen, Color: &black, Depth: &far},
		{Target: TargetShadowMap, Depth: &far},
	}
	if !ssao {
		white := mgl32.Vec4{1, 1, 1, 1}
		plan = append(plan, TargetClear{Target: TargetOcclusion, Color: &white})
	}
	return plan
}
