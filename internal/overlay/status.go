package overlay

import (
	"fmt"

	"mini-render/internal/render"
)

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// StatusLines describes the frame settings and the slowest passes.
func StatusLines(scene string, cfg render.FrameConfig, passes string) []string {
	lines := []string{
		fmt.Sprintf("scene: %s  mode: %s", scene, cfg.Mode),
		fmt.Sprintf("[O] ssao: %s  [S] shadows: %s", onOff(cfg.SSAO), onOff(cfg.Shadows)),
		fmt.Sprintf("[R/F] radius: %.2f  [T/G] bias: %.4f  [Y/H] intensity: %.2f", cfg.Radius, cfg.Bias, cfg.Intensity),
	}
	if passes != "" {
		lines = append(lines, "", passes)
	}
	return lines
}
