package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
	"go.uber.org/zap"

	"mini-render/internal/config"
	"mini-render/internal/logger"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "mini-render.toml", "settings file")
	debug := flag.Bool("debug", false, "verbose development logging")
	flag.Parse()

	if err := logger.Init(*debug); err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	// Signals and the final exit go through closer so the log is flushed.
	// GL objects are released by run on the main thread, never from here.
	closer.Bind(logger.Sync)

	if err := run(*configPath); err != nil {
		logger.Log.Error("mini-render failed", zap.Error(err))
		closer.Exit(1)
	}
	closer.Close()
}

func run(configPath string) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.Log.Info("settings loaded",
		zap.String("path", configPath),
		zap.Int("width", settings.Window.Width),
		zap.Int("height", settings.Window.Height),
		zap.Int("scene", settings.Scene))

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	window, err := setupWindow(settings.Window)
	if err != nil {
		return err
	}
	defer window.Destroy()

	app, err := NewApp(window, settings)
	if err != nil {
		return err
	}
	defer app.Dispose()

	return app.Run()
}

func setupWindow(s config.WindowSettings) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(s.Width, s.Height, s.Title, nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		window.Destroy()
		return nil, fmt.Errorf("init gl: %w", err)
	}
	logger.Log.Info("gl context",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	if s.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	return window, nil
}
