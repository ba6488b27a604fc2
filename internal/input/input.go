package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// Action represents a logical viewer action, not a physical key
type Action int

const (
	ActionToggleSSAO Action = iota
	ActionToggleShadows
	ActionRadiusDown
	ActionRadiusUp
	ActionBiasDown
	ActionBiasUp
	ActionIntensityDown
	ActionIntensityUp
	ActionScene1
	ActionScene2
	ActionScene3
	ActionScene4
	ActionToggleWireframe
	ActionToggleNormals
	ActionResetCamera
	ActionToggleOverlay
	ActionQuit
	ActionOrbit
	ActionCount // Sentinel value for array sizing
)

// SceneActions are the scene selection actions in scene order.
var SceneActions = []Action{ActionScene1, ActionScene2, ActionScene3, ActionScene4}

// InputManager maps physical keys/buttons to logical actions and tracks
// mouse drags.
type InputManager struct {
	mu sync.RWMutex

	keyToActions         map[glfw.Key][]Action
	mouseButtonToActions map[glfw.MouseButton][]Action

	currentState [ActionCount]bool
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool

	cursor     mgl32.Vec2
	haveCursor bool
	drag       mgl32.Vec2
}

// NewInputManager creates an InputManager with the default bindings
func NewInputManager() *InputManager {
	im := &InputManager{
		keyToActions:         make(map[glfw.Key][]Action),
		mouseButtonToActions: make(map[glfw.MouseButton][]Action),
	}

	im.BindKey(glfw.KeyO, ActionToggleSSAO)
	im.BindKey(glfw.KeyS, ActionToggleShadows)
	im.BindKey(glfw.KeyR, ActionRadiusDown)
	im.BindKey(glfw.KeyF, ActionRadiusUp)
	im.BindKey(glfw.KeyT, ActionBiasDown)
	im.BindKey(glfw.KeyG, ActionBiasUp)
	im.BindKey(glfw.KeyY, ActionIntensityDown)
	im.BindKey(glfw.KeyH, ActionIntensityUp)
	im.BindKey(glfw.Key1, ActionScene1)
	im.BindKey(glfw.Key2, ActionScene2)
	im.BindKey(glfw.Key3, ActionScene3)
	im.BindKey(glfw.Key4, ActionScene4)
	im.BindKey(glfw.KeyW, ActionToggleWireframe)
	im.BindKey(glfw.KeyN, ActionToggleNormals)
	im.BindKey(glfw.KeyEnter, ActionResetCamera)
	im.BindKey(glfw.KeyKPEnter, ActionResetCamera)
	im.BindKey(glfw.KeyF1, ActionToggleOverlay)
	im.BindKey(glfw.KeyEscape, ActionQuit)

	im.BindMouseButton(glfw.MouseButtonLeft, ActionOrbit)

	return im
}

// BindKey binds a physical key to a logical action
func (im *InputManager) BindKey(key glfw.Key, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	im.mu.Lock()
	defer im.mu.Unlock()
	im.keyToActions[key] = append(im.keyToActions[key], action)
}

// UnbindKey removes all action bindings for a key
func (im *InputManager) UnbindKey(key glfw.Key) {
	im.mu.Lock()
	defer im.mu.Unlock()
	delete(im.keyToActions, key)
}

// BindMouseButton binds a mouse button to a logical action
func (im *InputManager) BindMouseButton(button glfw.MouseButton, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	im.mu.Lock()
	defer im.mu.Unlock()
	im.mouseButtonToActions[button] = append(im.mouseButtonToActions[button], action)
}

func (im *InputManager) apply(actions []Action, isPressed bool) {
	for _, act := range actions {
		if isPressed && !im.currentState[act] {
			im.justPressed[act] = true
		}
		if !isPressed && im.currentState[act] {
			im.justReleased[act] = true
		}
		im.currentState[act] = isPressed
	}
}

// HandleKeyEvent processes a key event. Repeats count as held.
func (im *InputManager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	im.mu.Lock()
	defer im.mu.Unlock()
	if actions, ok := im.keyToActions[key]; ok {
		im.apply(actions, action == glfw.Press || action == glfw.Repeat)
	}
}

// HandleMouseButtonEvent processes a mouse button event
func (im *InputManager) HandleMouseButtonEvent(button glfw.MouseButton, action glfw.Action) {
	im.mu.Lock()
	defer im.mu.Unlock()
	if actions, ok := im.mouseButtonToActions[button]; ok {
		im.apply(actions, action == glfw.Press)
	}
}

// HandleCursor records a cursor move. Movement while ActionOrbit is held
// accumulates into the drag offset.
func (im *InputManager) HandleCursor(x, y float64) {
	im.mu.Lock()
	defer im.mu.Unlock()
	pos := mgl32.Vec2{float32(x), float32(y)}
	if im.haveCursor && im.currentState[ActionOrbit] {
		im.drag = im.drag.Add(pos.Sub(im.cursor))
	}
	im.cursor = pos
	im.haveCursor = true
}

// Attach installs the key, button and cursor callbacks on window.
func (im *InputManager) Attach(window *glfw.Window) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleKeyEvent(key, action)
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleMouseButtonEvent(button, action)
	})
	window.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		im.HandleCursor(x, y)
	})
}

// PostUpdate must be called at the end of each frame to reset edge flags and
// the drag offset
func (im *InputManager) PostUpdate() {
	im.mu.Lock()
	defer im.mu.Unlock()
	for i := range ActionCount {
		im.justPressed[i] = false
		im.justReleased[i] = false
	}
	im.drag = mgl32.Vec2{}
}

// IsActive returns true if the action is currently being held down
func (im *InputManager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.currentState[action]
}

// JustPressed returns true only if the action was pressed in the current frame
func (im *InputManager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.justPressed[action]
}

// JustReleased returns true only if the action was released in the current frame
func (im *InputManager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.justReleased[action]
}

// Drag returns the cursor movement made while orbiting this frame.
func (im *InputManager) Drag() mgl32.Vec2 {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.drag
}
