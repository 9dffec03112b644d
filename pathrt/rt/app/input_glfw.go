package app

import (
	"github.com/gekko3d/progressive/pathrt/rt/core"

	"github.com/go-gl/glfw/v3.3/glfw"
)

var keyBindings = map[glfw.Key]core.Action{
	glfw.KeyW:           core.ActionForward,
	glfw.KeyS:           core.ActionBack,
	glfw.KeyA:           core.ActionStrafeLeft,
	glfw.KeyD:           core.ActionStrafeRight,
	glfw.KeySpace:       core.ActionUp,
	glfw.KeyLeftControl: core.ActionDown,
	glfw.KeyLeftShift:   core.ActionFast,
	glfw.KeyM:           core.ActionToggleMode,
	glfw.KeyEscape:      core.ActionExit,
}

// GlfwWindow polls a glfw window into core.InputState.
type GlfwWindow struct {
	Window *glfw.Window
	state  core.InputState
}

func NewGlfwWindow(w *glfw.Window) *GlfwWindow {
	return &GlfwWindow{Window: w}
}

func (g *GlfwWindow) set(a core.Action, down bool) {
	if down {
		g.state.Press(a)
	} else {
		g.state.Release(a)
	}
}

func (g *GlfwWindow) Poll() *core.InputState {
	glfw.PollEvents()
	g.state.ClearEdges()

	for key, action := range keyBindings {
		g.set(action, g.Window.GetKey(key) == glfw.Press)
	}
	g.set(core.ActionLook, g.Window.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press)

	g.state.CursorX, g.state.CursorY = g.Window.GetCursorPos()
	g.state.Width, g.state.Height = g.Window.GetSize()

	snapshot := g.state
	return &snapshot
}

func (g *GlfwWindow) ShouldClose() bool {
	return g.Window.ShouldClose()
}

func (g *GlfwWindow) SetTitle(title string) {
	g.Window.SetTitle(title)
}

func (g *GlfwWindow) SetCursorHidden(hidden bool) {
	mode := glfw.CursorNormal
	if hidden {
		mode = glfw.CursorHidden
	}
	g.Window.SetInputMode(glfw.CursorMode, mode)
}

func (g *GlfwWindow) SetCursorPos(x, y float64) {
	g.Window.SetCursorPos(x, y)
}
