package platform

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/planogram/engine/core"
)

var keyMap = map[glfw.Key]core.KeyCode{
	glfw.KeyBackspace: core.KEY_BACKSPACE,
	glfw.KeyTab:       core.KEY_TAB,
	glfw.KeyEnter:     core.KEY_ENTER,
	glfw.KeyEscape:    core.KEY_ESCAPE,
	glfw.KeySpace:     core.KEY_SPACE,
	glfw.KeyLeft:      core.KEY_LEFT,
	glfw.KeyUp:        core.KEY_UP,
	glfw.KeyRight:     core.KEY_RIGHT,
	glfw.KeyDown:      core.KEY_DOWN,
	glfw.KeyA:         core.KEY_A,
	glfw.KeyQ:         core.KEY_Q,
	glfw.KeyZ:         core.KEY_Z,
}

func translateKey(key glfw.Key) core.KeyCode {
	if code, ok := keyMap[key]; ok {
		return code
	}
	return core.KEY_UNKNOWN
}

// translateAction maps a key action to an element state. Repeats are not
// reported.
func translateAction(action glfw.Action) (core.ElementState, bool) {
	switch action {
	case glfw.Press:
		return core.Pressed, true
	case glfw.Release:
		return core.Released, true
	default:
		return 0, false
	}
}

// clampSize turns a signed window dimension into pixels, treating negatives as zero.
func clampSize(v int) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}
