package core

// System event codes.
type SystemEventCode int

const (
	EVENT_CODE_REDRAW_REQUESTED SystemEventCode = iota + 1
	EVENT_CODE_MAIN_EVENTS_CLEARED
	EVENT_CODE_RESIZED
	EVENT_CODE_SCALE_FACTOR_CHANGED
	EVENT_CODE_MOUSE_WHEEL
	EVENT_CODE_KEYBOARD_INPUT
	EVENT_CODE_CLOSE_REQUESTED
)

func (c SystemEventCode) String() string {
	switch c {
	case EVENT_CODE_REDRAW_REQUESTED:
		return "RedrawRequested"
	case EVENT_CODE_MAIN_EVENTS_CLEARED:
		return "MainEventsCleared"
	case EVENT_CODE_RESIZED:
		return "Resized"
	case EVENT_CODE_SCALE_FACTOR_CHANGED:
		return "ScaleFactorChanged"
	case EVENT_CODE_MOUSE_WHEEL:
		return "MouseWheel"
	case EVENT_CODE_KEYBOARD_INPUT:
		return "KeyboardInput"
	case EVENT_CODE_CLOSE_REQUESTED:
		return "CloseRequested"
	default:
		return "Unknown"
	}
}

// Event is anything the platform hands to the render loop.
type Event interface {
	Code() SystemEventCode
}

// WindowEvent is an Event addressed to a specific window.
type WindowEvent interface {
	Event
	Window() WindowID
}

type RedrawRequested struct {
	WindowID WindowID
}

// MainEventsCleared is emitted once all pending window events of a poll were delivered.
type MainEventsCleared struct{}

type Resized struct {
	WindowID WindowID
	Width    uint32
	Height   uint32
}

// ScaleFactorChanged carries the new inner size in physical pixels.
type ScaleFactorChanged struct {
	WindowID    WindowID
	ScaleFactor float64
	Width       uint32
	Height      uint32
}

type MouseWheel struct {
	WindowID WindowID
	Delta    ScrollDelta
}

type KeyboardInput struct {
	WindowID WindowID
	State    ElementState
	Key      KeyCode
}

type CloseRequested struct {
	WindowID WindowID
}

func (RedrawRequested) Code() SystemEventCode    { return EVENT_CODE_REDRAW_REQUESTED }
func (MainEventsCleared) Code() SystemEventCode  { return EVENT_CODE_MAIN_EVENTS_CLEARED }
func (Resized) Code() SystemEventCode            { return EVENT_CODE_RESIZED }
func (ScaleFactorChanged) Code() SystemEventCode { return EVENT_CODE_SCALE_FACTOR_CHANGED }
func (MouseWheel) Code() SystemEventCode         { return EVENT_CODE_MOUSE_WHEEL }
func (KeyboardInput) Code() SystemEventCode      { return EVENT_CODE_KEYBOARD_INPUT }
func (CloseRequested) Code() SystemEventCode     { return EVENT_CODE_CLOSE_REQUESTED }

func (e RedrawRequested) Window() WindowID    { return e.WindowID }
func (e Resized) Window() WindowID            { return e.WindowID }
func (e ScaleFactorChanged) Window() WindowID { return e.WindowID }
func (e MouseWheel) Window() WindowID         { return e.WindowID }
func (e KeyboardInput) Window() WindowID      { return e.WindowID }
func (e CloseRequested) Window() WindowID     { return e.WindowID }

// ScrollDelta is the amount a wheel or touchpad scrolled.
type ScrollDelta interface {
	// Vertical is positive when scrolling up.
	Vertical() float64
}

// LineDelta counts discrete wheel notches.
type LineDelta struct {
	X, Y float32
}

// PixelDelta is a precise touchpad offset.
type PixelDelta struct {
	X, Y float64
}

func (d LineDelta) Vertical() float64  { return float64(d.Y) }
func (d PixelDelta) Vertical() float64 { return d.Y }
