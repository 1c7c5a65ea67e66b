package engine

import (
	"github.com/spaghettifunk/planogram/engine/core"
	"github.com/spaghettifunk/planogram/engine/math"
	"github.com/spaghettifunk/planogram/engine/renderer"
)

type LoopState uint8

const (
	// Events are processed and frames rendered.
	StateRunning LoopState = iota
	// The surface is being reconfigured; returns to StateRunning afterwards.
	StateResizing
	// Terminal. The host loop stops pulling events.
	StateExiting
)

func (s LoopState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateResizing:
		return "resizing"
	case StateExiting:
		return "exiting"
	default:
		return "unknown"
	}
}

// ScrollStep is how much one scroll event moves each background channel.
const ScrollStep = 0.025

var DefaultBackgroundColor = math.NewColor(0.1, 0.2, 0.3, 1.0)

// Window is the part of the platform window the controller talks to.
type Window interface {
	ID() core.WindowID
	RequestRedraw()
}

// Controller is the render loop state machine. It owns the interaction state
// (background color, last known size) and reacts to one event at a time.
type Controller struct {
	window   Window
	surface  renderer.Surface
	drawer   renderer.DrawRecorder
	update   Update
	onResize OnResize

	state      LoopState
	background math.Color
	width      uint32
	height     uint32

	clock    *core.Clock
	lastTime float64
	metrics  *core.Metrics
}

// NewController wires a controller to its window, surface and draw recorder.
// The initial size is taken from the surface. update and onResize may be nil.
func NewController(window Window, surface renderer.Surface, drawer renderer.DrawRecorder, update Update, onResize OnResize) *Controller {
	w, h := surface.Size()
	c := &Controller{
		window:     window,
		surface:    surface,
		drawer:     drawer,
		update:     update,
		onResize:   onResize,
		state:      StateRunning,
		background: DefaultBackgroundColor,
		width:      w,
		height:     h,
		clock:      core.NewClock(),
		metrics:    core.NewMetrics(),
	}
	c.clock.Start()
	return c
}

func (c *Controller) State() LoopState {
	return c.state
}

func (c *Controller) BackgroundColor() math.Color {
	return c.background
}

// Size returns the last accepted window size in pixels.
func (c *Controller) Size() (uint32, uint32) {
	return c.width, c.height
}

// HandleEvent advances the state machine by one event and returns the new state.
func (c *Controller) HandleEvent(ev core.Event) LoopState {
	if c.state == StateExiting || ev == nil {
		return c.state
	}
	if we, ok := ev.(core.WindowEvent); ok && we.Window() != c.window.ID() {
		return c.state
	}

	switch e := ev.(type) {
	case core.RedrawRequested:
		c.redraw()
	case core.MainEventsCleared:
		c.window.RequestRedraw()
	case core.Resized:
		c.resize(e.Width, e.Height)
	case core.ScaleFactorChanged:
		core.LogDebug("scale factor changed to %.2f", e.ScaleFactor)
		c.resize(e.Width, e.Height)
	case core.MouseWheel:
		c.scroll(e.Delta)
	case core.KeyboardInput:
		if e.State == core.Pressed && e.Key == core.KEY_ESCAPE {
			core.LogInfo("escape pressed, shutting down.")
			c.state = StateExiting
		}
	case core.CloseRequested:
		core.LogInfo("close requested, shutting down.")
		c.state = StateExiting
	}
	return c.state
}

func (c *Controller) redraw() {
	c.clock.Update()
	now := c.clock.Elapsed()
	delta := now - c.lastTime
	c.lastTime = now

	if c.update != nil {
		if err := c.update(delta); err != nil {
			core.LogError("update failed, shutting down: %s", err)
			c.state = StateExiting
			return
		}
	}

	err := c.render()
	if err == nil {
		if c.metrics.Update(delta) {
			fps, frameTime := c.metrics.Frame()
			core.LogDebug("%.0f fps, %.2f ms/frame", fps, frameTime)
		}
		return
	}

	se, ok := renderer.AsSurfaceError(err)
	if !ok {
		core.LogError("render failed, shutting down: %s", err)
		c.state = StateExiting
		return
	}
	switch se {
	case renderer.SurfaceErrorLost:
		core.LogWarn("%s, reconfiguring at %dx%d", se, c.width, c.height)
		c.state = StateResizing
		c.reconfigure()
	case renderer.SurfaceErrorOutOfMemory:
		core.LogError("%s, shutting down", se)
		c.state = StateExiting
	default:
		// Outdated and Timeout clear up on the next redraw.
		core.LogWarn("%s", se)
	}
}

func (c *Controller) render() error {
	frame, err := c.surface.AcquireFrame()
	if err != nil {
		return err
	}
	pass, err := frame.BeginPass(c.background)
	if err != nil {
		return err
	}
	if err := c.drawer.RecordDraw(pass); err != nil {
		return err
	}
	return frame.Present()
}

func (c *Controller) resize(width, height uint32) {
	if width == 0 || height == 0 {
		core.LogDebug("ignoring zero-area resize %dx%d", width, height)
		return
	}
	c.width = width
	c.height = height
	c.state = StateResizing
	c.reconfigure()

	if c.onResize != nil {
		if err := c.onResize(width, height); err != nil {
			core.LogError("resize hook failed: %s", err)
		}
	}
}

// reconfigure rebuilds the surface at the stored size. A failure is logged
// and left for the next frame to surface again.
func (c *Controller) reconfigure() {
	core.LogDebug("reconfiguring surface: %dx%d", c.width, c.height)
	if err := c.surface.Configure(c.width, c.height); err != nil {
		core.LogError("surface reconfiguration failed: %s", err)
	}
	if c.state == StateResizing {
		c.state = StateRunning
	}
}

func (c *Controller) scroll(delta core.ScrollDelta) {
	if delta == nil {
		return
	}
	step := ScrollStep
	if delta.Vertical() <= 0 {
		step = -ScrollStep
	}
	c.background = c.background.Shift(step)
	c.window.RequestRedraw()
}
