package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/planogram/engine/core"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

type Platform struct {
	Window *glfw.Window

	id        core.WindowID
	events    *eventQueue
	minimized bool
}

func New() *Platform {
	id := core.NewWindowID()
	return &Platform{
		Window: nil,
		id:     id,
		events: newEventQueue(id, eventQueueCapacity),
	}
}

func (p *Platform) Startup(applicationName string, x uint32, y uint32, width uint32, height uint32) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return fmt.Errorf("%w: glfw reports no Vulkan loader", core.ErrVulkanInit)
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // Required for Vulkan.

	window, err := glfw.CreateWindow(int(width), int(height), applicationName, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create window: %w", err)
	}
	p.Window = window

	p.Window.SetKeyCallback(p.keyCallback)
	p.Window.SetScrollCallback(p.scrollCallback)
	p.Window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	p.Window.SetContentScaleCallback(p.contentScaleCallback)
	p.Window.SetCloseCallback(p.closeCallback)
	p.Window.SetIconifyCallback(p.iconifyCallback)
	p.Window.SetRefreshCallback(p.refreshCallback)
	p.Window.SetPos(int(x), int(y))
	p.Window.Show()

	core.LogInfo("Window %s created: %q %dx%d.", p.id, applicationName, width, height)
	return nil
}

func (p *Platform) Shutdown() {
	if p.Window != nil {
		p.Window.Destroy()
		p.Window = nil
	}
	glfw.Terminate()
}

// ID identifies the window in the events it produces.
func (p *Platform) ID() core.WindowID {
	return p.id
}

// RequestRedraw queues a RedrawRequested after the current batch of events.
// It is ignored while the window is minimized.
func (p *Platform) RequestRedraw() {
	if p.minimized {
		return
	}
	p.events.requestRedraw()
}

// NextEvent returns the next window event, polling the window system when
// the current batch is exhausted. It blocks while the window is minimized
// and nothing is pending.
func (p *Platform) NextEvent() (core.Event, bool) {
	if p.Window == nil {
		return nil, false
	}
	for {
		if ev, ok := p.events.next(); ok {
			return ev, true
		}
		p.events.beginPoll()
		if p.minimized {
			glfw.WaitEvents()
		} else {
			glfw.PollEvents()
		}
	}
}

// AttachToDisplay creates the Vulkan surface backing the window.
func (p *Platform) AttachToDisplay(instance vk.Instance) (vk.Surface, error) {
	surface, err := p.Window.CreateWindowSurface(instance, nil)
	if err != nil {
		return vk.NullSurface, fmt.Errorf("vulkan surface creation failed: %w", err)
	}
	return vk.SurfaceFromPointer(surface), nil
}

// InitialSize returns the framebuffer size in pixels.
func (p *Platform) InitialSize() (uint32, uint32) {
	width, height := p.Window.GetFramebufferSize()
	return clampSize(width), clampSize(height)
}

func (p *Platform) RequiredInstanceExtensions() []string {
	return p.Window.GetRequiredInstanceExtensions()
}

func (p *Platform) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	state, ok := translateAction(action)
	if !ok {
		return
	}
	p.events.push(core.KeyboardInput{WindowID: p.id, State: state, Key: translateKey(key)})
}

func (p *Platform) scrollCallback(w *glfw.Window, xoff, yoff float64) {
	p.events.push(core.MouseWheel{
		WindowID: p.id,
		Delta:    core.LineDelta{X: float32(xoff), Y: float32(yoff)},
	})
}

func (p *Platform) framebufferSizeCallback(w *glfw.Window, width, height int) {
	p.events.push(core.Resized{WindowID: p.id, Width: clampSize(width), Height: clampSize(height)})
}

func (p *Platform) contentScaleCallback(w *glfw.Window, x, y float32) {
	width, height := w.GetFramebufferSize()
	p.events.push(core.ScaleFactorChanged{
		WindowID:    p.id,
		ScaleFactor: float64(x),
		Width:       clampSize(width),
		Height:      clampSize(height),
	})
}

func (p *Platform) closeCallback(w *glfw.Window) {
	// The render loop decides when to close.
	w.SetShouldClose(false)
	p.events.push(core.CloseRequested{WindowID: p.id})
}

func (p *Platform) iconifyCallback(w *glfw.Window, iconified bool) {
	p.minimized = iconified
	if !iconified {
		p.events.requestRedraw()
	}
}

func (p *Platform) refreshCallback(w *glfw.Window) {
	p.RequestRedraw()
}
