package renderer

import "github.com/spaghettifunk/planogram/engine/math"

// Surface is a presentable render target bound to a window.
type Surface interface {
	// Configure (re)builds the presentation chain for a width x height pixel
	// target. Calling it again with the same size rebuilds it again.
	Configure(width, height uint32) error
	// AcquireFrame returns the next frame to render into, or a SurfaceError.
	AcquireFrame() (Frame, error)
	// Size reports the last configured size.
	Size() (uint32, uint32)
}

// Frame is one acquired presentation image.
type Frame interface {
	// BeginPass opens the frame's render pass, clearing the target to clear.
	BeginPass(clear math.Color) (RenderPass, error)
	// Present closes the pass, submits the recorded work and queues the image
	// for presentation.
	Present() error
}

// RenderPass is an open pass that draw commands are recorded into.
type RenderPass interface {
	Extent() (uint32, uint32)
}

// DrawRecorder records the draw commands for uploaded geometry.
type DrawRecorder interface {
	RecordDraw(pass RenderPass) error
}
