package vulkan

import (
	"github.com/spaghettifunk/planogram/engine/renderer"
)

type surfaceAction uint8

const (
	// The swapchain is usable as is.
	surfaceReady surfaceAction = iota
	// Rebuild the swapchain at the target size before rendering.
	surfaceReconfigure
	// The surface is gone; the caller has to reconfigure it.
	surfaceReportLost
	// No drawable size is known yet.
	surfaceWait
)

// surfaceState decides what a frame has to do before it can render. The
// swapchain counts as configured only once every part of it was rebuilt.
type surfaceState struct {
	// size of the last Configure request, kept across failures.
	width  uint32
	height uint32

	configured bool
	recreate   bool
	lost       bool
}

func (s *surfaceState) next() surfaceAction {
	switch {
	case s.lost:
		return surfaceReportLost
	case s.width == 0 || s.height == 0:
		return surfaceWait
	case !s.configured || s.recreate:
		return surfaceReconfigure
	default:
		return surfaceReady
	}
}

func (s *surfaceState) requested(width, height uint32) {
	s.width, s.height = width, height
}

// failed drops the current configuration so the next frame rebuilds it or
// reports why it cannot.
func (s *surfaceState) failed(err error) {
	s.configured = false
	s.recreate = true
	s.note(err)
}

func (s *surfaceState) succeeded() {
	s.configured = true
	s.recreate = false
	s.lost = false
}

// note records what err means for the next frame.
func (s *surfaceState) note(err error) {
	switch se, _ := renderer.AsSurfaceError(err); se {
	case renderer.SurfaceErrorLost:
		s.lost = true
	case renderer.SurfaceErrorOutdated:
		s.recreate = true
	}
}
