package renderer

import "errors"

// SurfaceError classifies why a frame could not be acquired.
type SurfaceError uint8

const (
	// SurfaceErrorLost means the surface must be reconfigured before use.
	SurfaceErrorLost SurfaceError = iota + 1
	// SurfaceErrorOutOfMemory is unrecoverable.
	SurfaceErrorOutOfMemory
	// SurfaceErrorOutdated no longer matches the window; the next frame retries.
	SurfaceErrorOutdated
	// SurfaceErrorTimeout means no image became available in time.
	SurfaceErrorTimeout
)

func (e SurfaceError) Error() string {
	switch e {
	case SurfaceErrorLost:
		return "surface lost"
	case SurfaceErrorOutOfMemory:
		return "surface out of memory"
	case SurfaceErrorOutdated:
		return "surface outdated"
	case SurfaceErrorTimeout:
		return "surface timeout"
	default:
		return "surface error"
	}
}

// AsSurfaceError extracts a SurfaceError from err's chain.
func AsSurfaceError(err error) (SurfaceError, bool) {
	var se SurfaceError
	if errors.As(err, &se) {
		return se, true
	}
	return 0, false
}
