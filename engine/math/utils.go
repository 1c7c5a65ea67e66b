package math

import "golang.org/x/exp/constraints"

// Clamp bounds f to [low, high]. Used for color channels and swapchain extents.
func Clamp[T constraints.Ordered](f, low, high T) T {
	switch {
	case f < low:
		return low
	case f > high:
		return high
	default:
		return f
	}
}
