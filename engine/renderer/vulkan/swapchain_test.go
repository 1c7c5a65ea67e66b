package vulkan

import (
	gomath "math"
	"runtime"
	"testing"

	vk "github.com/goki/vulkan"
)

func TestChooseSurfaceFormat(t *testing.T) {
	preferred := vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear}
	other := vk.SurfaceFormat{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear}

	if got := chooseSurfaceFormat([]vk.SurfaceFormat{other, preferred}); got.Format != preferred.Format {
		t.Errorf("chooseSurfaceFormat = %d, want %d", got.Format, preferred.Format)
	}
	if got := chooseSurfaceFormat([]vk.SurfaceFormat{other}); got.Format != other.Format {
		t.Errorf("chooseSurfaceFormat fallback = %d, want %d", got.Format, other.Format)
	}
}

func TestChoosePresentMode(t *testing.T) {
	tests := []struct {
		modes []vk.PresentMode
		want  vk.PresentMode
	}{
		{[]vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox}, vk.PresentModeMailbox},
		{[]vk.PresentMode{vk.PresentModeImmediate, vk.PresentModeFifo}, vk.PresentModeFifo},
		{nil, vk.PresentModeFifo},
	}
	for _, tt := range tests {
		if got := choosePresentMode(tt.modes); got != tt.want {
			t.Errorf("choosePresentMode(%v) = %d, want %d", tt.modes, got, tt.want)
		}
	}
}

func TestChooseExtent(t *testing.T) {
	caps := vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: 1024, Height: 768},
		MinImageExtent: vk.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: vk.Extent2D{Width: 4096, Height: 4096},
	}
	if got := chooseExtent(&caps, 640, 480); got.Width != 1024 || got.Height != 768 {
		t.Errorf("chooseExtent with a fixed current extent = %dx%d, want 1024x768", got.Width, got.Height)
	}

	caps.CurrentExtent = vk.Extent2D{Width: gomath.MaxUint32, Height: gomath.MaxUint32}
	tests := []struct {
		width, height uint32
		wantW, wantH  uint32
	}{
		{640, 480, 640, 480},
		{8000, 480, 4096, 480},
		{640, 0, 640, 1},
	}
	for _, tt := range tests {
		got := chooseExtent(&caps, tt.width, tt.height)
		if got.Width != tt.wantW || got.Height != tt.wantH {
			t.Errorf("chooseExtent(%d, %d) = %dx%d, want %dx%d", tt.width, tt.height, got.Width, got.Height, tt.wantW, tt.wantH)
		}
	}
}

func TestChooseImageCount(t *testing.T) {
	tests := []struct {
		min, max uint32
		want     uint32
	}{
		{2, 0, 3},
		{2, 8, 3},
		{3, 3, 3},
	}
	for _, tt := range tests {
		caps := vk.SurfaceCapabilities{MinImageCount: tt.min, MaxImageCount: tt.max}
		if got := chooseImageCount(&caps); got != tt.want {
			t.Errorf("chooseImageCount(min=%d, max=%d) = %d, want %d", tt.min, tt.max, got, tt.want)
		}
	}
}

func TestInstanceExtensions(t *testing.T) {
	window := []string{"VK_KHR_surface", "VK_KHR_xcb_surface"}

	got := instanceExtensions(window, false)
	if len(got) < len(window) || got[0] != window[0] || got[1] != window[1] {
		t.Fatalf("instanceExtensions dropped the window extensions: %v", got)
	}
	if contains(got, vk.ExtDebugReportExtensionName) {
		t.Errorf("debug report extension requested without debug: %v", got)
	}
	if runtime.GOOS == "darwin" && !contains(got, "VK_KHR_portability_enumeration") {
		t.Errorf("portability enumeration missing on darwin: %v", got)
	}

	got = instanceExtensions(window, true)
	if !contains(got, vk.ExtDebugReportExtensionName) {
		t.Errorf("debug report extension missing: %v", got)
	}

	// The caller's slice is left untouched.
	if len(window) != 2 {
		t.Errorf("window extensions modified: %v", window)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
