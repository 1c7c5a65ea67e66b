package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/planogram/engine/renderer"
)

func TestSurfaceError(t *testing.T) {
	tests := []struct {
		result vk.Result
		want   renderer.SurfaceError
	}{
		{vk.ErrorSurfaceLost, renderer.SurfaceErrorLost},
		{vk.ErrorOutOfHostMemory, renderer.SurfaceErrorOutOfMemory},
		{vk.ErrorOutOfDeviceMemory, renderer.SurfaceErrorOutOfMemory},
		{vk.ErrorOutOfDate, renderer.SurfaceErrorOutdated},
		{vk.Suboptimal, renderer.SurfaceErrorOutdated},
		{vk.Timeout, renderer.SurfaceErrorTimeout},
		{vk.NotReady, renderer.SurfaceErrorTimeout},
	}
	for _, tt := range tests {
		err := surfaceError("acquire", tt.result)
		se, ok := renderer.AsSurfaceError(err)
		if !ok || se != tt.want {
			t.Errorf("%s: got %v (%v), want %v", VulkanResultString(tt.result), se, err, tt.want)
		}
	}

	if err := surfaceError("acquire", vk.Success); err != nil {
		t.Errorf("VK_SUCCESS mapped to %v", err)
	}
	err := surfaceError("present", vk.ErrorDeviceLost)
	if err == nil {
		t.Fatalf("VK_ERROR_DEVICE_LOST mapped to nil")
	}
	if _, ok := renderer.AsSurfaceError(err); ok {
		t.Errorf("VK_ERROR_DEVICE_LOST classified as a surface error: %v", err)
	}
}

func TestVulkanSafeString(t *testing.T) {
	tests := map[string]string{
		"":                     "\x00",
		"VK_KHR_surface":       "VK_KHR_surface\x00",
		"VK_KHR_swapchain\x00": "VK_KHR_swapchain\x00",
	}
	for in, want := range tests {
		if got := VulkanSafeString(in); got != want {
			t.Errorf("VulkanSafeString(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCString(t *testing.T) {
	buf := make([]byte, 16)
	copy(buf, "llvmpipe")
	if got := cString(buf); got != "llvmpipe" {
		t.Errorf("cString = %q, want %q", got, "llvmpipe")
	}
	if got := cString([]byte("full")); got != "full" {
		t.Errorf("cString = %q, want %q", got, "full")
	}
}
