package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/planogram/engine/math"
	"github.com/spaghettifunk/planogram/engine/renderer"
)

// VulkanFrame is one acquired swapchain image and the command buffer
// recording into it. It doubles as the open render pass.
type VulkanFrame struct {
	backend       *VulkanRenderer
	commandBuffer *VulkanCommandBuffer
	imageIndex    uint32
	extent        vk.Extent2D
	inPass        bool
	presented     bool
}

// CommandBuffer returns the buffer draw commands are recorded into.
func (f *VulkanFrame) CommandBuffer() *VulkanCommandBuffer {
	return f.commandBuffer
}

func (f *VulkanFrame) Extent() (uint32, uint32) {
	return f.extent.Width, f.extent.Height
}

func (f *VulkanFrame) BeginPass(clear math.Color) (renderer.RenderPass, error) {
	if f.inPass || f.presented {
		return nil, fmt.Errorf("frame %d already has an open or finished pass", f.imageIndex)
	}
	context := f.backend.context

	// Dynamic state
	viewport := vk.Viewport{
		X:        0.0,
		Y:        0.0,
		Width:    float32(f.extent.Width),
		Height:   float32(f.extent.Height),
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}
	// Scissor
	scissor := vk.Rect2D{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: f.extent,
	}
	vk.CmdSetViewport(f.commandBuffer.Handle, 0, 1, []vk.Viewport{viewport})
	vk.CmdSetScissor(f.commandBuffer.Handle, 0, 1, []vk.Rect2D{scissor})

	// Begin the render pass.
	framebuffer := context.Swapchain.Framebuffers[f.imageIndex]
	context.MainRenderpass.Begin(f.commandBuffer, framebuffer, f.extent, clear)
	f.inPass = true
	return f, nil
}

// Present ends the pass if one is open, then submits and presents the frame.
func (f *VulkanFrame) Present() error {
	if f.presented {
		return fmt.Errorf("frame %d already presented", f.imageIndex)
	}
	if f.inPass {
		f.backend.context.MainRenderpass.End(f.commandBuffer)
		f.inPass = false
	}
	f.presented = true
	return f.backend.submit(f)
}
