package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/planogram/engine/core"
	"github.com/spaghettifunk/planogram/engine/renderer"
	"github.com/spaghettifunk/planogram/engine/renderer/metadata"
)

// ShaderCode holds the SPIR-V words of the vertex and fragment stages.
type ShaderCode struct {
	Vertex   []uint32
	Fragment []uint32
}

// commandRecorder is implemented by passes that record into a Vulkan
// command buffer.
type commandRecorder interface {
	CommandBuffer() *VulkanCommandBuffer
}

/**
 * @brief The GPU side of one polygon: its pipeline, immutable vertex and
 * index buffers and, for textured polygons, the texture with its
 * descriptor set.
 */
type PolygonResources struct {
	context *VulkanContext

	vertexStage   *VulkanShaderStage
	fragmentStage *VulkanShaderStage
	pipeline      *VulkanPipeline

	vertexBuffer *VulkanBuffer
	indexBuffer  *VulkanBuffer
	indexCount   uint32

	texture          *VulkanTexture
	descriptorLayout vk.DescriptorSetLayout
	descriptorSet    *VulkanDescriptorSet
}

// NewPolygonResources builds the pipeline for polygon's vertex kind and
// uploads its geometry once. image is required, and only used, for textured
// polygons.
func NewPolygonResources(context *VulkanContext, polygon *metadata.Polygon, shaders ShaderCode, image *metadata.ImageData) (*PolygonResources, error) {
	if context.MainRenderpass == nil {
		return nil, fmt.Errorf("renderer has no renderpass to build a pipeline against")
	}
	if polygon.IndexCount() == 0 {
		return nil, fmt.Errorf("polygon has no indices")
	}
	r := &PolygonResources{
		context:    context,
		indexCount: polygon.IndexCount(),
	}
	if err := r.build(polygon, shaders, image); err != nil {
		r.Destroy()
		return nil, err
	}
	core.LogInfo("Uploaded %d-sided %s polygon: %d vertices, %d indices.", polygon.Sides, polygon.Kind, polygon.VertexCount(), r.indexCount)
	return r, nil
}

func (r *PolygonResources) build(polygon *metadata.Polygon, shaders ShaderCode, image *metadata.ImageData) error {
	var err error

	var setLayouts []vk.DescriptorSetLayout
	if polygon.Kind == metadata.VertexKindTextured {
		if image == nil {
			return fmt.Errorf("textured polygon needs an image")
		}
		if r.texture, err = TextureCreate(r.context, image); err != nil {
			return err
		}
		if r.descriptorLayout, err = TextureDescriptorLayoutCreate(r.context); err != nil {
			return err
		}
		if r.descriptorSet, err = TextureDescriptorSetCreate(r.context, r.descriptorLayout, r.texture); err != nil {
			return err
		}
		setLayouts = []vk.DescriptorSetLayout{r.descriptorLayout}
	}

	if r.vertexStage, err = NewShaderStage(r.context, shaders.Vertex, vk.ShaderStageVertexBit); err != nil {
		return err
	}
	if r.fragmentStage, err = NewShaderStage(r.context, shaders.Fragment, vk.ShaderStageFragmentBit); err != nil {
		return err
	}

	r.pipeline, err = NewGraphicsPipeline(r.context, &VulkanPipelineConfig{
		Renderpass:           r.context.MainRenderpass,
		Layout:               polygon.Layout(),
		DescriptorSetLayouts: setLayouts,
		Stages: []vk.PipelineShaderStageCreateInfo{
			r.vertexStage.ShaderStageCreateInfo,
			r.fragmentStage.ShaderStageCreateInfo,
		},
	})
	if err != nil {
		return err
	}

	if r.vertexBuffer, err = DeviceLocalBufferCreate(r.context, vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit), polygon.VertexBytes()); err != nil {
		return err
	}
	if r.indexBuffer, err = DeviceLocalBufferCreate(r.context, vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit), polygon.IndexBytes()); err != nil {
		return err
	}
	return nil
}

// RecordDraw binds the pipeline, buffers and texture, then draws every index
// once.
func (r *PolygonResources) RecordDraw(pass renderer.RenderPass) error {
	recorder, ok := pass.(commandRecorder)
	if !ok {
		return fmt.Errorf("render pass %T does not record Vulkan commands", pass)
	}
	commandBuffer := recorder.CommandBuffer()

	r.pipeline.Bind(commandBuffer, vk.PipelineBindPointGraphics)
	vk.CmdBindVertexBuffers(commandBuffer.Handle, 0, 1, []vk.Buffer{r.vertexBuffer.Handle}, []vk.DeviceSize{0})
	vk.CmdBindIndexBuffer(commandBuffer.Handle, r.indexBuffer.Handle, 0, vk.IndexTypeUint16)
	if r.descriptorSet != nil {
		vk.CmdBindDescriptorSets(
			commandBuffer.Handle,
			vk.PipelineBindPointGraphics,
			r.pipeline.PipelineLayout,
			0, 1, []vk.DescriptorSet{r.descriptorSet.Set},
			0, nil)
	}
	vk.CmdDrawIndexed(commandBuffer.Handle, r.indexCount, 1, 0, 0, 0)
	return nil
}

// Destroy waits for the device to go idle and releases everything built.
func (r *PolygonResources) Destroy() {
	if r.context.Device.LogicalDevice != nil {
		vk.DeviceWaitIdle(r.context.Device.LogicalDevice)
	}
	if r.indexBuffer != nil {
		r.indexBuffer.Destroy(r.context)
		r.indexBuffer = nil
	}
	if r.vertexBuffer != nil {
		r.vertexBuffer.Destroy(r.context)
		r.vertexBuffer = nil
	}
	if r.pipeline != nil {
		r.pipeline.Destroy(r.context)
		r.pipeline = nil
	}
	if r.fragmentStage != nil {
		r.fragmentStage.Destroy(r.context)
		r.fragmentStage = nil
	}
	if r.vertexStage != nil {
		r.vertexStage.Destroy(r.context)
		r.vertexStage = nil
	}
	if r.descriptorSet != nil {
		r.descriptorSet.Destroy(r.context)
		r.descriptorSet = nil
	}
	if r.descriptorLayout != vk.NullDescriptorSetLayout {
		vk.DestroyDescriptorSetLayout(r.context.Device.LogicalDevice, r.descriptorLayout, r.context.Allocator)
		r.descriptorLayout = vk.NullDescriptorSetLayout
	}
	if r.texture != nil {
		r.texture.Destroy(r.context)
		r.texture = nil
	}
}
