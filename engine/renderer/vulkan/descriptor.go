package vulkan

import (
	vk "github.com/goki/vulkan"
)

// textureBinding is the binding slot the fragment shader samples from.
const textureBinding = 0

/**
 * @brief A single descriptor set exposing one combined image sampler to
 * the fragment stage, plus the layout and pool it came from.
 */
type VulkanDescriptorSet struct {
	Layout vk.DescriptorSetLayout
	Pool   vk.DescriptorPool
	Set    vk.DescriptorSet
}

// TextureDescriptorLayoutCreate creates the set layout used by textured
// pipelines.
func TextureDescriptorLayoutCreate(context *VulkanContext) (vk.DescriptorSetLayout, error) {
	samplerBinding := vk.DescriptorSetLayoutBinding{
		Binding:            textureBinding,
		DescriptorCount:    1,
		DescriptorType:     vk.DescriptorTypeCombinedImageSampler,
		PImmutableSamplers: nil,
		StageFlags:         vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
	}
	layoutInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: 1,
		PBindings:    []vk.DescriptorSetLayoutBinding{samplerBinding},
	}

	var layout vk.DescriptorSetLayout
	if res := vk.CreateDescriptorSetLayout(context.Device.LogicalDevice, &layoutInfo, context.Allocator, &layout); res != vk.Success {
		return vk.NullDescriptorSetLayout, resultError("vkCreateDescriptorSetLayout", res)
	}
	return layout, nil
}

// TextureDescriptorSetCreate allocates a set for layout from a dedicated pool
// and points it at texture.
func TextureDescriptorSetCreate(context *VulkanContext, layout vk.DescriptorSetLayout, texture *VulkanTexture) (*VulkanDescriptorSet, error) {
	out := &VulkanDescriptorSet{Layout: layout}

	poolInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		PoolSizeCount: 1,
		PPoolSizes: []vk.DescriptorPoolSize{{
			Type:            vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: 1,
		}},
		MaxSets: 1,
	}
	var pool vk.DescriptorPool
	if res := vk.CreateDescriptorPool(context.Device.LogicalDevice, &poolInfo, context.Allocator, &pool); res != vk.Success {
		return nil, resultError("vkCreateDescriptorPool", res)
	}
	out.Pool = pool

	allocateInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     out.Pool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{layout},
	}
	var set vk.DescriptorSet
	if res := vk.AllocateDescriptorSets(context.Device.LogicalDevice, &allocateInfo, &set); res != vk.Success {
		out.Destroy(context)
		return nil, resultError("vkAllocateDescriptorSets", res)
	}
	out.Set = set

	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          out.Set,
		DstBinding:      textureBinding,
		DstArrayElement: 0,
		DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
		DescriptorCount: 1,
		PImageInfo: []vk.DescriptorImageInfo{{
			ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
			ImageView:   texture.Image.View,
			Sampler:     texture.Sampler,
		}},
	}
	vk.UpdateDescriptorSets(context.Device.LogicalDevice, 1, []vk.WriteDescriptorSet{write}, 0, nil)
	return out, nil
}

// Destroy releases the pool, which frees the set with it. The layout is
// owned by the caller.
func (ds *VulkanDescriptorSet) Destroy(context *VulkanContext) {
	if ds.Pool != vk.NullDescriptorPool {
		vk.DestroyDescriptorPool(context.Device.LogicalDevice, ds.Pool, context.Allocator)
		ds.Pool = vk.NullDescriptorPool
	}
	ds.Set = vk.NullDescriptorSet
}
