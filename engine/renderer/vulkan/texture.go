package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/planogram/engine/renderer/metadata"
)

// textureFormat matches the tightly packed RGBA8 pixels of metadata.ImageData.
const textureFormat = vk.FormatR8g8b8a8Srgb

// VulkanTexture is a sampled 2D image living in device local memory.
type VulkanTexture struct {
	Image   *VulkanImage
	Sampler vk.Sampler
}

// TextureCreate uploads img to the GPU and leaves it ready for fragment
// shader reads.
func TextureCreate(context *VulkanContext, img *metadata.ImageData) (*VulkanTexture, error) {
	if !img.Valid() {
		return nil, fmt.Errorf("texture image is empty or its pixel buffer does not match %dx%d", img.Width, img.Height)
	}

	staging, err := stagingBufferCreate(context, img.Pixels)
	if err != nil {
		return nil, err
	}
	defer staging.Destroy(context)

	image, err := ImageCreate(
		context,
		img.Width,
		img.Height,
		textureFormat,
		vk.ImageTilingOptimal,
		vk.ImageUsageFlags(vk.ImageUsageTransferDstBit|vk.ImageUsageSampledBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		true,
		vk.ImageAspectFlags(vk.ImageAspectColorBit))
	if err != nil {
		return nil, err
	}
	texture := &VulkanTexture{Image: image}

	pool := context.Device.GraphicsCommandPool
	cb, err := AllocateAndBeginSingleUse(context, pool)
	if err != nil {
		texture.Destroy(context)
		return nil, err
	}
	if err := image.TransitionLayout(cb, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal); err != nil {
		cb.Free(context, pool)
		texture.Destroy(context)
		return nil, err
	}
	image.CopyFromBuffer(cb, staging)
	if err := image.TransitionLayout(cb, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal); err != nil {
		cb.Free(context, pool)
		texture.Destroy(context)
		return nil, err
	}
	if err := cb.EndSingleUse(context, pool, context.Device.GraphicsQueue); err != nil {
		texture.Destroy(context)
		return nil, err
	}

	sampler, err := samplerCreate(context)
	if err != nil {
		texture.Destroy(context)
		return nil, err
	}
	texture.Sampler = sampler
	return texture, nil
}

func samplerCreate(context *VulkanContext) (vk.Sampler, error) {
	samplerInfo := vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               vk.FilterLinear,
		MinFilter:               vk.FilterLinear,
		AddressModeU:            vk.SamplerAddressModeRepeat,
		AddressModeV:            vk.SamplerAddressModeRepeat,
		AddressModeW:            vk.SamplerAddressModeRepeat,
		AnisotropyEnable:        vk.False,
		MaxAnisotropy:           1.0,
		BorderColor:             vk.BorderColorIntOpaqueBlack,
		UnnormalizedCoordinates: vk.False,
		CompareEnable:           vk.False,
		CompareOp:               vk.CompareOpAlways,
		MipmapMode:              vk.SamplerMipmapModeLinear,
	}
	if context.Device.Features.SamplerAnisotropy.B() {
		samplerInfo.AnisotropyEnable = vk.True
		samplerInfo.MaxAnisotropy = 16.0
	}

	var sampler vk.Sampler
	if res := vk.CreateSampler(context.Device.LogicalDevice, &samplerInfo, context.Allocator, &sampler); res != vk.Success {
		return vk.NullSampler, resultError("vkCreateSampler", res)
	}
	return sampler, nil
}

func (vt *VulkanTexture) Destroy(context *VulkanContext) {
	if vt.Sampler != vk.NullSampler {
		vk.DestroySampler(context.Device.LogicalDevice, vt.Sampler, context.Allocator)
		vt.Sampler = vk.NullSampler
	}
	if vt.Image != nil {
		vt.Image.Destroy(context)
		vt.Image = nil
	}
}
