package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
)

type VulkanBuffer struct {
	Handle              vk.Buffer
	Memory              vk.DeviceMemory
	Size                vk.DeviceSize
	Usage               vk.BufferUsageFlags
	MemoryIndex         int32
	MemoryPropertyFlags vk.MemoryPropertyFlags
}

func BufferCreate(context *VulkanContext, size vk.DeviceSize, usage vk.BufferUsageFlags, memoryPropertyFlags vk.MemoryPropertyFlags) (*VulkanBuffer, error) {
	outBuffer := &VulkanBuffer{
		Size:                size,
		Usage:               usage,
		MemoryPropertyFlags: memoryPropertyFlags,
	}

	bufferCreateInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive, // NOTE: Only used in one queue.
	}
	var handle vk.Buffer
	if res := vk.CreateBuffer(context.Device.LogicalDevice, &bufferCreateInfo, context.Allocator, &handle); res != vk.Success {
		return nil, resultError("vkCreateBuffer", res)
	}
	outBuffer.Handle = handle

	// Gather memory requirements.
	var requirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(context.Device.LogicalDevice, outBuffer.Handle, &requirements)
	requirements.Deref()

	outBuffer.MemoryIndex = context.FindMemoryIndex(requirements.MemoryTypeBits, memoryPropertyFlags)
	if outBuffer.MemoryIndex == -1 {
		outBuffer.Destroy(context)
		return nil, fmt.Errorf("unable to create vulkan buffer: required memory type index not found")
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: uint32(outBuffer.MemoryIndex),
	}
	var memory vk.DeviceMemory
	if res := vk.AllocateMemory(context.Device.LogicalDevice, &allocateInfo, context.Allocator, &memory); res != vk.Success {
		outBuffer.Destroy(context)
		return nil, surfaceError("vkAllocateMemory", res)
	}
	outBuffer.Memory = memory

	if res := vk.BindBufferMemory(context.Device.LogicalDevice, outBuffer.Handle, outBuffer.Memory, 0); res != vk.Success {
		outBuffer.Destroy(context)
		return nil, resultError("vkBindBufferMemory", res)
	}
	return outBuffer, nil
}

func (vb *VulkanBuffer) Destroy(context *VulkanContext) {
	if vb.Memory != vk.NullDeviceMemory {
		vk.FreeMemory(context.Device.LogicalDevice, vb.Memory, context.Allocator)
		vb.Memory = vk.NullDeviceMemory
	}
	if vb.Handle != vk.NullBuffer {
		vk.DestroyBuffer(context.Device.LogicalDevice, vb.Handle, context.Allocator)
		vb.Handle = vk.NullBuffer
	}
	vb.Size = 0
}

// LoadData copies data into host visible buffer memory at offset.
func (vb *VulkanBuffer) LoadData(context *VulkanContext, offset vk.DeviceSize, data []byte) error {
	size := vk.DeviceSize(len(data))
	if offset+size > vb.Size {
		return fmt.Errorf("buffer load of %d bytes at %d overflows a %d byte buffer", size, offset, vb.Size)
	}
	var mapped unsafe.Pointer
	if res := vk.MapMemory(context.Device.LogicalDevice, vb.Memory, offset, size, 0, &mapped); res != vk.Success {
		return resultError("vkMapMemory", res)
	}
	n := vk.Memcopy(mapped, data)
	vk.UnmapMemory(context.Device.LogicalDevice, vb.Memory)
	if n != len(data) {
		return fmt.Errorf("buffer load copied %d of %d bytes", n, len(data))
	}
	return nil
}

// CopyTo records and submits a one-shot copy of size bytes into dest.
func (vb *VulkanBuffer) CopyTo(context *VulkanContext, pool vk.CommandPool, queue vk.Queue, dest *VulkanBuffer, size vk.DeviceSize) error {
	cb, err := AllocateAndBeginSingleUse(context, pool)
	if err != nil {
		return err
	}
	region := []vk.BufferCopy{{SrcOffset: 0, DstOffset: 0, Size: size}}
	vk.CmdCopyBuffer(cb.Handle, vb.Handle, dest.Handle, 1, region)
	return cb.EndSingleUse(context, pool, queue)
}

// stagingBufferCreate returns a host visible transfer source holding data.
func stagingBufferCreate(context *VulkanContext, data []byte) (*VulkanBuffer, error) {
	staging, err := BufferCreate(
		context,
		vk.DeviceSize(len(data)),
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, err
	}
	if err := staging.LoadData(context, 0, data); err != nil {
		staging.Destroy(context)
		return nil, err
	}
	return staging, nil
}

// DeviceLocalBufferCreate uploads data once into a device local buffer with
// the given usage, through a temporary staging buffer.
func DeviceLocalBufferCreate(context *VulkanContext, usage vk.BufferUsageFlags, data []byte) (*VulkanBuffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("refusing to create an empty buffer")
	}
	staging, err := stagingBufferCreate(context, data)
	if err != nil {
		return nil, err
	}
	defer staging.Destroy(context)

	buffer, err := BufferCreate(
		context,
		vk.DeviceSize(len(data)),
		usage|vk.BufferUsageFlags(vk.BufferUsageTransferDstBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return nil, err
	}
	if err := staging.CopyTo(context, context.Device.GraphicsCommandPool, context.Device.GraphicsQueue, buffer, vk.DeviceSize(len(data))); err != nil {
		buffer.Destroy(context)
		return nil, err
	}
	return buffer, nil
}
