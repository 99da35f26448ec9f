package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/diazflack01/vulkan-playground/engine/core"
	"github.com/diazflack01/vulkan-playground/engine/renderer/metadata"
)

/**
 * @brief Everything one frame slot owns: its command pool and buffer, the
 * semaphore pair for the acquire/submit/present chain, the completion
 * fence and the per-slot GPU buffers with their descriptor sets.
 */
type VulkanFrameResources struct {
	CommandPool   vk.CommandPool
	CommandBuffer *VulkanCommandBuffer

	PresentSemaphore vk.Semaphore
	RenderSemaphore  vk.Semaphore
	Fence            *VulkanFence

	CameraBuffer *AllocatedBuffer
	ObjectBuffer *AllocatedBuffer

	GlobalDescriptor vk.DescriptorSet
	ObjectDescriptor vk.DescriptorSet
}

func SemaphoreCreate(context *VulkanContext) (vk.Semaphore, error) {
	semaphoreCreateInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	var semaphore vk.Semaphore
	if res := vk.CreateSemaphore(context.Device.LogicalDevice, &semaphoreCreateInfo, context.Allocator, &semaphore); res != vk.Success {
		err := fmt.Errorf("failed to create semaphore: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	return semaphore, nil
}

// FrameResourcesCreate builds one slot. The fence starts unsignaled; the
// slot ring never waits on it before the slot's first submission.
// sceneBuffer is shared by all slots, the per-slot view is carved out with
// a dynamic offset.
func FrameResourcesCreate(context *VulkanContext, descriptors *VulkanDescriptors, sceneBuffer *AllocatedBuffer, maxObjects uint32) (*VulkanFrameResources, error) {
	f := &VulkanFrameResources{}

	poolCreateInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: uint32(context.Device.GraphicsQueueIndex),
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}
	if res := vk.CreateCommandPool(context.Device.LogicalDevice, &poolCreateInfo, context.Allocator, &f.CommandPool); res != vk.Success {
		err := fmt.Errorf("failed to create frame command pool: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}

	commandBuffer, err := NewVulkanCommandBuffer(context, f.CommandPool, true)
	if err != nil {
		return nil, err
	}
	f.CommandBuffer = commandBuffer

	if f.PresentSemaphore, err = SemaphoreCreate(context); err != nil {
		return nil, err
	}
	if f.RenderSemaphore, err = SemaphoreCreate(context); err != nil {
		return nil, err
	}
	// The slot ring only waits on fences it has seen submitted, so the
	// render fence starts unsignaled.
	if f.Fence, err = NewFence(context, false); err != nil {
		return nil, err
	}

	hostVisible := vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit) | vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit)

	if f.CameraBuffer, err = BufferCreate(
		context,
		metadata.GPUCameraDataSize,
		vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
		hostVisible,
		true); err != nil {
		return nil, err
	}

	if f.ObjectBuffer, err = BufferCreate(
		context,
		uint64(maxObjects)*metadata.GPUObjectDataSize,
		vk.BufferUsageFlags(vk.BufferUsageStorageBufferBit),
		hostVisible,
		true); err != nil {
		return nil, err
	}

	if f.GlobalDescriptor, err = descriptors.AllocateGlobalSet(context, f.CameraBuffer, sceneBuffer); err != nil {
		return nil, err
	}
	if f.ObjectDescriptor, err = descriptors.AllocateObjectSet(context, f.ObjectBuffer); err != nil {
		return nil, err
	}

	return f, nil
}

func (f *VulkanFrameResources) Destroy(context *VulkanContext) {
	if f.CameraBuffer != nil {
		f.CameraBuffer.Destroy(context)
	}
	if f.ObjectBuffer != nil {
		f.ObjectBuffer.Destroy(context)
	}
	if f.Fence != nil {
		f.Fence.Destroy()
	}
	if f.PresentSemaphore != nil {
		vk.DestroySemaphore(context.Device.LogicalDevice, f.PresentSemaphore, context.Allocator)
		f.PresentSemaphore = nil
	}
	if f.RenderSemaphore != nil {
		vk.DestroySemaphore(context.Device.LogicalDevice, f.RenderSemaphore, context.Allocator)
		f.RenderSemaphore = nil
	}
	if f.CommandPool != nil {
		vk.DestroyCommandPool(context.Device.LogicalDevice, f.CommandPool, context.Allocator)
		f.CommandPool = nil
	}
}
