package vulkan

import (
	"fmt"
	"time"

	vk "github.com/goki/vulkan"

	"github.com/diazflack01/vulkan-playground/engine/core"
)

// VulkanFence wraps a VkFence together with the device it belongs to, so it
// can satisfy the renderer's completion fence interface without threading
// the context through every call site.
type VulkanFence struct {
	Handle vk.Fence

	device    vk.Device
	allocator *vk.AllocationCallbacks
}

func NewFence(context *VulkanContext, createSignaled bool) (*VulkanFence, error) {
	fenceCreateInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	if createSignaled {
		fenceCreateInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}

	var handle vk.Fence
	if res := vk.CreateFence(context.Device.LogicalDevice, &fenceCreateInfo, context.Allocator, &handle); res != vk.Success {
		err := fmt.Errorf("failed to create fence: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	return &VulkanFence{
		Handle:    handle,
		device:    context.Device.LogicalDevice,
		allocator: context.Allocator,
	}, nil
}

func (vf *VulkanFence) Destroy() {
	if vf.Handle != nil {
		vk.DestroyFence(vf.device, vf.Handle, vf.allocator)
		vf.Handle = nil
	}
}

// Wait blocks until the fence signals or the timeout expires. Returns false
// only on timeout or device failure.
func (vf *VulkanFence) Wait(timeout time.Duration) bool {
	result := vk.WaitForFences(vf.device, 1, []vk.Fence{vf.Handle}, vk.True, uint64(timeout.Nanoseconds()))
	switch result {
	case vk.Success:
		return true
	case vk.Timeout:
		core.LogWarn("fence wait timed out")
	default:
		core.LogError("fence wait failed: %s", VulkanResultString(result))
	}
	return false
}

// Reset returns the fence to the unsignaled state.
func (vf *VulkanFence) Reset() error {
	if res := vk.ResetFences(vf.device, 1, []vk.Fence{vf.Handle}); res != vk.Success {
		err := fmt.Errorf("failed to reset fence: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	return nil
}
