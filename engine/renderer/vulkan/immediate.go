package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/diazflack01/vulkan-playground/engine/core"
)

// ImmediateExecutor runs one-shot command buffers outside the frame loop,
// blocking until the GPU finishes. Used for uploads at startup.
type ImmediateExecutor struct {
	pool  vk.CommandPool
	fence *VulkanFence
}

func NewImmediateExecutor(context *VulkanContext) (*ImmediateExecutor, error) {
	e := &ImmediateExecutor{}

	poolCreateInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: uint32(context.Device.GraphicsQueueIndex),
	}
	if res := vk.CreateCommandPool(context.Device.LogicalDevice, &poolCreateInfo, context.Allocator, &e.pool); res != vk.Success {
		err := fmt.Errorf("failed to create upload command pool: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}

	fence, err := NewFence(context, false)
	if err != nil {
		return nil, err
	}
	e.fence = fence
	return e, nil
}

// Run records fn into a fresh command buffer, submits it and waits for the
// upload fence. The pool is reset afterwards so buffers do not accumulate.
func (e *ImmediateExecutor) Run(context *VulkanContext, fn func(cmd *VulkanCommandBuffer)) error {
	cmd, err := NewVulkanCommandBuffer(context, e.pool, true)
	if err != nil {
		return err
	}
	if err := cmd.Begin(true, false, false); err != nil {
		return err
	}

	fn(cmd)

	if err := cmd.End(); err != nil {
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{cmd.Handle},
	}
	if res := vk.QueueSubmit(context.Device.GraphicsQueue, 1, []vk.SubmitInfo{submitInfo}, e.fence.Handle); res != vk.Success {
		err := fmt.Errorf("failed to submit immediate command buffer: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}

	if !e.fence.Wait(uploadFenceTimeout) {
		core.LogFatal("upload fence never signaled")
	}
	if err := e.fence.Reset(); err != nil {
		return err
	}

	if res := vk.ResetCommandPool(context.Device.LogicalDevice, e.pool, 0); res != vk.Success {
		err := fmt.Errorf("failed to reset upload command pool: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	return nil
}

func (e *ImmediateExecutor) Destroy(context *VulkanContext) {
	if e.fence != nil {
		e.fence.Destroy()
		e.fence = nil
	}
	if e.pool != nil {
		vk.DestroyCommandPool(context.Device.LogicalDevice, e.pool, context.Allocator)
		e.pool = nil
	}
}
