package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/diazflack01/vulkan-playground/engine/core"
)

// AllocatedBuffer bundles a VkBuffer with its backing memory. Host-visible
// buffers stay persistently mapped for their whole lifetime, so per-frame
// uniform writes are a plain memcopy with no map/unmap churn.
type AllocatedBuffer struct {
	Handle vk.Buffer
	Memory vk.DeviceMemory
	Size   vk.DeviceSize

	mapped unsafe.Pointer
}

func BufferCreate(
	context *VulkanContext,
	size uint64,
	usage vk.BufferUsageFlags,
	memoryFlags vk.MemoryPropertyFlags,
	persistentMap bool,
) (*AllocatedBuffer, error) {
	buffer := &AllocatedBuffer{
		Size: vk.DeviceSize(size),
	}

	bufferCreateInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        buffer.Size,
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}
	var handle vk.Buffer
	if res := vk.CreateBuffer(context.Device.LogicalDevice, &bufferCreateInfo, context.Allocator, &handle); res != vk.Success {
		err := fmt.Errorf("failed to create buffer: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	buffer.Handle = handle

	var memoryRequirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(context.Device.LogicalDevice, buffer.Handle, &memoryRequirements)
	memoryRequirements.Deref()

	memoryType := context.FindMemoryIndex(memoryRequirements.MemoryTypeBits, uint32(memoryFlags))
	if memoryType == -1 {
		err := fmt.Errorf("required memory type not found, buffer not valid")
		core.LogError(err.Error())
		return nil, err
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memoryRequirements.Size,
		MemoryTypeIndex: uint32(memoryType),
	}
	var memory vk.DeviceMemory
	if res := vk.AllocateMemory(context.Device.LogicalDevice, &allocateInfo, context.Allocator, &memory); res != vk.Success {
		err := fmt.Errorf("failed to allocate buffer memory: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	buffer.Memory = memory

	if res := vk.BindBufferMemory(context.Device.LogicalDevice, buffer.Handle, buffer.Memory, 0); res != vk.Success {
		err := fmt.Errorf("failed to bind buffer memory: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}

	if persistentMap {
		if res := vk.MapMemory(context.Device.LogicalDevice, buffer.Memory, 0, buffer.Size, 0, &buffer.mapped); res != vk.Success {
			err := fmt.Errorf("failed to map buffer memory: %s", VulkanResultString(res))
			core.LogError(err.Error())
			return nil, err
		}
	}

	return buffer, nil
}

// Write copies data into the mapped buffer at the given byte offset. The
// buffer must have been created with persistentMap.
func (b *AllocatedBuffer) Write(offset uint64, data []byte) {
	if b.mapped == nil {
		core.LogFatal("write to unmapped buffer")
	}
	if offset+uint64(len(data)) > uint64(b.Size) {
		core.LogFatal("buffer write out of range: offset %d + %d bytes > size %d", offset, len(data), b.Size)
	}
	dst := unsafe.Pointer(uintptr(b.mapped) + uintptr(offset))
	vk.Memcopy(dst, data)
}

func (b *AllocatedBuffer) Destroy(context *VulkanContext) {
	if b.mapped != nil {
		vk.UnmapMemory(context.Device.LogicalDevice, b.Memory)
		b.mapped = nil
	}
	if b.Handle != nil {
		vk.DestroyBuffer(context.Device.LogicalDevice, b.Handle, context.Allocator)
		b.Handle = nil
	}
	if b.Memory != nil {
		vk.FreeMemory(context.Device.LogicalDevice, b.Memory, context.Allocator)
		b.Memory = nil
	}
}
