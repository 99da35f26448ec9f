package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/diazflack01/vulkan-playground/engine/renderer/metadata"
)

/**
 * @brief A mesh resident on the GPU: its device-local vertex buffer and
 * the vertex count for the draw call.
 */
type VulkanMesh struct {
	Buffer      *AllocatedBuffer
	VertexCount uint32
}

// MeshUpload copies vertex data into a device-local buffer through a
// host-visible staging buffer and a blocking one-shot transfer.
func MeshUpload(context *VulkanContext, executor *ImmediateExecutor, verts []metadata.Vertex) (*VulkanMesh, error) {
	data := metadata.VertexBytes(verts)
	size := uint64(len(data))

	staging, err := BufferCreate(
		context,
		size,
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)|vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit),
		true)
	if err != nil {
		return nil, err
	}
	defer staging.Destroy(context)
	staging.Write(0, data)

	vertexBuffer, err := BufferCreate(
		context,
		size,
		vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit)|vk.BufferUsageFlags(vk.BufferUsageTransferDstBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		false)
	if err != nil {
		return nil, err
	}

	if err := executor.Run(context, func(cmd *VulkanCommandBuffer) {
		copyRegion := vk.BufferCopy{
			SrcOffset: 0,
			DstOffset: 0,
			Size:      vk.DeviceSize(size),
		}
		vk.CmdCopyBuffer(cmd.Handle, staging.Handle, vertexBuffer.Handle, 1, []vk.BufferCopy{copyRegion})
	}); err != nil {
		vertexBuffer.Destroy(context)
		return nil, err
	}

	return &VulkanMesh{
		Buffer:      vertexBuffer,
		VertexCount: uint32(len(verts)),
	}, nil
}

func (m *VulkanMesh) Destroy(context *VulkanContext) {
	if m.Buffer != nil {
		m.Buffer.Destroy(context)
		m.Buffer = nil
	}
}
