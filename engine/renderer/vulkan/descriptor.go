package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/diazflack01/vulkan-playground/engine/core"
	"github.com/diazflack01/vulkan-playground/engine/renderer/metadata"
)

/**
 * @brief Owns the descriptor pool and the set layouts shared by every
 * mesh pipeline.
 *
 * Set 0 holds the per-frame camera uniform (binding 0) and the shared
 * scene parameter block as a dynamic uniform (binding 1). Set 1 holds the
 * per-frame object storage buffer (binding 0).
 */
type VulkanDescriptors struct {
	Pool            vk.DescriptorPool
	GlobalSetLayout vk.DescriptorSetLayout
	ObjectSetLayout vk.DescriptorSetLayout
}

func DescriptorsCreate(context *VulkanContext) (*VulkanDescriptors, error) {
	d := &VulkanDescriptors{}

	poolSizes := []vk.DescriptorPoolSize{
		{Type: vk.DescriptorTypeUniformBuffer, DescriptorCount: 10},
		{Type: vk.DescriptorTypeUniformBufferDynamic, DescriptorCount: 10},
		{Type: vk.DescriptorTypeStorageBuffer, DescriptorCount: 10},
	}
	poolCreateInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       10,
		PoolSizeCount: uint32(len(poolSizes)),
		PPoolSizes:    poolSizes,
	}
	if res := vk.CreateDescriptorPool(context.Device.LogicalDevice, &poolCreateInfo, context.Allocator, &d.Pool); res != vk.Success {
		err := fmt.Errorf("failed to create descriptor pool: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}

	globalBindings := []vk.DescriptorSetLayoutBinding{
		{
			Binding:         0,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit),
		},
		{
			Binding:         1,
			DescriptorType:  vk.DescriptorTypeUniformBufferDynamic,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit) | vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
		},
	}
	globalLayoutInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(globalBindings)),
		PBindings:    globalBindings,
	}
	if res := vk.CreateDescriptorSetLayout(context.Device.LogicalDevice, &globalLayoutInfo, context.Allocator, &d.GlobalSetLayout); res != vk.Success {
		err := fmt.Errorf("failed to create global set layout: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}

	objectBindings := []vk.DescriptorSetLayoutBinding{
		{
			Binding:         0,
			DescriptorType:  vk.DescriptorTypeStorageBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit),
		},
	}
	objectLayoutInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(objectBindings)),
		PBindings:    objectBindings,
	}
	if res := vk.CreateDescriptorSetLayout(context.Device.LogicalDevice, &objectLayoutInfo, context.Allocator, &d.ObjectSetLayout); res != vk.Success {
		err := fmt.Errorf("failed to create object set layout: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}

	return d, nil
}

func (d *VulkanDescriptors) allocateSet(context *VulkanContext, layout vk.DescriptorSetLayout) (vk.DescriptorSet, error) {
	allocInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     d.Pool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{layout},
	}
	sets := make([]vk.DescriptorSet, 1)
	if res := vk.AllocateDescriptorSets(context.Device.LogicalDevice, &allocInfo, &sets[0]); res != vk.Success {
		err := fmt.Errorf("failed to allocate descriptor set: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	return sets[0], nil
}

// AllocateGlobalSet binds a slot's camera buffer and the shared scene
// buffer into a freshly allocated global set. The scene binding sees only
// one block's worth at a time, the dynamic offset selects which.
func (d *VulkanDescriptors) AllocateGlobalSet(context *VulkanContext, cameraBuffer, sceneBuffer *AllocatedBuffer) (vk.DescriptorSet, error) {
	set, err := d.allocateSet(context, d.GlobalSetLayout)
	if err != nil {
		return nil, err
	}

	writes := []vk.WriteDescriptorSet{
		{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          set,
			DstBinding:      0,
			DescriptorCount: 1,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			PBufferInfo: []vk.DescriptorBufferInfo{
				{Buffer: cameraBuffer.Handle, Offset: 0, Range: vk.DeviceSize(metadata.GPUCameraDataSize)},
			},
		},
		{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          set,
			DstBinding:      1,
			DescriptorCount: 1,
			DescriptorType:  vk.DescriptorTypeUniformBufferDynamic,
			PBufferInfo: []vk.DescriptorBufferInfo{
				{Buffer: sceneBuffer.Handle, Offset: 0, Range: vk.DeviceSize(metadata.GPUSceneDataSize)},
			},
		},
	}
	vk.UpdateDescriptorSets(context.Device.LogicalDevice, uint32(len(writes)), writes, 0, nil)
	return set, nil
}

// AllocateObjectSet binds a slot's object storage buffer into a freshly
// allocated object set.
func (d *VulkanDescriptors) AllocateObjectSet(context *VulkanContext, objectBuffer *AllocatedBuffer) (vk.DescriptorSet, error) {
	set, err := d.allocateSet(context, d.ObjectSetLayout)
	if err != nil {
		return nil, err
	}

	writes := []vk.WriteDescriptorSet{
		{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          set,
			DstBinding:      0,
			DescriptorCount: 1,
			DescriptorType:  vk.DescriptorTypeStorageBuffer,
			PBufferInfo: []vk.DescriptorBufferInfo{
				{Buffer: objectBuffer.Handle, Offset: 0, Range: objectBuffer.Size},
			},
		},
	}
	vk.UpdateDescriptorSets(context.Device.LogicalDevice, uint32(len(writes)), writes, 0, nil)
	return set, nil
}

func (d *VulkanDescriptors) Destroy(context *VulkanContext) {
	if d.GlobalSetLayout != nil {
		vk.DestroyDescriptorSetLayout(context.Device.LogicalDevice, d.GlobalSetLayout, context.Allocator)
		d.GlobalSetLayout = nil
	}
	if d.ObjectSetLayout != nil {
		vk.DestroyDescriptorSetLayout(context.Device.LogicalDevice, d.ObjectSetLayout, context.Allocator)
		d.ObjectSetLayout = nil
	}
	if d.Pool != nil {
		vk.DestroyDescriptorPool(context.Device.LogicalDevice, d.Pool, context.Allocator)
		d.Pool = nil
	}
}
