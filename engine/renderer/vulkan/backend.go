package vulkan

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/goki/vulkan"

	"github.com/diazflack01/vulkan-playground/engine/config"
	"github.com/diazflack01/vulkan-playground/engine/containers"
	"github.com/diazflack01/vulkan-playground/engine/core"
	"github.com/diazflack01/vulkan-playground/engine/platform"
	"github.com/diazflack01/vulkan-playground/engine/renderer"
	"github.com/diazflack01/vulkan-playground/engine/renderer/metadata"
)

// FrameInput is everything the frame loop feeds into one DrawFrame call.
type FrameInput struct {
	Camera     metadata.GPUCameraData
	Scene      metadata.GPUSceneData
	ClearColor [4]float32
}

type VulkanRenderer struct {
	platform *platform.Platform
	cfg      config.RendererConfig

	FrameNumber uint64
	context     *VulkanContext

	cachedFramebufferWidth  uint32
	cachedFramebufferHeight uint32

	debug bool

	// teardown holds every destroy in push order; one flush at shutdown
	// releases the whole backend in reverse.
	teardown *containers.TeardownStack

	descriptors *VulkanDescriptors
	sceneBuffer *AllocatedBuffer

	frames [metadata.FrameOverlap]*VulkanFrameResources
	ring   *renderer.SlotRing

	executor *ImmediateExecutor

	pipelines map[uint32]*VulkanPipeline
	meshes    map[uint32]*VulkanMesh

	overlay OverlayRenderer
}

func New(p *platform.Platform, cfg config.RendererConfig) *VulkanRenderer {
	return &VulkanRenderer{
		platform:  p,
		cfg:       cfg,
		context:   &VulkanContext{},
		teardown:  containers.NewTeardownStack(),
		pipelines: make(map[uint32]*VulkanPipeline),
		meshes:    make(map[uint32]*VulkanMesh),
		debug:     true,
	}
}

func (vr *VulkanRenderer) Initialize(appName string, appWidth, appHeight uint32) error {
	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		core.LogFatal("GetInstanceProcAddress is nil")
	}
	vk.SetGetInstanceProcAddr(procAddr)

	if err := vk.Init(); err != nil {
		core.LogFatal("failed to initialize vk: %s", err)
	}

	vr.context.FramebufferWidth = appWidth
	vr.context.FramebufferHeight = appHeight

	if err := vr.createInstance(appName); err != nil {
		return err
	}
	vr.teardown.Push(func() {
		core.LogDebug("Destroying Vulkan instance...")
		vk.DestroyInstance(vr.context.Instance, vr.context.Allocator)
	})

	if vr.debug {
		if err := vr.createDebugger(); err != nil {
			return err
		}
		vr.teardown.Push(func() {
			core.LogDebug("Destroying Vulkan debugger...")
			if vr.context.debugMessenger != vk.NullDebugReportCallback {
				vk.DestroyDebugReportCallback(vr.context.Instance, vr.context.debugMessenger, vr.context.Allocator)
			}
		})
	}

	core.LogDebug("Creating Vulkan surface...")
	surface, err := vr.platform.Window.CreateWindowSurface(vr.context.Instance, nil)
	if err != nil {
		core.LogFatal("Vulkan surface creation failed: %s", err)
	}
	vr.context.Surface = vk.SurfaceFromPointer(surface)
	vr.teardown.Push(func() {
		if vr.context.Surface != vk.NullSurface {
			vk.DestroySurface(vr.context.Instance, vr.context.Surface, vr.context.Allocator)
			vr.context.Surface = vk.NullSurface
		}
	})

	vr.context.Device = &VulkanDevice{}
	if err := DeviceCreate(vr.context); err != nil {
		return err
	}
	vr.teardown.Push(func() {
		core.LogDebug("Destroying Vulkan device...")
		DeviceDestroy(vr.context)
	})

	sc, err := SwapchainCreate(vr.context, vr.context.FramebufferWidth, vr.context.FramebufferHeight, vr.cfg.VSync)
	if err != nil {
		return err
	}
	vr.context.Swapchain = sc
	vr.teardown.Push(func() { vr.context.Swapchain.SwapchainDestroy(vr.context) })

	rp, err := RenderpassCreate(
		vr.context,
		0, 0, float32(vr.context.FramebufferWidth), float32(vr.context.FramebufferHeight),
		0.0, 0.0, 0.2, 1.0,
		1.0,
		0)
	if err != nil {
		return err
	}
	vr.context.MainRenderpass = rp
	vr.teardown.Push(func() { vr.context.MainRenderpass.RenderpassDestroy(vr.context) })

	if err := vr.regenerateFramebuffers(); err != nil {
		return err
	}

	vr.descriptors, err = DescriptorsCreate(vr.context)
	if err != nil {
		return err
	}
	vr.teardown.Push(func() { vr.descriptors.Destroy(vr.context) })

	// One shared buffer holds a padded scene block per frame slot; dynamic
	// offsets select the slot's copy at bind time.
	alignment := vr.context.UniformAlignment()
	vr.sceneBuffer, err = BufferCreate(
		vr.context,
		metadata.SharedSceneBufferSize(alignment),
		vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)|vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit),
		true)
	if err != nil {
		return err
	}
	vr.teardown.Push(func() { vr.sceneBuffer.Destroy(vr.context) })

	fences := make([]renderer.CompletionFence, metadata.FrameOverlap)
	for i := 0; i < metadata.FrameOverlap; i++ {
		frame, err := FrameResourcesCreate(vr.context, vr.descriptors, vr.sceneBuffer, vr.cfg.MaxObjects)
		if err != nil {
			return err
		}
		vr.frames[i] = frame
		fences[i] = frame.Fence
		vr.teardown.Push(func() { frame.Destroy(vr.context) })
	}
	vr.ring = renderer.NewSlotRing(fences, renderFenceTimeout)

	vr.executor, err = NewImmediateExecutor(vr.context)
	if err != nil {
		return err
	}
	vr.teardown.Push(func() { vr.executor.Destroy(vr.context) })

	core.LogInfo("Vulkan renderer initialized successfully.")
	return nil
}

func (vr *VulkanRenderer) createInstance(appName string) error {
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 1, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString(appName),
		PEngineName:        VulkanSafeString(engineName),
	}

	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	requiredExtensions := []string{"VK_KHR_surface"}
	requiredExtensions = append(requiredExtensions, vr.platform.GetRequiredExtensionNames()...)
	if runtime.GOOS == "darwin" {
		requiredExtensions = append(requiredExtensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
		createInfo.Flags |= 1
	}
	if vr.debug {
		requiredExtensions = append(requiredExtensions, vk.ExtDebugReportExtensionName)
		core.LogInfo("Required extensions:")
		for _, ext := range requiredExtensions {
			core.LogInfo("  %s", ext)
		}
	}
	createInfo.EnabledExtensionCount = uint32(len(requiredExtensions))
	createInfo.PpEnabledExtensionNames = VulkanSafeStrings(requiredExtensions)

	var validationLayers []string
	if vr.debug {
		core.LogInfo("Validation layers enabled. Enumerating...")
		validationLayers = []string{"VK_LAYER_KHRONOS_validation"}

		var availableLayerCount uint32
		if res := vk.EnumerateInstanceLayerProperties(&availableLayerCount, nil); res != vk.Success {
			return fmt.Errorf("failed to enumerate instance layers: %s", VulkanResultString(res))
		}
		availableLayers := make([]vk.LayerProperties, availableLayerCount)
		if res := vk.EnumerateInstanceLayerProperties(&availableLayerCount, availableLayers); res != vk.Success {
			return fmt.Errorf("failed to enumerate instance layers: %s", VulkanResultString(res))
		}

		for _, required := range validationLayers {
			found := false
			for j := range availableLayers {
				availableLayers[j].Deref()
				if required == vk.ToString(availableLayers[j].LayerName[:]) {
					found = true
					break
				}
			}
			if !found {
				core.LogWarn("Validation layer %s missing, running without validation.", required)
				validationLayers = nil
				break
			}
		}
	}
	createInfo.EnabledLayerCount = uint32(len(validationLayers))
	createInfo.PpEnabledLayerNames = VulkanSafeStrings(validationLayers)

	if res := vk.CreateInstance(&createInfo, vr.context.Allocator, &vr.context.Instance); res != vk.Success {
		err := fmt.Errorf("failed to create Vulkan instance: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	if err := vk.InitInstance(vr.context.Instance); err != nil {
		core.LogError(err.Error())
		return err
	}
	core.LogInfo("Vulkan Instance created.")
	return nil
}

func (vr *VulkanRenderer) createDebugger() error {
	core.LogDebug("Creating Vulkan debugger...")
	debugCreateInfo := vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit),
		PfnCallback: dbgCallbackFunc,
	}
	var dbg vk.DebugReportCallback
	if res := vk.CreateDebugReportCallback(vr.context.Instance, &debugCreateInfo, nil, &dbg); res != vk.Success {
		err := fmt.Errorf("vkCreateDebugReportCallback failed with %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	vr.context.debugMessenger = dbg
	core.LogDebug("Vulkan debugger created.")
	return nil
}

// CreateMaterialPipeline builds and registers the pipeline backing a
// material. vertCode and fragCode are SPIR-V; the shader modules only live
// for the duration of the build.
func (vr *VulkanRenderer) CreateMaterialPipeline(material *metadata.Material, vertCode, fragCode []byte) error {
	vert, err := NewShaderStage(vr.context, material.Name+".vert", vertCode, vk.ShaderStageVertexBit)
	if err != nil {
		return err
	}
	defer vert.Destroy(vr.context)

	frag, err := NewShaderStage(vr.context, material.Name+".frag", fragCode, vk.ShaderStageFragmentBit)
	if err != nil {
		return err
	}
	defer frag.Destroy(vr.context)

	pipeline, err := NewGraphicsPipeline(vr.context, &VulkanPipelineConfig{
		Renderpass: vr.context.MainRenderpass,
		Stride:     uint32(metadata.VertexSize),
		Attributes: VertexAttributes(),
		DescriptorSetLayouts: []vk.DescriptorSetLayout{
			vr.descriptors.GlobalSetLayout,
			vr.descriptors.ObjectSetLayout,
		},
		Stages: []vk.PipelineShaderStageCreateInfo{
			vert.ShaderStageCreateInfo,
			frag.ShaderStageCreateInfo,
		},
		Viewport: vk.Viewport{
			Width:    float32(vr.context.FramebufferWidth),
			Height:   float32(vr.context.FramebufferHeight),
			MaxDepth: 1.0,
		},
		Scissor: vk.Rect2D{
			Extent: vk.Extent2D{Width: vr.context.FramebufferWidth, Height: vr.context.FramebufferHeight},
		},
		PushConstantSize: uint32(metadata.MeshPushConstantsSize),
		IsWireframe:      vr.cfg.Wireframe,
	})
	if err != nil {
		return err
	}

	vr.pipelines[material.InternalID] = pipeline
	vr.teardown.Push(func() { pipeline.Destroy(vr.context) })
	core.LogInfo("Pipeline registered for material '%s' (%s).", material.Name, material.UUID)
	return nil
}

// UploadMesh copies a mesh's vertices to the GPU and registers the result
// under the mesh's internal ID.
func (vr *VulkanRenderer) UploadMesh(mesh *metadata.Mesh, verts []metadata.Vertex) error {
	gpuMesh, err := MeshUpload(vr.context, vr.executor, verts)
	if err != nil {
		return err
	}
	vr.meshes[mesh.InternalID] = gpuMesh
	vr.teardown.Push(func() { gpuMesh.Destroy(vr.context) })
	core.LogInfo("Mesh '%s' uploaded (%d vertices, %s).", mesh.Name, mesh.VertexCount, mesh.UUID)
	return nil
}

// SetOverlay installs the in-pass overlay hook. Pass nil to remove it.
func (vr *VulkanRenderer) SetOverlay(overlay OverlayRenderer) {
	vr.overlay = overlay
}

// Aspect returns the current framebuffer aspect ratio.
func (vr *VulkanRenderer) Aspect() float32 {
	if vr.context.FramebufferHeight == 0 {
		return 1
	}
	return float32(vr.context.FramebufferWidth) / float32(vr.context.FramebufferHeight)
}

func (vr *VulkanRenderer) Resized(width, height uint32) {
	vr.cachedFramebufferWidth = width
	vr.cachedFramebufferHeight = height
	vr.context.FramebufferSizeGeneration++
	core.LogInfo("Renderer resized: w/h/gen: %d/%d/%d", width, height, vr.context.FramebufferSizeGeneration)
}

// DrawFrame runs the full per-frame protocol: acquire the frame slot,
// acquire a swapchain image, record the scene through the batcher, submit
// with the slot's sync objects and present. A stale swapchain makes the
// call a no-op for that frame.
func (vr *VulkanRenderer) DrawFrame(input *FrameInput, batcher *renderer.DrawBatcher) error {
	if vr.context.FramebufferSizeGeneration != vr.context.FramebufferSizeLastGeneration {
		if !vr.recreateSwapchain() {
			return nil
		}
	}
	// Acquire or present may have swapped the swapchain out underneath us;
	// the framebuffers go with it.
	if len(vr.context.Swapchain.Framebuffers) == 0 {
		if err := vr.regenerateFramebuffers(); err != nil {
			core.LogFatal("framebuffer regeneration failed: %s", err)
		}
	}

	slot, err := vr.ring.Acquire(vr.FrameNumber)
	if err != nil {
		// A fence that never signals means the device is gone.
		core.LogFatal("frame slot acquire failed: %s", err)
	}
	frame := vr.frames[slot.Index]

	imageIndex, ok := vr.context.Swapchain.SwapchainAcquireNextImageIndex(
		vr.context, uint64(renderFenceTimeout.Nanoseconds()), frame.PresentSemaphore, vk.NullFence)
	if !ok {
		// Swapchain was recreated; skip the frame, the next pass rebuilds
		// the framebuffers.
		return nil
	}
	vr.context.ImageIndex = imageIndex

	cmd := frame.CommandBuffer
	cmd.Reset()
	if err := cmd.Begin(true, false, false); err != nil {
		core.LogFatal("command buffer begin failed: %s", err)
	}

	viewport := vk.Viewport{
		Width:    float32(vr.context.FramebufferWidth),
		Height:   float32(vr.context.FramebufferHeight),
		MaxDepth: 1.0,
	}
	scissor := vk.Rect2D{
		Extent: vk.Extent2D{Width: vr.context.FramebufferWidth, Height: vr.context.FramebufferHeight},
	}
	vk.CmdSetViewport(cmd.Handle, 0, 1, []vk.Viewport{viewport})
	vk.CmdSetScissor(cmd.Handle, 0, 1, []vk.Rect2D{scissor})

	vr.context.MainRenderpass.W = float32(vr.context.FramebufferWidth)
	vr.context.MainRenderpass.H = float32(vr.context.FramebufferHeight)
	vr.context.MainRenderpass.SetClearColor(input.ClearColor[0], input.ClearColor[1], input.ClearColor[2], input.ClearColor[3])
	vr.context.MainRenderpass.RenderpassBegin(cmd, vr.context.Swapchain.Framebuffers[imageIndex].Handle)

	// Per-slot GPU data for this frame.
	frame.CameraBuffer.Write(0, input.Camera.Bytes())

	alignment := vr.context.UniformAlignment()
	sceneOffset := metadata.SceneDataOffset(uint64(slot.Index), alignment)
	sceneData := input.Scene
	vr.sceneBuffer.Write(sceneOffset, sceneData.Bytes())

	drawables := batcher.Drawables()
	if uint32(len(drawables)) > vr.cfg.MaxObjects {
		core.LogFatal("scene has %d drawables, object buffer holds %d", len(drawables), vr.cfg.MaxObjects)
	}
	for i := range drawables {
		object := metadata.GPUObjectData{ModelMatrix: drawables[i].Transform}
		frame.ObjectBuffer.Write(uint64(i)*metadata.GPUObjectDataSize, object.Bytes())
	}

	recorder := &commandRecorder{vr: vr, cmd: cmd, frame: frame}
	batcher.Record(recorder, uint32(sceneOffset))

	if vr.overlay != nil {
		vr.overlay.Draw(cmd.Handle, vr.context.Swapchain.Extent)
	}

	vr.context.MainRenderpass.RenderpassEnd(cmd)
	if err := cmd.End(); err != nil {
		core.LogFatal("command buffer end failed: %s", err)
	}

	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{frame.PresentSemaphore},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{cmd.Handle},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{frame.RenderSemaphore},
	}
	VulkanAbortOn(vk.QueueSubmit(vr.context.Device.GraphicsQueue, 1, []vk.SubmitInfo{submitInfo}, frame.Fence.Handle), "vkQueueSubmit")
	cmd.UpdateSubmitted()
	slot.MarkSubmitted()

	vr.context.Swapchain.SwapchainPresent(vr.context, vr.context.Device.PresentQueue, frame.RenderSemaphore, imageIndex)

	vr.FrameNumber++
	return nil
}

// Shutdown drains the GPU and releases everything the backend built, in
// reverse creation order. Safe to call once; a second call is a no-op via
// the teardown stack.
func (vr *VulkanRenderer) Shutdown() error {
	if err := vr.ring.WaitIdle(); err != nil {
		core.LogError("slot drain during shutdown: %s", err)
	}
	VulkanAbortOn(vk.DeviceWaitIdle(vr.context.Device.LogicalDevice), "vkDeviceWaitIdle")
	vr.teardown.Flush()
	return nil
}

func (vr *VulkanRenderer) regenerateFramebuffers() error {
	swapchain := vr.context.Swapchain
	swapchain.Framebuffers = make([]*VulkanFramebuffer, swapchain.ImageCount)
	for i := 0; i < int(swapchain.ImageCount); i++ {
		attachments := []vk.ImageView{
			swapchain.Views[i],
			swapchain.DepthAttachment.View,
		}
		fb, err := FramebufferCreate(vr.context, vr.context.MainRenderpass, swapchain.Extent.Width, swapchain.Extent.Height, attachments)
		if err != nil {
			return err
		}
		swapchain.Framebuffers[i] = fb
	}
	return nil
}

func (vr *VulkanRenderer) recreateSwapchain() bool {
	if vr.context.RecreatingSwapchain {
		core.LogDebug("recreateSwapchain called while already recreating.")
		return false
	}
	if vr.cachedFramebufferWidth == 0 || vr.cachedFramebufferHeight == 0 {
		core.LogDebug("recreateSwapchain with a zero dimension, window likely minimized.")
		return false
	}
	vr.context.RecreatingSwapchain = true

	// Nothing in flight may touch the old swapchain.
	if err := vr.ring.WaitIdle(); err != nil {
		core.LogFatal("slot drain before swapchain recreation: %s", err)
	}
	VulkanAbortOn(vk.DeviceWaitIdle(vr.context.Device.LogicalDevice), "vkDeviceWaitIdle")

	if err := vr.context.Swapchain.SwapchainRecreate(vr.context, vr.cachedFramebufferWidth, vr.cachedFramebufferHeight); err != nil {
		core.LogFatal("swapchain recreation failed: %s", err)
	}

	vr.context.FramebufferWidth = vr.cachedFramebufferWidth
	vr.context.FramebufferHeight = vr.cachedFramebufferHeight
	vr.context.MainRenderpass.W = float32(vr.context.FramebufferWidth)
	vr.context.MainRenderpass.H = float32(vr.context.FramebufferHeight)
	vr.cachedFramebufferWidth = 0
	vr.cachedFramebufferHeight = 0
	vr.context.FramebufferSizeLastGeneration = vr.context.FramebufferSizeGeneration

	if err := vr.regenerateFramebuffers(); err != nil {
		core.LogFatal("framebuffer regeneration failed: %s", err)
	}

	vr.context.RecreatingSwapchain = false
	return true
}

// commandRecorder adapts an open command buffer to the batcher's record
// interface.
type commandRecorder struct {
	vr    *VulkanRenderer
	cmd   *VulkanCommandBuffer
	frame *VulkanFrameResources

	layout vk.PipelineLayout
}

func (r *commandRecorder) BindMaterial(material *metadata.Material, sceneOffset uint32) {
	pipeline := r.vr.pipelines[material.InternalID]
	if pipeline == nil {
		core.LogFatal("no pipeline registered for material '%s'", material.Name)
	}
	pipeline.Bind(r.cmd, vk.PipelineBindPointGraphics)
	r.layout = pipeline.PipelineLayout

	vk.CmdBindDescriptorSets(r.cmd.Handle, vk.PipelineBindPointGraphics, r.layout,
		0, 1, []vk.DescriptorSet{r.frame.GlobalDescriptor}, 1, []uint32{sceneOffset})
	vk.CmdBindDescriptorSets(r.cmd.Handle, vk.PipelineBindPointGraphics, r.layout,
		1, 1, []vk.DescriptorSet{r.frame.ObjectDescriptor}, 0, nil)
}

func (r *commandRecorder) PushTransform(transform mgl32.Mat4) {
	constants := metadata.MeshPushConstants{RenderMatrix: transform}
	vk.CmdPushConstants(r.cmd.Handle, r.layout, vk.ShaderStageFlags(vk.ShaderStageVertexBit),
		0, uint32(metadata.MeshPushConstantsSize), unsafe.Pointer(&constants))
}

func (r *commandRecorder) BindMesh(mesh *metadata.Mesh) {
	gpuMesh := r.vr.meshes[mesh.InternalID]
	if gpuMesh == nil {
		core.LogFatal("mesh '%s' was never uploaded", mesh.Name)
	}
	vk.CmdBindVertexBuffers(r.cmd.Handle, 0, 1, []vk.Buffer{gpuMesh.Buffer.Handle}, []vk.DeviceSize{0})
}

func (r *commandRecorder) Draw(vertexCount, instanceIndex uint32) {
	// firstInstance doubles as the object buffer index via gl_BaseInstance.
	vk.CmdDraw(r.cmd.Handle, vertexCount, 1, 0, instanceIndex)
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		core.LogError("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		core.LogWarn("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		core.LogInfo("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
