package metadata

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// FrameOverlap is the number of frame contexts cycled by the renderer. The
// CPU may record frame f+1 while the GPU still executes frame f, but never
// runs further ahead than this.
const FrameOverlap = 2

/**
 * @brief Per-frame camera block, bound as a uniform buffer at set 0 binding 0.
 * Field order and sizes must match the vertex shader exactly.
 */
type GPUCameraData struct {
	View     mgl32.Mat4
	Proj     mgl32.Mat4
	ViewProj mgl32.Mat4
}

/**
 * @brief Scene-wide parameters, bound as a dynamic uniform buffer at set 0
 * binding 1. One padded copy per frame slot lives in a single shared buffer.
 */
type GPUSceneData struct {
	FogColor     mgl32.Vec4
	FogDistances mgl32.Vec4
	AmbientColor mgl32.Vec4
	SunDirection mgl32.Vec4
	SunColor     mgl32.Vec4
}

/**
 * @brief Per-object data, stored as an array in the slot's storage buffer
 * (set 1 binding 0), indexed by draw order.
 */
type GPUObjectData struct {
	ModelMatrix mgl32.Mat4
}

// MeshPushConstants is the per-draw fast-path payload embedded directly in
// the command stream. Layout matches the vertex shader push-constant block.
type MeshPushConstants struct {
	Data         mgl32.Vec4
	RenderMatrix mgl32.Mat4
}

var (
	GPUCameraDataSize     = uint64(unsafe.Sizeof(GPUCameraData{}))
	GPUSceneDataSize      = uint64(unsafe.Sizeof(GPUSceneData{}))
	GPUObjectDataSize     = uint64(unsafe.Sizeof(GPUObjectData{}))
	MeshPushConstantsSize = uint64(unsafe.Sizeof(MeshPushConstants{}))
)

// Bytes returns the raw byte view of the block for copying into mapped
// device memory. The structs are plain float32 arrays, so the view is the
// exact wire layout the shader reads.
func (c *GPUCameraData) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(c)), GPUCameraDataSize)
}

func (s *GPUSceneData) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(s)), GPUSceneDataSize)
}

func (o *GPUObjectData) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(o)), GPUObjectDataSize)
}

// Mesh owns one uploaded vertex buffer, referenced by its internal ID in the
// renderer's buffer table. Identity is stable for the run; drawables point at
// the registry's instance and never copy it.
type Mesh struct {
	UUID        uuid.UUID
	Name        string
	InternalID  uint32
	VertexCount uint32
}

// Material pairs a pipeline with its layout, plus an optional per-material
// texture binding set. Shared by many drawables; InternalID is the grouping
// key the draw batcher sorts on.
type Material struct {
	UUID       uuid.UUID
	Name       string
	InternalID uint32
	HasTexture bool
}

// Drawable is one renderable object: non-owning references into the mesh and
// material registries plus a model transform. Immutable once the scene list
// is built.
type Drawable struct {
	Mesh      *Mesh
	Material  *Material
	Transform mgl32.Mat4
}

// Vertex is the vertex-buffer element layout: position, normal, color.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Color    mgl32.Vec3
}

var VertexSize = uint64(unsafe.Sizeof(Vertex{}))

// VertexBytes views a vertex slice as raw bytes for upload.
func VertexBytes(verts []Vertex) []byte {
	if len(verts) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&verts[0])), uint64(len(verts))*VertexSize)
}
