package renderer

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/diazflack01/vulkan-playground/engine/renderer/metadata"
)

// RecordTarget receives the state binds and draws produced by a batch walk.
// The Vulkan backend implements it over an open command buffer; tests use a
// counting fake.
type RecordTarget interface {
	// BindMaterial binds the material's pipeline and its descriptor sets.
	// sceneOffset is the current frame's dynamic offset into the shared
	// scene uniform region.
	BindMaterial(material *metadata.Material, sceneOffset uint32)
	// PushTransform embeds the per-draw transform directly in the command
	// stream.
	PushTransform(transform mgl32.Mat4)
	// BindMesh binds the mesh's vertex buffer at offset 0.
	BindMesh(mesh *metadata.Mesh)
	// Draw issues a non-indexed draw. instanceIndex is the drawable's
	// position in draw order, used by the shader to index the object buffer.
	Draw(vertexCount uint32, instanceIndex uint32)
}

// DrawBatcher holds the scene's drawable list and minimizes GPU state
// changes by grouping equal materials and, within them, equal meshes. The
// sort runs once after scene construction, not per frame.
type DrawBatcher struct {
	drawables []metadata.Drawable
}

func NewDrawBatcher(drawables []metadata.Drawable) *DrawBatcher {
	return &DrawBatcher{drawables: drawables}
}

// Sort orders the drawables by (material identity, mesh identity). The
// registry-assigned internal IDs give a stable total order, so equal
// materials always end up adjacent and the number of rebinds during Record
// equals the number of maximal equal runs.
func (b *DrawBatcher) Sort() {
	sort.SliceStable(b.drawables, func(i, j int) bool {
		l, r := &b.drawables[i], &b.drawables[j]
		if l.Material.InternalID == r.Material.InternalID {
			return l.Mesh.InternalID < r.Mesh.InternalID
		}
		return l.Material.InternalID < r.Material.InternalID
	})
}

// Drawables returns the batcher's list in its current order.
func (b *DrawBatcher) Drawables() []metadata.Drawable {
	return b.drawables
}

// Record walks the drawable list once, binding pipeline and descriptor state
// only when the material changes and the vertex buffer only when the mesh
// changes within the current material run. A material change starts a fresh
// run, so the first mesh after it is always bound. The transform always goes
// through the push-constant fast path.
func (b *DrawBatcher) Record(target RecordTarget, sceneOffset uint32) {
	var lastMesh *metadata.Mesh
	var lastMaterial *metadata.Material

	for i := range b.drawables {
		d := &b.drawables[i]

		if d.Material != lastMaterial {
			target.BindMaterial(d.Material, sceneOffset)
			lastMaterial = d.Material
			lastMesh = nil
		}

		target.PushTransform(d.Transform)

		if d.Mesh != lastMesh {
			target.BindMesh(d.Mesh)
			lastMesh = d.Mesh
		}

		target.Draw(d.Mesh.VertexCount, uint32(i))
	}
}
