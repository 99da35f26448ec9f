package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/diazflack01/vulkan-playground/engine/renderer/metadata"
)

// Scene owns the mesh and material registries and the flat drawable list.
// Registration happens once during setup; the drawable list is immutable
// after that. Drawables hold references into the registries, never copies,
// and the registry instances never move, so identity comparisons stay valid
// for the whole run.
type Scene struct {
	meshes    map[string]*metadata.Mesh
	vertices  map[uint32][]metadata.Vertex
	materials map[string]*metadata.Material

	drawables []metadata.Drawable

	nextMeshID     uint32
	nextMaterialID uint32
}

func New() *Scene {
	return &Scene{
		meshes:    make(map[string]*metadata.Mesh),
		vertices:  make(map[uint32][]metadata.Vertex),
		materials: make(map[string]*metadata.Material),
	}
}

// RegisterMesh adds a mesh under the given name. The returned instance is
// the one drawables must reference. Internal IDs are assigned in
// registration order and double as the batcher's sort key.
func (s *Scene) RegisterMesh(name string, verts []metadata.Vertex) *metadata.Mesh {
	mesh := &metadata.Mesh{
		UUID:        uuid.New(),
		Name:        name,
		InternalID:  s.nextMeshID,
		VertexCount: uint32(len(verts)),
	}
	s.nextMeshID++
	s.meshes[name] = mesh
	s.vertices[mesh.InternalID] = verts
	return mesh
}

// RegisterMaterial adds a material under the given name.
func (s *Scene) RegisterMaterial(name string, hasTexture bool) *metadata.Material {
	material := &metadata.Material{
		UUID:       uuid.New(),
		Name:       name,
		InternalID: s.nextMaterialID,
		HasTexture: hasTexture,
	}
	s.nextMaterialID++
	s.materials[name] = material
	return material
}

// Mesh returns the mesh registered under name, or nil when absent. Callers
// must check before building drawables.
func (s *Scene) Mesh(name string) *metadata.Mesh {
	return s.meshes[name]
}

// Material returns the material registered under name, or nil when absent.
func (s *Scene) Material(name string) *metadata.Material {
	return s.materials[name]
}

// Vertices returns the CPU-side vertex data for an uploaded mesh.
func (s *Scene) Vertices(mesh *metadata.Mesh) []metadata.Vertex {
	return s.vertices[mesh.InternalID]
}

// Meshes returns every registered mesh, for upload at startup.
func (s *Scene) Meshes() []*metadata.Mesh {
	out := make([]*metadata.Mesh, 0, len(s.meshes))
	for _, m := range s.meshes {
		out = append(out, m)
	}
	return out
}

// Materials returns every registered material, for pipeline binding at
// startup.
func (s *Scene) Materials() []*metadata.Material {
	out := make([]*metadata.Material, 0, len(s.materials))
	for _, m := range s.materials {
		out = append(out, m)
	}
	return out
}

// AddDrawable appends one renderable. No-op when mesh or material is nil so
// a failed lookup during setup degrades to a missing object, not a crash.
func (s *Scene) AddDrawable(mesh *metadata.Mesh, material *metadata.Material, transform mgl32.Mat4) {
	if mesh == nil || material == nil {
		return
	}
	s.drawables = append(s.drawables, metadata.Drawable{
		Mesh:      mesh,
		Material:  material,
		Transform: transform,
	})
}

// Drawables returns the scene's flat drawable list.
func (s *Scene) Drawables() []metadata.Drawable {
	return s.drawables
}
