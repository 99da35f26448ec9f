package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/diazflack01/vulkan-playground/engine/renderer/metadata"
)

// countingTarget records bind/draw traffic so tests can assert on state
// changes instead of GPU output.
type countingTarget struct {
	materialBinds int
	meshBinds     int
	pushes        int
	draws         int
	sceneOffsets  []uint32
	instanceOrder []uint32
}

func (c *countingTarget) BindMaterial(m *metadata.Material, sceneOffset uint32) {
	c.materialBinds++
	c.sceneOffsets = append(c.sceneOffsets, sceneOffset)
}

func (c *countingTarget) PushTransform(t mgl32.Mat4) { c.pushes++ }

func (c *countingTarget) BindMesh(m *metadata.Mesh) { c.meshBinds++ }

func (c *countingTarget) Draw(vertexCount uint32, instanceIndex uint32) {
	c.draws++
	c.instanceOrder = append(c.instanceOrder, instanceIndex)
}

func makeMaterials(n int) []*metadata.Material {
	mats := make([]*metadata.Material, n)
	for i := range mats {
		mats[i] = &metadata.Material{Name: "mat", InternalID: uint32(i)}
	}
	return mats
}

func makeMeshes(n int) []*metadata.Mesh {
	meshes := make([]*metadata.Mesh, n)
	for i := range meshes {
		meshes[i] = &metadata.Mesh{Name: "mesh", InternalID: uint32(i), VertexCount: 3}
	}
	return meshes
}

func TestDrawBatcher_RebindCounts(t *testing.T) {
	mats := makeMaterials(2)
	meshes := makeMeshes(2)

	tests := []struct {
		name              string
		materials         []int
		meshes            []int
		wantMaterialBinds int
		wantMeshBinds     int
	}{
		{
			// Materials [M1,M1,M2,M2,M2], meshes [A,A,A,B,B]: 2 material
			// runs, 3 mesh runs (A while M1, A then B while M2).
			name:              "pre-sorted mixed runs",
			materials:         []int{0, 0, 1, 1, 1},
			meshes:            []int{0, 0, 0, 1, 1},
			wantMaterialBinds: 2,
			wantMeshBinds:     3,
		},
		{
			// The mesh stays the same across the material change, but a new
			// pipeline run starts from a clean slate, so it is bound again.
			name:              "material change rebinds unchanged mesh",
			materials:         []int{0, 1},
			meshes:            []int{0, 0},
			wantMaterialBinds: 2,
			wantMeshBinds:     2,
		},
		{
			name:              "single material single mesh",
			materials:         []int{0, 0, 0, 0},
			meshes:            []int{0, 0, 0, 0},
			wantMaterialBinds: 1,
			wantMeshBinds:     1,
		},
		{
			name:              "alternating everything",
			materials:         []int{0, 1, 0, 1},
			meshes:            []int{0, 1, 0, 1},
			wantMaterialBinds: 4,
			wantMeshBinds:     4,
		},
		{
			name:              "empty list",
			materials:         nil,
			meshes:            nil,
			wantMaterialBinds: 0,
			wantMeshBinds:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drawables := make([]metadata.Drawable, len(tt.materials))
			for i := range drawables {
				drawables[i] = metadata.Drawable{
					Material:  mats[tt.materials[i]],
					Mesh:      meshes[tt.meshes[i]],
					Transform: mgl32.Ident4(),
				}
			}

			target := &countingTarget{}
			NewDrawBatcher(drawables).Record(target, 0)

			if target.materialBinds != tt.wantMaterialBinds {
				t.Errorf("material binds = %d, want %d", target.materialBinds, tt.wantMaterialBinds)
			}
			if target.meshBinds != tt.wantMeshBinds {
				t.Errorf("mesh binds = %d, want %d", target.meshBinds, tt.wantMeshBinds)
			}
			if target.draws != len(drawables) || target.pushes != len(drawables) {
				t.Errorf("draws/pushes = %d/%d, want %d each", target.draws, target.pushes, len(drawables))
			}
		})
	}
}

func TestDrawBatcher_InstanceIndexFollowsDrawOrder(t *testing.T) {
	mats := makeMaterials(1)
	meshes := makeMeshes(1)

	drawables := make([]metadata.Drawable, 5)
	for i := range drawables {
		drawables[i] = metadata.Drawable{Material: mats[0], Mesh: meshes[0], Transform: mgl32.Ident4()}
	}

	target := &countingTarget{}
	NewDrawBatcher(drawables).Record(target, 0)

	for i, got := range target.instanceOrder {
		if got != uint32(i) {
			t.Fatalf("instance index at draw %d = %d, want %d", i, got, i)
		}
	}
}

func TestDrawBatcher_SceneOffsetReachesEveryMaterialBind(t *testing.T) {
	mats := makeMaterials(2)
	meshes := makeMeshes(1)

	drawables := []metadata.Drawable{
		{Material: mats[0], Mesh: meshes[0], Transform: mgl32.Ident4()},
		{Material: mats[1], Mesh: meshes[0], Transform: mgl32.Ident4()},
	}

	target := &countingTarget{}
	NewDrawBatcher(drawables).Record(target, 256)

	for i, off := range target.sceneOffsets {
		if off != 256 {
			t.Errorf("scene offset at bind %d = %d, want 256", i, off)
		}
	}
}

func TestDrawBatcher_SortGroupsRoundRobinScene(t *testing.T) {
	mats := makeMaterials(2)
	meshes := makeMeshes(3)

	// 100 drawables assigned round-robin over 2 materials and 3 meshes.
	drawables := make([]metadata.Drawable, 100)
	for i := range drawables {
		drawables[i] = metadata.Drawable{
			Material:  mats[i%2],
			Mesh:      meshes[i%3],
			Transform: mgl32.Ident4(),
		}
	}

	b := NewDrawBatcher(drawables)
	b.Sort()

	sorted := b.Drawables()
	for i := 1; i < len(sorted); i++ {
		prev, cur := &sorted[i-1], &sorted[i]
		if cur.Material.InternalID < prev.Material.InternalID {
			t.Fatalf("material order decreases at index %d", i)
		}
		if cur.Material.InternalID == prev.Material.InternalID &&
			cur.Mesh.InternalID < prev.Mesh.InternalID {
			t.Fatalf("mesh order decreases within material run at index %d", i)
		}
	}

	// Sorting must not lose or duplicate drawables.
	if len(sorted) != 100 {
		t.Fatalf("sorted length = %d, want 100", len(sorted))
	}

	// After sorting, rebinds collapse to the number of distinct runs:
	// 2 materials, and 3 meshes inside each material run.
	target := &countingTarget{}
	b.Record(target, 0)
	if target.materialBinds != 2 {
		t.Errorf("material binds after sort = %d, want 2", target.materialBinds)
	}
	if target.meshBinds != 6 {
		t.Errorf("mesh binds after sort = %d, want 6", target.meshBinds)
	}
}
