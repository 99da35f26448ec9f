package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/diazflack01/vulkan-playground/engine/renderer/metadata"
)

// Procedural geometry. Every mesh is a plain triangle list with per-vertex
// colors, no indices, so uploads are a single buffer copy.

func TriangleVertices() []metadata.Vertex {
	return []metadata.Vertex{
		{Position: mgl32.Vec3{1, 1, 0}, Normal: mgl32.Vec3{0, 0, 1}, Color: mgl32.Vec3{0, 1, 0}},
		{Position: mgl32.Vec3{-1, 1, 0}, Normal: mgl32.Vec3{0, 0, 1}, Color: mgl32.Vec3{0, 1, 0}},
		{Position: mgl32.Vec3{0, -1, 0}, Normal: mgl32.Vec3{0, 0, 1}, Color: mgl32.Vec3{0, 1, 0}},
	}
}

func QuadVertices() []metadata.Vertex {
	n := mgl32.Vec3{0, 0, 1}
	c := mgl32.Vec3{0.8, 0.8, 0.2}
	bl := mgl32.Vec3{-1, 1, 0}
	br := mgl32.Vec3{1, 1, 0}
	tr := mgl32.Vec3{1, -1, 0}
	tl := mgl32.Vec3{-1, -1, 0}
	return []metadata.Vertex{
		{Position: bl, Normal: n, Color: c},
		{Position: br, Normal: n, Color: c},
		{Position: tr, Normal: n, Color: c},
		{Position: bl, Normal: n, Color: c},
		{Position: tr, Normal: n, Color: c},
		{Position: tl, Normal: n, Color: c},
	}
}

// CubeVertices builds a unit cube centered at the origin, one color per
// face so lighting errors are obvious at a glance.
func CubeVertices() []metadata.Vertex {
	type face struct {
		normal mgl32.Vec3
		color  mgl32.Vec3
		// corners in counter-clockwise order seen from outside
		corners [4]mgl32.Vec3
	}
	faces := []face{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{1, 1, 0}, [4]mgl32.Vec3{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 1}, [4]mgl32.Vec3{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 1, 1}, [4]mgl32.Vec3{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}},
	}

	verts := make([]metadata.Vertex, 0, 36)
	for _, f := range faces {
		c := f.corners
		for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
			verts = append(verts, metadata.Vertex{
				Position: c[i].Mul(0.5),
				Normal:   f.normal,
				Color:    f.color,
			})
		}
	}
	return verts
}

// BuildDemoScene registers the stock meshes and materials and lays out a
// centered cube over a grid of triangles. Materials alternate across the
// grid so the batcher's sort has real work to do.
func BuildDemoScene(s *Scene) {
	triangle := s.RegisterMesh("triangle", TriangleVertices())
	quad := s.RegisterMesh("quad", QuadVertices())
	cube := s.RegisterMesh("cube", CubeVertices())

	defaultLit := s.RegisterMaterial("default_lit", false)
	tinted := s.RegisterMaterial("tinted", false)

	s.AddDrawable(cube, defaultLit, mgl32.Translate3D(0, -1, 0).Mul4(mgl32.Scale3D(2, 2, 2)))
	s.AddDrawable(quad, tinted, mgl32.Translate3D(0, -4, 0).Mul4(mgl32.Scale3D(3, 3, 3)))

	for x := -20; x <= 20; x++ {
		for y := -20; y <= 20; y++ {
			material := defaultLit
			if (x+y)%2 == 0 {
				material = tinted
			}
			translation := mgl32.Translate3D(float32(x), 0, float32(y))
			scale := mgl32.Scale3D(0.2, 0.2, 0.2)
			s.AddDrawable(triangle, material, translation.Mul4(scale))
		}
	}
}
