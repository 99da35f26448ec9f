package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestRegistryLookup(t *testing.T) {
	s := New()
	triangle := s.RegisterMesh("triangle", TriangleVertices())
	lit := s.RegisterMaterial("default_lit", false)

	if got := s.Mesh("triangle"); got != triangle {
		t.Fatalf("Mesh(triangle) = %v, want the registered instance", got)
	}
	if got := s.Material("default_lit"); got != lit {
		t.Fatalf("Material(default_lit) = %v, want the registered instance", got)
	}
	if got := s.Mesh("monkey"); got != nil {
		t.Fatalf("Mesh(monkey) = %v, want nil for an unknown name", got)
	}
	if got := s.Material("glass"); got != nil {
		t.Fatalf("Material(glass) = %v, want nil for an unknown name", got)
	}
}

func TestInternalIDsFollowRegistrationOrder(t *testing.T) {
	s := New()
	names := []string{"a", "b", "c"}
	for i, name := range names {
		mesh := s.RegisterMesh(name, TriangleVertices())
		if mesh.InternalID != uint32(i) {
			t.Errorf("mesh %q InternalID = %d, want %d", name, mesh.InternalID, i)
		}
		material := s.RegisterMaterial(name, false)
		if material.InternalID != uint32(i) {
			t.Errorf("material %q InternalID = %d, want %d", name, material.InternalID, i)
		}
	}
}

func TestAddDrawableIgnoresNilReferences(t *testing.T) {
	s := New()
	mesh := s.RegisterMesh("triangle", TriangleVertices())
	material := s.RegisterMaterial("default_lit", false)

	s.AddDrawable(nil, material, mgl32.Ident4())
	s.AddDrawable(mesh, nil, mgl32.Ident4())
	if got := len(s.Drawables()); got != 0 {
		t.Fatalf("drawables after nil adds = %d, want 0", got)
	}

	s.AddDrawable(mesh, material, mgl32.Ident4())
	if got := len(s.Drawables()); got != 1 {
		t.Fatalf("drawables = %d, want 1", got)
	}
}

func TestProceduralGeometry(t *testing.T) {
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"triangle", len(TriangleVertices()), 3},
		{"quad", len(QuadVertices()), 6},
		{"cube", len(CubeVertices()), 36},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s vertex count = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestCubeNormalsAreUnitAxes(t *testing.T) {
	for i, v := range CubeVertices() {
		if l := v.Normal.Len(); l < 0.999 || l > 1.001 {
			t.Fatalf("vertex %d normal length = %f, want 1", i, l)
		}
	}
}

func TestBuildDemoScene(t *testing.T) {
	s := New()
	BuildDemoScene(s)

	for _, name := range []string{"triangle", "quad", "cube"} {
		if s.Mesh(name) == nil {
			t.Errorf("demo scene missing mesh %q", name)
		}
	}
	for _, name := range []string{"default_lit", "tinted"} {
		if s.Material(name) == nil {
			t.Errorf("demo scene missing material %q", name)
		}
	}

	// cube + quad + 41x41 triangle grid
	want := 2 + 41*41
	if got := len(s.Drawables()); got != want {
		t.Fatalf("demo scene drawables = %d, want %d", got, want)
	}

	// both materials must actually appear in the grid
	counts := map[string]int{}
	for _, d := range s.Drawables() {
		counts[d.Material.Name]++
	}
	if counts["default_lit"] == 0 || counts["tinted"] == 0 {
		t.Fatalf("material distribution = %v, want both materials used", counts)
	}
}

func TestCameraViewRebuildsAfterMove(t *testing.T) {
	c := NewCamera()
	before := c.View()
	c.MoveForward(1)
	after := c.View()
	if before == after {
		t.Fatal("view matrix unchanged after MoveForward")
	}
	if again := c.View(); again != after {
		t.Fatal("view matrix changed without a move")
	}
}

func TestAmbientPulseStaysInRange(t *testing.T) {
	for frame := uint64(0); frame < 2000; frame += 17 {
		p := AmbientPulse(frame)
		if p < -1 || p > 1 {
			t.Fatalf("AmbientPulse(%d) = %f, out of [-1,1]", frame, p)
		}
	}
}
