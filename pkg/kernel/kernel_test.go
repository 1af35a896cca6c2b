package kernel

import (
	"testing"

	"github.com/chazu/anchorscad/pkg/frame"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

func TestMeshBounds(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		min, max := (&Mesh{}).Bounds()
		if min != [3]float32{} || max != [3]float32{} {
			t.Errorf("Bounds() = %v, %v, want zeros", min, max)
		}
	})
	t.Run("two vertices", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, -2, 3, -1, 5, 0}}
		min, max := m.Bounds()
		if min != [3]float32{-1, -2, 0} {
			t.Errorf("min = %v, want [-1 -2 0]", min)
		}
		if max != [3]float32{1, 5, 3} {
			t.Errorf("max = %v, want [1 5 3]", max)
		}
	})
}

// --- Compile-time interface check with a stub kernel ---

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

type stubProfile struct {
	minBB, maxBB [2]float64
}

func (p *stubProfile) BoundingBox() (min, max [2]float64) {
	return p.minBB, p.maxBB
}

// stubKernel is a minimal Kernel implementation that proves the interface
// is satisfiable. Everything but the primitives is a pass-through.
type stubKernel struct{}

func (k *stubKernel) Box(x, y, z float64) (Solid, error) {
	return &stubSolid{
		minBB: [3]float64{-x / 2, -y / 2, -z / 2},
		maxBB: [3]float64{x / 2, y / 2, z / 2},
	}, nil
}

func (k *stubKernel) Sphere(r float64) (Solid, error) {
	return &stubSolid{
		minBB: [3]float64{-r, -r, -r},
		maxBB: [3]float64{r, r, r},
	}, nil
}

func (k *stubKernel) Cylinder(height, r1, r2 float64) (Solid, error) {
	r := max(r1, r2)
	return &stubSolid{
		minBB: [3]float64{-r, -r, 0},
		maxBB: [3]float64{r, r, height},
	}, nil
}

func (k *stubKernel) Rect(x, y float64) (Profile, error) {
	return &stubProfile{minBB: [2]float64{-x / 2, -y / 2}, maxBB: [2]float64{x / 2, y / 2}}, nil
}

func (k *stubKernel) Circle(r float64) (Profile, error) {
	return &stubProfile{minBB: [2]float64{-r, -r}, maxBB: [2]float64{r, r}}, nil
}

func (k *stubKernel) Polygon(_ []frame.Vector2D) (Profile, error) { return &stubProfile{}, nil }

func (k *stubKernel) Extrude(p Profile, e Extrusion) (Solid, error) {
	min, max := p.BoundingBox()
	return &stubSolid{
		minBB: [3]float64{min[0], min[1], 0},
		maxBB: [3]float64{max[0], max[1], e.Height},
	}, nil
}

func (k *stubKernel) Union(s ...Solid) (Solid, error)                       { return s[0], nil }
func (k *stubKernel) Difference(a Solid, _ ...Solid) (Solid, error)         { return a, nil }
func (k *stubKernel) Intersection(s ...Solid) (Solid, error)                { return s[0], nil }
func (k *stubKernel) Union2D(p ...Profile) (Profile, error)                 { return p[0], nil }
func (k *stubKernel) Difference2D(a Profile, _ ...Profile) (Profile, error) { return a, nil }
func (k *stubKernel) Intersection2D(p ...Profile) (Profile, error)          { return p[0], nil }

func (k *stubKernel) Transform(s Solid, _ frame.Matrix3D) (Solid, error)       { return s, nil }
func (k *stubKernel) Transform2D(p Profile, _ frame.Matrix2D) (Profile, error) { return p, nil }

func (k *stubKernel) ToMesh(_ Solid) (*Mesh, error) {
	return &Mesh{}, nil
}

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Profile = (*stubProfile)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelBoxBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	s, err := k.Box(10, 20, 30)
	if err != nil {
		t.Fatalf("Box() error = %v", err)
	}
	min, max := s.BoundingBox()
	if min != [3]float64{-5, -10, -15} {
		t.Errorf("Box min = %v, want [-5 -10 -15]", min)
	}
	if max != [3]float64{5, 10, 15} {
		t.Errorf("Box max = %v, want [5 10 15]", max)
	}
}

func TestStubKernelExtrude(t *testing.T) {
	var k Kernel = &stubKernel{}
	p, _ := k.Circle(2)
	s, err := k.Extrude(p, Extrusion{Height: 7})
	if err != nil {
		t.Fatalf("Extrude() error = %v", err)
	}
	min, max := s.BoundingBox()
	if min != [3]float64{-2, -2, 0} || max != [3]float64{2, 2, 7} {
		t.Errorf("Extrude bounds = %v, %v", min, max)
	}
}

func TestStubKernelToMesh(t *testing.T) {
	var k Kernel = &stubKernel{}
	s, _ := k.Box(1, 1, 1)
	m, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if m == nil {
		t.Fatal("ToMesh() returned nil mesh")
	}
	if !m.IsEmpty() {
		t.Error("stub ToMesh() should return empty mesh")
	}
}
