package mesh

import (
	"fmt"
	"math"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"
	"github.com/tdewolff/test"

	"github.com/gmlewis/mesh-slicer/stl"
)

// signedVolume returns the volume enclosed by a closed mesh. It is
// positive when the triangles face outward.
func signedVolume(m *Mesh) float64 {
	var v float64
	m.Triangles(func(_ int, t [3]mgl64.Vec3) error {
		v += t[0].Dot(t[1].Cross(t[2])) / 6
		return nil
	})
	return v
}

// unpairedEdges returns the number of directed edges that have no
// opposite edge in the mesh.
func unpairedEdges(m *Mesh) int {
	type edge struct{ a, b uint32 }
	edges := map[edge]int{}
	for i := 0; i < len(m.Indices); i += 3 {
		for k := 0; k < 3; k++ {
			a, b := m.Indices[i+k], m.Indices[i+(k+1)%3]
			edges[edge{a, b}]++
		}
	}
	var n int
	for e, count := range edges {
		if count != 1 || edges[edge{e.b, e.a}] != 1 {
			n++
		}
	}
	return n
}

func TestPrimitives(t *testing.T) {
	tests := []struct {
		name          string
		m             *Mesh
		wantTriangles int
		wantVolume    float64
		tolerance     float64
	}{
		{
			name:          "box",
			m:             Box("box", 1, 2, 3),
			wantTriangles: 12,
			wantVolume:    6,
			tolerance:     1e-6,
		},
		{
			name:          "sphere",
			m:             Sphere("sphere", 1, 32, 16),
			wantTriangles: 2 * 32 * 15,
			wantVolume:    4 * math.Pi / 3,
			tolerance:     0.25,
		},
		{
			name:          "torus",
			m:             Torus("torus", 2, 0.5, 16, 32),
			wantTriangles: 2 * 16 * 32,
			wantVolume:    2 * math.Pi * math.Pi * 2 * 0.5 * 0.5,
			tolerance:     0.5,
		},
		{
			name:          "torus knot",
			m:             TorusKnot("knot", 10, 3, 100, 16, 2, 3),
			wantTriangles: 2 * 100 * 16,
		},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("test #%v: %v", i, tt.name), func(t *testing.T) {
			test.Error(t, tt.m.Validate())
			test.T(t, tt.m.TriangleCount(), tt.wantTriangles)
			test.T(t, unpairedEdges(tt.m), 0)
			if tt.wantVolume > 0 {
				test.FloatDiff(t, signedVolume(tt.m), tt.wantVolume, tt.tolerance)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		m       *Mesh
		wantErr bool
	}{
		{name: "empty", m: New("empty", nil, nil)},
		{name: "triangle soup", m: New("soup", make([]float32, 9), nil)},
		{name: "partial position", m: New("bad", make([]float32, 8), nil), wantErr: true},
		{name: "partial triangle", m: New("bad", make([]float32, 6), nil), wantErr: true},
		{name: "partial index triangle", m: New("bad", make([]float32, 9), []uint32{0, 1}), wantErr: true},
		{name: "index out of range", m: New("bad", make([]float32, 9), []uint32{0, 1, 3}), wantErr: true},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("test #%v: %v", i, tt.name), func(t *testing.T) {
			err := tt.m.Validate()
			test.T(t, err != nil, tt.wantErr, err)
		})
	}
}

func TestToNonIndexed(t *testing.T) {
	box := Box("box", 1, 1, 1)
	flat := box.ToNonIndexed()
	test.T(t, flat.TriangleCount(), 12)
	test.T(t, flat.VertexCount(), 36)
	test.T(t, len(flat.Indices), 0)

	var want, got [][3]mgl64.Vec3
	box.Triangles(func(_ int, t [3]mgl64.Vec3) error { want = append(want, t); return nil })
	flat.Triangles(func(_ int, t [3]mgl64.Vec3) error { got = append(got, t); return nil })
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Triangles mismatch (-want +got):\n%v", diff)
	}
}

func TestTransform(t *testing.T) {
	box := Box("box", 2, 2, 2)
	moved := box.Translate(mgl64.Vec3{10, 0, 0}).Translate(mgl64.Vec3{0, -1, 0})

	min, max := moved.Bounds()
	test.T(t, min, mgl64.Vec3{9, -2, -1})
	test.T(t, max, mgl64.Vec3{11, 0, 1})

	// The original is untouched.
	min, max = box.Bounds()
	test.T(t, min, mgl64.Vec3{-1, -1, -1})
	test.T(t, max, mgl64.Vec3{1, 1, 1})

	zero := &Mesh{Name: "zero", Positions: box.Positions, Indices: box.Indices}
	test.T(t, zero.World(), mgl64.Ident4())
}

func TestTrianglesStops(t *testing.T) {
	errStop := fmt.Errorf("stop")
	var calls int
	err := Box("box", 1, 1, 1).Triangles(func(n int, _ [3]mgl64.Vec3) error {
		calls++
		if n == 2 {
			return errStop
		}
		return nil
	})
	test.T(t, err, errStop)
	test.T(t, calls, 3)
}

func TestMerge(t *testing.T) {
	a := Box("a", 1, 1, 1)
	b := Box("b", 1, 1, 1).Translate(mgl64.Vec3{0, 0, 5})
	m := Merge("ab", a, b)

	test.T(t, m.Name, "ab")
	test.T(t, m.TriangleCount(), 24)
	test.T(t, len(m.Indices), 0)
	test.T(t, m.Transform, mgl64.Ident4())
	min, max := m.Bounds()
	test.T(t, min, mgl64.Vec3{-0.5, -0.5, -0.5})
	test.T(t, max, mgl64.Vec3{0.5, 0.5, 5.5})
	test.T(t, (&Mesh{}).IsEmpty(), true)
}

func TestFromTriangles(t *testing.T) {
	tris := [][3]mgl64.Vec3{{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}
	m := FromTriangles("tri", tris)
	test.T(t, m.TriangleCount(), 1)
	test.T(t, m.Vertex(1), mgl64.Vec3{1, 0, 0})
}

func TestLoadSTL(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "part.stl")
	w, err := stl.New(filename)
	test.Error(t, err)
	box := Box("box", 1, 1, 1)
	box.Triangles(func(_ int, v [3]mgl64.Vec3) error {
		return w.Write(stl.NewTri(v[0], v[1], v[2]))
	})
	test.Error(t, w.Close())

	m, err := Load(filename)
	test.Error(t, err)
	test.T(t, m.Name, "part")
	test.T(t, m.TriangleCount(), 12)
	test.FloatDiff(t, signedVolume(m), 1, 1e-6)

	_, err = Load(filepath.Join(t.TempDir(), "part.3mf"))
	test.That(t, err != nil, "unsupported extension must fail")
}

func TestSimplify(t *testing.T) {
	sphere := Sphere("sphere", 1, 32, 16)
	test.T(t, sphere.Simplify(1), sphere)

	got := sphere.Simplify(0.5)
	test.That(t, got.TriangleCount() < sphere.TriangleCount(), "triangles", got.TriangleCount())
	test.That(t, got.TriangleCount() > 0, "triangles", got.TriangleCount())
	test.T(t, got.Name, "sphere")
}

func TestDemoScene(t *testing.T) {
	scene := DemoScene()
	test.T(t, len(scene), 4)
	for _, m := range scene {
		test.Error(t, m.Validate())
		test.T(t, unpairedEdges(m), 0, m.Name)
	}
	min, max := scene[1].Bounds()
	test.T(t, min, mgl64.Vec3{-3, 10, -5})
	test.T(t, max, mgl64.Vec3{7, 20, 5})
}
