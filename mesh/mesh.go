// Package mesh holds triangle meshes in a flat vertex-buffer layout.
package mesh

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mesh is a triangle mesh. Positions holds x,y,z triples. When Indices
// is empty every three consecutive vertices form a triangle, otherwise
// every three consecutive indices do.
type Mesh struct {
	Name      string     `json:"name"`
	Positions []float32  `json:"vertices"`
	Indices   []uint32   `json:"indices,omitempty"`
	Transform mgl64.Mat4 `json:"transform"`

	// Closure marks generated cap meshes so that scene sectioning skips them.
	Closure bool `json:"-"`
}

// New returns a mesh with an identity transform.
func New(name string, positions []float32, indices []uint32) *Mesh {
	return &Mesh{
		Name:      name,
		Positions: positions,
		Indices:   indices,
		Transform: mgl64.Ident4(),
	}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return m.VertexCount() / 3
}

// IsEmpty reports whether the mesh has no triangles.
func (m *Mesh) IsEmpty() bool {
	return m.TriangleCount() == 0
}

// Validate checks buffer lengths and index ranges.
func (m *Mesh) Validate() error {
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("mesh %q: %v position values is not a multiple of 3", m.Name, len(m.Positions))
	}
	if len(m.Indices) == 0 {
		if m.VertexCount()%3 != 0 {
			return fmt.Errorf("mesh %q: %v vertices is not a multiple of 3", m.Name, m.VertexCount())
		}
		return nil
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh %q: %v indices is not a multiple of 3", m.Name, len(m.Indices))
	}
	n := uint32(m.VertexCount())
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("mesh %q: index #%v (%v) out of range [0,%v)", m.Name, i, idx, n)
		}
	}
	return nil
}

// World returns the local-to-world matrix. A zero Transform is
// treated as the identity.
func (m *Mesh) World() mgl64.Mat4 {
	if m.Transform == (mgl64.Mat4{}) {
		return mgl64.Ident4()
	}
	return m.Transform
}

// Vertex returns vertex i in local coordinates.
func (m *Mesh) Vertex(i int) mgl64.Vec3 {
	return mgl64.Vec3{
		float64(m.Positions[3*i]),
		float64(m.Positions[3*i+1]),
		float64(m.Positions[3*i+2]),
	}
}

// ToNonIndexed returns a copy of the mesh with every triangle owning its
// own three vertices. Non-indexed meshes are copied as is.
func (m *Mesh) ToNonIndexed() *Mesh {
	out := &Mesh{Name: m.Name, Transform: m.Transform, Closure: m.Closure}
	if len(m.Indices) == 0 {
		out.Positions = append([]float32(nil), m.Positions...)
		return out
	}
	out.Positions = make([]float32, 0, 3*len(m.Indices))
	for _, idx := range m.Indices {
		out.Positions = append(out.Positions, m.Positions[3*idx:3*idx+3]...)
	}
	return out
}

// TriangleFunc receives triangle number n in world coordinates.
type TriangleFunc func(n int, t [3]mgl64.Vec3) error

// Triangles calls fn for every triangle, transformed to world space.
// It stops at the first error returned by fn.
func (m *Mesh) Triangles(fn TriangleFunc) error {
	world := m.World()
	vertex := func(i int) mgl64.Vec3 {
		return mgl64.TransformCoordinate(m.Vertex(i), world)
	}
	for n := 0; n < m.TriangleCount(); n++ {
		var t [3]mgl64.Vec3
		for k := 0; k < 3; k++ {
			i := 3*n + k
			if len(m.Indices) > 0 {
				i = int(m.Indices[i])
			}
			t[k] = vertex(i)
		}
		if err := fn(n, t); err != nil {
			return err
		}
	}
	return nil
}

// Bounds returns the world-space bounding box of the mesh.
// An empty mesh returns zero vectors.
func (m *Mesh) Bounds() (min, max mgl64.Vec3) {
	if m.IsEmpty() {
		return min, max
	}
	min = mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	m.Triangles(func(_ int, t [3]mgl64.Vec3) error {
		for _, v := range t {
			for i := 0; i < 3; i++ {
				min[i] = math.Min(min[i], v[i])
				max[i] = math.Max(max[i], v[i])
			}
		}
		return nil
	})
	return min, max
}

// Translate returns a shallow copy of the mesh moved by offset in world space.
func (m *Mesh) Translate(offset mgl64.Vec3) *Mesh {
	out := *m
	out.Transform = mgl64.Translate3D(offset[0], offset[1], offset[2]).Mul4(m.World())
	return &out
}

// Merge bakes the transforms of meshes into a single non-indexed mesh.
func Merge(name string, meshes ...*Mesh) *Mesh {
	out := New(name, nil, nil)
	for _, m := range meshes {
		m.Triangles(func(_ int, t [3]mgl64.Vec3) error {
			for _, v := range t {
				out.Positions = append(out.Positions, float32(v[0]), float32(v[1]), float32(v[2]))
			}
			return nil
		})
	}
	return out
}

// FromTriangles builds a non-indexed mesh from world-space triangles.
func FromTriangles(name string, tris [][3]mgl64.Vec3) *Mesh {
	positions := make([]float32, 0, 9*len(tris))
	for _, t := range tris {
		for _, v := range t {
			positions = append(positions, float32(v[0]), float32(v[1]), float32(v[2]))
		}
	}
	return New(name, positions, nil)
}
