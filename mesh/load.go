package mesh

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/fauxgl"
	"github.com/fogleman/simplify"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gmlewis/mesh-slicer/stl"
)

// Load reads a mesh file. STL files are read natively; OBJ and PLY
// files are read with fauxgl.
func Load(filename string) (*Mesh, error) {
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".stl":
		f, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("Open: %v", err)
		}
		defer f.Close()
		tris, err := stl.Read(f)
		if err != nil {
			return nil, fmt.Errorf("stl.Read(%q): %v", filename, err)
		}
		return FromSTL(name, tris), nil
	case ".obj", ".ply":
		var fm *fauxgl.Mesh
		var err error
		if ext == ".obj" {
			fm, err = fauxgl.LoadOBJ(filename)
		} else {
			fm, err = fauxgl.LoadPLY(filename)
		}
		if err != nil {
			return nil, fmt.Errorf("load %q: %v", filename, err)
		}
		return FromFauxGL(name, fm), nil
	default:
		return nil, fmt.Errorf("unsupported mesh file type %q", ext)
	}
}

// FromSTL builds a non-indexed mesh from STL triangles.
func FromSTL(name string, tris []stl.Tri) *Mesh {
	positions := make([]float32, 0, 9*len(tris))
	for _, t := range tris {
		positions = append(positions, t.V1[:]...)
		positions = append(positions, t.V2[:]...)
		positions = append(positions, t.V3[:]...)
	}
	return New(name, positions, nil)
}

// FromFauxGL builds a non-indexed mesh from a fauxgl mesh.
func FromFauxGL(name string, fm *fauxgl.Mesh) *Mesh {
	positions := make([]float32, 0, 9*len(fm.Triangles))
	for _, t := range fm.Triangles {
		for _, v := range []fauxgl.Vector{t.V1.Position, t.V2.Position, t.V3.Position} {
			positions = append(positions, float32(v.X), float32(v.Y), float32(v.Z))
		}
	}
	return New(name, positions, nil)
}

// Simplify returns a world-space decimated copy of the mesh keeping
// roughly factor (0,1] of its triangles.
func (m *Mesh) Simplify(factor float64) *Mesh {
	if factor <= 0 || factor >= 1 {
		return m
	}
	tris := make([]*simplify.Triangle, 0, m.TriangleCount())
	m.Triangles(func(_ int, t [3]mgl64.Vec3) error {
		tris = append(tris, &simplify.Triangle{
			V1: simplify.Vector{X: t[0][0], Y: t[0][1], Z: t[0][2]},
			V2: simplify.Vector{X: t[1][0], Y: t[1][1], Z: t[1][2]},
			V3: simplify.Vector{X: t[2][0], Y: t[2][1], Z: t[2][2]},
		})
		return nil
	})

	before := len(tris)
	out := simplify.NewMesh(tris).Simplify(factor)
	log.Printf("Simplified %q from %v to %v triangles", m.Name, before, len(out.Triangles))

	result := make([][3]mgl64.Vec3, 0, len(out.Triangles))
	for _, t := range out.Triangles {
		result = append(result, [3]mgl64.Vec3{
			{t.V1.X, t.V1.Y, t.V1.Z},
			{t.V2.X, t.V2.Y, t.V2.Z},
			{t.V3.X, t.V3.Y, t.V3.Z},
		})
	}
	return FromTriangles(m.Name, result)
}
