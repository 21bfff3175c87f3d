package section

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gmlewis/mesh-slicer/mesh"
)

// Result is the section of one mesh by one plane.
type Result struct {
	Part  string `json:"part"`
	Loops []Loop `json:"loops"`
	Open  []Path `json:"open,omitempty"`
	Stats Stats  `json:"stats"`

	precision float64
}

// Options control sectioning.
type Options struct {
	// Precision is the rounding multiplier for points. Zero means
	// DefaultPrecision.
	Precision float64
}

// Section cuts m with plane using default options.
func Section(m *mesh.Mesh, plane Plane) *Result {
	return Options{}.Section(m, plane)
}

// SectionScene cuts every part with plane, skipping closure meshes
// generated by earlier sections.
func SectionScene(parts []*mesh.Mesh, plane Plane) []*Result {
	return Options{}.SectionScene(parts, plane)
}

// Section cuts m with plane. Each call uses a fresh composer.
func (o Options) Section(m *mesh.Mesh, plane Plane) *Result {
	e := &Extractor{Plane: plane, Precision: o.Precision}
	c := NewComposer()
	e.Mesh(m, c.Add)

	stats := e.Stats
	stats.Degenerate = c.Stats.Degenerate
	return &Result{
		Part:  m.Name,
		Loops: c.Loops(),
		Open:  c.Open(),
		Stats: stats,

		precision: o.Precision,
	}
}

// SectionScene cuts every part with plane, skipping closure meshes.
func (o Options) SectionScene(parts []*mesh.Mesh, plane Plane) []*Result {
	var results []*Result
	for _, m := range parts {
		if m.Closure {
			continue
		}
		results = append(results, o.Section(m, plane))
	}
	return results
}

// Closures builds the caps of the section loops.
func (r *Result) Closures(plane Plane, offset float64) ([]Closure, error) {
	b := &ClosureBuilder{Offset: offset, Precision: r.precision}
	return b.Build(plane, r.Loops)
}

// ClosureMesh returns the caps as a mesh flagged as a closure, so that
// it is skipped when the scene is sectioned again.
func ClosureMesh(name string, closures []Closure) *mesh.Mesh {
	var tris [][3]mgl64.Vec3
	for _, c := range closures {
		tris = append(tris, c.Triangles...)
	}
	m := mesh.FromTriangles(name, tris)
	m.Closure = true
	return m
}
