package section

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gmlewis/mesh-slicer/mesh"
)

// Segment is one piece of a section, produced by a single triangle.
// Each endpoint carries the identity of the mesh edge (or vertex) it
// lies on.
type Segment struct {
	A, B     mgl64.Vec3
	IDA, IDB EdgeID
}

// Stats counts what happened while sectioning.
type Stats struct {
	Triangles  int `json:"triangles"`  // triangles visited
	Segments   int `json:"segments"`   // segments emitted
	Skipped    int `json:"skipped"`    // triangles touching the plane without a segment
	Degenerate int `json:"degenerate"` // closed loops dropped for having under 3 points
}

// Extractor turns triangles into section segments for one plane.
type Extractor struct {
	Plane Plane
	// Precision is the rounding multiplier for points. Zero means
	// DefaultPrecision.
	Precision float64

	Stats Stats
}

type hit struct {
	point  mgl64.Vec3
	id     EdgeID
	vertex int // index of the triangle vertex the hit sits on, or -1
}

func (e *Extractor) precision() float64 {
	if e.Precision == 0 {
		return DefaultPrecision
	}
	return e.Precision
}

// Mesh rounds the world-space triangles of m and calls fn with every
// segment they produce.
func (e *Extractor) Mesh(m *mesh.Mesh, fn func(Segment)) {
	if len(m.Indices) > 0 {
		m = m.ToNonIndexed()
	}
	prec := e.precision()
	m.Triangles(func(_ int, t [3]mgl64.Vec3) error {
		for i := range t {
			t[i] = RoundTo(t[i], prec)
		}
		if seg, ok := e.Triangle(t); ok {
			fn(seg)
		}
		return nil
	})
}

// Triangle returns the segment along which the plane cuts triangle v.
// The vertices are expected to be rounded already.
func (e *Extractor) Triangle(v [3]mgl64.Vec3) (Segment, bool) {
	e.Stats.Triangles++

	var d [3]float64
	for i := range v {
		d[i] = e.Plane.distance(v[i])
	}

	var hits [3]hit
	n := 0
	for i := 0; i < 3; i++ {
		if h, ok := e.edge(v, d, i, (i+1)%3); ok {
			hits[n] = h
			n++
		}
	}

	var seg Segment
	var ok bool
	switch n {
	case 2:
		seg, ok = twoHits(d, hits[0], hits[1])
	case 3:
		seg, ok = threeHits(d, hits[:])
	}
	if ok {
		e.Stats.Segments++
	} else if n > 0 {
		e.Stats.Skipped++
	}
	return seg, ok
}

// edge intersects triangle edge v[i]-v[j] with the plane.
func (e *Extractor) edge(v [3]mgl64.Vec3, d [3]float64, i, j int) (hit, bool) {
	p, ok := crossing(v[i], v[j], d[i], d[j])
	if !ok {
		return hit{}, false
	}
	switch {
	case d[i] == 0:
		return hit{point: v[i], id: VertexID(v[i]), vertex: i}, true
	case d[j] == 0:
		return hit{point: v[j], id: VertexID(v[j]), vertex: j}, true
	}
	return hit{point: RoundTo(p, e.precision()), id: IDFromPoints(v[i], v[j]), vertex: -1}, true
}

func twoHits(d [3]float64, a, b hit) (Segment, bool) {
	if a.id == b.id {
		return Segment{}, false // the plane only grazes a vertex
	}
	if a.vertex >= 0 && b.vertex >= 0 {
		// A whole triangle edge lies in the plane. Both triangles sharing
		// it see the same two hits; only the one on the positive side
		// emits it.
		third := 3 - a.vertex - b.vertex
		if d[third] <= 0 {
			return Segment{}, false
		}
	}
	return Segment{A: a.point, B: b.point, IDA: a.id, IDB: b.id}, true
}

// threeHits handles a triangle with exactly one vertex on the plane and
// the other two on opposite sides. Every other pattern yields nothing.
func threeHits(d [3]float64, hits []hit) (Segment, bool) {
	zero := -1
	for i, di := range d {
		if di != 0 {
			continue
		}
		if zero >= 0 {
			return Segment{}, false
		}
		zero = i
	}
	if zero < 0 {
		return Segment{}, false
	}
	i, j := (zero+1)%3, (zero+2)%3
	if (d[i] > 0) == (d[j] > 0) {
		return Segment{}, false
	}

	var vertex, cross *hit
	for k := range hits {
		h := &hits[k]
		switch {
		case h.vertex == zero && vertex == nil:
			vertex = h
		case h.vertex < 0:
			cross = h
		}
	}
	if vertex == nil || cross == nil {
		return Segment{}, false
	}
	return Segment{A: vertex.point, B: cross.point, IDA: vertex.id, IDB: cross.id}, true
}
