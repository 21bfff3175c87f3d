package section

import (
	"fmt"
	"math"
	"sort"

	"github.com/ByteArena/poly2tri-go"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// DefaultOffset is how far closure caps are pushed along the plane
// normal so they do not z-fight with the cut surface.
const DefaultOffset = 0.01

// Closure is the filled cap of one outer loop and the holes inside it.
type Closure struct {
	Outer     Loop            `json:"outer"`
	Holes     []Loop          `json:"holes,omitempty"`
	Triangles [][3]mgl64.Vec3 `json:"triangles"`
	Normal    mgl64.Vec3      `json:"normal"`
}

// Area returns the area of the cap triangles.
func (c *Closure) Area() float64 {
	var sum float64
	for _, t := range c.Triangles {
		sum += t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Len() / 2
	}
	return sum
}

// ClosureBuilder triangulates section loops into caps.
type ClosureBuilder struct {
	// Offset moves caps along the plane normal.
	Offset float64
	// Precision is the rounding multiplier the loops were built with.
	// Zero means DefaultPrecision.
	Precision float64
}

// retryScales are the tolerance multipliers tried, in order, when a
// closure fails to triangulate.
var retryScales = []float64{10, 100}

// ring is a loop rotated into the plane frame.
type ring struct {
	loop  Loop
	flat  orb.Ring // closed, first point repeated
	area  float64  // signed, positive when counter-clockwise
	depth int
}

// Build returns one triangulated closure per outer loop.
func (b *ClosureBuilder) Build(plane Plane, loops []Loop) ([]Closure, error) {
	q := plane.frame()
	closures := b.Nest(plane, loops)

	offset := plane.Normal.Mul(b.Offset)
	tol := Tolerance(b.Precision)
	for i := range closures {
		c := &closures[i]
		tris, err := triangulate(q, c.Outer, c.Holes)
		for _, scale := range retryScales {
			if err == nil {
				break
			}
			c.Outer = c.Outer.SimplifyTolerance(tol * scale)
			for k, h := range c.Holes {
				c.Holes[k] = h.SimplifyTolerance(tol * scale)
			}
			tris, err = triangulate(q, c.Outer, c.Holes)
		}
		if err != nil {
			return nil, fmt.Errorf("closure #%v: %v", i, err)
		}
		for k := range tris {
			for v := range tris[k] {
				tris[k][v] = tris[k][v].Add(offset)
			}
		}
		c.Triangles = tris
	}
	return closures, nil
}

// Nest groups loops into outer boundaries and their holes using
// DefaultPrecision.
func Nest(plane Plane, loops []Loop) []Closure {
	return (&ClosureBuilder{}).Nest(plane, loops)
}

// Nest groups loops into outer boundaries and their holes, without
// triangulating them. Loops nested at an odd depth become holes of their
// immediate container. Outer loops wind counter-clockwise around the
// plane normal and holes clockwise.
func (b *ClosureBuilder) Nest(plane Plane, loops []Loop) []Closure {
	q := plane.frame()
	tol := Tolerance(b.Precision)

	var rings []*ring
	for _, l := range loops {
		l = l.SimplifyTolerance(tol)
		if len(l) < 3 {
			continue
		}
		r := &ring{loop: l, flat: make(orb.Ring, 0, len(l)+1)}
		for _, p := range l {
			v := q.Rotate(p)
			r.flat = append(r.flat, orb.Point{v[0], v[1]})
		}
		r.flat = append(r.flat, r.flat[0])
		_, r.area = planar.CentroidArea(r.flat)
		if r.area == 0 {
			continue
		}
		rings = append(rings, r)
	}

	// Larger rings first, so every container precedes what it contains.
	sort.SliceStable(rings, func(i, j int) bool {
		return math.Abs(rings[i].area) > math.Abs(rings[j].area)
	})

	parents := make([]int, len(rings))
	for i, r := range rings {
		parents[i] = -1
		for j := i - 1; j >= 0; j-- {
			if planar.RingContains(rings[j].flat, r.flat[0]) {
				parents[i] = j
				r.depth = rings[j].depth + 1
				break
			}
		}
	}

	var closures []Closure
	outer := map[int]int{} // ring index to closure index
	for i, r := range rings {
		if r.depth%2 == 0 {
			outer[i] = len(closures)
			closures = append(closures, Closure{Outer: orient(r, true), Normal: plane.Normal})
		}
	}
	for i, r := range rings {
		if r.depth%2 == 1 {
			ci := outer[parents[i]]
			closures[ci].Holes = append(closures[ci].Holes, orient(r, false))
		}
	}

	return closures
}

// orient returns the loop counter-clockwise in the plane frame when ccw
// is set, clockwise otherwise.
func orient(r *ring, ccw bool) Loop {
	if (r.area > 0) == ccw {
		return r.loop
	}
	return r.loop.Reverse()
}

// triangulate fills outer minus holes. Triangle vertices are the
// original world-space loop points, wound counter-clockwise around the
// plane normal.
func triangulate(q mgl64.Quat, outer Loop, holes []Loop) (tris [][3]mgl64.Vec3, err error) {
	defer func() {
		if r := recover(); r != nil {
			tris, err = nil, fmt.Errorf("triangulate: %v", r)
		}
	}()

	world := map[*poly2tri.Point]mgl64.Vec3{}
	contour := func(l Loop) []*poly2tri.Point {
		flat := flatten(q, l)
		pts := make([]*poly2tri.Point, 0, len(flat))
		for _, fp := range flat {
			pt := poly2tri.NewPoint(fp.x, fp.y)
			world[pt] = fp.world
			pts = append(pts, pt)
		}
		return pts
	}

	pts := contour(outer)
	if len(pts) < 3 {
		// Too thin to fill.
		return nil, nil
	}
	swctx := poly2tri.NewSweepContext(pts, false)
	for _, h := range holes {
		if hole := contour(h); len(hole) >= 3 {
			swctx.AddHole(hole)
		}
	}
	swctx.Triangulate()

	for _, t := range swctx.GetTriangles() {
		var tri [3]mgl64.Vec3
		for k, pt := range t.Points {
			p, ok := world[pt]
			if !ok {
				return nil, fmt.Errorf("triangulate: unexpected point (%v,%v)", pt.X, pt.Y)
			}
			tri[k] = p
		}
		a, b, c := t.Points[0], t.Points[1], t.Points[2]
		if (b.X-a.X)*(c.Y-a.Y)-(b.Y-a.Y)*(c.X-a.X) < 0 {
			tri[1], tri[2] = tri[2], tri[1]
		}
		tris = append(tris, tri)
	}
	return tris, nil
}

// flatPoint is a loop point rotated into the plane frame.
type flatPoint struct {
	x, y  float64
	world mgl64.Vec3
}

// flatten rotates l into the plane frame and drops every point that
// poly2tri would report as collinear with its neighbors.
func flatten(q mgl64.Quat, l Loop) []flatPoint {
	pts := make([]flatPoint, 0, len(l))
	for _, p := range l {
		v := q.Rotate(p)
		pts = append(pts, flatPoint{x: v[0], y: v[1], world: p})
	}
	for changed := true; changed && len(pts) >= 3; {
		changed = false
		for i := 0; i < len(pts) && len(pts) >= 3; i++ {
			a, b, c := pts[(i+len(pts)-1)%len(pts)], pts[i], pts[(i+1)%len(pts)]
			// Same determinant as poly2tri.Orient2d.
			det := (a.x-c.x)*(b.y-c.y) - (a.y-c.y)*(b.x-c.x)
			if math.Abs(det) >= poly2tri.EPSILON {
				continue
			}
			pts = append(pts[:i], pts[i+1:]...)
			changed = true
			i--
		}
	}
	return pts
}
