package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Box returns a closed, outward-facing box of the given size centered
// on the origin, built from 8 shared vertices and 12 triangles.
func Box(name string, width, height, depth float64) *Mesh {
	x, y, z := float32(width/2), float32(height/2), float32(depth/2)
	positions := []float32{
		-x, -y, -z, // 0
		x, -y, -z, // 1
		x, y, -z, // 2
		-x, y, -z, // 3
		-x, -y, z, // 4
		x, -y, z, // 5
		x, y, z, // 6
		-x, y, z, // 7
	}
	indices := []uint32{
		0, 3, 2, 0, 2, 1, // -Z
		4, 5, 6, 4, 6, 7, // +Z
		0, 1, 5, 0, 5, 4, // -Y
		3, 7, 6, 3, 6, 2, // +Y
		0, 4, 7, 0, 7, 3, // -X
		1, 2, 6, 1, 6, 5, // +X
	}
	return New(name, positions, indices)
}

// Sphere returns a closed UV sphere centered on the origin.
// The poles are single vertices and the seam is shared.
func Sphere(name string, radius float64, widthSegments, heightSegments int) *Mesh {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}

	var positions []float32
	add := func(x, y, z float64) uint32 {
		positions = append(positions, float32(x), float32(y), float32(z))
		return uint32(len(positions)/3 - 1)
	}

	top := add(0, radius, 0)
	rings := make([][]uint32, 0, heightSegments-1)
	for iy := 1; iy < heightSegments; iy++ {
		theta := math.Pi * float64(iy) / float64(heightSegments)
		ring := make([]uint32, widthSegments)
		for ix := range ring {
			phi := 2 * math.Pi * float64(ix) / float64(widthSegments)
			ring[ix] = add(
				-radius*math.Cos(phi)*math.Sin(theta),
				radius*math.Cos(theta),
				radius*math.Sin(phi)*math.Sin(theta))
		}
		rings = append(rings, ring)
	}
	bottom := add(0, -radius, 0)

	var indices []uint32
	first, last := rings[0], rings[len(rings)-1]
	for ix := 0; ix < widthSegments; ix++ {
		next := (ix + 1) % widthSegments
		indices = append(indices, top, first[ix], first[next])
		indices = append(indices, bottom, last[next], last[ix])
	}
	for r := 0; r+1 < len(rings); r++ {
		a, b := rings[r], rings[r+1]
		for ix := 0; ix < widthSegments; ix++ {
			next := (ix + 1) % widthSegments
			indices = append(indices, a[ix], b[ix], a[next])
			indices = append(indices, a[next], b[ix], b[next])
		}
	}
	return New(name, positions, indices)
}

// Torus returns a closed torus around the Z axis. radius is the distance
// from the center to the middle of the tube.
func Torus(name string, radius, tube float64, radialSegments, tubularSegments int) *Mesh {
	return tube3D(name, radialSegments, tubularSegments, func(u, v float64) (float64, float64, float64) {
		r := radius + tube*math.Cos(v)
		return r * math.Cos(u), r * math.Sin(u), tube * math.Sin(v)
	})
}

// TorusKnot returns a closed (p,q) torus knot tube.
func TorusKnot(name string, radius, tube float64, tubularSegments, radialSegments, p, q int) *Mesh {
	curve := func(u float64) mgl64.Vec3 {
		quOverP := float64(q) / float64(p) * u
		cs := math.Cos(quOverP)
		return mgl64.Vec3{
			radius * (2 + cs) * 0.5 * math.Cos(u),
			radius * (2 + cs) * 0.5 * math.Sin(u),
			radius * math.Sin(quOverP) * 0.5,
		}
	}
	return tube3D(name, radialSegments, tubularSegments, func(u, v float64) (float64, float64, float64) {
		u *= float64(p)
		p1, p2 := curve(u), curve(u+0.01)
		t := p2.Sub(p1)
		b := t.Cross(p2.Add(p1)).Normalize()
		n := b.Cross(t).Normalize()
		pt := p1.Add(n.Mul(-tube * math.Cos(v))).Add(b.Mul(tube * math.Sin(v)))
		return pt[0], pt[1], pt[2]
	})
}

// tube3D builds a closed grid surface where both parameters wrap around.
// u runs along the tube and v around it, both in [0, 2π).
func tube3D(name string, radialSegments, tubularSegments int, surface func(u, v float64) (x, y, z float64)) *Mesh {
	if radialSegments < 3 {
		radialSegments = 3
	}
	if tubularSegments < 3 {
		tubularSegments = 3
	}

	positions := make([]float32, 0, 3*radialSegments*tubularSegments)
	for i := 0; i < tubularSegments; i++ {
		u := 2 * math.Pi * float64(i) / float64(tubularSegments)
		for j := 0; j < radialSegments; j++ {
			v := 2 * math.Pi * float64(j) / float64(radialSegments)
			x, y, z := surface(u, v)
			positions = append(positions, float32(x), float32(y), float32(z))
		}
	}

	index := func(i, j int) uint32 {
		return uint32((i%tubularSegments)*radialSegments + j%radialSegments)
	}
	indices := make([]uint32, 0, 6*radialSegments*tubularSegments)
	for i := 0; i < tubularSegments; i++ {
		for j := 0; j < radialSegments; j++ {
			a, b := index(i, j), index(i+1, j)
			c, d := index(i+1, j+1), index(i, j+1)
			indices = append(indices, a, b, d, b, c, d)
		}
	}
	return New(name, positions, indices)
}

// DemoScene returns the sweep demo parts: two cubes, a sphere above them
// and a torus knot below them.
func DemoScene() []*Mesh {
	return []*Mesh{
		Box("cube1", 10, 10, 10),
		Box("cube2", 10, 10, 10).Translate(mgl64.Vec3{2, 15, 0}),
		Sphere("sphere", 8, 8, 6).Translate(mgl64.Vec3{0, 0, 18}),
		TorusKnot("torus-knot", 10, 3, 100, 16, 2, 3).Translate(mgl64.Vec3{0, 0, -18}),
	}
}
