// Package section cuts triangle meshes with a plane and stitches the
// resulting segments into closed cross-section loops.
package section

import (
	"math"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultPrecision is the rounding multiplier applied to every point
// before it is compared or used as part of an identity.
const DefaultPrecision = 10000

// EdgeID identifies the mesh edge (or mesh vertex) a section point was
// computed from. Both triangles sharing an edge agree on its EdgeID.
type EdgeID string

// Round snaps v to the nearest 1/DefaultPrecision unit.
func Round(v mgl64.Vec3) mgl64.Vec3 {
	return RoundTo(v, DefaultPrecision)
}

// RoundTo snaps v to the nearest 1/precision unit.
// A non-positive precision leaves v unchanged.
func RoundTo(v mgl64.Vec3, precision float64) mgl64.Vec3 {
	if precision <= 0 {
		return v
	}
	return mgl64.Vec3{
		roundf(v[0], precision),
		roundf(v[1], precision),
		roundf(v[2], precision),
	}
}

func roundf(f, precision float64) float64 {
	r := math.Round(f*precision) / precision
	if r == 0 {
		return 0 // no negative zero; it would format as "-0".
	}
	return r
}

// IDFromPoints returns the order-independent identity of the edge p1-p2.
func IDFromPoints(p1, p2 mgl64.Vec3) EdgeID {
	if less(p2, p1) {
		p1, p2 = p2, p1
	}
	return EdgeID(formatPoint(p1) + ":" + formatPoint(p2))
}

// VertexID returns the identity of a section point lying exactly on
// mesh vertex p.
func VertexID(p mgl64.Vec3) EdgeID {
	return IDFromPoints(p, p)
}

// less orders points lexicographically by x, then y, then z.
func less(a, b mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func formatPoint(p mgl64.Vec3) string {
	return strconv.FormatFloat(p[0], 'f', -1, 64) + "," +
		strconv.FormatFloat(p[1], 'f', -1, 64) + "," +
		strconv.FormatFloat(p[2], 'f', -1, 64)
}
