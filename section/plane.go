package section

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the distance below which a point is considered to lie on
// a plane.
const Epsilon = 1e-9

// RefNormal is the normal of the 2D frame that section loops are
// rotated into for triangulation and GeoJSON output.
var RefNormal = mgl64.Vec3{0, 0, 1}

var errZeroNormal = errors.New("plane normal must be non-zero")

// Plane is the set of points p where Normal·p + Constant = 0.
type Plane struct {
	Normal   mgl64.Vec3 `json:"normal" yaml:"normal"`
	Constant float64    `json:"constant" yaml:"constant"`
}

// NewPlane returns the plane normal·p + constant = 0 with a unit normal.
func NewPlane(normal mgl64.Vec3, constant float64) (Plane, error) {
	l := normal.Len()
	if l == 0 {
		return Plane{}, errZeroNormal
	}
	return Plane{Normal: normal.Mul(1 / l), Constant: constant / l}, nil
}

// PlaneFromNormalAndPoint returns the plane with the given normal passing
// through p.
func PlaneFromNormalAndPoint(normal, p mgl64.Vec3) (Plane, error) {
	if normal.Len() == 0 {
		return Plane{}, errZeroNormal
	}
	n := normal.Normalize()
	return Plane{Normal: n, Constant: -n.Dot(p)}, nil
}

// ParsePlane parses "nx,ny,nz,c" into a normalized plane.
func ParsePlane(s string) (Plane, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Plane{}, fmt.Errorf("plane %q: want nx,ny,nz,c", s)
	}
	var v [4]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Plane{}, fmt.Errorf("plane %q: %v", s, err)
		}
		v[i] = f
	}
	return NewPlane(mgl64.Vec3{v[0], v[1], v[2]}, v[3])
}

func (p Plane) String() string {
	return fmt.Sprintf("%v,%v,%v,%v", p.Normal[0], p.Normal[1], p.Normal[2], p.Constant)
}

// DistanceToPoint returns the signed distance from the plane to v.
func (p Plane) DistanceToPoint(v mgl64.Vec3) float64 {
	return p.Normal.Dot(v) + p.Constant
}

// distance is DistanceToPoint snapped to zero within Epsilon.
func (p Plane) distance(v mgl64.Vec3) float64 {
	d := p.DistanceToPoint(v)
	if math.Abs(d) < Epsilon {
		return 0
	}
	return d
}

// CoplanarPoint returns the point of the plane closest to the origin.
func (p Plane) CoplanarPoint() mgl64.Vec3 {
	return p.Normal.Mul(-p.Constant)
}

// Translate returns the plane moved by offset.
func (p Plane) Translate(offset mgl64.Vec3) Plane {
	return Plane{Normal: p.Normal, Constant: p.Constant - offset.Dot(p.Normal)}
}

// RotateNormal returns the plane with its normal rotated by angle
// radians around axis. The constant is kept.
func (p Plane) RotateNormal(axis mgl64.Vec3, angle float64) Plane {
	q := mgl64.QuatRotate(angle, axis.Normalize())
	return Plane{Normal: q.Rotate(p.Normal).Normalize(), Constant: p.Constant}
}

// IntersectLine returns the point where the segment start-end meets the
// plane. An endpoint lying on the plane is returned as is. Segments that
// lie in the plane or do not reach it report false.
func (p Plane) IntersectLine(start, end mgl64.Vec3) (mgl64.Vec3, bool) {
	return crossing(start, end, p.distance(start), p.distance(end))
}

// crossing intersects a-b given the snapped distances of its endpoints.
// The result depends only on the unordered pair {a, b}.
func crossing(a, b mgl64.Vec3, da, db float64) (mgl64.Vec3, bool) {
	switch {
	case da == 0 && db == 0:
		return mgl64.Vec3{}, false
	case da == 0:
		return a, true
	case db == 0:
		return b, true
	case (da > 0) == (db > 0):
		return mgl64.Vec3{}, false
	}
	if less(b, a) {
		a, b, da, db = b, a, db, da
	}
	t := da / (da - db)
	return a.Add(b.Sub(a).Mul(t)), true
}

// frame returns the rotation taking the plane normal onto RefNormal.
func (p Plane) frame() mgl64.Quat {
	return mgl64.QuatBetweenVectors(p.Normal, RefNormal)
}
