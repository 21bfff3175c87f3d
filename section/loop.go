package section

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Loop is a closed ring of section points. The first point is not
// repeated at the end.
type Loop []mgl64.Vec3

// dedupe drops consecutive duplicate points, including a last point
// equal to the first.
func (l Loop) dedupe() Loop {
	out := make(Loop, 0, len(l))
	for _, p := range l {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[len(out)-1] == out[0] {
		out = out[:len(out)-1]
	}
	return out
}

// Simplify returns the loop without duplicate and collinear points,
// using the rounding step of DefaultPrecision as tolerance.
func (l Loop) Simplify() Loop {
	return l.SimplifyTolerance(Tolerance(DefaultPrecision))
}

// Tolerance returns the rounding step of precision. Points snapped to
// that grid from an exact line may stray from it by up to one step.
func Tolerance(precision float64) float64 {
	if precision <= 0 {
		precision = DefaultPrecision
	}
	return 1 / precision
}

// SimplifyTolerance returns the loop without duplicate points and
// without points lying within tol of the line through their neighbors.
func (l Loop) SimplifyTolerance(tol float64) Loop {
	out := l.dedupe()
	for changed := true; changed && len(out) >= 3; {
		changed = false
		for i := 0; i < len(out) && len(out) >= 3; i++ {
			prev := out[(i+len(out)-1)%len(out)]
			next := out[(i+1)%len(out)]
			if lineDistance(out[i], prev, next) > tol {
				continue
			}
			out = append(out[:i], out[i+1:]...)
			changed = true
			i--
		}
	}
	return out
}

// lineDistance returns the distance from p to the line through a and b.
// A point between two equal neighbors is a spike and reports zero.
func lineDistance(p, a, b mgl64.Vec3) float64 {
	ab := b.Sub(a)
	n := ab.Len()
	if n == 0 {
		return 0
	}
	return p.Sub(a).Cross(ab).Len() / n
}

// Normal returns the area vector of the loop (Newell's method): its
// direction is the right-handed loop normal and its length twice the
// enclosed area.
func (l Loop) Normal() mgl64.Vec3 {
	var n mgl64.Vec3
	for i, p := range l {
		q := l[(i+1)%len(l)]
		n[0] += (p[1] - q[1]) * (p[2] + q[2])
		n[1] += (p[2] - q[2]) * (p[0] + q[0])
		n[2] += (p[0] - q[0]) * (p[1] + q[1])
	}
	return n
}

// Area returns the area enclosed by the loop.
func (l Loop) Area() float64 {
	return l.Normal().Len() / 2
}

// Reverse returns the loop in the opposite direction.
func (l Loop) Reverse() Loop {
	out := make(Loop, len(l))
	for i, p := range l {
		out[len(l)-1-i] = p
	}
	return out
}

// Length returns the perimeter of the loop.
func (l Loop) Length() float64 {
	var sum float64
	for i, p := range l {
		sum += l[(i+1)%len(l)].Sub(p).Len()
	}
	return sum
}
