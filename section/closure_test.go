package section

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tdewolff/test"

	"github.com/gmlewis/mesh-slicer/mesh"
)

func TestClosureCube(t *testing.T) {
	plane := mustPlane(t, 1, 0, 0, 0)
	res := Section(mesh.Box("cube", 1, 1, 1), plane)

	b := &ClosureBuilder{Offset: DefaultOffset}
	closures, err := b.Build(plane, res.Loops)
	test.Error(t, err)
	if len(closures) != 1 {
		t.Fatalf("got %v closures, want 1", len(closures))
	}
	c := closures[0]
	test.T(t, len(c.Outer), 4)
	test.T(t, len(c.Triangles), 2)
	test.T(t, c.Normal, plane.Normal)
	test.FloatDiff(t, c.Area(), 1, 1e-12)

	for _, tri := range c.Triangles {
		for _, v := range tri {
			test.FloatDiff(t, v[0], DefaultOffset, 1e-12)
		}
		n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
		test.That(t, n.Dot(plane.Normal) > 0, "triangle faces away from the plane normal", tri)
	}
}

func TestClosureOrientation(t *testing.T) {
	plane := Plane{Normal: mgl64.Vec3{0, 0, 1}}
	square := func(s float64) Loop {
		return Loop{{-s, -s, 0}, {s, -s, 0}, {s, s, 0}, {-s, s, 0}}
	}

	// Outer given clockwise, hole given counter-clockwise.
	loops := []Loop{square(1).Reverse(), square(0.5)}
	b := &ClosureBuilder{}
	closures, err := b.Build(plane, loops)
	test.Error(t, err)
	if len(closures) != 1 {
		t.Fatalf("got %v closures, want 1", len(closures))
	}
	c := closures[0]
	if len(c.Holes) != 1 {
		t.Fatalf("got %v holes, want 1", len(c.Holes))
	}
	test.That(t, c.Outer.Normal()[2] > 0, "outer loop must be counter-clockwise")
	test.That(t, c.Holes[0].Normal()[2] < 0, "hole must be clockwise")
	test.FloatDiff(t, c.Area(), 4-1, 1e-12)
}

func TestClosureNestedIsland(t *testing.T) {
	plane := Plane{Normal: mgl64.Vec3{0, 0, -1}, Constant: 2}
	square := func(s float64) Loop {
		return Loop{{-s, -s, 2}, {s, -s, 2}, {s, s, 2}, {-s, s, 2}}
	}

	b := &ClosureBuilder{Offset: 0.5}
	closures, err := b.Build(plane, []Loop{square(0.25), square(3), square(2)})
	test.Error(t, err)
	if len(closures) != 2 {
		t.Fatalf("got %v closures, want 2", len(closures))
	}
	var total float64
	for _, c := range closures {
		total += c.Area()
		for _, tri := range c.Triangles {
			for _, v := range tri {
				test.FloatDiff(t, v[2], 1.5, 1e-12)
			}
		}
	}
	test.FloatDiff(t, total, 36-16+0.25, 1e-9)
}

func TestClosureSkipsDegenerateLoops(t *testing.T) {
	plane := Plane{Normal: mgl64.Vec3{0, 0, 1}}
	line := Loop{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}
	b := &ClosureBuilder{}
	closures, err := b.Build(plane, []Loop{line})
	test.Error(t, err)
	test.T(t, len(closures), 0)
}

func TestClosureSphere(t *testing.T) {
	sphere := mesh.Sphere("sphere", 1, 32, 16)
	normals := []mgl64.Vec3{{0, 0, 1}, {0, 0, -1}, {1, 0, 0}, {1, 1, 1}, {0.3, -0.7, 0.2}}

	for i, n := range normals {
		for k := -9; k <= 9; k++ {
			if k == 0 {
				continue
			}
			constant := float64(k) / 10
			t.Run(fmt.Sprintf("test #%v: normal %v constant %v", i, n, constant), func(t *testing.T) {
				plane, err := NewPlane(n, constant)
				test.Error(t, err)
				res := Section(sphere, plane)
				if len(res.Loops) != 1 {
					t.Fatalf("got %v loops, want 1", len(res.Loops))
				}
				closures, err := res.Closures(plane, DefaultOffset)
				test.Error(t, err)
				if len(closures) != 1 {
					t.Fatalf("got %v closures, want 1", len(closures))
				}
				test.FloatDiff(t, closures[0].Area(), res.Loops[0].Area(), 2e-3)
			})
		}
	}
}

func TestClosureNearlyCollinear(t *testing.T) {
	plane := Plane{Normal: mgl64.Vec3{0, 0, 1}}
	// The bottom edge point is off the line by far less than poly2tri
	// can resolve, and the fine precision keeps it through Simplify.
	loop := Loop{{-1, -1, 0}, {0, -1 + 1e-6, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}}
	b := &ClosureBuilder{Precision: 1e9}
	closures, err := b.Build(plane, []Loop{loop})
	test.Error(t, err)
	if len(closures) != 1 {
		t.Fatalf("got %v closures, want 1", len(closures))
	}
	test.T(t, len(closures[0].Outer), 5)
	test.T(t, len(closures[0].Triangles), 2)
	test.FloatDiff(t, closures[0].Area(), 4, 1e-9)
}

func TestNest(t *testing.T) {
	plane := mustPlane(t, 0, 0, 1, -0.1)
	res := Section(mesh.Torus("torus", 2, 0.5, 16, 32), plane)

	closures := Nest(plane, res.Loops)
	if len(closures) != 1 {
		t.Fatalf("got %v closures, want 1", len(closures))
	}
	c := closures[0]
	test.T(t, len(c.Holes), 1)
	test.T(t, len(c.Triangles), 0)
	test.That(t, c.Outer.Normal()[2] > 0, "outer loop must wind around the normal")
	test.That(t, c.Holes[0].Normal()[2] < 0, "hole must wind against the normal")
	test.That(t, c.Outer.Area() > c.Holes[0].Area(), "hole must be the smaller loop")
}
