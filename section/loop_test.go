package section

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"
	"github.com/tdewolff/test"
)

func TestLoopSimplify(t *testing.T) {
	tests := []struct {
		name string
		in   Loop
		want Loop
	}{
		{
			name: "square with midpoints",
			in:   Loop{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {2, 1, 0}, {2, 2, 0}, {0, 2, 0}},
			want: Loop{{0, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0}},
		},
		{
			name: "duplicates",
			in:   Loop{{0, 0, 0}, {0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 0, 0}},
			want: Loop{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}},
		},
		{
			name: "all collinear",
			in:   Loop{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}},
			want: Loop{{1, 1, 1}, {2, 2, 2}},
		},
		{
			name: "midpoint snapped off the edge",
			in:   Loop{{0, 0, 0}, {0.5, 0.00005, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
			want: Loop{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		},
		{
			name: "already simple",
			in:   Loop{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			want: Loop{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("test #%v: %v", i, tt.name), func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.in.Simplify()); diff != "" {
				t.Errorf("Simplify mismatch (-want +got):\n%v", diff)
			}
		})
	}
}

func TestLoopSimplifyTolerance(t *testing.T) {
	in := Loop{{0, 0, 0}, {0.5, 0.01, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	test.T(t, len(in.Simplify()), 5)
	test.T(t, len(in.SimplifyTolerance(0.1)), 4)
	test.Float(t, Tolerance(0), 1.0/DefaultPrecision)
	test.Float(t, Tolerance(100), 0.01)
}

func TestLoopMeasures(t *testing.T) {
	l := Loop{{0, 0, 1}, {3, 0, 1}, {3, 2, 1}, {0, 2, 1}}
	test.T(t, l.Normal(), mgl64.Vec3{0, 0, 12})
	test.Float(t, l.Area(), 6)
	test.Float(t, l.Length(), 10)
	test.T(t, l.Reverse().Normal(), mgl64.Vec3{0, 0, -12})
	test.T(t, l.Reverse().Reverse(), l)
}
