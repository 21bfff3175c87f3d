package section

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tdewolff/test"
)

func TestIDFromPoints(t *testing.T) {
	tests := []struct {
		name string
		a, b mgl64.Vec3
		want EdgeID
	}{
		{
			name: "ordered",
			a:    mgl64.Vec3{0, 5, 5},
			b:    mgl64.Vec3{1, 2, 3},
			want: "0,5,5:1,2,3",
		},
		{
			name: "reversed",
			a:    mgl64.Vec3{1, 2, 3},
			b:    mgl64.Vec3{0, 5, 5},
			want: "0,5,5:1,2,3",
		},
		{
			name: "tie on x and y",
			a:    mgl64.Vec3{1, 1, 0.25},
			b:    mgl64.Vec3{1, 1, -0.25},
			want: "1,1,-0.25:1,1,0.25",
		},
		{
			name: "vertex",
			a:    mgl64.Vec3{0.5, -0.5, 0},
			b:    mgl64.Vec3{0.5, -0.5, 0},
			want: "0.5,-0.5,0:0.5,-0.5,0",
		},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("test #%v: %v", i, tt.name), func(t *testing.T) {
			test.T(t, IDFromPoints(tt.a, tt.b), tt.want)
			test.T(t, IDFromPoints(tt.b, tt.a), tt.want)
		})
	}
}

func TestVertexID(t *testing.T) {
	p := mgl64.Vec3{1.25, 0, -3}
	test.T(t, VertexID(p), IDFromPoints(p, p))
}

func TestRound(t *testing.T) {
	tests := []struct {
		name string
		in   mgl64.Vec3
		want mgl64.Vec3
	}{
		{
			name: "already rounded",
			in:   mgl64.Vec3{1, -2.5, 0.1234},
			want: mgl64.Vec3{1, -2.5, 0.1234},
		},
		{
			name: "rounds to nearest",
			in:   mgl64.Vec3{0.123456, 2.71828, -0.00004},
			want: mgl64.Vec3{0.1235, 2.7183, 0},
		},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("test #%v: %v", i, tt.name), func(t *testing.T) {
			got := Round(tt.in)
			for k := 0; k < 3; k++ {
				test.Float(t, got[k], tt.want[k])
			}
		})
	}
}

func TestRoundNoNegativeZero(t *testing.T) {
	got := Round(mgl64.Vec3{-0.00001, -0.00004, 0})
	test.T(t, formatPoint(got), "0,0,0")
}

func TestRoundIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		v := mgl64.Vec3{r.NormFloat64() * 100, r.NormFloat64(), r.NormFloat64() * 1e-3}
		once := Round(v)
		if twice := Round(once); twice != once {
			t.Fatalf("Round(Round(%v)) = %v, want %v", v, twice, once)
		}
	}
}

func TestRoundTo(t *testing.T) {
	v := mgl64.Vec3{0.126, 1.004, -7.55}
	test.T(t, RoundTo(v, 100), mgl64.Vec3{0.13, 1, -7.55})
	test.T(t, RoundTo(v, 0), v)
}
