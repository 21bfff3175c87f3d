package section

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"
)

var (
	p0 = mgl64.Vec3{0, 0, 0}
	p1 = mgl64.Vec3{1, 0, 0}
	p2 = mgl64.Vec3{1, 1, 0}
	p3 = mgl64.Vec3{0, 1, 0}
)

// seg builds a segment whose endpoint identities are the points themselves.
func seg(a, b mgl64.Vec3) Segment {
	return Segment{A: a, B: b, IDA: VertexID(a), IDB: VertexID(b)}
}

func TestComposer(t *testing.T) {
	tests := []struct {
		name           string
		segs           []Segment
		wantLoops      []Loop
		wantOpen       []Path
		wantDegenerate int
	}{
		{
			name:      "square in order",
			segs:      []Segment{seg(p0, p1), seg(p1, p2), seg(p2, p3), seg(p3, p0)},
			wantLoops: []Loop{{p0, p1, p2, p3}},
		},
		{
			name:      "square with mixed directions needing a merge",
			segs:      []Segment{seg(p0, p1), seg(p2, p3), seg(p2, p1), seg(p0, p3)},
			wantLoops: []Loop{{p0, p1, p2, p3}},
		},
		{
			name:     "open chain",
			segs:     []Segment{seg(p0, p1), seg(p1, p2)},
			wantOpen: []Path{{p0, p1, p2}},
		},
		{
			name:     "two chains joined by a middle segment",
			segs:     []Segment{seg(p0, p1), seg(p2, p3), seg(p1, p2)},
			wantOpen: []Path{{p0, p1, p2, p3}},
		},
		{
			name:           "back and forth is degenerate",
			segs:           []Segment{seg(p0, p1), seg(p1, p0)},
			wantDegenerate: 1,
		},
		{
			name: "segment with equal identities is ignored",
			segs: []Segment{{A: p0, B: p1, IDA: "x", IDB: "x"}},
		},
		{
			name:     "non-manifold branch is reported",
			segs:     []Segment{seg(p0, p1), seg(p1, p2), seg(p1, p3)},
			wantOpen: []Path{{p0, p1, p2}, {p1, p3}},
		},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("test #%v: %v", i, tt.name), func(t *testing.T) {
			c := NewComposer()
			for _, s := range tt.segs {
				c.Add(s)
			}

			if len(c.Loops()) != len(tt.wantLoops) {
				t.Fatalf("got %v loops, want %v: %v", len(c.Loops()), len(tt.wantLoops), c.Loops())
			}
			for j, want := range tt.wantLoops {
				if got := c.Loops()[j]; !sameRing(got, want) {
					t.Errorf("loop #%v = %v, want ring %v", j, got, want)
				}
			}

			if len(c.Open()) != len(tt.wantOpen) {
				t.Fatalf("got %v open paths, want %v: %v", len(c.Open()), len(tt.wantOpen), c.Open())
			}
			for j, want := range tt.wantOpen {
				if got := c.Open()[j]; !samePath(got, want) {
					t.Errorf("open path #%v = %v, want %v", j, got, want)
				}
			}

			if c.Stats.Degenerate != tt.wantDegenerate {
				t.Errorf("Degenerate = %v, want %v", c.Stats.Degenerate, tt.wantDegenerate)
			}
		})
	}
}

func TestComposerExactOrder(t *testing.T) {
	c := NewComposer()
	c.Add(seg(p0, p1))
	c.Add(seg(p1, p2))
	if diff := cmp.Diff([]Path{{p0, p1, p2}}, c.Open()); diff != "" {
		t.Errorf("Open mismatch (-want +got):\n%v", diff)
	}
}

func TestComposerCompletionOrder(t *testing.T) {
	q := func(dx float64, p mgl64.Vec3) mgl64.Vec3 { return p.Add(mgl64.Vec3{dx, 0, 0}) }
	c := NewComposer()
	// Two interleaved squares; the second one closes first.
	c.Add(seg(p0, p1))
	c.Add(seg(q(5, p0), q(5, p1)))
	c.Add(seg(q(5, p1), q(5, p2)))
	c.Add(seg(p1, p2))
	c.Add(seg(q(5, p2), q(5, p3)))
	c.Add(seg(q(5, p3), q(5, p0)))
	c.Add(seg(p2, p3))
	c.Add(seg(p3, p0))

	loops := c.Loops()
	if len(loops) != 2 {
		t.Fatalf("got %v loops, want 2", len(loops))
	}
	if loops[0][0][0] < 5 {
		t.Errorf("first completed loop = %v, want the one at x>=5", loops[0])
	}
	if len(c.Open()) != 0 {
		t.Errorf("got %v open paths, want 0", len(c.Open()))
	}
}

// sameRing reports whether a and b hold the same cyclic sequence of
// points, in either direction.
func sameRing(a, b Loop) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	start := -1
	for i, p := range a {
		if p == b[0] {
			start = i
			break
		}
	}
	if start < 0 {
		return false
	}
	n := len(a)
	forward, backward := true, true
	for k := 0; k < n; k++ {
		if a[(start+k)%n] != b[k] {
			forward = false
		}
		if a[(start-k+n)%n] != b[k] {
			backward = false
		}
	}
	return forward || backward
}

// samePath reports whether a equals b or its reverse.
func samePath(a, b Path) bool {
	if len(a) != len(b) {
		return false
	}
	forward, backward := true, true
	for i := range a {
		if a[i] != b[i] {
			forward = false
		}
		if a[i] != b[len(b)-1-i] {
			backward = false
		}
	}
	return forward || backward
}
