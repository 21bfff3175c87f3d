package section

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Path is an open polyline left over after all segments were added.
type Path []mgl64.Vec3

// openPath is a polyline under construction. head holds the points
// before the first segment in reverse order so that both ends grow in
// amortized constant time.
type openPath struct {
	id       int
	head     []mgl64.Vec3
	tail     []mgl64.Vec3
	idA, idB EdgeID // identities of the first and last point
}

func (p *openPath) len() int { return len(p.head) + len(p.tail) }

func (p *openPath) points() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, 0, p.len())
	for i := len(p.head) - 1; i >= 0; i-- {
		out = append(out, p.head[i])
	}
	return append(out, p.tail...)
}

type end int

const (
	headEnd end = iota
	tailEnd
)

func (p *openPath) endID(e end) EdgeID {
	if e == headEnd {
		return p.idA
	}
	return p.idB
}

// Composer stitches segments, in any order, into open paths and closed
// loops. Paths are joined as soon as their end identities match.
// A Composer serves a single plane and mesh set.
type Composer struct {
	paths  []*openPath // arena indexed by id, nil once closed or merged
	ends   map[EdgeID][]*openPath
	loops  []Loop
	work   []*openPath
	Stats  Stats
	nextID int
}

// NewComposer returns an empty composer.
func NewComposer() *Composer {
	return &Composer{ends: map[EdgeID][]*openPath{}}
}

// Add ingests one segment.
func (c *Composer) Add(s Segment) {
	if s.IDA == s.IDB {
		return
	}

	p, e, matchA := c.match(s)
	if p == nil {
		c.newPath(s)
		return
	}

	// The unmatched point is spliced onto the matching end.
	point, id := s.B, s.IDB
	if !matchA {
		point, id = s.A, s.IDA
	}
	if e == headEnd {
		p.head = append(p.head, point)
	} else {
		p.tail = append(p.tail, point)
	}
	c.setEnd(p, e, id)

	c.work = append(c.work[:0], p)
	c.settle()
}

// match finds the oldest open path with a free end matching either
// identity of s. It reports which end matched and whether it matched
// s.IDA (true) or s.IDB (false).
func (c *Composer) match(s Segment) (*openPath, end, bool) {
	var best *openPath
	for _, id := range [2]EdgeID{s.IDA, s.IDB} {
		for _, p := range c.ends[id] {
			if best == nil || p.id < best.id {
				best = p
			}
		}
	}
	switch {
	case best == nil:
		return nil, headEnd, false
	case best.idA == s.IDA:
		return best, headEnd, true
	case best.idA == s.IDB:
		return best, headEnd, false
	case best.idB == s.IDA:
		return best, tailEnd, true
	default:
		return best, tailEnd, false
	}
}

func (c *Composer) newPath(s Segment) {
	p := &openPath{
		id:   c.nextID,
		tail: []mgl64.Vec3{s.A, s.B},
		idA:  s.IDA,
		idB:  s.IDB,
	}
	c.nextID++
	c.paths = append(c.paths, p)
	c.attach(s.IDA, p)
	c.attach(s.IDB, p)
}

// settle merges and closes paths until the work list is empty.
func (c *Composer) settle() {
	for len(c.work) > 0 {
		p := c.work[len(c.work)-1]
		c.work = c.work[:len(c.work)-1]
		if c.paths[p.id] != p {
			continue // already absorbed or closed
		}

		if o, oe, pe := c.partner(p); o != nil {
			c.work = append(c.work, c.merge(p, pe, o, oe))
			continue
		}

		if p.idA == p.idB {
			c.close(p)
		}
	}
}

// partner finds the oldest other open path sharing a free-end identity
// with p, returning its matching end and the matching end of p.
func (c *Composer) partner(p *openPath) (*openPath, end, end) {
	var best *openPath
	for _, id := range [2]EdgeID{p.idA, p.idB} {
		for _, o := range c.ends[id] {
			if o != p && (best == nil || o.id < best.id) {
				best = o
			}
		}
	}
	switch {
	case best == nil:
		return nil, headEnd, headEnd
	case best.idA == p.idA:
		return best, headEnd, headEnd
	case best.idA == p.idB:
		return best, headEnd, tailEnd
	case best.idB == p.idA:
		return best, tailEnd, headEnd
	default:
		return best, tailEnd, tailEnd
	}
}

// merge joins paths a and b at the ends ae and be, which share an
// identity. The shorter path is absorbed into the longer one, which is
// returned.
func (c *Composer) merge(a *openPath, ae end, b *openPath, be end) *openPath {
	dst, de, src, se := a, ae, b, be
	if b.len() > a.len() {
		dst, de, src, se = b, be, a, ae
	}

	pts := src.points()
	if se == tailEnd {
		reversePoints(pts)
	}
	// pts[0] is now the shared point, already present in dst.
	other := src.endID(otherEnd(se))
	c.remove(src)

	if de == headEnd {
		dst.head = append(dst.head, pts[1:]...)
	} else {
		dst.tail = append(dst.tail, pts[1:]...)
	}
	c.setEnd(dst, de, other)
	return dst
}

// close moves p to the closed loops. The point shared by both ends
// appears twice and is dropped once.
func (c *Composer) close(p *openPath) {
	pts := p.points()
	c.remove(p)

	loop := Loop(pts[:len(pts)-1]).dedupe()
	if len(loop) < 3 {
		c.Stats.Degenerate++
		return
	}
	c.loops = append(c.loops, loop)
}

func (c *Composer) setEnd(p *openPath, e end, id EdgeID) {
	if e == headEnd {
		c.detach(p.idA, p)
		p.idA = id
	} else {
		c.detach(p.idB, p)
		p.idB = id
	}
	c.attach(id, p)
}

func (c *Composer) remove(p *openPath) {
	c.detach(p.idA, p)
	c.detach(p.idB, p)
	c.paths[p.id] = nil
}

func (c *Composer) attach(id EdgeID, p *openPath) {
	c.ends[id] = append(c.ends[id], p)
}

// detach removes one ownership of id by p.
func (c *Composer) detach(id EdgeID, p *openPath) {
	owners := c.ends[id]
	for i, o := range owners {
		if o != p {
			continue
		}
		owners = append(owners[:i], owners[i+1:]...)
		break
	}
	if len(owners) == 0 {
		delete(c.ends, id)
		return
	}
	c.ends[id] = owners
}

// Loops returns the closed loops in completion order.
func (c *Composer) Loops() []Loop {
	return c.loops
}

// Open returns the paths that never closed, in creation order.
func (c *Composer) Open() []Path {
	var out []Path
	for _, p := range c.paths {
		if p != nil {
			out = append(out, p.points())
		}
	}
	return out
}

func otherEnd(e end) end {
	if e == headEnd {
		return tailEnd
	}
	return headEnd
}

func reversePoints(pts []mgl64.Vec3) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}
