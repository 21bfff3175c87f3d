package slicer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gmlewis/mesh-slicer/mesh"
	"github.com/gmlewis/mesh-slicer/section"
)

// SweepTimeout is the default limit for sectioning one plane.
const SweepTimeout = 5 * time.Second

// ErrSuperseded is returned for a plane whose section finished after a
// newer plane had been requested.
var ErrSuperseded = errors.New("section superseded by newer plane")

// Frame is the section of every part by one plane of a sweep.
// Closures[i] and Errors[i] belong to Sections[i]. A part whose caps
// could not be built has no closures and a non-empty error; the other
// parts are unaffected.
type Frame struct {
	Generation uint64              `json:"generation"`
	Plane      section.Plane       `json:"plane"`
	Sections   []*section.Result   `json:"sections"`
	Closures   [][]section.Closure `json:"closures"`
	Errors     []string            `json:"errors"`
}

// buildClosures caps one section.
var buildClosures = (*section.Result).Closures

// Sweeper sections a scene for a moving plane. Every call to Section
// starts a new generation and only the newest generation is returned;
// older results are discarded when they complete.
type Sweeper struct {
	Parts   []*mesh.Mesh
	Options section.Options
	// Offset moves closure caps along the plane normal.
	Offset float64
	// Timeout limits a single section. Zero means SweepTimeout.
	Timeout time.Duration

	mu  sync.Mutex
	gen uint64
}

// Section computes the frame for plane.
func (s *Sweeper) Section(ctx context.Context, plane section.Plane) (*Frame, error) {
	gen := s.begin()

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = SweepTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		frame *Frame
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		f, err := s.frame(gen, plane)
		ch <- result{frame: f, err: err}
	}()

	select {
	case r := <-ch:
		if s.stale(gen) {
			return nil, ErrSuperseded
		}
		return r.frame, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("section of plane %v: %v", plane, ctx.Err())
	}
}

// begin starts a new generation.
func (s *Sweeper) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

// stale reports whether a newer generation than gen has started.
func (s *Sweeper) stale(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen != s.gen
}

func (s *Sweeper) frame(gen uint64, plane section.Plane) (*Frame, error) {
	f := &Frame{Generation: gen, Plane: plane}
	f.Sections = s.Options.SectionScene(s.Parts, plane)
	for _, r := range f.Sections {
		var msg string
		closures, err := buildClosures(r, plane, s.Offset)
		if err != nil {
			log.Printf("WARNING: %q at plane %v: %v", r.Part, plane, err)
			closures, msg = nil, err.Error()
		}
		f.Closures = append(f.Closures, closures)
		f.Errors = append(f.Errors, msg)
	}
	return f, nil
}

// Motion moves a plane back and forth. Every step translates the plane
// along X and rotates its normal around Z. Each motion reverses its
// direction after its step count.
type Motion struct {
	Plane section.Plane

	Translate      float64 // per step, along X
	Rotate         float64 // radians per step, around Z
	TranslateSteps int
	RotateSteps    int

	tnb, rnb int
}

// NewMotion returns the default demo motion starting at plane.
func NewMotion(plane section.Plane) *Motion {
	return &Motion{
		Plane:          plane,
		Translate:      0.1,
		Rotate:         0.01,
		TranslateSteps: 150,
		RotateSteps:    200,
	}
}

// Next advances the motion by one step and returns the new plane.
func (m *Motion) Next() section.Plane {
	m.Plane = m.Plane.Translate(mgl64.Vec3{m.Translate, 0, 0})
	m.Plane = m.Plane.RotateNormal(mgl64.Vec3{0, 0, 1}, m.Rotate)
	m.tnb++
	m.rnb++
	if m.tnb > m.TranslateSteps {
		m.Translate = -m.Translate
		m.tnb = -m.TranslateSteps
	}
	if m.rnb > m.RotateSteps {
		m.Rotate = -m.Rotate
		m.rnb = -m.RotateSteps
	}
	return m.Plane
}
