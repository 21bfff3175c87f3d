// Package binvox voxelizes Z slices of mesh parts and writes binvox files.
package binvox

import (
	"fmt"
	"image"
	"log"
	"strings"

	"github.com/gmlewis/stldice/v4/binvox"

	"github.com/gmlewis/mesh-slicer/slicer"
)

// Slicer represents a slicer that provides Z slices of voxels for
// multiple parts.
type Slicer interface {
	NumMaterials() int
	MaterialName(materialNum int) string // 1-based
	MBB() (min, max [3]float32)          // in millimeters

	PrepareRenderZ() error
	RenderZSlices(materialNum int, sp slicer.ZSliceProcessor, order slicer.Order) error
	NumXSlices() int
	NumYSlices() int
	NumZSlices() int
}

// Slice voxelizes every part into its own binvox file. Only the shell
// of each part is written unless solid is set.
func Slice(baseFilename string, s Slicer, solid bool) error {
	for materialNum := 1; materialNum <= s.NumMaterials(); materialNum++ {
		materialName := strings.ReplaceAll(s.MaterialName(materialNum), " ", "-")

		filename := fmt.Sprintf("%v-mat%02d-%v.binvox", baseFilename, materialNum, materialName)

		min, max := s.MBB()
		scale := float64(max[2] - min[2])
		b := binvox.New(
			s.NumXSlices(),
			s.NumYSlices(),
			s.NumZSlices(),
			float64(min[0]),
			float64(min[1]),
			float64(min[2]),
			scale,
			false,
		)

		if err := s.PrepareRenderZ(); err != nil {
			return fmt.Errorf("PrepareRenderZ: %v", err)
		}

		c := &client{b: b, solid: solid}
		if err := s.RenderZSlices(materialNum, c, slicer.MinToMax); err != nil {
			return fmt.Errorf("RenderZSlices: %v", err)
		}
		c.flush()
		log.Printf("%v: %v voxels", materialName, c.count)

		log.Printf("Writing: %v", filename)
		if err := b.Write(filename, 0, 0, 0, b.NX, b.NY, b.NZ); err != nil {
			return fmt.Errorf("Write: %v", err)
		}
	}

	return nil
}

// client converts a bottom-up stream of Z slices into voxels. A slice is
// emitted once the slice above it is known, so that its top and bottom
// faces can be found.
type client struct {
	b     *binvox.BinVOX
	solid bool
	count int

	// z of cur
	z int

	last *uvSlice
	cur  *uvSlice
}

// client implements the ZSliceProcessor interface.
var _ slicer.ZSliceProcessor = &client{}

// uvSlice holds the inside voxels of one slice indexed by (u,v) image
// coordinates.
type uvSlice struct {
	uSize, vSize int
	p            []bool
}

func newUVSlice(img image.Image) *uvSlice {
	b := img.Bounds()
	s := &uvSlice{uSize: b.Dx(), vSize: b.Dy(), p: make([]bool, b.Dx()*b.Dy())}
	for v := 0; v < s.vSize; v++ {
		for u := 0; u < s.uSize; u++ {
			if r, _, _, _ := img.At(b.Min.X+u, b.Min.Y+v).RGBA(); r >= 0x8000 {
				s.p[v*s.uSize+u] = true
			}
		}
	}
	return s
}

// inside reports whether (u,v) is inside. A nil slice and out of range
// coordinates are outside.
func (s *uvSlice) inside(u, v int) bool {
	if s == nil || u < 0 || v < 0 || u >= s.uSize || v >= s.vSize {
		return false
	}
	return s.p[v*s.uSize+u]
}

func (c *client) ProcessZSlice(sliceNum int, z, voxelRadius float32, img image.Image) error {
	next := newUVSlice(img)
	if c.cur != nil {
		c.emit(next)
		c.z++
	}
	c.last, c.cur = c.cur, next
	return nil
}

// flush emits the final slice.
func (c *client) flush() {
	if c.cur != nil {
		c.emit(nil)
	}
	c.last, c.cur = nil, nil
}

// emit adds the voxels of the current slice. A shell voxel has at least
// one of its six neighbors outside.
func (c *client) emit(next *uvSlice) {
	s := c.cur
	for v := 0; v < s.vSize; v++ {
		for u := 0; u < s.uSize; u++ {
			if !s.inside(u, v) {
				continue
			}
			if !c.solid &&
				s.inside(u-1, v) && s.inside(u+1, v) &&
				s.inside(u, v-1) && s.inside(u, v+1) &&
				c.last.inside(u, v) && next.inside(u, v) {
				continue
			}
			c.b.Add(u, v, c.z)
			c.count++
		}
	}
}
