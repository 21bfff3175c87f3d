// Package slicer renders a scene of mesh parts into stacks of Z slice
// images, one stack per part, by sectioning each part with horizontal
// planes.
package slicer

import (
	"errors"
	"fmt"
	"image"
	"log"
	"math"
	"runtime"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
	"golang.org/x/sync/errgroup"

	"github.com/gmlewis/mesh-slicer/mesh"
	"github.com/gmlewis/mesh-slicer/section"
)

// Order represents the order in which slices are delivered.
type Order byte

const (
	// MinToMax delivers slices from the lowest Z upward.
	MinToMax Order = iota
	// MaxToMin delivers slices from the highest Z downward.
	MaxToMin
)

// ZSliceProcessor processes one Z slice. n is the delivery number of the
// slice, starting at 0. White pixels are inside the part.
type ZSliceProcessor interface {
	ProcessZSlice(n int, z, voxelRadius float32, img image.Image) error
}

var errNoParts = errors.New("no parts to slice")

// Slicer slices mesh parts into images. Every part is reported as one
// material and all parts share the same bounding box, so their slice
// stacks line up.
type Slicer struct {
	// Workers bounds the number of slices sectioned concurrently.
	// Zero means GOMAXPROCS.
	Workers int
	// Precision is the section point rounding multiplier.
	// Zero means section.DefaultPrecision.
	Precision float64

	parts            []*mesh.Mesh
	xRes, yRes, zRes float32 // microns
	min, max         [3]float32
	nx, ny, nz       int
}

// New returns a slicer for parts at the given resolution in microns.
func New(parts []*mesh.Mesh, xRes, yRes, zRes float32) (*Slicer, error) {
	if len(parts) == 0 {
		return nil, errNoParts
	}
	if xRes <= 0 || yRes <= 0 || zRes <= 0 {
		return nil, fmt.Errorf("invalid resolution X: %v, Y: %v, Z: %v microns", xRes, yRes, zRes)
	}

	s := &Slicer{parts: parts, xRes: xRes, yRes: yRes, zRes: zRes}
	lo := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range parts {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if p.IsEmpty() {
			continue
		}
		pmin, pmax := p.Bounds()
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], pmin[i])
			hi[i] = math.Max(hi[i], pmax[i])
		}
	}
	if math.IsInf(lo[0], 1) {
		return nil, errNoParts
	}
	for i := 0; i < 3; i++ {
		s.min[i], s.max[i] = float32(lo[i]), float32(hi[i])
	}

	count := func(i int, res float32) int {
		n := int(math.Ceil(float64(s.max[i]-s.min[i]) * 1000 / float64(res)))
		if n < 1 {
			n = 1
		}
		return n
	}
	s.nx, s.ny, s.nz = count(0, xRes), count(1, yRes), count(2, zRes)
	return s, nil
}

// NumMaterials returns the number of parts.
func (s *Slicer) NumMaterials() int { return len(s.parts) }

// MaterialName returns the name of part materialNum (1-based).
func (s *Slicer) MaterialName(materialNum int) string {
	if materialNum < 1 || materialNum > len(s.parts) {
		return ""
	}
	if name := s.parts[materialNum-1].Name; name != "" {
		return name
	}
	return fmt.Sprintf("part%v", materialNum)
}

// MBB returns the minimum bounding box of all parts in millimeters.
func (s *Slicer) MBB() (min, max [3]float32) { return s.min, s.max }

// Resolution returns the voxel size in microns.
func (s *Slicer) Resolution() (x, y, z float32) { return s.xRes, s.yRes, s.zRes }

// NumXSlices returns the number of voxels along X.
func (s *Slicer) NumXSlices() int { return s.nx }

// NumYSlices returns the number of voxels along Y.
func (s *Slicer) NumYSlices() int { return s.ny }

// NumZSlices returns the number of Z slices.
func (s *Slicer) NumZSlices() int { return s.nz }

// PrepareRenderZ logs the slicing geometry. Sections need no other setup.
func (s *Slicer) PrepareRenderZ() error {
	log.Printf("Slicing %v parts into %v x %v x %v voxels", len(s.parts), s.nx, s.ny, s.nz)
	return nil
}

func (s *Slicer) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// voxel returns the size of a voxel in millimeters.
func (s *Slicer) voxel() mgl64.Vec3 {
	return mgl64.Vec3{float64(s.xRes) / 1000, float64(s.yRes) / 1000, float64(s.zRes) / 1000}
}

// sliceZ returns the Z of the center of slice n.
func (s *Slicer) sliceZ(n int) float64 {
	return float64(s.min[2]) + (float64(n)+0.5)*s.voxel()[2]
}

// RenderZSlices sections part materialNum at the center of every voxel
// layer and sends the images to sp in the given order. Batches of slices
// are sectioned concurrently; sp always sees them in order.
func (s *Slicer) RenderZSlices(materialNum int, sp ZSliceProcessor, order Order) error {
	if materialNum < 1 || materialNum > len(s.parts) {
		return fmt.Errorf("material %v out of range [1,%v]", materialNum, len(s.parts))
	}
	part := s.parts[materialNum-1]
	voxelRadius := float32(0.5 * s.voxel()[2])

	sliceNum := func(k int) int {
		if order == MaxToMin {
			return s.nz - 1 - k
		}
		return k
	}

	batch := s.workers()
	imgs := make([]*image.RGBA, batch)
	for start := 0; start < s.nz; start += batch {
		end := start + batch
		if end > s.nz {
			end = s.nz
		}

		var g errgroup.Group
		for k := start; k < end; k++ {
			k := k
			g.Go(func() error {
				img, err := s.renderZ(part, s.sliceZ(sliceNum(k)))
				if err != nil {
					return fmt.Errorf("slice #%v: %v", sliceNum(k), err)
				}
				imgs[k-start] = img
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for k := start; k < end; k++ {
			z := float32(s.sliceZ(sliceNum(k)))
			if err := sp.ProcessZSlice(k, z, voxelRadius, imgs[k-start]); err != nil {
				return fmt.Errorf("ProcessZSlice(%v): %v", k, err)
			}
		}
	}
	return nil
}

// renderZ sections part at height z and fills the section in white on a
// black image. Row v of the image covers Y from min+v*dy to min+(v+1)*dy.
func (s *Slicer) renderZ(part *mesh.Mesh, z float64) (*image.RGBA, error) {
	plane, err := section.NewPlane(mgl64.Vec3{0, 0, 1}, -z)
	if err != nil {
		return nil, err
	}
	res := section.Options{Precision: s.Precision}.Section(part, plane)
	if len(res.Open) > 0 {
		log.Printf("WARNING: %q at z=%0.4f: %v open paths", part.Name, z, len(res.Open))
	}

	img := image.NewRGBA(image.Rect(0, 0, s.nx, s.ny))
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)
	if len(res.Loops) == 0 {
		return img, nil
	}

	voxel := s.voxel()
	pixel := func(p mgl64.Vec3) (float32, float32) {
		return float32((p[0] - float64(s.min[0])) / voxel[0]), float32((p[1] - float64(s.min[1])) / voxel[1])
	}
	ras := vector.NewRasterizer(s.nx, s.ny)
	addLoop := func(l section.Loop) {
		ras.MoveTo(pixel(l[0]))
		for _, p := range l[1:] {
			ras.LineTo(pixel(p))
		}
		ras.ClosePath()
	}
	// Outer loops and holes wind in opposite directions, so holes cancel.
	b := &section.ClosureBuilder{Precision: s.Precision}
	for _, c := range b.Nest(plane, res.Loops) {
		addLoop(c.Outer)
		for _, h := range c.Holes {
			addLoop(h)
		}
	}
	ras.Draw(img, img.Bounds(), image.White, image.Point{})
	return img, nil
}
