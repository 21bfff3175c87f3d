// Package zipper is a ZSliceProcessor that writes its results to one or more ZIP files.
package zipper

import (
	"archive/zip"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"strings"
	"time"

	"golang.org/x/image/draw"

	"github.com/gmlewis/mesh-slicer/slicer"
)

// Slicer represents a slicer that provides slices of voxels for multiple
// parts.
type Slicer interface {
	NumMaterials() int
	MaterialName(materialNum int) string // 1-based
	MBB() (min, max [3]float32)          // in millimeters
	Resolution() (x, y, z float32)       // in microns

	PrepareRenderZ() error
	RenderZSlices(materialNum int, sp slicer.ZSliceProcessor, order slicer.Order) error
	NumXSlices() int
	NumYSlices() int
	NumZSlices() int
}

// Slice slices every part into its own ZIP file containing one PNG
// image per Z slice.
func Slice(baseFilename string, s Slicer) error {
	zp := &zipper{fmtStr: "out%04d.png", suffix: "zip"}
	return processMaterials(baseFilename, s, zp)
}

func processMaterials(baseFilename string, s Slicer, zp *zipper) error {
	for materialNum := 1; materialNum <= s.NumMaterials(); materialNum++ {
		materialName := strings.ReplaceAll(s.MaterialName(materialNum), " ", "-")

		zipName := fmt.Sprintf("%v-mat%02d-%v.%v", baseFilename, materialNum, materialName, zp.suffix)

		zf, err := os.Create(zipName)
		if err != nil {
			return fmt.Errorf("Create: %v", err)
		}
		zp.w = zip.NewWriter(zf)

		min, max := s.MBB()
		log.Printf("MBB=(%v,%v,%v)-(%v,%v,%v)", min[0], min[1], min[2], max[0], max[1], max[2])

		if zp.manifest {
			if err := zp.writeManifest(s); err != nil {
				zf.Close()
				return err
			}
		}

		if err := s.PrepareRenderZ(); err != nil {
			zf.Close()
			return fmt.Errorf("PrepareRenderZ: %v", err)
		}

		if err := s.RenderZSlices(materialNum, zp, slicer.MinToMax); err != nil {
			zf.Close()
			return err
		}

		if err := zp.w.Close(); err != nil {
			zf.Close()
			return fmt.Errorf("Unable to close ZIP writer: %v", err)
		}

		if err := zf.Close(); err != nil {
			return fmt.Errorf("Unable to close ZIP file: %v", err)
		}
		log.Printf("Wrote %v", zipName)
	}
	return nil
}

// zipper represents a ZSliceProcessor that writes its results to a ZIP file.
type zipper struct {
	w *zip.Writer

	fmtStr   string // slice filename
	suffix   string // archive extension
	manifest bool   // SVX: manifest plus 8-bit gray slices
	author   string
}

// zipper implements the ZSliceProcessor interface.
var _ slicer.ZSliceProcessor = &zipper{}

func (zp *zipper) ProcessZSlice(n int, z, voxelRadius float32, img image.Image) error {
	filename := fmt.Sprintf(zp.fmtStr, n)
	fh := &zip.FileHeader{
		Name:     filename,
		Comment:  fmt.Sprintf("z=%0.2f", z),
		Method:   zip.Deflate,
		Modified: time.Now(),
	}
	f, err := zp.w.CreateHeader(fh)
	if err != nil {
		return fmt.Errorf("Unable to create ZIP file %q: %v", filename, err)
	}

	if zp.manifest {
		gray := image.NewGray(img.Bounds())
		draw.Draw(gray, gray.Bounds(), img, img.Bounds().Min, draw.Src)
		img = gray
	}
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("PNG encode: %v", err)
	}

	return nil
}
