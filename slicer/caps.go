package slicer

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gmlewis/mesh-slicer/section"
	"github.com/gmlewis/mesh-slicer/stl"
)

// WriteCaps writes the triangles of closures to a binary STL file.
func WriteCaps(filename string, closures []section.Closure) error {
	w, err := stl.New(filename)
	if err != nil {
		return fmt.Errorf("stl.New: %v", err)
	}
	for _, c := range closures {
		for _, t := range c.Triangles {
			if err := w.Write(stl.NewTri(t[0], t[1], t[2])); err != nil {
				w.Close()
				return fmt.Errorf("Write: %v", err)
			}
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("Close: %v", err)
	}
	return nil
}

// CapsSlice cuts every part with plane and writes its closure caps to
// one STL file per part. Parts without a closed section are skipped.
// A part whose caps cannot be built does not stop the others; the
// failures are returned together once every part has been written.
func (s *Slicer) CapsSlice(baseFilename string, plane section.Plane, offset float64) error {
	opts := section.Options{Precision: s.Precision}
	var errs []error
	for materialNum := 1; materialNum <= s.NumMaterials(); materialNum++ {
		materialName := strings.ReplaceAll(s.MaterialName(materialNum), " ", "-")
		part := s.parts[materialNum-1]

		res := opts.Section(part, plane)
		if len(res.Open) > 0 {
			log.Printf("WARNING: %q: %v open paths left after sectioning", part.Name, len(res.Open))
		}
		closures, err := buildClosures(res, plane, offset)
		if err != nil {
			log.Printf("WARNING: %q: %v", part.Name, err)
			errs = append(errs, fmt.Errorf("%v: %v", part.Name, err))
			continue
		}
		if len(closures) == 0 {
			log.Printf("Plane %v does not cut %q", plane, part.Name)
			continue
		}

		filename := fmt.Sprintf("%v-mat%02d-%v-caps.stl", baseFilename, materialNum, materialName)
		log.Printf("Writing %v closures to %v", len(closures), filename)
		if err := WriteCaps(filename, closures); err != nil {
			return err
		}
	}
	return errors.Join(errs...)
}
