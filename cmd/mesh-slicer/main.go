// mesh-slicer cuts one or more mesh files (.stl, .obj, .ply) with a plane
// and writes the closure caps of the cross sections, or slices the
// meshes into voxel image stacks, or both.
//
// Each input file is treated as one part (material). By default only
// the section statistics are logged. To generate output, at least one of
// -caps, -geojson, -binvox, -svx or -zip must be supplied.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gmlewis/mesh-slicer/binvox"
	"github.com/gmlewis/mesh-slicer/config"
	"github.com/gmlewis/mesh-slicer/mesh"
	"github.com/gmlewis/mesh-slicer/section"
	"github.com/gmlewis/mesh-slicer/slicer"
	"github.com/gmlewis/mesh-slicer/zipper"
)

var (
	configFile = flag.String("config", "", "Optional YAML config file")
	planeStr   = flag.String("plane", "1,0,0,0", "Cutting plane as nx,ny,nz,c where nx*x+ny*y+nz*z+c=0")
	offset     = flag.Float64("offset", -1, "Distance of the caps from the plane along its normal (default from config, 0.01)")
	microns    = flag.Float64("res", 0, "Slice resolution in microns (default from config, 42)")
	simplify   = flag.Float64("simplify", 0, "Decimate each mesh to this fraction of its triangles before slicing (0 to disable)")
	out        = flag.String("o", "", "Base name of output files (default is the first input file without extension)")

	writeBinvox  = flag.Bool("binvox", false, "Write binvox files, one per part")
	writeCaps    = flag.Bool("caps", false, "Write closure caps to stl files, one per part")
	writeGeoJSON = flag.Bool("geojson", false, "Write the sections in plane coordinates to a GeoJSON file")
	writeSVX     = flag.Bool("svx", false, "Write slices to svx voxel files, one per part")
	writeZip     = flag.Bool("zip", false, "Write slices to zip files, one per part")
)

func main() {
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatalf("usage: mesh-slicer [flags] <mesh files>")
	}
	if !*writeBinvox && !*writeCaps && !*writeGeoJSON && !*writeSVX && !*writeZip {
		log.Printf("-binvox, -caps, -geojson, -svx, or -zip must be supplied to generate output. Reporting sections only.")
	}

	cfg, err := config.Load(*configFile)
	check("config.Load: %v", err)
	if *offset >= 0 {
		cfg.Offset = *offset
	}
	if *microns > 0 {
		cfg.Resolution = float32(*microns)
	}

	plane, err := section.ParsePlane(*planeStr)
	check("ParsePlane: %v", err)

	var parts []*mesh.Mesh
	for _, arg := range flag.Args() {
		log.Printf("Loading %q...", arg)
		m, err := mesh.Load(arg)
		check("%v: %v", arg, err)
		if *simplify > 0 {
			m = m.Simplify(*simplify)
		}
		parts = append(parts, m)
	}

	baseName := *out
	if baseName == "" {
		arg := flag.Arg(0)
		baseName = strings.TrimSuffix(arg, filepath.Ext(arg))
	}

	opts := section.Options{Precision: cfg.Precision}
	results := opts.SectionScene(parts, plane)
	for _, r := range results {
		log.Printf("%v: %v loops, %v triangles, %v segments, %v skipped, %v degenerate",
			r.Part, len(r.Loops), r.Stats.Triangles, r.Stats.Segments, r.Stats.Skipped, r.Stats.Degenerate)
		if len(r.Open) > 0 {
			log.Printf("WARNING: %v: %v open paths; the mesh may not be closed", r.Part, len(r.Open))
		}
	}

	if *writeGeoJSON {
		filename := baseName + "-section.geojson"
		buf, err := json.MarshalIndent(section.SceneGeoJSON(results, plane), "", "  ")
		check("json.Marshal: %v", err)
		err = os.WriteFile(filename, buf, 0644)
		check("WriteFile: %v", err)
		log.Printf("Wrote %v", filename)
	}

	if !*writeBinvox && !*writeCaps && !*writeSVX && !*writeZip {
		log.Println("Done.")
		return
	}

	res := cfg.Resolution
	log.Printf("Resolution in microns: X: %v, Y: %v, Z: %v", res, res, res)
	s, err := slicer.New(parts, res, res, res)
	check("slicer.New: %v", err)
	s.Workers = cfg.Workers
	s.Precision = cfg.Precision

	if *writeCaps {
		log.Printf("Writing closure caps of %v parts at plane %v...", s.NumMaterials(), plane)
		err = s.CapsSlice(baseName, plane, cfg.Offset)
		check("CapsSlice: %v", err)
	}

	if *writeBinvox {
		log.Printf("Slicing %v parts into separate binvox files (%v slices each)...", s.NumMaterials(), s.NumZSlices())
		err = binvox.Slice(baseName, s, false)
		check("binvox.Slice: %v", err)
	}

	if *writeSVX {
		log.Printf("Slicing %v parts into separate SVX files (%v slices each)...", s.NumMaterials(), s.NumZSlices())
		err = zipper.SVXSlice(baseName, s)
		check("zipper.SVXSlice: %v", err)
	}

	if *writeZip {
		log.Printf("Slicing %v parts into separate ZIP files (%v slices each)...", s.NumMaterials(), s.NumZSlices())
		err = zipper.Slice(baseName, s)
		check("zipper.Slice: %v", err)
	}

	log.Println("Done.")
}

func check(fmtStr string, args ...interface{}) {
	err := args[len(args)-1]
	if err != nil {
		log.Fatalf(fmtStr, args...)
	}
}
