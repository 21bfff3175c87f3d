// test-sections cuts the demo scene (two cubes, a sphere and a torus
// knot) with a moving plane and writes the closure caps of the last
// plane to an STL file.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gmlewis/mesh-slicer/mesh"
	"github.com/gmlewis/mesh-slicer/section"
	"github.com/gmlewis/mesh-slicer/slicer"
)

var (
	steps  = flag.Int("steps", 0, "Number of motion steps to sweep the plane before writing caps")
	offset = flag.Float64("offset", section.DefaultOffset, "Distance of the caps from the plane along its normal")
	out    = flag.String("o", "test-sections.stl", "Output STL file")
)

func main() {
	flag.Parse()

	s := &slicer.Sweeper{Parts: mesh.DemoScene(), Offset: *offset}
	motion := slicer.NewMotion(section.Plane{Normal: mgl64.Vec3{1, 0, 0}})

	plane := motion.Plane
	var frame *slicer.Frame
	for i := 0; i <= *steps; i++ {
		if i > 0 {
			plane = motion.Next()
		}
		f, err := s.Section(context.Background(), plane)
		check("Section: %v", err)
		frame = f

		var loops, open int
		for _, r := range f.Sections {
			loops += len(r.Loops)
			open += len(r.Open)
		}
		log.Printf("step %v: plane %v: %v loops, %v open paths", i, plane, loops, open)
	}

	var closures []section.Closure
	for i, c := range frame.Closures {
		log.Printf("%v: %v closures", frame.Sections[i].Part, len(c))
		closures = append(closures, c...)
	}
	err := slicer.WriteCaps(*out, closures)
	check("WriteCaps: %v", err)
	log.Printf("Wrote %v", *out)
}

func check(fmtStr string, args ...interface{}) {
	err := args[len(args)-1]
	if err != nil {
		log.Fatalf(fmtStr, args...)
	}
}
