// section-server serves mesh sections over HTTP.
//
// POST /section cuts the meshes of the request body with its plane.
// GET /sweep/ws streams the sections of the scene given on the command
// line (or the demo scene) for planes sent by the client.
package main

import (
	"flag"
	"log"

	"github.com/gmlewis/mesh-slicer/config"
	"github.com/gmlewis/mesh-slicer/mesh"
	"github.com/gmlewis/mesh-slicer/server"
)

var (
	configFile = flag.String("config", "", "Optional YAML config file")
	listen     = flag.String("listen", "", "Listen address (default from config, :8080)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	check("config.Load: %v", err)
	if *listen != "" {
		cfg.Listen = *listen
	}

	var scene []*mesh.Mesh
	for _, arg := range flag.Args() {
		m, err := mesh.Load(arg)
		check("%v: %v", arg, err)
		scene = append(scene, m)
	}
	if len(scene) == 0 {
		log.Printf("No mesh files given; sweeping the demo scene.")
		scene = mesh.DemoScene()
	}

	err = server.New(cfg, scene).Run()
	check("Run: %v", err)
}

func check(fmtStr string, args ...interface{}) {
	err := args[len(args)-1]
	if err != nil {
		log.Fatalf(fmtStr, args...)
	}
}
