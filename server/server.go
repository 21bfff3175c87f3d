// Package server serves mesh sections over HTTP and streams sections
// of a moving plane over a websocket.
package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gmlewis/mesh-slicer/config"
	"github.com/gmlewis/mesh-slicer/mesh"
	"github.com/gmlewis/mesh-slicer/section"
)

// Server handles section requests.
type Server struct {
	cfg *config.Config
	// scene is sectioned by the sweep websocket.
	scene []*mesh.Mesh
}

// New returns a server for cfg. scene holds the parts swept by the
// websocket endpoint.
func New(cfg *config.Config, scene []*mesh.Mesh) *Server {
	return &Server{cfg: cfg, scene: scene}
}

// Router returns the HTTP handler of the server.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", s.health)
	r.POST("/section", s.section)
	r.GET("/sweep/ws", s.sweep)
	return r
}

// Run listens on the configured address.
func (s *Server) Run() error {
	log.Printf("Listening on %v", s.cfg.Listen)
	return s.Router().Run(s.cfg.Listen)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": gin.H{"parts": len(s.scene)},
		"msg":  "success",
	})
}

// sectionRequest is the body of POST /section.
type sectionRequest struct {
	Plane  section.Plane `json:"plane"`
	Offset *float64      `json:"offset"`
	Meshes []*mesh.Mesh  `json:"meshes"`
}

// partSection is the section of one mesh in a response.
type partSection struct {
	*section.Result
	Closures []section.Closure `json:"closures"`
	Error    string            `json:"error,omitempty"`
}

// buildClosures caps one section.
var buildClosures = (*section.Result).Closures

func fail(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{
		"code": -1,
		"data": nil,
		"msg":  err.Error(),
	})
}

func (s *Server) section(c *gin.Context) {
	var req sectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	plane, err := section.NewPlane(req.Plane.Normal, req.Plane.Constant)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if len(req.Meshes) == 0 || len(req.Meshes) > s.cfg.MaxMeshes {
		fail(c, http.StatusBadRequest, fmt.Errorf("want 1 to %v meshes, got %v", s.cfg.MaxMeshes, len(req.Meshes)))
		return
	}
	for _, m := range req.Meshes {
		if err := m.Validate(); err != nil {
			fail(c, http.StatusBadRequest, err)
			return
		}
	}
	offset := s.cfg.Offset
	if req.Offset != nil {
		offset = *req.Offset
	}

	id := uuid.New().String()
	opts := section.Options{Precision: s.cfg.Precision}
	var sections []partSection
	for _, r := range opts.SectionScene(req.Meshes, plane) {
		if len(r.Open) > 0 {
			log.Printf("WARNING: request %v: %q has %v open paths", id, r.Part, len(r.Open))
		}
		ps := partSection{Result: r}
		closures, err := buildClosures(r, plane, offset)
		if err != nil {
			log.Printf("WARNING: request %v: %q: %v", id, r.Part, err)
			ps.Error = err.Error()
		} else {
			ps.Closures = closures
		}
		sections = append(sections, ps)
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": gin.H{
			"id":       id,
			"plane":    plane,
			"sections": sections,
		},
		"msg": "success",
	})
}
