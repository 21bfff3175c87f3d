package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"

	"github.com/gmlewis/mesh-slicer/section"
	"github.com/gmlewis/mesh-slicer/slicer"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// sweepMessage is sent by the client. Either Plane is set, or Action is
// "step" to advance the default motion.
type sweepMessage struct {
	Action string         `json:"action"`
	Plane  *section.Plane `json:"plane"`
}

// sweepResponse is sent to the client for every frame that was not
// superseded.
type sweepResponse struct {
	Type    string        `json:"type"` // "frame" or "error"
	Frame   *slicer.Frame `json:"frame,omitempty"`
	Message string        `json:"message,omitempty"`
}

// sweepSession is one websocket client.
type sweepSession struct {
	conn    *websocket.Conn
	sweeper *slicer.Sweeper
	motion  *slicer.Motion
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu sync.Mutex // guards conn writes
}

func (s *Server) sweep(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to websocket: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	session := &sweepSession{
		conn: conn,
		sweeper: &slicer.Sweeper{
			Parts:   s.scene,
			Options: section.Options{Precision: s.cfg.Precision},
			Offset:  s.cfg.Offset,
		},
		motion: slicer.NewMotion(section.Plane{Normal: mgl64.Vec3{1, 0, 0}}),
		ctx:    ctx,
		cancel: cancel,
	}
	session.run()
}

func (ss *sweepSession) run() {
	defer func() {
		ss.cancel()
		ss.wg.Wait()
		ss.conn.Close()
		log.Println("Sweep session closed")
	}()

	for {
		var msg sweepMessage
		if err := ss.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		var plane section.Plane
		switch {
		case msg.Plane != nil:
			p, err := section.NewPlane(msg.Plane.Normal, msg.Plane.Constant)
			if err != nil {
				ss.write(sweepResponse{Type: "error", Message: err.Error()})
				continue
			}
			plane = p
		case msg.Action == "step":
			plane = ss.motion.Next()
		default:
			ss.write(sweepResponse{Type: "error", Message: "want a plane or the step action"})
			continue
		}

		ss.wg.Add(1)
		go func() {
			defer ss.wg.Done()
			ss.section(plane)
		}()
	}
}

// section sends the frame for plane unless a newer plane superseded it.
func (ss *sweepSession) section(plane section.Plane) {
	f, err := ss.sweeper.Section(ss.ctx, plane)
	switch {
	case errors.Is(err, slicer.ErrSuperseded):
		return
	case err != nil:
		ss.write(sweepResponse{Type: "error", Message: err.Error()})
		return
	}
	ss.write(sweepResponse{Type: "frame", Frame: f})
}

func (ss *sweepSession) write(resp sweepResponse) {
	ss.mu.Lock()
	err := ss.conn.WriteJSON(resp)
	ss.mu.Unlock()
	if err != nil {
		log.Printf("Failed to send sweep response: %v", err)
		ss.cancel()
	}
}
