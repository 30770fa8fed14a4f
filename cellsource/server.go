package cellsource

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/phanxgames/tily"
)

// Server serves terrain cells as JSON: GET /cell?x=&y= returns one
// serialized cell, and /ws answers CellRequest messages with
// CellResponse messages.
type Server struct {
	terrain *Terrain
	shim    *tily.CellBuffer
	mux     *http.ServeMux

	upgrader websocket.Upgrader
}

// NewServer creates a server producing cellSize x cellSize cells.
func NewServer(terrain *Terrain, cellSize int) *Server {
	s := &Server{
		terrain: terrain,
		shim:    tily.NewCellBuffer(tily.CellBufferOptions{CellWidth: cellSize, CellHeight: cellSize}),
		mux:     http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	s.mux.HandleFunc("/cell", s.handleCell)
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept")
	s.mux.ServeHTTP(w, r)
}

// cell generates the serialized cell at (x, y).
func (s *Server) cell(x, y int) tily.CellData {
	return s.terrain.Generate(s.shim, x, y).Data()
}

func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	x, errX := queryInt(r, "x")
	y, errY := queryInt(r, "y")
	if err := errors.Join(errX, errY); err != nil {
		http.Error(w, "bad cell coordinate: "+err.Error(), http.StatusBadRequest)
		return
	}
	c := s.terrain.Generate(s.shim, x, y)
	data, err := c.Serialize()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
	tily.Logf("sent cell %d, %d", x, y)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		req, err := wsRecv[CellRequest](conn)
		if err != nil {
			return
		}
		d := s.cell(req.X, req.Y)
		if err := wsSend(conn, CellResponse{X: req.X, Y: req.Y, Cell: &d}); err != nil {
			return
		}
	}
}
