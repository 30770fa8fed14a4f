package cellsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/phanxgames/tily"
)

// CellRequest asks a cell server for one cell over the websocket.
type CellRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// CellResponse carries a produced cell, or an error message.
type CellResponse struct {
	X     int            `json:"x"`
	Y     int            `json:"y"`
	Cell  *tily.CellData `json:"cell,omitempty"`
	Error string         `json:"error,omitempty"`
}

type pendingCell struct {
	buffer  *tily.CellBuffer
	resolve func(*tily.Cell)
	reject  func(error)
}

// WebSocket streams cells over a single websocket connection. Requests are
// written as they are made and responses are matched by coordinate.
type WebSocket struct {
	conn *websocket.Conn

	writeMu sync.Mutex
	mu      sync.Mutex
	pending map[CellRequest][]pendingCell
	err     error
	done    chan struct{}
}

// DialWebSocket connects to a cell server's /ws endpoint at url and starts
// reading responses.
func DialWebSocket(ctx context.Context, url string) (*WebSocket, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, http.Header{})
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	ws := &WebSocket{
		conn:    conn,
		pending: map[CellRequest][]pendingCell{},
		done:    make(chan struct{}),
	}
	go ws.readLoop()
	return ws, nil
}

// Done is closed when the connection stops reading.
func (ws *WebSocket) Done() <-chan struct{} { return ws.done }

// Close closes the connection. Outstanding requests are rejected.
func (ws *WebSocket) Close() error {
	ws.writeMu.Lock()
	_ = ws.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	ws.writeMu.Unlock()
	return ws.conn.Close()
}

func wsRecv[T any](conn *websocket.Conn) (T, error) {
	var data T
	mtype, message, err := conn.ReadMessage()
	if err != nil {
		return data, err
	}
	if mtype != websocket.TextMessage {
		return data, errors.New("unexpected websocket message type")
	}
	if err := json.Unmarshal(message, &data); err != nil {
		return data, err
	}
	return data, nil
}

func wsSend(conn *websocket.Conn, data any) error {
	message, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, message)
}

func (ws *WebSocket) readLoop() {
	defer close(ws.done)
	for {
		resp, err := wsRecv[CellResponse](ws.conn)
		if err != nil {
			ws.fail(err)
			return
		}
		key := CellRequest{X: resp.X, Y: resp.Y}
		ws.mu.Lock()
		waiters := ws.pending[key]
		delete(ws.pending, key)
		ws.mu.Unlock()
		for _, p := range waiters {
			switch {
			case resp.Error != "":
				p.reject(fmt.Errorf("cell %d,%d: %s", resp.X, resp.Y, resp.Error))
			case resp.Cell == nil:
				p.reject(fmt.Errorf("cell %d,%d: empty response", resp.X, resp.Y))
			default:
				p.resolve(tily.CellFromData(p.buffer, *resp.Cell))
			}
		}
	}
}

// fail rejects every outstanding request.
func (ws *WebSocket) fail(err error) {
	ws.mu.Lock()
	ws.err = err
	pending := ws.pending
	ws.pending = map[CellRequest][]pendingCell{}
	ws.mu.Unlock()
	for key, waiters := range pending {
		for _, p := range waiters {
			p.reject(fmt.Errorf("cell %d,%d: %w", key.X, key.Y, err))
		}
	}
}

// Request sends a request for (x, y). Exactly one of resolve or reject is
// called later from the read goroutine.
func (ws *WebSocket) Request(b *tily.CellBuffer, x, y int, resolve func(*tily.Cell), reject func(error)) {
	key := CellRequest{X: x, Y: y}
	ws.mu.Lock()
	if ws.err != nil {
		err := ws.err
		ws.mu.Unlock()
		reject(fmt.Errorf("cell %d,%d: %w", x, y, err))
		return
	}
	ws.pending[key] = append(ws.pending[key], pendingCell{buffer: b, resolve: resolve, reject: reject})
	ws.mu.Unlock()

	ws.writeMu.Lock()
	err := wsSend(ws.conn, key)
	ws.writeMu.Unlock()
	if err != nil {
		ws.mu.Lock()
		delete(ws.pending, key)
		ws.mu.Unlock()
		reject(fmt.Errorf("request cell %d,%d: %w", x, y, err))
	}
}

// Func returns a CellFunc backed by this connection.
func (ws *WebSocket) Func() tily.CellFunc {
	return func(b *tily.CellBuffer, x, y int, resolve func(*tily.Cell), reject func(error)) {
		ws.Request(b, x, y, resolve, reject)
	}
}
