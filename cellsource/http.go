package cellsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/phanxgames/tily"
)

// HTTP fetches cells from a cell server's /cell endpoint. Each request
// runs in its own goroutine; results reach the buffer on its next draw.
type HTTP struct {
	// BaseURL is the server root, e.g. "http://127.0.0.1:1337".
	BaseURL string
	Client  *http.Client
}

// NewHTTP creates a client for the server at baseURL.
func NewHTTP(baseURL string) *HTTP {
	return &HTTP{BaseURL: baseURL, Client: &http.Client{Timeout: 10 * time.Second}}
}

// Fetch downloads and decodes the cell at (x, y) for b.
func (h *HTTP) Fetch(ctx context.Context, b *tily.CellBuffer, x, y int) (*tily.Cell, error) {
	u, err := url.Parse(h.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("fetch cell %d,%d: %w", x, y, err)
	}
	u = u.JoinPath("cell")
	u.RawQuery = url.Values{"x": {strconv.Itoa(x)}, "y": {strconv.Itoa(y)}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch cell %d,%d: %w", x, y, err)
	}
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch cell %d,%d: %w", x, y, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch cell %d,%d: %s", x, y, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch cell %d,%d: %w", x, y, err)
	}
	return tily.UnmarshalCell(b, data)
}

// Func returns a CellFunc that fetches cells in the background. Requests
// still running when ctx is cancelled are rejected.
func (h *HTTP) Func(ctx context.Context) tily.CellFunc {
	return func(b *tily.CellBuffer, x, y int, resolve func(*tily.Cell), reject func(error)) {
		go func() {
			c, err := h.Fetch(ctx, b, x, y)
			if err != nil {
				reject(err)
				return
			}
			resolve(c)
		}()
	}
}
