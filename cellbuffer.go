package tily

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
)

// CellFunc produces the cell at cell coordinate (x, y). It must eventually
// call exactly one of resolve or reject, from any goroutine. It is called
// again for the same coordinate only if that coordinate never resolved.
type CellFunc func(b *CellBuffer, x, y int, resolve func(*Cell), reject func(error))

// CellBufferOptions configures a CellBuffer. Zero values select defaults.
type CellBufferOptions struct {
	BufferOptions
	// CellWidth and CellHeight are the cell size in tiles. Default 16.
	CellWidth  int `json:"cellWidth"`
	CellHeight int `json:"cellHeight"`
	// Cell coordinate bounds. An axis is bounded only when both its
	// minimum and maximum are set; the maximum is exclusive.
	MinimumX *int `json:"minimumX"`
	MinimumY *int `json:"minimumY"`
	MaximumX *int `json:"maximumX"`
	MaximumY *int `json:"maximumY"`
	// CellFunction produces cells on demand. It is not serialized.
	CellFunction CellFunc `json:"-"`
}

func (o CellBufferOptions) withDefaults() CellBufferOptions {
	o.BufferOptions = o.BufferOptions.withDefaults()
	if o.CellWidth <= 0 {
		o.CellWidth = 16
	}
	if o.CellHeight <= 0 {
		o.CellHeight = 16
	}
	return o
}

// cellKey is a cell coordinate.
type cellKey struct{ x, y int }

func (k cellKey) String() string { return strconv.Itoa(k.x) + "_" + strconv.Itoa(k.y) }

func parseCellKey(s string) (cellKey, bool) {
	xs, ys, ok := strings.Cut(s, "_")
	if !ok {
		return cellKey{}, false
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return cellKey{}, false
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return cellKey{}, false
	}
	return cellKey{x, y}, true
}

type cellResult struct {
	key  cellKey
	cell *Cell
	err  error
}

// CellBuffer is a tile plane partitioned into fixed-size cells that are
// produced on demand by CellFunction and cached forever. The plane is
// unbounded on any axis without both cell bounds set.
//
// A cell whose production is rejected stays in the loading state and is
// never requested again.
type CellBuffer struct {
	bufferBase
	cellOptions CellBufferOptions

	// cells maps a cell coordinate to its cell, or to nil while loading.
	cells map[cellKey]*Cell

	mu      sync.Mutex
	pending []cellResult
}

var _ Drawable = (*CellBuffer)(nil)

// NewCellBuffer creates an empty cell buffer.
func NewCellBuffer(opts CellBufferOptions) *CellBuffer {
	opts = opts.withDefaults()
	b := &CellBuffer{
		bufferBase:  newBufferBase(opts.BufferOptions),
		cellOptions: opts,
		cells:       map[cellKey]*Cell{},
	}
	b.updateSize()
	return b
}

func (b *CellBuffer) updateSize() {
	o := b.cellOptions
	b.width, b.originX = axisExtent(o.MinimumX, o.MaximumX, o.CellWidth)
	b.height, b.originY = axisExtent(o.MinimumY, o.MaximumY, o.CellHeight)
}

func axisExtent(lo, hi *int, cell int) (size, origin float64) {
	if lo == nil || hi == nil {
		return math.Inf(1), 0
	}
	return float64((*hi - *lo) * cell), float64(*lo * cell)
}

// CellOptions returns the buffer configuration.
func (b *CellBuffer) CellOptions() CellBufferOptions { return b.cellOptions }

// CellSize returns the cell size in tiles.
func (b *CellBuffer) CellSize() (int, int) {
	return b.cellOptions.CellWidth, b.cellOptions.CellHeight
}

// Size returns the plane size in tiles. Unbounded axes are +Inf.
func (b *CellBuffer) Size() (float64, float64) { return b.width, b.height }

// NewCell creates an empty cell sized for this buffer.
func (b *CellBuffer) NewCell() *Cell {
	return &Cell{buffer: b}
}

// Cell returns the cell at cell coordinate (x, y). loading is true while
// the cell is being produced; both results are zero when it was never
// requested.
func (b *CellBuffer) Cell(x, y int) (cell *Cell, loading bool) {
	c, ok := b.cells[cellKey{x, y}]
	return c, ok && c == nil
}

// SetCell stores a resolved cell directly, replacing any cached entry.
func (b *CellBuffer) SetCell(x, y int, cell *Cell) {
	cell.buffer = b
	b.cells[cellKey{x, y}] = cell
}

// CachedCells returns the number of cells resolved or loading.
func (b *CellBuffer) CachedCells() int { return len(b.cells) }

func (b *CellBuffer) inBoundsCell(x, y int) bool {
	o := b.cellOptions
	if o.MinimumX != nil && o.MaximumX != nil && (x < *o.MinimumX || x >= *o.MaximumX) {
		return false
	}
	if o.MinimumY != nil && o.MaximumY != nil && (y < *o.MinimumY || y >= *o.MaximumY) {
		return false
	}
	return true
}

// request marks (x, y) loading and asks the cell function for it.
func (b *CellBuffer) request(k cellKey) {
	b.cells[k] = nil
	fn := b.cellOptions.CellFunction
	if fn == nil {
		return
	}
	resolve := func(c *Cell) {
		b.mu.Lock()
		b.pending = append(b.pending, cellResult{key: k, cell: c})
		b.mu.Unlock()
	}
	reject := func(err error) {
		b.mu.Lock()
		b.pending = append(b.pending, cellResult{key: k, err: err})
		b.mu.Unlock()
	}
	fn(b, k.x, k.y, resolve, reject)
}

// applyPending moves cells resolved since the last frame into the cache.
func (b *CellBuffer) applyPending() {
	b.mu.Lock()
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()
	for _, r := range pending {
		switch {
		case r.err != nil:
			logf("cell %d,%d rejected: %v", r.key.x, r.key.y, r.err)
		case r.cell == nil:
			logf("cell %d,%d resolved without a cell", r.key.x, r.key.y)
		default:
			r.cell.buffer = b
			b.cells[r.key] = r.cell
		}
	}
}

// GetTileInfo describes the tile at (x, y), including the cell it falls in
// and that cell's layers if it has loaded.
func (b *CellBuffer) GetTileInfo(x, y int) TileInfo {
	info := b.tileInfo(x, y)
	cw, ch := b.CellSize()
	cx, cy := floorDiv(x, cw), floorDiv(y, ch)
	info.Cell = &Vec2{float64(cx), float64(cy)}
	if c := b.cells[cellKey{cx, cy}]; c != nil {
		lx, ly := x-cx*cw, y-cy*ch
		info.Layers = make([]string, len(c.layers))
		for i, l := range c.layers {
			info.Layers[i] = l.Tile(lx, ly)
		}
	}
	return info
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Draw renders one frame. Cells entering the view are requested from the
// cell function; cells that have resolved are drawn.
func (b *CellBuffer) Draw(s Surface, dt float64, width, height int) {
	b.applyPending()

	s.BeginLayer()
	defer s.EndLayer()
	s.Save()
	defer s.Restore()

	v := b.prepare(s, dt, width, height)
	cw, ch := float64(b.cellOptions.CellWidth), float64(b.cellOptions.CellHeight)
	x0, y0 := int(math.Floor(v.tl.X/cw)), int(math.Floor(v.tl.Y/ch))
	x1, y1 := int(math.Ceil(v.br.X/cw)), int(math.Ceil(v.br.Y/ch))
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if !b.inBoundsCell(x, y) {
				continue
			}
			k := cellKey{x, y}
			c, ok := b.cells[k]
			if !ok {
				b.request(k)
				continue
			}
			if c != nil {
				c.Draw(s, dt, x, y, b.tileSize, v.tl, v.br, v.tiles)
			}
		}
	}
}

// CellBufferData is the serialized form of a CellBuffer. Cells still
// loading are not included.
type CellBufferData struct {
	Options     CellBufferOptions   `json:"options"`
	Cells       map[string]CellData `json:"cells"`
	ActiveTiles []ActiveTileData    `json:"activeTiles"`
	Offset      Vec2                `json:"offset"`
	Scale       float64             `json:"scale"`
}

// Data returns a snapshot of the buffer and its resolved cells.
func (b *CellBuffer) Data() CellBufferData {
	d := CellBufferData{
		Options:     b.cellOptions,
		Cells:       make(map[string]CellData, len(b.cells)),
		ActiveTiles: activeTilesData(b.activeTiles),
		Offset:      b.offset,
		Scale:       b.scale,
	}
	d.Options.CellFunction = nil
	for k, c := range b.cells {
		if c != nil {
			d.Cells[k.String()] = c.Data()
		}
	}
	return d
}

// CellBufferFromData rebuilds a cell buffer. fn becomes its cell function.
func CellBufferFromData(d CellBufferData, fn CellFunc) *CellBuffer {
	opts := d.Options
	opts.CellFunction = fn
	b := NewCellBuffer(opts)
	b.offset = d.Offset
	if d.Scale > 0 {
		b.scale = d.Scale
	}
	for ks, cd := range d.Cells {
		k, ok := parseCellKey(ks)
		if !ok {
			logf("skipping cell with malformed key %q", ks)
			continue
		}
		b.cells[k] = CellFromData(b, cd)
	}
	for _, t := range d.ActiveTiles {
		b.AddActiveTile(ActiveTileFromData(t))
	}
	return b
}

// Serialize encodes the buffer as JSON.
func (b *CellBuffer) Serialize() ([]byte, error) {
	return json.Marshal(b.Data())
}

// UnmarshalCellBuffer decodes a buffer serialized with Serialize.
func UnmarshalCellBuffer(data []byte, fn CellFunc) (*CellBuffer, error) {
	var d CellBufferData
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal cell buffer: %w", err)
	}
	return CellBufferFromData(d, fn), nil
}

// DeserializeCellBuffer is UnmarshalCellBuffer that logs the error and
// returns nil on malformed input.
func DeserializeCellBuffer(data []byte, fn CellFunc) *CellBuffer {
	b, err := UnmarshalCellBuffer(data, fn)
	if err != nil {
		logf("couldn't deserialize cell buffer: %v", err)
		return nil
	}
	return b
}

// Cell is one fixed-size partition of a CellBuffer. Its tile layers are
// sized to the cell and addressed in cell-local coordinates.
type Cell struct {
	buffer *CellBuffer
	layers []*TileLayer
}

// NewCell creates a detached cell for b. Equivalent to b.NewCell.
func NewCell(b *CellBuffer) *Cell { return b.NewCell() }

// Buffer returns the owning buffer.
func (c *Cell) Buffer() *CellBuffer { return c.buffer }

// GridSize returns the cell size in tiles.
func (c *Cell) GridSize() (int, int) {
	if c.buffer == nil {
		return 0, 0
	}
	return c.buffer.CellSize()
}

// Layers returns the tile layers bottom to top.
func (c *Cell) Layers() []*TileLayer { return c.layers }

// AddLayer inserts layer at z and makes the cell its container. A nil
// layer creates an empty one.
func (c *Cell) AddLayer(layer *TileLayer, z int) *TileLayer {
	if layer == nil {
		layer = NewTileLayer(c)
	}
	layer.container = c
	c.layers = insertAt(c.layers, layer, z)
	return layer
}

// RemoveLayer removes and returns the layer at z, or nil.
func (c *Cell) RemoveLayer(z int) *TileLayer {
	var layer *TileLayer
	c.layers, layer, _ = removeAt(c.layers, z)
	return layer
}

// RemoveAllLayers removes every layer.
func (c *Cell) RemoveAllLayers() { c.layers = nil }

// MoveLayer moves the layer at from to index to, or by to places when
// relative.
func (c *Cell) MoveLayer(from, to int, relative bool) bool {
	return moveWithin(c.layers, from, to, relative)
}

// Draw renders the cell at cell coordinate (x, y). tl and br are the
// buffer's visible tile window and tiles the buffer's visible active
// tiles; only those inside this cell are drawn.
func (c *Cell) Draw(s Surface, dt float64, x, y int, tileSize float64, tl, br Vec2, tiles []*ActiveTile) {
	cw, ch := c.GridSize()
	origin := V(float64(x*cw), float64(y*ch))
	end := origin.Add(V(float64(cw), float64(ch)))

	s.Save()
	defer s.Restore()
	s.Translate(origin.X*tileSize, origin.Y*tileSize)

	var inCell []*ActiveTile
	for _, t := range tiles {
		p := t.Position.Add(t.InheritedOffset())
		if p.X >= origin.X && p.X < end.X && p.Y >= origin.Y && p.Y < end.Y {
			inCell = append(inCell, t)
		}
	}
	ltl, lbr := tl.Sub(origin), br.Sub(origin)
	interleave(len(c.layers), inCell,
		func(i int) { c.layers[i].Draw(s, tileSize, ltl, lbr) },
		func(t *ActiveTile) {
			// Active tile positions are global.
			s.Save()
			s.Translate(-origin.X*tileSize, -origin.Y*tileSize)
			t.Draw(s, dt, tileSize)
			s.Restore()
		})
}

// CellData is the serialized form of a Cell.
type CellData struct {
	Layers []TileLayerData `json:"layers"`
}

// Data returns a snapshot of the cell.
func (c *Cell) Data() CellData {
	d := CellData{Layers: make([]TileLayerData, len(c.layers))}
	for i, l := range c.layers {
		d.Layers[i] = l.Data()
	}
	return d
}

// CellFromData rebuilds a cell owned by b.
func CellFromData(b *CellBuffer, d CellData) *Cell {
	c := b.NewCell()
	for _, l := range d.Layers {
		c.layers = append(c.layers, TileLayerFromData(c, l))
	}
	return c
}

// Serialize encodes the cell as JSON.
func (c *Cell) Serialize() ([]byte, error) {
	return json.Marshal(c.Data())
}

// UnmarshalCell decodes a cell for b.
func UnmarshalCell(b *CellBuffer, data []byte) (*Cell, error) {
	var d CellData
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal cell: %w", err)
	}
	return CellFromData(b, d), nil
}

// DeserializeCell is UnmarshalCell that logs the error and returns nil on
// malformed input.
func DeserializeCell(b *CellBuffer, data []byte) *Cell {
	c, err := UnmarshalCell(b, data)
	if err != nil {
		logf("couldn't deserialize cell: %v", err)
		return nil
	}
	return c
}
