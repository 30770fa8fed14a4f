package tily

import (
	"errors"
	"strings"
	"testing"
)

type cellRequest struct {
	x, y    int
	resolve func(*Cell)
	reject  func(error)
}

// deferredCells records requests so tests decide when they complete.
type deferredCells struct {
	requests []cellRequest
}

func (d *deferredCells) fn(b *CellBuffer, x, y int, resolve func(*Cell), reject func(error)) {
	d.requests = append(d.requests, cellRequest{x, y, resolve, reject})
}

func letterCell(b *CellBuffer, letter string) *Cell {
	c := b.NewCell()
	c.AddLayer(nil, ZTop).FillAll(letter)
	return c
}

func TestCellBufferRequestsVisibleCells(t *testing.T) {
	var d deferredCells
	b := NewCellBuffer(CellBufferOptions{
		BufferOptions: BufferOptions{InitialScale: 4},
		CellWidth:     4,
		CellHeight:    4,
		CellFunction:  d.fn,
	})
	b.Draw(NewRecordingSurface(40, 40), 0, 40, 40)
	if len(d.requests) == 0 {
		t.Fatal("no cells requested")
	}
	seen := map[[2]int]bool{}
	for _, r := range d.requests {
		k := [2]int{r.x, r.y}
		if seen[k] {
			t.Errorf("cell %v requested twice", k)
		}
		seen[k] = true
	}
	if !seen[[2]int{0, 0}] || !seen[[2]int{-1, -1}] {
		t.Errorf("requests = %v, want the cells around the origin", seen)
	}
	if c, loading := b.Cell(0, 0); c != nil || !loading {
		t.Error("cell 0,0 should be loading")
	}

	n := len(d.requests)
	b.Draw(NewRecordingSurface(40, 40), 0, 40, 40)
	if len(d.requests) != n {
		t.Errorf("loading cells requested again: %d -> %d", n, len(d.requests))
	}
}

func TestCellBufferResolveAppliesNextFrame(t *testing.T) {
	var d deferredCells
	b := NewCellBuffer(CellBufferOptions{
		BufferOptions: BufferOptions{InitialScale: 4, InitialOffsetX: 1, InitialOffsetY: 1},
		CellWidth:     4,
		CellHeight:    4,
		CellFunction:  d.fn,
	})
	s := NewRecordingSurface(40, 40)
	b.Draw(s, 0, 40, 40)

	for _, r := range d.requests {
		switch {
		case r.x == 0 && r.y == 0:
			r.resolve(letterCell(b, "z"))
		default:
			r.reject(errors.New("no data"))
		}
	}
	if c, _ := b.Cell(0, 0); c != nil {
		t.Fatal("resolved cell applied before the next frame")
	}

	s.Reset()
	b.Draw(s, 0, 40, 40)
	c, loading := b.Cell(0, 0)
	if c == nil || loading {
		t.Fatal("cell 0,0 not resolved")
	}
	if c.Buffer() != b {
		t.Error("resolved cell not bound to buffer")
	}
	texts := s.Texts()
	if len(texts) != 16 || strings.Trim(strings.Join(texts, ""), "z") != "" {
		t.Errorf("texts = %v, want the 16 tiles of cell 0,0", texts)
	}
	if _, loading := b.Cell(-1, 0); !loading {
		t.Error("rejected cell should stay loading")
	}
}

func TestCellBufferBounds(t *testing.T) {
	var d deferredCells
	b := NewCellBuffer(CellBufferOptions{
		BufferOptions: BufferOptions{InitialScale: 16},
		CellWidth:     2,
		CellHeight:    2,
		MinimumX:      Ptr(0),
		MaximumX:      Ptr(2),
		CellFunction:  d.fn,
	})
	b.Draw(NewRecordingSurface(64, 64), 0, 64, 64)
	for _, r := range d.requests {
		if r.x < 0 || r.x >= 2 {
			t.Errorf("requested out of bounds cell %d,%d", r.x, r.y)
		}
	}
	w, h := b.Size()
	if w != 4 || !(h > 1e300) {
		t.Errorf("size = %f x %f, want 4 x +Inf", w, h)
	}
}

func TestCellBufferGetTileInfo(t *testing.T) {
	b := NewCellBuffer(CellBufferOptions{CellWidth: 4, CellHeight: 4})
	c := b.NewCell()
	c.AddLayer(nil, ZTop).SetTile(1, 2, "q", "", "")
	b.SetCell(-1, 0, c)

	info := b.GetTileInfo(-3, 2)
	if info.Cell == nil || !info.Cell.Eq(V(-1, 0)) {
		t.Errorf("cell = %v, want -1,0", info.Cell)
	}
	if len(info.Layers) != 1 || info.Layers[0] != "q" {
		t.Errorf("layers = %q", info.Layers)
	}
	if info := b.GetTileInfo(10, 10); info.Layers != nil {
		t.Error("unloaded cell reported layers")
	}
}

func TestFloorDiv(t *testing.T) {
	tests := [][3]int{{7, 4, 1}, {-1, 4, -1}, {-4, 4, -1}, {-5, 4, -2}, {0, 4, 0}}
	for _, tt := range tests {
		if got := floorDiv(tt[0], tt[1]); got != tt[2] {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt[0], tt[1], got, tt[2])
		}
	}
}

func TestCellActiveTilesDrawInTheirCell(t *testing.T) {
	b := NewCellBuffer(CellBufferOptions{
		BufferOptions: BufferOptions{InitialScale: 4, InitialOffsetX: 1.5, InitialOffsetY: 1.5},
		CellWidth:     2,
		CellHeight:    2,
	})
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			b.SetCell(x, y, b.NewCell())
		}
	}
	at := NewActiveTile(3, 1, 0)
	at.AddLayer(NewActiveTileLayer("@"), ZTop)
	b.AddActiveTile(at)

	s := NewRecordingSurface(40, 40)
	b.Draw(s, 0, 40, 40)
	if got := s.Texts(); len(got) != 1 {
		t.Fatalf("texts = %v, want the tile drawn once", got)
	}
	// Tile (3, 1) at tile size 10 with the camera on (1.5, 1.5): origin
	// translation is 20-15-5 = 0.
	op := s.OpsOfKind("fillText")[0]
	if !approxEqual(op.X, 29.5, 1e-9) || !approxEqual(op.Y, 9.5, 1e-9) {
		t.Errorf("anchor = %f,%f, want 29.5,9.5", op.X, op.Y)
	}
}

func TestCellBufferSerialize(t *testing.T) {
	b := NewCellBuffer(CellBufferOptions{CellWidth: 3, CellHeight: 2, MinimumY: Ptr(-1), MaximumY: Ptr(1)})
	b.SetCell(2, -1, letterCell(b, "k"))
	b.cells[cellKey{5, 5}] = nil
	b.MoveOffset(4, 1, MoveOptions{})

	data, err := b.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	called := false
	got, err := UnmarshalCellBuffer(data, func(*CellBuffer, int, int, func(*Cell), func(error)) { called = true })
	if err != nil {
		t.Fatal(err)
	}
	if got.CachedCells() != 1 {
		t.Errorf("cells = %d, want only the resolved one", got.CachedCells())
	}
	c, _ := got.Cell(2, -1)
	if c == nil || c.Layers()[0].Tile(2, 1) != "k" {
		t.Fatal("cell contents lost")
	}
	if w, h := c.GridSize(); w != 3 || h != 2 {
		t.Errorf("cell size = %dx%d", w, h)
	}
	if o := got.CellOptions(); o.MinimumY == nil || *o.MinimumY != -1 || o.CellFunction == nil {
		t.Error("options not restored")
	}
	if !got.Offset().Eq(V(4, 1)) {
		t.Errorf("offset = %v", got.Offset())
	}
	if called {
		t.Error("cell function called during unmarshal")
	}

	if _, ok := parseCellKey("1_x"); ok {
		t.Error("malformed key parsed")
	}
	if k, ok := parseCellKey("-3_7"); !ok || k != (cellKey{-3, 7}) {
		t.Errorf("parseCellKey = %v %v", k, ok)
	}
	if DeserializeCellBuffer([]byte("nope"), nil) != nil || DeserializeCell(b, []byte("[")) != nil {
		t.Error("malformed input should deserialize to nil")
	}
}
