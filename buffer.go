package tily

import (
	"encoding/json"
	"fmt"
)

// Buffer is a bounded tile map: a camera, a z-ordered list of TileLayers
// sized to the buffer, and a set of active tiles composited between them.
type Buffer struct {
	bufferBase
	layers []*TileLayer
}

var _ Drawable = (*Buffer)(nil)

// NewBuffer creates an empty buffer of w x h tiles.
func NewBuffer(w, h int, opts BufferOptions) *Buffer {
	if w < 0 || h < 0 {
		panic("tily: buffer size must not be negative")
	}
	b := &Buffer{bufferBase: newBufferBase(opts)}
	b.width, b.height = float64(w), float64(h)
	return b
}

// GridSize returns the buffer size in tiles.
func (b *Buffer) GridSize() (int, int) {
	return int(b.width), int(b.height)
}

// Layers returns the tile layers bottom to top. The slice must not be
// modified.
func (b *Buffer) Layers() []*TileLayer { return b.layers }

// Layer returns the layer at index i, or nil.
func (b *Buffer) Layer(i int) *TileLayer {
	if i < 0 || i >= len(b.layers) {
		return nil
	}
	return b.layers[i]
}

// AddLayer inserts layer at z (ZTop, ZBottom or an index) and makes the
// buffer its container. A nil layer creates an empty one.
func (b *Buffer) AddLayer(layer *TileLayer, z int) *TileLayer {
	if layer == nil {
		layer = NewTileLayer(b)
	}
	layer.container = b
	b.layers = insertAt(b.layers, layer, z)
	return layer
}

// RemoveLayer removes and returns the layer at z, or nil.
func (b *Buffer) RemoveLayer(z int) *TileLayer {
	var layer *TileLayer
	b.layers, layer, _ = removeAt(b.layers, z)
	return layer
}

// RemoveAllLayers removes every layer.
func (b *Buffer) RemoveAllLayers() { b.layers = nil }

// MoveLayer moves the layer at from to index to, or by to places when
// relative.
func (b *Buffer) MoveLayer(from, to int, relative bool) bool {
	return moveWithin(b.layers, from, to, relative)
}

// Resize changes the buffer size, keeping the tiles that fit.
func (b *Buffer) Resize(w, h int) {
	for _, l := range b.layers {
		l.Resize(w, h)
	}
	b.width, b.height = float64(w), float64(h)
}

// GetTileInfo describes the tile at (x, y).
func (b *Buffer) GetTileInfo(x, y int) TileInfo {
	info := b.tileInfo(x, y)
	info.Layers = make([]string, len(b.layers))
	for i, l := range b.layers {
		info.Layers[i] = l.Tile(x, y)
	}
	return info
}

// Draw renders one frame of the buffer into a width x height viewport.
// The buffer is drawn as one offscreen group so it can be faded as a
// whole.
func (b *Buffer) Draw(s Surface, dt float64, width, height int) {
	s.BeginLayer()
	defer s.EndLayer()
	s.Save()
	defer s.Restore()

	v := b.prepare(s, dt, width, height)
	ts := b.tileSize
	interleave(len(b.layers), v.tiles,
		func(i int) { b.layers[i].Draw(s, ts, v.tl, v.br) },
		func(t *ActiveTile) { t.Draw(s, dt, ts) })
}

// BufferData is the serialized form of a Buffer.
type BufferData struct {
	Layers      []TileLayerData  `json:"layers"`
	ActiveTiles []ActiveTileData `json:"activeTiles"`
	Options     BufferOptions    `json:"options"`
	Size        SizeData         `json:"size"`
	Offset      Vec2             `json:"offset"`
	Scale       float64          `json:"scale"`
}

// SizeData is a serialized grid size.
type SizeData struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Data returns a snapshot of the buffer.
func (b *Buffer) Data() BufferData {
	d := BufferData{
		Layers:      make([]TileLayerData, len(b.layers)),
		ActiveTiles: activeTilesData(b.activeTiles),
		Options:     b.options,
		Size:        SizeData{Width: int(b.width), Height: int(b.height)},
		Offset:      b.offset,
		Scale:       b.scale,
	}
	for i, l := range b.layers {
		d.Layers[i] = l.Data()
	}
	return d
}

func activeTilesData(tiles []*ActiveTile) []ActiveTileData {
	out := make([]ActiveTileData, 0, len(tiles))
	for _, t := range tiles {
		if !t.Destroyed() {
			out = append(out, t.Data())
		}
	}
	return out
}

// BufferFromData rebuilds a buffer from a snapshot.
func BufferFromData(d BufferData) *Buffer {
	b := NewBuffer(d.Size.Width, d.Size.Height, d.Options)
	b.offset = d.Offset
	if d.Scale > 0 {
		b.scale = d.Scale
	}
	for _, l := range d.Layers {
		b.layers = append(b.layers, TileLayerFromData(b, l))
	}
	for _, t := range d.ActiveTiles {
		b.AddActiveTile(ActiveTileFromData(t))
	}
	return b
}

// Serialize encodes the buffer as JSON.
func (b *Buffer) Serialize() ([]byte, error) {
	return json.Marshal(b.Data())
}

// UnmarshalBuffer decodes a buffer serialized with Serialize.
func UnmarshalBuffer(data []byte) (*Buffer, error) {
	var d BufferData
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal buffer: %w", err)
	}
	if d.Size.Width < 0 || d.Size.Height < 0 {
		return nil, fmt.Errorf("unmarshal buffer: invalid size %dx%d", d.Size.Width, d.Size.Height)
	}
	return BufferFromData(d), nil
}

// DeserializeBuffer is UnmarshalBuffer that logs the error and returns nil
// on malformed input.
func DeserializeBuffer(data []byte) *Buffer {
	b, err := UnmarshalBuffer(data)
	if err != nil {
		logf("couldn't deserialize buffer: %v", err)
		return nil
	}
	return b
}
