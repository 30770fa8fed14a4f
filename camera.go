package tily

import (
	"math"
	"sort"
)

// BufferOptions configures the camera of a Buffer or CellBuffer. Zero
// values select the defaults returned by DefaultBufferOptions.
type BufferOptions struct {
	// LockedAxis is "x" or "y": the viewport axis along which Scale tiles
	// are visible. With ClampCamera set, the longer viewport axis is used
	// instead.
	LockedAxis     string  `json:"lockedAxis"`
	InitialOffsetX float64 `json:"initialOffsetX"`
	InitialOffsetY float64 `json:"initialOffsetY"`
	// InitialScale is the number of tiles visible along the locked axis.
	InitialScale float64 `json:"initialScale"`
	MaximumScale float64 `json:"maximumScale"`
	MinimumScale float64 `json:"minimumScale"`
	// ClampCamera keeps the viewport inside the buffer's bounds.
	ClampCamera bool `json:"clampCamera"`
}

// DefaultBufferOptions returns the default camera configuration.
func DefaultBufferOptions() BufferOptions {
	return BufferOptions{
		LockedAxis:   "x",
		InitialScale: 16,
		MaximumScale: 32,
		MinimumScale: 4,
	}
}

func (o BufferOptions) withDefaults() BufferOptions {
	d := DefaultBufferOptions()
	if o.LockedAxis != "y" {
		o.LockedAxis = d.LockedAxis
	}
	if o.InitialScale == 0 {
		o.InitialScale = d.InitialScale
	}
	if o.MaximumScale == 0 {
		o.MaximumScale = d.MaximumScale
	}
	if o.MinimumScale == 0 {
		o.MinimumScale = d.MinimumScale
	}
	return o
}

// MoveOptions configures Buffer.MoveOffset.
type MoveOptions struct {
	TransitionOptions
	// Unit is "px" to move in pixels, otherwise tiles.
	Unit string
	// Relative moves by (x, y) instead of to (x, y).
	Relative bool
}

// TileInfo describes one tile position, as returned by GetTileInfo.
type TileInfo struct {
	Position Vec2
	// ActiveTiles holds the active tiles whose position is exactly this
	// tile, as of the last draw.
	ActiveTiles []*ActiveTile
	// Layers holds the tile string of each static layer, bottom to top.
	Layers []string
	// Cell is the cell coordinate, for CellBuffer only.
	Cell *Vec2
}

// Drawable is a buffer that Main can render and cross-fade.
type Drawable interface {
	Draw(s Surface, dt float64, width, height int)
	MoveOffset(x, y float64, opts MoveOptions) *Future
	Zoom(scale float64, opts TransitionOptions) *Future
	GetPosition(x, y float64) Vec2
	GetTileInfo(x, y int) TileInfo
	Offset() Vec2
	Scale() float64
	TileSize() float64
}

// bufferBase is the camera and active tile state shared by Buffer and
// CellBuffer.
type bufferBase struct {
	options BufferOptions

	activeTiles    []*ActiveTile
	activeTilesMap map[Vec2][]*ActiveTile

	offset           Vec2
	offsetTransition *Transition[Vec2]
	scale            float64
	scaleTransition  *Transition[float64]

	// width and height are the buffer size in tiles, +Inf when unbounded.
	// originX and originY are the tile coordinates of the top-left corner.
	width, height    float64
	originX, originY float64
	tileSize         float64
	viewSize         Vec2
}

func newBufferBase(opts BufferOptions) bufferBase {
	opts = opts.withDefaults()
	return bufferBase{
		options:        opts,
		activeTilesMap: map[Vec2][]*ActiveTile{},
		offset:         V(opts.InitialOffsetX, opts.InitialOffsetY),
		scale:          opts.InitialScale,
	}
}

// Options returns the camera configuration.
func (b *bufferBase) Options() BufferOptions { return b.options }

// SetOptions replaces the camera configuration. Zero values select
// defaults.
func (b *bufferBase) SetOptions(opts BufferOptions) { b.options = opts.withDefaults() }

// AddActiveTile adds tiles to the buffer.
func (b *bufferBase) AddActiveTile(tiles ...*ActiveTile) {
	b.activeTiles = append(b.activeTiles, tiles...)
}

// RemoveActiveTile marks tile destroyed. It is dropped on the next draw.
func (b *bufferBase) RemoveActiveTile(tile *ActiveTile) {
	tile.Destroy()
}

// RemoveAllActiveTiles drops every active tile immediately.
func (b *bufferBase) RemoveAllActiveTiles() {
	b.activeTiles = nil
}

// ActiveTiles returns the buffer's active tiles, including destroyed ones
// not yet collected.
func (b *bufferBase) ActiveTiles() []*ActiveTile { return b.activeTiles }

// Offset returns the camera target offset in tiles.
func (b *bufferBase) Offset() Vec2 { return b.offset }

// OffsetPixels returns the camera offset in pixels at the current tile
// size.
func (b *bufferBase) OffsetPixels() Vec2 { return b.offset.MulS(b.tileSize) }

// Scale returns the number of tiles visible along the locked axis.
func (b *bufferBase) Scale() float64 { return b.scale }

// TileSize returns the size of one tile in pixels as of the last draw.
func (b *bufferBase) TileSize() float64 { return b.tileSize }

// ViewSize returns the number of tiles visible on each axis as of the last
// draw.
func (b *bufferBase) ViewSize() Vec2 { return b.viewSize }

// MoveOffset starts a camera move to (x, y). A move still in flight is
// collapsed to its current value first, so the new move starts from where
// the camera visibly is. The superseded move's future never resolves.
func (b *bufferBase) MoveOffset(x, y float64, opts MoveOptions) *Future {
	target := V(x, y)
	if opts.Unit == "px" && b.tileSize > 0 {
		target = target.DivS(b.tileSize)
	}
	if b.offsetTransition != nil {
		b.offset = b.offsetTransition.Update(0)
	}
	if opts.Relative {
		target = b.offset.Add(target)
	}
	b.offsetTransition = NewOffsetTransition(b.offset, target, opts.TransitionOptions)
	b.offset = target
	return b.offsetTransition.Future()
}

// Zoom starts a camera scale change. It supersedes a zoom in flight the
// same way MoveOffset does.
func (b *bufferBase) Zoom(scale float64, opts TransitionOptions) *Future {
	if b.scaleTransition != nil {
		b.scale = b.scaleTransition.Update(0)
	}
	b.scaleTransition = NewScaleTransition(b.scale, scale, opts)
	b.scale = scale
	return b.scaleTransition.Future()
}

// GetPosition maps a viewport pixel to the tile under it.
func (b *bufferBase) GetPosition(x, y float64) Vec2 {
	if b.tileSize <= 0 {
		return b.offset.Floor()
	}
	tl := b.offset.AddS(0.5).Sub(b.viewSize.DivS(2))
	return tl.Add(V(x, y).DivS(b.tileSize)).Floor()
}

func (b *bufferBase) tileInfo(x, y int) TileInfo {
	p := V(float64(x), float64(y))
	return TileInfo{
		Position:    p,
		ActiveTiles: append([]*ActiveTile(nil), b.activeTilesMap[p]...),
	}
}

// updateTransitions advances the camera transitions and returns the
// offset to draw with. Finished transitions are dropped.
func (b *bufferBase) updateTransitions(dt float64) Vec2 {
	offset := b.offset
	if b.offsetTransition != nil {
		offset = b.offsetTransition.Update(dt)
		if b.offsetTransition.Finished() {
			b.offsetTransition = nil
		}
	}
	if b.scaleTransition != nil {
		b.scale = b.scaleTransition.Update(dt)
		if b.scaleTransition.Finished() {
			b.scaleTransition = nil
		}
	}
	return offset
}

// view is the camera state computed for one frame.
type view struct {
	offset Vec2
	// tl and br bound the visible tile window, with a one tile margin.
	tl, br Vec2
	tiles  []*ActiveTile
}

// prepare runs the camera part of a frame: advance transitions, clamp
// scale and offset, derive tile and view size, translate s so that tile
// (0, 0) is at the origin, and collect the visible active tiles.
func (b *bufferBase) prepare(s Surface, dt float64, width, height int) view {
	offset := b.updateTransitions(dt)
	w, h := float64(width), float64(height)

	lockedAxis := b.options.LockedAxis
	maximumScale := b.options.MaximumScale
	if b.options.ClampCamera {
		maximumScale = math.Min(maximumScale, math.Min(b.width, b.height))
		if w > h {
			lockedAxis = "x"
		} else if h > w {
			lockedAxis = "y"
		}
	}
	b.scale = clamp(b.scale, math.Max(b.options.MinimumScale, 1), maximumScale)
	if lockedAxis == "y" {
		b.tileSize = h / b.scale
	} else {
		b.tileSize = w / b.scale
	}
	b.viewSize = V(w/b.tileSize, h/b.tileSize)

	if b.options.ClampCamera {
		centre := b.viewSize.MulS(0.5).SubS(0.5)
		if !math.IsInf(b.width, 0) {
			offset.X = clamp(offset.X, b.originX+centre.X, b.originX+b.width-centre.X-1)
		}
		if !math.IsInf(b.height, 0) {
			offset.Y = clamp(offset.Y, b.originY+centre.Y, b.originY+b.height-centre.Y-1)
		}
		b.offset = offset
	}

	ts := b.tileSize
	s.Translate(w*0.5-offset.X*ts-ts*0.5, h*0.5-offset.Y*ts-ts*0.5)

	half := b.viewSize.MulS(0.5).AddS(1)
	tl := offset.Sub(half).Floor()
	br := offset.Add(half).Ceil()
	return view{offset: offset, tl: tl, br: br, tiles: b.updateActiveTilesMap(tl, br)}
}

// updateActiveTilesMap drops destroyed tiles, rebuilds the position map and
// returns the tiles whose position plus offset lies within [tl, br],
// sorted by z-index.
func (b *bufferBase) updateActiveTilesMap(tl, br Vec2) []*ActiveTile {
	clear(b.activeTilesMap)
	kept := b.activeTiles[:0]
	var visible []*ActiveTile
	for _, t := range b.activeTiles {
		if t.Destroyed() {
			continue
		}
		kept = append(kept, t)
		if inBounds(t.Position.Add(t.InheritedOffset()), tl, br) {
			visible = append(visible, t)
		}
		b.activeTilesMap[t.Position] = append(b.activeTilesMap[t.Position], t)
	}
	for i := len(kept); i < len(b.activeTiles); i++ {
		b.activeTiles[i] = nil
	}
	b.activeTiles = kept
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].ZIndex < visible[j].ZIndex })
	return visible
}

func inBounds(p, tl, br Vec2) bool {
	return p.X >= tl.X && p.X <= br.X && p.Y >= tl.Y && p.Y <= br.Y
}

// interleave draws layerCount static layers and the z-sorted active tiles
// in compositing order. A tile with ZIndex z is drawn after static layer
// z-1 and before layer z, so z = 0 is below every layer and z = layerCount
// is above them all.
func interleave(layerCount int, tiles []*ActiveTile, drawLayer func(i int), drawTile func(t *ActiveTile)) {
	j := 0
	for i := 0; i < layerCount; i++ {
		for j < len(tiles) && tiles[j].ZIndex < i+1 {
			drawTile(tiles[j])
			j++
		}
		drawLayer(i)
	}
	for ; j < len(tiles); j++ {
		drawTile(tiles[j])
	}
}
