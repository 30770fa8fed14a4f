package tily

import (
	"math"
)

// Container supplies the grid size of the tile layers it owns. Buffer and
// Cell implement it.
type Container interface {
	GridSize() (w, h int)
}

// TileLayer is one z-ordered layer of tile content. Tiles are stored
// row-major at index width*y+x; each tile is a string drawn one character
// at a time at the same anchor, and the empty string is not drawn.
// Per-tile colour overrides live in sparse maps allocated on first use.
type TileLayer struct {
	container Container

	// Font is the font family used for every tile in the layer.
	Font string
	// Foreground is the default tile colour.
	Foreground string
	// Background is the default background colour. Empty means no
	// background unless a tile sets its own.
	Background    string
	Opacity       float64
	CompositeMode string
	// Clip restricts each tile's glyphs to the tile's bounds.
	Clip bool
	// Centered anchors glyphs at the tile centre instead of the top-left.
	Centered bool

	tiles         []string
	foregroundMap []string
	backgroundMap []string
}

// NewTileLayer creates an empty layer owned by container.
func NewTileLayer(container Container) *TileLayer {
	return &TileLayer{
		container:     container,
		Font:          "sans-serif",
		Foreground:    "white",
		Opacity:       1,
		CompositeMode: "source-over",
	}
}

// Container returns the layer's owner.
func (l *TileLayer) Container() Container { return l.container }

// tileRegion is a rectangle of tile indices: start index, width and
// height, and the gap to skip from the end of one row to the start of the
// next.
type tileRegion struct {
	start, width, height, gap int
}

// region normalizes two corners into a tileRegion clamped to a w x h grid.
// The second corner is exclusive.
func region(x1, y1, x2, y2, w, h int) tileRegion {
	if x2 < x1 {
		x2 = x1
	}
	if y2 < y1 {
		y2 = y1
	}
	x1 = clampInt(x1, 0, w)
	y1 = clampInt(y1, 0, h)
	x2 = clampInt(x2, 0, w)
	y2 = clampInt(y2, 0, h)
	width := x2 - x1
	return tileRegion{
		start:  w*y1 + x1,
		width:  width,
		height: y2 - y1,
		gap:    w - width,
	}
}

// each calls fn with the index of every tile in the region.
func (r tileRegion) each(fn func(i int)) {
	i := r.start
	for y := r.height; y > 0; y-- {
		for x := r.width; x > 0; x-- {
			fn(i)
			i++
		}
		i += r.gap
	}
}

func (l *TileLayer) size() (int, int) {
	if l.container == nil {
		return 0, 0
	}
	return l.container.GridSize()
}

func (l *TileLayer) inBounds(x, y int) (int, bool) {
	w, h := l.size()
	if x < 0 || x >= w || y < 0 || y >= h {
		return 0, false
	}
	return w*y + x, true
}

// grow extends s so that index i is addressable.
func grow(s []string, i int) []string {
	if i < len(s) {
		return s
	}
	if i < cap(s) {
		return s[:i+1]
	}
	n := make([]string, i+1, max(i+1, 2*cap(s)))
	copy(n, s)
	return n
}

func at(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}

// Tile returns the tile at (x, y), or "" when out of bounds.
func (l *TileLayer) Tile(x, y int) string {
	if i, ok := l.inBounds(x, y); ok {
		return at(l.tiles, i)
	}
	return ""
}

// TileForeground returns the colour of the tile at (x, y): its override if
// one is set, otherwise the layer's Foreground.
func (l *TileLayer) TileForeground(x, y int) string {
	if i, ok := l.inBounds(x, y); ok && l.foregroundMap != nil {
		if c := at(l.foregroundMap, i); c != "" {
			return c
		}
	}
	return l.Foreground
}

// TileBackground returns the background of the tile at (x, y): its override
// if one is set, otherwise the layer's Background.
func (l *TileLayer) TileBackground(x, y int) string {
	if i, ok := l.inBounds(x, y); ok && l.backgroundMap != nil {
		if c := at(l.backgroundMap, i); c != "" {
			return c
		}
	}
	return l.Background
}

// SetTile writes a tile and optional colour overrides. An empty fg or bg
// leaves that override untouched. Returns false when (x, y) is out of
// bounds.
func (l *TileLayer) SetTile(x, y int, tile, fg, bg string) bool {
	i, ok := l.inBounds(x, y)
	if !ok {
		return false
	}
	l.set(i, tile, fg, bg)
	return true
}

func (l *TileLayer) set(i int, tile, fg, bg string) {
	l.tiles = grow(l.tiles, i)
	l.tiles[i] = tile
	if fg != "" {
		l.foregroundMap = grow(l.foregroundMap, i)
		l.foregroundMap[i] = fg
	}
	if bg != "" {
		l.backgroundMap = grow(l.backgroundMap, i)
		l.backgroundMap[i] = bg
	}
}

// Fill writes tile into every cell of the region from (x1, y1) inclusive
// to (x2, y2) exclusive, clamped to the layer. Empty fg or bg leave the
// overrides untouched.
func (l *TileLayer) Fill(tile string, x1, y1, x2, y2 int, fg, bg string) {
	w, h := l.size()
	region(x1, y1, x2, y2, w, h).each(func(i int) {
		l.set(i, tile, fg, bg)
	})
}

// FillAll writes tile into every cell of the layer.
func (l *TileLayer) FillAll(tile string) {
	w, h := l.size()
	l.Fill(tile, 0, 0, w, h, "", "")
}

// Clear empties the tiles in the region and removes their colour
// overrides.
func (l *TileLayer) Clear(x1, y1, x2, y2 int) {
	w, h := l.size()
	region(x1, y1, x2, y2, w, h).each(func(i int) {
		if i < len(l.tiles) {
			l.tiles[i] = ""
		}
		if i < len(l.foregroundMap) {
			l.foregroundMap[i] = ""
		}
		if i < len(l.backgroundMap) {
			l.backgroundMap[i] = ""
		}
	})
}

// ClearAll empties the whole layer.
func (l *TileLayer) ClearAll() {
	w, h := l.size()
	l.Clear(0, 0, w, h)
}

// Resize rebuilds the backing store for a w x h grid, keeping every tile
// inside both the old and the new bounds. It reads through the container's
// current size, so the container must update its own size afterwards.
func (l *TileLayer) Resize(w, h int) {
	ow, oh := l.size()
	if w == ow && h == oh {
		return
	}
	n := max(w, 0) * max(h, 0)
	tiles := make([]string, n)
	var fg, bg []string
	if l.foregroundMap != nil {
		fg = make([]string, n)
	}
	if l.backgroundMap != nil {
		bg = make([]string, n)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := w*y + x
			tiles[i] = l.Tile(x, y)
			if fg != nil {
				fg[i] = l.TileForeground(x, y)
			}
			if bg != nil {
				bg[i] = l.TileBackground(x, y)
			}
		}
	}
	l.tiles, l.foregroundMap, l.backgroundMap = tiles, fg, bg
}

// Tiles returns a copy of the row-major tile array, padded to the full
// grid.
func (l *TileLayer) Tiles() []string {
	w, h := l.size()
	out := make([]string, w*h)
	copy(out, l.tiles)
	return out
}

// Draw renders the tiles of the layer that fall within the tile window
// [tl, br]. The surface transform maps tile (0, 0) to the origin.
func (l *TileLayer) Draw(s Surface, tileSize float64, tl, br Vec2) {
	if l.container == nil || len(l.tiles) == 0 {
		return
	}
	w, h := l.size()
	r := region(int(math.Floor(tl.X)), int(math.Floor(tl.Y)), int(math.Ceil(br.X)), int(math.Ceil(br.Y)), w, h)

	s.Save()
	defer s.Restore()
	s.SetFont(Font{Family: l.Font, Style: "normal", Size: tileSize + 1})
	s.SetAlpha(l.Opacity)
	s.SetBlend(ParseCompositeMode(l.CompositeMode))

	if l.Background != "" || l.backgroundMap != nil {
		r.each(func(i int) {
			if at(l.tiles, i) == "" {
				return
			}
			c := l.Background
			if o := at(l.backgroundMap, i); o != "" {
				c = o
			}
			col := styleColor(c)
			if col.A <= 0 {
				return
			}
			s.SetFill(col)
			x, y := float64(i%w), float64(i/w)
			s.FillRect(x*tileSize-0.5, y*tileSize-0.5, tileSize+1, tileSize+1)
		})
	}

	var ax, ay float64
	if l.Centered {
		ax, ay = tileSize*0.5, tileSize*0.5
		s.SetTextAlign(TextAlignCenter, TextBaselineMiddle)
	} else {
		s.SetTextAlign(TextAlignLeft, TextBaselineTop)
	}
	fg := styleColor(l.Foreground)
	r.each(func(i int) {
		tile := at(l.tiles, i)
		if tile == "" {
			return
		}
		x, y := float64(i%w)*tileSize, float64(i/w)*tileSize
		col := fg
		if o := at(l.foregroundMap, i); o != "" {
			col = styleColor(o)
		}
		s.SetFill(col)
		if l.Clip {
			s.Save()
			s.ClipRect(x, y, tileSize, tileSize)
		}
		for _, ch := range tile {
			s.FillText(string(ch), x+ax, y+ay)
		}
		if l.Clip {
			s.Restore()
		}
	})
}

// TileLayerData is the serialized form of a TileLayer.
type TileLayerData struct {
	Font          string   `json:"font"`
	Foreground    string   `json:"foreground"`
	Background    string   `json:"background"`
	ForegroundMap []string `json:"foregroundMap"`
	BackgroundMap []string `json:"backgroundMap"`
	Opacity       float64  `json:"opacity"`
	CompositeMode string   `json:"compositeMode"`
	Clip          bool     `json:"clip"`
	Centered      bool     `json:"centered"`
	Tiles         []string `json:"tiles"`
}

// Data returns a snapshot of the layer.
func (l *TileLayer) Data() TileLayerData {
	return TileLayerData{
		Font:          l.Font,
		Foreground:    l.Foreground,
		Background:    l.Background,
		ForegroundMap: cloneStrings(l.foregroundMap),
		BackgroundMap: cloneStrings(l.backgroundMap),
		Opacity:       l.Opacity,
		CompositeMode: l.CompositeMode,
		Clip:          l.Clip,
		Centered:      l.Centered,
		Tiles:         cloneStrings(l.tiles),
	}
}

// TileLayerFromData rebuilds a layer owned by container.
func TileLayerFromData(container Container, d TileLayerData) *TileLayer {
	return &TileLayer{
		container:     container,
		Font:          d.Font,
		Foreground:    d.Foreground,
		Background:    d.Background,
		Opacity:       d.Opacity,
		CompositeMode: d.CompositeMode,
		Clip:          d.Clip,
		Centered:      d.Centered,
		tiles:         cloneStrings(d.Tiles),
		foregroundMap: cloneStrings(d.ForegroundMap),
		backgroundMap: cloneStrings(d.BackgroundMap),
	}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
