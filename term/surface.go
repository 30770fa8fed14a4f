// Package term draws tily buffers to a terminal through tcell.
//
// Surface maps the engine's pixel coordinates onto terminal cells of a
// fixed pixel size, so a buffer whose tile size equals the cell size draws
// one tile per cell.
package term

import (
	"math"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/tily"
)

// Surface is a tily.Surface backed by a tcell screen. Rectangles paint cell
// backgrounds, text places its first rune in the cell under the anchor, and
// lines, shadows and offscreen layers are not drawn.
type Surface struct {
	tily.StateStack

	screen tcell.Screen
	// CellWidth and CellHeight are the pixel size of one terminal cell.
	CellWidth, CellHeight float64
	// Background is the colour Clear paints.
	Background tily.Color
}

var _ tily.Surface = (*Surface)(nil)

// NewSurface creates a surface on screen with cells of cw x ch pixels.
func NewSurface(screen tcell.Screen, cw, ch float64) *Surface {
	if cw <= 0 || ch <= 0 {
		panic("tily/term: cell size must be positive")
	}
	return &Surface{screen: screen, CellWidth: cw, CellHeight: ch, Background: tily.ColorBlack}
}

// Screen returns the underlying tcell screen.
func (s *Surface) Screen() tcell.Screen { return s.screen }

// Size returns the screen size in pixels.
func (s *Surface) Size() (int, int) {
	w, h := s.screen.Size()
	return int(float64(w) * s.CellWidth), int(float64(h) * s.CellHeight)
}

// Clear fills every cell with a blank in the background colour.
func (s *Surface) Clear() {
	st := tcell.StyleDefault.Background(toColor(s.Background)).Foreground(tcell.ColorWhite)
	w, h := s.screen.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s.screen.SetContent(x, y, ' ', nil, st)
		}
	}
}

// cellAt returns the cell containing surface pixel (px, py).
func (s *Surface) cellAt(px, py float64) (int, int, bool) {
	cx := int(math.Floor(px / s.CellWidth))
	cy := int(math.Floor(py / s.CellHeight))
	w, h := s.screen.Size()
	if cx < 0 || cy < 0 || cx >= w || cy >= h {
		return 0, 0, false
	}
	if c := s.Current(); c.Clipped && !c.Clip.Contains(px, py) {
		return 0, 0, false
	}
	return cx, cy, true
}

// FillRect paints the background of every cell whose centre lies inside
// the transformed rectangle's bounding box.
func (s *Surface) FillRect(x, y, w, h float64) {
	c := s.Current()
	col := c.Fill
	col.A *= c.Alpha
	if col.A <= 0 {
		return
	}
	r := c.Transform.Bounds(x, y, w, h)
	x0 := int(math.Floor(r.X/s.CellWidth + 0.5))
	y0 := int(math.Floor(r.Y/s.CellHeight + 0.5))
	x1 := int(math.Floor((r.X+r.Width)/s.CellWidth + 0.5))
	y1 := int(math.Floor((r.Y+r.Height)/s.CellHeight + 0.5))
	for cy := y0; cy < y1; cy++ {
		for cx := x0; cx < x1; cx++ {
			px, py := (float64(cx)+0.5)*s.CellWidth, (float64(cy)+0.5)*s.CellHeight
			if _, _, ok := s.cellAt(px, py); !ok {
				continue
			}
			mainc, comb, st, _ := s.screen.GetContent(cx, cy)
			fg, bg, attr := st.Decompose()
			bg = toColor(blend(fromColor(bg, s.Background), col))
			s.screen.SetContent(cx, cy, mainc, comb, tcell.StyleDefault.Foreground(fg).Background(bg).Attributes(attr))
		}
	}
}

// FillText draws the first rune of str in the cell under the anchor,
// keeping the cell's background.
func (s *Surface) FillText(str string, x, y float64) {
	c := s.Current()
	col := c.Fill
	col.A *= c.Alpha
	s.putRune(str, x, y, col)
}

// StrokeText draws like FillText in the stroke colour when no fill has been
// drawn in the cell.
func (s *Surface) StrokeText(str string, x, y float64) {
	c := s.Current()
	col := c.Stroke
	col.A *= c.Alpha
	s.putRune(str, x, y, col)
}

func (s *Surface) putRune(str string, x, y float64, col tily.Color) {
	if col.A <= 0 || str == "" {
		return
	}
	c := s.Current()
	// Move the anchor from the glyph box edge to its centre.
	switch c.Align {
	case tily.TextAlignLeft:
		x += s.CellWidth / 2 / c.Transform.ScaleFactor()
	case tily.TextAlignRight:
		x -= s.CellWidth / 2 / c.Transform.ScaleFactor()
	}
	switch c.Baseline {
	case tily.TextBaselineTop:
		y += s.CellHeight / 2 / c.Transform.ScaleFactor()
	case tily.TextBaselineBottom:
		y -= s.CellHeight / 2 / c.Transform.ScaleFactor()
	}
	px, py := c.Transform.Apply(x, y)
	cx, cy, ok := s.cellAt(px, py)
	if !ok {
		return
	}
	r, _ := utf8.DecodeRuneInString(str)
	_, _, st, _ := s.screen.GetContent(cx, cy)
	_, bg, attr := st.Decompose()
	fg := toColor(blend(fromColor(bg, s.Background), col))
	if c.Font.Bold() {
		attr |= tcell.AttrBold
	}
	if c.Font.Italic() {
		attr |= tcell.AttrItalic
	}
	s.screen.SetContent(cx, cy, r, nil, tcell.StyleDefault.Foreground(fg).Background(bg).Attributes(attr))
}

// MeasureText reports one cell per rune.
func (s *Surface) MeasureText(str string) (float64, float64) {
	return float64(utf8.RuneCountInString(str)) * s.CellWidth, s.CellHeight
}

func (s *Surface) StrokeLine(x1, y1, x2, y2 float64) {}

// BeginLayer has no offscreen target; the group's alpha is applied to
// each primitive instead.
func (s *Surface) BeginLayer() {
	alpha, _ := s.PushLayer()
	s.SetAlpha(alpha)
}

func (s *Surface) EndLayer() { s.PopLayer() }

func toColor(c tily.Color) tcell.Color {
	rgba := tily.Color{R: c.R, G: c.G, B: c.B, A: 1}.RGBA()
	return tcell.NewRGBColor(int32(rgba.R), int32(rgba.G), int32(rgba.B))
}

func fromColor(c tcell.Color, def tily.Color) tily.Color {
	if c == tcell.ColorDefault {
		return def
	}
	r, g, b := c.RGB()
	if r < 0 {
		return def
	}
	return tily.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: 1}
}

// blend composites src over an opaque dst.
func blend(dst, src tily.Color) tily.Color {
	a := src.A
	if a > 1 {
		a = 1
	}
	return tily.Color{
		R: src.R*a + dst.R*(1-a),
		G: src.G*a + dst.G*(1-a),
		B: src.B*a + dst.B*(1-a),
		A: 1,
	}
}
