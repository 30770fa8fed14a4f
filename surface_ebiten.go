package tily

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white image used as the
// source for untextured triangles.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.White)
	}
	return whitePixelImage
}

// geoM converts an Affine into an ebiten.GeoM.
func geoM(m Affine) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

type surfaceGroup struct {
	img    *ebiten.Image
	parent *ebiten.Image
	alpha  float64
	blend  BlendMode
}

// EbitenSurface is a Surface that draws onto an *ebiten.Image. Shadows are
// drawn as an unblurred offset copy and stroked text as offset fills.
type EbitenSurface struct {
	StateStack

	screen *ebiten.Image
	target *ebiten.Image
	fonts  *FontRegistry
	pool   layerPool
	groups []surfaceGroup

	verts []ebiten.Vertex
	inds  []uint16
}

var _ Surface = (*EbitenSurface)(nil)

// NewEbitenSurface creates a surface using fonts for text. A nil registry
// creates one with the Go fonts.
func NewEbitenSurface(fonts *FontRegistry) *EbitenSurface {
	if fonts == nil {
		fonts = NewFontRegistry()
	}
	return &EbitenSurface{fonts: fonts}
}

// Begin points the surface at screen for a new frame and resets the state.
func (s *EbitenSurface) Begin(screen *ebiten.Image) {
	for len(s.groups) > 0 {
		s.EndLayer()
	}
	s.StateStack = StateStack{}
	s.screen = screen
	s.target = screen
}

// Fonts returns the font registry.
func (s *EbitenSurface) Fonts() *FontRegistry { return s.fonts }

func (s *EbitenSurface) Size() (int, int) {
	if s.screen == nil {
		return 0, 0
	}
	b := s.screen.Bounds()
	return b.Dx(), b.Dy()
}

func (s *EbitenSurface) Clear() {
	if s.target != nil {
		s.target.Clear()
	}
}

// dst returns the clipped draw target, or nil when nothing is visible.
func (s *EbitenSurface) dst() *ebiten.Image {
	if s.target == nil {
		return nil
	}
	c := s.Current()
	if !c.Clipped {
		return s.target
	}
	if c.Clip.Empty() {
		return nil
	}
	r := image.Rect(
		int(math.Floor(c.Clip.X)), int(math.Floor(c.Clip.Y)),
		int(math.Ceil(c.Clip.X+c.Clip.Width)), int(math.Ceil(c.Clip.Y+c.Clip.Height)),
	).Intersect(s.target.Bounds())
	if r.Empty() {
		return nil
	}
	return s.target.SubImage(r).(*ebiten.Image)
}

// paint scales col by the current alpha.
func (s *EbitenSurface) paint(col Color) Color {
	col.A *= s.Current().Alpha
	return col
}

func (s *EbitenSurface) drawPath(dst *ebiten.Image, col Color, stroke *vector.StrokeOptions, p *vector.Path) {
	if col.A <= 0 {
		return
	}
	s.verts, s.inds = s.verts[:0], s.inds[:0]
	if stroke != nil {
		s.verts, s.inds = p.AppendVerticesAndIndicesForStroke(s.verts, s.inds, stroke)
	} else {
		s.verts, s.inds = p.AppendVerticesAndIndicesForFilling(s.verts, s.inds)
	}
	rgba := col.RGBA()
	for i := range s.verts {
		v := &s.verts[i]
		v.SrcX, v.SrcY = 0.5, 0.5
		v.ColorR = float32(rgba.R) / 255
		v.ColorG = float32(rgba.G) / 255
		v.ColorB = float32(rgba.B) / 255
		v.ColorA = float32(rgba.A) / 255
	}
	var op ebiten.DrawTrianglesOptions
	op.Blend = s.Current().Blend.EbitenBlend()
	op.AntiAlias = true
	dst.DrawTriangles(s.verts, s.inds, ensureWhitePixel(), &op)
}

func (s *EbitenSurface) rectPath(m Affine, x, y, w, h float64) *vector.Path {
	var p vector.Path
	corners := [4][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	for i, c := range corners {
		px, py := m.Apply(c[0], c[1])
		if i == 0 {
			p.MoveTo(float32(px), float32(py))
		} else {
			p.LineTo(float32(px), float32(py))
		}
	}
	p.Close()
	return &p
}

func (s *EbitenSurface) FillRect(x, y, w, h float64) {
	dst := s.dst()
	if dst == nil {
		return
	}
	c := s.Current()
	if sh := c.Shadow; sh.Visible() {
		m := c.Transform
		m[4] += sh.OffsetX
		m[5] += sh.OffsetY
		s.drawPath(dst, s.paint(sh.Color), nil, s.rectPath(m, x, y, w, h))
	}
	s.drawPath(dst, s.paint(c.Fill), nil, s.rectPath(c.Transform, x, y, w, h))
}

func (s *EbitenSurface) StrokeLine(x1, y1, x2, y2 float64) {
	dst := s.dst()
	if dst == nil {
		return
	}
	c := s.Current()
	ax, ay := c.Transform.Apply(x1, y1)
	bx, by := c.Transform.Apply(x2, y2)
	var p vector.Path
	p.MoveTo(float32(ax), float32(ay))
	p.LineTo(float32(bx), float32(by))
	stroke := &vector.StrokeOptions{Width: float32(c.LineWidth * c.Transform.ScaleFactor())}
	s.drawPath(dst, s.paint(c.Stroke), stroke, &p)
}

func (s *EbitenSurface) textOptions(x, y float64, col Color, dx, dy float64) *text.DrawOptions {
	c := s.Current()
	op := &text.DrawOptions{}
	switch c.Align {
	case TextAlignCenter:
		op.PrimaryAlign = text.AlignCenter
	case TextAlignRight:
		op.PrimaryAlign = text.AlignEnd
	default:
		op.PrimaryAlign = text.AlignStart
	}
	switch c.Baseline {
	case TextBaselineMiddle:
		op.SecondaryAlign = text.AlignCenter
	case TextBaselineBottom:
		op.SecondaryAlign = text.AlignEnd
	default:
		op.SecondaryAlign = text.AlignStart
	}
	op.GeoM.Translate(x+dx, y+dy)
	op.GeoM.Concat(geoM(c.Transform))
	op.ColorScale.ScaleWithColor(col.RGBA())
	op.Blend = c.Blend.EbitenBlend()
	return op
}

func (s *EbitenSurface) drawText(str string, x, y float64, col Color, offsets [][2]float64) {
	dst := s.dst()
	if dst == nil || str == "" {
		return
	}
	c := s.Current()
	face := s.fonts.Face(c.Font)
	if sh := c.Shadow; sh.Visible() {
		for _, o := range offsets {
			op := s.textOptions(x, y, s.paint(sh.Color), o[0], o[1])
			op.GeoM.Translate(sh.OffsetX, sh.OffsetY)
			text.Draw(dst, str, face, op)
		}
	}
	for _, o := range offsets {
		text.Draw(dst, str, face, s.textOptions(x, y, s.paint(col), o[0], o[1]))
	}
}

func (s *EbitenSurface) FillText(str string, x, y float64) {
	s.drawText(str, x, y, s.Current().Fill, [][2]float64{{0, 0}})
}

// StrokeText draws the text eight times around the anchor, LineWidth/2
// away, in the stroke colour.
func (s *EbitenSurface) StrokeText(str string, x, y float64) {
	c := s.Current()
	if c.LineWidth <= 0 {
		return
	}
	r := c.LineWidth / 2
	offsets := make([][2]float64, 0, 8)
	for i := 0; i < 8; i++ {
		a := float64(i) * math.Pi / 4
		offsets = append(offsets, [2]float64{math.Cos(a) * r, math.Sin(a) * r})
	}
	s.drawText(str, x, y, c.Stroke, offsets)
}

func (s *EbitenSurface) MeasureText(str string) (float64, float64) {
	return s.fonts.Measure(str, s.Current().Font)
}

// BeginLayer redirects drawing to a pooled offscreen image the size of the
// screen.
func (s *EbitenSurface) BeginLayer() {
	alpha, blend := s.PushLayer()
	w, h := s.Size()
	img := s.pool.Acquire(max(w, 1), max(h, 1))
	s.groups = append(s.groups, surfaceGroup{img: img, parent: s.target, alpha: alpha, blend: blend})
	s.target = img
}

// EndLayer composites the innermost group onto its parent target.
func (s *EbitenSurface) EndLayer() {
	if len(s.groups) == 0 {
		return
	}
	g := s.groups[len(s.groups)-1]
	s.groups = s.groups[:len(s.groups)-1]
	s.PopLayer()
	s.target = g.parent

	if dst := s.dst(); dst != nil && g.alpha > 0 {
		op := &ebiten.DrawImageOptions{Blend: g.blend.EbitenBlend()}
		op.ColorScale.ScaleAlpha(float32(g.alpha))
		dst.DrawImage(g.img, op)
	}
	s.pool.Release(g.img)
}
