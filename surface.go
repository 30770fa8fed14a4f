package tily

import (
	"strconv"
	"strings"
)

// Surface is the 2D immediate-mode drawing target the engine renders onto.
// Coordinates are pixels in the current transform. Style setters affect
// subsequent primitives until the next Restore.
//
// EbitenSurface draws to an *ebiten.Image, RecordingSurface logs operations
// for tests, and term.Surface draws to a terminal.
type Surface interface {
	Save()
	Restore()
	Translate(x, y float64)
	Rotate(radians float64)
	Scale(x, y float64)
	ResetTransform()

	// Clear erases the whole surface, ignoring transform and clip.
	Clear()

	SetFont(f Font)
	SetFill(c Color)
	SetStroke(c Color, width float64)
	SetAlpha(a float64)
	SetBlend(b BlendMode)
	SetShadow(s ShadowStyle)
	SetTextAlign(align TextAlign, baseline TextBaseline)

	// ClipRect narrows the clip region to the given rectangle.
	ClipRect(x, y, w, h float64)

	FillRect(x, y, w, h float64)
	StrokeLine(x1, y1, x2, y2 float64)
	FillText(s string, x, y float64)
	StrokeText(s string, x, y float64)
	MeasureText(s string) (w, h float64)

	// BeginLayer starts an offscreen group. EndLayer composites the group
	// onto the surface using the alpha and blend mode that were current
	// when BeginLayer was called.
	BeginLayer()
	EndLayer()

	// Size returns the surface dimensions in pixels.
	Size() (w, h int)
}

// Font selects a typeface. Family is a CSS-style family name such as
// "sans-serif" or "monospace", Style is "normal", "bold", "italic" or
// "bold italic", and Size is in pixels.
type Font struct {
	Family string
	Style  string
	Size   float64
}

// String formats the font the way a canvas font property is written:
// "style sizepx family".
func (f Font) String() string {
	style := f.Style
	if style == "" {
		style = "normal"
	}
	return style + " " + strconv.FormatFloat(f.Size, 'f', -1, 64) + "px " + f.Family
}

// Bold reports whether the style asks for a bold face.
func (f Font) Bold() bool {
	return strings.Contains(f.Style, "bold")
}

// Italic reports whether the style asks for an italic or oblique face.
func (f Font) Italic() bool {
	return strings.Contains(f.Style, "italic") || strings.Contains(f.Style, "oblique")
}

// ShadowStyle is a resolved text shadow in pixels.
type ShadowStyle struct {
	Blur    float64
	OffsetX float64
	OffsetY float64
	Color   Color
}

// Visible reports whether drawing the shadow would change any pixels.
func (s ShadowStyle) Visible() bool {
	return s.Color.A > 0
}

// State is the transform and style state saved and restored by a Surface.
type State struct {
	Transform Affine
	Font      Font
	Fill      Color
	Stroke    Color
	LineWidth float64
	Alpha     float64
	Blend     BlendMode
	Shadow    ShadowStyle
	Align     TextAlign
	Baseline  TextBaseline

	// Clip is in surface space. Clipped is false when nothing clips.
	Clip    Rect
	Clipped bool
	// Layer is the depth of nested BeginLayer groups.
	Layer int
}

func defaultState() State {
	return State{
		Transform: identityTransform,
		Font:      Font{Family: "sans-serif", Style: "normal", Size: 10},
		Fill:      ColorBlack,
		Stroke:    ColorBlack,
		LineWidth: 1,
		Alpha:     1,
	}
}

// StateStack implements the state-keeping half of Surface. Surface
// implementations embed it and read Current when drawing.
type StateStack struct {
	cur   State
	stack []State
	init  bool
}

// Current returns the active state.
func (s *StateStack) Current() *State {
	if !s.init {
		s.cur = defaultState()
		s.init = true
	}
	return &s.cur
}

// Depth returns the number of saved states.
func (s *StateStack) Depth() int { return len(s.stack) }

func (s *StateStack) Save() {
	s.stack = append(s.stack, *s.Current())
}

// Restore pops the last saved state. Unbalanced calls are ignored.
func (s *StateStack) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.cur = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *StateStack) Translate(x, y float64) {
	c := s.Current()
	c.Transform = c.Transform.Translated(x, y)
}

func (s *StateStack) Rotate(r float64) {
	c := s.Current()
	c.Transform = c.Transform.Rotated(r)
}

func (s *StateStack) Scale(x, y float64) {
	c := s.Current()
	c.Transform = c.Transform.Scaled(x, y)
}

func (s *StateStack) ResetTransform() {
	s.Current().Transform = identityTransform
}

func (s *StateStack) SetFont(f Font) { s.Current().Font = f }

func (s *StateStack) SetFill(c Color) { s.Current().Fill = c }

func (s *StateStack) SetStroke(c Color, width float64) {
	cur := s.Current()
	cur.Stroke = c
	cur.LineWidth = width
}

func (s *StateStack) SetAlpha(a float64) { s.Current().Alpha = clamp(a, 0, 1) }

func (s *StateStack) SetBlend(b BlendMode) { s.Current().Blend = b }

func (s *StateStack) SetShadow(sh ShadowStyle) { s.Current().Shadow = sh }

func (s *StateStack) SetTextAlign(align TextAlign, baseline TextBaseline) {
	c := s.Current()
	c.Align = align
	c.Baseline = baseline
}

// ClipRect intersects the clip region with the bounding box of the
// transformed rectangle.
func (s *StateStack) ClipRect(x, y, w, h float64) {
	c := s.Current()
	r := c.Transform.Bounds(x, y, w, h)
	if c.Clipped {
		r = c.Clip.Intersect(r)
	}
	c.Clip = r
	c.Clipped = true
}

// PushLayer saves the state and resets alpha and blend for an offscreen
// group. It returns the alpha and blend the group composites with.
func (s *StateStack) PushLayer() (float64, BlendMode) {
	c := s.Current()
	alpha, blend := c.Alpha, c.Blend
	s.Save()
	c = s.Current()
	c.Alpha = 1
	c.Blend = BlendNormal
	c.Layer++
	return alpha, blend
}

// PopLayer restores the state saved by PushLayer.
func (s *StateStack) PopLayer() {
	s.Restore()
}
