package tily

import "unicode/utf8"

// Op is one primitive logged by a RecordingSurface. X and Y are the
// primitive's anchor mapped through the transform current at the time.
type Op struct {
	Kind    string
	Text    string
	X, Y    float64
	W, H    float64
	Fill    Color
	Stroke  Color
	Alpha   float64
	Blend   BlendMode
	Font    Font
	Align   TextAlign
	Clip    Rect
	Clipped bool
}

// RecordingSurface is a Surface that draws nothing and records every
// primitive. It is used to test rendering order and style resolution
// without a window.
type RecordingSurface struct {
	StateStack
	Width, Height int
	Ops           []Op
}

// NewRecordingSurface creates a recording surface of the given pixel size.
func NewRecordingSurface(w, h int) *RecordingSurface {
	return &RecordingSurface{Width: w, Height: h}
}

func (r *RecordingSurface) record(kind, text string, x, y, w, h float64) {
	c := r.Current()
	px, py := c.Transform.Apply(x, y)
	r.Ops = append(r.Ops, Op{
		Kind:    kind,
		Text:    text,
		X:       px,
		Y:       py,
		W:       w,
		H:       h,
		Fill:    c.Fill,
		Stroke:  c.Stroke,
		Alpha:   c.Alpha,
		Blend:   c.Blend,
		Font:    c.Font,
		Align:   c.Align,
		Clip:    c.Clip,
		Clipped: c.Clipped,
	})
}

// Reset discards the recorded ops.
func (r *RecordingSurface) Reset() { r.Ops = r.Ops[:0] }

// Texts returns the text of every fillText op in draw order.
func (r *RecordingSurface) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == "fillText" {
			out = append(out, op.Text)
		}
	}
	return out
}

// OpsOfKind returns the recorded ops of one kind in draw order.
func (r *RecordingSurface) OpsOfKind(kind string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

func (r *RecordingSurface) Clear() { r.record("clear", "", 0, 0, 0, 0) }

func (r *RecordingSurface) FillRect(x, y, w, h float64) { r.record("fillRect", "", x, y, w, h) }

func (r *RecordingSurface) StrokeLine(x1, y1, x2, y2 float64) {
	r.record("strokeLine", "", x1, y1, x2-x1, y2-y1)
}

func (r *RecordingSurface) FillText(s string, x, y float64) { r.record("fillText", s, x, y, 0, 0) }

func (r *RecordingSurface) StrokeText(s string, x, y float64) {
	r.record("strokeText", s, x, y, 0, 0)
}

// MeasureText approximates glyph advance as 0.6 of the font size.
func (r *RecordingSurface) MeasureText(s string) (float64, float64) {
	size := r.Current().Font.Size
	return float64(utf8.RuneCountInString(s)) * size * 0.6, size
}

func (r *RecordingSurface) BeginLayer() {
	r.record("beginLayer", "", 0, 0, 0, 0)
	r.PushLayer()
}

func (r *RecordingSurface) EndLayer() {
	r.PopLayer()
	r.record("endLayer", "", 0, 0, 0, 0)
}

func (r *RecordingSurface) Size() (int, int) { return r.Width, r.Height }
