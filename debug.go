package tily

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Logger receives the engine's diagnostic lines. Hosts and tests may
// replace it; nil silences logging.
var Logger io.Writer = os.Stderr

// logf prints one "[tily]" prefixed line to Logger.
func logf(format string, args ...any) {
	if Logger == nil {
		return
	}
	_, _ = fmt.Fprintf(Logger, "[tily] "+format+"\n", args...)
}

// Logf writes a line to Logger the way the engine does.
func Logf(format string, args ...any) { logf(format, args...) }

// frameStats holds per-frame timing, logged by Main in debug mode.
type frameStats struct {
	drawTime    time.Duration
	activeTiles int
	frameRate   int
}

func (m *Main) debugLog(stats frameStats) {
	if !m.debug {
		return
	}
	logf("draw: %v | active tiles: %d | fps: %d", stats.drawTime, stats.activeTiles, stats.frameRate)
}

const (
	debugMarginTop    = 10
	debugMarginLeft   = 10
	debugPadding      = 4
	debugLineHeight   = 12
	debugCrossSize    = 6
	debugCrossWidth   = 2
	debugLabelOffsetX = 12
	debugLabelOffsetY = -6
)

var (
	debugTextColour       = ColorWhite
	debugBackgroundColour = Color{0, 0, 0, 0.5}
	debugFont             = Font{Family: "monospace", Style: "normal", Size: 13}
	debugMarkerFont       = Font{Family: "monospace", Style: "normal", Size: 12}
)

// DebugOptions controls how a debug value or marker is shown.
type DebugOptions struct {
	HideName   bool
	HideValue  bool
	HideMarker bool
	// Colour and Background default to white on translucent black.
	Colour     *Color
	Background *Color
	// Persistent markers survive the end of the frame.
	Persistent bool
}

type debugValue struct {
	name  string
	value string
	opts  DebugOptions
}

type debugMarker struct {
	position Vec2
	debugValue
}

// DebugOverlay collects named values and world-space markers during a
// frame and draws them over it. Values are cleared after every draw and
// markers unless they are persistent.
type DebugOverlay struct {
	Enabled bool

	values  []debugValue
	markers []debugMarker
}

// NewDebugOverlay creates an enabled overlay.
func NewDebugOverlay() *DebugOverlay {
	return &DebugOverlay{Enabled: true}
}

// Show displays name: value in the top-left corner for this frame.
// Showing a name again replaces its value.
func (d *DebugOverlay) Show(name string, value any, opts DebugOptions) {
	v := debugValue{name: name, value: fmt.Sprint(value), opts: opts}
	for i := range d.values {
		if d.values[i].name == name {
			d.values[i] = v
			return
		}
	}
	d.values = append(d.values, v)
}

// Marker draws a cross and label at viewport pixel (x, y).
// A named marker replaces an existing marker with the same name.
func (d *DebugOverlay) Marker(x, y float64, name string, value any, opts DebugOptions) {
	m := debugMarker{position: V(x, y), debugValue: debugValue{name: name, opts: opts}}
	if value != nil {
		m.value = fmt.Sprint(value)
	}
	if name != "" {
		for i := range d.markers {
			if d.markers[i].name == name {
				d.markers[i] = m
				return
			}
		}
	}
	d.markers = append(d.markers, m)
}

// Values returns the names of the values queued for this frame.
func (d *DebugOverlay) Values() []string {
	names := make([]string, len(d.values))
	for i, v := range d.values {
		names[i] = v.name
	}
	return names
}

// Markers returns the number of queued markers.
func (d *DebugOverlay) Markers() int { return len(d.markers) }

func (v debugValue) label() string {
	s := ""
	if !v.opts.HideName && v.name != "" {
		s = v.name + ": "
	}
	if !v.opts.HideValue {
		s += v.value
	}
	return s
}

func (v debugValue) colours() (Color, Color) {
	fg, bg := debugTextColour, debugBackgroundColour
	if v.opts.Colour != nil {
		fg = *v.opts.Colour
	}
	if v.opts.Background != nil {
		bg = *v.opts.Background
	}
	return fg, bg
}

// Draw renders markers in the current transform and values at the
// top-left of the surface, then resets the overlay for the next frame.
func (d *DebugOverlay) Draw(s Surface) {
	if d.Enabled {
		for _, m := range d.markers {
			fg, bg := m.colours()
			s.Save()
			s.Translate(m.position.X, m.position.Y)
			if !m.opts.HideMarker {
				drawCross(s, fg)
			}
			if label := m.label(); label != "" {
				drawLabel(s, debugLabelOffsetX, debugLabelOffsetY, label, debugMarkerFont, fg, bg)
			}
			s.Restore()
		}

		s.Save()
		s.ResetTransform()
		y := float64(debugMarginTop)
		for _, v := range d.values {
			label := v.label()
			if label == "" {
				continue
			}
			fg, bg := v.colours()
			drawLabel(s, debugMarginLeft, y, label, debugFont, fg, bg)
			y += debugLineHeight + debugPadding*2
		}
		s.Restore()
	}

	d.values = d.values[:0]
	kept := d.markers[:0]
	for _, m := range d.markers {
		if m.opts.Persistent {
			kept = append(kept, m)
		}
	}
	d.markers = kept
}

func drawLabel(s Surface, x, y float64, text string, font Font, fg, bg Color) {
	s.Save()
	defer s.Restore()
	s.SetFont(font)
	s.SetTextAlign(TextAlignLeft, TextBaselineTop)
	w, _ := s.MeasureText(text)
	s.SetFill(bg)
	s.FillRect(x-debugPadding, y-debugPadding, w+debugPadding*2, debugLineHeight+debugPadding*2)
	s.SetFill(fg)
	s.FillText(text, x, y)
}

func drawCross(s Surface, c Color) {
	const half = debugCrossSize / 2
	s.Save()
	defer s.Restore()
	s.SetStroke(c, debugCrossWidth)
	s.StrokeLine(-half, -half, half, half)
	s.StrokeLine(-half, half, half, -half)
}
