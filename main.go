package tily

import (
	"math"
	"strconv"
	"time"
)

// EventSink is the optional bridge for tile interaction events. When set on
// Main, clicks are forwarded to it.
type EventSink interface {
	EmitEvent(event TileEvent)
}

// TileEventKind identifies a tile interaction.
type TileEventKind uint8

const (
	// TileClicked is emitted when a pointer is released over a tile.
	TileClicked TileEventKind = iota
	// TileHovered is emitted when the pointer enters a different tile.
	TileHovered
)

// String returns the event kind name.
func (k TileEventKind) String() string {
	switch k {
	case TileClicked:
		return "click"
	case TileHovered:
		return "hover"
	}
	return "unknown"
}

// TileEvent carries the tile under the pointer and what is drawn there.
type TileEvent struct {
	Kind     TileEventKind
	Position Vec2
	// ScreenX and ScreenY are the viewport pixel coordinates.
	ScreenX, ScreenY float64
	// TileIDs holds the IDs of the active tiles at Position.
	TileIDs []string
	// Layers holds the static tile of each layer, bottom to top.
	Layers []string
	Cell   *Vec2
}

// MainOptions configures Main.
type MainOptions struct {
	// Width and Height fix the viewport size. Zero uses the surface size.
	// A fixed viewport is scaled to fit the surface and centred.
	Width, Height int
	ShowFPS       bool
	// BeforeDraw is called after the surface is cleared and before the
	// active buffer is drawn. AfterDraw is called after.
	BeforeDraw func(m *Main, s Surface, dt float64)
	AfterDraw  func(m *Main, s Surface, dt float64)
	// Debug enables per-frame stat logging.
	Debug bool
	// Overlay is drawn after the buffer each frame. Nil disables it.
	Overlay *DebugOverlay
	// Input configures pointer and keyboard camera controls.
	Input InputOptions
}

// Main drives the frame loop: it times frames, draws the active buffer and
// cross-fades between buffers.
type Main struct {
	options MainOptions
	debug   bool
	store   EventSink

	width, height int
	// screen maps viewport pixels to surface pixels.
	screen Affine

	activeBuffer     Drawable
	bufferTransition *BufferTransition

	lastFrameTime time.Time
	frameCount    int
	frameTime     float64
	frameRate     int

	input           *inputController
	injectQueue     []syntheticPointerEvent
	script          *Script
	screenshotQueue []string
	hover           Vec2
	hovering        bool
}

// NewMain creates a frame driver with no active buffer.
func NewMain(opts MainOptions) *Main {
	return &Main{
		options: opts,
		debug:   opts.Debug,
		input:   newInputController(opts.Input),
		screen:  identityTransform,
	}
}

// Options returns the configuration Main was created with.
func (m *Main) Options() MainOptions { return m.options }

// SetShowFPS toggles the frame rate box.
func (m *Main) SetShowFPS(show bool) { m.options.ShowFPS = show }

// SetDebugMode enables or disables per-frame stat logging.
func (m *Main) SetDebugMode(enabled bool) { m.debug = enabled }

// SetEventSink sets the optional event bridge.
func (m *Main) SetEventSink(sink EventSink) { m.store = sink }

// Overlay returns the debug overlay, or nil.
func (m *Main) Overlay() *DebugOverlay { return m.options.Overlay }

// ActiveBuffer returns the buffer subsequent camera calls should target. It
// switches as soon as ActivateBuffer is called, before any fade completes.
func (m *Main) ActiveBuffer() Drawable { return m.activeBuffer }

// Transitioning reports whether a buffer cross-fade is in progress.
func (m *Main) Transitioning() bool { return m.bufferTransition != nil }

// ActivateBuffer makes b the active buffer, fading from the previous one
// over opts.Time seconds. The returned future resolves when the fade ends.
func (m *Main) ActivateBuffer(b Drawable, opts TransitionOptions) *Future {
	t := NewBufferTransition(m.activeBuffer, b, opts)
	m.bufferTransition = t
	m.activeBuffer = b
	return t.Future()
}

// Size returns the viewport size used by the last frame.
func (m *Main) Size() (int, int) { return m.width, m.height }

// ScreenToViewport maps a surface pixel, such as a pointer position, to
// the viewport pixel drawn there during the last frame.
func (m *Main) ScreenToViewport(x, y float64) (float64, float64) {
	return m.screen.Inverse().Apply(x, y)
}

// letterbox fits a w x h viewport inside a sw x sh surface, keeping its
// aspect ratio and centring it.
func letterbox(w, h, sw, sh int) Affine {
	if (w == sw && h == sh) || w <= 0 || h <= 0 || sw <= 0 || sh <= 0 {
		return identityTransform
	}
	k := math.Min(float64(sw)/float64(w), float64(sh)/float64(h))
	return identityTransform.
		Translated((float64(sw)-float64(w)*k)/2, (float64(sh)-float64(h)*k)/2).
		Scaled(k, k)
}

// applyScreen moves s into viewport space, clipped to the viewport when
// it is letterboxed.
func (m *Main) applyScreen(s Surface) {
	if m.screen == identityTransform {
		return
	}
	s.Translate(m.screen[4], m.screen[5])
	s.Scale(m.screen[0], m.screen[3])
	s.ClipRect(0, 0, float64(m.width), float64(m.height))
}

// FrameRate returns the number of frames counted during the last full
// second.
func (m *Main) FrameRate() int { return m.frameRate }

// Frame runs one iteration of the render loop at wall-clock time now: it
// measures the time since the previous frame, updates the frame rate, and
// draws. It returns the elapsed time in seconds.
func (m *Main) Frame(s Surface, now time.Time) float64 {
	dt := 0.0
	if !m.lastFrameTime.IsZero() {
		dt = now.Sub(m.lastFrameTime).Seconds()
	}
	m.lastFrameTime = now
	m.tick(dt)
	m.Draw(s, dt)
	return dt
}

func (m *Main) tick(dt float64) {
	m.frameTime += dt
	m.frameCount++
	if m.frameTime > 1 {
		m.frameRate = m.frameCount
		m.frameTime = 0
		m.frameCount = 0
	}
}

// Draw renders one frame onto s after dt seconds.
func (m *Main) Draw(s Surface, dt float64) {
	start := time.Now()
	if m.script != nil {
		m.script.step(m)
	}
	m.processInjectedInput()

	sw, sh := s.Size()
	m.width, m.height = m.options.Width, m.options.Height
	if m.width <= 0 || m.height <= 0 {
		m.width, m.height = sw, sh
	}
	m.screen = letterbox(m.width, m.height, sw, sh)

	s.Save()
	s.Clear()
	m.applyScreen(s)
	if m.options.BeforeDraw != nil {
		m.options.BeforeDraw(m, s, dt)
	}
	if t := m.bufferTransition; t != nil {
		alpha := t.Update(dt)
		if t.From != nil {
			s.SetAlpha(1 - alpha)
			t.From.Draw(s, dt, m.width, m.height)
		}
		if t.To != nil {
			s.SetAlpha(alpha)
			t.To.Draw(s, dt, m.width, m.height)
		}
		if t.Finished() {
			m.bufferTransition = nil
		}
	} else if m.activeBuffer != nil {
		s.SetAlpha(1)
		m.activeBuffer.Draw(s, dt, m.width, m.height)
	}
	if m.options.AfterDraw != nil {
		m.options.AfterDraw(m, s, dt)
	}
	s.Restore()

	if m.options.Overlay != nil {
		s.Save()
		m.applyScreen(s)
		m.options.Overlay.Draw(s)
		s.Restore()
	}
	if m.options.ShowFPS {
		m.drawFPS(s)
	}

	if m.debug {
		m.debugLog(frameStats{
			drawTime:    time.Since(start),
			activeTiles: m.activeTileCount(),
			frameRate:   m.frameRate,
		})
	}
}

func (m *Main) activeTileCount() int {
	type tileLister interface{ ActiveTiles() []*ActiveTile }
	if l, ok := m.activeBuffer.(tileLister); ok {
		return len(l.ActiveTiles())
	}
	return 0
}

// Click resolves the viewport pixel (x, y) to a tile of the active buffer
// and emits a TileClicked event. It returns the event, or false when no
// buffer is active.
func (m *Main) Click(x, y float64) (TileEvent, bool) {
	return m.emit(TileClicked, x, y)
}

// Hover emits a TileHovered event when (x, y) lies over a different tile
// than the previous call.
func (m *Main) Hover(x, y float64) (TileEvent, bool) {
	if m.activeBuffer == nil {
		return TileEvent{}, false
	}
	p := m.activeBuffer.GetPosition(x, y)
	if m.hovering && p.Eq(m.hover) {
		return TileEvent{}, false
	}
	m.hover, m.hovering = p, true
	return m.emit(TileHovered, x, y)
}

func (m *Main) emit(kind TileEventKind, x, y float64) (TileEvent, bool) {
	if m.activeBuffer == nil {
		return TileEvent{}, false
	}
	p := m.activeBuffer.GetPosition(x, y)
	info := m.activeBuffer.GetTileInfo(int(p.X), int(p.Y))
	ev := TileEvent{
		Kind:     kind,
		Position: p,
		ScreenX:  x,
		ScreenY:  y,
		Layers:   info.Layers,
		Cell:     info.Cell,
	}
	for _, t := range info.ActiveTiles {
		ev.TileIDs = append(ev.TileIDs, t.ID.String())
	}
	if m.store != nil {
		m.store.EmitEvent(ev)
	}
	return ev, true
}

var (
	fpsFont       = Font{Family: "monospace", Style: "normal", Size: 20}
	fpsBackground = Color{0, 0, 0, 0.5}
)

// drawFPS draws the frame rate in a translucent box at the top right.
func (m *Main) drawFPS(s Surface) {
	sw, _ := s.Size()
	w := float64(sw)
	s.Save()
	defer s.Restore()
	s.ResetTransform()
	s.SetAlpha(1)
	s.SetFont(fpsFont)
	s.SetFill(fpsBackground)
	s.FillRect(w-(10+80), 10, 80, 30)
	s.SetFill(ColorWhite)
	s.SetTextAlign(TextAlignRight, TextBaselineTop)
	s.FillText(strconv.Itoa(m.frameRate), w-15, 15)
}
