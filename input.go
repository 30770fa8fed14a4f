package tily

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputOptions configures the default camera controls installed by Run.
type InputOptions struct {
	// Pan enables dragging the camera with the pointer and the arrow keys.
	Pan bool
	// PanStep is the arrow key move in tiles (default 1).
	PanStep float64
	// PanTime is the arrow key move duration in seconds.
	PanTime float64
	// Zoom enables the mouse wheel and +/- keys.
	Zoom bool
	// ZoomStep is the scale change per wheel notch or key press (default 1).
	ZoomStep float64
	// DragDeadZone is the pointer travel in pixels before a press becomes
	// a drag (default 4).
	DragDeadZone float64
}

func (o InputOptions) withDefaults() InputOptions {
	if o.PanStep == 0 {
		o.PanStep = 1
	}
	if o.ZoomStep == 0 {
		o.ZoomStep = 1
	}
	if o.DragDeadZone == 0 {
		o.DragDeadZone = 4
	}
	return o
}

// pointerState tracks one pointer between frames.
type pointerState struct {
	down         bool
	dragging     bool
	startX       float64
	startY       float64
	lastX, lastY float64
}

// inputController turns pointer and key state into Main calls.
type inputController struct {
	opts    InputOptions
	pointer pointerState
}

func newInputController(opts InputOptions) *inputController {
	return &inputController{opts: opts.withDefaults()}
}

// processPointer runs the pointer state machine: a press and release
// without travel is a click, travel past the dead zone drags the camera,
// and movement with no button down hovers.
func (c *inputController) processPointer(m *Main, x, y float64, pressed bool) {
	ps := &c.pointer
	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.dragging = false
		ps.startX, ps.startY = x, y
		ps.lastX, ps.lastY = x, y
	case !pressed && ps.down:
		if !ps.dragging {
			m.Click(x, y)
		}
		ps.down = false
		ps.dragging = false
		ps.lastX, ps.lastY = x, y
	case pressed && ps.down:
		if x == ps.lastX && y == ps.lastY {
			return
		}
		if !ps.dragging && math.Hypot(x-ps.startX, y-ps.startY) > c.opts.DragDeadZone {
			ps.dragging = true
			ps.lastX, ps.lastY = ps.startX, ps.startY
		}
		if ps.dragging && c.opts.Pan && m.activeBuffer != nil {
			m.activeBuffer.MoveOffset(ps.lastX-x, ps.lastY-y, MoveOptions{Unit: "px", Relative: true})
		}
		ps.lastX, ps.lastY = x, y
	default:
		if x != ps.lastX || y != ps.lastY {
			m.Hover(x, y)
			ps.lastX, ps.lastY = x, y
		}
	}
}

// pan moves the camera by (dx, dy) steps.
func (c *inputController) pan(m *Main, dx, dy float64) {
	if !c.opts.Pan || m.activeBuffer == nil || (dx == 0 && dy == 0) {
		return
	}
	m.activeBuffer.MoveOffset(dx*c.opts.PanStep, dy*c.opts.PanStep, MoveOptions{
		TransitionOptions: TransitionOptions{Time: c.opts.PanTime},
		Relative:          true,
	})
}

// zoom changes the scale by steps notches. Positive steps zoom in, showing
// fewer tiles.
func (c *inputController) zoom(m *Main, steps float64) {
	if !c.opts.Zoom || m.activeBuffer == nil || steps == 0 {
		return
	}
	b := m.activeBuffer
	b.Zoom(b.Scale()-steps*c.opts.ZoomStep, TransitionOptions{})
}

// processInput reads ebiten's mouse and keyboard state. Called once per
// tick from the Run game loop.
func (c *inputController) processInput(m *Main) {
	mx, my := ebiten.CursorPosition()
	x, y := m.ScreenToViewport(float64(mx), float64(my))
	c.processPointer(m, x, y, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))

	var dx, dy float64
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		dx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		dx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		dy--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		dy++
	}
	c.pan(m, dx, dy)

	_, wheel := ebiten.Wheel()
	steps := wheel
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd) {
		steps++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract) {
		steps--
	}
	c.zoom(m, steps)
}
