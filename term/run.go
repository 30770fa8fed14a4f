package term

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/tily"
)

// Options configures Run.
type Options struct {
	// CellWidth and CellHeight are the pixel size of one terminal cell
	// (default 8 x 16).
	CellWidth, CellHeight float64
	// FrameInterval is the time between frames (default 33ms).
	FrameInterval time.Duration
	// PanStep is the arrow key camera move in tiles (default 1).
	PanStep float64
}

func (o Options) withDefaults() Options {
	if o.CellWidth <= 0 {
		o.CellWidth = 8
	}
	if o.CellHeight <= 0 {
		o.CellHeight = 16
	}
	if o.FrameInterval <= 0 {
		o.FrameInterval = 33 * time.Millisecond
	}
	if o.PanStep == 0 {
		o.PanStep = 1
	}
	return o
}

// Run drives m on an initialized screen until ctx is cancelled or the user
// presses Escape, q or Ctrl-C. Arrow keys pan, + and - zoom, and mouse
// clicks are passed to Main.Click. The caller owns the screen and must call
// Fini.
func Run(ctx context.Context, screen tcell.Screen, m *tily.Main, opts Options) error {
	opts = opts.withDefaults()
	surface := NewSurface(screen, opts.CellWidth, opts.CellHeight)
	screen.EnableMouse()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(opts.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !handleEvent(m, surface, ev, opts) {
				return nil
			}
		case now := <-ticker.C:
			m.Frame(surface, now)
			screen.Show()
		}
	}
}

// handleEvent applies one terminal event. It returns false to quit.
func handleEvent(m *tily.Main, s *Surface, ev tcell.Event, opts Options) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			pan(m, -opts.PanStep, 0)
		case tcell.KeyRight:
			pan(m, opts.PanStep, 0)
		case tcell.KeyUp:
			pan(m, 0, -opts.PanStep)
		case tcell.KeyDown:
			pan(m, 0, opts.PanStep)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case '+', '=':
				zoom(m, -1)
			case '-':
				zoom(m, 1)
			}
		}
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			m.Click(m.ScreenToViewport((float64(x)+0.5)*s.CellWidth, (float64(y)+0.5)*s.CellHeight))
		}
	case *tcell.EventResize:
		s.screen.Sync()
	}
	return true
}

func pan(m *tily.Main, dx, dy float64) {
	if b := m.ActiveBuffer(); b != nil {
		b.MoveOffset(dx, dy, tily.MoveOptions{Relative: true})
	}
}

func zoom(m *tily.Main, d float64) {
	if b := m.ActiveBuffer(); b != nil {
		b.Zoom(b.Scale()+d, tily.TransitionOptions{})
	}
}
