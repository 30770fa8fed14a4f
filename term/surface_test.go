package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/tily"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func TestSurfaceSize(t *testing.T) {
	s := NewSurface(newScreen(t, 20, 10), 8, 16)
	w, h := s.Size()
	if w != 160 || h != 160 {
		t.Errorf("Size() = %d,%d, want 160,160", w, h)
	}
}

func TestFillTextPlacesRuneInCell(t *testing.T) {
	screen := newScreen(t, 10, 10)
	s := NewSurface(screen, 10, 10)
	s.Clear()
	s.SetFill(tily.Color{R: 1, A: 1})
	s.SetTextAlign(tily.TextAlignCenter, tily.TextBaselineMiddle)
	s.Translate(30, 20)
	s.FillText("@bc", 5, 5)

	mainc, _, style, _ := screen.GetContent(3, 2)
	if mainc != '@' {
		t.Fatalf("cell (3,2) = %q, want '@'", mainc)
	}
	fg, _, _ := style.Decompose()
	if fg != tcell.NewRGBColor(255, 0, 0) {
		t.Errorf("foreground = %v, want red", fg)
	}
}

func TestFillRectPaintsBackground(t *testing.T) {
	screen := newScreen(t, 10, 10)
	s := NewSurface(screen, 10, 10)
	s.Clear()
	s.SetFill(tily.Color{B: 1, A: 1})
	s.FillRect(10, 10, 20, 10)

	for _, c := range [][2]int{{1, 1}, {2, 1}} {
		_, _, style, _ := screen.GetContent(c[0], c[1])
		_, bg, _ := style.Decompose()
		if bg != tcell.NewRGBColor(0, 0, 255) {
			t.Errorf("cell %v background = %v, want blue", c, bg)
		}
	}
	_, _, style, _ := screen.GetContent(3, 1)
	if _, bg, _ := style.Decompose(); bg != tcell.NewRGBColor(0, 0, 0) {
		t.Errorf("cell (3,1) background = %v, want black", bg)
	}
}

func TestClipSkipsCells(t *testing.T) {
	screen := newScreen(t, 10, 10)
	s := NewSurface(screen, 10, 10)
	s.Clear()
	s.ClipRect(0, 0, 10, 10)
	s.SetFill(tily.ColorWhite)
	s.SetTextAlign(tily.TextAlignLeft, tily.TextBaselineTop)
	s.FillText("a", 0, 0)
	s.FillText("b", 20, 0)

	if r, _, _, _ := screen.GetContent(0, 0); r != 'a' {
		t.Errorf("cell (0,0) = %q, want 'a'", r)
	}
	if r, _, _, _ := screen.GetContent(2, 0); r == 'b' {
		t.Error("clipped text was drawn")
	}
}

func TestBufferDrawsToTerminal(t *testing.T) {
	screen := newScreen(t, 4, 4)
	s := NewSurface(screen, 10, 10)

	b := tily.NewBuffer(4, 4, tily.BufferOptions{InitialScale: 4, InitialOffsetX: 1.5, InitialOffsetY: 1.5})
	l := b.AddLayer(nil, tily.ZTop)
	l.Centered = true
	l.SetTile(2, 1, "#", "", "")

	m := tily.NewMain(tily.MainOptions{})
	m.ActivateBuffer(b, tily.TransitionOptions{})
	m.Draw(s, 0)

	if r, _, _, _ := screen.GetContent(2, 1); r != '#' {
		t.Errorf("cell (2,1) = %q, want '#'", r)
	}
}

func TestHandleEventQuit(t *testing.T) {
	s := NewSurface(newScreen(t, 4, 4), 8, 16)
	m := tily.NewMain(tily.MainOptions{})
	opts := Options{}.withDefaults()
	if handleEvent(m, s, tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), opts) {
		t.Error("Escape should quit")
	}
	if !handleEvent(m, s, tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), opts) {
		t.Error("arrow key should not quit")
	}
}

func TestHandleEventPans(t *testing.T) {
	s := NewSurface(newScreen(t, 4, 4), 8, 16)
	b := tily.NewBuffer(10, 10, tily.BufferOptions{})
	m := tily.NewMain(tily.MainOptions{})
	m.ActivateBuffer(b, tily.TransitionOptions{})
	handleEvent(m, s, tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), Options{}.withDefaults())
	if got := b.Offset(); !got.Eq(tily.V(1, 0)) {
		t.Errorf("Offset() = %v, want 1,0", got)
	}
}
