package tily

import (
	"fmt"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// Resizable lets the window be resized; the buffer viewport follows.
	Resizable bool
	// Fonts is used for text. Nil loads the Go fonts.
	Fonts *FontRegistry
	// ScreenshotDir receives PNGs queued with Main.Screenshot
	// (default "screenshots").
	ScreenshotDir string
	// ExitOnScriptDone closes the window once an attached script finishes.
	ExitOnScriptDone bool
	// Help is printed in the bottom left corner over every frame.
	Help string
}

// game adapts Main to ebiten.Game.
type game struct {
	main    *Main
	cfg     RunConfig
	surface *EbitenSurface
	w, h    int
}

func (g *game) Update() error {
	if len(g.main.injectQueue) == 0 {
		g.main.input.processInput(g.main)
	}
	if g.cfg.ExitOnScriptDone && g.main.script != nil && g.main.script.Done() &&
		len(g.main.screenshotQueue) == 0 {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.surface.Begin(screen)
	g.main.Frame(g.surface, time.Now())
	if g.cfg.Help != "" {
		lines := strings.Count(g.cfg.Help, "\n") + 1
		ebitenutil.DebugPrintAt(screen, g.cfg.Help, 10, screen.Bounds().Dy()-10-16*lines)
	}

	if labels := g.main.PendingScreenshots(); len(labels) > 0 {
		b := screen.Bounds()
		pixels := make([]byte, 4*b.Dx()*b.Dy())
		screen.ReadPixels(pixels)
		if err := SaveScreenshots(g.cfg.ScreenshotDir, unpremultiply(pixels, b.Dx(), b.Dy()), labels); err != nil {
			logf("%v", err)
		}
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.cfg.Resizable {
		return outsideWidth, outsideHeight
	}
	return g.w, g.h
}

// Run opens a window and drives m until the window is closed.
func Run(m *Main, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 600
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}
	g := &game{
		main:    m,
		cfg:     cfg,
		surface: NewEbitenSurface(cfg.Fonts),
		w:       cfg.Width,
		h:       cfg.Height,
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
