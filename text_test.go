package tily

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Logger
	Logger = &buf
	t.Cleanup(func() { Logger = prev })
	return &buf
}

func TestFontRegistryResolvesFamilyList(t *testing.T) {
	r := NewFontRegistry()
	log := captureLog(t)

	mono := r.Face(Font{Family: `"Fira Code", Monospace`, Size: 12})
	if mono.Source != r.sources["monospace"][styleRegular] {
		t.Error("family list did not resolve to monospace")
	}
	if log.Len() != 0 {
		t.Errorf("unexpected log: %s", log.String())
	}
	if again := r.Face(Font{Family: `"Fira Code", Monospace`, Size: 12}); again != mono {
		t.Error("face not cached")
	}
}

func TestFontRegistryFallbackLogsOnce(t *testing.T) {
	r := NewFontRegistry()
	log := captureLog(t)

	f := r.Face(Font{Family: "scenery_icons", Size: 16})
	r.Face(Font{Family: "scenery_icons", Size: 20})
	if f.Source != r.sources["sans-serif"][styleRegular] {
		t.Error("unknown family should fall back to sans-serif")
	}
	if n := strings.Count(log.String(), "scenery_icons"); n != 1 {
		t.Errorf("fallback logged %d times, want 1", n)
	}
}

func TestFontRegistryStyles(t *testing.T) {
	r := NewFontRegistry()
	bold := r.Face(Font{Family: "sans-serif", Style: "bold", Size: 10})
	if bold.Source != r.sources["sans-serif"][styleBold] {
		t.Error("bold face not selected")
	}
	// monospace has no bold italic face and uses its regular one.
	bi := r.Face(Font{Family: "monospace", Style: "bold italic", Size: 10})
	if bi.Source != r.sources["monospace"][styleRegular] {
		t.Error("missing style should use the regular face")
	}
	if def := r.Face(Font{Family: "sans-serif"}); def.Size != 10 {
		t.Errorf("default size = %f, want 10", def.Size)
	}
}

func TestFontRegistryRegister(t *testing.T) {
	r := NewFontRegistry()
	if err := r.Register("broken", "normal", []byte("not a font")); err == nil {
		t.Error("expected an error for invalid font data")
	}
	if err := r.Register(" 'Icons' ", "italic", gomono.TTF); err != nil {
		t.Fatalf("Register: %v", err)
	}
	f := r.Face(Font{Family: "icons", Style: "italic", Size: 8})
	if f.Source != r.sources["icons"][styleItalic] {
		t.Error("registered family not used")
	}
}

func TestFontRegistryMeasure(t *testing.T) {
	r := NewFontRegistry()
	w1, h := r.Measure("a", Font{Family: "monospace", Size: 20})
	w3, _ := r.Measure("abc", Font{Family: "monospace", Size: 20})
	if w1 <= 0 || h <= 0 {
		t.Fatalf("measure = %f x %f", w1, h)
	}
	if !approxEqual(w3, 3*w1, 1e-6) {
		t.Errorf("monospace width = %f, want 3 x %f", w3, w1)
	}
}
