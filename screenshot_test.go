package tily

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-spawn", "after-spawn"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueue(t *testing.T) {
	m := NewMain(MainOptions{})
	m.Screenshot("a")
	m.Screenshot("b")
	m.Screenshot("c")
	got := m.PendingScreenshots()
	if strings.Join(got, ",") != "a,b,c" {
		t.Errorf("queue = %v, want [a b c]", got)
	}
	if m.PendingScreenshots() != nil {
		t.Error("queue not cleared after PendingScreenshots")
	}
}

func TestUnpremultiply(t *testing.T) {
	img := unpremultiply([]byte{64, 32, 0, 128, 10, 20, 30, 255}, 2, 1)
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{127, 63, 0, 128}) {
		t.Errorf("pixel 0 = %v", got)
	}
	if got := img.NRGBAAt(1, 0); got != (color.NRGBA{10, 20, 30, 255}) {
		t.Errorf("pixel 1 = %v", got)
	}
}

func TestSaveScreenshots(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	if err := SaveScreenshots(dir, img, []string{"first one", "second"}); err != nil {
		t.Fatalf("SaveScreenshots: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("files = %d, want 2", len(entries))
	}
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), "_first_one.png") && !strings.HasSuffix(e.Name(), "_second.png") {
			t.Errorf("unexpected file %s", e.Name())
		}
	}
}
