package tily

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// fontStyle selects one of the four faces of a family.
type fontStyle uint8

const (
	styleRegular fontStyle = iota
	styleBold
	styleItalic
	styleBoldItalic
)

func styleOf(f Font) fontStyle {
	switch {
	case f.Bold() && f.Italic():
		return styleBoldItalic
	case f.Bold():
		return styleBold
	case f.Italic():
		return styleItalic
	}
	return styleRegular
}

type faceKey struct {
	family string
	style  fontStyle
	size   float64
}

// FontRegistry resolves CSS-style font descriptions to text/v2 faces. It
// starts with the Go fonts registered as "sans-serif" and "monospace";
// other families fall back to "sans-serif".
type FontRegistry struct {
	mu       sync.Mutex
	sources  map[string]map[fontStyle]*text.GoTextFaceSource
	faces    map[faceKey]*text.GoTextFace
	warned   map[string]bool
	fallback string
}

// NewFontRegistry creates a registry preloaded with the Go fonts.
func NewFontRegistry() *FontRegistry {
	r := &FontRegistry{
		sources:  map[string]map[fontStyle]*text.GoTextFaceSource{},
		faces:    map[faceKey]*text.GoTextFace{},
		warned:   map[string]bool{},
		fallback: "sans-serif",
	}
	builtin := []struct {
		family string
		style  fontStyle
		ttf    []byte
	}{
		{"sans-serif", styleRegular, goregular.TTF},
		{"sans-serif", styleBold, gobold.TTF},
		{"sans-serif", styleItalic, goitalic.TTF},
		{"sans-serif", styleBoldItalic, gobolditalic.TTF},
		{"monospace", styleRegular, gomono.TTF},
		{"monospace", styleBold, gomonobold.TTF},
	}
	for _, b := range builtin {
		if err := r.register(b.family, b.style, b.ttf); err != nil {
			panic("tily: " + err.Error())
		}
	}
	return r
}

// Register adds a TrueType or OpenType face for family. style is a CSS
// font style such as "normal", "bold" or "bold italic".
func (r *FontRegistry) Register(family, style string, ttf []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.register(normalizeFamily(family), styleOf(Font{Style: style}), ttf)
}

func (r *FontRegistry) register(family string, style fontStyle, ttf []byte) error {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(ttf))
	if err != nil {
		return fmt.Errorf("load font %s: %w", family, err)
	}
	if r.sources[family] == nil {
		r.sources[family] = map[fontStyle]*text.GoTextFaceSource{}
	}
	r.sources[family][style] = src
	for k := range r.faces {
		if k.family == family {
			delete(r.faces, k)
		}
	}
	return nil
}

func normalizeFamily(family string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(family), `"'`))
}

// Face returns the face for f, creating and caching it on first use.
func (r *FontRegistry) Face(f Font) *text.GoTextFace {
	r.mu.Lock()
	defer r.mu.Unlock()

	family := r.resolveFamily(f.Family)
	size := f.Size
	if size <= 0 {
		size = 10
	}
	key := faceKey{family: family, style: styleOf(f), size: size}
	if face, ok := r.faces[key]; ok {
		return face
	}
	styles := r.sources[family]
	src := styles[key.style]
	if src == nil {
		src = styles[styleRegular]
	}
	face := &text.GoTextFace{Source: src, Size: size}
	r.faces[key] = face
	return face
}

// resolveFamily picks the first registered family in a comma-separated
// family list.
func (r *FontRegistry) resolveFamily(list string) string {
	for _, name := range strings.Split(list, ",") {
		name = normalizeFamily(name)
		if _, ok := r.sources[name]; ok {
			return name
		}
	}
	if !r.warned[list] {
		r.warned[list] = true
		logf("font %q not registered, using %s", list, r.fallback)
	}
	return r.fallback
}

// Measure returns the advance width and line height of s in font f.
func (r *FontRegistry) Measure(s string, f Font) (float64, float64) {
	face := r.Face(f)
	m := face.Metrics()
	lh := m.HAscent + m.HDescent + m.HLineGap
	return text.Measure(s, face, lh)
}
