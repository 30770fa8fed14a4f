package tily

import "math"

// Style holds the inheritable visual properties of an active tile or
// active tile layer. A nil field inherits from the parent: the enclosing
// layer, or the root ActiveTile for top-level layers.
type Style struct {
	Font      *string  `json:"font"`
	FontStyle *string  `json:"fontStyle"`
	// FontSize is in pixels. When nothing in the chain sets it, text is
	// drawn at tileSize+1.
	FontSize   *float64 `json:"fontSize"`
	Foreground *string  `json:"foreground"`
	// Outline is "width colour", width in tiles.
	Outline *string `json:"outline"`
	// Shadow is "blur xOffset yOffset colour", values in tiles.
	Shadow        *string  `json:"shadow"`
	Opacity       *float64 `json:"opacity"`
	CompositeMode *string  `json:"compositeMode"`
	// Offset is in tiles.
	Offset   *Vec2    `json:"offset"`
	Scale    *Vec2    `json:"scale"`
	Rotation *float64 `json:"rotation"`
	Centered *bool    `json:"centered"`
}

// Ptr returns a pointer to v, for filling Style fields:
//
//	layer.Foreground = tily.Ptr("red")
func Ptr[T any](v T) *T {
	return &v
}

// Values used when nothing in the inheritance chain sets a property.
const (
	DefaultFont          = "sans-serif"
	DefaultFontStyle     = "normal"
	DefaultForeground    = "white"
	DefaultCompositeMode = "source-over"
)

// rootStyle is the style every new ActiveTile starts with.
func rootStyle() Style {
	return Style{
		Font:          Ptr(DefaultFont),
		FontStyle:     Ptr(DefaultFontStyle),
		Foreground:    Ptr(DefaultForeground),
		Opacity:       Ptr(1.0),
		CompositeMode: Ptr(DefaultCompositeMode),
		Offset:        &Vec2{},
		Scale:         &Vec2{1, 1},
		Rotation:      Ptr(0.0),
	}
}

func (s Style) clone() Style {
	c := s
	c.Font = clonePtr(s.Font)
	c.FontStyle = clonePtr(s.FontStyle)
	c.FontSize = clonePtr(s.FontSize)
	c.Foreground = clonePtr(s.Foreground)
	c.Outline = clonePtr(s.Outline)
	c.Shadow = clonePtr(s.Shadow)
	c.Opacity = clonePtr(s.Opacity)
	c.CompositeMode = clonePtr(s.CompositeMode)
	c.Offset = clonePtr(s.Offset)
	c.Scale = clonePtr(s.Scale)
	c.Rotation = clonePtr(s.Rotation)
	c.Centered = clonePtr(s.Centered)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// inherited resolves one property by walking from b towards the root. The
// root ActiveTile ends the walk; a detached layer resolves to def.
func inherited[T any](b *tileBase, field func(*Style) *T, def T) T {
	for n := b; n != nil; n = n.parent {
		if v := field(&n.Style); v != nil {
			return *v
		}
		if n.root {
			break
		}
	}
	return def
}

// applyOutline sets the stroke from an outline string.
func applyOutline(s Surface, outline string, tileSize float64) {
	o := ParseOutline(outline)
	s.SetStroke(styleColor(o.Colour), math.Floor(o.Width*tileSize))
}

// applyShadow sets the text shadow from a shadow string.
func applyShadow(s Surface, shadow string, tileSize float64) {
	sh := ParseShadow(shadow)
	s.SetShadow(ShadowStyle{
		Blur:    sh.Blur * tileSize,
		OffsetX: math.Floor(sh.XOffset * tileSize),
		OffsetY: math.Floor(sh.YOffset * tileSize),
		Color:   styleColor(sh.Colour),
	})
}
