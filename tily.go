package tily

import (
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}
	ColorTransparent = Color{}
)

// RGBA converts the color to a premultiplied color.RGBA.
func (c Color) RGBA() color.RGBA {
	a := clamp(c.A, 0, 1)
	return color.RGBA{
		R: uint8(math.Round(clamp(c.R, 0, 1) * a * 255)),
		G: uint8(math.Round(clamp(c.G, 0, 1) * a * 255)),
		B: uint8(math.Round(clamp(c.B, 0, 1) * a * 255)),
		A: uint8(math.Round(a * 255)),
	}
}

// Lerp interpolates each channel with the given ease.
func (c Color) Lerp(to Color, amount float64, ease EaseFunc) Color {
	if ease == nil {
		ease = Lerp
	}
	return Color{
		R: ease(c.R, to.R, amount),
		G: ease(c.G, to.G, amount),
		B: ease(c.B, to.B, amount),
		A: ease(c.A, to.A, amount),
	}
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersect returns the overlap of r and other. The result has zero size
// when they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	x0 := math.Max(r.X, other.X)
	y0 := math.Max(r.Y, other.Y)
	x1 := math.Min(r.X+r.Width, other.X+other.Width)
	y1 := math.Min(r.Y+r.Height, other.Y+other.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // lighter
	BlendMultiply                  // multiply (only darkens)
	BlendScreen                    // screen (only brightens)
	BlendErase                     // destination-out
	BlendMask                      // destination-in
	BlendBelow                     // destination-over
	BlendNone                      // copy
	BlendSourceAtop                // source-atop
	BlendXor                       // xor
)

var compositeModes = map[string]BlendMode{
	"source-over":      BlendNormal,
	"lighter":          BlendAdd,
	"multiply":         BlendMultiply,
	"screen":           BlendScreen,
	"destination-out":  BlendErase,
	"destination-in":   BlendMask,
	"destination-over": BlendBelow,
	"copy":             BlendNone,
	"source-atop":      BlendSourceAtop,
	"xor":              BlendXor,
}

// ParseCompositeMode maps a canvas-style composite operation name to a
// BlendMode. Unknown names fall back to BlendNormal.
func ParseCompositeMode(name string) BlendMode {
	if b, ok := compositeModes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return b
	}
	return BlendNormal
}

// String returns the composite operation name.
func (b BlendMode) String() string {
	for name, mode := range compositeModes {
		if mode == b {
			return name
		}
	}
	return "source-over"
}

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendNormal:
		return ebiten.BlendSourceOver
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendErase:
		return ebiten.BlendDestinationOut
	case BlendMask:
		return ebiten.BlendDestinationIn
	case BlendBelow:
		return ebiten.BlendDestinationOver
	case BlendNone:
		return ebiten.BlendCopy
	case BlendSourceAtop:
		return ebiten.BlendSourceAtop
	case BlendXor:
		return ebiten.BlendXor
	default:
		return ebiten.BlendSourceOver
	}
}

// TextAlign controls horizontal text alignment around the anchor point.
type TextAlign uint8

const (
	TextAlignLeft   TextAlign = iota // anchor is the left edge (default)
	TextAlignCenter                  // anchor is the horizontal center
	TextAlignRight                   // anchor is the right edge
)

// TextBaseline controls vertical text alignment around the anchor point.
type TextBaseline uint8

const (
	TextBaselineTop    TextBaseline = iota // anchor is the top of the line box
	TextBaselineMiddle                     // anchor is the vertical middle
	TextBaselineBottom                     // anchor is the bottom of the line box
)
