package tily

import (
	"math"
	"strconv"
	"strings"
)

// Vec2 is a 2D vector used for tile positions, camera offsets, scales and
// directions. It is a plain value: every operation returns a new Vec2.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Direction vectors used by ActiveTile.Move.
var (
	Up    = Vec2{0, -1}
	Down  = Vec2{0, 1}
	Left  = Vec2{-1, 0}
	Right = Vec2{1, 0}
)

// Add returns the elementwise sum v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns the elementwise difference v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Mul returns the elementwise product.
func (v Vec2) Mul(o Vec2) Vec2 { return Vec2{v.X * o.X, v.Y * o.Y} }

// Div returns the elementwise quotient.
func (v Vec2) Div(o Vec2) Vec2 { return Vec2{v.X / o.X, v.Y / o.Y} }

// AddS adds s to both components.
func (v Vec2) AddS(s float64) Vec2 { return Vec2{v.X + s, v.Y + s} }

// SubS subtracts s from both components.
func (v Vec2) SubS(s float64) Vec2 { return Vec2{v.X - s, v.Y - s} }

// MulS scales both components by s.
func (v Vec2) MulS(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// DivS divides both components by s.
func (v Vec2) DivS(s float64) Vec2 { return Vec2{v.X / s, v.Y / s} }

// Len returns the Euclidean length.
func (v Vec2) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

// Rad returns the angle of v in radians.
func (v Vec2) Rad() float64 { return math.Atan2(v.Y, v.X) }

// Norm returns the unit vector in the direction of v, or the zero vector
// when v has zero length.
func (v Vec2) Norm() Vec2 {
	if l := v.Len(); l != 0 {
		return v.DivS(l)
	}
	return Vec2{}
}

// Dot returns the dot product.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Cross returns the z component of the 3D cross product with z = 0.
func (v Vec2) Cross(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }

// Rot rotates v by r radians.
func (v Vec2) Rot(r float64) Vec2 {
	sin, cos := math.Sincos(r)
	return Vec2{cos*v.X - sin*v.Y, sin*v.X + cos*v.Y}
}

// Reflect reflects v about the normal n.
func (v Vec2) Reflect(n Vec2) Vec2 {
	return v.Add(n.MulS(v.Dot(n)).MulS(-2))
}

// Map applies f to each component independently. Extra arguments are
// captured by the closure:
//
//	v.Map(func(c float64) float64 { return math.Round(c*10) / 10 })
func (v Vec2) Map(f func(float64) float64) Vec2 {
	return Vec2{f(v.X), f(v.Y)}
}

// Floor and Ceil are the two mappings the renderer uses constantly.
func (v Vec2) Floor() Vec2 { return v.Map(math.Floor) }
func (v Vec2) Ceil() Vec2  { return v.Map(math.Ceil) }

// Eq reports exact equality (no epsilon).
func (v Vec2) Eq(o Vec2) bool { return v.X == o.X && v.Y == o.Y }

// String formats v as "x,y".
func (v Vec2) String() string { return v.Format(",") }

// Format formats v as x, sep, y using the shortest float representation.
func (v Vec2) Format(sep string) string {
	return strconv.FormatFloat(v.X, 'f', -1, 64) + sep + strconv.FormatFloat(v.Y, 'f', -1, 64)
}

// ParseVec2 parses "x<sep>y". An empty sep means ",". Malformed input
// yields the zero vector.
func ParseVec2(s, sep string) Vec2 {
	if sep == "" {
		sep = ","
	}
	parts := strings.SplitN(s, sep, 2)
	if len(parts) != 2 {
		return Vec2{}
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Vec2{}
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Vec2{}
	}
	return Vec2{x, y}
}

// clamp restricts a into [lo, hi].
func clamp(a, lo, hi float64) float64 {
	if a < lo {
		return lo
	}
	if a > hi {
		return hi
	}
	return a
}

func clampInt(a, lo, hi int) int {
	if a < lo {
		return lo
	}
	if a > hi {
		return hi
	}
	return a
}
