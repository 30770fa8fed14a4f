package tily

import "math"

// Affine is a 2D affine matrix [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Affine [6]float64

// identityTransform is the identity affine matrix.
var identityTransform = Affine{1, 0, 0, 1, 0, 0}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
func multiplyAffine(p, c Affine) Affine {
	return Affine{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ~ 0).
func invertAffine(m Affine) Affine {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Affine{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// Translated returns m followed by a translation in local space.
func (m Affine) Translated(x, y float64) Affine {
	return multiplyAffine(m, Affine{1, 0, 0, 1, x, y})
}

// Rotated returns m followed by a rotation of r radians in local space.
func (m Affine) Rotated(r float64) Affine {
	sin, cos := math.Sincos(r)
	return multiplyAffine(m, Affine{cos, sin, -sin, cos, 0, 0})
}

// Scaled returns m followed by a scale in local space.
func (m Affine) Scaled(sx, sy float64) Affine {
	return multiplyAffine(m, Affine{sx, 0, 0, sy, 0, 0})
}

// Apply maps a local point to surface space.
func (m Affine) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Inverse returns the inverse matrix, or the identity when m is singular.
func (m Affine) Inverse() Affine {
	return invertAffine(m)
}

// ScaleFactor returns the average length of the transformed unit axes.
// Used to size fonts and line widths under a scaled transform.
func (m Affine) ScaleFactor() float64 {
	sx := math.Hypot(m[0], m[1])
	sy := math.Hypot(m[2], m[3])
	return (sx + sy) / 2
}

// Bounds returns the axis-aligned bounding box of the local rectangle after
// transformation.
func (m Affine) Bounds(x, y, w, h float64) Rect {
	x0, y0 := m.Apply(x, y)
	x1, y1 := m.Apply(x+w, y)
	x2, y2 := m.Apply(x, y+h)
	x3, y3 := m.Apply(x+w, y+h)
	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
