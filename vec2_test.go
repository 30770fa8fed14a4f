package tily

import (
	"math"
	"testing"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestVec2Arithmetic(t *testing.T) {
	a, b := V(3, 4), V(1, 2)
	if got := a.Add(b); !got.Eq(V(4, 6)) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); !got.Eq(V(2, 2)) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Mul(b); !got.Eq(V(3, 8)) {
		t.Errorf("Mul = %v", got)
	}
	if got := a.Div(b); !got.Eq(V(3, 2)) {
		t.Errorf("Div = %v", got)
	}
	if got := a.AddS(1).SubS(2).MulS(2).DivS(4); !got.Eq(V(1, 1.5)) {
		t.Errorf("scalar chain = %v", got)
	}
	if a.Len() != 5 {
		t.Errorf("Len = %f, want 5", a.Len())
	}
	if a.Dot(b) != 11 {
		t.Errorf("Dot = %f, want 11", a.Dot(b))
	}
	if a.Cross(b) != 2 {
		t.Errorf("Cross = %f, want 2", a.Cross(b))
	}
}

func TestVec2NormZero(t *testing.T) {
	if got := (Vec2{}).Norm(); !got.Eq(Vec2{}) {
		t.Errorf("zero Norm = %v, want 0,0", got)
	}
	n := V(0, 5).Norm()
	if !n.Eq(V(0, 1)) {
		t.Errorf("Norm = %v, want 0,1", n)
	}
}

func TestVec2RotReflect(t *testing.T) {
	r := V(1, 0).Rot(math.Pi / 2)
	if !approxEqual(r.X, 0, 1e-9) || !approxEqual(r.Y, 1, 1e-9) {
		t.Errorf("Rot = %v, want 0,1", r)
	}
	if got := V(1, -1).Reflect(V(0, 1)); !got.Eq(V(1, 1)) {
		t.Errorf("Reflect = %v, want 1,1", got)
	}
	if got := V(0, 1).Rad(); !approxEqual(got, math.Pi/2, 1e-9) {
		t.Errorf("Rad = %f", got)
	}
}

func TestVec2FloorCeilMap(t *testing.T) {
	v := V(1.5, -1.5)
	if got := v.Floor(); !got.Eq(V(1, -2)) {
		t.Errorf("Floor = %v", got)
	}
	if got := v.Ceil(); !got.Eq(V(2, -1)) {
		t.Errorf("Ceil = %v", got)
	}
	if got := v.Map(math.Abs); !got.Eq(V(1.5, 1.5)) {
		t.Errorf("Map = %v", got)
	}
}

func TestVec2StringParse(t *testing.T) {
	v := V(1.25, -3)
	if v.String() != "1.25,-3" {
		t.Errorf("String = %q", v.String())
	}
	if got := ParseVec2(v.Format("_"), "_"); !got.Eq(v) {
		t.Errorf("ParseVec2 = %v, want %v", got, v)
	}
	for _, bad := range []string{"", "1", "a,2", "1,b"} {
		if got := ParseVec2(bad, ""); !got.Eq(Vec2{}) {
			t.Errorf("ParseVec2(%q) = %v, want zero", bad, got)
		}
	}
}
