package vec

import (
	"testing"
)

var (
	NULL = Vec3{}
)

func TestLength(t *testing.T) {
	if NULL.Length() != 0 {
		t.Errorf("Null vector has not 0 length")
	}
	v := Vec3{2, 2, 1}
	if v.Length() != 3 {
		t.Errorf("%v Length is not 3", v)
	}
	v = Vec3{1, 2, 2}
	if v.Length() != 3 {
		t.Errorf("%v Length is not 3", v)
	}
}

func TestAdd(t *testing.T) {
	v := Vec3{1, 2, 3}
	got := Add(NULL, v)
	if v != got {
		t.Errorf("Adding a null vector changed the vector")
	}
	got = Add(v, v)
	want := Vec3{2, 4, 6}
	if got != want {
		t.Errorf("Add(%v,%v) = %v want %v", v, v, got, want)
	}
}

func TestSub(t *testing.T) {
	v := Vec3{1, 2, 3}
	v2 := Vec3{9, 7, 5}
	got := Sub(v2, v)
	want := Vec3{8, 5, 2}
	if got != want {
		t.Errorf("Sub(%v,%v) = %v want %v", v2, v, got, want)
	}
}

func TestNormalize(t *testing.T) {
	v := Vec3{0, 3, 4}
	got := v.Normalize()
	want := Vec3{0, 0.6, 0.8}
	if got != want {
		t.Errorf("Normalize(%v) = %v want %v", v, got, want)
	}
	if NULL.Normalize() != NULL {
		t.Errorf("Normalize of the null vector is not null")
	}
}

func TestLerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{2, 4, 8}
	got := Lerp(a, b, 0.5)
	want := Vec3{1, 2, 4}
	if got != want {
		t.Errorf("Lerp(%v,%v,0.5) = %v want %v", a, b, got, want)
	}
}

func TestMinMax(t *testing.T) {
	a := Vec3{1, 5, -2}
	b := Vec3{3, 0, -1}
	lo, hi := MinMax(a, b)
	if lo != (Vec3{1, 0, -2}) || hi != (Vec3{3, 5, -1}) {
		t.Errorf("MinMax(%v,%v) = %v,%v", a, b, lo, hi)
	}
}

func TestVec2(t *testing.T) {
	got := Add2(Vec2{1, 2}, Vec2{0.5, 0.5}.Scale(2))
	if got != (Vec2{2, 3}) {
		t.Errorf("Add2 = %v want {2 3}", got)
	}
}
