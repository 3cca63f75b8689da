package model

import "testing"

func TestBBoxEdgesAndCenter(t *testing.T) {
	box := NewBBox(10, 20, 100, 50)

	if box.Left() != 10 {
		t.Errorf("Left() = %v, want 10", box.Left())
	}
	if box.Right() != 110 {
		t.Errorf("Right() = %v, want 110", box.Right())
	}
	if box.Bottom() != 20 {
		t.Errorf("Bottom() = %v, want 20", box.Bottom())
	}
	if box.Top() != 70 {
		t.Errorf("Top() = %v, want 70", box.Top())
	}
	if box.CenterX() != 60 {
		t.Errorf("CenterX() = %v, want 60", box.CenterX())
	}
	if box.CenterY() != 45 {
		t.Errorf("CenterY() = %v, want 45", box.CenterY())
	}
	if c := box.Center(); c.X != 60 || c.Y != 45 {
		t.Errorf("Center() = %+v, want {60, 45}", c)
	}
}

func TestBBoxContains(t *testing.T) {
	box := NewBBox(0, 0, 100, 100)

	tests := []struct {
		name     string
		point    Point
		expected bool
	}{
		{"inside", Point{50, 50}, true},
		{"on left edge", Point{0, 50}, true},
		{"on right edge", Point{100, 50}, true},
		{"outside left", Point{-1, 50}, false},
		{"outside top", Point{50, 101}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := box.Contains(tt.point)
			if result != tt.expected {
				t.Errorf("Contains(%+v) = %v, want %v", tt.point, result, tt.expected)
			}
		})
	}
}

func TestBBoxIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     BBox
		expected bool
	}{
		{"overlapping", NewBBox(0, 0, 10, 10), NewBBox(5, 5, 10, 10), true},
		{"touching edges", NewBBox(0, 0, 10, 10), NewBBox(10, 0, 10, 10), true},
		{"disjoint horizontal", NewBBox(0, 0, 10, 10), NewBBox(20, 0, 10, 10), false},
		{"disjoint vertical", NewBBox(0, 0, 10, 10), NewBBox(0, 20, 10, 10), false},
		{"contained", NewBBox(0, 0, 100, 100), NewBBox(25, 25, 10, 10), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.expected {
				t.Errorf("Intersects() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBBoxUnion(t *testing.T) {
	a := NewBBox(0, 0, 10, 10)
	b := NewBBox(20, 20, 10, 10)

	union := a.Union(b)
	want := BBox{0, 0, 30, 30}
	if union != want {
		t.Errorf("Union() = %+v, want %+v", union, want)
	}
}

func TestBBoxValidity(t *testing.T) {
	valid := NewBBox(0, 0, 10, 10)
	if valid.IsEmpty() {
		t.Error("IsEmpty() = true for a box with positive area")
	}
	if !valid.IsValid() {
		t.Error("IsValid() = false for a box with positive dimensions")
	}

	flat := NewBBox(0, 0, 10, 0)
	if !flat.IsEmpty() {
		t.Error("IsEmpty() = false for a zero-height box")
	}
	if flat.IsValid() {
		t.Error("IsValid() = true for a zero-height box")
	}
}
