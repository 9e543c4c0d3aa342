package geometry

import "testing"

func TestPointArithmetic(t *testing.T) {
	a := NewPoint(3, 4)
	b := NewPoint(-1, 2)

	if got := a.Add(b); got != NewPoint(2, 6) {
		t.Errorf("Add = %v, want (2, 6)", got)
	}
	if got := a.Sub(b); got != NewPoint(4, 2) {
		t.Errorf("Sub = %v, want (4, 2)", got)
	}
	if got := a.LengthSquared(); got != 25 {
		t.Errorf("LengthSquared = %d, want 25", got)
	}
	if got := a.Dot(1, 0); got != 3 {
		t.Errorf("Dot(1, 0) = %v, want 3", got)
	}
	if got := a.Dot(0, 1); got != 4 {
		t.Errorf("Dot(0, 1) = %v, want 4", got)
	}
}

func TestPointLexicographicOrder(t *testing.T) {
	cases := []struct {
		a, b Point
		want bool
	}{
		{NewPoint(1, 5), NewPoint(2, 0), true},
		{NewPoint(2, 0), NewPoint(1, 5), false},
		{NewPoint(1, 2), NewPoint(1, 3), true},
		{NewPoint(1, 3), NewPoint(1, 2), false},
		{NewPoint(1, 2), NewPoint(1, 2), false},
	}

	for _, tc := range cases {
		if got := tc.a.Less(tc.b); got != tc.want {
			t.Errorf("%v.Less(%v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSegmentEqualityIgnoresOrientation(t *testing.T) {
	s := NewSegment(NewPoint(1, 2), NewPoint(3, 4))

	if !s.Equal(NewSegment(NewPoint(3, 4), NewPoint(1, 2))) {
		t.Error("reversed segment should compare equal")
	}
	if s.Equal(NewSegment(NewPoint(1, 2), NewPoint(3, 5))) {
		t.Error("different segment should not compare equal")
	}
}

func TestSegmentLength(t *testing.T) {
	s := NewSegment(NewPoint(0, 0), NewPoint(3, 4))

	if got := s.LengthSquared(); got != 25 {
		t.Errorf("LengthSquared = %d, want 25", got)
	}
	if got := s.Length(); got != 5 {
		t.Errorf("Length = %v, want 5", got)
	}
}

func TestMidpoint2D(t *testing.T) {
	m := Midpoint2D(NewPoint(0, 0), NewPoint(3, 5))
	if m.X != 1.5 || m.Y != 2.5 {
		t.Errorf("Midpoint2D = %v, want (1.5, 2.5)", m)
	}
}
