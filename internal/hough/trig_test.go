package hough

import (
	"math"
	"testing"
)

func TestNewTrigTableRejectsOddResolution(t *testing.T) {
	if _, err := NewTrigTable(3601); err == nil {
		t.Error("expected error for odd resolution")
	}
	if _, err := NewTrigTable(0); err == nil {
		t.Error("expected error for zero resolution")
	}
}

func TestTrigTableCardinalAngles(t *testing.T) {
	trig, err := NewTrigTable(3600)
	if err != nil {
		t.Fatalf("NewTrigTable failed: %v", err)
	}

	if got := trig.MaxTheta(); got != 3600 {
		t.Errorf("MaxTheta = %d, want 3600", got)
	}

	cos, sin := trig.CosSin(0)
	if cos != 1 || sin != 0 {
		t.Errorf("CosSin(0) = (%v, %v), want (1, 0)", cos, sin)
	}

	// 90 degrees comes from the upper-half identity, so it is exact.
	cos, sin = trig.CosSin(1800)
	if cos != 0 || sin != 1 {
		t.Errorf("CosSin(1800) = (%v, %v), want (0, 1)", cos, sin)
	}
}

// The upper half of the table must be derived from the lower half, so the
// quarter-turn identity holds bit for bit.
func TestTrigTableQuadrantConsistency(t *testing.T) {
	trig, err := NewTrigTable(3600)
	if err != nil {
		t.Fatalf("NewTrigTable failed: %v", err)
	}

	for _, theta := range []int{1, 7, 450, 899, 900, 1234, 1799} {
		c1, s1 := trig.CosSin(theta)
		c2, s2 := trig.CosSin(theta + 1800)

		if c2 != -s1 || s2 != c1 {
			t.Errorf("theta %d: CosSin(theta+half) = (%v, %v), want (%v, %v)",
				theta, c2, s2, -s1, c1)
		}
	}
}

func TestTrigTableUnitLength(t *testing.T) {
	trig, err := NewTrigTable(1024)
	if err != nil {
		t.Fatalf("NewTrigTable failed: %v", err)
	}

	for theta := 0; theta < 1024; theta++ {
		cos, sin := trig.CosSin(theta)
		if r := math.Hypot(cos, sin); math.Abs(r-1) > 1e-15 {
			t.Fatalf("theta %d: |(cos, sin)| = %v, want 1", theta, r)
		}
	}
}
