package hough

import (
	"fmt"
	"math"
)

// TrigTable holds precomputed (cos, sin) pairs for each part of a semiturn.
// A table with maxTheta of 180 would be indexed by degrees. The table is
// immutable after construction and safe for concurrent reads.
type TrigTable struct {
	maxTheta int
	cossin   [][2]float64
}

// NewTrigTable precomputes the (cos, sin) pairs for angles in
// [0, maxTheta) parts per semiturn. maxTheta must be even.
//
// The upper half of the table is filled from the lower half using the
// identity (cos(t+pi/2), sin(t+pi/2)) = (-sin t, cos t), so sine and cosine
// stay exactly consistent across quadrants.
func NewTrigTable(maxTheta int) (*TrigTable, error) {
	if maxTheta <= 0 || maxTheta%2 != 0 {
		return nil, fmt.Errorf("max theta %d is not a positive even number", maxTheta)
	}

	t := &TrigTable{
		maxTheta: maxTheta,
		cossin:   make([][2]float64, maxTheta),
	}

	radiansPerPart := math.Pi / float64(maxTheta)
	half := maxTheta / 2

	for theta := 0; theta < half; theta++ {
		s, c := math.Sincos(float64(theta) * radiansPerPart)
		t.cossin[theta] = [2]float64{c, s}
		t.cossin[theta+half] = [2]float64{-s, c}
	}

	return t, nil
}

// MaxTheta returns the number of parts per semiturn.
func (t *TrigTable) MaxTheta() int {
	return t.maxTheta
}

// CosSin returns the cosine and sine for the given angle in parts.
// theta must be in [0, MaxTheta).
func (t *TrigTable) CosSin(theta int) (cos, sin float64) {
	cs := &t.cossin[theta]
	return cs[0], cs[1]
}
