package hough

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"segment-tracer/pkg/geometry"
)

// Line describes a line in Hough form: theta is the quantized angle of
// the perpendicular from the origin, in parts per semiturn, and rho the
// signed length of that perpendicular.
type Line struct {
	Theta int
	Rho   float64
}

func (l Line) String() string {
	return fmt.Sprintf("(theta = %d, rho = %g)", l.Theta, l.Rho)
}

// Accumulator holds the matrix of vote counters in quantized (theta, rho)
// space. It supports adding and withdrawing the votes for a pixel, and
// decides when a counter has collected enough votes to be distinguishable
// from noise.
type Accumulator struct {
	trig *TrigTable

	rows, cols int

	rhoScale int
	maxRho   int

	logThreshold     float64
	minTriggerPoints uint16

	counters []uint16
	votes    int
}

// RhoInfo computes the counter matrix height and the scale exponent for
// rho, given the image size and angular resolution. The mapping is
//
//	scaled = round(rho * 2^exp) + floor(maxRho/2)
//
// The returned row count is odd whenever the returned exponent is
// non-negative; with a negative exponent (maxTheta well below twice the
// image diagonal) the ceiling can make it even. Between the two exponents
// that bracket maxTheta, the one making the matrix closest to square wins.
func RhoInfo(rows, cols, maxTheta int) (maxRho, exp int) {
	diag := math.Ceil(math.Hypot(float64(rows-1), float64(cols-1)))
	rhoExp := math.Ilogb(float64(maxTheta) / (diag*2 + 1))

	// lo is 2*diag*2^rhoExp rounded up, plus one; hi doubles the scale.
	// For a non-negative exponent the product is an even integer, so the
	// +1 makes the row count odd.
	lo := int(math.Ceil(math.Ldexp(diag, rhoExp+1))) + 1
	hi := int(math.Ceil(math.Ldexp(diag, rhoExp+2))) + 1

	if maxTheta-lo <= hi-maxTheta {
		return lo, rhoExp
	}
	return hi, rhoExp + 1
}

// NewAccumulator creates an accumulator for an image of the given size.
func NewAccumulator(rows, cols int, opts Options) (*Accumulator, error) {
	trig, err := NewTrigTable(opts.MaxTheta)
	if err != nil {
		return nil, err
	}

	maxRho, exp := RhoInfo(rows, cols, opts.MaxTheta)

	return &Accumulator{
		trig:             trig,
		rows:             rows,
		cols:             cols,
		rhoScale:         exp,
		maxRho:           maxRho,
		logThreshold:     math.Log(opts.Threshold),
		minTriggerPoints: uint16(opts.MinTriggerPoints),
		counters:         make([]uint16, maxRho*opts.MaxTheta),
	}, nil
}

// Votes returns the number of vote operations currently in effect.
func (a *Accumulator) Votes() int {
	return a.votes
}

// MaxRho returns the height of the counter matrix.
func (a *Accumulator) MaxRho() int {
	return a.maxRho
}

// RhoScale returns the exponent by which raw rho values are scaled.
func (a *Accumulator) RhoScale() int {
	return a.rhoScale
}

// scaleRho converts a raw rho into a row index: scale by 2^rhoScale,
// translate by half the matrix height, round to nearest even.
func (a *Accumulator) scaleRho(rho float64) float64 {
	offset := float64(a.maxRho >> 1)
	return math.RoundToEven(math.Ldexp(rho, a.rhoScale) + offset)
}

// unscaleRho reverses scaleRho.
func (a *Accumulator) unscaleRho(scaled float64) float64 {
	offset := float64(a.maxRho >> 1)
	return math.Ldexp(scaled-offset, -a.rhoScale)
}

// Vote registers all lines passing through p, one counter per theta whose
// scaled rho lands inside the matrix. If the largest counter touched is
// improbably full under the null hypothesis that the image is uniform
// noise, the corresponding line is returned as a candidate.
func (a *Accumulator) Vote(p geometry.Point) (Line, bool) {
	maxTheta := a.trig.maxTheta

	n := a.minTriggerPoints
	var found []Line

	for theta := 0; theta < maxTheta; theta++ {
		cos, sin := a.trig.CosSin(theta)

		rho := a.scaleRho(p.Dot(cos, sin))
		if rho < 0 || rho >= float64(a.maxRho) {
			continue
		}

		counter := &a.counters[int(rho)*maxTheta+theta]
		*counter++

		if n < *counter {
			n = *counter
			found = found[:0]
		}
		if n == *counter {
			found = append(found, Line{Theta: theta, Rho: a.unscaleRho(rho)})
		}
	}

	a.votes++

	if len(found) == 0 {
		return Line{}, false
	}

	// Each vote increments one counter per column, so under the null
	// hypothesis every cell fills at rate E[n] = votes/maxRho. The fill
	// is approximately Poisson; if a count of n is still plausible as
	// noise, do not trigger a scan.
	lambda := float64(a.votes) / float64(a.maxRho)
	poisson := distuv.Poisson{Lambda: lambda}

	if poisson.LogProb(float64(n)) >= a.logThreshold {
		return Line{}, false
	}

	return a.bestCandidate(found), true
}

// bestCandidate breaks ties between equally-full counters by preferring
// the theta with the largest gcd against a quarter turn: angles that are
// simple rational fractions of pi (0, pi/2, pi/4, ...) win over the
// staircase angles adjacent to them. Deterministic, no RNG involved.
func (a *Accumulator) bestCandidate(found []Line) Line {
	quarter := a.trig.maxTheta / 2

	best := found[0]
	bestGCD := gcd(best.Theta, quarter)

	for _, l := range found[1:] {
		if g := gcd(l.Theta, quarter); g > bestGCD {
			best, bestGCD = l, g
		}
	}

	return best
}

// Unvote withdraws a previous Vote for p. Decrementing a counter that is
// already zero means the books no longer balance and is reported as
// ErrAccounting.
func (a *Accumulator) Unvote(p geometry.Point) error {
	maxTheta := a.trig.maxTheta

	for theta := 0; theta < maxTheta; theta++ {
		cos, sin := a.trig.CosSin(theta)

		rho := a.scaleRho(p.Dot(cos, sin))
		if rho < 0 || rho >= float64(a.maxRho) {
			continue
		}

		counter := &a.counters[int(rho)*maxTheta+theta]
		if *counter == 0 {
			return fmt.Errorf("unvote %v at theta %d hit a zero counter: %w", p, theta, ErrAccounting)
		}
		*counter--
	}

	a.votes--
	return nil
}

// LineIntersect clips a candidate line to the image rectangle and returns
// the resulting segment. A line that degenerates to a single boundary
// pixel yields a segment with coincident endpoints.
func (a *Accumulator) LineIntersect(l Line) (geometry.Segment, error) {
	cos, sin := a.trig.CosSin(l.Theta)

	getX := func(y float64) int {
		return clampCoord(math.RoundToEven((l.Rho - sin*y) / cos))
	}
	getY := func(x float64) int {
		return clampCoord(math.RoundToEven((l.Rho - cos*x) / sin))
	}

	w := a.cols - 1
	h := a.rows - 1

	xMin := getX(0)
	yMin := getY(0)
	xMax := getX(float64(h))
	yMax := getY(float64(w))

	// A line through a corner, or along a boundary, can hit the same
	// endpoint from two boundary equations; collect into a deduplicated
	// sorted set.
	var endpoints []geometry.Point
	add := func(p geometry.Point) {
		for _, q := range endpoints {
			if q == p {
				return
			}
		}
		endpoints = append(endpoints, p)
	}

	if 0 <= yMin && yMin <= h {
		add(geometry.Point{X: 0, Y: yMin})
	}
	if 0 <= xMin && xMin <= w {
		add(geometry.Point{X: xMin, Y: 0})
	}
	if 0 <= yMax && yMax <= h {
		add(geometry.Point{X: w, Y: yMax})
	}
	if 0 <= xMax && xMax <= w {
		add(geometry.Point{X: xMax, Y: h})
	}

	if len(endpoints) == 0 {
		return geometry.Segment{}, fmt.Errorf("line %v: %w", l, ErrNoIntersection)
	}

	sort.Slice(endpoints, func(i, j int) bool {
		return endpoints[i].Less(endpoints[j])
	})

	// More than two endpoints means duplicates through a corner slipped
	// past the boundary checks; the extremes still describe the clip.
	return geometry.Segment{A: endpoints[0], B: endpoints[len(endpoints)-1]}, nil
}

// clampCoord restricts a floating-point coordinate to a safe integer
// range before conversion. Divisions by a near-zero cosine or sine
// produce infinities that must not overflow int.
func clampCoord(v float64) int {
	const bound = math.MaxInt32
	if math.IsNaN(v) || v >= bound {
		return bound
	}
	if v <= -bound {
		return -bound
	}
	return int(v)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
