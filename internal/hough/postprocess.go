package hough

import (
	"math"

	"segment-tracer/pkg/geometry"
)

// directedSegment is an oriented view of an undirected segment, used only
// for neighborhood queries: extending the head of one segment means
// finding another whose tail lies nearby.
type directedSegment struct {
	tail, head geometry.Point
	index      int // position of the undirected segment in the working list
}

// Postprocess fuses near-colinear segments separated by small gaps.
// Two segments fuse when the head of one lies within gapLimit pixels of
// the tail of the other and the far endpoints point in nearly opposite
// directions from the joint, within angleTolerance parts of maxTheta.
// Each fusion strictly reduces the segment count, so the pass terminates.
// The input slice is not modified.
func Postprocess(segments []geometry.Segment, gapLimit, angleTolerance, maxTheta int) []geometry.Segment {
	if len(segments) < 2 || gapLimit <= 0 {
		return segments
	}

	// Vectors pointing in near-opposite directions have cosines at or
	// below this value.
	cosThreshold := -math.Cos(float64(angleTolerance) * math.Pi / float64(maxTheta))

	segs := append([]geometry.Segment(nil), segments...)

	for i := 0; i < len(segs); i++ {
		a, b := segs[i].A, segs[i].B

		// First pass extends the head; the endpoints are then swapped
		// and the tail extended the same way.
		for pass := 0; pass < 2; pass++ {
			for {
				fused := false

				pool := directedPool(segs, i)
				for _, nb := range kdSearch(pool, b, gapLimit, 0, nil) {
					if !fusable(a, b, nb.tail, nb.head, cosThreshold) {
						continue
					}

					// Replace {a, b} and {tail, head} with {a, head}
					// and keep extending from the new head.
					b = nb.head
					segs = append(segs[:nb.index], segs[nb.index+1:]...)
					if nb.index < i {
						i--
					}
					segs[i] = geometry.Segment{A: a, B: b}

					fused = true
					break
				}

				if !fused {
					break
				}
			}

			a, b = b, a
		}

		segs[i] = geometry.Segment{A: a, B: b}
	}

	return segs
}

// directedPool lists both orientations of every segment other than the
// one currently being extended.
func directedPool(segs []geometry.Segment, skip int) []directedSegment {
	pool := make([]directedSegment, 0, 2*(len(segs)-1))
	for j, s := range segs {
		if j == skip {
			continue
		}
		pool = append(pool,
			directedSegment{tail: s.A, head: s.B, index: j},
			directedSegment{tail: s.B, head: s.A, index: j},
		)
	}
	return pool
}

// fusable tests the angle criterion for joining segment (a, b) to a
// candidate (c, d) whose tail c is already known to be within the gap
// limit of b. From the midpoint of the joint, the far endpoints a and d
// must point in nearly opposite directions.
func fusable(a, b, c, d geometry.Point, cosThreshold float64) bool {
	m := geometry.Midpoint2D(b, c)
	v1 := a.ToFloat().Sub(m)
	v2 := d.ToFloat().Sub(m)

	n1 := v1.Norm()
	n2 := v2.Norm()
	if n1 == 0 || n2 == 0 {
		return false
	}

	return v1.Dot(v2)/(n1*n2) <= cosThreshold
}

// kdSearch returns the directed segments whose tails lie within the
// closed disc of the given radius around p. The slice is partitioned in
// place around the median of the current axis, alternating axes per
// level; only subtrees whose separating half-plane intersects the query
// disc are descended.
func kdSearch(items []directedSegment, p geometry.Point, limit, dim int, out []directedSegment) []directedSegment {
	if len(items) == 0 {
		return out
	}

	median := len(items) / 2
	nthElement(items, median, dim)

	mid := items[median]
	if p.Sub(mid.tail).LengthSquared() <= limit*limit {
		out = append(out, mid)
	}

	// The sign of the plane distance picks the side of the separating
	// line; its magnitude decides whether the disc straddles both sides.
	dPlane := axisCoord(p, dim) - axisCoord(mid.tail, dim)

	if dPlane <= limit {
		out = kdSearch(items[:median], p, limit, 1-dim, out)
	}
	if dPlane >= -limit {
		out = kdSearch(items[median+1:], p, limit, 1-dim, out)
	}

	return out
}

func axisCoord(p geometry.Point, dim int) int {
	if dim == 0 {
		return p.X
	}
	return p.Y
}

// nthElement partially sorts items so that items[n] holds the element
// that a full sort by the dim axis would place there, with smaller keys
// before it and larger after. Deterministic middle-pivot quickselect.
func nthElement(items []directedSegment, n, dim int) {
	lo, hi := 0, len(items)

	for hi-lo > 1 {
		pivot := axisCoord(items[lo+(hi-lo)/2].tail, dim)

		i, j := lo, hi-1
		for i <= j {
			for axisCoord(items[i].tail, dim) < pivot {
				i++
			}
			for axisCoord(items[j].tail, dim) > pivot {
				j--
			}
			if i <= j {
				items[i], items[j] = items[j], items[i]
				i++
				j--
			}
		}

		switch {
		case n <= j:
			hi = j + 1
		case n >= i:
			lo = i
		default:
			return
		}
	}
}
