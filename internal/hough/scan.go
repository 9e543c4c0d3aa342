package hough

import (
	"fmt"
	"sort"

	"segment-tracer/pkg/geometry"
)

// PointSet collects the pixels supporting one contiguous run of canonical
// points during a channel sweep. The canonical endpoints of the run form
// the segment; the supporting pixels need not include them.
type PointSet struct {
	points map[geometry.Point]struct{}
	seg    geometry.Segment
}

func newPointSet() *PointSet {
	return &PointSet{points: make(map[geometry.Point]struct{})}
}

// Empty reports whether any supporting pixels have been added.
func (ps *PointSet) Empty() bool {
	return len(ps.points) == 0
}

// AddPoint extends the run to the given canonical point and absorbs the
// supporting pixels found in its cross-section. The canonical point
// itself is not added to the supporting set.
func (ps *PointSet) AddPoint(canonical geometry.Point, found []geometry.Point) {
	if ps.Empty() {
		ps.seg.A = canonical
	}
	ps.seg.B = canonical

	for _, p := range found {
		ps.points[p] = struct{}{}
	}
}

// Endpoints returns the canonical segment of the run. Defined only if
// Empty reports false.
func (ps *PointSet) Endpoints() geometry.Segment {
	return ps.seg
}

// LengthSquared returns the squared length of the canonical segment, or
// -1 for an empty set so that empty sets rank below all others.
func (ps *PointSet) LengthSquared() int {
	if ps.Empty() {
		return -1
	}
	return ps.seg.LengthSquared()
}

// Points returns the supporting pixels in sorted order.
func (ps *PointSet) Points() []geometry.Point {
	pts := make([]geometry.Point, 0, len(ps.points))
	for p := range ps.points {
		pts = append(pts, p)
	}
	sort.Slice(pts, func(i, j int) bool {
		return pts[i].Less(pts[j])
	})
	return pts
}

// Scan sweeps the channel around the clipped segment and returns the
// longest contiguous run of canonical points whose cross-sections contain
// set pixels. A gap of more than maxGap canonical points with no hits
// closes the current run and starts a new one. Ties on length go to the
// earlier run.
func Scan(s *State, segment geometry.Segment, radius, maxGap int) (*PointSet, error) {
	ch, err := NewChannel(segment.A, segment.B, radius)
	if err != nil {
		return nil, err
	}

	// The initial gap is notionally infinite; anything beyond maxGap
	// forces a fresh run at the first hit.
	gap := maxGap + 1

	var runs []*PointSet

	for ch.Next() {
		var found []geometry.Point

		for _, p := range ch.CrossSection() {
			if !s.InBounds(p) {
				continue
			}
			if st := s.at(p); st == StatusPending || st == StatusVoted {
				found = append(found, p)
			}
		}

		if len(found) == 0 {
			gap++
			continue
		}

		if gap > maxGap {
			runs = append(runs, newPointSet())
		}
		runs[len(runs)-1].AddPoint(ch.Canonical(), found)
		gap = 0
	}

	if len(runs) == 0 {
		return nil, fmt.Errorf("scan of %v: %w", segment, ErrEmptyChannel)
	}

	longest := runs[0]
	for _, run := range runs[1:] {
		if run.LengthSquared() > longest.LengthSquared() {
			longest = run
		}
	}

	return longest, nil
}
