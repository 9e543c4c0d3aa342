package hough

import (
	"testing"

	"segment-tracer/pkg/geometry"
)

func seg(ax, ay, bx, by int) geometry.Segment {
	return geometry.Segment{
		A: geometry.Point{X: ax, Y: ay},
		B: geometry.Point{X: bx, Y: by},
	}
}

func TestPostprocessFusesColinearChain(t *testing.T) {
	in := []geometry.Segment{
		seg(0, 0, 50, 1),
		seg(51, 0, 100, 0),
		seg(101, 1, 150, 0),
	}

	out := Postprocess(in, 3, 80, 3600)

	if len(out) != 1 {
		t.Fatalf("got %d segments %v, want 1", len(out), out)
	}
	if want := seg(0, 0, 150, 0); !out[0].Equal(want) {
		t.Errorf("fused segment = %v, want %v", out[0], want)
	}
}

func TestPostprocessRejectsSharpAngles(t *testing.T) {
	in := []geometry.Segment{
		seg(0, 0, 10, 0),
		seg(11, 1, 11, 20),
	}

	out := Postprocess(in, 3, 80, 3600)

	if len(out) != 2 {
		t.Errorf("got %d segments %v, want 2 (perpendicular pair must not fuse)", len(out), out)
	}
}

func TestPostprocessRespectsGapLimit(t *testing.T) {
	in := []geometry.Segment{
		seg(0, 0, 50, 0),
		seg(60, 0, 100, 0), // colinear, but 10 pixels away
	}

	out := Postprocess(in, 3, 80, 3600)

	if len(out) != 2 {
		t.Errorf("got %d segments %v, want 2 (gap beyond limit must not fuse)", len(out), out)
	}
}

func TestPostprocessExtendsTailToo(t *testing.T) {
	// The second segment attaches behind the first one's tail.
	in := []geometry.Segment{
		seg(50, 0, 100, 0),
		seg(0, 0, 49, 1),
	}

	out := Postprocess(in, 3, 80, 3600)

	if len(out) != 1 {
		t.Fatalf("got %d segments %v, want 1", len(out), out)
	}
	if want := seg(0, 0, 100, 0); !out[0].Equal(want) {
		t.Errorf("fused segment = %v, want %v", out[0], want)
	}
}

func TestPostprocessLeavesInputAlone(t *testing.T) {
	in := []geometry.Segment{
		seg(0, 0, 50, 0),
		seg(51, 0, 100, 0),
	}
	orig := append([]geometry.Segment(nil), in...)

	Postprocess(in, 3, 80, 3600)

	for i := range in {
		if in[i] != orig[i] {
			t.Errorf("input segment %d mutated: %v -> %v", i, orig[i], in[i])
		}
	}
}

func TestKDSearchMatchesBruteForce(t *testing.T) {
	pts := []geometry.Point{
		{X: 0, Y: 0}, {X: 3, Y: 4}, {X: -2, Y: 1}, {X: 10, Y: 10},
		{X: 5, Y: 5}, {X: 5, Y: -5}, {X: -7, Y: 3}, {X: 2, Y: 2},
		{X: 6, Y: 1}, {X: 1, Y: 6}, {X: -4, Y: -4}, {X: 8, Y: 0},
	}

	queries := []struct {
		p     geometry.Point
		limit int
	}{
		{geometry.Point{X: 0, Y: 0}, 3},
		{geometry.Point{X: 5, Y: 5}, 4},
		{geometry.Point{X: -3, Y: 0}, 5},
		{geometry.Point{X: 100, Y: 100}, 5},
	}

	for _, q := range queries {
		items := make([]directedSegment, len(pts))
		for i, p := range pts {
			items[i] = directedSegment{tail: p, head: p, index: i}
		}

		got := map[geometry.Point]bool{}
		for _, ds := range kdSearch(items, q.p, q.limit, 0, nil) {
			got[ds.tail] = true
		}

		want := map[geometry.Point]bool{}
		for _, p := range pts {
			if q.p.Sub(p).LengthSquared() <= q.limit*q.limit {
				want[p] = true
			}
		}

		if len(got) != len(want) {
			t.Errorf("query %v limit %d: got %d hits, want %d", q.p, q.limit, len(got), len(want))
			continue
		}
		for p := range want {
			if !got[p] {
				t.Errorf("query %v limit %d: missing %v", q.p, q.limit, p)
			}
		}
	}
}
