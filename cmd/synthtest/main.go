// Command synthtest runs the detector against synthetic bitmaps with
// known geometry, for checking recovery quality without scanner input.
package main

import (
	"flag"
	"fmt"
	"os"

	"segment-tracer/internal/hough"
	"segment-tracer/pkg/geometry"
)

func main() {
	shape := flag.String("shape", "diagonal", "Test shape: diagonal, rectangles, or star")
	rows := flag.Int("rows", 240, "Image height")
	cols := flag.Int("cols", 320, "Image width")
	seed := flag.Uint("seed", 1, "Random seed for pixel sampling")
	flag.Parse()

	state := hough.NewState(*rows, *cols)

	var expected []geometry.Segment
	switch *shape {
	case "diagonal":
		expected = drawDiagonal(state, *rows, *cols)
	case "rectangles":
		expected = drawRectangles(state, *rows, *cols)
	case "star":
		expected = drawStar(state, *rows, *cols)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shape %q\n", *shape)
		os.Exit(1)
	}

	fmt.Printf("Drew %d segments into a %dx%d bitmap\n", len(expected), *cols, *rows)

	segments, err := hough.FindSegments(state, hough.DefaultOptions(), uint32(*seed))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Detection failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Recovered %d segments:\n", len(segments))
	for i, s := range segments {
		fmt.Printf("  %2d: %v (length %.1f)\n", i+1, s, s.Length())
	}

	matched := 0
	for _, want := range expected {
		for _, got := range segments {
			if near(got, want, 5) {
				matched++
				break
			}
		}
	}
	fmt.Printf("%d of %d drawn segments recovered within 5 px\n", matched, len(expected))
}

func draw(state *hough.State, a, b geometry.Point) geometry.Segment {
	ch, err := hough.NewChannel(a, b, 1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot draw %v-%v: %v\n", a, b, err)
		os.Exit(1)
	}
	for ch.Next() {
		p := ch.Canonical()
		if st, _ := state.Status(p); st == hough.StatusUnset {
			state.MarkPending(p)
		}
	}
	return geometry.Segment{A: a, B: b}
}

func drawDiagonal(state *hough.State, rows, cols int) []geometry.Segment {
	n := rows
	if cols < n {
		n = cols
	}
	return []geometry.Segment{
		draw(state, geometry.Point{X: n / 5, Y: n / 5}, geometry.Point{X: n - 1, Y: n - 1}),
	}
}

func drawRectangles(state *hough.State, rows, cols int) []geometry.Segment {
	var segs []geometry.Segment

	w := cols / 4
	h := rows * 2 / 3
	for i := 0; i < 3; i++ {
		x0 := cols/16 + i*(w+cols/16)
		y0 := rows / 6
		corners := []geometry.Point{
			{X: x0, Y: y0}, {X: x0 + w, Y: y0},
			{X: x0 + w, Y: y0 + h}, {X: x0, Y: y0 + h},
		}
		for j := range corners {
			segs = append(segs, draw(state, corners[j], corners[(j+1)%4]))
		}
	}

	return segs
}

func drawStar(state *hough.State, rows, cols int) []geometry.Segment {
	c := geometry.Point{X: cols / 2, Y: rows / 2}
	r := rows / 3
	if cols/3 < r {
		r = cols / 3
	}

	tips := []geometry.Point{
		{X: c.X, Y: c.Y - r},
		{X: c.X + r, Y: c.Y},
		{X: c.X, Y: c.Y + r},
		{X: c.X - r, Y: c.Y},
		{X: c.X + r, Y: c.Y - r},
		{X: c.X - r, Y: c.Y + r},
	}

	var segs []geometry.Segment
	for _, tip := range tips {
		segs = append(segs, draw(state, c, tip))
	}
	return segs
}

func near(got, want geometry.Segment, tolerance int) bool {
	nearPt := func(p, q geometry.Point) bool {
		return p.Sub(q).LengthSquared() <= tolerance*tolerance
	}
	return (nearPt(got.A, want.A) && nearPt(got.B, want.B)) ||
		(nearPt(got.A, want.B) && nearPt(got.B, want.A))
}
