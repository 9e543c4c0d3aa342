package hough

import (
	"errors"
	"testing"

	"segment-tracer/pkg/geometry"
)

func TestNewChannelRejectsCoincidentEndpoints(t *testing.T) {
	p := geometry.Point{X: 4, Y: 9}
	if _, err := NewChannel(p, p, 2); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("error = %v, want ErrInvalidGeometry", err)
	}
}

func TestChannelAxialHorizontal(t *testing.T) {
	ch, err := NewChannel(geometry.Point{X: 0, Y: 5}, geometry.Point{X: 10, Y: 5}, 2)
	if err != nil {
		t.Fatalf("NewChannel failed: %v", err)
	}

	seen := map[geometry.Point]int{}
	step := 0
	for ch.Next() {
		canonical := ch.Canonical()
		if want := (geometry.Point{X: step, Y: 5}); canonical != want {
			t.Fatalf("canonical %d = %v, want %v", step, canonical, want)
		}

		cs := ch.CrossSection()
		if len(cs) != 3 {
			t.Fatalf("cross-section %d has %d pixels, want 3", step, len(cs))
		}
		for _, p := range cs {
			seen[p]++
		}
		step++
	}

	if step != 11 {
		t.Fatalf("walked %d canonical points, want 11", step)
	}

	// Full coverage of the 11x3 band, each pixel exactly once.
	if len(seen) != 33 {
		t.Errorf("covered %d pixels, want 33", len(seen))
	}
	for x := 0; x <= 10; x++ {
		for y := 4; y <= 6; y++ {
			if seen[geometry.Point{X: x, Y: y}] != 1 {
				t.Errorf("pixel (%d, %d) covered %d times, want 1", x, y,
					seen[geometry.Point{X: x, Y: y}])
			}
		}
	}
}

func TestChannelAxialVerticalDescending(t *testing.T) {
	ch, err := NewChannel(geometry.Point{X: 3, Y: 9}, geometry.Point{X: 3, Y: 2}, 1)
	if err != nil {
		t.Fatalf("NewChannel failed: %v", err)
	}

	y := 9
	for ch.Next() {
		canonical := ch.Canonical()
		if want := (geometry.Point{X: 3, Y: y}); canonical != want {
			t.Fatalf("canonical = %v, want %v", canonical, want)
		}

		cs := ch.CrossSection()
		if len(cs) != 1 || cs[0] != canonical {
			t.Fatalf("cross-section at %v = %v, want just the canonical point", canonical, cs)
		}
		y--
	}

	if y != 1 {
		t.Errorf("walk stopped at y = %d, want 2", y+1)
	}
}

// The cross-sections of a thick line must tile it: every covered pixel
// appears in exactly one cross-section, and the canonical point is in its
// own cross-section or adjacent to one of its pixels.
func TestChannelCrossSectionsDoNotOverlap(t *testing.T) {
	cases := []struct {
		name   string
		p0, p1 geometry.Point
		radius int
	}{
		{"shallow", geometry.Point{X: 0, Y: 0}, geometry.Point{X: 7, Y: 3}, 2},
		{"steep", geometry.Point{X: 0, Y: 0}, geometry.Point{X: 3, Y: 7}, 2},
		{"reverse", geometry.Point{X: 10, Y: 10}, geometry.Point{X: 2, Y: 5}, 3},
		{"negative slope", geometry.Point{X: 5, Y: 0}, geometry.Point{X: 0, Y: 9}, 2},
		{"diagonal", geometry.Point{X: 0, Y: 0}, geometry.Point{X: 12, Y: 12}, 2},
		{"thin", geometry.Point{X: 1, Y: 2}, geometry.Point{X: 9, Y: 6}, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ch, err := NewChannel(tc.p0, tc.p1, tc.radius)
			if err != nil {
				t.Fatalf("NewChannel failed: %v", err)
			}

			major := absInt(tc.p1.X - tc.p0.X)
			if dy := absInt(tc.p1.Y - tc.p0.Y); dy > major {
				major = dy
			}

			seen := map[geometry.Point]bool{}
			var first, last geometry.Point
			steps := 0

			for ch.Next() {
				canonical := ch.Canonical()
				if steps == 0 {
					first = canonical
				}
				last = canonical

				cs := ch.CrossSection()
				if len(cs) == 0 {
					t.Fatalf("empty cross-section at %v", canonical)
				}

				adjacent := false
				for _, p := range cs {
					if seen[p] {
						t.Fatalf("pixel %v appears in two cross-sections", p)
					}
					seen[p] = true

					if absInt(p.X-canonical.X) <= 1 && absInt(p.Y-canonical.Y) <= 1 {
						adjacent = true
					}
				}
				if !adjacent {
					t.Errorf("canonical %v not adjacent to its cross-section", canonical)
				}

				steps++
			}

			if steps != major+1 {
				t.Errorf("walked %d canonical points, want %d", steps, major+1)
			}
			if first != tc.p0 {
				t.Errorf("first canonical = %v, want %v", first, tc.p0)
			}
			if last != tc.p1 {
				t.Errorf("last canonical = %v, want %v", last, tc.p1)
			}
		})
	}
}

// With a unit radius the canonical walk is the plain Bresenham line.
func TestChannelUnitRadiusFollowsBresenham(t *testing.T) {
	ch, err := NewChannel(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 6, Y: 3}, 1)
	if err != nil {
		t.Fatalf("NewChannel failed: %v", err)
	}

	var canonicals []geometry.Point
	for ch.Next() {
		canonicals = append(canonicals, ch.Canonical())
	}

	want := []geometry.Point{
		{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 2},
		{X: 4, Y: 2}, {X: 5, Y: 3}, {X: 6, Y: 3},
	}

	if len(canonicals) != len(want) {
		t.Fatalf("got %d canonical points %v, want %d", len(canonicals), canonicals, len(want))
	}
	for i := range want {
		if canonicals[i] != want[i] {
			t.Errorf("canonical %d = %v, want %v", i, canonicals[i], want[i])
		}
	}
}
