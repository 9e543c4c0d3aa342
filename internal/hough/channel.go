package hough

import (
	"fmt"
	"math"
	"sort"

	"segment-tracer/pkg/geometry"
)

// Channel walks the thick line between two endpoints. Each step yields a
// canonical point on the ideal line plus the set of pixels forming the
// perpendicular cross-section of width 2*radius - 1 through it. The
// cross-sections jointly cover the thick line with no pixel appearing
// twice. In rare cases the canonical point is not a member of its own
// cross-section, but is adjacent to one of its pixels.
//
// Typical use:
//
//	ch, err := NewChannel(p0, p1, radius)
//	...
//	for ch.Next() {
//		canonical := ch.Canonical()
//		for _, p := range ch.CrossSection() {
//			...
//		}
//	}
type Channel struct {
	scanner channelScanner
	current [2]int
	last    [2]int
	started bool
	done    bool
}

// NewChannel creates a channel from p0 to p1 with the given radius. The
// radius is the half-width of the channel including the canonical pixel,
// so a radius of 3 yields cross-sections 5 pixels wide. The endpoints
// must differ.
func NewChannel(p0, p1 geometry.Point, radius int) (*Channel, error) {
	if p0 == p1 {
		return nil, fmt.Errorf("channel endpoints %v and %v coincide: %w", p0, p1, ErrInvalidGeometry)
	}

	delta := [2]int{p1.X - p0.X, p1.Y - p0.Y}

	// The major axis is the one with the greater rate of change. Lines
	// with no change along the minor axis get the cheaper axial scanner.
	var scanner channelScanner
	if absInt(delta[0]) > absInt(delta[1]) {
		if delta[1] == 0 {
			scanner = &axialScanner{major: 0, step: signum(delta[0]), radius: radius}
		} else {
			scanner = newBresenhamScanner(0, delta, radius)
		}
	} else {
		if delta[0] == 0 {
			scanner = &axialScanner{major: 1, step: signum(delta[1]), radius: radius}
		} else {
			scanner = newBresenhamScanner(1, delta, radius)
		}
	}

	return &Channel{
		scanner: scanner,
		current: [2]int{p0.X, p0.Y},
		last:    [2]int{p1.X, p1.Y},
	}, nil
}

// Next advances to the next canonical point. The first call positions the
// channel on p0; the walk ends after p1 has been yielded.
func (c *Channel) Next() bool {
	if c.done {
		return false
	}
	if !c.started {
		c.started = true
		return true
	}
	if c.current == c.last {
		c.done = true
		return false
	}
	c.current = c.scanner.advance(c.current)
	return true
}

// Canonical returns the current canonical point.
func (c *Channel) Canonical() geometry.Point {
	return geometry.Point{X: c.current[0], Y: c.current[1]}
}

// CrossSection returns the pixels of the perpendicular cross-section at
// the current canonical point, sorted and without duplicates.
func (c *Channel) CrossSection() []geometry.Point {
	cs := newCrossSection()
	c.scanner.fill(c.current, cs)
	return cs.points()
}

// channelScanner hides the stepping strategy for a channel. The scanner
// keeps per-instance error state, so advance is not idempotent; fill is
// read-only and may be called any number of times per step.
type channelScanner interface {
	fill(pt [2]int, cs *crossSection)
	advance(pt [2]int) [2]int
}

// crossSection collects the distinct pixels of one perpendicular.
type crossSection struct {
	seen map[[2]int]struct{}
}

func newCrossSection() *crossSection {
	return &crossSection{seen: make(map[[2]int]struct{})}
}

func (c *crossSection) insert(p [2]int) {
	c.seen[p] = struct{}{}
}

func (c *crossSection) empty() bool {
	return len(c.seen) == 0
}

func (c *crossSection) points() []geometry.Point {
	pts := make([]geometry.Point, 0, len(c.seen))
	for p := range c.seen {
		pts = append(pts, geometry.Point{X: p[0], Y: p[1]})
	}
	sort.Slice(pts, func(i, j int) bool {
		return pts[i].Less(pts[j])
	})
	return pts
}

// axialScanner steps along lines parallel to an axis. The cross-section
// is a run of 2*radius - 1 pixels along the minor axis centered on the
// canonical point.
type axialScanner struct {
	major  int // 0 for horizontal lines, 1 for vertical
	step   int
	radius int
}

func (a *axialScanner) fill(pt [2]int, cs *crossSection) {
	minor := 1 - a.major
	pt[minor] -= a.radius
	for m := 1; m < 2*a.radius; m++ {
		pt[minor]++
		cs.insert(pt)
	}
}

func (a *axialScanner) advance(pt [2]int) [2]int {
	pt[a.major] += a.step
	return pt
}

// bresenhamScanner walks lines of arbitrary slope using the
// Bresenham-Murphy thick line algorithm: the canonical Bresenham walk
// along the major axis, with perpendiculars drawn through each canonical
// point by reusing the same error update relations. The perpendiculars
// cover the thick line exactly, with no overlap between steps.
//
// See http://kt8216.unixcab.org/murphy/index.html
type bresenhamScanner struct {
	major    int // 0 if the major axis is x, 1 if y
	delta    [2]int
	step     [2]int
	perpStep [2]int

	width float64

	threshold int
	postMinor int
	postMajor int

	errTerm int
	phase   int
}

func newBresenhamScanner(major int, delta [2]int, radius int) *bresenhamScanner {
	abs := [2]int{absInt(delta[0]), absInt(delta[1])}
	step := [2]int{signum(delta[0]), signum(delta[1])}
	minor := 1 - major

	var perpStep [2]int
	if major == 0 {
		perpStep = [2]int{-step[0], step[1]}
	} else {
		perpStep = [2]int{step[0], -step[1]}
	}

	return &bresenhamScanner{
		major:     major,
		delta:     abs,
		step:      step,
		perpStep:  perpStep,
		width:     2 * float64(radius) * math.Hypot(float64(abs[0]), float64(abs[1])),
		threshold: abs[major] - 2*abs[minor],
		postMinor: -2 * abs[major],
		postMajor: 2 * abs[minor],
	}
}

// perpendiculars draws the cross-section through pt in both directions,
// accumulating the thickness function tk until it crosses the width of
// the channel.
func (b *bresenhamScanner) perpendiculars(pt [2]int, cs *crossSection, initialPhase, initialError int) {
	minor := 1 - b.major
	d := b.delta[0] + b.delta[1]

	p := pt
	phase := initialPhase
	for tk := d - initialError; float64(tk) < b.width; tk -= b.postMinor {
		cs.insert(p)
		if phase >= b.threshold {
			p[b.major] += b.perpStep[b.major]
			phase += b.postMinor
			tk += b.postMajor
		}
		p[minor] += b.perpStep[minor]
		phase += b.postMajor
	}

	p = pt
	phase = -initialPhase
	for tk := d + initialError; float64(tk) <= b.width; tk -= b.postMinor {
		cs.insert(p)
		if phase > b.threshold {
			p[b.major] -= b.perpStep[b.major]
			phase += b.postMinor
			tk += b.postMajor
		}
		p[minor] -= b.perpStep[minor]
		phase += b.postMajor
	}
}

func (b *bresenhamScanner) fill(pt [2]int, cs *crossSection) {
	minor := 1 - b.major

	b.perpendiculars(pt, cs, b.phase, b.errTerm)

	// When both error terms have crossed the threshold the next canonical
	// point moves diagonally, and a single perpendicular would leave a
	// notch in the coverage. Draw a compensating perpendicular shifted by
	// one minor-axis step.
	if b.errTerm >= b.threshold && b.phase >= b.threshold {
		pt[minor] += b.step[minor]
		b.perpendiculars(pt, cs, b.phase+b.postMinor+b.postMajor, b.errTerm+b.postMinor)
	}

	if cs.empty() {
		cs.insert(pt)
	}
}

func (b *bresenhamScanner) advance(pt [2]int) [2]int {
	minor := 1 - b.major

	if b.errTerm >= b.threshold {
		pt[minor] += b.step[minor]
		b.errTerm += b.postMinor

		if b.phase >= b.threshold {
			b.phase += b.postMinor
		}
		b.phase += b.postMajor
	}

	pt[b.major] += b.step[b.major]
	b.errTerm += b.postMajor
	return pt
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func signum(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
