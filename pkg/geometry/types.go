// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"fmt"
	"math"
)

// Point represents a pixel location with integer coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewPoint creates a new Point.
func NewPoint(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Dot returns the dot product of the point with a (cos, sin) direction pair.
func (p Point) Dot(cos, sin float64) float64 {
	return float64(p.X)*cos + float64(p.Y)*sin
}

// LengthSquared returns the squared distance from the origin.
func (p Point) LengthSquared() int {
	return p.X*p.X + p.Y*p.Y
}

// Less orders points lexicographically on (X, Y).
func (p Point) Less(other Point) bool {
	if p.X != other.X {
		return p.X < other.X
	}
	return p.Y < other.Y
}

// ToFloat converts to Point2D.
func (p Point) ToFloat() Point2D {
	return Point2D{X: float64(p.X), Y: float64(p.Y)}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Segment represents an unordered pair of endpoints.
type Segment struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

// NewSegment creates a new Segment.
func NewSegment(a, b Point) Segment {
	return Segment{A: a, B: b}
}

// Equal reports whether two segments have the same endpoints, in either order.
func (s Segment) Equal(other Segment) bool {
	return (s.A == other.A && s.B == other.B) ||
		(s.A == other.B && s.B == other.A)
}

// LengthSquared returns the squared Euclidean length of the segment.
func (s Segment) LengthSquared() int {
	return s.B.Sub(s.A).LengthSquared()
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 {
	d := s.B.Sub(s.A)
	return math.Hypot(float64(d.X), float64(d.Y))
}

func (s Segment) String() string {
	return fmt.Sprintf("%v--%v", s.A, s.B)
}

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Add returns the sum of two points.
func (p Point2D) Add(other Point2D) Point2D {
	return Point2D{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return Point2D{X: p.X - other.X, Y: p.Y - other.Y}
}

// Dot returns the dot product of two points treated as vectors.
func (p Point2D) Dot(other Point2D) float64 {
	return p.X*other.X + p.Y*other.Y
}

// Norm returns the Euclidean length of the point treated as a vector.
func (p Point2D) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

// Midpoint2D returns the midpoint of two integer points in floating-point
// coordinates.
func Midpoint2D(a, b Point) Point2D {
	return Point2D{
		X: (float64(a.X) + float64(b.X)) / 2,
		Y: (float64(a.Y) + float64(b.Y)) / 2,
	}
}
