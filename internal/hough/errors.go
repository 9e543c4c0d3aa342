package hough

import "errors"

// Sentinel errors for invariant breaches during detection. Any of these
// aborts the run; the "no candidate this vote" and "subsegment too short"
// outcomes are ordinary control flow and never surface as errors.
var (
	// ErrInvalidGeometry indicates channel endpoints that coincide, or a
	// degenerate line that produced no usable endpoints.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrAccounting indicates a vote/unvote imbalance, such as an unvote
	// hitting a counter that is already zero.
	ErrAccounting = errors.New("vote accounting breach")

	// ErrEmptyChannel indicates a channel sweep that found no set pixels.
	// A candidate line always arises from a real vote, so this should not
	// occur in practice.
	ErrEmptyChannel = errors.New("channel contained no set pixels")

	// ErrNoIntersection indicates a candidate line that does not pass
	// through the image rectangle.
	ErrNoIntersection = errors.New("line does not intersect bitmap")

	// ErrOutOfBounds indicates a status query for a point outside the
	// raster.
	ErrOutOfBounds = errors.New("point outside raster")
)
