// Package hough implements a probabilistic progressive Hough transform
// line segment detector. Foreground pixels are drawn in random order and
// voted into a (theta, rho) accumulator; when a counter becomes
// improbably full for random noise, the corresponding line is swept for
// a contiguous segment, whose pixels are then retired from the image.
package hough

import (
	"fmt"
	"log"
	"math/rand"

	"segment-tracer/pkg/geometry"
)

// Options carries the tunable parameters of the detector. Reasonable
// defaults are supplied by DefaultOptions.
type Options struct {
	// MaxTheta is the angular resolution: parts per semiturn. Must be
	// even. Larger values resolve finer angles at the cost of a larger
	// accumulator.
	MaxTheta int

	// MinTriggerPoints is the minimum counter value required before the
	// null-hypothesis test runs. The Poisson approximation breaks down
	// for very small counts, so the test is skipped below this.
	MinTriggerPoints int

	// Threshold is the probability below which the null hypothesis is
	// rejected and a channel scan triggered. Lowering it trades missed
	// short segments for fewer false positives.
	Threshold float64

	// ChannelWidth is the width of the scan channel. Must be odd.
	ChannelWidth int

	// MaxGap is the number of consecutive empty canonical points allowed
	// within one segment. Earlier scans erase pixels, so a later segment
	// crossing one already found is missing about ChannelWidth pixels;
	// gaps up to MaxGap are bridged. Should be no less than the channel
	// radius.
	MaxGap int

	// MinLength is the minimum length, in pixels, of a significant
	// segment.
	MinLength int

	// GapLimit is the largest endpoint distance, in pixels, at which the
	// postprocessor considers fusing two segments.
	GapLimit int

	// AngleTolerance is the postprocessor's angular slack for fusing, in
	// parts of MaxTheta.
	AngleTolerance int

	// Log receives progress messages when non-nil.
	Log *log.Logger
}

// DefaultOptions returns the default detector parameters.
func DefaultOptions() Options {
	return Options{
		MaxTheta:         3600,
		MinTriggerPoints: 3,
		Threshold:        1e-12,
		ChannelWidth:     3,
		MaxGap:           3,
		MinLength:        10,
		GapLimit:         3,
		AngleTolerance:   80,
	}
}

// WithMaxTheta returns a copy of the options with the angular resolution replaced.
func (o Options) WithMaxTheta(maxTheta int) Options {
	o.MaxTheta = maxTheta
	return o
}

// WithThreshold returns a copy of the options with the trigger threshold replaced.
func (o Options) WithThreshold(threshold float64) Options {
	o.Threshold = threshold
	return o
}

// WithChannel returns a copy of the options with the channel geometry replaced.
func (o Options) WithChannel(width, maxGap int) Options {
	o.ChannelWidth = width
	o.MaxGap = maxGap
	return o
}

// WithMinLength returns a copy of the options with the segment length floor replaced.
func (o Options) WithMinLength(minLength int) Options {
	o.MinLength = minLength
	return o
}

// WithFusion returns a copy of the options with the postprocess fusion
// parameters replaced. A gapLimit of zero disables fusion.
func (o Options) WithFusion(gapLimit, angleTolerance int) Options {
	o.GapLimit = gapLimit
	o.AngleTolerance = angleTolerance
	return o
}

// WithLogger returns a copy of the options that logs progress to l.
func (o Options) WithLogger(l *log.Logger) Options {
	o.Log = l
	return o
}

func (o Options) validate() error {
	if o.MaxTheta <= 0 || o.MaxTheta%2 != 0 {
		return fmt.Errorf("max theta %d is not a positive even number", o.MaxTheta)
	}
	if o.ChannelWidth < 1 || o.ChannelWidth%2 == 0 {
		return fmt.Errorf("channel width %d is not a positive odd number", o.ChannelWidth)
	}
	if o.MaxGap < o.channelRadius() {
		return fmt.Errorf("max gap %d is below the channel radius %d", o.MaxGap, o.channelRadius())
	}
	if o.MinLength < 1 {
		return fmt.Errorf("min length %d is not positive", o.MinLength)
	}
	if o.Threshold <= 0 || o.Threshold >= 1 {
		return fmt.Errorf("threshold %g is not in (0, 1)", o.Threshold)
	}
	return nil
}

// channelRadius derives the scan radius from the channel width. Width 1
// degenerates to a zero radius, which would make every cross-section
// empty; floor it at one pixel.
func (o Options) channelRadius() int {
	r := o.ChannelWidth >> 1
	if r < 1 {
		r = 1
	}
	return r
}

// FindSegments runs the detection loop over a fully populated state: all
// foreground pixels already marked pending. The seed drives the random
// draw of pending pixels; the same state and seed reproduce the same
// output.
//
// The returned segments are undirected pairs of in-image points. An error
// means an internal invariant broke and the run was aborted; there are no
// partial results.
func FindSegments(state *State, opts Options, seed uint32) ([]geometry.Segment, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	acc, err := NewAccumulator(state.Rows(), state.Cols(), opts)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(int64(seed)))

	radius := opts.channelRadius()
	minLengthSquared := opts.MinLength * opts.MinLength

	var segments []geometry.Segment

	for {
		p, ok := state.Next(rng)
		if !ok {
			break
		}

		line, ok := acc.Vote(p)
		if !ok {
			continue
		}

		clipped, err := acc.LineIntersect(line)
		if err != nil {
			return nil, err
		}

		if opts.Log != nil {
			opts.Log.Printf("vote on %v triggered scan of line %v, clipped to %v", p, line, clipped)
		}

		found, err := Scan(state, clipped, radius, opts.MaxGap)
		if err != nil {
			return nil, err
		}

		if found.LengthSquared() < minLengthSquared {
			// Votes stay in effect; p remains voted rather than
			// committed.
			continue
		}

		if err := commit(state, acc, found); err != nil {
			return nil, err
		}

		seg := found.Endpoints()
		segments = append(segments, seg)

		if opts.Log != nil {
			opts.Log.Printf("committed segment %v with %d supporting pixels", seg, len(found.points))
		}
	}

	if opts.GapLimit > 0 {
		segments = Postprocess(segments, opts.GapLimit, opts.AngleTolerance, opts.MaxTheta)
	}

	return segments, nil
}

// commit retires the supporting pixels of a kept run: voted pixels have
// their votes withdrawn, pending pixels need no accumulator action, and
// every pixel is marked done. Any other status is an invariant breach.
func commit(state *State, acc *Accumulator, found *PointSet) error {
	for _, p := range found.Points() {
		switch st := state.at(p); st {
		case StatusVoted:
			if err := acc.Unvote(p); err != nil {
				return err
			}
		case StatusPending:
			// No votes to withdraw.
		default:
			return fmt.Errorf("commit of pixel %v with status %s: %w", p, st, ErrAccounting)
		}

		state.MarkDone(p)
	}
	return nil
}
