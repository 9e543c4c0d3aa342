package hough

import (
	"math/rand"

	"segment-tracer/pkg/geometry"
)

// Status tracks where a pixel is in its detection lifecycle.
type Status uint8

const (
	// StatusUnset marks a background pixel.
	StatusUnset Status = iota
	// StatusPending marks a foreground pixel not yet voted.
	StatusPending
	// StatusVoted marks a foreground pixel whose votes are in the accumulator.
	StatusVoted
	// StatusDone marks a pixel incorporated into a committed segment.
	StatusDone
)

func (s Status) String() string {
	switch s {
	case StatusUnset:
		return "unset"
	case StatusPending:
		return "pending"
	case StatusVoted:
		return "voted"
	case StatusDone:
		return "done"
	default:
		return "unknown"
	}
}

// State holds the per-pixel status raster for one detection run, plus the
// queue of pending pixels awaiting a random draw.
//
// The queue may contain stale entries whose status has already moved past
// pending; Next evicts them lazily at draw time. Evicting eagerly on every
// commit would cost a full queue walk per segment.
type State struct {
	rows, cols int
	cells      []Status
	pending    []geometry.Point
}

// NewState creates a state raster of the given size with every pixel unset.
func NewState(rows, cols int) *State {
	return &State{
		rows:  rows,
		cols:  cols,
		cells: make([]Status, rows*cols),
	}
}

// Rows returns the height of the raster.
func (s *State) Rows() int {
	return s.rows
}

// Cols returns the width of the raster.
func (s *State) Cols() int {
	return s.cols
}

// InBounds reports whether the point lies within the raster.
func (s *State) InBounds(p geometry.Point) bool {
	return p.X >= 0 && p.X < s.cols && p.Y >= 0 && p.Y < s.rows
}

// at reads a cell without bounds checking. Callers must guarantee the
// point is in bounds.
func (s *State) at(p geometry.Point) Status {
	return s.cells[p.Y*s.cols+p.X]
}

func (s *State) set(p geometry.Point, status Status) {
	s.cells[p.Y*s.cols+p.X] = status
}

// Status returns the status of a pixel. Querying a point outside the
// raster returns ErrOutOfBounds.
func (s *State) Status(p geometry.Point) (Status, error) {
	if !s.InBounds(p) {
		return StatusUnset, ErrOutOfBounds
	}
	return s.at(p), nil
}

// MarkPending sets the pixel to pending and queues it for sampling.
// The pixel must be in bounds and currently unset.
func (s *State) MarkPending(p geometry.Point) {
	s.set(p, StatusPending)
	s.pending = append(s.pending, p)
}

// MarkDone sets the pixel to done. The transition is one-way: a done
// pixel never becomes pending again. Marking an already-done pixel is a
// no-op.
func (s *State) MarkDone(p geometry.Point) {
	s.set(p, StatusDone)
}

// Next draws a pixel uniformly at random from the currently-pending set,
// transitions it to voted, and returns it. Stale queue entries encountered
// during the draw are discarded, so they do not bias the sample. Returns
// false when no pending pixels remain.
//
// Removal swaps the drawn entry with the last queue element, keeping the
// call amortized O(1).
func (s *State) Next(rng *rand.Rand) (geometry.Point, bool) {
	for len(s.pending) > 0 {
		i := rng.Intn(len(s.pending))
		p := s.pending[i]

		last := len(s.pending) - 1
		s.pending[i] = s.pending[last]
		s.pending = s.pending[:last]

		if s.at(p) != StatusPending {
			continue // stale entry
		}

		s.set(p, StatusVoted)
		return p, true
	}

	return geometry.Point{}, false
}
