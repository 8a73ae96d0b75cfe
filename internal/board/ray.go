// path: internal/board/ray.go
package board

import "github.com/jcraver1021/flex-chess/internal/grid"

// Steps supplies successive step vectors for a ray walk.
type Steps interface {
	Next() (grid.Point, bool)
}

// Repeat yields step without end.
func Repeat(step grid.Point) Steps { return &repeatSteps{step: step.Clone()} }

type repeatSteps struct{ step grid.Point }

func (s *repeatSteps) Next() (grid.Point, bool) { return s.step, true }

// Once yields step a single time.
func Once(step grid.Point) Steps { return FromSlice(step) }

// FromSlice yields the given steps in order, then stops.
func FromSlice(steps ...grid.Point) Steps {
	out := make([]grid.Point, len(steps))
	for i, s := range steps {
		out[i] = s.Clone()
	}
	return &sliceSteps{steps: out}
}

type sliceSteps struct {
	steps []grid.Point
	i     int
}

func (s *sliceSteps) Next() (grid.Point, bool) {
	if s.i >= len(s.steps) {
		return nil, false
	}
	st := s.steps[s.i]
	s.i++
	return st, true
}

// Cycle yields the given steps in order, repeating without end. An empty
// cycle is exhausted immediately.
func Cycle(steps ...grid.Point) Steps {
	out := make([]grid.Point, len(steps))
	for i, s := range steps {
		out[i] = s.Clone()
	}
	return &cycleSteps{steps: out}
}

type cycleSteps struct {
	steps []grid.Point
	i     int
}

func (s *cycleSteps) Next() (grid.Point, bool) {
	if len(s.steps) == 0 {
		return nil, false
	}
	st := s.steps[s.i%len(s.steps)]
	s.i++
	return st, true
}

// Ray walks cells outward from an origin by successive step vectors.
// Empty cells are yielded and the walk continues. A cell occupied by an
// opposing piece is yielded once when capturing is enabled, then the walk
// stops. A same-owner occupant, the board edge, or step exhaustion stops
// the walk without yielding. Each NewRay call is an independent walk, so
// rays are restartable by construction.
type Ray struct {
	board   *Board
	origin  *Piece
	pos     grid.Point
	steps   Steps
	capture bool
	done    bool
	err     error
}

// NewRay starts a walk on b from origin. The piece standing at origin, if
// any, decides which occupants count as opposing; with no origin piece,
// occupied cells never yield. An invalid origin ends the walk immediately
// with the error reported by Err.
func NewRay(b *Board, origin grid.Point, steps Steps, capture bool) *Ray {
	r := &Ray{board: b, pos: origin.Clone(), steps: steps, capture: capture}
	pc, err := b.At(origin)
	if err != nil {
		r.done, r.err = true, err
		return r
	}
	r.origin = pc
	return r
}

// Next returns the next reachable cell. Rays on finite boards are finite
// even when the step source is unbounded.
func (r *Ray) Next() (grid.Point, bool) {
	if r.done {
		return nil, false
	}
	step, ok := r.steps.Next()
	if !ok {
		r.done = true
		return nil, false
	}
	next, err := r.pos.Add(step)
	if err != nil {
		r.done, r.err = true, err
		return nil, false
	}
	r.pos = next
	if !r.board.Contains(r.pos) {
		r.done = true
		return nil, false
	}
	occ, err := r.board.At(r.pos)
	if err != nil {
		r.done, r.err = true, err
		return nil, false
	}
	if occ == nil {
		return r.pos.Clone(), true
	}
	if r.capture && r.origin != nil && occ.Owner() != r.origin.Owner() {
		r.done = true
		return r.pos.Clone(), true
	}
	r.done = true
	return nil, false
}

// Err reports the error that ended the walk early, if any.
func (r *Ray) Err() error { return r.err }

// Collect drains the ray and returns every yielded cell.
func (r *Ray) Collect() ([]grid.Point, error) {
	var out []grid.Point
	for p, ok := r.Next(); ok; p, ok = r.Next() {
		out = append(out, p)
	}
	return out, r.Err()
}
