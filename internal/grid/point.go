// Package grid provides n-dimensional integer coordinates and the dense
// rectangular tensors they address.
package grid

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is an n-dimensional integer coordinate. Points are treated as
// immutable: every operation returns a fresh value and never modifies its
// receiver.
type Point []int

// New builds a point from its components.
func New(comps ...int) Point {
	p := make(Point, len(comps))
	copy(p, comps)
	return p
}

// Zero returns the origin of the given dimension.
func Zero(dim int) Point {
	return make(Point, dim)
}

// Dim reports the number of components.
func (p Point) Dim() int { return len(p) }

// Clone returns an independent copy of p. A nil point stays nil.
func (p Point) Clone() Point {
	if p == nil {
		return nil
	}
	q := make(Point, len(p))
	copy(q, p)
	return q
}

// Equal reports whether q has the same dimension and the same components.
// Points of different dimension are unequal, never an error.
func (p Point) Equal(q Point) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Add returns the componentwise sum of p and q.
func (p Point) Add(q Point) (Point, error) {
	if len(p) != len(q) {
		return nil, fmt.Errorf("add %v to %v: %w", q, p, ErrDimensionMismatch)
	}
	r := make(Point, len(p))
	for i := range p {
		r[i] = p[i] + q[i]
	}
	return r, nil
}

// Less reports whether every component of p is strictly below the matching
// component of q. Points are comparable only when their dimensions agree;
// the order is partial, so mixed componentwise outcomes report false.
func (p Point) Less(q Point) (bool, error) {
	if len(p) != len(q) {
		return false, fmt.Errorf("compare %v with %v: %w", p, q, ErrDimensionMismatch)
	}
	for i := range p {
		if p[i] >= q[i] {
			return false, nil
		}
	}
	return true, nil
}

// LessOrEqual reports whether every component of p is at most the matching
// component of q. Same comparability rules as Less.
func (p Point) LessOrEqual(q Point) (bool, error) {
	if len(p) != len(q) {
		return false, fmt.Errorf("compare %v with %v: %w", p, q, ErrDimensionMismatch)
	}
	for i := range p {
		if p[i] > q[i] {
			return false, nil
		}
	}
	return true, nil
}

func (p Point) String() string {
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = strconv.Itoa(c)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
