package rules

import "github.com/jcraver1021/flex-chess/internal/grid"

// Orthogonals returns the positive and negative unit vector of every axis,
// in axis order.
func Orthogonals(dim int) []grid.Point {
	out := make([]grid.Point, 0, 2*dim)
	for axis := 0; axis < dim; axis++ {
		for _, sign := range []int{1, -1} {
			d := grid.Zero(dim)
			d[axis] = sign
			out = append(out, d)
		}
	}
	return out
}

// Diagonals returns every vector whose components are all +1 or -1.
func Diagonals(dim int) []grid.Point {
	out := make([]grid.Point, 0, 1<<dim)
	for mask := 0; mask < 1<<dim; mask++ {
		d := make(grid.Point, dim)
		for axis := 0; axis < dim; axis++ {
			if mask&(1<<axis) != 0 {
				d[axis] = 1
			} else {
				d[axis] = -1
			}
		}
		out = append(out, d)
	}
	return out
}

// Omni returns every nonzero vector with components in {-1, 0, 1}: the
// queen and king neighborhood generalized to dim axes.
func Omni(dim int) []grid.Point {
	total := 1
	for i := 0; i < dim; i++ {
		total *= 3
	}
	out := make([]grid.Point, 0, total-1)
	for code := 0; code < total; code++ {
		d := make(grid.Point, dim)
		c := code
		zero := true
		for axis := dim - 1; axis >= 0; axis-- {
			d[axis] = c%3 - 1
			if d[axis] != 0 {
				zero = false
			}
			c /= 3
		}
		if !zero {
			out = append(out, d)
		}
	}
	return out
}

// KnightJumps returns every vector with one component of magnitude two,
// one of magnitude one, and zeros elsewhere. Empty below two dimensions.
func KnightJumps(dim int) []grid.Point {
	var out []grid.Point
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			if i == j {
				continue
			}
			for _, si := range []int{2, -2} {
				for _, sj := range []int{1, -1} {
					d := grid.Zero(dim)
					d[i], d[j] = si, sj
					out = append(out, d)
				}
			}
		}
	}
	return out
}
