package grid

import "fmt"

// Tensor is an n-dimensional rectangular array over a flat backing slice.
// Cells are addressed in row-major order: the last axis varies fastest.
type Tensor[T any] struct {
	shape   Point
	strides []int
	cells   []T
}

// NewTensor allocates a tensor of zero values. The shape must have at
// least one dimension and every extent must be positive.
func NewTensor[T any](shape Point) (*Tensor[T], error) {
	n, err := cellCount(shape)
	if err != nil {
		return nil, err
	}
	return &Tensor[T]{
		shape:   shape.Clone(),
		strides: rowMajorStrides(shape),
		cells:   make([]T, n),
	}, nil
}

// NewTensorFrom fills a new tensor from vals in row-major order. The
// length of vals must equal the cell count exactly.
func NewTensorFrom[T any](shape Point, vals []T) (*Tensor[T], error) {
	t, err := NewTensor[T](shape)
	if err != nil {
		return nil, err
	}
	if len(vals) != len(t.cells) {
		return nil, fmt.Errorf("shape %v holds %d cells, got %d values: %w",
			shape, len(t.cells), len(vals), ErrInvalidShape)
	}
	copy(t.cells, vals)
	return t, nil
}

func cellCount(shape Point) (int, error) {
	if len(shape) == 0 {
		return 0, fmt.Errorf("shape has no dimensions: %w", ErrInvalidShape)
	}
	n := 1
	for _, c := range shape {
		if c <= 0 {
			return 0, fmt.Errorf("shape %v: %w", shape, ErrInvalidShape)
		}
		n *= c
	}
	return n, nil
}

func rowMajorStrides(shape Point) []int {
	s := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = acc
		acc *= shape[i]
	}
	return s
}

// Shape returns a copy of the tensor's extents.
func (t *Tensor[T]) Shape() Point { return t.shape.Clone() }

// Dim reports the number of axes.
func (t *Tensor[T]) Dim() int { return len(t.shape) }

// Len reports the total cell count.
func (t *Tensor[T]) Len() int { return len(t.cells) }

// Contains reports whether p addresses a cell. A point of the wrong
// dimension is simply not contained.
func (t *Tensor[T]) Contains(p Point) bool {
	if len(p) != len(t.shape) {
		return false
	}
	for i, c := range p {
		if c < 0 || c >= t.shape[i] {
			return false
		}
	}
	return true
}

func (t *Tensor[T]) index(p Point) (int, error) {
	if len(p) != len(t.shape) {
		return 0, fmt.Errorf("point %v on shape %v: %w", p, t.shape, ErrDimensionMismatch)
	}
	idx := 0
	for i, c := range p {
		if c < 0 || c >= t.shape[i] {
			return 0, fmt.Errorf("point %v on shape %v: %w", p, t.shape, ErrOutOfBounds)
		}
		idx += c * t.strides[i]
	}
	return idx, nil
}

// At returns the value stored at p.
func (t *Tensor[T]) At(p Point) (T, error) {
	i, err := t.index(p)
	if err != nil {
		var zero T
		return zero, err
	}
	return t.cells[i], nil
}

// Set stores v at p, overwriting any prior value without inspecting it.
func (t *Tensor[T]) Set(p Point, v T) error {
	i, err := t.index(p)
	if err != nil {
		return err
	}
	t.cells[i] = v
	return nil
}

// Points returns an iterator over the tensor's coordinates in row-major
// order.
func (t *Tensor[T]) Points() *PointIter {
	return PointsOf(t.shape)
}

// PointsOf returns an iterator over every coordinate of the given shape in
// row-major order.
func PointsOf(shape Point) *PointIter {
	return &PointIter{shape: shape.Clone()}
}

// PointIter is a pull iterator over the coordinates of a shape. Each call
// to Next returns an independent Point.
type PointIter struct {
	shape Point
	cur   Point
	done  bool
}

// Next returns the next coordinate, or false once the walk is exhausted.
func (it *PointIter) Next() (Point, bool) {
	if it.done {
		return nil, false
	}
	if it.cur == nil {
		if len(it.shape) == 0 {
			it.done = true
			return nil, false
		}
		it.cur = Zero(len(it.shape))
		return it.cur.Clone(), true
	}
	for i := len(it.cur) - 1; i >= 0; i-- {
		it.cur[i]++
		if it.cur[i] < it.shape[i] {
			return it.cur.Clone(), true
		}
		it.cur[i] = 0
	}
	it.done = true
	return nil, false
}
