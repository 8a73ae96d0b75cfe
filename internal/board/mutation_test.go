// path: internal/board/mutation_test.go
package board

import (
	"errors"
	"testing"

	"github.com/jcraver1021/flex-chess/internal/grid"
)

var mutationShapes = []grid.Point{
	grid.New(5),
	grid.New(6, 7),
	grid.New(3, 5, 7),
}

func mustBoard(t *testing.T, shape grid.Point) *Board {
	t.Helper()
	b, err := New(shape)
	if err != nil {
		t.Fatalf("New(%v): %v", shape, err)
	}
	return b
}

// corner returns the maximal valid coordinate of shape.
func corner(shape grid.Point) grid.Point {
	p := shape.Clone()
	for i := range p {
		p[i]--
	}
	return p
}

func wantAt(t *testing.T, b *Board, p grid.Point, pc *Piece) {
	t.Helper()
	got, err := b.At(p)
	if err != nil {
		t.Fatalf("At(%v): %v", p, err)
	}
	if got != pc {
		t.Fatalf("cell %v holds %v, want %v", p, got, pc)
	}
}

func wantFind(t *testing.T, pc *Piece, b *Board, at grid.Point) {
	t.Helper()
	gotBoard, gotAt := pc.Find()
	if gotBoard != b {
		t.Fatalf("piece %s found on board %p, want %p", pc, gotBoard, b)
	}
	if at == nil {
		if gotAt != nil {
			t.Fatalf("piece %s found at %v, want off-board", pc, gotAt)
		}
		return
	}
	if !gotAt.Equal(at) {
		t.Fatalf("piece %s found at %v, want %v", pc, gotAt, at)
	}
}

func TestMutatePlaceAndInvert(t *testing.T) {
	for _, shape := range mutationShapes {
		shape := shape
		t.Run(shape.String(), func(t *testing.T) {
			b := mustBoard(t, shape)
			min := grid.Zero(shape.Dim())
			p1 := NewPiece("red", "R")

			inv, displaced, err := b.Mutate(Mutation{Piece: p1, Target: min})
			if err != nil {
				t.Fatalf("Mutate: %v", err)
			}
			if displaced != nil {
				t.Fatalf("placing on an empty cell displaced %v", displaced)
			}
			wantAt(t, b, min, p1)
			wantFind(t, p1, b, min)

			if _, _, err := b.Mutate(inv); err != nil {
				t.Fatalf("invert: %v", err)
			}
			wantAt(t, b, min, nil)
			wantFind(t, p1, b, nil)
		})
	}
}

func TestMutateRemoveAndInvert(t *testing.T) {
	for _, shape := range mutationShapes {
		shape := shape
		t.Run(shape.String(), func(t *testing.T) {
			b := mustBoard(t, shape)
			min := grid.Zero(shape.Dim())
			p1 := NewPiece("red", "R")
			if _, err := b.Set(min, p1); err != nil {
				t.Fatalf("Set: %v", err)
			}

			inv, displaced, err := b.Mutate(Mutation{Target: min})
			if err != nil {
				t.Fatalf("Mutate: %v", err)
			}
			if displaced != p1 {
				t.Fatalf("removal displaced %v, want %v", displaced, p1)
			}
			wantAt(t, b, min, nil)
			wantFind(t, p1, b, nil)

			if _, _, err := b.Mutate(inv); err != nil {
				t.Fatalf("invert: %v", err)
			}
			wantAt(t, b, min, p1)
			wantFind(t, p1, b, min)
		})
	}
}

func TestMutateDetachAndInvert(t *testing.T) {
	b := mustBoard(t, grid.New(4, 4))
	at := grid.New(1, 3)
	p1 := NewPiece("red", "R")
	if _, err := b.Set(at, p1); err != nil {
		t.Fatalf("Set: %v", err)
	}

	inv, displaced, err := b.Mutate(Mutation{Source: at})
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if displaced != nil {
		t.Fatalf("detach reported displacement %v", displaced)
	}
	wantAt(t, b, at, nil)
	wantFind(t, p1, b, nil)

	if inv.Piece != p1 {
		t.Fatalf("inverse carries %v, want %v", inv.Piece, p1)
	}
	if _, _, err := b.Mutate(inv); err != nil {
		t.Fatalf("invert: %v", err)
	}
	wantAt(t, b, at, p1)
	wantFind(t, p1, b, at)
}

func TestMutateMoveAndInvert(t *testing.T) {
	for _, shape := range mutationShapes {
		shape := shape
		t.Run(shape.String(), func(t *testing.T) {
			b := mustBoard(t, shape)
			min, max := grid.Zero(shape.Dim()), corner(shape)
			p1 := NewPiece("red", "R")
			if _, err := b.Set(min, p1); err != nil {
				t.Fatalf("Set: %v", err)
			}

			inv, displaced, err := b.Mutate(Mutation{Source: min, Target: max})
			if err != nil {
				t.Fatalf("Mutate: %v", err)
			}
			if displaced != nil {
				t.Fatalf("moving to an empty cell displaced %v", displaced)
			}
			wantAt(t, b, min, nil)
			wantAt(t, b, max, p1)
			wantFind(t, p1, b, max)

			if _, _, err := b.Mutate(inv); err != nil {
				t.Fatalf("invert: %v", err)
			}
			wantAt(t, b, min, p1)
			wantAt(t, b, max, nil)
			wantFind(t, p1, b, min)
		})
	}
}

func TestMutateMoveCaptureAndInvert(t *testing.T) {
	for _, shape := range mutationShapes {
		shape := shape
		t.Run(shape.String(), func(t *testing.T) {
			b := mustBoard(t, shape)
			min, max := grid.Zero(shape.Dim()), corner(shape)
			p1 := NewPiece("red", "R")
			p2 := NewPiece("blue", "B")
			if _, err := b.Set(min, p1); err != nil {
				t.Fatalf("Set p1: %v", err)
			}
			if _, err := b.Set(max, p2); err != nil {
				t.Fatalf("Set p2: %v", err)
			}

			inv, displaced, err := b.Mutate(Mutation{Source: min, Target: max})
			if err != nil {
				t.Fatalf("Mutate: %v", err)
			}
			if displaced != p2 {
				t.Fatalf("displaced %v, want %v", displaced, p2)
			}
			wantAt(t, b, min, nil)
			wantAt(t, b, max, p1)
			wantFind(t, p1, b, max)
			wantFind(t, p2, b, nil)

			// A single inverse restores both cells.
			if inv.Piece != p2 {
				t.Fatalf("inverse carries %v, want %v", inv.Piece, p2)
			}
			if _, _, err := b.Mutate(inv); err != nil {
				t.Fatalf("invert: %v", err)
			}
			wantAt(t, b, min, p1)
			wantAt(t, b, max, p2)
			wantFind(t, p1, b, min)
			wantFind(t, p2, b, max)
		})
	}
}

func TestMutateCaptureBySubstitution(t *testing.T) {
	b := mustBoard(t, grid.New(4, 4))
	at := grid.New(2, 2)
	p1 := NewPiece("red", "R")
	p2 := NewPiece("blue", "B")
	if _, err := b.Set(at, p1); err != nil {
		t.Fatalf("Set: %v", err)
	}

	inv, displaced, err := b.Mutate(Mutation{Piece: p2, Target: at})
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if displaced != p1 {
		t.Fatalf("displaced %v, want %v", displaced, p1)
	}
	wantAt(t, b, at, p2)
	wantFind(t, p1, b, nil)

	if _, _, err := b.Mutate(inv); err != nil {
		t.Fatalf("invert: %v", err)
	}
	wantAt(t, b, at, p1)
	wantFind(t, p1, b, at)
	wantFind(t, p2, b, nil)
}

func TestMutateReplaceOnOwnCell(t *testing.T) {
	b := mustBoard(t, grid.New(3, 3))
	at := grid.New(1, 1)
	p1 := NewPiece("red", "R")
	if _, err := b.Set(at, p1); err != nil {
		t.Fatalf("Set: %v", err)
	}

	inv, displaced, err := b.Mutate(Mutation{Piece: p1, Target: at})
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if displaced != nil {
		t.Fatalf("re-placing a piece on its own cell reported displacement %v", displaced)
	}
	if !inv.IsZero() {
		t.Fatalf("re-placing a piece on its own cell produced inverse %+v", inv)
	}
	wantAt(t, b, at, p1)
	wantFind(t, p1, b, at)
}

func TestMutateRejectsSelfMove(t *testing.T) {
	b := mustBoard(t, grid.New(3, 3))
	at := grid.New(1, 1)
	if _, _, err := b.Mutate(Mutation{Source: at, Target: at}); !errors.Is(err, ErrInvalidMutation) {
		t.Fatalf("expected invalid mutation, got %v", err)
	}
}

func TestMutateZeroIsNoOp(t *testing.T) {
	b := mustBoard(t, grid.New(3, 3))
	p1 := NewPiece("red", "R")
	if _, err := b.Set(grid.New(0, 0), p1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	inv, displaced, err := b.Mutate(Mutation{})
	if err != nil || displaced != nil || !inv.IsZero() {
		t.Fatalf("zero mutation: inv=%+v displaced=%v err=%v", inv, displaced, err)
	}
	wantAt(t, b, grid.New(0, 0), p1)
}

func TestMutateTargetBoundsFailureHasNoEffect(t *testing.T) {
	b := mustBoard(t, grid.New(3, 3))
	at := grid.New(1, 1)
	p1 := NewPiece("red", "R")
	if _, err := b.Set(at, p1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_, _, err := b.Mutate(Mutation{Source: at, Target: grid.New(9, 9)})
	if !errors.Is(err, grid.ErrOutOfBounds) {
		t.Fatalf("expected out of bounds, got %v", err)
	}
	wantAt(t, b, at, p1)
	wantFind(t, p1, b, at)
}

// The target occupant is detached before the source cell is validated, so
// a source bounds failure leaves that first effect applied.
func TestMutateSourceBoundsFailureAfterTargetDetach(t *testing.T) {
	b := mustBoard(t, grid.New(3, 3))
	at := grid.New(1, 1)
	p1 := NewPiece("red", "R")
	if _, err := b.Set(at, p1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_, _, err := b.Mutate(Mutation{Source: grid.New(9, 9), Target: at})
	if !errors.Is(err, grid.ErrOutOfBounds) {
		t.Fatalf("expected out of bounds, got %v", err)
	}
	wantAt(t, b, at, nil)
	wantFind(t, p1, b, nil)
}

func TestApplySequenceReturnsReversedInverses(t *testing.T) {
	b := mustBoard(t, grid.New(4, 4))
	a, mid, end := grid.New(0, 0), grid.New(1, 1), grid.New(2, 2)
	p1 := NewPiece("red", "R")
	p2 := NewPiece("blue", "B")
	if _, err := b.Set(a, p1); err != nil {
		t.Fatalf("Set p1: %v", err)
	}
	if _, err := b.Set(end, p2); err != nil {
		t.Fatalf("Set p2: %v", err)
	}

	seq := Sequence{
		{Source: a, Target: mid},
		{Source: mid, Target: end},
	}
	inv, err := b.ApplySequence(seq)
	if err != nil {
		t.Fatalf("ApplySequence: %v", err)
	}
	wantAt(t, b, end, p1)
	wantFind(t, p2, b, nil)

	if _, err := b.ApplySequence(inv); err != nil {
		t.Fatalf("apply inverse: %v", err)
	}
	wantAt(t, b, a, p1)
	wantAt(t, b, mid, nil)
	wantAt(t, b, end, p2)
	wantFind(t, p1, b, a)
	wantFind(t, p2, b, end)
}

func TestApplySequenceAbortsAtFirstFailure(t *testing.T) {
	b := mustBoard(t, grid.New(3, 3))
	a, mid := grid.New(0, 0), grid.New(1, 1)
	p1 := NewPiece("red", "R")
	if _, err := b.Set(a, p1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	seq := Sequence{
		{Source: a, Target: mid},
		{Source: mid, Target: grid.New(7, 7)},
	}
	if _, err := b.ApplySequence(seq); !errors.Is(err, grid.ErrOutOfBounds) {
		t.Fatalf("expected out of bounds, got %v", err)
	}
	// The first step stays applied.
	wantAt(t, b, mid, p1)
	wantAt(t, b, a, nil)
}

func TestApplySequenceRunsStateChecks(t *testing.T) {
	b := mustBoard(t, grid.New(3, 3))
	forbidden := grid.New(2, 2)
	b.AddStateCheck(func(bd *Board) error {
		pc, err := bd.At(forbidden)
		if err != nil {
			return err
		}
		if pc != nil {
			return ErrIllegalState
		}
		return nil
	})
	p1 := NewPiece("red", "R")
	if _, err := b.Set(grid.New(0, 0), p1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_, err := b.ApplySequence(Sequence{{Source: grid.New(0, 0), Target: forbidden}})
	if !errors.Is(err, ErrIllegalState) {
		t.Fatalf("expected illegal state, got %v", err)
	}
}
