// path: internal/board/ray_test.go
package board

import (
	"errors"
	"testing"

	"github.com/jcraver1021/flex-chess/internal/grid"
)

func wantCells(t *testing.T, got []grid.Point, want ...grid.Point) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("ray yielded %v, want %v", got, want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("ray yielded %v, want %v", got, want)
		}
	}
}

func TestRayUniformStepOnEmptyBoard(t *testing.T) {
	b := mustBoard(t, grid.New(5, 5))
	r := NewRay(b, grid.New(0, 0), Repeat(grid.New(1, 2)), false)
	got, err := r.Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	wantCells(t, got, grid.New(1, 2), grid.New(2, 4))
}

func TestRayCapturePolicy(t *testing.T) {
	newBoard := func(t *testing.T) *Board {
		b := mustBoard(t, grid.New(5, 5))
		if _, err := b.Set(grid.New(0, 0), NewPiece("red", "R")); err != nil {
			t.Fatalf("Set origin: %v", err)
		}
		if _, err := b.Set(grid.New(3, 3), NewPiece("blue", "B")); err != nil {
			t.Fatalf("Set enemy: %v", err)
		}
		return b
	}

	t.Run("capture enabled", func(t *testing.T) {
		b := newBoard(t)
		got, err := NewRay(b, grid.New(0, 0), Repeat(grid.New(1, 1)), true).Collect()
		if err != nil {
			t.Fatalf("Collect: %v", err)
		}
		wantCells(t, got, grid.New(1, 1), grid.New(2, 2), grid.New(3, 3))
	})

	t.Run("capture disabled", func(t *testing.T) {
		b := newBoard(t)
		got, err := NewRay(b, grid.New(0, 0), Repeat(grid.New(1, 1)), false).Collect()
		if err != nil {
			t.Fatalf("Collect: %v", err)
		}
		wantCells(t, got, grid.New(1, 1), grid.New(2, 2))
	})
}

func TestRayStopsAtSameOwner(t *testing.T) {
	b := mustBoard(t, grid.New(5, 5))
	if _, err := b.Set(grid.New(0, 0), NewPiece("red", "R")); err != nil {
		t.Fatalf("Set origin: %v", err)
	}
	if _, err := b.Set(grid.New(2, 2), NewPiece("red", "R")); err != nil {
		t.Fatalf("Set friend: %v", err)
	}
	got, err := NewRay(b, grid.New(0, 0), Repeat(grid.New(1, 1)), true).Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	wantCells(t, got, grid.New(1, 1))
}

func TestRayWithoutOriginPieceNeverYieldsOccupants(t *testing.T) {
	b := mustBoard(t, grid.New(5, 5))
	if _, err := b.Set(grid.New(2, 2), NewPiece("blue", "B")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := NewRay(b, grid.New(0, 0), Repeat(grid.New(1, 1)), true).Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	wantCells(t, got, grid.New(1, 1))
}

func TestRayFiniteStepSequence(t *testing.T) {
	b := mustBoard(t, grid.New(5, 5))
	steps := FromSlice(grid.New(1, 0), grid.New(0, 1), grid.New(1, 0))
	got, err := NewRay(b, grid.New(0, 0), steps, false).Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	wantCells(t, got, grid.New(1, 0), grid.New(1, 1), grid.New(2, 1))
}

func TestRayCycleStaircase(t *testing.T) {
	b := mustBoard(t, grid.New(4, 4))
	steps := Cycle(grid.New(1, 0), grid.New(0, 1))
	got, err := NewRay(b, grid.New(0, 0), steps, false).Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	wantCells(t, got,
		grid.New(1, 0), grid.New(1, 1),
		grid.New(2, 1), grid.New(2, 2),
		grid.New(3, 2), grid.New(3, 3))
}

func TestRayIsRestartable(t *testing.T) {
	b := mustBoard(t, grid.New(5, 5))
	first, err := NewRay(b, grid.New(0, 0), Repeat(grid.New(1, 2)), false).Collect()
	if err != nil {
		t.Fatalf("first Collect: %v", err)
	}
	second, err := NewRay(b, grid.New(0, 0), Repeat(grid.New(1, 2)), false).Collect()
	if err != nil {
		t.Fatalf("second Collect: %v", err)
	}
	wantCells(t, second, first...)
}

func TestRayMalformedStep(t *testing.T) {
	b := mustBoard(t, grid.New(5, 5))
	r := NewRay(b, grid.New(0, 0), Repeat(grid.New(1)), false)
	if p, ok := r.Next(); ok {
		t.Fatalf("ray yielded %v past a malformed step", p)
	}
	if !errors.Is(r.Err(), grid.ErrDimensionMismatch) {
		t.Fatalf("Err() = %v, want dimension mismatch", r.Err())
	}
}

func TestRayInvalidOrigin(t *testing.T) {
	b := mustBoard(t, grid.New(5, 5))
	r := NewRay(b, grid.New(9, 9), Repeat(grid.New(1, 1)), false)
	if _, ok := r.Next(); ok {
		t.Fatalf("ray walked from an out-of-bounds origin")
	}
	if !errors.Is(r.Err(), grid.ErrOutOfBounds) {
		t.Fatalf("Err() = %v, want out of bounds", r.Err())
	}
}

func TestRayExhaustedStepsStop(t *testing.T) {
	b := mustBoard(t, grid.New(5, 5))
	r := NewRay(b, grid.New(0, 0), FromSlice(), false)
	if _, ok := r.Next(); ok {
		t.Fatalf("empty step source yielded a cell")
	}
	if r.Err() != nil {
		t.Fatalf("Err() = %v", r.Err())
	}
}
