// path: internal/board/board.go

// Package board implements a generic n-dimensional game board: pieces
// with board/cell back references, a jail of captured pieces per owner, a
// displacement mutation protocol with inverses, and speculative move
// legality over deep copies. Boards are not safe for concurrent use;
// callers serialize access.
package board

import (
	"fmt"
	"sort"

	"github.com/jcraver1021/flex-chess/internal/grid"
)

// StateCheck vetoes board states reached by a mutation sequence. A check
// rejects by returning an error wrapping ErrIllegalState; any game rule
// lives in the check, never in the board.
type StateCheck func(*Board) error

// Board is a dense n-dimensional grid of pieces plus a jail of captured
// pieces keyed by the capturing owner. The shape is fixed at construction.
type Board struct {
	cells  *grid.Tensor[*Piece]
	jail   map[Player]map[*Piece]struct{}
	checks []StateCheck
}

// New builds an empty board of the given shape.
func New(shape grid.Point) (*Board, error) {
	cells, err := grid.NewTensor[*Piece](shape)
	if err != nil {
		return nil, err
	}
	return &Board{
		cells: cells,
		jail:  make(map[Player]map[*Piece]struct{}),
	}, nil
}

// Shape returns a copy of the board's extents.
func (b *Board) Shape() grid.Point { return b.cells.Shape() }

// Dim reports the board's dimensionality.
func (b *Board) Dim() int { return b.cells.Dim() }

// Contains reports whether p addresses a cell of the board.
func (b *Board) Contains(p grid.Point) bool { return b.cells.Contains(p) }

// At returns the piece occupying p, or nil for an empty cell.
func (b *Board) At(p grid.Point) (*Piece, error) { return b.cells.At(p) }

// Set places pc at p and returns the occupant it dislodged, nil if the
// cell was empty. The dislodged piece is detached, not jailed. A nil pc
// clears the cell.
func (b *Board) Set(p grid.Point, pc *Piece) (*Piece, error) {
	prev, err := b.cells.At(p)
	if err != nil {
		return nil, err
	}
	if prev != nil && prev != pc {
		if err := b.placeInternal(prev, nil); err != nil {
			return nil, err
		}
	}
	if err := b.placeInternal(pc, p); err != nil {
		return nil, err
	}
	if prev == pc {
		return nil, nil
	}
	return prev, nil
}

// Remove clears p and returns the piece that stood there, nil if none.
// The removed piece is detached, not jailed.
func (b *Board) Remove(p grid.Point) (*Piece, error) {
	prev, err := b.cells.At(p)
	if err != nil {
		return nil, err
	}
	if prev != nil {
		if err := b.placeInternal(prev, nil); err != nil {
			return nil, err
		}
	}
	return prev, nil
}

// placeInternal is the only code that writes cells or back references.
// Attaching a piece vacates its previous cell on this board and releases
// it from jail; detaching (nil at) clears its cell and leaves the board
// reference pointing at the last holder. A nil piece with a coordinate
// clears that cell.
func (b *Board) placeInternal(pc *Piece, at grid.Point) error {
	if pc == nil {
		if at == nil {
			return nil
		}
		return b.cells.Set(at, nil)
	}
	if pc.board == b && pc.at != nil && !pc.at.Equal(at) {
		if err := b.cells.Set(pc.at, nil); err != nil {
			return err
		}
	}
	if at != nil {
		if err := b.cells.Set(at, pc); err != nil {
			return err
		}
		b.release(pc)
	}
	pc.board = b
	pc.at = at.Clone()
	return nil
}

func (b *Board) release(pc *Piece) {
	for owner, set := range b.jail {
		if _, ok := set[pc]; ok {
			delete(set, pc)
			if len(set) == 0 {
				delete(b.jail, owner)
			}
		}
	}
}

// Imprison records pc as captured by owner. The piece must already be off
// the grid; imprisoning twice is a no-op.
func (b *Board) Imprison(owner Player, pc *Piece) error {
	if pc == nil {
		return fmt.Errorf("imprison nil piece: %w", ErrInvalidMutation)
	}
	if pc.at != nil {
		return fmt.Errorf("piece %s still placed at %v: %w", pc, pc.at, ErrPieceOnBoard)
	}
	set, ok := b.jail[owner]
	if !ok {
		set = make(map[*Piece]struct{})
		b.jail[owner] = set
	}
	set[pc] = struct{}{}
	return nil
}

// Jail returns the pieces captured by owner. Order is unspecified.
func (b *Board) Jail(owner Player) []*Piece {
	set := b.jail[owner]
	out := make([]*Piece, 0, len(set))
	for pc := range set {
		out = append(out, pc)
	}
	return out
}

// JailedBy reports how many pieces owner has captured.
func (b *Board) JailedBy(owner Player) int {
	return len(b.jail[owner])
}

// Captors returns the owners holding at least one captured piece, sorted
// by name.
func (b *Board) Captors() []Player {
	out := make([]Player, 0, len(b.jail))
	for owner := range b.jail {
		out = append(out, owner)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Each calls fn for every cell in row-major order until fn returns false.
func (b *Board) Each(fn func(p grid.Point, pc *Piece) bool) {
	it := b.cells.Points()
	for p, ok := it.Next(); ok; p, ok = it.Next() {
		pc, err := b.cells.At(p)
		if err != nil {
			return
		}
		if !fn(p, pc) {
			return
		}
	}
}

// AddStateCheck registers a veto that runs after every mutation sequence
// application. Clones carry the same checks.
func (b *Board) AddStateCheck(fn StateCheck) {
	if fn != nil {
		b.checks = append(b.checks, fn)
	}
}

// Validate runs the registered state checks against the current state.
func (b *Board) Validate() error {
	for _, fn := range b.checks {
		if err := fn(b); err != nil {
			return err
		}
	}
	return nil
}
