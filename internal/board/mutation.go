// path: internal/board/mutation.go
package board

import (
	"fmt"

	"github.com/jcraver1021/flex-chess/internal/grid"
)

// Mutation is a generalized displacement. The piece resolved from Source
// (a cell to vacate) or from Piece (a direct payload) lands on Target; a
// nil Target takes it off the board instead. When Source and Piece are
// both set, the payload is placed into the vacated source cell, which is
// how a single inverse restores both cells of a capture. The zero
// Mutation is a no-op.
type Mutation struct {
	Source grid.Point
	Piece  *Piece
	Target grid.Point
}

// IsZero reports whether m is the no-op mutation.
func (m Mutation) IsZero() bool {
	return m.Source == nil && m.Piece == nil && m.Target == nil
}

// Sequence is an ordered list of mutations applied as one candidate move.
type Sequence []Mutation

// Apply applies m and returns the piece displaced from the target cell.
// The result is nil when the target was empty or when the displaced piece
// is the incoming one. Jail membership is never decided here; callers
// that track captures pass the displaced piece to Imprison.
func (b *Board) Apply(m Mutation) (*Piece, error) {
	_, displaced, err := b.Mutate(m)
	return displaced, err
}

// Mutate applies m and returns its inverse alongside the displaced piece.
// Applying the inverse restores both affected cells.
//
// Effects are ordered: the target occupant is detached before the source
// cell is read, so a source bounds failure aborts with that detachment
// already applied. Sequences, not single mutations, are the unit callers
// should treat as atomic-enough.
func (b *Board) Mutate(m Mutation) (Mutation, *Piece, error) {
	if m.IsZero() {
		return Mutation{}, nil, nil
	}
	if m.Source != nil && m.Target != nil && m.Source.Equal(m.Target) {
		return Mutation{}, nil, fmt.Errorf("source equals target %v: %w", m.Target, ErrInvalidMutation)
	}

	var displaced *Piece
	if m.Target != nil {
		cur, err := b.At(m.Target)
		if err != nil {
			return Mutation{}, nil, err
		}
		if cur != nil {
			if err := b.placeInternal(cur, nil); err != nil {
				return Mutation{}, nil, err
			}
		}
		displaced = cur
	}

	incoming := m.Piece
	if m.Source != nil {
		pc, err := b.At(m.Source)
		if err != nil {
			return Mutation{}, nil, err
		}
		incoming = pc
	}

	// The cell the incoming piece is about to leave. Needed before any
	// placement overwrites its back reference.
	prev := m.Source
	if prev == nil && incoming != nil {
		if holder, at := incoming.Find(); holder == b && at != nil {
			prev = at
		}
	}

	if m.Target != nil {
		if err := b.placeInternal(incoming, m.Target); err != nil {
			return Mutation{}, nil, err
		}
	} else if incoming != nil {
		if err := b.placeInternal(incoming, nil); err != nil {
			return Mutation{}, nil, err
		}
	}

	if m.Source != nil && m.Piece != nil {
		if err := b.placeInternal(m.Piece, m.Source); err != nil {
			return Mutation{}, nil, err
		}
	}

	if displaced != nil && displaced == incoming {
		return Mutation{}, nil, nil
	}
	inv := Mutation{
		Source: m.Target.Clone(),
		Target: prev.Clone(),
		Piece:  displaced,
	}
	if m.Target == nil {
		// A detach has no displaced occupant; the inverse re-places the
		// detached piece itself.
		inv.Piece = incoming
	}
	return inv, displaced, nil
}

// ApplySequence applies each mutation in order and returns the sequence
// that undoes it: step inverses in reverse order. Application is not
// transactional; the first failing step aborts with earlier steps left
// applied. Registered state checks run once after the final step.
func (b *Board) ApplySequence(seq Sequence) (Sequence, error) {
	inv := make(Sequence, 0, len(seq))
	for i, m := range seq {
		stepInv, _, err := b.Mutate(m)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		inv = append(inv, stepInv)
	}
	for i, j := 0, len(inv)-1; i < j; i, j = i+1, j-1 {
		inv[i], inv[j] = inv[j], inv[i]
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return inv, nil
}
