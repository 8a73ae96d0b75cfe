// path: internal/board/movegen.go
package board

import (
	"errors"
	"fmt"

	"github.com/jcraver1021/flex-chess/internal/grid"
)

// Generator proposes candidate mutation sequences for a piece standing at
// a cell. Candidate order must be deterministic for a given board state.
type Generator interface {
	Sequences(b *Board, at grid.Point) ([]Sequence, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(b *Board, at grid.Point) ([]Sequence, error)

// Sequences implements Generator.
func (f GeneratorFunc) Sequences(b *Board, at grid.Point) ([]Sequence, error) {
	return f(b, at)
}

// LegalSequences returns the piece's candidate sequences that survive
// speculative application: each candidate is applied to a deep copy of
// the holding board, and candidates vetoed with ErrIllegalState are
// dropped. Structural failures propagate, since a generator that emits
// them is broken. The holding board is never modified.
func (p *Piece) LegalSequences() ([]Sequence, error) {
	b, at := p.board, p.at
	if b == nil || at == nil {
		return nil, fmt.Errorf("piece %s: %w", p, ErrPieceOffBoard)
	}
	var legal []Sequence
	for _, g := range p.gens {
		cands, err := g.Sequences(b, at.Clone())
		if err != nil {
			return nil, err
		}
		for _, seq := range cands {
			cp := b.Clone()
			if _, err := cp.ApplySequence(seq); err != nil {
				if errors.Is(err, ErrIllegalState) {
					continue
				}
				return nil, err
			}
			legal = append(legal, seq)
		}
	}
	return legal, nil
}
