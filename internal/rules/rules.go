// path: internal/rules/rules.go

// Package rules builds move generators from step vectors: sliders that
// ray-walk until blocked and leapers that jump a fixed offset. Rules are
// dimension-generic; direction builders cover the common piece
// neighborhoods for any board rank.
package rules

import (
	"fmt"

	"github.com/jcraver1021/flex-chess/internal/board"
	"github.com/jcraver1021/flex-chess/internal/grid"
)

// Mode decides how a rule treats occupied destination cells.
type Mode uint8

const (
	// MoveOrCapture reaches empty cells and opposing occupants.
	MoveOrCapture Mode = iota
	// MoveOnly reaches empty cells only.
	MoveOnly
	// CaptureOnly reaches opposing occupants only.
	CaptureOnly
)

func (m Mode) String() string {
	switch m {
	case MoveOrCapture:
		return "move-or-capture"
	case MoveOnly:
		return "move-only"
	case CaptureOnly:
		return "capture-only"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// DirectMove is the one-step displacement sequence from one cell to
// another.
func DirectMove(from, to grid.Point) board.Sequence {
	return board.Sequence{{Source: from.Clone(), Target: to.Clone()}}
}

// Slider walks a repeated-step ray per direction and proposes a direct
// move to every reachable cell.
func Slider(mode Mode, dirs ...grid.Point) board.Generator {
	owned := clonePoints(dirs)
	return board.GeneratorFunc(func(b *board.Board, at grid.Point) ([]board.Sequence, error) {
		var seqs []board.Sequence
		for _, d := range owned {
			ray := board.NewRay(b, at, board.Repeat(d), mode != MoveOnly)
			cells, err := ray.Collect()
			if err != nil {
				return nil, err
			}
			for _, c := range cells {
				if mode == CaptureOnly {
					occ, err := b.At(c)
					if err != nil {
						return nil, err
					}
					if occ == nil {
						continue
					}
				}
				seqs = append(seqs, DirectMove(at, c))
			}
		}
		return seqs, nil
	})
}

// Leaper jumps each offset once, proposing a direct move where the
// destination is on the board and the mode admits it.
func Leaper(mode Mode, offsets ...grid.Point) board.Generator {
	owned := clonePoints(offsets)
	return board.GeneratorFunc(func(b *board.Board, at grid.Point) ([]board.Sequence, error) {
		self, err := b.At(at)
		if err != nil {
			return nil, err
		}
		var seqs []board.Sequence
		for _, off := range owned {
			to, err := at.Add(off)
			if err != nil {
				return nil, err
			}
			if !b.Contains(to) {
				continue
			}
			occ, err := b.At(to)
			if err != nil {
				return nil, err
			}
			if occ == nil {
				if mode == CaptureOnly {
					continue
				}
			} else {
				if mode == MoveOnly {
					continue
				}
				if self == nil || occ.Owner() == self.Owner() {
					continue
				}
			}
			seqs = append(seqs, DirectMove(at, to))
		}
		return seqs, nil
	})
}

func clonePoints(pts []grid.Point) []grid.Point {
	out := make([]grid.Point, len(pts))
	for i, p := range pts {
		out[i] = p.Clone()
	}
	return out
}
