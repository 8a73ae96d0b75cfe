// path: internal/board/clone.go
package board

import "github.com/jcraver1021/flex-chess/internal/grid"

// Clone returns a deep copy of the board: fresh pieces for every cell and
// every jail entry, back references into the copy, generator lists and
// state checks shared. Mutating the clone never changes the source board
// or any piece it holds.
func (b *Board) Clone() *Board {
	cp, _ := New(b.cells.Shape())
	cp.checks = b.checks
	b.Each(func(p grid.Point, pc *Piece) bool {
		if pc != nil {
			_ = cp.placeInternal(pc.cloneShallow(), p)
		}
		return true
	})
	for owner, set := range b.jail {
		for pc := range set {
			ghost := pc.cloneShallow()
			_ = cp.placeInternal(ghost, nil)
			_ = cp.Imprison(owner, ghost)
		}
	}
	return cp
}

func (p *Piece) cloneShallow() *Piece {
	return &Piece{owner: p.owner, token: p.token, gens: p.gens}
}
