// path: internal/rules/catalog.go
package rules

import "github.com/jcraver1021/flex-chess/internal/board"

// Catalog maps piece tokens to the generators queried for them, in order.
type Catalog map[string][]board.Generator

// Generators returns the generators registered for token, nil if unknown.
func (c Catalog) Generators(token string) []board.Generator {
	return c[token]
}

// Standard returns the symmetric classic pieces generalized to dim axes:
// rook, bishop, queen, king and knight. Pawns are left to variant
// definitions since their rules depend on a per-player direction.
func Standard(dim int) Catalog {
	return Catalog{
		"R": {Slider(MoveOrCapture, Orthogonals(dim)...)},
		"B": {Slider(MoveOrCapture, Diagonals(dim)...)},
		"Q": {Slider(MoveOrCapture, Omni(dim)...)},
		"K": {Leaper(MoveOrCapture, Omni(dim)...)},
		"N": {Leaper(MoveOrCapture, KnightJumps(dim)...)},
	}
}
