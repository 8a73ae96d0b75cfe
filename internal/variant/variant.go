// path: internal/variant/variant.go

// Package variant defines playable game configurations: a board shape, a
// turn order, an opening layout and a catalog of piece movement rules.
// Variants come from the built-ins here or from Lua scripts.
package variant

import (
	"fmt"

	"github.com/jcraver1021/flex-chess/internal/board"
	"github.com/jcraver1021/flex-chess/internal/grid"
	"github.com/jcraver1021/flex-chess/internal/rules"
)

// Placement puts one piece on the opening board.
type Placement struct {
	Player board.Player
	Token  string
	At     grid.Point
}

// Variant is a playable game configuration. Players are listed in turn
// order.
type Variant struct {
	Name       string
	Shape      grid.Point
	Players    []board.Player
	Placements []Placement
	Catalog    rules.Catalog
}

// Build constructs the opening board. Every placed piece carries the
// generators its token names in the catalog; unknown tokens fail.
func (v *Variant) Build() (*board.Board, error) {
	if len(v.Players) == 0 {
		return nil, fmt.Errorf("variant %q has no players", v.Name)
	}
	b, err := board.New(v.Shape)
	if err != nil {
		return nil, fmt.Errorf("variant %q: %w", v.Name, err)
	}
	for _, pl := range v.Placements {
		pc, err := v.NewPieceFor(pl.Player, pl.Token)
		if err != nil {
			return nil, err
		}
		if _, err := b.Set(pl.At, pc); err != nil {
			return nil, fmt.Errorf("variant %q placement %s at %v: %w", v.Name, pl.Token, pl.At, err)
		}
	}
	return b, nil
}

// NewPieceFor builds a detached piece of the given token, used for
// opening placements and for fresh pieces introduced mid-game.
func (v *Variant) NewPieceFor(owner board.Player, token string) (*board.Piece, error) {
	gens := v.Catalog.Generators(token)
	if gens == nil {
		return nil, fmt.Errorf("variant %q has no token %q", v.Name, token)
	}
	return board.NewPiece(owner, token, gens...), nil
}

// HasPlayer reports whether name plays in this variant.
func (v *Variant) HasPlayer(name board.Player) bool {
	for _, p := range v.Players {
		if p == name {
			return true
		}
	}
	return false
}

// Standard is the built-in two-player 8x8 variant: the classic back ranks
// of the symmetric pieces facing each other. Pawn rules depend on a
// per-player direction and are left to scripted variants.
func Standard() *Variant {
	back := []string{"R", "N", "B", "Q", "K", "B", "N", "R"}
	v := &Variant{
		Name:    "standard",
		Shape:   grid.New(8, 8),
		Players: []board.Player{"white", "black"},
		Catalog: rules.Standard(2),
	}
	for file, token := range back {
		v.Placements = append(v.Placements,
			Placement{Player: "white", Token: token, At: grid.New(0, file)},
			Placement{Player: "black", Token: token, At: grid.New(7, file)},
		)
	}
	return v
}
