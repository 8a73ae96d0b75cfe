package board

import "github.com/jcraver1021/flex-chess/internal/grid"

// Player identifies a piece owner. Players compare by value; the jail is
// keyed by Player.
type Player string

// DefaultToken is the display token for pieces created without one.
const DefaultToken = "X"

// Piece is a game piece. The board that holds a piece maintains a back
// reference to itself and the occupied cell; pieces never move themselves.
type Piece struct {
	owner Player
	token string
	gens  []Generator

	board *Board
	at    grid.Point
}

// NewPiece builds a piece for owner. An empty token falls back to
// DefaultToken. Generators supply the piece's candidate moves and are
// queried in the order given.
func NewPiece(owner Player, token string, gens ...Generator) *Piece {
	if token == "" {
		token = DefaultToken
	}
	return &Piece{owner: owner, token: token, gens: gens}
}

// Owner returns the owning player.
func (p *Piece) Owner() Player { return p.owner }

// Token returns the display token.
func (p *Piece) Token() string { return p.token }

// Generators returns the piece's move generators in query order.
func (p *Piece) Generators() []Generator {
	out := make([]Generator, len(p.gens))
	copy(out, p.gens)
	return out
}

// Find reports the board and cell currently holding the piece. Both are
// nil before the first placement. After removal or capture the cell is nil
// and the board is the one that last held the piece.
func (p *Piece) Find() (*Board, grid.Point) {
	return p.board, p.at.Clone()
}

func (p *Piece) String() string { return p.token }
