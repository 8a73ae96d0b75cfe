// path: internal/match/match.go

// Package match layers turn management on the board engine. A Match owns
// one board built from a variant, alternates turns over the variant's
// player list, logs every ply in a wire form suitable for storage, and
// can undo plies or replay a logged game from scratch.
package match

import (
	"fmt"

	"github.com/jcraver1021/flex-chess/internal/board"
	"github.com/jcraver1021/flex-chess/internal/grid"
	"github.com/jcraver1021/flex-chess/internal/variant"
)

// Match is one game in progress. Matches are not safe for concurrent
// use; the serving layer holds a per-match lock.
type Match struct {
	id      string
	v       *variant.Variant
	brd     *board.Board
	players []board.Player
	turn    int
	history []*Ply
}

// Ply is one committed move: the player who made it and its wire ops.
// The inverse sequence that undoes it stays private to the package.
type Ply struct {
	Player  board.Player `json:"player"`
	Ops     []WireOp     `json:"ops"`
	inverse board.Sequence
}

// New builds a match with the variant's opening board. The first player
// in the variant's list moves first.
func New(v *variant.Variant, id string) (*Match, error) {
	if id == "" {
		return nil, fmt.Errorf("match of %q needs an id", v.Name)
	}
	brd, err := v.Build()
	if err != nil {
		return nil, err
	}
	return &Match{
		id:      id,
		v:       v,
		brd:     brd,
		players: append([]board.Player(nil), v.Players...),
	}, nil
}

// ID returns the match identifier.
func (m *Match) ID() string { return m.id }

// Variant returns the name of the variant being played.
func (m *Match) Variant() string { return m.v.Name }

// Board exposes the live board for rendering and queries. Callers must
// not mutate it except through Play.
func (m *Match) Board() *board.Board { return m.brd }

// Turn returns the player to move.
func (m *Match) Turn() board.Player { return m.players[m.turn] }

// Players returns the turn order.
func (m *Match) Players() []board.Player {
	return append([]board.Player(nil), m.players...)
}

// Plies returns the number of committed moves.
func (m *Match) Plies() int { return len(m.history) }

// History returns the committed plies, oldest first.
func (m *Match) History() []*Ply {
	return append([]*Ply(nil), m.history...)
}

// Legal returns the candidate sequences for the piece at the given cell.
// The list order is stable for a given board state, so a choice index
// picked from it stays valid until the next mutation.
func (m *Match) Legal(at grid.Point) ([]board.Sequence, error) {
	pc, err := m.brd.At(at)
	if err != nil {
		return nil, err
	}
	if pc == nil {
		return nil, fmt.Errorf("cell %v: %w", at, ErrEmptyCell)
	}
	if pc.Owner() != m.Turn() {
		return nil, fmt.Errorf("%s to move, piece at %v is %s's: %w", m.Turn(), at, pc.Owner(), ErrWrongTurn)
	}
	return pc.LegalSequences()
}

// Play commits the choice-th legal sequence of the piece at the given
// cell. Pieces displaced along the way go to the mover's jail. The
// returned ply carries the wire ops to persist.
func (m *Match) Play(at grid.Point, choice int) (*Ply, error) {
	seqs, err := m.Legal(at)
	if err != nil {
		return nil, err
	}
	if choice < 0 || choice >= len(seqs) {
		return nil, fmt.Errorf("choice %d of %d candidates: %w", choice, len(seqs), ErrBadChoice)
	}
	ops, err := EncodeSequence(seqs[choice])
	if err != nil {
		return nil, err
	}
	return m.commit(seqs[choice], ops)
}

// commit applies seq step by step, jailing displaced pieces under the
// mover, then records the ply and advances the turn. The recorded
// inverse undoes the whole ply; re-placing a jailed piece releases it.
func (m *Match) commit(seq board.Sequence, ops []WireOp) (*Ply, error) {
	mover := m.Turn()
	inverse := make(board.Sequence, 0, len(seq))
	for i, step := range seq {
		inv, displaced, err := m.brd.Mutate(step)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		if !inv.IsZero() {
			inverse = append(inverse, inv)
		}
		if displaced != nil {
			if err := m.brd.Imprison(mover, displaced); err != nil {
				return nil, fmt.Errorf("step %d capture: %w", i, err)
			}
		}
	}
	if err := m.brd.Validate(); err != nil {
		return nil, err
	}
	for i, j := 0, len(inverse)-1; i < j; i, j = i+1, j-1 {
		inverse[i], inverse[j] = inverse[j], inverse[i]
	}
	ply := &Ply{Player: mover, Ops: ops, inverse: inverse}
	m.history = append(m.history, ply)
	m.turn = (m.turn + 1) % len(m.players)
	return ply, nil
}

// Undo reverts the last ply and rewinds the turn. Captured pieces
// return to their cells and leave the jail.
func (m *Match) Undo() error {
	if len(m.history) == 0 {
		return ErrNoHistory
	}
	last := m.history[len(m.history)-1]
	if _, err := m.brd.ApplySequence(last.inverse); err != nil {
		return fmt.Errorf("undo: %w", err)
	}
	m.history = m.history[:len(m.history)-1]
	m.turn = (m.turn - 1 + len(m.players)) % len(m.players)
	return nil
}
