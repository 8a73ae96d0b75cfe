// path: internal/match/snapshot.go
package match

import (
	"sort"

	"github.com/jcraver1021/flex-chess/internal/board"
	"github.com/jcraver1021/flex-chess/internal/grid"
)

// Match status values. A match halts when the player to move has no
// piece left on the grid; there is no built-in win detection beyond
// that, scoring belongs to the rule layer.
const (
	StatusActive = "active"
	StatusHalted = "halted"
)

// PieceState is the serializable form of one piece. At is omitted for
// jailed pieces.
type PieceState struct {
	Owner string `json:"owner"`
	Token string `json:"token"`
	At    []int  `json:"at,omitempty"`
}

// Snapshot is the serializable state of a match.
type Snapshot struct {
	ID      string                  `json:"id"`
	Variant string                  `json:"variant"`
	Shape   []int                   `json:"shape"`
	Players []string                `json:"players"`
	Turn    string                  `json:"turn"`
	Status  string                  `json:"status"`
	Plies   int                     `json:"plies"`
	Pieces  []PieceState            `json:"pieces"`
	Jail    map[string][]PieceState `json:"jail,omitempty"`
}

// State captures the match for serialization. Pieces appear in
// row-major cell order; jailed pieces are sorted by owner and token so
// snapshots of equal states compare equal.
func (m *Match) State() Snapshot {
	s := Snapshot{
		ID:      m.id,
		Variant: m.v.Name,
		Shape:   []int(m.brd.Shape()),
		Turn:    string(m.Turn()),
		Plies:   len(m.history),
	}
	for _, p := range m.players {
		s.Players = append(s.Players, string(p))
	}

	mover := m.Turn()
	alive := false
	m.brd.Each(func(p grid.Point, pc *board.Piece) bool {
		if pc == nil {
			return true
		}
		if pc.Owner() == mover {
			alive = true
		}
		s.Pieces = append(s.Pieces, PieceState{
			Owner: string(pc.Owner()),
			Token: pc.Token(),
			At:    append([]int(nil), p...),
		})
		return true
	})
	s.Status = StatusActive
	if !alive {
		s.Status = StatusHalted
	}

	for _, owner := range m.brd.Captors() {
		held := m.brd.Jail(owner)
		states := make([]PieceState, 0, len(held))
		for _, pc := range held {
			states = append(states, PieceState{
				Owner: string(pc.Owner()),
				Token: pc.Token(),
			})
		}
		sort.Slice(states, func(i, j int) bool {
			if states[i].Owner != states[j].Owner {
				return states[i].Owner < states[j].Owner
			}
			return states[i].Token < states[j].Token
		})
		if s.Jail == nil {
			s.Jail = make(map[string][]PieceState)
		}
		s.Jail[string(owner)] = states
	}
	return s
}
