// path: internal/match/wire.go
package match

import (
	"fmt"

	"github.com/jcraver1021/flex-chess/internal/board"
	"github.com/jcraver1021/flex-chess/internal/grid"
	"github.com/jcraver1021/flex-chess/internal/variant"
)

// Wire op tags.
const (
	WireMove   = "move"
	WirePlace  = "place"
	WireRemove = "remove"
)

// WireOp is the stored form of one mutation. Move carries From and To,
// place carries At plus the piece identity, remove carries At only.
// Whether a ply captured anything is not stored; replay re-derives it
// from board state.
type WireOp struct {
	Op    string `json:"op"`
	From  []int  `json:"from,omitempty"`
	To    []int  `json:"to,omitempty"`
	At    []int  `json:"at,omitempty"`
	Owner string `json:"owner,omitempty"`
	Token string `json:"token,omitempty"`
}

// EncodeSequence translates a candidate sequence into wire ops. Only the
// three generator-produced shapes encode; inverse-only shapes fail.
func EncodeSequence(seq board.Sequence) ([]WireOp, error) {
	ops := make([]WireOp, 0, len(seq))
	for i, step := range seq {
		op, err := encodeStep(step)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func encodeStep(step board.Mutation) (WireOp, error) {
	switch {
	case step.Source != nil && step.Target != nil && step.Piece == nil:
		return WireOp{Op: WireMove, From: ints(step.Source), To: ints(step.Target)}, nil
	case step.Source == nil && step.Piece != nil && step.Target != nil:
		return WireOp{
			Op:    WirePlace,
			At:    ints(step.Target),
			Owner: string(step.Piece.Owner()),
			Token: step.Piece.Token(),
		}, nil
	case step.Source == nil && step.Piece == nil && step.Target != nil:
		return WireOp{Op: WireRemove, At: ints(step.Target)}, nil
	}
	return WireOp{}, fmt.Errorf("step {source %v piece %v target %v} has no wire form: %w",
		step.Source, step.Piece, step.Target, board.ErrInvalidMutation)
}

// decode builds the mutation a wire op describes. Placements mint a
// fresh piece from the variant catalog; owners outside the player list
// are allowed, a variant may introduce neutral pieces.
func (m *Match) decode(op WireOp) (board.Mutation, error) {
	switch op.Op {
	case WireMove:
		if len(op.From) == 0 || len(op.To) == 0 {
			return board.Mutation{}, fmt.Errorf("move needs from and to: %w", board.ErrInvalidMutation)
		}
		return board.Mutation{Source: grid.New(op.From...), Target: grid.New(op.To...)}, nil
	case WirePlace:
		if len(op.At) == 0 {
			return board.Mutation{}, fmt.Errorf("place needs at: %w", board.ErrInvalidMutation)
		}
		pc, err := m.v.NewPieceFor(board.Player(op.Owner), op.Token)
		if err != nil {
			return board.Mutation{}, err
		}
		return board.Mutation{Piece: pc, Target: grid.New(op.At...)}, nil
	case WireRemove:
		if len(op.At) == 0 {
			return board.Mutation{}, fmt.Errorf("remove needs at: %w", board.ErrInvalidMutation)
		}
		return board.Mutation{Target: grid.New(op.At...)}, nil
	}
	return board.Mutation{}, fmt.Errorf("unknown wire op %q: %w", op.Op, board.ErrInvalidMutation)
}

// PlayOps commits one ply from its wire form, bypassing the legality
// filter. Stored games replay through here; the ops are trusted to have
// been legal when first played.
func (m *Match) PlayOps(ops []WireOp) (*Ply, error) {
	if len(ops) == 0 {
		return nil, fmt.Errorf("empty ply: %w", board.ErrInvalidMutation)
	}
	seq := make(board.Sequence, 0, len(ops))
	for i, op := range ops {
		step, err := m.decode(op)
		if err != nil {
			return nil, fmt.Errorf("op %d: %w", i, err)
		}
		seq = append(seq, step)
	}
	return m.commit(seq, append([]WireOp(nil), ops...))
}

// Replay rebuilds a match from its logged plies. The same variant and
// log always produce the same state, captures included.
func Replay(v *variant.Variant, id string, plies [][]WireOp) (*Match, error) {
	m, err := New(v, id)
	if err != nil {
		return nil, err
	}
	for i, ops := range plies {
		if _, err := m.PlayOps(ops); err != nil {
			return nil, fmt.Errorf("ply %d: %w", i, err)
		}
	}
	return m, nil
}

func ints(p grid.Point) []int {
	return append([]int(nil), p...)
}
