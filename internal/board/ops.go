// path: internal/board/ops.go
package board

import (
	"fmt"

	"github.com/jcraver1021/flex-chess/internal/grid"
)

// OpKind tags a board operation.
type OpKind uint8

const (
	OpPlace OpKind = iota
	OpRemove
	OpCapture
)

func (k OpKind) String() string {
	switch k {
	case OpPlace:
		return "place"
	case OpRemove:
		return "remove"
	case OpCapture:
		return "capture"
	default:
		return fmt.Sprintf("opkind(%d)", uint8(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k OpKind) MarshalText() ([]byte, error) {
	switch k {
	case OpPlace, OpRemove, OpCapture:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("op kind %d: %w", uint8(k), ErrInvalidMutation)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *OpKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "place":
		*k = OpPlace
	case "remove":
		*k = OpRemove
	case "capture":
		*k = OpCapture
	default:
		return fmt.Errorf("op kind %q: %w", text, ErrInvalidMutation)
	}
	return nil
}

// Op is a tagged board operation, the classification layer over the
// displacement protocol. Place puts Piece at Point and jails any occupant
// under the payload's owner. Remove clears Point and discards the
// occupant. Capture clears Point and jails the occupant under By.
type Op struct {
	Kind  OpKind
	Point grid.Point
	Piece *Piece
	By    Player
}

// PlaceOp builds a place operation.
func PlaceOp(pc *Piece, at grid.Point) Op {
	return Op{Kind: OpPlace, Piece: pc, Point: at}
}

// RemoveOp builds a remove operation.
func RemoveOp(at grid.Point) Op {
	return Op{Kind: OpRemove, Point: at}
}

// CaptureOp builds a capture operation credited to by.
func CaptureOp(at grid.Point, by Player) Op {
	return Op{Kind: OpCapture, Point: at, By: by}
}

// Execute applies op through the displacement path and does the jail
// bookkeeping its kind calls for.
func (b *Board) Execute(op Op) error {
	switch op.Kind {
	case OpPlace:
		if op.Piece == nil {
			return fmt.Errorf("place without a piece: %w", ErrInvalidMutation)
		}
		displaced, err := b.Apply(Mutation{Piece: op.Piece, Target: op.Point})
		if err != nil {
			return err
		}
		if displaced != nil {
			return b.Imprison(op.Piece.Owner(), displaced)
		}
		return nil
	case OpRemove:
		_, err := b.Apply(Mutation{Target: op.Point})
		return err
	case OpCapture:
		by := op.By
		if by == "" && op.Piece != nil {
			by = op.Piece.Owner()
		}
		if by == "" {
			return fmt.Errorf("capture without a capturing owner: %w", ErrInvalidMutation)
		}
		displaced, err := b.Apply(Mutation{Target: op.Point})
		if err != nil {
			return err
		}
		if displaced != nil {
			return b.Imprison(by, displaced)
		}
		return nil
	default:
		return fmt.Errorf("op kind %s: %w", op.Kind, ErrInvalidMutation)
	}
}

// ExecuteSequence executes ops in order. The first failing op aborts with
// earlier ops applied.
func (b *Board) ExecuteSequence(ops []Op) error {
	for i, op := range ops {
		if err := b.Execute(op); err != nil {
			return fmt.Errorf("op %d (%s): %w", i, op.Kind, err)
		}
	}
	return nil
}
