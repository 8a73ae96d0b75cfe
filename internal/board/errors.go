// path: internal/board/errors.go
package board

import "errors"

var (
	ErrIllegalState    = errors.New("illegal board state")
	ErrInvalidMutation = errors.New("invalid mutation")
	ErrPieceOffBoard   = errors.New("piece not on a board")
	ErrPieceOnBoard    = errors.New("piece still on the board")
)
