// path: internal/match/errors.go
package match

import "errors"

var (
	ErrEmptyCell = errors.New("no piece at cell")
	ErrWrongTurn = errors.New("piece belongs to the waiting player")
	ErrBadChoice = errors.New("move choice out of range")
	ErrNoHistory = errors.New("no move to undo")
)
