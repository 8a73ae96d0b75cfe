// path: internal/storage/storage.go

// Package storage defines persistence contracts for match state. A match
// is a header row plus an append-only log of plies in wire form; replay
// of the log rebuilds the board.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// MatchRecord stores one match header.
type MatchRecord struct {
	ID        string
	Variant   string
	Shape     []int
	Players   []string
	Status    string
	Plies     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MoveRecord stores one committed ply. Ply numbers start at 1; Ops holds
// the ply's wire ops as JSON.
type MoveRecord struct {
	MatchID   string
	Ply       int
	Player    string
	Ops       []byte
	CreatedAt time.Time
}

// MatchStore persists matches and their move logs.
type MatchStore interface {
	// SaveMatch inserts or updates a match header.
	SaveMatch(ctx context.Context, rec MatchRecord) error
	// GetMatch returns the header for id, or ErrNotFound.
	GetMatch(ctx context.Context, id string) (MatchRecord, error)
	// ListMatches returns all headers, most recently updated first.
	ListMatches(ctx context.Context) ([]MatchRecord, error)
	// AppendMove records one ply.
	AppendMove(ctx context.Context, rec MoveRecord) error
	// ListMoves returns a match's plies in order.
	ListMoves(ctx context.Context, matchID string) ([]MoveRecord, error)
	// DeleteMovesFrom drops the plies numbered ply and above, for undo.
	DeleteMovesFrom(ctx context.Context, matchID string, ply int) error
	Close() error
}
