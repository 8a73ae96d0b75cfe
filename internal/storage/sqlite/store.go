// path: internal/storage/sqlite/store.go

// Package sqlite provides a SQLite-backed match store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jcraver1021/flex-chess/internal/storage"
	"github.com/jcraver1021/flex-chess/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists match state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite match store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveMatch inserts or updates a match header.
func (s *Store) SaveMatch(ctx context.Context, rec storage.MatchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(rec.ID)
	if id == "" {
		return fmt.Errorf("match id is required")
	}
	if strings.TrimSpace(rec.Variant) == "" {
		return fmt.Errorf("variant is required")
	}
	shape, err := json.Marshal(rec.Shape)
	if err != nil {
		return fmt.Errorf("encode shape: %w", err)
	}
	players, err := json.Marshal(rec.Players)
	if err != nil {
		return fmt.Errorf("encode players: %w", err)
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	updatedAt := rec.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO matches (id, variant, shape, players, status, plies, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    status = excluded.status,
    plies = excluded.plies,
    updated_at = excluded.updated_at
`, id, rec.Variant, string(shape), string(players), rec.Status, rec.Plies,
		toMillis(createdAt), toMillis(updatedAt))
	if err != nil {
		return fmt.Errorf("save match %s: %w", id, err)
	}
	return nil
}

// GetMatch returns the header for id, or storage.ErrNotFound.
func (s *Store) GetMatch(ctx context.Context, id string) (storage.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.MatchRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.MatchRecord{}, fmt.Errorf("storage is not configured")
	}
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, variant, shape, players, status, plies, created_at, updated_at
FROM matches WHERE id = ?
`, strings.TrimSpace(id))
	return scanMatch(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (storage.MatchRecord, error) {
	var rec storage.MatchRecord
	var shape, players string
	var createdAt, updatedAt int64
	err := row.Scan(&rec.ID, &rec.Variant, &shape, &players, &rec.Status, &rec.Plies,
		&createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.MatchRecord{}, storage.ErrNotFound
		}
		return storage.MatchRecord{}, fmt.Errorf("scan match: %w", err)
	}
	if err := json.Unmarshal([]byte(shape), &rec.Shape); err != nil {
		return storage.MatchRecord{}, fmt.Errorf("decode shape for %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(players), &rec.Players); err != nil {
		return storage.MatchRecord{}, fmt.Errorf("decode players for %s: %w", rec.ID, err)
	}
	rec.CreatedAt = fromMillis(createdAt)
	rec.UpdatedAt = fromMillis(updatedAt)
	return rec, nil
}

// ListMatches returns all headers, most recently updated first.
func (s *Store) ListMatches(ctx context.Context) ([]storage.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, variant, shape, players, status, plies, created_at, updated_at
FROM matches ORDER BY updated_at DESC, id ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []storage.MatchRecord
	for rows.Next() {
		rec, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return out, nil
}

// AppendMove records one ply.
func (s *Store) AppendMove(ctx context.Context, rec storage.MoveRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(rec.MatchID) == "" {
		return fmt.Errorf("match id is required")
	}
	if rec.Ply < 1 {
		return fmt.Errorf("ply number %d is not positive", rec.Ply)
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO moves (match_id, ply, player, ops, created_at)
VALUES (?, ?, ?, ?, ?)
`, rec.MatchID, rec.Ply, rec.Player, string(rec.Ops), toMillis(createdAt))
	if err != nil {
		return fmt.Errorf("append move %d of %s: %w", rec.Ply, rec.MatchID, err)
	}
	return nil
}

// ListMoves returns a match's plies in order.
func (s *Store) ListMoves(ctx context.Context, matchID string) ([]storage.MoveRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT match_id, ply, player, ops, created_at
FROM moves WHERE match_id = ? ORDER BY ply ASC
`, strings.TrimSpace(matchID))
	if err != nil {
		return nil, fmt.Errorf("list moves of %s: %w", matchID, err)
	}
	defer rows.Close()

	var out []storage.MoveRecord
	for rows.Next() {
		var rec storage.MoveRecord
		var ops string
		var createdAt int64
		if err := rows.Scan(&rec.MatchID, &rec.Ply, &rec.Player, &ops, &createdAt); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		rec.Ops = []byte(ops)
		rec.CreatedAt = fromMillis(createdAt)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list moves of %s: %w", matchID, err)
	}
	return out, nil
}

// DeleteMovesFrom drops the plies numbered ply and above.
func (s *Store) DeleteMovesFrom(ctx context.Context, matchID string, ply int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	_, err := s.sqlDB.ExecContext(ctx, `
DELETE FROM moves WHERE match_id = ? AND ply >= ?
`, strings.TrimSpace(matchID), ply)
	if err != nil {
		return fmt.Errorf("delete moves of %s from %d: %w", matchID, ply, err)
	}
	return nil
}
