// path: internal/storage/sqlite/store_test.go
package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/jcraver1021/flex-chess/internal/storage"
)

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open(%s): %v", path, err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return store
}

func sampleMatch(id string, at time.Time) storage.MatchRecord {
	return storage.MatchRecord{
		ID:        id,
		Variant:   "standard",
		Shape:     []int{8, 8},
		Players:   []string{"white", "black"},
		Status:    "active",
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestSaveAndGetMatch(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, filepath.Join(t.TempDir(), "flex.db"))

	want := sampleMatch("m1", time.UnixMilli(1_700_000_000_000).UTC())
	if err := store.SaveMatch(ctx, want); err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}
	got, err := store.GetMatch(ctx, "m1")
	if err != nil {
		t.Fatalf("GetMatch: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("GetMatch = %+v, want %+v", got, want)
	}
}

func TestGetMatchNotFound(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "flex.db"))
	if _, err := store.GetMatch(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("GetMatch = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestSaveMatchUpsertKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, filepath.Join(t.TempDir(), "flex.db"))

	first := time.UnixMilli(1_700_000_000_000).UTC()
	rec := sampleMatch("m1", first)
	if err := store.SaveMatch(ctx, rec); err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}

	rec.Status = "halted"
	rec.Plies = 7
	rec.CreatedAt = first.Add(time.Hour)
	rec.UpdatedAt = first.Add(time.Hour)
	if err := store.SaveMatch(ctx, rec); err != nil {
		t.Fatalf("SaveMatch update: %v", err)
	}

	got, err := store.GetMatch(ctx, "m1")
	if err != nil {
		t.Fatalf("GetMatch: %v", err)
	}
	if got.Status != "halted" || got.Plies != 7 {
		t.Fatalf("update not applied: %+v", got)
	}
	if !got.CreatedAt.Equal(first) {
		t.Fatalf("created_at changed on upsert: %v", got.CreatedAt)
	}
	if !got.UpdatedAt.Equal(first.Add(time.Hour)) {
		t.Fatalf("updated_at = %v", got.UpdatedAt)
	}
}

func TestListMatchesOrder(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, filepath.Join(t.TempDir(), "flex.db"))

	older := time.UnixMilli(1_700_000_000_000).UTC()
	newer := older.Add(time.Minute)
	if err := store.SaveMatch(ctx, sampleMatch("old", older)); err != nil {
		t.Fatalf("SaveMatch old: %v", err)
	}
	if err := store.SaveMatch(ctx, sampleMatch("new", newer)); err != nil {
		t.Fatalf("SaveMatch new: %v", err)
	}

	got, err := store.ListMatches(ctx)
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(got) != 2 || got[0].ID != "new" || got[1].ID != "old" {
		t.Fatalf("ListMatches order = %+v", got)
	}
}

func TestMoveLog(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, filepath.Join(t.TempDir(), "flex.db"))

	at := time.UnixMilli(1_700_000_000_000).UTC()
	if err := store.SaveMatch(ctx, sampleMatch("m1", at)); err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}
	for ply := 1; ply <= 3; ply++ {
		rec := storage.MoveRecord{
			MatchID:   "m1",
			Ply:       ply,
			Player:    "white",
			Ops:       []byte(`[{"op":"move","from":[0,0],"to":[1,0]}]`),
			CreatedAt: at.Add(time.Duration(ply) * time.Second),
		}
		if err := store.AppendMove(ctx, rec); err != nil {
			t.Fatalf("AppendMove %d: %v", ply, err)
		}
	}

	moves, err := store.ListMoves(ctx, "m1")
	if err != nil {
		t.Fatalf("ListMoves: %v", err)
	}
	if len(moves) != 3 {
		t.Fatalf("logged %d moves, want 3", len(moves))
	}
	for i, rec := range moves {
		if rec.Ply != i+1 {
			t.Fatalf("move %d has ply %d", i, rec.Ply)
		}
	}

	if err := store.DeleteMovesFrom(ctx, "m1", 2); err != nil {
		t.Fatalf("DeleteMovesFrom: %v", err)
	}
	moves, err = store.ListMoves(ctx, "m1")
	if err != nil {
		t.Fatalf("ListMoves after delete: %v", err)
	}
	if len(moves) != 1 || moves[0].Ply != 1 {
		t.Fatalf("moves after delete = %+v", moves)
	}
}

func TestAppendMoveRejectsBadPly(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, filepath.Join(t.TempDir(), "flex.db"))
	err := store.AppendMove(ctx, storage.MoveRecord{MatchID: "m1", Ply: 0})
	if err == nil {
		t.Fatal("expected an error for ply 0")
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "flex.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	at := time.UnixMilli(1_700_000_000_000).UTC()
	if err := first.SaveMatch(ctx, sampleMatch("m1", at)); err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := openStore(t, path)
	if _, err := second.GetMatch(ctx, "m1"); err != nil {
		t.Fatalf("GetMatch after reopen: %v", err)
	}
}
