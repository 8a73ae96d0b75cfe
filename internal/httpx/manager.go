// path: internal/httpx/manager.go
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/jcraver1021/flex-chess/internal/match"
	"github.com/jcraver1021/flex-chess/internal/storage"
	"github.com/jcraver1021/flex-chess/internal/variant"
)

var (
	ErrMatchNotFound  = errors.New("match not found")
	ErrMatchExists    = errors.New("match already exists")
	ErrUnknownVariant = errors.New("unknown variant")
)

// session is one live match. The mutex serializes every read and
// mutation of the match it wraps.
type session struct {
	mu      sync.Mutex
	m       *match.Match
	created time.Time
	updated time.Time
}

// record builds the storage header for the session. Callers hold s.mu.
func (s *session) record() storage.MatchRecord {
	st := s.m.State()
	return storage.MatchRecord{
		ID:        st.ID,
		Variant:   st.Variant,
		Shape:     st.Shape,
		Players:   st.Players,
		Status:    st.Status,
		Plies:     st.Plies,
		CreatedAt: s.created,
		UpdatedAt: s.updated,
	}
}

// Manager owns the live matches and keeps them in step with the store.
// A nil store means matches live in memory only.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session
	reg      *variant.Registry
	store    storage.MatchStore
}

// NewManager builds a manager over the given variant registry and
// optional store.
func NewManager(reg *variant.Registry, store storage.MatchStore) *Manager {
	return &Manager{
		sessions: make(map[string]*session),
		reg:      reg,
		store:    store,
	}
}

// Create starts a match of the named variant under id and persists its
// header.
func (mg *Manager) Create(ctx context.Context, variantName, id string) (*session, error) {
	v, ok := mg.reg.Get(variantName)
	if !ok {
		return nil, fmt.Errorf("variant %q: %w", variantName, ErrUnknownVariant)
	}
	if mg.store != nil {
		if _, err := mg.store.GetMatch(ctx, id); err == nil {
			return nil, fmt.Errorf("match %q: %w", id, ErrMatchExists)
		} else if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("check match %q: %w", id, err)
		}
	}

	m, err := match.New(v, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	sess := &session{m: m, created: now, updated: now}

	mg.mu.Lock()
	if _, taken := mg.sessions[id]; taken {
		mg.mu.Unlock()
		return nil, fmt.Errorf("match %q: %w", id, ErrMatchExists)
	}
	mg.sessions[id] = sess
	mg.mu.Unlock()

	if mg.store != nil {
		sess.mu.Lock()
		rec := sess.record()
		sess.mu.Unlock()
		if err := mg.store.SaveMatch(ctx, rec); err != nil {
			mg.mu.Lock()
			delete(mg.sessions, id)
			mg.mu.Unlock()
			return nil, fmt.Errorf("persist match %q: %w", id, err)
		}
	}
	return sess, nil
}

// Load returns the live session for id, rehydrating it from the store
// by replaying the persisted move log when it is not in memory.
func (mg *Manager) Load(ctx context.Context, id string) (*session, error) {
	mg.mu.Lock()
	sess, ok := mg.sessions[id]
	mg.mu.Unlock()
	if ok {
		return sess, nil
	}
	if mg.store == nil {
		return nil, fmt.Errorf("match %q: %w", id, ErrMatchNotFound)
	}

	rec, err := mg.store.GetMatch(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("match %q: %w", id, ErrMatchNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load match %q: %w", id, err)
	}
	v, ok := mg.reg.Get(rec.Variant)
	if !ok {
		return nil, fmt.Errorf("match %q needs variant %q: %w", id, rec.Variant, ErrUnknownVariant)
	}
	moves, err := mg.store.ListMoves(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load moves for %q: %w", id, err)
	}
	plies := make([][]match.WireOp, 0, len(moves))
	for _, mv := range moves {
		var ops []match.WireOp
		if err := json.Unmarshal(mv.Ops, &ops); err != nil {
			return nil, fmt.Errorf("decode ply %d of %q: %w", mv.Ply, id, err)
		}
		plies = append(plies, ops)
	}
	m, err := match.Replay(v, id, plies)
	if err != nil {
		return nil, fmt.Errorf("replay match %q: %w", id, err)
	}

	mg.mu.Lock()
	defer mg.mu.Unlock()
	if raced, ok := mg.sessions[id]; ok {
		return raced, nil
	}
	sess = &session{m: m, created: rec.CreatedAt, updated: rec.UpdatedAt}
	mg.sessions[id] = sess
	return sess, nil
}

// List returns match headers, most recently updated first. With a store
// the listing covers persisted matches that are not in memory.
func (mg *Manager) List(ctx context.Context) ([]storage.MatchRecord, error) {
	if mg.store != nil {
		return mg.store.ListMatches(ctx)
	}
	mg.mu.Lock()
	sessions := make([]*session, 0, len(mg.sessions))
	for _, sess := range mg.sessions {
		sessions = append(sessions, sess)
	}
	mg.mu.Unlock()

	out := make([]storage.MatchRecord, 0, len(sessions))
	for _, sess := range sessions {
		sess.mu.Lock()
		out = append(out, sess.record())
		sess.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// persistPlay records the just-committed ply. On append failure the ply
// is rolled back in memory so the match and the store stay in step; a
// failed header update is only logged, since replay is driven by the
// move log and the header heals on the next write. Callers hold sess.mu.
func (mg *Manager) persistPlay(ctx context.Context, sess *session, ply *match.Ply) error {
	now := time.Now().UTC()
	sess.updated = now
	if mg.store == nil {
		return nil
	}
	ops, err := json.Marshal(ply.Ops)
	if err != nil {
		_ = sess.m.Undo()
		return fmt.Errorf("encode ply: %w", err)
	}
	rec := storage.MoveRecord{
		MatchID:   sess.m.ID(),
		Ply:       sess.m.Plies(),
		Player:    string(ply.Player),
		Ops:       ops,
		CreatedAt: now,
	}
	if err := mg.store.AppendMove(ctx, rec); err != nil {
		_ = sess.m.Undo()
		return fmt.Errorf("persist ply: %w", err)
	}
	if err := mg.store.SaveMatch(ctx, sess.record()); err != nil {
		log.Printf("save match %s header: %v", sess.m.ID(), err)
	}
	return nil
}

// undo reverts the last ply in the store first and then in memory, so a
// storage failure leaves both sides untouched. Callers hold sess.mu.
func (mg *Manager) undo(ctx context.Context, sess *session) error {
	if sess.m.Plies() == 0 {
		return match.ErrNoHistory
	}
	if mg.store != nil {
		if err := mg.store.DeleteMovesFrom(ctx, sess.m.ID(), sess.m.Plies()); err != nil {
			return fmt.Errorf("unpersist ply: %w", err)
		}
	}
	if err := sess.m.Undo(); err != nil {
		return err
	}
	sess.updated = time.Now().UTC()
	if mg.store != nil {
		if err := mg.store.SaveMatch(ctx, sess.record()); err != nil {
			log.Printf("save match %s header: %v", sess.m.ID(), err)
		}
	}
	return nil
}
