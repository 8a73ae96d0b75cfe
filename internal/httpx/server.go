// path: internal/httpx/server.go
package httpx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcraver1021/flex-chess/internal/grid"
	"github.com/jcraver1021/flex-chess/internal/match"
	"github.com/jcraver1021/flex-chess/internal/render"
	"github.com/jcraver1021/flex-chess/internal/storage"
	"github.com/jcraver1021/flex-chess/internal/variant"
)

// Server wires the HTTP layer to the match manager.
type Server struct {
	manager *Manager
	reg     *variant.Registry
	secret  []byte
	tracer  trace.Tracer

	readTimeout  time.Duration
	writeTimeout time.Duration

	srvMu sync.Mutex
	srv   *http.Server
}

const (
	maxJSONBodyBytes int64 = 1 << 20
	apiCSP                 = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"
)

// NewServer builds a Server. A nil store keeps matches in memory only;
// an empty secret disables bearer-token auth.
func NewServer(reg *variant.Registry, store storage.MatchStore, secret []byte) *Server {
	return &Server{
		manager:      NewManager(reg, store),
		reg:          reg,
		secret:       secret,
		tracer:       otel.Tracer("flex-chess/httpx"),
		readTimeout:  10 * time.Second,
		writeTimeout: 10 * time.Second,
	}
}

// WithTimeouts overrides the HTTP read and write timeouts. Zero values
// keep the defaults.
func (s *Server) WithTimeouts(read, write time.Duration) *Server {
	if read > 0 {
		s.readTimeout = read
	}
	if write > 0 {
		s.writeTimeout = write
	}
	return s
}

// Listen starts the HTTP server.
func (s *Server) Listen(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.readTimeout,
		WriteTimeout:      s.writeTimeout,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	log.Printf("HTTP listening on %s", addr)
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close attempts a graceful shutdown of the HTTP server.
func (s *Server) Close(ctx context.Context) error {
	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// routes configures the ServeMux with the JSON API and board renders.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/variants", s.withJSON("httpx.variants", s.handleVariants))
	mux.HandleFunc("POST /api/matches", s.withJSON("httpx.create_match", s.handleCreateMatch))
	mux.HandleFunc("GET /api/matches", s.withJSON("httpx.list_matches", s.handleListMatches))
	mux.HandleFunc("GET /api/matches/{id}", s.withJSON("httpx.get_match", s.handleGetMatch))
	mux.HandleFunc("GET /api/matches/{id}/moves", s.withJSON("httpx.legal_moves", s.handleLegalMoves))
	mux.HandleFunc("POST /api/matches/{id}/move", s.withJSON("httpx.play_move", s.handlePlayMove))
	mux.HandleFunc("POST /api/matches/{id}/undo", s.withJSON("httpx.undo_move", s.handleUndoMove))

	mux.HandleFunc("GET /api/matches/{id}/board.svg", s.traced("httpx.board_svg", s.handleBoardSVG))
	mux.HandleFunc("GET /api/matches/{id}/board.txt", s.traced("httpx.board_text", s.handleBoardText))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// ---- JSON helpers ----

func (s *Server) withJSON(op string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := s.tracer.Start(r.Context(), op)
		defer span.End()
		applyAPISecurityHeaders(w.Header())
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		}
		h(w, r.WithContext(ctx))
	}
}

// traced wraps the non-JSON render handlers with a span and the API
// security headers; the handler sets its own content type.
func (s *Server) traced(op string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := s.tracer.Start(r.Context(), op)
		defer span.End()
		applyAPISecurityHeaders(w.Header())
		h(w, r.WithContext(ctx))
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, msg string) {
	trace.SpanFromContext(ctx).SetStatus(codes.Error, msg)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	writeJSON(w, map[string]string{"error": msg})
}

func applyAPISecurityHeaders(h http.Header) {
	h.Set("Content-Security-Policy", apiCSP)
	h.Set("Cross-Origin-Opener-Policy", "same-origin")
	h.Set("Cross-Origin-Embedder-Policy", "require-corp")
	h.Set("Cache-Control", "no-store")
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func newMatchID() (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf[:]), nil
}

// parsePoint reads a cell like "0,0" from a query parameter.
func parsePoint(q string) (grid.Point, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, errors.New("cell coordinates are required")
	}
	parts := strings.Split(q, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bad coordinate %q", part)
		}
		out = append(out, n)
	}
	return grid.New(out...), nil
}

// ---- API: variants ----

func (s *Server) handleVariants(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"variants": s.reg.Names()})
}

// ---- API: matches ----

type matchSummary struct {
	ID        string    `json:"id"`
	Variant   string    `json:"variant"`
	Shape     []int     `json:"shape"`
	Players   []string  `json:"players"`
	Status    string    `json:"status"`
	Plies     int       `json:"plies"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func summarize(rec storage.MatchRecord) matchSummary {
	return matchSummary{
		ID:        rec.ID,
		Variant:   rec.Variant,
		Shape:     rec.Shape,
		Players:   rec.Players,
		Status:    rec.Status,
		Plies:     rec.Plies,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

type createMatchBody struct {
	Variant string `json:"variant"`
	ID      string `json:"id"`
}

func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer r.Body.Close()
	var body createMatchBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if isBodyTooLarge(err) {
			writeError(ctx, w, http.StatusRequestEntityTooLarge, "request too large")
			return
		}
		writeError(ctx, w, http.StatusBadRequest, "invalid json")
		return
	}
	name := strings.TrimSpace(body.Variant)
	if name == "" {
		writeError(ctx, w, http.StatusBadRequest, "variant is required")
		return
	}
	id := strings.TrimSpace(body.ID)
	if id == "" {
		var err error
		if id, err = newMatchID(); err != nil {
			writeError(ctx, w, http.StatusInternalServerError, "mint match id")
			return
		}
	}

	sess, err := s.manager.Create(ctx, name, id)
	switch {
	case errors.Is(err, ErrUnknownVariant):
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, ErrMatchExists):
		writeError(ctx, w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}

	sess.mu.Lock()
	st := sess.m.State()
	players := sess.m.Players()
	sess.mu.Unlock()

	tokens, err := s.mintTokens(id, players)
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("match.id", id),
		attribute.String("match.variant", name),
	)
	writeJSON(w, map[string]any{"state": st, "tokens": tokens})
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recs, err := s.manager.List(ctx)
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]matchSummary, 0, len(recs))
	for _, rec := range recs {
		out = append(out, summarize(rec))
	}
	writeJSON(w, map[string]any{"matches": out})
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := s.loadSession(ctx, w, r.PathValue("id"))
	if !ok {
		return
	}
	sess.mu.Lock()
	st := sess.m.State()
	sess.mu.Unlock()
	writeJSON(w, map[string]any{"state": st})
}

// loadSession resolves the match id or writes the error response.
func (s *Server) loadSession(ctx context.Context, w http.ResponseWriter, id string) (*session, bool) {
	sess, err := s.manager.Load(ctx, id)
	if errors.Is(err, ErrMatchNotFound) {
		writeError(ctx, w, http.StatusNotFound, err.Error())
		return nil, false
	}
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("match.id", id))
	return sess, true
}

// ---- API: moves ----

type candidate struct {
	Choice int            `json:"choice"`
	Ops    []match.WireOp `json:"ops"`
}

func (s *Server) handleLegalMoves(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	at, err := parsePoint(r.URL.Query().Get("at"))
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}
	sess, ok := s.loadSession(ctx, w, r.PathValue("id"))
	if !ok {
		return
	}

	sess.mu.Lock()
	seqs, err := sess.m.Legal(at)
	sess.mu.Unlock()
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}
	moves := make([]candidate, 0, len(seqs))
	for i, seq := range seqs {
		ops, err := match.EncodeSequence(seq)
		if err != nil {
			writeError(ctx, w, http.StatusInternalServerError, err.Error())
			return
		}
		moves = append(moves, candidate{Choice: i, Ops: ops})
	}
	writeJSON(w, map[string]any{"at": []int(at), "moves": moves})
}

type playMoveBody struct {
	At     []int `json:"at"`
	Choice int   `json:"choice"`
}

func (s *Server) handlePlayMove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	defer r.Body.Close()
	var body playMoveBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if isBodyTooLarge(err) {
			writeError(ctx, w, http.StatusRequestEntityTooLarge, "request too large")
			return
		}
		writeError(ctx, w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(body.At) == 0 {
		writeError(ctx, w, http.StatusBadRequest, "at is required")
		return
	}

	player, err := s.authorize(r, id)
	if err != nil {
		writeError(ctx, w, http.StatusUnauthorized, err.Error())
		return
	}
	sess, ok := s.loadSession(ctx, w, id)
	if !ok {
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if player != "" && string(sess.m.Turn()) != player {
		writeError(ctx, w, http.StatusForbidden, "not this player's turn")
		return
	}
	ply, err := sess.m.Play(grid.New(body.At...), body.Choice)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.manager.persistPlay(ctx, sess, ply); err != nil {
		writeError(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, map[string]any{"state": sess.m.State()})
}

func (s *Server) handleUndoMove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	if r.Body != nil {
		r.Body.Close()
	}

	player, err := s.authorize(r, id)
	if err != nil {
		writeError(ctx, w, http.StatusUnauthorized, err.Error())
		return
	}
	sess, ok := s.loadSession(ctx, w, id)
	if !ok {
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if player != "" && sess.m.Plies() > 0 {
		hist := sess.m.History()
		if last := hist[len(hist)-1]; string(last.Player) != player {
			writeError(ctx, w, http.StatusForbidden, "token does not own the last ply")
			return
		}
	}
	if err := s.manager.undo(ctx, sess); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, match.ErrNoHistory) {
			status = http.StatusBadRequest
		}
		writeError(ctx, w, status, err.Error())
		return
	}
	writeJSON(w, map[string]any{"state": sess.m.State()})
}

// ---- board renders ----

func (s *Server) handleBoardSVG(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := s.loadSession(ctx, w, r.PathValue("id"))
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := render.SVG(w, sess.m.Board()); err != nil {
		log.Printf("render svg for %s: %v", sess.m.ID(), err)
	}
}

func (s *Server) handleBoardText(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := s.loadSession(ctx, w, r.PathValue("id"))
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(render.Text(sess.m.Board())))
}
