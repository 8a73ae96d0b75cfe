// path: internal/script/generator.go
package script

import (
	"fmt"

	"github.com/Shopify/go-lua"
	"github.com/jcraver1021/flex-chess/internal/board"
	"github.com/jcraver1021/flex-chess/internal/grid"
	"github.com/jcraver1021/flex-chess/internal/rules"
)

// luaRule is a movement rule written as a Lua function. Each query
// re-enters the script's state under the loader mutex, calls the
// function with a board handle and the piece's cell, and parses the
// returned move list.
type luaRule struct {
	ld      *loader
	ref     int
	catalog rules.Catalog
}

// boardHandle is the read-only board view handed to Lua rules.
type boardHandle struct {
	b *board.Board
}

var boardMethods = []lua.RegistryFunction{
	{Name: "shape", Function: boardShape},
	{Name: "contains", Function: boardContains},
	{Name: "at", Function: boardAt},
}

// Sequences implements board.Generator.
func (r *luaRule) Sequences(b *board.Board, at grid.Point) ([]board.Sequence, error) {
	r.ld.mu.Lock()
	defer r.ld.mu.Unlock()
	l := r.ld.state
	top := l.Top()
	defer l.SetTop(top)

	l.Field(lua.RegistryIndex, ruleTableKey)
	l.RawGetInt(-1, r.ref)
	if l.TypeOf(-1) != lua.TypeFunction {
		return nil, fmt.Errorf("lua rule %d is gone from the registry", r.ref)
	}
	l.PushUserData(&boardHandle{b: b})
	lua.SetMetaTableNamed(l, boardMeta)
	pushPoint(l, at)
	if err := l.ProtectedCall(2, 1, 0); err != nil {
		return nil, fmt.Errorf("lua rule: %w", err)
	}
	seqs, err := r.parseMoves(l)
	if err != nil {
		return nil, fmt.Errorf("lua rule: %w", err)
	}
	return seqs, nil
}

// parseMoves reads the rule's return value at the top of the stack:
// nil for no moves, otherwise a list of moves, each a list of steps.
func (r *luaRule) parseMoves(l *lua.State) ([]board.Sequence, error) {
	if l.IsNoneOrNil(-1) {
		return nil, nil
	}
	if l.TypeOf(-1) != lua.TypeTable {
		return nil, fmt.Errorf("rule must return a move list or nil")
	}
	moves := l.AbsIndex(-1)
	var out []board.Sequence
	for i := 1; ; i++ {
		l.RawGetInt(moves, i)
		if l.IsNoneOrNil(-1) {
			l.Pop(1)
			break
		}
		seq, err := r.parseMove(l)
		l.Pop(1)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i, err)
		}
		out = append(out, seq)
	}
	return out, nil
}

func (r *luaRule) parseMove(l *lua.State) (board.Sequence, error) {
	if l.TypeOf(-1) != lua.TypeTable {
		return nil, fmt.Errorf("not a step list")
	}
	move := l.AbsIndex(-1)
	var seq board.Sequence
	for i := 1; ; i++ {
		l.RawGetInt(move, i)
		if l.IsNoneOrNil(-1) {
			l.Pop(1)
			break
		}
		step, err := r.parseStep(l)
		l.Pop(1)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		seq = append(seq, step)
	}
	if len(seq) == 0 {
		return nil, fmt.Errorf("empty move")
	}
	return seq, nil
}

// parseStep reads one step table: {from = vec, to = vec} moves a piece,
// {remove = vec} clears a cell, {place = {owner, token}, at = vec}
// introduces a fresh piece.
func (r *luaRule) parseStep(l *lua.State) (board.Mutation, error) {
	var zero board.Mutation
	if l.TypeOf(-1) != lua.TypeTable {
		return zero, fmt.Errorf("not a table")
	}
	step := l.AbsIndex(-1)

	l.Field(step, "remove")
	if !l.IsNoneOrNil(-1) {
		at, err := pointAt(l, -1)
		l.Pop(1)
		if err != nil {
			return zero, fmt.Errorf("remove: %w", err)
		}
		return board.Mutation{Target: at}, nil
	}
	l.Pop(1)

	l.Field(step, "place")
	if !l.IsNoneOrNil(-1) {
		pc, err := r.mintPiece(l)
		l.Pop(1)
		if err != nil {
			return zero, err
		}
		l.Field(step, "at")
		at, err := pointAt(l, -1)
		l.Pop(1)
		if err != nil {
			return zero, fmt.Errorf("place at: %w", err)
		}
		return board.Mutation{Piece: pc, Target: at}, nil
	}
	l.Pop(1)

	l.Field(step, "from")
	from, fromErr := pointAt(l, -1)
	l.Pop(1)
	l.Field(step, "to")
	to, toErr := pointAt(l, -1)
	l.Pop(1)
	if fromErr != nil || toErr != nil {
		return zero, fmt.Errorf("step needs from/to, remove or place")
	}
	return board.Mutation{Source: from, Target: to}, nil
}

// mintPiece builds the piece named by the place table at the top of the
// stack. The token must already be in the variant's catalog.
func (r *luaRule) mintPiece(l *lua.State) (*board.Piece, error) {
	if l.TypeOf(-1) != lua.TypeTable {
		return nil, fmt.Errorf("place: not a table")
	}
	place := l.AbsIndex(-1)
	l.Field(place, "owner")
	owner, ok := l.ToString(-1)
	l.Pop(1)
	if !ok || owner == "" {
		return nil, fmt.Errorf("place: owner missing")
	}
	l.Field(place, "token")
	token, ok := l.ToString(-1)
	l.Pop(1)
	if !ok || token == "" {
		return nil, fmt.Errorf("place: token missing")
	}
	gens := r.catalog.Generators(token)
	if gens == nil {
		return nil, fmt.Errorf("place: unknown token %q", token)
	}
	return board.NewPiece(board.Player(owner), token, gens...), nil
}

func checkBoard(l *lua.State) *boardHandle {
	ud := lua.CheckUserData(l, 1, boardMeta)
	if h, ok := ud.(*boardHandle); ok && h != nil {
		return h
	}
	lua.ArgumentError(l, 1, "board expected")
	return nil
}

func boardShape(l *lua.State) int {
	h := checkBoard(l)
	pushPoint(l, h.b.Shape())
	return 1
}

func boardContains(l *lua.State) int {
	h := checkBoard(l)
	p, err := pointAt(l, 2)
	if err != nil {
		lua.ArgumentError(l, 2, err.Error())
	}
	l.PushBoolean(h.b.Contains(p))
	return 1
}

// boardAt returns nil for an empty cell or {owner, token} for an
// occupied one. Out-of-bounds cells raise, which surfaces as a query
// error on the Go side.
func boardAt(l *lua.State) int {
	h := checkBoard(l)
	p, err := pointAt(l, 2)
	if err != nil {
		lua.ArgumentError(l, 2, err.Error())
	}
	pc, err := h.b.At(p)
	if err != nil {
		lua.Errorf(l, "at %v: %s", p, err.Error())
	}
	if pc == nil {
		l.PushNil()
		return 1
	}
	l.NewTable()
	l.PushString(string(pc.Owner()))
	l.SetField(-2, "owner")
	l.PushString(pc.Token())
	l.SetField(-2, "token")
	return 1
}
