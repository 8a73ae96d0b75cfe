// path: internal/script/script.go

// Package script loads game variants written in Lua. A script builds a
// variant through the bound API and returns it:
//
//	local v = variant.new("hyper")
//	v:shape(3, 3, 3)
//	v:players("red", "blue")
//	v:piece("R", rules.slider{steps = {{1, 0, 0}}, capture = "always"})
//	v:place("red", "R", 0, 0, 0)
//	return v
//
// Movement rules are declarative slider/leaper tables or plain Lua
// functions called per query; see the bindings for the function form.
// Each script runs in its own Lua state. The state stays alive behind
// the returned variant because function rules re-enter it, guarded by a
// mutex.
package script

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Shopify/go-lua"
	"github.com/jcraver1021/flex-chess/internal/variant"
)

// Registry keys for state owned by this package.
const (
	loaderKey    = "flexchess.loader"
	ruleTableKey = "flexchess.rules"
	variantMeta  = "flexchess.variant"
	boardMeta    = "flexchess.board"
)

// loader owns one Lua state. Function rules lock it for every query.
type loader struct {
	mu    sync.Mutex
	state *lua.State
}

func newLoader() *loader {
	ld := &loader{state: lua.NewState()}
	lua.OpenLibraries(ld.state)
	ld.register()
	return ld
}

// LoadString builds a variant from Lua source. The name appears in
// errors only; the variant names itself via variant.new.
func LoadString(src, name string) (*variant.Variant, error) {
	ld := newLoader()
	l := ld.state
	if err := lua.LoadString(l, src); err != nil {
		return nil, fmt.Errorf("load script %s: %w", name, err)
	}
	if err := l.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run script %s: %w", name, err)
	}
	if l.TypeOf(-1) != lua.TypeUserData {
		l.Pop(1)
		return nil, fmt.Errorf("script %s must return a variant", name)
	}
	ud := l.ToUserData(-1)
	l.Pop(1)
	b, ok := ud.(*builder)
	if !ok || b == nil {
		return nil, fmt.Errorf("script %s returned something other than a variant", name)
	}
	v, err := b.finish()
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	return v, nil
}

// Load builds a variant from a script file.
func Load(path string) (*variant.Variant, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return LoadString(string(src), filepath.Base(path))
}

// LoadDir loads every .lua file of dir in name order into the registry
// and reports how many it registered. An empty dir path loads nothing.
func LoadDir(dir string, reg *variant.Registry) (int, error) {
	if strings.TrimSpace(dir) == "" {
		return 0, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read script dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".lua") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	count := 0
	for _, file := range files {
		v, err := Load(filepath.Join(dir, file))
		if err != nil {
			return count, err
		}
		if err := reg.Register(v); err != nil {
			return count, fmt.Errorf("register %s: %w", file, err)
		}
		count++
	}
	return count, nil
}
