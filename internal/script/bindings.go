// path: internal/script/bindings.go
package script

import (
	"fmt"

	"github.com/Shopify/go-lua"
	"github.com/jcraver1021/flex-chess/internal/board"
	"github.com/jcraver1021/flex-chess/internal/grid"
	"github.com/jcraver1021/flex-chess/internal/rules"
	"github.com/jcraver1021/flex-chess/internal/variant"
)

// builder is the userdata behind variant.new. It accumulates the script
// declarations and assembles the variant once the script returns it.
type builder struct {
	ld         *loader
	name       string
	shape      grid.Point
	players    []board.Player
	placements []variant.Placement
	catalog    rules.Catalog
	nextRef    int
}

// ruleBox wraps a compiled generator produced by rules.slider or
// rules.leaper so :piece can tell it apart from a Lua function.
type ruleBox struct {
	gen board.Generator
}

// register installs the variant and board metatables plus the variant
// and rules globals into the loader's state.
func (ld *loader) register() {
	l := ld.state

	lua.NewMetaTable(l, variantMeta)
	l.NewTable()
	lua.SetFunctions(l, variantMethods, 0)
	l.SetField(-2, "__index")
	l.Pop(1)

	lua.NewMetaTable(l, boardMeta)
	l.NewTable()
	lua.SetFunctions(l, boardMethods, 0)
	l.SetField(-2, "__index")
	l.Pop(1)

	l.NewTable()
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "new", Function: variantNew},
	}, 0)
	l.SetGlobal("variant")

	l.NewTable()
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "slider", Function: ruleSlider},
		{Name: "leaper", Function: ruleLeaper},
	}, 0)
	l.SetGlobal("rules")

	// Table holding the script's function rules, keyed by ref.
	l.NewTable()
	l.SetField(lua.RegistryIndex, ruleTableKey)

	l.PushUserData(ld)
	l.SetField(lua.RegistryIndex, loaderKey)
}

func currentLoader(l *lua.State) *loader {
	l.Field(lua.RegistryIndex, loaderKey)
	ld, _ := l.ToUserData(-1).(*loader)
	l.Pop(1)
	if ld == nil {
		lua.Errorf(l, "loader missing from state")
	}
	return ld
}

func variantNew(l *lua.State) int {
	name := lua.CheckString(l, 1)
	b := &builder{
		ld:      currentLoader(l),
		name:    name,
		catalog: rules.Catalog{},
	}
	l.PushUserData(b)
	lua.SetMetaTableNamed(l, variantMeta)
	return 1
}

var variantMethods = []lua.RegistryFunction{
	{Name: "shape", Function: variantShape},
	{Name: "players", Function: variantPlayers},
	{Name: "piece", Function: variantPiece},
	{Name: "place", Function: variantPlace},
}

func checkVariant(l *lua.State) *builder {
	ud := lua.CheckUserData(l, 1, variantMeta)
	if b, ok := ud.(*builder); ok && b != nil {
		return b
	}
	lua.ArgumentError(l, 1, "variant expected")
	return nil
}

func variantShape(l *lua.State) int {
	b := checkVariant(l)
	top := l.Top()
	if top < 2 {
		lua.Errorf(l, "shape needs at least one extent")
	}
	shape := make(grid.Point, 0, top-1)
	for i := 2; i <= top; i++ {
		shape = append(shape, lua.CheckInteger(l, i))
	}
	b.shape = shape
	l.PushValue(1)
	return 1
}

func variantPlayers(l *lua.State) int {
	b := checkVariant(l)
	top := l.Top()
	if top < 2 {
		lua.Errorf(l, "players needs at least one name")
	}
	for i := 2; i <= top; i++ {
		b.players = append(b.players, board.Player(lua.CheckString(l, i)))
	}
	l.PushValue(1)
	return 1
}

// variantPiece binds movement rules to a token. Each rule is either the
// result of rules.slider/rules.leaper or a Lua function; functions are
// parked in the registry rule table and called per query.
func variantPiece(l *lua.State) int {
	b := checkVariant(l)
	token := lua.CheckString(l, 2)
	top := l.Top()
	if top < 3 {
		lua.Errorf(l, "piece %q needs at least one rule", token)
	}
	for i := 3; i <= top; i++ {
		switch l.TypeOf(i) {
		case lua.TypeUserData:
			box, ok := l.ToUserData(i).(*ruleBox)
			if !ok || box == nil {
				lua.ArgumentError(l, i, "rule expected")
			}
			b.catalog[token] = append(b.catalog[token], box.gen)
		case lua.TypeFunction:
			ref := b.nextRef
			b.nextRef++
			l.Field(lua.RegistryIndex, ruleTableKey)
			l.PushValue(i)
			l.RawSetInt(-2, ref)
			l.Pop(1)
			b.catalog[token] = append(b.catalog[token], &luaRule{
				ld:      b.ld,
				ref:     ref,
				catalog: b.catalog,
			})
		default:
			lua.ArgumentError(l, i, "rule or function expected")
		}
	}
	l.PushValue(1)
	return 1
}

func variantPlace(l *lua.State) int {
	b := checkVariant(l)
	player := lua.CheckString(l, 2)
	token := lua.CheckString(l, 3)
	top := l.Top()
	if top < 4 {
		lua.Errorf(l, "place needs coordinates")
	}
	at := make(grid.Point, 0, top-3)
	for i := 4; i <= top; i++ {
		at = append(at, lua.CheckInteger(l, i))
	}
	b.placements = append(b.placements, variant.Placement{
		Player: board.Player(player),
		Token:  token,
		At:     at,
	})
	l.PushValue(1)
	return 1
}

// ruleSlider compiles {steps = {vec, ...}, capture = "always"|"never"|
// "only"} into a ray generator.
func ruleSlider(l *lua.State) int {
	mode, dirs := ruleOpts(l)
	l.PushUserData(&ruleBox{gen: rules.Slider(mode, dirs...)})
	return 1
}

// ruleLeaper compiles the same option table into a fixed-offset jumper.
func ruleLeaper(l *lua.State) int {
	mode, offsets := ruleOpts(l)
	l.PushUserData(&ruleBox{gen: rules.Leaper(mode, offsets...)})
	return 1
}

func ruleOpts(l *lua.State) (rules.Mode, []grid.Point) {
	lua.CheckType(l, 1, lua.TypeTable)

	mode := rules.MoveOrCapture
	l.Field(1, "capture")
	if !l.IsNoneOrNil(-1) {
		s, _ := l.ToString(-1)
		switch s {
		case "always":
			mode = rules.MoveOrCapture
		case "never":
			mode = rules.MoveOnly
		case "only":
			mode = rules.CaptureOnly
		default:
			lua.Errorf(l, "capture must be always, never or only, got %q", s)
		}
	}
	l.Pop(1)

	l.Field(1, "steps")
	if l.TypeOf(-1) != lua.TypeTable {
		lua.Errorf(l, "steps must be a list of vectors")
	}
	var dirs []grid.Point
	for i := 1; ; i++ {
		l.RawGetInt(-1, i)
		if l.IsNoneOrNil(-1) {
			l.Pop(1)
			break
		}
		vec, err := pointAt(l, -1)
		if err != nil {
			lua.Errorf(l, "steps[%d]: %s", i, err.Error())
		}
		dirs = append(dirs, vec)
		l.Pop(1)
	}
	l.Pop(1)
	if len(dirs) == 0 {
		lua.Errorf(l, "steps must name at least one vector")
	}
	return mode, dirs
}

// pointAt reads a coordinate vector from the table at idx. Table
// indices are 1-based; the coordinate values themselves stay 0-based.
func pointAt(l *lua.State, idx int) (grid.Point, error) {
	idx = l.AbsIndex(idx)
	if l.TypeOf(idx) != lua.TypeTable {
		return nil, fmt.Errorf("not a coordinate table")
	}
	var p grid.Point
	for i := 1; ; i++ {
		l.RawGetInt(idx, i)
		if l.IsNoneOrNil(-1) {
			l.Pop(1)
			break
		}
		n, ok := l.ToInteger(-1)
		if !ok {
			l.Pop(1)
			return nil, fmt.Errorf("component %d is not an integer", i)
		}
		p = append(p, n)
		l.Pop(1)
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("empty coordinate table")
	}
	return p, nil
}

func pushPoint(l *lua.State, p grid.Point) {
	l.NewTable()
	for i, c := range p {
		l.PushInteger(c)
		l.RawSetInt(-2, i+1)
	}
}

// finish assembles the accumulated declarations into a variant.
func (b *builder) finish() (*variant.Variant, error) {
	if len(b.shape) == 0 {
		return nil, fmt.Errorf("variant %q has no shape", b.name)
	}
	if len(b.players) == 0 {
		return nil, fmt.Errorf("variant %q has no players", b.name)
	}
	return &variant.Variant{
		Name:       b.name,
		Shape:      b.shape,
		Players:    b.players,
		Placements: b.placements,
		Catalog:    b.catalog,
	}, nil
}
