package typing

import (
	"maps"
	"slices"
	"strings"

	"stilt/pkg/syntax"
	"stilt/pkg/types"
)

// Interface is the exported surface of a checked module: its public
// top-level names and their types. Interfaces feed load statements of
// dependent modules.
type Interface struct {
	byName map[string]types.Ty
}

func NewInterface() *Interface {
	return &Interface{byName: make(map[string]types.Ty)}
}

func (i *Interface) Add(name string, ty types.Ty) {
	i.byName[name] = ty
}

func (i *Interface) Export(name string) (types.Ty, bool) {
	ty, ok := i.byName[name]
	return ty, ok
}

// Names returns the exported names in sorted order.
func (i *Interface) Names() []string {
	return slices.Sorted(maps.Keys(i.byName))
}

// CheckResult is everything one typecheck pass produced.
type CheckResult struct {
	Errors         []types.TypingError
	Approximations []types.Approximation
	Types          map[syntax.BindingId]types.Ty
	Interface      *Interface
}

// CheckModule typechecks a resolved module. It never aborts: all
// diagnostics are accumulated and every binding ends up with a type.
// loads maps module paths to the interfaces of previously checked
// modules; a load of an unlisted module degrades to Any.
func CheckModule(stmts []syntax.Stmt, oracle types.Oracle, globals *Builtins, loads map[string]*Interface) *CheckResult {
	ctx := NewTypingContext(oracle, globals)
	bs := collectBindings(ctx, stmts, loads)

	for id, ty := range bs.known {
		ctx.types[id] = ty
	}

	// Bindings are solved in first-seen order, each one's type growing as
	// its bind expressions are folded in. Writing the running union back
	// before the next bind lets self-referencing binds (augmented
	// assignment, append) observe the type so far.
	for _, id := range bs.order {
		cur, ok := ctx.types[id]
		if !ok {
			cur = types.NeverType{}
		}
		ctx.types[id] = cur
		for _, b := range bs.exprs[id] {
			cur = types.Union2(cur, ctx.ExpressionBindType(b))
			ctx.types[id] = cur
		}
	}

	for _, x := range bs.check {
		ctx.ExpressionType(x)
	}
	for _, tc := range bs.checkType {
		span := tc.span
		got := types.None()
		if tc.x != nil {
			span = tc.x.Span()
			got = ctx.ExpressionType(tc.x)
		}
		ctx.ValidateType(got, tc.require, span)
	}

	iface := NewInterface()
	for _, e := range bs.exports {
		if strings.HasPrefix(e.name, "_") {
			continue
		}
		ty, ok := ctx.types[e.binding]
		if !ok {
			ty = types.AnyType{}
		}
		iface.Add(e.name, ty)
	}

	return &CheckResult{
		Errors:         ctx.errors,
		Approximations: ctx.approximations,
		Types:          ctx.types,
		Interface:      iface,
	}
}
