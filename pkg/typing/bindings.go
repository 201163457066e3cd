package typing

import (
	"stilt/pkg/syntax"
	"stilt/pkg/types"
)

// typeCheck is a deferred "expression must have this type" obligation,
// used for return statements checked against the annotated return type.
type typeCheck struct {
	span    syntax.Span
	x       syntax.Expr // nil means an implicit None (bare return)
	require types.Ty
}

// exported is a top-level name, recorded for the module interface.
type exported struct {
	name    string
	binding syntax.BindingId
}

// bindings is everything one collection pass learns about a module:
// per-binding bind expressions in first-seen order, types known up front
// (defs, annotated parameters, loaded symbols), plain expressions to
// check, deferred type checks, and the exported top-level names.
type bindings struct {
	order     []syntax.BindingId
	exprs     map[syntax.BindingId][]syntax.BindExpr
	known     map[syntax.BindingId]types.Ty
	check     []syntax.Expr
	checkType []typeCheck
	exports   []exported
}

// collector walks the statement tree. It needs the typing context because
// annotations are translated eagerly, recording approximations for the
// ones it can't interpret.
type collector struct {
	ctx   *TypingContext
	loads map[string]*Interface
	out   bindings
}

func collectBindings(ctx *TypingContext, stmts []syntax.Stmt, loads map[string]*Interface) bindings {
	c := collector{
		ctx:   ctx,
		loads: loads,
		out: bindings{
			exprs: make(map[syntax.BindingId][]syntax.BindExpr),
			known: make(map[syntax.BindingId]types.Ty),
		},
	}
	for _, stmt := range stmts {
		c.stmt(stmt, true, nil)
	}
	return c.out
}

func (c *collector) add(id syntax.BindingId, b syntax.BindExpr) {
	if _, seen := c.out.exprs[id]; !seen {
		if _, known := c.out.known[id]; !known {
			c.out.order = append(c.out.order, id)
		}
	}
	c.out.exprs[id] = append(c.out.exprs[id], b)
}

func (c *collector) setKnown(id syntax.BindingId, ty types.Ty) {
	if _, known := c.out.known[id]; !known {
		if _, seen := c.out.exprs[id]; !seen {
			c.out.order = append(c.out.order, id)
		}
	}
	c.out.known[id] = ty
}

func (c *collector) export(id syntax.Ident) {
	if id.Binding != nil {
		c.out.exports = append(c.out.exports, exported{name: id.Name, binding: *id.Binding})
	}
}

// assign distributes a bind expression over an assignment target.
func (c *collector) assign(target syntax.Assign, bind syntax.BindExpr, topLevel bool) {
	switch t := target.(type) {
	case syntax.IdentAssign:
		if t.Ident.Binding != nil {
			c.add(*t.Ident.Binding, bind)
		}
		if topLevel {
			c.export(t.Ident)
		}
	case syntax.TupleAssign:
		for i, el := range t.Elts {
			c.assign(el, syntax.NewGetIndexBind(i, bind), topLevel)
		}
	case syntax.IndexAssign:
		if id, ok := t.X.(syntax.IdentExpr); ok && id.Ident.Binding != nil {
			c.add(*id.Ident.Binding, syntax.NewSetIndexBind(*id.Ident.Binding, t.Index, bind))
			return
		}
		// Base isn't a simple local; still surface errors in the parts.
		c.out.check = append(c.out.check, t.X, t.Index)
		c.checkBind(bind)
	case syntax.DotAssign:
		// Attribute assignment isn't tracked; check the pieces.
		c.out.check = append(c.out.check, t.X)
		c.checkBind(bind)
	}
}

// checkBind schedules the expressions inside a bind for plain checking,
// used when the bind can't be attached to any binding.
func (c *collector) checkBind(bind syntax.BindExpr) {
	switch b := bind.(type) {
	case syntax.ExprBind:
		c.out.check = append(c.out.check, b.X)
	case syntax.GetIndexBind:
		c.checkBind(b.Inner)
	case syntax.IterBind:
		c.checkBind(b.Inner)
	case syntax.AssignOpBind:
		c.out.check = append(c.out.check, b.X)
	}
}

func (c *collector) stmt(stmt syntax.Stmt, topLevel bool, returnTy types.Ty) {
	switch s := stmt.(type) {
	case syntax.AssignStmt:
		c.assign(s.Target, syntax.NewExprBind(s.X), topLevel)
	case syntax.AssignOpStmt:
		bind := syntax.NewAssignOpBind(s.Target, s.Op, s.X)
		switch t := s.Target.(type) {
		case syntax.IdentAssign:
			if t.Ident.Binding != nil {
				c.add(*t.Ident.Binding, bind)
			}
		case syntax.IndexAssign:
			if id, ok := t.X.(syntax.IdentExpr); ok && id.Ident.Binding != nil {
				c.add(*id.Ident.Binding, syntax.NewSetIndexBind(*id.Ident.Binding, t.Index, bind))
				return
			}
			c.out.check = append(c.out.check, t.X, t.Index, s.X)
		default:
			c.out.check = append(c.out.check, s.X)
		}
	case syntax.ExprStmt:
		// `x.append(e)` and `x.extend(e)` on a local mutate its type.
		if bind, ok := listMutation(s.X); ok {
			c.add(bindTarget(bind), bind)
			return
		}
		c.out.check = append(c.out.check, s.X)
	case syntax.ForStmt:
		c.assign(s.Vars, syntax.NewIterBind(syntax.NewExprBind(s.Over)), topLevel)
		for _, b := range s.Body {
			c.stmt(b, topLevel, returnTy)
		}
	case syntax.IfStmt:
		c.out.check = append(c.out.check, s.Cond)
		for _, b := range s.Then {
			c.stmt(b, topLevel, returnTy)
		}
		for _, b := range s.Else {
			c.stmt(b, topLevel, returnTy)
		}
	case syntax.DefStmt:
		c.def(s, topLevel)
	case syntax.ReturnStmt:
		if returnTy != nil {
			c.out.checkType = append(c.out.checkType, typeCheck{span: s.Span(), x: s.X, require: returnTy})
		} else if s.X != nil {
			c.out.check = append(c.out.check, s.X)
		}
	case syntax.LoadStmt:
		c.load(s, topLevel)
	}
}

func (c *collector) def(s syntax.DefStmt, topLevel bool) {
	// Annotations are translated once: the results feed both the function
	// type and the parameter bindings, so an uninterpretable annotation
	// records its approximation once.
	annots := make([]types.Ty, len(s.Params))
	for i, p := range s.Params {
		annots[i] = c.ctx.TyFromTypeExpr(p.Type)
	}
	ret := c.ctx.TyFromTypeExpr(s.Return)
	if s.Name.Binding != nil {
		c.setKnown(*s.Name.Binding, functionTy(s.Params, annots, ret))
	}
	if topLevel {
		c.export(s.Name)
	}
	for i, p := range s.Params {
		if p.Ident.Binding == nil {
			continue
		}
		annot := annots[i]
		var ty types.Ty
		switch p.Kind {
		case syntax.ParamStar:
			// *args collects positional overflow into a list of the
			// annotated element type.
			ty = types.List(annot)
		case syntax.ParamStarStar:
			ty = types.Dict(types.String(), annot)
		default:
			ty = annot
		}
		c.setKnown(*p.Ident.Binding, ty)
		if p.Default != nil {
			c.out.checkType = append(c.out.checkType, typeCheck{span: p.Default.Span(), x: p.Default, require: annot})
		}
	}
	for _, b := range s.Body {
		c.stmt(b, false, ret)
	}
}

// functionTy builds the callable type of a def from its signature and the
// already-translated annotations.
func functionTy(defParams []syntax.DefParam, annots []types.Ty, ret types.Ty) types.Ty {
	params := make([]types.Param, 0, len(defParams))
	seenStar := false
	for i, p := range defParams {
		switch p.Kind {
		case syntax.ParamStar:
			seenStar = true
			if p.Ident.Name != "" {
				params = append(params, types.Args(annots[i]))
			}
		case syntax.ParamStarStar:
			params = append(params, types.Kwargs(annots[i]))
		default:
			var param types.Param
			if seenStar {
				param = types.NameOnly(p.Ident.Name, annots[i])
			} else {
				param = types.PosOrName(p.Ident.Name, annots[i])
			}
			if p.Default != nil {
				param = param.Opt()
			}
			params = append(params, param)
		}
	}
	return types.NewFunction(params, ret)
}

func (c *collector) load(s syntax.LoadStmt, topLevel bool) {
	iface, okModule := c.loads[s.Module]
	for _, sym := range s.Names {
		if sym.Local.Binding == nil {
			continue
		}
		var ty types.Ty
		switch {
		case !okModule:
			ty = c.ctx.Approximation("load", s.Module)
		default:
			var ok bool
			ty, ok = iface.Export(sym.Their)
			if !ok {
				c.ctx.addError(sym.Local.Pos, "Module `%s` has no symbol `%s`", s.Module, sym.Their)
				// Carry on with Any: one bad load shouldn't poison the
				// whole module.
				ty = types.AnyType{}
			}
		}
		c.setKnown(*sym.Local.Binding, ty)
		if topLevel {
			c.export(sym.Local)
		}
	}
}

// listMutation matches `ident.append(x)` and `ident.extend(x)` calls on a
// resolved local binding.
func listMutation(x syntax.Expr) (syntax.BindExpr, bool) {
	call, ok := x.(syntax.CallExpr)
	if !ok || len(call.Args) != 1 || call.Args[0].Kind != syntax.ArgPos {
		return nil, false
	}
	dot, ok := call.Fn.(syntax.DotExpr)
	if !ok {
		return nil, false
	}
	id, ok := dot.X.(syntax.IdentExpr)
	if !ok || id.Ident.Binding == nil {
		return nil, false
	}
	switch dot.Name {
	case "append":
		return syntax.NewListAppendBind(*id.Ident.Binding, call.Args[0].X), true
	case "extend":
		return syntax.NewListExtendBind(*id.Ident.Binding, call.Args[0].X), true
	}
	return nil, false
}

func bindTarget(b syntax.BindExpr) syntax.BindingId {
	switch bb := b.(type) {
	case syntax.ListAppendBind:
		return bb.Target
	case syntax.ListExtendBind:
		return bb.Target
	}
	return 0
}
