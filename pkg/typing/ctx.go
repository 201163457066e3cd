package typing

import (
	"stilt/pkg/syntax"
	"stilt/pkg/types"
)

// TypingContext is a per-typecheck-pass session: an oracle, higher-level
// builtins, the binding environment and the two diagnostics accumulators.
// The walking methods take the context by pointer and append diagnostics
// directly; one checker pass owns its context for its whole lifetime.
type TypingContext struct {
	oracle         OracleCtx
	globals        *Builtins
	types          map[syntax.BindingId]types.Ty
	errors         []types.TypingError
	approximations []types.Approximation
}

func NewTypingContext(oracle types.Oracle, globals *Builtins) *TypingContext {
	return &TypingContext{
		oracle:  OracleCtx{Oracle: oracle},
		globals: globals,
		types:   make(map[syntax.BindingId]types.Ty),
	}
}

// BindingType returns the inferred type of a binding, if solved.
func (ctx *TypingContext) BindingType(id syntax.BindingId) (types.Ty, bool) {
	t, ok := ctx.types[id]
	return t, ok
}

// Attribute and Subtype make *TypingContext a types.AttrCtx.
func (ctx *TypingContext) Attribute(ty types.Ty, attr types.Attr) (types.Ty, types.AttrOutcome) {
	return ctx.oracle.Attribute(ty, attr)
}

func (ctx *TypingContext) Subtype(require, got string) bool {
	return ctx.oracle.Subtype(require, got)
}

func (ctx *TypingContext) addError(span syntax.Span, format string, args ...any) types.Ty {
	ctx.errors = append(ctx.errors, types.Errorf(span, format, args...))
	return types.NeverType{}
}

// Approximation records an imprecise-inference notice and degrades to Any.
func (ctx *TypingContext) Approximation(category, message string) types.Ty {
	ctx.approximations = append(ctx.approximations, types.NewApproximation(category, message))
	return types.AnyType{}
}

func (ctx *TypingContext) validateCall(fun types.Ty, args []types.Arg, span syntax.Span) types.Ty {
	ty, err := ctx.oracle.ValidateCall(span, fun, args)
	if err != nil {
		ctx.errors = append(ctx.errors, *err)
		// A failed call poisons downstream expressions as unreachable,
		// which catches cascading dead code.
		return types.NeverType{}
	}
	return ty
}

func (ctx *TypingContext) fromIterated(ty types.Ty, span syntax.Span) types.Ty {
	return ctx.expressionAttribute(ty, types.IterAttr(), span)
}

// ValidateType records an error when got cannot be of type require.
func (ctx *TypingContext) ValidateType(got, require types.Ty, span syntax.Span) {
	if err := ctx.oracle.ValidateType(got, require, span); err != nil {
		ctx.errors = append(ctx.errors, *err)
	}
}

func (ctx *TypingContext) builtin(name string, span syntax.Span) types.Ty {
	if ty, ok := ctx.globals.Builtin(name); ok {
		return ty
	}
	return ctx.addError(span, "The builtin `%s` is not known", name)
}

func (ctx *TypingContext) expressionAttribute(ty types.Ty, attr types.Attr, span syntax.Span) types.Ty {
	if r, ok := types.Attribute(ty, attr, ctx); ok {
		return r
	}
	return ctx.addError(span, "The attribute `%s` is not available on the type `%s`", attr, ty)
}

func (ctx *TypingContext) expressionPrimitiveTy(attr types.Attr, arg0 types.Ty, args []types.Ty, span syntax.Span) types.Ty {
	fun := ctx.expressionAttribute(arg0, attr, span)
	posArgs := make([]types.Arg, 0, len(args))
	for _, a := range args {
		posArgs = append(posArgs, types.PosArg(a))
	}
	return ctx.validateCall(fun, posArgs, span)
}

func (ctx *TypingContext) expressionPrimitive(attr types.Attr, args []syntax.Expr, span syntax.Span) types.Ty {
	t0 := ctx.ExpressionType(args[0])
	rest := make([]types.Ty, 0, len(args)-1)
	for _, a := range args[1:] {
		rest = append(rest, ctx.ExpressionType(a))
	}
	return ctx.expressionPrimitiveTy(attr, t0, rest, span)
}

// ExpressionBindType types an assignment-target-derived expression.
func (ctx *TypingContext) ExpressionBindType(x syntax.BindExpr) types.Ty {
	switch b := x.(type) {
	case syntax.ExprBind:
		return ctx.ExpressionType(b.X)
	case syntax.GetIndexBind:
		return types.Indexed(ctx.ExpressionBindType(b.Inner), b.Index)
	case syntax.IterBind:
		return ctx.fromIterated(ctx.ExpressionBindType(b.Inner), b.Span())
	case syntax.AssignOpBind:
		rhs := ctx.ExpressionType(b.X)
		lhs := ctx.expressionAssign(b.Target)
		return ctx.expressionPrimitiveTy(types.BinOpAttr(b.Op), lhs, []types.Ty{rhs}, b.Target.Span())
	case syntax.SetIndexBind:
		span := b.Index.Span()
		index := ctx.ExpressionType(b.Index)
		e := ctx.ExpressionBindType(b.Inner)
		cur, ok := ctx.types[b.Target]
		if !ok {
			cur = types.AnyType{}
		}
		if types.IsList(cur) {
			// If it MUST be a list, the index must be an int.
			ctx.ValidateType(index, types.Int(), span)
		}
		var res []types.Ty
		// We know about list and dict; any other alternative is neither
		// proven nor refuted, so it is skipped.
		for _, ty := range types.IterUnion(cur) {
			switch ty.(type) {
			case types.ListType:
				res = append(res, types.List(e))
			case types.DictType:
				res = append(res, types.Dict(index, e))
			}
		}
		return types.Unions(res)
	case syntax.ListAppendBind:
		if ty, ok := ctx.types[b.Target]; ok && types.ProbablyAList(ty, ctx.oracle) {
			return types.List(ctx.ExpressionType(b.X))
		}
		// Doesn't seem to be a list, so assume the append is non-mutating.
		return types.NeverType{}
	case syntax.ListExtendBind:
		if ty, ok := ctx.types[b.Target]; ok && types.ProbablyAList(ty, ctx.oracle) {
			return types.List(ctx.fromIterated(ctx.ExpressionType(b.X), b.X.Span()))
		}
		return types.NeverType{}
	default:
		return ctx.Approximation("expression_bind_type", "unknown bind expression")
	}
}

// expressionAssign types an assignment target used as the read half of an
// augmented assignment.
func (ctx *TypingContext) expressionAssign(x syntax.Assign) types.Ty {
	switch a := x.(type) {
	case syntax.TupleAssign:
		return ctx.Approximation("expression_assignment", "tuple target")
	case syntax.IndexAssign:
		return ctx.expressionPrimitive(types.IndexAttr(), []syntax.Expr{a.X, a.Index}, x.Span())
	case syntax.DotAssign:
		return ctx.Approximation("expression_assignment", "dot target")
	case syntax.IdentAssign:
		if a.Ident.Binding != nil {
			if ty, ok := ctx.types[*a.Ident.Binding]; ok {
				return ty
			}
		}
		return ctx.Approximation("expression_assignment", a.Ident.Name)
	default:
		return ctx.Approximation("expression_assignment", "unknown target")
	}
}

// checkComprehension binds the clause variables and walks the guard
// expressions. Clause types don't affect the comprehension's type but the
// bound variables do flow into the body.
func (ctx *TypingContext) checkComprehension(forClause syntax.ForClause, clauses []syntax.CompClause) {
	ctx.bindForClause(forClause)
	for _, c := range clauses {
		switch {
		case c.For != nil:
			ctx.bindForClause(*c.For)
		case c.If != nil:
			ctx.ExpressionType(c.If)
		}
	}
}

func (ctx *TypingContext) bindForClause(f syntax.ForClause) {
	elt := ctx.fromIterated(ctx.ExpressionType(f.Over), f.Over.Span())
	ctx.assignLocal(f.Vars, elt)
}

func (ctx *TypingContext) assignLocal(target syntax.Assign, ty types.Ty) {
	switch t := target.(type) {
	case syntax.IdentAssign:
		if t.Ident.Binding != nil {
			ctx.types[*t.Ident.Binding] = ty
		}
	case syntax.TupleAssign:
		for i, el := range t.Elts {
			ctx.assignLocal(el, types.Indexed(ty, i))
		}
	}
}

// ExpressionType computes the type of an expression. Total: every
// expression maps to a type, with failures recorded as diagnostics so the
// walk always completes.
func (ctx *TypingContext) ExpressionType(x syntax.Expr) types.Ty {
	span := x.Span()
	switch e := x.(type) {
	case syntax.TupleExpr:
		elts := make([]types.Ty, 0, len(e.Elts))
		for _, el := range e.Elts {
			elts = append(elts, ctx.ExpressionType(el))
		}
		return types.TupleType{Elts: elts}
	case syntax.DotExpr:
		return ctx.expressionAttribute(ctx.ExpressionType(e.X), types.Regular(e.Name), e.NameSpan)
	case syntax.CallExpr:
		args := make([]types.Arg, 0, len(e.Args))
		for _, a := range e.Args {
			switch a.Kind {
			case syntax.ArgPos:
				args = append(args, types.PosArg(ctx.ExpressionType(a.X)))
			case syntax.ArgNamed:
				args = append(args, types.NamedArg(a.Name, ctx.ExpressionType(a.X)))
			case syntax.ArgStar:
				ty := ctx.ExpressionType(a.X)
				ctx.fromIterated(ty, a.X.Span())
				args = append(args, types.ArgsArg(ty))
			case syntax.ArgStarStar:
				ty := ctx.ExpressionType(a.X)
				ctx.ValidateType(ty, types.Dict(types.String(), types.AnyType{}), a.X.Span())
				args = append(args, types.KwargsArg(ty))
			}
		}
		fTy := ctx.ExpressionType(e.Fn)
		// Even when the argument types are imprecise the result type is
		// known, since the args don't impact it.
		return ctx.validateCall(fTy, args, span)
	case syntax.IndexExpr:
		return ctx.expressionPrimitive(types.IndexAttr(), []syntax.Expr{e.X, e.Index}, span)
	case syntax.SliceExpr:
		for _, idx := range []syntax.Expr{e.Start, e.Stop, e.Stride} {
			if idx != nil {
				ctx.ValidateType(ctx.ExpressionType(idx), types.Int(), idx.Span())
			}
		}
		return ctx.expressionAttribute(ctx.ExpressionType(e.X), types.SliceAttr(), span)
	case syntax.IdentExpr:
		switch {
		case e.Ident.Binding != nil:
			if ty, ok := ctx.types[*e.Ident.Binding]; ok {
				return ty
			}
			// Bindings are solved in definition order; a miss is a forward
			// reference we don't model.
			return ctx.Approximation("unsolved binding", e.Ident.Name)
		case e.Ident.Global != nil:
			if tg, ok := e.Ident.Global.(TypedGlobal); ok {
				return tg.TypecheckerTy()
			}
			return ctx.builtin(e.Ident.Name, e.Ident.Pos)
		default:
			// Scope resolution failed and was reported elsewhere; keep
			// checking with Any.
			return ctx.Approximation("unresolved identifier", e.Ident.Name)
		}
	case syntax.LambdaExpr:
		ctx.Approximation("lambda", "lambda bodies are not type checked")
		return types.Name("function")
	case syntax.LiteralExpr:
		switch e.Kind {
		case syntax.LitInt:
			return types.Int()
		case syntax.LitFloat:
			return types.Float()
		case syntax.LitString:
			return types.String()
		case syntax.LitBool:
			return types.Bool()
		default:
			return types.None()
		}
	case syntax.UnaryExpr:
		if e.Op == syntax.OpNot {
			if types.IsNever(ctx.ExpressionType(e.X)) {
				return types.NeverType{}
			}
			return types.Bool()
		}
		return ctx.expressionPrimitive(types.UnOpAttr(e.Op), []syntax.Expr{e.X}, span)
	case syntax.BinaryExpr:
		return ctx.binaryType(e, span)
	case syntax.CondExpr:
		c := ctx.ExpressionType(e.Cond)
		t := ctx.ExpressionType(e.Then)
		f := ctx.ExpressionType(e.Else)
		if types.IsNever(c) {
			return types.NeverType{}
		}
		return types.Union2(t, f)
	case syntax.ListExpr:
		elts := make([]types.Ty, 0, len(e.Elts))
		for _, el := range e.Elts {
			elts = append(elts, ctx.ExpressionType(el))
		}
		return types.List(types.Unions(elts))
	case syntax.DictExpr:
		var ks, vs []types.Ty
		for _, entry := range e.Entries {
			ks = append(ks, ctx.ExpressionType(entry.Key))
			vs = append(vs, ctx.ExpressionType(entry.Value))
		}
		return types.Dict(types.Unions(ks), types.Unions(vs))
	case syntax.ListCompExpr:
		ctx.checkComprehension(e.For, e.Clauses)
		return types.List(ctx.ExpressionType(e.Body))
	case syntax.DictCompExpr:
		ctx.checkComprehension(e.For, e.Clauses)
		return types.Dict(ctx.ExpressionType(e.Key), ctx.ExpressionType(e.Value))
	default:
		return ctx.Approximation("expression_type", "unknown expression")
	}
}

func (ctx *TypingContext) binaryType(e syntax.BinaryExpr, span syntax.Span) types.Ty {
	lhs := ctx.ExpressionType(e.X)
	rhs := ctx.ExpressionType(e.Y)
	boolRet := types.Ty(types.Bool())
	if types.IsNever(lhs) || types.IsNever(rhs) {
		boolRet = types.NeverType{}
	}
	switch e.Op {
	case syntax.OpAnd, syntax.OpOr:
		if types.IsNever(lhs) {
			return types.NeverType{}
		}
		return types.Union2(lhs, rhs)
	case syntax.OpEqual, syntax.OpNotEqual:
		// Comparing two unrelated types isn't a crash, but it is pointless.
		ctx.ValidateType(lhs, rhs, span)
		return boolRet
	case syntax.OpIn, syntax.OpNotIn:
		// `x in y` dispatches as y.__in__(x): containment is defined by
		// the container. The result is always bool.
		ctx.expressionPrimitiveTy(types.BinOpAttr(syntax.OpIn), rhs, []types.Ty{lhs}, span)
		return boolRet
	case syntax.OpLess, syntax.OpLessOrEqual, syntax.OpGreater, syntax.OpGreaterOrEqual:
		ctx.expressionPrimitiveTy(types.BinOpAttr(syntax.OpLess), lhs, []types.Ty{rhs}, span)
		return boolRet
	default:
		return ctx.expressionPrimitiveTy(types.BinOpAttr(e.Op), lhs, []types.Ty{rhs}, span)
	}
}

// Errors returns the hard diagnostics accumulated so far.
func (ctx *TypingContext) Errors() []types.TypingError { return ctx.errors }

// Approximations returns the soft diagnostics accumulated so far.
func (ctx *TypingContext) Approximations() []types.Approximation { return ctx.approximations }
