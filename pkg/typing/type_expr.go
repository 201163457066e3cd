package typing

import (
	"fmt"
	"strings"

	"stilt/pkg/syntax"
	"stilt/pkg/types"
)

// TyFromTypeExpr translates a type annotation expression into a Ty.
// Annotations the checker can't interpret degrade to Any with an
// approximation, never an error: an opaque annotation still runs fine.
func (ctx *TypingContext) TyFromTypeExpr(x syntax.Expr) types.Ty {
	if x == nil {
		return types.AnyType{}
	}
	switch e := x.(type) {
	case syntax.LiteralExpr:
		switch e.Kind {
		case syntax.LitString:
			// Empty or underscore-prefixed names are wildcards.
			if e.Raw == "" || strings.HasPrefix(e.Raw, "_") {
				return types.AnyType{}
			}
			return types.Name(e.Raw)
		case syntax.LitNone:
			return types.None()
		}
	case syntax.TupleExpr:
		elts := make([]types.Ty, 0, len(e.Elts))
		for _, el := range e.Elts {
			elts = append(elts, ctx.TyFromTypeExpr(el))
		}
		return types.TupleType{Elts: elts}
	case syntax.ListExpr:
		switch len(e.Elts) {
		case 0:
			return ctx.Approximation("type annotation", "empty list")
		case 1:
			return types.List(ctx.TyFromTypeExpr(e.Elts[0]))
		default:
			// A list of several annotations is a union of alternatives.
			alts := make([]types.Ty, 0, len(e.Elts))
			for _, el := range e.Elts {
				alts = append(alts, ctx.TyFromTypeExpr(el))
			}
			return types.Unions(alts)
		}
	case syntax.DictExpr:
		if len(e.Entries) == 1 {
			k := ctx.TyFromTypeExpr(e.Entries[0].Key)
			v := ctx.TyFromTypeExpr(e.Entries[0].Value)
			return types.Dict(k, v)
		}
		return ctx.Approximation("type annotation", "dict annotation must have exactly one entry")
	case syntax.DotExpr:
		// `ident.type` names the type of ident's value.
		if id, ok := e.X.(syntax.IdentExpr); ok && e.Name == "type" {
			return ctx.tyFromDottedName(id.Ident)
		}
	case syntax.IdentExpr:
		if tg, ok := e.Ident.Global.(TypedGlobal); ok {
			if name, ok := ctorName(tg.TypecheckerTy()); ok {
				return types.Name(name)
			}
		}
		if ty, ok := ctx.globals.Builtin(e.Ident.Name); ok {
			if name, ok := ctorName(ty); ok {
				return types.Name(name)
			}
		}
	}
	return ctx.Approximation("type annotation", fmt.Sprintf("Unknown type `%s`", describeTypeExpr(x)))
}

func (ctx *TypingContext) tyFromDottedName(id syntax.Ident) types.Ty {
	if id.Name == "str" {
		return types.String()
	}
	if tg, ok := id.Global.(TypedGlobal); ok {
		ty := tg.TypecheckerTy()
		if name, ok := ctorName(ty); ok {
			return types.Name(name)
		}
		if name, ok := types.AsName(ty); ok {
			return types.Name(name)
		}
		return ty
	}
	return types.Name(id.Name)
}

// ctorName extracts the constructed type name of a constructor function,
// such as "str" for the builtin str.
func ctorName(ty types.Ty) (string, bool) {
	if ct, ok := ty.(types.CustomType); ok {
		if f, ok := ct.W.(types.Function); ok && f.TypeAttr != "" {
			return f.TypeAttr, true
		}
	}
	return "", false
}

func describeTypeExpr(x syntax.Expr) string {
	switch e := x.(type) {
	case syntax.IdentExpr:
		return e.Ident.Name
	case syntax.DotExpr:
		return describeTypeExpr(e.X) + "." + e.Name
	case syntax.LiteralExpr:
		if e.Kind == syntax.LitString {
			return fmt.Sprintf("%q", e.Raw)
		}
		return e.Raw
	case syntax.ListExpr:
		parts := make([]string, 0, len(e.Elts))
		for _, el := range e.Elts {
			parts = append(parts, describeTypeExpr(el))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "..."
	}
}
