// Package typing implements the typing context: it walks resolved
// expression and assignment trees, consults an oracle for attribute and
// call lookups, and accumulates hard errors and soft approximations.
package typing

import (
	"stilt/pkg/syntax"
	"stilt/pkg/types"
)

// TypedGlobal is implemented by resolved globals that publish their own
// static type. Globals without it fall back to the builtin-symbol table.
type TypedGlobal interface {
	syntax.GlobalRef
	TypecheckerTy() types.Ty
}

// OracleCtx wraps an oracle with custom-type dispatch, call validation
// and type validation. It is cheap to copy and read-only.
type OracleCtx struct {
	Oracle types.Oracle
}

func (c OracleCtx) Attribute(ty types.Ty, attr types.Attr) (types.Ty, types.AttrOutcome) {
	if ct, ok := ty.(types.CustomType); ok {
		return ct.W.Attribute(attr)
	}
	return c.Oracle.Attribute(ty, attr)
}

func (c OracleCtx) Subtype(require, got string) bool {
	return c.Oracle.Subtype(require, got)
}

// ValidateCall checks that fun can be called with args. Unions succeed if
// any alternative succeeds; a call on Never stays Never so unreachability
// propagates through call chains.
func (c OracleCtx) ValidateCall(span syntax.Span, fun types.Ty, args []types.Arg) (types.Ty, *types.TypingError) {
	switch f := fun.(type) {
	case types.AnyType:
		return types.AnyType{}, nil
	case types.NeverType:
		return types.NeverType{}, nil
	case types.UnionType:
		var successes []types.Ty
		var firstErr *types.TypingError
		for _, alt := range f.Alts {
			ty, err := c.ValidateCall(span, alt, args)
			if err == nil {
				successes = append(successes, ty)
			} else if firstErr == nil {
				firstErr = err
			}
		}
		if len(successes) > 0 {
			return types.Unions(successes), nil
		}
		return nil, firstErr
	case types.CustomType:
		return f.W.ValidateCall(span, args, c)
	default:
		err := types.Errorf(span, "Call to a non-callable type `%s`", fun)
		return nil, &err
	}
}

// ValidateType checks that got could be of type require.
func (c OracleCtx) ValidateType(got, require types.Ty, span syntax.Span) *types.TypingError {
	if types.Intersects(got, require, c) {
		return nil
	}
	err := types.Errorf(span, "Expected type `%s` but got `%s`", require, got)
	return &err
}

// OracleSeq consults a sequence of oracles; the first one that knows the
// type wins.
type OracleSeq []types.Oracle

func (s OracleSeq) Attribute(ty types.Ty, attr types.Attr) (types.Ty, types.AttrOutcome) {
	for _, o := range s {
		if t, outcome := o.Attribute(ty, attr); outcome != types.AttrUnknown {
			return t, outcome
		}
	}
	return nil, types.AttrUnknown
}

func (s OracleSeq) Subtype(require, got string) bool {
	for _, o := range s {
		if o.Subtype(require, got) {
			return true
		}
	}
	return false
}

// OracleNoAttributes rejects every attribute. Appending it to an
// OracleSeq turns "don't know" into "definitely missing".
type OracleNoAttributes struct{}

func (OracleNoAttributes) Attribute(types.Ty, types.Attr) (types.Ty, types.AttrOutcome) {
	return nil, types.AttrMissing
}

func (OracleNoAttributes) Subtype(string, string) bool { return false }
