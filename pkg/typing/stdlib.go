package typing

import (
	"slices"

	"stilt/pkg/syntax"
	"stilt/pkg/types"
)

func fn(result types.Ty, params ...types.Param) types.Ty {
	return types.NewFunction(params, result)
}

// OracleStandard answers attribute and operator lookups for the builtin
// types. Nominal types it has never heard of get AttrUnknown, which the
// context turns into an approximation rather than an error.
type OracleStandard struct {
	// subtypes maps a type name to the names it is a subtype of.
	subtypes map[string][]string
}

func NewOracleStandard() *OracleStandard {
	return &OracleStandard{subtypes: make(map[string][]string)}
}

// AddSubtype declares child to be a subtype of parent, for hosts with
// nominal hierarchies.
func (o *OracleStandard) AddSubtype(child, parent string) {
	o.subtypes[child] = append(o.subtypes[child], parent)
}

func (o *OracleStandard) Subtype(require, got string) bool {
	return slices.Contains(o.subtypes[require], got)
}

func (o *OracleStandard) Attribute(ty types.Ty, attr types.Attr) (types.Ty, types.AttrOutcome) {
	switch t := ty.(type) {
	case types.NameType:
		switch t.Name {
		case "int":
			return intAttr(attr)
		case "float":
			return floatAttr(attr)
		case "string":
			return stringAttr(attr)
		case "bool":
			return boolAttr(attr)
		case "range":
			return rangeAttr(attr)
		case "NoneType":
			return nil, types.AttrMissing
		default:
			return nil, types.AttrUnknown
		}
	case types.ListType:
		return listAttr(t, attr)
	case types.TupleType:
		return tupleAttr(t, attr)
	case types.DictType:
		return dictAttr(t, attr)
	case types.IterType:
		if attr.Kind == types.AttrIter {
			return t.Elt, types.AttrFound
		}
		return nil, types.AttrMissing
	default:
		return nil, types.AttrUnknown
	}
}

func intAttr(attr types.Attr) (types.Ty, types.AttrOutcome) {
	switch attr.Kind {
	case types.AttrBinOp:
		switch attr.Bin {
		case syntax.OpAdd, syntax.OpSub, syntax.OpMul, syntax.OpFloorDiv, syntax.OpPercent,
			syntax.OpBitAnd, syntax.OpBitOr, syntax.OpBitXor, syntax.OpLeftShift, syntax.OpRightShift:
			// No numeric promotion: `int + float` fails here, matching the
			// known limitation of the checker.
			return fn(types.Int(), types.PosOnly(types.Int())), types.AttrFound
		case syntax.OpDiv:
			return fn(types.Float(), types.PosOnly(types.Int())), types.AttrFound
		case syntax.OpLess:
			return fn(types.Bool(), types.PosOnly(types.Int())), types.AttrFound
		}
	case types.AttrUnOp:
		return fn(types.Int()), types.AttrFound
	}
	return nil, types.AttrMissing
}

func floatAttr(attr types.Attr) (types.Ty, types.AttrOutcome) {
	switch attr.Kind {
	case types.AttrBinOp:
		switch attr.Bin {
		case syntax.OpAdd, syntax.OpSub, syntax.OpMul, syntax.OpDiv, syntax.OpFloorDiv, syntax.OpPercent:
			return fn(types.Float(), types.PosOnly(types.Float())), types.AttrFound
		case syntax.OpLess:
			return fn(types.Bool(), types.PosOnly(types.Float())), types.AttrFound
		}
	case types.AttrUnOp:
		switch attr.Un {
		case syntax.OpMinus, syntax.OpPlus:
			return fn(types.Float()), types.AttrFound
		}
	}
	return nil, types.AttrMissing
}

func boolAttr(attr types.Attr) (types.Ty, types.AttrOutcome) {
	if attr.Kind == types.AttrBinOp && attr.Bin == syntax.OpLess {
		return fn(types.Bool(), types.PosOnly(types.Bool())), types.AttrFound
	}
	return nil, types.AttrMissing
}

func rangeAttr(attr types.Attr) (types.Ty, types.AttrOutcome) {
	switch attr.Kind {
	case types.AttrIter:
		return types.Int(), types.AttrFound
	case types.AttrIndex:
		return fn(types.Int(), types.PosOnly(types.Int())), types.AttrFound
	case types.AttrBinOp:
		if attr.Bin == syntax.OpIn {
			return fn(types.Bool(), types.PosOnly(types.Int())), types.AttrFound
		}
	}
	return nil, types.AttrMissing
}

var stringMethods = map[string]types.Ty{
	"startswith":   fn(types.Bool(), types.PosOnly(types.String())),
	"endswith":     fn(types.Bool(), types.PosOnly(types.String())),
	"strip":        fn(types.String(), types.PosOnly(types.String()).Opt()),
	"lstrip":       fn(types.String(), types.PosOnly(types.String()).Opt()),
	"rstrip":       fn(types.String(), types.PosOnly(types.String()).Opt()),
	"lower":        fn(types.String()),
	"upper":        fn(types.String()),
	"title":        fn(types.String()),
	"capitalize":   fn(types.String()),
	"removeprefix": fn(types.String(), types.PosOnly(types.String())),
	"removesuffix": fn(types.String(), types.PosOnly(types.String())),
	"replace":      fn(types.String(), types.PosOnly(types.String()), types.PosOnly(types.String())),
	"split":        fn(types.List(types.String()), types.PosOnly(types.String()).Opt()),
	"rsplit":       fn(types.List(types.String()), types.PosOnly(types.String()).Opt()),
	"splitlines":   fn(types.List(types.String())),
	"join":         fn(types.String(), types.PosOnly(types.Iter(types.String()))),
	"find":         fn(types.Int(), types.PosOnly(types.String())),
	"rfind":        fn(types.Int(), types.PosOnly(types.String())),
	"index":        fn(types.Int(), types.PosOnly(types.String())),
	"count":        fn(types.Int(), types.PosOnly(types.String())),
	"format":       fn(types.String(), types.Args(types.AnyType{}), types.Kwargs(types.AnyType{})),
	"isdigit":      fn(types.Bool()),
	"isalpha":      fn(types.Bool()),
	"isspace":      fn(types.Bool()),
	"elems":        fn(types.Iter(types.String())),
}

func stringAttr(attr types.Attr) (types.Ty, types.AttrOutcome) {
	switch attr.Kind {
	case types.AttrRegular:
		if m, ok := stringMethods[attr.Name]; ok {
			return m, types.AttrFound
		}
		return nil, types.AttrMissing
	case types.AttrBinOp:
		switch attr.Bin {
		case syntax.OpAdd:
			return fn(types.String(), types.PosOnly(types.String())), types.AttrFound
		case syntax.OpMul:
			return fn(types.String(), types.PosOnly(types.Int())), types.AttrFound
		case syntax.OpPercent:
			return fn(types.String(), types.PosOnly(types.AnyType{})), types.AttrFound
		case syntax.OpIn:
			return fn(types.Bool(), types.PosOnly(types.String())), types.AttrFound
		case syntax.OpLess:
			return fn(types.Bool(), types.PosOnly(types.String())), types.AttrFound
		}
	case types.AttrIndex:
		return fn(types.String(), types.PosOnly(types.Int())), types.AttrFound
	case types.AttrSlice:
		return types.String(), types.AttrFound
	}
	return nil, types.AttrMissing
}

func listAttr(t types.ListType, attr types.Attr) (types.Ty, types.AttrOutcome) {
	switch attr.Kind {
	case types.AttrRegular:
		switch attr.Name {
		case "append":
			return fn(types.None(), types.PosOnly(types.AnyType{})), types.AttrFound
		case "extend":
			return fn(types.None(), types.PosOnly(types.Iter(types.AnyType{}))), types.AttrFound
		case "insert":
			return fn(types.None(), types.PosOnly(types.Int()), types.PosOnly(types.AnyType{})), types.AttrFound
		case "remove":
			return fn(types.None(), types.PosOnly(types.AnyType{})), types.AttrFound
		case "pop":
			return fn(t.Elt, types.PosOnly(types.Int()).Opt()), types.AttrFound
		case "index":
			return fn(types.Int(), types.PosOnly(types.AnyType{})), types.AttrFound
		case "clear":
			return fn(types.None()), types.AttrFound
		}
		return nil, types.AttrMissing
	case types.AttrBinOp:
		switch attr.Bin {
		case syntax.OpAdd:
			return fn(types.List(types.AnyType{}), types.PosOnly(types.List(types.AnyType{}))), types.AttrFound
		case syntax.OpMul:
			return fn(t, types.PosOnly(types.Int())), types.AttrFound
		case syntax.OpIn:
			return fn(types.Bool(), types.PosOnly(types.AnyType{})), types.AttrFound
		}
	case types.AttrIndex:
		return fn(t.Elt, types.PosOnly(types.Int())), types.AttrFound
	case types.AttrSlice:
		return t, types.AttrFound
	case types.AttrIter:
		return t.Elt, types.AttrFound
	}
	return nil, types.AttrMissing
}

func tupleAttr(t types.TupleType, attr types.Attr) (types.Ty, types.AttrOutcome) {
	switch attr.Kind {
	case types.AttrIter:
		return types.Unions(t.Elts), types.AttrFound
	case types.AttrIndex:
		return fn(types.Unions(t.Elts), types.PosOnly(types.Int())), types.AttrFound
	case types.AttrBinOp:
		if attr.Bin == syntax.OpIn {
			return fn(types.Bool(), types.PosOnly(types.AnyType{})), types.AttrFound
		}
	}
	return nil, types.AttrMissing
}

func dictAttr(t types.DictType, attr types.Attr) (types.Ty, types.AttrOutcome) {
	switch attr.Kind {
	case types.AttrRegular:
		switch attr.Name {
		case "get":
			return fn(types.Union2(t.V, types.None()), types.PosOnly(t.K), types.PosOnly(types.AnyType{}).Opt()), types.AttrFound
		case "keys":
			return fn(types.List(t.K)), types.AttrFound
		case "values":
			return fn(types.List(t.V)), types.AttrFound
		case "items":
			return fn(types.List(types.Tuple2(t.K, t.V))), types.AttrFound
		case "pop":
			return fn(t.V, types.PosOnly(t.K), types.PosOnly(types.AnyType{}).Opt()), types.AttrFound
		case "setdefault":
			return fn(t.V, types.PosOnly(t.K), types.PosOnly(types.AnyType{}).Opt()), types.AttrFound
		case "update":
			return fn(types.None(), types.PosOnly(types.Dict(types.AnyType{}, types.AnyType{})).Opt()), types.AttrFound
		case "clear":
			return fn(types.None()), types.AttrFound
		}
		return nil, types.AttrMissing
	case types.AttrBinOp:
		switch attr.Bin {
		case syntax.OpIn:
			return fn(types.Bool(), types.PosOnly(types.AnyType{})), types.AttrFound
		case syntax.OpBitOr:
			return fn(types.Dict(types.AnyType{}, types.AnyType{}),
				types.PosOnly(types.Dict(types.AnyType{}, types.AnyType{}))), types.AttrFound
		}
	case types.AttrIndex:
		return fn(t.V, types.PosOnly(t.K)), types.AttrFound
	case types.AttrIter:
		return t.K, types.AttrFound
	}
	return nil, types.AttrMissing
}

// StandardBuiltins builds the builtin-symbol table for the global
// functions of the language.
func StandardBuiltins() *Builtins {
	anyT := types.Ty(types.AnyType{})
	b := NewBuiltins()
	b.Add("len", fn(types.Int(), types.PosOnly(anyT)))
	b.Add("fail", fn(types.NeverType{}, types.Args(anyT)))
	b.Add("any", fn(types.Bool(), types.PosOnly(types.Iter(anyT))))
	b.Add("all", fn(types.Bool(), types.PosOnly(types.Iter(anyT))))
	b.Add("hash", fn(types.Int(), types.PosOnly(types.String())))
	b.Add("repr", fn(types.String(), types.PosOnly(anyT)))
	b.Add("type", fn(types.String(), types.PosOnly(anyT)))
	b.Add("print", fn(types.None(), types.Args(anyT)))
	b.Add("range", fn(types.Name("range"), types.PosOnly(types.Int()), types.PosOnly(types.Int()).Opt(), types.PosOnly(types.Int()).Opt()))
	b.Add("enumerate", fn(types.List(types.Tuple2(types.Int(), anyT)), types.PosOnly(types.Iter(anyT))))
	b.Add("zip", fn(types.List(types.Name("tuple")), types.Args(types.Iter(anyT))))
	b.Add("min", fn(anyT, types.Args(anyT)))
	b.Add("max", fn(anyT, types.Args(anyT)))
	b.Add("sorted", fn(types.List(anyT), types.PosOnly(types.Iter(anyT))))
	b.Add("reversed", fn(types.List(anyT), types.PosOnly(types.Iter(anyT))))
	b.Add("str", types.CtorFunction("string", []types.Param{types.PosOnly(anyT).Opt()}, types.String()))
	b.Add("int", types.CtorFunction("int", []types.Param{types.PosOnly(anyT).Opt()}, types.Int()))
	b.Add("bool", types.CtorFunction("bool", []types.Param{types.PosOnly(anyT).Opt()}, types.Bool()))
	b.Add("float", types.CtorFunction("float", []types.Param{types.PosOnly(anyT).Opt()}, types.Float()))
	b.Add("list", types.CtorFunction("list", []types.Param{types.PosOnly(types.Iter(anyT)).Opt()}, types.List(anyT)))
	b.Add("dict", types.CtorFunction("dict", []types.Param{types.Kwargs(anyT)}, types.Dict(anyT, anyT)))
	b.Add("tuple", types.CtorFunction("tuple", []types.Param{types.PosOnly(types.Iter(anyT)).Opt()}, types.Name("tuple")))
	return b
}
