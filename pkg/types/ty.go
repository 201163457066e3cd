// Package types implements the static type algebra: immutable,
// structurally compared and ordered type values, union normalization,
// indexing, attribute resolution and the intersection test used for
// optimistic compatibility checks.
package types

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"stilt/pkg/utils"
)

// Ty is a static type value. All variants are immutable; ordering is
// total and stable (see Compare) so unions can be deduplicated and
// displayed deterministically.
type Ty interface {
	String() string
	isTy()
}

// NeverType cannot be inhabited. An expression of this type marks
// unreachable code.
type NeverType struct{}

func (NeverType) isTy()          {}
func (NeverType) String() string { return `"never"` }

// AnyType contains anything.
type AnyType struct{}

func (AnyType) isTy()          {}
func (AnyType) String() string { return `""` }

// NameType is an opaque nominal type identified by name. Never used for a
// construct that has a dedicated structural variant, e.g. never "list".
type NameType struct{ Name string }

func (NameType) isTy() {}
func (t NameType) String() string {
	switch t.Name {
	case "string":
		return "str.type"
	case "int":
		return "int.type"
	case "bool":
		return "bool.type"
	case "NoneType":
		return "None"
	default:
		return fmt.Sprintf("%q", t.Name)
	}
}

// UnionType is a series of alternative types. Always at least two
// elements, sorted, deduplicated, with no nested union and no Never.
// An operation applies to a union when it applies to at least one
// alternative (optimistic semantics).
type UnionType struct{ Alts []Ty }

func (UnionType) isTy() {}
func (t UnionType) String() string {
	return "[" + utils.MapJoin(t.Alts, Ty.String, ", ") + "]"
}

// IterType supports iteration, yielding Elt per element. Only used in
// internal argument validation, never user-facing.
type IterType struct{ Elt Ty }

func (IterType) isTy()            {}
func (t IterType) String() string { return fmt.Sprintf("iter(%s)", t.Elt) }

// ListType is a homogeneous list.
type ListType struct{ Elt Ty }

func (ListType) isTy()            {}
func (t ListType) String() string { return fmt.Sprintf("[%s]", t.Elt) }

// TupleType is a fixed-arity tuple, possibly empty.
type TupleType struct{ Elts []Ty }

func (TupleType) isTy() {}
func (t TupleType) String() string {
	if len(t.Elts) == 1 {
		return fmt.Sprintf("(%s,)", t.Elts[0])
	}
	return "(" + utils.MapJoin(t.Elts, Ty.String, ", ") + ")"
}

// DictType has a key type and a value type.
type DictType struct{ K, V Ty }

func (DictType) isTy()            {}
func (t DictType) String() string { return fmt.Sprintf("{%s: %s}", t.K, t.V) }

// CustomType is the open-ended extension point: functions, structs and
// host-defined types (records, enums) implement the TyCustom capability
// interface behind it.
type CustomType struct{ W TyCustom }

func (CustomType) isTy()            {}
func (t CustomType) String() string { return t.W.String() }

// Name creates a nominal type, normalizing the names that have a
// dedicated representation.
func Name(name string) Ty {
	switch name {
	case "list":
		return ListType{Elt: AnyType{}}
	case "dict":
		return DictType{K: AnyType{}, V: AnyType{}}
	case "function":
		return NewFunction([]Param{Args(AnyType{}), Kwargs(AnyType{})}, AnyType{})
	case "struct":
		return Custom(AnyStruct())
	case "never":
		return NeverType{}
	default:
		// "tuple" stays nominal: the arity is unknown.
		return NameType{Name: name}
	}
}

func None() Ty   { return NameType{Name: "NoneType"} }
func Bool() Ty   { return NameType{Name: "bool"} }
func Int() Ty    { return NameType{Name: "int"} }
func Float() Ty  { return NameType{Name: "float"} }
func String() Ty { return NameType{Name: "string"} }

func List(elt Ty) Ty     { return ListType{Elt: elt} }
func Iter(item Ty) Ty    { return IterType{Elt: item} }
func Dict(k, v Ty) Ty    { return DictType{K: k, V: v} }
func Tuple2(a, b Ty) Ty  { return TupleType{Elts: []Ty{a, b}} }
func Custom(w TyCustom) Ty { return CustomType{W: w} }

func IsAny(t Ty) bool {
	_, ok := t.(AnyType)
	return ok
}

func IsNever(t Ty) bool {
	_, ok := t.(NeverType)
	return ok
}

func IsList(t Ty) bool {
	_, ok := t.(ListType)
	return ok
}

func IsNameOf(t Ty, name string) bool {
	n, ok := t.(NameType)
	return ok && n.Name == name
}

// AsName turns a type back into a name, erasing structure: `[bool]`
// yields "list". Any, unions and iterables have no name.
func AsName(t Ty) (string, bool) {
	switch x := t.(type) {
	case NameType:
		return x.Name, true
	case ListType:
		return "list", true
	case TupleType:
		return "tuple", true
	case DictType:
		return "dict", true
	case NeverType:
		return "never", true
	case CustomType:
		return x.W.AsName()
	default:
		return "", false
	}
}

func kindRank(t Ty) int {
	switch t.(type) {
	case NeverType:
		return 0
	case AnyType:
		return 1
	case UnionType:
		return 2
	case NameType:
		return 3
	case IterType:
		return 4
	case ListType:
		return 5
	case TupleType:
		return 6
	case DictType:
		return 7
	case CustomType:
		return 8
	}
	return 9
}

// Compare is a total, stable order over types, used to normalize unions
// and keep display deterministic.
func Compare(a, b Ty) int {
	if c := cmp.Compare(kindRank(a), kindRank(b)); c != 0 {
		return c
	}
	switch x := a.(type) {
	case NeverType, AnyType:
		return 0
	case NameType:
		return strings.Compare(x.Name, b.(NameType).Name)
	case UnionType:
		return compareSlices(x.Alts, b.(UnionType).Alts)
	case IterType:
		return Compare(x.Elt, b.(IterType).Elt)
	case ListType:
		return Compare(x.Elt, b.(ListType).Elt)
	case TupleType:
		return compareSlices(x.Elts, b.(TupleType).Elts)
	case DictType:
		y := b.(DictType)
		if c := Compare(x.K, y.K); c != 0 {
			return c
		}
		return Compare(x.V, y.V)
	case CustomType:
		return compareCustom(x.W, b.(CustomType).W)
	}
	return 0
}

func compareSlices(a, b []Ty) int {
	for i := range min(len(a), len(b)) {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

// Equal reports structural equality.
func Equal(a, b Ty) bool { return Compare(a, b) == 0 }

// IterUnion iterates over the alternatives, treating a non-union as a
// singleton union and Never as the empty one.
func IterUnion(t Ty) []Ty {
	switch x := t.(type) {
	case UnionType:
		return x.Alts
	case NeverType:
		return nil
	default:
		return []Ty{t}
	}
}

// Unions is the sole union constructor: it flattens, sorts, dedups,
// drops Never, collapses on Any and merges adjacent structural pairs so
// unions stay bounded and display compactly.
func Unions(xs []Ty) Ty {
	var flat []Ty
	for _, x := range xs {
		flat = append(flat, IterUnion(x)...)
	}
	slices.SortFunc(flat, Compare)
	flat = slices.CompactFunc(flat, Equal)
	flat = slices.DeleteFunc(flat, IsNever)
	if slices.ContainsFunc(flat, IsAny) {
		return AnyType{}
	}
	flat = mergeAdjacent(flat, merge2)

	switch len(flat) {
	case 0:
		return NeverType{}
	case 1:
		return flat[0]
	default:
		return UnionType{Alts: flat}
	}
}

// Union2 unions two types.
func Union2(a, b Ty) Ty { return Unions([]Ty{a, b}) }

func merge2(x, y Ty) (Ty, bool) {
	switch xv := x.(type) {
	case ListType:
		if yv, ok := y.(ListType); ok {
			return ListType{Elt: Union2(xv.Elt, yv.Elt)}, true
		}
	case DictType:
		if yv, ok := y.(DictType); ok {
			return DictType{K: Union2(xv.K, yv.K), V: Union2(xv.V, yv.V)}, true
		}
	case CustomType:
		if yv, ok := y.(CustomType); ok {
			if u, ok := unionCustom(xv.W, yv.W); ok {
				return CustomType{W: u}, true
			}
		}
	}
	return nil, false
}

func mergeAdjacent(xs []Ty, f func(a, b Ty) (Ty, bool)) []Ty {
	var res []Ty
	var last Ty
	for _, x := range xs {
		if last == nil {
			last = x
		} else if m, ok := f(last, x); ok {
			last = m
		} else {
			res = append(res, last)
			last = x
		}
	}
	if last != nil {
		res = append(res, last)
	}
	return res
}

// Indexed models the result type of `expr[i]` for a constant index.
func Indexed(t Ty, i int) Ty {
	switch x := t.(type) {
	case AnyType:
		return AnyType{}
	case NeverType:
		return NeverType{}
	case ListType:
		return x.Elt
	case TupleType:
		if i >= 0 && i < len(x.Elts) {
			return x.Elts[i]
		}
		return NeverType{}
	case UnionType:
		return Unions(utils.Map(x.Alts, func(alt Ty) Ty { return Indexed(alt, i) }))
	default:
		return AnyType{}
	}
}

// ProbablyAList reports whether a value of type t could be a list.
// Returns false on Never, since that is definitely not a list.
func ProbablyAList(t Ty, oracle Oracle) bool {
	if IsNever(t) {
		return false
	}
	return Intersects(t, List(AnyType{}), oracle)
}

// Attribute resolves an attribute on a type. Any/Never/Union get
// structural handling; everything else is delegated to the oracle, and an
// oracle that doesn't know the type yields an approximation resolving to
// Any instead of an error. The second result is false when the attribute
// is definitely not available.
func Attribute(t Ty, attr Attr, ctx AttrCtx) (Ty, bool) {
	switch x := t.(type) {
	case AnyType:
		return AnyType{}, true
	case NeverType:
		return NeverType{}, true
	case UnionType:
		var rs []Ty
		for _, alt := range x.Alts {
			if r, ok := Attribute(alt, attr, ctx); ok {
				rs = append(rs, r)
			}
		}
		if len(rs) == 0 {
			// Every alternative rejected the attribute, so it is invalid.
			return nil, false
		}
		return Unions(rs), true
	default:
		ty, outcome := ctx.Attribute(t, attr)
		switch outcome {
		case AttrFound:
			return ty, true
		case AttrMissing:
			return nil, false
		default:
			return ctx.Approximation("oracle.attribute", fmt.Sprintf("%s.%s", t, attr)), true
		}
	}
}

// Intersects answers "could a value of type a also be of type b".
// Permissive: Any and Never intersect everything, avoiding false
// positives on imprecise types.
func Intersects(a, b Ty, oracle Oracle) bool {
	if IsAny(a) || IsNever(a) || IsAny(b) || IsNever(b) {
		return true
	}

	equalNames := func(x, y NameType) bool {
		return x.Name == y.Name || oracle.Subtype(x.Name, y.Name) || oracle.Subtype(y.Name, x.Name)
	}
	itered := func(t Ty) (Ty, bool) {
		ty, outcome := oracle.Attribute(t, IterAttr())
		return ty, outcome == AttrFound
	}

	for _, x := range IterUnion(a) {
		for _, y := range IterUnion(b) {
			if intersects1(x, y, equalNames, itered, oracle) {
				return true
			}
		}
	}
	return false
}

func intersects1(x, y Ty, equalNames func(a, b NameType) bool, itered func(Ty) (Ty, bool), oracle Oracle) bool {
	if xn, ok := x.(NameType); ok {
		if yn, ok := y.(NameType); ok {
			return equalNames(xn, yn)
		}
	}
	if xl, ok := x.(ListType); ok {
		if yl, ok := y.(ListType); ok {
			return Intersects(xl.Elt, yl.Elt, oracle)
		}
	}
	if xd, ok := x.(DictType); ok {
		if yd, ok := y.(DictType); ok {
			return Intersects(xd.K, yd.K, oracle) && Intersects(xd.V, yd.V, oracle)
		}
	}
	if _, ok := x.(TupleType); ok && IsNameOf(y, "tuple") {
		return true
	}
	if _, ok := y.(TupleType); ok && IsNameOf(x, "tuple") {
		return true
	}
	if xt, ok := x.(TupleType); ok {
		if yt, ok := y.(TupleType); ok && len(xt.Elts) == len(yt.Elts) {
			for i := range xt.Elts {
				if !Intersects(xt.Elts[i], yt.Elts[i], oracle) {
					return false
				}
			}
			return true
		}
	}
	if xi, ok := x.(IterType); ok {
		if yi, ok := y.(IterType); ok {
			return Intersects(xi.Elt, yi.Elt, oracle)
		}
	}
	if xi, ok := x.(IterType); ok {
		if yy, ok := itered(y); ok {
			return Intersects(xi.Elt, yy, oracle)
		}
		return false
	}
	if yi, ok := y.(IterType); ok {
		if xx, ok := itered(x); ok {
			return Intersects(yi.Elt, xx, oracle)
		}
		return false
	}
	if xc, ok := x.(CustomType); ok {
		if yc, ok := y.(CustomType); ok {
			return customIntersects(xc.W, yc.W)
		}
	}
	// Any two function-shaped types are mutually compatible, which keeps
	// overload-style checks optimistic.
	if xn, xok := AsName(x); xok && xn == "function" {
		if yn, yok := AsName(y); yok && yn == "function" {
			return true
		}
	}
	// Lots of other cases overlap; add them as they are needed.
	return Equal(x, y)
}

func customIntersects(x, y TyCustom) bool {
	xn, xok := x.AsName()
	yn, yok := y.AsName()
	if xok && yok && xn == "function" && yn == "function" {
		return true
	}
	// Could be more precise for same-kind customs, but assuming overlap
	// keeps the check permissive.
	return reflect.TypeOf(x) == reflect.TypeOf(y)
}
