package types

import "stilt/pkg/syntax"

// AttrKind discriminates what is being looked up on a type.
type AttrKind int

const (
	AttrRegular AttrKind = iota
	AttrBinOp
	AttrUnOp
	AttrIndex
	AttrSlice
	AttrIter
)

// Attr is the key for an attribute/operator lookup against the oracle.
type Attr struct {
	Kind AttrKind
	Name string // set for AttrRegular
	Bin  syntax.BinOp
	Un   syntax.UnOp
}

func Regular(name string) Attr      { return Attr{Kind: AttrRegular, Name: name} }
func BinOpAttr(op syntax.BinOp) Attr { return Attr{Kind: AttrBinOp, Bin: op} }
func UnOpAttr(op syntax.UnOp) Attr   { return Attr{Kind: AttrUnOp, Un: op} }
func IndexAttr() Attr                { return Attr{Kind: AttrIndex} }
func SliceAttr() Attr                { return Attr{Kind: AttrSlice} }
func IterAttr() Attr                 { return Attr{Kind: AttrIter} }

func (a Attr) String() string {
	switch a.Kind {
	case AttrRegular:
		return a.Name
	case AttrBinOp:
		return a.Bin.String()
	case AttrUnOp:
		return a.Un.String()
	case AttrIndex:
		return "[]"
	case AttrSlice:
		return "[::]"
	case AttrIter:
		return "iter"
	}
	return "?"
}

// AttrOutcome is the oracle's answer to an attribute lookup.
type AttrOutcome int

const (
	// AttrFound means the attribute exists and its type is known.
	AttrFound AttrOutcome = iota
	// AttrMissing means the attribute definitely does not exist.
	AttrMissing
	// AttrUnknown means the oracle cannot tell; the caller records an
	// approximation and degrades to Any.
	AttrUnknown
)

// Oracle is the pluggable lookup service for attribute and subtype
// queries against builtin and custom types. Implementations must be
// read-only; a single oracle may be shared across checking sessions.
type Oracle interface {
	Attribute(ty Ty, attr Attr) (Ty, AttrOutcome)
	Subtype(require, got string) bool
}

// AttrCtx is what Attribute resolution needs from the typing context:
// the oracle itself plus a place to record approximations.
type AttrCtx interface {
	Oracle
	Approximation(category, message string) Ty
}

// ArgKind mirrors the call-site argument kinds.
type ArgKind int

const (
	ArgPos ArgKind = iota
	ArgNamed
	ArgArgs
	ArgKwargs
)

// Arg is a typed call-site argument handed to call validation.
type Arg struct {
	Kind ArgKind
	Name string // set for ArgNamed
	Ty   Ty
}

func PosArg(ty Ty) Arg             { return Arg{Kind: ArgPos, Ty: ty} }
func NamedArg(name string, ty Ty) Arg { return Arg{Kind: ArgNamed, Name: name, Ty: ty} }
func ArgsArg(ty Ty) Arg            { return Arg{Kind: ArgArgs, Ty: ty} }
func KwargsArg(ty Ty) Arg          { return Arg{Kind: ArgKwargs, Ty: ty} }
