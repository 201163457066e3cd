package types

import (
	"reflect"
	"strings"

	"stilt/pkg/syntax"
)

// TyCustom is the capability interface behind CustomType. Implementations
// must be immutable value types: comparison and ordering go through
// Compare, which is only invoked between two values of the same dynamic
// type (ordering across distinct implementations falls back to a stable
// type-name comparison).
type TyCustom interface {
	String() string
	// AsName reports the erased nominal name of the type, if it has one.
	AsName() (string, bool)
	// ValidateCall checks a call against this type, returning the result
	// type or a hard error.
	ValidateCall(span syntax.Span, args []Arg, oracle Oracle) (Ty, *TypingError)
	// Attribute resolves an attribute lookup on this type.
	Attribute(attr Attr) (Ty, AttrOutcome)
	// Union2 merges this type with another of the same dynamic type,
	// reporting false when no compact merge exists.
	Union2(other TyCustom) (TyCustom, bool)
	// Compare orders two values of the same dynamic type.
	Compare(other TyCustom) int
}

func compareCustom(a, b TyCustom) int {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		// Cross-implementation identity ordering is undefined, so fall
		// back to the type-name string to keep the order deterministic.
		return strings.Compare(ta.String(), tb.String())
	}
	return a.Compare(b)
}

func unionCustom(a, b TyCustom) (TyCustom, bool) {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return nil, false
	}
	return a.Union2(b)
}
