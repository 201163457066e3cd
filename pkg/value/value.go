// Package value models runtime values for type-annotation checking: the
// small dynamic value universe annotations are matched against, plus the
// annotation compiler itself.
package value

import (
	"fmt"
	"strconv"
	"strings"

	"stilt/pkg/utils"
)

// Value is a runtime value.
type Value interface {
	// Type is the type name as reported to users, e.g. "string", "list".
	Type() string
	// String is the value's repr form.
	String() string
	// Truth reports the value's boolean interpretation.
	Truth() bool
}

type None struct{}

func (None) Type() string   { return "NoneType" }
func (None) String() string { return "None" }
func (None) Truth() bool    { return false }

type Bool bool

func (Bool) Type() string { return "bool" }
func (b Bool) String() string {
	if b {
		return "True"
	}
	return "False"
}
func (b Bool) Truth() bool { return bool(b) }

type Int int64

func (Int) Type() string     { return "int" }
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }
func (i Int) Truth() bool    { return i != 0 }

type Float float64

func (Float) Type() string { return "float" }
func (f Float) String() string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
func (f Float) Truth() bool { return f != 0 }

type Str string

func (Str) Type() string     { return "string" }
func (s Str) String() string { return strconv.Quote(string(s)) }
func (s Str) Truth() bool    { return s != "" }

type List []Value

func (List) Type() string { return "list" }
func (l List) String() string {
	return "[" + utils.MapJoin(l, Value.String, ", ") + "]"
}
func (l List) Truth() bool { return len(l) > 0 }

type Tuple []Value

func (Tuple) Type() string { return "tuple" }
func (t Tuple) String() string {
	if len(t) == 1 {
		return "(" + t[0].String() + ",)"
	}
	return "(" + utils.MapJoin(t, Value.String, ", ") + ")"
}
func (t Tuple) Truth() bool { return len(t) > 0 }

// DictEntry preserves insertion order, which matters for annotation
// diagnostics and reprs.
type DictEntry struct {
	Key   Value
	Value Value
}

type Dict []DictEntry

func (Dict) Type() string { return "dict" }
func (d Dict) String() string {
	return "{" + utils.MapJoin(d, func(e DictEntry) string {
		return e.Key.String() + ": " + e.Value.String()
	}, ", ") + "}"
}
func (d Dict) Truth() bool { return len(d) > 0 }

// Get returns the value for a key, by deep equality.
func (d Dict) Get(key Value) (Value, bool) {
	for _, e := range d {
		if Equal(e.Key, key) {
			return e.Value, true
		}
	}
	return nil, false
}

// Builtin is a named builtin function value. TypeAttr is non-empty for
// constructors and names the type they construct.
type Builtin struct {
	Name     string
	TypeAttr string
}

func (Builtin) Type() string     { return "function" }
func (b Builtin) String() string { return fmt.Sprintf("<built-in function %s>", b.Name) }
func (Builtin) Truth() bool      { return true }

// Equal is deep structural equality over the value universe. Values of
// different types are never equal; int and float do not compare equal.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case None:
		_, ok := b.(None)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Int:
		y, ok := b.(Int)
		return ok && x == y
	case Float:
		y, ok := b.(Float)
		return ok && x == y
	case Str:
		y, ok := b.(Str)
		return ok && x == y
	case List:
		y, ok := b.(List)
		return ok && equalSlices(x, y)
	case Tuple:
		y, ok := b.(Tuple)
		return ok && equalSlices(x, y)
	case Dict:
		y, ok := b.(Dict)
		if !ok || len(x) != len(y) {
			return false
		}
		for _, e := range x {
			v, found := y.Get(e.Key)
			if !found || !Equal(e.Value, v) {
				return false
			}
		}
		return true
	case Builtin:
		y, ok := b.(Builtin)
		return ok && x == y
	}
	return false
}

func equalSlices(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
