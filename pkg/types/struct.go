package types

import (
	"cmp"
	"fmt"
	"strings"

	"stilt/pkg/syntax"
	"stilt/pkg/utils"
)

// StructField is one named field of a struct type.
type StructField struct {
	Name string
	Ty   Ty
}

// Struct is the custom type of struct values: a set of named fields,
// sorted by name. Extra set means unknown additional fields may exist
// (the type of a bare "struct").
type Struct struct {
	Fields []StructField
	Extra  bool
}

// AnyStruct is the struct type about which nothing is known.
func AnyStruct() Struct { return Struct{Extra: true} }

func (s Struct) String() string {
	if len(s.Fields) == 0 && s.Extra {
		return `"struct"`
	}
	var tmp []string
	for _, f := range s.Fields {
		tmp = append(tmp, fmt.Sprintf("%s = %s", f.Name, f.Ty))
	}
	if s.Extra {
		tmp = append(tmp, "..")
	}
	return fmt.Sprintf("struct(%s)", strings.Join(tmp, ", "))
}

func (s Struct) AsName() (string, bool) { return "struct", true }

func (s Struct) Attribute(attr Attr) (Ty, AttrOutcome) {
	if attr.Kind != AttrRegular {
		return nil, AttrMissing
	}
	for _, f := range s.Fields {
		if f.Name == attr.Name {
			return f.Ty, AttrFound
		}
	}
	if s.Extra {
		return AnyType{}, AttrFound
	}
	return nil, AttrMissing
}

func (s Struct) ValidateCall(span syntax.Span, args []Arg, oracle Oracle) (Ty, *TypingError) {
	utils.Noop(args, oracle)
	err := Errorf(span, "Call to a non-callable type `%s`", s)
	return nil, &err
}

func (s Struct) Union2(other TyCustom) (TyCustom, bool) {
	if o, ok := other.(Struct); ok && s.Compare(o) == 0 {
		return s, true
	}
	return nil, false
}

func (s Struct) Compare(other TyCustom) int {
	o := other.(Struct)
	if s.Extra != o.Extra {
		if s.Extra {
			return 1
		}
		return -1
	}
	if c := cmp.Compare(len(s.Fields), len(o.Fields)); c != 0 {
		return c
	}
	for i := range s.Fields {
		if c := strings.Compare(s.Fields[i].Name, o.Fields[i].Name); c != 0 {
			return c
		}
		if c := Compare(s.Fields[i].Ty, o.Fields[i].Ty); c != 0 {
			return c
		}
	}
	return 0
}
