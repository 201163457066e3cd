package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnionsDedup(t *testing.T) {
	u := Unions([]Ty{Int(), Int(), String()})
	assert.Equal(t, UnionType{Alts: []Ty{NameType{Name: "int"}, NameType{Name: "string"}}}, u)
}

func TestUnionsOrderInsensitive(t *testing.T) {
	a := Unions([]Ty{String(), Int(), Bool()})
	b := Unions([]Ty{Bool(), String(), Int()})
	assert.Equal(t, a, b)
}

func TestUnionsDropsNever(t *testing.T) {
	assert.Equal(t, Int(), Unions([]Ty{NeverType{}, Int()}))
	assert.Equal(t, Ty(NeverType{}), Unions(nil))
}

func TestUnionsAnyAbsorbs(t *testing.T) {
	assert.Equal(t, Ty(AnyType{}), Unions([]Ty{Int(), AnyType{}, String()}))
}

func TestUnionsSingleCollapses(t *testing.T) {
	assert.Equal(t, Int(), Unions([]Ty{Int(), Int()}))
}

func TestUnionsFlattensNested(t *testing.T) {
	inner := Union2(Int(), String())
	u := Unions([]Ty{inner, Bool()})
	assert.Len(t, u.(UnionType).Alts, 3)
}

func TestUnionsMergesLists(t *testing.T) {
	u := Union2(List(Int()), List(String()))
	assert.Equal(t, List(Union2(Int(), String())), u)
}

func TestUnionsMergesDicts(t *testing.T) {
	u := Union2(Dict(String(), Int()), Dict(String(), Bool()))
	assert.Equal(t, Dict(String(), Union2(Bool(), Int())), u)
}

func TestNameNormalizes(t *testing.T) {
	assert.Equal(t, List(AnyType{}), Name("list"))
	assert.Equal(t, Dict(AnyType{}, AnyType{}), Name("dict"))
	assert.Equal(t, Ty(NeverType{}), Name("never"))
	assert.Equal(t, Ty(NameType{Name: "tuple"}), Name("tuple"))
	assert.Equal(t, Custom(AnyStruct()), Name("struct"))
}

func TestIndexed(t *testing.T) {
	assert.Equal(t, Int(), Indexed(List(Int()), 3))
	assert.Equal(t, String(), Indexed(Tuple2(Int(), String()), 1))
	assert.Equal(t, Ty(NeverType{}), Indexed(Tuple2(Int(), String()), 2))
	assert.Equal(t, Ty(AnyType{}), Indexed(AnyType{}, 0))
	assert.Equal(t, Ty(NeverType{}), Indexed(NeverType{}, 0))
	u := Indexed(Union2(List(Int()), List(String())), 0)
	assert.Equal(t, Union2(Int(), String()), u)
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, `""`, AnyType{}.String())
	assert.Equal(t, `"never"`, NeverType{}.String())
	assert.Equal(t, "int.type", Int().String())
	assert.Equal(t, "str.type", String().String())
	assert.Equal(t, "None", None().String())
	assert.Equal(t, `"range"`, Name("range").String())
	assert.Equal(t, "[int.type]", List(Int()).String())
	assert.Equal(t, "{str.type: int.type}", Dict(String(), Int()).String())
	assert.Equal(t, "(int.type,)", TupleType{Elts: []Ty{Int()}}.String())
	assert.Equal(t, "(int.type, bool.type)", Tuple2(Int(), Bool()).String())
	assert.Equal(t, "[bool.type, int.type]", Union2(Int(), Bool()).String())
	assert.Equal(t, "iter(int.type)", Iter(Int()).String())
}

func TestIntersectsPermissive(t *testing.T) {
	oracle := noAttrs{}
	assert.True(t, Intersects(AnyType{}, Int(), oracle))
	assert.True(t, Intersects(NeverType{}, Int(), oracle))
	assert.True(t, Intersects(Int(), Int(), oracle))
	assert.False(t, Intersects(Int(), String(), oracle))
}

func TestIntersectsUnion(t *testing.T) {
	oracle := noAttrs{}
	u := Union2(Int(), String())
	assert.True(t, Intersects(u, String(), oracle))
	assert.False(t, Intersects(u, Bool(), oracle))
}

func TestIntersectsStructural(t *testing.T) {
	oracle := noAttrs{}
	assert.True(t, Intersects(List(Int()), List(AnyType{}), oracle))
	assert.False(t, Intersects(List(Int()), List(String()), oracle))
	assert.True(t, Intersects(Tuple2(Int(), Int()), Name("tuple"), oracle))
	assert.True(t, Intersects(Dict(String(), Int()), Dict(String(), AnyType{}), oracle))
}

func TestIntersectsFunctions(t *testing.T) {
	oracle := noAttrs{}
	f1 := NewFunction([]Param{PosOrName("x", Int())}, Int())
	f2 := NewFunction(nil, String())
	assert.True(t, Intersects(f1, f2, oracle))
	assert.True(t, Intersects(f1, Name("function"), oracle))
}

func TestIterUnion(t *testing.T) {
	assert.Equal(t, []Ty{NameType{Name: "bool"}, NameType{Name: "int"}}, IterUnion(Union2(Int(), Bool())))
	assert.Equal(t, []Ty{NameType{Name: "int"}}, IterUnion(Int()))
	assert.Empty(t, IterUnion(NeverType{}))
}

func TestProbablyAList(t *testing.T) {
	oracle := noAttrs{}
	assert.True(t, ProbablyAList(List(Int()), oracle))
	assert.True(t, ProbablyAList(Union2(List(Int()), NeverType{}), oracle))
	assert.False(t, ProbablyAList(Int(), oracle))
	assert.True(t, ProbablyAList(AnyType{}, oracle))
	assert.False(t, ProbablyAList(NeverType{}, oracle))
}

// noAttrs is an oracle that knows nothing.
type noAttrs struct{}

func (noAttrs) Attribute(Ty, Attr) (Ty, AttrOutcome) { return nil, AttrMissing }
func (noAttrs) Subtype(string, string) bool          { return false }
