package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mustMatch(t *testing.T, v, annot Value) {
	t.Helper()
	ok, err := IsType(v, annot)
	assert.NoError(t, err)
	assert.True(t, ok, "%s should match %s", v, annot)
}

func mustNotMatch(t *testing.T, v, annot Value) {
	t.Helper()
	ok, err := IsType(v, annot)
	assert.NoError(t, err)
	assert.False(t, ok, "%s should not match %s", v, annot)
}

func TestWildcardMatchesEverything(t *testing.T) {
	values := []Value{None{}, Bool(true), Int(3), Float(1.5), Str("x"),
		List{Int(1)}, Tuple{Str("a")}, Dict{{Key: Str("k"), Value: Int(1)}}}
	for _, v := range values {
		mustMatch(t, v, Str(""))
		mustMatch(t, v, Str("_"))
		mustMatch(t, v, Str("_whatever"))
	}
}

func TestPrimitiveNames(t *testing.T) {
	mustMatch(t, Str("a"), Str("string"))
	mustNotMatch(t, Int(1), Str("string"))
	mustMatch(t, Int(1), Str("int"))
	mustNotMatch(t, Bool(true), Str("int"))
	mustMatch(t, Bool(false), Str("bool"))
	mustMatch(t, Float(1.0), Str("float"))
	mustNotMatch(t, Int(1), Str("float"))
	mustMatch(t, None{}, Str("NoneType"))
	mustMatch(t, None{}, None{})
	mustNotMatch(t, Int(0), None{})
}

func TestListAnnotations(t *testing.T) {
	ints := List{Int(1), Int(2)}
	mixed := List{Int(1), Str("a")}
	mustMatch(t, ints, List{Str("int")})
	mustNotMatch(t, mixed, List{Str("int")})
	mustMatch(t, List{}, List{Str("int")})
	// Wildcard element means any list, contents unchecked.
	mustMatch(t, mixed, List{Str("")})
	mustNotMatch(t, Int(1), List{Str("")})
}

func TestUnionAnnotations(t *testing.T) {
	u := List{Str("int"), Str("string")}
	mustMatch(t, Int(1), u)
	mustMatch(t, Str("a"), u)
	mustNotMatch(t, Bool(true), u)
	mustNotMatch(t, None{}, u)
}

func TestTwoElementUnionMatchesGeneralForm(t *testing.T) {
	two := List{Str("int"), Str("string")}
	three := List{Str("int"), Str("string"), Str("bool")}
	for _, v := range []Value{Int(1), Str("a"), Bool(true), None{}, Float(1.0)} {
		okTwo, err := IsType(v, two)
		assert.NoError(t, err)
		okThree, err := IsType(v, three)
		assert.NoError(t, err)
		if okTwo {
			assert.True(t, okThree)
		}
	}
}

func TestDictAnnotations(t *testing.T) {
	d := Dict{{Key: Str("a"), Value: Int(1)}, {Key: Str("b"), Value: Int(2)}}
	strToInt := Dict{{Key: Str("string"), Value: Str("int")}}
	mustMatch(t, d, strToInt)
	mustNotMatch(t, Dict{{Key: Int(1), Value: Int(2)}}, strToInt)
	mustMatch(t, Dict{}, strToInt)
	// Fully wildcard singleton is any dict.
	anyDict := Dict{{Key: Str("_"), Value: Str("")}}
	mustMatch(t, d, anyDict)
	mustNotMatch(t, List{}, anyDict)
}

func TestDictAnnotationArity(t *testing.T) {
	multi := Dict{{Key: Int(1), Value: Str("a")}, {Key: Int(2), Value: Str("b")}}
	_, err := IsType(Dict{}, multi)
	assert.Error(t, err)
	var invalid InvalidAnnotationError
	assert.ErrorAs(t, err, &invalid)

	_, err = IsType(Dict{}, Dict{})
	assert.Error(t, err)
}

func TestTupleAnnotations(t *testing.T) {
	annot := Tuple{Str("int"), Str("string")}
	mustMatch(t, Tuple{Int(1), Str("a")}, annot)
	mustNotMatch(t, Tuple{Int(1), Int(2)}, annot)
	mustNotMatch(t, Tuple{Int(1)}, annot)
	mustNotMatch(t, List{Int(1), Str("a")}, annot)
}

func TestEmptyListAnnotationInvalid(t *testing.T) {
	_, err := IsType(Int(1), List{})
	assert.Error(t, err)
}

func TestPerhapsYouMeant(t *testing.T) {
	_, err := IsType(Int(1), Builtin{Name: "int", TypeAttr: "int"})
	assert.Error(t, err)
	assert.Equal(t, "Found `<built-in function int>` instead of a valid type annotation. Perhaps you meant `\"int\"`?", err.Error())
}

func TestInvalidAnnotation(t *testing.T) {
	_, err := IsType(Int(1), Int(3))
	assert.Error(t, err)
	assert.Equal(t, "Type `3` is not a valid type annotation", err.Error())
}

func TestMismatchErrorFormat(t *testing.T) {
	err := CheckType(None{}, Str("int"), "")
	assert.Error(t, err)
	assert.Equal(t, "Value `None` of type `NoneType` does not match the type annotation `int` for return type", err.Error())

	err = CheckType(Int(1), Str("bool"), "x")
	assert.Error(t, err)
	assert.Equal(t, "Value `1` of type `int` does not match the type annotation `bool` for argument `x`", err.Error())
}

func TestCheckTypeOk(t *testing.T) {
	assert.NoError(t, CheckType(Int(1), Str("int"), "x"))
	assert.NoError(t, CheckType(Str("s"), Str(""), ""))
}

func TestNestedAnnotations(t *testing.T) {
	annot := Dict{{Key: Str("string"), Value: List{Str("int")}}}
	mustMatch(t, Dict{{Key: Str("a"), Value: List{Int(1), Int(2)}}}, annot)
	mustNotMatch(t, Dict{{Key: Str("a"), Value: List{Str("b")}}}, annot)
}

func TestMatcherCache(t *testing.T) {
	c := NewMatcherCache()
	annot := List{Str("int")}
	m1, err := c.Get(annot)
	assert.NoError(t, err)
	m2, err := c.Get(List{Str("int")})
	assert.NoError(t, err)
	assert.True(t, m1.Matches(List{Int(1)}))
	assert.True(t, m2.Matches(List{Int(1)}))

	_, err = c.Get(Dict{})
	assert.Error(t, err)
}

func TestEqualDeep(t *testing.T) {
	assert.True(t, Equal(List{Int(1), Str("a")}, List{Int(1), Str("a")}))
	assert.False(t, Equal(List{Int(1)}, Tuple{Int(1)}))
	assert.False(t, Equal(Int(1), Float(1)))
	assert.True(t, Equal(
		Dict{{Key: Str("a"), Value: Int(1)}, {Key: Str("b"), Value: Int(2)}},
		Dict{{Key: Str("b"), Value: Int(2)}, {Key: Str("a"), Value: Int(1)}},
	))
}

func TestValueDisplay(t *testing.T) {
	assert.Equal(t, "None", None{}.String())
	assert.Equal(t, "True", Bool(true).String())
	assert.Equal(t, `"a"`, Str("a").String())
	assert.Equal(t, "1.5", Float(1.5).String())
	assert.Equal(t, "2.0", Float(2).String())
	assert.Equal(t, `[1, "a"]`, List{Int(1), Str("a")}.String())
	assert.Equal(t, "(1,)", Tuple{Int(1)}.String())
	assert.Equal(t, `{"a": 1}`, Dict{{Key: Str("a"), Value: Int(1)}}.String())
}
