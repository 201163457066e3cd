package types

import (
	"testing"

	"stilt/pkg/syntax"

	"github.com/stretchr/testify/assert"
)

func callFn(t *testing.T, fn Ty, args ...Arg) (Ty, *TypingError) {
	t.Helper()
	f := fn.(CustomType).W.(Function)
	return f.ValidateCall(syntax.Span{}, args, noAttrs{})
}

func TestValidateCallPositional(t *testing.T) {
	fn := NewFunction([]Param{PosOrName("x", Int()), PosOrName("y", String())}, Bool())
	res, err := callFn(t, fn, PosArg(Int()), PosArg(String()))
	assert.Nil(t, err)
	assert.Equal(t, Bool(), res)
}

func TestValidateCallWrongType(t *testing.T) {
	fn := NewFunction([]Param{PosOrName("x", Int())}, Bool())
	_, err := callFn(t, fn, PosArg(String()))
	assert.NotNil(t, err)
	assert.Contains(t, err.Msg, "Expected type `int.type` for parameter `x` but got `str.type`")
}

func TestValidateCallNamed(t *testing.T) {
	fn := NewFunction([]Param{PosOrName("x", Int()), PosOrName("y", String()).Opt()}, Bool())
	_, err := callFn(t, fn, NamedArg("x", Int()))
	assert.Nil(t, err)
	_, err = callFn(t, fn, NamedArg("y", String()))
	assert.NotNil(t, err)
	assert.Contains(t, err.Msg, "Missing required parameter `x`")
}

func TestValidateCallTooMany(t *testing.T) {
	fn := NewFunction([]Param{PosOrName("x", Int())}, Bool())
	_, err := callFn(t, fn, PosArg(Int()), PosArg(Int()))
	assert.NotNil(t, err)
	assert.Contains(t, err.Msg, "Too many positional arguments: expected 1, got 2")
}

func TestValidateCallUnexpectedKeyword(t *testing.T) {
	fn := NewFunction([]Param{PosOrName("x", Int())}, Bool())
	_, err := callFn(t, fn, PosArg(Int()), NamedArg("z", Int()))
	assert.NotNil(t, err)
	assert.Contains(t, err.Msg, "Unexpected keyword argument `z`")
}

func TestValidateCallVarargs(t *testing.T) {
	fn := NewFunction([]Param{Args(Int())}, Int())
	_, err := callFn(t, fn, PosArg(Int()), PosArg(Int()), PosArg(Int()))
	assert.Nil(t, err)
	_, err = callFn(t, fn, PosArg(String()))
	assert.NotNil(t, err)
}

func TestValidateCallKwargs(t *testing.T) {
	fn := NewFunction([]Param{Kwargs(Int())}, Int())
	_, err := callFn(t, fn, NamedArg("a", Int()), NamedArg("b", Int()))
	assert.Nil(t, err)
	_, err = callFn(t, fn, NamedArg("a", String()))
	assert.NotNil(t, err)
}

func TestValidateCallStarForwarding(t *testing.T) {
	// `f(*xs)` may fill any positional parameter, so nothing is missing.
	fn := NewFunction([]Param{PosOrName("x", Int()), PosOrName("y", Int())}, Int())
	_, err := callFn(t, fn, ArgsArg(List(Int())))
	assert.Nil(t, err)
}

func TestValidateCallAnyArgAlwaysFits(t *testing.T) {
	fn := NewFunction([]Param{PosOrName("x", Int())}, Bool())
	_, err := callFn(t, fn, PosArg(AnyType{}))
	assert.Nil(t, err)
}

func TestValidateCallNameOnly(t *testing.T) {
	fn := NewFunction([]Param{PosOrName("x", Int()), NameOnly("flag", Bool())}, Int())
	_, err := callFn(t, fn, PosArg(Int()), NamedArg("flag", Bool()))
	assert.Nil(t, err)
	_, err = callFn(t, fn, PosArg(Int()))
	assert.NotNil(t, err)
	assert.Contains(t, err.Msg, "Missing required parameter `flag`")
}

func TestFunctionDisplay(t *testing.T) {
	fn := NewFunction([]Param{PosOrName("x", Int()).Opt(), Args(AnyType{})}, Bool())
	assert.Equal(t, `def(x: int.type = .., *args: "") -> bool.type`, fn.String())
}

func TestCtorFunctionTypeAttr(t *testing.T) {
	fn := CtorFunction("int", []Param{PosOrName("x", AnyType{}).Opt()}, Int())
	f := fn.(CustomType).W.(Function)
	ty, outcome := f.Attribute(Regular("type"))
	assert.Equal(t, AttrFound, outcome)
	assert.Equal(t, String(), ty)
	_, outcome = f.Attribute(Regular("missing"))
	assert.Equal(t, AttrMissing, outcome)
}

func TestStructAttribute(t *testing.T) {
	s := Struct{Fields: []StructField{{Name: "a", Ty: Int()}}}
	ty, outcome := s.Attribute(Regular("a"))
	assert.Equal(t, AttrFound, outcome)
	assert.Equal(t, Int(), ty)
	_, outcome = s.Attribute(Regular("b"))
	assert.Equal(t, AttrMissing, outcome)

	any := AnyStruct()
	ty, outcome = any.Attribute(Regular("whatever"))
	assert.Equal(t, AttrFound, outcome)
	assert.Equal(t, Ty(AnyType{}), ty)
}

func TestStructNotCallable(t *testing.T) {
	s := AnyStruct()
	_, err := s.ValidateCall(syntax.Span{}, nil, noAttrs{})
	assert.NotNil(t, err)
	assert.Contains(t, err.Msg, "Call to a non-callable type")
}
