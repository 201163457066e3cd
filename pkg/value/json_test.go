package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeJSONScalars(t *testing.T) {
	v, err := DecodeJSON([]byte(`null`))
	assert.NoError(t, err)
	assert.Equal(t, Value(None{}), v)

	v, err = DecodeJSON([]byte(`true`))
	assert.NoError(t, err)
	assert.Equal(t, Value(Bool(true)), v)

	v, err = DecodeJSON([]byte(`42`))
	assert.NoError(t, err)
	assert.Equal(t, Value(Int(42)), v)

	v, err = DecodeJSON([]byte(`1.5`))
	assert.NoError(t, err)
	assert.Equal(t, Value(Float(1.5)), v)

	v, err = DecodeJSON([]byte(`"hi"`))
	assert.NoError(t, err)
	assert.Equal(t, Value(Str("hi")), v)
}

func TestDecodeJSONContainers(t *testing.T) {
	v, err := DecodeJSON([]byte(`[1, "a", [2]]`))
	assert.NoError(t, err)
	assert.Equal(t, Value(List{Int(1), Str("a"), List{Int(2)}}), v)

	v, err = DecodeJSON([]byte(`{"a": 1, "b": 2}`))
	assert.NoError(t, err)
	assert.Equal(t, Value(Dict{
		{Key: Str("a"), Value: Int(1)},
		{Key: Str("b"), Value: Int(2)},
	}), v)
}

func TestDecodeJSONTuple(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"$tuple": [1, "a"]}`))
	assert.NoError(t, err)
	assert.Equal(t, Value(Tuple{Int(1), Str("a")}), v)
}

func TestDecodeJSONBuiltin(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"$builtin": "int", "type": "int"}`))
	assert.NoError(t, err)
	assert.Equal(t, Value(Builtin{Name: "int", TypeAttr: "int"}), v)
}

func TestDecodeJSONErrors(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"$nope": 1}`))
	assert.Error(t, err)

	_, err = DecodeJSON([]byte(`[1] 2`))
	assert.Error(t, err)
}
