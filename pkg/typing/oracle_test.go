package typing

import (
	"testing"

	"stilt/pkg/syntax"
	"stilt/pkg/types"

	"github.com/stretchr/testify/assert"
)

func TestIntersectsViaSubtype(t *testing.T) {
	o := NewOracleStandard()
	o.AddSubtype("duck", "bird")
	assert.True(t, types.Intersects(types.Name("duck"), types.Name("bird"), o))
	// Subtyping relates the names in either direction.
	assert.True(t, types.Intersects(types.Name("bird"), types.Name("duck"), o))
	assert.False(t, types.Intersects(types.Name("duck"), types.Name("fish"), o))
}

func TestValidateTypeViaSubtype(t *testing.T) {
	o := NewOracleStandard()
	o.AddSubtype("duck", "bird")
	c := OracleCtx{Oracle: o}
	assert.Nil(t, c.ValidateType(types.Name("bird"), types.Name("duck"), syntax.Span{}))
	err := c.ValidateType(types.Name("fish"), types.Name("duck"), syntax.Span{})
	assert.NotNil(t, err)
	assert.Contains(t, err.Msg, "Expected type `\"duck\"` but got `\"fish\"`")
}

func TestOracleSeqClosesUnknowns(t *testing.T) {
	seq := OracleSeq{NewOracleStandard(), OracleNoAttributes{}}

	// The standard oracle answers for the types it knows.
	fn, outcome := seq.Attribute(types.Int(), types.BinOpAttr(syntax.OpAdd))
	assert.Equal(t, types.AttrFound, outcome)
	assert.NotNil(t, fn)

	// A nominal type the standard oracle has never heard of is unknown to
	// it; the trailing no-attributes oracle turns that into missing.
	_, outcome = seq.Attribute(types.Name("widget"), types.Regular("spin"))
	assert.Equal(t, types.AttrMissing, outcome)
}

func TestOracleSeqSubtype(t *testing.T) {
	o := NewOracleStandard()
	o.AddSubtype("duck", "bird")
	seq := OracleSeq{OracleNoAttributes{}, o}
	assert.True(t, seq.Subtype("duck", "bird"))
	assert.False(t, seq.Subtype("bird", "fish"))
}
