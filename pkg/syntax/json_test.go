package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeModuleAssign(t *testing.T) {
	src := `[
		{"kind": "assign", "span": [1, 1, 1, 6],
		 "target": {"kind": "ident", "name": "x", "binding": 0, "span": [1, 1, 1, 2]},
		 "x": {"kind": "int", "raw": "1", "span": [1, 5, 1, 6]}}
	]`
	stmts, err := DecodeModule([]byte(src))
	assert.NoError(t, err)
	assert.Len(t, stmts, 1)

	st, ok := stmts[0].(AssignStmt)
	assert.True(t, ok)
	assert.Equal(t, Span{Start: Pos{Line: 1, Col: 1}, End: Pos{Line: 1, Col: 6}}, st.Span())

	tgt, ok := st.Target.(IdentAssign)
	assert.True(t, ok)
	assert.Equal(t, "x", tgt.Ident.Name)
	assert.Equal(t, BindingId(0), *tgt.Ident.Binding)

	lit, ok := st.X.(LiteralExpr)
	assert.True(t, ok)
	assert.Equal(t, LitInt, lit.Kind)
	assert.Equal(t, "1", lit.Raw)
}

func TestDecodeModuleCallAndGlobals(t *testing.T) {
	src := `[
		{"kind": "expr", "x": {"kind": "call",
			"fn": {"kind": "ident", "name": "print", "global": "print"},
			"args": [
				{"kind": "pos", "x": {"kind": "str", "raw": "hi"}},
				{"kind": "named", "name": "sep", "x": {"kind": "str", "raw": ","}},
				{"kind": "star", "x": {"kind": "ident", "name": "xs", "binding": 1}}
			]}}
	]`
	stmts, err := DecodeModule([]byte(src))
	assert.NoError(t, err)

	call := stmts[0].(ExprStmt).X.(CallExpr)
	fn := call.Fn.(IdentExpr)
	assert.Nil(t, fn.Ident.Binding)
	assert.Equal(t, "print", fn.Ident.Global.GlobalName())
	assert.Len(t, call.Args, 3)
	assert.Equal(t, ArgPos, call.Args[0].Kind)
	assert.Equal(t, ArgNamed, call.Args[1].Kind)
	assert.Equal(t, "sep", call.Args[1].Name)
	assert.Equal(t, ArgStar, call.Args[2].Kind)
}

func TestDecodeModuleDef(t *testing.T) {
	src := `[
		{"kind": "def", "name": {"name": "f", "binding": 0},
		 "params": [
			{"ident": {"name": "x", "binding": 1}, "type": {"kind": "str", "raw": "int"}},
			{"kind": "star", "ident": {"name": "args", "binding": 2}},
			{"kind": "normal", "ident": {"name": "flag", "binding": 3},
			 "default": {"kind": "bool", "raw": "False"}}
		 ],
		 "return": {"kind": "str", "raw": "int"},
		 "body": [
			{"kind": "return", "x": {"kind": "ident", "name": "x", "binding": 1}}
		 ]}
	]`
	stmts, err := DecodeModule([]byte(src))
	assert.NoError(t, err)

	def := stmts[0].(DefStmt)
	assert.Equal(t, "f", def.Name.Name)
	assert.Len(t, def.Params, 3)
	assert.Equal(t, ParamNormal, def.Params[0].Kind)
	assert.NotNil(t, def.Params[0].Type)
	assert.Equal(t, ParamStar, def.Params[1].Kind)
	assert.Nil(t, def.Params[1].Type)
	assert.NotNil(t, def.Params[2].Default)
	assert.NotNil(t, def.Return)

	ret := def.Body[0].(ReturnStmt)
	assert.NotNil(t, ret.X)
}

func TestDecodeModuleForAndComp(t *testing.T) {
	src := `[
		{"kind": "for",
		 "vars": {"kind": "ident", "name": "x", "binding": 0},
		 "over": {"kind": "list", "elts": [{"kind": "int", "raw": "1"}]},
		 "body": [
			{"kind": "assign",
			 "target": {"kind": "ident", "name": "y", "binding": 1},
			 "x": {"kind": "listcomp",
				"body": {"kind": "ident", "name": "z", "binding": 2},
				"for": {"vars": {"kind": "ident", "name": "z", "binding": 2},
					"over": {"kind": "ident", "name": "x", "binding": 0}},
				"clauses": [{"if": {"kind": "binary", "op": "<",
					"x": {"kind": "ident", "name": "z", "binding": 2},
					"y": {"kind": "int", "raw": "10"}}}]}}
		 ]}
	]`
	stmts, err := DecodeModule([]byte(src))
	assert.NoError(t, err)

	forStmt := stmts[0].(ForStmt)
	comp := forStmt.Body[0].(AssignStmt).X.(ListCompExpr)
	assert.Len(t, comp.Clauses, 1)
	assert.NotNil(t, comp.Clauses[0].If)
	cond := comp.Clauses[0].If.(BinaryExpr)
	assert.Equal(t, OpLess, cond.Op)
}

func TestDecodeModuleLoad(t *testing.T) {
	src := `[
		{"kind": "load", "module": "lib.star",
		 "names": [{"their": "a", "local": {"name": "b", "binding": 0}}]}
	]`
	stmts, err := DecodeModule([]byte(src))
	assert.NoError(t, err)

	load := stmts[0].(LoadStmt)
	assert.Equal(t, "lib.star", load.Module)
	assert.Equal(t, "a", load.Names[0].Their)
	assert.Equal(t, "b", load.Names[0].Local.Name)
}

func TestDecodeModuleBadKind(t *testing.T) {
	_, err := DecodeModule([]byte(`[{"kind": "mystery"}]`))
	assert.Error(t, err)

	_, err = DecodeModule([]byte(`[{"kind": "expr", "x": {"kind": "binary", "op": "**",
		"x": {"kind": "int", "raw": "1"}, "y": {"kind": "int", "raw": "2"}}}]`))
	assert.Error(t, err)
}
