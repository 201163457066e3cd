package syntax

import (
	"encoding/json"
	"fmt"
)

// DecodeModule reads a resolved module from its JSON form: an array of
// statement nodes, each node an object discriminated by its "kind" key.
// Spans are [startLine, startCol, endLine, endCol] arrays and may be
// omitted. The format is produced by the external parse/resolve step.
func DecodeModule(data []byte) ([]Stmt, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	stmts := make([]Stmt, 0, len(raws))
	for _, r := range raws {
		s, err := decodeStmt(r)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

type rawNode struct {
	Kind string          `json:"kind"`
	Span []int           `json:"span"`
	Name string          `json:"name"`
	Raw  string          `json:"raw"`
	Op   string          `json:"op"`
	X    json.RawMessage `json:"x"`
	Y    json.RawMessage `json:"y"`

	Binding *int   `json:"binding"`
	Global  string `json:"global"`

	Elts    []json.RawMessage `json:"elts"`
	Args    []rawArg          `json:"args"`
	Entries []rawEntry        `json:"entries"`
	Clauses []rawClause       `json:"clauses"`

	Fn       json.RawMessage `json:"fn"`
	Index    json.RawMessage `json:"index"`
	Start    json.RawMessage `json:"start"`
	Stop     json.RawMessage `json:"stop"`
	Stride   json.RawMessage `json:"stride"`
	Cond     json.RawMessage `json:"cond"`
	ThenE    json.RawMessage `json:"then"`
	ElseE    json.RawMessage `json:"else"`
	Key      json.RawMessage `json:"key"`
	Value    json.RawMessage `json:"value"`
	Body     json.RawMessage `json:"body"`
	For      *rawForClause   `json:"for"`
	NameSpan []int           `json:"nameSpan"`

	Params []rawParam `json:"params"`
}

type rawArg struct {
	Kind string          `json:"kind"`
	Name string          `json:"name"`
	X    json.RawMessage `json:"x"`
}

type rawEntry struct {
	Key   json.RawMessage `json:"key"`
	Value json.RawMessage `json:"value"`
}

type rawForClause struct {
	Vars json.RawMessage `json:"vars"`
	Over json.RawMessage `json:"over"`
}

type rawClause struct {
	For *rawForClause   `json:"for"`
	If  json.RawMessage `json:"if"`
}

type rawIdent struct {
	Name    string `json:"name"`
	Binding *int   `json:"binding"`
	Global  string `json:"global"`
	Span    []int  `json:"span"`
}

type rawParam struct {
	Kind    string          `json:"kind"`
	Ident   rawIdent        `json:"ident"`
	Type    json.RawMessage `json:"type"`
	Default json.RawMessage `json:"default"`
}

type rawLoadName struct {
	Their string   `json:"their"`
	Local rawIdent `json:"local"`
}

// globalName is the GlobalRef for globals decoded from JSON, which carry
// only their name.
type globalName string

func (g globalName) GlobalName() string { return string(g) }

func decodeSpan(xs []int) Span {
	if len(xs) != 4 {
		return Span{}
	}
	return Span{
		Start: Pos{Line: xs[0], Col: xs[1]},
		End:   Pos{Line: xs[2], Col: xs[3]},
	}
}

func decodeIdent(r rawIdent) Ident {
	id := Ident{Name: r.Name, Pos: decodeSpan(r.Span)}
	if r.Binding != nil {
		b := BindingId(*r.Binding)
		id.Binding = &b
	} else if r.Global != "" {
		id.Global = globalName(r.Global)
	}
	return id
}

var binOps = map[string]BinOp{
	"+": OpAdd, "-": OpSub, "*": OpMul, "/": OpDiv, "//": OpFloorDiv,
	"%": OpPercent, "&": OpBitAnd, "|": OpBitOr, "^": OpBitXor,
	"<<": OpLeftShift, ">>": OpRightShift,
	"and": OpAnd, "or": OpOr,
	"==": OpEqual, "!=": OpNotEqual,
	"<": OpLess, "<=": OpLessOrEqual, ">": OpGreater, ">=": OpGreaterOrEqual,
	"in": OpIn, "not in": OpNotIn,
}

var unOps = map[string]UnOp{
	"not": OpNot, "-": OpMinus, "+": OpPlus, "~": OpBitNot,
}

func decodeExprs(raws []json.RawMessage) ([]Expr, error) {
	out := make([]Expr, 0, len(raws))
	for _, r := range raws {
		x, err := decodeExpr(r)
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

// decodeOptExpr decodes an expression that may be absent or JSON null.
func decodeOptExpr(r json.RawMessage) (Expr, error) {
	if len(r) == 0 || string(r) == "null" {
		return nil, nil
	}
	return decodeExpr(r)
}

func decodeExpr(data json.RawMessage) (Expr, error) {
	var n rawNode
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	base := exprBase{S: decodeSpan(n.Span)}
	switch n.Kind {
	case "tuple":
		elts, err := decodeExprs(n.Elts)
		if err != nil {
			return nil, err
		}
		return TupleExpr{exprBase: base, Elts: elts}, nil
	case "dot":
		x, err := decodeExpr(n.X)
		if err != nil {
			return nil, err
		}
		nameSpan := decodeSpan(n.NameSpan)
		if len(n.NameSpan) != 4 {
			nameSpan = base.S
		}
		return DotExpr{exprBase: base, X: x, Name: n.Name, NameSpan: nameSpan}, nil
	case "call":
		fn, err := decodeExpr(n.Fn)
		if err != nil {
			return nil, err
		}
		args := make([]Argument, 0, len(n.Args))
		for _, a := range n.Args {
			x, err := decodeExpr(a.X)
			if err != nil {
				return nil, err
			}
			arg := Argument{Name: a.Name, X: x}
			switch a.Kind {
			case "pos", "":
				arg.Kind = ArgPos
			case "named":
				arg.Kind = ArgNamed
			case "star":
				arg.Kind = ArgStar
			case "starstar":
				arg.Kind = ArgStarStar
			default:
				return nil, fmt.Errorf("unknown argument kind %q", a.Kind)
			}
			args = append(args, arg)
		}
		return CallExpr{exprBase: base, Fn: fn, Args: args}, nil
	case "index":
		x, err := decodeExpr(n.X)
		if err != nil {
			return nil, err
		}
		idx, err := decodeExpr(n.Index)
		if err != nil {
			return nil, err
		}
		return IndexExpr{exprBase: base, X: x, Index: idx}, nil
	case "slice":
		x, err := decodeExpr(n.X)
		if err != nil {
			return nil, err
		}
		start, err := decodeOptExpr(n.Start)
		if err != nil {
			return nil, err
		}
		stop, err := decodeOptExpr(n.Stop)
		if err != nil {
			return nil, err
		}
		stride, err := decodeOptExpr(n.Stride)
		if err != nil {
			return nil, err
		}
		return SliceExpr{exprBase: base, X: x, Start: start, Stop: stop, Stride: stride}, nil
	case "ident":
		id := decodeIdent(rawIdent{Name: n.Name, Binding: n.Binding, Global: n.Global, Span: n.Span})
		return IdentExpr{exprBase: base, Ident: id}, nil
	case "int":
		return LiteralExpr{exprBase: base, Kind: LitInt, Raw: n.Raw}, nil
	case "float":
		return LiteralExpr{exprBase: base, Kind: LitFloat, Raw: n.Raw}, nil
	case "str":
		return LiteralExpr{exprBase: base, Kind: LitString, Raw: n.Raw}, nil
	case "bool":
		return LiteralExpr{exprBase: base, Kind: LitBool, Raw: n.Raw}, nil
	case "none":
		return LiteralExpr{exprBase: base, Kind: LitNone, Raw: "None"}, nil
	case "lambda":
		params, err := decodeParams(n.Params)
		if err != nil {
			return nil, err
		}
		body, err := decodeExpr(n.Body)
		if err != nil {
			return nil, err
		}
		return LambdaExpr{exprBase: base, Params: params, Body: body}, nil
	case "unary":
		op, ok := unOps[n.Op]
		if !ok {
			return nil, fmt.Errorf("unknown unary operator %q", n.Op)
		}
		x, err := decodeExpr(n.X)
		if err != nil {
			return nil, err
		}
		return UnaryExpr{exprBase: base, Op: op, X: x}, nil
	case "binary":
		op, ok := binOps[n.Op]
		if !ok {
			return nil, fmt.Errorf("unknown binary operator %q", n.Op)
		}
		x, err := decodeExpr(n.X)
		if err != nil {
			return nil, err
		}
		y, err := decodeExpr(n.Y)
		if err != nil {
			return nil, err
		}
		return BinaryExpr{exprBase: base, Op: op, X: x, Y: y}, nil
	case "cond":
		cond, err := decodeExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeExpr(n.ThenE)
		if err != nil {
			return nil, err
		}
		els, err := decodeExpr(n.ElseE)
		if err != nil {
			return nil, err
		}
		return CondExpr{exprBase: base, Cond: cond, Then: then, Else: els}, nil
	case "list":
		elts, err := decodeExprs(n.Elts)
		if err != nil {
			return nil, err
		}
		return ListExpr{exprBase: base, Elts: elts}, nil
	case "dict":
		entries := make([]DictEntry, 0, len(n.Entries))
		for _, e := range n.Entries {
			k, err := decodeExpr(e.Key)
			if err != nil {
				return nil, err
			}
			v, err := decodeExpr(e.Value)
			if err != nil {
				return nil, err
			}
			entries = append(entries, DictEntry{Key: k, Value: v})
		}
		return DictExpr{exprBase: base, Entries: entries}, nil
	case "listcomp":
		body, err := decodeExpr(n.Body)
		if err != nil {
			return nil, err
		}
		fc, clauses, err := decodeComp(n.For, n.Clauses)
		if err != nil {
			return nil, err
		}
		return ListCompExpr{exprBase: base, Body: body, For: fc, Clauses: clauses}, nil
	case "dictcomp":
		k, err := decodeExpr(n.Key)
		if err != nil {
			return nil, err
		}
		v, err := decodeExpr(n.Value)
		if err != nil {
			return nil, err
		}
		fc, clauses, err := decodeComp(n.For, n.Clauses)
		if err != nil {
			return nil, err
		}
		return DictCompExpr{exprBase: base, Key: k, Value: v, For: fc, Clauses: clauses}, nil
	default:
		return nil, fmt.Errorf("unknown expression kind %q", n.Kind)
	}
}

func decodeComp(f *rawForClause, clauses []rawClause) (ForClause, []CompClause, error) {
	if f == nil {
		return ForClause{}, nil, fmt.Errorf("comprehension missing for clause")
	}
	fc, err := decodeForClause(*f)
	if err != nil {
		return ForClause{}, nil, err
	}
	out := make([]CompClause, 0, len(clauses))
	for _, c := range clauses {
		switch {
		case c.For != nil:
			inner, err := decodeForClause(*c.For)
			if err != nil {
				return ForClause{}, nil, err
			}
			out = append(out, CompClause{For: &inner})
		case len(c.If) != 0:
			cond, err := decodeExpr(c.If)
			if err != nil {
				return ForClause{}, nil, err
			}
			out = append(out, CompClause{If: cond})
		default:
			return ForClause{}, nil, fmt.Errorf("comprehension clause must be for or if")
		}
	}
	return fc, out, nil
}

func decodeForClause(f rawForClause) (ForClause, error) {
	vars, err := decodeAssign(f.Vars)
	if err != nil {
		return ForClause{}, err
	}
	over, err := decodeExpr(f.Over)
	if err != nil {
		return ForClause{}, err
	}
	return ForClause{Vars: vars, Over: over}, nil
}

func decodeAssign(data json.RawMessage) (Assign, error) {
	var n rawNode
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	base := assignBase{S: decodeSpan(n.Span)}
	switch n.Kind {
	case "ident":
		id := decodeIdent(rawIdent{Name: n.Name, Binding: n.Binding, Global: n.Global, Span: n.Span})
		return IdentAssign{assignBase: base, Ident: id}, nil
	case "tuple":
		elts := make([]Assign, 0, len(n.Elts))
		for _, r := range n.Elts {
			a, err := decodeAssign(r)
			if err != nil {
				return nil, err
			}
			elts = append(elts, a)
		}
		return TupleAssign{assignBase: base, Elts: elts}, nil
	case "index":
		x, err := decodeExpr(n.X)
		if err != nil {
			return nil, err
		}
		idx, err := decodeExpr(n.Index)
		if err != nil {
			return nil, err
		}
		return IndexAssign{assignBase: base, X: x, Index: idx}, nil
	case "dot":
		x, err := decodeExpr(n.X)
		if err != nil {
			return nil, err
		}
		return DotAssign{assignBase: base, X: x, Name: n.Name}, nil
	default:
		return nil, fmt.Errorf("unknown assignment target kind %q", n.Kind)
	}
}

func decodeParams(raws []rawParam) ([]DefParam, error) {
	params := make([]DefParam, 0, len(raws))
	for _, p := range raws {
		dp := DefParam{Ident: decodeIdent(p.Ident)}
		switch p.Kind {
		case "normal", "":
			dp.Kind = ParamNormal
		case "star":
			dp.Kind = ParamStar
		case "starstar":
			dp.Kind = ParamStarStar
		default:
			return nil, fmt.Errorf("unknown parameter kind %q", p.Kind)
		}
		var err error
		if dp.Type, err = decodeOptExpr(p.Type); err != nil {
			return nil, err
		}
		if dp.Default, err = decodeOptExpr(p.Default); err != nil {
			return nil, err
		}
		params = append(params, dp)
	}
	return params, nil
}

func decodeStmts(data json.RawMessage) ([]Stmt, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	out := make([]Stmt, 0, len(raws))
	for _, r := range raws {
		s, err := decodeStmt(r)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

type rawStmt struct {
	Kind   string          `json:"kind"`
	Span   []int           `json:"span"`
	X      json.RawMessage `json:"x"`
	Target json.RawMessage `json:"target"`
	Op     string          `json:"op"`
	Vars   json.RawMessage `json:"vars"`
	Over   json.RawMessage `json:"over"`
	Body   json.RawMessage `json:"body"`
	Cond   json.RawMessage `json:"cond"`
	Then   json.RawMessage `json:"then"`
	Else   json.RawMessage `json:"else"`
	Ident  *rawIdent       `json:"name"`
	Params []rawParam      `json:"params"`
	Return json.RawMessage `json:"return"`
	Module string          `json:"module"`
	Names  []rawLoadName   `json:"names"`
}

func decodeStmt(data json.RawMessage) (Stmt, error) {
	var n rawStmt
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	base := stmtBase{S: decodeSpan(n.Span)}
	switch n.Kind {
	case "expr":
		x, err := decodeExpr(n.X)
		if err != nil {
			return nil, err
		}
		return ExprStmt{stmtBase: base, X: x}, nil
	case "assign":
		target, err := decodeAssign(n.Target)
		if err != nil {
			return nil, err
		}
		x, err := decodeExpr(n.X)
		if err != nil {
			return nil, err
		}
		return AssignStmt{stmtBase: base, Target: target, X: x}, nil
	case "assignop":
		target, err := decodeAssign(n.Target)
		if err != nil {
			return nil, err
		}
		op, ok := binOps[n.Op]
		if !ok {
			return nil, fmt.Errorf("unknown binary operator %q", n.Op)
		}
		x, err := decodeExpr(n.X)
		if err != nil {
			return nil, err
		}
		return AssignOpStmt{stmtBase: base, Target: target, Op: op, X: x}, nil
	case "return":
		x, err := decodeOptExpr(n.X)
		if err != nil {
			return nil, err
		}
		return ReturnStmt{stmtBase: base, X: x}, nil
	case "for":
		vars, err := decodeAssign(n.Vars)
		if err != nil {
			return nil, err
		}
		over, err := decodeExpr(n.Over)
		if err != nil {
			return nil, err
		}
		body, err := decodeStmts(n.Body)
		if err != nil {
			return nil, err
		}
		return ForStmt{stmtBase: base, Vars: vars, Over: over, Body: body}, nil
	case "if":
		cond, err := decodeExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeStmts(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeStmts(n.Else)
		if err != nil {
			return nil, err
		}
		return IfStmt{stmtBase: base, Cond: cond, Then: then, Else: els}, nil
	case "def":
		if n.Ident == nil {
			return nil, fmt.Errorf("def missing name")
		}
		params, err := decodeParams(n.Params)
		if err != nil {
			return nil, err
		}
		ret, err := decodeOptExpr(n.Return)
		if err != nil {
			return nil, err
		}
		body, err := decodeStmts(n.Body)
		if err != nil {
			return nil, err
		}
		return DefStmt{stmtBase: base, Name: decodeIdent(*n.Ident), Params: params, Return: ret, Body: body}, nil
	case "load":
		names := make([]LoadSymbol, 0, len(n.Names))
		for _, ln := range n.Names {
			names = append(names, LoadSymbol{Their: ln.Their, Local: decodeIdent(ln.Local)})
		}
		return LoadStmt{stmtBase: base, Module: n.Module, Names: names}, nil
	case "break":
		return BreakStmt{stmtBase: base}, nil
	case "continue":
		return ContinueStmt{stmtBase: base}, nil
	case "pass":
		return PassStmt{stmtBase: base}, nil
	default:
		return nil, fmt.Errorf("unknown statement kind %q", n.Kind)
	}
}
