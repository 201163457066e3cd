// Package syntax defines the resolved syntax tree consumed by the type
// checker. The parser and scope resolver are external: by the time a tree
// reaches this package every identifier carries either a local binding
// slot, a resolved global reference, or is explicitly unresolved (a scope
// error was already reported upstream).
package syntax

import "fmt"

// Pos is a 1-based source position.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

// Span covers a source range, used on every diagnostic.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string { return s.Start.String() }

// BindingId identifies a resolved variable slot, assigned by the external
// scope-resolution pass. Ids are unique across a whole module, including
// nested function bodies.
type BindingId int

// GlobalRef is a resolved reference to a global or builtin value.
// Hosts that publish a static type for the value additionally implement
// TypedGlobal on the concrete type.
type GlobalRef interface {
	GlobalName() string
}

// Ident is an identifier reference after scope resolution.
// Exactly one of Binding/Global is set; both nil means scope resolution
// failed and the error was already reported.
type Ident struct {
	Name    string
	Binding *BindingId
	Global  GlobalRef
	Pos     Span
}

type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpPercent
	OpBitAnd
	OpBitOr
	OpBitXor
	OpLeftShift
	OpRightShift
	OpAnd
	OpOr
	OpEqual
	OpNotEqual
	OpLess
	OpLessOrEqual
	OpGreater
	OpGreaterOrEqual
	OpIn
	OpNotIn
)

func (op BinOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpFloorDiv:
		return "//"
	case OpPercent:
		return "%"
	case OpBitAnd:
		return "&"
	case OpBitOr:
		return "|"
	case OpBitXor:
		return "^"
	case OpLeftShift:
		return "<<"
	case OpRightShift:
		return ">>"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpLess:
		return "<"
	case OpLessOrEqual:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterOrEqual:
		return ">="
	case OpIn:
		return "in"
	case OpNotIn:
		return "not in"
	}
	return "?"
}

type UnOp int

const (
	OpNot UnOp = iota
	OpMinus
	OpPlus
	OpBitNot
)

func (op UnOp) String() string {
	switch op {
	case OpNot:
		return "not"
	case OpMinus:
		return "-"
	case OpPlus:
		return "+"
	case OpBitNot:
		return "~"
	}
	return "?"
}

// Expr is a resolved expression node.
type Expr interface {
	Span() Span
	isExpr()
}

type exprBase struct{ S Span }

func (e exprBase) Span() Span { return e.S }
func (e exprBase) isExpr()    {}

type TupleExpr struct {
	exprBase
	Elts []Expr
}

type DotExpr struct {
	exprBase
	X        Expr
	Name     string
	NameSpan Span
}

type ArgKind int

const (
	ArgPos ArgKind = iota
	ArgNamed
	ArgStar     // *args
	ArgStarStar // **kwargs
)

type Argument struct {
	Kind ArgKind
	Name string // set for ArgNamed
	X    Expr
}

type CallExpr struct {
	exprBase
	Fn   Expr
	Args []Argument
}

type IndexExpr struct {
	exprBase
	X     Expr
	Index Expr
}

type SliceExpr struct {
	exprBase
	X      Expr
	Start  Expr // nil when absent
	Stop   Expr
	Stride Expr
}

type IdentExpr struct {
	exprBase
	Ident Ident
}

type LitKind int

const (
	LitInt LitKind = iota
	LitFloat
	LitString
	LitNone
	LitBool
)

type LiteralExpr struct {
	exprBase
	Kind LitKind
	Raw  string
}

type LambdaExpr struct {
	exprBase
	Params []DefParam
	Body   Expr
}

type UnaryExpr struct {
	exprBase
	Op UnOp
	X  Expr
}

type BinaryExpr struct {
	exprBase
	Op BinOp
	X  Expr
	Y  Expr
}

type CondExpr struct {
	exprBase
	Cond Expr
	Then Expr
	Else Expr
}

type ListExpr struct {
	exprBase
	Elts []Expr
}

type DictEntry struct {
	Key   Expr
	Value Expr
}

type DictExpr struct {
	exprBase
	Entries []DictEntry
}

// ForClause is the leading `for vars in over` of a comprehension.
type ForClause struct {
	Vars Assign
	Over Expr
}

// CompClause is a trailing `for` or `if` clause of a comprehension.
// Exactly one of For/If is set.
type CompClause struct {
	For *ForClause
	If  Expr
}

type ListCompExpr struct {
	exprBase
	Body    Expr
	For     ForClause
	Clauses []CompClause
}

type DictCompExpr struct {
	exprBase
	Key     Expr
	Value   Expr
	For     ForClause
	Clauses []CompClause
}

// Assign is an assignment target.
type Assign interface {
	Span() Span
	isAssign()
}

type assignBase struct{ S Span }

func (a assignBase) Span() Span { return a.S }
func (a assignBase) isAssign()  {}

type IdentAssign struct {
	assignBase
	Ident Ident
}

type TupleAssign struct {
	assignBase
	Elts []Assign
}

type IndexAssign struct {
	assignBase
	X     Expr
	Index Expr
}

type DotAssign struct {
	assignBase
	X    Expr
	Name string
}

// BindExpr describes one way a binding acquires a type. The checker
// unions the types of all bind expressions recorded for a binding.
type BindExpr interface {
	Span() Span
	isBind()
}

type bindBase struct{ S Span }

func (b bindBase) Span() Span { return b.S }
func (b bindBase) isBind()    {}

// ExprBind binds the type of a plain expression.
type ExprBind struct {
	bindBase
	X Expr
}

// GetIndexBind binds element Index of a destructured tuple value.
type GetIndexBind struct {
	bindBase
	Index int
	Inner BindExpr
}

// IterBind binds the element type of an iterated value (for loops,
// comprehension clauses).
type IterBind struct {
	bindBase
	Inner BindExpr
}

// AssignOpBind binds the result of `target op= x`.
type AssignOpBind struct {
	bindBase
	Target Assign
	Op     BinOp
	X      Expr
}

// SetIndexBind refines a binding through `target[index] = inner`.
type SetIndexBind struct {
	bindBase
	Target BindingId
	Index  Expr
	Inner  BindExpr
}

// ListAppendBind refines a binding through `target.append(x)`.
type ListAppendBind struct {
	bindBase
	Target BindingId
	X      Expr
}

// ListExtendBind refines a binding through `target.extend(x)`.
type ListExtendBind struct {
	bindBase
	Target BindingId
	X      Expr
}

func NewExprBind(x Expr) ExprBind {
	return ExprBind{bindBase: bindBase{S: x.Span()}, X: x}
}

func NewGetIndexBind(index int, inner BindExpr) GetIndexBind {
	return GetIndexBind{bindBase: bindBase{S: inner.Span()}, Index: index, Inner: inner}
}

func NewIterBind(inner BindExpr) IterBind {
	return IterBind{bindBase: bindBase{S: inner.Span()}, Inner: inner}
}

func NewAssignOpBind(target Assign, op BinOp, x Expr) AssignOpBind {
	return AssignOpBind{bindBase: bindBase{S: target.Span()}, Target: target, Op: op, X: x}
}

func NewSetIndexBind(target BindingId, index Expr, inner BindExpr) SetIndexBind {
	return SetIndexBind{bindBase: bindBase{S: index.Span()}, Target: target, Index: index, Inner: inner}
}

func NewListAppendBind(target BindingId, x Expr) ListAppendBind {
	return ListAppendBind{bindBase: bindBase{S: x.Span()}, Target: target, X: x}
}

func NewListExtendBind(target BindingId, x Expr) ListExtendBind {
	return ListExtendBind{bindBase: bindBase{S: x.Span()}, Target: target, X: x}
}

// Stmt is a resolved statement node.
type Stmt interface {
	Span() Span
	isStmt()
}

type stmtBase struct{ S Span }

func (s stmtBase) Span() Span { return s.S }
func (s stmtBase) isStmt()    {}

type ExprStmt struct {
	stmtBase
	X Expr
}

type AssignStmt struct {
	stmtBase
	Target Assign
	X      Expr
}

type AssignOpStmt struct {
	stmtBase
	Target Assign
	Op     BinOp
	X      Expr
}

type ReturnStmt struct {
	stmtBase
	X Expr // nil for a bare return
}

type ForStmt struct {
	stmtBase
	Vars Assign
	Over Expr
	Body []Stmt
}

type IfStmt struct {
	stmtBase
	Cond Expr
	Then []Stmt
	Else []Stmt
}

type ParamKind int

const (
	ParamNormal ParamKind = iota
	ParamStar     // *args
	ParamStarStar // **kwargs
)

type DefParam struct {
	Kind    ParamKind
	Ident   Ident
	Type    Expr // annotation, nil when absent
	Default Expr // nil when absent
}

type DefStmt struct {
	stmtBase
	Name   Ident
	Params []DefParam
	Return Expr // return annotation, nil when absent
	Body   []Stmt
}

type LoadSymbol struct {
	Their string
	Local Ident
}

type LoadStmt struct {
	stmtBase
	Module string
	Names  []LoadSymbol
}

type BreakStmt struct{ stmtBase }

type ContinueStmt struct{ stmtBase }

type PassStmt struct{ stmtBase }
