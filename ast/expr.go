package ast

import (
	"cayc/report"
	"cayc/typing"
)

// ASTExpr is the interface for all expression nodes.  The type of every
// expression is filled in during type checking.
type ASTExpr interface {
	ASTNode

	// Type returns the yielded type of the expression.
	Type() typing.DataType

	// SetType sets the yielded type of the expression.
	SetType(typing.DataType)
}

// ExprBase is the base struct for all expressions.
type ExprBase struct {
	ASTBase

	typ typing.DataType
}

// NewExprBase creates a new expression base over the given span.
func NewExprBase(span *report.TextSpan) ExprBase {
	return ExprBase{ASTBase: NewASTBaseOn(span)}
}

func (eb *ExprBase) Type() typing.DataType {
	return eb.typ
}

func (eb *ExprBase) SetType(typ typing.DataType) {
	eb.typ = typ
}

// -----------------------------------------------------------------------------

// Enumeration of literal kinds.
const (
	LitInt = iota
	LitLong
	LitFloat
	LitDouble
	LitChar
	LitString
	LitBool
	LitNull
)

// Literal is a literal value.  Value holds the literal's text with string and
// character escapes already decoded.
type Literal struct {
	ExprBase

	Kind  int
	Value string
}

// Identifier is a bare name.
type Identifier struct {
	ExprBase

	Name string
}

// This is the receiver keyword.
type This struct {
	ExprBase
}

// MemberAccess is an `object.member` expression.
type MemberAccess struct {
	ExprBase

	Object ASTExpr
	Member string
}

// Call is a method call.  Func is either an Identifier (a method of the
// enclosing class) or a MemberAccess.
type Call struct {
	ExprBase

	Func ASTExpr
	Args []ASTExpr

	// The fields below are set during type checking.

	// Owner is the class declaring the called method and Overload is the index
	// of the method within its overload set.
	Owner    string
	Overload int

	// Builtin is the name of the string method being called if the receiver is
	// a string.
	Builtin string

	// IsStatic indicates whether the called method is static.
	IsStatic bool
}

// Index is an array indexing expression.
type Index struct {
	ExprBase

	Array ASTExpr
	Index ASTExpr
}

// NewObject is an object allocation: `new C(args)`.
type NewObject struct {
	ExprBase

	ClassName string
	Args      []ASTExpr

	// CtorIndex is set during type checking.  It is -1 if the class declares no
	// constructors.
	CtorIndex int
}

// NewArray is an array allocation: `new T[n]`.
type NewArray struct {
	ExprBase

	ElemType typing.DataType
	Length   ASTExpr
}

// Ternary is a conditional expression: `c ? a : b`.
type Ternary struct {
	ExprBase

	Cond, Then, Else ASTExpr
}

// -----------------------------------------------------------------------------

// OpKind is a unary or binary operator.
type OpKind int

// Enumeration of operators.
const (
	OpAdd OpKind = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNeq
	OpLt
	OpLtEq
	OpGt
	OpGtEq
	OpAnd
	OpOr
	OpNot
	OpNeg
)

var opNames = [...]string{"+", "-", "*", "/", "%", "==", "!=", "<", "<=", ">", ">=", "&&", "||", "!", "-"}

func (op OpKind) String() string {
	return opNames[op]
}

// IsComparison returns whether op yields a boolean from two operands.
func (op OpKind) IsComparison() bool {
	return OpEq <= op && op <= OpGtEq
}

// BinaryOp is a binary operator application.
type BinaryOp struct {
	ExprBase

	Op       OpKind
	Lhs, Rhs ASTExpr
}

// UnaryOp is a unary operator application.
type UnaryOp struct {
	ExprBase

	Op      OpKind
	Operand ASTExpr
}

// Assign is an assignment expression.  A compound assignment such as `+=` has
// a non-nil CompoundOp.
type Assign struct {
	ExprBase

	Target     ASTExpr
	Value      ASTExpr
	CompoundOp *OpKind
}
