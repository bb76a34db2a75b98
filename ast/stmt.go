package ast

import "cayc/typing"

// Block is a braced sequence of statements which opens a new scope.
type Block struct {
	ASTBase

	Stmts []ASTNode
}

// VarDecl represents a local variable declaration.
type VarDecl struct {
	ASTBase

	Name    string
	Type    typing.DataType
	IsFinal bool

	// Init is the initializer of the variable.  This may be nil.
	Init ASTExpr
}

// IfStmt represents an if statement with an optional else branch.
type IfStmt struct {
	ASTBase

	Cond ASTExpr
	Then ASTNode
	Else ASTNode
}

// WhileLoop represents a while loop.
type WhileLoop struct {
	ASTBase

	Cond ASTExpr
	Body ASTNode
}

// ForLoop represents a C-style for loop.  Any of its header clauses may be nil.
type ForLoop struct {
	ASTBase

	Init   ASTNode
	Cond   ASTExpr
	Update ASTExpr
	Body   ASTNode
}

// Enumeration of keyword statement kinds.
const (
	KwBreak = iota
	KwContinue
)

// KeywordStmt represents a single keyword control flow statement (eg. `break`).
type KeywordStmt struct {
	ASTBase

	Kind int
}

// ReturnStmt represents a return statement.
type ReturnStmt struct {
	ASTBase

	// Value is the returned expression.  This may be nil.
	Value ASTExpr
}

// ExprStmt is an expression evaluated for its effects.
type ExprStmt struct {
	ASTBase

	Expr ASTExpr
}
