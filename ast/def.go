package ast

import (
	"cayc/report"
	"cayc/typing"
)

// File is the root of the AST of a single source file.
type File struct {
	Interfaces []*InterfaceDecl
	Classes    []*ClassDecl
}

// ClassDecl is an AST node for a class definition.
type ClassDecl struct {
	ASTBase

	Name      string
	Modifiers Modifiers

	// Parent is the name of the extended class or empty if there is none.
	Parent string

	Interfaces []string
	Members    []ClassMember
}

// ClassMember is implemented by every node which can appear in a class body.
type ClassMember interface {
	ASTNode

	classMember()
}

// InterfaceDecl is an AST node for an interface definition.  Its methods never
// have bodies.
type InterfaceDecl struct {
	ASTBase

	Name      string
	Modifiers Modifiers
	Methods   []*MethodDecl
}

// -----------------------------------------------------------------------------

// FieldDecl is an AST node for a field.
type FieldDecl struct {
	ASTBase

	Name      string
	Type      typing.DataType
	Modifiers Modifiers

	// Init is the initializer of the field.  This may be nil.
	Init ASTExpr
}

// Param is a method or constructor parameter.  A varargs parameter has an
// array type and is always the last parameter.
type Param struct {
	Name      string
	Type      typing.DataType
	IsVarargs bool
	Span      *report.TextSpan
}

// MethodDecl is an AST node for a method.
type MethodDecl struct {
	ASTBase

	Name       string
	Modifiers  Modifiers
	ReturnType typing.DataType
	Params     []*Param

	// Body is nil for native methods and interface methods.
	Body *Block
}

// ConstructorChain is an explicit `: this(...)` or `: super(...)` call at the
// head of a constructor.
type ConstructorChain struct {
	IsSuper bool
	Args    []ASTExpr
	Span    *report.TextSpan

	// CtorIndex is the index of the chained constructor within its class.  It
	// is set during type checking and is -1 if the target class declares no
	// constructors.
	CtorIndex int
}

// ConstructorDecl is an AST node for a constructor.
type ConstructorDecl struct {
	ASTBase

	Modifiers Modifiers
	Params    []*Param
	Chain     *ConstructorChain
	Body      *Block
}

// DestructorDecl is an AST node for a destructor.
type DestructorDecl struct {
	ASTBase

	Body *Block
}

// InitializerBlock is a `static { ... }` or instance `{ ... }` initializer.
type InitializerBlock struct {
	ASTBase

	IsStatic bool
	Body     *Block
}

func (*FieldDecl) classMember()        {}
func (*MethodDecl) classMember()       {}
func (*ConstructorDecl) classMember()  {}
func (*DestructorDecl) classMember()   {}
func (*InitializerBlock) classMember() {}
