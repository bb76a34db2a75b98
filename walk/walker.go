package walk

import (
	"cayc/ast"
	"cayc/depm"
	"cayc/report"
	"cayc/typing"
	"cayc/util"
)

// SemanticSymbol is the payload of the type checker's local symbol table.
type SemanticSymbol struct {
	Type    typing.DataType
	IsFinal bool

	// IsInitialized is set once the symbol has been given a value.  A final
	// symbol can only be assigned while it is uninitialized.
	IsInitialized bool
}

// defContext indicates the kind of definition the walker is inside.
type defContext int

const (
	ctxMethod defContext = iota
	ctxStaticMethod
	ctxConstructor
	ctxInstanceInit
	ctxStaticInit
)

// Walker is responsible for walking the definitions of a single class and
// performing semantic analysis on them.  Walkers only ever read the registry so
// several walkers may run at once.
type Walker struct {
	reg   *depm.TypeRegistry
	class *depm.ClassInfo

	// The stack of local scopes used to lookup symbols.
	scopes *util.ScopeStack[SemanticSymbol]

	// The kind of definition being walked.
	ctx defContext

	// The return type of the enclosing method.  This is void for constructors
	// and initializers.
	returnType typing.DataType

	// The number of loops enclosing the current statement.
	loopDepth int

	// The errors reported while walking the class.
	errors []*report.CompileError
}

// NewWalker creates a new walker for the given class.
func NewWalker(reg *depm.TypeRegistry, class *depm.ClassInfo) *Walker {
	return &Walker{reg: reg, class: class}
}

// Errors returns all the errors reported by the walker in the order they were
// found.
func (w *Walker) Errors() []*report.CompileError {
	return w.errors
}

// WalkClass walks every member of the walker's class.  Each member is walked
// independently: an error which aborts one member does not stop the others.
func (w *Walker) WalkClass() {
	if w.class.Decl == nil {
		return
	}

	if len(w.class.Constructors) == 0 {
		w.walkImplicitConstructor()
	}

	for _, member := range w.class.Decl.Members {
		w.walkDef(member)
	}
}

// walkImplicitConstructor checks the initialization performed for a class that
// declares no constructors.
func (w *Walker) walkImplicitConstructor() {
	defer func() {
		if x := recover(); x != nil {
			if cerr, ok := x.(*report.CompileError); ok {
				w.errors = append(w.errors, cerr)
			} else {
				panic(x)
			}
		}
	}()

	w.checkImplicitSuper(w.class.Span)
}

// walkDef walks a class member and catches any errors that occur.
func (w *Walker) walkDef(def ast.ClassMember) {
	// Catch any errors that occur while walking the definition.
	defer func() {
		if x := recover(); x != nil {
			if cerr, ok := x.(*report.CompileError); ok {
				w.errors = append(w.errors, cerr)
			} else {
				panic(x)
			}
		}
	}()

	// Ensure that the walker is reset.
	defer func() {
		w.scopes = nil
		w.returnType = nil
		w.loopDepth = 0
	}()

	w.scopes = util.NewScopeStack[SemanticSymbol]()
	w.returnType = typing.PrimVoid

	w.doWalkDef(def)
}

// -----------------------------------------------------------------------------

// isStatic returns whether the walker is in a context without a receiver.
func (w *Walker) isStatic() bool {
	return w.ctx == ctxStaticMethod || w.ctx == ctxStaticInit
}

// declareLocal declares a local symbol in the current scope.
func (w *Walker) declareLocal(name string, sym SemanticSymbol, span *report.TextSpan) {
	if _, ok := w.scopes.LookupCurrent(name); ok {
		w.error(report.DuplicateDefinition, span, "multiple symbols named `%s` defined in immediate local scope", name)
	}

	w.scopes.Declare(name, sym)
}

// checkType asserts that every class named by a type exists.
func (w *Walker) checkType(typ typing.DataType, span *report.TextSpan) {
	switch v := typ.(type) {
	case *typing.ArrayType:
		w.checkType(v.ElemType, span)
	case *typing.ObjectType:
		if w.reg.ClassExists(v.Name) {
			return
		} else if _, ok := w.reg.GetInterface(v.Name); ok {
			return
		}

		w.error(report.UndefinedSymbol, span, "undefined type: `%s`", v.Name)
	}
}

// isClassRef returns whether expr is a bare identifier which names a class.
func (w *Walker) isClassRef(expr ast.ASTExpr) (string, bool) {
	if ident, ok := expr.(*ast.Identifier); ok && w.reg.ClassExists(ident.Name) {
		return ident.Name, true
	}

	return "", false
}

// -----------------------------------------------------------------------------

// error reports an error on the given span that aborts walking of the current
// definition.
func (w *Walker) error(kind report.ErrorKind, span *report.TextSpan, msg string, args ...interface{}) {
	panic(report.Raise(kind, span, msg, args...))
}

// recError reports a recoverable error on the given span.
func (w *Walker) recError(kind report.ErrorKind, span *report.TextSpan, msg string, args ...interface{}) {
	w.errors = append(w.errors, report.Raise(kind, span, msg, args...))
}

// mustAssign reports an error if a value of type from cannot be assigned to a
// location of type to.
func (w *Walker) mustAssign(kind report.ErrorKind, from, to typing.DataType, span *report.TextSpan) {
	if !w.reg.Assignable(from, to) {
		w.recError(kind, span, "cannot assign `%s` to `%s`", from.Repr(), to.Repr())
	}
}
