package walk

import (
	"cayc/ast"
	"cayc/depm"
	"cayc/report"
	"cayc/typing"
	"cayc/util"
	"strings"
)

// doWalkDef walks a class member.
func (w *Walker) doWalkDef(def ast.ClassMember) {
	switch v := def.(type) {
	case *ast.FieldDecl:
		w.walkField(v)
	case *ast.MethodDecl:
		w.walkMethod(v)
	case *ast.ConstructorDecl:
		w.walkConstructor(v)
	case *ast.DestructorDecl:
		w.ctx = ctxMethod
		w.walkBlock(v.Body)
	case *ast.InitializerBlock:
		if v.IsStatic {
			w.ctx = ctxStaticInit
		} else {
			w.ctx = ctxInstanceInit
		}

		w.walkBlock(v.Body)
	}
}

// walkField walks a field's type and initializer.  Initializers run as part of
// class or instance initialization.
func (w *Walker) walkField(fd *ast.FieldDecl) {
	w.checkType(fd.Type, fd.Span())

	if fd.Init == nil {
		return
	}

	if fd.Modifiers.Has(ast.ModStatic) {
		w.ctx = ctxStaticInit
	} else {
		w.ctx = ctxInstanceInit
	}

	w.walkExpr(fd.Init)
	w.mustAssign(report.IncompatibleAssignment, fd.Init.Type(), fd.Type, fd.Init.Span())
}

// walkMethod walks a method's signature and body.
func (w *Walker) walkMethod(md *ast.MethodDecl) {
	w.checkType(md.ReturnType, md.Span())

	if md.Modifiers.Has(ast.ModStatic) {
		w.ctx = ctxStaticMethod
	} else {
		w.ctx = ctxMethod
	}

	w.returnType = md.ReturnType
	w.declareParams(md.Params)

	if md.Body != nil {
		w.walkBlock(md.Body)
	}
}

// walkConstructor walks a constructor including its chained call.
func (w *Walker) walkConstructor(cd *ast.ConstructorDecl) {
	w.ctx = ctxConstructor
	w.declareParams(cd.Params)

	if chain := cd.Chain; chain != nil {
		target := w.class
		if chain.IsSuper {
			parent, ok := w.reg.GetClass(w.class.Parent)
			if !ok {
				w.error(report.UndefinedSymbol, chain.Span, "class `%s` has no parent constructor to call", w.class.Name)
			}

			target = parent
		}

		chain.CtorIndex = w.resolveConstructor(target, chain.Args, chain.Span)
	} else {
		w.checkImplicitSuper(cd.Span())
	}

	w.walkBlock(cd.Body)
}

// checkImplicitSuper asserts that the parent of the walker's class can be
// initialized without arguments.  This happens in every constructor without an
// explicit chain and in classes which declare no constructors.
func (w *Walker) checkImplicitSuper(span *report.TextSpan) {
	parent, ok := w.reg.GetClass(w.class.Parent)
	if !ok {
		return
	}

	if _, ok := w.reg.DefaultConstructor(parent); !ok {
		w.error(
			report.ArgumentCountMismatch,
			span,
			"class `%s` has no constructor accepting 0 arguments: call one explicitly with `: super(...)`",
			parent.Name,
		)
	}
}

// declareParams declares the parameters of a method in its outermost scope.
func (w *Walker) declareParams(params []*ast.Param) {
	for _, param := range params {
		w.checkType(param.Type, param.Span)
		w.declareLocal(param.Name, SemanticSymbol{Type: param.Type, IsInitialized: true}, param.Span)
	}
}

// -----------------------------------------------------------------------------

// resolveConstructor walks the arguments of a constructor call and selects the
// constructor of class they match.  It returns -1 if the class declares no
// constructors.
func (w *Walker) resolveConstructor(class *depm.ClassInfo, args []ast.ASTExpr, span *report.TextSpan) int {
	argTypes := w.walkArgs(args)

	if len(class.Constructors) == 0 {
		if len(args) > 0 {
			w.error(
				report.ArgumentCountMismatch,
				span,
				"class `%s` has no constructor accepting %d arguments",
				class.Name,
				len(args),
			)
		}

		return -1
	}

	badCount := true
	for i, ctor := range class.Constructors {
		switch w.reg.MatchArgs(ctor.Params, argTypes) {
		case depm.MatchOK:
			return i
		case depm.MatchBadTypes:
			badCount = false
		}
	}

	if badCount {
		w.error(
			report.ArgumentCountMismatch,
			span,
			"class `%s` has no constructor accepting %d arguments",
			class.Name,
			len(args),
		)
	}

	w.error(
		report.ArgumentTypeMismatch,
		span,
		"no constructor of class `%s` accepts arguments of types (%s)",
		class.Name,
		typeListRepr(argTypes),
	)
	return -1
}

// resolveOverload selects the first method whose parameters match the
// argument types.  The candidates are ordered nearest class first.
func (w *Walker) resolveOverload(name string, candidates []*depm.MethodInfo, argTypes []typing.DataType, span *report.TextSpan) *depm.MethodInfo {
	if len(candidates) == 0 {
		w.error(report.UndefinedSymbol, span, "undefined method: `%s`", name)
	}

	badCount := true
	for _, mi := range candidates {
		switch w.reg.MatchArgs(mi.Params, argTypes) {
		case depm.MatchOK:
			return mi
		case depm.MatchBadTypes:
			badCount = false
		}
	}

	if badCount {
		w.error(
			report.ArgumentCountMismatch,
			span,
			"no overload of `%s` accepts %d arguments",
			name,
			len(argTypes),
		)
	}

	w.error(
		report.ArgumentTypeMismatch,
		span,
		"no overload of `%s` accepts arguments of types (%s)",
		name,
		typeListRepr(argTypes),
	)
	return nil
}

func typeListRepr(types []typing.DataType) string {
	return strings.Join(util.Map(types, typing.DataType.Repr), ", ")
}
