package walk

import (
	"cayc/ast"
	"cayc/report"
	"cayc/typing"
)

// walkIfStmt walks an if statement.
func (w *Walker) walkIfStmt(is *ast.IfStmt) {
	w.mustBeBool(is.Cond)
	w.walkScoped(is.Then)

	if is.Else != nil {
		w.walkScoped(is.Else)
	}
}

// walkWhileLoop walks a while loop.
func (w *Walker) walkWhileLoop(wl *ast.WhileLoop) {
	w.mustBeBool(wl.Cond)

	w.loopDepth++
	w.walkScoped(wl.Body)
	w.loopDepth--
}

// walkForLoop walks a for loop.  The loop's header variables are visible only
// inside the loop.
func (w *Walker) walkForLoop(fl *ast.ForLoop) {
	w.scopes.PushScope()
	defer w.scopes.PopScope()

	if fl.Init != nil {
		w.walkStmt(fl.Init)
	}

	if fl.Cond != nil {
		w.mustBeBool(fl.Cond)
	}

	if fl.Update != nil {
		w.walkExpr(fl.Update)
	}

	w.loopDepth++
	w.walkScoped(fl.Body)
	w.loopDepth--
}

// walkReturnStmt walks a return statement.
func (w *Walker) walkReturnStmt(rs *ast.ReturnStmt) {
	isVoid := typing.Equals(w.returnType, typing.PrimVoid)

	if rs.Value == nil {
		if !isVoid {
			w.recError(report.ReturnTypeMismatch, rs.Span(), "missing return value of type `%s`", w.returnType.Repr())
		}

		return
	}

	w.walkExpr(rs.Value)

	if isVoid {
		w.recError(report.ReturnTypeMismatch, rs.Value.Span(), "cannot return a value from a void method")
	} else if !w.reg.Assignable(rs.Value.Type(), w.returnType) {
		w.recError(
			report.ReturnTypeMismatch,
			rs.Value.Span(),
			"cannot return `%s` from a method returning `%s`",
			rs.Value.Type().Repr(),
			w.returnType.Repr(),
		)
	}
}
