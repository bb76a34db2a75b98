package walk

import (
	"cayc/ast"
	"cayc/report"
	"cayc/typing"
)

// walkBlock walks a block in a new scope.
func (w *Walker) walkBlock(b *ast.Block) {
	w.scopes.PushScope()
	defer w.scopes.PopScope()

	for _, stmt := range b.Stmts {
		w.walkStmt(stmt)
	}
}

// walkStmt walks a single statement.
func (w *Walker) walkStmt(stmt ast.ASTNode) {
	switch v := stmt.(type) {
	case *ast.Block:
		w.walkBlock(v)
	case *ast.VarDecl:
		w.walkVarDecl(v)
	case *ast.IfStmt:
		w.walkIfStmt(v)
	case *ast.WhileLoop:
		w.walkWhileLoop(v)
	case *ast.ForLoop:
		w.walkForLoop(v)
	case *ast.ReturnStmt:
		w.walkReturnStmt(v)
	case *ast.KeywordStmt:
		if w.loopDepth == 0 {
			kw := "break"
			if v.Kind == ast.KwContinue {
				kw = "continue"
			}

			w.error(report.InvalidOperand, v.Span(), "`%s` used outside of a loop", kw)
		}
	case *ast.ExprStmt:
		w.walkExpr(v.Expr)
	}
}

// walkScoped walks a statement which may not be a block in its own scope so
// that declarations in unbraced branches do not leak.
func (w *Walker) walkScoped(stmt ast.ASTNode) {
	w.scopes.PushScope()
	defer w.scopes.PopScope()

	w.walkStmt(stmt)
}

// walkVarDecl walks a local variable declaration.
func (w *Walker) walkVarDecl(vd *ast.VarDecl) {
	w.checkType(vd.Type, vd.Span())

	if vd.Init != nil {
		w.walkExpr(vd.Init)
		w.mustAssign(report.IncompatibleAssignment, vd.Init.Type(), vd.Type, vd.Init.Span())
	}

	w.declareLocal(vd.Name, SemanticSymbol{
		Type:          vd.Type,
		IsFinal:       vd.IsFinal,
		IsInitialized: vd.Init != nil,
	}, vd.Span())
}

// mustBeBool asserts that a condition is boolean.
func (w *Walker) mustBeBool(cond ast.ASTExpr) {
	w.walkExpr(cond)

	if !typing.Equals(cond.Type(), typing.PrimBool) {
		w.error(report.InvalidOperand, cond.Span(), "condition must be `bool` not `%s`", cond.Type().Repr())
	}
}
