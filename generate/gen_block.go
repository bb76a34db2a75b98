package generate

import (
	"cayc/ast"
	"cayc/typing"
)

// genBlock generates a block in a new local scope.
func (g *Generator) genBlock(block *ast.Block) {
	g.scopes.PushScope()
	defer g.scopes.PopScope()

	for _, stmt := range block.Stmts {
		g.genStmt(stmt)
	}
}

// genStmt generates a statement.
func (g *Generator) genStmt(stmt ast.ASTNode) {
	// Code following a jump is unreachable but it still needs a block to live
	// in.
	if g.block.Term != nil {
		g.block = g.appendBlock()
	}

	switch v := stmt.(type) {
	case *ast.Block:
		g.genBlock(v)
	case *ast.VarDecl:
		g.genVarDecl(v)
	case *ast.IfStmt:
		g.genIfStmt(v)
	case *ast.WhileLoop:
		g.genWhileLoop(v)
	case *ast.ForLoop:
		g.genForLoop(v)
	case *ast.KeywordStmt:
		g.genKeywordStmt(v)
	case *ast.ReturnStmt:
		g.genReturnStmt(v)
	case *ast.ExprStmt:
		g.genExpr(v.Expr)
	}
}

// genScoped generates a statement which is the body of a control flow
// statement.  It gets a scope of its own even if it is not a block.
func (g *Generator) genScoped(stmt ast.ASTNode) {
	g.scopes.PushScope()
	defer g.scopes.PopScope()

	g.genStmt(stmt)
}

// genVarDecl generates a local variable declaration.  Variables without an
// initializer start out as their type's zero value.
func (g *Generator) genVarDecl(vd *ast.VarDecl) {
	if vd.Init == nil {
		g.declareLocal(vd.Name, vd.Type, g.zeroValue(vd.Type))
		return
	}

	init := g.genExpr(vd.Init)
	g.declareLocal(vd.Name, vd.Type, g.convert(init.val, init.typ, vd.Type))
}

// genReturnStmt generates a return statement.
func (g *Generator) genReturnStmt(rs *ast.ReturnStmt) {
	if rs.Value == nil || typing.Equals(g.returnType, typing.PrimVoid) {
		g.block.NewRet(nil)
		return
	}

	result := g.genExpr(rs.Value)
	g.block.NewRet(g.convert(result.val, result.typ, g.returnType))
}
