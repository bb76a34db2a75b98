package generate

import (
	"cayc/ast"
	"cayc/report"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
)

// genIfStmt generates an if statement with an optional else branch.
func (g *Generator) genIfStmt(ifStmt *ast.IfStmt) {
	thenBlock := g.appendBlock()
	endBlock := g.appendBlock()

	// If there is no else branch, then the else block is the end block.
	elseBlock := endBlock
	if ifStmt.Else != nil {
		elseBlock = g.appendBlock()
	}

	cond := g.genExpr(ifStmt.Cond)
	g.block.NewCondBr(cond.val, thenBlock, elseBlock)

	g.block = thenBlock
	g.genScoped(ifStmt.Then)
	g.branchTo(endBlock)

	if ifStmt.Else != nil {
		g.block = elseBlock
		g.genScoped(ifStmt.Else)
		g.branchTo(endBlock)
	}

	g.block = endBlock
}

// genWhileLoop generates a while loop.
func (g *Generator) genWhileLoop(loop *ast.WhileLoop) {
	headerBlock := g.appendBlock()
	bodyBlock := g.appendBlock()
	endBlock := g.appendBlock()

	g.block.NewBr(headerBlock)

	g.block = headerBlock
	cond := g.genExpr(loop.Cond)
	g.block.NewCondBr(cond.val, bodyBlock, endBlock)

	g.block = bodyBlock
	g.genLoopBody(loop.Body, endBlock, headerBlock)
	g.branchTo(headerBlock)

	g.block = endBlock
}

// genForLoop generates a C-style for loop.  The loop header gets its own
// scope.  A missing condition is always true.
func (g *Generator) genForLoop(loop *ast.ForLoop) {
	g.scopes.PushScope()
	defer g.scopes.PopScope()

	if loop.Init != nil {
		g.genStmt(loop.Init)
	}

	headerBlock := g.appendBlock()
	bodyBlock := g.appendBlock()
	updateBlock := g.appendBlock()
	endBlock := g.appendBlock()

	g.block.NewBr(headerBlock)

	g.block = headerBlock
	if loop.Cond != nil {
		cond := g.genExpr(loop.Cond)
		g.block.NewCondBr(cond.val, bodyBlock, endBlock)
	} else {
		g.block.NewCondBr(constant.True, bodyBlock, endBlock)
	}

	g.block = bodyBlock
	g.genLoopBody(loop.Body, endBlock, updateBlock)
	g.branchTo(updateBlock)

	g.block = updateBlock
	if loop.Update != nil {
		g.genExpr(loop.Update)
	}
	g.block.NewBr(headerBlock)

	g.block = endBlock
}

// genLoopBody generates the body of a loop with the given jump targets for
// `break` and `continue`.
func (g *Generator) genLoopBody(body ast.ASTNode, breakBlock, continueBlock *ir.Block) {
	g.loops = append(g.loops, loopContext{breakBlock: breakBlock, continueBlock: continueBlock})
	defer func() {
		g.loops = g.loops[:len(g.loops)-1]
	}()

	g.genScoped(body)
}

// genKeywordStmt generates a `break` or `continue`.
func (g *Generator) genKeywordStmt(ks *ast.KeywordStmt) {
	if len(g.loops) == 0 {
		panic(report.ICE(report.CodegenFailure, "jump outside of a loop in class `%s`", g.class.Name))
	}

	loop := g.loops[len(g.loops)-1]
	if ks.Kind == ast.KwBreak {
		g.block.NewBr(loop.breakBlock)
	} else {
		g.block.NewBr(loop.continueBlock)
	}
}

// branchTo terminates the current block with a jump unless it has already
// been terminated.
func (g *Generator) branchTo(target *ir.Block) {
	if g.block.Term == nil {
		g.block.NewBr(target)
	}
}
