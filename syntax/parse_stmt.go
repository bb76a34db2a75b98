package syntax

import (
	"cayc/ast"
	"cayc/report"
)

// block := '{' {stmt} '}' ;
func (p *Parser) parseBlock() *ast.Block {
	startSpan := p.want(TOK_LBRACE).Span

	var stmts []ast.ASTNode
	for !p.has(TOK_RBRACE) {
		stmts = append(stmts, p.parseStmt())
	}
	p.next()

	return &ast.Block{
		ASTBase: ast.NewASTBaseOver(startSpan, p.lookbehind.Span),
		Stmts:   stmts,
	}
}

// stmt := block | if_stmt | while_loop | for_loop | return_stmt
//      | 'break' ';' | 'continue' ';' | var_decl ';' | expr ';' ;
func (p *Parser) parseStmt() ast.ASTNode {
	switch p.tok.Kind {
	case TOK_LBRACE:
		return p.parseBlock()
	case TOK_IF:
		return p.parseIfStmt()
	case TOK_WHILE:
		return p.parseWhileLoop()
	case TOK_FOR:
		return p.parseForLoop()
	case TOK_RETURN:
		return p.parseReturnStmt()
	case TOK_BREAK, TOK_CONTINUE:
		kwTok := p.tok
		p.next()
		p.want(TOK_SEMI)

		kind := ast.KwBreak
		if kwTok.Kind == TOK_CONTINUE {
			kind = ast.KwContinue
		}

		return &ast.KeywordStmt{
			ASTBase: ast.NewASTBaseOver(kwTok.Span, p.lookbehind.Span),
			Kind:    kind,
		}
	case TOK_SEMI:
		p.reject()
	}

	stmt := p.parseSimpleStmt()
	p.want(TOK_SEMI)
	return stmt
}

// simple_stmt := var_decl | expr ;
func (p *Parser) parseSimpleStmt() ast.ASTNode {
	if p.atVarDecl() {
		return p.parseVarDecl()
	}

	expr := p.parseExpr()
	return &ast.ExprStmt{
		ASTBase: ast.NewASTBaseOn(expr.Span()),
		Expr:    expr,
	}
}

// atVarDecl returns whether the parser is at the start of a local variable
// declaration.  A leading identifier only begins a declaration if it is
// followed by another identifier or by `[]`.
func (p *Parser) atVarDecl() bool {
	switch {
	case p.has(TOK_FINAL), isPrimTypeKeyword(p.tok.Kind, false):
		return true
	case p.has(TOK_IDENT):
		next := p.peek(1)
		if next.Kind == TOK_IDENT {
			return true
		}

		return next.Kind == TOK_LBRACKET && p.peek(2).Kind == TOK_RBRACKET
	}

	return false
}

// var_decl := ['final'] type_label 'IDENT' ['=' expr] ;
func (p *Parser) parseVarDecl() *ast.VarDecl {
	startSpan := p.tok.Span

	vd := &ast.VarDecl{}
	if p.has(TOK_FINAL) {
		p.next()
		vd.IsFinal = true
	}

	vd.Type = p.parseTypeLabel(false)
	vd.Name = p.want(TOK_IDENT).Value

	if p.has(TOK_ASSIGN) {
		p.next()
		vd.Init = p.parseExpr()
	}

	vd.ASTBase = ast.NewASTBaseOver(startSpan, p.lookbehind.Span)
	return vd
}

// if_stmt := 'if' '(' expr ')' stmt ['else' stmt] ;
func (p *Parser) parseIfStmt() *ast.IfStmt {
	startSpan := p.want(TOK_IF).Span

	p.want(TOK_LPAREN)
	cond := p.parseExpr()
	p.want(TOK_RPAREN)

	is := &ast.IfStmt{
		Cond: cond,
		Then: p.parseStmt(),
	}

	if p.has(TOK_ELSE) {
		p.next()
		is.Else = p.parseStmt()
	}

	is.ASTBase = ast.NewASTBaseOver(startSpan, p.lookbehind.Span)
	return is
}

// while_loop := 'while' '(' expr ')' stmt ;
func (p *Parser) parseWhileLoop() *ast.WhileLoop {
	startSpan := p.want(TOK_WHILE).Span

	p.want(TOK_LPAREN)
	cond := p.parseExpr()
	p.want(TOK_RPAREN)

	body := p.parseStmt()
	return &ast.WhileLoop{
		ASTBase: ast.NewASTBaseOver(startSpan, body.Span()),
		Cond:    cond,
		Body:    body,
	}
}

// for_loop := 'for' '(' [simple_stmt] ';' [expr] ';' [expr] ')' stmt ;
func (p *Parser) parseForLoop() *ast.ForLoop {
	startSpan := p.want(TOK_FOR).Span
	p.want(TOK_LPAREN)

	fl := &ast.ForLoop{}

	if !p.has(TOK_SEMI) {
		fl.Init = p.parseSimpleStmt()
	}
	p.want(TOK_SEMI)

	if !p.has(TOK_SEMI) {
		fl.Cond = p.parseExpr()
	}
	p.want(TOK_SEMI)

	if !p.has(TOK_RPAREN) {
		fl.Update = p.parseExpr()
	}
	p.want(TOK_RPAREN)

	fl.Body = p.parseStmt()
	fl.ASTBase = ast.NewASTBaseOver(startSpan, fl.Body.Span())
	return fl
}

// return_stmt := 'return' [expr] ';' ;
func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	startSpan := p.want(TOK_RETURN).Span

	rs := &ast.ReturnStmt{}
	if !p.has(TOK_SEMI) {
		rs.Value = p.parseExpr()
	}

	p.want(TOK_SEMI)
	rs.ASTBase = ast.NewASTBaseOn(report.NewSpanOver(startSpan, p.lookbehind.Span))
	return rs
}
