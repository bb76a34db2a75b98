package syntax

import (
	"cayc/ast"
	"cayc/report"
	"cayc/typing"
)

// class_decl := modifiers 'class' 'IDENT' [extends] [implements] class_body ;
// extends := ('extends' | ':') 'IDENT' ;
// implements := 'implements' 'IDENT' {',' 'IDENT'} ;
func (p *Parser) parseClassDecl(mods ast.Modifiers, modSpan *report.TextSpan) *ast.ClassDecl {
	startSpan := p.want(TOK_CLASS).Span
	if modSpan != nil {
		startSpan = modSpan
	}

	if mods.Has(ast.ModOverride) || mods.Has(ast.ModNative) {
		p.error(startSpan, "invalid modifiers for a class: `%s`", mods)
	}

	cd := &ast.ClassDecl{
		Name:      p.want(TOK_IDENT).Value,
		Modifiers: mods,
	}

	if p.has(TOK_EXTENDS) || p.has(TOK_COLON) {
		p.next()
		cd.Parent = p.want(TOK_IDENT).Value
	}

	if p.has(TOK_IMPLEMENTS) {
		p.next()
		cd.Interfaces = p.parseIdentList()
	}

	p.want(TOK_LBRACE)
	for !p.has(TOK_RBRACE) {
		cd.Members = append(cd.Members, p.parseClassMember(cd.Name))
	}
	p.next()

	cd.ASTBase = ast.NewASTBaseOver(startSpan, p.lookbehind.Span)
	return cd
}

// class_member := field | method | constructor | destructor | initializer ;
func (p *Parser) parseClassMember(className string) ast.ClassMember {
	mods, modSpan := p.parseModifiers()

	startSpan := p.tok.Span
	if modSpan != nil {
		startSpan = modSpan
	}

	switch {
	case p.has(TOK_LBRACE):
		// initializer := ['static'] block ;
		if mods&^ast.ModStatic != 0 {
			p.error(startSpan, "initializer blocks may only be marked static")
		}

		body := p.parseBlock()
		return &ast.InitializerBlock{
			ASTBase:  ast.NewASTBaseOver(startSpan, body.Span()),
			IsStatic: mods.Has(ast.ModStatic),
			Body:     body,
		}
	case p.has(TOK_TILDE):
		// destructor := '~' 'IDENT' '(' ')' block ;
		p.next()

		nameTok := p.want(TOK_IDENT)
		if nameTok.Value != className {
			p.error(nameTok.Span, "destructor name must match class name `%s`", className)
		}

		p.want(TOK_LPAREN)
		p.want(TOK_RPAREN)

		body := p.parseBlock()
		return &ast.DestructorDecl{
			ASTBase: ast.NewASTBaseOver(startSpan, body.Span()),
			Body:    body,
		}
	case p.has(TOK_IDENT) && p.peek(1).Kind == TOK_LPAREN:
		return p.parseConstructor(className, mods, startSpan)
	}

	retType := p.parseTypeLabel(true)
	nameTok := p.want(TOK_IDENT)

	if p.has(TOK_LPAREN) {
		return p.parseMethod(mods, startSpan, retType, nameTok.Value)
	}

	// field := modifiers type_label 'IDENT' ['=' expr] ';' ;
	if typing.Equals(retType, typing.PrimVoid) {
		p.error(nameTok.Span, "field `%s` cannot be of type void", nameTok.Value)
	}

	fd := &ast.FieldDecl{
		Name:      nameTok.Value,
		Type:      retType,
		Modifiers: mods,
	}

	if p.has(TOK_ASSIGN) {
		p.next()
		fd.Init = p.parseExpr()
	}

	p.want(TOK_SEMI)

	fd.ASTBase = ast.NewASTBaseOver(startSpan, p.lookbehind.Span)
	return fd
}

// method := modifiers type_label 'IDENT' params (block | ';') ;
func (p *Parser) parseMethod(mods ast.Modifiers, startSpan *report.TextSpan, retType typing.DataType, name string) *ast.MethodDecl {
	md := &ast.MethodDecl{
		Name:       name,
		Modifiers:  mods,
		ReturnType: retType,
		Params:     p.parseParams(),
	}

	if mods.Has(ast.ModNative) || mods.Has(ast.ModAbstract) {
		p.want(TOK_SEMI)
	} else {
		md.Body = p.parseBlock()
	}

	md.ASTBase = ast.NewASTBaseOver(startSpan, p.lookbehind.Span)
	return md
}

// constructor := modifiers 'IDENT' params [chain] block ;
// chain := ':' ('this' | 'super') args ;
func (p *Parser) parseConstructor(className string, mods ast.Modifiers, startSpan *report.TextSpan) *ast.ConstructorDecl {
	nameTok := p.want(TOK_IDENT)
	if nameTok.Value != className {
		p.error(nameTok.Span, "method `%s` is missing a return type", nameTok.Value)
	}

	if mods&^(ast.ModPublic|ast.ModPrivate|ast.ModProtected) != 0 {
		p.error(startSpan, "invalid modifiers for a constructor: `%s`", mods)
	}

	cd := &ast.ConstructorDecl{
		Modifiers: mods,
		Params:    p.parseParams(),
	}

	if p.has(TOK_COLON) {
		p.next()

		chainStart := p.tok.Span
		chain := &ast.ConstructorChain{CtorIndex: -1}

		switch p.tok.Kind {
		case TOK_SUPER:
			chain.IsSuper = true
		case TOK_THIS:
		default:
			p.reject()
		}

		p.next()
		chain.Args = p.parseArgs()
		chain.Span = report.NewSpanOver(chainStart, p.lookbehind.Span)
		cd.Chain = chain
	}

	cd.Body = p.parseBlock()
	cd.ASTBase = ast.NewASTBaseOver(startSpan, p.lookbehind.Span)
	return cd
}

// -----------------------------------------------------------------------------

// interface_decl := modifiers 'interface' 'IDENT' '{' {interface_method} '}' ;
// interface_method := modifiers type_label 'IDENT' params ';' ;
func (p *Parser) parseInterfaceDecl(mods ast.Modifiers, modSpan *report.TextSpan) *ast.InterfaceDecl {
	startSpan := p.want(TOK_INTERFACE).Span
	if modSpan != nil {
		startSpan = modSpan
	}

	id := &ast.InterfaceDecl{
		Name:      p.want(TOK_IDENT).Value,
		Modifiers: mods,
	}

	p.want(TOK_LBRACE)
	for !p.has(TOK_RBRACE) {
		methodMods, methodModSpan := p.parseModifiers()

		methodStart := p.tok.Span
		if methodModSpan != nil {
			methodStart = methodModSpan
		}

		retType := p.parseTypeLabel(true)
		nameTok := p.want(TOK_IDENT)

		md := &ast.MethodDecl{
			Name:       nameTok.Value,
			Modifiers:  methodMods,
			ReturnType: retType,
			Params:     p.parseParams(),
		}

		p.want(TOK_SEMI)
		md.ASTBase = ast.NewASTBaseOver(methodStart, p.lookbehind.Span)

		id.Methods = append(id.Methods, md)
	}
	p.next()

	id.ASTBase = ast.NewASTBaseOver(startSpan, p.lookbehind.Span)
	return id
}

// ident_list := 'IDENT' {',' 'IDENT'} ;
func (p *Parser) parseIdentList() []string {
	idents := []string{p.want(TOK_IDENT).Value}

	for p.has(TOK_COMMA) {
		p.next()
		idents = append(idents, p.want(TOK_IDENT).Value)
	}

	return idents
}
