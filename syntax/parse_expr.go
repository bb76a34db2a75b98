package syntax

import (
	"cayc/ast"
	"cayc/report"
	"cayc/typing"
	"strconv"
)

// expr := assignment ;
func (p *Parser) parseExpr() ast.ASTExpr {
	return p.parseAssignment()
}

var assignOps = map[int]ast.OpKind{
	TOK_PLUS_ASSIGN:  ast.OpAdd,
	TOK_MINUS_ASSIGN: ast.OpSub,
	TOK_STAR_ASSIGN:  ast.OpMul,
	TOK_DIV_ASSIGN:   ast.OpDiv,
}

// assignment := ternary [assign_op assignment] ;
// assign_op := '=' | '+=' | '-=' | '*=' | '/=' ;
func (p *Parser) parseAssignment() ast.ASTExpr {
	lhs := p.parseTernary()

	var compoundOp *ast.OpKind
	if op, ok := assignOps[p.tok.Kind]; ok {
		compoundOp = &op
	} else if !p.has(TOK_ASSIGN) {
		return lhs
	}

	switch lhs.(type) {
	case *ast.Identifier, *ast.MemberAccess, *ast.Index:
	default:
		p.error(lhs.Span(), "cannot assign to an rvalue")
	}

	p.next()
	rhs := p.parseAssignment()

	return &ast.Assign{
		ExprBase:   ast.NewExprBase(report.NewSpanOver(lhs.Span(), rhs.Span())),
		Target:     lhs,
		Value:      rhs,
		CompoundOp: compoundOp,
	}
}

// ternary := binary_expr ['?' expr ':' ternary] ;
func (p *Parser) parseTernary() ast.ASTExpr {
	cond := p.parseBinaryExpr(0)
	if !p.has(TOK_QUESTION) {
		return cond
	}

	p.next()
	then := p.parseExpr()
	p.want(TOK_COLON)
	els := p.parseTernary()

	return &ast.Ternary{
		ExprBase: ast.NewExprBase(report.NewSpanOver(cond.Span(), els.Span())),
		Cond:     cond,
		Then:     then,
		Else:     els,
	}
}

// binaryOpLevels lists the binary operators from lowest to highest precedence.
// All of them are left associative.
var binaryOpLevels = []map[int]ast.OpKind{
	{TOK_LOR: ast.OpOr},
	{TOK_LAND: ast.OpAnd},
	{TOK_EQ: ast.OpEq, TOK_NEQ: ast.OpNeq},
	{TOK_LT: ast.OpLt, TOK_LTEQ: ast.OpLtEq, TOK_GT: ast.OpGt, TOK_GTEQ: ast.OpGtEq},
	{TOK_PLUS: ast.OpAdd, TOK_MINUS: ast.OpSub},
	{TOK_STAR: ast.OpMul, TOK_DIV: ast.OpDiv, TOK_MOD: ast.OpMod},
}

// binary_expr := unary_expr {binary_op unary_expr} ;
func (p *Parser) parseBinaryExpr(level int) ast.ASTExpr {
	if level == len(binaryOpLevels) {
		return p.parseUnaryExpr()
	}

	lhs := p.parseBinaryExpr(level + 1)
	for {
		op, ok := binaryOpLevels[level][p.tok.Kind]
		if !ok {
			return lhs
		}

		p.next()
		rhs := p.parseBinaryExpr(level + 1)

		lhs = &ast.BinaryOp{
			ExprBase: ast.NewExprBase(report.NewSpanOver(lhs.Span(), rhs.Span())),
			Op:       op,
			Lhs:      lhs,
			Rhs:      rhs,
		}
	}
}

// unary_expr := ('-' | '!') unary_expr | postfix_expr ;
func (p *Parser) parseUnaryExpr() ast.ASTExpr {
	var op ast.OpKind
	switch p.tok.Kind {
	case TOK_MINUS:
		op = ast.OpNeg
	case TOK_NOT:
		op = ast.OpNot
	default:
		return p.parsePostfixExpr()
	}

	startSpan := p.tok.Span
	p.next()

	operand := p.parseUnaryExpr()
	return &ast.UnaryOp{
		ExprBase: ast.NewExprBase(report.NewSpanOver(startSpan, operand.Span())),
		Op:       op,
		Operand:  operand,
	}
}

// postfix_expr := atom {'.' 'IDENT' | args | '[' expr ']'} ;
func (p *Parser) parsePostfixExpr() ast.ASTExpr {
	expr := p.parseAtom()

	for {
		switch p.tok.Kind {
		case TOK_DOT:
			p.next()
			memberTok := p.want(TOK_IDENT)

			expr = &ast.MemberAccess{
				ExprBase: ast.NewExprBase(report.NewSpanOver(expr.Span(), memberTok.Span)),
				Object:   expr,
				Member:   memberTok.Value,
			}
		case TOK_LPAREN:
			switch expr.(type) {
			case *ast.Identifier, *ast.MemberAccess:
			default:
				p.error(expr.Span(), "expression is not callable")
			}

			args := p.parseArgs()
			expr = &ast.Call{
				ExprBase: ast.NewExprBase(report.NewSpanOver(expr.Span(), p.lookbehind.Span)),
				Func:     expr,
				Args:     args,
			}
		case TOK_LBRACKET:
			p.next()
			index := p.parseExpr()
			p.want(TOK_RBRACKET)

			expr = &ast.Index{
				ExprBase: ast.NewExprBase(report.NewSpanOver(expr.Span(), p.lookbehind.Span)),
				Array:    expr,
				Index:    index,
			}
		default:
			return expr
		}
	}
}

// atom := literal | 'IDENT' | 'this' | new_expr | '(' expr ')' ;
func (p *Parser) parseAtom() ast.ASTExpr {
	switch p.tok.Kind {
	case TOK_IDENT:
		tok := p.want(TOK_IDENT)
		return &ast.Identifier{ExprBase: ast.NewExprBase(tok.Span), Name: tok.Value}
	case TOK_THIS:
		tok := p.want(TOK_THIS)
		return &ast.This{ExprBase: ast.NewExprBase(tok.Span)}
	case TOK_NEW:
		return p.parseNewExpr()
	case TOK_LPAREN:
		p.next()
		expr := p.parseExpr()
		p.want(TOK_RPAREN)
		return expr
	}

	return p.parseLiteral()
}

// new_expr := 'new' ('IDENT' args | base_type '[' expr ']' {'[' ']'}) ;
func (p *Parser) parseNewExpr() ast.ASTExpr {
	startSpan := p.want(TOK_NEW).Span

	if p.has(TOK_IDENT) && p.peek(1).Kind == TOK_LPAREN {
		name := p.want(TOK_IDENT).Value
		args := p.parseArgs()

		return &ast.NewObject{
			ExprBase:  ast.NewExprBase(report.NewSpanOver(startSpan, p.lookbehind.Span)),
			ClassName: name,
			Args:      args,
			CtorIndex: -1,
		}
	}

	elemType := p.parseBaseType(false)

	p.want(TOK_LBRACKET)
	length := p.parseExpr()
	p.want(TOK_RBRACKET)

	// Trailing `[]` make the elements themselves arrays.
	for p.has(TOK_LBRACKET) && p.peek(1).Kind == TOK_RBRACKET {
		p.next()
		p.next()
		elemType = &typing.ArrayType{ElemType: elemType}
	}

	return &ast.NewArray{
		ExprBase: ast.NewExprBase(report.NewSpanOver(startSpan, p.lookbehind.Span)),
		ElemType: elemType,
		Length:   length,
	}
}

// literal := 'INTLIT' | 'LONGLIT' | 'FLOATLIT' | 'DOUBLELIT' | 'CHARLIT'
//         | 'STRINGLIT' | 'true' | 'false' | 'null' ;
func (p *Parser) parseLiteral() ast.ASTExpr {
	tok := p.tok

	var kind int
	value := tok.Value

	switch tok.Kind {
	case TOK_INTLIT:
		kind = ast.LitInt
		if _, err := strconv.ParseInt(value, 0, 32); err != nil {
			// Literals up to 2^31 are accepted so that negation can produce the
			// minimum value.
			if n, err := strconv.ParseUint(value, 0, 32); err != nil || n > 1<<31 {
				p.error(tok.Span, "integer literal out of range: `%s`", value)
			}
		}
	case TOK_LONGLIT:
		kind = ast.LitLong
		if _, err := strconv.ParseUint(value, 0, 64); err != nil {
			p.error(tok.Span, "integer literal out of range: `%s`", value)
		}
	case TOK_FLOATLIT:
		kind = ast.LitFloat
	case TOK_DOUBLELIT:
		kind = ast.LitDouble
	case TOK_CHARLIT:
		kind = ast.LitChar
		value = decodeEscapes(value)
	case TOK_STRINGLIT:
		kind = ast.LitString
		value = decodeEscapes(value)
	case TOK_TRUE, TOK_FALSE:
		kind = ast.LitBool
	case TOK_NULL:
		kind = ast.LitNull
	default:
		p.reject()
	}

	p.next()
	return &ast.Literal{
		ExprBase: ast.NewExprBase(tok.Span),
		Kind:     kind,
		Value:    value,
	}
}
