package syntax

import (
	"cayc/ast"
	"cayc/report"
	"cayc/typing"
	"strconv"
	"strings"
)

// isPrimTypeKeyword returns whether kind is one of the primitive type
// keywords.  If allowVoid is false, `void` is excluded.
func isPrimTypeKeyword(kind int, allowVoid bool) bool {
	if kind == TOK_VOID {
		return allowVoid
	}

	return TOK_BOOL <= kind && kind <= TOK_STRING
}

// type_label := base_type {'[' ']'} ;
// base_type := prim_type | 'IDENT' ;
func (p *Parser) parseTypeLabel(allowVoid bool) typing.DataType {
	typ := p.parseBaseType(allowVoid)

	for p.has(TOK_LBRACKET) && p.peek(1).Kind == TOK_RBRACKET {
		if typing.Equals(typ, typing.PrimVoid) {
			p.error(p.tok.Span, "cannot declare an array of void")
		}

		p.next()
		p.next()
		typ = &typing.ArrayType{ElemType: typ}
	}

	return typ
}

func (p *Parser) parseBaseType(allowVoid bool) typing.DataType {
	if isPrimTypeKeyword(p.tok.Kind, allowVoid) {
		// The token kinds are numerically aligned with the primitive kinds so
		// we just need to remove an offset.
		pt := typing.PrimType(p.tok.Kind - TOK_VOID)
		p.next()
		return pt
	} else if p.has(TOK_IDENT) {
		return &typing.ObjectType{Name: p.want(TOK_IDENT).Value}
	}

	p.reject()
	return nil
}

// -----------------------------------------------------------------------------

var modifierTokens = map[int]ast.Modifiers{
	TOK_PUBLIC:    ast.ModPublic,
	TOK_PRIVATE:   ast.ModPrivate,
	TOK_PROTECTED: ast.ModProtected,
	TOK_STATIC:    ast.ModStatic,
	TOK_FINAL:     ast.ModFinal,
	TOK_ABSTRACT:  ast.ModAbstract,
	TOK_NATIVE:    ast.ModNative,
}

var annotationMods = map[string]ast.Modifiers{
	"Override": ast.ModOverride,
	"main":     ast.ModMain,
}

// modifiers := {modifier | annotation} ;
// modifier := 'public' | 'private' | 'protected' | 'static' | 'final'
//          | 'abstract' | 'native' ;
// annotation := '@' 'IDENT' ;
//
// The returned span is the span of the first modifier or nil if there are
// none.
func (p *Parser) parseModifiers() (ast.Modifiers, *report.TextSpan) {
	var mods ast.Modifiers
	var startSpan *report.TextSpan

	for {
		var mod ast.Modifiers
		modSpan := p.tok.Span

		if m, ok := modifierTokens[p.tok.Kind]; ok {
			mod = m
			p.next()
		} else if p.has(TOK_ATSIGN) {
			p.next()

			nameTok := p.want(TOK_IDENT)
			if m, ok := annotationMods[nameTok.Value]; ok {
				mod = m
			} else {
				p.error(nameTok.Span, "unknown annotation: `@%s`", nameTok.Value)
			}
		} else {
			return mods, startSpan
		}

		if mods.Has(mod) {
			p.error(modSpan, "duplicate modifier: `%s`", mod)
		}

		mods |= mod
		if startSpan == nil {
			startSpan = modSpan
		}
	}
}

// -----------------------------------------------------------------------------

// params := '(' [param {',' param}] ')' ;
// param := type_label ['...'] 'IDENT' ;
func (p *Parser) parseParams() []*ast.Param {
	p.want(TOK_LPAREN)

	var params []*ast.Param
	names := make(map[string]struct{})

	for !p.has(TOK_RPAREN) {
		if len(params) > 0 {
			p.want(TOK_COMMA)
		}

		startSpan := p.tok.Span
		typ := p.parseTypeLabel(false)

		isVarargs := false
		if p.has(TOK_ELLIPSIS) {
			p.next()
			isVarargs = true
			typ = &typing.ArrayType{ElemType: typ}
		}

		nameTok := p.want(TOK_IDENT)
		if _, ok := names[nameTok.Value]; ok {
			p.error(nameTok.Span, "multiple parameters named `%s`", nameTok.Value)
		}
		names[nameTok.Value] = struct{}{}

		if len(params) > 0 && params[len(params)-1].IsVarargs {
			p.error(params[len(params)-1].Span, "variadic parameter must be the last parameter")
		}

		params = append(params, &ast.Param{
			Name:      nameTok.Value,
			Type:      typ,
			IsVarargs: isVarargs,
			Span:      report.NewSpanOver(startSpan, nameTok.Span),
		})
	}

	p.next()
	return params
}

// args := '(' [expr {',' expr}] ')' ;
func (p *Parser) parseArgs() []ast.ASTExpr {
	p.want(TOK_LPAREN)

	var args []ast.ASTExpr
	for !p.has(TOK_RPAREN) {
		if len(args) > 0 {
			p.want(TOK_COMMA)
		}

		args = append(args, p.parseExpr())
	}

	p.next()
	return args
}

// -----------------------------------------------------------------------------

// decodeEscapes replaces the escape sequences in the raw text of a string or
// character literal with the characters they denote.  The lexer has already
// validated every escape sequence.
func decodeEscapes(raw string) string {
	if !strings.ContainsRune(raw, '\\') {
		return raw
	}

	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 == len(raw) {
			sb.WriteByte(c)
			continue
		}

		i++
		switch raw[i] {
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case 'x':
			if i+2 < len(raw) {
				if v, err := strconv.ParseUint(raw[i+1:i+3], 16, 8); err == nil {
					sb.WriteByte(byte(v))
					i += 2
					continue
				}
			}

			sb.WriteString("\\x")
		default:
			// '\'', '"', and '\\'
			sb.WriteByte(raw[i])
		}
	}

	return sb.String()
}
