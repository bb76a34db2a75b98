package syntax

import (
	"bufio"
	"cayc/ast"
	"cayc/report"
	"io"
	"strings"
)

// NOTE: All parsing functions (that are not utility/API functions) are
// commented with the EBNF notation of the grammar they parse.

// Parser is a recursive descent parser for a single source file.  All parsing
// functions assume that they begin with the parser centered on the first token
// of their production and must consume all tokens (including the last) of their
// production, leaving the parser on the next token.  Errors are thrown as
// panics of *report.CompileError and caught by Parse.
type Parser struct {
	// lexer is the Lexer this parser is using to lex the source file.
	lexer *Lexer

	// tok is the current token the parser is positioned on.
	tok *Token

	// lookbehind is the token the parser was positioned on before the current
	// token.
	lookbehind *Token

	// lookahead holds tokens which have been lexed but not yet reached.
	lookahead []*Token
}

// NewParser creates a new parser reading from r.
func NewParser(r io.Reader) *Parser {
	return &Parser{lexer: NewLexer(bufio.NewReader(r))}
}

// ParseString parses the given source text.
func ParseString(src string) (*ast.File, error) {
	return NewParser(strings.NewReader(src)).Parse()
}

// Parse parses the whole source file.
func (p *Parser) Parse() (file *ast.File, err error) {
	defer report.CatchErrors(&err)

	// Move the parser onto the first token.
	p.next()

	return p.parseFile(), nil
}

// file := {class_decl | interface_decl} 'EOF' ;
func (p *Parser) parseFile() *ast.File {
	file := &ast.File{}

	for !p.has(TOK_EOF) {
		mods, modSpan := p.parseModifiers()

		switch p.tok.Kind {
		case TOK_CLASS:
			file.Classes = append(file.Classes, p.parseClassDecl(mods, modSpan))
		case TOK_INTERFACE:
			file.Interfaces = append(file.Interfaces, p.parseInterfaceDecl(mods, modSpan))
		default:
			p.reject()
		}
	}

	return file
}

// -----------------------------------------------------------------------------

// next moves the parser forward one token.
func (p *Parser) next() {
	p.lookbehind = p.tok

	if len(p.lookahead) > 0 {
		p.tok = p.lookahead[0]
		p.lookahead = p.lookahead[1:]
		return
	}

	p.tok = p.lex()
}

// peek returns the token n tokens after the current token without moving the
// parser.  peek(1) is the token immediately after the current token.
func (p *Parser) peek(n int) *Token {
	for len(p.lookahead) < n {
		p.lookahead = append(p.lookahead, p.lex())
	}

	return p.lookahead[n-1]
}

// lex reads the next token from the lexer.
func (p *Parser) lex() *Token {
	tok, err := p.lexer.NextToken()
	if err != nil {
		if cerr, ok := err.(*report.CompileError); ok {
			panic(cerr)
		}

		// I/O errors have no meaningful position.
		panic(report.Raise(report.SyntaxError, nil, "%s", err))
	}

	return tok
}

// has returns true if the parser is on a token of the given kind.
func (p *Parser) has(kind int) bool {
	return p.tok.Kind == kind
}

// want asserts that the parser is on a token of the given kind, moves the
// parser forward, and returns the matched token.
func (p *Parser) want(kind int) *Token {
	if !p.has(kind) {
		p.reject()
	}

	tok := p.tok
	p.next()
	return tok
}

// -----------------------------------------------------------------------------

// reject throws an unexpected token error on the current token.
func (p *Parser) reject() {
	if p.has(TOK_EOF) {
		p.error(p.tok.Span, "unexpected end of file")
	}

	p.error(p.tok.Span, "unexpected token: `%s`", p.tok.Value)
}

// error throws an error over the given span.
func (p *Parser) error(span *report.TextSpan, msg string, args ...interface{}) {
	panic(report.Raise(report.SyntaxError, span, msg, args...))
}
