package syntax

import "cayc/report"

// Token represents a single lexical token.
type Token struct {
	// The kind of the token.  This must be one of the enumerated token kinds.
	Kind int

	// The string value of the token.  For string and character literals, this
	// is the raw text between the quotes with escape sequences left intact.
	Value string

	// The text span over which the token exists.
	Span *report.TextSpan
}

// Enumeration of token kinds.
const (
	TOK_CLASS = iota
	TOK_INTERFACE
	TOK_EXTENDS
	TOK_IMPLEMENTS

	TOK_PUBLIC
	TOK_PRIVATE
	TOK_PROTECTED
	TOK_STATIC
	TOK_FINAL
	TOK_ABSTRACT
	TOK_NATIVE

	TOK_NEW
	TOK_THIS
	TOK_SUPER
	TOK_NULL
	TOK_TRUE
	TOK_FALSE

	TOK_IF
	TOK_ELSE
	TOK_WHILE
	TOK_FOR
	TOK_BREAK
	TOK_CONTINUE
	TOK_RETURN

	// The primitive type keywords are kept in the same order as the primitive
	// types they denote.
	TOK_VOID
	TOK_BOOL
	TOK_CHAR
	TOK_INT
	TOK_LONG
	TOK_FLOAT
	TOK_DOUBLE
	TOK_STRING

	TOK_PLUS
	TOK_MINUS
	TOK_STAR
	TOK_DIV
	TOK_MOD

	TOK_EQ
	TOK_NEQ
	TOK_LT
	TOK_LTEQ
	TOK_GT
	TOK_GTEQ

	TOK_LAND
	TOK_LOR
	TOK_NOT

	TOK_ASSIGN
	TOK_PLUS_ASSIGN
	TOK_MINUS_ASSIGN
	TOK_STAR_ASSIGN
	TOK_DIV_ASSIGN

	TOK_LPAREN
	TOK_RPAREN
	TOK_LBRACE
	TOK_RBRACE
	TOK_LBRACKET
	TOK_RBRACKET
	TOK_COMMA
	TOK_DOT
	TOK_ELLIPSIS
	TOK_SEMI
	TOK_COLON
	TOK_QUESTION
	TOK_TILDE
	TOK_ATSIGN

	TOK_IDENT
	TOK_INTLIT
	TOK_LONGLIT
	TOK_FLOATLIT
	TOK_DOUBLELIT
	TOK_STRINGLIT
	TOK_CHARLIT

	TOK_EOF
)
