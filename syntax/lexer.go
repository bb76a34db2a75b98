package syntax

import (
	"bufio"
	"cayc/report"
	"io"
	"strings"
	"unicode"
)

// Lexer is responsible for tokenizing a source file.
type Lexer struct {
	file    *bufio.Reader
	tokBuff *strings.Builder

	line, col           int
	startLine, startCol int
}

// NewLexer creates a new lexer for the given source file.
func NewLexer(file *bufio.Reader) *Lexer {
	return &Lexer{
		file:    file,
		tokBuff: &strings.Builder{},
	}
}

// NextToken retrieves the next token from the input file. If the file has
// ended, this will be an EOF token.
func (l *Lexer) NextToken() (*Token, error) {
	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if c == -1 {
			break
		}

		switch c {
		case '\n', '\t', ' ', '\r', '\v', '\f':
			l.skip()
		case '/':
			if tok, err := l.lexCommentOrDiv(); tok != nil || err != nil {
				return tok, err
			}
		case '\'':
			return l.lexCharLit()
		case '"':
			return l.lexStringLit()
		case '@':
			return l.lexAnnotation()
		default:
			if isDecimalDigit(c) {
				return l.lexNumericLit()
			} else if isFirstIdentChar(c) {
				return l.lexIdentOrKeyword()
			} else {
				return l.lexPunctOrOper()
			}
		}
	}

	l.mark()
	return l.makeToken(TOK_EOF), nil
}

// -----------------------------------------------------------------------------

// symbolPatterns maps symbol strings (patterns) to their punctuation/operator
// token kind.
var symbolPatterns = map[string]int{
	"+": TOK_PLUS,
	"-": TOK_MINUS,
	"*": TOK_STAR,
	// Division operator is handled with comment logic.
	"%": TOK_MOD,

	"==": TOK_EQ,
	"!=": TOK_NEQ,
	"<":  TOK_LT,
	"<=": TOK_LTEQ,
	">":  TOK_GT,
	">=": TOK_GTEQ,

	"&&": TOK_LAND,
	"||": TOK_LOR,
	"!":  TOK_NOT,

	"=":  TOK_ASSIGN,
	"+=": TOK_PLUS_ASSIGN,
	"-=": TOK_MINUS_ASSIGN,
	"*=": TOK_STAR_ASSIGN,

	"(": TOK_LPAREN,
	")": TOK_RPAREN,
	"{": TOK_LBRACE,
	"}": TOK_RBRACE,
	"[": TOK_LBRACKET,
	"]": TOK_RBRACKET,
	",": TOK_COMMA,
	".": TOK_DOT,
	";": TOK_SEMI,
	":": TOK_COLON,
	"?": TOK_QUESTION,
	"~": TOK_TILDE,
}

// symbolPrefixes are incomplete symbols which may only appear as a prefix of a
// longer symbol.
var symbolPrefixes = map[string]int{
	"&":   -1,
	"|":   -1,
	"..":  -1,
	"...": TOK_ELLIPSIS,
}

// lexPunctOrOper lexes a punctuation or operator symbol using maximal munch.
func (l *Lexer) lexPunctOrOper() (*Token, error) {
	l.mark()
	l.eat()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if c == -1 {
			break
		}

		candidate := l.tokBuff.String() + string(c)
		_, isSymbol := symbolPatterns[candidate]
		_, isPrefix := symbolPrefixes[candidate]
		if !isSymbol && !isPrefix {
			break
		}

		l.eat()
	}

	if kind, ok := symbolPatterns[l.tokBuff.String()]; ok {
		return l.makeToken(kind), nil
	} else if kind, ok := symbolPrefixes[l.tokBuff.String()]; ok && kind != -1 {
		return l.makeToken(kind), nil
	}

	return nil, report.Raise(report.SyntaxError, l.getSpan(), "unknown symbol: `%s`", l.tokBuff.String())
}

// -----------------------------------------------------------------------------

// keywordPatterns maps keyword strings (patterns) to their keyword token kind.
var keywordPatterns = map[string]int{
	"class":      TOK_CLASS,
	"interface":  TOK_INTERFACE,
	"extends":    TOK_EXTENDS,
	"implements": TOK_IMPLEMENTS,

	"public":    TOK_PUBLIC,
	"private":   TOK_PRIVATE,
	"protected": TOK_PROTECTED,
	"static":    TOK_STATIC,
	"final":     TOK_FINAL,
	"abstract":  TOK_ABSTRACT,
	"native":    TOK_NATIVE,

	"new":   TOK_NEW,
	"this":  TOK_THIS,
	"super": TOK_SUPER,
	"null":  TOK_NULL,
	"true":  TOK_TRUE,
	"false": TOK_FALSE,

	"if":       TOK_IF,
	"else":     TOK_ELSE,
	"while":    TOK_WHILE,
	"for":      TOK_FOR,
	"break":    TOK_BREAK,
	"continue": TOK_CONTINUE,
	"return":   TOK_RETURN,

	"void":    TOK_VOID,
	"bool":    TOK_BOOL,
	"boolean": TOK_BOOL,
	"char":    TOK_CHAR,
	"int":     TOK_INT,
	"long":    TOK_LONG,
	"float":   TOK_FLOAT,
	"double":  TOK_DOUBLE,
	"string":  TOK_STRING,
	"String":  TOK_STRING,
}

// lexIdentOrKeyword lexes an identifier or a keyword.
func (l *Lexer) lexIdentOrKeyword() (*Token, error) {
	l.mark()
	l.eat()

	if err := l.eatIdentTail(); err != nil {
		return nil, err
	}

	if kind, ok := keywordPatterns[l.tokBuff.String()]; ok {
		return l.makeToken(kind), nil
	}

	return l.makeToken(TOK_IDENT), nil
}

// lexAnnotation lexes an annotation such as `@Override`.  The annotation is
// returned as an `@` token followed by an identifier: this function only
// produces the `@` token.
func (l *Lexer) lexAnnotation() (*Token, error) {
	l.mark()
	l.eat()

	return l.makeToken(TOK_ATSIGN), nil
}

// eatIdentTail consumes the remaining characters of an identifier.
func (l *Lexer) eatIdentTail() error {
	for {
		c, err := l.peek()
		if err != nil {
			return err
		} else if !isFirstIdentChar(c) && !isDecimalDigit(c) {
			return nil
		}

		l.eat()
	}
}

// -----------------------------------------------------------------------------

// lexNumericLit lexes a numeric literal.  Integers may be decimal or
// hexadecimal and take an `L` suffix to become long literals.  Floating point
// literals are doubles unless they carry an `f` suffix.
func (l *Lexer) lexNumericLit() (*Token, error) {
	l.mark()
	c, _ := l.eat()

	if c == '0' {
		next, err := l.peek()
		if err != nil {
			return nil, err
		}

		if next == 'x' || next == 'X' {
			l.eat()
			return l.lexHexLit()
		}
	}

	isFloat, hasExp, mustHaveDigit := false, false, false

numLexLoop:
	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		switch {
		case isDecimalDigit(c):
			l.eat()
			mustHaveDigit = false
		case c == '_':
			l.skip()
		case c == '.' && !isFloat && !hasExp:
			l.eat()
			isFloat = true
			mustHaveDigit = true
		case (c == 'e' || c == 'E') && !hasExp && !mustHaveDigit:
			l.eat()
			isFloat, hasExp, mustHaveDigit = true, true, true

			if sign, err := l.peek(); err != nil {
				return nil, err
			} else if sign == '-' || sign == '+' {
				l.eat()
			}
		default:
			break numLexLoop
		}
	}

	if mustHaveDigit {
		return nil, report.Raise(report.SyntaxError, l.getSpan(), "incomplete numeric literal")
	}

	// Handle type suffixes: the suffix is not included in the token value.
	c, err := l.peek()
	if err != nil {
		return nil, err
	}

	switch {
	case (c == 'L' || c == 'l') && !isFloat:
		l.skip()
		return l.makeToken(TOK_LONGLIT), nil
	case c == 'f' || c == 'F':
		l.skip()
		return l.makeToken(TOK_FLOATLIT), nil
	case c == 'd' || c == 'D':
		l.skip()
		return l.makeToken(TOK_DOUBLELIT), nil
	case isFloat:
		return l.makeToken(TOK_DOUBLELIT), nil
	default:
		return l.makeToken(TOK_INTLIT), nil
	}
}

// lexHexLit lexes the digits and suffix of a hexadecimal integer literal.  The
// leading `0x` has already been consumed.
func (l *Lexer) lexHexLit() (*Token, error) {
	digits := 0
	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if !isHexDigit(c) {
			break
		}

		l.eat()
		digits++
	}

	if digits == 0 {
		return nil, report.Raise(report.SyntaxError, l.getSpan(), "incomplete numeric literal")
	}

	if c, err := l.peek(); err != nil {
		return nil, err
	} else if c == 'L' || c == 'l' {
		l.skip()
		return l.makeToken(TOK_LONGLIT), nil
	}

	return l.makeToken(TOK_INTLIT), nil
}

// -----------------------------------------------------------------------------

// lexStringLit lexes a standard string literal.
func (l *Lexer) lexStringLit() (*Token, error) {
	l.mark()
	l.skip()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		switch c {
		case -1:
			return nil, report.Raise(report.SyntaxError, l.getSpan(), "unclosed string literal")
		case '"':
			l.skip()
			return l.makeToken(TOK_STRINGLIT), nil
		case '\\':
			l.eat()
			if err = l.eatEscapeSequence(); err != nil {
				return nil, err
			}
		case '\n':
			return nil, report.Raise(report.SyntaxError, l.getSpan(), "string literal cannot contain a newline")
		default:
			l.eat()
		}
	}
}

// lexCharLit lexes a character literal.
func (l *Lexer) lexCharLit() (*Token, error) {
	l.mark()
	l.skip()

	c, err := l.eat()
	if err != nil {
		return nil, err
	}

	switch c {
	case -1:
		return nil, report.Raise(report.SyntaxError, l.getSpan(), "unclosed character literal")
	case '\'':
		return nil, report.Raise(report.SyntaxError, l.getSpan(), "empty character literal")
	case '\n':
		return nil, report.Raise(report.SyntaxError, l.getSpan(), "character literal cannot contain a newline")
	case '\\':
		if err = l.eatEscapeSequence(); err != nil {
			return nil, err
		}
	}

	c, err = l.skip()
	if err != nil {
		return nil, err
	} else if c != '\'' {
		return nil, report.Raise(report.SyntaxError, l.getSpan(), "character literal must contain exactly one character")
	}

	return l.makeToken(TOK_CHARLIT), nil
}

// eatEscapeSequence attempts to consume an escape sequence.  This assumes the
// leading `\` has already been consumed.
func (l *Lexer) eatEscapeSequence() error {
	c, err := l.eat()
	if err != nil {
		return err
	}

	switch c {
	case -1:
		return report.Raise(report.SyntaxError, l.getSpan(), "expected escape sequence not end of file")
	case 'a', 'b', 'f', 'n', 'r', 't', 'v', '0', '\'', '\\', '"':
		return nil
	case 'x':
		for i := 0; i < 2; i++ {
			if c, err := l.eat(); err != nil {
				return err
			} else if !isHexDigit(c) {
				return report.Raise(report.SyntaxError, l.getSpan(), "expected 2 digit hexadecimal escape")
			}
		}

		return nil
	default:
		return report.Raise(report.SyntaxError, l.getSpan(), "unknown escape sequence: `\\%c`", c)
	}
}

// -----------------------------------------------------------------------------

// lexCommentOrDiv lexes a comment or a division token.  It returns a nil token
// and a nil error if it consumed a comment.
func (l *Lexer) lexCommentOrDiv() (*Token, error) {
	l.mark()
	l.eat()

	c, err := l.peek()
	if err != nil {
		return nil, err
	}

	switch c {
	case '/':
		for ; err == nil && c != '\n' && c != -1; c, err = l.skip() {
		}
	case '*':
		l.skip()
		for {
			c, err = l.skip()
			if err != nil {
				return nil, err
			} else if c == -1 {
				return nil, report.Raise(report.SyntaxError, l.getSpan(), "unclosed block comment")
			}

			if c == '*' {
				if next, err := l.peek(); err != nil {
					return nil, err
				} else if next == '/' {
					l.skip()
					break
				}
			}
		}
	case '=':
		l.eat()
		return l.makeToken(TOK_DIV_ASSIGN), nil
	default:
		return l.makeToken(TOK_DIV), nil
	}

	l.tokBuff.Reset()
	return nil, err
}

// -----------------------------------------------------------------------------

// mark sets the lexer's stored start line and column to its current position.
func (l *Lexer) mark() {
	l.startLine = l.line
	l.startCol = l.col
}

// makeToken produces a new token of the given kind from the lexer's state and
// resets the lexer to begin building the next token.
func (l *Lexer) makeToken(kind int) *Token {
	value := l.tokBuff.String()
	l.tokBuff.Reset()

	return &Token{
		Kind:  kind,
		Value: value,
		Span:  l.getSpan(),
	}
}

// getSpan calculates a text span based on the lexer's current state.
func (l *Lexer) getSpan() *report.TextSpan {
	return &report.TextSpan{
		StartLine: l.startLine,
		StartCol:  l.startCol,
		EndLine:   l.line,
		EndCol:    l.col,
	}
}

// -----------------------------------------------------------------------------

// readRune reads the next rune from the file.  At the end of the file, it
// returns -1.
func (l *Lexer) readRune() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err == io.EOF {
		return -1, nil
	} else if err != nil {
		return 0, err
	}

	l.updatePos(c)
	return c, nil
}

// eat moves the lexer forward one rune and writes the rune to the token buffer.
func (l *Lexer) eat() (rune, error) {
	c, err := l.readRune()
	if err == nil && c != -1 {
		l.tokBuff.WriteRune(c)
	}

	return c, err
}

// skip moves the lexer forward one rune but does not write the rune to the
// token buffer.
func (l *Lexer) skip() (rune, error) {
	return l.readRune()
}

// peek returns the next rune in the file without moving the lexer forward.
func (l *Lexer) peek() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err == io.EOF {
		return -1, nil
	} else if err != nil {
		return 0, err
	}

	if err = l.file.UnreadRune(); err != nil {
		return 0, err
	}

	return c, nil
}

// updatePos updates the lexer's position based on input character.
func (l *Lexer) updatePos(c rune) {
	switch c {
	case '\n':
		l.line++
		l.col = 0
	case '\t':
		l.col += 4
	default:
		l.col++
	}
}

// -----------------------------------------------------------------------------

func isDecimalDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

func isHexDigit(c rune) bool {
	return isDecimalDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func isFirstIdentChar(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}
