package ast

import "cayc/report"

// ASTNode is the abstract interface for all AST nodes.
type ASTNode interface {
	// The text span of the AST.
	Span() *report.TextSpan
}

// ASTBase is a utility base struct for all AST nodes.
type ASTBase struct {
	// The span over which the AST node occurs.
	span *report.TextSpan
}

// NewASTBaseOn creates a new AST base with the given span.
func NewASTBaseOn(span *report.TextSpan) ASTBase {
	return ASTBase{span: span}
}

// NewASTBaseOver creates a new AST base spanning over two spans.
func NewASTBaseOver(start, end *report.TextSpan) ASTBase {
	return ASTBase{span: report.NewSpanOver(start, end)}
}

func (ab ASTBase) Span() *report.TextSpan {
	return ab.span
}

// -----------------------------------------------------------------------------

// Modifiers is a set of declaration modifiers.
type Modifiers int

// Enumeration of modifier flags.
const (
	ModPublic Modifiers = 1 << iota
	ModPrivate
	ModProtected
	ModStatic
	ModFinal
	ModAbstract
	ModNative
	ModOverride
	ModMain
)

// Has returns whether all of the given modifier flags are set.
func (m Modifiers) Has(flags Modifiers) bool {
	return m&flags == flags
}

var modNames = []struct {
	mod  Modifiers
	name string
}{
	{ModPublic, "public"},
	{ModPrivate, "private"},
	{ModProtected, "protected"},
	{ModStatic, "static"},
	{ModFinal, "final"},
	{ModAbstract, "abstract"},
	{ModNative, "native"},
	{ModOverride, "@Override"},
	{ModMain, "@main"},
}

func (m Modifiers) String() string {
	s := ""
	for _, mn := range modNames {
		if m.Has(mn.mod) {
			if s != "" {
				s += " "
			}

			s += mn.name
		}
	}

	return s
}
