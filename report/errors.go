package report

import (
	"fmt"

	"github.com/pkg/errors"
)

// TextSpan represents a range or "span" of source text.  Text spans are
// inclusive on both sides and their line and column numbers are zero-indexed.
type TextSpan struct {
	// The line and column beginning the text span.
	StartLine, StartCol int

	// The line and column ending the text span.
	EndLine, EndCol int
}

// NewSpanOver returns a new text span which spans over and between the two
// given text spans.
func NewSpanOver(start, end *TextSpan) *TextSpan {
	return &TextSpan{
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

// -----------------------------------------------------------------------------

// ErrorKind classifies a diagnostic.
type ErrorKind int

// Enumeration of diagnostic kinds.
const (
	SyntaxError ErrorKind = iota

	// Registry and inheritance validation.
	DuplicateDefinition
	UndefinedParent
	InheritFromFinal
	CircularInheritance
	OverrideWithoutParent
	InvalidOverride
	OverrideOfFinalMethod

	// Entry point resolution.
	AmbiguousMain
	MultipleMainMarkers

	// Type checking.
	ArgumentCountMismatch
	ArgumentTypeMismatch
	IncompatibleAssignment
	ReturnTypeMismatch
	UndefinedSymbol
	InvalidOperand
	FinalAssignment

	// Internal failures.
	UnresolvedIdentifier
	CodegenFailure
)

var kindNames = map[ErrorKind]string{
	SyntaxError:            "syntax error",
	DuplicateDefinition:    "duplicate definition",
	UndefinedParent:        "undefined parent",
	InheritFromFinal:       "inherit from final",
	CircularInheritance:    "circular inheritance",
	OverrideWithoutParent:  "override without parent",
	InvalidOverride:        "invalid override",
	OverrideOfFinalMethod:  "override of final method",
	AmbiguousMain:          "ambiguous main",
	MultipleMainMarkers:    "multiple main markers",
	ArgumentCountMismatch:  "argument count mismatch",
	ArgumentTypeMismatch:   "argument type mismatch",
	IncompatibleAssignment: "incompatible assignment",
	ReturnTypeMismatch:     "return type mismatch",
	UndefinedSymbol:        "undefined symbol",
	InvalidOperand:         "invalid operand",
	FinalAssignment:        "final assignment",
	UnresolvedIdentifier:   "unresolved identifier",
	CodegenFailure:         "code generation failure",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("error kind %d", int(k))
}

// -----------------------------------------------------------------------------

// CompileError is a user-facing compilation error: erroneous input code.  The
// span may be nil if there is no single declaration to anchor the error to.
type CompileError struct {
	Kind    ErrorKind
	Message string
	Span    *TextSpan
}

func (ce *CompileError) Error() string {
	return fmt.Sprintf("%d:%d: %s", ce.Line(), ce.Col(), ce.Message)
}

// Line returns the one-based line of the error or 0 if it has no span.
func (ce *CompileError) Line() int {
	if ce.Span == nil {
		return 0
	}

	return ce.Span.StartLine + 1
}

// Col returns the one-based column of the error or 0 if it has no span.
func (ce *CompileError) Col() int {
	if ce.Span == nil {
		return 0
	}

	return ce.Span.StartCol + 1
}

// Raise creates a new compile error of the given kind.
func Raise(kind ErrorKind, span *TextSpan, msg string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(msg, args...), Span: span}
}

// KindOf returns the kind of err if it is a compile error or an internal error.
// The boolean is false for any other error.
func KindOf(err error) (ErrorKind, bool) {
	var cerr *CompileError
	if errors.As(err, &cerr) {
		return cerr.Kind, true
	}

	var ierr *InternalError
	if errors.As(err, &ierr) {
		return ierr.Kind, true
	}

	return 0, false
}

// -----------------------------------------------------------------------------

// InternalError is an internal compiler error: a bug in the compiler rather
// than in the program being compiled.  It carries the stack at which it was
// created.
type InternalError struct {
	Kind  ErrorKind
	cause error
}

func (ie *InternalError) Error() string {
	return "internal compiler error: " + ie.cause.Error()
}

func (ie *InternalError) Unwrap() error {
	return ie.cause
}

// StackTrace returns the formatted stack at which the error was raised.
func (ie *InternalError) StackTrace() string {
	return fmt.Sprintf("%+v", ie.cause)
}

// ICE creates a new internal compiler error.
func ICE(kind ErrorKind, msg string, args ...interface{}) *InternalError {
	return &InternalError{Kind: kind, cause: errors.Errorf(msg, args...)}
}

// IsInternal returns whether err is or wraps an internal compiler error.
func IsInternal(err error) bool {
	var ierr *InternalError
	return errors.As(err, &ierr)
}

// -----------------------------------------------------------------------------

// CatchErrors recovers a compile error or internal error thrown by `panic`
// within a stage of compilation and stores it in err.  Any other panic value
// continues to propagate.
// NB: This function must ALWAYS be deferred.
func CatchErrors(err *error) {
	if x := recover(); x != nil {
		switch v := x.(type) {
		case *CompileError:
			*err = v
		case *InternalError:
			*err = v
		default:
			panic(x)
		}
	}
}
