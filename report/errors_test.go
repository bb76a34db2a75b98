package report

import (
	"fmt"
	"testing"

	"github.com/nalgeon/be"
)

func TestCompileErrorPosition(t *testing.T) {
	anchored := Raise(InvalidOverride, &TextSpan{StartLine: 4, StartCol: 2, EndLine: 4, EndCol: 9}, "method `%s` overrides nothing", "run")
	be.Equal(t, anchored.Line(), 5)
	be.Equal(t, anchored.Col(), 3)
	be.Equal(t, anchored.Error(), "5:3: method `run` overrides nothing")

	unanchored := Raise(CircularInheritance, nil, "cycle")
	be.Equal(t, unanchored.Line(), 0)
	be.Equal(t, unanchored.Col(), 0)
}

func TestInternalErrorsAreDistinguishable(t *testing.T) {
	var err error = ICE(UnresolvedIdentifier, "no storage for `%s`", "x")
	be.True(t, IsInternal(err))

	kind, ok := KindOf(err)
	be.True(t, ok)
	be.Equal(t, kind, UnresolvedIdentifier)

	wrapped := fmt.Errorf("generating: %w", err)
	be.True(t, IsInternal(wrapped))

	be.True(t, !IsInternal(Raise(UndefinedSymbol, nil, "x")))
}

func TestCatchErrors(t *testing.T) {
	run := func(v interface{}) (err error) {
		defer CatchErrors(&err)
		panic(v)
	}

	err := run(Raise(SyntaxError, nil, "unexpected token"))
	kind, _ := KindOf(err)
	be.Equal(t, kind, SyntaxError)

	err = run(ICE(UnresolvedIdentifier, "boom"))
	be.True(t, IsInternal(err))
}
