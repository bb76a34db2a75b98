package util

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestScopeStackShadowing(t *testing.T) {
	ss := NewScopeStack[int]()
	ss.Declare("x", 1)

	ss.PushScope()
	ss.Declare("x", 2)

	v, ok := ss.Lookup("x")
	be.True(t, ok)
	be.Equal(t, v, 2)

	ss.PopScope()
	v, ok = ss.Lookup("x")
	be.True(t, ok)
	be.Equal(t, v, 1)
}

func TestScopeStackNeverPopsGlobal(t *testing.T) {
	ss := NewScopeStack[string]()
	ss.Declare("g", "global")

	ss.PopScope()
	ss.PopScope()

	be.Equal(t, ss.Depth(), 1)
	v, ok := ss.Lookup("g")
	be.True(t, ok)
	be.Equal(t, v, "global")
}

func TestScopeStackUpdate(t *testing.T) {
	tests := []struct {
		name    string
		declare bool
		want    bool
	}{
		{"bound in outer frame", true, true},
		{"unbound", false, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ss := NewScopeStack[bool]()
			if test.declare {
				ss.Declare("v", false)
			}
			ss.PushScope()

			be.Equal(t, ss.Update("v", true), test.want)

			_, inner := ss.LookupCurrent("v")
			be.Equal(t, inner, false)

			v, ok := ss.Lookup("v")
			be.Equal(t, ok, test.declare)
			be.Equal(t, v, test.want)
		})
	}
}

func TestSliceFuncs(t *testing.T) {
	nums := []int{1, 2, 3, 4}

	be.True(t, Contains(nums, 3))
	be.True(t, !Contains(nums, 7))
	be.Equal(t, Map(nums, func(n int) int { return n * n }), []int{1, 4, 9, 16})
	be.Equal(t, Filter(nums, func(n int) bool { return n%2 == 0 }), []int{2, 4})
}
