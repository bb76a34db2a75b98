package generate

import (
	"cayc/typing"
	"testing"

	"github.com/nalgeon/be"
)

func TestFoldSubstring(t *testing.T) {
	tests := []struct {
		begin, end int64
		want       string
	}{
		{0, 5, "hello"},
		{1, 3, "el"},
		{-3, 10, "hello"},
		{5, 2, ""},
		{2, 2, ""},
		{4, -1, ""},
		{7, 9, ""},
	}

	for _, test := range tests {
		be.Equal(t, foldSubstring("hello", test.begin, test.end), test.want)
	}
}

func TestFoldStringFunctions(t *testing.T) {
	be.Equal(t, foldIndexOf("banana", "na"), int64(2))
	be.Equal(t, foldIndexOf("banana", "x"), int64(-1))
	be.Equal(t, foldIndexOf("banana", ""), int64(0))

	be.Equal(t, foldCharAt("abc", 1), byte('b'))
	be.Equal(t, foldCharAt("abc", 3), byte(0))
	be.Equal(t, foldCharAt("abc", -1), byte(0))

	be.Equal(t, foldReplace("a-b-c", "-", "+"), "a+b+c")
	be.Equal(t, foldReplace("aaa", "aa", "b"), "ba")
	be.Equal(t, foldReplace("abc", "", "x"), "abc")

	be.Equal(t, foldConcat("ab", "cd"), "abcd")
}

func TestFoldToString(t *testing.T) {
	tests := []struct {
		v    interface{}
		want string
	}{
		{"s", "s"},
		{int64(-42), "-42"},
		{byte('z'), "z"},
		{true, "true"},
		{false, "false"},
	}

	for _, test := range tests {
		got, ok := foldToString(test.v)
		be.True(t, ok)
		be.Equal(t, got, test.want)
	}

	_, ok := foldToString(1.5)
	be.True(t, !ok)
}

func TestWrapInt(t *testing.T) {
	be.Equal(t, wrapInt(1<<31, typing.PrimInt32), int64(-1<<31))
	be.Equal(t, wrapInt(1<<31, typing.PrimInt64), int64(1<<31))
}
