package depm

import "cayc/typing"

// ArgMatch is the result of matching argument types against a parameter
// list.
type ArgMatch int

// Enumeration of argument match results.
const (
	MatchOK ArgMatch = iota
	MatchBadCount
	MatchBadTypes
)

// MatchArgs checks whether arguments of the given types can be passed to the
// given parameters.  A trailing varargs parameter of type `e[]` accepts either
// zero or more arguments assignable to `e` or a single argument assignable to
// `e[]` itself.
func (r *TypeRegistry) MatchArgs(params []*ParamInfo, args []typing.DataType) ArgMatch {
	fixed := len(params)
	variadic := fixed > 0 && params[fixed-1].IsVarargs
	if variadic {
		fixed--
	}

	if len(args) < fixed || (!variadic && len(args) > fixed) {
		return MatchBadCount
	}

	for i := 0; i < fixed; i++ {
		if !r.Assignable(args[i], params[i].Type) {
			return MatchBadTypes
		}
	}

	if !variadic || r.PassesArrayDirectly(params, args) {
		return MatchOK
	}

	elemType := params[fixed].Type.(*typing.ArrayType).ElemType
	for _, arg := range args[fixed:] {
		if !r.Assignable(arg, elemType) {
			return MatchBadTypes
		}
	}

	return MatchOK
}

// PassesArrayDirectly returns whether a call to a varargs method passes an
// existing array as the varargs parameter rather than individual elements
// which must be packed into a new array.
func (r *TypeRegistry) PassesArrayDirectly(params []*ParamInfo, args []typing.DataType) bool {
	n := len(params)
	if n == 0 || !params[n-1].IsVarargs || len(args) != n {
		return false
	}

	if _, ok := args[n-1].(*typing.ArrayType); !ok {
		return false
	}

	return r.Assignable(args[n-1], params[n-1].Type)
}

// DefaultConstructor returns the index of the constructor run when an instance
// of ci is initialized without arguments: by `new C()` or by a subclass
// constructor without an explicit chain.  The index is -1 if ci declares no
// constructors.  The boolean is false if ci declares constructors but none of
// them accepts zero arguments.
func (r *TypeRegistry) DefaultConstructor(ci *ClassInfo) (int, bool) {
	if len(ci.Constructors) == 0 {
		return -1, true
	}

	for i, ctor := range ci.Constructors {
		if r.MatchArgs(ctor.Params, nil) == MatchOK {
			return i, true
		}
	}

	return -1, false
}
