package generate

import (
	"cayc/ast"
	"cayc/depm"
	"cayc/typing"
	"strconv"
	"strings"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// The functions below mirror the string runtime exactly so that calls on
// constant operands can be evaluated at compile time.  Strings are treated as
// byte sequences.

func foldSubstring(s string, begin, end int64) string {
	n := int64(len(s))

	if begin < 0 {
		begin = 0
	}

	if end > n {
		end = n
	}

	if end < 0 {
		end = 0
	}

	if begin > end {
		begin = end
	}

	return s[begin:end]
}

func foldIndexOf(s, needle string) int64 {
	return int64(strings.Index(s, needle))
}

func foldCharAt(s string, index int64) byte {
	if index < 0 || index >= int64(len(s)) {
		return 0
	}

	return s[index]
}

func foldConcat(a, b string) string {
	return a + b
}

func foldReplace(s, target, replacement string) string {
	if target == "" {
		return s
	}

	return strings.ReplaceAll(s, target, replacement)
}

// foldToString formats a constant the way the runtime conversions do.
func foldToString(v interface{}) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case int64:
		return strconv.FormatInt(x, 10), true
	case byte:
		return string([]byte{x}), true
	case bool:
		return strconv.FormatBool(x), true
	}

	return "", false
}

// -----------------------------------------------------------------------------

// foldValue attempts to evaluate a string expression or an integer operand of
// one at compile time.  The result is a string, an int64 for int and long
// values, a byte for chars, or a bool.  Only literals, constant static fields,
// string concatenation, and string method calls are folded.
func (g *Generator) foldValue(expr ast.ASTExpr) (interface{}, bool) {
	switch v := expr.(type) {
	case *ast.Literal:
		return foldLiteral(v)
	case *ast.Identifier:
		// Locals shadow constant fields.
		if g.scopes != nil {
			if _, ok := g.scopes.Lookup(v.Name); ok {
				return nil, false
			}
		}

		if field, _, ok := g.reg.LookupStaticField(g.class.Name, v.Name); ok {
			return foldField(field)
		}
	case *ast.MemberAccess:
		if ident, ok := v.Object.(*ast.Identifier); ok && g.reg.ClassExists(ident.Name) {
			if field, _, ok := g.reg.LookupStaticField(ident.Name, v.Member); ok {
				return foldField(field)
			}
		}
	case *ast.UnaryOp:
		if v.Op == ast.OpNeg {
			if x, ok := g.foldValue(v.Operand); ok {
				if n, ok := x.(int64); ok {
					return wrapInt(-n, v.Type()), true
				}
			}
		}
	case *ast.BinaryOp:
		if v.Op == ast.OpAdd && typing.Equals(v.Type(), typing.PrimString) {
			return g.foldConcatExpr(v)
		}
	case *ast.Call:
		if v.Builtin != "" {
			return g.foldStringCall(v)
		}
	}

	return nil, false
}

func (g *Generator) foldConcatExpr(bop *ast.BinaryOp) (interface{}, bool) {
	lhs, ok := g.foldValue(bop.Lhs)
	if !ok {
		return nil, false
	}

	rhs, ok := g.foldValue(bop.Rhs)
	if !ok {
		return nil, false
	}

	a, aok := foldToString(lhs)
	b, bok := foldToString(rhs)
	if !aok || !bok {
		return nil, false
	}

	return foldConcat(a, b), true
}

func (g *Generator) foldStringCall(call *ast.Call) (interface{}, bool) {
	recv, ok := g.foldValue(call.Func.(*ast.MemberAccess).Object)
	if !ok {
		return nil, false
	}

	args := make([]interface{}, len(call.Args))
	for i, arg := range call.Args {
		if args[i], ok = g.foldValue(arg); !ok {
			return nil, false
		}
	}

	s, ok := recv.(string)
	if !ok {
		return nil, false
	}

	switch call.Builtin {
	case "length":
		return int64(len(s)), true
	case "substring":
		begin, ok := foldIndex(args[0])
		if !ok {
			return nil, false
		}

		end := int64(len(s))
		if len(args) == 2 {
			if end, ok = foldIndex(args[1]); !ok {
				return nil, false
			}
		}

		return foldSubstring(s, begin, end), true
	case "indexOf":
		if needle, ok := args[0].(string); ok {
			return foldIndexOf(s, needle), true
		}
	case "charAt":
		if index, ok := foldIndex(args[0]); ok {
			return foldCharAt(s, index), true
		}
	case "replace":
		target, tok := args[0].(string)
		replacement, rok := args[1].(string)
		if tok && rok {
			return foldReplace(s, target, replacement), true
		}
	}

	return nil, false
}

// foldIndex converts a folded integer argument into an index.  Indices are
// passed to the runtime as int.
func foldIndex(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return int64(int32(x)), true
	case byte:
		return int64(x), true
	}

	return 0, false
}

// foldField folds the value of a constant static field.  The literal is
// converted to the field's type.
func foldField(field *depm.FieldInfo) (interface{}, bool) {
	if !field.IsConstExpr {
		return nil, false
	}

	v, ok := foldLiteral(field.Init.(*ast.Literal))
	if !ok {
		return nil, false
	}

	switch x := v.(type) {
	case byte:
		if typing.Equals(field.Type, typing.PrimChar) {
			return x, true
		} else if typing.IsIntegral(field.Type) {
			return int64(x), true
		}
	case int64:
		if typing.Equals(field.Type, typing.PrimInt32) || typing.Equals(field.Type, typing.PrimInt64) {
			return x, true
		}
	case string:
		if typing.Equals(field.Type, typing.PrimString) {
			return x, true
		}
	case bool:
		return x, true
	}

	return nil, false
}

func foldLiteral(lit *ast.Literal) (interface{}, bool) {
	switch lit.Kind {
	case ast.LitString:
		return lit.Value, true
	case ast.LitInt, ast.LitLong:
		n, err := strconv.ParseUint(lit.Value, 0, 64)
		if err != nil {
			return nil, false
		}

		if lit.Kind == ast.LitInt {
			return int64(int32(n)), true
		}

		return int64(n), true
	case ast.LitChar:
		return lit.Value[0], true
	case ast.LitBool:
		return lit.Value == "true", true
	}

	return nil, false
}

// wrapInt truncates n to the width of an int if dt is int.
func wrapInt(n int64, dt typing.DataType) int64 {
	if typing.Equals(dt, typing.PrimInt32) {
		return int64(int32(n))
	}

	return n
}

// constOperand materializes a folded value of type dt.
func (g *Generator) constOperand(v interface{}, dt typing.DataType) *operand {
	switch x := v.(type) {
	case string:
		return &operand{val: g.stringConst(x), typ: dt}
	case int64:
		return &operand{val: constant.NewInt(g.convType(dt).(*types.IntType), x), typ: dt}
	case byte:
		return &operand{val: constant.NewInt(types.I8, int64(x)), typ: dt}
	case bool:
		return &operand{val: constant.NewBool(x), typ: dt}
	}

	return nil
}
