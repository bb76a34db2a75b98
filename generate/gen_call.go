package generate

import (
	"cayc/ast"
	"cayc/depm"
	"cayc/report"
	"cayc/typing"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// genCall generates a method call.  Instance methods receive the object as
// their first argument.  Methods are bound statically to the overload the type
// checker selected.
func (g *Generator) genCall(call *ast.Call) *operand {
	if call.Builtin != "" {
		return g.genStringCall(call)
	}

	var name string
	var recv value.Value
	switch fn := call.Func.(type) {
	case *ast.Identifier:
		name = fn.Name
		if !call.IsStatic {
			recv = g.loadThis()
		}
	case *ast.MemberAccess:
		name = fn.Member

		// Class references have nothing to evaluate.
		if ident, ok := fn.Object.(*ast.Identifier); !ok || !g.reg.ClassExists(ident.Name) {
			obj := g.genExpr(fn.Object)
			if !call.IsStatic {
				recv = g.asBytePtr(obj.val)
			}
		}
	default:
		panic(report.ICE(report.CodegenFailure, "call of an expression of type `%T`", call.Func))
	}

	owner, ok := g.reg.GetClass(call.Owner)
	if !ok || call.Overload >= len(owner.Methods[name]) {
		panic(report.ICE(report.CodegenFailure, "call to unbound method `%s`", name))
	}

	mi := owner.Methods[name][call.Overload]

	args := g.genArgs(mi.Params, call.Args)
	if recv != nil {
		args = append([]value.Value{recv}, args...)
	}

	return &operand{val: g.block.NewCall(g.methods[mi], args...), typ: mi.ReturnType}
}

// genArgs evaluates the arguments of a call left to right and converts them to
// the parameter types.  Trailing arguments matched by a varargs parameter are
// packed into a fresh array unless a single array is passed in their place.
func (g *Generator) genArgs(params []*depm.ParamInfo, args []ast.ASTExpr) []value.Value {
	argTypes := make([]typing.DataType, len(args))
	for i, arg := range args {
		argTypes[i] = arg.Type()
	}

	fixed := len(params)
	packed := fixed > 0 && params[fixed-1].IsVarargs && !g.reg.PassesArrayDirectly(params, argTypes)
	if packed {
		fixed--
	}

	vals := make([]value.Value, 0, len(params))
	for i := 0; i < fixed; i++ {
		arg := g.genExpr(args[i])
		vals = append(vals, g.convert(arg.val, arg.typ, params[i].Type))
	}

	if packed {
		elemType := params[fixed].Type.(*typing.ArrayType).ElemType
		rest := args[fixed:]

		arr := g.allocArray(elemType, constant.NewInt(types.I32, int64(len(rest))))
		for i, arg := range rest {
			op := g.genExpr(arg)
			ptr := g.block.NewGetElementPtr(g.convType(elemType), arr, constant.NewInt(types.I64, int64(i)))
			g.block.NewStore(g.convert(op.val, op.typ, elemType), ptr)
		}

		vals = append(vals, arr)
	}

	return vals
}

// genStringCall generates a call to a built-in string method.  Calls whose
// receiver and arguments are all constant are evaluated at compile time.
func (g *Generator) genStringCall(call *ast.Call) *operand {
	if v, ok := g.foldValue(call); ok {
		return g.constOperand(v, call.Type())
	}

	recv := g.genExpr(call.Func.(*ast.MemberAccess).Object).val

	args := make([]*operand, len(call.Args))
	for i, arg := range call.Args {
		args[i] = g.genExpr(arg)
	}

	index := func(op *operand) value.Value {
		return g.convert(op.val, op.typ, typing.PrimInt32)
	}

	var result value.Value
	switch call.Builtin {
	case "length":
		result = g.block.NewCall(g.rt.length, recv)
	case "substring":
		var end value.Value
		if len(args) == 2 {
			end = index(args[1])
		} else {
			end = g.block.NewCall(g.rt.length, recv)
		}

		result = g.block.NewCall(g.rt.substring, recv, index(args[0]), end)
	case "indexOf":
		result = g.block.NewCall(g.rt.indexOf, recv, args[0].val)
	case "charAt":
		result = g.block.NewCall(g.rt.charAt, recv, index(args[0]))
	case "replace":
		result = g.block.NewCall(g.rt.replace, recv, args[0].val, args[1].val)
	default:
		panic(report.ICE(report.CodegenFailure, "unknown string method `%s`", call.Builtin))
	}

	return &operand{val: result, typ: call.Type()}
}

// toString converts a value to a string for concatenation.
func (g *Generator) toString(op *operand) value.Value {
	switch op.typ {
	case typing.PrimString:
		return op.val
	case typing.PrimInt32:
		return g.block.NewCall(g.rt.intToString, g.block.NewSExt(op.val, types.I64))
	case typing.PrimInt64:
		return g.block.NewCall(g.rt.intToString, op.val)
	case typing.PrimFloat32:
		return g.block.NewCall(g.rt.floatToString, g.block.NewFPExt(op.val, types.Double))
	case typing.PrimFloat64:
		return g.block.NewCall(g.rt.floatToString, op.val)
	case typing.PrimBool:
		return g.block.NewCall(g.rt.boolToString, op.val)
	case typing.PrimChar:
		return g.block.NewCall(g.rt.charToString, op.val)
	}

	panic(report.ICE(report.CodegenFailure, "value of type `%s` cannot be converted to a string", op.typ.Repr()))
}
