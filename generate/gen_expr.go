package generate

import (
	"cayc/ast"
	"cayc/report"
	"cayc/typing"
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// arrayHeaderSize is the size of the header preceding the elements of an
// array.  Its low 4 bytes hold the element count.
const arrayHeaderSize = 8

// genExpr generates an expression and returns its value.  Void calls yield an
// operand of type void whose value must not be used.
func (g *Generator) genExpr(expr ast.ASTExpr) *operand {
	switch v := expr.(type) {
	case *ast.Literal:
		return &operand{val: g.constLiteral(v, v.Type()), typ: v.Type()}
	case *ast.Identifier:
		return g.resolveIdent(v.Name)
	case *ast.This:
		return &operand{val: g.loadThis(), typ: v.Type()}
	case *ast.MemberAccess:
		return g.resolveMember(v.Object, v.Member)
	case *ast.Call:
		return g.genCall(v)
	case *ast.Index:
		return g.load(g.indexAddr(v))
	case *ast.NewObject:
		return g.genNewObject(v)
	case *ast.NewArray:
		return g.genNewArray(v)
	case *ast.Ternary:
		return g.genTernary(v)
	case *ast.BinaryOp:
		return g.genBinaryOp(v)
	case *ast.UnaryOp:
		return g.genUnaryOp(v)
	case *ast.Assign:
		return g.genAssign(v)
	}

	panic(report.ICE(report.CodegenFailure, "unable to generate expression of type `%T`", expr))
}

// constLiteral converts a literal into a constant of type dt.  The type checker
// guarantees the literal's own type can be converted to dt.
func (g *Generator) constLiteral(lit *ast.Literal, dt typing.DataType) constant.Constant {
	switch lit.Kind {
	case ast.LitNull:
		return constant.NewNull(g.convType(dt).(*types.PointerType))
	case ast.LitFloat, ast.LitDouble:
		bitSize := 64
		if lit.Kind == ast.LitFloat {
			bitSize = 32
		}

		// The lexer only produces well-formed literals.
		x, _ := strconv.ParseFloat(lit.Value, bitSize)

		llType := g.convType(dt).(*types.FloatType)
		if llType.Kind == types.FloatKindFloat {
			x = float64(float32(x))
		}

		return constant.NewFloat(llType, x)
	}

	v, ok := foldLiteral(lit)
	if !ok {
		panic(report.ICE(report.CodegenFailure, "malformed literal `%s`", lit.Value))
	}

	var n int64
	switch x := v.(type) {
	case string:
		return g.stringConst(x)
	case bool:
		return constant.NewBool(x)
	case byte:
		n = int64(x)
	case int64:
		n = x
	}

	switch llType := g.convType(dt).(type) {
	case *types.IntType:
		return constant.NewInt(llType, n)
	case *types.FloatType:
		return constant.NewFloat(llType, float64(n))
	}

	panic(report.ICE(report.CodegenFailure, "literal `%s` cannot have type `%s`", lit.Value, dt.Repr()))
}

// -----------------------------------------------------------------------------

// genBinaryOp generates a binary operator application.  String concatenations
// of constants are folded.
func (g *Generator) genBinaryOp(bop *ast.BinaryOp) *operand {
	switch bop.Op {
	case ast.OpAnd, ast.OpOr:
		return g.genShortCircuit(bop)
	case ast.OpAdd:
		if typing.Equals(bop.Type(), typing.PrimString) {
			if v, ok := g.foldValue(bop); ok {
				return g.constOperand(v, typing.PrimString)
			}
		}
	}

	lhs := g.genExpr(bop.Lhs)
	rhs := g.genExpr(bop.Rhs)
	return g.genOperation(bop.Op, lhs, rhs, bop.Type())
}

// genOperation applies a non-logical binary operator to two evaluated
// operands.  The result has type resultType.
func (g *Generator) genOperation(op ast.OpKind, lhs, rhs *operand, resultType typing.DataType) *operand {
	if op.IsComparison() {
		return &operand{val: g.genComparison(op, lhs, rhs), typ: typing.PrimBool}
	}

	if typing.Equals(resultType, typing.PrimString) {
		concat := g.block.NewCall(g.rt.concat, g.toString(lhs), g.toString(rhs))
		return &operand{val: concat, typ: typing.PrimString}
	}

	x := g.convert(lhs.val, lhs.typ, resultType)
	y := g.convert(rhs.val, rhs.typ, resultType)

	var result value.Value
	if typing.IsFloating(resultType) {
		switch op {
		case ast.OpAdd:
			result = g.block.NewFAdd(x, y)
		case ast.OpSub:
			result = g.block.NewFSub(x, y)
		case ast.OpMul:
			result = g.block.NewFMul(x, y)
		case ast.OpDiv:
			result = g.block.NewFDiv(x, y)
		case ast.OpMod:
			result = g.block.NewFRem(x, y)
		}
	} else {
		switch op {
		case ast.OpAdd:
			result = g.block.NewAdd(x, y)
		case ast.OpSub:
			result = g.block.NewSub(x, y)
		case ast.OpMul:
			result = g.block.NewMul(x, y)
		case ast.OpDiv:
			result = g.block.NewSDiv(x, y)
		case ast.OpMod:
			result = g.block.NewSRem(x, y)
		}
	}

	if result == nil {
		panic(report.ICE(report.CodegenFailure, "operator `%s` is not arithmetic", op))
	}

	return &operand{val: result, typ: resultType}
}

var (
	intPreds = map[ast.OpKind]enum.IPred{
		ast.OpEq:   enum.IPredEQ,
		ast.OpNeq:  enum.IPredNE,
		ast.OpLt:   enum.IPredSLT,
		ast.OpLtEq: enum.IPredSLE,
		ast.OpGt:   enum.IPredSGT,
		ast.OpGtEq: enum.IPredSGE,
	}

	floatPreds = map[ast.OpKind]enum.FPred{
		ast.OpEq:   enum.FPredOEQ,
		ast.OpNeq:  enum.FPredUNE,
		ast.OpLt:   enum.FPredOLT,
		ast.OpLtEq: enum.FPredOLE,
		ast.OpGt:   enum.FPredOGT,
		ast.OpGtEq: enum.FPredOGE,
	}
)

// genComparison generates a comparison.  References, including strings, are
// compared by address.
func (g *Generator) genComparison(op ast.OpKind, lhs, rhs *operand) value.Value {
	switch {
	case typing.IsReference(lhs.typ):
		return g.block.NewICmp(intPreds[op], g.asBytePtr(lhs.val), g.asBytePtr(rhs.val))
	case typing.Equals(lhs.typ, typing.PrimBool):
		return g.block.NewICmp(intPreds[op], lhs.val, rhs.val)
	}

	common := typing.Promote(lhs.typ, rhs.typ)
	x := g.convert(lhs.val, lhs.typ, common)
	y := g.convert(rhs.val, rhs.typ, common)

	if typing.IsFloating(common) {
		return g.block.NewFCmp(floatPreds[op], x, y)
	}

	return g.block.NewICmp(intPreds[op], x, y)
}

// genShortCircuit generates a logical and or or.  The right operand is only
// evaluated if the left operand does not decide the result.
func (g *Generator) genShortCircuit(bop *ast.BinaryOp) *operand {
	lhs := g.genExpr(bop.Lhs)
	lhsEnd := g.block

	rhsBlock := g.appendBlock()
	endBlock := g.appendBlock()

	isOr := bop.Op == ast.OpOr
	if isOr {
		g.block.NewCondBr(lhs.val, endBlock, rhsBlock)
	} else {
		g.block.NewCondBr(lhs.val, rhsBlock, endBlock)
	}

	g.block = rhsBlock
	rhs := g.genExpr(bop.Rhs)
	rhsEnd := g.block
	g.block.NewBr(endBlock)

	g.block = endBlock
	result := g.block.NewPhi(ir.NewIncoming(constant.NewBool(isOr), lhsEnd), ir.NewIncoming(rhs.val, rhsEnd))
	return &operand{val: result, typ: typing.PrimBool}
}

// genUnaryOp generates a unary operator application.
func (g *Generator) genUnaryOp(uop *ast.UnaryOp) *operand {
	x := g.genExpr(uop.Operand)

	if uop.Op == ast.OpNot {
		return &operand{val: g.block.NewXor(x.val, constant.True), typ: typing.PrimBool}
	}

	val := g.convert(x.val, x.typ, uop.Type())
	if typing.IsFloating(uop.Type()) {
		return &operand{val: g.block.NewFNeg(val), typ: uop.Type()}
	}

	zero := constant.NewInt(val.Type().(*types.IntType), 0)
	return &operand{val: g.block.NewSub(zero, val), typ: uop.Type()}
}

// genTernary generates a conditional expression.
func (g *Generator) genTernary(tern *ast.Ternary) *operand {
	cond := g.genExpr(tern.Cond)

	thenBlock := g.appendBlock()
	elseBlock := g.appendBlock()
	endBlock := g.appendBlock()
	g.block.NewCondBr(cond.val, thenBlock, elseBlock)

	g.block = thenBlock
	thenOp := g.genExpr(tern.Then)
	thenVal := g.convert(thenOp.val, thenOp.typ, tern.Type())
	thenEnd := g.block
	g.block.NewBr(endBlock)

	g.block = elseBlock
	elseOp := g.genExpr(tern.Else)
	elseVal := g.convert(elseOp.val, elseOp.typ, tern.Type())
	elseEnd := g.block
	g.block.NewBr(endBlock)

	g.block = endBlock
	result := g.block.NewPhi(ir.NewIncoming(thenVal, thenEnd), ir.NewIncoming(elseVal, elseEnd))
	return &operand{val: result, typ: tern.Type()}
}

// -----------------------------------------------------------------------------

// genAssign generates an assignment.  The target is evaluated before the value.
// A compound assignment `a op= b` is generated as `a = a op b` with the
// target's address only computed once.
func (g *Generator) genAssign(as *ast.Assign) *operand {
	lv := g.lvalueOf(as.Target)

	var result *operand
	if as.CompoundOp != nil {
		current := g.load(lv)
		rhs := g.genExpr(as.Value)
		result = g.genOperation(*as.CompoundOp, current, rhs, compoundResultType(*as.CompoundOp, current.typ, rhs.typ))
	} else {
		result = g.genExpr(as.Value)
	}

	val := g.convert(result.val, result.typ, lv.typ)
	g.block.NewStore(val, lv.ptr)
	return &operand{val: val, typ: lv.typ}
}

// compoundResultType returns the type of `lhs op rhs` for a compound
// assignment operator.
func compoundResultType(op ast.OpKind, lhs, rhs typing.DataType) typing.DataType {
	if op == ast.OpAdd && (typing.Equals(lhs, typing.PrimString) || typing.Equals(rhs, typing.PrimString)) {
		return typing.PrimString
	}

	return typing.Promote(lhs, rhs)
}

// lvalueOf returns the storage location an assignment target refers to.
func (g *Generator) lvalueOf(target ast.ASTExpr) *lvalue {
	switch v := target.(type) {
	case *ast.Identifier:
		return g.identAddr(v.Name)
	case *ast.MemberAccess:
		if _, lv := g.memberAddr(v.Object, v.Member); lv != nil {
			return lv
		}
	case *ast.Index:
		return g.indexAddr(v)
	}

	panic(report.ICE(report.CodegenFailure, "expression of type `%s` cannot be assigned", target.Type().Repr()))
}

// indexAddr returns the address of an array element.
func (g *Generator) indexAddr(idx *ast.Index) *lvalue {
	arr := g.genExpr(idx.Array)
	index := g.genExpr(idx.Index)

	elemType := arr.typ.(*typing.ArrayType).ElemType
	ptr := g.block.NewGetElementPtr(g.convType(elemType), arr.val, g.convert(index.val, index.typ, typing.PrimInt64))
	return &lvalue{ptr: ptr, typ: elemType}
}

// -----------------------------------------------------------------------------

// genNewObject generates an object allocation.  The object is zeroed and then
// initialized by its constructor.
func (g *Generator) genNewObject(no *ast.NewObject) *operand {
	ci, ok := g.reg.GetClass(no.ClassName)
	if !ok {
		panic(report.ICE(report.CodegenFailure, "allocation of undefined class `%s`", no.ClassName))
	}

	size := ci.Size
	if size < 1 {
		size = 1
	}

	obj := g.block.NewCall(g.rt.calloc, i64One, constant.NewInt(types.I64, int64(size)))
	g.callConstructor(ci, no.CtorIndex, no.Args, obj)
	return &operand{val: obj, typ: no.Type()}
}

// genNewArray generates an array allocation.
func (g *Generator) genNewArray(na *ast.NewArray) *operand {
	n := g.genExpr(na.Length)
	arr := g.allocArray(na.ElemType, g.convert(n.val, n.typ, typing.PrimInt32))
	return &operand{val: arr, typ: na.Type()}
}

// allocArray allocates a zeroed array of n elements and writes its header.  It
// returns a pointer to the first element.
func (g *Generator) allocArray(elemType typing.DataType, n value.Value) value.Value {
	count := g.block.NewSExt(n, types.I64)
	elemSize := constant.NewInt(types.I64, int64(typing.SizeOf(elemType)))
	size := g.block.NewAdd(g.block.NewMul(count, elemSize), constant.NewInt(types.I64, arrayHeaderSize))

	raw := g.block.NewCall(g.rt.calloc, i64One, size)
	g.block.NewStore(n, g.block.NewBitCast(raw, types.NewPointer(types.I32)))

	data := g.block.NewGetElementPtr(types.I8, raw, constant.NewInt(types.I64, arrayHeaderSize))
	return g.block.NewBitCast(data, g.convType(&typing.ArrayType{ElemType: elemType}))
}
