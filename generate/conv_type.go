package generate

import (
	"cayc/report"
	"cayc/typing"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// convType converts a source type into its LLVM representation.  Strings and
// objects are opaque byte pointers and arrays point to their first element.
func (g *Generator) convType(dt typing.DataType) types.Type {
	switch v := dt.(type) {
	case typing.PrimType:
		return convPrimType(v)
	case *typing.ObjectType:
		return types.I8Ptr
	case *typing.ArrayType:
		return types.NewPointer(g.convType(v.ElemType))
	}

	panic(report.ICE(report.CodegenFailure, "no LLVM type for `%s`", dt.Repr()))
}

func convPrimType(pt typing.PrimType) types.Type {
	switch pt {
	case typing.PrimBool:
		return types.I1
	case typing.PrimChar:
		return types.I8
	case typing.PrimInt32:
		return types.I32
	case typing.PrimInt64:
		return types.I64
	case typing.PrimFloat32:
		return types.Float
	case typing.PrimFloat64:
		return types.Double
	case typing.PrimString:
		return types.I8Ptr
	}

	// PrimVoid
	return types.Void
}

// zeroValue returns the value a variable of type dt holds before it is first
// assigned.
func (g *Generator) zeroValue(dt typing.DataType) constant.Constant {
	switch llType := g.convType(dt).(type) {
	case *types.IntType:
		return constant.NewInt(llType, 0)
	case *types.FloatType:
		return constant.NewFloat(llType, 0)
	case *types.PointerType:
		return constant.NewNull(llType)
	}

	panic(report.ICE(report.CodegenFailure, "type `%s` has no zero value", dt.Repr()))
}

// -----------------------------------------------------------------------------

// convert applies the implicit conversion of a value of type from to type to.
// The type checker has already ensured the conversion is legal.
func (g *Generator) convert(val value.Value, from, to typing.DataType) value.Value {
	if typing.Equals(from, to) {
		return val
	}

	dst := g.convType(to)
	if typing.IsReference(to) {
		// References only differ in their pointee types.
		if val.Type().Equal(dst) {
			return val
		}

		return g.block.NewBitCast(val, dst)
	}

	fpt, tpt := from.(typing.PrimType), to.(typing.PrimType)
	switch {
	case typing.IsIntegral(fpt) && typing.IsIntegral(tpt):
		srcBits := val.Type().(*types.IntType).BitSize
		dstBits := dst.(*types.IntType).BitSize

		switch {
		case srcBits == dstBits:
			return val
		case srcBits > dstBits:
			return g.block.NewTrunc(val, dst)
		case fpt == typing.PrimChar:
			// Characters are unsigned.
			return g.block.NewZExt(val, dst)
		default:
			return g.block.NewSExt(val, dst)
		}
	case typing.IsIntegral(fpt) && typing.IsFloating(tpt):
		if fpt == typing.PrimChar {
			return g.block.NewUIToFP(val, dst)
		}

		return g.block.NewSIToFP(val, dst)
	case typing.IsFloating(fpt) && typing.IsFloating(tpt):
		if fpt == typing.PrimFloat32 {
			return g.block.NewFPExt(val, dst)
		}

		return g.block.NewFPTrunc(val, dst)
	case typing.IsFloating(fpt) && typing.IsIntegral(tpt):
		return g.block.NewFPToSI(val, dst)
	}

	panic(report.ICE(report.CodegenFailure, "no conversion from `%s` to `%s`", from.Repr(), to.Repr()))
}

// asBytePtr casts a reference value to an `i8*`.
func (g *Generator) asBytePtr(val value.Value) value.Value {
	if val.Type().Equal(types.I8Ptr) {
		return val
	}

	return g.block.NewBitCast(val, types.I8Ptr)
}
