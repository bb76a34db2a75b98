package typing

// Equals returns if two types are structurally identical.  This operation is
// commutative.
func Equals(lhs, rhs DataType) bool {
	return lhs.equals(rhs)
}

// EqualsAll returns whether two type lists have the same length and are
// pairwise equal.
func EqualsAll(lhs, rhs []DataType) bool {
	if len(lhs) != len(rhs) {
		return false
	}

	for i, typ := range lhs {
		if !Equals(typ, rhs[i]) {
			return false
		}
	}

	return true
}

// widenings lists the implicit primitive conversions.  Float64 -> Float32 is a
// lossy narrowing that is nevertheless permitted implicitly.
var widenings = map[PrimType][]PrimType{
	PrimInt32:   {PrimInt64, PrimFloat32, PrimFloat64},
	PrimInt64:   {PrimFloat64},
	PrimFloat32: {PrimFloat64},
	PrimFloat64: {PrimFloat32},
	PrimChar:    {PrimInt32, PrimInt64},
}

// Compatible returns whether a value of type from may be used where a value of
// type to is expected.  Object types are only compatible with themselves: this
// relation does not know about inheritance.  The null type is compatible with
// every reference type.  Arrays are covariant in their element type.
func Compatible(from, to DataType) bool {
	if Equals(from, to) {
		return true
	}

	switch v := from.(type) {
	case PrimType:
		if tpt, ok := to.(PrimType); ok {
			for _, w := range widenings[v] {
				if w == tpt {
					return true
				}
			}
		}
	case *ObjectType:
		if v.Name == RootClassName {
			return IsReference(to)
		}
	case *ArrayType:
		if tat, ok := to.(*ArrayType); ok {
			return Compatible(v.ElemType, tat.ElemType)
		}
	}

	return false
}

// Promote returns the result type of a binary arithmetic operation on operands
// of the given types.
func Promote(lhs, rhs DataType) DataType {
	switch {
	case Equals(lhs, PrimFloat64) || Equals(rhs, PrimFloat64):
		return PrimFloat64
	case Equals(lhs, PrimFloat32) || Equals(rhs, PrimFloat32):
		return PrimFloat32
	case Equals(lhs, PrimInt64) || Equals(rhs, PrimInt64):
		return PrimInt64
	case isCharOrInt32(lhs) && isCharOrInt32(rhs):
		return PrimInt32
	default:
		return lhs
	}
}

// PromoteInteger returns the result type of an integer-only operation.
func PromoteInteger(lhs, rhs DataType) DataType {
	if Equals(lhs, PrimInt64) || Equals(rhs, PrimInt64) {
		return PrimInt64
	}

	return PrimInt32
}

func isCharOrInt32(dt DataType) bool {
	return Equals(dt, PrimChar) || Equals(dt, PrimInt32)
}

// -----------------------------------------------------------------------------

// IsNumeric returns whether dt supports arithmetic.
func IsNumeric(dt DataType) bool {
	if pt, ok := dt.(PrimType); ok {
		return pt == PrimChar || (PrimInt32 <= pt && pt <= PrimFloat64)
	}

	return false
}

// IsIntegral returns whether dt is an integer type (including char).
func IsIntegral(dt DataType) bool {
	if pt, ok := dt.(PrimType); ok {
		return pt == PrimChar || pt == PrimInt32 || pt == PrimInt64
	}

	return false
}

// IsFloating returns whether dt is a floating point type.
func IsFloating(dt DataType) bool {
	return Equals(dt, PrimFloat32) || Equals(dt, PrimFloat64)
}

// IsReference returns whether values of dt are pointers: strings, objects, and
// arrays.
func IsReference(dt DataType) bool {
	switch v := dt.(type) {
	case PrimType:
		return v == PrimString
	case *ObjectType, *ArrayType:
		return true
	}

	return false
}
