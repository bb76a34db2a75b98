package typing

// PointerSize is the size in bytes of every reference value.
const PointerSize = 8

// SizeOf returns the storage size in bytes of a value of type dt.
func SizeOf(dt DataType) int {
	if pt, ok := dt.(PrimType); ok {
		switch pt {
		case PrimVoid:
			return 0
		case PrimBool, PrimChar:
			return 1
		case PrimInt32, PrimFloat32:
			return 4
		case PrimInt64, PrimFloat64:
			return 8
		}
	}

	return PointerSize
}

// AlignOf returns the natural alignment in bytes of a value of type dt.
func AlignOf(dt DataType) int {
	if size := SizeOf(dt); size > 0 {
		return size
	}

	return 1
}

// AlignUp rounds offset up to the next multiple of align.
func AlignUp(offset, align int) int {
	if rem := offset % align; rem != 0 {
		return offset + align - rem
	}

	return offset
}
