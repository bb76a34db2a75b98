package typing

// DataType is the parent interface for all types in the language.  The set of
// implementations is closed: PrimType, *ObjectType, and *ArrayType.
type DataType interface {
	// Repr returns a representative string of the type for purposes of error
	// reporting.
	Repr() string

	// equals is the internal, type-specific implementation of Equals.  It
	// should NEVER be called directly except by Equals.
	equals(DataType) bool
}

// -----------------------------------------------------------------------------

// PrimType represents a primitive type.  It should be one of the enumerated
// primitive types.
type PrimType int

// Enumeration of different primitive types.
const (
	PrimVoid PrimType = iota
	PrimBool
	PrimChar
	PrimInt32
	PrimInt64
	PrimFloat32
	PrimFloat64
	PrimString
)

func (pt PrimType) Repr() string {
	switch pt {
	case PrimBool:
		return "bool"
	case PrimChar:
		return "char"
	case PrimInt32:
		return "int"
	case PrimInt64:
		return "long"
	case PrimFloat32:
		return "float"
	case PrimFloat64:
		return "double"
	case PrimString:
		return "string"
	default:
		// PrimVoid
		return "void"
	}
}

func (pt PrimType) equals(other DataType) bool {
	if opt, ok := other.(PrimType); ok {
		return pt == opt
	}

	return false
}

// -----------------------------------------------------------------------------

// RootClassName is the name of the implicit root object type.  The null
// literal is typed as an object of this class.
const RootClassName = "Object"

// ObjectType is a reference to an instance of a named class or interface.
type ObjectType struct {
	Name string
}

// NullType returns the type given to the null literal.
func NullType() *ObjectType {
	return &ObjectType{Name: RootClassName}
}

func (ot *ObjectType) Repr() string {
	return ot.Name
}

func (ot *ObjectType) equals(other DataType) bool {
	if oot, ok := other.(*ObjectType); ok {
		return ot.Name == oot.Name
	}

	return false
}

// -----------------------------------------------------------------------------

// ArrayType is an array of elements of a single type.  At runtime an array is a
// pointer to its first element preceded by an 8 byte header whose low 4 bytes
// hold the element count.
type ArrayType struct {
	ElemType DataType
}

func (at *ArrayType) Repr() string {
	return at.ElemType.Repr() + "[]"
}

func (at *ArrayType) equals(other DataType) bool {
	if oat, ok := other.(*ArrayType); ok {
		return Equals(at.ElemType, oat.ElemType)
	}

	return false
}
