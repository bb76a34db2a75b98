package typing

import (
	"testing"

	"github.com/nalgeon/be"
)

func allVariants() []DataType {
	return []DataType{
		PrimVoid, PrimBool, PrimChar, PrimInt32, PrimInt64,
		PrimFloat32, PrimFloat64, PrimString,
		&ObjectType{Name: "Shape"},
		NullType(),
		&ArrayType{ElemType: PrimInt32},
		&ArrayType{ElemType: &ArrayType{ElemType: &ObjectType{Name: "Shape"}}},
	}
}

func TestCompatibleIsReflexive(t *testing.T) {
	for _, dt := range allVariants() {
		t.Run(dt.Repr(), func(t *testing.T) {
			be.True(t, Compatible(dt, dt))
		})
	}
}

func TestCompatible(t *testing.T) {
	tests := []struct {
		name     string
		from, to DataType
		want     bool
	}{
		{"int to long", PrimInt32, PrimInt64, true},
		{"long to int", PrimInt64, PrimInt32, false},
		{"int to float", PrimInt32, PrimFloat32, true},
		{"float to double", PrimFloat32, PrimFloat64, true},
		{"double to float", PrimFloat64, PrimFloat32, true},
		{"char to int", PrimChar, PrimInt32, true},
		{"char to long", PrimChar, PrimInt64, true},
		{"int to char", PrimInt32, PrimChar, false},
		{"bool to int", PrimBool, PrimInt32, false},
		{"null to object", NullType(), &ObjectType{Name: "Shape"}, true},
		{"null to string", NullType(), PrimString, true},
		{"null to array", NullType(), &ArrayType{ElemType: PrimInt32}, true},
		{"null to int", NullType(), PrimInt32, false},
		{"unrelated objects", &ObjectType{Name: "Circle"}, &ObjectType{Name: "Shape"}, false},
		{"int array to long array", &ArrayType{ElemType: PrimInt32}, &ArrayType{ElemType: PrimInt64}, true},
		{"long array to int array", &ArrayType{ElemType: PrimInt64}, &ArrayType{ElemType: PrimInt32}, false},
		{"int array to int", &ArrayType{ElemType: PrimInt32}, PrimInt32, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			be.Equal(t, Compatible(test.from, test.to), test.want)
		})
	}
}

func TestPromote(t *testing.T) {
	tests := []struct {
		lhs, rhs DataType
		want     DataType
	}{
		{PrimInt32, PrimFloat64, PrimFloat64},
		{PrimFloat32, PrimInt64, PrimFloat32},
		{PrimInt64, PrimInt32, PrimInt64},
		{PrimChar, PrimChar, PrimInt32},
		{PrimChar, PrimInt32, PrimInt32},
		{PrimString, PrimInt32, PrimString},
	}

	for _, test := range tests {
		t.Run(test.lhs.Repr()+"_"+test.rhs.Repr(), func(t *testing.T) {
			be.True(t, Equals(Promote(test.lhs, test.rhs), test.want))
		})
	}

	be.True(t, Equals(PromoteInteger(PrimChar, PrimInt64), PrimInt64))
	be.True(t, Equals(PromoteInteger(PrimChar, PrimInt32), PrimInt32))
}

func TestEqualsIsStructural(t *testing.T) {
	be.True(t, Equals(&ArrayType{ElemType: &ObjectType{Name: "A"}}, &ArrayType{ElemType: &ObjectType{Name: "A"}}))
	be.True(t, !Equals(&ArrayType{ElemType: &ObjectType{Name: "A"}}, &ArrayType{ElemType: &ObjectType{Name: "B"}}))
	be.True(t, !Equals(PrimString, &ObjectType{Name: "string"}))
}

func TestSizes(t *testing.T) {
	be.Equal(t, SizeOf(PrimBool), 1)
	be.Equal(t, SizeOf(PrimInt32), 4)
	be.Equal(t, SizeOf(PrimFloat64), 8)
	be.Equal(t, SizeOf(&ObjectType{Name: "A"}), PointerSize)
	be.Equal(t, AlignUp(5, 4), 8)
	be.Equal(t, AlignUp(8, 8), 8)
}
