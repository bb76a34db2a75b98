package walk

import (
	"cayc/ast"
	"cayc/typing"
)

// literalTypes maps each literal kind to the type it yields.
var literalTypes = map[int]typing.DataType{
	ast.LitInt:    typing.PrimInt32,
	ast.LitLong:   typing.PrimInt64,
	ast.LitFloat:  typing.PrimFloat32,
	ast.LitDouble: typing.PrimFloat64,
	ast.LitChar:   typing.PrimChar,
	ast.LitString: typing.PrimString,
	ast.LitBool:   typing.PrimBool,
}

// walkLiteral types a literal.  Null is typed as the root object type which is
// compatible with every reference type.
func (w *Walker) walkLiteral(lit *ast.Literal) {
	if lit.Kind == ast.LitNull {
		lit.SetType(typing.NullType())
		return
	}

	lit.SetType(literalTypes[lit.Kind])
}
