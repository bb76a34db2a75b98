package walk

import (
	"cayc/ast"
	"cayc/report"
	"cayc/typing"
)

// checkBinaryOp checks the application of a binary operator to operands of the
// given types and returns the type of the result.  All binary operators are
// intrinsic.
func (w *Walker) checkBinaryOp(op ast.OpKind, lhs, rhs typing.DataType, span *report.TextSpan) typing.DataType {
	switch op {
	case ast.OpAdd:
		// String concatenation accepts any non-void primitive on either side.
		if typing.Equals(lhs, typing.PrimString) || typing.Equals(rhs, typing.PrimString) {
			if isConcatenable(lhs) && isConcatenable(rhs) {
				return typing.PrimString
			}

			break
		}

		fallthrough
	case ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		if typing.IsNumeric(lhs) && typing.IsNumeric(rhs) {
			return typing.Promote(lhs, rhs)
		}
	case ast.OpLt, ast.OpLtEq, ast.OpGt, ast.OpGtEq:
		if typing.IsNumeric(lhs) && typing.IsNumeric(rhs) {
			return typing.PrimBool
		}
	case ast.OpEq, ast.OpNeq:
		switch {
		case typing.IsNumeric(lhs) && typing.IsNumeric(rhs),
			typing.Equals(lhs, typing.PrimBool) && typing.Equals(rhs, typing.PrimBool),
			typing.IsReference(lhs) && typing.IsReference(rhs) && (w.reg.Assignable(lhs, rhs) || w.reg.Assignable(rhs, lhs)):
			return typing.PrimBool
		}
	case ast.OpAnd, ast.OpOr:
		if typing.Equals(lhs, typing.PrimBool) && typing.Equals(rhs, typing.PrimBool) {
			return typing.PrimBool
		}
	}

	w.error(
		report.InvalidOperand,
		span,
		"operator `%s` cannot be applied to `%s` and `%s`",
		op,
		lhs.Repr(),
		rhs.Repr(),
	)
	return nil
}

// checkUnaryOp checks the application of a unary operator.
func (w *Walker) checkUnaryOp(op ast.OpKind, operand typing.DataType, span *report.TextSpan) typing.DataType {
	switch op {
	case ast.OpNeg:
		if typing.IsNumeric(operand) {
			// Characters are unsigned so they are negated as integers.
			return typing.Promote(operand, operand)
		}
	case ast.OpNot:
		if typing.Equals(operand, typing.PrimBool) {
			return typing.PrimBool
		}
	}

	w.error(report.InvalidOperand, span, "operator `%s` cannot be applied to `%s`", op, operand.Repr())
	return nil
}

// isConcatenable returns whether a value of type dt can be an operand of
// string concatenation.
func isConcatenable(dt typing.DataType) bool {
	if pt, ok := dt.(typing.PrimType); ok {
		return pt != typing.PrimVoid
	}

	return false
}
