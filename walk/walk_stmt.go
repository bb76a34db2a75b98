package walk

import (
	"cayc/ast"
	"cayc/depm"
	"cayc/report"
	"cayc/typing"
)

// walkAssign walks an assignment expression.  The type of an assignment is the
// type of its target.
func (w *Walker) walkAssign(as *ast.Assign) {
	targetType := w.walkLHSExpr(as.Target, as.CompoundOp != nil)
	as.Target.SetType(targetType)

	w.walkExpr(as.Value)

	valueType := as.Value.Type()
	if as.CompoundOp != nil {
		valueType = w.checkBinaryOp(*as.CompoundOp, targetType, valueType, as.Span())
	}

	w.mustAssign(report.IncompatibleAssignment, valueType, targetType, as.Value.Span())
	as.SetType(targetType)
}

// walkLHSExpr walks the target of an assignment and returns its type.  Final
// variables and fields may only be assigned while they are being initialized.
// If reads is set, the assignment also reads the target's current value.
func (w *Walker) walkLHSExpr(target ast.ASTExpr, reads bool) typing.DataType {
	switch v := target.(type) {
	case *ast.Identifier:
		if w.reg.ClassExists(v.Name) {
			w.error(report.InvalidOperand, v.Span(), "cannot assign to class `%s`", v.Name)
		}

		if sym, ok := w.scopes.Lookup(v.Name); ok {
			if sym.IsFinal && (sym.IsInitialized || reads) {
				w.recError(report.FinalAssignment, v.Span(), "cannot assign to final variable `%s`", v.Name)
			}

			sym.IsInitialized = true
			w.scopes.Update(v.Name, sym)
			return sym.Type
		}

		if field, owner, ok := w.reg.LookupStaticField(w.class.Name, v.Name); ok {
			w.checkFinalField(field, owner, v.Span())
			return field.Type
		}

		if field, owner, ok := w.reg.LookupInstanceField(w.class.Name, v.Name); ok {
			if w.isStatic() {
				w.error(report.InvalidOperand, v.Span(), "instance field `%s` used in a static context", v.Name)
			}

			w.checkFinalField(field, owner, v.Span())
			return field.Type
		}

		w.error(report.UndefinedSymbol, v.Span(), "undefined symbol: `%s`", v.Name)
	case *ast.MemberAccess:
		typ := w.walkMemberAccess(v)

		if _, isArray := v.Object.Type().(*typing.ArrayType); isArray {
			w.error(report.InvalidOperand, v.Span(), "cannot assign to the length of an array")
		}

		var field *depm.FieldInfo
		var owner *depm.ClassInfo
		if className, ok := w.isClassRef(v.Object); ok {
			field, owner, _ = w.reg.LookupStaticField(className, v.Member)
		} else if ot, ok := v.Object.Type().(*typing.ObjectType); ok {
			field, owner, _ = w.reg.LookupInstanceField(ot.Name, v.Member)
		}

		if field != nil {
			_, viaThis := v.Object.(*ast.This)
			if field.IsStatic || viaThis {
				w.checkFinalField(field, owner, v.Span())
			} else if field.IsFinal {
				// Final fields of other objects are never assignable.
				w.recError(report.FinalAssignment, v.Span(), "cannot assign to final field `%s`", field.Name)
			}
		}

		return typ
	case *ast.Index:
		w.walkExpr(v)
		return v.Type()
	}

	w.error(report.InvalidOperand, target.Span(), "cannot assign to an rvalue")
	return nil
}

// checkFinalField reports an error if a final field is assigned outside of the
// initialization of its owning class: constructors and instance initializers
// for instance fields and static initializers for static fields.  A final
// field with an initializer can never be assigned.
func (w *Walker) checkFinalField(field *depm.FieldInfo, owner *depm.ClassInfo, span *report.TextSpan) {
	if !field.IsFinal {
		return
	}

	if owner.Name == w.class.Name && field.Init == nil {
		if field.IsStatic && w.ctx == ctxStaticInit {
			return
		} else if !field.IsStatic && (w.ctx == ctxConstructor || w.ctx == ctxInstanceInit) {
			return
		}
	}

	w.recError(report.FinalAssignment, span, "cannot assign to final field `%s`", field.Name)
}
