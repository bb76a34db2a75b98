package walk

import (
	"cayc/ast"
	"cayc/depm"
	"cayc/report"
	"cayc/typing"
)

// walkExpr walks an expression and sets its type.
func (w *Walker) walkExpr(expr ast.ASTExpr) {
	switch v := expr.(type) {
	case *ast.Literal:
		w.walkLiteral(v)
	case *ast.Identifier:
		v.SetType(w.walkIdent(v))
	case *ast.This:
		if w.isStatic() {
			w.error(report.InvalidOperand, v.Span(), "`this` used in a static context")
		}

		v.SetType(&typing.ObjectType{Name: w.class.Name})
	case *ast.MemberAccess:
		v.SetType(w.walkMemberAccess(v))
	case *ast.Call:
		w.walkCall(v)
	case *ast.Index:
		w.walkExpr(v.Array)
		w.walkExpr(v.Index)

		at, ok := v.Array.Type().(*typing.ArrayType)
		if !ok {
			w.error(report.InvalidOperand, v.Array.Span(), "cannot index a value of type `%s`", v.Array.Type().Repr())
		}

		w.mustBeIndex(v.Index)
		v.SetType(at.ElemType)
	case *ast.NewObject:
		w.walkNewObject(v)
	case *ast.NewArray:
		w.checkType(v.ElemType, v.Span())
		w.walkExpr(v.Length)
		w.mustBeIndex(v.Length)

		v.SetType(&typing.ArrayType{ElemType: v.ElemType})
	case *ast.Ternary:
		w.walkTernary(v)
	case *ast.BinaryOp:
		w.walkExpr(v.Lhs)
		w.walkExpr(v.Rhs)
		v.SetType(w.checkBinaryOp(v.Op, v.Lhs.Type(), v.Rhs.Type(), v.Span()))
	case *ast.UnaryOp:
		w.walkExpr(v.Operand)
		v.SetType(w.checkUnaryOp(v.Op, v.Operand.Type(), v.Span()))
	case *ast.Assign:
		w.walkAssign(v)
	}
}

// walkIdent determines the type of a bare name.  Names are resolved in the
// same order the code generator resolves them: locals, then static fields of
// the enclosing class, then instance fields.
func (w *Walker) walkIdent(ident *ast.Identifier) typing.DataType {
	if w.reg.ClassExists(ident.Name) {
		w.error(report.InvalidOperand, ident.Span(), "class `%s` cannot be used as a value", ident.Name)
	}

	if sym, ok := w.scopes.Lookup(ident.Name); ok {
		return sym.Type
	}

	if field, _, ok := w.reg.LookupStaticField(w.class.Name, ident.Name); ok {
		return field.Type
	}

	if field, _, ok := w.reg.LookupInstanceField(w.class.Name, ident.Name); ok {
		if w.isStatic() {
			w.error(report.InvalidOperand, ident.Span(), "instance field `%s` used in a static context", ident.Name)
		}

		return field.Type
	}

	w.error(report.UndefinedSymbol, ident.Span(), "undefined symbol: `%s`", ident.Name)
	return nil
}

// walkMemberAccess determines the type of a field access.
func (w *Walker) walkMemberAccess(ma *ast.MemberAccess) typing.DataType {
	if className, ok := w.isClassRef(ma.Object); ok {
		// Class references are type references: they have no value.
		ma.Object.SetType(typing.PrimVoid)

		if field, _, ok := w.reg.LookupStaticField(className, ma.Member); ok {
			return field.Type
		}

		w.error(report.UndefinedSymbol, ma.Span(), "class `%s` has no static field named `%s`", className, ma.Member)
	}

	w.walkExpr(ma.Object)

	switch v := ma.Object.Type().(type) {
	case *typing.ArrayType:
		if ma.Member == "length" {
			return typing.PrimInt32
		}
	case *typing.ObjectType:
		if field, _, ok := w.reg.LookupInstanceField(v.Name, ma.Member); ok {
			return field.Type
		} else if _, _, ok := w.reg.LookupStaticField(v.Name, ma.Member); ok {
			w.error(report.InvalidOperand, ma.Span(), "static field `%s` must be accessed through its class", ma.Member)
		}
	}

	w.error(
		report.UndefinedSymbol,
		ma.Span(),
		"type `%s` has no field named `%s`",
		ma.Object.Type().Repr(),
		ma.Member,
	)
	return nil
}

// walkCall resolves the method being called and determines the call's type.
func (w *Walker) walkCall(call *ast.Call) {
	switch fn := call.Func.(type) {
	case *ast.Identifier:
		// A method of the enclosing class.
		argTypes := w.walkArgs(call.Args)
		mi := w.resolveOverload(fn.Name, w.reg.LookupMethods(w.class.Name, fn.Name), argTypes, call.Span())

		if !mi.IsStatic && w.isStatic() {
			w.error(report.InvalidOperand, call.Span(), "instance method `%s` called in a static context", fn.Name)
		}

		w.bindCall(call, mi)
	case *ast.MemberAccess:
		if className, ok := w.isClassRef(fn.Object); ok {
			fn.Object.SetType(typing.PrimVoid)

			argTypes := w.walkArgs(call.Args)
			mi := w.resolveOverload(fn.Member, w.reg.LookupMethods(className, fn.Member), argTypes, call.Span())

			if !mi.IsStatic {
				w.error(report.InvalidOperand, call.Span(), "instance method `%s` called through class `%s`", fn.Member, className)
			}

			w.bindCall(call, mi)
			return
		}

		w.walkExpr(fn.Object)
		argTypes := w.walkArgs(call.Args)

		switch v := fn.Object.Type().(type) {
		case typing.PrimType:
			if v == typing.PrimString {
				call.Builtin = fn.Member
				call.SetType(w.checkStringMethod(fn.Member, argTypes, call.Span()))
				return
			}
		case *typing.ObjectType:
			if _, ok := w.reg.GetInterface(v.Name); ok {
				w.error(report.InvalidOperand, call.Span(), "methods of interface `%s` cannot be called directly", v.Name)
			} else if w.reg.ClassExists(v.Name) {
				mi := w.resolveOverload(fn.Member, w.reg.LookupMethods(v.Name, fn.Member), argTypes, call.Span())
				w.bindCall(call, mi)
				return
			}
		}

		w.error(
			report.UndefinedSymbol,
			call.Span(),
			"type `%s` has no method named `%s`",
			fn.Object.Type().Repr(),
			fn.Member,
		)
	}
}

// bindCall records the selected method on a call.
func (w *Walker) bindCall(call *ast.Call, mi *depm.MethodInfo) {
	call.Owner = mi.Owner
	call.Overload = mi.Index
	call.IsStatic = mi.IsStatic
	call.SetType(mi.ReturnType)
}

// walkArgs walks the arguments of a call and returns their types.
func (w *Walker) walkArgs(args []ast.ASTExpr) []typing.DataType {
	argTypes := make([]typing.DataType, len(args))
	for i, arg := range args {
		w.walkExpr(arg)
		argTypes[i] = arg.Type()
	}

	return argTypes
}

// walkNewObject walks an object allocation.
func (w *Walker) walkNewObject(no *ast.NewObject) {
	class, ok := w.reg.GetClass(no.ClassName)
	if !ok {
		if _, isInterface := w.reg.GetInterface(no.ClassName); isInterface {
			w.error(report.InvalidOperand, no.Span(), "cannot instantiate interface `%s`", no.ClassName)
		}

		w.error(report.UndefinedSymbol, no.Span(), "undefined class: `%s`", no.ClassName)
	} else if class.IsAbstract {
		w.error(report.InvalidOperand, no.Span(), "cannot instantiate abstract class `%s`", no.ClassName)
	}

	no.CtorIndex = w.resolveConstructor(class, no.Args, no.Span())
	no.SetType(&typing.ObjectType{Name: no.ClassName})
}

// walkTernary walks a conditional expression.  Its type is whichever branch
// type the other branch can be assigned to.
func (w *Walker) walkTernary(tern *ast.Ternary) {
	w.mustBeBool(tern.Cond)
	w.walkExpr(tern.Then)
	w.walkExpr(tern.Else)

	thenType, elseType := tern.Then.Type(), tern.Else.Type()
	switch {
	case w.reg.Assignable(elseType, thenType):
		tern.SetType(thenType)
	case w.reg.Assignable(thenType, elseType):
		tern.SetType(elseType)
	default:
		w.error(
			report.InvalidOperand,
			tern.Span(),
			"conditional branches have incompatible types `%s` and `%s`",
			thenType.Repr(),
			elseType.Repr(),
		)
	}
}

// mustBeIndex asserts that an expression can be used as an array index or
// length.
func (w *Walker) mustBeIndex(expr ast.ASTExpr) {
	if !typing.IsIntegral(expr.Type()) {
		w.error(report.InvalidOperand, expr.Span(), "array index must be an integer not `%s`", expr.Type().Repr())
	}
}

// -----------------------------------------------------------------------------

// stringMethod is the signature of a built-in method of strings.
type stringMethod struct {
	// overloads lists the accepted parameter lists.
	overloads  [][]typing.DataType
	returnType typing.DataType
}

var stringMethods = map[string]stringMethod{
	"length": {
		overloads:  [][]typing.DataType{{}},
		returnType: typing.PrimInt32,
	},
	"substring": {
		overloads:  [][]typing.DataType{{typing.PrimInt32}, {typing.PrimInt32, typing.PrimInt32}},
		returnType: typing.PrimString,
	},
	"indexOf": {
		overloads:  [][]typing.DataType{{typing.PrimString}},
		returnType: typing.PrimInt32,
	},
	"charAt": {
		overloads:  [][]typing.DataType{{typing.PrimInt32}},
		returnType: typing.PrimChar,
	},
	"replace": {
		overloads:  [][]typing.DataType{{typing.PrimString, typing.PrimString}},
		returnType: typing.PrimString,
	},
}

// checkStringMethod checks a call to a built-in string method.
func (w *Walker) checkStringMethod(name string, argTypes []typing.DataType, span *report.TextSpan) typing.DataType {
	sm, ok := stringMethods[name]
	if !ok {
		w.error(report.UndefinedSymbol, span, "type `string` has no method named `%s`", name)
	}

	badCount := true
	for _, params := range sm.overloads {
		if len(params) != len(argTypes) {
			continue
		}

		badCount = false

		matched := true
		for i, param := range params {
			if !typing.Compatible(argTypes[i], param) {
				matched = false
				break
			}
		}

		if matched {
			return sm.returnType
		}
	}

	if badCount {
		w.error(report.ArgumentCountMismatch, span, "no overload of `string.%s` accepts %d arguments", name, len(argTypes))
	}

	w.error(
		report.ArgumentTypeMismatch,
		span,
		"no overload of `string.%s` accepts arguments of types (%s)",
		name,
		typeListRepr(argTypes),
	)
	return nil
}
