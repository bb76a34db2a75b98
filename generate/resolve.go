package generate

import (
	"cayc/ast"
	"cayc/depm"
	"cayc/report"
	"cayc/typing"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// lvalue is the address of a storage location together with the source type
// of the value stored there.
type lvalue struct {
	ptr value.Value
	typ typing.DataType
}

// load reads the value stored at an lvalue.
func (g *Generator) load(lv *lvalue) *operand {
	return &operand{val: g.block.NewLoad(g.convType(lv.typ), lv.ptr), typ: lv.typ}
}

// resolveIdent generates a read of a bare name.  Names are resolved in a fixed
// order:
//
//  1. class names, which yield an inert placeholder of type void
//  2. locals, innermost scope first
//  3. static fields of the enclosing class and its ancestors
//  4. instance fields of the enclosing class and its ancestors
//
// Any other name is an internal error: the type checker rejects them.
func (g *Generator) resolveIdent(name string) *operand {
	if g.reg.ClassExists(name) {
		return &operand{val: constant.NewInt(types.I64, 0), typ: typing.PrimVoid}
	}

	return g.load(g.identAddr(name))
}

// identAddr returns the storage location a bare name refers to.  It follows
// the same order as resolveIdent.
func (g *Generator) identAddr(name string) *lvalue {
	if ident, ok := g.scopes.Lookup(name); ok {
		return &lvalue{ptr: ident.Storage, typ: ident.Type}
	}

	if field, _, ok := g.reg.LookupStaticField(g.class.Name, name); ok {
		return &lvalue{ptr: g.statics[field], typ: field.Type}
	}

	if field, _, ok := g.reg.LookupInstanceField(g.class.Name, name); ok && g.thisSlot != nil {
		return &lvalue{ptr: g.fieldAddr(g.loadThis(), field), typ: field.Type}
	}

	panic(report.ICE(report.UnresolvedIdentifier, "unresolved identifier `%s` in class `%s`", name, g.class.Name))
}

// resolveMember generates a read of `obj.member`.
func (g *Generator) resolveMember(obj ast.ASTExpr, member string) *operand {
	objOp, lv := g.memberAddr(obj, member)
	if lv != nil {
		return g.load(lv)
	}

	if _, ok := objOp.typ.(*typing.ArrayType); ok && member == "length" {
		return &operand{val: g.arrayLength(objOp.val), typ: typing.PrimInt32}
	}

	// Only receivers whose class is unknown end up here.  The placeholder of
	// a class name is not a pointer.
	if _, ok := objOp.val.Type().(*types.PointerType); !ok {
		return &operand{val: nullPtr, typ: typing.NullType()}
	}

	return &operand{val: g.asBytePtr(objOp.val), typ: typing.NullType()}
}

// memberAddr returns the storage location of the field `obj.member`.  If there
// is no such field, the lvalue is nil and the evaluated object is returned
// instead.  The object is not evaluated for static accesses.
func (g *Generator) memberAddr(obj ast.ASTExpr, member string) (*operand, *lvalue) {
	if ident, ok := obj.(*ast.Identifier); ok && g.reg.ClassExists(ident.Name) {
		if field, _, ok := g.reg.LookupStaticField(ident.Name, member); ok {
			return nil, &lvalue{ptr: g.statics[field], typ: field.Type}
		}
	}

	objOp := g.genExpr(obj)

	ot, ok := objOp.typ.(*typing.ObjectType)
	if !ok {
		return objOp, nil
	}

	if field, _, ok := g.reg.LookupInstanceField(ot.Name, member); ok {
		return objOp, &lvalue{ptr: g.fieldAddr(objOp.val, field), typ: field.Type}
	}

	return objOp, nil
}

// -----------------------------------------------------------------------------

// fieldAddr computes the address of an instance field of the object pointed to
// by receiver.  All field addressing goes through here.
func (g *Generator) fieldAddr(receiver value.Value, field *depm.FieldInfo) value.Value {
	raw := g.block.NewGetElementPtr(types.I8, g.asBytePtr(receiver), constant.NewInt(types.I64, int64(field.Offset)))
	return g.block.NewBitCast(raw, types.NewPointer(g.convType(field.Type)))
}

// arrayLength loads the element count from the header preceding an array.
func (g *Generator) arrayLength(arr value.Value) value.Value {
	header := g.block.NewGetElementPtr(types.I8, g.asBytePtr(arr), constant.NewInt(types.I64, -arrayHeaderSize))
	return g.block.NewLoad(types.I32, g.block.NewBitCast(header, types.NewPointer(types.I32)))
}

// loadThis loads the receiver of the enclosing function.
func (g *Generator) loadThis() value.Value {
	if g.thisSlot == nil {
		panic(report.ICE(report.UnresolvedIdentifier, "`this` used in a static member of class `%s`", g.class.Name))
	}

	return g.block.NewLoad(types.I8Ptr, g.thisSlot)
}
