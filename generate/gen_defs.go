package generate

import (
	"cayc/ast"
	"cayc/depm"
	"cayc/report"
	"cayc/typing"
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// methodSymbol returns the symbol of a method.  Overloaded methods are
// suffixed with their index in the overload set.
func methodSymbol(ci *depm.ClassInfo, mi *depm.MethodInfo) string {
	if len(ci.Methods[mi.Name]) > 1 {
		return fmt.Sprintf("%s.%s$%d", ci.Name, mi.Name, mi.Index)
	}

	return ci.Name + "." + mi.Name
}

// ctorSymbol returns the symbol of the constructor at index i.
func ctorSymbol(ci *depm.ClassInfo, i int) string {
	if len(ci.Constructors) > 1 {
		return fmt.Sprintf("%s.__ctor$%d", ci.Name, i)
	}

	return ci.Name + ".__ctor"
}

// needsClinit returns whether a class has any static initialization to run.
func needsClinit(ci *depm.ClassInfo) bool {
	for _, member := range ci.Decl.Members {
		switch v := member.(type) {
		case *ast.FieldDecl:
			if field := ci.Fields[v.Name]; field.IsStatic && field.Init != nil && !field.IsConstExpr {
				return true
			}
		case *ast.InitializerBlock:
			if v.IsStatic {
				return true
			}
		}
	}

	return false
}

// -----------------------------------------------------------------------------

// declareClass declares the static globals and all the functions of a class.
func (g *Generator) declareClass(ci *depm.ClassInfo) {
	for _, field := range ci.StaticFields() {
		var glob *ir.Global
		if field.IsConstExpr {
			glob = g.mod.NewGlobalDef(field.GlobalName, g.constLiteral(field.Init.(*ast.Literal), field.Type))
			glob.Immutable = true
		} else {
			glob = g.mod.NewGlobalDef(field.GlobalName, g.zeroValue(field.Type))
		}

		g.statics[field] = glob
	}

	for _, mi := range ci.MethodOrder {
		var params []*ir.Param
		if !mi.IsStatic {
			params = append(params, ir.NewParam("this", types.I8Ptr))
		}

		for _, param := range mi.Params {
			params = append(params, ir.NewParam(param.Name, g.convType(param.Type)))
		}

		if mi.IsNative {
			// Native methods link against an external symbol of the same name.
			fn, ok := g.natives[mi.Name]
			if !ok {
				fn = g.mod.NewFunc(mi.Name, g.convType(mi.ReturnType), params...)
				fn.Linkage = enum.LinkageExternal
				g.natives[mi.Name] = fn
			}

			g.methods[mi] = fn
			continue
		}

		g.methods[mi] = g.mod.NewFunc(methodSymbol(ci, mi), g.convType(mi.ReturnType), params...)
	}

	for i, ctor := range ci.Constructors {
		params := []*ir.Param{ir.NewParam("this", types.I8Ptr)}
		for _, param := range ctor.Params {
			params = append(params, ir.NewParam(param.Name, g.convType(param.Type)))
		}

		g.ctors[ctor] = g.mod.NewFunc(ctorSymbol(ci, i), types.Void, params...)
	}

	cf := &classFuncs{
		fields: g.mod.NewFunc(ci.Name+".__fields", types.Void, ir.NewParam("this", types.I8Ptr)),
	}

	if len(ci.Constructors) == 0 {
		cf.init = g.mod.NewFunc(ci.Name+".__init", types.Void, ir.NewParam("this", types.I8Ptr))
	}

	if ci.HasDestructor {
		cf.dtor = g.mod.NewFunc(ci.Name+".__dtor", types.Void, ir.NewParam("this", types.I8Ptr))
	}

	if needsClinit(ci) {
		cf.clinit = g.mod.NewFunc(ci.Name+".__clinit", types.Void)
	}

	g.lifecycle[ci.Name] = cf
}

// genClass generates the bodies of all the functions of a class.
func (g *Generator) genClass(ci *depm.ClassInfo) {
	cf := g.lifecycle[ci.Name]

	for _, member := range ci.Decl.Members {
		switch v := member.(type) {
		case *ast.MethodDecl:
			if v.Body == nil {
				continue
			}

			for _, mi := range ci.Methods[v.Name] {
				if mi.Decl == v {
					g.genMethod(ci, mi)
				}
			}
		case *ast.ConstructorDecl:
			for i, ctor := range ci.Constructors {
				if ctor.Decl == v {
					g.genConstructor(ci, i)
				}
			}
		case *ast.DestructorDecl:
			g.beginFunc(ci, cf.dtor, true, nil, typing.PrimVoid)
			g.genBlock(v.Body)
			g.endFunc()
		}
	}

	g.genFieldsFunc(ci, cf.fields)

	if cf.init != nil {
		g.beginFunc(ci, cf.init, true, nil, typing.PrimVoid)
		this := g.loadThis()
		g.genParentInit(ci, this)
		g.block.NewCall(cf.fields, this)
		g.endFunc()
	}

	if cf.clinit != nil {
		g.genClinit(ci, cf.clinit)
	}
}

// genMethod generates the body of a method.
func (g *Generator) genMethod(ci *depm.ClassInfo, mi *depm.MethodInfo) {
	fn := g.methods[mi]
	fn.FuncAttrs = append(fn.FuncAttrs, enum.FuncAttrNoUnwind)

	g.beginFunc(ci, fn, !mi.IsStatic, mi.Params, mi.ReturnType)
	g.genBlock(mi.Decl.Body)
	g.endFunc()
}

// genConstructor generates a constructor.  A constructor first runs its chained
// constructor or the default initialization of its parent.  Unless it chains to
// another constructor of its own class, it then initializes the class's fields
// before running its body.
func (g *Generator) genConstructor(ci *depm.ClassInfo, i int) {
	ctor := ci.Constructors[i]
	fn := g.ctors[ctor]
	fn.FuncAttrs = append(fn.FuncAttrs, enum.FuncAttrNoUnwind)

	g.beginFunc(ci, fn, true, ctor.Params, typing.PrimVoid)
	this := g.loadThis()

	initFields := true
	if chain := ctor.Decl.Chain; chain != nil {
		target := ci
		if chain.IsSuper {
			target, _ = g.reg.GetClass(ci.Parent)
		} else {
			initFields = false
		}

		g.callConstructor(target, chain.CtorIndex, chain.Args, this)
	} else {
		g.genParentInit(ci, this)
	}

	if initFields {
		g.block.NewCall(g.lifecycle[ci.Name].fields, this)
	}

	g.genBlock(ctor.Decl.Body)
	g.endFunc()
}

// genParentInit generates the default initialization of the parent part of an
// object of class ci.
func (g *Generator) genParentInit(ci *depm.ClassInfo, this value.Value) {
	parent, ok := g.reg.GetClass(ci.Parent)
	if !ok {
		return
	}

	index, ok := g.reg.DefaultConstructor(parent)
	if !ok {
		panic(report.ICE(report.CodegenFailure, "class `%s` cannot be initialized without arguments", parent.Name))
	}

	g.callConstructor(parent, index, nil, this)
}

// callConstructor calls the constructor of ci at index on an allocated object.
// An index of -1 runs the default initialization of a class without
// constructors.
func (g *Generator) callConstructor(ci *depm.ClassInfo, index int, args []ast.ASTExpr, this value.Value) {
	if index < 0 {
		g.block.NewCall(g.lifecycle[ci.Name].init, this)
		return
	}

	ctor := ci.Constructors[index]
	llArgs := append([]value.Value{this}, g.genArgs(ctor.Params, args)...)
	g.block.NewCall(g.ctors[ctor], llArgs...)
}

// genFieldsFunc generates the function which runs the instance field
// initializers and instance initializer blocks of a class in declaration
// order.
func (g *Generator) genFieldsFunc(ci *depm.ClassInfo, fn *ir.Func) {
	g.beginFunc(ci, fn, true, nil, typing.PrimVoid)

	for _, member := range ci.Decl.Members {
		switch v := member.(type) {
		case *ast.FieldDecl:
			field := ci.Fields[v.Name]
			if field.IsStatic || field.Init == nil {
				continue
			}

			init := g.genExpr(field.Init)
			g.block.NewStore(g.convert(init.val, init.typ, field.Type), g.fieldAddr(g.loadThis(), field))
		case *ast.InitializerBlock:
			if !v.IsStatic {
				g.genBlock(v.Body)
			}
		}
	}

	g.endFunc()
}

// genClinit generates the static initialization function of a class.
// Constant fields are initialized statically and are skipped.
func (g *Generator) genClinit(ci *depm.ClassInfo, fn *ir.Func) {
	g.beginFunc(ci, fn, false, nil, typing.PrimVoid)

	for _, member := range ci.Decl.Members {
		switch v := member.(type) {
		case *ast.FieldDecl:
			field := ci.Fields[v.Name]
			if !field.IsStatic || field.Init == nil || field.IsConstExpr {
				continue
			}

			init := g.genExpr(field.Init)
			g.block.NewStore(g.convert(init.val, init.typ, field.Type), g.statics[field])
		case *ast.InitializerBlock:
			if v.IsStatic {
				g.genBlock(v.Body)
			}
		}
	}

	g.endFunc()
}

// genEntryWrapper generates the C `main` function.  It runs the static
// initialization of every class in declaration order and then calls the entry
// method.  The exit code is the entry method's result if it returns an integer
// and 0 otherwise.
func (g *Generator) genEntryWrapper(entry string) {
	ci, ok := g.reg.GetClass(entry)
	if !ok {
		panic(report.ICE(report.CodegenFailure, "undefined entry class `%s`", entry))
	}

	var entryMethod *depm.MethodInfo
	for _, mi := range ci.Methods[depm.EntryMethodName] {
		if mi.IsStatic && mi.Visibility == depm.VisPublic {
			entryMethod = mi
			break
		}
	}

	if entryMethod == nil {
		panic(report.ICE(report.CodegenFailure, "entry class `%s` has no entry method", entry))
	}

	fn := g.mod.NewFunc("main", types.I32)
	block := fn.NewBlock("entry")

	for _, other := range g.reg.Classes() {
		if clinit := g.lifecycle[other.Name].clinit; clinit != nil {
			block.NewCall(clinit)
		}
	}

	var args []value.Value
	for _, param := range entryMethod.Params {
		args = append(args, g.zeroValue(param.Type))
	}

	result := block.NewCall(g.methods[entryMethod], args...)

	switch {
	case typing.Equals(entryMethod.ReturnType, typing.PrimInt32):
		block.NewRet(result)
	case typing.Equals(entryMethod.ReturnType, typing.PrimInt64):
		block.NewRet(block.NewTrunc(result, types.I32))
	default:
		block.NewRet(constant.NewInt(types.I32, 0))
	}
}
