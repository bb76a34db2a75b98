package depm

import (
	"cayc/ast"
	"cayc/report"
)

// Populate fills the registry with the declarations of a parsed file.
// Interfaces are registered before classes.  The first duplicate definition
// stops population.
func (r *TypeRegistry) Populate(file *ast.File) error {
	for _, id := range file.Interfaces {
		if err := r.RegisterInterface(collectInterface(id)); err != nil {
			return err
		}
	}

	for _, cd := range file.Classes {
		ci, err := collectClass(cd)
		if err != nil {
			return err
		}

		if err := r.RegisterClass(ci); err != nil {
			return err
		}
	}

	return nil
}

// collectInterface builds the descriptor of an interface.  Interface methods
// are always public instance methods and can never be final.
func collectInterface(id *ast.InterfaceDecl) *InterfaceInfo {
	ii := &InterfaceInfo{
		Name:    id.Name,
		Methods: make(map[string][]*MethodInfo),
		Span:    id.Span(),
	}

	for _, md := range id.Methods {
		mi := collectMethod(md)
		mi.Owner = id.Name
		mi.Visibility = VisPublic
		mi.IsStatic = false
		mi.IsFinal = false
		mi.Index = len(ii.Methods[md.Name])

		ii.Methods[md.Name] = append(ii.Methods[md.Name], mi)
	}

	return ii
}

// collectClass builds the descriptor of a class from its declaration.
func collectClass(cd *ast.ClassDecl) (*ClassInfo, error) {
	ci := NewClassInfo(cd.Name, cd.Parent)
	ci.Interfaces = cd.Interfaces
	ci.IsAbstract = cd.Modifiers.Has(ast.ModAbstract)
	ci.IsFinal = cd.Modifiers.Has(ast.ModFinal)
	ci.IsMainMarked = cd.Modifiers.Has(ast.ModMain)
	ci.Decl = cd
	ci.Span = cd.Span()

	for _, member := range cd.Members {
		switch v := member.(type) {
		case *ast.FieldDecl:
			if err := ci.AddField(collectField(v)); err != nil {
				return nil, err
			}
		case *ast.MethodDecl:
			mi := collectMethod(v)
			if err := ci.AddMethod(mi); err != nil {
				return nil, err
			}

			// `@main` may also be placed on the entry method itself.
			if v.Modifiers.Has(ast.ModMain) {
				ci.IsMainMarked = true
			}
		case *ast.ConstructorDecl:
			ctor := &ConstructorInfo{
				Params:     collectParams(v.Params),
				Visibility: visibilityOf(v.Modifiers),
				Decl:       v,
				Span:       v.Span(),
			}

			for _, other := range ci.Constructors {
				if equalParams(other.Params, ctor.Params) {
					return nil, report.Raise(
						report.DuplicateDefinition,
						v.Span(),
						"class `%s` has multiple constructors with the same parameters",
						cd.Name,
					)
				}
			}

			ci.Constructors = append(ci.Constructors, ctor)
		case *ast.DestructorDecl:
			if ci.HasDestructor {
				return nil, report.Raise(
					report.DuplicateDefinition,
					v.Span(),
					"class `%s` has multiple destructors",
					cd.Name,
				)
			}

			ci.HasDestructor = true
		}
	}

	return ci, nil
}

func collectField(fd *ast.FieldDecl) *FieldInfo {
	fi := &FieldInfo{
		Name:       fd.Name,
		Type:       fd.Type,
		Visibility: visibilityOf(fd.Modifiers),
		IsStatic:   fd.Modifiers.Has(ast.ModStatic),
		IsFinal:    fd.Modifiers.Has(ast.ModFinal),
		Init:       fd.Init,
		Span:       fd.Span(),
	}

	// Only a literal initializer makes a constant: any other expression is
	// evaluated at class initialization even if it could be folded.
	if _, ok := fd.Init.(*ast.Literal); ok && fi.IsStatic && fi.IsFinal {
		fi.IsConstExpr = true
	}

	return fi
}

func collectMethod(md *ast.MethodDecl) *MethodInfo {
	return &MethodInfo{
		Name:       md.Name,
		Params:     collectParams(md.Params),
		ReturnType: md.ReturnType,
		Visibility: visibilityOf(md.Modifiers),
		IsStatic:   md.Modifiers.Has(ast.ModStatic),
		IsNative:   md.Modifiers.Has(ast.ModNative),
		IsOverride: md.Modifiers.Has(ast.ModOverride),
		IsFinal:    md.Modifiers.Has(ast.ModFinal),
		Decl:       md,
		Span:       md.Span(),
	}
}

func collectParams(params []*ast.Param) []*ParamInfo {
	infos := make([]*ParamInfo, len(params))
	for i, param := range params {
		infos[i] = &ParamInfo{
			Name:      param.Name,
			Type:      param.Type,
			IsVarargs: param.IsVarargs,
		}
	}

	return infos
}

func visibilityOf(mods ast.Modifiers) Visibility {
	switch {
	case mods.Has(ast.ModPublic):
		return VisPublic
	case mods.Has(ast.ModPrivate):
		return VisPrivate
	case mods.Has(ast.ModProtected):
		return VisProtected
	default:
		return VisDefault
	}
}
