package depm

import (
	"cayc/report"
	"cayc/typing"
	"cayc/util"
)

// Validate runs the inheritance checks over every class in the registry.  The
// passes run in order and each pass covers every class before the next pass
// begins: later passes assume that every parent link was checked by the
// earlier ones.  The first error found is returned.
func (r *TypeRegistry) Validate() error {
	passes := []func(*ClassInfo) error{
		r.checkParentExists,
		r.checkParentNotFinal,
		r.checkNoCycle,
		r.checkOverrides,
		r.checkFinalMethods,
	}

	for _, pass := range passes {
		for _, ci := range r.Classes() {
			if err := pass(ci); err != nil {
				return err
			}
		}
	}

	return nil
}

func (r *TypeRegistry) checkParentExists(ci *ClassInfo) error {
	if ci.Parent != "" && !r.ClassExists(ci.Parent) {
		return report.Raise(
			report.UndefinedParent,
			ci.Span,
			"class `%s` extends undefined class `%s`",
			ci.Name,
			ci.Parent,
		)
	}

	return nil
}

func (r *TypeRegistry) checkParentNotFinal(ci *ClassInfo) error {
	if parent, ok := r.classes[ci.Parent]; ok && parent.IsFinal {
		return report.Raise(
			report.InheritFromFinal,
			ci.Span,
			"class `%s` cannot extend final class `%s`",
			ci.Name,
			ci.Parent,
		)
	}

	return nil
}

// checkNoCycle walks the parent links starting from ci.  Every class is used
// as an origin so that cycles which are not reachable from the first class are
// still found.
func (r *TypeRegistry) checkNoCycle(ci *ClassInfo) error {
	var visited []string

	for name := ci.Name; name != ""; {
		if util.Contains(visited, name) {
			return report.Raise(
				report.CircularInheritance,
				ci.Span,
				"circular inheritance detected involving class `%s`",
				ci.Name,
			)
		}

		visited = append(visited, name)

		next, ok := r.classes[name]
		if !ok {
			break
		}

		name = next.Parent
	}

	return nil
}

// checkOverrides verifies that every method marked `@Override` overrides a
// method of the same signature somewhere in the class's ancestry.
func (r *TypeRegistry) checkOverrides(ci *ClassInfo) error {
	for _, mi := range ci.MethodOrder {
		if !mi.IsOverride {
			continue
		}

		if ci.Parent == "" {
			return report.Raise(
				report.OverrideWithoutParent,
				mi.Span,
				"method `%s` of class `%s` is marked override but the class has no parent",
				mi.Name,
				ci.Name,
			)
		}

		if r.findOverridden(ci.Parent, mi) == nil {
			return report.Raise(
				report.InvalidOverride,
				mi.Span,
				"method `%s` of class `%s` does not override any method of its ancestors",
				mi.Name,
				ci.Name,
			)
		}
	}

	return nil
}

// checkFinalMethods verifies that no method of ci redeclares a final method of
// one of its ancestors.  This applies whether or not the method is marked
// `@Override`.
func (r *TypeRegistry) checkFinalMethods(ci *ClassInfo) error {
	if ci.Parent == "" {
		return nil
	}

	for _, mi := range ci.MethodOrder {
		for _, ancestor := range r.Ancestors(ci.Parent) {
			for _, other := range ancestor.Methods[mi.Name] {
				if other.IsFinal && equalParams(other.Params, mi.Params) {
					return report.Raise(
						report.OverrideOfFinalMethod,
						mi.Span,
						"method `%s` of class `%s` overrides final method of class `%s`",
						mi.Name,
						ci.Name,
						ancestor.Name,
					)
				}
			}
		}
	}

	return nil
}

// findOverridden searches the named class and its ancestors for a method with
// the same name, parameter types, and return type as mi.
func (r *TypeRegistry) findOverridden(class string, mi *MethodInfo) *MethodInfo {
	for _, ancestor := range r.Ancestors(class) {
		for _, other := range ancestor.Methods[mi.Name] {
			if equalParams(other.Params, mi.Params) && typing.Equals(other.ReturnType, mi.ReturnType) {
				return other
			}
		}
	}

	return nil
}

// equalParams returns whether two parameter lists have exactly the same
// types.  No promotion is applied.
func equalParams(a, b []*ParamInfo) bool {
	return typing.EqualsAll(paramTypes(a), paramTypes(b))
}
