package depm

import (
	"cayc/typing"
	"cayc/util"
)

// Ancestors returns the named class followed by each of its ancestors, nearest
// first.  The walk stops at the first missing or repeated class so it always
// terminates, even on a registry that has not been validated.
func (r *TypeRegistry) Ancestors(name string) []*ClassInfo {
	var chain []*ClassInfo
	var visited []string

	for name != "" && !util.Contains(visited, name) {
		ci, ok := r.classes[name]
		if !ok {
			break
		}

		visited = append(visited, name)
		chain = append(chain, ci)
		name = ci.Parent
	}

	return chain
}

// IsSubclass returns whether class is ancestor or one of its descendants.
func (r *TypeRegistry) IsSubclass(class, ancestor string) bool {
	for _, ci := range r.Ancestors(class) {
		if ci.Name == ancestor {
			return true
		}
	}

	return false
}

// LookupInstanceField finds an instance field declared by the class or one of
// its ancestors.  It returns the field and the class declaring it.
func (r *TypeRegistry) LookupInstanceField(class, name string) (*FieldInfo, *ClassInfo, bool) {
	return r.lookupField(class, name, false)
}

// LookupStaticField finds a static field declared by the class or one of its
// ancestors.  It returns the field and the class declaring it.
func (r *TypeRegistry) LookupStaticField(class, name string) (*FieldInfo, *ClassInfo, bool) {
	return r.lookupField(class, name, true)
}

func (r *TypeRegistry) lookupField(class, name string, static bool) (*FieldInfo, *ClassInfo, bool) {
	for _, ci := range r.Ancestors(class) {
		if field, ok := ci.Fields[name]; ok {
			// A nearer field of the other storage class hides the ancestor's.
			if field.IsStatic != static {
				return nil, nil, false
			}

			return field, ci, true
		}
	}

	return nil, nil, false
}

// LookupMethods returns every method with the given name declared by the
// class or its ancestors.  The nearest declarations come first.
func (r *TypeRegistry) LookupMethods(class, name string) []*MethodInfo {
	var methods []*MethodInfo
	for _, ci := range r.Ancestors(class) {
		methods = append(methods, ci.Methods[name]...)
	}

	return methods
}

// Implements returns whether the class or one of its ancestors declares that
// it implements the named interface.
func (r *TypeRegistry) Implements(class, iface string) bool {
	for _, ci := range r.Ancestors(class) {
		if util.Contains(ci.Interfaces, iface) {
			return true
		}
	}

	return false
}

// Assignable returns whether a value of type from may be stored in a location
// of type to.  This extends typing.Compatible with the inheritance relation:
// an object may be assigned to any of its ancestors or to any interface that it
// implements.
func (r *TypeRegistry) Assignable(from, to typing.DataType) bool {
	if typing.Compatible(from, to) {
		return true
	}

	switch v := from.(type) {
	case *typing.ObjectType:
		if tot, ok := to.(*typing.ObjectType); ok {
			if _, isInterface := r.interfaces[tot.Name]; isInterface {
				return r.Implements(v.Name, tot.Name)
			}

			return r.IsSubclass(v.Name, tot.Name)
		}
	case *typing.ArrayType:
		if tat, ok := to.(*typing.ArrayType); ok {
			return r.Assignable(v.ElemType, tat.ElemType)
		}
	}

	return false
}
