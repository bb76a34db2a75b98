package depm

import (
	"cayc/ast"
	"cayc/report"
	"cayc/typing"
	"cayc/util"
)

// Visibility is the access level of a class member.
type Visibility int

// Enumeration of visibilities.
const (
	VisDefault Visibility = iota
	VisPublic
	VisPrivate
	VisProtected
)

// FieldInfo describes a declared field.
type FieldInfo struct {
	Name       string
	Type       typing.DataType
	Visibility Visibility

	IsStatic bool
	IsFinal  bool

	// IsConstExpr indicates that the field is static final and initialized
	// with a literal.
	IsConstExpr bool

	// Offset is the byte offset of an instance field from the start of the
	// object.  It is set by layout.
	Offset int

	// GlobalName is the name of the global storage of a static field.  It is
	// set by layout.
	GlobalName string

	// Init is the initializer of the field.  This may be nil.
	Init ast.ASTExpr

	Span *report.TextSpan
}

// ParamInfo describes a method or constructor parameter.
type ParamInfo struct {
	Name      string
	Type      typing.DataType
	IsVarargs bool
}

// MethodInfo describes a declared method.
type MethodInfo struct {
	Name string

	// Owner is the name of the declaring class or interface.
	Owner string

	Params     []*ParamInfo
	ReturnType typing.DataType
	Visibility Visibility

	IsStatic   bool
	IsNative   bool
	IsOverride bool
	IsFinal    bool

	// Index is the position of the method in its overload set.
	Index int

	// Decl is the method's declaration.  It is nil for interface methods
	// created outside of the parser.
	Decl *ast.MethodDecl

	Span *report.TextSpan
}

// ParamTypes returns the parameter types of the method in order.
func (mi *MethodInfo) ParamTypes() []typing.DataType {
	return paramTypes(mi.Params)
}

// IsVariadic returns whether the method's last parameter is a varargs
// parameter.
func (mi *MethodInfo) IsVariadic() bool {
	return len(mi.Params) > 0 && mi.Params[len(mi.Params)-1].IsVarargs
}

// ConstructorInfo describes a declared constructor.
type ConstructorInfo struct {
	Params     []*ParamInfo
	Visibility Visibility
	Decl       *ast.ConstructorDecl
	Span       *report.TextSpan
}

// ParamTypes returns the parameter types of the constructor in order.
func (ci *ConstructorInfo) ParamTypes() []typing.DataType {
	return paramTypes(ci.Params)
}

// IsVariadic returns whether the constructor's last parameter is a varargs
// parameter.
func (ci *ConstructorInfo) IsVariadic() bool {
	return len(ci.Params) > 0 && ci.Params[len(ci.Params)-1].IsVarargs
}

func paramTypes(params []*ParamInfo) []typing.DataType {
	return util.Map(params, func(param *ParamInfo) typing.DataType { return param.Type })
}

// ClassInfo describes a declared class.
type ClassInfo struct {
	Name string

	// Parent is the name of the parent class or empty if there is none.
	Parent string

	Interfaces []string

	Fields     map[string]*FieldInfo
	FieldOrder []string

	// Methods maps each method name to its overload set.  MethodOrder lists
	// every method in declaration order.
	Methods     map[string][]*MethodInfo
	MethodOrder []*MethodInfo

	Constructors  []*ConstructorInfo
	HasDestructor bool

	IsAbstract   bool
	IsFinal      bool
	IsMainMarked bool

	// Size and Align are the total size and alignment of an instance of the
	// class.  They are set by layout.
	Size, Align int

	Decl *ast.ClassDecl
	Span *report.TextSpan
}

// NewClassInfo creates an empty class descriptor.
func NewClassInfo(name, parent string) *ClassInfo {
	return &ClassInfo{
		Name:    name,
		Parent:  parent,
		Fields:  make(map[string]*FieldInfo),
		Methods: make(map[string][]*MethodInfo),
	}
}

// AddField adds a field to the class.  It fails if the class already has a
// field with the same name.
func (ci *ClassInfo) AddField(fi *FieldInfo) error {
	if _, ok := ci.Fields[fi.Name]; ok {
		return report.Raise(
			report.DuplicateDefinition,
			fi.Span,
			"class `%s` has multiple fields named `%s`",
			ci.Name,
			fi.Name,
		)
	}

	ci.Fields[fi.Name] = fi
	ci.FieldOrder = append(ci.FieldOrder, fi.Name)
	return nil
}

// AddMethod adds a method to its overload set.  It fails if the overload set
// already has a method with the same parameter types.
func (ci *ClassInfo) AddMethod(mi *MethodInfo) error {
	for _, other := range ci.Methods[mi.Name] {
		if typing.EqualsAll(other.ParamTypes(), mi.ParamTypes()) {
			return report.Raise(
				report.DuplicateDefinition,
				mi.Span,
				"class `%s` has multiple methods named `%s` with the same parameters",
				ci.Name,
				mi.Name,
			)
		}
	}

	mi.Owner = ci.Name
	mi.Index = len(ci.Methods[mi.Name])
	ci.Methods[mi.Name] = append(ci.Methods[mi.Name], mi)
	ci.MethodOrder = append(ci.MethodOrder, mi)
	return nil
}

// InstanceFields returns the class's own instance fields in declaration
// order.
func (ci *ClassInfo) InstanceFields() []*FieldInfo {
	var fields []*FieldInfo
	for _, name := range ci.FieldOrder {
		if field := ci.Fields[name]; !field.IsStatic {
			fields = append(fields, field)
		}
	}

	return fields
}

// StaticFields returns the class's own static fields in declaration order.
func (ci *ClassInfo) StaticFields() []*FieldInfo {
	fields := util.Map(ci.FieldOrder, func(name string) *FieldInfo { return ci.Fields[name] })
	return util.Filter(fields, func(field *FieldInfo) bool { return field.IsStatic })
}

// InterfaceInfo describes a declared interface.
type InterfaceInfo struct {
	Name    string
	Methods map[string][]*MethodInfo
	Span    *report.TextSpan
}

// -----------------------------------------------------------------------------

// TypeRegistry is the table of all classes and interfaces declared in the
// compilation unit.  Classes and interfaces share one namespace.  The registry
// is written during population and layout and is read-only afterward.
type TypeRegistry struct {
	classes    map[string]*ClassInfo
	interfaces map[string]*InterfaceInfo

	// classOrder and interfaceOrder record declaration order so that every
	// pass over the registry is deterministic.
	classOrder     []string
	interfaceOrder []string

	finalized bool
}

// NewTypeRegistry creates a new, empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		classes:    make(map[string]*ClassInfo),
		interfaces: make(map[string]*InterfaceInfo),
	}
}

// RegisterInterface adds an interface to the registry.
func (r *TypeRegistry) RegisterInterface(info *InterfaceInfo) error {
	if err := r.checkUnique(info.Name, info.Span); err != nil {
		return err
	}

	r.interfaces[info.Name] = info
	r.interfaceOrder = append(r.interfaceOrder, info.Name)
	return nil
}

// RegisterClass adds a class to the registry.
func (r *TypeRegistry) RegisterClass(info *ClassInfo) error {
	if err := r.checkUnique(info.Name, info.Span); err != nil {
		return err
	}

	r.classes[info.Name] = info
	r.classOrder = append(r.classOrder, info.Name)
	return nil
}

func (r *TypeRegistry) checkUnique(name string, span *report.TextSpan) error {
	_, isClass := r.classes[name]
	_, isInterface := r.interfaces[name]

	if isClass || isInterface {
		return report.Raise(report.DuplicateDefinition, span, "multiple types named `%s`", name)
	}

	return nil
}

// ClassExists returns whether a class with the given name is registered.
func (r *TypeRegistry) ClassExists(name string) bool {
	_, ok := r.classes[name]
	return ok
}

// GetClass looks up a class by name.
func (r *TypeRegistry) GetClass(name string) (*ClassInfo, bool) {
	ci, ok := r.classes[name]
	return ci, ok
}

// GetInterface looks up an interface by name.
func (r *TypeRegistry) GetInterface(name string) (*InterfaceInfo, bool) {
	ii, ok := r.interfaces[name]
	return ii, ok
}

// Classes returns all classes in declaration order.
func (r *TypeRegistry) Classes() []*ClassInfo {
	classes := make([]*ClassInfo, len(r.classOrder))
	for i, name := range r.classOrder {
		classes[i] = r.classes[name]
	}

	return classes
}

// Interfaces returns all interfaces in declaration order.
func (r *TypeRegistry) Interfaces() []*InterfaceInfo {
	interfaces := make([]*InterfaceInfo, len(r.interfaceOrder))
	for i, name := range r.interfaceOrder {
		interfaces[i] = r.interfaces[name]
	}

	return interfaces
}

// Finalized returns whether the layout of the registry has been computed.
func (r *TypeRegistry) Finalized() bool {
	return r.finalized
}
