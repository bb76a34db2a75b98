package depm

import (
	"cayc/typing"
	"fmt"
	"io"

	"github.com/kr/pretty"
)

// The dump view types strip the AST references out of the descriptors so that
// only the registry's own data is printed.

type fieldView struct {
	Name, Type string
	Static     bool
	Offset     int
	GlobalName string
	ConstExpr  bool
	Final      bool
}

type methodView struct {
	Name      string
	Signature string
	Static    bool
	Native    bool
	Override  bool
	Final     bool
}

type classView struct {
	Name         string
	Parent       string
	Interfaces   []string
	Size, Align  int
	Fields       []fieldView
	Methods      []methodView
	Constructors []string
	Destructor   bool
	MainMarked   bool
}

// Dump writes a readable rendition of every class in the registry to w.
func (r *TypeRegistry) Dump(w io.Writer) {
	for _, ci := range r.Classes() {
		fmt.Fprintf(w, "%# v\n", pretty.Formatter(viewClass(ci)))
	}
}

func viewClass(ci *ClassInfo) classView {
	cv := classView{
		Name:       ci.Name,
		Parent:     ci.Parent,
		Interfaces: ci.Interfaces,
		Size:       ci.Size,
		Align:      ci.Align,
		Destructor: ci.HasDestructor,
		MainMarked: ci.IsMainMarked,
	}

	for _, name := range ci.FieldOrder {
		field := ci.Fields[name]
		cv.Fields = append(cv.Fields, fieldView{
			Name:       field.Name,
			Type:       field.Type.Repr(),
			Static:     field.IsStatic,
			Offset:     field.Offset,
			GlobalName: field.GlobalName,
			ConstExpr:  field.IsConstExpr,
			Final:      field.IsFinal,
		})
	}

	for _, mi := range ci.MethodOrder {
		cv.Methods = append(cv.Methods, methodView{
			Name:      mi.Name,
			Signature: signatureRepr(mi.Params) + " " + mi.ReturnType.Repr(),
			Static:    mi.IsStatic,
			Native:    mi.IsNative,
			Override:  mi.IsOverride,
			Final:     mi.IsFinal,
		})
	}

	for _, ctor := range ci.Constructors {
		cv.Constructors = append(cv.Constructors, signatureRepr(ctor.Params))
	}

	return cv
}

// signatureRepr returns the parenthesized parameter list of a method.
func signatureRepr(params []*ParamInfo) string {
	s := "("
	for i, param := range params {
		if i > 0 {
			s += ", "
		}

		if param.IsVarargs {
			s += param.Type.(*typing.ArrayType).ElemType.Repr() + "..."
		} else {
			s += param.Type.Repr()
		}
	}

	return s + ")"
}
