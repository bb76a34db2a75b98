package depm

import (
	"cayc/report"
	"cayc/typing"
	"cayc/util"
)

// FinalizeLayout computes the memory layout of every class.  Each class's
// instance fields are placed in declaration order after the full layout of its
// parent so that an instance of a subclass can be read through the offsets of
// any of its ancestors.  Static fields receive their global names and take no
// space in the instance.
//
// This should be run after validation.  If the inheritance graph still has a
// cycle, a CircularInheritance error is returned.
func (r *TypeRegistry) FinalizeLayout() error {
	done := make(map[string]bool)

	for _, ci := range r.Classes() {
		if err := r.layoutClass(ci, done, nil); err != nil {
			return err
		}
	}

	r.finalized = true
	return nil
}

// layoutClass lays out a class after first laying out its parent.  visiting
// holds the classes whose layout is in progress further up the recursion.
func (r *TypeRegistry) layoutClass(ci *ClassInfo, done map[string]bool, visiting []string) error {
	if done[ci.Name] {
		return nil
	} else if util.Contains(visiting, ci.Name) {
		return report.Raise(
			report.CircularInheritance,
			ci.Span,
			"circular inheritance detected involving class `%s`",
			ci.Name,
		)
	}

	offset, align := 0, 1
	if parent, ok := r.classes[ci.Parent]; ok {
		if err := r.layoutClass(parent, done, append(visiting, ci.Name)); err != nil {
			return err
		}

		offset, align = parent.Size, parent.Align
	}

	for _, name := range ci.FieldOrder {
		field := ci.Fields[name]

		if field.IsStatic {
			field.GlobalName = ci.Name + "." + field.Name
			continue
		}

		fieldAlign := typing.AlignOf(field.Type)
		offset = typing.AlignUp(offset, fieldAlign)
		field.Offset = offset
		offset += typing.SizeOf(field.Type)

		if fieldAlign > align {
			align = fieldAlign
		}
	}

	ci.Size = typing.AlignUp(offset, align)
	ci.Align = align
	done[ci.Name] = true
	return nil
}
