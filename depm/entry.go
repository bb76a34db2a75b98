package depm

import (
	"cayc/report"
	"strings"
)

// EntryMethodName is the name of the method a program begins executing from.
const EntryMethodName = "main"

// ResolveEntry determines the entry class of the program.  Every class with a
// public static `main` method is a candidate.  An empty name with a nil error
// means there are no candidates and the unit is compiled as a library.  When
// there are several candidates, exactly one of them must be marked `@main`.
func (r *TypeRegistry) ResolveEntry() (string, error) {
	var candidates, marked []string
	for _, ci := range r.Classes() {
		if !hasEntryMethod(ci) {
			continue
		}

		candidates = append(candidates, ci.Name)
		if ci.IsMainMarked {
			marked = append(marked, ci.Name)
		}
	}

	switch {
	case len(candidates) == 0:
		return "", nil
	case len(candidates) == 1:
		return candidates[0], nil
	case len(marked) == 1:
		return marked[0], nil
	case len(marked) == 0:
		return "", report.Raise(
			report.AmbiguousMain,
			nil,
			"multiple classes declare a main method: %s",
			strings.Join(candidates, ", "),
		)
	default:
		return "", report.Raise(
			report.MultipleMainMarkers,
			nil,
			"multiple classes are marked as the entry point: %s",
			strings.Join(marked, ", "),
		)
	}
}

func hasEntryMethod(ci *ClassInfo) bool {
	for _, mi := range ci.Methods[EntryMethodName] {
		if mi.IsStatic && mi.Visibility == VisPublic {
			return true
		}
	}

	return false
}
