package depm

import (
	"bytes"
	"cayc/report"
	"cayc/syntax"
	"cayc/typing"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

// populate parses src and loads it into a new registry.
func populate(t *testing.T, src string) (*TypeRegistry, error) {
	t.Helper()

	file, err := syntax.ParseString(src)
	be.Err(t, err, nil)

	r := NewTypeRegistry()
	return r, r.Populate(file)
}

// validate parses src, populates a registry, and validates it.
func validate(t *testing.T, src string) (*TypeRegistry, error) {
	t.Helper()

	r, err := populate(t, src)
	be.Err(t, err, nil)
	return r, r.Validate()
}

func wantKind(t *testing.T, err error, kind report.ErrorKind) {
	t.Helper()

	got, ok := report.KindOf(err)
	be.True(t, ok)
	be.Equal(t, got, kind)
}

func TestDuplicateDefinition(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"two classes", "class A { } class A { }"},
		{"class and interface", "interface A { } class A { }"},
		{"two fields", "class A { int x; long x; }"},
		{"same overload", "class A { void f(int a) { } void f(int b) { } }"},
		{"two destructors", "class A { ~A() { } ~A() { } }"},
		{"same constructor", "class A { A() { } A() { } }"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := populate(t, test.src)
			wantKind(t, err, report.DuplicateDefinition)
		})
	}
}

func TestPopulateFlags(t *testing.T) {
	r, err := populate(t, `
		interface Shape { static final double area(); }
		@main
		abstract class Base implements Shape {
			public static final int LIMIT = 4;
			static final int COMPUTED = 2 + 2;
			protected final long id;
			native void poke();
			@Override public double area() { return 0.0; }
			void area(int scale) { }
		}
	`)
	be.Err(t, err, nil)

	shape, ok := r.GetInterface("Shape")
	be.True(t, ok)
	area := shape.Methods["area"][0]
	be.Equal(t, area.Visibility, VisPublic)
	be.True(t, !area.IsStatic && !area.IsFinal)

	base, ok := r.GetClass("Base")
	be.True(t, ok)
	be.True(t, base.IsAbstract && base.IsMainMarked)
	be.Equal(t, base.Interfaces, []string{"Shape"})

	be.True(t, base.Fields["LIMIT"].IsConstExpr)
	be.True(t, !base.Fields["COMPUTED"].IsConstExpr)
	be.Equal(t, base.Fields["id"].Visibility, VisProtected)
	be.True(t, base.Fields["id"].IsFinal)

	be.True(t, base.Methods["poke"][0].IsNative)
	be.Equal(t, len(base.Methods["area"]), 2)
	be.Equal(t, base.Methods["area"][1].Index, 1)
	be.Equal(t, base.Methods["area"][0].Owner, "Base")

	be.True(t, r.ClassExists("Base"))
	be.True(t, !r.ClassExists("Shape"))

	_, ok = r.GetClass("Missing")
	be.True(t, !ok)
}

func TestCircularInheritance(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"forward order", "class A extends B { } class B extends A { }"},
		{"reverse order", "class B extends A { } class A extends B { }"},
		{"self", "class A extends A { }"},
		{"unreachable from first", "class X { } class Y extends X { } class A : C { } class B : A { } class C : B { }"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := validate(t, test.src)
			wantKind(t, err, report.CircularInheritance)
			be.Equal(t, err.(*report.CompileError).Line(), 1)
		})
	}
}

func TestParentChecks(t *testing.T) {
	_, err := validate(t, "class A { }\nclass B extends Missing { }")
	wantKind(t, err, report.UndefinedParent)
	be.Equal(t, err.(*report.CompileError).Line(), 2)

	_, err = validate(t, "final class A { }\nclass B extends A { }")
	wantKind(t, err, report.InheritFromFinal)
	be.Equal(t, err.(*report.CompileError).Line(), 2)

	_, err = validate(t, "interface I { }\nclass B extends I { }")
	wantKind(t, err, report.UndefinedParent)
}

func TestOverrideLegality(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind report.ErrorKind
		ok   bool
	}{
		{
			"valid override through grandparent",
			`class A { int f(int x) { return x; } }
			 class B extends A { }
			 class C extends B { @Override int f(int y) { return y; } }`,
			0, true,
		},
		{
			"override without parent",
			`class A { @Override int f() { return 0; } }`,
			report.OverrideWithoutParent, false,
		},
		{
			"different return type",
			`class A { int f() { return 0; } }
			 class B extends A { @Override long f() { return 0L; } }`,
			report.InvalidOverride, false,
		},
		{
			"promotable parameter is not identical",
			`class A { void f(long x) { } }
			 class B extends A { @Override void f(int x) { } }`,
			report.InvalidOverride, false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := validate(t, test.src)
			if test.ok {
				be.Err(t, err, nil)
			} else {
				wantKind(t, err, test.kind)
			}
		})
	}
}

func TestFinalMethodProtection(t *testing.T) {
	_, err := validate(t, `
		class A { final void lock() { } }
		class B extends A { }
		class C extends B { void lock() { } }
	`)
	wantKind(t, err, report.OverrideOfFinalMethod)
	be.True(t, strings.Contains(err.Error(), "class `A`"))

	// A different overload of a final method is not an override.
	_, err = validate(t, `
		class A { final void lock() { } }
		class B extends A { void lock(int n) { } }
	`)
	be.Err(t, err, nil)

	// The class's own final methods are exempt.
	_, err = validate(t, "class A { final void lock() { } void lock(int n) { } }")
	be.Err(t, err, nil)
}

func TestResolveEntry(t *testing.T) {
	const mainBody = "{ public static void main() { } }"

	tests := []struct {
		name  string
		src   string
		entry string
		kind  report.ErrorKind
		ok    bool
	}{
		{"library", "class A { } class B { static void main() { } }", "", 0, true},
		{"single", "class A " + mainBody + " class B { }", "A", 0, true},
		{"ambiguous", "class A " + mainBody + " class B " + mainBody, "", report.AmbiguousMain, false},
		{"one marked", "class A " + mainBody + " @main class B " + mainBody, "B", 0, true},
		{"marked method", "class A " + mainBody + " class B { @main public static void main() { } }", "B", 0, true},
		{"two marked", "@main class A " + mainBody + " @main class B " + mainBody, "", report.MultipleMainMarkers, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r, err := validate(t, test.src)
			be.Err(t, err, nil)

			entry, err := r.ResolveEntry()
			if test.ok {
				be.Err(t, err, nil)
				be.Equal(t, entry, test.entry)
			} else {
				wantKind(t, err, test.kind)
			}
		})
	}
}

func TestLayoutIsPrefixCompatible(t *testing.T) {
	// The subclass is declared first to exercise forward references.
	r, err := validate(t, `
		class B extends A { char f2; static int count; }
		class A { int f0; long f1; }
		class C extends B { bool f3; double f4; }
	`)
	be.Err(t, err, nil)
	be.Err(t, r.FinalizeLayout(), nil)
	be.True(t, r.Finalized())

	a, _ := r.GetClass("A")
	b, _ := r.GetClass("B")
	c, _ := r.GetClass("C")

	be.Equal(t, a.Fields["f0"].Offset, 0)
	be.Equal(t, a.Fields["f1"].Offset, 8)
	be.Equal(t, a.Size, 16)
	be.Equal(t, a.Align, 8)

	// Fields inherited by B are read through A's offsets.
	for _, name := range []string{"f0", "f1"} {
		field, owner, ok := r.LookupInstanceField("B", name)
		be.True(t, ok)
		be.Equal(t, owner.Name, "A")
		be.Equal(t, field.Offset, a.Fields[name].Offset)
	}

	be.Equal(t, b.Fields["f2"].Offset, a.Size)
	be.Equal(t, b.Size, 24)

	be.Equal(t, c.Fields["f3"].Offset, b.Size)
	be.Equal(t, c.Fields["f4"].Offset, 32)
	be.Equal(t, c.Size, 40)

	count, owner, ok := r.LookupStaticField("C", "count")
	be.True(t, ok)
	be.Equal(t, owner.Name, "B")
	be.Equal(t, count.GlobalName, "B.count")

	_, _, ok = r.LookupInstanceField("C", "count")
	be.True(t, !ok)
}

func TestLayoutRejectsCycle(t *testing.T) {
	r, err := populate(t, "class A extends B { int x; } class B extends A { int y; }")
	be.Err(t, err, nil)

	err = r.FinalizeLayout()
	wantKind(t, err, report.CircularInheritance)
	be.Equal(t, err.(*report.CompileError).Line(), 1)
}

func TestEmptyClassLayout(t *testing.T) {
	r, err := validate(t, "class A { static int n; }")
	be.Err(t, err, nil)
	be.Err(t, r.FinalizeLayout(), nil)

	a, _ := r.GetClass("A")
	be.Equal(t, a.Size, 0)
	be.Equal(t, a.Align, 1)
}

func TestAssignable(t *testing.T) {
	r, err := validate(t, `
		interface Named { }
		class Animal implements Named { }
		class Dog extends Animal { }
		class Rock { }
	`)
	be.Err(t, err, nil)

	obj := func(name string) typing.DataType { return &typing.ObjectType{Name: name} }
	arr := func(elem typing.DataType) typing.DataType { return &typing.ArrayType{ElemType: elem} }

	tests := []struct {
		name     string
		from, to typing.DataType
		want     bool
	}{
		{"subclass to parent", obj("Dog"), obj("Animal"), true},
		{"parent to subclass", obj("Animal"), obj("Dog"), false},
		{"unrelated", obj("Rock"), obj("Animal"), false},
		{"inherited interface", obj("Dog"), obj("Named"), true},
		{"missing interface", obj("Rock"), obj("Named"), false},
		{"null to class", typing.NullType(), obj("Dog"), true},
		{"covariant array", arr(obj("Dog")), arr(obj("Animal")), true},
		{"primitive widening", typing.PrimInt32, typing.PrimInt64, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			be.Equal(t, r.Assignable(test.from, test.to), test.want)
		})
	}
}

func TestLookupMethodsNearestFirst(t *testing.T) {
	r, err := validate(t, `
		class A { void f() { } void f(int x) { } }
		class B extends A { void f(long x) { } }
	`)
	be.Err(t, err, nil)

	methods := r.LookupMethods("B", "f")
	be.Equal(t, len(methods), 3)
	be.Equal(t, methods[0].Owner, "B")
	be.Equal(t, methods[1].Owner, "A")
	be.Equal(t, len(r.LookupMethods("B", "g")), 0)
}

func TestDump(t *testing.T) {
	r, err := validate(t, "class A { int x; static int y; void f(int... xs) { } }")
	be.Err(t, err, nil)
	be.Err(t, r.FinalizeLayout(), nil)

	var buf bytes.Buffer
	r.Dump(&buf)

	out := buf.String()
	be.True(t, strings.Contains(out, `"A.y"`))
	be.True(t, strings.Contains(out, "(int...) void"))
}

func TestDefaultConstructor(t *testing.T) {
	r, err := validate(t, `
		class None { }
		class Empty { Empty(int x) { } Empty() { } }
		class Varargs { Varargs(int... xs) { } }
		class Required { Required(int x) { } }
	`)
	be.Err(t, err, nil)

	tests := []struct {
		class string
		index int
		ok    bool
	}{
		{"None", -1, true},
		{"Empty", 1, true},
		{"Varargs", 0, true},
		{"Required", -1, false},
	}

	for _, test := range tests {
		t.Run(test.class, func(t *testing.T) {
			ci, _ := r.GetClass(test.class)
			index, ok := r.DefaultConstructor(ci)
			be.Equal(t, index, test.index)
			be.Equal(t, ok, test.ok)
		})
	}
}
