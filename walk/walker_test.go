package walk

import (
	"cayc/ast"
	"cayc/depm"
	"cayc/report"
	"cayc/syntax"
	"cayc/typing"
	"testing"

	"github.com/nalgeon/be"
)

// load parses, registers, validates, and lays out src.
func load(t *testing.T, src string) (*ast.File, *depm.TypeRegistry) {
	t.Helper()

	file, err := syntax.ParseString(src)
	be.Err(t, err, nil)

	reg := depm.NewTypeRegistry()
	be.Err(t, reg.Populate(file), nil)
	be.Err(t, reg.Validate(), nil)
	be.Err(t, reg.FinalizeLayout(), nil)

	return file, reg
}

// check type checks src and returns the reported errors.
func check(t *testing.T, src string) []*report.CompileError {
	t.Helper()

	_, reg := load(t, src)
	errs, err := Check(reg, true)
	be.Err(t, err, nil)
	return errs
}

func kinds(errs []*report.CompileError) []report.ErrorKind {
	var ks []report.ErrorKind
	for _, err := range errs {
		ks = append(ks, err.Kind)
	}

	return ks
}

// methodBody returns the statements of the named method of the named class.
func methodBody(file *ast.File, class, method string) []ast.ASTNode {
	for _, cd := range file.Classes {
		if cd.Name != class {
			continue
		}

		for _, member := range cd.Members {
			if md, ok := member.(*ast.MethodDecl); ok && md.Name == method {
				return md.Body.Stmts
			}
		}
	}

	return nil
}

const shapes = `
	class Shape {
		int sides;
		static int count = 0;

		Shape() { }
		Shape(int n) { sides = n; }

		int area() { return 0; }
		int area(int scale) { return scale; }
		static int total(int... xs) { return xs.length; }
	}

	class Square extends Shape {
		int width;

		Square(int w) : super(4) { width = w; }

		@Override
		int area() { return width * width; }
	}

	class App {
		public static void main() {
			Square sq = new Square(3);
			int a = sq.area(2);
			int t = Shape.total(1, 2, 3);
			int u = Shape.total(new int[2]);
			String s = "n=" + sq.width;
			char c = s.charAt(0);
			long l = a + 1L;
			Shape sh = sq;
			Shape.count = Shape.count + 1;
		}
	}
`

func TestCheckAnnotatesTree(t *testing.T) {
	file, reg := load(t, shapes)

	errs, err := Check(reg, false)
	be.Err(t, err, nil)
	be.Equal(t, len(errs), 0)

	stmts := methodBody(file, "App", "main")

	newSq := stmts[0].(*ast.VarDecl).Init.(*ast.NewObject)
	be.Equal(t, newSq.CtorIndex, 0)
	be.True(t, typing.Equals(newSq.Type(), &typing.ObjectType{Name: "Square"}))

	// sq.area(2) is only declared by the parent.
	area := stmts[1].(*ast.VarDecl).Init.(*ast.Call)
	be.Equal(t, area.Owner, "Shape")
	be.Equal(t, area.Overload, 1)
	be.True(t, !area.IsStatic)

	total := stmts[2].(*ast.VarDecl).Init.(*ast.Call)
	be.Equal(t, total.Owner, "Shape")
	be.True(t, total.IsStatic)

	concat := stmts[4].(*ast.VarDecl).Init.(*ast.BinaryOp)
	be.True(t, typing.Equals(concat.Type(), typing.PrimString))

	charAt := stmts[5].(*ast.VarDecl).Init.(*ast.Call)
	be.Equal(t, charAt.Builtin, "charAt")
	be.True(t, typing.Equals(charAt.Type(), typing.PrimChar))

	long := stmts[6].(*ast.VarDecl).Init.(*ast.BinaryOp)
	be.True(t, typing.Equals(long.Type(), typing.PrimInt64))

	// The constructor chain of Square selects Shape(int).
	for _, member := range file.Classes[1].Members {
		if ctor, ok := member.(*ast.ConstructorDecl); ok {
			be.Equal(t, ctor.Chain.CtorIndex, 1)
		}
	}
}

func TestCheckAccumulatesErrors(t *testing.T) {
	errs := check(t, `
		class A {
			int f() { return "no"; }
			void g() { int x = true; bool b = 1; }
		}
		class B {
			void h() { undefined(); }
			long k() { return 1; }
		}
	`)

	be.Equal(t, kinds(errs), []report.ErrorKind{
		report.ReturnTypeMismatch,
		report.IncompatibleAssignment,
		report.IncompatibleAssignment,
		report.UndefinedSymbol,
	})
}

func TestCheckErrors(t *testing.T) {
	const base = `
		class P { final void lock() { } }
		class A extends P {
			int n;
			final int fixed = 1;
			static final int LIMIT = 3;
			A() { }
			A(int x, String... rest) { }
			void take(long v) { }
			static void util() { }
	`

	tests := []struct {
		name string
		body string
		kind report.ErrorKind
	}{
		{"too many args", "void f() { take(1, 2); }", report.ArgumentCountMismatch},
		{"bad arg type", "void f() { take(\"x\"); }", report.ArgumentTypeMismatch},
		{"ctor varargs type", "void f() { A a = new A(1, \"a\", 2); }", report.ArgumentTypeMismatch},
		{"ctor none", "void f() { P p = new P(1); }", report.ArgumentCountMismatch},
		{"string method count", "void f() { String s = \"a\"; s.length(1); }", report.ArgumentCountMismatch},
		{"string method type", "void f() { String s = \"a\"; s.indexOf(1); }", report.ArgumentTypeMismatch},
		{"unknown string method", "void f() { String s = \"a\"; s.trim(); }", report.UndefinedSymbol},
		{"return in void", "void f() { return 1; }", report.ReturnTypeMismatch},
		{"missing return value", "int f() { return; }", report.ReturnTypeMismatch},
		{"narrowing", "void f() { long l = 1L; int i = l; }", report.IncompatibleAssignment},
		{"downcast", "void f() { P p = new A(); A a = p; }", report.IncompatibleAssignment},
		{"final local", "void f() { final int x = 1; x = 2; }", report.FinalAssignment},
		{"final compound", "void f() { final int x; x += 2; }", report.FinalAssignment},
		{"final field", "void f() { fixed = 2; }", report.FinalAssignment},
		{"final static", "void f() { LIMIT = 2; }", report.FinalAssignment},
		{"undefined", "void f() { int x = y; }", report.UndefinedSymbol},
		{"undefined field", "void f() { A a = new A(); int z = a.zz; }", report.UndefinedSymbol},
		{"undefined type", "void f() { Q q = null; }", report.UndefinedSymbol},
		{"bad condition", "void f() { if (1) { } }", report.InvalidOperand},
		{"bad operand", "void f() { bool b = true + 1 > 0; }", report.InvalidOperand},
		{"this in static", "static void f() { A a = this; }", report.InvalidOperand},
		{"field in static", "static void f() { int x = n; }", report.InvalidOperand},
		{"break outside loop", "void f() { break; }", report.InvalidOperand},
		{"instance call through class", "void f() { A.take(1); }", report.InvalidOperand},
		{"redeclare", "void f() { int x = 1; int x = 2; }", report.DuplicateDefinition},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			errs := check(t, base+test.body+"\n}")
			be.Equal(t, len(errs), 1)
			be.Equal(t, errs[0].Kind, test.kind)
		})
	}
}

func TestCheckAccepts(t *testing.T) {
	const base = `
		interface Named { }
		class P implements Named { int v; }
		class A extends P {
			final int id;
			static final int LIMIT;
			static int total;

			static { LIMIT = 4; }
			A() { id = 1; }

			static int sum(int... xs) { return xs.length; }
	`

	tests := []struct {
		name string
		body string
	}{
		{"upcast", "void f() { P p = new A(); Named n = p; }"},
		{"null to reference", "void f() { A a = null; String s = null; int[] xs = null; }"},
		{"varargs empty", "void f() { int n = sum(); }"},
		{"varargs array", "void f() { int n = sum(new int[3]); }"},
		{"varargs chars", "void f() { int n = sum('a', 'b'); }"},
		{"widening", "void f() { long l = 1; double d = 1.5f; float g = 2.0; int c = 'x'; }"},
		{"shadowing", "void f() { int v = 1; { String v = \"s\"; } v = 2; }"},
		{"inherited field", "void f() { v = 3; this.v = 4; }"},
		{"local over static", "int f() { String total = \"s\"; return total.length(); }"},
		{"param over static", "int f(String total) { return total.length(); }"},
		{"local over final static", "void f() { int LIMIT = 1; LIMIT = 2; }"},
		{"deferred final local", "void f() { final int x; x = 1; }"},
		{"static via class", "void f() { A.total = A.LIMIT + total; }"},
		{"loops", "void f() { for (int i = 0; i < 3; i += 1) { if (i == 1) continue; } while (true) { break; } }"},
		{"ternary", "P f(bool b) { return b ? new A() : null; }"},
		{"string ops", "void f() { String s = \"a\" + 1 + 'c' + 2.5 + true; s += 1; int n = s.length() + s.indexOf(\"a\"); s = s.substring(1).replace(\"a\", \"b\"); }"},
		{"array index", "void f() { int[] xs = new int[2]; xs[0] = xs[1] + xs.length; }"},
		{"equality", "bool f(A a, P p) { return a == p || a != null; }"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			errs := check(t, base+test.body+"\n}")
			be.Equal(t, len(errs), 0)
		})
	}
}

func TestCheckParallelMatchesSequential(t *testing.T) {
	const src = `
		class A { void f() { int x = "a"; } }
		class B { void f() { bool b = 2; } }
		class C { void f() { String s = 3; } }
		class D { int f() { return true; } }
	`

	_, reg := load(t, src)

	seq, err := Check(reg, false)
	be.Err(t, err, nil)

	par, err := Check(reg, true)
	be.Err(t, err, nil)

	be.Equal(t, len(seq), 4)
	be.Equal(t, len(par), len(seq))
	for i := range seq {
		be.Equal(t, par[i].Error(), seq[i].Error())
	}
}

func TestCheckImplicitSuper(t *testing.T) {
	tests := []struct {
		name string
		src  string
		n    int
	}{
		{"no constructors", "class P { P(int x) { } } class A extends P { }", 1},
		{"unchained constructor", "class P { P(int x) { } } class A extends P { A() { } }", 1},
		{"chained constructor", "class P { P(int x) { } } class A extends P { A() : super(1) { } }", 0},
		{"varargs parent", "class P { P(int... xs) { } } class A extends P { A() { } }", 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			errs := check(t, test.src)
			be.Equal(t, len(errs), test.n)
			for _, err := range errs {
				be.Equal(t, err.Kind, report.ArgumentCountMismatch)
			}
		})
	}
}
