package generate

import (
	"cayc/depm"
	"cayc/report"
	"cayc/syntax"
	"cayc/typing"
	"cayc/walk"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/nalgeon/be"
)

// analyze runs every phase before code generation on src.
func analyze(t *testing.T, src string) *depm.TypeRegistry {
	t.Helper()

	file, err := syntax.ParseString(src)
	be.Err(t, err, nil)

	reg := depm.NewTypeRegistry()
	be.Err(t, reg.Populate(file), nil)
	be.Err(t, reg.Validate(), nil)
	be.Err(t, reg.FinalizeLayout(), nil)

	errs, err := walk.Check(reg, false)
	be.Err(t, err, nil)
	be.Equal(t, len(errs), 0)

	return reg
}

func compile(t *testing.T, src, entry string, opts Options) *ir.Module {
	t.Helper()

	mod, err := Generate(analyze(t, src), entry, opts)
	be.Err(t, err, nil)
	return mod
}

func findFunc(t *testing.T, mod *ir.Module, name string) *ir.Func {
	t.Helper()

	for _, fn := range mod.Funcs {
		if fn.Name() == name {
			return fn
		}
	}

	t.Fatalf("no function named %s", name)
	return nil
}

func insts(fn *ir.Func) []ir.Instruction {
	var all []ir.Instruction
	for _, block := range fn.Blocks {
		all = append(all, block.Insts...)
	}

	return all
}

// loadSources returns the names of the globals and stack slots fn loads from.
// Loads through computed addresses are skipped.
func loadSources(fn *ir.Func) []string {
	var names []string
	for _, inst := range insts(fn) {
		load, ok := inst.(*ir.InstLoad)
		if !ok {
			continue
		}

		switch src := load.Src.(type) {
		case *ir.Global:
			names = append(names, src.Name())
		case *ir.InstAlloca:
			names = append(names, src.Name())
		}
	}

	return names
}

// callees returns the names of the functions fn calls.
func callees(fn *ir.Func) []string {
	var names []string
	for _, inst := range insts(fn) {
		if call, ok := inst.(*ir.InstCall); ok {
			if callee, ok := call.Callee.(*ir.Func); ok {
				names = append(names, callee.Name())
			}
		}
	}

	return names
}

func count(names []string, name string) int {
	n := 0
	for _, x := range names {
		if x == name {
			n++
		}
	}

	return n
}

// -----------------------------------------------------------------------------

func TestResolvePriority(t *testing.T) {
	const src = `
		class P { int z; int w; }
		class A extends P {
			static int x = 5;
			static int z = 1;
			int y;

			int paramOverStatic(int x) { return x; }
			int localOverStatic() { int x = 7; return x; }
			int localOverField() { int y = 2; return y; }
			int staticOverParentField() { return z; }
			int inheritedField() { return w; }
			int paramOverField(int y) { return y; }
		}
	`

	tests := []struct {
		fn     string
		source string
	}{
		{"A.paramOverStatic", "x.0"},
		{"A.localOverStatic", "x.0"},
		{"A.localOverField", "y.0"},
		{"A.staticOverParentField", "A.z"},
		{"A.inheritedField", "this_ptr"},
		{"A.paramOverField", "y.0"},
	}

	mod := compile(t, src, "", Options{})
	for _, test := range tests {
		t.Run(test.fn, func(t *testing.T) {
			sources := loadSources(findFunc(t, mod, test.fn))
			be.Equal(t, sources, []string{test.source})
		})
	}
}

func TestAssignLocalShadowingStatic(t *testing.T) {
	mod := compile(t, `
		class A {
			static int x = 5;
			void g() { int x = 7; x = 9; }
		}
	`, "", Options{})

	var targets []string
	for _, inst := range insts(findFunc(t, mod, "A.g")) {
		store, ok := inst.(*ir.InstStore)
		if !ok {
			continue
		}

		switch dst := store.Dst.(type) {
		case *ir.Global:
			targets = append(targets, dst.Name())
		case *ir.InstAlloca:
			targets = append(targets, dst.Name())
		}
	}

	be.Equal(t, count(targets, "x.0"), 2)
	be.Equal(t, count(targets, "A.x"), 0)
}

func TestUnresolvedIdentifierIsInternal(t *testing.T) {
	reg := analyze(t, "class A { static void f() { } }")
	ci, _ := reg.GetClass("A")

	resolve := func() (err error) {
		defer report.CatchErrors(&err)

		g := newGenerator(reg, Options{})
		g.declareRuntime()
		g.declareClass(ci)

		mi := ci.Methods["f"][0]
		g.beginFunc(ci, g.methods[mi], false, nil, typing.PrimVoid)
		g.resolveIdent("missing")
		return nil
	}

	err := resolve()
	be.True(t, report.IsInternal(err))

	kind, ok := report.KindOf(err)
	be.True(t, ok)
	be.Equal(t, kind, report.UnresolvedIdentifier)
}

func TestGenerateRequiresLayout(t *testing.T) {
	file, err := syntax.ParseString("class A { }")
	be.Err(t, err, nil)

	reg := depm.NewTypeRegistry()
	be.Err(t, reg.Populate(file), nil)

	_, err = Generate(reg, "", Options{})
	be.True(t, report.IsInternal(err))
}

func TestArrayLengthReadsHeader(t *testing.T) {
	mod := compile(t, "class A { static int f(long[] xs) { return xs.length; } }", "", Options{})
	fn := findFunc(t, mod, "A.f")

	var header *ir.InstGetElementPtr
	for _, inst := range insts(fn) {
		if gep, ok := inst.(*ir.InstGetElementPtr); ok {
			header = gep
		}
	}

	be.True(t, header != nil)
	be.True(t, header.ElemType.Equal(types.I8))
	be.Equal(t, len(header.Indices), 1)
	be.Equal(t, header.Indices[0].(*constant.Int).X.Int64(), int64(-arrayHeaderSize))

	be.Equal(t, fn.Sig.RetType.Equal(types.I32), true)
}

func TestFieldAccessUsesLayoutOffset(t *testing.T) {
	reg := analyze(t, `
		class A {
			bool flag;
			long n;
			long get() { return n; }
		}
	`)

	mod, err := Generate(reg, "", Options{})
	be.Err(t, err, nil)

	ci, _ := reg.GetClass("A")
	want := int64(ci.Fields["n"].Offset)

	var offsets []int64
	for _, inst := range insts(findFunc(t, mod, "A.get")) {
		if gep, ok := inst.(*ir.InstGetElementPtr); ok {
			offsets = append(offsets, gep.Indices[0].(*constant.Int).X.Int64())
		}
	}

	be.Equal(t, offsets, []int64{want})
	be.Equal(t, want, int64(8))
}

// -----------------------------------------------------------------------------

const program = `
	class Shape {
		int sides;
		static int count = 0;
		static final String NAME = "shape";

		Shape() { }
		Shape(int n) { sides = n; count += 1; }

		int area() { return 0; }
		int area(int scale) { return scale * sides; }
		static int total(int... xs) {
			int sum = 0;
			for (int i = 0; i < xs.length; i += 1) {
				sum += xs[i];
			}
			return sum;
		}
	}

	class Square extends Shape {
		int width = 1;

		Square(int w) : super(4) { width = w; }
		~Square() { }

		@Override
		int area() { return width * width; }
	}

	class Blank extends Shape { }

	class App {
		public static int main() {
			Square sq = new Square(3);
			Blank b = new Blank();
			int t = Shape.total(1, 2, 3) + Shape.total(new int[2]);
			String s = Shape.NAME + sq.area() + ':' + (t > 2 && sq != null);
			while (true) {
				if (s.length() > 100) break;
				s += "x";
			}
			return t > 0 ? sq.area(2) : -1;
		}
	}
`

func TestGenerateProgram(t *testing.T) {
	mod := compile(t, program, "App", Options{TargetTriple: "x86_64-pc-linux-gnu", SourceFilename: "shapes.cay"})

	be.Equal(t, mod.TargetTriple, "x86_64-pc-linux-gnu")

	for _, name := range []string{
		"Shape.area$0",
		"Shape.area$1",
		"Shape.total",
		"Shape.__ctor$0",
		"Shape.__ctor$1",
		"Shape.__fields",
		"Shape.__clinit",
		"Square.__ctor",
		"Square.__dtor",
		"Square.area",
		"Blank.__init",
		"App.main",
		"main",
	} {
		fn := findFunc(t, mod, name)
		be.True(t, len(fn.Blocks) > 0)
	}

	// Every block of every defined function is terminated.
	for _, fn := range mod.Funcs {
		for _, block := range fn.Blocks {
			be.True(t, block.Term != nil)
		}
	}

	// The runtime is declared but not defined.
	be.Equal(t, len(findFunc(t, mod, "__cay_string_concat").Blocks), 0)

	// Square(int w) : super(4) runs Shape(int) and then its own fields.
	be.Equal(t, callees(findFunc(t, mod, "Square.__ctor")), []string{"Shape.__ctor$1", "Square.__fields"})

	// Blank runs the default constructor of Shape.
	be.Equal(t, callees(findFunc(t, mod, "Blank.__init")), []string{"Shape.__ctor$0", "Blank.__fields"})

	// The wrapper initializes statics before calling main.
	be.Equal(t, callees(findFunc(t, mod, "main")), []string{"Shape.__clinit", "App.main"})

	// Only the first call to total packs its arguments.
	appMain := callees(findFunc(t, mod, "App.main"))
	be.Equal(t, count(appMain, "calloc"), 4)
	be.Equal(t, count(appMain, "Shape.total"), 2)
	be.Equal(t, count(appMain, "__cay_string_length"), 1)
}

func TestConstantGlobals(t *testing.T) {
	mod := compile(t, program, "", Options{})

	var name, counter *ir.Global
	for _, glob := range mod.Globals {
		switch glob.Name() {
		case "Shape.NAME":
			name = glob
		case "Shape.count":
			counter = glob
		}
	}

	be.True(t, name != nil && counter != nil)
	be.True(t, name.Immutable)
	be.True(t, !counter.Immutable)
}

func TestFoldStringExpressions(t *testing.T) {
	mod := compile(t, `
		class A {
			static final String GREETING = "hello";
			static final int START = 1;

			static String f() { return GREETING.substring(START, 4) + 2 + 'x' + true; }
			static int g() { return "abc".indexOf("c") + GREETING.length(); }
			static String h(String s) { return s + 1; }
			static String k() { String GREETING = "bye"; return GREETING + 1; }
		}
	`, "", Options{})

	f := findFunc(t, mod, "A.f")
	be.Equal(t, len(callees(f)), 0)

	var str *ir.Global
	for _, glob := range mod.Globals {
		if init, ok := glob.Init.(*constant.CharArray); ok && string(init.X) == "ell2xtrue\x00" {
			str = glob
		}
	}

	be.True(t, str != nil)

	g := findFunc(t, mod, "A.g")
	be.Equal(t, len(callees(g)), 0)

	h := findFunc(t, mod, "A.h")
	be.Equal(t, callees(h), []string{"__cay_int_to_string", "__cay_string_concat"})

	// A local shadowing a constant field is not folded.
	k := findFunc(t, mod, "A.k")
	be.Equal(t, callees(k), []string{"__cay_int_to_string", "__cay_string_concat"})
}

func TestEmitRuntime(t *testing.T) {
	mod := compile(t, "class A { }", "", Options{EmitRuntime: true})

	for _, name := range []string{
		"__cay_string_concat",
		"__cay_int_to_string",
		"__cay_float_to_string",
		"__cay_bool_to_string",
		"__cay_char_to_string",
		"__cay_string_length",
		"__cay_string_substring",
		"__cay_string_indexof",
		"__cay_string_charat",
		"__cay_string_replace",
	} {
		be.True(t, len(findFunc(t, mod, name).Blocks) > 0)
	}

	// The library functions are always external.
	be.Equal(t, len(findFunc(t, mod, "calloc").Blocks), 0)

	// substring clamps its bounds with straight-line selects.
	substring := findFunc(t, mod, "__cay_string_substring")
	be.Equal(t, len(substring.Blocks), 1)

	var selects []*ir.InstSelect
	for _, inst := range insts(substring) {
		if sel, ok := inst.(*ir.InstSelect); ok {
			selects = append(selects, sel)
		}
	}

	be.Equal(t, len(selects), 5)

	// The first select of each bound reads the raw parameter and the last one
	// chooses between the already clamped bounds.
	be.Equal(t, selects[0].ValueFalse, value.Value(substring.Params[1]))
	be.Equal(t, selects[1].ValueFalse, value.Value(substring.Params[2]))

	last := selects[4]
	be.Equal(t, last.ValueTrue, value.Value(selects[3]))
	be.Equal(t, last.ValueFalse, value.Value(selects[0]))
}
