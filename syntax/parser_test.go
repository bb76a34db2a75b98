package syntax

import (
	"cayc/ast"
	"cayc/report"
	"cayc/typing"
	"testing"

	"github.com/nalgeon/be"
)

func mustParse(t *testing.T, src string) *ast.File {
	t.Helper()

	file, err := ParseString(src)
	be.Err(t, err, nil)
	return file
}

func TestParseClassHeader(t *testing.T) {
	file := mustParse(t, `
		interface Drawable { void draw(); }
		public final class Circle extends Shape implements Drawable, Sized { }
		class Square : Shape { }
	`)

	be.Equal(t, len(file.Interfaces), 1)
	be.Equal(t, file.Interfaces[0].Name, "Drawable")
	be.Equal(t, len(file.Interfaces[0].Methods), 1)

	be.Equal(t, len(file.Classes), 2)

	circle := file.Classes[0]
	be.Equal(t, circle.Name, "Circle")
	be.Equal(t, circle.Parent, "Shape")
	be.Equal(t, circle.Interfaces, []string{"Drawable", "Sized"})
	be.True(t, circle.Modifiers.Has(ast.ModPublic|ast.ModFinal))

	be.Equal(t, file.Classes[1].Parent, "Shape")
}

func TestParseMembers(t *testing.T) {
	file := mustParse(t, `
		@main
		class App {
			static final int LIMIT = 10;
			private double[] values;

			static { }
			{ }

			App(int n) : super(n, 2) { }
			~App() { }

			native long now();

			@Override
			public static void main(String... args) {
				return;
			}
		}
	`)

	app := file.Classes[0]
	be.True(t, app.Modifiers.Has(ast.ModMain))
	be.Equal(t, len(app.Members), 8)

	limit := app.Members[0].(*ast.FieldDecl)
	be.Equal(t, limit.Name, "LIMIT")
	be.True(t, limit.Modifiers.Has(ast.ModStatic|ast.ModFinal))
	be.True(t, typing.Equals(limit.Type, typing.PrimInt32))
	be.Equal(t, limit.Init.(*ast.Literal).Value, "10")

	values := app.Members[1].(*ast.FieldDecl)
	be.True(t, typing.Equals(values.Type, &typing.ArrayType{ElemType: typing.PrimFloat64}))
	be.True(t, values.Init == nil)

	be.True(t, app.Members[2].(*ast.InitializerBlock).IsStatic)
	be.True(t, !app.Members[3].(*ast.InitializerBlock).IsStatic)

	ctor := app.Members[4].(*ast.ConstructorDecl)
	be.Equal(t, len(ctor.Params), 1)
	be.True(t, ctor.Chain.IsSuper)
	be.Equal(t, len(ctor.Chain.Args), 2)
	be.Equal(t, ctor.Chain.CtorIndex, -1)

	_, isDtor := app.Members[5].(*ast.DestructorDecl)
	be.True(t, isDtor)

	now := app.Members[6].(*ast.MethodDecl)
	be.True(t, now.Modifiers.Has(ast.ModNative))
	be.True(t, now.Body == nil)

	main := app.Members[7].(*ast.MethodDecl)
	be.True(t, main.Modifiers.Has(ast.ModOverride|ast.ModPublic|ast.ModStatic))
	be.True(t, typing.Equals(main.ReturnType, typing.PrimVoid))
	be.True(t, main.Params[0].IsVarargs)
	be.True(t, typing.Equals(main.Params[0].Type, &typing.ArrayType{ElemType: typing.PrimString}))
}

func TestParseStatements(t *testing.T) {
	file := mustParse(t, `
		class A {
			void run() {
				int x = 1;
				final String s;
				Point p = new Point(1, 2);
				Point[] ps = new Point[4];
				x += 2;
				p.x = x;
				if (x > 1) x = 0; else { x = 1; }
				while (x < 10) { x = x + 1; if (x == 5) break; }
				for (int i = 0; i < 3; i = i + 1) continue;
				for (;;) { }
			}
		}
	`)

	stmts := file.Classes[0].Members[0].(*ast.MethodDecl).Body.Stmts
	be.Equal(t, len(stmts), 10)

	be.Equal(t, stmts[0].(*ast.VarDecl).Name, "x")
	be.True(t, stmts[1].(*ast.VarDecl).IsFinal)
	be.True(t, stmts[1].(*ast.VarDecl).Init == nil)
	be.Equal(t, stmts[2].(*ast.VarDecl).Init.(*ast.NewObject).ClassName, "Point")

	arr := stmts[3].(*ast.VarDecl).Init.(*ast.NewArray)
	be.True(t, typing.Equals(arr.ElemType, &typing.ObjectType{Name: "Point"}))

	compound := stmts[4].(*ast.ExprStmt).Expr.(*ast.Assign)
	be.Equal(t, *compound.CompoundOp, ast.OpAdd)

	fieldAssign := stmts[5].(*ast.ExprStmt).Expr.(*ast.Assign)
	be.Equal(t, fieldAssign.Target.(*ast.MemberAccess).Member, "x")
	be.True(t, fieldAssign.CompoundOp == nil)

	be.True(t, stmts[6].(*ast.IfStmt).Else != nil)

	loop := stmts[8].(*ast.ForLoop)
	be.Equal(t, loop.Init.(*ast.VarDecl).Name, "i")
	be.Equal(t, loop.Body.(*ast.KeywordStmt).Kind, ast.KwContinue)

	empty := stmts[9].(*ast.ForLoop)
	be.True(t, empty.Init == nil && empty.Cond == nil && empty.Update == nil)
}

func TestParsePrecedence(t *testing.T) {
	file := mustParse(t, `
		class A {
			int f() { return a + b * c == d || !e && f ? g : h.k(1)[2]; }
		}
	`)

	ret := file.Classes[0].Members[0].(*ast.MethodDecl).Body.Stmts[0].(*ast.ReturnStmt)
	tern := ret.Value.(*ast.Ternary)

	or := tern.Cond.(*ast.BinaryOp)
	be.Equal(t, or.Op, ast.OpOr)

	eq := or.Lhs.(*ast.BinaryOp)
	be.Equal(t, eq.Op, ast.OpEq)

	add := eq.Lhs.(*ast.BinaryOp)
	be.Equal(t, add.Op, ast.OpAdd)
	be.Equal(t, add.Rhs.(*ast.BinaryOp).Op, ast.OpMul)

	and := or.Rhs.(*ast.BinaryOp)
	be.Equal(t, and.Op, ast.OpAnd)
	be.Equal(t, and.Lhs.(*ast.UnaryOp).Op, ast.OpNot)

	index := tern.Else.(*ast.Index)
	call := index.Array.(*ast.Call)
	be.Equal(t, call.Func.(*ast.MemberAccess).Member, "k")
}

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		src   string
		kind  int
		value string
	}{
		{"42", ast.LitInt, "42"},
		{"0x1F", ast.LitInt, "0x1F"},
		{"7L", ast.LitLong, "7"},
		{"1.5f", ast.LitFloat, "1.5"},
		{"2.5", ast.LitDouble, "2.5"},
		{"1e3", ast.LitDouble, "1e3"},
		{`'\n'`, ast.LitChar, "\n"},
		{`'\''`, ast.LitChar, "'"},
		{`"a\tb\x41\"\\"`, ast.LitString, "a\tbA\"\\"},
		{"true", ast.LitBool, "true"},
		{"null", ast.LitNull, "null"},
	}

	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			file := mustParse(t, "class A { void f() { x = "+test.src+"; } }")

			stmt := file.Classes[0].Members[0].(*ast.MethodDecl).Body.Stmts[0].(*ast.ExprStmt)
			lit := stmt.Expr.(*ast.Assign).Value.(*ast.Literal)

			be.Equal(t, lit.Kind, test.kind)
			be.Equal(t, lit.Value, test.value)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"missing semicolon", "class A {\n int x\n}", 3},
		{"unknown annotation", "@Inline class A { }", 1},
		{"varargs not last", "class A {\n void f(int... a, int b) { }\n}", 2},
		{"duplicate modifier", "class A { static static int x; }", 1},
		{"assign to rvalue", "class A {\n void f() {\n 1 = 2;\n }\n}", 3},
		{"void field", "class A { void x; }", 1},
		{"unclosed class", "class A {", 1},
		{"int out of range", "class A { int x = 3000000000; }", 1},
		{"wrong constructor name", "class A { B() { } }", 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseString(test.src)
			be.True(t, err != nil)

			kind, ok := report.KindOf(err)
			be.True(t, ok)
			be.Equal(t, kind, report.SyntaxError)
			be.Equal(t, err.(*report.CompileError).Line(), test.line)
		})
	}
}

func TestDecodeEscapes(t *testing.T) {
	be.Equal(t, decodeEscapes(`plain`), "plain")
	be.Equal(t, decodeEscapes(`a\0b`), "a\x00b")
	be.Equal(t, decodeEscapes(`\a\b\f\v\r`), "\a\b\f\v\r")
}
