package cmd

import (
	"cayc/common"
	"cayc/report"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	be.Err(t, os.WriteFile(path, []byte(content), 0644), nil)
	return path
}

func TestDefaultOutputPath(t *testing.T) {
	be.Equal(t, defaultOutputPath("dir/prog.cay"), "dir/prog.ll")
	be.Equal(t, defaultOutputPath("prog"), "prog.ll")
	be.Equal(t, defaultOutputPath("prog.txt"), "prog.txt.ll")
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	profPath := writeFile(t, dir, common.ProfileFileName, `
[build]
output = "out/prog.ll"
loglevel = "warn"
target-triple = "aarch64-unknown-linux-gnu"
emit-runtime = false
`)

	prof := DefaultProfile(filepath.Join(dir, "prog.cay"))
	be.Err(t, LoadProfile(prof, profPath), nil)

	be.Equal(t, prof.OutputPath, filepath.Join(dir, "out/prog.ll"))
	be.Equal(t, prof.LogLevel, report.LogLevelWarn)
	be.Equal(t, prof.TargetTriple, "aarch64-unknown-linux-gnu")
	be.True(t, !prof.EmitRuntime)

	// Keys absent from the profile keep their defaults.
	be.True(t, prof.ParallelCheck)
}

func TestLoadProfileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad level", "[build]\nloglevel = \"loud\""},
		{"unknown key", "[build]\noptimize = true"},
		{"unknown table", "[link]\nobjects = []"},
		{"wrong type", "[build]\nemit-runtime = \"yes\""},
		{"empty output", "[build]\noutput = \"\""},
		{"malformed", "[build\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			profPath := writeFile(t, t.TempDir(), common.ProfileFileName, test.content)
			err := LoadProfile(DefaultProfile("prog.cay"), profPath)
			be.True(t, err != nil)
		})
	}

	err := LoadProfile(DefaultProfile("prog.cay"), filepath.Join(t.TempDir(), "missing.toml"))
	be.True(t, err != nil)
}

func TestFindProfile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.cay")

	_, ok := findProfile(src)
	be.True(t, !ok)

	want := writeFile(t, dir, common.ProfileFileName, "[build]\n")
	got, ok := findProfile(src)
	be.True(t, ok)
	be.Equal(t, got, want)
}

// compileFile compiles src quietly and returns whether it succeeded and the
// path the output was to be written to.
func compileFile(t *testing.T, src string) (bool, string) {
	t.Helper()

	report.InitReporter(report.LogLevelSilent)

	srcPath := writeFile(t, t.TempDir(), "prog.cay", src)
	prof := DefaultProfile(srcPath)
	prof.LogLevel = report.LogLevelSilent

	c, err := NewCompiler(srcPath, prof)
	be.Err(t, err, nil)

	return c.Compile(), prof.OutputPath
}

func TestCompileWritesModule(t *testing.T) {
	ok, outPath := compileFile(t, `
		class Greeter {
			String name;
			Greeter(String n) { name = n; }
			String greet() { return "hello, " + name; }
		}

		class App {
			public static int main() {
				Greeter g = new Greeter("world");
				return g.greet().length();
			}
		}
	`)
	be.True(t, ok)

	out, err := os.ReadFile(outPath)
	be.Err(t, err, nil)

	text := string(out)
	be.True(t, strings.Contains(text, "define i32 @main()"))
	be.True(t, strings.Contains(text, "@Greeter.greet"))
	be.True(t, strings.Contains(text, common.DefaultTargetTriple))
}

func TestCompileFailureWritesNothing(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", "class A { int x = ; }"},
		{"registry", "class A extends B { }"},
		{"checker", "class A { void f() { int x = \"s\"; } }"},
		{"entry", "class A { public static void main() { } } class B { public static void main() { } }"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ok, outPath := compileFile(t, test.src)
			be.True(t, !ok)

			_, err := os.Stat(outPath)
			be.True(t, os.IsNotExist(err))
		})
	}
}
