// Package cmd is the top-level "driver" package for the compiler: it contains
// all the functionality for parsing command-line arguments, loading the build
// profile, and running all the various phases of the compiler.
package cmd

import (
	"cayc/ast"
	"cayc/common"
	"cayc/depm"
	"cayc/generate"
	"cayc/report"
	"cayc/syntax"
	"cayc/walk"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Compiler represents the state of a single compilation.
type Compiler struct {
	// srcAbsPath is the absolute path to the source file.
	srcAbsPath string

	// srcReprPath is the path to the source file as it is shown to the user.
	srcReprPath string

	// profile is the build profile of the compilation.
	profile *BuildProfile

	// dumpTo is where the finalized registry is written.  It is nil if the
	// registry should not be dumped.
	dumpTo io.Writer
}

// NewCompiler creates a new compiler for the source file at srcPath.
func NewCompiler(srcPath string, profile *BuildProfile) (*Compiler, error) {
	srcAbsPath, err := filepath.Abs(srcPath)
	if err != nil {
		return nil, errors.Wrapf(err, "error calculating absolute path of `%s`", srcPath)
	}

	return &Compiler{
		srcAbsPath:  srcAbsPath,
		srcReprPath: srcPath,
		profile:     profile,
	}, nil
}

// Compile runs every phase of compilation and writes the output file.  Nothing
// is written if any phase fails.  It returns whether compilation succeeded.
func (c *Compiler) Compile() bool {
	report.ReportCompileHeader(common.CaycVersion, c.profile.TargetTriple)

	report.ReportBeginPhase("Parsing")
	file, ok := c.parse()
	if !ok {
		return false
	}

	report.ReportBeginPhase("Analyzing")
	reg, entry, ok := c.analyze(file)
	if !ok {
		return false
	}

	report.ReportBeginPhase("Generating")
	mod, err := generate.Generate(reg, entry, generate.Options{
		TargetTriple:   c.profile.TargetTriple,
		SourceFilename: filepath.Base(c.srcAbsPath),
		EmitRuntime:    c.profile.EmitRuntime,
	})
	if err != nil {
		c.reportError(err)
		return false
	}

	if err := os.WriteFile(c.profile.OutputPath, []byte(mod.String()), 0644); err != nil {
		c.reportError(errors.Wrapf(err, "error writing output file `%s`", c.profile.OutputPath))
		return false
	}

	return true
}

// parse reads and parses the source file.
func (c *Compiler) parse() (*ast.File, bool) {
	f, err := os.Open(c.srcAbsPath)
	if err != nil {
		c.reportError(errors.Wrap(err, "error opening source file"))
		return nil, false
	}
	defer f.Close()

	file, err := syntax.NewParser(f).Parse()
	if err != nil {
		c.reportError(err)
		return nil, false
	}

	return file, true
}

// analyze builds and validates the type registry, lays it out, type checks
// every class, and determines the entry class.
func (c *Compiler) analyze(file *ast.File) (*depm.TypeRegistry, string, bool) {
	reg := depm.NewTypeRegistry()

	// The registry phases stop at their first error.
	for _, phase := range []func() error{
		func() error { return reg.Populate(file) },
		reg.Validate,
		reg.FinalizeLayout,
	} {
		if err := phase(); err != nil {
			c.reportError(err)
			return nil, "", false
		}
	}

	if c.dumpTo != nil {
		reg.Dump(c.dumpTo)
	}

	errs, err := walk.Check(reg, c.profile.ParallelCheck)
	if err != nil {
		c.reportError(err)
		return nil, "", false
	}

	for _, cerr := range errs {
		report.ReportCompileError(c.srcAbsPath, c.srcReprPath, cerr)
	}

	if len(errs) > 0 {
		return nil, "", false
	}

	entry, err := reg.ResolveEntry()
	if err != nil {
		c.reportError(err)
		return nil, "", false
	}

	return reg, entry, true
}

func (c *Compiler) reportError(err error) {
	report.ReportError(c.srcAbsPath, c.srcReprPath, err)
}
