package cmd

import (
	"cayc/common"
	"cayc/report"
	"os"

	"github.com/ComedicChimera/olive"
)

// logLevelNames lists the accepted spellings of the log level argument.
var logLevelNames = []string{"silent", "error", "warn", "verbose"}

// Execute is the main entry point for the `cayc` CLI utility.  It returns the
// process exit code.
func Execute() int {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("cayc", "cayc compiles a source file into LLVM IR", true)

	buildCmd := cli.AddSubcommand("build", "compile a source file", true)
	buildCmd.AddPrimaryArg("source-path", "the path to the source file to compile", true)
	buildCmd.AddStringArg("output", "o", "the path to write the LLVM IR to", false)
	buildCmd.AddStringArg("profile", "p", "the path to the build profile", false)
	buildCmd.AddSelectorArg("loglevel", "ll", "the compiler log level", false, logLevelNames)
	buildCmd.AddFlag("dump-registry", "dr", "print the type registry after layout")

	cli.AddSubcommand("version", "print the cayc version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.ReportFatal("CLI usage error: %s", err.Error())
	}

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		return execBuildCommand(subResult)
	case "version":
		report.DisplayInfoMessage("cayc version", common.CaycVersion)
	}

	return 0
}

// execBuildCommand executes the build subcommand and handles all errors.
func execBuildCommand(result *olive.ArgParseResult) int {
	srcPath, _ := result.PrimaryArg()

	profile, err := buildProfile(srcPath, result)
	if err != nil {
		report.ReportFatal("%s", err.Error())
	}

	report.InitReporter(profile.LogLevel)

	c, err := NewCompiler(srcPath, profile)
	if err != nil {
		report.ReportFatal("%s", err.Error())
	}

	if result.HasFlag("dump-registry") {
		c.dumpTo = os.Stdout
	}

	ok := c.Compile()

	// end whatever the final compilation phase was and display the concluding
	// message of compilation.
	report.ReportEndPhase()
	report.ReportCompilationFinished(profile.OutputPath)

	if !ok {
		return 1
	}

	return 0
}

// buildProfile assembles the build profile from the defaults, the profile
// file, and the command-line arguments.
func buildProfile(srcPath string, result *olive.ArgParseResult) (*BuildProfile, error) {
	profile := DefaultProfile(srcPath)

	profPath, ok := findProfile(srcPath)
	if arg, given := result.Arguments["profile"]; given {
		profPath, ok = arg.(string), true
	}

	if ok {
		if err := LoadProfile(profile, profPath); err != nil {
			return nil, err
		}
	}

	if arg, given := result.Arguments["output"]; given {
		profile.OutputPath = arg.(string)
	}

	if arg, given := result.Arguments["loglevel"]; given {
		profile.LogLevel = report.LogLevelNames[arg.(string)]
	}

	return profile, nil
}
