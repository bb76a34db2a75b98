package report

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// ReportICE reports an internal compiler error.  These errors are always
// displayed regardless of log level.
func ReportICE(ierr *InternalError) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++
	displayICE(ierr)
}

// ReportFatal reports a fatal error and exits.  Fatal errors are expected
// errors that result from invalid usage or configuration, not from erroneous
// input code.
func ReportFatal(message string, args ...interface{}) {
	if rep.logLevel > LogLevelSilent {
		rep.m.Lock()
		defer rep.m.Unlock()

		displayFatal(fmt.Sprintf(message, args...))
	}

	os.Exit(1)
}

// ReportCompileError reports a compilation error.  The absPath is the path used
// to read the source excerpt and the reprPath is the path shown to the user.
func ReportCompileError(absPath, reprPath string, cerr *CompileError) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++

	if rep.logLevel > LogLevelSilent {
		displayCompileMessage(true, absPath, reprPath, cerr.Kind, cerr.Span, cerr.Message)
	}
}

// ReportCompileWarning reports a compilation warning.
func ReportCompileWarning(absPath, reprPath string, span *TextSpan, message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.warningCount++

	if rep.logLevel >= LogLevelWarn {
		displayCompileMessage(false, absPath, reprPath, SyntaxError, span, fmt.Sprintf(message, args...))
	}
}

// ReportError reports any error produced by a compilation phase, dispatching
// on whether it is a compile error, an internal error, or a standard Go error.
func ReportError(absPath, reprPath string, err error) {
	var cerr *CompileError
	var ierr *InternalError

	switch {
	case errors.As(err, &cerr):
		ReportCompileError(absPath, reprPath, cerr)
	case errors.As(err, &ierr):
		ReportICE(ierr)
	default:
		ReportStdError(reprPath, err)
	}
}

// ReportStdError reports a non-fatal, standard Go error.
func ReportStdError(reprPath string, err error) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++

	if rep.logLevel > LogLevelSilent {
		displayStdError(reprPath, err)
	}
}

// AnyErrors returns whether or not any errors have been reported.
func AnyErrors() bool {
	return rep.errorCount > 0
}

// -----------------------------------------------------------------------------
// The functions below are purely informational and only display anything when
// the log level is verbose.

// ReportCompileHeader displays the compiler version and target.
func ReportCompileHeader(version, target string) {
	if rep.logLevel == LogLevelVerbose {
		displayCompileHeader(version, target)
	}
}

// ReportBeginPhase starts the spinner for a new compilation phase, ending the
// previous phase successfully if one is still running.
func ReportBeginPhase(phase string) {
	if rep.logLevel == LogLevelVerbose {
		if rep.inPhase {
			displayEndPhase(true)
		}

		rep.inPhase = true
		displayBeginPhase(phase)
	}
}

// ReportEndPhase stops the current phase spinner.  The phase is marked failed
// if any errors have been reported.
func ReportEndPhase() {
	if rep.inPhase {
		rep.inPhase = false
		displayEndPhase(rep.errorCount == 0)
	}
}

// ReportCompilationFinished displays the concluding message for compilation.
func ReportCompilationFinished(outputPath string) {
	if rep.logLevel == LogLevelVerbose {
		displayCompilationFinished(rep.errorCount == 0, outputPath, rep.errorCount, rep.warningCount)
	}
}

// DisplayInfoMessage displays a tagged informational message.
func DisplayInfoMessage(tag, msg string) {
	if rep.logLevel > LogLevelSilent {
		InfoStyleBG.Print(tag)
		InfoColorFG.Println(" " + msg)
	}
}
