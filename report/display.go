package report

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = pterm.FgLightBlue
	InfoStyleBG    = pterm.NewStyle(pterm.BgLightBlue, pterm.FgBlack)
)

// displayICE displays an internal compiler error message.  The stack trace is
// only shown at the verbose log level.
func displayICE(ierr *InternalError) {
	fmt.Print("\n")
	ErrorStyleBG.Print("Internal Compiler Error")
	ErrorColorFG.Println(" " + ierr.cause.Error())
	fmt.Println("This error was not supposed to happen: please open an issue.")

	if rep.logLevel == LogLevelVerbose {
		fmt.Println(ierr.StackTrace())
	}

	fmt.Println()
}

// displayFatal displays a fatal error message.
func displayFatal(message string) {
	fmt.Print("\n")
	ErrorStyleBG.Print("Fatal Error")
	ErrorColorFG.Println(" " + message)
	fmt.Println()
}

// displayCompileMessage displays a compilation error or warning.
func displayCompileMessage(isErr bool, absPath, reprPath string, kind ErrorKind, span *TextSpan, message string) {
	fmt.Print("\n")

	if isErr {
		ErrorStyleBG.Print(" " + kind.String() + " ")
	} else {
		WarnStyleBG.Print(" warning ")
	}
	fmt.Print(" ")

	if span == nil {
		InfoColorFG.Print(reprPath)
		fmt.Printf(": %s\n\n", message)
	} else {
		InfoColorFG.Printf("%s:%d:%d", reprPath, span.StartLine+1, span.StartCol+1)
		fmt.Printf(": %s\n\n", message)
		displaySourceText(absPath, span)
	}
}

// displayStdError displays a standard Go error.
func displayStdError(reprPath string, err error) {
	fmt.Print("\n")
	ErrorStyleBG.Print(" error ")
	fmt.Print(" ")
	InfoColorFG.Print(reprPath)
	fmt.Printf(": %s\n\n", err)
}

// -----------------------------------------------------------------------------

// displaySourceText displays a segment of source text defined by a text span
// with the spanned text underlined by carets.
func displaySourceText(absPath string, span *TextSpan) {
	file, err := os.Open(absPath)
	if err != nil {
		// The message has already been displayed: the excerpt is a courtesy.
		return
	}
	defer file.Close()

	var lines []string
	sc := bufio.NewScanner(file)
	for ln := 0; sc.Scan(); ln++ {
		if span.StartLine <= ln && ln <= span.EndLine {
			lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
		}
	}

	if sc.Err() != nil || len(lines) == 0 {
		return
	}

	minIndent := math.MaxInt
	for _, line := range lines {
		indent := len(line) - len(strings.TrimLeft(line, " "))
		if indent < minIndent {
			minIndent = indent
		}
	}

	lineNumWidth := len(strconv.Itoa(span.EndLine + 1))
	lineNumFmt := "%-" + strconv.Itoa(lineNumWidth) + "v | "

	for i, line := range lines {
		InfoColorFG.Printf(lineNumFmt, i+span.StartLine+1)
		fmt.Println(line[minIndent:])
		fmt.Print(strings.Repeat(" ", lineNumWidth), " | ")

		start := minIndent
		if i == 0 {
			start = clamp(span.StartCol, minIndent, len(line))
		}

		end := len(line)
		if i == len(lines)-1 {
			end = clamp(span.EndCol, start, len(line))
		}

		fmt.Print(strings.Repeat(" ", start-minIndent))
		ErrorColorFG.Println(strings.Repeat("^", max(end-start, 1)))
	}

	fmt.Println()
}

func clamp(n, lo, hi int) int {
	return min(max(n, lo), hi)
}

// -----------------------------------------------------------------------------

// displayCompileHeader displays the compiler version and target before
// compilation begins.
func displayCompileHeader(version, target string) {
	fmt.Print("cayc ")
	InfoColorFG.Print("v" + version)
	fmt.Print(" -- target: ")
	InfoColorFG.Println(target)
}

var (
	phaseSpinner   *pterm.SpinnerPrinter
	currentPhase   string
	phaseStartTime time.Time
)

const maxPhaseLength = len("Type Checking")

// displayBeginPhase displays the beginning of a compilation phase.
func displayBeginPhase(phase string) {
	currentPhase = phase
	phaseText := phase + "..." + strings.Repeat(" ", maxPhaseLength-len(phase)+2)
	phaseSpinner = pterm.DefaultSpinner.WithStyle(pterm.NewStyle(InfoColorFG))

	phaseSpinner.SuccessPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: SuccessStyleBG,
			Text:  "Done",
		},
	}

	phaseSpinner.FailPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: ErrorStyleBG,
			Text:  "Fail",
		},
	}

	phaseSpinner, _ = phaseSpinner.Start(phaseText)
	phaseStartTime = time.Now()
}

// displayEndPhase displays the end of a compilation phase.
func displayEndPhase(success bool) {
	if phaseSpinner == nil {
		return
	}

	padding := strings.Repeat(" ", maxPhaseLength-len(currentPhase)+2)
	if success {
		phaseSpinner.Success(currentPhase+padding, fmt.Sprintf("(%.3fs)", time.Since(phaseStartTime).Seconds()))
	} else {
		phaseSpinner.Fail(currentPhase + padding)
	}

	phaseSpinner = nil
}

// displayCompilationFinished displays the closing message of compilation.
func displayCompilationFinished(success bool, outputPath string, errorCount, warningCount int) {
	fmt.Print("\n")

	if success {
		SuccessColorFG.Print("Compilation successful! ")
		fmt.Print("Output: ")
		InfoColorFG.Println(outputPath)
	} else {
		ErrorColorFG.Println("Compilation failed.")
	}

	fmt.Print("(")
	switch errorCount {
	case 0:
		SuccessColorFG.Print(0)
		fmt.Print(" errors, ")
	case 1:
		ErrorColorFG.Print(1)
		fmt.Print(" error, ")
	default:
		ErrorColorFG.Print(errorCount)
		fmt.Print(" errors, ")
	}

	switch warningCount {
	case 0:
		SuccessColorFG.Print(0)
		fmt.Println(" warnings)")
	case 1:
		WarnColorFG.Print(1)
		fmt.Println(" warning)")
	default:
		WarnColorFG.Print(warningCount)
		fmt.Println(" warnings)")
	}
}
