package exit

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/jpath/internal/config"
	"github.com/jacoelho/jpath/internal/document"
	"github.com/jacoelho/jpath/internal/output"
	"github.com/jacoelho/jpath/internal/parser"
	"github.com/jacoelho/jpath/internal/standard"
)

const (
	CodeSuccess = 0
	CodeFailure = 1 // input, evaluation or mutation failed
	CodeUsage   = 2 // the command line or the expression is wrong
)

// ErrUsage marks command-line mistakes such as a wrong number of arguments.
var ErrUsage = errors.New("usage")

// Result holds the output destination and exit code for program termination.
type Result struct {
	Output   io.Writer
	ExitCode int
	Message  string
}

// Print writes the result message to the configured output destination.
func (r *Result) Print() {
	fmt.Fprint(r.Output, r.Message)
}

// Success creates a successful exit result that outputs to stdout with exit code 0.
func Success(message string) *Result {
	return &Result{
		Output:   os.Stdout,
		ExitCode: CodeSuccess,
		Message:  message,
	}
}

// Error creates an error exit result that outputs to stderr with exit code 1.
func Error(message string) *Result {
	return &Result{
		Output:   os.Stderr,
		ExitCode: CodeFailure,
		Message:  message,
	}
}

// Errorf creates an error exit result with formatted message.
func Errorf(format string, a ...any) *Result {
	return Error(fmt.Sprintf(format, a...))
}

// FromError classifies err: usage mistakes exit with CodeUsage, everything
// else with CodeFailure.
func FromError(err error) *Result {
	result := Errorf("jpath: %v\n", err)
	if isUsage(err) {
		result.ExitCode = CodeUsage
	}
	return result
}

func isUsage(err error) bool {
	for _, target := range []error{
		parser.ErrSyntax,
		standard.ErrSyntax,
		standard.ErrEmptyQuery,
		config.ErrNoExpression,
		config.ErrIncompatibleFlags,
		config.ErrInvalidValue,
		document.ErrUnknownFormat,
		output.ErrUnknownFormat,
		ErrUsage,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
