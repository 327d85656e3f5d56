package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Logger provides colored output functions for CLI feedback.
type Logger struct {
	out      io.Writer
	errOut   io.Writer
	noColor  bool
	verbose  bool
	jsonMode bool
}

// NewLogger creates a new Logger instance.
func NewLogger() *Logger {
	return &Logger{
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

// NewLoggerWithWriters creates a Logger writing to the given writers.
func NewLoggerWithWriters(out, errOut io.Writer) *Logger {
	return &Logger{
		out:    out,
		errOut: errOut,
	}
}

// SetNoColor disables colored output.
func (l *Logger) SetNoColor(noColor bool) {
	l.noColor = noColor
	color.NoColor = noColor
}

// SetVerbose enables verbose logging.
func (l *Logger) SetVerbose(verbose bool) {
	l.verbose = verbose
}

// SetJSONMode enables JSON output mode (suppresses text output).
func (l *Logger) SetJSONMode(jsonMode bool) {
	l.jsonMode = jsonMode
}

// IsVerbose reports whether verbose logging is enabled.
func (l *Logger) IsVerbose() bool {
	return l.verbose
}

// IsJSONMode reports whether text output is suppressed.
func (l *Logger) IsJSONMode() bool {
	return l.jsonMode
}

// Info prints an informational message in default color.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.jsonMode {
		return
	}
	fmt.Fprintf(l.out, format+"\n", args...)
}

// Warn prints a warning message in yellow.
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.jsonMode {
		return
	}
	yellow := color.New(color.FgYellow)
	yellow.Fprintf(l.errOut, "Warning: "+format+"\n", args...)
}

// Error prints an error message in red. Errors are printed in JSON mode too
// since they go to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	red := color.New(color.FgRed)
	red.Fprintf(l.errOut, "Error: "+format+"\n", args...)
}

// Success prints a success message in green with checkmark.
func (l *Logger) Success(format string, args ...interface{}) {
	if l.jsonMode {
		return
	}
	green := color.New(color.FgGreen)
	green.Fprintf(l.out, "✓ "+format+"\n", args...)
}

// Debug prints a debug message if verbose mode is enabled.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.jsonMode || !l.verbose {
		return
	}
	gray := color.New(color.FgHiBlack)
	gray.Fprintf(l.errOut, "[DEBUG] "+format+"\n", args...)
}

// Bold prints a message in bold.
func (l *Logger) Bold(format string, args ...interface{}) {
	if l.jsonMode {
		return
	}
	bold := color.New(color.Bold)
	bold.Fprintf(l.out, format+"\n", args...)
}

// Cyan prints a message in cyan (for highlights).
func (l *Logger) Cyan(format string, args ...interface{}) {
	if l.jsonMode {
		return
	}
	cyan := color.New(color.FgCyan)
	cyan.Fprintf(l.out, format+"\n", args...)
}

// PrintJobError prints a framed summary of a job that did not complete.
func (l *Logger) PrintJobError(info *JobErrorInfo) {
	if info == nil {
		return
	}
	red := color.New(color.FgRed)
	bold := color.New(color.Bold)

	fmt.Fprintln(l.errOut, RedSeparator())
	red.Fprintf(l.errOut, "Job %s %s\n", info.JobID, info.Headline())
	fmt.Fprintln(l.errOut, RedSeparator())

	if info.StageIndex > 0 {
		fmt.Fprintf(l.errOut, "  %s %d/%d", bold.Sprint("Stage:"), info.StageIndex, info.StageCount)
		if info.StageName != "" {
			fmt.Fprintf(l.errOut, " (%s)", info.StageName)
		}
		fmt.Fprintln(l.errOut)
	}
	fmt.Fprintf(l.errOut, "  %s %.1f%%\n", bold.Sprint("Progress:"), info.Progress)
	if info.Message != "" {
		fmt.Fprintf(l.errOut, "  %s %s\n", bold.Sprint("Message:"), info.Message)
	}
	if info.Err != nil {
		fmt.Fprintf(l.errOut, "  %s %v\n", bold.Sprint("Cause:"), info.Err)
	}
	if l.verbose {
		if info.Server != "" {
			fmt.Fprintf(l.errOut, "  %s %s\n", bold.Sprint("Server:"), info.Server)
		}
		fmt.Fprintf(l.errOut, "  %s %d\n", bold.Sprint("Polls:"), info.Polls)
	}
	if info.Hint != "" {
		yellow := color.New(color.FgYellow)
		yellow.Fprintf(l.errOut, "  Hint: %s\n", info.Hint)
	}
}

// DefaultLogger is the package-level default logger instance.
var DefaultLogger = NewLogger()

// Info prints an informational message using the default logger.
func Info(format string, args ...interface{}) {
	DefaultLogger.Info(format, args...)
}

// Warn prints a warning message using the default logger.
func Warn(format string, args ...interface{}) {
	DefaultLogger.Warn(format, args...)
}

// Success prints a success message using the default logger.
func Success(format string, args ...interface{}) {
	DefaultLogger.Success(format, args...)
}
