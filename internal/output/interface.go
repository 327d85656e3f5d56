package output

// LoggerInterface defines the logging interface for commands.
// This allows for dependency injection and easier testing.
type LoggerInterface interface {
	// Core logging methods
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	Debug(format string, args ...interface{})
	Success(format string, args ...interface{})

	// Highlighted output
	Bold(format string, args ...interface{})
	Cyan(format string, args ...interface{})

	// Configuration methods
	SetVerbose(verbose bool)
	SetNoColor(noColor bool)
	SetJSONMode(jsonMode bool)
	IsVerbose() bool
	IsJSONMode() bool

	// Error info printing
	PrintJobError(info *JobErrorInfo)
}

// Verify that Logger implements LoggerInterface at compile time.
var _ LoggerInterface = (*Logger)(nil)
