// Package shared holds helpers used by several jobwatch commands.
package shared

import (
	"errors"
	"fmt"

	"github.com/altuslabsxyz/jobwatch/internal/output"
)

// Process exit codes.
const (
	ExitCodeOK        = 0
	ExitCodeError     = 1
	ExitCodeJobFailed = 2
	ExitCodeStopped   = 3
)

// ExitError carries a specific exit code. Reported errors have already been
// shown to the user and are not printed again.
type ExitError struct {
	Code     int
	Err      error
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewReportedError returns an ExitError for a failure already shown to the user.
func NewReportedError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err, Reported: true}
}

// HandleError prints err unless it was already reported and returns the
// process exit code.
func HandleError(logger output.LoggerInterface, err error) int {
	if err == nil {
		return ExitCodeOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if !exitErr.Reported {
			logger.Error("%v", exitErr)
		}
		return exitErr.Code
	}

	if errors.Is(err, output.ErrCancelled) {
		logger.Info("Operation cancelled.")
		return ExitCodeError
	}

	logger.Error("%v", err)
	return ExitCodeError
}
