package monitor

import "errors"

var (
	ErrAlreadyStarted     = errors.New("monitor already started")
	ErrNilFetcher         = errors.New("monitor requires a fetcher")
	ErrEmptyJobID         = errors.New("job id is required")
	ErrStopped            = errors.New("monitor stopped")
	ErrRetriesExhausted   = errors.New("too many consecutive poll errors")
	ErrDeadlineExceeded   = errors.New("monitor deadline exceeded")
	ErrUnrecognizedStatus = errors.New("unrecognized job status")
	ErrMissingStatus      = errors.New("status report has no status")
)
