// Package monitor tracks a single server-side transcription job by polling
// its status endpoint and translating the reported progress into a
// five-stage view for display.
package monitor

import (
	"context"
	"fmt"
)

// JobID identifies the monitored job. Numeric IDs are carried in their
// decimal string form.
type JobID string

// String returns the string representation of the JobID.
func (id JobID) String() string {
	return string(id)
}

// Status is the raw job status reported by the server.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// IsActive reports whether the job is still queued or running.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusProcessing
}

// IsTerminal reports whether the server considers the job finished.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// IsKnown reports whether the status is one of the four values the monitor
// understands.
func (s Status) IsKnown() bool {
	return s.IsActive() || s.IsTerminal()
}

// StatusReport is the decoded response of a status query.
type StatusReport struct {
	// Progress is the overall percentage. Nil when the server omitted it.
	Progress    *float64 `json:"progress,omitempty" yaml:"progress,omitempty"`
	Status      Status   `json:"status" yaml:"status"`
	Message     string   `json:"message,omitempty" yaml:"message,omitempty"`
	RedirectURL string   `json:"redirect_url,omitempty" yaml:"redirect_url,omitempty"`
}

// Fetcher retrieves the current status of a job.
type Fetcher interface {
	FetchStatus(ctx context.Context, id JobID) (*StatusReport, error)
}

// FetcherFunc adapts an ordinary function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, id JobID) (*StatusReport, error)

// FetchStatus calls f(ctx, id).
func (f FetcherFunc) FetchStatus(ctx context.Context, id JobID) (*StatusReport, error) {
	return f(ctx, id)
}

// RenderFunc receives every resolved view, including the seed view emitted by
// Start. It runs synchronously on the monitor's goroutine.
type RenderFunc func(view StageView)

// Phase is the monitor's state machine position.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePolling
	PhaseCompleted
	PhaseFailed
	// PhaseStopped is entered when polling ends without a terminal server
	// status: Stop, context cancellation, exhausted retries, an expired
	// deadline or an unrecognized status.
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePolling:
		return "polling"
	case PhaseCompleted:
		return "completed"
	case PhaseFailed:
		return "failed"
	case PhaseStopped:
		return "stopped"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// IsFinal reports whether no further transitions can happen.
func (p Phase) IsFinal() bool {
	return p == PhaseCompleted || p == PhaseFailed || p == PhaseStopped
}

// Outcome summarizes a finished monitor run.
type Outcome struct {
	Phase       Phase
	View        StageView
	RedirectURL string
	Message     string
	Polls       int
	Err         error
}
