package monitor

import "math"

// The stage split is a presentation heuristic: the backend reports a single
// percentage and the five stages are carved out of it in equal 20 point bands.
// Nothing on the server guarantees that a band boundary matches a real
// pipeline step.
const (
	StageCount = 5
	bandWidth  = 100.0 / StageCount
	bandScale  = 100.0 / bandWidth

	// StageAllComplete is the stage index reported once the job completed.
	// It sits one past the last band so every band renders as done.
	StageAllComplete = StageCount + 1
)

// MessageSeparator joins the status text and the server message.
const MessageSeparator = " - "

// StageNames labels the bands for display.
var StageNames = [StageCount]string{
	"Preparing audio",
	"Transcribing speech",
	"Identifying speakers",
	"Aligning transcript",
	"Finalizing output",
}

// StageName returns the label of the 1-based band index, or "" when out of
// range.
func StageName(index int) string {
	if index < 1 || index > StageCount {
		return ""
	}
	return StageNames[index-1]
}

var statusMessages = map[Status]string{
	StatusPending:    "awaiting processing",
	StatusProcessing: "processing",
	StatusCompleted:  "complete",
	StatusFailed:     "failed",
}

// StageView is the display state derived from one status report.
type StageView struct {
	StageIndex    int     `json:"stage_index" yaml:"stage_index"`
	StageProgress int     `json:"stage_progress" yaml:"stage_progress"`
	Progress      float64 `json:"progress" yaml:"progress"`
	Status        Status  `json:"status" yaml:"status"`
	StatusMessage string  `json:"status_message" yaml:"status_message"`
	Message       string  `json:"message,omitempty" yaml:"message,omitempty"`
	FailedStage   int     `json:"failed_stage,omitempty" yaml:"failed_stage,omitempty"`
	Terminal      bool    `json:"terminal" yaml:"terminal"`
}

// BandState is the display state of a single band.
type BandState int

const (
	BandWaiting BandState = iota
	BandActive
	BandDone
	BandFailed
)

func (s BandState) String() string {
	switch s {
	case BandActive:
		return "active"
	case BandDone:
		return "done"
	case BandFailed:
		return "failed"
	default:
		return "waiting"
	}
}

// MarshalText encodes the state by name.
func (s BandState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Band describes one of the five stages within a view.
type Band struct {
	Index   int       `json:"index" yaml:"index"`
	Name    string    `json:"name" yaml:"name"`
	State   BandState `json:"state" yaml:"state"`
	Percent int       `json:"percent" yaml:"percent"`
}

// Bands expands the view into per-band state. Bands before the current one are
// done, the current one is active (or failed), later ones are waiting.
func (v StageView) Bands() []Band {
	bands := make([]Band, StageCount)
	for i := range bands {
		idx := i + 1
		b := Band{Index: idx, Name: StageName(idx)}
		switch {
		case idx < v.StageIndex:
			b.State = BandDone
			b.Percent = 100
		case idx == v.StageIndex && v.FailedStage == idx:
			b.State = BandFailed
			b.Percent = v.StageProgress
		case idx == v.StageIndex:
			b.State = BandActive
			b.Percent = v.StageProgress
		default:
			b.State = BandWaiting
		}
		bands[i] = b
	}
	return bands
}

// Resolve maps a progress percentage and status to a StageView. It is pure:
// out-of-range progress is clamped and NaN is read as zero.
func Resolve(progress float64, status Status, message string) StageView {
	p := clampPercent(progress)
	view := StageView{
		Progress:      p,
		Status:        status,
		StatusMessage: StatusMessage(status, message),
		Message:       message,
		Terminal:      status.IsTerminal(),
	}

	switch status {
	case StatusCompleted:
		view.StageIndex = StageAllComplete
		view.StageProgress = 100
		view.Progress = 100
	case StatusFailed:
		view.StageIndex, view.StageProgress = band(p)
		view.FailedStage = view.StageIndex
	default:
		view.StageIndex, view.StageProgress = band(p)
	}
	return view
}

// ResolveReport resolves a report, substituting lastProgress when the report
// carries no progress value.
func ResolveReport(report StatusReport, lastProgress float64) StageView {
	p := lastProgress
	if report.Progress != nil {
		p = *report.Progress
	}
	return Resolve(p, report.Status, report.Message)
}

// StatusMessage returns the display text for a status, with message appended
// when present. Unknown statuses pass through unchanged.
func StatusMessage(status Status, message string) string {
	text, ok := statusMessages[status]
	if !ok {
		text = string(status)
	}
	if message != "" {
		text += MessageSeparator + message
	}
	return text
}

// band returns the 1-based band index and the rounded progress within it.
// Upper bounds are inclusive: 20 is the end of band 1, 21 starts band 2.
func band(p float64) (int, int) {
	idx := int(math.Ceil(p / bandWidth))
	if idx < 1 {
		idx = 1
	}
	if idx > StageCount {
		idx = StageCount
	}
	floor := float64(idx-1) * bandWidth
	within := clampPercent((p - floor) * bandScale)
	return idx, int(math.Round(within))
}

func clampPercent(p float64) float64 {
	switch {
	case math.IsNaN(p):
		return 0
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
