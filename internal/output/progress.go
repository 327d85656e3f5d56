package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/altuslabsxyz/jobwatch/internal/monitor"
	"github.com/altuslabsxyz/jobwatch/internal/tui"
)

// StageBoard renders stage views as [N/M] progress lines, or as one JSON
// object per view in JSON mode. Identical consecutive views are skipped.
type StageBoard struct {
	mu       sync.Mutex
	out      io.Writer
	jobID    string
	jsonMode bool
	live     bool
	spinner  *StatusSpinner
	enc      *json.Encoder

	done   int // highest stage printed as done
	active int // stage whose header was printed last
	failed bool
	last   *monitor.StageView
}

// BoardOption configures a StageBoard.
type BoardOption func(*StageBoard)

// WithJSONLines makes the board emit NDJSON records instead of text.
func WithJSONLines(enabled bool) BoardOption {
	return func(b *StageBoard) { b.jsonMode = enabled }
}

// WithLiveLine animates the active stage on a single rewritten line. Only
// useful when out is a terminal.
func WithLiveLine(enabled bool) BoardOption {
	return func(b *StageBoard) { b.live = enabled }
}

// NewStageBoard creates a board for jobID writing to out.
func NewStageBoard(out io.Writer, jobID string, opts ...BoardOption) *StageBoard {
	b := &StageBoard{out: out, jobID: jobID}
	for _, opt := range opts {
		opt(b)
	}
	if b.jsonMode {
		b.enc = json.NewEncoder(out)
	}
	if b.live && !b.jsonMode {
		b.spinner = NewStatusSpinnerTo(out)
	}
	return b
}

// viewRecord is the NDJSON shape of one rendered view.
type viewRecord struct {
	Type  string `json:"type"`
	JobID string `json:"job_id"`
	Stage string `json:"stage,omitempty"`
	monitor.StageView
	Bands []monitor.Band `json:"bands"`
}

// Render draws view. It satisfies monitor.RenderFunc.
func (b *StageBoard) Render(view monitor.StageView) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.last != nil && *b.last == view {
		return
	}
	v := view
	b.last = &v

	if b.jsonMode {
		_ = b.enc.Encode(viewRecord{
			Type:      "view",
			JobID:     b.jobID,
			Stage:     monitor.StageName(view.StageIndex),
			StageView: view,
			Bands:     view.Bands(),
		})
		return
	}

	lines := b.transitionLines(view)
	if len(lines) > 0 && b.spinner != nil {
		b.spinner.Stop()
	}
	for _, line := range lines {
		fmt.Fprintln(b.out, line)
	}

	if view.Terminal || view.StageIndex > monitor.StageCount {
		return
	}

	detail := b.detail(view)
	if b.spinner == nil {
		fmt.Fprintln(b.out, "      "+detail)
		return
	}
	if b.spinner.Running() {
		b.spinner.Update(detail)
	} else {
		b.spinner.Start(detail)
	}
}

// outcomeRecord is the final NDJSON record of a watch.
type outcomeRecord struct {
	Type        string        `json:"type"`
	JobID       string        `json:"job_id"`
	Phase       monitor.Phase `json:"phase"`
	Progress    float64       `json:"progress"`
	StageIndex  int           `json:"stage_index"`
	Stage       string        `json:"stage,omitempty"`
	FailedStage int           `json:"failed_stage,omitempty"`
	Message     string        `json:"message,omitempty"`
	RedirectURL string        `json:"redirect_url,omitempty"`
	Polls       int           `json:"polls"`
	Error       string        `json:"error,omitempty"`
}

// Finish writes the outcome record in JSON mode and stops the live line.
// Text mode leaves the summary to the caller.
func (b *StageBoard) Finish(outcome monitor.Outcome) {
	b.Close()
	if !b.jsonMode {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	rec := outcomeRecord{
		Type:        "outcome",
		JobID:       b.jobID,
		Phase:       outcome.Phase,
		Progress:    outcome.View.Progress,
		StageIndex:  outcome.View.StageIndex,
		Stage:       monitor.StageName(outcome.View.StageIndex),
		FailedStage: outcome.View.FailedStage,
		Message:     outcome.Message,
		RedirectURL: outcome.RedirectURL,
		Polls:       outcome.Polls,
	}
	if outcome.Err != nil {
		rec.Error = outcome.Err.Error()
	}
	_ = b.enc.Encode(rec)
}

// Close stops the live line.
func (b *StageBoard) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.spinner != nil {
		b.spinner.Stop()
	}
}

func (b *StageBoard) transitionLines(view monitor.StageView) []string {
	var lines []string
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)
	red := color.New(color.FgRed)

	doneUpTo := view.StageIndex - 1
	if doneUpTo > monitor.StageCount {
		doneUpTo = monitor.StageCount
	}
	for s := b.done + 1; s <= doneUpTo; s++ {
		lines = append(lines, green.Sprintf("  %s [%d/%d] %s", tui.BandIcon(monitor.BandDone), s, monitor.StageCount, monitor.StageName(s)))
	}
	if doneUpTo > b.done {
		b.done = doneUpTo
	}

	switch {
	case view.FailedStage > 0:
		if !b.failed {
			b.failed = true
			lines = append(lines, red.Sprintf("  %s [%d/%d] %s failed at %d%% · %s",
				tui.BandIcon(monitor.BandFailed), view.FailedStage, monitor.StageCount, monitor.StageName(view.FailedStage),
				view.StageProgress, view.StatusMessage))
		}
	case view.StageIndex > monitor.StageCount:
		lines = append(lines, green.Sprintf("  %s %s", Percent(view.Progress), view.StatusMessage))
	case view.StageIndex != b.active:
		b.active = view.StageIndex
		lines = append(lines, cyan.Sprintf("  %s [%d/%d] %s", tui.BandIcon(monitor.BandActive), view.StageIndex, monitor.StageCount, monitor.StageName(view.StageIndex)))
	}
	return lines
}

func (b *StageBoard) detail(view monitor.StageView) string {
	return fmt.Sprintf("%s %3d%%  (%s overall) %s",
		Bar(view.StageProgress, BarWidth), view.StageProgress, Percent(view.Progress), view.StatusMessage)
}
