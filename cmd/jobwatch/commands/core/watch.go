package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/jobwatch/cmd/jobwatch/shared"
	"github.com/altuslabsxyz/jobwatch/internal/config"
	"github.com/altuslabsxyz/jobwatch/internal/history"
	"github.com/altuslabsxyz/jobwatch/internal/monitor"
	"github.com/altuslabsxyz/jobwatch/internal/output"
	"github.com/altuslabsxyz/jobwatch/internal/tui"
	"github.com/altuslabsxyz/jobwatch/internal/tui/views"
	"github.com/altuslabsxyz/jobwatch/types/ctxconfig"
)

const (
	flagStatus   = "status"
	flagProgress = "progress"
)

// watchOptions holds the flags of the watch command.
type watchOptions struct {
	status   string
	progress float64
}

// seed is the state the monitor starts from.
type seed struct {
	status   monitor.Status
	progress float64
	source   string
}

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch [job-id]",
		Short: "Watch a job until it completes or fails",
		Long: `Watch polls the status endpoint of a transcription job and shows which of
the five processing stages it is in until the server reports completed or
failed.

The initial state comes from --status/--progress, otherwise from the last
recorded observation of the job, otherwise pending at 0%.

Exit codes:
  0  job completed
  1  error
  2  job failed on the server
  3  stopped before the job finished (interrupt, deadline, too many errors)

Examples:
  # Watch job 42
  jobwatch watch 42

  # Start from a known state, poll every 5 seconds
  jobwatch watch 42 --status processing --progress 30 --interval 5s

  # Give up after 10 minutes or 5 failed polls in a row
  jobwatch watch 42 --deadline 10m --max-errors 5

  # Emit one JSON object per stage change
  jobwatch watch 42 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.status, flagStatus, "",
		"Initial status if already known (pending, processing, completed, failed)")
	cmd.Flags().Float64Var(&opts.progress, flagProgress, 0,
		"Initial overall progress percentage if already known")
	shared.AddServerFlags(cmd)
	shared.AddPollingFlags(cmd)
	shared.AddHistoryFlags(cmd)
	shared.AddUIFlag(cmd)

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, opts *watchOptions) error {
	ctx := cmd.Context()
	cfg := ctxconfig.FromContextOrDefault(ctx)
	logger := output.DefaultLogger
	out := cmd.OutOrStdout()

	store, err := shared.OpenHistory(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	interactive := config.IsInteractive() && !cfg.JSONMode()
	jobID, err := shared.ResolveJobID(args, interactive, output.NewPrompter(), store)
	if err != nil {
		return err
	}
	id := monitor.JobID(jobID)

	client, err := shared.NewStatusClient(cfg)
	if err != nil {
		return err
	}

	start, err := resolveSeed(cmd, opts, store, id)
	if err != nil {
		return err
	}
	logger.Debug("Starting from %s at %s (%s)", start.status, output.Percent(start.progress), start.source)
	logger.Debug("Polling %s", client.StatusURL(id))

	interactiveUI := useTUI(cfg, out)

	diagOut := cmd.ErrOrStderr()
	if interactiveUI {
		// The TUI owns the terminal; diagnostics go to a file instead.
		f, err := shared.OpenLogFile(cfg)
		if err != nil {
			diagOut = io.Discard
		} else {
			defer f.Close()
			diagOut = f
		}
	}
	diag := shared.NewDiagnosticLogger(diagOut, cfg)

	sessionID := uuid.NewString()
	mcfg := shared.MonitorConfig(cfg, diag)
	mcfg.OnReport = func(report monitor.StatusReport) {
		if store == nil {
			return
		}
		if _, err := store.Record(id, report, sessionID); err != nil {
			diag.Error("failed to record observation", "job", jobID, "err", err)
		}
	}

	if !interactiveUI && !cfg.JSONMode() {
		logger.Bold("Watching job %s on %s", jobID, cfg.Server())
	}

	var outcome monitor.Outcome
	if interactiveUI {
		outcome, err = watchTUI(ctx, out, cfg, id, client, mcfg, start)
	} else {
		outcome, err = watchLines(ctx, out, cfg, id, client, mcfg, start)
	}
	if err != nil {
		return err
	}

	return reportOutcome(logger, cfg, jobID, outcome, interactiveUI)
}

// resolveSeed picks the initial status and progress. Flags win over the
// last recorded observation, which wins over pending at 0%.
func resolveSeed(cmd *cobra.Command, opts *watchOptions, store *history.Store, id monitor.JobID) (seed, error) {
	s := seed{status: monitor.StatusPending, source: "default"}

	if store != nil {
		last, err := store.Last(id)
		switch {
		case err == nil:
			if last.Progress != nil {
				s.progress = *last.Progress
			}
			// A recorded terminal status is re-checked rather than trusted.
			if status := monitor.Status(last.Status); status.IsActive() {
				s.status = status
			}
			s.source = "history"
		case !errors.Is(err, history.ErrNotFound):
			return s, err
		}
	}

	if cmd.Flags().Changed(flagProgress) {
		if opts.progress < 0 || opts.progress > 100 {
			return s, fmt.Errorf("--%s must be between 0 and 100, got %v", flagProgress, opts.progress)
		}
		s.progress = opts.progress
		s.source = "flags"
	}
	if cmd.Flags().Changed(flagStatus) {
		status := monitor.Status(strings.ToLower(strings.TrimSpace(opts.status)))
		if !status.IsKnown() {
			return s, fmt.Errorf("invalid --%s %q (valid: pending, processing, completed, failed)", flagStatus, opts.status)
		}
		s.status = status
		s.source = "flags"
	}

	return s, nil
}

// useTUI reports whether the interactive board should be used.
func useTUI(cfg *ctxconfig.Config, out io.Writer) bool {
	switch cfg.UIMode() {
	case config.UITUI:
		return true
	case config.UILine:
		return false
	default:
		return !cfg.JSONMode() && tui.IsTerminal(out)
	}
}

// watchLines runs the monitor with the line renderer.
func watchLines(ctx context.Context, out io.Writer, cfg *ctxconfig.Config, id monitor.JobID,
	fetcher monitor.Fetcher, mcfg *monitor.Config, start seed) (monitor.Outcome, error) {
	board := output.NewStageBoard(out, string(id),
		output.WithJSONLines(cfg.JSONMode()),
		output.WithLiveLine(!cfg.JSONMode() && tui.IsTerminal(out)),
	)

	m, err := monitor.New(id, fetcher, board.Render, mcfg)
	if err != nil {
		return monitor.Outcome{}, err
	}
	if err := m.Start(ctx, start.status, start.progress); err != nil {
		return monitor.Outcome{}, err
	}

	// The monitor exits on its own when ctx is cancelled.
	outcome, err := m.Wait(context.Background())
	if err != nil {
		return outcome, err
	}
	board.Finish(outcome)
	return outcome, nil
}

// watchTUI runs the monitor behind the bubbletea board. The program must be
// running before the render callback can deliver views, so the monitor is
// started from a goroutine.
func watchTUI(ctx context.Context, out io.Writer, cfg *ctxconfig.Config, id monitor.JobID,
	fetcher monitor.Fetcher, mcfg *monitor.Config, start seed) (monitor.Outcome, error) {
	var m *monitor.Monitor
	model := views.NewWatchModel(string(id), cfg.Server(), func() { m.Stop() })
	p := tui.NewInlineProgram(model, out)

	m, err := monitor.New(id, fetcher, func(view monitor.StageView) {
		p.Send(views.ViewMsg{View: view})
	}, mcfg)
	if err != nil {
		return monitor.Outcome{}, err
	}

	go func() {
		if err := m.Start(ctx, start.status, start.progress); err != nil {
			p.Send(views.FinishedMsg{Outcome: monitor.Outcome{Phase: monitor.PhaseStopped, Err: err}})
			return
		}
		outcome, _ := m.Wait(context.Background())
		p.Send(views.FinishedMsg{Outcome: outcome})
	}()

	_, runErr := p.Run()

	m.Stop()
	outcome, err := m.Wait(context.Background())
	if runErr != nil {
		return outcome, fmt.Errorf("display error: %w", runErr)
	}
	return outcome, err
}

// reportOutcome prints the final result and maps it to an exit code. The TUI
// already shows the result box, so success is not repeated there.
func reportOutcome(logger output.LoggerInterface, cfg *ctxconfig.Config, jobID string, outcome monitor.Outcome, fromTUI bool) error {
	switch outcome.Phase {
	case monitor.PhaseCompleted:
		if !fromTUI {
			logger.Success("Job %s completed", jobID)
			if outcome.RedirectURL != "" {
				logger.Cyan("Transcript: %s", outcome.RedirectURL)
			}
		}
		return nil

	case monitor.PhaseFailed:
		logger.PrintJobError(jobErrorInfo(cfg, jobID, outcome, "Check the server logs, then upload the file again."))
		return shared.NewReportedError(shared.ExitCodeJobFailed, fmt.Errorf("job %s failed", jobID))

	default:
		hint := fmt.Sprintf("Resume with: jobwatch watch %s", jobID)
		if errors.Is(outcome.Err, monitor.ErrUnrecognizedStatus) {
			hint = "The server reported a status this client does not understand."
		}
		logger.PrintJobError(jobErrorInfo(cfg, jobID, outcome, hint))
		return shared.NewReportedError(shared.ExitCodeStopped, fmt.Errorf("stopped watching job %s", jobID))
	}
}

func jobErrorInfo(cfg *ctxconfig.Config, jobID string, outcome monitor.Outcome, hint string) *output.JobErrorInfo {
	view := outcome.View
	info := &output.JobErrorInfo{
		JobID:      jobID,
		Server:     cfg.Server(),
		Phase:      outcome.Phase.String(),
		StageCount: monitor.StageCount,
		Progress:   view.Progress,
		Message:    outcome.Message,
		Err:        outcome.Err,
		Polls:      outcome.Polls,
		Hint:       hint,
	}

	stage := view.StageIndex
	if view.FailedStage > 0 {
		stage = view.FailedStage
	}
	if stage >= 1 && stage <= monitor.StageCount {
		info.StageIndex = stage
		info.StageName = monitor.StageName(stage)
	}
	return info
}
