package core

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/jobwatch/cmd/jobwatch/shared"
	"github.com/altuslabsxyz/jobwatch/internal/config"
	"github.com/altuslabsxyz/jobwatch/internal/history"
	"github.com/altuslabsxyz/jobwatch/internal/monitor"
	"github.com/altuslabsxyz/jobwatch/internal/output"
	"github.com/altuslabsxyz/jobwatch/internal/tui"
	"github.com/altuslabsxyz/jobwatch/internal/tui/components"
	"github.com/altuslabsxyz/jobwatch/types/ctxconfig"
)

// ErrHistoryDisabled is returned when history is turned off in the config.
var ErrHistoryDisabled = errors.New("history is disabled (set history = true in config.toml)")

// historyOptions holds the flags of the history command.
type historyOptions struct {
	format string
	limit  int
	delete bool
	clear  bool
	yes    bool
}

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history [job-id]",
		Short: "Show recorded job status history",
		Long: `History lists the status observations recorded while watching or checking
jobs. Without a job ID it lists every job with its latest status.

Examples:
  # List watched jobs
  jobwatch history

  # Show the observations of job 42, newest last
  jobwatch history 42

  # Forget job 42, or everything
  jobwatch history 42 --delete
  jobwatch history --clear --yes`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "output", "o", "", "Output format: table, json or yaml")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Show only the most recent N observations (0 = all)")
	cmd.Flags().BoolVar(&opts.delete, "delete", false, "Delete the history of the given job")
	cmd.Flags().BoolVar(&opts.clear, "clear", false, "Delete the history of every job")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.Flags().String(config.FlagHistoryBackend, "", "History backend: goleveldb, bolt or memory")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string, opts *historyOptions) error {
	cfg := ctxconfig.FromContextOrDefault(cmd.Context())
	out := cmd.OutOrStdout()

	f, err := shared.ParseFormat(opts.format, cfg.JSONMode())
	if err != nil {
		return err
	}
	if opts.delete && len(args) == 0 {
		return fmt.Errorf("--delete requires a job ID")
	}
	if opts.delete && opts.clear {
		return fmt.Errorf("--delete and --clear cannot be used together")
	}
	if opts.limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	store, err := shared.OpenHistory(cfg)
	if err != nil {
		return err
	}
	if store == nil {
		return ErrHistoryDisabled
	}
	defer store.Close()

	switch {
	case opts.clear:
		return clearHistory(store, opts.yes)
	case opts.delete:
		return deleteHistory(store, args[0], opts.yes)
	case len(args) == 1:
		return showJobHistory(out, f, store, args[0], opts.limit)
	default:
		return showJobs(out, f, store)
	}
}

func confirm(label string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if !config.IsInteractive() {
		return false, fmt.Errorf("refusing to delete without confirmation; pass --yes")
	}
	return output.NewPrompter().Confirm(label)
}

func clearHistory(store *history.Store, yes bool) error {
	ok, err := confirm("Delete the history of every job", yes)
	if err != nil || !ok {
		return err
	}
	n, err := store.Clear()
	if err != nil {
		return err
	}
	output.Success("Deleted %d observations", n)
	return nil
}

func deleteHistory(store *history.Store, jobID string, yes bool) error {
	ok, err := confirm(fmt.Sprintf("Delete the history of job %s", jobID), yes)
	if err != nil || !ok {
		return err
	}
	n, err := store.Delete(monitor.JobID(jobID))
	if err != nil {
		return err
	}
	output.Success("Deleted %d observations of job %s", n, jobID)
	return nil
}

func showJobs(out io.Writer, f shared.Format, store *history.Store) error {
	jobs, err := store.Jobs()
	if err != nil {
		return err
	}
	if f != shared.FormatTable {
		return shared.WriteStructured(out, f, jobs)
	}

	table := components.NewTableModel([]string{"JOB", "STATUS", "PROGRESS", "OBSERVATIONS", "LAST SEEN"})
	rows := make([][]string, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, []string{
			j.JobID,
			j.LastStatus,
			progressCell(j.LastProgress),
			fmt.Sprintf("%d", j.Observations),
			j.LastSeen.Local().Format(time.DateTime),
		})
	}
	table.SetRows(rows)
	return tui.RenderTo(out, table)
}

func showJobHistory(out io.Writer, f shared.Format, store *history.Store, jobID string, limit int) error {
	obs, err := store.List(monitor.JobID(jobID))
	if err != nil {
		return err
	}
	if len(obs) == 0 {
		return fmt.Errorf("%w for job %s", history.ErrNotFound, jobID)
	}
	if limit > 0 && len(obs) > limit {
		obs = obs[len(obs)-limit:]
	}
	if f != shared.FormatTable {
		return shared.WriteStructured(out, f, obs)
	}

	table := components.NewTableModel([]string{"OBSERVED", "STATUS", "PROGRESS", "STAGE", "MESSAGE"})
	rows := make([][]string, 0, len(obs))
	var lastProgress float64
	for _, o := range obs {
		view := monitor.ResolveReport(o.Report(), lastProgress)
		lastProgress = view.Progress
		rows = append(rows, []string{
			o.ObservedAt.Local().Format(time.DateTime),
			o.Status,
			progressCell(o.Progress),
			stageCell(view),
			o.Message,
		})
	}
	table.SetRows(rows)
	return tui.RenderTo(out, table)
}

func progressCell(p *float64) string {
	if p == nil {
		return "-"
	}
	return output.Percent(*p)
}

func stageCell(view monitor.StageView) string {
	switch {
	case !view.Status.IsKnown():
		return "-"
	case view.StageIndex == monitor.StageAllComplete:
		return "done"
	default:
		return fmt.Sprintf("%d/%d", view.StageIndex, monitor.StageCount)
	}
}
