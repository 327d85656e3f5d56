package core

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/jobwatch/cmd/jobwatch/shared"
	"github.com/altuslabsxyz/jobwatch/internal/config"
	"github.com/altuslabsxyz/jobwatch/internal/history"
	"github.com/altuslabsxyz/jobwatch/internal/monitor"
	"github.com/altuslabsxyz/jobwatch/internal/output"
	"github.com/altuslabsxyz/jobwatch/types/ctxconfig"
)

// checkResult is the structured output of the check command.
type checkResult struct {
	JobID  string               `json:"job_id" yaml:"job_id"`
	URL    string               `json:"url" yaml:"url"`
	Report monitor.StatusReport `json:"report" yaml:"report"`
	viewResult `yaml:",inline"`
}

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "check [job-id]",
		Short: "Query the status of a job once",
		Long: `Check issues a single status request and prints the server report together
with the resolved stage view.

Examples:
  # Show the current stage of job 42
  jobwatch check 42

  # Machine-readable output
  jobwatch check 42 -o json
  jobwatch check 42 -o yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, format)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "", "Output format: table, json or yaml")
	shared.AddServerFlags(cmd)
	shared.AddHistoryFlags(cmd)

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, format string) error {
	ctx := cmd.Context()
	cfg := ctxconfig.FromContextOrDefault(ctx)
	out := cmd.OutOrStdout()

	f, err := shared.ParseFormat(format, cfg.JSONMode())
	if err != nil {
		return err
	}

	store, err := shared.OpenHistory(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	interactive := config.IsInteractive() && f == shared.FormatTable
	jobID, err := shared.ResolveJobID(args, interactive, output.NewPrompter(), store)
	if err != nil {
		return err
	}
	id := monitor.JobID(jobID)

	client, err := shared.NewStatusClient(cfg)
	if err != nil {
		return err
	}

	var lastProgress float64
	if store != nil {
		last, err := store.Last(id)
		switch {
		case err == nil && last.Progress != nil:
			lastProgress = *last.Progress
		case err != nil && !errors.Is(err, history.ErrNotFound):
			return err
		}
	}

	report, err := client.FetchStatus(ctx, id)
	if err != nil {
		return err
	}

	if store != nil {
		if _, err := store.Record(id, *report, uuid.NewString()); err != nil {
			output.Warn("Failed to record observation: %v", err)
		}
	}

	view := monitor.ResolveReport(*report, lastProgress)
	result := checkResult{
		JobID:      jobID,
		URL:        client.StatusURL(id),
		Report:     *report,
		viewResult: newViewResult(view),
	}

	if f != shared.FormatTable {
		return shared.WriteStructured(out, f, result)
	}

	if !report.Status.IsKnown() {
		output.Warn("Server reported an unrecognized status %q", report.Status)
	}

	fmt.Fprintf(out, "Job %s\n", jobID)
	if err := writeViewTable(out, view); err != nil {
		return err
	}
	if report.RedirectURL != "" {
		fmt.Fprintf(out, "\nTranscript: %s\n", report.RedirectURL)
	}
	return nil
}
