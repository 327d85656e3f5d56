package core

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/jobwatch/cmd/jobwatch/shared"
	"github.com/altuslabsxyz/jobwatch/internal/monitor"
	"github.com/altuslabsxyz/jobwatch/types/ctxconfig"
)

// resolveOptions holds the flags of the resolve command.
type resolveOptions struct {
	progress float64
	status   string
	message  string
	format   string
}

// NewResolveCmd creates the resolve command.
func NewResolveCmd() *cobra.Command {
	opts := &resolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show the stage view for a progress value",
		Long: `Resolve maps an overall progress percentage and status onto the five
processing stages without contacting a server. Each stage covers 20% of the
overall progress.

Examples:
  # Which stage is a job at 45% in?
  jobwatch resolve --progress 45

  # A job that failed at 70%
  jobwatch resolve --progress 70 --status failed --message "model crashed"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, opts)
		},
	}

	cmd.Flags().Float64VarP(&opts.progress, flagProgress, "p", 0, "Overall progress percentage")
	cmd.Flags().StringVar(&opts.status, flagStatus, string(monitor.StatusProcessing),
		"Job status (pending, processing, completed, failed)")
	cmd.Flags().StringVarP(&opts.message, "message", "m", "", "Server message to append to the status text")
	cmd.Flags().StringVarP(&opts.format, "output", "o", "", "Output format: table, json or yaml")

	return cmd
}

func runResolve(cmd *cobra.Command, opts *resolveOptions) error {
	cfg := ctxconfig.FromContextOrDefault(cmd.Context())

	f, err := shared.ParseFormat(opts.format, cfg.JSONMode())
	if err != nil {
		return err
	}

	status := monitor.Status(strings.ToLower(strings.TrimSpace(opts.status)))
	if !status.IsKnown() {
		return fmt.Errorf("invalid --%s %q (valid: pending, processing, completed, failed)", flagStatus, opts.status)
	}

	view := monitor.Resolve(opts.progress, status, opts.message)
	if f != shared.FormatTable {
		return shared.WriteStructured(cmd.OutOrStdout(), f, newViewResult(view))
	}
	return writeViewTable(cmd.OutOrStdout(), view)
}
