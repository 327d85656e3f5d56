package core

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/jobwatch/internal"
	"github.com/altuslabsxyz/jobwatch/types/ctxconfig"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Show version information including build details.",
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}

	return cmd
}

func runVersion(cmd *cobra.Command, args []string) error {
	cfg := ctxconfig.FromContextOrDefault(cmd.Context())
	info := internal.VersionInfo()

	if cfg.JSONMode() {
		data, err := info.JSONString()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), data)
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), info.String())
	return nil
}
