package config

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/jobwatch/internal/config"
	"github.com/altuslabsxyz/jobwatch/types/ctxconfig"
)

// NewShowCmd creates the config show subcommand.
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current effective configuration",
		Long: `Display the current effective configuration with sources.

Shows all configuration values and where they came from:
  - default: Built-in default value
  - config.toml: Value from config file
  - .env: Value from the .env file in the home directory
  - environment: Value from environment variable
  - flag: Value from command-line flag

Examples:
  # Show current configuration
  jobwatch config show

  # Machine-readable output
  jobwatch config show --json`,
		Args: cobra.NoArgs,
		RunE: runShow,
	}

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	ctxCfg := ctxconfig.FromContextOrDefault(cmd.Context())
	out := cmd.OutOrStdout()

	cfg := ctxCfg.Effective()
	if cfg == nil {
		cfg = config.NewEffectiveConfig(ctxCfg.HomeDir())
	}

	if ctxCfg.JSONMode() {
		data, err := json.MarshalIndent(cfg.ToMap(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	cfg.ToTable(out)

	if cfg.ConfigFilePath != "" {
		fmt.Fprintf(out, "\nConfig file: %s\n", cfg.ConfigFilePath)
	} else {
		fmt.Fprintln(out, "\nNo config file loaded")
	}
	if cfg.EnvFilePath != "" {
		fmt.Fprintf(out, "Env file:    %s\n", cfg.EnvFilePath)
	}

	return nil
}
