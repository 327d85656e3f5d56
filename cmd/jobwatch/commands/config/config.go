// Package config provides configuration management commands for jobwatch.
package config

import "github.com/spf13/cobra"

// NewConfigCmd creates the config parent command with all subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage jobwatch configuration.

The config command provides subcommands to initialize and view configuration settings.

Subcommands:
  init    Generate a config.toml file
  show    Display current effective configuration with sources
  set     Set a configuration value

Examples:
  # Generate config file interactively
  jobwatch config init

  # Show current configuration
  jobwatch config show

  # Point jobwatch at another server
  jobwatch config set server https://transcribe.example.com`,
	}

	cmd.AddCommand(
		NewInitCmd(),
		NewShowCmd(),
		NewSetCmd(),
	)

	return cmd
}
