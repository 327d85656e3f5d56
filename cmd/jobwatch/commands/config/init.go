package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/jobwatch/internal/config"
	"github.com/altuslabsxyz/jobwatch/internal/output"
	"github.com/altuslabsxyz/jobwatch/types/ctxconfig"
)

// initOptions holds the flags of the init subcommand.
type initOptions struct {
	force    bool
	template bool
}

// NewInitCmd creates the config init subcommand.
func NewInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize or reconfigure config.toml interactively",
		Long: `Initialize or reconfigure the config.toml file interactively.

By default, this runs an interactive setup that asks for the server URL and
display mode. If a config already exists, current values are shown as defaults.

Use --template to write a commented config file with every option at its
default instead of running the interactive setup.

Examples:
  # Interactive configuration (creates/updates ~/.jobwatch/config.toml)
  jobwatch config init

  # Generate a template config file
  jobwatch config init --template

  # Write defaults without prompting
  jobwatch config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctxconfig.FromContextOrDefault(cmd.Context())
			if opts.template {
				return runInitTemplate(cfg.HomeDir(), opts.force)
			}
			return runInitInteractive(cfg.HomeDir(), opts.force)
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false,
		"Overwrite existing config with defaults without prompting")
	cmd.Flags().BoolVarP(&opts.template, "template", "t", false,
		"Generate a template config file instead of interactive setup")

	return cmd
}

func runInitTemplate(homeDir string, force bool) error {
	writer := config.NewConfigWriter(homeDir)
	if writer.Exists() && !force {
		return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", writer.Path())
	}

	if err := writer.Write(&config.FileConfig{}); err != nil {
		return err
	}

	output.Success("Created config template: %s", writer.Path())
	output.Info("Edit the file to customize your settings.")
	return nil
}

func runInitInteractive(homeDir string, force bool) error {
	logger := output.DefaultLogger
	setup := config.NewInteractiveSetup(homeDir)

	// Check if terminal is interactive
	if !config.IsInteractive() {
		if force {
			// Non-interactive with --force: use defaults
			cfg := setup.RunWithDefaults()
			if err := setup.WriteConfig(cfg); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			logger.Success("Configuration saved to %s", setup.Path())
			return nil
		}
		return fmt.Errorf("interactive mode requires a terminal\nUse --template to generate a sample config file, or --force to use defaults")
	}

	if setup.ConfigExists() && !force {
		logger.Info("Existing configuration found. Current values will be shown as defaults.")
	}

	cfg, err := setup.Run()
	if err != nil {
		return err
	}

	if err := setup.WriteConfig(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Success("Configuration saved to %s", setup.Path())
	return nil
}
