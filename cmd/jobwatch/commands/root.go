// Package commands provides the CLI command implementations for jobwatch.
// This file defines the root command and registers all subcommands.
package commands

import (
	"os"

	configcmd "github.com/altuslabsxyz/jobwatch/cmd/jobwatch/commands/config"
	"github.com/altuslabsxyz/jobwatch/cmd/jobwatch/commands/core"
	"github.com/altuslabsxyz/jobwatch/internal/config"
	"github.com/altuslabsxyz/jobwatch/internal/output"
	"github.com/altuslabsxyz/jobwatch/internal/paths"
	"github.com/altuslabsxyz/jobwatch/types/ctxconfig"
	"github.com/spf13/cobra"
)

// Command group IDs for organized help output.
const (
	GroupMain       = "main"
	GroupMonitoring = "monitoring"
	GroupAdvanced   = "advanced"
)

// Local variables for flag binding (Cobra requires pointers to local vars)
var (
	homeDir    string
	jsonMode   bool
	noColor    bool
	verbose    bool
	configPath string
)

// DefaultHomeDir returns the default home directory for jobwatch data.
func DefaultHomeDir() string {
	return paths.DefaultHomeDir()
}

// NewRootCmd creates the root command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobwatch",
		Short: "Watch transcription jobs through their processing stages",
		Long: `jobwatch follows a server-side transcription job by polling its status
endpoint and showing which of the five processing stages it is in:

  1. Preparing audio
  2. Transcribing speech
  3. Identifying speakers
  4. Aligning transcript
  5. Finalizing output

Examples:
  # Watch job 42 on the default server until it finishes
  jobwatch watch 42

  # Watch a job on another server, resuming from the last known progress
  jobwatch watch 42 --server https://transcribe.example.com

  # Query the current status once
  jobwatch check 42 -o json

  # See which stage a progress value falls into
  jobwatch resolve -p 45

  # Show recorded status history
  jobwatch history 42`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: persistentPreRunE,
	}

	// Global flags available on all commands
	cmd.PersistentFlags().StringVarP(&homeDir, config.FlagHome, "H", DefaultHomeDir(),
		"Base directory for jobwatch data")
	cmd.PersistentFlags().BoolVar(&jsonMode, config.FlagJSON, false,
		"Output in JSON format")
	cmd.PersistentFlags().BoolVar(&noColor, config.FlagNoColor, false,
		"Disable colored output")
	cmd.PersistentFlags().BoolVarP(&verbose, config.FlagVerbose, "v", false,
		"Enable verbose logging")
	cmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config.toml file")

	// Define command groups for organized help output
	cmd.AddGroup(&cobra.Group{ID: GroupMain, Title: "Main Commands:"})
	cmd.AddGroup(&cobra.Group{ID: GroupMonitoring, Title: "Monitoring Commands:"})
	cmd.AddGroup(&cobra.Group{ID: GroupAdvanced, Title: "Advanced Commands:"})

	// Register all commands
	registerCommands(cmd)

	return cmd
}

// persistentPreRunE handles configuration loading and global state setup.
// Priority: default < config.toml < .env < environment < flag
func persistentPreRunE(cmd *cobra.Command, args []string) error {
	loader := config.NewConfigLoader(loadHome(cmd), configPath, output.DefaultLogger)
	fileCfg, configFilePath, err := loader.LoadFileConfig()
	if err != nil {
		return err
	}

	envFile, envFilePath, err := loader.LoadEnvFile()
	if err != nil {
		return err
	}

	effective, err := config.Resolve(cmd, DefaultHomeDir(), fileCfg, config.NewEnv(envFile))
	if err != nil {
		return err
	}
	effective.ConfigFilePath = configFilePath
	effective.EnvFilePath = envFilePath

	cfg := ctxconfig.NewBuilder().
		FromEffective(effective).
		WithFileConfig(fileCfg).
		WithConfigPath(configPath).
		Build()

	// Apply global configuration to logger
	output.DefaultLogger.SetNoColor(cfg.NoColor())
	output.DefaultLogger.SetVerbose(cfg.Verbose())
	output.DefaultLogger.SetJSONMode(cfg.JSONMode())

	if configFilePath != "" {
		output.DefaultLogger.Debug("Using config file: %s", configFilePath)
	}
	if envFilePath != "" {
		output.DefaultLogger.Debug("Using env file: %s", envFilePath)
	}

	cmd.SetContext(ctxconfig.WithConfig(cmd.Context(), cfg))
	return nil
}

// loadHome picks the directory searched for config.toml and .env before the
// files themselves are read: --home, then JOBWATCH_HOME, then the default.
func loadHome(cmd *cobra.Command) string {
	if cmd.Flags().Changed(config.FlagHome) {
		return homeDir
	}
	if env := os.Getenv(config.EnvHome); env != "" {
		return env
	}
	return DefaultHomeDir()
}

// registerCommands registers all subcommands with appropriate group assignments.
func registerCommands(rootCmd *cobra.Command) {
	// Main commands
	watchCmd := core.NewWatchCmd()
	watchCmd.GroupID = GroupMain
	checkCmd := core.NewCheckCmd()
	checkCmd.GroupID = GroupMain

	// Monitoring commands
	historyCmd := core.NewHistoryCmd()
	historyCmd.GroupID = GroupMonitoring
	resolveCmd := core.NewResolveCmd()
	resolveCmd.GroupID = GroupMonitoring

	// Advanced commands
	configCmd := configcmd.NewConfigCmd()
	configCmd.GroupID = GroupAdvanced

	// Utility commands (no group - shown separately)
	versionCmd := core.NewVersionCmd()

	rootCmd.AddCommand(
		watchCmd,
		checkCmd,
		historyCmd,
		resolveCmd,
		configCmd,
		versionCmd,
	)
}
