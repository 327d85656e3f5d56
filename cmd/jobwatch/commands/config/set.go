package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"syscall"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/altuslabsxyz/jobwatch/internal/config"
	"github.com/altuslabsxyz/jobwatch/internal/output"
	"github.com/altuslabsxyz/jobwatch/types/ctxconfig"
)

// NewSetCmd creates the config set subcommand.
func NewSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> [value]",
		Short: "Set a configuration value",
		Long: `Set a value in config.toml. Keys may be written with dashes or underscores.

When the value is omitted it is read from the terminal; credentials
(api_token, session_cookie) are read without echo.

Available keys:
  server            Transcription server base URL
  status_path       Status endpoint path template containing {id}
  api_token         Bearer token sent with status requests
  session_cookie    Cookie header sent with status requests
  poll_interval     Wait between polls (e.g. "1s", "500ms")
  error_backoff     Wait after a failed poll
  request_timeout   Timeout of a single status request
  max_errors        Consecutive failed polls before giving up (0 = never)
  deadline          Give up after this long (0 = never)
  history           Record status history (true/false)
  history_backend   goleveldb, bolt or memory
  history_limit     Observations kept per job
  ui                auto, line or tui
  home, verbose, json, no_color

Examples:
  # Use another server
  jobwatch config set server https://transcribe.example.com

  # Store an API token (prompts for hidden input)
  jobwatch config set api-token

  # Poll every 5 seconds
  jobwatch config set poll-interval 5s`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runSet,
	}

	return cmd
}

func runSet(cmd *cobra.Command, args []string) error {
	cfg := ctxconfig.FromContextOrDefault(cmd.Context())
	key := config.NormalizeKey(args[0])
	if !config.IsKnownKey(key) {
		return fmt.Errorf("unknown config key: %s", args[0])
	}

	var value string
	if len(args) < 2 {
		var err error
		if config.SecretKeys[key] {
			value, err = promptSecretValue(cmd.ErrOrStderr(), key)
		} else {
			value, err = promptValue(cmd.ErrOrStderr(), cmd.InOrStdin(), key)
		}
		if err != nil {
			return err
		}
	} else {
		value = args[1]
	}

	writer := config.NewConfigWriter(cfg.HomeDir())
	fc, err := readConfigFile(writer.Path())
	if err != nil {
		return err
	}

	if err := config.SetValue(fc, key, value); err != nil {
		return err
	}
	if err := writer.Write(fc); err != nil {
		return err
	}

	display := value
	if config.SecretKeys[key] {
		display = "********"
	}
	output.Success("Set %s = %s", key, display)
	output.Info("Config saved to: %s", writer.Path())
	return nil
}

// readConfigFile reads only the home config file; values from ./config.toml
// or --config must not leak into it.
func readConfigFile(path string) (*config.FileConfig, error) {
	var fc config.FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &fc, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &fc, nil
}

func promptSecretValue(w io.Writer, key string) (string, error) {
	fmt.Fprintf(w, "Enter %s: ", key)
	byteValue, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("failed to read secret input: %w", err)
	}
	value := strings.TrimSpace(string(byteValue))
	if value == "" {
		return "", fmt.Errorf("value cannot be empty")
	}
	return value, nil
}

func promptValue(w io.Writer, r io.Reader, key string) (string, error) {
	fmt.Fprintf(w, "Enter %s: ", key)
	value, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("value cannot be empty")
	}
	return value, nil
}
