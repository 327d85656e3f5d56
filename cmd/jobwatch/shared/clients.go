package shared

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"

	"github.com/altuslabsxyz/jobwatch/internal/history"
	"github.com/altuslabsxyz/jobwatch/internal/monitor"
	"github.com/altuslabsxyz/jobwatch/internal/paths"
	"github.com/altuslabsxyz/jobwatch/internal/statusapi"
	"github.com/altuslabsxyz/jobwatch/types/ctxconfig"
)

// LogFileName is the diagnostic log written while the TUI owns the terminal.
const LogFileName = "jobwatch.log"

// NewStatusClient builds the status API client from the resolved config.
func NewStatusClient(cfg *ctxconfig.Config) (*statusapi.Client, error) {
	return statusapi.NewClient(statusapi.Config{
		ServerURL:     cfg.Server(),
		StatusPath:    cfg.StatusPath(),
		APIToken:      cfg.APIToken(),
		SessionCookie: cfg.SessionCookie(),
		Timeout:       cfg.RequestTimeout(),
	})
}

// OpenHistory opens the observation store, or returns nil when history is
// disabled.
func OpenHistory(cfg *ctxconfig.Config) (*history.Store, error) {
	if !cfg.HistoryEnabled() {
		return nil, nil
	}
	backend, err := history.ParseBackend(cfg.HistoryBackend())
	if err != nil {
		return nil, err
	}
	store, err := history.Open(backend, paths.HistoryPath(cfg.HomeDir()), history.Options{
		MaxPerJob: cfg.HistoryLimit(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

// MonitorConfig maps the resolved settings onto the monitor's polling config.
func MonitorConfig(cfg *ctxconfig.Config, logger log.Logger) *monitor.Config {
	mc := monitor.DefaultConfig()
	if cfg.PollInterval() > 0 {
		mc.Interval = cfg.PollInterval()
	}
	if cfg.ErrorBackoff() > 0 {
		mc.ErrorBackoff = cfg.ErrorBackoff()
	}
	if cfg.RequestTimeout() > 0 {
		mc.RequestTimeout = cfg.RequestTimeout()
	}
	mc.MaxConsecutiveErrors = cfg.MaxErrors()
	mc.Deadline = cfg.Deadline()
	if logger != nil {
		mc.Logger = logger
	}
	return mc
}

// NewDiagnosticLogger creates the structured logger for monitor diagnostics.
// Errors only by default, debug with --verbose, JSON lines with --json.
func NewDiagnosticLogger(w io.Writer, cfg *ctxconfig.Config) log.Logger {
	level := zerolog.ErrorLevel
	if cfg.Verbose() {
		level = zerolog.DebugLevel
	}

	opts := []log.Option{
		log.LevelOption(level),
		log.TimeFormatOption(time.Kitchen),
		log.ColorOption(!cfg.NoColor()),
	}
	if cfg.JSONMode() {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(w, opts...)
}

// OpenLogFile opens <home>/jobwatch.log for appending.
func OpenLogFile(cfg *ctxconfig.Config) (*os.File, error) {
	if err := paths.EnsureDir(cfg.HomeDir()); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(cfg.HomeDir(), LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
}
