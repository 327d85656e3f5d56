package ctxconfig

import (
	"github.com/altuslabsxyz/jobwatch/internal/config"
)

// Builder provides a fluent interface for constructing Config from various sources.
type Builder struct {
	cfg *Config
}

// NewBuilder creates a new config builder.
func NewBuilder() *Builder {
	return &Builder{
		cfg: &Config{},
	}
}

// FromEffective copies every resolved value from ec.
func (b *Builder) FromEffective(ec *config.EffectiveConfig) *Builder {
	if ec == nil {
		return b
	}

	b.cfg.effective = ec
	b.cfg.homeDir = ec.Home.Value
	b.cfg.noColor = ec.NoColor.Value
	b.cfg.verbose = ec.Verbose.Value
	b.cfg.jsonMode = ec.JSON.Value
	b.cfg.server = ec.Server.Value
	b.cfg.statusPath = ec.StatusPath.Value
	b.cfg.apiToken = ec.APIToken.Value
	b.cfg.sessionCookie = ec.SessionCookie.Value
	b.cfg.pollInterval = ec.PollInterval.Value
	b.cfg.errorBackoff = ec.ErrorBackoff.Value
	b.cfg.requestTimeout = ec.RequestTimeout.Value
	b.cfg.maxErrors = ec.MaxErrors.Value
	b.cfg.deadline = ec.Deadline.Value
	b.cfg.historyEnabled = ec.History.Value
	b.cfg.historyBackend = ec.HistoryBackend.Value
	b.cfg.historyLimit = ec.HistoryLimit.Value
	if mode, err := config.ParseUIMode(ec.UI.Value); err == nil {
		b.cfg.uiMode = mode
	}

	return b
}

// WithFileConfig attaches the merged config file contents.
func (b *Builder) WithFileConfig(fc *config.FileConfig) *Builder {
	b.cfg.fileConfig = fc
	return b
}

// WithConfigPath sets the config file path.
func (b *Builder) WithConfigPath(path string) *Builder {
	b.cfg.configPath = path
	return b
}

// WithHomeDir sets the home directory.
func (b *Builder) WithHomeDir(dir string) *Builder {
	b.cfg.homeDir = dir
	return b
}

// Build returns the constructed Config.
func (b *Builder) Build() *Config {
	return b.cfg
}
