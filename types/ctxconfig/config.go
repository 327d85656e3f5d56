// Package ctxconfig provides context-based configuration management for jobwatch.
// The root command resolves the effective configuration once and attaches it
// to the command context; subcommands read it back with FromContext.
//
// Usage:
//
//	cfg := ctxconfig.New(
//	    ctxconfig.WithHomeDir("/path/to/home"),
//	    ctxconfig.WithServer("http://localhost:5000"),
//	)
//	ctx = ctxconfig.WithConfig(ctx, cfg)
//
//	server := ctxconfig.FromContext(ctx).Server()
package ctxconfig

import (
	"context"
	"time"

	"github.com/altuslabsxyz/jobwatch/internal/config"
)

// configKey is the unexported key type for storing config in context.
type configKey struct{}

// Config holds all configuration values that can be passed through context.
// All fields are private and accessed via methods to ensure immutability.
type Config struct {
	// Core settings
	homeDir    string
	configPath string

	// Output settings
	jsonMode bool
	noColor  bool
	verbose  bool
	uiMode   config.UIMode

	// Server settings
	server        string
	statusPath    string
	apiToken      string
	sessionCookie string

	// Polling settings
	pollInterval   time.Duration
	errorBackoff   time.Duration
	requestTimeout time.Duration
	maxErrors      int
	deadline       time.Duration

	// History settings
	historyEnabled bool
	historyBackend string
	historyLimit   int

	fileConfig *config.FileConfig
	effective  *config.EffectiveConfig
}

// Option is a functional option for configuring Config.
type Option func(*Config)

// New creates a new Config with the given options.
func New(opts ...Option) *Config {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Clone creates a copy of the Config with optional modifications.
func (c *Config) Clone(opts ...Option) *Config {
	if c == nil {
		return New(opts...)
	}
	clone := *c
	for _, opt := range opts {
		opt(&clone)
	}
	return &clone
}

// WithConfig returns a new context with the given config attached.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the Config from context.
// Returns nil if no config is present.
func FromContext(ctx context.Context) *Config {
	if ctx == nil {
		return nil
	}
	cfg, _ := ctx.Value(configKey{}).(*Config)
	return cfg
}

// MustFromContext retrieves the Config from context.
// Panics if no config is present.
func MustFromContext(ctx context.Context) *Config {
	cfg := FromContext(ctx)
	if cfg == nil {
		panic("ctxconfig: no config in context")
	}
	return cfg
}

// FromContextOrDefault retrieves the Config from context or returns an empty config.
func FromContextOrDefault(ctx context.Context) *Config {
	cfg := FromContext(ctx)
	if cfg == nil {
		return &Config{}
	}
	return cfg
}

// UpdateInContext clones the config in ctx (or an empty one) with opts
// applied and returns a context carrying the result.
func UpdateInContext(ctx context.Context, opts ...Option) context.Context {
	return WithConfig(ctx, FromContext(ctx).Clone(opts...))
}

// ─────────────────────────────────────────────────────────────────────────────
// Config Accessors (methods on Config)
// ─────────────────────────────────────────────────────────────────────────────

// HomeDir returns the home directory path.
func (c *Config) HomeDir() string {
	if c == nil {
		return ""
	}
	return c.homeDir
}

// ConfigPath returns the explicit --config path, if any.
func (c *Config) ConfigPath() string {
	if c == nil {
		return ""
	}
	return c.configPath
}

// JSONMode returns whether JSON output mode is enabled.
func (c *Config) JSONMode() bool {
	if c == nil {
		return false
	}
	return c.jsonMode
}

// NoColor returns whether color output is disabled.
func (c *Config) NoColor() bool {
	if c == nil {
		return false
	}
	return c.noColor
}

// Verbose returns whether verbose output is enabled.
func (c *Config) Verbose() bool {
	if c == nil {
		return false
	}
	return c.verbose
}

// UIMode returns the configured progress display.
func (c *Config) UIMode() config.UIMode {
	if c == nil || c.uiMode == "" {
		return config.UIAuto
	}
	return c.uiMode
}

// Server returns the service base URL.
func (c *Config) Server() string {
	if c == nil {
		return ""
	}
	return c.server
}

// StatusPath returns the status endpoint template.
func (c *Config) StatusPath() string {
	if c == nil {
		return ""
	}
	return c.statusPath
}

// APIToken returns the bearer token sent with status requests.
func (c *Config) APIToken() string {
	if c == nil {
		return ""
	}
	return c.apiToken
}

// SessionCookie returns the cookie header sent with status requests.
func (c *Config) SessionCookie() string {
	if c == nil {
		return ""
	}
	return c.sessionCookie
}

// PollInterval returns the wait between polls.
func (c *Config) PollInterval() time.Duration {
	if c == nil {
		return 0
	}
	return c.pollInterval
}

// ErrorBackoff returns the wait after a failed poll.
func (c *Config) ErrorBackoff() time.Duration {
	if c == nil {
		return 0
	}
	return c.errorBackoff
}

// RequestTimeout returns the per-request timeout.
func (c *Config) RequestTimeout() time.Duration {
	if c == nil {
		return 0
	}
	return c.requestTimeout
}

// MaxErrors returns the consecutive error limit, 0 for unlimited.
func (c *Config) MaxErrors() int {
	if c == nil {
		return 0
	}
	return c.maxErrors
}

// Deadline returns the overall watch deadline, 0 for none.
func (c *Config) Deadline() time.Duration {
	if c == nil {
		return 0
	}
	return c.deadline
}

// HistoryEnabled returns whether observations are recorded.
func (c *Config) HistoryEnabled() bool {
	if c == nil {
		return false
	}
	return c.historyEnabled
}

// HistoryBackend returns the history storage engine name.
func (c *Config) HistoryBackend() string {
	if c == nil {
		return ""
	}
	return c.historyBackend
}

// HistoryLimit returns the observations kept per job.
func (c *Config) HistoryLimit() int {
	if c == nil {
		return 0
	}
	return c.historyLimit
}

// FileConfig returns the merged config file contents, if loaded.
func (c *Config) FileConfig() *config.FileConfig {
	if c == nil {
		return nil
	}
	return c.fileConfig
}

// Effective returns the resolved configuration with value sources.
func (c *Config) Effective() *config.EffectiveConfig {
	if c == nil {
		return nil
	}
	return c.effective
}

// ─────────────────────────────────────────────────────────────────────────────
// Functional Options
// ─────────────────────────────────────────────────────────────────────────────

// WithHomeDir sets the home directory.
func WithHomeDir(dir string) Option {
	return func(c *Config) {
		c.homeDir = dir
	}
}

// WithConfigPath sets the config file path.
func WithConfigPath(path string) Option {
	return func(c *Config) {
		c.configPath = path
	}
}

// WithJSONMode sets JSON output mode.
func WithJSONMode(enabled bool) Option {
	return func(c *Config) {
		c.jsonMode = enabled
	}
}

// WithNoColor sets color output disable flag.
func WithNoColor(disabled bool) Option {
	return func(c *Config) {
		c.noColor = disabled
	}
}

// WithVerbose sets verbose output mode.
func WithVerbose(enabled bool) Option {
	return func(c *Config) {
		c.verbose = enabled
	}
}

// WithUIMode sets the progress display.
func WithUIMode(mode config.UIMode) Option {
	return func(c *Config) {
		c.uiMode = mode
	}
}

// WithServer sets the service base URL.
func WithServer(server string) Option {
	return func(c *Config) {
		c.server = server
	}
}

// WithStatusPath sets the status endpoint template.
func WithStatusPath(path string) Option {
	return func(c *Config) {
		c.statusPath = path
	}
}

// WithCredentials sets the bearer token and session cookie.
func WithCredentials(token, cookie string) Option {
	return func(c *Config) {
		c.apiToken = token
		c.sessionCookie = cookie
	}
}

// WithPolling sets the poll interval, error backoff and request timeout.
func WithPolling(interval, backoff, timeout time.Duration) Option {
	return func(c *Config) {
		c.pollInterval = interval
		c.errorBackoff = backoff
		c.requestTimeout = timeout
	}
}

// WithLimits sets the consecutive error limit and the overall deadline.
func WithLimits(maxErrors int, deadline time.Duration) Option {
	return func(c *Config) {
		c.maxErrors = maxErrors
		c.deadline = deadline
	}
}

// WithHistory sets the history settings.
func WithHistory(enabled bool, backend string, limit int) Option {
	return func(c *Config) {
		c.historyEnabled = enabled
		c.historyBackend = backend
		c.historyLimit = limit
	}
}

// WithFileConfig attaches the merged config file contents.
func WithFileConfig(fc *config.FileConfig) Option {
	return func(c *Config) {
		c.fileConfig = fc
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Context-level Accessors (shortcuts for common operations)
// ─────────────────────────────────────────────────────────────────────────────

// HomeDirFromContext retrieves the HomeDir directly from context.
// Returns empty string if not found.
func HomeDirFromContext(ctx context.Context) string {
	return FromContext(ctx).HomeDir()
}

// ServerFromContext retrieves the Server directly from context.
// Returns empty string if not found.
func ServerFromContext(ctx context.Context) string {
	return FromContext(ctx).Server()
}

// VerboseFromContext retrieves the Verbose flag directly from context.
// Returns false if not found.
func VerboseFromContext(ctx context.Context) bool {
	return FromContext(ctx).Verbose()
}

// JSONModeFromContext retrieves the JSONMode flag directly from context.
// Returns false if not found.
func JSONModeFromContext(ctx context.Context) bool {
	return FromContext(ctx).JSONMode()
}
