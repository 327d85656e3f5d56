package config

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/jobwatch/internal/history"
	"github.com/altuslabsxyz/jobwatch/internal/monitor"
	"github.com/altuslabsxyz/jobwatch/internal/statusapi"
)

// Command-line flag names bound to configuration keys.
const (
	FlagHome           = "home"
	FlagNoColor        = "no-color"
	FlagVerbose        = "verbose"
	FlagJSON           = "json"
	FlagServer         = "server"
	FlagStatusPath     = "status-path"
	FlagAPIToken       = "token"
	FlagSessionCookie  = "cookie"
	FlagInterval       = "interval"
	FlagBackoff        = "backoff"
	FlagTimeout        = "timeout"
	FlagMaxErrors      = "max-errors"
	FlagDeadline       = "deadline"
	FlagNoHistory      = "no-history"
	FlagHistoryBackend = "history-backend"
	FlagUI             = "ui"
)

// DefaultServer is the service base URL used when nothing is configured.
const DefaultServer = "http://localhost:5000"

// UIMode selects how progress is displayed.
type UIMode string

const (
	UIAuto UIMode = "auto" // tui on a terminal, line output otherwise
	UILine UIMode = "line"
	UITUI  UIMode = "tui"
)

// ParseUIMode validates a ui setting.
func ParseUIMode(s string) (UIMode, error) {
	switch m := UIMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return UIAuto, nil
	case UIAuto, UILine, UITUI:
		return m, nil
	default:
		return "", fmt.Errorf("invalid ui: %s (must be 'auto', 'line' or 'tui')", s)
	}
}

// EffectiveConfig represents the final merged configuration after applying priority chain.
type EffectiveConfig struct {
	// Global settings
	Home    StringValue
	NoColor BoolValue
	Verbose BoolValue
	JSON    BoolValue

	// Server settings
	Server        StringValue
	StatusPath    StringValue
	APIToken      StringValue
	SessionCookie StringValue

	// Polling settings
	PollInterval   DurationValue
	ErrorBackoff   DurationValue
	RequestTimeout DurationValue
	MaxErrors      IntValue
	Deadline       DurationValue

	// History settings
	History        BoolValue
	HistoryBackend StringValue
	HistoryLimit   IntValue

	UI StringValue

	// Metadata
	ConfigFilePath string // Path to loaded config file (empty if none)
	EnvFilePath    string // Path to loaded .env file (empty if none)
}

// NewEffectiveConfig creates a new EffectiveConfig with default values.
func NewEffectiveConfig(defaultHomeDir string) *EffectiveConfig {
	return &EffectiveConfig{
		Home:           NewStringValue(defaultHomeDir),
		NoColor:        NewBoolValue(false),
		Verbose:        NewBoolValue(false),
		JSON:           NewBoolValue(false),
		Server:         NewStringValue(DefaultServer),
		StatusPath:     NewStringValue(statusapi.DefaultStatusPath),
		APIToken:       NewStringValue(""),
		SessionCookie:  NewStringValue(""),
		PollInterval:   NewDurationValue(monitor.DefaultInterval),
		ErrorBackoff:   NewDurationValue(monitor.DefaultErrorBackoff),
		RequestTimeout: NewDurationValue(monitor.DefaultRequestTimeout),
		MaxErrors:      NewIntValue(0),
		Deadline:       NewDurationValue(0),
		History:        NewBoolValue(true),
		HistoryBackend: NewStringValue(string(history.DefaultBackend)),
		HistoryLimit:   NewIntValue(history.DefaultMaxPerJob),
		UI:             NewStringValue(string(UIAuto)),
	}
}

// Resolve builds the effective configuration from, in increasing priority,
// built-in defaults, the merged config file, the .env file, the process
// environment and flags set on cmd. The result is validated.
func Resolve(cmd *cobra.Command, defaultHomeDir string, fc *FileConfig, env *Env) (*EffectiveConfig, error) {
	if fc == nil {
		fc = &FileConfig{}
	}
	c := NewEffectiveConfig(defaultHomeDir)

	c.Home = resolveString(cmd, FlagHome, c.Home.Value, fc.Home, env.Get(EnvHome))
	c.NoColor = resolveBool(cmd, FlagNoColor, c.NoColor.Value, fc.NoColor, env.Get(EnvNoColor))
	c.Verbose = resolveBool(cmd, FlagVerbose, c.Verbose.Value, fc.Verbose, EnvVar{})
	c.JSON = resolveBool(cmd, FlagJSON, c.JSON.Value, fc.JSON, EnvVar{})

	c.Server = resolveString(cmd, FlagServer, c.Server.Value, fc.Server, env.Get(EnvServer))
	c.StatusPath = resolveString(cmd, FlagStatusPath, c.StatusPath.Value, fc.StatusPath, env.Get(EnvStatusPath))
	c.APIToken = resolveString(cmd, FlagAPIToken, c.APIToken.Value, fc.APIToken, env.Get(EnvAPIToken))
	c.SessionCookie = resolveString(cmd, FlagSessionCookie, c.SessionCookie.Value, fc.SessionCookie, env.Get(EnvSessionCookie))

	var err error
	if c.PollInterval, err = resolveDuration(cmd, FlagInterval, c.PollInterval.Value, fc.PollInterval, env.Get(EnvPollInterval)); err != nil {
		return nil, fmt.Errorf("poll_interval: %w", err)
	}
	if c.ErrorBackoff, err = resolveDuration(cmd, FlagBackoff, c.ErrorBackoff.Value, fc.ErrorBackoff, env.Get(EnvErrorBackoff)); err != nil {
		return nil, fmt.Errorf("error_backoff: %w", err)
	}
	if c.RequestTimeout, err = resolveDuration(cmd, FlagTimeout, c.RequestTimeout.Value, fc.RequestTimeout, env.Get(EnvRequestTimeout)); err != nil {
		return nil, fmt.Errorf("request_timeout: %w", err)
	}
	if c.Deadline, err = resolveDuration(cmd, FlagDeadline, c.Deadline.Value, fc.Deadline, env.Get(EnvDeadline)); err != nil {
		return nil, fmt.Errorf("deadline: %w", err)
	}
	if c.MaxErrors, err = resolveInt(cmd, FlagMaxErrors, c.MaxErrors.Value, fc.MaxErrors, env.Get(EnvMaxErrors)); err != nil {
		return nil, fmt.Errorf("max_errors: %w", err)
	}

	v, src := ApplyBoolConfig(nil, "", c.History.Value, fc.History)
	c.History = BoolValue{Value: v, Source: src}
	if flagChanged(cmd, FlagNoHistory) {
		c.History = BoolValue{Value: !flagBool(cmd, FlagNoHistory, false), Source: SourceFlag}
	}
	c.HistoryBackend = resolveString(cmd, FlagHistoryBackend, c.HistoryBackend.Value, fc.HistoryBackend, env.Get(EnvHistoryBackend))
	if c.HistoryLimit, err = resolveInt(cmd, "", c.HistoryLimit.Value, fc.HistoryLimit, env.Get(EnvHistoryLimit)); err != nil {
		return nil, fmt.Errorf("history_limit: %w", err)
	}

	c.UI = resolveString(cmd, FlagUI, c.UI.Value, fc.UI, env.Get(EnvUI))

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func resolveString(cmd *cobra.Command, flagName, def string, file *string, env EnvVar) StringValue {
	v, src := ApplyStringConfig(cmd, flagName, flagString(cmd, flagName, def), file)
	v, src = ApplyEnvString(cmd, flagName, v, env, src)
	return StringValue{Value: v, Source: src}
}

func resolveBool(cmd *cobra.Command, flagName string, def bool, file *bool, env EnvVar) BoolValue {
	v, src := ApplyBoolConfig(cmd, flagName, flagBool(cmd, flagName, def), file)
	v, src = ApplyEnvBool(cmd, flagName, v, env, src)
	return BoolValue{Value: v, Source: src}
}

func resolveInt(cmd *cobra.Command, flagName string, def int, file *int, env EnvVar) (IntValue, error) {
	v, src := ApplyIntConfig(cmd, flagName, flagInt(cmd, flagName, def), file)
	v, src, err := ApplyEnvInt(cmd, flagName, v, env, src)
	return IntValue{Value: v, Source: src}, err
}

func resolveDuration(cmd *cobra.Command, flagName string, def time.Duration, file *string, env EnvVar) (DurationValue, error) {
	v, src, err := ApplyDurationConfig(cmd, flagName, flagDuration(cmd, flagName, def), file)
	if err != nil {
		return DurationValue{}, err
	}
	v, src, err = ApplyEnvDuration(cmd, flagName, v, env, src)
	return DurationValue{Value: v, Source: src}, err
}

// ToTable writes the configuration as a formatted table.
func (c *EffectiveConfig) ToTable(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
	fmt.Fprintf(tw, "home\t%s\t%s\n", c.Home.Value, c.Home.Source)
	fmt.Fprintf(tw, "no_color\t%t\t%s\n", c.NoColor.Value, c.NoColor.Source)
	fmt.Fprintf(tw, "verbose\t%t\t%s\n", c.Verbose.Value, c.Verbose.Source)
	fmt.Fprintf(tw, "json\t%t\t%s\n", c.JSON.Value, c.JSON.Source)
	fmt.Fprintf(tw, "server\t%s\t%s\n", c.Server.Value, c.Server.Source)
	fmt.Fprintf(tw, "status_path\t%s\t%s\n", c.StatusPath.Value, c.StatusPath.Source)
	fmt.Fprintf(tw, "api_token\t%s\t%s\n", maskToken(c.APIToken.Value), c.APIToken.Source)
	fmt.Fprintf(tw, "session_cookie\t%s\t%s\n", maskToken(c.SessionCookie.Value), c.SessionCookie.Source)
	fmt.Fprintf(tw, "poll_interval\t%s\t%s\n", c.PollInterval.Value, c.PollInterval.Source)
	fmt.Fprintf(tw, "error_backoff\t%s\t%s\n", c.ErrorBackoff.Value, c.ErrorBackoff.Source)
	fmt.Fprintf(tw, "request_timeout\t%s\t%s\n", c.RequestTimeout.Value, c.RequestTimeout.Source)
	fmt.Fprintf(tw, "max_errors\t%d\t%s\n", c.MaxErrors.Value, c.MaxErrors.Source)
	fmt.Fprintf(tw, "deadline\t%s\t%s\n", c.Deadline.Value, c.Deadline.Source)
	fmt.Fprintf(tw, "history\t%t\t%s\n", c.History.Value, c.History.Source)
	fmt.Fprintf(tw, "history_backend\t%s\t%s\n", c.HistoryBackend.Value, c.HistoryBackend.Source)
	fmt.Fprintf(tw, "history_limit\t%d\t%s\n", c.HistoryLimit.Value, c.HistoryLimit.Source)
	fmt.Fprintf(tw, "ui\t%s\t%s\n", c.UI.Value, c.UI.Source)
	tw.Flush()
}

// ToMap returns the values keyed like config.toml, with secrets masked.
func (c *EffectiveConfig) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"home":            c.Home.Value,
		"no_color":        c.NoColor.Value,
		"verbose":         c.Verbose.Value,
		"json":            c.JSON.Value,
		"server":          c.Server.Value,
		"status_path":     c.StatusPath.Value,
		"api_token":       maskToken(c.APIToken.Value),
		"session_cookie":  maskToken(c.SessionCookie.Value),
		"poll_interval":   c.PollInterval.Value.String(),
		"error_backoff":   c.ErrorBackoff.Value.String(),
		"request_timeout": c.RequestTimeout.Value.String(),
		"max_errors":      c.MaxErrors.Value,
		"deadline":        c.Deadline.Value.String(),
		"history":         c.History.Value,
		"history_backend": c.HistoryBackend.Value,
		"history_limit":   c.HistoryLimit.Value,
		"ui":              c.UI.Value,
		"config_file":     c.ConfigFilePath,
		"env_file":        c.EnvFilePath,
	}
}

// maskToken masks a credential for display, showing only first 4 and last 4 chars.
func maskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "****" + token[len(token)-4:]
}
