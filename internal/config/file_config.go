package config

// FileConfig represents the raw config.toml file contents.
// All fields are pointers to distinguish "not set" from "set to zero/false".
type FileConfig struct {
	// Global settings
	Home    *string `toml:"home"`
	NoColor *bool   `toml:"no_color"`
	Verbose *bool   `toml:"verbose"`
	JSON    *bool   `toml:"json"`

	// Server settings
	Server        *string `toml:"server"`      // Base URL of the transcription service
	StatusPath    *string `toml:"status_path"` // Must contain {id}
	APIToken      *string `toml:"api_token"`
	SessionCookie *string `toml:"session_cookie"`

	// Polling settings, durations in time.ParseDuration form ("1s", "500ms")
	PollInterval   *string `toml:"poll_interval"`
	ErrorBackoff   *string `toml:"error_backoff"`
	RequestTimeout *string `toml:"request_timeout"`
	MaxErrors      *int    `toml:"max_errors"` // 0 retries forever
	Deadline       *string `toml:"deadline"`   // "0" or empty disables

	// History settings
	History        *bool   `toml:"history"`
	HistoryBackend *string `toml:"history_backend"` // goleveldb, bolt or memory
	HistoryLimit   *int    `toml:"history_limit"`   // observations kept per job

	// Display
	UI *string `toml:"ui"` // auto, line or tui
}

// IsEmpty returns true if no configuration values are set.
func (f *FileConfig) IsEmpty() bool {
	return f.Home == nil &&
		f.NoColor == nil &&
		f.Verbose == nil &&
		f.JSON == nil &&
		f.Server == nil &&
		f.StatusPath == nil &&
		f.APIToken == nil &&
		f.SessionCookie == nil &&
		f.PollInterval == nil &&
		f.ErrorBackoff == nil &&
		f.RequestTimeout == nil &&
		f.MaxErrors == nil &&
		f.Deadline == nil &&
		f.History == nil &&
		f.HistoryBackend == nil &&
		f.HistoryLimit == nil &&
		f.UI == nil
}
