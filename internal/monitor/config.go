package monitor

import (
	"time"

	"cosmossdk.io/log"
)

const (
	// DefaultInterval is the wait between polls while the job is active.
	DefaultInterval = 1000 * time.Millisecond
	// DefaultErrorBackoff is the wait after a failed fetch.
	DefaultErrorBackoff = 2000 * time.Millisecond
	// DefaultRequestTimeout bounds a single status fetch.
	DefaultRequestTimeout = 10 * time.Second
)

// Config configures polling behavior.
type Config struct {
	// Interval is the wait between polls while the job is pending or
	// processing.
	Interval time.Duration

	// ErrorBackoff is the wait after a transport or decode failure.
	ErrorBackoff time.Duration

	// RequestTimeout bounds each status fetch.
	RequestTimeout time.Duration

	// MaxConsecutiveErrors stops the monitor after that many failed fetches
	// in a row. Zero means retry forever.
	MaxConsecutiveErrors int

	// Deadline bounds the whole run. Zero means no deadline.
	Deadline time.Duration

	// Logger receives diagnostics. Defaults to a no-op logger.
	Logger log.Logger

	// OnReport is called with every successfully fetched report, before the
	// view is rendered.
	OnReport func(report StatusReport)
}

// DefaultConfig returns the default polling configuration: poll every second,
// back off two seconds after an error, never give up.
func DefaultConfig() *Config {
	return &Config{
		Interval:       DefaultInterval,
		ErrorBackoff:   DefaultErrorBackoff,
		RequestTimeout: DefaultRequestTimeout,
		Logger:         log.NewNopLogger(),
	}
}

// withDefaults returns a copy of c with zero durations and a nil logger
// replaced by defaults.
func (c *Config) withDefaults() Config {
	var out Config
	if c != nil {
		out = *c
	}
	if out.Interval <= 0 {
		out.Interval = DefaultInterval
	}
	if out.ErrorBackoff <= 0 {
		out.ErrorBackoff = DefaultErrorBackoff
	}
	if out.RequestTimeout <= 0 {
		out.RequestTimeout = DefaultRequestTimeout
	}
	if out.MaxConsecutiveErrors < 0 {
		out.MaxConsecutiveErrors = 0
	}
	if out.Deadline < 0 {
		out.Deadline = 0
	}
	if out.Logger == nil {
		out.Logger = log.NewNopLogger()
	}
	return out
}
