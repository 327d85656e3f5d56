package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/altuslabsxyz/jobwatch/internal/history"
)

// Validate validates the EffectiveConfig values against allowed ranges and types.
func (c *EffectiveConfig) Validate() error {
	if err := validateServer(c.Server.Value); err != nil {
		return err
	}
	if err := validateStatusPath(c.StatusPath.Value); err != nil {
		return err
	}

	if c.PollInterval.Value <= 0 {
		return fmt.Errorf("invalid poll_interval: %s (must be positive)", c.PollInterval.Value)
	}
	if c.ErrorBackoff.Value <= 0 {
		return fmt.Errorf("invalid error_backoff: %s (must be positive)", c.ErrorBackoff.Value)
	}
	if c.RequestTimeout.Value <= 0 {
		return fmt.Errorf("invalid request_timeout: %s (must be positive)", c.RequestTimeout.Value)
	}
	if c.Deadline.Value < 0 {
		return fmt.Errorf("invalid deadline: %s (must not be negative)", c.Deadline.Value)
	}
	if c.MaxErrors.Value < 0 {
		return fmt.Errorf("invalid max_errors: %d (must be 0 or more)", c.MaxErrors.Value)
	}

	if _, err := history.ParseBackend(c.HistoryBackend.Value); err != nil {
		return err
	}
	if c.HistoryLimit.Value < 1 {
		return fmt.Errorf("invalid history_limit: %d (must be at least 1)", c.HistoryLimit.Value)
	}

	if _, err := ParseUIMode(c.UI.Value); err != nil {
		return err
	}

	return nil
}

// ValidateFileConfig validates the FileConfig values before merging.
// This is called when loading the config file to provide early error messages.
func ValidateFileConfig(cfg *FileConfig) error {
	if cfg == nil {
		return nil
	}

	if cfg.Server != nil {
		if err := validateServer(*cfg.Server); err != nil {
			return fmt.Errorf("%w in config file", err)
		}
	}
	if cfg.StatusPath != nil {
		if err := validateStatusPath(*cfg.StatusPath); err != nil {
			return fmt.Errorf("%w in config file", err)
		}
	}

	durations := []struct {
		key   string
		value *string
	}{
		{"poll_interval", cfg.PollInterval},
		{"error_backoff", cfg.ErrorBackoff},
		{"request_timeout", cfg.RequestTimeout},
		{"deadline", cfg.Deadline},
	}
	for _, d := range durations {
		if d.value == nil {
			continue
		}
		if _, err := ParseDuration(*d.value); err != nil {
			return fmt.Errorf("invalid %s in config file: %w", d.key, err)
		}
	}

	if cfg.MaxErrors != nil && *cfg.MaxErrors < 0 {
		return fmt.Errorf("invalid max_errors in config file: %d (must be 0 or more)", *cfg.MaxErrors)
	}
	if cfg.HistoryLimit != nil && *cfg.HistoryLimit < 1 {
		return fmt.Errorf("invalid history_limit in config file: %d (must be at least 1)", *cfg.HistoryLimit)
	}
	if cfg.HistoryBackend != nil {
		if _, err := history.ParseBackend(*cfg.HistoryBackend); err != nil {
			return fmt.Errorf("%w in config file", err)
		}
	}
	if cfg.UI != nil {
		if _, err := ParseUIMode(*cfg.UI); err != nil {
			return fmt.Errorf("%w in config file", err)
		}
	}

	return nil
}

// ValidateServerURL checks that s is an absolute http(s) URL.
func ValidateServerURL(s string) error {
	return validateServer(s)
}

func validateServer(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid server: %q (must be an http or https URL)", s)
	}
	return nil
}

func validateStatusPath(s string) error {
	if !strings.Contains(s, "{id}") {
		return fmt.Errorf("invalid status_path: %q (must contain {id})", s)
	}
	return nil
}
