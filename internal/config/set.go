package config

import (
	"fmt"
	"strconv"
	"strings"
)

// SecretKeys are keys whose values are credentials.
var SecretKeys = map[string]bool{
	"api_token":      true,
	"session_cookie": true,
}

// NormalizeKey maps flag-style names (status-path) to config keys (status_path).
func NormalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}

// IsKnownKey reports whether key is a config.toml key.
func IsKnownKey(key string) bool {
	return knownKeys[NormalizeKey(key)]
}

// SetValue parses value for key and stores it in fc. The updated FileConfig
// is validated.
func SetValue(fc *FileConfig, key, value string) error {
	key = NormalizeKey(key)
	value = strings.TrimSpace(value)

	parseBool := func() (*bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %s (must be true or false)", key, value)
		}
		return &b, nil
	}
	parseInt := func() (*int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %s (must be an integer)", key, value)
		}
		return &n, nil
	}

	var err error
	switch key {
	case "home":
		fc.Home = &value
	case "no_color":
		fc.NoColor, err = parseBool()
	case "verbose":
		fc.Verbose, err = parseBool()
	case "json":
		fc.JSON, err = parseBool()
	case "server":
		fc.Server = &value
	case "status_path":
		fc.StatusPath = &value
	case "api_token":
		fc.APIToken = &value
	case "session_cookie":
		fc.SessionCookie = &value
	case "poll_interval":
		fc.PollInterval = &value
	case "error_backoff":
		fc.ErrorBackoff = &value
	case "request_timeout":
		fc.RequestTimeout = &value
	case "max_errors":
		fc.MaxErrors, err = parseInt()
	case "deadline":
		fc.Deadline = &value
	case "history":
		fc.History, err = parseBool()
	case "history_backend":
		fc.HistoryBackend = &value
	case "history_limit":
		fc.HistoryLimit, err = parseInt()
	case "ui":
		fc.UI = &value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	if err != nil {
		return err
	}

	return ValidateFileConfig(fc)
}
