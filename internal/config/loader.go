package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/altuslabsxyz/jobwatch/internal/output"
)

const (
	// FileName is the config file looked up in the home and working directories.
	FileName = "config.toml"
	// EnvFileName is the optional dotenv file in the home directory.
	EnvFileName = ".env"
)

// knownKeys lists every key FileConfig understands.
var knownKeys = map[string]bool{
	"home":            true,
	"no_color":        true,
	"verbose":         true,
	"json":            true,
	"server":          true,
	"status_path":     true,
	"api_token":       true,
	"session_cookie":  true,
	"poll_interval":   true,
	"error_backoff":   true,
	"request_timeout": true,
	"max_errors":      true,
	"deadline":        true,
	"history":         true,
	"history_backend": true,
	"history_limit":   true,
	"ui":              true,
}

// ConfigLoader is responsible for loading and merging configuration.
type ConfigLoader struct {
	homeDir    string
	configPath string // Explicit --config path
	workDir    string
	logger     *output.Logger
}

// NewConfigLoader creates a new ConfigLoader.
func NewConfigLoader(homeDir, configPath string, logger *output.Logger) *ConfigLoader {
	return &ConfigLoader{
		homeDir:    homeDir,
		configPath: configPath,
		workDir:    ".",
		logger:     logger,
	}
}

// LoadFileConfig loads and parses config files, merging them in priority order.
// Priority: explicit path > ./config.toml > <home>/config.toml
// All config files are merged, with higher priority values overwriting lower ones.
// Returns the merged FileConfig and the primary (highest priority) config file path.
func (l *ConfigLoader) LoadFileConfig() (*FileConfig, string, error) {
	var configFiles []string
	seen := make(map[string]bool)
	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if !seen[abs] {
			seen[abs] = true
			configFiles = append(configFiles, path)
		}
	}

	homePath := filepath.Join(l.homeDir, FileName)
	if _, err := os.Stat(homePath); err == nil {
		add(homePath)
	}

	localPath := filepath.Join(l.workDir, FileName)
	if _, err := os.Stat(localPath); err == nil {
		add(localPath)
	}

	if l.configPath != "" {
		if _, err := os.Stat(l.configPath); err != nil {
			return nil, "", fmt.Errorf("config file not found: %s", l.configPath)
		}
		add(l.configPath)
	}

	if len(configFiles) == 0 {
		return &FileConfig{}, "", nil
	}

	var merged FileConfig
	var primaryFile string
	for _, configFile := range configFiles {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}

		var cfg FileConfig
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, "", fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}

		mergeFileConfig(&merged, &cfg)
		primaryFile = configFile

		l.warnUnknownKeys(configFile, data)

		if l.logger != nil {
			l.logger.Debug("Loaded config file: %s", configFile)
		}
	}

	if err := ValidateFileConfig(&merged); err != nil {
		return nil, "", fmt.Errorf("config validation failed: %w", err)
	}

	return &merged, primaryFile, nil
}

// LoadEnvFile reads <home>/.env. The values are returned, not exported, so
// variables already set in the process environment keep priority.
// A missing file is not an error.
func (l *ConfigLoader) LoadEnvFile() (map[string]string, string, error) {
	path := filepath.Join(l.homeDir, EnvFileName)
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to load %s: %w", path, err)
	}

	if l.logger != nil {
		l.logger.Debug("Loaded env file: %s (%d values)", path, len(values))
	}
	return values, path, nil
}

// mergeFileConfig merges src into dst. Non-nil values in src overwrite dst.
func mergeFileConfig(dst, src *FileConfig) {
	if src.Home != nil {
		dst.Home = src.Home
	}
	if src.NoColor != nil {
		dst.NoColor = src.NoColor
	}
	if src.Verbose != nil {
		dst.Verbose = src.Verbose
	}
	if src.JSON != nil {
		dst.JSON = src.JSON
	}
	if src.Server != nil {
		dst.Server = src.Server
	}
	if src.StatusPath != nil {
		dst.StatusPath = src.StatusPath
	}
	if src.APIToken != nil {
		dst.APIToken = src.APIToken
	}
	if src.SessionCookie != nil {
		dst.SessionCookie = src.SessionCookie
	}
	if src.PollInterval != nil {
		dst.PollInterval = src.PollInterval
	}
	if src.ErrorBackoff != nil {
		dst.ErrorBackoff = src.ErrorBackoff
	}
	if src.RequestTimeout != nil {
		dst.RequestTimeout = src.RequestTimeout
	}
	if src.MaxErrors != nil {
		dst.MaxErrors = src.MaxErrors
	}
	if src.Deadline != nil {
		dst.Deadline = src.Deadline
	}
	if src.History != nil {
		dst.History = src.History
	}
	if src.HistoryBackend != nil {
		dst.HistoryBackend = src.HistoryBackend
	}
	if src.HistoryLimit != nil {
		dst.HistoryLimit = src.HistoryLimit
	}
	if src.UI != nil {
		dst.UI = src.UI
	}
}

// warnUnknownKeys checks for unknown keys in the config file and logs warnings.
func (l *ConfigLoader) warnUnknownKeys(path string, data []byte) {
	if l.logger == nil {
		return
	}

	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return
	}

	for key := range raw {
		if !knownKeys[key] {
			l.logger.Warn("Unknown config key in %s: %s", path, key)
		}
	}
}
