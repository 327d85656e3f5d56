// Package paths provides centralized path management for jobwatch.
package paths

import (
	"os"
	"path/filepath"
)

// Directory constants relative to home directory.
const (
	HistoryDir = "history"
)

// File name constants.
const (
	ConfigFile      = "config.toml"
	EnvFile         = ".env"
	BoltHistoryFile = "history.db"
)

const DefaultHomeDirName = ".jobwatch"

// DefaultHomeDir returns $HOME/.jobwatch or falls back to current directory.
func DefaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultHomeDirName
	}
	return filepath.Join(home, DefaultHomeDirName)
}

// ConfigPath returns the config.toml path inside homeDir.
func ConfigPath(homeDir string) string {
	return filepath.Join(homeDir, ConfigFile)
}

// EnvFilePath returns the .env path inside homeDir.
func EnvFilePath(homeDir string) string {
	return filepath.Join(homeDir, EnvFile)
}

// HistoryPath returns the directory holding the observation store.
func HistoryPath(homeDir string) string {
	return filepath.Join(homeDir, HistoryDir)
}

// Exists returns true if path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir returns true if path is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// EnsureDir creates path and its parents if needed.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
