package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigWriter handles writing configuration to homeDir/config.toml.
type ConfigWriter struct {
	homeDir string
}

// NewConfigWriter creates a new ConfigWriter for the given home directory.
func NewConfigWriter(homeDir string) *ConfigWriter {
	return &ConfigWriter{
		homeDir: homeDir,
	}
}

// Path returns the full path to config.toml in homeDir.
func (w *ConfigWriter) Path() string {
	return filepath.Join(w.homeDir, FileName)
}

// Exists returns true if config.toml already exists in homeDir.
func (w *ConfigWriter) Exists() bool {
	_, err := os.Stat(w.Path())
	return err == nil
}

// Write saves the FileConfig to homeDir/config.toml.
// Creates homeDir if it doesn't exist. The file may hold credentials, so it
// is written owner-only.
func (w *ConfigWriter) Write(cfg *FileConfig) error {
	if err := os.MkdirAll(w.homeDir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", w.homeDir, err)
	}

	content := w.generateTOMLWithComments(cfg)

	if err := os.WriteFile(w.Path(), []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// generateTOMLWithComments creates TOML content with section comments.
func (w *ConfigWriter) generateTOMLWithComments(cfg *FileConfig) string {
	if cfg == nil {
		cfg = &FileConfig{}
	}
	var b strings.Builder

	b.WriteString("# jobwatch configuration file\n")
	b.WriteString("# Priority: default < config.toml < .env < environment < CLI flag\n")
	b.WriteString("#\n")
	fmt.Fprintf(&b, "# Location: %s\n", w.Path())
	b.WriteString("# Override with: --config /path/to/config.toml\n")
	b.WriteString("\n")

	section(&b, "Global Settings (apply to all commands)")
	writeString(&b, "home", cfg.Home, "~/.jobwatch")
	writeBool(&b, "verbose", cfg.Verbose, false)
	writeBool(&b, "json", cfg.JSON, false)
	writeBool(&b, "no_color", cfg.NoColor, false)
	b.WriteString("\n")

	section(&b, "Server Settings")
	writeString(&b, "server", cfg.Server, DefaultServer)
	writeString(&b, "status_path", cfg.StatusPath, "/processing_status/{id}/check")
	writeString(&b, "api_token", cfg.APIToken, "")
	writeString(&b, "session_cookie", cfg.SessionCookie, "")
	b.WriteString("\n")

	section(&b, "Polling Settings")
	writeString(&b, "poll_interval", cfg.PollInterval, "1s")
	writeString(&b, "error_backoff", cfg.ErrorBackoff, "2s")
	writeString(&b, "request_timeout", cfg.RequestTimeout, "10s")
	writeInt(&b, "max_errors", cfg.MaxErrors, 0)
	writeString(&b, "deadline", cfg.Deadline, "0")
	b.WriteString("\n")

	section(&b, "History Settings")
	writeBool(&b, "history", cfg.History, true)
	writeString(&b, "history_backend", cfg.HistoryBackend, "goleveldb")
	writeInt(&b, "history_limit", cfg.HistoryLimit, 500)
	b.WriteString("\n")

	section(&b, "Display Settings")
	writeString(&b, "ui", cfg.UI, string(UIAuto))

	return b.String()
}

func section(b *strings.Builder, title string) {
	b.WriteString("# =============================================================================\n")
	fmt.Fprintf(b, "# %s\n", title)
	b.WriteString("# =============================================================================\n\n")
}

func writeString(b *strings.Builder, key string, v *string, def string) {
	if v != nil {
		fmt.Fprintf(b, "%s = %q\n", key, *v)
		return
	}
	fmt.Fprintf(b, "# %s = %q\n", key, def)
}

func writeInt(b *strings.Builder, key string, v *int, def int) {
	if v != nil {
		fmt.Fprintf(b, "%s = %d\n", key, *v)
		return
	}
	fmt.Fprintf(b, "# %s = %d\n", key, def)
}

func writeBool(b *strings.Builder, key string, v *bool, def bool) {
	if v != nil {
		fmt.Fprintf(b, "%s = %t\n", key, *v)
		return
	}
	fmt.Fprintf(b, "# %s = %t\n", key, def)
}
