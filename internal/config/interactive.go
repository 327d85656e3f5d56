package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// ErrSetupCancelled is returned when the user aborts config init.
var ErrSetupCancelled = errors.New("configuration cancelled")

// InteractiveSetup handles interactive configuration prompts.
type InteractiveSetup struct {
	homeDir  string
	writer   *ConfigWriter
	defaults *FileConfig
}

// NewInteractiveSetup creates a new InteractiveSetup for the given home directory.
func NewInteractiveSetup(homeDir string) *InteractiveSetup {
	return &InteractiveSetup{
		homeDir:  homeDir,
		writer:   NewConfigWriter(homeDir),
		defaults: &FileConfig{},
	}
}

// IsInteractive returns true if the terminal supports interactive input.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ConfigExists returns true if config.toml exists in homeDir.
func (s *InteractiveSetup) ConfigExists() bool {
	return s.writer.Exists()
}

// Path returns where WriteConfig writes.
func (s *InteractiveSetup) Path() string {
	return s.writer.Path()
}

// LoadDefaults loads existing config values to use as defaults in prompts.
func (s *InteractiveSetup) LoadDefaults() *FileConfig {
	if !s.writer.Exists() {
		return s.defaults
	}

	loader := NewConfigLoader(s.homeDir, s.writer.Path(), nil)
	cfg, _, err := loader.LoadFileConfig()
	if err != nil {
		return s.defaults
	}

	s.defaults = cfg
	return cfg
}

// Run executes the interactive configuration flow.
// Returns the configured FileConfig or error if cancelled.
func (s *InteractiveSetup) Run() (*FileConfig, error) {
	cfg := s.LoadDefaults()

	fmt.Println()
	fmt.Println("Welcome to jobwatch configuration!")
	fmt.Println("Press Ctrl+C at any time to cancel.")
	fmt.Println()

	server, err := s.promptServer(cfg)
	if err != nil {
		return nil, err
	}
	cfg.Server = &server

	ui, err := s.promptUI(cfg)
	if err != nil {
		return nil, err
	}
	cfg.UI = &ui

	return cfg, nil
}

// RunWithDefaults returns a FileConfig with default values.
// Used when terminal is non-interactive.
func (s *InteractiveSetup) RunWithDefaults() *FileConfig {
	cfg := s.LoadDefaults()
	if cfg.Server == nil {
		server := DefaultServer
		cfg.Server = &server
	}
	if cfg.UI == nil {
		ui := string(UIAuto)
		cfg.UI = &ui
	}
	return cfg
}

// WriteConfig writes the configuration to homeDir/config.toml.
func (s *InteractiveSetup) WriteConfig(cfg *FileConfig) error {
	return s.writer.Write(cfg)
}

// promptServer prompts for the service base URL.
func (s *InteractiveSetup) promptServer(cfg *FileConfig) (string, error) {
	defaultValue := DefaultServer
	if cfg.Server != nil && *cfg.Server != "" {
		defaultValue = *cfg.Server
	}

	prompt := promptui.Prompt{
		Label:    "Server URL",
		Default:  defaultValue,
		Validate: ValidateServerURL,
		Templates: &promptui.PromptTemplates{
			Prompt:  "{{ . }}: ",
			Valid:   "{{ . | green }}: ",
			Invalid: "{{ . | red }}: ",
			Success: "✓ Server: ",
		},
	}

	result, err := prompt.Run()
	if err != nil {
		return "", handlePromptError(err)
	}
	return result, nil
}

// promptUI prompts the user to select the progress display.
func (s *InteractiveSetup) promptUI(cfg *FileConfig) (string, error) {
	options := []string{string(UIAuto), string(UILine), string(UITUI)}

	defaultIdx := 0
	if cfg.UI != nil {
		for i, o := range options {
			if o == *cfg.UI {
				defaultIdx = i
				break
			}
		}
	}

	prompt := promptui.Select{
		Label:     "Select progress display",
		Items:     options,
		CursorPos: defaultIdx,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "▸ {{ . | cyan }}",
			Inactive: "  {{ . }}",
			Selected: "✓ UI: {{ . | green }}",
		},
	}

	_, result, err := prompt.Run()
	if err != nil {
		return "", handlePromptError(err)
	}
	return result, nil
}

// handlePromptError converts promptui errors to user-friendly messages.
func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return ErrSetupCancelled
	}
	return err
}
